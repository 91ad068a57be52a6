package web

import (
	"html/template"
	"log/slog"
	"net/http"
)

// render executes a named template, choosing between a full page and a
// fragment the way C7/C8's response contract requires: an HTMX request
// (the "HX-Request" header) gets only the fragment defined by
// fragmentName, a normal navigation gets the full page wrapping it.
func render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, pageName, fragmentName string, data any) {
	name := pageName
	if r.Header.Get("HX-Request") == "true" && fragmentName != "" {
		name = fragmentName
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Default().Error("failed executing template", slog.String("template", name), slog.Any("error", err))
	}
}

// redirectForForm honors spec.md §4.7's redirect_url round-trip: a
// non-HTMX form submission redirects to redirectURL when present,
// otherwise to fallback; an HTMX submission instead sets HX-Redirect so
// htmx performs the client-side navigation itself.
func redirectForForm(w http.ResponseWriter, r *http.Request, redirectURL, fallback string) {
	target := fallback
	if redirectURL != "" {
		target = redirectURL
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
