package web

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRenderTemplates() *template.Template {
	return template.Must(template.New("pages").Parse(`
{{define "page"}}<html>{{template "fragment:page" .}}</html>{{end}}
{{define "fragment:page"}}<div>{{.}}</div>{{end}}
`))
}

func TestRender_NormalRequestGetsFullPage(t *testing.T) {
	tmpl := testRenderTemplates()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()

	render(rec, r, tmpl, "page", "fragment:page", "hi")

	assert.Contains(t, rec.Body.String(), "<html>")
	assert.Contains(t, rec.Body.String(), "<div>hi</div>")
}

func TestRender_HTMXRequestGetsFragmentOnly(t *testing.T) {
	tmpl := testRenderTemplates()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	render(rec, r, tmpl, "page", "fragment:page", "hi")

	assert.NotContains(t, rec.Body.String(), "<html>")
	assert.Contains(t, rec.Body.String(), "<div>hi</div>")
}

func TestRender_EmptyFragmentNameAlwaysUsesPage(t *testing.T) {
	tmpl := testRenderTemplates()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	render(rec, r, tmpl, "page", "", "hi")

	assert.Contains(t, rec.Body.String(), "<html>")
}

func TestRedirectForForm_NormalSubmissionHonorsRedirectURL(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/x", nil)
	rec := httptest.NewRecorder()

	redirectForForm(rec, r, "/custom", "/fallback")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/custom", rec.Header().Get("Location"))
}

func TestRedirectForForm_NormalSubmissionFallsBackWhenEmpty(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/x", nil)
	rec := httptest.NewRecorder()

	redirectForForm(rec, r, "", "/fallback")

	assert.Equal(t, "/fallback", rec.Header().Get("Location"))
}

func TestRedirectForForm_HTMXSubmissionSetsHXRedirectHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/x", nil)
	r.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	redirectForForm(rec, r, "/custom", "/fallback")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/custom", rec.Header().Get("HX-Redirect"))
	assert.Empty(t, rec.Header().Get("Location"))
}
