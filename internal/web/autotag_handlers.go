package web

import (
	"log/slog"
	"net/http"
)

// AutotagAll re-classifies every transaction, overwriting existing tags
// (spec.md §4.4 "All transactions" mode).
func (h *Handlers) AutotagAll(w http.ResponseWriter, r *http.Request) {
	applied, err := h.tagger.ApplyAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "auto-tag all completed", slog.Int("rows_tagged", applied))
	redirectForForm(w, r, r.FormValue("redirect_url"), TransactionsView)
}

// AutotagUntagged classifies only untagged transactions (spec.md §4.4
// "Untagged only" mode).
func (h *Handlers) AutotagUntagged(w http.ResponseWriter, r *http.Request) {
	applied, err := h.tagger.ApplyUntagged(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "auto-tag untagged completed", slog.Int("rows_tagged", applied))
	redirectForForm(w, r, r.FormValue("redirect_url"), QuickTaggingView)
}
