package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/FACorreiaa/ledger/internal/model"
)

type quickTaggingEntry struct {
	TransactionID model.DatabaseID
	Description   string
}

type quickTaggingView struct {
	Entries []quickTaggingEntry
	Tags    []model.Tag
}

// QuickTaggingQueue renders the untagged-transaction queue alongside the
// full tag list, so each entry can offer a tag-select dropdown.
func (h *Handlers) QuickTaggingQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	untagged, err := h.ledgerSvc.ListUntagged(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tags, err := h.ledgerSvc.ListTags(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries := make([]quickTaggingEntry, len(untagged))
	for i, tx := range untagged {
		entries[i] = quickTaggingEntry{TransactionID: tx.ID, Description: tx.Description}
	}

	render(w, r, h.tmpl, "quick_tagging", "fragment:quick_tagging", quickTaggingView{
		Entries: entries,
		Tags:    tags,
	})
}

// ApplyQuickTagging decodes the batch form (spec.md §6: "keys of the
// form tag_id_{transaction_id} ... plus zero-or-more repeated dismiss
// keys ... For any transaction appearing in both lists, the tag
// assignment wins") and applies it in one write.
func (h *Handlers) ApplyQuickTagging(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, err)
		return
	}

	assignments := map[model.DatabaseID]model.DatabaseID{}
	for key, values := range r.PostForm {
		txIDStr, ok := strings.CutPrefix(key, "tag_id_")
		if !ok || len(values) == 0 || values[0] == "" {
			continue
		}
		txID, err := strconv.ParseInt(txIDStr, 10, 64)
		if err != nil {
			continue
		}
		tagID, err := strconv.ParseInt(values[0], 10, 64)
		if err != nil {
			continue
		}
		assignments[model.DatabaseID(txID)] = model.DatabaseID(tagID)
	}

	var dismissals []model.DatabaseID
	for _, raw := range r.PostForm["dismiss"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		dismissals = append(dismissals, model.DatabaseID(id))
	}

	if err := h.ledgerSvc.ApplyQuickTagging(r.Context(), assignments, dismissals); err != nil {
		writeError(w, r, err)
		return
	}

	redirectForForm(w, r, r.FormValue("redirect_url"), QuickTaggingView)
}
