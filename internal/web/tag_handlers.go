package web

import (
	"net/http"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
	"github.com/FACorreiaa/ledger/internal/model"
)

type tagsView struct {
	Tags []model.Tag
}

func (h *Handlers) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.ledgerSvc.ListTags(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render(w, r, h.tmpl, "tags", "fragment:tags", tagsView{Tags: tags})
}

type tagFormView struct {
	Error string
	Name  string
}

func (h *Handlers) NewTagForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.tmpl, "tag_form", "fragment:tag_form", tagFormView{})
}

func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	if _, err := h.ledgerSvc.CreateTag(r.Context(), name); err != nil {
		h.rerenderTagForm(w, r, name, err)
		return
	}
	redirectForForm(w, r, r.FormValue("redirect_url"), TagsView)
}

func (h *Handlers) EditTagForm(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tags, err := h.ledgerSvc.ListTags(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	for _, t := range tags {
		if t.ID == id {
			render(w, r, h.tmpl, "tag_form", "fragment:tag_form", tagFormView{Name: t.Name})
			return
		}
	}
	writeError(w, r, ledgererr.New(ledgererr.NotFound, "tag not found"))
}

func (h *Handlers) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	name := r.FormValue("name")
	if err := h.ledgerSvc.UpdateTag(r.Context(), id, name); err != nil {
		h.rerenderTagForm(w, r, name, err)
		return
	}
	redirectForForm(w, r, r.FormValue("redirect_url"), TagsView)
}

func (h *Handlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.ledgerSvc.DeleteTag(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) rerenderTagForm(w http.ResponseWriter, r *http.Request, name string, err error) {
	w.WriteHeader(statusFor(ledgererr.KindOf(err)))
	render(w, r, h.tmpl, "tag_form", "fragment:tag_form", tagFormView{Error: err.Error(), Name: name})
}
