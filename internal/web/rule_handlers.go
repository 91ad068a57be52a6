package web

import (
	"net/http"

	"github.com/FACorreiaa/ledger/internal/domain/ledger"
	"github.com/FACorreiaa/ledger/internal/ledgererr"
	"github.com/FACorreiaa/ledger/internal/model"
)

type rulesView struct {
	Rules []ledger.RuleView
}

func (h *Handlers) Rules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.ledgerSvc.ListRules(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render(w, r, h.tmpl, "rules", "fragment:rules", rulesView{Rules: rules})
}

type ruleFormView struct {
	Error   string
	Pattern string
	Tags    []model.Tag
}

func (h *Handlers) NewRuleForm(w http.ResponseWriter, r *http.Request) {
	tags, err := h.ledgerSvc.ListTags(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render(w, r, h.tmpl, "rule_form", "fragment:rule_form", ruleFormView{Tags: tags})
}

func (h *Handlers) CreateRule(w http.ResponseWriter, r *http.Request) {
	pattern := r.FormValue("pattern")
	tagID, err := requiredTagID(r, "tag_id")
	if err != nil {
		h.rerenderRuleForm(w, r, pattern, err)
		return
	}
	if _, err := h.ledgerSvc.CreateRule(r.Context(), pattern, tagID); err != nil {
		h.rerenderRuleForm(w, r, pattern, err)
		return
	}
	redirectForForm(w, r, r.FormValue("redirect_url"), RulesView)
}

func (h *Handlers) EditRuleForm(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rules, err := h.ledgerSvc.ListRules(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	tags, err := h.ledgerSvc.ListTags(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	for _, rv := range rules {
		if rv.ID == id {
			render(w, r, h.tmpl, "rule_form", "fragment:rule_form", ruleFormView{Pattern: rv.Pattern, Tags: tags})
			return
		}
	}
	writeError(w, r, ledgererr.New(ledgererr.NotFound, "rule not found"))
}

func (h *Handlers) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pattern := r.FormValue("pattern")
	tagID, err := requiredTagID(r, "tag_id")
	if err != nil {
		h.rerenderRuleForm(w, r, pattern, err)
		return
	}
	if err := h.ledgerSvc.UpdateRule(r.Context(), id, pattern, tagID); err != nil {
		h.rerenderRuleForm(w, r, pattern, err)
		return
	}
	redirectForForm(w, r, r.FormValue("redirect_url"), RulesView)
}

func (h *Handlers) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.ledgerSvc.DeleteRule(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) rerenderRuleForm(w http.ResponseWriter, r *http.Request, pattern string, err error) {
	tags, tagErr := h.ledgerSvc.ListTags(r.Context())
	if tagErr != nil {
		writeError(w, r, tagErr)
		return
	}
	w.WriteHeader(statusFor(ledgererr.KindOf(err)))
	render(w, r, h.tmpl, "rule_form", "fragment:rule_form", ruleFormView{Error: err.Error(), Pattern: pattern, Tags: tags})
}
