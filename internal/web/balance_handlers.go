package web

import (
	"net/http"

	"github.com/FACorreiaa/ledger/internal/model"
)

type balancesView struct {
	Accounts []model.Account
}

// Balances renders every account's current balance snapshot.
func (h *Handlers) Balances(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.ledgerSvc.ListAccounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render(w, r, h.tmpl, "balances", "fragment:balances", balancesView{Accounts: accounts})
}
