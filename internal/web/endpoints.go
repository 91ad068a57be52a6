// Package web wires every domain package behind a chi router: the
// endpoint table from spec.md §6, form decoding, and minimal html/template
// views for the full-page / HTMX-fragment response contract.
package web

import "strconv"

// Page routes (served HTML, chi-style "{param}" path parameters).
const (
	Root                = "/"
	DashboardView       = "/dashboard"
	TransactionsView    = "/transactions"
	NewTransactionView  = "/transactions/new"
	EditTransactionView = "/transactions/{id}/edit"
	ImportView          = "/transactions/import"
	QuickTaggingView    = "/transactions/quick-tagging"
	BalancesView        = "/balances"
	TagsView            = "/tags"
	NewTagView          = "/tag/new"
	EditTagView         = "/tags/{id}/edit"
	RulesView           = "/rules"
	NewRuleView         = "/rules/new"
	EditRuleView        = "/rules/{id}/edit"
	RegisterView        = "/register"
	LoginView           = "/log_in"
)

// API routes (JSON/form POST-PUT-DELETE + HTMX fragment responses).
const (
	TransactionsAPI  = "/api/transactions"
	TransactionAPI   = "/api/transactions/{id}"
	ImportAPI        = "/api/import"
	QuickTaggingAPI  = "/api/quick-tagging/apply"
	TagAPI           = "/api/tags/{id}"
	PostTagAPI       = "/api/tag"
	RuleAPI          = "/api/rules/{id}"
	PostRuleAPI      = "/api/rules"
	AutotagAllAPI    = "/api/autotag/all"
	AutotagUntagged  = "/api/autotag/untagged"
	RegisterAPI      = "/api/register"
	LoginAPI         = "/api/log_in"
	LogoutAPI        = "/api/log_out"
)

// FormatID replaces a single "{param}" placeholder in path with id,
// matching endpoints::format_endpoint's lone-parameter assumption.
func FormatID(path string, id int64) string {
	start := -1
	end := -1
	for i, c := range path {
		switch c {
		case '{':
			start = i
		case '}':
			if start >= 0 {
				end = i + 1
			}
		}
		if end >= 0 {
			break
		}
	}
	if start < 0 || end < 0 {
		return path
	}

	return path[:start] + strconv.FormatInt(id, 10) + path[end:]
}
