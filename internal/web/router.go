package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/FACorreiaa/ledger/internal/domain/auth"
	"github.com/FACorreiaa/ledger/pkg/db"
	"github.com/FACorreiaa/ledger/pkg/observability"
)

// NewRouter assembles the chi router: request-id/logging/recovery
// middleware, the process-wide rate limiter, metrics, health checks, and
// every route from the endpoint table (spec.md §6), grouped the way
// AntoineToussaint-timeoff's api/server.go nests r.Route blocks.
func NewRouter(h *Handlers, store *db.DB) http.Handler {
	auth.SetLoginPath(LoginView)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(observability.Middleware)
	r.Use(RateLimit(h.cfg.RateLimit))

	registerUtilityRoutes(r, store, h)

	guard := auth.Guard(h.codec, h.logger)
	guardHX := auth.GuardHX(h.codec, h.logger)

	r.Get(Root, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, DashboardView, http.StatusSeeOther)
	})
	r.Get(RegisterView, h.RegisterForm)
	r.Post(RegisterAPI, h.Register)
	r.Get(LoginView, h.LoginForm)
	r.Post(LoginAPI, h.Login)

	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Get(DashboardView, h.Dashboard)
		r.Post(LogoutAPI, h.Logout)

		r.Get(TransactionsView, h.Transactions)
		r.Get(NewTransactionView, h.NewTransactionForm)
		r.Get(EditTransactionView, h.EditTransactionForm)

		r.Get(ImportView, h.ImportForm)
		r.Get(QuickTaggingView, h.QuickTaggingQueue)
		r.Get(BalancesView, h.Balances)

		r.Get(TagsView, h.Tags)
		r.Get(NewTagView, h.NewTagForm)
		r.Get(EditTagView, h.EditTagForm)

		r.Get(RulesView, h.Rules)
		r.Get(NewRuleView, h.NewRuleForm)
		r.Get(EditRuleView, h.EditRuleForm)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(guardHX)

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", h.CreateTransaction)
			r.Put("/{id}", h.UpdateTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})
		r.Post("/import", h.Import)
		r.Post("/quick-tagging/apply", h.ApplyQuickTagging)

		r.Post("/tag", h.CreateTag)
		r.Route("/tags", func(r chi.Router) {
			r.Put("/{id}", h.UpdateTag)
			r.Delete("/{id}", h.DeleteTag)
		})

		r.Post("/rules", h.CreateRule)
		r.Route("/rules/{id}", func(r chi.Router) {
			r.Put("/", h.UpdateRule)
			r.Delete("/", h.DeleteRule)
		})

		r.Route("/autotag", func(r chi.Router) {
			r.Post("/all", h.AutotagAll)
			r.Post("/untagged", h.AutotagUntagged)
		})
	})

	return r
}

// registerUtilityRoutes mounts /health, /health/details, /ready, and
// (when enabled) /metrics, grounded on the teacher's
// cmd/api/router.go#registerUtilityRoutes.
func registerUtilityRoutes(r chi.Router, store *db.DB, h *Handlers) {
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := store.Health(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unhealthy"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/health/details", func(w http.ResponseWriter, req *http.Request) {
		type status struct {
			Status string `json:"status"`
			Detail string `json:"detail,omitempty"`
		}
		result := map[string]status{"db": {Status: "ok"}, "ready": {Status: "ok"}}
		if err := store.Health(req.Context()); err != nil {
			result["db"] = status{Status: "fail", Detail: err.Error()}
			result["ready"] = status{Status: "fail", Detail: "db unavailable"}
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(result)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(result)
	})

	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	if h.cfg.Metrics.Enabled {
		r.Handle("/metrics", observability.Handler())
	}
}
