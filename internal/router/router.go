package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/finance-tracker/internal/handlers"
)

// NewRouter builds the API tree. auth guards everything except the health
// check; requestLog must run after RequestID so the id lands on the logger.
func NewRouter(deps *handlers.Deps, auth, requestLog func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLog)

	hh := handlers.NewHealthHandlers(deps)
	ush := handlers.NewUserHandlers(deps)
	ach := handlers.NewAccountHandlers(deps)
	cah := handlers.NewCategoryHandlers(deps)
	tgh := handlers.NewTagHandlers(deps)
	txh := handlers.NewTransactionHandlers(deps)
	bdh := handlers.NewBudgetHandlers(deps)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", hh.Health)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Mount("/users", ush.UserRoutes())
			r.Mount("/accounts", ach.AccountRoutes())
			r.Mount("/categories", cah.CategoryRoutes())
			r.Mount("/tags", tgh.TagRoutes())
			r.Mount("/transactions", txh.TransactionRoutes())
			r.Mount("/budgets", bdh.BudgetRoutes())
		})
	})
	return r
}
