package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/middleware"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type budgetHandlers struct {
	ResponseHandler response.ResponseHandler
	BudgetSvc       BudgetService
}

func NewBudgetHandlers(deps *Deps) *budgetHandlers {
	return &budgetHandlers{
		ResponseHandler: deps.ResponseHandler,
		BudgetSvc:       deps.BudgetSvc,
	}
}

func (h *budgetHandlers) BudgetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListBudgets)
	r.Post("/", h.CreateBudget)
	// fixed paths must be before /{budgetId}
	r.Get("/summary", h.Summary)
	r.Get("/exceeded", h.Exceeded)
	r.Get("/current-month", h.CurrentMonth)
	r.Get("/category-analysis", h.CategoryAnalysis)
	r.Get("/{budgetId}", h.GetBudget)
	r.Put("/{budgetId}", h.UpdateBudget)
	r.Delete("/{budgetId}", h.DeleteBudget)
	r.Post("/{budgetId}/restore", h.RestoreBudget)
	return r
}

func (h *budgetHandlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := dto.BudgetQuery{
		PeriodType: queryString(q, "periodType"),
		CategoryID: queryString(q, "category"),
		Status:     queryString(q, "status"),
	}
	budgets, err := h.BudgetSvc.ListBudgets(r.Context(), middleware.UID(r.Context()), query)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewBudgetList(budgets))
}

func (h *budgetHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.BudgetSvc.Summary(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}

func (h *budgetHandlers) Exceeded(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.BudgetSvc.Exceeded(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewBudgetList(budgets))
}

func (h *budgetHandlers) CurrentMonth(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.BudgetSvc.CurrentMonth(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewBudgetList(budgets))
}

func (h *budgetHandlers) CategoryAnalysis(w http.ResponseWriter, r *http.Request) {
	items, err := h.BudgetSvc.CategoryAnalysis(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, items)
}

func (h *budgetHandlers) GetBudget(w http.ResponseWriter, r *http.Request) {
	detail, err := h.BudgetSvc.GetBudget(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "budgetId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, detail)
}

func (h *budgetHandlers) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	budget, err := h.BudgetSvc.CreateBudget(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, dto.NewBudgetListItem(budget))
}

func (h *budgetHandlers) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	budget, err := h.BudgetSvc.UpdateBudget(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "budgetId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewBudgetListItem(budget))
}

func (h *budgetHandlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := h.BudgetSvc.DeleteBudget(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "budgetId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *budgetHandlers) RestoreBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := h.BudgetSvc.RestoreBudget(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "budgetId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewBudgetListItem(budget))
}
