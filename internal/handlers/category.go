package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/middleware"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/response"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
)

type categoryHandlers struct {
	ResponseHandler response.ResponseHandler
	CategorySvc     CategoryService
}

func NewCategoryHandlers(deps *Deps) *categoryHandlers {
	return &categoryHandlers{
		ResponseHandler: deps.ResponseHandler,
		CategorySvc:     deps.CategorySvc,
	}
}

func (h *categoryHandlers) CategoryRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listWith(func(q *dto.CategoryQuery) {}))
	r.Post("/", h.CreateCategory)
	r.Get("/income", h.listWith(func(q *dto.CategoryQuery) { q.Type = helpers.Ptr(models.TypeIncome) }))
	r.Get("/expense", h.listWith(func(q *dto.CategoryQuery) { q.Type = helpers.Ptr(models.TypeExpense) }))
	r.Get("/mine", h.listWith(func(q *dto.CategoryQuery) { q.Scope = dto.ScopeMine }))
	r.Get("/system", h.listWith(func(q *dto.CategoryQuery) { q.Scope = dto.ScopeSystem }))
	r.Get("/{categoryId}", h.GetCategory)
	r.Put("/{categoryId}", h.UpdateCategory)
	r.Delete("/{categoryId}", h.DeleteCategory)
	r.Post("/{categoryId}/restore", h.RestoreCategory)
	return r
}

// listWith builds a list endpoint from the query string plus fixed filters.
func (h *categoryHandlers) listWith(fixed func(*dto.CategoryQuery)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := dto.CategoryQuery{
			Type:   queryString(q, "type"),
			Search: queryString(q, "search"),
		}
		fixed(&query)
		categories, err := h.CategorySvc.ListCategories(r.Context(), middleware.UID(r.Context()), query)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewCategoryList(categories))
	}
}

func (h *categoryHandlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")
	detail, err := h.CategorySvc.GetCategory(r.Context(), middleware.UID(r.Context()), categoryID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, detail)
}

func (h *categoryHandlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	category, err := h.CategorySvc.CreateCategory(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, dto.NewCategoryDetail(category, 0))
}

func (h *categoryHandlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")
	var req dto.UpdateCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	category, err := h.CategorySvc.UpdateCategory(r.Context(), middleware.UID(r.Context()), categoryID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewCategoryListItem(category))
}

func (h *categoryHandlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")
	if err := h.CategorySvc.DeleteCategory(r.Context(), middleware.UID(r.Context()), categoryID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *categoryHandlers) RestoreCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")
	category, err := h.CategorySvc.RestoreCategory(r.Context(), middleware.UID(r.Context()), categoryID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewCategoryListItem(category))
}
