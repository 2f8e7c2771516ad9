package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/middleware"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type accountHandlers struct {
	ResponseHandler response.ResponseHandler
	AccountSvc      AccountService
}

func NewAccountHandlers(deps *Deps) *accountHandlers {
	return &accountHandlers{
		ResponseHandler: deps.ResponseHandler,
		AccountSvc:      deps.AccountSvc,
	}
}

func (h *accountHandlers) AccountRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAccounts)
	r.Post("/", h.CreateAccount)
	r.Get("/summary", h.Summary) // must be before /{accountId}
	r.Get("/by-type/{accountType}", h.ListByType)
	r.Get("/{accountId}", h.GetAccount)
	r.Put("/{accountId}", h.UpdateAccount)
	r.Delete("/{accountId}", h.DeleteAccount)
	r.Post("/{accountId}/restore", h.RestoreAccount)
	return r
}

func (h *accountHandlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := dto.AccountQuery{
		AccountType: queryString(q, "type"),
		Currency:    queryString(q, "currency"),
		Search:      queryString(q, "search"),
	}
	accounts, err := h.AccountSvc.ListAccounts(r.Context(), middleware.UID(r.Context()), query)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewAccountList(accounts))
}

func (h *accountHandlers) ListByType(w http.ResponseWriter, r *http.Request) {
	accountType := chi.URLParam(r, "accountType")
	accounts, err := h.AccountSvc.ListByType(r.Context(), middleware.UID(r.Context()), accountType)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewAccountList(accounts))
}

func (h *accountHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.AccountSvc.Summary(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}

func (h *accountHandlers) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	detail, err := h.AccountSvc.GetAccount(r.Context(), middleware.UID(r.Context()), accountID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, detail)
}

func (h *accountHandlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account, err := h.AccountSvc.CreateAccount(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, dto.NewAccountDetail(account, 0, nil))
}

func (h *accountHandlers) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	var req dto.UpdateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account, err := h.AccountSvc.UpdateAccount(r.Context(), middleware.UID(r.Context()), accountID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewAccountListItem(account))
}

func (h *accountHandlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	if err := h.AccountSvc.DeleteAccount(r.Context(), middleware.UID(r.Context()), accountID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *accountHandlers) RestoreAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	account, err := h.AccountSvc.RestoreAccount(r.Context(), middleware.UID(r.Context()), accountID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewAccountListItem(account))
}
