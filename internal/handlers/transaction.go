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

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  TransactionService
	ReceiptSvc      ReceiptService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
		ReceiptSvc:      deps.ReceiptSvc,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listWith(nil))
	r.Post("/", h.CreateTransaction)
	r.Get("/income", h.listWith(helpers.Ptr(models.TypeIncome)))
	r.Get("/expense", h.listWith(helpers.Ptr(models.TypeExpense)))
	r.Get("/stats", h.Stats) // must be before /{transactionId}
	r.Get("/{transactionId}", h.GetTransaction)
	r.Put("/{transactionId}", h.UpdateTransaction)
	r.Delete("/{transactionId}", h.DeleteTransaction)
	r.Post("/{transactionId}/restore", h.RestoreTransaction)
	r.Get("/{transactionId}/receipts", h.ListReceipts)
	r.Post("/{transactionId}/receipts", h.AddReceipt)
	r.Delete("/{transactionId}/receipts/{receiptId}", h.DeleteReceipt)
	return r
}

// listWith builds a list endpoint; a non-nil txType overrides the type filter.
func (h *transactionHandlers) listWith(txType *string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := transactionQuery(r.URL.Query())
		if txType != nil {
			query.Type = txType
		}
		txs, err := h.TransactionSvc.ListTransactions(r.Context(), middleware.UID(r.Context()), query)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewTransactionList(txs))
	}
}

func (h *transactionHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stats, err := h.TransactionSvc.Stats(r.Context(), middleware.UID(r.Context()), queryDate(q, "dateFrom"), queryDate(q, "dateTo"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, stats)
}

func (h *transactionHandlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	tx, err := h.TransactionSvc.GetTransaction(r.Context(), middleware.UID(r.Context()), transactionID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewTransactionDetail(tx))
}

func (h *transactionHandlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	tx, err := h.TransactionSvc.CreateTransaction(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, dto.NewTransactionDetail(tx))
}

func (h *transactionHandlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	var req dto.UpdateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	tx, err := h.TransactionSvc.UpdateTransaction(r.Context(), middleware.UID(r.Context()), transactionID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewTransactionDetail(tx))
}

func (h *transactionHandlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	if err := h.TransactionSvc.DeleteTransaction(r.Context(), middleware.UID(r.Context()), transactionID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *transactionHandlers) RestoreTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	tx, err := h.TransactionSvc.RestoreTransaction(r.Context(), middleware.UID(r.Context()), transactionID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewTransactionDetail(tx))
}

func (h *transactionHandlers) ListReceipts(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	receipts, err := h.ReceiptSvc.ListReceipts(r.Context(), middleware.UID(r.Context()), transactionID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewReceiptList(receipts))
}

func (h *transactionHandlers) AddReceipt(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	var req dto.CreateReceiptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	receipt, err := h.ReceiptSvc.AddReceipt(r.Context(), middleware.UID(r.Context()), transactionID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, dto.NewReceiptOutput(receipt))
}

func (h *transactionHandlers) DeleteReceipt(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	receiptID := chi.URLParam(r, "receiptId")
	if err := h.ReceiptSvc.DeleteReceipt(r.Context(), middleware.UID(r.Context()), transactionID, receiptID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
