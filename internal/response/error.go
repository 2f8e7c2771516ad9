package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeError(w, r, status, ErrorResponse{Code: code, Message: message})
}

func (h *responseHandler) writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode error response",
			"error", err, "status", status, "code", body.Code)
	}
}

// HandleError maps domain errors to a status code and a stable error code.
// Anything unrecognised is logged in full and reported as a generic 500.
func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var (
		notFound   *errs.NotFoundError
		exists     *errs.AlreadyExistsError
		validation *errs.ValidationError
		permission *errs.PermissionError
		conflict   *errs.ConflictError
		database   *errs.DatabaseError
	)

	switch {
	case errors.As(err, &notFound):
		log.Warn("resource not found", "error", notFound.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", notFound.Message)

	case errors.As(err, &exists):
		log.Warn("resource already exists", "error", exists.Message)
		h.WriteError(w, r, http.StatusConflict, "already_exists", exists.Message)

	case errors.As(err, &validation):
		log.Warn("validation failed", "error", validation.Message, "field", validation.Field)
		h.writeError(w, r, http.StatusBadRequest, ErrorResponse{
			Code:    "invalid_input",
			Message: validation.Message,
			Field:   validation.Field,
		})

	case errors.As(err, &permission):
		log.Warn("permission denied", "error", permission.Message)
		h.WriteError(w, r, http.StatusForbidden, "permission_denied", permission.Message)

	case errors.As(err, &conflict):
		log.Warn("conflicting state", "error", conflict.Message)
		h.WriteError(w, r, http.StatusConflict, "conflict", conflict.Message)

	case errors.As(err, &database):
		log.Error("database error",
			"operation", database.Operation,
			"error", database.Message,
			"cause", database.Err)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error", "An error occurred")

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
