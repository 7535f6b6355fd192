package dto

import (
	"errors"
	"net/http"

	"github.com/retail/backoffice/internal/domain/shared"
)

// Error codes produced by the interface layer itself. Domain error
// codes pass through unchanged.
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeInternal   = "INTERNAL"
)

// domainErrorStatus maps domain error codes to HTTP status codes.
// Codes missing from the map are treated as client input problems.
var domainErrorStatus = map[string]int{
	ErrCodeNotFound:             http.StatusNotFound,
	"INSUFFICIENT_STOCK":        http.StatusConflict,
	"INSUFFICIENT_BATCH_STOCK":  http.StatusConflict,
	"DUPLICATE_CODE":            http.StatusConflict,
	"VERSION_CONFLICT":          http.StatusConflict,
	"ALREADY_DELETED":           http.StatusConflict,
	"CONVERSION_NOT_CONFIGURED": http.StatusUnprocessableEntity,
	"TRANSACTION_ABORTED":       http.StatusInternalServerError,
}

// StatusForError resolves an HTTP status and error body for any error
// escaping the application layer.
func StatusForError(err error) (int, ErrorInfo) {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, ErrorInfo{
			Code:    ErrCodeInternal,
			Message: "An internal error occurred",
		}
	}

	status, ok := domainErrorStatus[de.Code]
	if !ok {
		status = http.StatusBadRequest
	}
	return status, ErrorInfo{Code: de.Code, Message: de.Message}
}
