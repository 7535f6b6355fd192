package shared

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainError is a business rule violation with a stable machine-readable
// code. Infrastructure failures are never DomainErrors; they get wrapped
// with %w and surface as ErrTransactionAborted at service boundaries.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches two DomainErrors by code so sentinel comparisons via
// errors.Is work for errors rebuilt with contextual messages.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if errors.As(target, &de) {
		return e.Code == de.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinel errors for the stock ledger. Services wrap these with
// product-specific detail; callers match with errors.Is.
var (
	ErrNotFound                = NewDomainError("NOT_FOUND", "Entity not found")
	ErrInvalidQuantity         = NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	ErrInsufficientStock       = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock")
	ErrInsufficientBatchStock  = NewDomainError("INSUFFICIENT_BATCH_STOCK", "Insufficient stock in batch")
	ErrConversionNotConfigured = NewDomainError("CONVERSION_NOT_CONFIGURED", "Product has no conversion target or rate")
	ErrTransactionAborted      = NewDomainError("TRANSACTION_ABORTED", "Transaction aborted due to a datastore failure")
	ErrVersionConflict         = NewDomainError("VERSION_CONFLICT", "Entity was modified by another transaction")
)

// NewInsufficientStockError names the product and the shortfall so the
// caller can show an actionable message.
func NewInsufficientStockError(productName string, requested, available decimal.Decimal) *DomainError {
	return &DomainError{
		Code: ErrInsufficientStock.Code,
		Message: fmt.Sprintf("insufficient stock for %q: requested %s, available %s",
			productName, requested.String(), available.String()),
	}
}

// NewInsufficientBatchStockError reports a guarded batch decrement that
// affected zero rows.
func NewInsufficientBatchStockError(batchNumber string, requested decimal.Decimal) *DomainError {
	return &DomainError{
		Code: ErrInsufficientBatchStock.Code,
		Message: fmt.Sprintf("insufficient stock in batch %q for deduction of %s",
			batchNumber, requested.String()),
	}
}

// WrapTransactionError tags an infrastructure failure as a retry-safe
// transaction abort while preserving the cause for errors.Is/As.
func WrapTransactionError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransactionAborted, err)
}

// IsDomainError checks whether err is (or wraps) a DomainError.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// DomainErrorCode extracts the code of a wrapped DomainError, or "" when
// err carries none.
func DomainErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
