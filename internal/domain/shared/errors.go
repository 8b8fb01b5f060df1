package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrCashierClosed       = NewDomainError("CASHIER_CLOSED", "Cashier is not open")
	ErrCashierAlreadyOpen  = NewDomainError("CASHIER_ALREADY_OPEN", "Cashier is already open")
	ErrInvalidQueueStatus  = NewDomainError("INVALID_QUEUE_STATUS", "Queue is not in a valid status for this operation")
	ErrTransactionPaid     = NewDomainError("TRANSACTION_PAID", "Transaction has already been paid")
)

// NewInsufficientStockError returns an insufficient stock error naming the drug
func NewInsufficientStockError(drugName string) *DomainError {
	return NewDomainError(ErrInsufficientStock.Code, fmt.Sprintf("insufficient stock for %s", drugName))
}
