package services

import "errors"

// Sentinel errors surfaced by the order lifecycle engine. Controllers map
// these onto user-facing error codes with errors.Is.
var (
	ErrEmptyCart              = errors.New("cart is empty")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrOrderNotFound          = errors.New("order not found")
	ErrAlreadyCancelled       = errors.New("order is already cancelled")
	ErrNotCancellable         = errors.New("shipped orders cannot be cancelled")
	ErrInvalidStatus          = errors.New("invalid order status")
	ErrRefundNotFound         = errors.New("refund not found")
	ErrRefundAlreadyProcessed = errors.New("refund is already processed")
)
