package engine

import "errors"

// Error kinds surfaced by engine operations. Callers classify with errors.Is;
// the wrapped message carries the human-readable detail.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateSKU      = errors.New("sku already exists")
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidRange      = errors.New("invalid date range")
)
