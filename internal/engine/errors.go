package engine

import "errors"

var (
	ErrUnknownPair         = errors.New("unknown trading pair")
	ErrPairInactive        = errors.New("trading pair is not active")
	ErrInvalidOrder        = errors.New("invalid order")
	ErrOrderNotFound       = errors.New("order not found")
	ErrNotOrderOwner       = errors.New("order does not belong to trader")
	ErrOrderNotCancellable = errors.New("order cannot be cancelled")
	ErrAlreadyTriggered    = errors.New("order already triggered")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// IsValidation reports whether err is rejected before any book or
// persistence mutation, as opposed to a retryable persistence failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrUnknownPair) ||
		errors.Is(err, ErrPairInactive) ||
		errors.Is(err, ErrInvalidOrder)
}
