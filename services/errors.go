package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTenant   = errors.New("no restaurant is mapped to this number")
	ErrInvalidToken    = errors.New("table QR token is invalid or revoked")
	ErrTableNotFound   = errors.New("table not found or inactive")
	ErrNoSession       = errors.New("no active table session")
	ErrItemUnavailable = errors.New("item is unavailable")
	ErrItemNotFound    = errors.New("menu item not found")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrNothingToBill     = errors.New("no orders to bill for this session")
	ErrBillNotFound      = errors.New("bill not found")
	ErrBillAlreadyPaid   = errors.New("bill is already paid")
	ErrInvalidPayment    = errors.New("invalid payment")
)

// ItemUnavailableError names the menu item, variant or modifier that cannot be ordered.
type ItemUnavailableError struct {
	Item string
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("%s is unavailable", e.Item)
}

func (e *ItemUnavailableError) Is(target error) bool {
	return target == ErrItemUnavailable
}

type CheckoutReason string

const (
	ReasonSessionInactive CheckoutReason = "session_inactive"
	ReasonCartEmpty       CheckoutReason = "cart_empty"
	ReasonItemUnavailable CheckoutReason = "item_unavailable"
	ReasonDuplicate       CheckoutReason = "duplicate"
)

// CheckoutError is returned when a checkout precondition fails. No order is created.
type CheckoutError struct {
	Reason CheckoutReason
	Item   string
}

func (e *CheckoutError) Error() string {
	if e.Item != "" {
		return fmt.Sprintf("checkout rejected: %s (%s)", e.Reason, e.Item)
	}
	return fmt.Sprintf("checkout rejected: %s", e.Reason)
}

// IsCheckoutReason reports whether err is a CheckoutError with the given reason.
func IsCheckoutReason(err error, reason CheckoutReason) bool {
	var ce *CheckoutError
	return errors.As(err, &ce) && ce.Reason == reason
}
