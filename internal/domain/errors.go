package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRegisterClosed      = errors.New("register closed")
	ErrMissingField        = errors.New("missing required field")
	ErrMissingReference    = errors.New("reference number required")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrSplitMismatch       = errors.New("split payment mismatch")
	ErrShiftAlreadyOpen    = errors.New("shift already open")
	ErrNoOpenShift         = errors.New("no open shift")
	ErrShiftMismatch       = errors.New("shift id does not match the open shift")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderFinal          = errors.New("order is in a final status")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidOrderType    = errors.New("invalid order type")
	ErrInvalidInstrument   = errors.New("invalid payment instrument")
	ErrInvalidSplitCount   = errors.New("split payment requires exactly two instruments")
	ErrInvalidDenomination = errors.New("invalid denomination count")
)

// MissingFieldError reports which order-type-specific field blocked submission.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// InsufficientFundsError carries the shortfall for operator display.
type InsufficientFundsError struct {
	Tendered float64
	Total    float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: tendered %.2f of %.2f", e.Tendered, e.Total)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// SplitMismatchError carries the paid/required amounts for operator display.
type SplitMismatchError struct {
	Paid     float64
	Required float64
}

func (e *SplitMismatchError) Error() string {
	diff := e.Paid - e.Required
	if diff < 0 {
		return fmt.Sprintf("split payment short by %.2f", -diff)
	}
	return fmt.Sprintf("split payment over by %.2f", diff)
}

func (e *SplitMismatchError) Is(target error) bool {
	return target == ErrSplitMismatch
}
