package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrInvalidAdjustment   = errors.New("invalid adjustment")
	ErrTimeout             = errors.New("unit of work timed out")
	ErrVersionConflict     = errors.New("optimistic lock conflict")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCategory     = errors.New("invalid observation category")
	ErrInvalidTier         = errors.New("invalid account tier")
)

// InsufficientBalanceError carries the exact shortfall so callers can render
// a precise message. errors.Is(err, ErrInsufficientBalance) matches it.
type InsufficientBalanceError struct {
	Cost    int64
	Balance int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient token balance: need %d, have %d", e.Cost, e.Balance)
}

func (e *InsufficientBalanceError) Shortfall() int64 {
	return e.Cost - e.Balance
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// InvalidAdjustmentError explains why an admin balance adjustment was
// refused. errors.Is(err, ErrInvalidAdjustment) matches it.
type InvalidAdjustmentError struct {
	Reason string
}

func (e *InvalidAdjustmentError) Error() string {
	return "invalid adjustment: " + e.Reason
}

func (e *InvalidAdjustmentError) Is(target error) bool {
	return target == ErrInvalidAdjustment
}
