// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInventoryExists    = errors.New("inventory record already exists for this blood type and location")
	ErrInventoryNotFound  = errors.New("inventory record not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrAuthMismatch       = errors.New("incorrect password")
	ErrDispatchNotReady   = errors.New("drone is still picking up supplies")
	ErrDispatchNotFound   = errors.New("dispatch session not found")
	ErrAlreadyDispatched  = errors.New("order has already been dispatched")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type InsufficientStockError struct {
	BloodType string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough %s units available: requested %d, only %d left", e.BloodType, e.Requested, e.Available)
}

// PersistenceError wraps a store failure that callers cannot act on.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
