package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress is returned when an address does not match the
	// 0x + 40 hex chars format.
	ErrInvalidAddress = errors.New("invalid address format")

	// ErrDuplicateAddress is returned when adding an address that is
	// already monitored.
	ErrDuplicateAddress = errors.New("address already monitored")

	// ErrIndexOutOfRange is returned when removing an address by an
	// index outside the current list bounds.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrPriceUnavailable is returned by a PriceSource that has no
	// quote for the requested symbol.
	ErrPriceUnavailable = errors.New("mark price unavailable")
)

// FetchError wraps a failure to retrieve or decode remote state. A
// single fetch failure is contained to the address or poll that caused
// it and never escalates past that boundary.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PersistenceError wraps a durable-storage write failure. A mutation
// that hits one must leave in-memory state untouched.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist addresses: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
