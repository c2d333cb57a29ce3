package retry

import (
	"errors"
	"fmt"
)

var (
	ErrTransientChain = errors.New("transient chain error")
	ErrPermanentChain = errors.New("permanent chain error")
)

// Kind selects the typed error returned once retries are exhausted.
type Kind int

const (
	KindChain Kind = iota
	KindDatabase
)

func (k Kind) String() string {
	switch k {
	case KindChain:
		return "chain"
	case KindDatabase:
		return "database"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ChainError wraps a failed chain interaction. errors.Is matches
// ErrTransientChain or ErrPermanentChain depending on Transient.
type ChainError struct {
	Op        string
	Transient bool
	Err       error
}

func (e *ChainError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("chain %s (%s): %v", e.Op, kind, e.Err)
}

func (e *ChainError) Unwrap() error {
	return e.Err
}

func (e *ChainError) Is(target error) bool {
	switch target {
	case ErrTransientChain:
		return e.Transient
	case ErrPermanentChain:
		return !e.Transient
	}
	return false
}

type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func wrapExhausted(kind Kind, op string, err error) error {
	switch kind {
	case KindDatabase:
		return &DatabaseError{Op: op, Err: err}
	default:
		return &ChainError{Op: op, Transient: true, Err: err}
	}
}
