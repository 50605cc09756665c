// Package errors provides error handling for bindgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Assertion errors for unreachable generator paths
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := render(); err != nil {
//	    return errors.Wrap(err, "rendering object declaration")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrNoStrategy) {
//	    // the type identifier had no matching code type
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
)

// Error inspection
var (
	Is     = crdb.Is
	IsAny  = crdb.IsAny
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// Assertions and panics. AssertionFailedf marks defects in the generator
// itself (an unreachable dispatch arm, a literal requested for a variant
// with no literal syntax), as opposed to bad input.
var (
	AssertionFailedf    = crdb.AssertionFailedf
	HasAssertionFailure = crdb.HasAssertionFailure
)

// Sentinel errors for use across bindgen.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNoStrategy indicates a type identifier resolved to no code-generation
	// strategy. Generation aborts; there is no partial output.
	ErrNoStrategy = New("no code type strategy for type")

	// ErrInvalidModel indicates the interface model could not be decoded
	ErrInvalidModel = New("invalid interface model")
)

// IsNoStrategy checks if an error is or wraps ErrNoStrategy.
func IsNoStrategy(err error) bool {
	return err != nil && Is(err, ErrNoStrategy)
}

// NewNoStrategyError creates a dispatch-failure error naming the offending type.
func NewNoStrategyError(format string, args ...interface{}) error {
	return Wrap(ErrNoStrategy, Newf(format, args...).Error())
}
