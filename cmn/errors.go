/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package cmn

import "github.com/pkg/errors"

// Error taxonomy (spec.md §7). Configuration errors are fatal at startup;
// Transient and Protocol errors are counted and surface through the bus as
// failed responses; Population errors drop the request as a skip; Internal
// errors abort the test.
type ErrorClass int

const (
	ErrClassConfiguration ErrorClass = iota
	ErrClassTransient
	ErrClassProtocol
	ErrClassPopulation
	ErrClassInternal
)

func (c ErrorClass) String() string {
	switch c {
	case ErrClassConfiguration:
		return "configuration"
	case ErrClassTransient:
		return "transient"
	case ErrClassProtocol:
		return "protocol"
	case ErrClassPopulation:
		return "population"
	case ErrClassInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// ClassifiedError carries an ErrorClass alongside the wrapped cause so that
// the bus and the driver's exit-code logic (spec.md §6) can dispatch on it
// without string-matching.
type ClassifiedError struct {
	Class ErrorClass
	cause error
}

func (e *ClassifiedError) Error() string { return e.Class.String() + ": " + e.cause.Error() }
func (e *ClassifiedError) Unwrap() error { return e.cause }
func (e *ClassifiedError) Cause() error  { return e.cause }

func NewError(class ErrorClass, format string, args ...interface{}) error {
	return &ClassifiedError{Class: class, cause: errors.Errorf(format, args...)}
}

func WrapError(class ErrorClass, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{Class: class, cause: errors.Wrapf(err, format, args...)}
}

// ClassOf extracts the ErrorClass from err, defaulting to ErrClassInternal
// for errors the CORE didn't classify itself (e.g. a panic recovered by a
// subscriber).
func ClassOf(err error) ErrorClass {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class
	}
	return ErrClassInternal
}

// Exit codes (spec.md §6).
const (
	ExitOK            = 0
	ExitConfiguration = 1
	ExitAborted       = 2
)
