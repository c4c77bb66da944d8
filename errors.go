// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package ostimer

import (
	"errors"
	"fmt"
)

// Op identifies the timer operation that failed, see TimerError.
type Op uint8

const (
	// OpCreate indicates the kernel refused to allocate a timer resource.
	OpCreate Op = iota + 1
	// OpArm indicates the kernel refused to program the expiration schedule.
	OpArm
	// OpRegister indicates the reactor refused to bind the timer descriptor.
	OpRegister
	// OpConsume indicates a failure waiting for, or consuming, an expiration.
	OpConsume
)

// Standard errors.
var (
	ErrClosed            = errors.New("ostimer: closed")
	ErrNegativeDuration  = errors.New("ostimer: negative duration")
	ErrDurationRange     = errors.New("ostimer: duration out of range")
	ErrProtocolViolation = errors.New("ostimer: protocol violation")

	// errSpuriousWake indicates readiness was signaled, with no expiration
	// pending. It never escapes this package.
	errSpuriousWake = errors.New("ostimer: spurious wake")
)

// TimerError is returned for all failures of the underlying timer resource,
// or its registration. Use [errors.Is] to match the underlying cause, e.g.
// [ErrProtocolViolation], or a [golang.org/x/sys/unix.Errno].
type TimerError struct {
	Err error
	Op  Op
}

// String returns the string representation of the operation.
func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpArm:
		return "arm"
	case OpRegister:
		return "register"
	case OpConsume:
		return "consume"
	default:
		return fmt.Sprintf("Op(%d)", o)
	}
}

// Error implements the error interface.
func (e *TimerError) Error() string {
	if e.Err == nil {
		return "ostimer: " + e.Op.String() + " failed"
	}
	return "ostimer: " + e.Op.String() + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *TimerError) Unwrap() error {
	return e.Err
}
