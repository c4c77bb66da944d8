// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package ostimer

import (
	"context"
	"runtime"
	"time"

	"github.com/joeycumines/go-ostimer/reactor"
)

type delayState uint8

const (
	delayImmediate delayState = iota
	delayArmed
	delayFired
	delayFailed
	delayClosed
)

// Delay completes once, a fixed duration after it was created.
//
// Instances perform no work, and carry no value beyond completion. A Delay
// must be polled by a single goroutine at a time, and must be closed to
// release its timer resource.
type Delay struct {
	timer   *timer
	err     error
	cleanup runtime.Cleanup
	state   delayState
}

// NewDelay creates a Delay that completes at now + d.
//
// A zero d completes immediately, without allocating any timer resource.
// A negative d fails with ErrNegativeDuration.
func NewDelay(d time.Duration, opts ...Option) (*Delay, error) {
	spec := TimeoutSpec(d)
	if err := spec.validate(); err != nil {
		return nil, err
	}

	cfg, err := resolveTimerOptions(opts)
	if err != nil {
		return nil, err
	}

	if d == 0 {
		// a zero it_value would disarm a timerfd, rather than fire it
		return &Delay{state: delayImmediate}, nil
	}

	t, err := newTimer(spec, cfg)
	if err != nil {
		return nil, err
	}

	x := &Delay{timer: t, state: delayArmed}
	x.cleanup = runtime.AddCleanup(x, (*timer).release, t)
	return x, nil
}

// Poll reports whether the Delay has completed. If it has not, w will be
// woken (from the reactor goroutine) once it may have.
//
// Completion is memoized: once Poll has returned true, it always returns
// true, without touching the timer resource. A fatal error is likewise
// returned by every subsequent call.
func (x *Delay) Poll(w reactor.Waker) (bool, error) {
	switch x.state {
	case delayImmediate, delayFired:
		return true, nil
	case delayFailed:
		return false, x.err
	case delayClosed:
		return false, ErrClosed
	}

	fired, err := x.timer.poll(w)
	if err != nil {
		x.state = delayFailed
		x.err = err
		return false, err
	}
	if fired {
		x.state = delayFired
	}
	return fired, nil
}

// Wait blocks until the Delay completes, or ctx is done.
func (x *Delay) Wait(ctx context.Context) error {
	return waitReady(ctx, x.Poll)
}

// Close releases the timer resource, if any. It is idempotent. Poll returns
// ErrClosed after Close.
//
// A Delay that becomes unreachable without being closed has its timer
// resource released by the garbage collector, at some later point.
func (x *Delay) Close() error {
	if x.state == delayClosed {
		return nil
	}
	x.state = delayClosed
	if x.timer == nil {
		return nil
	}
	x.cleanup.Stop()
	return x.timer.close()
}
