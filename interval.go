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

type intervalState uint8

const (
	intervalImmediate intervalState = iota
	intervalArmed
	intervalFailed
	intervalClosed
)

// Interval ticks once every time a fixed period elapses.
//
// The kernel re-arms the timer, so ticks are never rescheduled by the
// caller. Periods that elapse between polls are coalesced, a late poll
// reports a single tick.
type Interval struct {
	timer   *timer
	err     error
	cleanup runtime.Cleanup
	state   intervalState
}

// NewInterval creates an Interval that ticks at now + period, and every
// period thereafter.
//
// A zero period ticks on every poll, without delay, and without allocating
// any timer resource. A negative period fails with ErrNegativeDuration.
func NewInterval(period time.Duration, opts ...Option) (*Interval, error) {
	spec := IntervalSpec(period)
	if err := spec.validate(); err != nil {
		return nil, err
	}

	cfg, err := resolveTimerOptions(opts)
	if err != nil {
		return nil, err
	}

	if period == 0 {
		return &Interval{state: intervalImmediate}, nil
	}

	t, err := newTimer(spec, cfg)
	if err != nil {
		return nil, err
	}

	x := &Interval{timer: t, state: intervalArmed}
	x.cleanup = runtime.AddCleanup(x, (*timer).release, t)
	return x, nil
}

// Poll reports whether a tick is available, consuming it. If not, w will be
// woken (from the reactor goroutine) once one may be.
func (x *Interval) Poll(w reactor.Waker) (bool, error) {
	switch x.state {
	case intervalImmediate:
		return true, nil
	case intervalFailed:
		return false, x.err
	case intervalClosed:
		return false, ErrClosed
	}

	ticked, err := x.timer.poll(w)
	if err != nil {
		x.state = intervalFailed
		x.err = err
		return false, err
	}
	return ticked, nil
}

// Tick blocks until the next tick, or ctx is done.
func (x *Interval) Tick(ctx context.Context) error {
	return waitReady(ctx, x.Poll)
}

// Close releases the timer resource, if any. It is idempotent. Poll returns
// ErrClosed after Close.
func (x *Interval) Close() error {
	if x.state == intervalClosed {
		return nil
	}
	x.state = intervalClosed
	if x.timer == nil {
		return nil
	}
	x.cleanup.Stop()
	return x.timer.close()
}
