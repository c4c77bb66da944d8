// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package reactor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/logiface"
)

// Reactor delivers read-readiness edges to Registration instances.
//
// A Reactor must be driven, by Run, or by calling Turn in a loop. At most one
// goroutine may drive it at a time.
type Reactor struct {
	logger *logiface.Logger[logiface.Event]
	// fatal is the first poll failure, after which the reactor is unusable
	fatal   error
	poller  poller
	fatalMu sync.Mutex
	// lifecycle guards running, and transitions of closed
	lifecycle sync.Mutex
	running   bool
	closed    atomic.Bool
}

var defaultReactor struct {
	reactor *Reactor
	err     error
	once    sync.Once
}

// New creates a Reactor, allocating the underlying poller.
func New(opts ...Option) (*Reactor, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	x := &Reactor{logger: cfg.logger}
	if err := x.poller.init(); err != nil {
		return nil, err
	}

	return x, nil
}

// Default returns the process-wide Reactor, creating it on first use. It is
// driven by a background goroutine, for the lifetime of the process.
//
// If the background goroutine fails, the error is reported by every
// subsequent Registration.PollReadReady.
func Default() (*Reactor, error) {
	defaultReactor.once.Do(func() {
		x, err := New()
		if err != nil {
			defaultReactor.err = err
			return
		}
		defaultReactor.reactor = x
		go func() { _ = x.Run(context.Background()) }()
	})
	return defaultReactor.reactor, defaultReactor.err
}

// Register adds fd to the Reactor, for edge-triggered read interest.
func (x *Reactor) Register(fd int) (*Registration, error) {
	if x.closed.Load() {
		return nil, ErrClosed
	}

	reg := &Registration{
		reactor: x,
		fd:      fd,
		state:   StateNotReady,
	}

	if err := x.poller.add(fd, reg); err != nil {
		reg.state = StateClosed
		return nil, err
	}

	x.logger.Debug().
		Int("fd", fd).
		Log("registered")

	return reg, nil
}

// Turn performs a single poll pass, dispatching any edges observed, and
// returns the number dispatched. A negative timeout blocks until at least
// one event (including a wakeup) is received.
func (x *Reactor) Turn(timeout time.Duration) (int, error) {
	if err := x.acquire(); err != nil {
		return 0, err
	}
	defer x.release()
	return x.turn(timeout)
}

// Run drives the Reactor until ctx is done (returning ctx.Err()), the Reactor
// is closed (returning nil), or polling fails (returning the error).
func (x *Reactor) Run(ctx context.Context) error {
	if err := x.acquire(); err != nil {
		return err
	}
	defer x.release()

	stop := context.AfterFunc(ctx, x.wakeup)
	defer stop()

	for {
		if x.closed.Load() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := x.turn(-1); err != nil {
			return err
		}
	}
}

// Close releases the Reactor. If it is currently being driven, the driving
// goroutine is woken, and releases the poller on exit. Close is idempotent.
func (x *Reactor) Close() error {
	x.lifecycle.Lock()
	defer x.lifecycle.Unlock()

	if x.closed.Load() {
		return nil
	}
	x.closed.Store(true)

	if x.running {
		return x.poller.wakeup()
	}
	return x.poller.close()
}

func (x *Reactor) turn(timeout time.Duration) (int, error) {
	n, err := x.poller.wait(timeout)
	if err != nil {
		x.fail(err)
		return 0, err
	}
	return n, nil
}

func (x *Reactor) acquire() error {
	x.lifecycle.Lock()
	defer x.lifecycle.Unlock()
	if x.closed.Load() {
		return ErrClosed
	}
	if x.running {
		return ErrRunning
	}
	x.running = true
	return nil
}

func (x *Reactor) release() {
	x.lifecycle.Lock()
	defer x.lifecycle.Unlock()
	x.running = false
	if x.closed.Load() {
		_ = x.poller.close()
	}
}

// wakeup interrupts a blocked poll, unless the poller is already released.
func (x *Reactor) wakeup() {
	x.lifecycle.Lock()
	defer x.lifecycle.Unlock()
	if x.running {
		_ = x.poller.wakeup()
	}
}

func (x *Reactor) fail(err error) {
	x.fatalMu.Lock()
	if x.fatal == nil {
		x.fatal = err
	}
	x.fatalMu.Unlock()

	x.logger.Err().
		Err(err).
		Log("poll failed")
}

// failure returns a non-nil error if edges can no longer be delivered.
func (x *Reactor) failure() error {
	x.fatalMu.Lock()
	defer x.fatalMu.Unlock()
	if x.fatal != nil {
		return x.fatal
	}
	if x.closed.Load() {
		return ErrClosed
	}
	return nil
}
