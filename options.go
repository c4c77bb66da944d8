// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package ostimer

import (
	"github.com/joeycumines/go-ostimer/reactor"
	"github.com/joeycumines/logiface"
)

// timerOptions holds configuration options for Delay and Interval creation.
type timerOptions struct {
	reactor *reactor.Reactor
	logger  *logiface.Logger[logiface.Event]
}

// Option configures a Delay or Interval instance.
type Option interface {
	applyTimer(*timerOptions) error
}

// timerOptionImpl implements Option.
type timerOptionImpl struct {
	applyTimerFunc func(*timerOptions) error
}

func (x *timerOptionImpl) applyTimer(opts *timerOptions) error {
	return x.applyTimerFunc(opts)
}

// WithReactor sets the reactor the timer descriptor is registered with.
// The reactor must be driven (see reactor.Reactor.Run) for timers to fire.
// Defaults to reactor.Default, which is driven in the background.
func WithReactor(r *reactor.Reactor) Option {
	return &timerOptionImpl{func(opts *timerOptions) error {
		opts.reactor = r
		return nil
	}}
}

// WithLogger attaches a structured logger. Resource lifecycle is logged at
// debug level, spurious wakeups at trace level, and fatal errors at error
// level. A nil logger (the default) disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &timerOptionImpl{func(opts *timerOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolveTimerOptions applies Option instances to timerOptions.
func resolveTimerOptions(opts []Option) (*timerOptions, error) {
	cfg := &timerOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyTimer(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
