// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package reactor

import (
	"github.com/joeycumines/logiface"
)

// reactorOptions holds configuration options for Reactor creation.
type reactorOptions struct {
	logger *logiface.Logger[logiface.Event]
}

// Option configures a Reactor instance.
type Option interface {
	applyReactor(*reactorOptions) error
}

// reactorOptionImpl implements Option.
type reactorOptionImpl struct {
	applyReactorFunc func(*reactorOptions) error
}

func (x *reactorOptionImpl) applyReactor(opts *reactorOptions) error {
	return x.applyReactorFunc(opts)
}

// WithLogger attaches a structured logger to the Reactor.
// Registration changes are logged at debug level, and poll failures at error
// level. A nil logger (the default) disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &reactorOptionImpl{func(opts *reactorOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolveOptions applies Option instances to reactorOptions.
func resolveOptions(opts []Option) (*reactorOptions, error) {
	cfg := &reactorOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyReactor(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
