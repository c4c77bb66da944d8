//go:build !linux && !darwin && !freebsd

package reactor

import (
	"errors"
	"time"
)

// poller is unavailable on this platform, New always fails.
type poller struct{}

func (p *poller) init() error                     { return errors.ErrUnsupported }
func (p *poller) close() error                    { return nil }
func (p *poller) add(int, *Registration) error    { return errors.ErrUnsupported }
func (p *poller) remove(int, *Registration) error { return errors.ErrUnsupported }
func (p *poller) wakeup() error                   { return errors.ErrUnsupported }
func (p *poller) wait(time.Duration) (int, error) { return 0, errors.ErrUnsupported }
