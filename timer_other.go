//go:build !linux && !darwin && !freebsd

package ostimer

import (
	"errors"
)

// sysTimer is unavailable on this platform, only zero durations succeed.
type sysTimer struct{}

func newSysTimer() (*sysTimer, error) { return nil, errors.ErrUnsupported }

func (x *sysTimer) fd() int            { return -1 }
func (x *sysTimer) arm(TimeSpec) error { return errors.ErrUnsupported }
func (x *sysTimer) consume() error     { return errors.ErrUnsupported }
func (x *sysTimer) close() error       { return nil }
