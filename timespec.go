package ostimer

import (
	"fmt"
	"time"
)

// SpecKind distinguishes one-shot from repeating timers.
type SpecKind uint8

const (
	// SpecTimeout fires once, then the kernel disarms the timer.
	SpecTimeout SpecKind = iota
	// SpecInterval fires repeatedly, the kernel re-arming the timer.
	SpecInterval
)

// TimeSpec describes a requested wait, see TimeoutSpec and IntervalSpec.
type TimeSpec struct {
	d    time.Duration
	kind SpecKind
}

// TimeoutSpec fires once, after d.
func TimeoutSpec(d time.Duration) TimeSpec {
	return TimeSpec{d: d, kind: SpecTimeout}
}

// IntervalSpec fires after d, then every d thereafter.
func IntervalSpec(d time.Duration) TimeSpec {
	return TimeSpec{d: d, kind: SpecInterval}
}

// Kind returns the kind of the spec.
func (x TimeSpec) Kind() SpecKind { return x.kind }

// Duration returns the first expiration, which is also the period, for
// SpecInterval.
func (x TimeSpec) Duration() time.Duration { return x.d }

// Repeating reports whether the kernel should re-arm after each expiration.
func (x TimeSpec) Repeating() bool { return x.kind == SpecInterval }

// String returns the string representation of the kind.
func (k SpecKind) String() string {
	switch k {
	case SpecTimeout:
		return "timeout"
	case SpecInterval:
		return "interval"
	default:
		return fmt.Sprintf("SpecKind(%d)", k)
	}
}

func (x TimeSpec) validate() error {
	if x.d < 0 {
		return ErrNegativeDuration
	}
	return nil
}
