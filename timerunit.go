package ostimer

import (
	"fmt"
	"time"
)

// timerUnit is the resolution of a kqueue EVFILT_TIMER value.
type timerUnit uint8

const (
	unitNanoseconds timerUnit = iota
	unitMicroseconds
	unitMilliseconds
	unitSeconds
)

func (u timerUnit) String() string {
	switch u {
	case unitNanoseconds:
		return "ns"
	case unitMicroseconds:
		return "us"
	case unitMilliseconds:
		return "ms"
	case unitSeconds:
		return "s"
	default:
		return fmt.Sprintf("timerUnit(%d)", u)
	}
}

// selectTimerUnit returns the finest unit in which d does not exceed limit,
// and d scaled to that unit, rounded up, so the timer never fires early.
// The caller must ensure d is non-negative, and limit must not exceed
// math.MaxInt64.
func selectTimerUnit(d time.Duration, limit uint64) (timerUnit, int64, error) {
	unit := unitNanoseconds
	v := uint64(d)
	for v > limit {
		if unit == unitSeconds {
			return 0, 0, fmt.Errorf("%w: %s exceeds %d seconds", ErrDurationRange, d, limit)
		}
		unit++
		v = (v + 999) / 1000
	}
	return unit, int64(v), nil
}
