//go:build darwin || freebsd

package ostimer

import (
	"fmt"
	"math"

	"golang.org/x/sys/unix"
)

// timerIdent is the ident of the single EVFILT_TIMER, within its own kqueue.
const timerIdent = 1

// sysTimer owns a kqueue (Darwin, FreeBSD), containing a single timer. The
// kqueue descriptor becomes readable when the timer fires.
type sysTimer struct {
	kq int
}

func newSysTimer() (*sysTimer, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(kq)
	return &sysTimer{kq: kq}, nil
}

func (x *sysTimer) fd() int {
	return x.kq
}

func (x *sysTimer) arm(spec TimeSpec) error {
	// the finest unit that fits in the native word, which is the width of
	// the kernel's intptr_t data field
	unit, value, err := selectTimerUnit(spec.Duration(), math.MaxInt)
	if err != nil {
		return err
	}

	flags := unix.EV_ADD | unix.EV_ENABLE
	if !spec.Repeating() {
		flags |= unix.EV_ONESHOT
	}

	var ev unix.Kevent_t
	unix.SetKevent(&ev, timerIdent, unix.EVFILT_TIMER, flags)
	ev.Fflags = unitNote(unit)
	ev.Data = value

	_, err = unix.Kevent(x.kq, []unix.Kevent_t{ev}, nil, nil)
	return err
}

// consume retrieves the pending timer event, without blocking. Room for two
// events is provided, so more than one can be detected, rather than silently
// truncated.
func (x *sysTimer) consume() error {
	var (
		events [2]unix.Kevent_t
		zero   unix.Timespec
	)
	for {
		n, err := unix.Kevent(x.kq, nil, events[:], &zero)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		switch n {
		case 0:
			return errSpuriousWake
		case 1:
			ev := &events[0]
			if ev.Filter != unix.EVFILT_TIMER || uint64(ev.Ident) != timerIdent {
				return fmt.Errorf("%w: unexpected kevent ident=%d filter=%d", ErrProtocolViolation, ev.Ident, ev.Filter)
			}
			if ev.Flags&unix.EV_ERROR != 0 {
				return unix.Errno(ev.Data)
			}
			return nil
		default:
			return fmt.Errorf("%w: %d kevents pending, expected at most 1", ErrProtocolViolation, n)
		}
	}
}

// close closes the kqueue, at most once, which also deletes the timer.
func (x *sysTimer) close() error {
	if x.kq < 0 {
		return nil
	}
	kq := x.kq
	x.kq = -1
	return unix.Close(kq)
}

// unitNote maps a timerUnit to EVFILT_TIMER fflags. Milliseconds is the
// kernel default, and has no flag.
func unitNote(u timerUnit) uint32 {
	switch u {
	case unitNanoseconds:
		return unix.NOTE_NSECONDS
	case unitMicroseconds:
		return unix.NOTE_USECONDS
	case unitSeconds:
		return unix.NOTE_SECONDS
	default:
		return 0
	}
}
