//go:build darwin || freebsd

package reactor

import (
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// poller manages read interest using kqueue (Darwin, FreeBSD).
//
// Registrations use EV_CLEAR, for edge-triggered delivery, the wake pipe is
// level-triggered, and drained on every delivery.
type poller struct {
	table    fdTable
	eventBuf [256]unix.Kevent_t
	kq       int
	wakeR    int
	wakeW    int
	closed   atomic.Bool
}

// init initializes the kqueue instance, and the wake pipe.
func (p *poller) init() error {
	kq, err := unix.Kqueue()
	if err != nil {
		return err
	}
	unix.CloseOnExec(kq)

	wakeR, wakeW, err := createWakeFd()
	if err != nil {
		_ = closeFD(kq)
		return err
	}

	if err := keventChange(kq, wakeR, unix.EV_ADD|unix.EV_ENABLE); err != nil {
		closeWakeFd(wakeR, wakeW)
		_ = closeFD(kq)
		return err
	}

	p.kq = kq
	p.wakeR = wakeR
	p.wakeW = wakeW

	return nil
}

// close closes the kqueue instance. It is idempotent.
func (p *poller) close() error {
	if p.closed.Swap(true) {
		return nil
	}
	closeWakeFd(p.wakeR, p.wakeW)
	return closeFD(p.kq)
}

func (p *poller) add(fd int, reg *Registration) error {
	if p.closed.Load() {
		return ErrClosed
	}
	return p.table.insert(fd, reg, func() error {
		return keventChange(p.kq, fd, unix.EV_ADD|unix.EV_ENABLE|unix.EV_CLEAR)
	})
}

func (p *poller) remove(fd int, reg *Registration) error {
	return p.table.remove(fd, reg, func() error {
		if p.closed.Load() {
			return nil
		}
		// ignore errors on delete, the filter may already be gone
		_ = keventChange(p.kq, fd, unix.EV_DELETE)
		return nil
	})
}

func (p *poller) wakeup() error {
	if p.closed.Load() {
		return ErrClosed
	}
	return signalWakeFd(p.wakeW)
}

// wait polls for events, dispatching them inline, returning the number of
// registrations notified.
func (p *poller) wait(timeout time.Duration) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}

	var ts *unix.Timespec
	if timeout >= 0 {
		v := unix.NsecToTimespec(int64(timeout))
		ts = &v
	}

	n, err := unix.Kevent(p.kq, nil, p.eventBuf[:], ts)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	var dispatched int
	for i := 0; i < n; i++ {
		fd := int(p.eventBuf[i].Ident)
		if fd == p.wakeR {
			drainWakeFd(fd)
			continue
		}
		if reg := p.table.lookup(fd); reg != nil {
			reg.notify(keventToEvents(&p.eventBuf[i]))
			dispatched++
		}
	}

	return dispatched, nil
}

// keventChange applies a single EVFILT_READ change.
func keventChange(kq, fd int, flags int) error {
	var ev unix.Kevent_t
	unix.SetKevent(&ev, fd, unix.EVFILT_READ, flags)
	_, err := unix.Kevent(kq, []unix.Kevent_t{ev}, nil, nil)
	return err
}

// keventToEvents converts kqueue event to IOEvents.
func keventToEvents(kev *unix.Kevent_t) IOEvents {
	var events IOEvents
	if kev.Filter == unix.EVFILT_READ {
		events |= EventRead
	}
	if kev.Flags&unix.EV_ERROR != 0 {
		events |= EventError
	}
	if kev.Flags&unix.EV_EOF != 0 {
		events |= EventHangup
	}
	return events
}
