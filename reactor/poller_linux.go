//go:build linux

package reactor

import (
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// poller manages read interest using epoll (Linux).
//
// Registrations are edge-triggered (EPOLLET), the wake descriptor is
// level-triggered, and drained on every delivery.
type poller struct {
	table    fdTable
	eventBuf [256]unix.EpollEvent
	epfd     int
	wakeR    int
	wakeW    int
	closed   atomic.Bool
}

// init initializes the epoll instance, and the wake descriptor.
func (p *poller) init() error {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return err
	}

	wakeR, wakeW, err := createWakeFd()
	if err != nil {
		_ = closeFD(epfd)
		return err
	}

	ev := unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(wakeR),
	}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakeR, &ev); err != nil {
		closeWakeFd(wakeR, wakeW)
		_ = closeFD(epfd)
		return err
	}

	p.epfd = epfd
	p.wakeR = wakeR
	p.wakeW = wakeW

	return nil
}

// close closes the epoll instance. It is idempotent.
func (p *poller) close() error {
	if p.closed.Swap(true) {
		return nil
	}
	closeWakeFd(p.wakeR, p.wakeW)
	return closeFD(p.epfd)
}

func (p *poller) add(fd int, reg *Registration) error {
	if p.closed.Load() {
		return ErrClosed
	}
	return p.table.insert(fd, reg, func() error {
		ev := unix.EpollEvent{
			Events: unix.EPOLLIN | unix.EPOLLRDHUP | unix.EPOLLET,
			Fd:     int32(fd),
		}
		return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
	})
}

func (p *poller) remove(fd int, reg *Registration) error {
	return p.table.remove(fd, reg, func() error {
		if p.closed.Load() {
			return nil
		}
		return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
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

	n, err := unix.EpollWait(p.epfd, p.eventBuf[:], timeoutMillis(timeout))
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	var dispatched int
	for i := 0; i < n; i++ {
		fd := int(p.eventBuf[i].Fd)
		if fd == p.wakeR {
			drainWakeFd(fd)
			continue
		}
		// copied under read lock, notified outside of it
		if reg := p.table.lookup(fd); reg != nil {
			reg.notify(epollToEvents(p.eventBuf[i].Events))
			dispatched++
		}
	}

	return dispatched, nil
}

// timeoutMillis converts to epoll_wait's timeout, rounding up, so a short
// timeout doesn't degrade to a busy poll.
func timeoutMillis(timeout time.Duration) int {
	if timeout < 0 {
		return -1
	}
	ms := (timeout + time.Millisecond - 1) / time.Millisecond
	if ms > 1<<31-1 {
		return 1<<31 - 1
	}
	return int(ms)
}

// epollToEvents converts epoll event flags to IOEvents.
func epollToEvents(epollEvents uint32) IOEvents {
	var events IOEvents
	if epollEvents&unix.EPOLLIN != 0 {
		events |= EventRead
	}
	if epollEvents&unix.EPOLLERR != 0 {
		events |= EventError
	}
	if epollEvents&(unix.EPOLLHUP|unix.EPOLLRDHUP) != 0 {
		events |= EventHangup
	}
	return events
}
