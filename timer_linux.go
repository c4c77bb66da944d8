//go:build linux

package ostimer

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// sysTimer owns a timerfd (Linux), using the monotonic clock.
type sysTimer struct {
	tfd int
}

func newSysTimer() (*sysTimer, error) {
	tfd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &sysTimer{tfd: tfd}, nil
}

func (x *sysTimer) fd() int {
	return x.tfd
}

func (x *sysTimer) arm(spec TimeSpec) error {
	v := itimerspec(spec)
	return unix.TimerfdSettime(x.tfd, 0, &v, nil)
}

// consume reads the expiration counter. A timerfd that has not expired fails
// the read with EAGAIN, which is reported as errSpuriousWake.
func (x *sysTimer) consume() error {
	var buf [8]byte
	for {
		n, err := unix.Read(x.tfd, buf[:])
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return errSpuriousWake
		case err != nil:
			return err
		case n != len(buf):
			return fmt.Errorf("%w: timerfd read returned %d bytes", ErrProtocolViolation, n)
		}
		return nil
	}
}

// close closes the timerfd, at most once.
func (x *sysTimer) close() error {
	if x.tfd < 0 {
		return nil
	}
	tfd := x.tfd
	x.tfd = -1
	return unix.Close(tfd)
}

// itimerspec converts spec to timerfd_settime's representation. A zero
// it_interval fires once, a non-zero one re-arms at that period.
func itimerspec(spec TimeSpec) unix.ItimerSpec {
	value := unix.NsecToTimespec(int64(spec.Duration()))
	v := unix.ItimerSpec{Value: value}
	if spec.Repeating() {
		v.Interval = value
	}
	return v
}
