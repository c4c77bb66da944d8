//go:build linux || darwin || freebsd

package reactor

import (
	"golang.org/x/sys/unix"
)

// wakeValue is written to the wake descriptor, 8 bytes being the size an
// eventfd requires, and harmless for a pipe.
var wakeValue = [8]byte{1}

// closeFD closes a file descriptor on Unix systems.
func closeFD(fd int) error {
	return unix.Close(fd)
}

// closeWakeFd closes both ends of a wake descriptor, which may be the same.
func closeWakeFd(r, w int) {
	_ = closeFD(r)
	if w != r {
		_ = closeFD(w)
	}
}

// signalWakeFd makes the wake descriptor readable. A full buffer means a
// wakeup is already pending.
func signalWakeFd(fd int) error {
	for {
		_, err := unix.Write(fd, wakeValue[:])
		switch err {
		case nil, unix.EAGAIN:
			return nil
		case unix.EINTR:
			continue
		default:
			return err
		}
	}
}

// drainWakeFd reads until the wake descriptor would block.
func drainWakeFd(fd int) {
	var buf [64]byte
	for {
		n, err := unix.Read(fd, buf[:])
		if err == unix.EINTR {
			continue
		}
		if err != nil || n <= 0 {
			return
		}
	}
}
