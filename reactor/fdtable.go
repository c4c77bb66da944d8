package reactor

import (
	"sync"
)

// initialFDs is the initial size of the direct-indexed table.
const initialFDs = 1024

// maxFDLimit is the maximum FD value we support for dynamic growth.
// 100M is enough for production with ulimit -n > 1M.
const maxFDLimit = 100000000

// fdTable maps descriptors to registrations, using direct indexing.
type fdTable struct {
	regs []*Registration
	mu   sync.RWMutex
}

// insert adds reg, calling ctl while holding the lock, to prevent racing a
// concurrent remove of the same fd. The entry is rolled back if ctl fails.
func (t *fdTable) insert(fd int, reg *Registration, ctl func() error) error {
	if fd < 0 || fd >= maxFDLimit {
		return ErrFDOutOfRange
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if fd >= len(t.regs) {
		// grow in chunks to minimize allocations
		newSize := fd*2 + 1
		if newSize < initialFDs {
			newSize = initialFDs
		}
		if newSize > maxFDLimit {
			newSize = maxFDLimit + 1
		}
		regs := make([]*Registration, newSize)
		copy(regs, t.regs)
		t.regs = regs
	}

	if t.regs[fd] != nil {
		return ErrFDAlreadyRegistered
	}

	t.regs[fd] = reg
	if err := ctl(); err != nil {
		t.regs[fd] = nil
		return err
	}
	return nil
}

// remove clears the entry for fd, if it still belongs to reg, calling ctl
// while holding the lock.
func (t *fdTable) remove(fd int, reg *Registration, ctl func() error) error {
	if fd < 0 {
		return ErrFDOutOfRange
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if fd >= len(t.regs) || t.regs[fd] != reg {
		return ErrFDNotRegistered
	}

	t.regs[fd] = nil
	return ctl()
}

// lookup returns the registration for fd, or nil.
func (t *fdTable) lookup(fd int) *Registration {
	if fd < 0 {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if fd < len(t.regs) {
		return t.regs[fd]
	}
	return nil
}
