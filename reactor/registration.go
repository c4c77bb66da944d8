package reactor

import (
	"fmt"
	"sync"
)

// IOEvents represents the readiness conditions reported for a descriptor.
type IOEvents uint32

const (
	// EventRead indicates the file descriptor is ready for reading.
	EventRead IOEvents = 1 << iota
	// EventError indicates an error condition on the file descriptor.
	EventError
	// EventHangup indicates the peer closed its end.
	EventHangup
)

// ReadinessState models the lifecycle of a Registration.
type ReadinessState int32

const (
	// StateUnregistered is the zero value, a Registration not obtained from
	// Reactor.Register.
	StateUnregistered ReadinessState = iota
	// StateNotReady indicates no edge is pending.
	StateNotReady
	// StateReady indicates an edge has been observed, and not yet cleared.
	StateReady
	// StateClosed indicates the Registration was deregistered.
	StateClosed
)

// String returns the string representation of the state.
func (s ReadinessState) String() string {
	switch s {
	case StateUnregistered:
		return "Unregistered"
	case StateNotReady:
		return "NotReady"
	case StateReady:
		return "Ready"
	case StateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("ReadinessState(%d)", s)
	}
}

// ReadyEvent is a snapshot of a ready Registration, see
// Registration.PollReadReady and Registration.ClearReadReady.
type ReadyEvent struct {
	tick   uint64
	events IOEvents
}

// Events returns the conditions accumulated since readiness was last cleared.
func (x ReadyEvent) Events() IOEvents { return x.events }

// Registration binds a single descriptor to a Reactor, for read interest.
// It is safe to use concurrently with the Reactor, but is intended to be
// polled by a single task at a time.
type Registration struct {
	reactor *Reactor
	waker   Waker
	fd      int
	tick    uint64
	mu      sync.Mutex
	state   ReadinessState
	events  IOEvents
}

// FD returns the registered descriptor.
func (x *Registration) FD() int {
	return x.fd
}

// State returns the current readiness state.
func (x *Registration) State() ReadinessState {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state
}

// PollReadReady reports whether the descriptor is readable. If it is not, w
// is recorded (replacing any previously recorded waker), and will be woken
// once the next edge is observed.
//
// An error is returned if the Registration has been deregistered, or the
// Reactor has been closed or failed, as no further edges will be delivered.
func (x *Registration) PollReadReady(w Waker) (ReadyEvent, bool, error) {
	if x.reactor == nil {
		return ReadyEvent{}, false, ErrFDNotRegistered
	}
	if err := x.reactor.failure(); err != nil {
		return ReadyEvent{}, false, err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	switch x.state {
	case StateClosed:
		return ReadyEvent{}, false, ErrClosed
	case StateReady:
		return ReadyEvent{tick: x.tick, events: x.events}, true, nil
	}

	x.waker = w
	return ReadyEvent{}, false, nil
}

// ClearReadReady resets readiness, re-arming edge detection, but only if no
// edge was observed after ev was returned by PollReadReady.
func (x *Registration) ClearReadReady(ev ReadyEvent) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.state == StateReady && x.tick == ev.tick {
		x.state = StateNotReady
		x.events = 0
	}
}

// Deregister removes the descriptor from the Reactor. It is idempotent, and
// does not close the descriptor.
func (x *Registration) Deregister() error {
	x.mu.Lock()
	if x.state == StateClosed || x.reactor == nil {
		x.mu.Unlock()
		return nil
	}
	x.state = StateClosed
	x.waker = nil
	x.events = 0
	x.mu.Unlock()

	if err := x.reactor.poller.remove(x.fd, x); err != nil {
		x.reactor.logger.Err().
			Int("fd", x.fd).
			Err(err).
			Log("deregister failed")
		return err
	}

	x.reactor.logger.Debug().
		Int("fd", x.fd).
		Log("deregistered")

	return nil
}

// notify records an edge, and wakes the recorded task, if any.
func (x *Registration) notify(events IOEvents) {
	x.mu.Lock()
	if x.state == StateClosed {
		x.mu.Unlock()
		return
	}
	x.state = StateReady
	x.tick++
	x.events |= events
	w := x.waker
	x.waker = nil
	x.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}
