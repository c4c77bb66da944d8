// Package reactor provides edge-triggered read-readiness notification for
// file descriptors, using platform-native mechanisms:
//   - Linux: epoll
//   - Darwin/FreeBSD: kqueue
//
// A [Reactor] is driven by exactly one goroutine at a time, via [Reactor.Run]
// or repeated calls to [Reactor.Turn]. Descriptors are registered with
// [Reactor.Register], which returns a [Registration]. Tasks poll a
// Registration with [Registration.PollReadReady], passing a [Waker] that is
// invoked (on the reactor goroutine) once the descriptor becomes readable.
//
// # Edge-triggered readiness
//
// Readiness is sticky: once an edge has been observed, the Registration stays
// ready until [Registration.ClearReadReady] is called with the [ReadyEvent]
// that was acted upon. A caller that finds nothing to consume MUST clear
// readiness, otherwise it will either busy-poll or stall. ClearReadReady is
// generation checked, so an edge that arrives between the consume attempt and
// the clear is never lost.
//
// # Safety
//
// Always call [Registration.Deregister] before closing a file descriptor, to
// prevent stale event delivery due to FD recycling. Stale deliveries are still
// possible (dispatch does not hold locks while notifying), which is one more
// reason readiness must be treated as a hint, and confirmed by the caller.
package reactor
