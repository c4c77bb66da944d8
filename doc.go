// Package ostimer provides timers that rely on operating system mechanisms
// for timer management, rather than a software timer wheel, or the Go
// runtime's timers. This comes at somewhat increased overhead, one kernel
// resource per active timer, but allows granularity limited only by the
// kernel.
//
// # Primitives
//
//   - [Delay] completes once, a fixed duration after creation.
//   - [Interval] ticks repeatedly, at a fixed period.
//
// Both are poll-based: [Delay.Poll] and [Interval.Poll] never block, instead
// recording a [reactor.Waker] to be woken once the underlying descriptor
// becomes readable. [Delay.Wait] and [Interval.Tick] are blocking
// conveniences, built on Poll.
//
// # Platform Support
//
// The timer resource is implemented using platform-native mechanisms:
//   - Linux: timerfd_create(2), using CLOCK_MONOTONIC
//   - Darwin/FreeBSD: a dedicated kqueue, holding a single EVFILT_TIMER
//
// The resource's descriptor is registered with a [reactor.Reactor], see
// [WithReactor]. By default, the process-wide [reactor.Default] is used.
//
// # Usage
//
//	d, err := ostimer.NewDelay(250 * time.Microsecond)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Close()
//
//	if err := d.Wait(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Resources
//
// A zero duration allocates nothing, and completes on the first poll. Any
// other duration allocates exactly one descriptor, released by Close. An
// instance dropped without calling Close is released once it is garbage
// collected, but Close should still be preferred, as collection may be
// arbitrarily delayed.
package ostimer
