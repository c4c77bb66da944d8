//go:build linux || darwin || freebsd

package ostimer

import (
	"runtime"
	"testing"
	"time"

	"github.com/joeycumines/go-ostimer/reactor"
)

// These tests count process descriptors, and so must not run in parallel.

func TestZeroDuration_AllocatesNothing(t *testing.T) {
	countOpenFDs(t)
	before := countOpenFDs(t)

	d, err := NewDelay(0)
	if err != nil {
		t.Fatalf("NewDelay() failed: %v", err)
	}
	i, err := NewInterval(0)
	if err != nil {
		t.Fatalf("NewInterval() failed: %v", err)
	}

	task := newMockTask()
	assertReady(t, d, task, "delay")
	assertReady(t, i, task, "interval")

	if after := countOpenFDs(t); after != before {
		t.Errorf("expected %d descriptors, got %d", before, after)
	}

	if err := d.Close(); err != nil {
		t.Errorf("Delay.Close() failed: %v", err)
	}
	if err := i.Close(); err != nil {
		t.Errorf("Interval.Close() failed: %v", err)
	}
}

func TestClose_ReleasesDescriptorOnce(t *testing.T) {
	r := newManualReactor(t)

	type closer interface {
		poller
		Close() error
	}

	for _, tc := range []struct {
		name string
		new  func() (closer, error)
		// prepare moves the instance into the state under test
		prepare func(t *testing.T, c closer)
	}{
		{
			name: "delay armed",
			new:  func() (closer, error) { return NewDelay(time.Hour, WithReactor(r)) },
		},
		{
			name: "delay fired",
			new:  func() (closer, error) { return NewDelay(time.Millisecond, WithReactor(r)) },
			prepare: func(t *testing.T, c closer) {
				time.Sleep(10 * time.Millisecond)
				turn(t, r)
				assertReady(t, c, newMockTask(), "fired")
			},
		},
		{
			name: "interval armed",
			new:  func() (closer, error) { return NewInterval(time.Hour, WithReactor(r)) },
		},
		{
			name: "interval ticking",
			new:  func() (closer, error) { return NewInterval(time.Millisecond, WithReactor(r)) },
			prepare: func(t *testing.T, c closer) {
				time.Sleep(10 * time.Millisecond)
				turn(t, r)
				assertReady(t, c, newMockTask(), "tick")
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			countOpenFDs(t)
			before := countOpenFDs(t)

			c, err := tc.new()
			if err != nil {
				t.Fatalf("constructor failed: %v", err)
			}
			if n := countOpenFDs(t); n != before+1 {
				t.Fatalf("expected exactly one descriptor per timer, got %d", n-before)
			}

			if tc.prepare != nil {
				tc.prepare(t, c)
			}

			if err := c.Close(); err != nil {
				t.Fatalf("Close() failed: %v", err)
			}
			if n := countOpenFDs(t); n != before {
				t.Fatalf("expected %d descriptors after Close, got %d", before, n)
			}

			// a second close must not close a recycled descriptor
			if err := c.Close(); err != nil {
				t.Fatalf("second Close() failed: %v", err)
			}
			if n := countOpenFDs(t); n != before {
				t.Fatalf("expected %d descriptors after second Close, got %d", before, n)
			}
		})
	}
}

func TestConstructionFailure_ReleasesDescriptor(t *testing.T) {
	r, err := reactor.New()
	if err != nil {
		t.Fatalf("reactor.New() failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	countOpenFDs(t)
	before := countOpenFDs(t)

	for n := 0; n < 10; n++ {
		if _, err := NewDelay(time.Second, WithReactor(r)); err == nil {
			t.Fatal("expected registration failure")
		}
		if _, err := NewInterval(time.Second, WithReactor(r)); err == nil {
			t.Fatal("expected registration failure")
		}
	}

	if after := countOpenFDs(t); after != before {
		t.Errorf("leaked %d descriptors", after-before)
	}
}

func TestManyTimers_NoLeak(t *testing.T) {
	r := newTestReactor(t)

	countOpenFDs(t)
	before := countOpenFDs(t)

	timers := make([]*Delay, 0, 64)
	for n := 0; n < cap(timers); n++ {
		d, err := NewDelay(time.Duration(n+1)*time.Microsecond, WithReactor(r))
		if err != nil {
			t.Fatalf("NewDelay() failed: %v", err)
		}
		timers = append(timers, d)
	}

	if n := countOpenFDs(t); n != before+len(timers) {
		t.Errorf("expected %d new descriptors, got %d", len(timers), n-before)
	}

	for _, d := range timers {
		if err := d.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
	}

	if after := countOpenFDs(t); after != before {
		t.Errorf("leaked %d descriptors", after-before)
	}
}

func TestDropped_ReleasesDescriptor(t *testing.T) {
	r := newManualReactor(t)

	countOpenFDs(t)
	before := countOpenFDs(t)

	const n = 8
	func() {
		for i := 0; i < n; i++ {
			if _, err := NewDelay(time.Hour, WithReactor(r)); err != nil {
				t.Fatalf("NewDelay() failed: %v", err)
			}
			x, err := NewInterval(time.Millisecond, WithReactor(r))
			if err != nil {
				t.Fatalf("NewInterval() failed: %v", err)
			}
			// dropped after firing
			time.Sleep(2 * time.Millisecond)
			turn(t, r)
			assertReady(t, x, newMockTask(), "tick")
		}
	}()

	if after := countOpenFDs(t); after != before+2*n {
		t.Fatalf("expected %d new descriptors, got %d", 2*n, after-before)
	}

	// cleanups run on a separate goroutine, after collection
	deadline := time.Now().Add(5 * time.Second)
	for {
		runtime.GC()
		after := countOpenFDs(t)
		if after == before {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("leaked %d descriptors after dropping %d instances", after-before, 2*n)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// the reactor no longer tracks any of them
	if n := turn(t, r); n != 0 {
		t.Errorf("expected no dispatch to released timers, got %d", n)
	}
}

func TestClose_StopsCleanup(t *testing.T) {
	r := newManualReactor(t)

	d, err := NewDelay(time.Hour, WithReactor(r))
	if err != nil {
		t.Fatalf("NewDelay() failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	countOpenFDs(t)
	before := countOpenFDs(t)

	// a descriptor that may reuse the number the closed timer held
	other, err := NewInterval(time.Hour, WithReactor(r))
	if err != nil {
		t.Fatalf("NewInterval() failed: %v", err)
	}
	defer other.Close()

	for i := 0; i < 5; i++ {
		runtime.GC()
		time.Sleep(5 * time.Millisecond)
	}

	if after := countOpenFDs(t); after != before+1 {
		t.Fatalf("expected %d descriptors, got %d", before+1, after)
	}
	assertNotReady(t, other, newMockTask(), "other")
}
