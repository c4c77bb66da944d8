//go:build linux || darwin || freebsd

package ostimer

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeycumines/go-ostimer/reactor"
)

// newTestReactor creates a reactor driven by a background goroutine, which
// is stopped and closed on cleanup.
func newTestReactor(t *testing.T) *reactor.Reactor {
	t.Helper()
	r, err := reactor.New()
	if err != nil {
		t.Fatalf("reactor.New() failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Run() failed: %v", err)
		}
		if err := r.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
	})
	return r
}

// newManualReactor creates a reactor that the test drives, via Turn.
func newManualReactor(t *testing.T) *reactor.Reactor {
	t.Helper()
	r, err := reactor.New()
	if err != nil {
		t.Fatalf("reactor.New() failed: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// turn performs a single non-blocking reactor pass.
func turn(t *testing.T, r *reactor.Reactor) int {
	t.Helper()
	n, err := r.Turn(0)
	if err != nil {
		t.Fatalf("Turn() failed: %v", err)
	}
	return n
}

// mockTask stands in for a suspended task, recording wakes.
type mockTask struct {
	ch    chan struct{}
	wakes atomic.Int32
}

func newMockTask() *mockTask {
	return &mockTask{ch: make(chan struct{}, 1)}
}

func (x *mockTask) Wake() {
	x.wakes.Add(1)
	select {
	case x.ch <- struct{}{}:
	default:
	}
}

func (x *mockTask) waitWoken(t *testing.T, timeout time.Duration) {
	t.Helper()
	select {
	case <-x.ch:
	case <-time.After(timeout):
		t.Fatalf("task not woken within %s", timeout)
	}
}

type poller interface {
	Poll(w reactor.Waker) (bool, error)
}

func assertReady(t *testing.T, p poller, task reactor.Waker, msg string) {
	t.Helper()
	ready, err := p.Poll(task)
	if err != nil {
		t.Fatalf("%s: Poll() failed: %v", msg, err)
	}
	if !ready {
		t.Fatalf("%s: NotReady", msg)
	}
}

func assertNotReady(t *testing.T, p poller, task reactor.Waker, msg string) {
	t.Helper()
	ready, err := p.Poll(task)
	if err != nil {
		t.Fatalf("%s: Poll() failed: %v", msg, err)
	}
	if ready {
		t.Fatalf("%s: Ready", msg)
	}
}

// countOpenFDs counts the descriptors open in this process. The count
// includes the descriptor used to list the directory, consistently.
func countOpenFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/dev/fd")
	if err != nil {
		t.Skipf("cannot list /dev/fd: %v", err)
	}
	return len(entries)
}
