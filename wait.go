package ostimer

import (
	"context"

	"github.com/joeycumines/go-ostimer/reactor"
)

// waitReady blocks the calling goroutine until poll reports ready, or ctx is
// done, using a waker that signals a channel.
func waitReady(ctx context.Context, poll func(reactor.Waker) (bool, error)) error {
	signal := make(chan struct{}, 1)
	w := reactor.WakerFunc(func() {
		select {
		case signal <- struct{}{}:
		default:
		}
	})
	for {
		ready, err := poll(w)
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		select {
		case <-signal:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
