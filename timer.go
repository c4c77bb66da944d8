package ostimer

import (
	"github.com/joeycumines/go-ostimer/reactor"
	"github.com/joeycumines/logiface"
)

// timer binds a sysTimer to its reactor Registration, as a single owned
// unit. Both are released together, by close.
type timer struct {
	sys    *sysTimer
	reg    *reactor.Registration
	logger *logiface.Logger[logiface.Event]
	spec   TimeSpec
}

// newTimer creates, arms, and registers a timer. On failure, any partially
// created resource is closed, and a *TimerError returned.
func newTimer(spec TimeSpec, cfg *timerOptions) (_ *timer, err error) {
	defer func() {
		if err != nil {
			cfg.logger.Err().
				Str("kind", spec.Kind().String()).
				Dur("duration", spec.Duration()).
				Err(err).
				Log("timer creation failed")
		}
	}()

	r := cfg.reactor
	if r == nil {
		if r, err = reactor.Default(); err != nil {
			return nil, &TimerError{Op: OpRegister, Err: err}
		}
	}

	sys, err := newSysTimer()
	if err != nil {
		return nil, &TimerError{Op: OpCreate, Err: err}
	}
	defer func() {
		if err != nil {
			_ = sys.close()
		}
	}()

	if err = sys.arm(spec); err != nil {
		return nil, &TimerError{Op: OpArm, Err: err}
	}

	reg, err := r.Register(sys.fd())
	if err != nil {
		return nil, &TimerError{Op: OpRegister, Err: err}
	}

	cfg.logger.Debug().
		Int("fd", sys.fd()).
		Str("kind", spec.Kind().String()).
		Dur("duration", spec.Duration()).
		Log("timer armed")

	return &timer{
		sys:    sys,
		reg:    reg,
		logger: cfg.logger,
		spec:   spec,
	}, nil
}

// poll reports whether an expiration was consumed. If not, w will be woken
// once the descriptor next becomes readable.
func (x *timer) poll(w reactor.Waker) (bool, error) {
	for {
		ev, ready, err := x.reg.PollReadReady(w)
		if err != nil {
			return false, &TimerError{Op: OpConsume, Err: err}
		}
		if !ready {
			return false, nil
		}

		err = x.sys.consume()
		if err == nil {
			return true, nil
		}
		if err != errSpuriousWake {
			x.logger.Err().
				Int("fd", x.reg.FD()).
				Str("kind", x.spec.Kind().String()).
				Err(err).
				Log("timer consume failed")
			return false, &TimerError{Op: OpConsume, Err: err}
		}

		x.logger.Trace().
			Int("fd", x.reg.FD()).
			Log("spurious wake")

		// must re-arm edge detection, then poll again, to either record w, or
		// observe an edge that raced the consume
		x.reg.ClearReadReady(ev)
	}
}

// release closes an owner's timer once the owner is garbage collected.
// It must not reference the owner, or the owner is never collected.
func (x *timer) release() {
	x.logger.Debug().
		Int("fd", x.reg.FD()).
		Log("timer dropped without close")
	_ = x.close()
}

// close deregisters, then closes the timer resource.
func (x *timer) close() error {
	fd := x.reg.FD()
	err := x.reg.Deregister()
	if err2 := x.sys.close(); err == nil {
		err = err2
	}
	x.logger.Debug().
		Int("fd", fd).
		Log("timer closed")
	return err
}
