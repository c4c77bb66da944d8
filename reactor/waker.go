package reactor

type (
	// Waker resumes a suspended task. Wake is called from the goroutine
	// driving the Reactor, and must not block.
	Waker interface {
		Wake()
	}

	// WakerFunc implements Waker using a function.
	WakerFunc func()
)

var (
	// compile time assertions

	_ Waker = WakerFunc(nil)
)

// Wake calls x, if it is non-nil.
func (x WakerFunc) Wake() {
	if x != nil {
		x()
	}
}
