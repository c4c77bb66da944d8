package reactor

import (
	"errors"
)

// Standard errors.
var (
	ErrFDOutOfRange        = errors.New("reactor: fd out of range (max 100000000)")
	ErrFDAlreadyRegistered = errors.New("reactor: fd already registered")
	ErrFDNotRegistered     = errors.New("reactor: fd not registered")
	ErrClosed              = errors.New("reactor: closed")
	ErrRunning             = errors.New("reactor: already running")
)
