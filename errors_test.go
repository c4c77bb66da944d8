//go:build linux || darwin || freebsd

package ostimer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestTimerError_Error(t *testing.T) {
	for _, tc := range [...]struct {
		err  *TimerError
		want string
	}{
		{&TimerError{Op: OpCreate, Err: unix.EMFILE}, "ostimer: create: " + unix.EMFILE.Error()},
		{&TimerError{Op: OpConsume, Err: ErrProtocolViolation}, "ostimer: consume: ostimer: protocol violation"},
		{&TimerError{Op: OpArm}, "ostimer: arm failed"},
		{&TimerError{Op: 42, Err: ErrClosed}, "ostimer: Op(42): ostimer: closed"},
	} {
		assert.Equal(t, tc.want, tc.err.Error())
	}
}

func TestTimerError_Unwrap(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &TimerError{Op: OpRegister, Err: unix.EBADF})

	assert.ErrorIs(t, err, unix.EBADF)
	assert.NotErrorIs(t, err, ErrClosed)

	var timerErr *TimerError
	if assert.True(t, errors.As(err, &timerErr)) {
		assert.Equal(t, OpRegister, timerErr.Op)
	}
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "create", OpCreate.String())
	assert.Equal(t, "arm", OpArm.String())
	assert.Equal(t, "register", OpRegister.String())
	assert.Equal(t, "consume", OpConsume.String())
	assert.Equal(t, "Op(0)", Op(0).String())
}
