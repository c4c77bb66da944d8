package ostimer

import (
	"errors"
	"testing"

	"github.com/joeycumines/go-ostimer/reactor"
	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTimerOptions_Defaults(t *testing.T) {
	cfg, err := resolveTimerOptions(nil)
	require.NoError(t, err)
	assert.Nil(t, cfg.reactor)
	assert.Nil(t, cfg.logger)
}

func TestResolveTimerOptions_SkipsNil(t *testing.T) {
	r := new(reactor.Reactor)
	cfg, err := resolveTimerOptions([]Option{nil, WithReactor(r), nil})
	require.NoError(t, err)
	assert.Same(t, r, cfg.reactor)
}

func TestResolveTimerOptions_LastWins(t *testing.T) {
	a, b := new(reactor.Reactor), new(reactor.Reactor)
	logger := logiface.New[logiface.Event]().Logger()
	cfg, err := resolveTimerOptions([]Option{WithReactor(a), WithLogger(logger), WithReactor(b)})
	require.NoError(t, err)
	assert.Same(t, b, cfg.reactor)
	assert.Same(t, logger, cfg.logger)
}

func TestResolveTimerOptions_Error(t *testing.T) {
	sentinel := errors.New("bad option")
	_, err := resolveTimerOptions([]Option{&timerOptionImpl{func(*timerOptions) error { return sentinel }}})
	assert.Same(t, sentinel, err)
}
