package alert

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"motion-sentinel/pkg/motion"
)

type countingNotifier struct {
	calls int
	err   error
}

func (n *countingNotifier) SendNotification() error {
	n.calls++
	return n.err
}

func TestGateTrigger(t *testing.T) {
	n := &countingNotifier{}
	var slept []time.Duration
	g := NewGate(n, WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	state := motion.NewState(8, motion.InitialWarmup)
	state.Warmup = 0
	g.Trigger(state)

	assert.Equal(t, 1, n.calls)
	assert.Equal(t, RewarmupFrames, state.Warmup)
	assert.Equal(t, []time.Duration{Cooldown}, slept)
	assert.Equal(t, 1, g.Alerts())
}

func TestGateNotifierFailureIsNotFatal(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := &countingNotifier{err: errors.New("smtp: connection refused")}
	g := NewGate(n,
		WithSleep(func(time.Duration) {}),
		WithCooldown(time.Second),
		WithLogger(zap.New(core).Sugar()),
	)

	state := motion.NewState(8, motion.InitialWarmup)
	g.Trigger(state)
	g.Trigger(state)

	assert.Equal(t, 2, n.calls)
	assert.Equal(t, RewarmupFrames, state.Warmup)
	assert.Equal(t, 2, logs.FilterMessage("failed to send alert: smtp: connection refused").Len())
}
