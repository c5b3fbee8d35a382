// Package alert turns a positive motion detection into one notification
// followed by a cooldown.
package alert

import (
	"time"

	"go.uber.org/zap"

	"motion-sentinel/pkg/motion"
	"motion-sentinel/pkg/utils"
)

const (
	Cooldown = 30 * time.Second
	// RewarmupFrames is the number of comparisons skipped after a cooldown.
	RewarmupFrames = 3
)

type Notifier interface {
	SendNotification() error
}

type GateOption func(*Gate)

// WithSleep replaces time.Sleep for the cooldown.
func WithSleep(sleep func(time.Duration)) GateOption {
	return func(g *Gate) {
		g.sleep = sleep
	}
}

func WithCooldown(d time.Duration) GateOption {
	return func(g *Gate) {
		g.cooldown = d
	}
}

func WithLogger(logger *zap.SugaredLogger) GateOption {
	return func(g *Gate) {
		g.logger = logger
	}
}

type Gate struct {
	notifier Notifier
	logger   *zap.SugaredLogger
	sleep    func(time.Duration)
	cooldown time.Duration

	alerts int
}

func NewGate(n Notifier, opts ...GateOption) *Gate {
	g := &Gate{
		notifier: n,
		logger:   utils.GetLogger(),
		sleep:    time.Sleep,
		cooldown: Cooldown,
	}
	for _, o := range opts {
		o(g)
	}

	return g
}

// Trigger sends one notification, re-arms the warmup and blocks for the
// cooldown. A failed notification is logged and otherwise ignored. The
// cooldown does not observe cancellation.
func (g *Gate) Trigger(state *motion.State) {
	g.alerts++
	g.logger.Info("motion detected, sending alert")
	if err := g.notifier.SendNotification(); err != nil {
		g.logger.Errorf("failed to send alert: %v", err)
	}

	state.Warmup = RewarmupFrames
	g.logger.Infof("cooling down for %s", g.cooldown)
	g.sleep(g.cooldown)
}

func (g *Gate) Alerts() int {
	return g.alerts
}
