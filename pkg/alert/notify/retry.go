package notify

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"motion-sentinel/pkg/utils"
)

const (
	DefaultAttempts = 3
	DefaultInterval = time.Second
	maxInterval     = 5 * time.Second
)

// common is shared by the network transports.
type common struct {
	composer *Composer
	logger   *zap.SugaredLogger
	attempts int
	interval time.Duration
}

type Option func(*common)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *common) {
		c.logger = logger
	}
}

// WithRetry sets the total number of attempts and the first backoff
// interval. attempts below 1 means a single attempt.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(c *common) {
		c.attempts = attempts
		c.interval = interval
	}
}

func newCommon(composer *Composer, opts []Option) common {
	c := common{
		composer: composer,
		logger:   utils.GetLogger(),
		attempts: DefaultAttempts,
		interval: DefaultInterval,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// retry runs op until it succeeds, returns a backoff.Permanent error, or
// the attempts are used up.
func (c *common) retry(name string, op func() error) error {
	ebo := backoff.NewExponentialBackOff()
	ebo.InitialInterval = c.interval
	ebo.MaxInterval = max(maxInterval, c.interval)
	ebo.MaxElapsedTime = 0
	b := backoff.WithMaxRetries(ebo, uint64(max(c.attempts, 1)-1))

	return backoff.RetryNotify(op, b, func(err error, next time.Duration) {
		c.logger.Warnf("%s: %v, retrying in %s", name, err, next)
	})
}
