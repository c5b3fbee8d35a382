package notify

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Notifier interface {
	SendNotification() error
}

// Multi sends through every transport, even when an earlier one fails.
type Multi []Notifier

func (m Multi) SendNotification() error {
	var err error
	for _, n := range m {
		err = multierr.Append(err, n.SendNotification())
	}
	return err
}

// Log only writes the alert to the log. It is used when no transport is
// configured.
type Log struct {
	Composer *Composer
	Logger   *zap.SugaredLogger
}

func (l Log) SendNotification() error {
	msg, err := l.Composer.Compose()
	if err != nil {
		return err
	}
	l.Logger.Warnf("%s: %s (%s)", msg.Subject, msg.Headline, msg.Time.Format("2006-01-02 15:04:05"))
	return nil
}
