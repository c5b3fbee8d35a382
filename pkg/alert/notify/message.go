// Package notify holds the transports that deliver a motion alert.
package notify

import (
	"bytes"
	"text/template"
	"time"

	"motion-sentinel/pkg/clock"
	"motion-sentinel/pkg/utils/ps"
)

const (
	Subject  = "Security Alert: Motion Detected"
	Headline = "Camera in your house has detected movement!"
)

const bodyTemplate = `{{.Headline}}

Detected at {{.Time.Format "2006-01-02 15:04:05 MST"}}
{{- if .Host}}
{{.Host}}
{{- end}}
`

var body = template.Must(template.New("alert").Parse(bodyTemplate))

// Message is one alert, rendered once and handed to every transport.
type Message struct {
	Subject  string    `json:"subject"`
	Headline string    `json:"headline"`
	Time     time.Time `json:"time"`
	Host     string    `json:"host,omitempty"`
	Body     string    `json:"-"`
}

// Composer builds alert messages from the clock and, if enabled, a host
// snapshot.
type Composer struct {
	Clock    clock.Clock
	Snapshot func() (ps.Host, error)
}

func NewComposer(c clock.Clock, withHost bool) *Composer {
	comp := &Composer{Clock: c}
	if withHost {
		comp.Snapshot = ps.Snapshot
	}
	return comp
}

func (c *Composer) Compose() (Message, error) {
	m := Message{
		Subject:  Subject,
		Headline: Headline,
		Time:     c.Clock.Now(),
	}
	if c.Snapshot != nil {
		// a partial snapshot is still worth sending
		if h, err := c.Snapshot(); err == nil || h.Hostname != "" {
			m.Host = h.String()
		}
	}

	var buf bytes.Buffer
	if err := body.Execute(&buf, m); err != nil {
		return m, err
	}
	m.Body = buf.String()

	return m, nil
}
