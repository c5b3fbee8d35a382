// Package clock provides wall time for alert messages. Boards without an RTC
// boot with a wrong clock, so the time can be corrected by an NTP offset.
package clock

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
)

type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

type queryFunc func(server string, opt ntp.QueryOptions) (*ntp.Response, error)

// Offset is the system clock corrected by the last offset measured against
// an NTP server.
type Offset struct {
	server  string
	timeout time.Duration
	query   queryFunc

	offset atomic.Int64
}

func NewOffset(server string, timeout time.Duration) *Offset {
	return &Offset{server: server, timeout: timeout, query: ntp.QueryWithOptions}
}

// Sync measures the offset once. On failure the previous offset is kept.
func (c *Offset) Sync() (time.Duration, error) {
	resp, err := c.query(c.server, ntp.QueryOptions{Timeout: c.timeout})
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", c.server, err)
	}
	if err := resp.Validate(); err != nil {
		return 0, fmt.Errorf("invalid response from %s: %w", c.server, err)
	}
	c.offset.Store(int64(resp.ClockOffset))

	return resp.ClockOffset, nil
}

func (c *Offset) Now() time.Time {
	return time.Now().Add(time.Duration(c.offset.Load()))
}
