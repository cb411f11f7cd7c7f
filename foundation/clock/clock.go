// Package clock provides the time sources used to stamp transactions and
// blocks.
package clock

import (
	"sync"
	"time"

	"github.com/beevik/ntp"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Unix returns the current time of the clock in Unix seconds.
func Unix(c Clock) int64 {
	return c.Now().UTC().Unix()
}

// =============================================================================

// System reads the operating system clock.
type System struct{}

// Now implements the Clock interface.
func (System) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant.
type Fixed time.Time

// FixedUnix constructs a Fixed clock from Unix seconds.
func FixedUnix(sec int64) Fixed {
	return Fixed(time.Unix(sec, 0))
}

// Now implements the Clock interface.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// =============================================================================

// QueryFunc asks a time server for the offset of the local clock.
type QueryFunc func(host string) (time.Duration, error)

// NTP corrects the system clock with the offset reported by a time server.
// The offset is refreshed once the sync interval has passed. A failed refresh
// keeps the last known offset. The time server is queried without holding
// the lock, so callers never wait on another caller's refresh.
type NTP struct {
	host     string
	interval time.Duration
	query    QueryFunc

	mu       sync.Mutex
	offset   time.Duration
	lastSync time.Time
	lastErr  error
	syncing  bool
}

// NewNTP constructs an NTP clock and performs the first sync. A failed first
// sync is not fatal, the clock runs with a zero offset until a sync succeeds.
func NewNTP(host string, interval time.Duration) *NTP {
	return NewNTPWithQuery(host, interval, queryNTP)
}

// NewNTPWithQuery constructs an NTP clock using the specified query function.
func NewNTPWithQuery(host string, interval time.Duration, query QueryFunc) *NTP {
	c := NTP{
		host:     host,
		interval: interval,
		query:    query,
		syncing:  true,
	}

	c.sync()

	return &c
}

// Now implements the Clock interface. The caller that finds the offset stale
// performs the refresh. Callers arriving during a refresh use the last known
// offset.
func (c *NTP) Now() time.Time {
	c.mu.Lock()
	due := !c.syncing && time.Since(c.lastSync) >= c.interval
	if due {
		c.syncing = true
	}
	offset := c.offset
	c.mu.Unlock()

	if due {
		offset = c.sync()
	}

	return time.Now().Add(offset)
}

// Offset returns the current offset and the error of the last sync.
func (c *NTP) Offset() (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.offset, c.lastErr
}

// sync queries the time server and records the result. It must only be
// called by the caller that set syncing.
func (c *NTP) sync() time.Duration {
	offset, err := c.query(c.host)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastSync = time.Now()
	c.syncing = false

	if err != nil {
		c.lastErr = err
		return c.offset
	}

	c.offset = offset
	c.lastErr = nil

	return c.offset
}

func queryNTP(host string) (time.Duration, error) {
	resp, err := ntp.Query(host)
	if err != nil {
		return 0, err
	}

	if err := resp.Validate(); err != nil {
		return 0, err
	}

	return resp.ClockOffset, nil
}
