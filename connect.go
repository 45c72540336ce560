package camfs

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

const (
	// DefaultConnectTimeout bounds a station association attempt.
	DefaultConnectTimeout = 10 * time.Second
	// PollInterval is the delay between status polls when a tick callback is set.
	PollInterval = 100 * time.Millisecond
)

// Connector drives a Network into a usable state.
type Connector struct {
	network Network
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration)
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithClock replaces the time source and the sleep used between polls.
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration)) ConnectorOption {
	return func(c *Connector) {
		c.now = now
		c.sleep = sleep
	}
}

// NewConnector creates a Connector for the given network.
func NewConnector(network Network, opts ...ConnectorOption) *Connector {
	c := &Connector{
		network: network,
		now:     time.Now,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type connectOptions struct {
	tick func(elapsed time.Duration)
}

// ConnectOption configures a single Connect call.
type ConnectOption func(*connectOptions)

// WithTick registers a callback invoked once per poll while the network is
// still down. Polls are then spaced by PollInterval. The callback must not
// block.
func WithTick(fn func(elapsed time.Duration)) ConnectOption {
	return func(o *connectOptions) {
		o.tick = fn
	}
}

// Connect starts a station association and waits up to timeout for it to
// complete. A non-positive timeout means DefaultConnectTimeout.
//
// Returns ErrConnectivityTimeout when the window elapses. There are no
// retries; call Connect again to retry.
func (c *Connector) Connect(ctx context.Context, creds Credentials, timeout time.Duration, opts ...ConnectOption) error {
	var o connectOptions
	for _, opt := range opts {
		opt(&o)
	}

	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	if err := c.network.BeginStation(creds.SSID, creds.Password); err != nil {
		return fmt.Errorf("connect %s: begin station: %w", creds.SSID, err)
	}

	start := c.now()
	for c.now().Sub(start) < timeout {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("connect %s: %w", creds.SSID, err)
		}

		if c.network.Status() == StatusConnected {
			return nil
		}

		if o.tick == nil {
			runtime.Gosched()
			continue
		}

		o.tick(c.now().Sub(start))
		c.sleep(ctx, PollInterval)
	}

	return fmt.Errorf("connect %s: %w", creds.SSID, ErrConnectivityTimeout)
}

// StartAccessPoint creates an access point. It is ready when this returns nil.
func (c *Connector) StartAccessPoint(ctx context.Context, creds Credentials) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("start access point %s: %w", creds.SSID, err)
	}
	if err := c.network.BeginAccessPoint(creds.SSID, creds.Password); err != nil {
		return fmt.Errorf("start access point %s: %w", creds.SSID, err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
