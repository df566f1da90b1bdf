// Package netcheck reports whether the question service is reachable
// before a session spends time waiting on it.
package netcheck

import (
	"context"
	"errors"
	"net"
	"time"
)

// ErrOffline is returned by session operations refused for lack of
// connectivity.
var ErrOffline = errors.New("network unavailable")

// Checker reports connectivity.
type Checker interface {
	Online(ctx context.Context) bool
}

// Defaults for DialChecker.
const (
	DefaultAddr    = "generativelanguage.googleapis.com:443"
	DefaultTimeout = 3 * time.Second
)

// DialChecker considers the network online when a TCP connection to Addr
// can be opened within Timeout.
type DialChecker struct {
	Addr    string
	Timeout time.Duration
}

// Online dials Addr and closes the connection immediately.
func (c DialChecker) Online(ctx context.Context) bool {
	addr := c.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Static is a Checker with a fixed answer, used by the mock provider and
// in tests.
type Static bool

// Online returns the fixed answer.
func (s Static) Online(context.Context) bool { return bool(s) }

// Always is a Checker that is always online.
var Always Checker = Static(true)
