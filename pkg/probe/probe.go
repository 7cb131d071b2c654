// Package probe answers whether a worker endpoint accepts TCP connections.
package probe

import (
	"net"
	"strconv"
	"time"
)

// DefaultDialTimeout bounds a single reachability dial.
const DefaultDialTimeout = 2 * time.Second

// Checker reports whether host:port currently accepts connections.
type Checker interface {
	Reachable(host string, port int) bool
}

// TCP checks reachability with one TCP dial per call. The zero value uses
// DefaultDialTimeout.
type TCP struct {
	Timeout time.Duration
}

// Reachable dials host:port and reports whether the connection was accepted.
// Any dial error, including a timeout, counts as unreachable.
func (t TCP) Reachable(host string, port int) bool {
	timeout := t.Timeout
	if timeout == 0 {
		timeout = DefaultDialTimeout
	}
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
