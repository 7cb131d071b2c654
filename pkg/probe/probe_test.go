package probe

import (
	"net"
	"testing"
	"time"
)

func TestTCPReachable(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	checker := TCP{Timeout: time.Second}

	if !checker.Reachable("127.0.0.1", port) {
		t.Errorf("Reachable = false for a listening port")
	}
}

func TestTCPUnreachable(t *testing.T) {
	t.Parallel()

	// Grab a port and close it again so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	checker := TCP{Timeout: time.Second}
	if checker.Reachable("127.0.0.1", port) {
		t.Errorf("Reachable = true for a closed port")
	}
}
