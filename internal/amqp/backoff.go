package amqp

import (
	"strings"
	"time"
)

const (
	publishAttempts = 3
	maxBackoff      = 30 * time.Second
)

// exponentialBackoff returns the delay before retry number attempt,
// doubling from one second and capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	d := time.Second << uint(attempt)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

// isConnectionError reports whether err looks like a broken broker
// connection worth retrying, as opposed to a protocol-level failure.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"connection refused",
		"connection closed",
		"connection reset",
		"channel/connection is not open",
		"eof",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
