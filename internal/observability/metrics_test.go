package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/", "GET", 200, 30*time.Millisecond)
	m.RecordError("/login", "POST", "AUTH_FAILED")
	m.RecordSessionEvent("session_started")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/login|POST|AUTH_FAILED"])
	assert.Equal(t, int64(1), snap.SessionEvents["session_started"])
	assert.InDelta(t, 20.0, snap.AvgLatencyMsec, 0.001)

	// snapshots are copies
	snap.Requests["/|GET|200"] = 99
	assert.Equal(t, int64(2), m.Snapshot().Requests["/|GET|200"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordSessionEvent("x")
	assert.Empty(t, m.Snapshot().Requests)
}
