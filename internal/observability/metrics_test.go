package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/maintenance/tickets", "GET", 200, 3*time.Millisecond)
	m.RecordRequest("/maintenance/tickets", "GET", 200, 2*time.Millisecond)
	m.RecordError("/maintenance/tickets/:id", "GET", "NOT_FOUND")
	m.RecordClassification("failure")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/maintenance/tickets|GET|200"])
	assert.Equal(t, int64(5), snap.RequestLatencyMs["/maintenance/tickets|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/maintenance/tickets/:id|GET|NOT_FOUND"])
	assert.Equal(t, int64(1), snap.Classifications["failure"])
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordClassification("success")
	assert.Empty(t, m.Snapshot().Requests)
}
