package metrics_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.bryk.io/routebroker/broker"
	xlog "go.bryk.io/routebroker/log"
	"go.bryk.io/routebroker/metrics"
)

func TestObserveExposesGauges(t *testing.T) {
	reg, err := metrics.NewRegistry()
	require.NoError(t, err)

	reg.Observe(broker.Summary{
		Clients:        2,
		LiveRecords:    5,
		PublishedTotal: 10,
		DroppedTotal:   1,
		Tombstones:     3,
		PerPriority: []broker.PrioritySummary{
			{Priority: 0, Depth: 2},
			{Priority: 1, Depth: 3},
		},
	})

	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rr, req)
	require.Equal(t, 200, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, "routebroker_live_records 5")
	assert.Contains(t, body, "routebroker_clients 2")
	assert.Contains(t, body, "routebroker_published_total 10")
	assert.Contains(t, body, "routebroker_dropped_total 1")
	assert.Contains(t, body, "routebroker_tombstones_reclaimed_total 3")
	assert.True(t, strings.Contains(body, `routebroker_queue_depth{priority="0"} 2`))
	assert.True(t, strings.Contains(body, `routebroker_queue_depth{priority="1"} 3`))

	families, err := reg.GatherMetrics()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() == "routebroker_live_records" {
			found = true
		}
	}
	assert.True(t, found, "expected routebroker_live_records in gathered metric families")
}

func TestStartObserverPollsUntilStopped(t *testing.T) {
	b, err := broker.New(broker.WithPriorities(1), broker.WithCodec(noopCodec{}))
	require.NoError(t, err)
	_, err = b.CreateClient("observed")
	require.NoError(t, err)

	reg, err := metrics.NewRegistry()
	require.NoError(t, err)

	stop := make(chan struct{})
	metrics.StartObserver(reg, b, 5*time.Millisecond, xlog.Discard(), stop)
	time.Sleep(30 * time.Millisecond)
	close(stop)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rr, req)
	assert.Contains(t, rr.Body.String(), "routebroker_live_records 0")
	assert.Contains(t, rr.Body.String(), "routebroker_clients 1")
}

type noopCodec struct{}

func (noopCodec) Topic(payload []byte) (key []byte, isDelete bool) { return nil, false }
func (noopCodec) Copy(payload []byte) ([]byte, error)              { return payload, nil }
