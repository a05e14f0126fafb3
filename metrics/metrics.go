// Package metrics exposes Prometheus collectors mirroring the broker's own
// counters and the state reported by its Show/ShowSummary methods, so a
// dashboard sees the same numbers a CLI operator would. Grounded on the
// teacher's `prometheus/operator.go`, trimmed of the gRPC client/server
// interceptor surface: this daemon hosts no gRPC service.
package metrics

import (
	"net/http"
	"runtime"
	"time"

	lib "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"go.bryk.io/routebroker/broker"
	xlog "go.bryk.io/routebroker/log"
)

// Registry collects and exposes routebrokerd's operational metrics.
type Registry struct {
	reg *lib.Registry

	// published/dropped/tombstones mirror the broker's own monotonic
	// running totals (Summary().PublishedTotal etc). They are modeled as
	// gauges, not counters, because their value is set wholesale from a
	// polled snapshot rather than incremented by this package.
	published   lib.Gauge
	dropped     lib.Gauge
	tombstones  lib.Gauge
	liveRecords lib.Gauge
	queueDepth  *lib.GaugeVec
	clients     lib.Gauge
}

// NewRegistry builds a ready-to-use Registry. Host and runtime metrics are
// collected by default, matching the teacher's NewOperator.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		reg: lib.NewRegistry(),
		published: lib.NewGauge(lib.GaugeOpts{
			Namespace: "routebroker",
			Name:      "published_total",
			Help:      "Total number of Publish calls accepted by the broker.",
		}),
		dropped: lib.NewGauge(lib.GaugeOpts{
			Namespace: "routebroker",
			Name:      "dropped_total",
			Help:      "Total number of dropped events (topic key too long on Publish, payload copy failure on delivery).",
		}),
		tombstones: lib.NewGauge(lib.GaugeOpts{
			Namespace: "routebroker",
			Name:      "tombstones_reclaimed_total",
			Help:      "Total number of tombstoned records removed once every client observed them.",
		}),
		liveRecords: lib.NewGauge(lib.GaugeOpts{
			Namespace: "routebroker",
			Name:      "live_records",
			Help:      "Current number of distinct topic keys held by the broker.",
		}),
		queueDepth: lib.NewGaugeVec(lib.GaugeOpts{
			Namespace: "routebroker",
			Name:      "queue_depth",
			Help:      "Current number of live record nodes per priority level.",
		}, []string{"priority"}),
		clients: lib.NewGauge(lib.GaugeOpts{
			Namespace: "routebroker",
			Name:      "clients",
			Help:      "Current number of registered consumer clients.",
		}),
	}
	collectorsList := []lib.Collector{
		r.published, r.dropped, r.tombstones, r.liveRecords, r.queueDepth, r.clients,
	}
	for _, c := range collectorsList {
		if err := r.reg.Register(c); err != nil {
			return nil, err
		}
	}
	if err := r.reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if runtime.GOOS == "linux" || runtime.GOOS == "windows" {
		opts := collectors.ProcessCollectorOpts{ReportErrors: true}
		if err := r.reg.Register(collectors.NewProcessCollector(opts)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// GatherMetrics collects the registry's current state on a best-effort
// basis, for callers that want the raw metric families instead of the
// exposition-format HTTP response (e.g. an internal health check).
func (r *Registry) GatherMetrics() ([]*dto.MetricFamily, error) {
	return r.reg.Gather()
}

// Handler returns the HTTP handler serving the Prometheus exposition
// format, suitable for mounting at /metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{
		Registry:            r.reg,
		ErrorHandling:       promhttp.ContinueOnError,
		MaxRequestsInFlight: 10,
		Timeout:             5 * time.Second,
	})
}

// Observe refreshes the gauges from a broker summary. Called periodically
// by the daemon (cmd/routebrokerd), never from inside a broker-locked path.
func (r *Registry) Observe(s broker.Summary) {
	r.liveRecords.Set(float64(s.LiveRecords))
	r.clients.Set(float64(s.Clients))
	r.published.Set(float64(s.PublishedTotal))
	r.dropped.Set(float64(s.DroppedTotal))
	r.tombstones.Set(float64(s.Tombstones))
	for _, ps := range s.PerPriority {
		r.queueDepth.WithLabelValues(priorityLabel(ps.Priority)).Set(float64(ps.Depth))
	}
}

func priorityLabel(p int) string {
	const digits = "0123456789"
	if p < 0 || p > 9 {
		return "overflow"
	}
	return string(digits[p])
}

// StartObserver runs Observe on a fixed interval against b until stop is
// closed, logging a warning if a single poll panics rather than crashing
// the daemon.
func StartObserver(r *Registry, b *broker.Broker, interval time.Duration, log xlog.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				func() {
					defer func() {
						if p := recover(); p != nil {
							log.Warning("metrics observer recovered from panic")
						}
					}()
					r.Observe(b.Summary())
				}()
			}
		}
	}()
}
