// Package metrics exposes solver progress as Prometheus gauges and
// counters, generalized from jinterlante1206-AleutianLocal's
// observability package (services/orchestrator/observability/metrics.go):
// same promauto-constructed-struct-of-metrics shape and namespace/
// subsystem constants, applied to search.Stats and the WCSP lb/ub pair
// instead of streaming-request counters (SPEC_FULL.md §10.3).
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/search"
)

const (
	namespace = "wcspsolve"
	subsystem = "search"
)

// Collector holds every metric wcspsolve reports about a running search.
// Construct once per process via NewCollector; Update reads a search.Stats
// snapshot plus the current lb/ub and republishes them, mirroring
// StreamingMetrics's Record* helper methods.
type Collector struct {
	NodesTotal      prometheus.Counter
	BacktracksTotal prometheus.Counter
	SolutionsTotal  prometheus.Counter
	LowerBound      prometheus.Gauge
	UpperBound      prometheus.Gauge

	lastNodes      int64
	lastBacktracks int64
	lastSolutions  int64
}

// NewCollector creates and registers a Collector against reg. Passing
// prometheus.NewRegistry() (rather than the global DefaultRegisterer)
// keeps repeated test construction from panicking on duplicate
// registration, the same concern InitMetrics's doc comment flags for the
// teacher's own singleton.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		NodesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "nodes_total",
			Help:      "Total branch-and-bound nodes explored.",
		}),
		BacktracksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "backtracks_total",
			Help:      "Total backtracks due to contradiction or exhausted domain.",
		}),
		SolutionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "solutions_total",
			Help:      "Total complete assignments found below the current upper bound.",
		}),
		LowerBound: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "lower_bound",
			Help:      "Current global lower bound.",
		}),
		UpperBound: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upper_bound",
			Help:      "Current global upper bound.",
		}),
	}
}

// Update republishes stats and the current lb/ub. Counters only accept
// monotonic increases, so Update tracks the last-seen totals itself and
// adds the delta, since search.Stats fields are plain running counts on
// the Searcher, not something the collector can Set() directly.
func (c *Collector) Update(stats search.Stats, lb, ub cost.Cost) {
	if d := stats.NbNodes - c.lastNodes; d > 0 {
		c.NodesTotal.Add(float64(d))
		c.lastNodes = stats.NbNodes
	}
	if d := stats.NbBacktracks - c.lastBacktracks; d > 0 {
		c.BacktracksTotal.Add(float64(d))
		c.lastBacktracks = stats.NbBacktracks
	}
	if d := stats.NbSolutionsFound - c.lastSolutions; d > 0 {
		c.SolutionsTotal.Add(float64(d))
		c.lastSolutions = stats.NbSolutionsFound
	}
	c.LowerBound.Set(float64(lb))
	c.UpperBound.Set(float64(ub))
}

// Serve starts an HTTP server on addr exposing reg's metrics at /metrics
// via promhttp.Handler, blocking until ctx is cancelled — the
// `--metrics-addr` flag's implementation (spec.md is silent on
// observability; this is ambient per SPEC_FULL.md §10.3). Grounded on the
// teacher's own pattern of exposing an HTTP endpoint from a long-running
// tool via net/http, generalized from gophersat's absence of one to the
// pack's promhttp.Handler() convention.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
