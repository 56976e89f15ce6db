package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/toulbar2go/wcspsolve/internal/search"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestUpdateAddsCounterDeltas(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.Update(search.Stats{NbNodes: 3, NbBacktracks: 1, NbSolutionsFound: 0}, 2, 10)
	c.Update(search.Stats{NbNodes: 7, NbBacktracks: 1, NbSolutionsFound: 1}, 5, 8)

	if got := counterValue(t, c.NodesTotal); got != 7 {
		t.Errorf("NodesTotal = %v, want 7", got)
	}
	if got := counterValue(t, c.BacktracksTotal); got != 1 {
		t.Errorf("BacktracksTotal = %v, want 1", got)
	}
	if got := counterValue(t, c.SolutionsTotal); got != 1 {
		t.Errorf("SolutionsTotal = %v, want 1", got)
	}
	if got := gaugeValue(t, c.LowerBound); got != 5 {
		t.Errorf("LowerBound = %v, want 5", got)
	}
	if got := gaugeValue(t, c.UpperBound); got != 8 {
		t.Errorf("UpperBound = %v, want 8", got)
	}
}

func TestServeExposesMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg).Update(search.Stats{NbNodes: 1}, 0, 100)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", reg) }()

	// Serve binds an ephemeral listener chosen internally by
	// http.Server.ListenAndServe, so this test only exercises that Serve
	// starts and stops cleanly, not that a live client can reach it on a
	// known port.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}
