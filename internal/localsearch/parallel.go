package localsearch

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

// RunParallel fans restarts independent local-search trials out over the
// same read-only snapshot and returns the best result across all of them.
// Each trial gets its own *rand.Rand seeded deterministically off seed and
// its index, so the overall run is reproducible for a given seed
// regardless of goroutine scheduling.
//
// Grounded on the priority-group fan-out in
// jinterlante1206-AleutianLocal's services/trace/analysis/enhanced_analyzer.go
// (runPriorityGroup): errgroup.WithContext, per-goroutine loop-variable
// capture, a pre-sized results slice indexed by i so no two goroutines
// ever write the same slot, and errors that are non-fatal to the overall
// run collected by index rather than failing the group. Here every trial
// always succeeds (Run never errors), so the only thing g.Wait() confers
// over a plain WaitGroup is ctx-based early cancellation once one caller
// no longer wants more trials (spec.md §4.8: "must be cancellable").
func RunParallel(ctx context.Context, snapshot *wcsp.ReadOnlyView, restarts, movesPerRestart int, seed int64) (Result, error) {
	if restarts <= 0 {
		restarts = 1
	}
	results := make([]Result, restarts)

	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < restarts; i++ {
		i := i
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seed + int64(i)))
			results[i] = Run(snapshot, movesPerRestart, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Cost < best.Cost {
			best = r
		}
	}
	return best, nil
}
