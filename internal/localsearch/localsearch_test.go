package localsearch

import (
	"context"
	"math/rand"
	"testing"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/store"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

// buildTwoVarProblem mirrors internal/search's test fixture: a single
// binary table with global minimum cost 1 at x0=0,x1=1.
func buildTwoVarProblem(t *testing.T) *wcsp.WCSP {
	t.Helper()
	s := store.New()
	w := wcsp.New(s)
	w.SetTop(100)
	v0 := w.AddVariable("x0", 2)
	v1 := w.AddVariable("x1", 2)
	f := wcsp.NewBinaryTable(s, "f", v0, v1, 2, 2, []cost.Cost{4, 1, 2, 3})
	w.AddFunction(f)
	w.ComputeDACOrder()
	return w
}

func TestRunFindsGlobalMinimumOnTinyProblem(t *testing.T) {
	w := buildTwoVarProblem(t)
	rng := rand.New(rand.NewSource(1))

	result := Run(w.ReadOnly(), 50, rng)
	if result.Cost != 1 {
		t.Errorf("cost = %d, want 1 (the table's global minimum)", result.Cost)
	}
	if len(result.Assignment) != 2 {
		t.Fatalf("assignment length = %d, want 2", len(result.Assignment))
	}
}

func TestRunNeverMutatesTheWCSP(t *testing.T) {
	w := buildTwoVarProblem(t)
	lbBefore := w.LB()
	ubBefore := w.UB()

	rng := rand.New(rand.NewSource(2))
	Run(w.ReadOnly(), 20, rng)

	if w.LB() != lbBefore || w.UB() != ubBefore {
		t.Errorf("Run mutated the WCSP bounds: lb %d->%d, ub %d->%d", lbBefore, w.LB(), ubBefore, w.UB())
	}
	for _, vv := range w.Vars {
		if vv.Assigned() {
			t.Errorf("variable %s was left assigned by a read-only local-search run", vv.Name)
		}
	}
}

func TestRunZeroMovesReturnsStartingAssignment(t *testing.T) {
	w := buildTwoVarProblem(t)
	rng := rand.New(rand.NewSource(3))

	result := Run(w.ReadOnly(), 0, rng)
	want := w.ReadOnly().EvalAssignment(result.Assignment)
	if result.Cost != want {
		t.Errorf("cost = %d, want EvalAssignment(starting assignment) = %d", result.Cost, want)
	}
}

func TestRunParallelFindsGlobalMinimum(t *testing.T) {
	w := buildTwoVarProblem(t)

	result, err := RunParallel(context.Background(), w.ReadOnly(), 4, 30, 42)
	if err != nil {
		t.Fatalf("RunParallel returned error: %v", err)
	}
	if result.Cost != 1 {
		t.Errorf("cost = %d, want 1", result.Cost)
	}
}

func TestRunParallelIsReproducibleForASeed(t *testing.T) {
	w := buildTwoVarProblem(t)

	r1, err := RunParallel(context.Background(), w.ReadOnly(), 3, 20, 7)
	if err != nil {
		t.Fatalf("RunParallel returned error: %v", err)
	}
	r2, err := RunParallel(context.Background(), w.ReadOnly(), 3, 20, 7)
	if err != nil {
		t.Fatalf("RunParallel returned error: %v", err)
	}
	if r1.Cost != r2.Cost {
		t.Errorf("same seed produced different best costs: %d vs %d", r1.Cost, r2.Cost)
	}
}

func TestRunParallelRespectsCancellation(t *testing.T) {
	w := buildTwoVarProblem(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := RunParallel(ctx, w.ReadOnly(), 4, 100, 1); err == nil {
		t.Error("expected a cancellation error from an already-cancelled context")
	}
}
