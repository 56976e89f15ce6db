package search

import (
	"testing"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/propagate"
	"github.com/toulbar2go/wcspsolve/internal/store"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

func buildTwoVarProblem(top cost.Cost) *wcsp.WCSP {
	s := store.New()
	w := wcsp.New(s)
	w.SetTop(top)
	v0 := w.AddVariable("x0", 2)
	v1 := w.AddVariable("x1", 2)
	f := wcsp.NewBinaryTable(s, "f", v0, v1, 2, 2, []cost.Cost{4, 1, 2, 3})
	w.AddFunction(f)
	w.ComputeDACOrder()
	return w
}

func TestSolveFindsOptimalAssignment(t *testing.T) {
	w := buildTwoVarProblem(100)
	e := propagate.New(w, false)
	searcher := New(w, e, Options{LDSMaxDiscrepancy: -1})

	assignment, c := searcher.Solve()
	if assignment == nil {
		t.Fatal("expected a solution")
	}
	if c != 1 {
		t.Errorf("cost = %d, want 1 (the table's global minimum, at x0=0,x1=1)", c)
	}
	if assignment[0] != 0 || assignment[1] != 1 {
		t.Errorf("assignment = %v, want [0 1]", assignment)
	}
	if searcher.Stats.NbSolutionsFound == 0 {
		t.Error("expected at least one recorded solution")
	}
}

func TestSolveReturnsNilWhenInfeasible(t *testing.T) {
	w := buildTwoVarProblem(1) // below the table's global minimum of 1: unsatisfiable
	e := propagate.New(w, false)
	searcher := New(w, e, Options{LDSMaxDiscrepancy: -1})

	assignment, _ := searcher.Solve()
	if assignment != nil {
		t.Errorf("expected no solution, got %v", assignment)
	}
}

func TestSolveAllSolutionsDoesNotTightenBound(t *testing.T) {
	w := buildTwoVarProblem(10)
	e := propagate.New(w, false)
	searcher := New(w, e, Options{AllSolutions: true, LDSMaxDiscrepancy: -1})

	_, _ = searcher.Solve()
	// Every one of the 4 assignments costs under 10, so all 4 should be
	// visited and reported since ub is never tightened mid-search.
	if searcher.Stats.NbSolutionsFound != 4 {
		t.Errorf("NbSolutionsFound = %d, want 4", searcher.Stats.NbSolutionsFound)
	}
}

func TestSolveWithLastConflictAndLDSStillFindsOptimum(t *testing.T) {
	w := buildTwoVarProblem(100)
	e := propagate.New(w, false)
	searcher := New(w, e, Options{LastConflict: true, LDSMaxDiscrepancy: 1})

	_, c := searcher.Solve()
	if c != 1 {
		t.Errorf("cost = %d, want 1", c)
	}
}
