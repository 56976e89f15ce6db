package wcsp

import (
	"testing"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/store"
)

func newTestProblem() (*WCSP, *BinaryTable) {
	s := store.New()
	w := New(s)
	w.SetTop(100)
	v0 := w.AddVariable("x0", 2)
	v1 := w.AddVariable("x1", 2)
	costs := []cost.Cost{2, 5, 3, 6}
	f := NewBinaryTable(s, "f", v0, v1, 2, 2, costs)
	w.AddFunction(f)
	return w, f
}

// globalCost sums lb plus every unary cost plus every function's effective
// cost for a complete assignment — the invariant spec.md §4.4 requires
// EPTs to preserve.
func globalCost(w *WCSP, assignment []int) cost.Cost {
	total := w.LB()
	for v, val := range assignment {
		total += w.Vars[v].UnaryCost(val)
	}
	for _, f := range w.Funcs {
		scope := f.Scope()
		tuple := make([]int, len(scope))
		for i, vi := range scope {
			tuple[i] = assignment[vi]
		}
		total += f.Eval(tuple)
	}
	return total
}

func TestProjectExtendPreservesGlobalCost(t *testing.T) {
	w, f := newTestProblem()
	assignments := [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	before := make([]cost.Cost, len(assignments))
	for i, a := range assignments {
		before[i] = globalCost(w, a)
	}

	w.Project(f, 0, 0, 2) // move 2 units of cost from f(x0=0,*) into unary(x0=0)

	for i, a := range assignments {
		after := globalCost(w, a)
		if after != before[i] {
			t.Errorf("assignment %v: cost changed from %d to %d after Project", a, before[i], after)
		}
	}

	w.Extend(f, 0, 0, 2) // and back

	for i, a := range assignments {
		after := globalCost(w, a)
		if after != before[i] {
			t.Errorf("assignment %v: cost changed from %d to %d after Extend", a, before[i], after)
		}
	}
}

func TestProject0MovesToLB(t *testing.T) {
	w, f := newTestProblem()
	assignments := [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	before := make([]cost.Cost, len(assignments))
	for i, a := range assignments {
		before[i] = globalCost(w, a)
	}
	lbBefore := w.LB()

	if err := w.Project0(f); err != nil {
		t.Fatal(err)
	}
	if w.LB() != lbBefore+2 { // min cost of this table is 2, at (0,0)
		t.Errorf("lb = %d, want %d", w.LB(), lbBefore+2)
	}

	for i, a := range assignments {
		after := globalCost(w, a)
		if after != before[i] {
			t.Errorf("assignment %v: cost changed from %d to %d after Project0", a, before[i], after)
		}
	}
}

func TestNodeConsistencyRemovesForbiddenValues(t *testing.T) {
	s := store.New()
	w := New(s)
	w.SetTop(5)
	v := w.AddVariable("x", 3)
	w.Vars[v].AddUnaryCost(0, 5) // 0 + 5 >= top(5): must be removed
	w.Vars[v].AddUnaryCost(1, 2)
	w.Vars[v].AddUnaryCost(2, 4)
	if err := w.NodeConsistency(v); err != nil {
		t.Fatal(err)
	}
	if w.Vars[v].Present(0) {
		t.Error("value 0 should have been removed by NC")
	}
	if w.LB() != 2 {
		t.Errorf("lb = %d, want 2 (min remaining unary cost projected to lb)", w.LB())
	}
}

func TestNaryTableEPTInvariant(t *testing.T) {
	s := store.New()
	w := New(s)
	w.SetTop(100)
	v0 := w.AddVariable("x0", 2)
	v1 := w.AddVariable("x1", 2)
	v2 := w.AddVariable("x2", 2)
	v3 := w.AddVariable("x3", 2)
	f := NewNaryTable(s, "g", []int{v0, v1, v2, v3}, []int{2, 2, 2, 2}, 1, []Tuple{
		{Values: []int{0, 0, 0, 0}, Cost: 0},
		{Values: []int{1, 1, 1, 1}, Cost: 0},
	})
	w.AddFunction(f)

	assignment := []int{0, 1, 0, 1}
	before := globalCost(w, assignment)
	w.Project(f, 2, 0, 1)
	after := globalCost(w, assignment)
	if before != after {
		t.Errorf("nary EPT changed cost from %d to %d", before, after)
	}
}
