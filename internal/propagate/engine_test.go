package propagate

import (
	"testing"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/store"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

func TestRunReachesFixpointAndIsIdle(t *testing.T) {
	s := store.New()
	w := wcsp.New(s)
	w.SetTop(100)
	v0 := w.AddVariable("x0", 2)
	v1 := w.AddVariable("x1", 2)
	f := wcsp.NewBinaryTable(s, "f", v0, v1, 2, 2, []cost.Cost{2, 5, 3, 6})
	w.AddFunction(f)
	w.ComputeDACOrder()

	e := New(w, false)
	e.EnqueueAll()
	if err := e.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !e.Idle() {
		t.Fatal("queues should be empty after Run reaches a fixpoint")
	}

	// AC should have pushed each row's minimum into the corresponding
	// unary cost, and NC and DAC should have moved what remains of the
	// unary and function minima into lb, for a combined lb of the
	// table's global minimum cost (2).
	if w.LB() != 2 {
		t.Errorf("lb = %d, want 2 (the table's global minimum)", w.LB())
	}
}

func TestRunReturnsContradictionWhenBoundCollapses(t *testing.T) {
	s := store.New()
	w := wcsp.New(s)
	w.SetTop(5)
	v := w.AddVariable("x", 2)
	w.Vars[v].AddUnaryCost(0, 5)
	w.Vars[v].AddUnaryCost(1, 5)
	w.ComputeDACOrder()

	e := New(w, false)
	e.EnqueueAll()
	err := e.Run()
	if err == nil {
		t.Fatal("expected a contradiction when every value reaches ub")
	}
	if _, ok := err.(*store.Contradiction); !ok {
		t.Errorf("expected *store.Contradiction, got %T", err)
	}
}

func TestEventWakesQueues(t *testing.T) {
	s := store.New()
	w := wcsp.New(s)
	w.SetTop(100)
	v0 := w.AddVariable("x0", 2)
	v1 := w.AddVariable("x1", 2)
	f := wcsp.NewBinaryTable(s, "f", v0, v1, 2, 2, []cost.Cost{0, 0, 0, 0})
	w.AddFunction(f)
	w.ComputeDACOrder()

	e := New(w, false)
	e.EnqueueAll()
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if !e.Idle() {
		t.Fatal("expected idle after first fixpoint")
	}

	if err := w.Vars[v0].Assign(0); err != nil {
		t.Fatal(err)
	}
	if e.Idle() {
		t.Fatal("assigning a variable should have re-queued it via OnEvent")
	}
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if !e.Idle() {
		t.Fatal("expected idle after second fixpoint")
	}
}

func TestDEERemovesDominatedValue(t *testing.T) {
	s := store.New()
	w := wcsp.New(s)
	w.SetTop(100)
	v0 := w.AddVariable("x0", 3)
	v1 := w.AddVariable("x1", 2)
	// value 2 of x0 is dominated by value 0: same or higher cost against
	// every value of x1, and no higher unary cost.
	f := wcsp.NewBinaryTable(s, "f", v0, v1, 3, 2, []cost.Cost{
		0, 1, // x0=0
		2, 2, // x0=1
		1, 3, // x0=2: dominated by x0=0 (0<=1, 1<=3)
	})
	w.AddFunction(f)
	w.ComputeDACOrder()

	e := New(w, true)
	e.EnqueueAll()
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if w.Vars[v0].Present(2) {
		t.Error("value 2 of x0 should have been eliminated as dominated by value 0")
	}
}
