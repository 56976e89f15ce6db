package opb

import (
	"strings"
	"testing"

	"github.com/toulbar2go/wcspsolve/internal/store"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

func TestLoadObjectiveAndConstraint(t *testing.T) {
	// minimize 2*x1 + 3*x2, subject to x1 + x2 >= 1 (at least one true).
	src := `min: 2 x1 3 x2;
1 x1 1 x2 >= 1;
`
	s := store.New()
	w := wcsp.New(s)
	if err := Load(strings.NewReader(src), w, 0); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(w.Vars) != 2 {
		t.Fatalf("expected 2 variables, got %d", len(w.Vars))
	}
	if w.Vars[0].UnaryCost(1) != 2 {
		t.Errorf("unary cost of x1=1 = %d, want 2", w.Vars[0].UnaryCost(1))
	}
	if w.Vars[1].UnaryCost(1) != 3 {
		t.Errorf("unary cost of x2=1 = %d, want 3", w.Vars[1].UnaryCost(1))
	}
	if len(w.Funcs) != 1 {
		t.Fatalf("expected 1 constraint function, got %d", len(w.Funcs))
	}
	f := w.Funcs[0]
	if c := f.Eval([]int{0, 0}); c != w.UB() {
		t.Errorf("Eval(x1=0,x2=0) = %d, want top (%d): constraint violated, both false", c, w.UB())
	}
	if c := f.Eval([]int{1, 0}); c != 0 {
		t.Errorf("Eval(x1=1,x2=0) = %d, want 0: constraint satisfied", c)
	}
}

func TestLoadRejectsLineWithoutSemicolon(t *testing.T) {
	s := store.New()
	w := wcsp.New(s)
	if err := Load(strings.NewReader("min: 1 x1\n"), w, 0); err == nil {
		t.Error("expected an error for a line missing its terminating semicolon")
	}
}
