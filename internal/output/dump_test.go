package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/toulbar2go/wcspsolve/internal/store"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

func TestDumpProblemRoundTripsHeaderAndTuples(t *testing.T) {
	s := store.New()
	w := wcsp.New(s)
	w.SetTop(100)
	x0 := w.AddVariable("x0", 2)
	x1 := w.AddVariable("x1", 2)
	if _, err := w.AddFunctionFromTuples([]int{x0, x1}, 0, []wcsp.Tuple{
		{Values: []int{0, 0}, Cost: 4},
		{Values: []int{1, 1}, Cost: 2},
	}); err != nil {
		t.Fatalf("AddFunctionFromTuples: %v", err)
	}

	var buf bytes.Buffer
	if err := DumpProblem(&buf, w); err != nil {
		t.Fatalf("DumpProblem returned error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "wcsp 2 2 1 100\n") {
		t.Errorf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "0 0 4") {
		t.Errorf("output %q missing tuple (0,0)=4", out)
	}
	if !strings.Contains(out, "1 1 2") {
		t.Errorf("output %q missing tuple (1,1)=2", out)
	}
}

func TestDumpProblemRejectsOversizedFunction(t *testing.T) {
	s := store.New()
	w := wcsp.New(s)
	w.SetTop(1)
	scope := make([]int, 4)
	for i := range scope {
		scope[i] = w.AddVariable("v", 64) // 64^4 tuples exceeds maxDumpCells
	}
	if _, err := w.AddFunctionFromTuples(scope, 0, nil); err != nil {
		t.Fatalf("AddFunctionFromTuples: %v", err)
	}
	var buf bytes.Buffer
	if err := DumpProblem(&buf, w); err == nil {
		t.Error("expected an error for a function exceeding the dump limit")
	}
}
