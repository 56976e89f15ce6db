package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/toulbar2go/wcspsolve/internal/store"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

func buildProblem(t *testing.T) *wcsp.WCSP {
	t.Helper()
	s := store.New()
	w := wcsp.New(s)
	w.SetTop(100)
	w.AddVariable("color", 2)
	w.AddDomainValue(0, "red")
	w.AddDomainValue(0, "blue")
	return w
}

func TestWriteSolutionIndices(t *testing.T) {
	w := buildProblem(t)
	var buf bytes.Buffer
	if err := WriteSolution(&buf, w, []int{1}, 5, ModeIndices); err != nil {
		t.Fatalf("WriteSolution returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Cost: 5") {
		t.Errorf("output %q missing cost line", out)
	}
	if !strings.Contains(out, "Solution: 1") {
		t.Errorf("output %q missing index-mode value", out)
	}
}

func TestWriteSolutionNames(t *testing.T) {
	w := buildProblem(t)
	var buf bytes.Buffer
	if err := WriteSolution(&buf, w, []int{1}, 5, ModeNames); err != nil {
		t.Fatalf("WriteSolution returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "blue") {
		t.Errorf("output %q missing symbolic domain name", buf.String())
	}
}

func TestWriteSolutionAssignments(t *testing.T) {
	w := buildProblem(t)
	var buf bytes.Buffer
	if err := WriteSolution(&buf, w, []int{0}, 5, ModeAssignments); err != nil {
		t.Fatalf("WriteSolution returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "color=red") {
		t.Errorf("output %q missing name=value pair", buf.String())
	}
}

func TestWriteUnsat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUnsat(&buf); err != nil {
		t.Fatalf("WriteUnsat returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "No solution") {
		t.Errorf("output %q missing unsat message", buf.String())
	}
}
