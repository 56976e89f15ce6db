// Package output formats and writes a WCSP solution, mirroring the
// teacher's OutputModel (solver/solver.go): a writer-targeted, mode-
// selectable dump of one assignment plus its objective value, generalized
// from "print the boolean polarity of every SAT variable" to "print every
// WCSP variable's value under one of three verbosity modes"
// (spec.md §6, `-s=<1..3>`).
package output

import (
	"fmt"
	"io"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

// Mode selects how much detail a solution line carries.
type Mode int

const (
	// ModeIndices prints only the value index of every variable, in
	// declaration order — the teacher's own OutputModel register ("v 1 -2
	// 3 ...") generalized from +/-literal to value index.
	ModeIndices Mode = 1
	// ModeNames prints the symbolic domain-value name of every variable
	// (falling back to the decimal index for unnamed domains).
	ModeNames Mode = 2
	// ModeAssignments prints "variableName=value" pairs, one per
	// variable.
	ModeAssignments Mode = 3
)

// WriteSolution writes one solution line (and an objective line) for
// assignment to w under mode.
func WriteSolution(w io.Writer, problem *wcsp.WCSP, assignment []int, c cost.Cost, mode Mode) error {
	if _, err := fmt.Fprintf(w, "Cost: %d\n", c); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "Solution:"); err != nil {
		return err
	}
	for i, val := range assignment {
		var err error
		switch mode {
		case ModeNames:
			name := problem.DomainValueName(i, val)
			if name == "" {
				_, err = fmt.Fprintf(w, " %d", val)
			} else {
				_, err = fmt.Fprintf(w, " %s", name)
			}
		case ModeAssignments:
			_, err = fmt.Fprintf(w, " %s=%s", problem.Vars[i].Name, valueDisplay(problem, i, val))
		default: // ModeIndices and any unrecognized mode fall back to raw indices
			_, err = fmt.Fprintf(w, " %d", val)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func valueDisplay(problem *wcsp.WCSP, varIdx, val int) string {
	name := problem.DomainValueName(varIdx, val)
	if name == "" {
		return fmt.Sprintf("%d", val)
	}
	return name
}

// WriteUnsat reports that no solution exists below the upper bound,
// mirroring the teacher's "s UNSATISFIABLE" line (solver/solver.go
// OutputModel).
func WriteUnsat(w io.Writer) error {
	_, err := fmt.Fprintln(w, "No solution found.")
	return err
}
