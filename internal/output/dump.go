package output

import (
	"fmt"
	"io"

	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

// maxDumpCells bounds how many tuples DumpProblem will ever enumerate for
// a single function, guarding against an accidental multi-gigabyte dump
// on a wide-scope function; the legacy format has no notion of "default
// cost 0, list everything" being unsafe, but a re-serializer does.
const maxDumpCells = 1 << 20

// DumpProblem re-serializes problem in the legacy WCSP text format (the
// same header/domain/function shape internal/loader/legacy.Load reads),
// backing `cmd/wcspsolve --dump`. Every function is written with an
// explicit tuple list and a default cost of 0, since CostFunction exposes
// no notion of "default cost" once EPT deltas have folded into a table —
// only Eval over the full tuple space.
func DumpProblem(w io.Writer, problem *wcsp.WCSP) error {
	if _, err := fmt.Fprintf(w, "%s %d %d %d %d\n",
		orDefault(problem.Name, "wcsp"), len(problem.Vars), maxDomain(problem), len(problem.Funcs), problem.UB()); err != nil {
		return err
	}
	for _, v := range problem.Vars {
		if _, err := fmt.Fprintf(w, "%d ", v.InitialSize()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, f := range problem.Funcs {
		if err := dumpFunction(w, problem, f); err != nil {
			return err
		}
	}
	return nil
}

func dumpFunction(w io.Writer, problem *wcsp.WCSP, f wcsp.CostFunction) error {
	scope := f.Scope()
	sizes := make([]int, len(scope))
	cells := 1
	for i, v := range scope {
		sizes[i] = problem.Vars[v].InitialSize()
		cells *= sizes[i]
	}
	if cells > maxDumpCells {
		return fmt.Errorf("output: function over %v has %d tuples, exceeds dump limit", scope, cells)
	}
	if _, err := fmt.Fprintf(w, "%d", len(scope)); err != nil {
		return err
	}
	for _, v := range scope {
		if _, err := fmt.Fprintf(w, " %d", v); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, " 0 %d\n", cells); err != nil {
		return err
	}
	tuple := make([]int, len(scope))
	return dumpTuples(w, f, sizes, tuple, 0)
}

func dumpTuples(w io.Writer, f wcsp.CostFunction, sizes, tuple []int, pos int) error {
	if pos == len(sizes) {
		for i, v := range tuple {
			if i > 0 {
				if _, err := fmt.Fprint(w, " "); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%d", v); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, " %d\n", f.Eval(tuple))
		return err
	}
	for a := 0; a < sizes[pos]; a++ {
		tuple[pos] = a
		if err := dumpTuples(w, f, sizes, tuple, pos+1); err != nil {
			return err
		}
	}
	return nil
}

func maxDomain(problem *wcsp.WCSP) int {
	max := 0
	for _, v := range problem.Vars {
		if s := v.InitialSize(); s > max {
			max = s
		}
	}
	return max
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
