// Package opb reads the pseudo-Boolean OPB format and converts it to a
// WCSP via wcsp.Builder: the "min:" objective's linear terms become
// unary costs, and every ">="/"=" constraint becomes a hard cost function
// forbidding the tuples that violate it.
//
// Grounded on the teacher's solver/parser_pb.go (ParseOPB, parsePBLine,
// parseTerms: "x<i>"/"~x<i>" term tokenizing, "min:" objective line,
// ";"-terminated statements) generalized from boolean SAT clauses to
// WCSP cost functions.
package opb

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

// maxConstraintArity bounds how large a single PB constraint's scope may
// be before Load refuses it: turning a constraint into explicit forbidden
// tuples means enumerating every one of 2^arity combinations, which is
// only practical for the small arities realistic WCSP benchmarks use.
// WCSP has no intensional "linear cost function" representation the way
// the teacher's native PBClause does, so this decomposition is the only
// route available through wcsp.Builder (documented as a known limitation
// in DESIGN.md rather than silently mis-converted).
const maxConstraintArity = 20

type term struct {
	weight int64
	lit    int // 1-based variable, negative for a negated literal
}

// Load reads an OPB file from r into b.
func Load(r io.Reader, b wcsp.Builder, precision uint) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		objective []term
		constrs   [][]term
		ops       []string
		rhss      []int64
		nbVars    int
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		if !strings.HasSuffix(line, ";") {
			return &loader.ErrWrongFormat{Format: "opb", Reason: fmt.Sprintf("line %q does not end with ';'", line)}
		}
		body := line[:len(line)-1]
		fields := strings.Fields(body)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "min:" {
			terms, err := parseTerms(fields[1:], &nbVars)
			if err != nil {
				return err
			}
			objective = terms
			continue
		}
		if len(fields) < 3 {
			return &loader.ErrWrongFormat{Format: "opb", Reason: fmt.Sprintf("invalid constraint %q", line)}
		}
		op := fields[len(fields)-2]
		if op != ">=" && op != "=" {
			return &loader.ErrWrongFormat{Format: "opb", Reason: fmt.Sprintf("unsupported operator %q", op)}
		}
		rhs, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
		if err != nil {
			return &loader.ErrWrongFormat{Format: "opb", Reason: fmt.Sprintf("rhs %q not an int", fields[len(fields)-1])}
		}
		terms, err := parseTerms(fields[:len(fields)-2], &nbVars)
		if err != nil {
			return err
		}
		constrs = append(constrs, terms)
		ops = append(ops, op)
		rhss = append(rhss, rhs)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("opb: %w", err)
	}

	b.SetName("opb")
	b.SetObjective(true)
	vars := make([]int, nbVars)
	for i := 0; i < nbVars; i++ {
		vars[i] = b.AddVariableDomain(fmt.Sprintf("x%d", i+1), 2)
	}

	var sumWeights int64
	for _, tm := range objective {
		sumWeights += int64(abs64(tm.weight))
	}
	top := cost.Cost(sumWeights + 1)

	if err := applyObjective(b, vars, objective, precision); err != nil {
		return err
	}

	for i, terms := range constrs {
		scope, arity := termScope(terms, vars)
		if arity > maxConstraintArity {
			return &loader.ErrWrongFormat{Format: "opb", Reason: fmt.Sprintf("constraint %d has arity %d, exceeding the %d-variable decomposition limit", i, arity, maxConstraintArity)}
		}
		tuples := forbiddenTuples(terms, ops[i], rhss[i], top)
		if _, err := b.AddFunctionFromTuples(scope, 0, tuples); err != nil {
			return fmt.Errorf("opb: constraint %d: %w", i, err)
		}
	}
	b.SetTop(top)
	return nil
}

func parseTerms(fields []string, nbVars *int) ([]term, error) {
	var terms []term
	i := 0
	for i < len(fields) {
		w, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			return nil, &loader.ErrWrongFormat{Format: "opb", Reason: fmt.Sprintf("weight %q is not an int", fields[i])}
		}
		i++
		if i >= len(fields) {
			return nil, &loader.ErrWrongFormat{Format: "opb", Reason: "term missing a literal after its weight"}
		}
		lit, neg, err := parseLiteral(fields[i])
		if err != nil {
			return nil, err
		}
		i++
		if neg {
			lit = -lit
		}
		if abs(lit) > *nbVars {
			*nbVars = abs(lit)
		}
		terms = append(terms, term{weight: w, lit: lit})
	}
	return terms, nil
}

func parseLiteral(tok string) (v int, neg bool, err error) {
	if strings.HasPrefix(tok, "~x") {
		v, err = strconv.Atoi(tok[2:])
		return v, true, err
	}
	if strings.HasPrefix(tok, "x") {
		v, err = strconv.Atoi(tok[1:])
		return v, false, err
	}
	return 0, false, &loader.ErrWrongFormat{Format: "opb", Reason: fmt.Sprintf("invalid literal %q", tok)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// applyObjective folds every objective term directly into the
// corresponding variable's unary cost: weight w on literal x_i adds cost w
// when x_i=1 (value index 1); weight w on ~x_i adds cost w when x_i=0.
// A negative weight w on a literal l is rewritten as w*l = w + (-w)*(1-l),
// i.e. a constant w plus a positive-weight term on the complementary
// value, keeping every stored cost non-negative.
func applyObjective(b wcsp.Builder, vars []int, terms []term, precision uint) error {
	for _, tm := range terms {
		idx := abs(tm.lit) - 1
		if idx < 0 || idx >= len(vars) {
			continue
		}
		value := 1
		if tm.lit < 0 {
			value = 0
		}
		w := tm.weight
		if w < 0 {
			b.AddConstant(cost.Cost(w))
			value = 1 - value
			w = -w
		}
		if w == 0 {
			continue
		}
		if _, err := b.AddFunctionFromTuples([]int{vars[idx]}, 0, []wcsp.Tuple{{Values: []int{value}, Cost: cost.Cost(w)}}); err != nil {
			return err
		}
	}
	return nil
}

func termScope(terms []term, vars []int) ([]int, int) {
	scope := make([]int, len(terms))
	for i, tm := range terms {
		scope[i] = vars[abs(tm.lit)-1]
	}
	return scope, len(scope)
}

// forbiddenTuples enumerates every assignment to the constraint's scope
// and lists the ones that violate it (sum of weighted satisfied literals
// fails the ">="/"=" test against rhs) at cost top, i.e. forbidden.
func forbiddenTuples(terms []term, op string, rhs int64, top cost.Cost) []wcsp.Tuple {
	n := len(terms)
	var tuples []wcsp.Tuple
	values := make([]int, n)
	var rec func(i int)
	rec = func(i int) {
		if i == n {
			var sum int64
			for j, tm := range terms {
				satisfied := (tm.lit > 0 && values[j] == 1) || (tm.lit < 0 && values[j] == 0)
				if satisfied {
					sum += tm.weight
				}
			}
			ok := sum >= rhs
			if op == "=" {
				ok = sum == rhs
			}
			if !ok {
				tuples = append(tuples, wcsp.Tuple{Values: append([]int(nil), values...), Cost: top})
			}
			return
		}
		for _, v := range [2]int{0, 1} {
			values[i] = v
			rec(i + 1)
		}
	}
	rec(0)
	return tuples
}
