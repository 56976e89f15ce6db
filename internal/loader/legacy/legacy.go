// Package legacy reads the WCSP legacy text format: the reference format
// spec.md §6 and SPEC_FULL.md §6.1 call out for full implementation.
// Grounded on original_source/src/utils/tb2reader.cpp's read_legacy
// (header shape, shared-table back-reference scheme) and on the teacher's
// solver/parser.go ParseCNF (the "bufio.Scanner + tokenize + validate +
// build incrementally, wrap every parse error" shape carried over from
// reading DIMACS CNF to reading WCSP text).
package legacy

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

// tokenizer pulls whitespace-separated tokens across line boundaries, the
// same shape as the teacher's bufio.Reader+readInt token walk but over
// strings rather than raw bytes, since legacy costs may be written as
// decimals.
type tokenizer struct {
	sc  *bufio.Scanner
	buf []string
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) next() (string, bool) {
	if !t.sc.Scan() {
		return "", false
	}
	return t.sc.Text(), true
}

func (t *tokenizer) nextString(field string) (string, error) {
	tok, ok := t.next()
	if !ok {
		return "", &loader.ErrWrongFormat{Format: "legacy", Reason: fmt.Sprintf("unexpected EOF reading %s", field)}
	}
	return tok, nil
}

func (t *tokenizer) nextInt(field string) (int, error) {
	tok, err := t.nextString(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &loader.ErrWrongFormat{Format: "legacy", Reason: fmt.Sprintf("%s: %q is not an integer", field, tok)}
	}
	return v, nil
}

// nextCost reads a legacy cost token, which may be an integer or a
// decimal literal (e.g. "3.5"), converting it through cost.FromDecimal at
// the given fixed-point precision.
func (t *tokenizer) nextCost(field string, precision uint) (cost.Cost, error) {
	tok, err := t.nextString(field)
	if err != nil {
		return 0, err
	}
	return parseDecimalCost(tok, precision)
}

func parseDecimalCost(tok string, precision uint) (cost.Cost, error) {
	neg := strings.HasPrefix(tok, "-")
	if neg {
		tok = tok[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(tok, ".")
	mantissaStr := intPart + fracPart
	if mantissaStr == "" {
		return 0, &loader.ErrWrongFormat{Format: "legacy", Reason: fmt.Sprintf("empty cost literal %q", tok)}
	}
	mantissa, err := strconv.ParseInt(mantissaStr, 10, 64)
	if err != nil {
		return 0, &loader.ErrWrongFormat{Format: "legacy", Reason: fmt.Sprintf("%q is not a valid cost", tok)}
	}
	exponent := 0
	if hasFrac {
		exponent = -len(fracPart)
	}
	c, err := cost.FromDecimal(mantissa, exponent, precision)
	if err != nil {
		return 0, err
	}
	if neg {
		c = -c
	}
	return c, nil
}

// sharedTable records a previously-declared shared cost function: its
// tuples and default, indexed by 1-based declaration order (original_source
// tb2reader.cpp: "negative numTuples ... occurrence number of the desired
// shared cost function").
type sharedTable struct {
	defaultCost cost.Cost
	tuples      []wcsp.Tuple
}

// Load reads a legacy-format WCSP problem from r into b.
func Load(r io.Reader, b wcsp.Builder, precision uint) error {
	t := newTokenizer(r)

	name, err := t.nextString("problem name")
	if err != nil {
		return err
	}
	b.SetName(name)

	nbVar, err := t.nextInt("number of variables")
	if err != nil {
		return err
	}
	if _, err := t.nextInt("max domain size"); err != nil { // informational only; each variable states its own size
		return err
	}
	nbConstr, err := t.nextInt("number of functions")
	if err != nil {
		return err
	}
	top, err := t.nextCost("upper bound", precision)
	if err != nil {
		return err
	}
	b.SetTop(top)

	vars := make([]int, nbVar)
	for i := 0; i < nbVar; i++ {
		domain, err := t.nextInt(fmt.Sprintf("domain size of variable %d", i))
		if err != nil {
			return err
		}
		vars[i] = b.AddVariableDomain(fmt.Sprintf("x%d", i), domain)
	}

	var shared []sharedTable
	for ic := 0; ic < nbConstr; ic++ {
		if err := loadFunction(t, b, vars, precision, &shared); err != nil {
			return fmt.Errorf("legacy: function %d: %w", ic, err)
		}
	}
	return nil
}

func loadFunction(t *tokenizer, b wcsp.Builder, vars []int, precision uint, shared *[]sharedTable) error {
	arity, err := t.nextInt("function arity")
	if err != nil {
		return err
	}
	isShared := arity < 0
	if isShared {
		arity = -arity
	}

	scope := make([]int, arity)
	for i := 0; i < arity; i++ {
		idx, err := t.nextInt("function scope variable")
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(vars) {
			return &loader.ErrWrongFormat{Format: "legacy", Reason: fmt.Sprintf("scope variable %d out of range", idx)}
		}
		scope[i] = vars[idx]
	}

	defaultCost, err := t.nextCost("default cost", precision)
	if err != nil {
		return err
	}

	ntuples, err := t.nextInt("number of tuples")
	if err != nil {
		return err
	}

	var tuples []wcsp.Tuple
	if ntuples < 0 {
		ref := -ntuples - 1
		if ref < 0 || ref >= len(*shared) {
			return &loader.ErrWrongFormat{Format: "legacy", Reason: fmt.Sprintf("shared function %d not previously defined", ref)}
		}
		reused := (*shared)[ref]
		defaultCost = reused.defaultCost
		tuples = reused.tuples
	} else {
		tuples = make([]wcsp.Tuple, ntuples)
		for i := 0; i < ntuples; i++ {
			values := make([]int, arity)
			for j := 0; j < arity; j++ {
				v, err := t.nextInt("tuple value")
				if err != nil {
					return err
				}
				values[j] = v
			}
			c, err := t.nextCost("tuple cost", precision)
			if err != nil {
				return err
			}
			tuples[i] = wcsp.Tuple{Values: values, Cost: c}
		}
	}

	if isShared {
		*shared = append(*shared, sharedTable{defaultCost: defaultCost, tuples: tuples})
	}

	_, err = b.AddFunctionFromTuples(scope, defaultCost, tuples)
	return err
}
