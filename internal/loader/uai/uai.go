// Package uai reads the UAI/LG graphical-model format (Markov or Bayes
// network) and converts it to a WCSP via wcsp.Builder: each function
// table of probabilities becomes a cost table via
// cost = round(-log(p) * NormFactor), the same conversion spec.md §6
// specifies for probability-based front-ends.
//
// Per spec.md §6's explicit Non-goal, this package satisfies the
// Builder-consuming shape without the full robustness (compressed
// evidence files, "BAYES" CPT normalization checks) a dedicated UAI
// front-end would have — see DESIGN.md.
package uai

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/loader"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

type tokenizer struct{ sc *bufio.Scanner }

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) next(field string) (string, error) {
	if !t.sc.Scan() {
		return "", &loader.ErrWrongFormat{Format: "uai", Reason: fmt.Sprintf("unexpected EOF reading %s", field)}
	}
	return t.sc.Text(), nil
}

func (t *tokenizer) nextInt(field string) (int, error) {
	tok, err := t.next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &loader.ErrWrongFormat{Format: "uai", Reason: fmt.Sprintf("%s: %q is not an integer", field, tok)}
	}
	return v, nil
}

func (t *tokenizer) nextFloat(field string) (float64, error) {
	tok, err := t.next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &loader.ErrWrongFormat{Format: "uai", Reason: fmt.Sprintf("%s: %q is not a number", field, tok)}
	}
	return v, nil
}

// Load reads a UAI file from r into b, converting probabilities to costs
// at the given fixed-point precision.
func Load(r io.Reader, b wcsp.Builder, precision uint) error {
	t := newTokenizer(r)

	if _, err := t.next("model type"); err != nil { // "MARKOV" or "BAYES"; direction makes no WCSP-level difference
		return err
	}

	nbVar, err := t.nextInt("number of variables")
	if err != nil {
		return err
	}
	b.SetName("uai")
	b.SetObjective(true)

	vars := make([]int, nbVar)
	sizes := make([]int, nbVar)
	for i := 0; i < nbVar; i++ {
		sizes[i], err = t.nextInt(fmt.Sprintf("domain size of variable %d", i))
		if err != nil {
			return err
		}
		vars[i] = b.AddVariableDomain(fmt.Sprintf("x%d", i), sizes[i])
	}

	nbFunc, err := t.nextInt("number of functions")
	if err != nil {
		return err
	}
	scopes := make([][]int, nbFunc)
	for i := 0; i < nbFunc; i++ {
		arity, err := t.nextInt(fmt.Sprintf("function %d scope size", i))
		if err != nil {
			return err
		}
		scope := make([]int, arity)
		for j := 0; j < arity; j++ {
			v, err := t.nextInt("scope variable")
			if err != nil {
				return err
			}
			if v < 0 || v >= nbVar {
				return &loader.ErrWrongFormat{Format: "uai", Reason: fmt.Sprintf("scope variable %d out of range", v)}
			}
			scope[j] = vars[v]
		}
		scopes[i] = scope
	}

	normFactor := cost.NormFactor(precision)
	var top cost.Cost
	for i := 0; i < nbFunc; i++ {
		n, err := t.nextInt(fmt.Sprintf("function %d tuple count", i))
		if err != nil {
			return err
		}
		costs := make([]cost.Cost, n)
		for k := 0; k < n; k++ {
			p, err := t.nextFloat(fmt.Sprintf("function %d probability %d", i, k))
			if err != nil {
				return err
			}
			c := probToCost(p, normFactor)
			costs[k] = c
			if c > top {
				top = c
			}
		}
		if err := addFunction(b, scopes[i], costs); err != nil {
			return fmt.Errorf("uai: function %d: %w", i, err)
		}
	}
	safeTop := cost.Mul(top, int64(nbFunc))
	if safeTop < cost.MaxCost {
		safeTop++
	}
	b.SetTop(safeTop)
	return nil
}

// probToCost converts a probability to a cost via
// cost = round(-log(p) * NormFactor), the formula spec.md §6 gives; p<=0
// (an impossible outcome) maps to the largest representable cost rather
// than +Inf.
func probToCost(p float64, normFactor float64) cost.Cost {
	if p <= 0 {
		return cost.MaxCost
	}
	c := math.Round(-math.Log(p) * normFactor)
	if c < 0 {
		c = 0
	}
	if c > float64(cost.MaxCost) {
		return cost.MaxCost
	}
	return cost.Cost(c)
}

func addFunction(b wcsp.Builder, scope []int, flat []cost.Cost) error {
	sizes := make([]int, len(scope))
	for i, v := range scope {
		sizes[i] = b.DomainSize(v)
	}
	tuples := make([]wcsp.Tuple, len(flat))
	for idx, c := range flat {
		values := make([]int, len(sizes))
		rem := idx
		for i := len(sizes) - 1; i >= 0; i-- {
			values[i] = rem % sizes[i]
			rem /= sizes[i]
		}
		tuples[idx] = wcsp.Tuple{Values: values, Cost: c}
	}
	_, err := b.AddFunctionFromTuples(scope, 0, tuples)
	return err
}
