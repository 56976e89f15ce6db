// Package cfn reads the CFN/JSON-like format: a brace-delimited
// "problem"/"variables"/"functions" document with symbolic domain values,
// decimal costs, and a "mustbe" bound that fixes both the optimization
// direction and the decimal precision (spec.md §6).
//
// Uses stdlib encoding/json rather than a third-party JSON library: no
// repo in the example pack reaches for one for a solver-internal config/
// data format (see DESIGN.md for the full stdlib justification), and
// decimal costs are converted through cost.FromDecimal via json.Number so
// no precision is lost to float64 rounding before conversion.
package cfn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/loader"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

type document struct {
	Problem   problemSection             `json:"problem"`
	Variables map[string]json.RawMessage `json:"variables"`
	Functions map[string]functionSection `json:"functions"`
}

type problemSection struct {
	Name   string `json:"name"`
	MustBe string `json:"mustbe"`
}

type functionSection struct {
	Scope       []string      `json:"scope"`
	DefaultCost json.Number   `json:"defaultcost"`
	Costs       []json.Number `json:"costs"`
}

// Load reads a CFN document from r into b. precisionOverride, when
// nonzero, takes priority over the precision implied by "mustbe" (the CLI
// -precision flag always wins, per spec.md §6).
func Load(r io.Reader, b wcsp.Builder, precisionOverride uint) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return &loader.ErrWrongFormat{Format: "cfn", Reason: err.Error()}
	}

	minimize, top, precision, err := parseMustBe(doc.Problem.MustBe)
	if err != nil {
		return err
	}
	boundDigits := precision // fractional digits already inside top's mantissa
	if precisionOverride != 0 {
		precision = precisionOverride
	}

	b.SetName(doc.Problem.Name)
	b.SetObjective(minimize)

	varNames := make([]string, 0, len(doc.Variables))
	for name := range doc.Variables {
		varNames = append(varNames, name)
	}
	// Stable iteration: JSON object key order isn't preserved by
	// encoding/json, but variable index assignment must be deterministic
	// across repeated loads, so sort the names once collected.
	sortStrings(varNames)

	vars := make(map[string]int, len(varNames))
	for _, name := range varNames {
		raw := doc.Variables[name]
		idx, err := addVariable(b, name, raw)
		if err != nil {
			return fmt.Errorf("cfn: variable %q: %w", name, err)
		}
		vars[name] = idx
	}

	fnNames := make([]string, 0, len(doc.Functions))
	for name := range doc.Functions {
		fnNames = append(fnNames, name)
	}
	sortStrings(fnNames)
	for _, name := range fnNames {
		fn := doc.Functions[name]
		if err := addFunction(b, vars, fn, precision); err != nil {
			return fmt.Errorf("cfn: function %q: %w", name, err)
		}
	}

	topCost, err := cost.FromDecimal(top, -int(boundDigits), precision)
	if err != nil {
		return err
	}
	b.SetTop(topCost)
	return nil
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}

// parseMustBe parses a mustbe string like "<1000" (minimize, bound 1000)
// or ">3.5" (maximize). The bound's fractional digit count fixes the
// problem's decimal precision when no CLI override is given.
func parseMustBe(s string) (minimize bool, bound int64, precision uint, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return true, 0, 0, nil
	}
	minimize = s[0] == '<'
	if !minimize && s[0] != '>' {
		return false, 0, 0, &loader.ErrWrongFormat{Format: "cfn", Reason: fmt.Sprintf("mustbe %q must start with '<' or '>'", s)}
	}
	numStr := s[1:]
	intPart, fracPart, hasFrac := strings.Cut(numStr, ".")
	if hasFrac {
		precision = uint(len(fracPart))
	}
	mantissa, convErr := strconv.ParseInt(intPart+fracPart, 10, 64)
	if convErr != nil {
		return false, 0, 0, &loader.ErrWrongFormat{Format: "cfn", Reason: fmt.Sprintf("mustbe bound %q is not numeric", numStr)}
	}
	return minimize, mantissa, precision, nil
}

// addVariable accepts either a JSON array of symbolic domain values or a
// JSON number (plain domain size).
func addVariable(b wcsp.Builder, name string, raw json.RawMessage) (int, error) {
	var values []string
	if err := json.Unmarshal(raw, &values); err == nil {
		idx := b.AddVariableDomain(name, len(values))
		for _, v := range values {
			b.AddDomainValue(idx, v)
		}
		return idx, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, &loader.ErrWrongFormat{Format: "cfn", Reason: fmt.Sprintf("domain %q is neither a value list nor a size", string(raw))}
	}
	domain, err := n.Int64()
	if err != nil {
		return 0, &loader.ErrWrongFormat{Format: "cfn", Reason: fmt.Sprintf("domain size %q is not an integer", n.String())}
	}
	return b.AddVariableDomain(name, int(domain)), nil
}

func addFunction(b wcsp.Builder, vars map[string]int, fn functionSection, precision uint) error {
	scope := make([]int, len(fn.Scope))
	for i, name := range fn.Scope {
		idx, ok := vars[name]
		if !ok {
			return &loader.ErrWrongFormat{Format: "cfn", Reason: fmt.Sprintf("scope references unknown variable %q", name)}
		}
		scope[i] = idx
	}

	defaultCost, err := decimalToCost(fn.DefaultCost, precision)
	if err != nil {
		return err
	}

	sizes := make([]int, len(scope))
	for i := range scope {
		sizes[i] = b.DomainSize(scope[i])
	}

	var tuples []wcsp.Tuple
	if len(fn.Costs) > 0 {
		tuples = make([]wcsp.Tuple, 0, len(fn.Costs))
		for flat, raw := range fn.Costs {
			c, err := decimalToCost(raw, precision)
			if err != nil {
				return err
			}
			values := unflatten(flat, sizes)
			tuples = append(tuples, wcsp.Tuple{Values: values, Cost: c})
		}
	}

	_, err = b.AddFunctionFromTuples(scope, defaultCost, tuples)
	return err
}

func unflatten(flat int, sizes []int) []int {
	values := make([]int, len(sizes))
	for i := len(sizes) - 1; i >= 0; i-- {
		values[i] = flat % sizes[i]
		flat /= sizes[i]
	}
	return values
}

func decimalToCost(n json.Number, precision uint) (cost.Cost, error) {
	if n == "" {
		return 0, nil
	}
	s := n.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	mantissaStr := intPart + fracPart
	mantissa, err := strconv.ParseInt(mantissaStr, 10, 64)
	if err != nil {
		return 0, &loader.ErrWrongFormat{Format: "cfn", Reason: fmt.Sprintf("cost %q is not numeric", s)}
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
