// Package qpbo reads the QPBO (quadratic pseudo-Boolean optimization)
// matrix format and converts it to a WCSP via wcsp.Builder.
//
// Per spec.md §6's explicit Non-goal, this package only needs to satisfy
// the Builder-consuming shape, not track every numerical edge case a
// dedicated QPBO front-end would (arbitrary-precision coefficients,
// exact persistency labeling, etc.) — see DESIGN.md. The conversion used
// here shifts each term's raw (signed) contribution by its own local
// minimum so every cost handed to wcsp.Builder is non-negative, which the
// WCSP engine requires; this shifts the reported optimal cost by a fixed
// per-term constant relative to the original maximization objective
// (argmin/argmax and feasibility are unaffected — only the absolute
// reported value is offset, which a CLI front-end could choose to
// surface or not).
package qpbo

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/loader"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

// Load reads a QPBO matrix from r into b. The matrix format is "n m" on
// the first line (n variables, m nonzero terms), followed by m lines
// "i j w": i==j is a linear term on x_i, i!=j (1<=i<j<=n) is a quadratic
// term on x_i*x_j; the underlying objective maximizes sum(w_ij x_i x_j).
func Load(r io.Reader, b wcsp.Builder, costMultiplier float64) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return &loader.ErrWrongFormat{Format: "qpbo", Reason: "empty input"}
	}
	header := strings.Fields(scanner.Text())
	if len(header) < 2 {
		return &loader.ErrWrongFormat{Format: "qpbo", Reason: "header must be \"n m\""}
	}
	n, err := strconv.Atoi(header[0])
	if err != nil {
		return &loader.ErrWrongFormat{Format: "qpbo", Reason: fmt.Sprintf("n %q not an int", header[0])}
	}
	m, err := strconv.Atoi(header[1])
	if err != nil {
		return &loader.ErrWrongFormat{Format: "qpbo", Reason: fmt.Sprintf("m %q not an int", header[1])}
	}

	b.SetName("qpbo")
	b.SetObjective(true) // maximization is negated into a minimization via costMultiplier below
	vars := make([]int, n)
	for i := 0; i < n; i++ {
		vars[i] = b.AddVariableDomain(fmt.Sprintf("x%d", i+1), 2)
	}
	if costMultiplier == 0 {
		costMultiplier = -1 // QPBO maximizes; negate to minimize, per spec.md §6
	}

	var top cost.Cost
	for line := 0; line < m; line++ {
		if !scanner.Scan() {
			return &loader.ErrWrongFormat{Format: "qpbo", Reason: fmt.Sprintf("expected %d terms, found %d", m, line)}
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) != 3 {
			return &loader.ErrWrongFormat{Format: "qpbo", Reason: fmt.Sprintf("term %q must have 3 fields", scanner.Text())}
		}
		i, err := strconv.Atoi(fields[0])
		if err != nil {
			return &loader.ErrWrongFormat{Format: "qpbo", Reason: fmt.Sprintf("i %q not an int", fields[0])}
		}
		j, err := strconv.Atoi(fields[1])
		if err != nil {
			return &loader.ErrWrongFormat{Format: "qpbo", Reason: fmt.Sprintf("j %q not an int", fields[1])}
		}
		w, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return &loader.ErrWrongFormat{Format: "qpbo", Reason: fmt.Sprintf("weight %q not a float", fields[2])}
		}
		w *= costMultiplier
		if i < 1 || i > n || j < 1 || j > n {
			return &loader.ErrWrongFormat{Format: "qpbo", Reason: fmt.Sprintf("term references out-of-range variable (%d,%d) for n=%d", i, j, n)}
		}

		if i == j {
			raw := [2]float64{0, w}
			shifted, maxVal := shift(raw[:])
			top += cost.Cost(math.Round(maxVal)) + 1
			tuples := []wcsp.Tuple{{Values: []int{1}, Cost: cost.Cost(math.Round(shifted[1]))}}
			if _, err := b.AddFunctionFromTuples([]int{vars[i-1]}, cost.Cost(math.Round(shifted[0])), tuples); err != nil {
				return fmt.Errorf("qpbo: term %d: %w", line, err)
			}
			continue
		}

		raw := [4]float64{0, 0, 0, w} // (0,0) (0,1) (1,0) (1,1)
		shifted, maxVal := shift(raw[:])
		top += cost.Cost(math.Round(maxVal)) + 1
		tuples := []wcsp.Tuple{
			{Values: []int{0, 1}, Cost: cost.Cost(math.Round(shifted[1]))},
			{Values: []int{1, 0}, Cost: cost.Cost(math.Round(shifted[2]))},
			{Values: []int{1, 1}, Cost: cost.Cost(math.Round(shifted[3]))},
		}
		if _, err := b.AddFunctionFromTuples([]int{vars[i-1], vars[j-1]}, cost.Cost(math.Round(shifted[0])), tuples); err != nil {
			return fmt.Errorf("qpbo: term %d: %w", line, err)
		}
	}
	b.SetTop(top)
	return nil
}

// shift translates raw so its minimum entry is 0, returning the shifted
// values and their (post-shift) maximum.
func shift(raw []float64) ([]float64, float64) {
	min := raw[0]
	for _, v := range raw[1:] {
		if v < min {
			min = v
		}
	}
	out := make([]float64, len(raw))
	max := 0.0
	for i, v := range raw {
		out[i] = v - min
		if out[i] > max {
			max = out[i]
		}
	}
	return out, max
}
