// Package localsearch implements an INCOP-style stochastic local search
// pass used only to seed an initial upper bound before branch and bound
// starts (spec.md §4.8: "-i/--pils/--lrbcd ... run an incomplete local
// search pass to produce a starting upper bound"). It operates purely
// through wcsp.ReadOnlyView and never touches internal/store: no Push,
// no Restore, no Assign. This mirrors the teacher's own separation of
// concerns between its complete solver (solver/solver.go) and its
// standalone local-search-flavored restart loop for MaxSAT (maxsat/
// package, which runs independent trial assignments and keeps the best
// one without ever threading state back through the CDCL trail).
//
// The moves tried here are a direct generalization of WalkSAT-style
// single-flip local search (as approximated by INCOP for WCSP): repeatedly
// pick the variable/value flip that most reduces EvalAssignment, with
// random restarts and random tie-breaking to escape local minima, for a
// fixed move budget.
package localsearch

import (
	"math/rand"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

// Result is the outcome of one local-search run: the best complete
// assignment found and its cost.
type Result struct {
	Assignment []int
	Cost       cost.Cost
}

// Run performs one stochastic local-search trial over snapshot, starting
// from the min-unary-cost assignment and applying up to moves single-
// variable flips, each time taking the best-improving flip found (ties
// broken uniformly at random via rng), restarting from a fresh random
// assignment whenever no flip improves the current one (a local optimum)
// and the move budget is not yet exhausted. It never mutates snapshot.
func Run(snapshot *wcsp.ReadOnlyView, moves int, rng *rand.Rand) Result {
	n := snapshot.NumVars()
	if n == 0 {
		return Result{Assignment: nil, Cost: 0}
	}

	current := startingAssignment(snapshot)
	currentCost := snapshot.EvalAssignment(current)

	best := append([]int(nil), current...)
	bestCost := currentCost

	for step := 0; step < moves; step++ {
		v, val, newCost, improved := bestFlip(snapshot, current, currentCost, rng)
		if !improved {
			// Local optimum: restart from a fresh random point and keep
			// exploring with whatever move budget remains.
			current = randomAssignment(snapshot, rng)
			currentCost = snapshot.EvalAssignment(current)
			if currentCost < bestCost {
				best = append(best[:0], current...)
				bestCost = currentCost
			}
			continue
		}
		current[v] = val
		currentCost = newCost
		if currentCost < bestCost {
			best = append(best[:0], current...)
			bestCost = currentCost
		}
	}

	return Result{Assignment: best, Cost: bestCost}
}

// startingAssignment seeds every variable at its cheapest unary value,
// the same policy internal/search.pickValues uses to order branching.
func startingAssignment(snapshot *wcsp.ReadOnlyView) []int {
	assignment := make([]int, snapshot.NumVars())
	for v := range assignment {
		assignment[v] = snapshot.MinUnaryValue(v)
	}
	return assignment
}

// randomAssignment draws one present value per variable uniformly at
// random, used to escape a local optimum.
func randomAssignment(snapshot *wcsp.ReadOnlyView, rng *rand.Rand) []int {
	assignment := make([]int, snapshot.NumVars())
	for v := range assignment {
		var values []int
		snapshot.DomainValues(v, func(idx int) { values = append(values, idx) })
		if len(values) == 0 {
			assignment[v] = snapshot.AnyValue(v)
			continue
		}
		assignment[v] = values[rng.Intn(len(values))]
	}
	return assignment
}

// bestFlip scans every (variable, alternate value) pair reachable by a
// single flip from current and returns the one yielding the lowest cost,
// breaking ties uniformly at random among equally-good flips. improved is
// false when no flip strictly lowers currentCost.
func bestFlip(snapshot *wcsp.ReadOnlyView, current []int, currentCost cost.Cost, rng *rand.Rand) (v, val int, newCost cost.Cost, improved bool) {
	bestV, bestVal := -1, -1
	var bestCost cost.Cost
	ties := 0

	trial := append([]int(nil), current...)
	for i := range current {
		snapshot.DomainValues(i, func(idx int) {
			if idx == current[i] {
				return
			}
			trial[i] = idx
			c := snapshot.EvalAssignment(trial)
			trial[i] = current[i]

			switch {
			case bestV == -1 || c < bestCost:
				bestV, bestVal, bestCost = i, idx, c
				ties = 1
			case c == bestCost:
				ties++
				if rng.Intn(ties) == 0 {
					bestV, bestVal = i, idx
				}
			}
		})
	}

	if bestV == -1 || bestCost >= currentCost {
		return 0, 0, currentCost, false
	}
	return bestV, bestVal, bestCost, true
}
