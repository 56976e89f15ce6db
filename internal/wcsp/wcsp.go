// Package wcsp implements the weighted constraint satisfaction problem
// state: variables, cost functions, the reversible lb/ub/negCost triple,
// and the equivalence-preserving transformations (EPTs) that move cost
// between a function and a unary cost or lb (spec.md §3, §4.4).
//
// The WCSP exclusively owns Vars and Funcs; both only ever reference each
// other by integer index (spec.md §3 "Ownership"), the same discipline the
// teacher enforces between solver.Solver and solver.Clause via Var/Lit
// indices rather than pointers criss-crossing both directions.
package wcsp

import (
	"fmt"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/store"
	"github.com/toulbar2go/wcspsolve/internal/variable"
)

// WCSP is the problem state: the variable list, the cost-function list,
// and the reversible lb/ub/negCost triple (spec.md §3).
type WCSP struct {
	Name      string
	Store     *store.Store
	Vars      []*variable.Variable
	Funcs     []CostFunction
	DACOrder  []int // permutation of variable indices, computed once at load (§4.6)
	dacPos    []int // inverse of DACOrder, for O(1) DACPosition lookups
	Precision uint
	Minimize  bool

	lb      *store.Int64
	ub      *store.Int64
	negCost *store.Int64

	// varIncidence[v] lists indices into Funcs incident to variable v,
	// resolved purely by index per the ownership rule.
	varIncidence [][]int

	// domainNames holds symbolic value names registered by CFN-style
	// loaders (AddDomainValue); nil for purely numeric problems.
	domainNames map[int][]string
}

// New creates an empty WCSP bound to the given store.
func New(s *store.Store) *WCSP {
	return &WCSP{
		Store:    s,
		lb:       store.NewInt64(s, 0),
		ub:       store.NewInt64(s, cost.MaxCost),
		negCost:  store.NewInt64(s, 0),
		Minimize: true,
	}
}

// LB returns the current lower bound.
func (w *WCSP) LB() cost.Cost { return w.lb.Get() }

// UB returns the current (strict) upper bound.
func (w *WCSP) UB() cost.Cost { return w.ub.Get() }

// NegCost returns the running negative-cost shift accumulator.
func (w *WCSP) NegCost() cost.Cost { return w.negCost.Get() }

// SetUB tightens the upper bound. Callers (search, on finding a solution)
// must never widen it; this is enforced by the caller discipline, not by
// a runtime check, mirroring the teacher's own `s.model[unit.Var()]`
// write-once-per-branch convention.
func (w *WCSP) SetUB(c cost.Cost) {
	w.ub.Set(c)
}

// IncreaseLB adds delta (which must be >= 0) to lb and returns a
// Contradiction if lb then reaches or exceeds ub (spec.md §3 invariant:
// "lb + c < ub is the only non-forbidden state").
func (w *WCSP) IncreaseLB(delta cost.Cost) error {
	if delta == 0 {
		return nil
	}
	if delta < 0 {
		panic("wcsp: IncreaseLB called with a negative delta")
	}
	w.lb.Set(w.lb.Get() + delta)
	if w.lb.Get() >= w.ub.Get() {
		return store.NewContradiction("lb (%d) reached ub (%d)", w.lb.Get(), w.ub.Get())
	}
	return nil
}

// AddNegCost bumps the negCost accumulator, used whenever an EPT needs to
// push an intermediate value below zero at the public-cost layer while
// keeping the underlying representation non-negative (spec.md §3).
func (w *WCSP) AddNegCost(delta cost.Cost) {
	if delta < 0 {
		panic("wcsp: AddNegCost called with a negative delta")
	}
	w.negCost.Set(w.negCost.Get() + delta)
}

// AddVariable appends a fresh enumerated variable and returns its index.
func (w *WCSP) AddVariable(name string, domainSize int) int {
	idx := len(w.Vars)
	w.Vars = append(w.Vars, variable.NewEnumerated(w.Store, idx, name, domainSize))
	w.varIncidence = append(w.varIncidence, nil)
	return idx
}

// AddIntervalVariable appends a fresh interval variable and returns its
// index.
func (w *WCSP) AddIntervalVariable(name string, inf, sup int64) int {
	idx := len(w.Vars)
	w.Vars = append(w.Vars, variable.NewInterval(w.Store, idx, name, inf, sup))
	w.varIncidence = append(w.varIncidence, nil)
	return idx
}

// AddFunction registers a cost function and wires variable incidence.
func (w *WCSP) AddFunction(f CostFunction) int {
	idx := len(w.Funcs)
	w.Funcs = append(w.Funcs, f)
	for _, v := range f.Scope() {
		w.varIncidence[v] = append(w.varIncidence[v], idx)
	}
	return idx
}

// IncidentFunctions returns the indices of functions incident to variable
// v that are still connected.
func (w *WCSP) IncidentFunctions(v int) []int {
	res := w.varIncidence[v][:0:0]
	for _, fi := range w.varIncidence[v] {
		if w.Funcs[fi].Connected() {
			res = append(res, fi)
		}
	}
	return res
}

// Project performs the EPT that moves cost from function f into the
// unary cost of one of its variables: f's contribution for the tuples
// where the variable at scope position pos equals value is reduced by
// delta, and that same delta is added to the variable's unary cost
// (spec.md §4.4). delta must be >= 0; it is the caller's job (soft local
// consistency operators) to never request a delta that would make any
// entry negative.
func (w *WCSP) Project(f CostFunction, pos, value int, delta cost.Cost) {
	if delta == 0 {
		return
	}
	f.AddDelta(pos, value, -delta)
	vIdx := f.Scope()[pos]
	w.Vars[vIdx].AddUnaryCost(value, delta)
}

// Extend is the inverse of Project: it removes delta from the variable's
// unary cost and distributes it back into f's entries for that
// assignment.
func (w *WCSP) Extend(f CostFunction, pos, value int, delta cost.Cost) {
	if delta == 0 {
		return
	}
	vIdx := f.Scope()[pos]
	w.Vars[vIdx].AddUnaryCost(value, -delta)
	f.AddDelta(pos, value, delta)
}

// Project0 subtracts f's minimum cost over all tuples from every entry and
// adds it to lb (spec.md §4.4). Returns a Contradiction if lb then reaches
// ub.
func (w *WCSP) Project0(f CostFunction) error {
	m := f.MinCostOverall()
	if m <= 0 {
		return nil
	}
	f.Project0(m)
	return w.IncreaseLB(m)
}

// NodeConsistency enforces NC on variable v: any value whose unary cost
// plus lb reaches ub is removed, then the minimum remaining unary cost is
// projected to lb (spec.md §4.6 "NC").
func (w *WCSP) NodeConsistency(v int) error {
	vv := w.Vars[v]
	if vv.Kind != variable.Enumerated {
		return nil
	}
	lb := w.LB()
	ub := w.UB()
	var toRemove []int
	vv.Values(func(idx int) {
		if lb+vv.UnaryCost(idx) >= ub {
			toRemove = append(toRemove, idx)
		}
	})
	for _, idx := range toRemove {
		if err := vv.Remove(idx); err != nil {
			return err
		}
	}
	if vv.Size() == 0 {
		return store.NewContradiction("NC emptied domain of %s", vv.Name)
	}
	min := cost.Cost(-1)
	vv.Values(func(idx int) {
		c := vv.UnaryCost(idx)
		if min == -1 || c < min {
			min = c
		}
	})
	if min > 0 {
		vv.Values(func(idx int) {
			vv.AddUnaryCost(idx, -min)
		})
		if err := w.IncreaseLB(min); err != nil {
			return err
		}
	}
	return nil
}

// String summarizes the problem for debugging (-z style dumps use
// internal/output instead, for the DIMACS-like textual form).
func (w *WCSP) String() string {
	return fmt.Sprintf("WCSP(%s): %d vars, %d functions, lb=%d ub=%d", w.Name, len(w.Vars), len(w.Funcs), w.LB(), w.UB())
}
