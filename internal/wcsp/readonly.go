package wcsp

import (
	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/variable"
)

// ReadOnlyView exposes just enough of a WCSP for internal/localsearch to
// evaluate candidate assignments without ever touching internal/store
// (spec.md §4.8: "It must not mutate the reversible store"; §5: "Any
// optional parallel seeding run outside the core must operate on a
// read-only snapshot"). Every method here only calls Get()-style
// accessors, never Set(), so concurrent callers sharing one WCSP (one per
// errgroup goroutine in internal/localsearch) never race with each other
// so long as no propagation or search is running concurrently with them.
type ReadOnlyView struct {
	w *WCSP
}

// ReadOnly returns a read-only view over w's current (already propagated)
// state.
func (w *WCSP) ReadOnly() *ReadOnlyView {
	return &ReadOnlyView{w: w}
}

// NumVars returns the number of variables.
func (r *ReadOnlyView) NumVars() int { return len(r.w.Vars) }

// DomainValues calls f for every value still present in variable v's
// current domain.
func (r *ReadOnlyView) DomainValues(v int, f func(idx int)) {
	vv := r.w.Vars[v]
	if vv.Kind == variable.Enumerated {
		vv.Values(f)
		return
	}
	for i := vv.Inf(); i <= vv.Sup(); i++ {
		f(i)
	}
}

// AnyValue returns one currently present value for v, used to seed a
// starting assignment.
func (r *ReadOnlyView) AnyValue(v int) int {
	return r.w.Vars[v].Inf()
}

// MinUnaryValue returns the value of v with the smallest unary cost,
// breaking ties toward the smallest index — the min-unary-cost starting
// policy spec.md §4.8 describes.
func (r *ReadOnlyView) MinUnaryValue(v int) int {
	vv := r.w.Vars[v]
	if vv.Kind != variable.Enumerated {
		return vv.Inf()
	}
	best := -1
	var bestCost cost.Cost
	vv.Values(func(idx int) {
		c := vv.UnaryCost(idx)
		if best == -1 || c < bestCost {
			best = idx
			bestCost = c
		}
	})
	return best
}

// EvalAssignment computes the total cost of a complete assignment (one
// value per variable, by index), i.e. lb plus every unary cost plus every
// connected function's effective cost — a read-only variant of Eval used
// only for scoring local-search moves (spec.md §4.8).
func (r *ReadOnlyView) EvalAssignment(assignment []int) cost.Cost {
	total := r.w.LB()
	for v, val := range assignment {
		total += r.w.Vars[v].UnaryCost(val)
	}
	for _, f := range r.w.Funcs {
		if !f.Connected() {
			continue
		}
		scope := f.Scope()
		tuple := make([]int, len(scope))
		for i, v := range scope {
			tuple[i] = assignment[v]
		}
		total += f.Eval(tuple)
	}
	return total
}
