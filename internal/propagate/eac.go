package propagate

import (
	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

// runEAC enforces (weak) existential arc consistency on v: the value with
// v's smallest unary cost must have full (zero) support in every incident
// connected function. Where it does not, the missing cost is projected
// from the function into v's unary cost via the same EPT machinery AC
// uses, but anchored at a single arg-min value instead of every value
// (spec.md §4.6 "weak EDAC") — a cheaper, non-exhaustive approximation of
// full existential directed AC, sufficient to tighten lb without the cost
// of re-verifying support for every value on every pass.
func runEAC(w *wcsp.WCSP, e *Engine, v int) error {
	vv := w.Vars[v]
	if vv.Size() == 0 {
		return nil
	}
	best := -1
	var bestCost cost.Cost
	vv.Values(func(a int) {
		c := vv.UnaryCost(a)
		if best == -1 || c < bestCost {
			best = a
			bestCost = c
		}
	})
	if best == -1 {
		return nil
	}

	for _, fi := range w.IncidentFunctions(v) {
		f := w.Funcs[fi]
		scope := f.Scope()
		pos := scopePosition(scope, v)
		if pos < 0 {
			continue
		}
		live := func(p, val int) bool { return w.Vars[scope[p]].Present(val) }
		m := f.MinCost(pos, best, live)
		if m <= 0 {
			continue
		}
		w.Project(f, pos, best, m)
		e.nc.push(v)
		for _, ov := range scope {
			if ov != v {
				e.ac.push(ov)
				e.dac.push(ov)
			}
		}
	}
	return nil
}
