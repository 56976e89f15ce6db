package propagate

import "github.com/toulbar2go/wcspsolve/internal/wcsp"

// runDEE implements dead-end elimination on v: value a is discarded when
// some other present value b has a unary cost no higher than a's, and b
// dominates a in every incident connected function (internal/wcsp's
// CostFunction.Dominates) — i.e. no complete extension of b can ever cost
// more than the matching extension of a, so a can never be part of a
// strictly better solution than keeping b is. This is additive across
// functions (each function's contribution is independent, summed into the
// total), so per-function dominance composes into whole-assignment
// dominance exactly as AC's per-function minima compose into lb (spec.md
// §4.6 "DEE"). Only enabled when `--dee` is set (spec.md §6), since unlike
// NC/AC/DAC/EAC it is not required for branch-and-bound soundness, only
// for extra pruning.
func runDEE(w *wcsp.WCSP, v int) error {
	vv := w.Vars[v]
	if vv.Size() < 2 {
		return nil
	}
	incident := w.IncidentFunctions(v)

	var present []int
	vv.Values(func(a int) { present = append(present, a) })

	var toRemove []int
	removed := make(map[int]bool)
	for _, a := range present {
		for _, b := range present {
			if a == b || removed[b] {
				continue
			}
			if vv.UnaryCost(b) > vv.UnaryCost(a) {
				continue
			}
			if dominatedByEverywhere(w, incident, v, a, b) {
				toRemove = append(toRemove, a)
				removed[a] = true
				break
			}
		}
	}
	for _, a := range toRemove {
		if !vv.Present(a) {
			continue
		}
		if err := vv.Remove(a); err != nil {
			return err
		}
	}
	return nil
}

// dominatedByEverywhere reports whether b dominates a in every function
// incident to v.
func dominatedByEverywhere(w *wcsp.WCSP, incident []int, v, a, b int) bool {
	for _, fi := range incident {
		f := w.Funcs[fi]
		scope := f.Scope()
		pos := scopePosition(scope, v)
		if pos < 0 {
			continue
		}
		live := func(p, val int) bool { return w.Vars[scope[p]].Present(val) }
		if !f.Dominates(pos, a, b, live) {
			return false
		}
	}
	return true
}
