package propagate

import "github.com/toulbar2go/wcspsolve/internal/wcsp"

// runAC enforces (soft) arc consistency on v: for every connected function
// incident to v and every value still present in v's domain, the function
// must have a zero-cost support among the other variables' present values;
// whatever minimum cost remains unsupported is projected into v's unary
// cost via the EPT primitives (spec.md §4.4, §4.6 "AC"). This is the direct
// generalization of the teacher's watcherList support check
// (unifyLiteral's wlist/wlistBin scan in solver/watcher.go) from "does this
// clause still have an unassigned/satisfying literal" to "what is the
// minimum cost of satisfying this function given v = a".
func runAC(w *wcsp.WCSP, e *Engine, v int) error {
	vv := w.Vars[v]
	if vv.Size() == 0 {
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

		var touched bool
		vv.Values(func(a int) {
			m := f.MinCost(pos, a, live)
			if m <= 0 {
				return
			}
			w.Project(f, pos, a, m)
			touched = true
		})
		if touched {
			e.nc.push(v)
			for _, ov := range scope {
				if ov != v {
					e.ac.push(ov)
					e.dac.push(ov)
					e.eac.push(ov)
				}
			}
		}
	}
	return nil
}
