package propagate

import "github.com/toulbar2go/wcspsolve/internal/wcsp"

// runDAC enforces directed arc consistency on v: beyond the undirected
// per-value projections runAC already performs, every function whose
// DAC-designated last variable is v has its remaining global minimum
// moved into lb via Project0, and v is requeued for NC (spec.md §4.6
// "DAC"). Handling every function's residual from a single, fixed endpoint
// stops cost from oscillating back and forth between two functions sharing
// an endpoint — the same acyclic-direction discipline the teacher gets for
// free from unit propagation always moving forward through the trail
// rather than re-deriving already-bound literals.
func runDAC(w *wcsp.WCSP, e *Engine, v int) error {
	for _, fi := range w.IncidentFunctions(v) {
		f := w.Funcs[fi]
		scope := f.Scope()
		if len(scope) < 2 || dacLast(w, scope) != v {
			continue
		}
		if err := w.Project0(f); err != nil {
			return err
		}
		e.nc.push(v)
	}
	return nil
}

// dacLast returns the scope variable with the highest DAC rank, the one
// whose DAC pass moves a function's residual cost into lb.
func dacLast(w *wcsp.WCSP, scope []int) int {
	last := scope[0]
	lastPos := w.DACPosition(last)
	for _, v := range scope[1:] {
		if p := w.DACPosition(v); p > lastPos {
			last = v
			lastPos = p
		}
	}
	return last
}
