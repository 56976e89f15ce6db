package propagate

import "github.com/toulbar2go/wcspsolve/internal/wcsp"

// runNC enforces node consistency on v: internal/wcsp.NodeConsistency
// already implements the "remove any value that alone reaches ub, then
// project the remaining minimum unary cost to lb" steps (spec.md §4.6
// "NC"); this file just wires that into the queue-driven fixpoint.
func runNC(w *wcsp.WCSP, v int) error {
	return w.NodeConsistency(v)
}

// scopePosition returns the index of variable v within scope, or -1 if
// absent. Shared by ac.go, eac.go and dee.go, which all need to translate a
// variable index back into a function's scope position.
func scopePosition(scope []int, v int) int {
	for i, s := range scope {
		if s == v {
			return i
		}
	}
	return -1
}
