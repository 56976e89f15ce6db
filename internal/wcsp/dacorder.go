package wcsp

// ComputeDACOrder fixes the total variable order used by directed arc
// consistency (spec.md §4.6 "DAC"): the order in which each variable is
// first mentioned by a cost function, with any variable untouched by any
// function appended at the end in index order. It is computed exactly
// once at load time and never revisited during search, mirroring the
// teacher's one-shot watcherList construction in initWatcherList
// (solver/watcher.go).
func (w *WCSP) ComputeDACOrder() {
	seen := make([]bool, len(w.Vars))
	order := make([]int, 0, len(w.Vars))
	for _, f := range w.Funcs {
		for _, v := range f.Scope() {
			if !seen[v] {
				seen[v] = true
				order = append(order, v)
			}
		}
	}
	for v := range w.Vars {
		if !seen[v] {
			order = append(order, v)
		}
	}
	w.DACOrder = order
	w.dacPos = make([]int, len(w.Vars))
	for i, v := range order {
		w.dacPos[v] = i
	}
}

// DACPosition returns v's rank in the DAC order (lower means earlier);
// used by DAC propagation to decide which endpoint of a function receives
// the projected cost.
func (w *WCSP) DACPosition(v int) int {
	return w.dacPos[v]
}
