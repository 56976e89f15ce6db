// Package search implements depth-first branch and bound (DFBB) over a
// WCSP: pick a variable, branch over its values in cost order, propagate to
// a fixpoint after each decision, backtrack on contradiction, and tighten
// the upper bound every time a complete assignment is found (spec.md
// §4.7). Branch open/restore uses store.Push()/store.Restore() exactly
// where the teacher opens and closes a decision level via
// cleanupBindings (solver/solver.go).
package search

import (
	"log"
	"os"
	"sort"
	"time"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/propagate"
	"github.com/toulbar2go/wcspsolve/internal/variable"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

var logger = log.New(os.Stderr, "search: ", log.LstdFlags)

// Stats mirrors the bookkeeping the teacher keeps on solver.Stats
// (solver/solver.go), generalized from SAT conflict/restart counters to
// WCSP branch-and-bound node counters (design note, original_source
// tb2solver.hpp Stats fields).
type Stats struct {
	NbNodes          int64
	NbBacktracks     int64
	NbSolutionsFound int64
}

// Options configures a Searcher's heuristics (spec.md §6 CLI flags).
type Options struct {
	// AllSolutions, when true, never tightens ub on finding a solution:
	// every solution strictly below the *initial* ub is reported, matching
	// the `-a` enumeration-counting flag rather than optimization.
	AllSolutions bool
	// LastConflict re-branches on the most recently backtracked-from
	// variable before falling back to the dom/wdeg heap.
	LastConflict bool
	// LDSMaxDiscrepancy bounds how many non-first-choice value branches a
	// single search pass may take; negative disables the bound entirely
	// (plain DFBB).
	LDSMaxDiscrepancy int
}

// Searcher runs DFBB over a WCSP using an already-constructed propagation
// engine.
type Searcher struct {
	w      *wcsp.WCSP
	engine *propagate.Engine
	opts   Options

	heap *varHeap
	wdeg []int64 // per-variable conflict weight, dom/wdeg heuristic

	bestSolution []int
	Stats        Stats

	// Verbose, when true, has Solve print a periodic stats line every 3
	// seconds while the search is running, mirroring solver.Solver.Verbose
	// (solver/solver.go Solve): a background goroutine that only reads
	// Stats, never mutating search state.
	Verbose bool

	lastConflictVar int
	onSolution      func(assignment []int, c cost.Cost)
}

// New builds a Searcher over w, driven by engine for propagation to a
// fixpoint after every decision.
func New(w *wcsp.WCSP, engine *propagate.Engine, opts Options) *Searcher {
	s := &Searcher{
		w:               w,
		engine:          engine,
		opts:            opts,
		wdeg:            make([]int64, len(w.Vars)),
		lastConflictVar: -1,
	}
	for i := range s.wdeg {
		s.wdeg[i] = 1
	}
	s.heap = newVarHeap(len(w.Vars), s.domWdegScore)
	return s
}

// OnSolution registers a callback invoked every time a complete assignment
// satisfying the current bound is found.
func (s *Searcher) OnSolution(f func(assignment []int, c cost.Cost)) {
	s.onSolution = f
}

func (s *Searcher) domWdegScore(v int) float64 {
	return float64(s.w.Vars[v].Size()) / float64(s.wdeg[v])
}

func (s *Searcher) bumpWdeg(v int) {
	if v >= 0 {
		s.wdeg[v]++
	}
}

// pickVariable returns the next branching variable: the last variable
// backtracked from, if last-conflict is enabled and it is still
// unassigned, else the dom/wdeg minimum among currently unassigned
// variables, or -1 if every variable is assigned.
func (s *Searcher) pickVariable() int {
	if s.opts.LastConflict && s.lastConflictVar >= 0 && !s.w.Vars[s.lastConflictVar].Assigned() {
		return s.lastConflictVar
	}
	var unassigned []int
	for i, vv := range s.w.Vars {
		if !vv.Assigned() {
			unassigned = append(unassigned, i)
		}
	}
	if len(unassigned) == 0 {
		return -1
	}
	s.heap.build(unassigned)
	return s.heap.removeMin()
}

// pickValues returns v's remaining values ordered by ascending unary cost
// (ties broken by value index) — the min-unary-cost policy spec.md §4.7
// describes, the same policy internal/wcsp.ReadOnlyView.MinUnaryValue uses
// to seed local search.
func pickValues(vv *variable.Variable) []int {
	values := make([]int, 0, vv.Size())
	vv.Values(func(a int) { values = append(values, a) })
	sort.SliceStable(values, func(i, j int) bool {
		return vv.UnaryCost(values[i]) < vv.UnaryCost(values[j])
	})
	return values
}

// Solve runs DFBB to exhaustion and returns the best complete assignment
// found (nil if none exists below the initial upper bound) together with
// its cost.
func (s *Searcher) Solve() ([]int, cost.Cost) {
	var end chan struct{}
	if s.Verbose {
		end = make(chan struct{})
		defer close(end)
		go s.reportProgress(end)
	}
	s.engine.EnqueueAll()
	disc := -1
	if s.opts.LDSMaxDiscrepancy >= 0 {
		disc = s.opts.LDSMaxDiscrepancy
	}
	s.recurse(-1, disc)
	if s.Verbose {
		end <- struct{}{}
	}
	if s.bestSolution == nil {
		return nil, 0
	}
	return s.bestSolution, s.w.UB()
}

// reportProgress prints a stats line every 3 seconds until end is
// signaled. There might be a data race reading Stats concurrently with
// recurse's writes, but this is okay since we only ever read, never
// mutate, and a stale counter value is harmless for a progress display
// (same tradeoff solver.Solver.Solve makes for its own verbose ticker).
func (s *Searcher) reportProgress(end chan struct{}) {
	logger.Printf("solving %s (%d variables)", s.w.Name, len(s.w.Vars))
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			logger.Printf("nodes=%d backtracks=%d solutions=%d lb=%d ub=%d",
				s.Stats.NbNodes, s.Stats.NbBacktracks, s.Stats.NbSolutionsFound, s.w.LB(), s.w.UB())
		case <-end:
			return
		}
	}
}

// recurse performs one DFBB node: propagate to a fixpoint, then either
// record a solution (every variable assigned), branch on the next
// variable, or backtrack on contradiction. branchVar is the variable whose
// assignment led to this call (-1 at the root), used for dom/wdeg weight
// updates and last-conflict bookkeeping. discrepancy is the remaining LDS
// budget (ignored when negative, i.e. plain DFBB).
func (s *Searcher) recurse(branchVar, discrepancy int) {
	s.Stats.NbNodes++
	if err := s.engine.Run(); err != nil {
		s.Stats.NbBacktracks++
		s.bumpWdeg(branchVar)
		s.lastConflictVar = branchVar
		return
	}

	v := s.pickVariable()
	if v < 0 {
		s.recordSolution()
		return
	}

	values := pickValues(s.w.Vars[v])
	for i, a := range values {
		if s.opts.LDSMaxDiscrepancy >= 0 && i > 0 && discrepancy <= 0 {
			continue // LDS budget spent: only the first-choice branch remains open
		}
		mark := s.w.Store.Push()
		nextDiscrepancy := discrepancy
		if i > 0 {
			nextDiscrepancy--
		}
		if err := s.w.Vars[v].Assign(a); err != nil {
			s.Stats.NbBacktracks++
			s.bumpWdeg(v)
			s.lastConflictVar = v
		} else {
			s.recurse(v, nextDiscrepancy)
		}
		// Restore also rolls back any ub tightened below this node; carry
		// the tightened bound across it so it holds for the rest of search.
		ub := s.w.UB()
		s.w.Store.Restore(mark)
		if ub < s.w.UB() {
			s.w.SetUB(ub)
		}
	}
}

// recordSolution reads off the current complete assignment, reports it,
// and — unless enumerating all solutions — tightens ub so that only a
// strictly cheaper solution is accepted from here on.
func (s *Searcher) recordSolution() {
	assignment := make([]int, len(s.w.Vars))
	for i, vv := range s.w.Vars {
		assignment[i] = vv.Value()
	}
	c := s.w.LB()
	s.Stats.NbSolutionsFound++
	s.bestSolution = assignment
	if s.onSolution != nil {
		s.onSolution(assignment, c)
	}
	if !s.opts.AllSolutions {
		s.w.SetUB(c)
	}
}
