// Package propagate implements the soft local-consistency fixpoint: five
// FIFO queues (NC/AC/DAC/EAC/DEE) drained in priority order until none have
// work left, generalizing the teacher's watcherList + propagateAndSearch
// two-watched-literal fixpoint (solver/watcher.go, solver/solver.go) from
// unit propagation of boolean literals to EPT-based cost propagation over
// finite-domain variables (spec.md §4.5, §4.6).
package propagate

import (
	"log"
	"os"

	"github.com/toulbar2go/wcspsolve/internal/variable"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

var logger = log.New(os.Stderr, "propagate: ", log.LstdFlags)

// Engine owns the five propagation queues and subscribes to every variable
// in a WCSP so that any domain or cost change wakes the queues that need to
// recheck it.
type Engine struct {
	w *wcsp.WCSP

	nc  *queue
	ac  *queue
	dac *queue
	eac *queue
	dee *queue

	deeEnabled bool
	running    bool // re-entrancy guard: Run never nests
}

// New builds a propagation engine over w. enableDEE turns on the dead-end
// elimination queue (spec.md §6 `--dee` flag); it is off by default since,
// unlike NC/AC/DAC/EAC, it is not required for soundness of branch and
// bound, only for extra pruning.
func New(w *wcsp.WCSP, enableDEE bool) *Engine {
	n := len(w.Vars)
	e := &Engine{
		w:          w,
		nc:         newQueue(n),
		ac:         newQueue(n),
		dac:        newQueue(n),
		eac:        newQueue(n),
		dee:        newQueue(n),
		deeEnabled: enableDEE,
	}
	for _, v := range w.Vars {
		v.Subscribe(e)
	}
	if enableDEE {
		logger.Printf("dead-end elimination enabled over %d variables", n)
	}
	return e
}

// OnEvent implements variable.Listener. Every event re-queues its variable
// on every consistency level; each queue's own dedup bitmap absorbs
// duplicate pushes between Run() calls, the same way the teacher only ever
// appends a literal to s.trail the first time it is bound at a level.
func (e *Engine) OnEvent(ev variable.Event) {
	e.nc.push(ev.Var)
	e.ac.push(ev.Var)
	e.dac.push(ev.Var)
	e.eac.push(ev.Var)
	if e.deeEnabled {
		e.dee.push(ev.Var)
	}
}

// EnqueueAll seeds every queue with every variable. Called once after a
// problem is loaded, before the first Run, so the initial fixpoint isn't
// gated on waiting for the first domain event.
func (e *Engine) EnqueueAll() {
	for v := range e.w.Vars {
		e.nc.push(v)
		e.ac.push(v)
		e.dac.push(v)
		e.eac.push(v)
		if e.deeEnabled {
			e.dee.push(v)
		}
	}
}

// Run drains all five queues to a joint fixpoint in strict priority order
// (NC before AC before DAC before EAC before DEE, re-checking from the top
// whenever a lower-priority step requeues something upstream), returning a
// *store.Contradiction-wrapped error the instant lb reaches ub — exactly
// where the teacher's unifyLiteral returns a non-nil conflict clause
// (solver/watcher.go).
func (e *Engine) Run() error {
	if e.running {
		return nil
	}
	e.running = true
	defer func() { e.running = false }()

	for {
		if v, ok := e.nc.pop(); ok {
			if err := runNC(e.w, v); err != nil {
				return err
			}
			continue
		}
		if v, ok := e.ac.pop(); ok {
			if err := runAC(e.w, e, v); err != nil {
				return err
			}
			continue
		}
		if v, ok := e.dac.pop(); ok {
			if err := runDAC(e.w, e, v); err != nil {
				return err
			}
			continue
		}
		if v, ok := e.eac.pop(); ok {
			if err := runEAC(e.w, e, v); err != nil {
				return err
			}
			continue
		}
		if e.deeEnabled {
			if v, ok := e.dee.pop(); ok {
				if err := runDEE(e.w, v); err != nil {
					return err
				}
				continue
			}
		}
		return nil
	}
}

// Idle reports whether every queue is empty, used by tests to assert a
// fixpoint was actually reached.
func (e *Engine) Idle() bool {
	if !e.nc.empty() || !e.ac.empty() || !e.dac.empty() || !e.eac.empty() {
		return false
	}
	return !e.deeEnabled || e.dee.empty()
}
