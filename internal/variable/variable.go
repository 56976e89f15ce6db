// Package variable implements the WCSP variable and domain representation:
// enumerated and interval domains, reversible presence bits and unary
// costs, and the event queues higher layers (propagate, search) drain.
//
// This generalizes the teacher's (solver.Var/solver.Lit) two-valued model
// (solver/types.go) to n-valued enumerated domains and bounded intervals,
// keeping the same "index is identity" discipline: a Variable never holds
// a pointer to another Variable or to a cost function, only integer
// indices, mirroring the teacher's arrays-of-int back-reference style
// (solver.Solver.reason []*Clause indexed by Var).
package variable

import (
	"fmt"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/store"
)

// EventKind identifies the type of tightening that occurred on a variable,
// used to route entries onto the right propagation queue (spec.md §4.2).
type EventKind int

const (
	// EventAssign fires when a variable becomes a singleton.
	EventAssign EventKind = iota
	// EventRemove fires when a single value is removed from an enumerated
	// domain without assigning it.
	EventRemove
	// EventBound fires when inf or sup changes on an interval domain, or
	// when the unary-cost vector of an enumerated domain changes.
	EventBound
)

func (k EventKind) String() string {
	switch k {
	case EventAssign:
		return "assign"
	case EventRemove:
		return "remove"
	case EventBound:
		return "bound"
	default:
		return "unknown"
	}
}

// Event is one domain-change notification.
type Event struct {
	Var  int
	Kind EventKind
}

// Listener receives domain-change notifications. Per design note §9, this
// replaces the teacher-analogous global "setvalue/removevalue" hooks with
// an explicit per-problem observer list: no process-wide singleton.
type Listener interface {
	OnEvent(Event)
}

// Kind distinguishes enumerated from interval variables.
type Kind byte

const (
	// Enumerated variables have an explicit, small finite domain.
	Enumerated Kind = iota
	// Interval variables are represented only by bounds [inf,sup].
	Interval
)

// Variable is one WCSP variable: enumerated (bitset presence + per-value
// unary costs) or interval (bounds only). Fields mirror spec.md §3.
type Variable struct {
	Index int
	Name  string
	Kind  Kind

	// Enumerated domain state.
	n         int // initial domain size
	present   *store.Bitset
	unary     []*store.Int64 // reversible unary cost per value
	size      *store.Int     // reversible cardinality, O(1) instead of Bitset.Count
	cachedMin *store.Int
	cachedMax *store.Int

	// Interval domain state.
	inf *store.Int64
	sup *store.Int64

	listeners []Listener
}

// NewEnumerated builds an enumerated variable with n values (0..n-1), all
// present, all unary costs zero.
func NewEnumerated(s *store.Store, index int, name string, n int) *Variable {
	if n <= 0 {
		panic("variable: enumerated domain must have at least one value")
	}
	unary := make([]*store.Int64, n)
	for i := range unary {
		unary[i] = store.NewInt64(s, 0)
	}
	return &Variable{
		Index:     index,
		Name:      name,
		Kind:      Enumerated,
		n:         n,
		present:   store.NewBitset(s, n),
		unary:     unary,
		size:      store.NewInt(s, n),
		cachedMin: store.NewInt(s, 0),
		cachedMax: store.NewInt(s, n-1),
	}
}

// NewInterval builds an interval variable with bounds [inf,sup].
func NewInterval(s *store.Store, index int, name string, inf, sup int64) *Variable {
	if inf > sup {
		panic("variable: interval domain must have inf <= sup")
	}
	return &Variable{
		Index: index,
		Name:  name,
		Kind:  Interval,
		inf:   store.NewInt64(s, inf),
		sup:   store.NewInt64(s, sup),
	}
}

// Subscribe registers a listener for domain-change events on this
// variable.
func (v *Variable) Subscribe(l Listener) {
	v.listeners = append(v.listeners, l)
}

func (v *Variable) publish(kind EventKind) {
	for _, l := range v.listeners {
		l.OnEvent(Event{Var: v.Index, Kind: kind})
	}
}

// Size returns the number of remaining values (enumerated) or sup-inf+1
// (interval).
func (v *Variable) Size() int {
	if v.Kind == Enumerated {
		return v.size.Get()
	}
	return int(v.sup.Get() - v.inf.Get() + 1)
}

// Assigned reports whether the domain has collapsed to a single value.
func (v *Variable) Assigned() bool {
	return v.Size() == 1
}

// Value returns the single remaining value; panics if not Assigned.
func (v *Variable) Value() int {
	if !v.Assigned() {
		panic("variable: Value() called on an unassigned variable")
	}
	if v.Kind == Enumerated {
		return v.cachedMin.Get()
	}
	return int(v.inf.Get())
}

// Inf returns the smallest remaining value.
func (v *Variable) Inf() int {
	if v.Kind == Enumerated {
		return v.cachedMin.Get()
	}
	return int(v.inf.Get())
}

// Sup returns the largest remaining value.
func (v *Variable) Sup() int {
	if v.Kind == Enumerated {
		return v.cachedMax.Get()
	}
	return int(v.sup.Get())
}

// Present reports whether value idx is still in the enumerated domain.
// Panics for interval variables; callers must check Kind first.
func (v *Variable) Present(idx int) bool {
	return v.present.Test(idx)
}

// UnaryCost returns the unary cost of value idx (enumerated domains only).
func (v *Variable) UnaryCost(idx int) cost.Cost {
	return v.unary[idx].Get()
}

// InitialSize returns the initial (pre-propagation) domain size.
func (v *Variable) InitialSize() int {
	return v.n
}

// AddUnaryCost adds delta to the unary cost of value idx. Per spec.md §3,
// unary costs must stay non-negative; callers (EPT primitives) are
// responsible for only ever requesting deltas that preserve this.
func (v *Variable) AddUnaryCost(idx int, delta cost.Cost) {
	nv := v.unary[idx].Get() + delta
	if nv < 0 {
		panic(fmt.Sprintf("variable: unary cost of %s=%d would go negative (%d)", v.Name, idx, nv))
	}
	v.unary[idx].Set(nv)
	v.publish(EventBound)
}

// recomputeBounds scans the presence bitset to refresh cachedMin/cachedMax
// after a removal. Only called when the removed value was exactly at a
// cached bound (the common case is O(1): scanning stops at the first
// present value).
func (v *Variable) recomputeBounds() {
	lo := v.cachedMin.Get()
	for lo < v.n && !v.present.Test(lo) {
		lo++
	}
	v.cachedMin.Set(lo)
	hi := v.cachedMax.Get()
	for hi >= 0 && !v.present.Test(hi) {
		hi--
	}
	v.cachedMax.Set(hi)
}

// Remove removes value idx from an enumerated domain. Returns a
// *store.Contradiction if the domain becomes empty.
func (v *Variable) Remove(idx int) error {
	if v.Kind != Enumerated {
		panic("variable: Remove is only valid on enumerated domains")
	}
	if !v.present.Test(idx) {
		return nil // already absent: idempotent, no event
	}
	v.present.Clear(idx)
	v.size.Set(v.size.Get() - 1)
	if v.size.Get() == 0 {
		return store.NewContradiction("domain of %s emptied by removing %d", v.Name, idx)
	}
	if idx == v.cachedMin.Get() || idx == v.cachedMax.Get() {
		v.recomputeBounds()
	}
	if v.Assigned() {
		v.publish(EventAssign)
	} else {
		v.publish(EventRemove)
	}
	return nil
}

// Assign reduces an enumerated domain to {idx}, removing every other
// value. Returns a Contradiction if idx is not present.
func (v *Variable) Assign(idx int) error {
	if v.Kind != Enumerated {
		panic("variable: Assign is only valid on enumerated domains")
	}
	if !v.present.Test(idx) {
		return store.NewContradiction("cannot assign %s=%d: value not present", v.Name, idx)
	}
	if v.Assigned() {
		if v.cachedMin.Get() != idx {
			return store.NewContradiction("%s already assigned to a different value", v.Name)
		}
		return nil
	}
	for i := 0; i < v.n; i++ {
		if i != idx && v.present.Test(i) {
			v.present.Clear(i)
		}
	}
	v.size.Set(1)
	v.cachedMin.Set(idx)
	v.cachedMax.Set(idx)
	v.publish(EventAssign)
	return nil
}

// Increase raises the lower bound of an interval domain to lb (no-op if
// lb <= current inf). Returns a Contradiction if the domain becomes empty.
func (v *Variable) Increase(lb int64) error {
	if v.Kind != Interval {
		panic("variable: Increase is only valid on interval domains")
	}
	if lb <= v.inf.Get() {
		return nil
	}
	if lb > v.sup.Get() {
		return store.NewContradiction("interval domain of %s emptied by Increase(%d)", v.Name, lb)
	}
	v.inf.Set(lb)
	if v.Assigned() {
		v.publish(EventAssign)
	} else {
		v.publish(EventBound)
	}
	return nil
}

// Decrease lowers the upper bound of an interval domain to ub (no-op if
// ub >= current sup). Returns a Contradiction if the domain becomes empty.
func (v *Variable) Decrease(ub int64) error {
	if v.Kind != Interval {
		panic("variable: Decrease is only valid on interval domains")
	}
	if ub >= v.sup.Get() {
		return nil
	}
	if ub < v.inf.Get() {
		return store.NewContradiction("interval domain of %s emptied by Decrease(%d)", v.Name, ub)
	}
	v.sup.Set(ub)
	if v.Assigned() {
		v.publish(EventAssign)
	} else {
		v.publish(EventBound)
	}
	return nil
}

// Values calls f for every value still present in an enumerated domain, in
// increasing order.
func (v *Variable) Values(f func(idx int)) {
	for i := v.cachedMin.Get(); i <= v.cachedMax.Get(); i++ {
		if v.present.Test(i) {
			f(i)
		}
	}
}
