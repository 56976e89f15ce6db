package wcsp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/store"
)

// naryProjectionThreshold is the unassigned-variable count at or below
// which ShouldAutoProject reports a nary function as worth projecting down
// to a dense table (spec.md §4.4: "nary projection size threshold is a
// small integer, typically 3"). The propagation engine does not call
// ShouldAutoProject and never performs that projection.
const naryProjectionThreshold = 3

// NaryTable is a sparse arity->=4 cost function: an explicit tuple list
// plus a default cost, with a reversible per-dimension EPT delta vector
// (spec.md §4.4). Grounded on the teacher's PBConstr parallel-array style
// (solver.PBConstr.Lits/Weights, solver/pb.go) generalized from a single
// weight per literal to a cost table too large to store densely.
type NaryTable struct {
	scope       []int
	sizes       domainSizes
	defaultCost *store.Int64
	tuples      map[string]*store.Int64 // explicit overrides, keyed by encodeTuple
	delta       [][]*store.Int64        // delta[pos][value], one per dimension
	connected   *store.Bool
	name        string
}

// Tuple pairs an explicit assignment with its (pre-EPT) cost, used only at
// construction time.
type Tuple struct {
	Values []int
	Cost   cost.Cost
}

func encodeTuple(tuple []int) string {
	var b strings.Builder
	for i, v := range tuple {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// NewNaryTable builds a sparse nary cost function. sizes gives the initial
// domain size of each scope position; explicit lists costs for the tuples
// that differ from defaultCost.
func NewNaryTable(s *store.Store, name string, scope []int, sizes []int, defaultCost cost.Cost, explicit []Tuple) *NaryTable {
	if len(scope) != len(sizes) {
		panic("wcsp: nary scope/sizes length mismatch")
	}
	f := &NaryTable{
		scope:       append([]int(nil), scope...),
		sizes:       append(domainSizes(nil), sizes...),
		defaultCost: store.NewInt64(s, defaultCost),
		tuples:      make(map[string]*store.Int64, len(explicit)),
		connected:   store.NewBool(s, true),
		name:        name,
	}
	f.delta = make([][]*store.Int64, len(scope))
	for i, sz := range sizes {
		f.delta[i] = make([]*store.Int64, sz)
		for v := 0; v < sz; v++ {
			f.delta[i][v] = store.NewInt64(s, 0)
		}
	}
	for _, t := range explicit {
		f.tuples[encodeTuple(t.Values)] = store.NewInt64(s, t.Cost)
	}
	return f
}

func (f *NaryTable) Arity() int      { return len(f.scope) }
func (f *NaryTable) Scope() []int    { return f.scope }
func (f *NaryTable) Name() string    { return f.name }
func (f *NaryTable) Connected() bool { return f.connected.Get() }
func (f *NaryTable) Deconnect()      { f.connected.Set(false) }

func (f *NaryTable) base(tuple []int) cost.Cost {
	if cell, ok := f.tuples[encodeTuple(tuple)]; ok {
		return cell.Get()
	}
	return f.defaultCost.Get()
}

// Eval returns base(tuple) + sum of per-dimension deltas.
func (f *NaryTable) Eval(tuple []int) cost.Cost {
	c := f.base(tuple)
	for i, v := range tuple {
		c += f.delta[i][v].Get()
	}
	return c
}

// FirstLex returns the lexicographically smallest tuple respecting the
// `live` predicate (scope position, value) -> still present, or nil if no
// such tuple exists.
func (f *NaryTable) FirstLex(live func(pos, val int) bool) []int {
	tuple := make([]int, len(f.scope))
	for i := range tuple {
		v := 0
		for v < f.sizes[i] && live != nil && !live(i, v) {
			v++
		}
		if v == f.sizes[i] {
			return nil
		}
		tuple[i] = v
	}
	return tuple
}

// NextLex advances tuple to the next lexicographically larger tuple
// respecting `live`, or returns nil when tuple was the last one.
func (f *NaryTable) NextLex(tuple []int, live func(pos, val int) bool) []int {
	next := append([]int(nil), tuple...)
	for i := len(next) - 1; i >= 0; i-- {
		v := next[i] + 1
		for v < f.sizes[i] && live != nil && !live(i, v) {
			v++
		}
		if v < f.sizes[i] {
			next[i] = v
			for j := i + 1; j < len(next); j++ {
				vv := 0
				for vv < f.sizes[j] && live != nil && !live(j, vv) {
					vv++
				}
				if vv == f.sizes[j] {
					return f.NextLex(next, live) // position j has no live value at all in this subtree: skip forward
				}
				next[j] = vv
			}
			return next
		}
	}
	return nil
}

// forEachTuple enumerates every live tuple with scope[pos]==value,
// calling f for each.
func (f *NaryTable) forEachTuple(pos, value int, live func(int, int) bool, fn func(tuple []int)) {
	pin := func(p, v int) bool {
		if p == pos {
			return v == value
		}
		if live != nil {
			return live(p, v)
		}
		return true
	}
	tuple := f.FirstLex(pin)
	for tuple != nil {
		fn(tuple)
		tuple = f.NextLex(tuple, pin)
	}
}

func (f *NaryTable) MinCost(pos, value int, live func(int, int) bool) cost.Cost {
	min := cost.Cost(-1)
	f.forEachTuple(pos, value, live, func(tuple []int) {
		c := f.Eval(tuple)
		if min == -1 || c < min {
			min = c
		}
	})
	if min == -1 {
		return 0
	}
	return min
}

func (f *NaryTable) SupportOf(pos, value int, live func(int, int) bool) []int {
	var best []int
	var bestCost cost.Cost = -1
	f.forEachTuple(pos, value, live, func(tuple []int) {
		c := f.Eval(tuple)
		if bestCost == -1 || c < bestCost {
			bestCost = c
			best = append([]int(nil), tuple...)
		}
	})
	return best
}

// Dominates checks, for every live tuple with scope[pos] fixed, whether the
// cost at value b never exceeds the cost at value a, by walking both
// substitutions of the same "other positions" tuple in lockstep.
func (f *NaryTable) Dominates(pos, a, b int, live func(int, int) bool) bool {
	dominates := true
	f.forEachTuple(pos, a, live, func(tuple []int) {
		other := append([]int(nil), tuple...)
		other[pos] = b
		if f.Eval(other) > f.Eval(tuple) {
			dominates = false
		}
	})
	return dominates
}

func (f *NaryTable) MinCostOverall() cost.Cost {
	min := cost.Cost(-1)
	tuple := f.FirstLex(nil)
	for tuple != nil {
		c := f.Eval(tuple)
		if min == -1 || c < min {
			min = c
		}
		tuple = f.NextLex(tuple, nil)
	}
	if min == -1 {
		return 0
	}
	return min
}

// AddDelta shifts delta[pos][value]; this is O(1), the whole point of
// keeping a per-dimension delta vector instead of touching every explicit
// tuple (spec.md §4.4). The panic check compares only the new delta with
// the default cost: explicit tuples and the other positions' deltas are not
// inspected, so an entry can go negative without a panic.
func (f *NaryTable) AddDelta(pos, value int, delta cost.Cost) {
	cell := f.delta[pos][value]
	nv := cell.Get() + delta
	if nv < -f.defaultCost.Get() {
		// Only a genuine propagator bug can request more than is available.
		panic(fmt.Sprintf("wcsp: AddDelta on %s would drive an entry negative", f.name))
	}
	cell.Set(nv)
}

// Project0 subtracts delta from every tuple: explicit tuples have delta
// subtracted from their stored cost, and the default drops by delta for
// every implicit tuple.
func (f *NaryTable) Project0(delta cost.Cost) {
	if f.defaultCost.Get() < delta {
		panic(fmt.Sprintf("wcsp: Project0 on %s would drive the default cost negative", f.name))
	}
	f.defaultCost.Set(f.defaultCost.Get() - delta)
	for _, cell := range f.tuples {
		nv := cell.Get() - delta
		if nv < 0 {
			panic(fmt.Sprintf("wcsp: Project0 on %s would drive an explicit tuple negative", f.name))
		}
		cell.Set(nv)
	}
}

// ShouldAutoProject reports whether this nary function has few enough
// unassigned scope variables left to be worth projecting down to a dense
// lower-arity table (spec.md §4.4).
func (f *NaryTable) ShouldAutoProject(unassigned int) bool {
	return unassigned <= naryProjectionThreshold
}
