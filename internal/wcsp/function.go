package wcsp

import (
	"fmt"

	"github.com/toulbar2go/wcspsolve/internal/cost"
	"github.com/toulbar2go/wcspsolve/internal/store"
)

// CostFunction is the polymorphic contract every arity/representation
// implements (spec.md §4.4). The core never looks past this interface, so
// intensional global cost functions (alldiff, gcc, regular, knapsack...)
// can be added later without touching propagation or search (design
// note §9, "Intensional global cost functions").
type CostFunction interface {
	// Arity returns the number of variables in scope.
	Arity() int
	// Scope returns the ordered list of variable indices.
	Scope() []int
	// Eval returns the effective cost of a full tuple over Scope(),
	// including all accumulated EPT deltas.
	Eval(tuple []int) cost.Cost
	// MinCost returns the minimum effective cost over all tuples with
	// Scope()[pos] fixed to value, restricted to values still present in
	// every other scope variable (the `live` callback reports presence).
	MinCost(pos, value int, live func(scopePos, val int) bool) cost.Cost
	// SupportOf returns one tuple witnessing MinCost(pos, value, live).
	SupportOf(pos, value int, live func(scopePos, val int) bool) []int
	// MinCostOverall returns the minimum effective cost over every tuple
	// of the function (used by Project0).
	MinCostOverall() cost.Cost
	// AddDelta applies an EPT shift of `delta` (possibly negative) to
	// every tuple with Scope()[pos] == value. Never lets any entry go
	// negative; panics if asked to (a propagator bug, not a runtime
	// condition).
	AddDelta(pos, value int, delta cost.Cost)
	// Project0 subtracts delta from every tuple unconditionally (delta
	// must be <= MinCostOverall()).
	Project0(delta cost.Cost)
	// Dominates reports whether, for every live tuple with Scope()[pos] fixed
	// to a or b, the cost at b never exceeds the cost at a — i.e. swapping a
	// for b can never make this function's contribution worse. Used by dead-
	// end elimination to discard a once the same holds for every incident
	// function and b's unary cost is no higher.
	Dominates(pos, a, b int, live func(scopePos, val int) bool) bool
	// Connected reports whether the function is still part of the active
	// network (spec.md §3 "Connection state").
	Connected() bool
	// Deconnect marks the function inactive, reversibly.
	Deconnect()
	// Name is a human-readable label for dumps/debugging.
	Name() string
}

// domainSizes describes the arity-k scope's initial domain sizes, needed
// to flatten a tuple into a table index.
type domainSizes []int

func tupleIndex(sizes domainSizes, tuple []int) int {
	idx := 0
	for i, sz := range sizes {
		idx = idx*sz + tuple[i]
	}
	return idx
}

// BinaryTable is a dense arity-2 cost function, grounded on the teacher's
// flat-array clause storage (solver.Clause.lits []Lit) generalized from a
// list of literals to a 2-D cost table flattened into one slice.
type BinaryTable struct {
	scope     [2]int
	sizes     domainSizes
	costs     []*store.Int64 // flattened, size0*size1
	connected *store.Bool
	name      string
}

// NewBinaryTable builds a binary cost function over vars (v0,v1) with the
// given flattened cost table (row-major, v0 major).
func NewBinaryTable(s *store.Store, name string, v0, v1, size0, size1 int, costs []cost.Cost) *BinaryTable {
	if len(costs) != size0*size1 {
		panic("wcsp: binary table size mismatch")
	}
	rc := make([]*store.Int64, len(costs))
	for i, c := range costs {
		rc[i] = store.NewInt64(s, c)
	}
	return &BinaryTable{
		scope:     [2]int{v0, v1},
		sizes:     domainSizes{size0, size1},
		costs:     rc,
		connected: store.NewBool(s, true),
		name:      name,
	}
}

func (f *BinaryTable) Arity() int    { return 2 }
func (f *BinaryTable) Scope() []int  { return f.scope[:] }
func (f *BinaryTable) Name() string  { return f.name }
func (f *BinaryTable) Connected() bool { return f.connected.Get() }
func (f *BinaryTable) Deconnect()    { f.connected.Set(false) }

func (f *BinaryTable) at(tuple []int) *store.Int64 {
	return f.costs[tupleIndex(f.sizes, tuple)]
}

func (f *BinaryTable) Eval(tuple []int) cost.Cost {
	return f.at(tuple).Get()
}

func (f *BinaryTable) MinCost(pos, value int, live func(int, int) bool) cost.Cost {
	other := 1 - pos
	min := cost.Cost(-1)
	for v := 0; v < f.sizes[other]; v++ {
		if live != nil && !live(other, v) {
			continue
		}
		tuple := make([]int, 2)
		tuple[pos] = value
		tuple[other] = v
		c := f.at(tuple).Get()
		if min == -1 || c < min {
			min = c
		}
	}
	if min == -1 {
		return 0
	}
	return min
}

func (f *BinaryTable) SupportOf(pos, value int, live func(int, int) bool) []int {
	other := 1 - pos
	var best []int
	var bestCost cost.Cost = -1
	for v := 0; v < f.sizes[other]; v++ {
		if live != nil && !live(other, v) {
			continue
		}
		tuple := make([]int, 2)
		tuple[pos] = value
		tuple[other] = v
		c := f.at(tuple).Get()
		if bestCost == -1 || c < bestCost {
			bestCost = c
			best = tuple
		}
	}
	return best
}

func (f *BinaryTable) Dominates(pos, a, b int, live func(int, int) bool) bool {
	other := 1 - pos
	ta := make([]int, 2)
	tb := make([]int, 2)
	ta[pos], tb[pos] = a, b
	for v := 0; v < f.sizes[other]; v++ {
		if live != nil && !live(other, v) {
			continue
		}
		ta[other], tb[other] = v, v
		if f.at(tb).Get() > f.at(ta).Get() {
			return false
		}
	}
	return true
}

func (f *BinaryTable) MinCostOverall() cost.Cost {
	min := cost.Cost(-1)
	for _, c := range f.costs {
		v := c.Get()
		if min == -1 || v < min {
			min = v
		}
	}
	if min == -1 {
		return 0
	}
	return min
}

func (f *BinaryTable) AddDelta(pos, value int, delta cost.Cost) {
	other := 1 - pos
	for v := 0; v < f.sizes[other]; v++ {
		tuple := make([]int, 2)
		tuple[pos] = value
		tuple[other] = v
		cell := f.at(tuple)
		nv := cell.Get() + delta
		if nv < 0 {
			panic(fmt.Sprintf("wcsp: AddDelta on %s would make an entry negative", f.name))
		}
		cell.Set(nv)
	}
}

func (f *BinaryTable) Project0(delta cost.Cost) {
	for _, c := range f.costs {
		nv := c.Get() - delta
		if nv < 0 {
			panic(fmt.Sprintf("wcsp: Project0 on %s would make an entry negative", f.name))
		}
		c.Set(nv)
	}
}

// TernaryTable is the arity-3 analogue of BinaryTable.
type TernaryTable struct {
	scope     [3]int
	sizes     domainSizes
	costs     []*store.Int64
	connected *store.Bool
	name      string
}

// NewTernaryTable builds a ternary cost function over (v0,v1,v2).
func NewTernaryTable(s *store.Store, name string, v0, v1, v2, size0, size1, size2 int, costs []cost.Cost) *TernaryTable {
	if len(costs) != size0*size1*size2 {
		panic("wcsp: ternary table size mismatch")
	}
	rc := make([]*store.Int64, len(costs))
	for i, c := range costs {
		rc[i] = store.NewInt64(s, c)
	}
	return &TernaryTable{
		scope:     [3]int{v0, v1, v2},
		sizes:     domainSizes{size0, size1, size2},
		costs:     rc,
		connected: store.NewBool(s, true),
		name:      name,
	}
}

func (f *TernaryTable) Arity() int    { return 3 }
func (f *TernaryTable) Scope() []int  { return f.scope[:] }
func (f *TernaryTable) Name() string  { return f.name }
func (f *TernaryTable) Connected() bool { return f.connected.Get() }
func (f *TernaryTable) Deconnect()    { f.connected.Set(false) }

func (f *TernaryTable) at(tuple []int) *store.Int64 {
	return f.costs[tupleIndex(f.sizes, tuple)]
}

func (f *TernaryTable) Eval(tuple []int) cost.Cost {
	return f.at(tuple).Get()
}

// otherPositions3 returns the two scope positions other than pos.
func otherPositions3(pos int) (a, b int) {
	switch pos {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

func (f *TernaryTable) MinCost(pos, value int, live func(int, int) bool) cost.Cost {
	a, b := otherPositions3(pos)
	min := cost.Cost(-1)
	tuple := make([]int, 3)
	tuple[pos] = value
	for va := 0; va < f.sizes[a]; va++ {
		if live != nil && !live(a, va) {
			continue
		}
		tuple[a] = va
		for vb := 0; vb < f.sizes[b]; vb++ {
			if live != nil && !live(b, vb) {
				continue
			}
			tuple[b] = vb
			c := f.at(tuple).Get()
			if min == -1 || c < min {
				min = c
			}
		}
	}
	if min == -1 {
		return 0
	}
	return min
}

func (f *TernaryTable) SupportOf(pos, value int, live func(int, int) bool) []int {
	a, b := otherPositions3(pos)
	var best []int
	var bestCost cost.Cost = -1
	tuple := make([]int, 3)
	tuple[pos] = value
	for va := 0; va < f.sizes[a]; va++ {
		if live != nil && !live(a, va) {
			continue
		}
		tuple[a] = va
		for vb := 0; vb < f.sizes[b]; vb++ {
			if live != nil && !live(b, vb) {
				continue
			}
			tuple[b] = vb
			c := f.at(tuple).Get()
			if bestCost == -1 || c < bestCost {
				bestCost = c
				cp := make([]int, 3)
				copy(cp, tuple)
				best = cp
			}
		}
	}
	return best
}

func (f *TernaryTable) Dominates(pos, a, b int, live func(int, int) bool) bool {
	x, y := otherPositions3(pos)
	ta := make([]int, 3)
	tb := make([]int, 3)
	ta[pos], tb[pos] = a, b
	for vx := 0; vx < f.sizes[x]; vx++ {
		if live != nil && !live(x, vx) {
			continue
		}
		ta[x], tb[x] = vx, vx
		for vy := 0; vy < f.sizes[y]; vy++ {
			if live != nil && !live(y, vy) {
				continue
			}
			ta[y], tb[y] = vy, vy
			if f.at(tb).Get() > f.at(ta).Get() {
				return false
			}
		}
	}
	return true
}

func (f *TernaryTable) MinCostOverall() cost.Cost {
	min := cost.Cost(-1)
	for _, c := range f.costs {
		v := c.Get()
		if min == -1 || v < min {
			min = v
		}
	}
	if min == -1 {
		return 0
	}
	return min
}

func (f *TernaryTable) AddDelta(pos, value int, delta cost.Cost) {
	a, b := otherPositions3(pos)
	tuple := make([]int, 3)
	tuple[pos] = value
	for va := 0; va < f.sizes[a]; va++ {
		tuple[a] = va
		for vb := 0; vb < f.sizes[b]; vb++ {
			tuple[b] = vb
			cell := f.at(tuple)
			nv := cell.Get() + delta
			if nv < 0 {
				panic(fmt.Sprintf("wcsp: AddDelta on %s would make an entry negative", f.name))
			}
			cell.Set(nv)
		}
	}
}

func (f *TernaryTable) Project0(delta cost.Cost) {
	for _, c := range f.costs {
		nv := c.Get() - delta
		if nv < 0 {
			panic(fmt.Sprintf("wcsp: Project0 on %s would make an entry negative", f.name))
		}
		c.Set(nv)
	}
}
