package wcsp

import "github.com/toulbar2go/wcspsolve/internal/cost"

// Builder is the contract every format-specific loader consumes (spec.md
// §6.1). WCSP implements it directly so loader/legacy, loader/cfn, etc.
// never need to know anything about reversibility, EPTs, or propagation —
// only "declare a variable", "declare a function", "declare the bound".
type Builder interface {
	SetName(name string)
	AddVariableDomain(name string, domain int) int
	AddDomainValue(varIdx int, value string)
	AddFunctionFromTuples(scope []int, defaultCost cost.Cost, tuples []Tuple) (int, error)
	AddConstant(c cost.Cost)
	SetTop(c cost.Cost)
	SetObjective(minimize bool)
	// DomainSize reports a previously-declared variable's domain size, for
	// loaders (e.g. loader/cfn) whose wire format stores a function's cost
	// vector flattened and needs to unflatten it without re-deriving sizes
	// on its own.
	DomainSize(varIdx int) int
}

// SetName sets the problem's display name.
func (w *WCSP) SetName(name string) { w.Name = name }

// AddVariableDomain adds a variable whose domain is `domain` values
// (enumerated) if domain > 0, or an interval [0, -domain-1] if domain < 0
// (spec.md §6, legacy format: "negative for interval").
func (w *WCSP) AddVariableDomain(name string, domain int) int {
	if domain < 0 {
		return w.AddIntervalVariable(name, 0, int64(-domain-1))
	}
	return w.AddVariable(name, domain)
}

// AddDomainValue records a symbolic name for value at varIdx (CFN format's
// named domains). The WCSP engine itself only ever works with integer
// indices; names are kept solely for I/O (internal/output).
func (w *WCSP) AddDomainValue(varIdx int, value string) {
	if w.domainNames == nil {
		w.domainNames = make(map[int][]string)
	}
	w.domainNames[varIdx] = append(w.domainNames[varIdx], value)
}

// DomainValueName returns the symbolic name of value idx for varIdx, or
// the decimal index itself if no names were registered.
func (w *WCSP) DomainValueName(varIdx, idx int) string {
	names := w.domainNames[varIdx]
	if idx >= 0 && idx < len(names) {
		return names[idx]
	}
	return ""
}

// AddConstant adds c to lb directly; used for arity-0 functions (spec.md
// §6: "Arity 0 encodes a constant added to lb").
func (w *WCSP) AddConstant(c cost.Cost) {
	w.lb.Set(w.lb.Get() + c)
}

// SetTop sets the upper bound (the user-supplied primal bound, UB flag or
// CFN `mustbe`).
func (w *WCSP) SetTop(c cost.Cost) {
	w.ub.Set(c)
}

// SetObjective records the optimization direction. Maximization problems
// (QPBO/OPB `-C` negation) are normalized to minimization by the loader
// before calling this. For CFN, the loader passes the `mustbe` direction
// but does not transform the costs, so a `mustbe >` problem is still
// minimized over its costs as given. It is recorded only for display.
func (w *WCSP) SetObjective(minimize bool) {
	w.Minimize = minimize
}

// AddFunctionFromTuples builds and registers a cost function of the
// appropriate representation for len(scope):
//   - arity 0: a constant, folded into lb directly.
//   - arity 1: folded into the variable's own unary-cost vector, since
//     spec.md §3 keeps unary costs on the variable, not as a standalone
//     function.
//   - arity 2/3: a dense BinaryTable/TernaryTable.
//   - arity >= 4: a sparse NaryTable.
//
// tuples lists only the entries that differ from defaultCost; scope gives
// the variable indices in order. Returns the new function's index in
// w.Funcs, or -1 for arities 0 and 1 (no function object is created).
func (w *WCSP) AddFunctionFromTuples(scope []int, defaultCost cost.Cost, tuples []Tuple) (int, error) {
	switch len(scope) {
	case 0:
		if len(tuples) > 0 {
			w.AddConstant(tuples[0].Cost)
		} else {
			w.AddConstant(defaultCost)
		}
		return -1, nil
	case 1:
		w.foldUnary(scope[0], defaultCost, tuples)
		return -1, nil
	case 2:
		return w.AddFunction(w.buildBinary(scope, defaultCost, tuples)), nil
	case 3:
		return w.AddFunction(w.buildTernary(scope, defaultCost, tuples)), nil
	default:
		return w.AddFunction(NewNaryTable(w.Store, functionName(scope), scope, w.scopeSizes(scope), defaultCost, tuples)), nil
	}
}

func functionName(scope []int) string {
	if len(scope) == 0 {
		return "const"
	}
	name := "f"
	for _, v := range scope {
		name += "_" + itoa(v)
	}
	return name
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// DomainSize reports varIdx's initial domain size.
func (w *WCSP) DomainSize(varIdx int) int {
	return w.Vars[varIdx].InitialSize()
}

func (w *WCSP) scopeSizes(scope []int) []int {
	sizes := make([]int, len(scope))
	for i, v := range scope {
		sizes[i] = w.Vars[v].InitialSize()
	}
	return sizes
}

func (w *WCSP) foldUnary(v int, defaultCost cost.Cost, tuples []Tuple) {
	vv := w.Vars[v]
	n := vv.InitialSize()
	costs := make([]cost.Cost, n)
	for i := range costs {
		costs[i] = defaultCost
	}
	for _, t := range tuples {
		costs[t.Values[0]] = t.Cost
	}
	for idx, c := range costs {
		if c != 0 {
			vv.AddUnaryCost(idx, c)
		}
	}
}

func (w *WCSP) buildBinary(scope []int, defaultCost cost.Cost, tuples []Tuple) *BinaryTable {
	size0 := w.Vars[scope[0]].InitialSize()
	size1 := w.Vars[scope[1]].InitialSize()
	costs := make([]cost.Cost, size0*size1)
	for i := range costs {
		costs[i] = defaultCost
	}
	for _, t := range tuples {
		costs[t.Values[0]*size1+t.Values[1]] = t.Cost
	}
	return NewBinaryTable(w.Store, functionName(scope), scope[0], scope[1], size0, size1, costs)
}

func (w *WCSP) buildTernary(scope []int, defaultCost cost.Cost, tuples []Tuple) *TernaryTable {
	size0 := w.Vars[scope[0]].InitialSize()
	size1 := w.Vars[scope[1]].InitialSize()
	size2 := w.Vars[scope[2]].InitialSize()
	costs := make([]cost.Cost, size0*size1*size2)
	for i := range costs {
		costs[i] = defaultCost
	}
	for _, t := range tuples {
		idx := (t.Values[0]*size1+t.Values[1])*size2 + t.Values[2]
		costs[idx] = t.Cost
	}
	return NewTernaryTable(w.Store, functionName(scope), scope[0], scope[1], scope[2], size0, size1, size2, costs)
}
