package search

// varHeap is a binary min-heap over variable indices ordered by an
// externally supplied score (lowest score popped first), generalizing the
// teacher's VSIDS activity heap (solver/queue.go: percolateUp/percolateDown
// over "highest activity first") to the dom/wdeg variable-ordering
// heuristic's "lowest domain-size-over-weighted-degree first" (spec.md
// §4.7).
type varHeap struct {
	score   func(v int) float64
	content []int
	indices []int // indices[v] = position of v in content, or -1
}

func newVarHeap(n int, score func(v int) float64) *varHeap {
	h := &varHeap{score: score, indices: make([]int, n)}
	for i := range h.indices {
		h.indices[i] = -1
	}
	return h
}

func (h *varHeap) lt(i, j int) bool { return h.score(i) < h.score(j) }

func heapLeft(i int) int   { return i*2 + 1 }
func heapRight(i int) int  { return (i + 1) * 2 }
func heapParent(i int) int { return (i - 1) >> 1 }

func (h *varHeap) percolateUp(i int) {
	x := h.content[i]
	p := heapParent(i)
	for i != 0 && h.lt(x, h.content[p]) {
		h.content[i] = h.content[p]
		h.indices[h.content[p]] = i
		i = p
		p = heapParent(p)
	}
	h.content[i] = x
	h.indices[x] = i
}

func (h *varHeap) percolateDown(i int) {
	x := h.content[i]
	for heapLeft(i) < len(h.content) {
		child := heapLeft(i)
		if heapRight(i) < len(h.content) && h.lt(h.content[heapRight(i)], h.content[heapLeft(i)]) {
			child = heapRight(i)
		}
		if !h.lt(h.content[child], x) {
			break
		}
		h.content[i] = h.content[child]
		h.indices[h.content[i]] = i
		i = child
	}
	h.content[i] = x
	h.indices[x] = i
}

func (h *varHeap) empty() bool { return len(h.content) == 0 }

func (h *varHeap) removeMin() int {
	x := h.content[0]
	last := len(h.content) - 1
	h.content[0] = h.content[last]
	h.indices[h.content[0]] = 0
	h.indices[x] = -1
	h.content = h.content[:last]
	if len(h.content) > 1 {
		h.percolateDown(0)
	}
	return x
}

// build rebuilds the heap from scratch over ns. Called once per search
// node rather than maintained incrementally across backtracking, since
// dom/wdeg scores shift with every EPT and a removed variable must be free
// to reappear once the store restores its domain — the same rebuild-from-
// scratch idiom as the teacher's rebuildOrderHeap (solver/solver.go),
// generalized from "once after learning a unit clause" to "once per node".
func (h *varHeap) build(ns []int) {
	for _, v := range h.content {
		h.indices[v] = -1
	}
	h.content = h.content[:0]
	for i, v := range ns {
		h.indices[v] = i
		h.content = append(h.content, v)
	}
	for i := len(h.content)/2 - 1; i >= 0; i-- {
		h.percolateDown(i)
	}
}
