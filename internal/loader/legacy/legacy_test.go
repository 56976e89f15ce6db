package legacy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toulbar2go/wcspsolve/internal/store"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

// TestLoadTrivialUnary parses a single-variable problem with a unary
// cost function, the simplest seed scenario spec.md §8 describes.
func TestLoadTrivialUnary(t *testing.T) {
	src := `trivial 1 2 1 1000
2
1 0 0 2
0 5
1 3
`
	s := store.New()
	w := wcsp.New(s)
	require.NoError(t, Load(strings.NewReader(src), w, 0))
	w.ComputeDACOrder()
	require.NoError(t, w.NodeConsistency(0))
	assert.EqualValues(t, 1000, w.UB())
	// NC has moved the smaller unary cost (3) into lb, leaving 5-3 and 3-3.
	assert.EqualValues(t, 3, w.LB())
	assert.EqualValues(t, 2, w.Vars[0].UnaryCost(0))
	assert.EqualValues(t, 0, w.Vars[0].UnaryCost(1))
}

// TestLoadBinaryFunction parses a two-variable binary cost function and
// checks it is evaluated correctly.
func TestLoadBinaryFunction(t *testing.T) {
	src := `pair 2 2 1 100
2
2
2 0 1 0 3
0 0 4
0 1 1
1 0 2
1 1 0
`
	s := store.New()
	w := wcsp.New(s)
	require.NoError(t, Load(strings.NewReader(src), w, 0))
	require.Len(t, w.Funcs, 1)
	f := w.Funcs[0]
	assert.EqualValues(t, 4, f.Eval([]int{0, 0}))
	assert.EqualValues(t, 0, f.Eval([]int{1, 1}))
}

// TestLoadSharedFunction exercises the negative-arity/negative-numTuples
// shared-table back-reference, per original_source tb2reader.cpp.
func TestLoadSharedFunction(t *testing.T) {
	src := `shared 3 2 2 100
2
2
2
-2 0 1 0 2
0 0 1
1 1 1
2 1 2 0 -1
`
	s := store.New()
	w := wcsp.New(s)
	require.NoError(t, Load(strings.NewReader(src), w, 0))
	require.Len(t, w.Funcs, 2)
	for i, f := range w.Funcs {
		assert.EqualValuesf(t, 1, f.Eval([]int{0, 0}), "function %d reused from shared table", i)
	}
}

func TestLoadRejectsMalformedHeader(t *testing.T) {
	s := store.New()
	w := wcsp.New(s)
	assert.Error(t, Load(strings.NewReader("only one token"), w, 0))
}
