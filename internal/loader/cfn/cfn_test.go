package cfn

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toulbar2go/wcspsolve/internal/store"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

func TestLoadSymbolicDomainsAndBinaryCosts(t *testing.T) {
	src := `{
  "problem": {"name": "toy", "mustbe": "<1000"},
  "variables": {
    "v0": ["red", "green"],
    "v1": ["red", "green"]
  },
  "functions": {
    "f01": {"scope": ["v0", "v1"], "defaultcost": 0, "costs": [0, 5, 5, 0]}
  }
}`
	s := store.New()
	w := wcsp.New(s)
	require.NoError(t, Load(strings.NewReader(src), w, 0))
	require.Len(t, w.Vars, 2)
	assert.Equal(t, "red", w.DomainValueName(0, 0))
	require.Len(t, w.Funcs, 1)

	f := w.Funcs[0]
	assert.EqualValues(t, 5, f.Eval([]int{0, 1}), "Eval(v0=red,v1=green)")
	assert.EqualValues(t, 0, f.Eval([]int{0, 0}), "Eval(v0=red,v1=red)")
	assert.EqualValues(t, 1000, w.UB())
}

func TestLoadMaximizeDirectionFromMustBe(t *testing.T) {
	src := `{
  "problem": {"name": "toy", "mustbe": ">10"},
  "variables": {"v0": 2},
  "functions": {}
}`
	s := store.New()
	w := wcsp.New(s)
	require.NoError(t, Load(strings.NewReader(src), w, 0))
	assert.False(t, w.Minimize, "expected Minimize=false for a '>' mustbe bound")
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	s := store.New()
	w := wcsp.New(s)
	assert.Error(t, Load(strings.NewReader("not json"), w, 0))
}
