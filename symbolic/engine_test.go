package symbolic

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bninfer/network"
)

func makeEngine(t *testing.T, input string) (*network.Model, *Engine) {
	t.Helper()
	m, err := network.Parse(input)
	require.NoError(t, err)
	e, err := NewEngine(m)
	require.NoError(t, err)
	return m, e
}

func state(m *network.Model, values map[string]bool) map[network.ComponentID]bool {
	out := map[network.ComponentID]bool{}
	for name, v := range values {
		comp, ok := m.FindComponent(name)
		if !ok {
			panic(name)
		}
		out[comp] = v
	}
	return out
}

func TestEngineRejectsBadNetworks(t *testing.T) {
	empty, err := network.Parse("")
	require.NoError(t, err)
	_, err = NewEngine(empty)
	assert.Error(t, err)

	anonymous, err := network.Parse("a -> b\n$a: true")
	require.NoError(t, err)
	_, err = NewEngine(anonymous)
	assert.ErrorContains(t, err, "unnamed")
}

// A fully specified network carries exactly one color; queries reduce to
// checking which states are fixed points.
func TestEngineFullySpecified(t *testing.T) {
	m, e := makeEngine(t, `
$a: false
$b: true
$c: a & b
a -?? c
b -?? c
`)
	all := e.AllColors()
	assert.False(t, e.IsEmpty(all))
	assert.Equal(t, 0, e.ColorCount(all).Cmp(big.NewInt(1)))

	fixed := e.ColorsMatching(state(m, map[string]bool{"a": false, "b": true, "c": false}))
	assert.False(t, e.IsEmpty(fixed))

	notFixed := e.ColorsMatching(state(m, map[string]bool{"a": true, "b": true, "c": false}))
	assert.True(t, e.IsEmpty(notFixed))
}

func TestEngineTwoFixedPoints(t *testing.T) {
	m, e := makeEngine(t, `
$a: a
$b: true
$c: a & b
a -?? a
a -?? c
b -?? c
`)
	low := e.ColorsMatching(state(m, map[string]bool{"a": false, "b": true, "c": false}))
	high := e.ColorsMatching(state(m, map[string]bool{"a": true, "b": true, "c": true}))
	assert.False(t, e.IsEmpty(low))
	assert.False(t, e.IsEmpty(high))
	// Both fixed points exist under the network's single color.
	assert.False(t, e.IsEmpty(e.Intersect(low, high)))
}

// With observable activating edges, the only interpretations left for f
// are conjunction and disjunction. Pinning the target value at the fixed
// point separates the two.
func TestEnginePartiallySpecified(t *testing.T) {
	m, e := makeEngine(t, `
$a: false
$b: true
$c: f(a, b)
a -> c
b -> c
`)
	all := e.AllColors()
	assert.Equal(t, 0, e.ColorCount(all).Cmp(big.NewInt(2)))

	conj := e.ColorsMatching(state(m, map[string]bool{"c": false}))
	disj := e.ColorsMatching(state(m, map[string]bool{"c": true}))
	assert.Equal(t, 0, e.ColorCount(conj).Cmp(big.NewInt(1)))
	assert.Equal(t, 0, e.ColorCount(disj).Cmp(big.NewInt(1)))
	assert.True(t, e.IsEmpty(e.Intersect(conj, disj)))
}

func TestEngineUnknownSignDoesNotConstrain(t *testing.T) {
	_, e := makeEngine(t, `
$a: false
$b: true
$c: f(a, b)
a -?? c
b -?? c
`)
	// Sixteen truth tables over two arguments, no requirement trims them.
	assert.Equal(t, 0, e.ColorCount(e.AllColors()).Cmp(big.NewInt(16)))
}
