package symbolic

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bninfer/network"
	"bninfer/observations"
)

func TestNaiveSearchPerfectFit(t *testing.T) {
	m, err := network.ParseFile("testdata/model_4v.aeon")
	require.NoError(t, err)
	ds, err := observations.Parse(strings.NewReader("ID,v1,v2,v3,v4\nok,0,1,0,0\n"))
	require.NoError(t, err)

	search, err := NewNaiveSearch(m, ds)
	require.NoError(t, err)

	results := search.Run()
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Dropped)
	assert.Equal(t, 0, results[0].Count.Cmp(big.NewInt(1)))
}

// The two testdata observations each sit at distance one from a distinct
// fixed point, so the unique minimal relaxation drops one entry of each.
func TestNaiveSearchMinimalRelaxation(t *testing.T) {
	m, err := network.ParseFile("testdata/model_4v.aeon")
	require.NoError(t, err)
	ds, err := observations.Load("testdata/observations_4v.csv")
	require.NoError(t, err)

	search, err := NewNaiveSearch(m, ds)
	require.NoError(t, err)
	require.Len(t, search.Entries(), 8)

	results := search.Run()
	require.Len(t, results, 1)
	assert.Equal(t, []Entry{
		{Observation: "fp_1", Component: "v3"},
		{Observation: "fp_2", Component: "v4"},
	}, results[0].Dropped)
	assert.Equal(t, 0, results[0].Count.Cmp(big.NewInt(1)))
	assert.False(t, search.Engine().IsEmpty(results[0].Colors))
}

func TestNaiveSearchUnknownComponent(t *testing.T) {
	m, err := network.Parse("$a: true")
	require.NoError(t, err)
	ds, err := observations.Parse(strings.NewReader("ID,z\nobs,1\n"))
	require.NoError(t, err)

	_, err = NewNaiveSearch(m, ds)
	assert.ErrorContains(t, err, `"z"`)
}

func TestNaiveSearchNoFixedPointAtAll(t *testing.T) {
	// a negates itself, so no state is a fixed point under the single
	// color of this network.
	m, err := network.Parse("$a: !a\na -?? a")
	require.NoError(t, err)
	ds, err := observations.Parse(strings.NewReader("ID,a\nobs,1\n"))
	require.NoError(t, err)

	search, err := NewNaiveSearch(m, ds)
	require.NoError(t, err)
	assert.Nil(t, search.Run())
}

func TestCombinations(t *testing.T) {
	var seen [][]int
	forEachCombination(4, 2, func(comb []int) {
		seen = append(seen, append([]int(nil), comb...))
	})
	assert.Equal(t, [][]int{
		{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
	}, seen)
}
