package observations

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bninfer/infer"
	"bninfer/network"
	"bninfer/solve"
)

func TestParseTable(t *testing.T) {
	ds, err := Parse(strings.NewReader(`ID,a,b,c
obs_1,0,1,1
obs_2,1,*,ND
obs_3,?,,0
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ds.Components)
	assert.Equal(t, []string{"obs_1", "obs_2", "obs_3"}, ds.IDs())

	assert.Equal(t, map[string]bool{"a": false, "b": true, "c": true}, ds.Observations["obs_1"].Values)
	assert.Equal(t, map[string]bool{"a": true}, ds.Observations["obs_2"].Values)
	assert.Equal(t, map[string]bool{"c": false}, ds.Observations["obs_3"].Values)
}

func TestParseDuplicateIDReplaces(t *testing.T) {
	ds, err := Parse(strings.NewReader("ID,a\nobs,0\nobs,1\n"))
	require.NoError(t, err)
	require.Len(t, ds.Observations, 1)
	assert.Equal(t, map[string]bool{"a": true}, ds.Observations["obs"].Values)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		row   int
		value string
	}{
		{"missing header", "", 1, ""},
		{"column mismatch", "ID,a,b\nobs,1\n", 2, ""},
		{"bad cell", "ID,a,b\nobs,1,up\n", 2, "up"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.row, perr.Row)
			assert.Equal(t, tt.value, perr.Value)
		})
	}
}

func TestSpecsValidation(t *testing.T) {
	m, err := network.Parse("$a: true")
	require.NoError(t, err)

	ds, err := Parse(strings.NewReader("ID,a\nobs,1\n"))
	require.NoError(t, err)

	_, err = ds.Specs(m, big.NewRat(0, 1))
	assert.Error(t, err)
	_, err = ds.Specs(m, big.NewRat(3, 2))
	assert.Error(t, err)

	specs, err := ds.Specs(m, big.NewRat(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, specs["obs"].Len())

	unknown, err := Parse(strings.NewReader("ID,z\nobs,1\n"))
	require.NoError(t, err)
	_, err = unknown.Specs(m, big.NewRat(1, 2))
	assert.ErrorContains(t, err, `"z"`)
}

// The testdata network has exactly the fixed points 0000, 0100 and 1111
// over (v1, v2, v3, v4). The two observations sit at distance one from
// 0100 and 0000 respectively, so with a uniform confidence of 1/2 the
// optimum matches each to its neighbor at a total cost of 1.
func TestProblemEndToEnd(t *testing.T) {
	m, err := network.ParseFile("testdata/model_4v.aeon")
	require.NoError(t, err)

	ds, err := Load("testdata/observations_4v.csv")
	require.NoError(t, err)
	require.Equal(t, []string{"fp_1", "fp_2"}, ds.IDs())

	problem, err := ds.Problem(m, big.NewRat(1, 2))
	require.NoError(t, err)

	res, err := solve.NewMaxSatSolver().Solve(problem.BuildQuery())
	require.NoError(t, err)
	require.Equal(t, solve.StatusSat, res.Status)
	assert.Equal(t, 0, res.Objective.Cmp(big.NewRat(1, 1)))

	assert.Equal(t, map[string]bool{"v1": false, "v2": true, "v3": false, "v4": false},
		stateByName(t, m, problem.State("fp_1"), res.Model))
	assert.Equal(t, map[string]bool{"v1": false, "v2": false, "v3": false, "v4": false},
		stateByName(t, m, problem.State("fp_2"), res.Model))
}

func stateByName(t *testing.T, m *network.Model, s *infer.SymbolicState, model solve.Model) map[string]bool {
	t.Helper()
	values, err := s.ExtractState(model)
	require.NoError(t, err)
	out := make(map[string]bool, len(values))
	for id, v := range values {
		out[m.ComponentName(network.ComponentID(id))] = v
	}
	return out
}
