package solve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxSatHardSat(t *testing.T) {
	q := NewQuery()
	q.AssertHard(Pos("x"))
	q.AssertHard(Neg("y"))
	q.AssertHard(Pos("y"), Pos("z"))

	res, err := NewMaxSatSolver().Solve(q)
	require.NoError(t, err)
	assert.Equal(t, StatusSat, res.Status)
	assert.True(t, res.Model["x"])
	assert.False(t, res.Model["y"])
	assert.True(t, res.Model["z"])
	assert.Equal(t, 0, res.Objective.Sign())
}

func TestMaxSatHardUnsat(t *testing.T) {
	q := NewQuery()
	q.AssertHard(Pos("x"))
	q.AssertHard(Neg("x"))

	res, err := NewMaxSatSolver().Solve(q)
	require.NoError(t, err)
	assert.Equal(t, StatusUnsat, res.Status)
	assert.Nil(t, res.Model)
}

func TestMaxSatObjectiveIsViolatedWeight(t *testing.T) {
	// The hard clause forces x; the soft preference against x is
	// violated and must be billed at exactly its weight.
	q := NewQuery()
	q.AssertHard(Pos("x"))
	q.AssertSoft(big.NewRat(1, 2), Neg("x"))
	q.AssertSoft(big.NewRat(1, 3), Pos("x"))

	res, err := NewMaxSatSolver().Solve(q)
	require.NoError(t, err)
	require.Equal(t, StatusSat, res.Status)
	assert.Equal(t, 0, res.Objective.Cmp(big.NewRat(1, 2)))
}

func TestMaxSatPicksCheaperViolation(t *testing.T) {
	q := NewQuery()
	q.AssertSoft(big.NewRat(2, 3), Pos("x"))
	q.AssertSoft(big.NewRat(1, 4), Neg("x"))

	res, err := NewMaxSatSolver().Solve(q)
	require.NoError(t, err)
	require.Equal(t, StatusSat, res.Status)
	assert.True(t, res.Model["x"])
	assert.Equal(t, 0, res.Objective.Cmp(big.NewRat(1, 4)))
}

func TestSoftWeightRange(t *testing.T) {
	q := NewQuery()
	assert.Panics(t, func() { q.AssertSoft(big.NewRat(0, 1), Pos("x")) })
	assert.Panics(t, func() { q.AssertSoft(big.NewRat(-1, 2), Pos("x")) })
	assert.Panics(t, func() { q.AssertSoft(big.NewRat(101, 100), Pos("x")) })
	assert.NotPanics(t, func() { q.AssertSoft(big.NewRat(1, 1), Pos("x")) })
}

func TestGiniDecides(t *testing.T) {
	q := NewQuery()
	q.AssertHard(Pos("x"))
	q.AssertHard(Neg("x"), Pos("y"))

	res, err := NewGiniSolver().Solve(q)
	require.NoError(t, err)
	assert.Equal(t, StatusSat, res.Status)
	assert.True(t, res.Model["x"])
	assert.True(t, res.Model["y"])
	assert.Nil(t, res.Objective)

	q = NewQuery()
	q.AssertHard(Pos("x"))
	q.AssertHard(Neg("x"))
	res, err = NewGiniSolver().Solve(q)
	require.NoError(t, err)
	assert.Equal(t, StatusUnsat, res.Status)
}

func TestGiniRejectsSoftClauses(t *testing.T) {
	q := NewQuery()
	q.AssertHard(Pos("x"))
	q.AssertSoft(big.NewRat(1, 2), Neg("x"))

	_, err := NewGiniSolver().Solve(q)
	assert.ErrorIs(t, err, ErrNoOptimization)
}
