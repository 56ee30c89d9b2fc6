package solve

import (
	"errors"

	"github.com/irifrance/gini"
	"github.com/irifrance/gini/z"
)

// ErrNoOptimization is returned when a decision-only backend receives a
// query with soft clauses.
var ErrNoOptimization = errors.New("solve: backend cannot optimize soft clauses")

// GiniSolver decides queries with the gini SAT solver. It handles hard
// clauses only; queries carrying soft clauses are rejected rather than
// silently stripped of their weights.
type GiniSolver struct{}

// NewGiniSolver returns the decision-only backend.
func NewGiniSolver() *GiniSolver { return &GiniSolver{} }

func (s *GiniSolver) Solve(q *Query) (Result, error) {
	if len(q.soft) > 0 {
		return Result{}, ErrNoOptimization
	}

	names := make(map[string]int)
	for _, c := range q.hard {
		for _, l := range c {
			if _, ok := names[l.Var]; !ok {
				names[l.Var] = len(names) + 1
			}
		}
	}

	g := gini.NewV(len(names))
	for _, c := range q.hard {
		for _, l := range c {
			v := z.Var(names[l.Var])
			if l.Negated {
				g.Add(v.Neg())
			} else {
				g.Add(v.Pos())
			}
		}
		g.Add(0)
	}

	switch g.Solve() {
	case 1:
		model := make(Model, len(names))
		for name, v := range names {
			model[name] = g.Value(z.Var(v).Pos())
		}
		return Result{Status: StatusSat, Model: model}, nil
	case -1:
		return Result{Status: StatusUnsat}, nil
	default:
		return Result{Status: StatusUnknown}, nil
	}
}
