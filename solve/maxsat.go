package solve

import (
	"math/big"

	"github.com/crillab/gophersat/maxsat"
)

// MaxSatSolver solves queries with gophersat's weighted partial MaxSAT
// engine. Hard clauses are enforced exactly; among models satisfying
// them, it minimizes the total weight of violated soft clauses.
type MaxSatSolver struct{}

// NewMaxSatSolver returns the optimizing backend.
func NewMaxSatSolver() *MaxSatSolver { return &MaxSatSolver{} }

func (s *MaxSatSolver) Solve(q *Query) (Result, error) {
	scale := q.weightScale()
	constrs := make([]maxsat.Constr, 0, len(q.hard)+len(q.soft))
	for _, c := range q.hard {
		constrs = append(constrs, maxsat.HardClause(maxsatLits(c)...))
	}
	for _, sc := range q.soft {
		w, err := scaledWeight(sc.weight, scale)
		if err != nil {
			return Result{}, err
		}
		constrs = append(constrs, maxsat.WeightedClause(maxsatLits(sc.clause), w))
	}

	pb := maxsat.New(constrs...)
	model, cost := pb.Solve()
	if model == nil {
		return Result{Status: StatusUnsat}, nil
	}
	// cost is the total violated weight in scale units.
	objective := new(big.Rat).SetFrac(big.NewInt(int64(cost)), scale)
	return Result{Status: StatusSat, Model: Model(model), Objective: objective}, nil
}

func maxsatLits(c Clause) []maxsat.Lit {
	lits := make([]maxsat.Lit, len(c))
	for i, l := range c {
		if l.Negated {
			lits[i] = maxsat.Not(l.Var)
		} else {
			lits[i] = maxsat.Var(l.Var)
		}
	}
	return lits
}
