// Package solve defines the query/result contract between the inference
// core and the underlying constraint solvers. A Query is a conjunction of
// hard clauses plus confidence-weighted soft clauses over named boolean
// variables; backends decide satisfiability and, when they support it,
// minimize the total weight of violated soft clauses.
package solve

import (
	"fmt"
	"math/big"
)

// Lit is a possibly negated reference to a named boolean variable.
type Lit struct {
	Var     string
	Negated bool
}

// Pos returns a positive literal on the named variable.
func Pos(name string) Lit { return Lit{Var: name} }

// Neg returns a negative literal on the named variable.
func Neg(name string) Lit { return Lit{Var: name, Negated: true} }

// Negation returns the logical negation of l.
func (l Lit) Negation() Lit { return Lit{Var: l.Var, Negated: !l.Negated} }

func (l Lit) String() string {
	if l.Negated {
		return "!" + l.Var
	}
	return l.Var
}

// Clause is a disjunction of literals.
type Clause []Lit

type softClause struct {
	clause Clause
	weight *big.Rat
}

// Query is one solver query under construction. Hard clauses must hold
// exactly; soft clauses carry a rational weight in (0,1] that is paid
// when the clause is violated.
type Query struct {
	hard []Clause
	soft []softClause
}

// NewQuery returns an empty query.
func NewQuery() *Query { return &Query{} }

// AssertHard adds a mandatory clause.
func (q *Query) AssertHard(lits ...Lit) {
	q.hard = append(q.hard, Clause(lits))
}

// AssertSoft adds an optional clause whose violation costs weight.
// Panics if weight is outside (0,1]; weighting is the caller's invariant,
// not solver input.
func (q *Query) AssertSoft(weight *big.Rat, lits ...Lit) {
	if weight.Sign() <= 0 || weight.Cmp(ratOne) > 0 {
		panic(fmt.Sprintf("solve: soft weight %s outside (0,1]", weight.RatString()))
	}
	q.soft = append(q.soft, softClause{clause: Clause(lits), weight: new(big.Rat).Set(weight)})
}

// NumHard returns the number of hard clauses asserted so far.
func (q *Query) NumHard() int { return len(q.hard) }

// NumSoft returns the number of soft clauses asserted so far.
func (q *Query) NumSoft() int { return len(q.soft) }

var ratOne = big.NewRat(1, 1)

// weightScale returns the least common multiple of the denominators of
// all soft weights, so that every weight becomes an exact integer when
// multiplied by it.
func (q *Query) weightScale() *big.Int {
	scale := big.NewInt(1)
	gcd := new(big.Int)
	for _, s := range q.soft {
		d := s.weight.Denom()
		gcd.GCD(nil, nil, scale, d)
		scale.Div(scale, gcd).Mul(scale, d)
	}
	return scale
}

// scaledWeight returns weight * scale as an int, which is exact by
// construction of weightScale.
func scaledWeight(weight *big.Rat, scale *big.Int) (int, error) {
	w := new(big.Int).Mul(weight.Num(), new(big.Int).Div(scale, weight.Denom()))
	if !w.IsInt64() || w.Int64() > int64(int(^uint(0)>>1)) {
		return 0, fmt.Errorf("solve: scaled soft weight %s does not fit the solver's integer weights", w)
	}
	return int(w.Int64()), nil
}
