package solve

import "math/big"

// Status is the outcome of a solver run. All three values are legitimate
// results of a well-formed query, never errors.
type Status int

const (
	StatusUnknown Status = iota
	StatusSat
	StatusUnsat
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "sat"
	case StatusUnsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Model assigns a value to every named variable of a satisfiable query.
type Model map[string]bool

// Result is a solver outcome. Objective is the minimized total weight of
// violated soft clauses, as an exact rational; it is nil for backends
// that do not optimize.
type Result struct {
	Status    Status
	Model     Model
	Objective *big.Rat
}

// Solver decides (and possibly optimizes) queries. Implementations are
// stateless with respect to queries; each call is independent.
type Solver interface {
	Solve(q *Query) (Result, error)
}
