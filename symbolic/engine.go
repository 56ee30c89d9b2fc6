// Package symbolic computes the complete fixed-point relation of a
// parameterized network as a binary decision diagram, and searches for
// minimal relaxations of observation datasets against it.
package symbolic

import (
	"fmt"
	"math/big"

	"github.com/dalzilio/rudd"

	"bninfer/network"
)

// Engine holds the symbolic encoding of a network: one BDD level per
// component plus one level per truth-table row of each uninterpreted
// function (the "colors"). The fixed-point relation is computed once at
// construction and shared read-only by every query against it.
type Engine struct {
	model        *network.Model
	bdd          *rudd.BDD
	numStateVars int
	colorRows    [][]int // per function, BDD level of each table row
	stateCube    rudd.Node
	fixed        rudd.Node
}

// NewEngine builds the engine and computes the fixed-point relation: the
// set of (state, color) pairs where every component reproduces itself
// under its update function, restricted to colors that satisfy sign and
// observability requirements of the regulations. This is the one
// expensive precomputation; everything else restricts the relation.
func NewEngine(m *network.Model) (*Engine, error) {
	if m.NumComponents() == 0 {
		return nil, fmt.Errorf("symbolic: network has no components")
	}
	if n := m.AnonymousCount(); n > 0 {
		return nil, fmt.Errorf("symbolic: network has %d unnamed uninterpreted functions", n)
	}

	numVars := m.NumComponents()
	colorRows := make([][]int, m.NumFunctions())
	for i := range colorRows {
		arity := m.Function(network.FunctionID(i)).Arity
		rows := make([]int, 1<<arity)
		for r := range rows {
			rows[r] = numVars
			numVars++
		}
		colorRows[i] = rows
	}

	bdd, err := rudd.New(numVars, rudd.Nodesize(10007), rudd.Cachesize(3001))
	if err != nil {
		return nil, fmt.Errorf("symbolic: %w", err)
	}

	e := &Engine{
		model:        m,
		bdd:          bdd,
		numStateVars: m.NumComponents(),
		colorRows:    colorRows,
	}
	stateLevels := make([]int, e.numStateVars)
	for i := range stateLevels {
		stateLevels[i] = i
	}
	e.stateCube = bdd.Makeset(stateLevels)

	fixed := e.unitColors()
	for i := 0; i < m.NumComponents(); i++ {
		id := network.ComponentID(i)
		update := e.exprNode(m.Update(id), nil)
		fixed = bdd.And(fixed, bdd.Equiv(bdd.Ithvar(i), update))
	}
	e.fixed = fixed
	return e, nil
}

// unitColors encodes the structural requirements of the regulations as a
// constraint on color variables: observable edges need a witness state
// where toggling the regulator changes the target update (existential),
// signed edges need the update monotone in the regulator for every state
// (universal).
func (e *Engine) unitColors() rudd.Node {
	unit := e.bdd.True()
	for _, reg := range e.model.Regulations() {
		update := e.model.Update(reg.Target)

		whenTrue := e.exprNode(update, map[network.ComponentID]rudd.Node{reg.Regulator: e.bdd.True()})
		whenFalse := e.exprNode(update, map[network.ComponentID]rudd.Node{reg.Regulator: e.bdd.False()})

		if reg.Observable {
			differs := e.bdd.Not(e.bdd.Equiv(whenTrue, whenFalse))
			unit = e.bdd.And(unit, e.bdd.Exist(differs, e.stateCube))
		}
		switch reg.Sign {
		case network.Activating:
			violation := e.bdd.And(whenFalse, e.bdd.Not(whenTrue))
			unit = e.bdd.And(unit, e.bdd.Not(e.bdd.Exist(violation, e.stateCube)))
		case network.Inhibiting:
			violation := e.bdd.And(whenTrue, e.bdd.Not(whenFalse))
			unit = e.bdd.And(unit, e.bdd.Not(e.bdd.Exist(violation, e.stateCube)))
		}
	}
	return unit
}

// exprNode recursively translates an update expression into a BDD node.
// scope overrides the default binding of a component to its own level.
func (e *Engine) exprNode(x network.Expr, scope map[network.ComponentID]rudd.Node) rudd.Node {
	switch x := x.(type) {
	case network.Const:
		if x.Value {
			return e.bdd.True()
		}
		return e.bdd.False()
	case network.Ref:
		if n, ok := scope[x.Component]; ok {
			return n
		}
		return e.bdd.Ithvar(int(x.Component))
	case network.Call:
		args := make([]rudd.Node, len(x.Args))
		for i, arg := range x.Args {
			args[i] = e.exprNode(arg, scope)
		}
		// One disjunct per table row: the arguments select the row and
		// the row's color variable supplies the value.
		result := e.bdd.False()
		for row, level := range e.colorRows[x.Fn] {
			cube := e.bdd.Ithvar(level)
			for i, arg := range args {
				if row&(1<<i) != 0 {
					cube = e.bdd.And(cube, arg)
				} else {
					cube = e.bdd.And(cube, e.bdd.Not(arg))
				}
			}
			result = e.bdd.Or(result, cube)
		}
		return result
	case network.Not:
		return e.bdd.Not(e.exprNode(x.Inner, scope))
	case network.Binary:
		l := e.exprNode(x.Left, scope)
		r := e.exprNode(x.Right, scope)
		switch x.Op {
		case network.OpAnd:
			return e.bdd.And(l, r)
		case network.OpOr:
			return e.bdd.Or(l, r)
		case network.OpXor:
			return e.bdd.Not(e.bdd.Equiv(l, r))
		case network.OpIff:
			return e.bdd.Equiv(l, r)
		case network.OpImp:
			return e.bdd.Imp(l, r)
		default:
			panic(fmt.Sprintf("symbolic: unexpected operator %v", x.Op))
		}
	default:
		panic(fmt.Sprintf("symbolic: unexpected expression %T", x))
	}
}

// FixedPoints returns the full (state, color) fixed-point relation.
func (e *Engine) FixedPoints() rudd.Node { return e.fixed }

// AllColors returns the colors under which the network has at least one
// fixed point.
func (e *Engine) AllColors() rudd.Node {
	return e.bdd.Exist(e.fixed, e.stateCube)
}

// ColorsMatching returns the colors under which some fixed point agrees
// with the given partial assignment of components.
func (e *Engine) ColorsMatching(values map[network.ComponentID]bool) rudd.Node {
	restricted := e.fixed
	for id, v := range values {
		if v {
			restricted = e.bdd.And(restricted, e.bdd.Ithvar(int(id)))
		} else {
			restricted = e.bdd.And(restricted, e.bdd.NIthvar(int(id)))
		}
	}
	return e.bdd.Exist(restricted, e.stateCube)
}

// Intersect returns the conjunction of two color sets.
func (e *Engine) Intersect(a, b rudd.Node) rudd.Node {
	return e.bdd.And(a, b)
}

// IsEmpty reports whether a color set is empty.
func (e *Engine) IsEmpty(n rudd.Node) bool {
	return e.bdd.Equal(n, e.bdd.False())
}

// ColorCount counts the colors in a color set exactly. The argument must
// not depend on state variables (i.e. it came from ColorsMatching,
// AllColors or intersections thereof).
func (e *Engine) ColorCount(n rudd.Node) *big.Int {
	count := new(big.Int).Set(e.bdd.Satcount(n))
	return count.Rsh(count, uint(e.numStateVars))
}
