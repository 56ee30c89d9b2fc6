package infer

import (
	"fmt"
	"strings"

	"github.com/crillab/gophersat/bf"
	"github.com/dalzilio/rudd"

	"bninfer/network"
	"bninfer/solve"
)

// FunctionTable is the concrete interpretation of a previously unknown
// update function, reconstructed from a solved model.
type FunctionTable struct {
	name  string
	arity int
	rows  []bool
}

// ExtractFunction reconstructs the uninterpreted function from a solved
// model by reading all 2^arity table variables. Rows the query never
// constrained are completed to false, mirroring what a solver's model
// completion would do. The full enumeration makes this tractable for
// low-arity functions only.
//
// Panics if the function id is not valid in the problem's network, or if
// model is nil (extraction before a successful solve).
func (p *Problem) ExtractFunction(model solve.Model, fn network.FunctionID) *FunctionTable {
	if model == nil {
		panic("infer: extracting a function from a nil model")
	}
	f := p.model.Function(fn)
	rows := make([]bool, p.symbols.numRows(fn))
	for row := range rows {
		rows[row] = model[p.symbols.rowVar(fn, row)]
	}
	return &FunctionTable{name: f.Name, arity: f.Arity, rows: rows}
}

// Name returns the function's name.
func (t *FunctionTable) Name() string { return t.name }

// Arity returns the function's arity.
func (t *FunctionTable) Arity() int { return t.arity }

// Eval evaluates the reconstructed function.
// Panics when called with the wrong number of arguments.
func (t *FunctionTable) Eval(args ...bool) bool {
	if len(args) != t.arity {
		panic(fmt.Sprintf("infer: function %q has arity %d, got %d arguments", t.name, t.arity, len(args)))
	}
	row := 0
	for i, a := range args {
		if a {
			row |= 1 << i
		}
	}
	return t.rows[row]
}

// Formula returns the function as an exhaustive disjunctive normal form
// over argument variables x0..x<arity-1>.
func (t *FunctionTable) Formula() bf.Formula {
	var dnf []bf.Formula
	for row, value := range t.rows {
		if !value {
			continue
		}
		cube := make([]bf.Formula, t.arity)
		for i := 0; i < t.arity; i++ {
			v := bf.Var(fmt.Sprintf("x%d", i))
			if row&(1<<i) == 0 {
				v = bf.Not(v)
			}
			cube[i] = v
		}
		if t.arity == 0 {
			dnf = append(dnf, bf.True)
		} else {
			dnf = append(dnf, bf.And(cube...))
		}
	}
	if len(dnf) == 0 {
		return bf.False
	}
	return bf.Or(dnf...)
}

// BDD compacts the truth table into a binary decision diagram with one
// level per argument.
func (t *FunctionTable) BDD() (*rudd.BDD, rudd.Node, error) {
	nvars := t.arity
	if nvars == 0 {
		nvars = 1
	}
	bdd, err := rudd.New(nvars, rudd.Nodesize(1024), rudd.Cachesize(256))
	if err != nil {
		return nil, nil, fmt.Errorf("infer: %w", err)
	}
	node := bdd.False()
	for row, value := range t.rows {
		if !value {
			continue
		}
		cube := bdd.True()
		for i := 0; i < t.arity; i++ {
			if row&(1<<i) != 0 {
				cube = bdd.And(cube, bdd.Ithvar(i))
			} else {
				cube = bdd.And(cube, bdd.NIthvar(i))
			}
		}
		node = bdd.Or(node, cube)
	}
	return bdd, node, nil
}

// String renders the truth table in row order, e.g. "f(2): 0001".
func (t *FunctionTable) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%d): ", t.name, t.arity)
	for _, v := range t.rows {
		if v {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
