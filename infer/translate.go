package infer

import (
	"fmt"

	"bninfer/network"
	"bninfer/solve"
)

// term is a partially evaluated boolean expression: either a constant or
// a literal of the query under construction. Constant folding keeps the
// structural constraints small, since quantifier expansion binds whole
// states to constants.
type term struct {
	known bool
	value bool
	lit   solve.Lit
}

func constTerm(v bool) term { return term{known: true, value: v} }

func litTerm(l solve.Lit) term { return term{lit: l} }

func (t term) negate() term {
	if t.known {
		return constTerm(!t.value)
	}
	return litTerm(t.lit.Negation())
}

// env binds components to terms for one translation: the decision
// variables of a state, or constants forced by a quantifier or a
// structural constraint.
type env map[network.ComponentID]term

func stateEnv(s *SymbolicState) env {
	e := make(env, len(s.vars))
	for id, v := range s.VarMap() {
		e[id] = litTerm(solve.Pos(v))
	}
	return e
}

// translator turns update expressions into clauses of one query. Compound
// subterms get fresh defined variables (t_<n>); uninterpreted calls are
// encoded row by row against the function's table variables.
type translator struct {
	query   *solve.Query
	symbols *symbolRegistry
	fresh   int
}

func newTranslator(q *solve.Query, symbols *symbolRegistry) *translator {
	return &translator{query: q, symbols: symbols}
}

func (t *translator) freshLit() solve.Lit {
	t.fresh++
	return solve.Pos(fmt.Sprintf("t_%d", t.fresh))
}

// translate recursively translates an expression under the given
// bindings. It is a pure function of the expression and its two explicit
// contexts (bindings and function registry), modulo the clauses defining
// fresh variables it appends to the query.
func (t *translator) translate(e network.Expr, vars env) term {
	switch e := e.(type) {
	case network.Const:
		return constTerm(e.Value)
	case network.Ref:
		tm, ok := vars[e.Component]
		if !ok {
			panic(fmt.Sprintf("infer: component %d not bound in translation context", e.Component))
		}
		return tm
	case network.Call:
		args := make([]term, len(e.Args))
		for i, arg := range e.Args {
			args[i] = t.translate(arg, vars)
		}
		return t.call(e.Fn, args)
	case network.Not:
		return t.translate(e.Inner, vars).negate()
	case network.Binary:
		l := t.translate(e.Left, vars)
		r := t.translate(e.Right, vars)
		// AND and IFF have direct gadgets; OR, IMPLIES and XOR reduce to
		// them through negation.
		switch e.Op {
		case network.OpAnd:
			return t.and(l, r)
		case network.OpOr:
			return t.and(l.negate(), r.negate()).negate()
		case network.OpImp:
			return t.and(l, r.negate()).negate()
		case network.OpIff:
			return t.iff(l, r)
		case network.OpXor:
			return t.iff(l, r.negate())
		default:
			panic(fmt.Sprintf("infer: unexpected operator %v", e.Op))
		}
	default:
		panic(fmt.Sprintf("infer: unexpected expression %T", e))
	}
}

// and returns a term equivalent to a ∧ b.
func (t *translator) and(a, b term) term {
	if a.known {
		if !a.value {
			return constTerm(false)
		}
		return b
	}
	if b.known {
		if !b.value {
			return constTerm(false)
		}
		return a
	}
	y := t.freshLit()
	t.query.AssertHard(y.Negation(), a.lit)
	t.query.AssertHard(y.Negation(), b.lit)
	t.query.AssertHard(y, a.lit.Negation(), b.lit.Negation())
	return litTerm(y)
}

// iff returns a term equivalent to a ⇔ b.
func (t *translator) iff(a, b term) term {
	if a.known {
		if a.value {
			return b
		}
		return b.negate()
	}
	if b.known {
		if b.value {
			return a
		}
		return a.negate()
	}
	y := t.freshLit()
	t.query.AssertHard(y.Negation(), a.lit.Negation(), b.lit)
	t.query.AssertHard(y.Negation(), a.lit, b.lit.Negation())
	t.query.AssertHard(y, a.lit, b.lit)
	t.query.AssertHard(y, a.lit.Negation(), b.lit.Negation())
	return litTerm(y)
}

// call encodes an application of an uninterpreted function. With fully
// constant arguments the application is exactly one table variable; free
// arguments select the matching row through its antecedent.
func (t *translator) call(fn network.FunctionID, args []term) term {
	allKnown := true
	for _, a := range args {
		if !a.known {
			allKnown = false
			break
		}
	}
	if allKnown {
		row := 0
		for i, a := range args {
			if a.value {
				row |= 1 << i
			}
		}
		return litTerm(solve.Pos(t.symbols.rowVar(fn, row)))
	}

	y := t.freshLit()
	for row := 0; row < t.symbols.numRows(fn); row++ {
		var antecedent []solve.Lit
		blocked := false
		for i, a := range args {
			bit := row&(1<<i) != 0
			if a.known {
				if a.value != bit {
					blocked = true
					break
				}
				continue
			}
			// The clause carries the negation of "argument i matches row".
			match := a.lit
			if !bit {
				match = match.Negation()
			}
			antecedent = append(antecedent, match.Negation())
		}
		if blocked {
			continue
		}
		p := solve.Pos(t.symbols.rowVar(fn, row))
		t.query.AssertHard(append(append([]solve.Lit{}, antecedent...), p.Negation(), y)...)
		t.query.AssertHard(append(append([]solve.Lit{}, antecedent...), p, y.Negation())...)
	}
	return litTerm(y)
}

// assertTerm asserts the term as a hard constraint.
func (t *translator) assertTerm(tm term) {
	if tm.known {
		if !tm.value {
			t.assertFalse()
		}
		return
	}
	t.query.AssertHard(tm.lit)
}

// assertIff asserts a ⇔ b as a hard constraint.
func (t *translator) assertIff(a, b term) {
	if a.known {
		if a.value {
			t.assertTerm(b)
		} else {
			t.assertTerm(b.negate())
		}
		return
	}
	if b.known {
		if b.value {
			t.assertTerm(a)
		} else {
			t.assertTerm(a.negate())
		}
		return
	}
	t.query.AssertHard(a.lit.Negation(), b.lit)
	t.query.AssertHard(a.lit, b.lit.Negation())
}

// assertDiffer asserts a ≠ b as a hard constraint.
func (t *translator) assertDiffer(a, b term) {
	t.assertIff(a, b.negate())
}

// assertImp asserts the material implication a → b as a hard constraint.
func (t *translator) assertImp(a, b term) {
	if a.known {
		if a.value {
			t.assertTerm(b)
		}
		return
	}
	if b.known {
		if !b.value {
			t.assertTerm(a.negate())
		}
		return
	}
	t.query.AssertHard(a.lit.Negation(), b.lit)
}

// assertFalse makes the query unsatisfiable.
func (t *translator) assertFalse() {
	f := t.freshLit()
	t.query.AssertHard(f)
	t.query.AssertHard(f.Negation())
}

// forAll asserts body under every assignment of the given components,
// making the universal quantification over a throwaway state's variables
// explicit: over a boolean domain, ∀x.φ is the conjunction of φ[x:=0]
// and φ[x:=1].
func forAll(vars []network.ComponentID, scope env, body func(env)) {
	if len(vars) == 0 {
		body(scope)
		return
	}
	v := vars[0]
	saved, had := scope[v]
	for _, value := range []bool{false, true} {
		scope[v] = constTerm(value)
		forAll(vars[1:], scope, body)
	}
	if had {
		scope[v] = saved
	} else {
		delete(scope, v)
	}
}
