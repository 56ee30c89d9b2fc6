package infer

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"bninfer/network"
	"bninfer/solve"
)

// Problem collects constraints on the behavior of a partially specified
// network: declared states, which of them are fixed points, and the
// observations each must follow. BuildQuery turns the collection into a
// single optimization query; a solved model then assigns every
// uninterpreted function a concrete truth table.
//
// The network is shared read-only; states and constraints are add-only
// for the problem's lifetime.
type Problem struct {
	model       *network.Model
	symbols     *symbolRegistry
	states      map[string]*SymbolicState
	specs       map[string]*StateSpec
	fixedPoints mapset.Set[string]
}

// New creates an inference problem for the given network.
//
// Panics if the network still has anonymous uninterpreted functions; run
// network.Model.NameImplicitFunctions first.
func New(m *network.Model) *Problem {
	if n := m.AnonymousCount(); n > 0 {
		panic(fmt.Sprintf("infer: network has %d unnamed uninterpreted functions", n))
	}
	return &Problem{
		model:       m,
		symbols:     newSymbolRegistry(m),
		states:      map[string]*SymbolicState{},
		specs:       map[string]*StateSpec{},
		fixedPoints: mapset.NewSet[string](),
	}
}

// Model returns the problem's network.
func (p *Problem) Model() *network.Model { return p.model }

// MakeState declares a new named state of the network.
//
// Panics if a state with the same name was already declared.
func (p *Problem) MakeState(name string) *SymbolicState {
	if _, dup := p.states[name]; dup {
		panic(fmt.Sprintf("infer: state %q already declared", name))
	}
	s := newSymbolicState(name, p.model)
	p.states[name] = s
	return s
}

// State retrieves a previously declared state.
//
// Panics if no such state was declared with MakeState.
func (p *Problem) State(name string) *SymbolicState {
	s, ok := p.states[name]
	if !ok {
		panic(fmt.Sprintf("infer: state %q was not declared", name))
	}
	return s
}

// AssertFixedPoint requires the named state to be a fixed point of the
// network.
//
// Panics if no such state was declared with MakeState.
func (p *Problem) AssertFixedPoint(name string) {
	p.State(name)
	p.fixedPoints.Add(name)
}

// AssertObservation requires the named state to follow the given
// specification. Asserting a second specification for the same state
// replaces the first.
//
// Panics if no such state was declared with MakeState.
func (p *Problem) AssertObservation(name string, spec *StateSpec) {
	p.State(name)
	p.specs[name] = spec
}

// BuildQuery assembles the observation, fixed-point and structural
// constraints into one optimization query. The query's objective is to
// minimize the total confidence weight of violated optional assertions.
// Satisfiability of the result is the solver's verdict, never an error
// here; in contrast, references to unknown states or components panic
// during assembly.
func (p *Problem) BuildQuery() *solve.Query {
	q := solve.NewQuery()
	tr := newTranslator(q, p.symbols)

	// Mention every declared state variable so any model binds it, even
	// when no other constraint touches the state.
	for _, name := range sortedKeys(p.states) {
		for _, v := range p.states[name].Vars() {
			q.AssertHard(solve.Pos(v), solve.Neg(v))
		}
	}

	// Observation constraints.
	for _, name := range sortedKeys(p.specs) {
		state := p.states[name]
		spec := p.specs[name]
		required := spec.RequiredAssertions()
		for _, id := range sortedComponents(required) {
			q.AssertHard(valueLit(state.Var(id), required[id]))
		}
		optional := spec.OptionalAssertions()
		for _, id := range sortedComponentsWeighted(optional) {
			a := optional[id]
			q.AssertSoft(a.Confidence, valueLit(state.Var(id), a.Value))
		}
	}

	// Fixed-point constraints: every component reproduces itself under
	// its update function.
	fixedPoints := p.fixedPoints.ToSlice()
	sort.Strings(fixedPoints)
	for _, name := range fixedPoints {
		state := p.states[name]
		scope := stateEnv(state)
		for i := 0; i < p.model.NumComponents(); i++ {
			id := network.ComponentID(i)
			update := tr.translate(p.model.Update(id), scope)
			tr.assertIff(litTerm(solve.Pos(state.Var(id))), update)
		}
	}

	// Structural constraints, one throwaway auxiliary state per edge.
	// The auxiliary states never join the problem's registry.
	for _, reg := range p.model.Regulations() {
		update := p.model.Update(reg.Target)

		if reg.Observable {
			// An existential witness: over an otherwise unconstrained
			// state, forcing the regulator must change the target update.
			aux := newSymbolicState(fmt.Sprintf("o_%d_%d", reg.Regulator, reg.Target), p.model)
			scope := stateEnv(aux)
			scope[reg.Regulator] = constTerm(true)
			whenTrue := tr.translate(update, scope)
			scope[reg.Regulator] = constTerm(false)
			whenFalse := tr.translate(update, scope)
			tr.assertDiffer(whenTrue, whenFalse)
		}

		if reg.Sign != network.Unknown {
			// Monotonicity must hold for every input, so the remaining
			// variables are universally quantified, unlike above.
			var rest []network.ComponentID
			for _, id := range network.Support(update) {
				if id != reg.Regulator {
					rest = append(rest, id)
				}
			}
			forAll(rest, env{}, func(scope env) {
				scope[reg.Regulator] = constTerm(true)
				whenTrue := tr.translate(update, scope)
				scope[reg.Regulator] = constTerm(false)
				whenFalse := tr.translate(update, scope)
				if reg.Sign == network.Activating {
					tr.assertImp(whenFalse, whenTrue)
				} else {
					tr.assertImp(whenTrue, whenFalse)
				}
			})
		}
	}

	return q
}

func valueLit(name string, value bool) solve.Lit {
	if value {
		return solve.Pos(name)
	}
	return solve.Neg(name)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedComponents(m map[network.ComponentID]bool) []network.ComponentID {
	ids := make([]network.ComponentID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedComponentsWeighted(m map[network.ComponentID]WeightedValue) []network.ComponentID {
	ids := make([]network.ComponentID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
