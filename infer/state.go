// Package infer turns a partially specified regulatory network plus
// observed steady states into one weighted optimization query, and reads
// states and update-function tables back out of a solved model.
package infer

import (
	"fmt"

	"bninfer/network"
	"bninfer/solve"
)

// SymbolicState declares "some state" of the network: one fresh decision
// variable per component, index-aligned with the model's component
// ordering. Variables are named x_<state>_<component>, which keeps them
// collision-free across the states of one problem.
type SymbolicState struct {
	name string
	vars []string
}

func newSymbolicState(name string, m *network.Model) *SymbolicState {
	vars := make([]string, m.NumComponents())
	for i := range vars {
		vars[i] = fmt.Sprintf("x_%s_%s", name, m.ComponentName(network.ComponentID(i)))
	}
	return &SymbolicState{name: name, vars: vars}
}

// Name returns the name under which the state was declared.
func (s *SymbolicState) Name() string { return s.name }

// Var returns the decision variable for the given component.
// Panics if the id is not valid for this state.
func (s *SymbolicState) Var(id network.ComponentID) string {
	if id < 0 || int(id) >= len(s.vars) {
		panic(fmt.Sprintf("infer: component id %d not valid in state %q", id, s.name))
	}
	return s.vars[id]
}

// Vars returns the full decision-variable vector in component order.
func (s *SymbolicState) Vars() []string {
	out := make([]string, len(s.vars))
	copy(out, s.vars)
	return out
}

// VarMap returns the component-to-variable mapping.
func (s *SymbolicState) VarMap() map[network.ComponentID]string {
	out := make(map[network.ComponentID]string, len(s.vars))
	for i, v := range s.vars {
		out[network.ComponentID(i)] = v
	}
	return out
}

// ExtractState reads the state's concrete values from a solved model, in
// component order. It fails if a variable is not bound by the model,
// which happens when the model belongs to a different query or no query
// has been solved yet.
func (s *SymbolicState) ExtractState(model solve.Model) ([]bool, error) {
	out := make([]bool, len(s.vars))
	for i, v := range s.vars {
		value, ok := model[v]
		if !ok {
			return nil, fmt.Errorf("infer: state %q: variable %q is not bound by the model", s.name, v)
		}
		out[i] = value
	}
	return out, nil
}
