package network

import (
	"fmt"
	"sort"
)

// ComponentID identifies a network component by its position in the
// model's component ordering.
type ComponentID int

// FunctionID identifies an uninterpreted update function in the model's
// function registry.
type FunctionID int

// Monotonicity describes the sign of a regulation edge.
type Monotonicity int

const (
	// Unknown means the regulation has no prescribed sign.
	Unknown Monotonicity = iota
	// Activating regulations must make the target update non-decreasing
	// in the regulator.
	Activating
	// Inhibiting regulations must make the target update non-increasing
	// in the regulator.
	Inhibiting
)

func (m Monotonicity) String() string {
	switch m {
	case Activating:
		return "activating"
	case Inhibiting:
		return "inhibiting"
	default:
		return "unknown"
	}
}

// Regulation is a directed edge regulator -> target, optionally carrying
// a sign and an observability requirement.
type Regulation struct {
	Regulator  ComponentID
	Target     ComponentID
	Sign       Monotonicity
	Observable bool
}

// Function is an uninterpreted boolean function symbol of fixed arity.
// It stays opaque until a solved model pins down its truth table.
type Function struct {
	Name  string
	Arity int
}

type component struct {
	name   string
	update Expr // nil while the update is anonymous
}

// Model is an immutable regulatory network: components with update
// expressions, signed regulation edges and a registry of uninterpreted
// function symbols. Build one with Parse, or assemble it through a
// builder and never mutate it afterwards.
type Model struct {
	components  []component
	compIndex   map[string]ComponentID
	regulations []Regulation
	functions   []Function
	fnIndex     map[string]FunctionID
}

// NumComponents returns the number of network components.
func (m *Model) NumComponents() int { return len(m.components) }

// ComponentName returns the name of the given component.
// Panics if the id is not valid in this model.
func (m *Model) ComponentName(id ComponentID) string {
	m.checkComponent(id)
	return m.components[id].name
}

// FindComponent looks a component up by name.
func (m *Model) FindComponent(name string) (ComponentID, bool) {
	id, ok := m.compIndex[name]
	return id, ok
}

// Update returns the update expression of the given component, or nil if
// the component's update is still anonymous (see NameImplicitFunctions).
// Panics if the id is not valid in this model.
func (m *Model) Update(id ComponentID) Expr {
	m.checkComponent(id)
	return m.components[id].update
}

// Regulations returns the network's regulation edges in declaration order.
func (m *Model) Regulations() []Regulation {
	out := make([]Regulation, len(m.regulations))
	copy(out, m.regulations)
	return out
}

// Regulators returns the regulators of the given target in declaration order.
func (m *Model) Regulators(target ComponentID) []ComponentID {
	m.checkComponent(target)
	var out []ComponentID
	for _, reg := range m.regulations {
		if reg.Target == target {
			out = append(out, reg.Regulator)
		}
	}
	return out
}

// NumFunctions returns the number of registered uninterpreted functions.
func (m *Model) NumFunctions() int { return len(m.functions) }

// Function returns the uninterpreted function with the given id.
// Panics if the id is not valid in this model.
func (m *Model) Function(id FunctionID) Function {
	if id < 0 || int(id) >= len(m.functions) {
		panic(fmt.Sprintf("network: invalid function id %d", id))
	}
	return m.functions[id]
}

// FindFunction looks an uninterpreted function up by name.
func (m *Model) FindFunction(name string) (FunctionID, bool) {
	id, ok := m.fnIndex[name]
	return id, ok
}

// AnonymousCount returns the number of components whose update is still an
// unnamed implicit function. The inference core refuses models where this
// is non-zero; run NameImplicitFunctions first.
func (m *Model) AnonymousCount() int {
	n := 0
	for _, c := range m.components {
		if c.update == nil {
			n++
		}
	}
	return n
}

// NameImplicitFunctions assigns a default-named uninterpreted function
// `fn_<component>` to every component without an update expression. The
// function's arity is the component's in-degree and it is applied to the
// component's regulators in declaration order. This is the only mutation
// allowed on a model, and it must happen before the model is handed to
// the inference core.
func (m *Model) NameImplicitFunctions() error {
	for i := range m.components {
		if m.components[i].update != nil {
			continue
		}
		name := "fn_" + m.components[i].name
		if _, dup := m.fnIndex[name]; dup {
			return fmt.Errorf("network: implicit function name %q already taken", name)
		}
		regulators := m.Regulators(ComponentID(i))
		args := make([]Expr, len(regulators))
		for j, r := range regulators {
			args[j] = Ref{Component: r}
		}
		id := FunctionID(len(m.functions))
		m.functions = append(m.functions, Function{Name: name, Arity: len(regulators)})
		m.fnIndex[name] = id
		m.components[i].update = Call{Fn: id, Args: args}
	}
	return nil
}

func (m *Model) checkComponent(id ComponentID) {
	if id < 0 || int(id) >= len(m.components) {
		panic(fmt.Sprintf("network: invalid component id %d", id))
	}
}

// Support returns the components referenced (transitively) by the given
// expression, deduplicated and sorted by id.
func Support(e Expr) []ComponentID {
	seen := map[ComponentID]bool{}
	var walk func(Expr)
	walk = func(e Expr) {
		switch e := e.(type) {
		case Const:
		case Ref:
			seen[e.Component] = true
		case Call:
			for _, arg := range e.Args {
				walk(arg)
			}
		case Not:
			walk(e.Inner)
		case Binary:
			walk(e.Left)
			walk(e.Right)
		default:
			panic(fmt.Sprintf("network: unexpected expression %T", e))
		}
	}
	walk(e)
	out := make([]ComponentID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
