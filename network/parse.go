package network

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ParseError reports a malformed line in a network description.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("network: line %d: %s", e.Line, e.Msg)
}

// Regulation lines look like `a -> c`, `b -| c` or `a -?? c`. The arrow
// encodes the sign (`>` activating, `|` inhibiting, `?` unknown) and a
// trailing `?` marks the edge as non-observable.
type regulationLine struct {
	Regulator string `parser:"@Ident"`
	Arrow     string `parser:"@Arrow"`
	Target    string `parser:"@Ident"`
}

// Update lines look like `$c: a & f(b, !c)`.
type updateLine struct {
	Target string   `parser:"\"$\" @Ident \":\""`
	Expr   *exprIff `parser:"@@"`
}

type exprIff struct {
	Left *exprImp   `parser:"@@"`
	Rest []*exprImp `parser:"( \"<=>\" @@ )*"`
}

type exprImp struct {
	Left  *exprXor `parser:"@@"`
	Right *exprImp `parser:"( \"=>\" @@ )?"`
}

type exprXor struct {
	Left *exprOr   `parser:"@@"`
	Rest []*exprOr `parser:"( \"^\" @@ )*"`
}

type exprOr struct {
	Left *exprAnd   `parser:"@@"`
	Rest []*exprAnd `parser:"( \"|\" @@ )*"`
}

type exprAnd struct {
	Left *exprUnary   `parser:"@@"`
	Rest []*exprUnary `parser:"( \"&\" @@ )*"`
}

type exprUnary struct {
	Not  bool      `parser:"@\"!\"?"`
	Term *exprTerm `parser:"@@"`
}

type exprTerm struct {
	Paren *exprIff  `parser:"  \"(\" @@ \")\""`
	Call  *exprCall `parser:"| @@"`
	Name  *string   `parser:"| @Ident"`
}

type exprCall struct {
	Name string     `parser:"@Ident"`
	Args []*exprIff `parser:"\"(\" ( @@ ( \",\" @@ )* )? \")\""`
}

var lineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Arrow", Pattern: `->\??|-\|\??|-\?\??`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `<=>|=>|[(),:$!&|^]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var regulationParser = participle.MustBuild[regulationLine](
	participle.Lexer(lineLexer),
	participle.Elide("Whitespace"))

var updateParser = participle.MustBuild[updateLine](
	participle.Lexer(lineLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2))

// Parse reads a textual network description. Lines are either regulation
// edges, `$component: expression` updates, comments (`#`) or blank.
// Components are declared by first appearance. Components without an
// update keep an anonymous implicit function; call NameImplicitFunctions
// before handing the model to the inference core.
func Parse(input string) (*Model, error) {
	m := &Model{
		compIndex: map[string]ComponentID{},
		fnIndex:   map[string]FunctionID{},
	}
	type pendingUpdate struct {
		line   int
		target ComponentID
		expr   *exprIff
	}
	var updates []pendingUpdate
	updatesSeen := map[ComponentID]int{}

	declare := func(name string) ComponentID {
		if id, ok := m.compIndex[name]; ok {
			return id
		}
		id := ComponentID(len(m.components))
		m.components = append(m.components, component{name: name})
		m.compIndex[name] = id
		return id
	}

	for i, raw := range strings.Split(input, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "$") {
			upd, err := updateParser.ParseString("", line)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("bad update line: %v", err)}
			}
			target := declare(upd.Target)
			if prev, dup := updatesSeen[target]; dup {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf(
					"duplicate update for %q (first on line %d)", upd.Target, prev)}
			}
			updatesSeen[target] = lineNo
			updates = append(updates, pendingUpdate{line: lineNo, target: target, expr: upd.Expr})
			continue
		}
		reg, err := regulationParser.ParseString("", line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("bad regulation line: %v", err)}
		}
		sign, observable, err := decodeArrow(reg.Arrow)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		m.regulations = append(m.regulations, Regulation{
			Regulator:  declare(reg.Regulator),
			Target:     declare(reg.Target),
			Sign:       sign,
			Observable: observable,
		})
	}

	for _, upd := range updates {
		expr, err := m.resolveExpr(upd.expr)
		if err != nil {
			return nil, &ParseError{Line: upd.line, Msg: err.Error()}
		}
		regulators := map[ComponentID]bool{}
		for _, r := range m.Regulators(upd.target) {
			regulators[r] = true
		}
		for _, dep := range Support(expr) {
			if !regulators[dep] {
				return nil, &ParseError{Line: upd.line, Msg: fmt.Sprintf(
					"update of %q uses %q, which is not a declared regulator",
					m.components[upd.target].name, m.components[dep].name)}
			}
		}
		m.components[upd.target].update = expr
	}
	return m, nil
}

// ParseFile reads and parses a network description file.
func ParseFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}
	return Parse(string(data))
}

func decodeArrow(arrow string) (Monotonicity, bool, error) {
	body := strings.TrimPrefix(arrow, "-")
	var sign Monotonicity
	switch body[0] {
	case '>':
		sign = Activating
	case '|':
		sign = Inhibiting
	case '?':
		sign = Unknown
	default:
		return Unknown, false, fmt.Errorf("unrecognized arrow %q", arrow)
	}
	// A trailing `?` marks the edge as non-observable.
	return sign, len(body) == 1, nil
}

func (m *Model) resolveExpr(e *exprIff) (Expr, error) {
	return m.resolveIff(e)
}

func (m *Model) resolveIff(e *exprIff) (Expr, error) {
	out, err := m.resolveImp(e.Left)
	if err != nil {
		return nil, err
	}
	for _, rest := range e.Rest {
		right, err := m.resolveImp(rest)
		if err != nil {
			return nil, err
		}
		out = Binary{Op: OpIff, Left: out, Right: right}
	}
	return out, nil
}

func (m *Model) resolveImp(e *exprImp) (Expr, error) {
	left, err := m.resolveXor(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Right == nil {
		return left, nil
	}
	// `=>` is right-associative.
	right, err := m.resolveImp(e.Right)
	if err != nil {
		return nil, err
	}
	return Binary{Op: OpImp, Left: left, Right: right}, nil
}

func (m *Model) resolveXor(e *exprXor) (Expr, error) {
	out, err := m.resolveOr(e.Left)
	if err != nil {
		return nil, err
	}
	for _, rest := range e.Rest {
		right, err := m.resolveOr(rest)
		if err != nil {
			return nil, err
		}
		out = Binary{Op: OpXor, Left: out, Right: right}
	}
	return out, nil
}

func (m *Model) resolveOr(e *exprOr) (Expr, error) {
	out, err := m.resolveAnd(e.Left)
	if err != nil {
		return nil, err
	}
	for _, rest := range e.Rest {
		right, err := m.resolveAnd(rest)
		if err != nil {
			return nil, err
		}
		out = Binary{Op: OpOr, Left: out, Right: right}
	}
	return out, nil
}

func (m *Model) resolveAnd(e *exprAnd) (Expr, error) {
	out, err := m.resolveUnary(e.Left)
	if err != nil {
		return nil, err
	}
	for _, rest := range e.Rest {
		right, err := m.resolveUnary(rest)
		if err != nil {
			return nil, err
		}
		out = Binary{Op: OpAnd, Left: out, Right: right}
	}
	return out, nil
}

func (m *Model) resolveUnary(e *exprUnary) (Expr, error) {
	inner, err := m.resolveTerm(e.Term)
	if err != nil {
		return nil, err
	}
	if e.Not {
		return Not{Inner: inner}, nil
	}
	return inner, nil
}

func (m *Model) resolveTerm(e *exprTerm) (Expr, error) {
	switch {
	case e.Paren != nil:
		return m.resolveIff(e.Paren)
	case e.Call != nil:
		return m.resolveCall(e.Call)
	case e.Name != nil:
		switch *e.Name {
		case "true":
			return Const{Value: true}, nil
		case "false":
			return Const{Value: false}, nil
		}
		id, ok := m.compIndex[*e.Name]
		if !ok {
			return nil, fmt.Errorf("unknown component %q", *e.Name)
		}
		return Ref{Component: id}, nil
	default:
		return nil, fmt.Errorf("empty expression term")
	}
}

func (m *Model) resolveCall(e *exprCall) (Expr, error) {
	if _, clash := m.compIndex[e.Name]; clash {
		return nil, fmt.Errorf("%q is a component, not a function", e.Name)
	}
	args := make([]Expr, len(e.Args))
	for i, arg := range e.Args {
		resolved, err := m.resolveIff(arg)
		if err != nil {
			return nil, err
		}
		args[i] = resolved
	}
	id, ok := m.fnIndex[e.Name]
	if !ok {
		id = FunctionID(len(m.functions))
		m.functions = append(m.functions, Function{Name: e.Name, Arity: len(args)})
		m.fnIndex[e.Name] = id
	} else if m.functions[id].Arity != len(args) {
		return nil, fmt.Errorf("function %q used with %d arguments, previously %d",
			e.Name, len(args), m.functions[id].Arity)
	}
	return Call{Fn: id, Args: args}, nil
}
