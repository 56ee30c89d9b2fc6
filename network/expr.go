package network

import (
	"fmt"
	"strings"
)

// Expr is an update-function expression over components and uninterpreted
// function symbols.
type Expr interface{ expr() }

// Const is the boolean constant true or false.
type Const struct{ Value bool }

// Ref references the value of another component.
type Ref struct{ Component ComponentID }

// Call applies an uninterpreted function to argument subexpressions.
type Call struct {
	Fn   FunctionID
	Args []Expr
}

// Not negates a subexpression.
type Not struct{ Inner Expr }

// BinaryOp enumerates the binary connectives.
type BinaryOp int

const (
	OpAnd BinaryOp = iota
	OpOr
	OpXor
	OpIff
	OpImp
)

func (op BinaryOp) String() string {
	switch op {
	case OpAnd:
		return "&"
	case OpOr:
		return "|"
	case OpXor:
		return "^"
	case OpIff:
		return "<=>"
	case OpImp:
		return "=>"
	default:
		return "?"
	}
}

// Binary combines two subexpressions with a connective.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (Const) expr()  {}
func (Ref) expr()    {}
func (Call) expr()   {}
func (Not) expr()    {}
func (Binary) expr() {}

// ExprString renders an expression using the model's component and
// function names, fully parenthesized.
func (m *Model) ExprString(e Expr) string {
	switch e := e.(type) {
	case Const:
		if e.Value {
			return "true"
		}
		return "false"
	case Ref:
		return m.ComponentName(e.Component)
	case Call:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = m.ExprString(arg)
		}
		return fmt.Sprintf("%s(%s)", m.Function(e.Fn).Name, strings.Join(args, ", "))
	case Not:
		return "!" + m.ExprString(e.Inner)
	case Binary:
		return fmt.Sprintf("(%s %s %s)", m.ExprString(e.Left), e.Op, m.ExprString(e.Right))
	default:
		panic(fmt.Sprintf("network: unexpected expression %T", e))
	}
}
