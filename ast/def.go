package ast

import "fmt"

// AnonExprName is the name of the synthesized function wrapping a top-level
// expression.
const AnonExprName = "__anonymous_expr"

// DefaultBinaryPrecedence is the precedence of a binary operator defined
// without an explicit precedence.
const DefaultBinaryPrecedence = 30

// ProtoKind indicates whether a prototype declares a plain function or an
// operator.  The kind of an operator prototype is its number of operands.
type ProtoKind int

// Enumeration of prototype kinds.
const (
	ProtoFunc   ProtoKind = 0
	ProtoUnary  ProtoKind = 1
	ProtoBinary ProtoKind = 2
)

// Prototype is a function signature: its name, its parameter names and, if it
// overloads an operator, its operator and precedence.
type Prototype struct {
	ASTBase

	Name   string
	Params []string

	Kind ProtoKind

	// Op is only meaningful for operator prototypes.
	Op Oper

	// Precedence is only meaningful for binary operator prototypes.
	Precedence int
}

// IsBinaryOp returns whether the prototype defines a binary operator.
func (p *Prototype) IsBinaryOp() bool {
	return p.Kind == ProtoBinary
}

// Repr returns a source-like representation of the prototype.
func (p *Prototype) Repr() string {
	return fmt.Sprintf("%s(%d)", p.Name, len(p.Params))
}

// FuncDef is a function definition.
type FuncDef struct {
	ASTBase

	Proto *Prototype
	Body  Expr
}

// OperatorFuncName returns the name of the function implementing an operator
// of the given kind: eg. `binary+`.
func OperatorFuncName(kind ProtoKind, opName string) string {
	if kind == ProtoUnary {
		return "unary" + opName
	}

	return "binary" + opName
}
