package ast

// Expr represents an expression.  Every expression yields a single double.
type Expr interface {
	ASTNode

	expr()
}

// ExprBase is the base struct for all expressions.
type ExprBase struct {
	ASTBase
}

// NewExprBase creates a new expression base.
func NewExprBase(base ASTBase) ExprBase {
	return ExprBase{ASTBase: base}
}

func (ExprBase) expr() {}

// -----------------------------------------------------------------------------

// NumberLit is a numeric literal.
type NumberLit struct {
	ExprBase

	Value float64
}

// VariableRef is a reference to a function parameter or loop variable.
type VariableRef struct {
	ExprBase

	Name string
}

// Oper is an operator used in the AST.
type Oper struct {
	// The token kind of the operator.
	Kind int

	// The source text of the operator: eg. `+`.
	Name string
}

// BinaryOp is an infix operator application.
type BinaryOp struct {
	ExprBase

	Op       Oper
	Lhs, Rhs Expr
}

// UnaryOp is a prefix operator application.
type UnaryOp struct {
	ExprBase

	Op      Oper
	Operand Expr
}

// Call is a function call.
type Call struct {
	ExprBase

	Callee string
	Args   []Expr
}

// IfExpr is a conditional expression.  Its condition is true if it is
// non-zero.
type IfExpr struct {
	ExprBase

	Cond, Then, Else Expr
}

// ForExpr is a counted loop.  Step may be nil in which case it is 1.0.  The
// value of the loop is always 0.0.
type ForExpr struct {
	ExprBase

	VarName          string
	Start, End, Step Expr
	Body             Expr
}
