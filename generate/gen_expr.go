package generate

import (
	"kaso/ast"
	"kaso/report"
	"kaso/syntax"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genExpr generates an expression.
func (g *Generator) genExpr(expr ast.Expr) (value.Value, error) {
	switch v := expr.(type) {
	case *ast.NumberLit:
		return constant.NewFloat(types.Double, v.Value), nil
	case *ast.VariableRef:
		if val, ok := g.scope.Lookup(v.Name); ok {
			return val, nil
		}

		return nil, report.RaiseLowering(v.Span(), "unknown variable name `%s`", v.Name)
	case *ast.BinaryOp:
		return g.genBinaryOp(v)
	case *ast.UnaryOp:
		return g.genUnaryOp(v)
	case *ast.Call:
		return g.genCall(v)
	case *ast.IfExpr:
		return g.genIfExpr(v)
	case *ast.ForExpr:
		return g.genForExpr(v)
	}

	return nil, report.ICE("expression generation not implemented for %T", expr)
}

// genBinaryOp generates a binary operator application.  The built-in
// operators are generated inline: all others are calls to their operator
// function.
func (g *Generator) genBinaryOp(binop *ast.BinaryOp) (value.Value, error) {
	lhs, err := g.genExpr(binop.Lhs)
	if err != nil {
		return nil, err
	}

	rhs, err := g.genExpr(binop.Rhs)
	if err != nil {
		return nil, err
	}

	switch binop.Op.Kind {
	case syntax.TOK_PLUS:
		return g.block.NewFAdd(lhs, rhs), nil
	case syntax.TOK_MINUS:
		return g.block.NewFSub(lhs, rhs), nil
	case syntax.TOK_STAR:
		return g.block.NewFMul(lhs, rhs), nil
	case syntax.TOK_LT:
		cmp := g.block.NewFCmp(enum.FPredULT, lhs, rhs)
		return g.block.NewUIToFP(cmp, types.Double), nil
	}

	// The parser only accepts operators with a precedence and only successful
	// binary operator definitions install one.
	f, ok := g.getFunction(ast.OperatorFuncName(ast.ProtoBinary, binop.Op.Name))
	if !ok {
		return nil, report.ICE("binary operator `%s` has no implementation", binop.Op.Name)
	}

	return g.block.NewCall(f, lhs, rhs), nil
}

// genUnaryOp generates a unary operator application.
func (g *Generator) genUnaryOp(unop *ast.UnaryOp) (value.Value, error) {
	operand, err := g.genExpr(unop.Operand)
	if err != nil {
		return nil, err
	}

	f, ok := g.getFunction(ast.OperatorFuncName(ast.ProtoUnary, unop.Op.Name))
	if !ok {
		return nil, report.RaiseLowering(unop.Span(), "unknown unary operator `%s`", unop.Op.Name)
	}

	return g.block.NewCall(f, operand), nil
}

// genCall generates a function call.
func (g *Generator) genCall(call *ast.Call) (value.Value, error) {
	f, ok := g.getFunction(call.Callee)
	if !ok {
		return nil, report.RaiseLowering(call.Span(), "unknown function referenced: `%s`", call.Callee)
	}

	if len(f.Params) != len(call.Args) {
		return nil, report.RaiseLowering(
			call.Span(),
			"incorrect # arguments passed to `%s`: expected %d but got %d",
			call.Callee, len(f.Params), len(call.Args),
		)
	}

	args := make([]value.Value, len(call.Args))
	for i, arg := range call.Args {
		argVal, err := g.genExpr(arg)
		if err != nil {
			return nil, err
		}

		args[i] = argVal
	}

	return g.block.NewCall(f, args...), nil
}
