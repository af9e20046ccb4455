package generate

import (
	"kaso/ast"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genIfExpr generates a conditional expression.  The condition is true if it
// is not equal to zero.  The branches join in a merge block which selects the
// value of the branch that was taken.
func (g *Generator) genIfExpr(ifExpr *ast.IfExpr) (value.Value, error) {
	cond, err := g.genExpr(ifExpr.Cond)
	if err != nil {
		return nil, err
	}

	condVal := g.block.NewFCmp(enum.FPredONE, cond, zero())

	thenBlock := g.newBlock("then")
	elseBlock := g.newBlock("else")
	mergeBlock := g.newBlock("ifcont")

	g.block.NewCondBr(condVal, thenBlock, elseBlock)

	// The branches may themselves contain control flow: the incoming block of
	// each branch is the block it ends in, not the block it begins in.
	g.appendBlock(thenBlock)
	g.block = thenBlock
	thenVal, err := g.genExpr(ifExpr.Then)
	if err != nil {
		return nil, err
	}

	g.block.NewBr(mergeBlock)
	thenEnd := g.block

	g.appendBlock(elseBlock)
	g.block = elseBlock
	elseVal, err := g.genExpr(ifExpr.Else)
	if err != nil {
		return nil, err
	}

	g.block.NewBr(mergeBlock)
	elseEnd := g.block

	g.appendBlock(mergeBlock)
	g.block = mergeBlock
	return g.block.NewPhi(ir.NewIncoming(thenVal, thenEnd), ir.NewIncoming(elseVal, elseEnd)), nil
}

// genForExpr generates a counted loop.  The loop variable is a phi in the loop
// header seeded by the start value and advanced by the step at the end of
// each iteration.  The loop runs its body before testing the end condition,
// so the body always runs at least once.  The value of the loop is always 0.0.
func (g *Generator) genForExpr(forExpr *ast.ForExpr) (value.Value, error) {
	start, err := g.genExpr(forExpr.Start)
	if err != nil {
		return nil, err
	}

	preheader := g.block
	loopBlock := g.newBlock("loop")
	g.block.NewBr(loopBlock)

	g.appendBlock(loopBlock)
	g.block = loopBlock
	variable := g.block.NewPhi(ir.NewIncoming(start, preheader))

	// The loop variable shadows any variable of the same name only within the
	// loop.
	restore := g.scope.Shadow(forExpr.VarName, variable)
	defer restore()

	if _, err := g.genExpr(forExpr.Body); err != nil {
		return nil, err
	}

	var step value.Value
	if forExpr.Step == nil {
		step = constant.NewFloat(types.Double, 1)
	} else if step, err = g.genExpr(forExpr.Step); err != nil {
		return nil, err
	}

	nextVar := g.block.NewFAdd(variable, step)

	end, err := g.genExpr(forExpr.End)
	if err != nil {
		return nil, err
	}

	endCond := g.block.NewFCmp(enum.FPredONE, end, zero())

	loopEnd := g.block
	afterBlock := g.newBlock("afterloop")
	g.block.NewCondBr(endCond, loopBlock, afterBlock)

	g.appendBlock(afterBlock)
	g.block = afterBlock

	variable.Incs = append(variable.Incs, ir.NewIncoming(nextVar, loopEnd))

	return zero(), nil
}
