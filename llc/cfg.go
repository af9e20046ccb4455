package llc

import (
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// AsBlock converts a branch target or phi predecessor to a basic block.
func AsBlock(v interface{}) (*ir.Block, bool) {
	b, ok := v.(*ir.Block)
	return b, ok && b != nil
}

// Successors returns the blocks the terminator of b may branch to.
func Successors(b *ir.Block) []*ir.Block {
	var succs []*ir.Block

	switch term := b.Term.(type) {
	case *ir.TermBr:
		if target, ok := AsBlock(term.Target); ok {
			succs = append(succs, target)
		}
	case *ir.TermCondBr:
		if target, ok := AsBlock(term.TargetTrue); ok {
			succs = append(succs, target)
		}

		if target, ok := AsBlock(term.TargetFalse); ok && (len(succs) == 0 || succs[0] != target) {
			succs = append(succs, target)
		}
	}

	return succs
}

// Predecessors computes the predecessors of every block of f.
func Predecessors(f *ir.Func) map[*ir.Block][]*ir.Block {
	preds := make(map[*ir.Block][]*ir.Block, len(f.Blocks))
	for _, b := range f.Blocks {
		for _, succ := range Successors(b) {
			preds[succ] = append(preds[succ], b)
		}
	}

	return preds
}

// -----------------------------------------------------------------------------

// Operands returns pointers to the value operands of an instruction or
// terminator so that they can be inspected and replaced.  The callee of a call
// is not an operand.  The boolean is false for instructions which code
// generation never emits.
func Operands(inst interface{}) ([]*value.Value, bool) {
	switch v := inst.(type) {
	case *ir.InstFAdd:
		return []*value.Value{&v.X, &v.Y}, true
	case *ir.InstFSub:
		return []*value.Value{&v.X, &v.Y}, true
	case *ir.InstFMul:
		return []*value.Value{&v.X, &v.Y}, true
	case *ir.InstFDiv:
		return []*value.Value{&v.X, &v.Y}, true
	case *ir.InstFCmp:
		return []*value.Value{&v.X, &v.Y}, true
	case *ir.InstUIToFP:
		return []*value.Value{&v.From}, true
	case *ir.InstCall:
		ops := make([]*value.Value, len(v.Args))
		for i := range v.Args {
			ops[i] = &v.Args[i]
		}

		return ops, true
	case *ir.InstPhi:
		ops := make([]*value.Value, len(v.Incs))
		for i, inc := range v.Incs {
			ops[i] = &inc.X
		}

		return ops, true
	case *ir.TermRet:
		if v.X == nil {
			return nil, true
		}

		return []*value.Value{&v.X}, true
	case *ir.TermBr:
		return nil, true
	case *ir.TermCondBr:
		return []*value.Value{&v.Cond}, true
	}

	return nil, false
}

// ReplaceAllUses replaces every use of old as an operand within f by repl.
func ReplaceAllUses(f *ir.Func, old, repl value.Value) {
	replace := func(inst interface{}) {
		ops, _ := Operands(inst)
		for _, op := range ops {
			if *op == old {
				*op = repl
			}
		}
	}

	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			replace(inst)
		}

		if b.Term != nil {
			replace(b.Term)
		}
	}
}

// -----------------------------------------------------------------------------

// FloatValue returns the value of a floating-point constant.
func FloatValue(c *constant.Float) float64 {
	if c.X == nil {
		return math.NaN()
	}

	x, _ := c.X.Float64()
	return x
}

// EvalFPred evaluates a floating-point comparison predicate.  The boolean is
// false for predicates which are not supported.
func EvalFPred(pred enum.FPred, x, y float64) (bool, bool) {
	unordered := math.IsNaN(x) || math.IsNaN(y)

	switch pred {
	case enum.FPredFalse:
		return false, true
	case enum.FPredTrue:
		return true, true
	case enum.FPredORD:
		return !unordered, true
	case enum.FPredUNO:
		return unordered, true
	case enum.FPredOEQ:
		return !unordered && x == y, true
	case enum.FPredONE:
		return !unordered && x != y, true
	case enum.FPredOLT:
		return !unordered && x < y, true
	case enum.FPredOLE:
		return !unordered && x <= y, true
	case enum.FPredOGT:
		return !unordered && x > y, true
	case enum.FPredOGE:
		return !unordered && x >= y, true
	case enum.FPredUEQ:
		return unordered || x == y, true
	case enum.FPredUNE:
		return unordered || x != y, true
	case enum.FPredULT:
		return unordered || x < y, true
	case enum.FPredULE:
		return unordered || x <= y, true
	case enum.FPredUGT:
		return unordered || x > y, true
	case enum.FPredUGE:
		return unordered || x >= y, true
	}

	return false, false
}
