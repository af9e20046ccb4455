package llc

import (
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Optimize runs the function-level optimization passes over f until none of
// them changes it: constant folding, branch simplification on constant
// conditions, unreachable block removal and phi simplification.  Optimization
// never changes the value f computes.
func Optimize(f *ir.Func) {
	if IsDeclaration(f) {
		return
	}

	for {
		changed := foldConstants(f)
		changed = simplifyBranches(f) || changed
		changed = removeUnreachableBlocks(f) || changed
		changed = simplifyPhis(f) || changed

		if !changed {
			return
		}
	}
}

// -----------------------------------------------------------------------------

// foldConstants replaces instructions whose operands are all constants by the
// constant they compute.
func foldConstants(f *ir.Func) bool {
	changed := false

	for _, b := range f.Blocks {
		for i := 0; i < len(b.Insts); {
			inst := b.Insts[i]

			c, ok := foldInst(inst)
			if !ok {
				i++
				continue
			}

			ReplaceAllUses(f, inst.(value.Value), c)
			b.Insts = append(b.Insts[:i], b.Insts[i+1:]...)
			changed = true
		}
	}

	return changed
}

// foldInst computes the constant value of inst if it has one.
func foldInst(inst ir.Instruction) (constant.Constant, bool) {
	switch v := inst.(type) {
	case *ir.InstFAdd:
		return foldArith(v.X, v.Y, func(x, y float64) float64 { return x + y })
	case *ir.InstFSub:
		return foldArith(v.X, v.Y, func(x, y float64) float64 { return x - y })
	case *ir.InstFMul:
		return foldArith(v.X, v.Y, func(x, y float64) float64 { return x * y })
	case *ir.InstFDiv:
		return foldArith(v.X, v.Y, func(x, y float64) float64 { return x / y })
	case *ir.InstFCmp:
		x, xok := v.X.(*constant.Float)
		y, yok := v.Y.(*constant.Float)
		if !xok || !yok {
			return nil, false
		}

		result, ok := EvalFPred(v.Pred, FloatValue(x), FloatValue(y))
		if !ok {
			return nil, false
		}

		return constant.NewBool(result), true
	case *ir.InstUIToFP:
		from, ok := v.From.(*constant.Int)
		if !ok || from.X.Sign() < 0 {
			return nil, false
		}

		return constant.NewFloat(types.Double, float64(from.X.Uint64())), true
	}

	return nil, false
}

// foldArith folds a binary floating-point operation on two constants.  Results
// which are not finite are left to be computed at runtime.
func foldArith(xv, yv value.Value, op func(x, y float64) float64) (constant.Constant, bool) {
	x, xok := xv.(*constant.Float)
	y, yok := yv.(*constant.Float)
	if !xok || !yok {
		return nil, false
	}

	result := op(FloatValue(x), FloatValue(y))
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return nil, false
	}

	return constant.NewFloat(types.Double, result), true
}

// -----------------------------------------------------------------------------

// simplifyBranches turns conditional branches on constant conditions into
// unconditional branches.
func simplifyBranches(f *ir.Func) bool {
	changed := false

	for _, b := range f.Blocks {
		condBr, ok := b.Term.(*ir.TermCondBr)
		if !ok {
			continue
		}

		cond, ok := condBr.Cond.(*constant.Int)
		if !ok {
			continue
		}

		var target *ir.Block
		if cond.X.Sign() != 0 {
			target, ok = AsBlock(condBr.TargetTrue)
		} else {
			target, ok = AsBlock(condBr.TargetFalse)
		}

		if ok {
			b.NewBr(target)
			changed = true
		}
	}

	return changed
}

// removeUnreachableBlocks removes the blocks which cannot be reached from the
// entry block.
func removeUnreachableBlocks(f *ir.Func) bool {
	reachable := map[*ir.Block]bool{f.Blocks[0]: true}
	worklist := []*ir.Block{f.Blocks[0]}
	for len(worklist) > 0 {
		b := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		for _, succ := range Successors(b) {
			if !reachable[succ] {
				reachable[succ] = true
				worklist = append(worklist, succ)
			}
		}
	}

	if len(reachable) == len(f.Blocks) {
		return false
	}

	blocks := f.Blocks[:0]
	for _, b := range f.Blocks {
		if reachable[b] {
			blocks = append(blocks, b)
		}
	}

	f.Blocks = blocks
	return true
}

// simplifyPhis drops incoming values from blocks which are no longer
// predecessors and replaces phis which select a single value by that value.
func simplifyPhis(f *ir.Func) bool {
	changed := false
	preds := Predecessors(f)

	for _, b := range f.Blocks {
		for i := 0; i < len(b.Insts); {
			phi, ok := b.Insts[i].(*ir.InstPhi)
			if !ok {
				i++
				continue
			}

			incs := phi.Incs[:0]
			for _, inc := range phi.Incs {
				if pred, ok := AsBlock(inc.Pred); ok && containsBlock(preds[b], pred) {
					incs = append(incs, inc)
				}
			}

			if len(incs) != len(phi.Incs) {
				phi.Incs = incs
				changed = true
			}

			if v, ok := uniqueIncoming(phi); ok {
				ReplaceAllUses(f, phi, v)
				b.Insts = append(b.Insts[:i], b.Insts[i+1:]...)
				changed = true
				continue
			}

			i++
		}
	}

	return changed
}

// uniqueIncoming returns the value a phi selects if every incoming value is the
// same.
func uniqueIncoming(phi *ir.InstPhi) (value.Value, bool) {
	if len(phi.Incs) == 0 {
		return nil, false
	}

	first := phi.Incs[0].X
	if first == value.Value(phi) {
		return nil, false
	}

	for _, inc := range phi.Incs[1:] {
		if !sameValue(first, inc.X) {
			return nil, false
		}
	}

	return first, true
}

// sameValue returns whether two operands always hold the same value.
func sameValue(a, b value.Value) bool {
	if a == b {
		return true
	}

	ac, aok := a.(*constant.Float)
	bc, bok := b.(*constant.Float)
	return aok && bok && FloatValue(ac) == FloatValue(bc)
}
