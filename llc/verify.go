package llc

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Verify checks that the function is structurally valid: every block is
// terminated and only branches to blocks of the function, phi nodes lead their
// blocks and have exactly one incoming value per predecessor, every operand is
// defined within the function, and the function returns doubles.
func Verify(f *ir.Func) error {
	if IsDeclaration(f) {
		return fmt.Errorf("function `%s` has no body", f.Name())
	}

	if !types.Equal(f.Sig.RetType, types.Double) {
		return fmt.Errorf("function `%s` must return double", f.Name())
	}

	blocks := make(map[*ir.Block]bool, len(f.Blocks))
	defined := make(map[value.Value]bool)
	for _, param := range f.Params {
		defined[param] = true
	}

	for _, b := range f.Blocks {
		blocks[b] = true

		for _, inst := range b.Insts {
			if v, ok := inst.(value.Value); ok {
				defined[v] = true
			}
		}
	}

	preds := Predecessors(f)
	for _, b := range f.Blocks {
		if b.Term == nil {
			return fmt.Errorf("block `%s` of `%s` is not terminated", b.Name(), f.Name())
		}

		for _, succ := range Successors(b) {
			if !blocks[succ] {
				return fmt.Errorf("block `%s` of `%s` branches outside of its function", b.Name(), f.Name())
			}
		}

		leadingPhis := true
		for _, inst := range b.Insts {
			if phi, ok := inst.(*ir.InstPhi); ok {
				if !leadingPhis {
					return fmt.Errorf("phi in block `%s` of `%s` follows a non-phi instruction", b.Name(), f.Name())
				}

				if err := verifyPhi(f, b, phi, preds[b]); err != nil {
					return err
				}
			} else {
				leadingPhis = false
			}

			if err := verifyOperands(f, inst, defined); err != nil {
				return err
			}
		}

		if err := verifyOperands(f, b.Term, defined); err != nil {
			return err
		}

		if ret, ok := b.Term.(*ir.TermRet); ok && (ret.X == nil || !types.Equal(ret.X.Type(), types.Double)) {
			return fmt.Errorf("block `%s` of `%s` must return a double", b.Name(), f.Name())
		}
	}

	return nil
}

// verifyPhi checks that phi has exactly one incoming value for each of preds.
func verifyPhi(f *ir.Func, b *ir.Block, phi *ir.InstPhi, preds []*ir.Block) error {
	if len(phi.Incs) != len(preds) {
		return fmt.Errorf(
			"phi in block `%s` of `%s` has %d incoming values but the block has %d predecessors",
			b.Name(), f.Name(), len(phi.Incs), len(preds),
		)
	}

	for _, inc := range phi.Incs {
		pred, ok := AsBlock(inc.Pred)
		if !ok || !containsBlock(preds, pred) {
			return fmt.Errorf("phi in block `%s` of `%s` has an incoming value from a non-predecessor", b.Name(), f.Name())
		}
	}

	return nil
}

// verifyOperands checks that every operand of inst is defined.
func verifyOperands(f *ir.Func, inst interface{}, defined map[value.Value]bool) error {
	ops, ok := Operands(inst)
	if !ok {
		return fmt.Errorf("unsupported instruction in `%s`: %T", f.Name(), inst)
	}

	for _, op := range ops {
		switch v := (*op).(type) {
		case *constant.Float, *constant.Int:
		case nil:
			return fmt.Errorf("missing operand in `%s`", f.Name())
		default:
			if !defined[v] {
				return fmt.Errorf("operand of `%s` is not defined in the function", f.Name())
			}
		}
	}

	if call, ok := inst.(*ir.InstCall); ok {
		if _, ok := call.Callee.(*ir.Func); !ok {
			return fmt.Errorf("indirect call in `%s`", f.Name())
		}
	}

	return nil
}

func containsBlock(blocks []*ir.Block, b *ir.Block) bool {
	for _, ob := range blocks {
		if ob == b {
			return true
		}
	}

	return false
}
