package jit

import (
	"kaso/llc"
	"kaso/report"
)

// maxCallDepth is the deepest nesting of calls the engine will execute.
const maxCallDepth = 10000

// call calls sym with args at the given call depth.
func (e *Engine) call(sym *Symbol, args []float64, depth int) (float64, error) {
	if len(args) != sym.arity {
		return 0, report.RaiseRuntime("`%s` takes %d arguments but was called with %d", sym.name, sym.arity, len(args))
	}

	if depth >= maxCallDepth {
		return 0, report.RaiseRuntime("maximum call depth exceeded calling `%s`", sym.name)
	}

	if sym.native != nil {
		return sym.native(e, args), nil
	}

	return e.run(sym.prog, args, depth)
}

// run interprets prog.
func (e *Engine) run(prog *program, args []float64, depth int) (float64, error) {
	regs := make([]float64, prog.nregs)
	copy(regs, args)

	load := func(op operand) float64 {
		if op.isConst {
			return op.val
		}

		return regs[op.reg]
	}

	cur, prev := 0, -1
	for {
		b := &prog.blocks[cur]

		// All phis of a block select their values before any of them is
		// written.
		if len(b.phis) > 0 {
			vals := make([]float64, len(b.phis))
			for i, phi := range b.phis {
				op, ok := phi.incoming[prev]
				if !ok {
					return 0, report.RaiseRuntime("`%s`: phi has no value for its predecessor", prog.name)
				}

				vals[i] = load(op)
			}

			for i, phi := range b.phis {
				regs[phi.dst] = vals[i]
			}
		}

		for i := range b.instrs {
			in := &b.instrs[i]

			switch in.op {
			case opFAdd:
				regs[in.dst] = load(in.a) + load(in.b)
			case opFSub:
				regs[in.dst] = load(in.a) - load(in.b)
			case opFMul:
				regs[in.dst] = load(in.a) * load(in.b)
			case opFDiv:
				regs[in.dst] = load(in.a) / load(in.b)
			case opFCmp:
				if result, _ := llc.EvalFPred(in.pred, load(in.a), load(in.b)); result {
					regs[in.dst] = 1
				} else {
					regs[in.dst] = 0
				}
			case opUIToFP:
				regs[in.dst] = load(in.a)
			case opCall:
				callee, ok := e.FindSymbol(in.callee)
				if !ok {
					return 0, report.RaiseRuntime("unresolved symbol `%s`", in.callee)
				}

				callArgs := make([]float64, len(in.args))
				for j, arg := range in.args {
					callArgs[j] = load(arg)
				}

				result, err := e.call(callee, callArgs, depth+1)
				if err != nil {
					return 0, err
				}

				regs[in.dst] = result
			}
		}

		switch b.term {
		case termRet:
			return load(b.ret), nil
		case termBr:
			prev, cur = cur, b.targets[0]
		case termCondBr:
			if load(b.cond) != 0 {
				prev, cur = cur, b.targets[0]
			} else {
				prev, cur = cur, b.targets[1]
			}
		}
	}
}
