package jit

import (
	"fmt"
	"kaso/llc"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// program is a function compiled for the interpreter.  Every value the
// function computes lives in a register: the parameters occupy the first
// registers followed by one register per value-producing instruction.
type program struct {
	name    string
	nparams int
	nregs   int
	blocks  []block
}

// block is a compiled basic block.
type block struct {
	phis   []phiNode
	instrs []instr

	term    int
	ret     operand
	cond    operand
	targets [2]int
}

// Enumeration of terminator kinds.
const (
	termRet = iota
	termBr
	termCondBr
)

// phiNode selects the value of a register based on the block control came
// from: incoming is indexed by predecessor block index.
type phiNode struct {
	dst      int
	incoming map[int]operand
}

// Enumeration of instruction opcodes.
const (
	opFAdd = iota
	opFSub
	opFMul
	opFDiv
	opFCmp
	opUIToFP
	opCall
)

// instr is a compiled instruction.
type instr struct {
	op   int
	dst  int
	a, b operand
	pred enum.FPred

	callee string
	args   []operand
}

// operand is either a constant or a register.
type operand struct {
	isConst bool
	reg     int
	val     float64
}

// -----------------------------------------------------------------------------

// compiler compiles a single LLVM function into a program.
type compiler struct {
	f        *ir.Func
	regs     map[value.Value]int
	blockIdx map[*ir.Block]int
}

// compileFunc compiles f.  f must have a body.
func compileFunc(f *ir.Func) (*program, error) {
	c := &compiler{
		f:        f,
		regs:     make(map[value.Value]int),
		blockIdx: make(map[*ir.Block]int, len(f.Blocks)),
	}

	prog := &program{
		name:    f.Name(),
		nparams: len(f.Params),
		blocks:  make([]block, len(f.Blocks)),
	}

	// Registers and block indices are assigned up front since phis may refer
	// to values and blocks which come after them.
	for i, param := range f.Params {
		c.regs[param] = i
	}

	nregs := len(f.Params)
	for i, b := range f.Blocks {
		c.blockIdx[b] = i

		for _, inst := range b.Insts {
			if v, ok := inst.(value.Value); ok {
				c.regs[v] = nregs
				nregs++
			}
		}
	}

	prog.nregs = nregs

	for i, b := range f.Blocks {
		if err := c.compileBlock(b, &prog.blocks[i]); err != nil {
			return nil, err
		}
	}

	return prog, nil
}

// compileBlock compiles the basic block b into cb.
func (c *compiler) compileBlock(b *ir.Block, cb *block) error {
	for _, inst := range b.Insts {
		dst := -1
		if v, ok := inst.(value.Value); ok {
			dst = c.regs[v]
		}

		switch v := inst.(type) {
		case *ir.InstPhi:
			phi := phiNode{dst: dst, incoming: make(map[int]operand, len(v.Incs))}
			for _, inc := range v.Incs {
				pred, ok := llc.AsBlock(inc.Pred)
				if !ok {
					return c.errorf("phi with a non-block predecessor")
				}

				predIdx, ok := c.blockIdx[pred]
				if !ok {
					return c.errorf("phi with a predecessor outside of the function")
				}

				op, err := c.operand(inc.X)
				if err != nil {
					return err
				}

				phi.incoming[predIdx] = op
			}

			cb.phis = append(cb.phis, phi)
		case *ir.InstFAdd:
			if err := c.binary(cb, opFAdd, dst, v.X, v.Y); err != nil {
				return err
			}
		case *ir.InstFSub:
			if err := c.binary(cb, opFSub, dst, v.X, v.Y); err != nil {
				return err
			}
		case *ir.InstFMul:
			if err := c.binary(cb, opFMul, dst, v.X, v.Y); err != nil {
				return err
			}
		case *ir.InstFDiv:
			if err := c.binary(cb, opFDiv, dst, v.X, v.Y); err != nil {
				return err
			}
		case *ir.InstFCmp:
			if _, ok := llc.EvalFPred(v.Pred, 0, 0); !ok {
				return c.errorf("unsupported comparison predicate `%s`", v.Pred)
			}

			if err := c.binary(cb, opFCmp, dst, v.X, v.Y); err != nil {
				return err
			}

			cb.instrs[len(cb.instrs)-1].pred = v.Pred
		case *ir.InstUIToFP:
			a, err := c.operand(v.From)
			if err != nil {
				return err
			}

			cb.instrs = append(cb.instrs, instr{op: opUIToFP, dst: dst, a: a})
		case *ir.InstCall:
			callee, ok := v.Callee.(*ir.Func)
			if !ok {
				return c.errorf("indirect calls are not supported")
			}

			args := make([]operand, len(v.Args))
			for i, arg := range v.Args {
				op, err := c.operand(arg)
				if err != nil {
					return err
				}

				args[i] = op
			}

			cb.instrs = append(cb.instrs, instr{op: opCall, dst: dst, callee: callee.Name(), args: args})
		default:
			return c.errorf("unsupported instruction `%s`", inst.LLString())
		}
	}

	return c.compileTerm(b, cb)
}

// compileTerm compiles the terminator of b into cb.
func (c *compiler) compileTerm(b *ir.Block, cb *block) error {
	switch term := b.Term.(type) {
	case *ir.TermRet:
		if term.X == nil {
			return c.errorf("function must return a value")
		}

		op, err := c.operand(term.X)
		if err != nil {
			return err
		}

		cb.term = termRet
		cb.ret = op
	case *ir.TermBr:
		target, err := c.target(term.Target)
		if err != nil {
			return err
		}

		cb.term = termBr
		cb.targets[0] = target
	case *ir.TermCondBr:
		cond, err := c.operand(term.Cond)
		if err != nil {
			return err
		}

		targetTrue, err := c.target(term.TargetTrue)
		if err != nil {
			return err
		}

		targetFalse, err := c.target(term.TargetFalse)
		if err != nil {
			return err
		}

		cb.term = termCondBr
		cb.cond = cond
		cb.targets = [2]int{targetTrue, targetFalse}
	case nil:
		return c.errorf("block `%s` is not terminated", b.Name())
	default:
		return c.errorf("unsupported terminator `%s`", term.LLString())
	}

	return nil
}

// binary appends a two operand instruction to cb.
func (c *compiler) binary(cb *block, op, dst int, x, y value.Value) error {
	a, err := c.operand(x)
	if err != nil {
		return err
	}

	b, err := c.operand(y)
	if err != nil {
		return err
	}

	cb.instrs = append(cb.instrs, instr{op: op, dst: dst, a: a, b: b})
	return nil
}

// operand compiles a value used as an operand.
func (c *compiler) operand(v value.Value) (operand, error) {
	switch cv := v.(type) {
	case *constant.Float:
		return operand{isConst: true, val: llc.FloatValue(cv)}, nil
	case *constant.Int:
		if cv.X.Sign() != 0 {
			return operand{isConst: true, val: 1}, nil
		}

		return operand{isConst: true, val: 0}, nil
	}

	if reg, ok := c.regs[v]; ok {
		return operand{reg: reg}, nil
	}

	return operand{}, c.errorf("use of a value not defined in the function")
}

// target resolves a branch target to its block index.
func (c *compiler) target(v interface{}) (int, error) {
	b, ok := llc.AsBlock(v)
	if !ok {
		return 0, c.errorf("branch to a non-block")
	}

	idx, ok := c.blockIdx[b]
	if !ok {
		return 0, c.errorf("branch to a block outside of the function")
	}

	return idx, nil
}

// errorf creates a compilation error for the function being compiled.
func (c *compiler) errorf(msg string, args ...interface{}) error {
	return fmt.Errorf("compiling `%s`: %s", c.f.Name(), fmt.Sprintf(msg, args...))
}
