package generate

import (
	"fmt"
	"kaso/depm"
	"kaso/llc"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// Generator is responsible for lowering the AST into LLVM IR.  It lowers one
// function at a time into the session's active compilation unit.
type Generator struct {
	// ctx is the session context: its prototype registry resolves calls to
	// functions not declared in the active unit and its operator table is
	// updated by binary operator definitions.
	ctx *depm.Context

	// unit is the active compilation unit.
	unit *llc.Unit

	// optimize indicates whether functions are optimized once lowered.
	optimize bool

	// enclosingFunc is function enclosing the block being generated.
	enclosingFunc *ir.Func

	// block is the current block being generated.
	block *ir.Block

	// blockCounter numbers the blocks of the enclosing function.
	blockCounter int

	// names holds the local names taken in the enclosing function.
	names *llc.LocalNames

	// scope holds the variables visible in the function being generated.
	scope *Scope
}

// NewGenerator creates a new generator lowering into unit.
func NewGenerator(ctx *depm.Context, unit *llc.Unit, optimize bool) *Generator {
	return &Generator{
		ctx:      ctx,
		unit:     unit,
		optimize: optimize,
		scope:    NewScope(),
	}
}

// Unit returns the active compilation unit.
func (g *Generator) Unit() *llc.Unit {
	return g.unit
}

// SetUnit changes the active compilation unit.
func (g *Generator) SetUnit(unit *llc.Unit) {
	g.unit = unit
}

// -----------------------------------------------------------------------------

// newBlock creates a new basic block which is not yet part of the enclosing
// function.
func (g *Generator) newBlock(prefix string) *ir.Block {
	g.blockCounter++
	return ir.NewBlock(g.names.Unique(fmt.Sprintf("%s%d", prefix, g.blockCounter)))
}

// appendBlock adds a block to the end of the enclosing function.  It does *not*
// set the current block to this new block.
func (g *Generator) appendBlock(b *ir.Block) {
	b.Parent = g.enclosingFunc
	g.enclosingFunc.Blocks = append(g.enclosingFunc.Blocks, b)
}

// zero returns the constant 0.0.
func zero() *constant.Float {
	return constant.NewFloat(types.Double, 0)
}
