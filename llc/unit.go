package llc

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// Unit is a compilation unit: an LLVM module which functions are lowered into
// one at a time.  A unit is append-only while it is active and is treated as
// frozen once it has been handed to the execution engine.
type Unit struct {
	// The name of the unit used when displaying it.
	name string

	// The LLVM module backing the unit.
	mod *ir.Module
}

// NewUnit creates a new empty compilation unit.
func NewUnit(name string) *Unit {
	return &Unit{
		name: name,
		mod:  ir.NewModule(),
	}
}

// Name returns the name of the unit.
func (u *Unit) Name() string {
	return u.name
}

// Module returns the LLVM module backing the unit.
func (u *Unit) Module() *ir.Module {
	return u.mod
}

// Funcs returns the functions of the unit in declaration order.
func (u *Unit) Funcs() []*ir.Func {
	return u.mod.Funcs
}

// Func returns the function of the unit with the given name if it exists.
func (u *Unit) Func(name string) (*ir.Func, bool) {
	for _, f := range u.mod.Funcs {
		if f.Name() == name {
			return f, true
		}
	}

	return nil, false
}

// DeclareFunc declares a new function in the unit taking one double parameter
// for each given name and returning a double.  Repeated parameter names are
// made unique.  The function has no body until one is begun with BeginBody.
func (u *Unit) DeclareFunc(name string, params []string) *ir.Func {
	names := NewLocalNames()

	irParams := make([]*ir.Param, len(params))
	for i, param := range params {
		irParams[i] = ir.NewParam(names.Unique(param), types.Double)
	}

	return u.mod.NewFunc(name, types.Double, irParams...)
}

// EraseFunc removes the function from the unit.
func (u *Unit) EraseFunc(f *ir.Func) {
	for i, uf := range u.mod.Funcs {
		if uf == f {
			u.mod.Funcs = append(u.mod.Funcs[:i], u.mod.Funcs[i+1:]...)
			return
		}
	}
}

// String returns the LLVM IR of the unit.
func (u *Unit) String() string {
	return "; unit " + u.name + "\n" + u.mod.String()
}

// -----------------------------------------------------------------------------

// IsDeclaration returns whether the function has no body.
func IsDeclaration(f *ir.Func) bool {
	return len(f.Blocks) == 0
}

// BeginBody creates the entry block of the function and returns it.  Code is
// emitted into the function by appending instructions to the returned block.
func BeginBody(f *ir.Func) *ir.Block {
	return f.NewBlock("entry")
}
