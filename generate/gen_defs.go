package generate

import (
	"kaso/ast"
	"kaso/llc"
	"kaso/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// GenPrototype declares the function described by proto in the active unit.
// A declaration of the same function already in the unit is reused.
func (g *Generator) GenPrototype(proto *ast.Prototype) (*ir.Func, error) {
	if f, ok := g.unit.Func(proto.Name); ok {
		if len(f.Params) == len(proto.Params) {
			return f, nil
		}

		if !llc.IsDeclaration(f) {
			return nil, report.RaiseLowering(
				proto.Span(),
				"`%s` is already defined with %d parameters",
				proto.Name, len(f.Params),
			)
		}

		g.unit.EraseFunc(f)
	}

	return g.unit.DeclareFunc(proto.Name, proto.Params), nil
}

// getFunction returns the function with the given name declaring it in the
// active unit from its registered prototype if necessary.
func (g *Generator) getFunction(name string) (*ir.Func, bool) {
	if f, ok := g.unit.Func(name); ok {
		return f, true
	}

	if proto, ok := g.ctx.Prototypes.Resolve(name); ok {
		return g.unit.DeclareFunc(proto.Name, proto.Params), true
	}

	return nil, false
}

// GenFuncDef lowers a function definition into the active unit.  If lowering
// fails, the function is removed from the unit and the operator table is
// returned to its prior state.  The prototype remains registered.
func (g *Generator) GenFuncDef(def *ast.FuncDef) (*ir.Func, error) {
	proto := def.Proto

	// The prototype is registered before the body is lowered so that the
	// function can call itself.
	g.ctx.Prototypes.Register(proto)

	f, _ := g.getFunction(proto.Name)
	if !llc.IsDeclaration(f) {
		return nil, report.RaiseLowering(proto.Span(), "function `%s` cannot be redefined", proto.Name)
	} else if len(f.Params) != len(proto.Params) {
		g.unit.EraseFunc(f)
		f = g.unit.DeclareFunc(proto.Name, proto.Params)
	}

	var restorePrec func()
	if proto.IsBinaryOp() {
		restorePrec = g.installPrecedence(proto)
	}

	body, err := g.genBody(f, def)
	if err != nil {
		g.unit.EraseFunc(f)

		if restorePrec != nil {
			restorePrec()
		}

		return nil, err
	}

	g.block.NewRet(body)

	if err := llc.Verify(f); err != nil {
		g.unit.EraseFunc(f)
		return nil, report.ICE("generated invalid code for `%s`: %s", proto.Name, err)
	}

	if g.optimize {
		llc.Optimize(f)
	}

	return f, nil
}

// installPrecedence installs the precedence of a binary operator.  It returns
// a function which restores the operator's previous precedence.
func (g *Generator) installPrecedence(proto *ast.Prototype) func() {
	ops := g.ctx.Operators
	prevPrec, hadPrec := ops.Lookup(proto.Op.Kind)

	ops.SetPrecedence(proto.Op.Kind, proto.Precedence)

	return func() {
		if hadPrec {
			ops.SetPrecedence(proto.Op.Kind, prevPrec)
		} else {
			ops.Remove(proto.Op.Kind)
		}
	}
}

// genBody lowers the body of def into f in a fresh scope holding only the
// function's parameters.
func (g *Generator) genBody(f *ir.Func, def *ast.FuncDef) (value.Value, error) {
	g.enclosingFunc = f
	g.blockCounter = 0
	g.names = llc.NewLocalNames()
	g.scope = NewScope()

	// A repeated parameter name refers to the last parameter of that name.
	for i, param := range f.Params {
		param.SetName(g.names.Unique(def.Proto.Params[i]))
		g.scope.Bind(def.Proto.Params[i], param)
	}

	g.block = llc.BeginBody(f)
	g.block.SetName(g.names.Unique(g.block.Name()))

	return g.genExpr(def.Body)
}
