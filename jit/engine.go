package jit

import (
	"fmt"
	"io"
	"kaso/llc"
)

// Handle identifies a unit loaded into an engine.
type Handle int

// Engine is the execution engine: it holds the functions of every loaded unit
// and executes them on request.  Calls between functions are resolved by name
// each time they are made, so a function only depends on its callees being
// loaded when it is actually called and unloading a unit never invalidates the
// functions of any other unit.
type Engine struct {
	// The sink the output built-ins write to.
	out io.Writer

	// The loaded units by handle and their load order (oldest first).
	units map[Handle]*loadedUnit
	order []Handle

	// The handle to assign to the next loaded unit.
	nextHandle Handle

	// The built-in functions resolvable by name.
	builtins map[string]*Symbol
}

// loadedUnit is a unit whose functions have been compiled by the engine.
type loadedUnit struct {
	name    string
	symbols map[string]*Symbol
}

// NewEngine creates a new execution engine whose output built-ins write to out.
func NewEngine(out io.Writer) *Engine {
	e := &Engine{
		out:        out,
		units:      make(map[Handle]*loadedUnit),
		nextHandle: 1,
		builtins:   make(map[string]*Symbol),
	}

	for name, bi := range builtinFuncs {
		e.builtins[name] = &Symbol{name: name, arity: bi.arity, eng: e, native: bi.fn}
	}

	return e
}

// Load compiles every function with a body in the unit and makes them
// resolvable by name.  Functions of the most recently loaded unit shadow those
// of earlier units with the same name.  If any function fails to compile,
// nothing is loaded.
func (e *Engine) Load(unit *llc.Unit) (Handle, error) {
	lu := &loadedUnit{
		name:    unit.Name(),
		symbols: make(map[string]*Symbol),
	}

	for _, f := range unit.Funcs() {
		if llc.IsDeclaration(f) {
			continue
		}

		prog, err := compileFunc(f)
		if err != nil {
			return 0, err
		}

		lu.symbols[prog.name] = &Symbol{name: prog.name, arity: prog.nparams, eng: e, prog: prog}
	}

	handle := e.nextHandle
	e.nextHandle++

	e.units[handle] = lu
	e.order = append(e.order, handle)
	return handle, nil
}

// Unload removes the unit's functions from the engine.
func (e *Engine) Unload(handle Handle) error {
	if _, ok := e.units[handle]; !ok {
		return fmt.Errorf("no unit loaded with handle %d", handle)
	}

	delete(e.units, handle)
	for i, h := range e.order {
		if h == handle {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}

	return nil
}

// FindSymbol looks up the function with the given name.  The most recently
// loaded definition is preferred and built-ins are only used if no loaded unit
// defines the name.
func (e *Engine) FindSymbol(name string) (*Symbol, bool) {
	for i := len(e.order) - 1; i >= 0; i-- {
		if sym, ok := e.units[e.order[i]].symbols[name]; ok {
			return sym, true
		}
	}

	sym, ok := e.builtins[name]
	return sym, ok
}

// -----------------------------------------------------------------------------

// Symbol is a callable function known to the engine.
type Symbol struct {
	name  string
	arity int
	eng   *Engine

	// Exactly one of prog and native is set.
	prog   *program
	native builtinFunc
}

// Name returns the name of the function.
func (s *Symbol) Name() string {
	return s.name
}

// Arity returns the number of arguments the function takes.
func (s *Symbol) Arity() int {
	return s.arity
}

// Call calls the function with the given arguments.
func (s *Symbol) Call(args ...float64) (float64, error) {
	return s.eng.call(s, args, 0)
}
