package depm

import "kaso/syntax"

// Context is the state shared by every stage of compilation over the lifetime
// of a session: the operator table consulted by the parser and updated by code
// generation, and the registry of every function prototype seen so far.  It is
// created once when a session starts and is never reset.
type Context struct {
	Operators  *syntax.OperatorTable
	Prototypes *PrototypeRegistry
}

// NewContext creates a new session context with the built-in operators.
func NewContext() *Context {
	return &Context{
		Operators:  syntax.NewOperatorTable(),
		Prototypes: NewPrototypeRegistry(),
	}
}
