package generate

import "github.com/llir/llvm/ir/value"

// Scope maps the variables visible within a function body to their values.
type Scope struct {
	vars map[string]value.Value
}

// NewScope creates a new empty scope.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]value.Value)}
}

// Bind binds name to v.
func (s *Scope) Bind(name string, v value.Value) {
	s.vars[name] = v
}

// Lookup returns the value bound to name.
func (s *Scope) Lookup(name string) (value.Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Shadow binds name to v until the returned function is called, at which
// point the previous binding of name (or its absence) is restored.  The
// returned function should always be deferred.
func (s *Scope) Shadow(name string, v value.Value) func() {
	prev, hadPrev := s.vars[name]
	s.vars[name] = v

	return func() {
		if hadPrev {
			s.vars[name] = prev
		} else {
			delete(s.vars, name)
		}
	}
}
