package depm

import (
	"kaso/ast"
	"sort"
)

// PrototypeRegistry maps function names to their most recently registered
// prototype.  Entries outlive the compilation unit which declared them so that
// a function defined in one unit can be redeclared and called from another.
type PrototypeRegistry struct {
	protos map[string]*ast.Prototype
}

// NewPrototypeRegistry creates a new empty prototype registry.
func NewPrototypeRegistry() *PrototypeRegistry {
	return &PrototypeRegistry{protos: make(map[string]*ast.Prototype)}
}

// Register registers proto under its name overwriting any existing entry.
func (pr *PrototypeRegistry) Register(proto *ast.Prototype) {
	pr.protos[proto.Name] = proto
}

// Resolve looks up the prototype registered under name.
func (pr *PrototypeRegistry) Resolve(name string) (*ast.Prototype, bool) {
	proto, ok := pr.protos[name]
	return proto, ok
}

// Names returns the registered names in sorted order.
func (pr *PrototypeRegistry) Names() []string {
	names := make([]string, 0, len(pr.protos))
	for name := range pr.protos {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Len returns the number of registered prototypes.
func (pr *PrototypeRegistry) Len() int {
	return len(pr.protos)
}
