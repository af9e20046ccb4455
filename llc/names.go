package llc

import "fmt"

// LocalNames hands out the local names of one function.  A name which is
// already taken is suffixed with a counter as LLVM does: `x`, `x1`, `x2`.
type LocalNames struct {
	// used maps every name handed out to the last suffix tried for it.
	used map[string]int
}

// NewLocalNames creates an empty set of local names.
func NewLocalNames() *LocalNames {
	return &LocalNames{used: make(map[string]int)}
}

// Unique returns name if it is not yet taken and a suffixed form of it
// otherwise.  The returned name is marked as taken.
func (ln *LocalNames) Unique(name string) string {
	if _, ok := ln.used[name]; !ok {
		ln.used[name] = 0
		return name
	}

	for {
		ln.used[name]++

		candidate := fmt.Sprintf("%s%d", name, ln.used[name])
		if _, ok := ln.used[candidate]; !ok {
			ln.used[candidate] = 0
			return candidate
		}
	}
}
