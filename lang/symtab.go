package lang

import (
	"iter"
	"maps"
	"slices"
)

// Binding is a named entry of a [SymbolTable].
type Binding struct {
	Value Value

	// Declarations counts how many times the name was declared with a
	// matching type. It is 1 after the first declaration.
	Declarations int
}

// SymbolTable maps names to typed values for one script's analysis.
//
// The table owns every value reachable from it; values returned by [Lookup]
// are borrowed. It is not safe for concurrent mutation.
type SymbolTable struct {
	bindings map[string]*Binding
	registry *Registry
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		bindings: make(map[string]*Binding),
		registry: newRegistry(),
	}
}

// Declare binds name to v. If name is already bound, the existing value is
// kept, its declaration counter is incremented, and redeclared is true.
// Callers are responsible for checking that the types agree.
func (st *SymbolTable) Declare(name string, v Value) (redeclared bool) {
	if b, ok := st.bindings[name]; ok {
		b.Declarations++

		return true
	}

	st.bindings[name] = &Binding{Value: v, Declarations: 1}

	return false
}

// Set binds name to v, replacing any existing value but keeping the
// declaration counter.
func (st *SymbolTable) Set(name string, v Value) {
	if b, ok := st.bindings[name]; ok {
		b.Value = v

		return
	}

	st.bindings[name] = &Binding{Value: v, Declarations: 1}
}

// Lookup returns the value bound to name.
func (st *SymbolTable) Lookup(name string) (Value, bool) {
	b, ok := st.bindings[name]
	if !ok {
		return nil, false
	}

	return b.Value, true
}

// Binding returns the binding for name, including its declaration counter.
func (st *SymbolTable) Binding(name string) (*Binding, bool) {
	b, ok := st.bindings[name]

	return b, ok
}

// Has reports whether name is bound.
func (st *SymbolTable) Has(name string) bool {
	_, ok := st.bindings[name]

	return ok
}

// Len returns the number of bound names.
func (st *SymbolTable) Len() int { return len(st.bindings) }

// Names returns an iterator over all bound names in sorted order.
func (st *SymbolTable) Names() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(st.bindings)))
}

// All returns an iterator over all bindings in name order.
func (st *SymbolTable) All() iter.Seq2[string, *Binding] {
	return func(yield func(string, *Binding) bool) {
		for name := range st.Names() {
			if !yield(name, st.bindings[name]) {
				return
			}
		}
	}
}

// Registry returns the well-known-key registry owned by the table.
func (st *SymbolTable) Registry() *Registry { return st.registry }
