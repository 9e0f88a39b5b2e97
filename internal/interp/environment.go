package interp

import "fmt"

// Environment is a scope mapping names to values, linked to an enclosing
// environment. Lookups and assignments resolved by the static resolver
// pass walk exactly as many Enclosing links as the recorded depth;
// unresolved (global) references search starting from the chain's root.
//
// A closure captures its defining *Environment by holding a normal Go
// pointer to it. Go's tracing garbage collector reclaims the reference
// cycle between a recursive function and the scope that declares it —
// see SPEC_FULL.md §9.1 for why this replaces the source's manual
// Capture/Release discipline.
type Environment struct {
	values    map[string]Value
	Enclosing *Environment
}

// NewEnvironment creates a root-level environment with no enclosing
// scope — used once, for the interpreter's globals.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// NewEnclosedEnvironment creates a scope nested inside outer, used for
// block bodies, function calls, and class method binding.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{values: make(map[string]Value), Enclosing: outer}
}

// Define binds name to value in this scope, overwriting any existing
// binding for name in this same scope (re-declaration is legal at the
// global scope and inside a fresh function/block scope).
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get reads name starting from this scope and climbing enclosing scopes
// until found. Used only for unresolved (global) references.
func (e *Environment) Get(name string) (Value, bool) {
	if v, ok := e.values[name]; ok {
		return v, true
	}
	if e.Enclosing != nil {
		return e.Enclosing.Get(name)
	}
	return nil, false
}

// Assign writes value to the nearest enclosing scope (including this
// one) that already defines name. Returns an error if name is undefined
// anywhere in the chain.
func (e *Environment) Assign(name string, value Value) error {
	if _, ok := e.values[name]; ok {
		e.values[name] = value
		return nil
	}
	if e.Enclosing != nil {
		return e.Enclosing.Assign(name, value)
	}
	return fmt.Errorf("undefined variable '%s'", name)
}

// Ancestor climbs exactly distance Enclosing links. The resolver
// guarantees distance never overruns the chain for a successfully
// resolved reference.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.Enclosing
	}
	return env
}

// GetAt reads name from exactly the scope `distance` hops away — the
// resolved-depth lookup path spec.md §4.4 describes.
func (e *Environment) GetAt(distance int, name string) (Value, bool) {
	v, ok := e.Ancestor(distance).values[name]
	return v, ok
}

// AssignAt writes value into exactly the scope `distance` hops away.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.Ancestor(distance).values[name] = value
}
