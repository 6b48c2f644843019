package evaluator

import "sort"

// Env holds the program's variable bindings.
// There is a single flat scope; blocks and loop bodies share it.
type Env struct {
	bindings map[string]BabuValue
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{bindings: make(map[string]BabuValue)}
}

// Get looks up a variable by name.
func (e *Env) Get(name string) (BabuValue, bool) {
	val, ok := e.bindings[name]
	return val, ok
}

// Set binds a variable, replacing any previous value.
func (e *Env) Set(name string, val BabuValue) {
	e.bindings[name] = val
}

// Delete removes a binding. Deleting an unbound name is a no-op.
func (e *Env) Delete(name string) {
	delete(e.bindings, name)
}

// Has reports whether a variable is bound.
func (e *Env) Has(name string) bool {
	_, ok := e.bindings[name]
	return ok
}

// Len returns the number of bindings.
func (e *Env) Len() int {
	return len(e.bindings)
}

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
