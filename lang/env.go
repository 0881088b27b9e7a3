package lang

import (
	"iter"
	"maps"
	"slices"
)

// Env is one scope in a chain of lexical scopes.
//
// Each scope holds its own variables and functions. Lookups walk from the
// innermost scope outward and return the first match; definitions always
// affect the innermost scope only.
//
// An Env is not safe for concurrent use.
type Env struct {
	vars   map[string]Value
	funcs  map[string]*Function
	parent *Env
}

// NewEnv returns an empty root scope.
func NewEnv() *Env {
	return &Env{
		vars:  make(map[string]Value),
		funcs: make(map[string]*Function),
	}
}

// NewChild returns an empty scope enclosed by e.
func (e *Env) NewChild() *Env {
	child := NewEnv()
	child.parent = e

	return child
}

// Parent returns the enclosing scope, or nil for a root scope.
func (e *Env) Parent() *Env { return e.parent }

// Lookup returns the innermost variable bound to name.
func (e *Env) Lookup(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}

	return None, false
}

// Value returns the innermost binding of name as a value. Within a scope a
// variable is preferred to a function of the same name.
func (e *Env) Value(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}

		if fn, ok := s.funcs[name]; ok {
			return NewFunction(fn), true
		}
	}

	return None, false
}

// Get returns the innermost variable bound to name, or a NameNotFound
// [RuntimeError].
func (e *Env) Get(name string) (Value, error) {
	if v, ok := e.Lookup(name); ok {
		return v, nil
	}

	return None, newRuntimeError(NameNotFound, "name '"+name+"' is not defined")
}

// Set binds name to v in this scope, shadowing any outer binding.
func (e *Env) Set(name string, v Value) { e.vars[name] = v }

// DefineFunction registers fn by name in this scope, replacing any earlier
// definition of the same name.
func (e *Env) DefineFunction(fn *Function) { e.funcs[fn.Name] = fn }

// LookupFunction returns the innermost function registered under name.
func (e *Env) LookupFunction(name string) (*Function, bool) {
	for s := e; s != nil; s = s.parent {
		if fn, ok := s.funcs[name]; ok {
			return fn, true
		}
	}

	return nil, false
}

// Resolve returns the callable bound to name.
//
// Scopes are searched innermost-first. Within a scope, its function table is
// consulted before its variables. The first variable found must hold a
// Function value or the call is a TypeError; a name bound to nothing is
// NameNotFound.
func (e *Env) Resolve(name string) (*Function, error) {
	for s := e; s != nil; s = s.parent {
		if fn, ok := s.funcs[name]; ok {
			return fn, nil
		}

		v, ok := s.vars[name]
		if !ok {
			continue
		}

		if v.Kind() != KindFunction {
			return nil, newRuntimeError(TypeError,
				"'"+name+"' is not callable ("+v.Kind().String()+")")
		}

		return v.AsFunction(), nil
	}

	return nil, newRuntimeError(NameNotFound,
		"function '"+name+"' is not defined")
}

// Bindings returns every name visible from e with the value it resolves to.
//
// Shadowed bindings are omitted. Within a scope a variable hides a function
// of the same name, which is otherwise yielded as a Function value. Names are
// sorted.
func (e *Env) Bindings() iter.Seq2[string, Value] {
	visible := make(map[string]Value)

	for s := e; s != nil; s = s.parent {
		for name, v := range s.vars {
			if _, ok := visible[name]; !ok {
				visible[name] = v
			}
		}

		for name, fn := range s.funcs {
			if _, ok := visible[name]; !ok {
				visible[name] = NewFunction(fn)
			}
		}
	}

	return func(yield func(string, Value) bool) {
		for _, name := range slices.Sorted(maps.Keys(visible)) {
			if !yield(name, visible[name]) {
				return
			}
		}
	}
}

// Names returns the sorted names visible from e.
func (e *Env) Names() []string {
	var names []string

	for name := range e.Bindings() {
		names = append(names, name)
	}

	return names
}
