package runtime

import "fmt"

// BindingKind distinguishes the declaration form that created a binding,
// which governs hoisting and mutability (§3 Environment).
type BindingKind int

const (
	BindingVar BindingKind = iota
	BindingLet
	BindingConst
	BindingParam
	BindingFunction
)

type binding struct {
	value Value
	kind  BindingKind
	// initialized is false for let/const between block entry and their
	// declaration statement executing: reads in that interval are a TDZ
	// reference error (§3, §8 TDZ invariant).
	initialized bool
}

// Environment is a lexically nested scope record: a name→binding map with a
// parent pointer. `var` binds at the enclosing function/global scope;
// `let`/`const` bind at the block (§3, §4.2).
type Environment struct {
	store map[string]*binding
	outer *Environment
	// isFunctionScope marks an environment created for a function call (as
	// opposed to a block): `var` hoisting climbs to the nearest one of
	// these instead of binding in an intervening block environment.
	isFunctionScope bool
}

func NewGlobalEnvironment() *Environment {
	return &Environment{store: map[string]*binding{}, isFunctionScope: true}
}

func NewFunctionEnvironment(outer *Environment) *Environment {
	return &Environment{store: map[string]*binding{}, outer: outer, isFunctionScope: true}
}

func NewBlockEnvironment(outer *Environment) *Environment {
	return &Environment{store: map[string]*binding{}, outer: outer}
}

// functionScope returns the nearest enclosing environment that hoists var
// declarations (a function scope or the global scope).
func (e *Environment) functionScope() *Environment {
	cur := e
	for !cur.isFunctionScope && cur.outer != nil {
		cur = cur.outer
	}
	return cur
}

// DeclareVar hoists a `var`/function declaration into the nearest function
// scope. Re-declaring an existing var is a no-op (last writer at runtime
// wins via Set, not re-declaration); only a defined initial value, such as a
// hoisted function, replaces an existing binding's value.
func (e *Environment) DeclareVar(name string, initial Value) {
	scope := e.functionScope()
	if b, ok := scope.store[name]; ok {
		b.initialized = true
		if initial != nil && !IsUndefined(initial) {
			b.value = initial
		}
		return
	}
	scope.store[name] = &binding{value: initial, kind: BindingVar, initialized: true}
}

// DeclareLet/DeclareConst create a block-scoped binding, uninitialized
// (TDZ) until Initialize is called — mirroring a two-phase hoist-then-run
// block entry.
func (e *Environment) DeclareLet(name string) {
	e.store[name] = &binding{kind: BindingLet, initialized: false}
}

func (e *Environment) DeclareConst(name string) {
	e.store[name] = &binding{kind: BindingConst, initialized: false}
}

func (e *Environment) DeclareParam(name string, v Value) {
	e.store[name] = &binding{value: v, kind: BindingParam, initialized: true}
}

// Initialize assigns the first value to a let/const binding declared in
// this exact environment, clearing its TDZ flag.
func (e *Environment) Initialize(name string, v Value) error {
	b, ok := e.store[name]
	if !ok {
		return fmt.Errorf("internal error: %s not declared in this scope", name)
	}
	b.value = v
	b.initialized = true
	return nil
}

// Get resolves name up the scope chain, returning a TDZ error if found but
// not yet initialized.
func (e *Environment) Get(name string) (Value, error) {
	for cur := e; cur != nil; cur = cur.outer {
		if b, ok := cur.store[name]; ok {
			if !b.initialized {
				return nil, fmt.Errorf("cannot access '%s' before initialization", name)
			}
			return b.value, nil
		}
	}
	return nil, fmt.Errorf("%s is not defined", name)
}

// Has reports whether name is bound anywhere in the chain (ignoring TDZ).
func (e *Environment) Has(name string) bool {
	for cur := e; cur != nil; cur = cur.outer {
		if _, ok := cur.store[name]; ok {
			return true
		}
	}
	return false
}

// Set assigns to an existing binding, walking outward; const bindings
// refuse assignment.
func (e *Environment) Set(name string, v Value) error {
	for cur := e; cur != nil; cur = cur.outer {
		if b, ok := cur.store[name]; ok {
			if !b.initialized {
				return fmt.Errorf("cannot access '%s' before initialization", name)
			}
			if b.kind == BindingConst {
				return fmt.Errorf("assignment to constant variable")
			}
			b.value = v
			return nil
		}
	}
	return fmt.Errorf("%s is not defined", name)
}

// GetLocal looks up name only in this environment, without walking to
// outer scopes — used to detect same-block shadowing during block entry.
func (e *Environment) GetLocal(name string) (Value, bool) {
	b, ok := e.store[name]
	if !ok {
		return nil, false
	}
	return b.value, true
}

func (e *Environment) Outer() *Environment { return e.outer }
