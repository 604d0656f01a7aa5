package runtime

import "github.com/cwbudde/jsvm/internal/ast"

// HostFunc is the signature native (Go-implemented) callables expose to the
// interpreter; it receives the bound `this` and argument list (§4.8 Host
// API: "a native callable receives the current this binding and the
// argument list").
type HostFunc func(this Value, args []Value) (Value, error)

// Function is the runtime representation of every callable: user-defined
// (holding an AST body, evaluated directly by the tree interpreter even for
// generator/async functions, which run their body on a parked goroutine
// instead of a lowered plan), arrow, class constructor, or host-native
// (§3 Function value).
type Function struct {
	obj *Object

	Name   string
	Params []*ast.Param
	Body   ast.Node // *ast.BlockStatement for function bodies, or an Expression for concise arrows
	Env    *Environment

	IsArrow     bool
	IsAsync     bool
	IsGenerator bool
	IsHost      bool
	IsClassCtor bool

	// HostCall is set for IsHost functions.
	HostCall HostFunc

	// HomeObject is the object a method was defined on, used to resolve
	// `super` references inside it (§4.2).
	HomeObject Value

	BoundThis Value // for arrows: captured receiver is resolved via Env instead
}

func (*Function) Tag() Tag { return TagFunction }

func NewFunction(name string, params []*ast.Param, body ast.Node, env *Environment, proto Value) *Function {
	f := &Function{Name: name, Params: params, Body: body, Env: env}
	f.obj = NewObject(proto)
	f.obj.class = "Function"
	return f
}

func NewHostFunction(name string, arity int, fn HostFunc, proto Value) *Function {
	f := &Function{Name: name, IsHost: true, HostCall: fn}
	f.obj = NewObject(proto)
	f.obj.class = "Function"
	f.obj.defineOwn(StringKey("length"), &Descriptor{Value: NumberValue(float64(arity))})
	f.obj.defineOwn(StringKey("name"), &Descriptor{Value: StringValue(name)})
	return f
}

func (f *Function) ownDescriptor(key PropertyKey) (*Descriptor, bool) { return f.obj.GetOwnDescriptor(key) }
func (f *Function) prototype() Value                                  { return f.obj.Proto }

func (f *Function) Get(key PropertyKey, receiver Value) (Value, error) {
	return getWithReceiver(f, key, receiver, 0)
}

func (f *Function) Set(key PropertyKey, v Value, receiver Value) error {
	return setWithReceiver(f, key, v, receiver, 0)
}

func (f *Function) Has(key PropertyKey) bool { return f.obj.Has(key) || key.str == "prototype" }

func (f *Function) Define(key PropertyKey, d Descriptor) { f.obj.defineOwn(key, &d) }

func (f *Function) OwnKeys() []PropertyKey { return f.obj.OwnKeys() }

// ConstructorPrototype returns (creating on first access) the object stored
// at the function's own `prototype` property, used by `new`.
func (f *Function) ConstructorPrototype() *Object {
	if d, ok := f.obj.GetOwnDescriptor(StringKey("prototype")); ok {
		if o, ok := d.Value.(*Object); ok {
			return o
		}
	}
	proto := NewObject(Null)
	proto.defineOwn(StringKey("constructor"), &Descriptor{Value: f, Writable: true, Configurable: true})
	f.obj.defineOwn(StringKey("prototype"), &Descriptor{Value: proto, Writable: true})
	return proto
}

func (f *Function) Arity() int {
	n := 0
	for _, p := range f.Params {
		if p.Rest || p.Default != nil {
			break
		}
		n++
	}
	return n
}
