package runtime

import "fmt"

// ErrorKind names the built-in error constructors this engine exposes
// (§7 Taxonomy: TypeError, ReferenceError, SyntaxError, RangeError).
type ErrorKind string

const (
	KindError          ErrorKind = "Error"
	KindTypeError      ErrorKind = "TypeError"
	KindReferenceError ErrorKind = "ReferenceError"
	KindSyntaxError    ErrorKind = "SyntaxError"
	KindRangeError     ErrorKind = "RangeError"
)

// Realm holds the handful of shared prototypes every new error/object/array
// needs a link to; the tree interpreter and internal/builtins share one
// *Realm so error construction looks identical from either.
type Realm struct {
	ObjectProto    *Object
	FunctionProto  *Object
	ArrayProto     *Object
	StringProto    *Object
	ErrorProtos    map[ErrorKind]*Object
	RegExpProto    *Object
	PromiseProto   *Object
	GeneratorProto *Object

	// Globals is the global object's backing store, shared with the tree
	// interpreter's global Environment so `Math`/`JSON`/etc. are reachable
	// both as bare identifiers and as `globalThis.Math` (§4.9 Host API).
	Globals *Object

	// Invoke calls a non-host (user-authored) Function value. The tree
	// interpreter sets this once during setup; internal/builtins uses it to
	// run callbacks (array methods, then/catch handlers, Promise executors)
	// without importing internal/treeinterp.
	Invoke func(fn *Function, this Value, args []Value) (Value, error)
}

// Call invokes fn with the given this/args, dispatching to fn.HostCall
// directly for native callables and to realm.Invoke for user-authored ones.
func (r *Realm) Call(fn *Function, this Value, args []Value) (Value, error) {
	if fn.IsHost {
		return fn.HostCall(this, args)
	}
	if r.Invoke == nil {
		return nil, fmt.Errorf("runtime: no function invoker registered on realm")
	}
	return r.Invoke(fn, this, args)
}

// NewError constructs a JS-visible error object of the given kind with a
// formatted message, mirroring the catalog-constant style of
// internal/errors but producing a throwable runtime.Value instead of a Go
// error.
func (r *Realm) NewError(kind ErrorKind, format string, args ...interface{}) *Object {
	proto, ok := r.ErrorProtos[kind]
	if !ok {
		proto = r.ErrorProtos[KindError]
	}
	e := NewObject(proto)
	e.class = "Error"
	msg := fmt.Sprintf(format, args...)
	e.defineOwn(StringKey("message"), &Descriptor{Value: StringValue(msg), Writable: true, Configurable: true})
	e.defineOwn(StringKey("name"), &Descriptor{Value: StringValue(string(kind)), Writable: true, Configurable: true})
	e.defineOwn(StringKey("stack"), &Descriptor{Value: StringValue(string(kind) + ": " + msg), Writable: true, Configurable: true})
	return e
}

func (r *Realm) TypeError(format string, args ...interface{}) *Object {
	return r.NewError(KindTypeError, format, args...)
}

func (r *Realm) ReferenceError(format string, args ...interface{}) *Object {
	return r.NewError(KindReferenceError, format, args...)
}

func (r *Realm) RangeError(format string, args ...interface{}) *Object {
	return r.NewError(KindRangeError, format, args...)
}

func (r *Realm) SyntaxError(format string, args ...interface{}) *Object {
	return r.NewError(KindSyntaxError, format, args...)
}

// ThrownValue wraps any JS value thrown by `throw`, letting Go's error
// interfaces carry it through the tree interpreter's completion plumbing
// and out to the host uniformly.
type ThrownValue struct {
	Value Value
}

func (t *ThrownValue) Error() string {
	if obj, ok := t.Value.(*Object); ok {
		if d, ok := obj.GetOwnDescriptor(StringKey("message")); ok {
			name := "Error"
			if nd, ok := obj.GetOwnDescriptor(StringKey("name")); ok {
				name = ToString(nd.Value)
			}
			return name + ": " + ToString(d.Value)
		}
	}
	return Inspect(t.Value)
}

func Throw(v Value) error { return &ThrownValue{Value: v} }
