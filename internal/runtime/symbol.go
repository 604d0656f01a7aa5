package runtime

import "fmt"

// Well-known symbols, interned once at process start (§3 Value: "Symbol
// (interned, well-known iterator and asyncIterator included)").
var (
	SymbolIterator      = NewSymbol("Symbol.iterator")
	SymbolAsyncIterator = NewSymbol("Symbol.asyncIterator")
)

// AsObject reports whether v is any reference type built on Object
// (*Object, *Array, *Function, *RegExp or *Promise), and returns the
// objectLike view used for property access.
func AsObject(v Value) (objectLike, bool) {
	return protoAsObjectLike(v)
}

// OwnKeys returns v's own property keys in spec order, or nil if v is not
// an object-like value. Exported so packages outside runtime (treeinterp,
// builtins) can enumerate without depending on the unexported objectLike
// method set directly.
func OwnKeys(v Value) []PropertyKey {
	switch x := v.(type) {
	case *Object:
		return x.OwnKeys()
	case *Array:
		return x.OwnKeys()
	case *Function:
		return x.OwnKeys()
	case *RegExp:
		return x.OwnKeys()
	case *Promise:
		return x.OwnKeys()
	default:
		return nil
	}
}

// GetProperty and SetProperty dispatch to the concrete reference type's
// Get/Set, letting callers outside runtime read/write properties on any
// object-like value without a type switch of their own.
func GetProperty(v Value, key PropertyKey, receiver Value) (Value, error) {
	switch x := v.(type) {
	case *Object:
		return x.Get(key, receiver)
	case *Array:
		return x.Get(key, receiver)
	case *Function:
		return x.Get(key, receiver)
	case *RegExp:
		return x.Get(key, receiver)
	case *Promise:
		return x.Get(key, receiver)
	default:
		return Undefined, nil
	}
}

func SetProperty(v Value, key PropertyKey, val Value, receiver Value) error {
	switch x := v.(type) {
	case *Object:
		return x.Set(key, val, receiver)
	case *Array:
		return x.Set(key, val, receiver)
	case *Function:
		return x.Set(key, val, receiver)
	case *RegExp:
		return x.Set(key, val, receiver)
	case *Promise:
		return x.Set(key, val, receiver)
	default:
		return fmt.Errorf("cannot set property %q on non-object value", key.String())
	}
}

// GetOwnDescriptor returns v's own descriptor for key, if v is object-like
// and has one.
func GetOwnDescriptor(v Value, key PropertyKey) (*Descriptor, bool) {
	o, ok := protoAsObjectLike(v)
	if !ok {
		return nil, false
	}
	return o.ownDescriptor(key)
}

// PrototypeOf returns v's [[prototype]] link, or Null if v is not
// object-like.
func PrototypeOf(v Value) Value {
	o, ok := protoAsObjectLike(v)
	if !ok {
		return Null
	}
	return o.prototype()
}
