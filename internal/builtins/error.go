package builtins

import "github.com/cwbudde/jsvm/internal/runtime"

// errorCtors lists the error constructors bound as globals, in the same
// order realm.ErrorProtos was populated (§7 Taxonomy).
var errorCtors = []runtime.ErrorKind{
	runtime.KindError,
	runtime.KindTypeError,
	runtime.KindReferenceError,
	runtime.KindSyntaxError,
	runtime.KindRangeError,
}

// registerError installs `Error` and its four subclasses as JS-visible
// constructors, each one linked to the prototype NewRealm already built for
// it so `e instanceof TypeError` and thrown-host-error identity line up
// with values user code constructs itself with `new`.
func registerError(realm *runtime.Realm, env *runtime.Environment) {
	for _, kind := range errorCtors {
		kind := kind
		proto := realm.ErrorProtos[kind]
		name := string(kind)

		ctor := runtime.NewHostFunction(name, 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			inst, ok := this.(*runtime.Object)
			if !ok {
				inst = runtime.NewObject(proto)
			}
			inst.SetClass("Error")
			msg := ""
			if v := arg(args, 0); !runtime.IsUndefined(v) {
				msg = runtime.ToString(v)
			}
			inst.Define(runtime.StringKey("message"), runtime.Descriptor{Value: runtime.StringValue(msg), Writable: true, Configurable: true})
			inst.Define(runtime.StringKey("stack"), runtime.Descriptor{Value: runtime.StringValue(name + ": " + msg), Writable: true, Configurable: true})
			return inst, nil
		}, realm.FunctionProto)
		ctor.Define(runtime.StringKey("prototype"), runtime.Descriptor{Value: proto, Writable: false})
		proto.Define(runtime.StringKey("constructor"), runtime.Descriptor{Value: ctor, Writable: true, Configurable: true})

		defineMethod(realm, proto, "toString", 0, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			obj, ok := this.(*runtime.Object)
			if !ok {
				return runtime.StringValue(name), nil
			}
			n := name
			if nd, err := runtime.GetProperty(obj, runtime.StringKey("name"), obj); err == nil {
				if s, ok := nd.(runtime.String); ok && s != "" {
					n = string(s)
				}
			}
			msg, _ := runtime.GetProperty(obj, runtime.StringKey("message"), obj)
			ms := runtime.ToString(msg)
			if ms == "" {
				return runtime.StringValue(n), nil
			}
			return runtime.StringValue(n + ": " + ms), nil
		})

		defineGlobal(realm, env, name, ctor)
	}
}
