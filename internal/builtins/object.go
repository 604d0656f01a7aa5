package builtins

import "github.com/cwbudde/jsvm/internal/runtime"

// registerObject installs the `Object` constructor and its static methods
// (§3 Object: enumerable own keys, freezing, prototype links).
func registerObject(realm *runtime.Realm, env *runtime.Environment) {
	ctor := runtime.NewHostFunction("Object", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v := arg(args, 0)
		if _, ok := runtime.AsObject(v); ok {
			return v, nil
		}
		return runtime.NewObject(realm.ObjectProto), nil
	}, realm.FunctionProto)
	ctor.Define(runtime.StringKey("prototype"), runtime.Descriptor{Value: realm.ObjectProto, Writable: false})

	defineMethod(realm, ctor, "keys", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NewArray(realm.ArrayProto, enumerableKeys(arg(args, 0))), nil
	})
	defineMethod(realm, ctor, "values", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v := arg(args, 0)
		var out []runtime.Value
		for _, k := range enumerableOwnKeys(v) {
			pv, _ := runtime.GetProperty(v, k, v)
			out = append(out, pv)
		}
		return runtime.NewArray(realm.ArrayProto, out), nil
	})
	defineMethod(realm, ctor, "entries", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v := arg(args, 0)
		var out []runtime.Value
		for _, k := range enumerableOwnKeys(v) {
			pv, _ := runtime.GetProperty(v, k, v)
			out = append(out, runtime.NewArray(realm.ArrayProto, []runtime.Value{runtime.StringValue(k.String()), pv}))
		}
		return runtime.NewArray(realm.ArrayProto, out), nil
	})
	defineMethod(realm, ctor, "assign", 2, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Undefined, nil
		}
		target := args[0]
		for _, src := range args[1:] {
			for _, k := range enumerableOwnKeys(src) {
				v, _ := runtime.GetProperty(src, k, src)
				if err := runtime.SetProperty(target, k, v, target); err != nil {
					return nil, typeError(realm, "%s", err.Error())
				}
			}
		}
		return target, nil
	})
	defineMethod(realm, ctor, "freeze", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if o, ok := arg(args, 0).(*runtime.Object); ok {
			o.Frozen = true
			o.Extensible = false
		}
		return arg(args, 0), nil
	})
	defineMethod(realm, ctor, "isFrozen", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		o, ok := arg(args, 0).(*runtime.Object)
		return runtime.BoolValue(!ok || o.Frozen), nil
	})
	defineMethod(realm, ctor, "getPrototypeOf", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.PrototypeOf(arg(args, 0)), nil
	})
	defineMethod(realm, ctor, "create", 2, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		proto := arg(args, 0)
		if runtime.IsNull(proto) {
			return runtime.NewObject(runtime.Null), nil
		}
		return runtime.NewObject(proto), nil
	})
	defineMethod(realm, ctor, "defineProperty", 3, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		target, ok := arg(args, 0).(*runtime.Object)
		if !ok {
			return nil, typeError(realm, "Object.defineProperty called on non-object")
		}
		key := runtime.KeyFromValue(arg(args, 1))
		descObj := arg(args, 2)
		desc := runtime.Descriptor{}
		if v, ok := readOpt(descObj, "value"); ok {
			desc.Value = v
		}
		if g, ok := readOpt(descObj, "get"); ok {
			if fn, ok := g.(*runtime.Function); ok {
				desc.Get = fn
				desc.IsAccessor = true
			}
		}
		if s, ok := readOpt(descObj, "set"); ok {
			if fn, ok := s.(*runtime.Function); ok {
				desc.Set = fn
				desc.IsAccessor = true
			}
		}
		if w, ok := readOpt(descObj, "writable"); ok {
			desc.Writable = runtime.ToBoolean(w)
		}
		if e, ok := readOpt(descObj, "enumerable"); ok {
			desc.Enumerable = runtime.ToBoolean(e)
		}
		if c, ok := readOpt(descObj, "configurable"); ok {
			desc.Configurable = runtime.ToBoolean(c)
		}
		target.Define(key, desc)
		return target, nil
	})

	defineGlobal(realm, env, "Object", ctor)
}

func readOpt(v runtime.Value, name string) (runtime.Value, bool) {
	if _, ok := runtime.AsObject(v); !ok {
		return nil, false
	}
	pv, err := runtime.GetProperty(v, runtime.StringKey(name), v)
	if err != nil || runtime.IsUndefined(pv) {
		return nil, false
	}
	return pv, true
}

func enumerableOwnKeys(v runtime.Value) []runtime.PropertyKey {
	if _, ok := runtime.AsObject(v); !ok {
		return nil
	}
	var out []runtime.PropertyKey
	for _, k := range runtime.OwnKeys(v) {
		if k.IsSymbol() {
			continue
		}
		if d, ok := runtime.GetOwnDescriptor(v, k); ok && !d.Enumerable {
			continue
		}
		out = append(out, k)
	}
	return out
}

func enumerableKeys(v runtime.Value) []runtime.Value {
	var out []runtime.Value
	for _, k := range enumerableOwnKeys(v) {
		out = append(out, runtime.StringValue(k.String()))
	}
	return out
}
