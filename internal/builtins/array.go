package builtins

import (
	"sort"

	"github.com/maruel/natural"

	"github.com/cwbudde/jsvm/internal/runtime"
)

// registerArray installs Array.prototype's method surface (§9 Standard
// Library: "array/string prototypes"). Every callback-taking method runs the
// callback through realm.Call so ordinary user-authored functions work, not
// just host ones (§4.8 Host API).
func registerArray(realm *runtime.Realm, env *runtime.Environment) {
	proto := realm.ArrayProto

	ctor := runtime.NewHostFunction("Array", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 1 {
			if n, ok := args[0].(runtime.Number); ok {
				return runtime.NewArray(realm.ArrayProto, make([]runtime.Value, int(n))), nil
			}
		}
		return runtime.NewArray(realm.ArrayProto, append([]runtime.Value{}, args...)), nil
	}, realm.FunctionProto)
	ctor.Define(runtime.StringKey("prototype"), runtime.Descriptor{Value: proto, Writable: false})
	proto.Define(runtime.StringKey("constructor"), runtime.Descriptor{Value: ctor, Writable: true, Configurable: true})

	defineMethod(realm, ctor, "isArray", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		_, ok := arg(args, 0).(*runtime.Array)
		return runtime.BoolValue(ok), nil
	})

	defineMethod(realm, proto, "push", 1, arrayMethod(realm, func(a *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		return runtime.NumberValue(float64(a.Push(args...))), nil
	}))
	defineMethod(realm, proto, "pop", 0, arrayMethod(realm, func(a *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		v, _ := a.Pop()
		return v, nil
	}))
	defineMethod(realm, proto, "shift", 0, arrayMethod(realm, func(a *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		els := a.Elements()
		if len(els) == 0 {
			return runtime.Undefined, nil
		}
		v := els[0]
		a.SetElements(els[1:])
		if v == nil {
			return runtime.Undefined, nil
		}
		return v, nil
	}))
	defineMethod(realm, proto, "unshift", 1, arrayMethod(realm, func(a *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		a.SetElements(append(append([]runtime.Value{}, args...), a.Elements()...))
		return runtime.NumberValue(float64(a.Length())), nil
	}))
	defineMethod(realm, proto, "reverse", 0, arrayMethod(realm, func(a *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		els := append([]runtime.Value{}, a.Elements()...)
		for i, j := 0, len(els)-1; i < j; i, j = i+1, j-1 {
			els[i], els[j] = els[j], els[i]
		}
		a.SetElements(els)
		return a, nil
	}))
	defineMethod(realm, proto, "concat", 1, arrayMethod(realm, func(a *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		out := append([]runtime.Value{}, denseOf(a.Elements())...)
		for _, v := range args {
			if other, ok := v.(*runtime.Array); ok {
				out = append(out, denseOf(other.Elements())...)
			} else {
				out = append(out, v)
			}
		}
		return runtime.NewArray(realm.ArrayProto, out), nil
	}))
	defineMethod(realm, proto, "slice", 2, arrayMethod(realm, func(a *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		els := denseOf(a.Elements())
		start, end := sliceRange(len(els), args)
		if start >= end {
			return runtime.NewArray(realm.ArrayProto, nil), nil
		}
		return runtime.NewArray(realm.ArrayProto, append([]runtime.Value{}, els[start:end]...)), nil
	}))
	defineMethod(realm, proto, "splice", 2, arrayMethod(realm, func(a *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		els := denseOf(a.Elements())
		n := len(els)
		start := normalizeIndex(int(runtime.ToNumber(arg(args, 0))), n)
		deleteCount := n - start
		if len(args) > 1 {
			deleteCount = int(runtime.ToNumber(args[1]))
			if deleteCount < 0 {
				deleteCount = 0
			}
			if deleteCount > n-start {
				deleteCount = n - start
			}
		}
		removed := append([]runtime.Value{}, els[start:start+deleteCount]...)
		var inserted []runtime.Value
		if len(args) > 2 {
			inserted = args[2:]
		}
		next := append([]runtime.Value{}, els[:start]...)
		next = append(next, inserted...)
		next = append(next, els[start+deleteCount:]...)
		a.SetElements(next)
		return runtime.NewArray(realm.ArrayProto, removed), nil
	}))
	defineMethod(realm, proto, "join", 1, arrayMethod(realm, func(a *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		sep := ","
		if len(args) > 0 && !runtime.IsUndefined(args[0]) {
			sep = runtime.ToString(args[0])
		}
		parts := make([]string, len(a.Elements()))
		for i, v := range a.Elements() {
			if v == nil || runtime.IsNullish(v) {
				parts[i] = ""
			} else {
				parts[i] = runtime.ToString(v)
			}
		}
		out := ""
		for i, p := range parts {
			if i > 0 {
				out += sep
			}
			out += p
		}
		return runtime.StringValue(out), nil
	}))
	defineMethod(realm, proto, "includes", 1, arrayMethod(realm, func(a *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		needle := arg(args, 0)
		for _, v := range a.Elements() {
			if runtime.SameValueZero(valueOrUndefined(v), needle) {
				return runtime.True, nil
			}
		}
		return runtime.False, nil
	}))
	defineMethod(realm, proto, "indexOf", 1, arrayMethod(realm, func(a *runtime.Array, args []runtime.Value) (runtime.Value, error) {
		needle := arg(args, 0)
		for i, v := range a.Elements() {
			if runtime.StrictEquals(valueOrUndefined(v), needle) {
				return runtime.NumberValue(float64(i)), nil
			}
		}
		return runtime.NumberValue(-1), nil
	}))

	defineMethod(realm, proto, "forEach", 1, arrayCallbackMethod(realm, func(realm *runtime.Realm, a *runtime.Array, fn *runtime.Function, thisArg runtime.Value) (runtime.Value, error) {
		for i, v := range a.Elements() {
			if _, err := realm.Call(fn, thisArg, []runtime.Value{valueOrUndefined(v), runtime.NumberValue(float64(i)), a}); err != nil {
				return nil, err
			}
		}
		return runtime.Undefined, nil
	}))
	defineMethod(realm, proto, "map", 1, arrayCallbackMethod(realm, func(realm *runtime.Realm, a *runtime.Array, fn *runtime.Function, thisArg runtime.Value) (runtime.Value, error) {
		out := make([]runtime.Value, len(a.Elements()))
		for i, v := range a.Elements() {
			r, err := realm.Call(fn, thisArg, []runtime.Value{valueOrUndefined(v), runtime.NumberValue(float64(i)), a})
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return runtime.NewArray(realm.ArrayProto, out), nil
	}))
	defineMethod(realm, proto, "filter", 1, arrayCallbackMethod(realm, func(realm *runtime.Realm, a *runtime.Array, fn *runtime.Function, thisArg runtime.Value) (runtime.Value, error) {
		var out []runtime.Value
		for i, v := range a.Elements() {
			el := valueOrUndefined(v)
			keep, err := realm.Call(fn, thisArg, []runtime.Value{el, runtime.NumberValue(float64(i)), a})
			if err != nil {
				return nil, err
			}
			if runtime.ToBoolean(keep) {
				out = append(out, el)
			}
		}
		return runtime.NewArray(realm.ArrayProto, out), nil
	}))
	defineMethod(realm, proto, "find", 1, arrayCallbackMethod(realm, func(realm *runtime.Realm, a *runtime.Array, fn *runtime.Function, thisArg runtime.Value) (runtime.Value, error) {
		for i, v := range a.Elements() {
			el := valueOrUndefined(v)
			match, err := realm.Call(fn, thisArg, []runtime.Value{el, runtime.NumberValue(float64(i)), a})
			if err != nil {
				return nil, err
			}
			if runtime.ToBoolean(match) {
				return el, nil
			}
		}
		return runtime.Undefined, nil
	}))
	defineMethod(realm, proto, "findIndex", 1, arrayCallbackMethod(realm, func(realm *runtime.Realm, a *runtime.Array, fn *runtime.Function, thisArg runtime.Value) (runtime.Value, error) {
		for i, v := range a.Elements() {
			match, err := realm.Call(fn, thisArg, []runtime.Value{valueOrUndefined(v), runtime.NumberValue(float64(i)), a})
			if err != nil {
				return nil, err
			}
			if runtime.ToBoolean(match) {
				return runtime.NumberValue(float64(i)), nil
			}
		}
		return runtime.NumberValue(-1), nil
	}))
	defineMethod(realm, proto, "some", 1, arrayCallbackMethod(realm, func(realm *runtime.Realm, a *runtime.Array, fn *runtime.Function, thisArg runtime.Value) (runtime.Value, error) {
		for i, v := range a.Elements() {
			match, err := realm.Call(fn, thisArg, []runtime.Value{valueOrUndefined(v), runtime.NumberValue(float64(i)), a})
			if err != nil {
				return nil, err
			}
			if runtime.ToBoolean(match) {
				return runtime.True, nil
			}
		}
		return runtime.False, nil
	}))
	defineMethod(realm, proto, "every", 1, arrayCallbackMethod(realm, func(realm *runtime.Realm, a *runtime.Array, fn *runtime.Function, thisArg runtime.Value) (runtime.Value, error) {
		for i, v := range a.Elements() {
			match, err := realm.Call(fn, thisArg, []runtime.Value{valueOrUndefined(v), runtime.NumberValue(float64(i)), a})
			if err != nil {
				return nil, err
			}
			if !runtime.ToBoolean(match) {
				return runtime.False, nil
			}
		}
		return runtime.True, nil
	}))

	defineMethod(realm, proto, "reduce", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a, ok := this.(*runtime.Array)
		if !ok {
			return nil, typeError(realm, "Array.prototype.reduce called on non-array")
		}
		fn, ok := arg(args, 0).(*runtime.Function)
		if !ok {
			return nil, typeError(realm, "reduce callback is not a function")
		}
		els := a.Elements()
		i := 0
		var acc runtime.Value
		if len(args) > 1 {
			acc = args[1]
		} else {
			if len(els) == 0 {
				return nil, typeError(realm, "Reduce of empty array with no initial value")
			}
			acc = valueOrUndefined(els[0])
			i = 1
		}
		for ; i < len(els); i++ {
			r, err := realm.Call(fn, runtime.Undefined, []runtime.Value{acc, valueOrUndefined(els[i]), runtime.NumberValue(float64(i)), a})
			if err != nil {
				return nil, err
			}
			acc = r
		}
		return acc, nil
	})

	defineMethod(realm, proto, "sort", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a, ok := this.(*runtime.Array)
		if !ok {
			return nil, typeError(realm, "Array.prototype.sort called on non-array")
		}
		els := denseOf(a.Elements())
		if cmp, ok := arg(args, 0).(*runtime.Function); ok {
			var sortErr error
			sort.SliceStable(els, func(i, j int) bool {
				if sortErr != nil {
					return false
				}
				r, err := realm.Call(cmp, runtime.Undefined, []runtime.Value{els[i], els[j]})
				if err != nil {
					sortErr = err
					return false
				}
				return runtime.ToNumber(r) < 0
			})
			if sortErr != nil {
				return nil, sortErr
			}
		} else if allStrings(els) {
			strs := make([]string, len(els))
			for i, v := range els {
				strs[i] = runtime.ToString(v)
			}
			sort.SliceStable(strs, func(i, j int) bool { return natural.Less(strs[i], strs[j]) })
			for i, s := range strs {
				els[i] = runtime.StringValue(s)
			}
		} else {
			sort.SliceStable(els, func(i, j int) bool {
				return runtime.ToString(els[i]) < runtime.ToString(els[j])
			})
		}
		a.SetElements(els)
		return a, nil
	})

	defineGlobal(realm, env, "Array", ctor)
}

// arrayMethod adapts a non-callback array method into the HostFunc shape.
func arrayMethod(realm *runtime.Realm, fn func(a *runtime.Array, args []runtime.Value) (runtime.Value, error)) runtime.HostFunc {
	return func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a, ok := this.(*runtime.Array)
		if !ok {
			return nil, typeError(realm, "Array.prototype method called on non-array")
		}
		return fn(a, args)
	}
}

// arrayCallbackMethod adapts the common (callback, thisArg) array-iteration
// shape, validating that the first argument is callable.
func arrayCallbackMethod(realm *runtime.Realm, fn func(realm *runtime.Realm, a *runtime.Array, fn *runtime.Function, thisArg runtime.Value) (runtime.Value, error)) runtime.HostFunc {
	return func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a, ok := this.(*runtime.Array)
		if !ok {
			return nil, typeError(realm, "Array.prototype method called on non-array")
		}
		cb, ok := arg(args, 0).(*runtime.Function)
		if !ok {
			return nil, typeError(realm, "%s is not a function", runtime.Inspect(arg(args, 0)))
		}
		return fn(realm, a, cb, arg(args, 1))
	}
}

func valueOrUndefined(v runtime.Value) runtime.Value {
	if v == nil {
		return runtime.Undefined
	}
	return v
}

func denseOf(els []runtime.Value) []runtime.Value {
	out := make([]runtime.Value, len(els))
	for i, v := range els {
		out[i] = valueOrUndefined(v)
	}
	return out
}

func allStrings(els []runtime.Value) bool {
	for _, v := range els {
		if _, ok := v.(runtime.String); !ok {
			return false
		}
	}
	return true
}

func normalizeIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

func sliceRange(length int, args []runtime.Value) (int, int) {
	start, end := 0, length
	if len(args) > 0 && !runtime.IsUndefined(args[0]) {
		start = normalizeIndex(int(runtime.ToNumber(args[0])), length)
	}
	if len(args) > 1 && !runtime.IsUndefined(args[1]) {
		end = normalizeIndex(int(runtime.ToNumber(args[1])), length)
	}
	return start, end
}
