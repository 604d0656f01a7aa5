package builtins

import (
	"github.com/cwbudde/jsvm/internal/async"
	"github.com/cwbudde/jsvm/internal/runtime"
)

// registerPromise installs the `Promise` constructor, its `resolve`/`reject`
// statics and combinators, and `.then`/`.catch`/`.finally` on
// Promise.prototype (§3 Promise, §4.7 combinators).
func registerPromise(realm *runtime.Realm, env *runtime.Environment, driver *async.Driver) {
	proto := realm.PromiseProto

	ctor := runtime.NewHostFunction("Promise", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		executor, ok := arg(args, 0).(*runtime.Function)
		if !ok {
			return nil, typeError(realm, "Promise resolver %s is not a function", runtime.Inspect(arg(args, 0)))
		}
		p := driver.NewPromise()
		resolveFn := runtime.NewHostFunction("", 1, func(_ runtime.Value, a []runtime.Value) (runtime.Value, error) {
			driver.Resolve(p, arg(a, 0))
			return runtime.Undefined, nil
		}, realm.FunctionProto)
		rejectFn := runtime.NewHostFunction("", 1, func(_ runtime.Value, a []runtime.Value) (runtime.Value, error) {
			driver.Reject(p, arg(a, 0))
			return runtime.Undefined, nil
		}, realm.FunctionProto)
		if _, err := realm.Call(executor, runtime.Undefined, []runtime.Value{resolveFn, rejectFn}); err != nil {
			driver.Reject(p, unwrapThrownFor(realm, err))
		}
		return p, nil
	}, realm.FunctionProto)
	ctor.Define(runtime.StringKey("prototype"), runtime.Descriptor{Value: proto, Writable: false})
	proto.Define(runtime.StringKey("constructor"), runtime.Descriptor{Value: ctor, Writable: true, Configurable: true})

	defineMethod(realm, ctor, "resolve", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if p, ok := arg(args, 0).(*runtime.Promise); ok {
			return p, nil
		}
		p := driver.NewPromise()
		driver.Resolve(p, arg(args, 0))
		return p, nil
	})
	defineMethod(realm, ctor, "reject", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		p := driver.NewPromise()
		driver.Reject(p, arg(args, 0))
		return p, nil
	})
	defineMethod(realm, ctor, "all", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		items, err := toValueSlice(realm, arg(args, 0))
		if err != nil {
			return nil, err
		}
		return driver.All(items), nil
	})
	defineMethod(realm, ctor, "race", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		items, err := toValueSlice(realm, arg(args, 0))
		if err != nil {
			return nil, err
		}
		return driver.Race(items), nil
	})
	defineMethod(realm, ctor, "allSettled", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		items, err := toValueSlice(realm, arg(args, 0))
		if err != nil {
			return nil, err
		}
		return driver.AllSettled(items), nil
	})
	defineMethod(realm, ctor, "any", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		items, err := toValueSlice(realm, arg(args, 0))
		if err != nil {
			return nil, err
		}
		return driver.Any(items), nil
	})

	defineMethod(realm, proto, "then", 2, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		p, ok := this.(*runtime.Promise)
		if !ok {
			return nil, typeError(realm, "Promise.prototype.then called on a non-Promise")
		}
		onFulfilled := asHandler(realm, arg(args, 0))
		onRejected := asHandler(realm, arg(args, 1))
		return driver.Then(p, onFulfilled, onRejected), nil
	})
	defineMethod(realm, proto, "catch", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		p, ok := this.(*runtime.Promise)
		if !ok {
			return nil, typeError(realm, "Promise.prototype.catch called on a non-Promise")
		}
		return driver.Then(p, nil, asHandler(realm, arg(args, 0))), nil
	})
	defineMethod(realm, proto, "finally", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		p, ok := this.(*runtime.Promise)
		if !ok {
			return nil, typeError(realm, "Promise.prototype.finally called on a non-Promise")
		}
		fn, _ := arg(args, 0).(*runtime.Function)
		runFinally := func(v runtime.Value) (runtime.Value, error) {
			if fn != nil {
				if _, err := realm.Call(fn, runtime.Undefined, nil); err != nil {
					return nil, err
				}
			}
			return v, nil
		}
		return driver.Then(p, runFinally, func(reason runtime.Value) (runtime.Value, error) {
			if _, err := runFinally(runtime.Undefined); err != nil {
				return nil, err
			}
			return nil, runtime.Throw(reason)
		}), nil
	})

	defineGlobal(realm, env, "Promise", ctor)
}

func asHandler(realm *runtime.Realm, v runtime.Value) func(runtime.Value) (runtime.Value, error) {
	fn, ok := v.(*runtime.Function)
	if !ok {
		return nil
	}
	return func(a runtime.Value) (runtime.Value, error) {
		return realm.Call(fn, runtime.Undefined, []runtime.Value{a})
	}
}

func toValueSlice(realm *runtime.Realm, v runtime.Value) ([]runtime.Value, error) {
	arr, ok := v.(*runtime.Array)
	if !ok {
		return nil, typeError(realm, "%s is not iterable", runtime.Inspect(v))
	}
	out := make([]runtime.Value, len(arr.Elements()))
	for i, e := range arr.Elements() {
		if e == nil {
			out[i] = runtime.Undefined
		} else {
			out[i] = e
		}
	}
	return out, nil
}

func unwrapThrownFor(realm *runtime.Realm, err error) runtime.Value {
	if tv, ok := err.(*runtime.ThrownValue); ok {
		return tv.Value
	}
	return realm.NewError(runtime.KindError, "%s", err.Error())
}
