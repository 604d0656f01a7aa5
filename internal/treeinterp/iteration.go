package treeinterp

import (
	"github.com/cwbudde/jsvm/internal/ast"
	"github.com/cwbudde/jsvm/internal/genvm"
	"github.com/cwbudde/jsvm/internal/runtime"
)

// getIterator resolves the `@@iterator` protocol for v (§4.6 "Iteration
// protocol"). Arrays and strings are iterated directly without requiring
// internal/builtins to have registered a Symbol.iterator method, since
// destructuring/spread must work even before the builtins surface runs;
// every other value (generator objects, user iterables) goes through the
// general protocol.
func (ip *Interp) getIterator(env *runtime.Environment, v runtime.Value) (runtime.Value, *Signal) {
	if arr, ok := v.(*runtime.Array); ok {
		return ip.nativeArrayIterator(arr.Elements()), nil
	}
	if s, ok := v.(runtime.String); ok {
		return ip.nativeArrayIterator(runesToValues(s)), nil
	}
	method, sig := ip.getProperty(env, v, runtime.SymbolKey(runtime.SymbolIterator))
	if sig != nil {
		return nil, sig
	}
	fn, ok := method.(*runtime.Function)
	if !ok {
		return nil, throwSignal(ip.Realm.TypeError("%s is not iterable", runtime.Inspect(v)))
	}
	return ip.call(fn, v, nil)
}

func runesToValues(s runtime.String) []runtime.Value {
	runes := []rune(string(s))
	out := make([]runtime.Value, len(runes))
	for i, r := range runes {
		out[i] = runtime.StringValue(string(r))
	}
	return out
}

// nativeArrayIterator builds a one-shot iterator object over a fixed slice
// of values, backing both array and string `for...of`/spread/destructuring.
func (ip *Interp) nativeArrayIterator(items []runtime.Value) *runtime.Object {
	idx := 0
	obj := runtime.NewObject(ip.Realm.ObjectProto)
	next := runtime.NewHostFunction("next", 0, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		result := runtime.NewObject(ip.Realm.ObjectProto)
		if idx >= len(items) {
			result.Define(runtime.StringKey("done"), runtime.Descriptor{Value: runtime.True, Writable: true, Enumerable: true, Configurable: true})
			result.Define(runtime.StringKey("value"), runtime.Descriptor{Value: runtime.Undefined, Writable: true, Enumerable: true, Configurable: true})
			return result, nil
		}
		v := items[idx]
		if v == nil {
			v = runtime.Undefined
		}
		idx++
		result.Define(runtime.StringKey("done"), runtime.Descriptor{Value: runtime.False, Writable: true, Enumerable: true, Configurable: true})
		result.Define(runtime.StringKey("value"), runtime.Descriptor{Value: v, Writable: true, Enumerable: true, Configurable: true})
		return result, nil
	}, ip.Realm.FunctionProto)
	obj.Define(runtime.StringKey("next"), runtime.Descriptor{Value: next, Writable: true, Configurable: true})
	self := runtime.NewHostFunction("[Symbol.iterator]", 0, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return obj, nil
	}, ip.Realm.FunctionProto)
	obj.Define(runtime.SymbolKey(runtime.SymbolIterator), runtime.Descriptor{Value: self, Writable: true, Configurable: true})
	return obj
}

func (ip *Interp) callIteratorMethod(env *runtime.Environment, iter runtime.Value, name string, arg runtime.Value) (runtime.Value, bool, *Signal) {
	method, sig := ip.getProperty(env, iter, runtime.StringKey(name))
	if sig != nil {
		return nil, false, sig
	}
	fn, ok := method.(*runtime.Function)
	if !ok {
		return nil, false, nil
	}
	v, sig := ip.call(fn, iter, []runtime.Value{arg})
	if sig != nil {
		return nil, true, sig
	}
	return v, true, nil
}

func (ip *Interp) unpackIterResult(env *runtime.Environment, result runtime.Value) (bool, runtime.Value, *Signal) {
	if _, ok := runtime.AsObject(result); !ok {
		return false, nil, throwSignal(ip.Realm.TypeError("Iterator result is not an object"))
	}
	doneV, sig := ip.getProperty(env, result, runtime.StringKey("done"))
	if sig != nil {
		return false, nil, sig
	}
	valueV, sig := ip.getProperty(env, result, runtime.StringKey("value"))
	if sig != nil {
		return false, nil, sig
	}
	return runtime.ToBoolean(doneV), valueV, nil
}

// iterableToSlice drains v's iterator (or, for arrays/strings, reads
// directly) into a Go slice, used by array destructuring and spread.
func (ip *Interp) iterableToSlice(env *runtime.Environment, v runtime.Value) ([]runtime.Value, *Signal) {
	if arr, ok := v.(*runtime.Array); ok {
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
	if s, ok := v.(runtime.String); ok {
		return runesToValues(s), nil
	}
	iter, sig := ip.getIterator(env, v)
	if sig != nil {
		return nil, sig
	}
	var out []runtime.Value
	for {
		result, has, sig := ip.callIteratorMethod(env, iter, "next", runtime.Undefined)
		if sig != nil {
			return nil, sig
		}
		if !has {
			return nil, throwSignal(ip.Realm.TypeError("iterator result has no next method"))
		}
		done, value, sig := ip.unpackIterResult(env, result)
		if sig != nil {
			return nil, sig
		}
		if done {
			return out, nil
		}
		out = append(out, value)
	}
}

// evalForOf drives `for (x of expr) body` / `for await (x of expr) body`
// through the iterator protocol; Await desugars each `.next()` into an
// `await`ed call, which only type-checks inside an async function (§4.7).
func (ip *Interp) evalForOf(env *runtime.Environment, n *ast.ForOfStatement, label string) *Signal {
	right, sig := ip.evalExpr(env, n.Right)
	if sig != nil {
		return sig
	}
	iter, sig := ip.getIterator(env, right)
	if sig != nil {
		return sig
	}
	for {
		result, has, sig := ip.callIteratorMethod(env, iter, "next", runtime.Undefined)
		if sig != nil {
			return sig
		}
		if !has {
			return throwSignal(ip.Realm.TypeError("iterator result has no next method"))
		}
		if n.Await {
			a := ip.lookupAwaiter(env)
			if a == nil {
				return throwSignal(ip.Realm.SyntaxError("for await used outside an async function"))
			}
			awaited, err := a.Await(result)
			if err != nil {
				if tv, ok := err.(*runtime.ThrownValue); ok {
					return throwSignal(tv.Value)
				}
				return throwSignal(ip.Realm.TypeError("%s", err.Error()))
			}
			result = awaited
		}
		done, value, sig := ip.unpackIterResult(env, result)
		if sig != nil {
			return sig
		}
		if done {
			return nil
		}
		loopEnv := runtime.NewBlockEnvironment(env)
		if sig := ip.bindForTarget(loopEnv, n.Left, value); sig != nil {
			return sig
		}
		bsig := ip.evalStatement(loopEnv, n.Body)
		if bsig != nil {
			switch bsig.Kind {
			case SigBreak:
				if bsig.Label == "" || bsig.Label == label {
					ip.closeIterator(env, iter)
					return nil
				}
				return bsig
			case SigContinue:
				if bsig.Label != "" && bsig.Label != label {
					return bsig
				}
			default:
				ip.closeIterator(env, iter)
				return bsig
			}
		}
	}
}

// closeIterator calls the iterator's `.return()` if present, swallowing any
// thrown value (§4.6: early exit from for-of closes the iterator).
func (ip *Interp) closeIterator(env *runtime.Environment, iter runtime.Value) {
	_, _, _ = ip.callIteratorMethod(env, iter, "return", runtime.Undefined)
}

// wrapGenerator exposes a *genvm.Generator as the JS-visible generator
// object: `next`/`throw`/`return` methods plus a `Symbol.iterator` returning
// itself, each producing a `{value, done}` result object (§3 Generator
// object, §4.6).
func (ip *Interp) wrapGenerator(g *genvm.Generator) *runtime.Object {
	obj := runtime.NewObject(ip.Realm.GeneratorProto)
	obj.SetClass("Generator")
	makeResult := func(v interface{}, done bool) *runtime.Object {
		r := runtime.NewObject(ip.Realm.ObjectProto)
		r.Define(runtime.StringKey("value"), runtime.Descriptor{Value: toRuntimeValue(v), Writable: true, Enumerable: true, Configurable: true})
		r.Define(runtime.StringKey("done"), runtime.Descriptor{Value: runtime.BoolValue(done), Writable: true, Enumerable: true, Configurable: true})
		return r
	}
	driveErr := func(v interface{}, done bool, err error) (runtime.Value, error) {
		if err != nil {
			if ct, ok := err.(*genvm.ClosedThrow); ok {
				return nil, runtime.Throw(toRuntimeValue(ct.Value))
			}
			if tv, ok := err.(*runtime.ThrownValue); ok {
				return nil, tv
			}
			return nil, err
		}
		return makeResult(v, done), nil
	}
	next := runtime.NewHostFunction("next", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v, done, err := g.Next(arg(args, 0))
		if err == genvm.ErrExecuting {
			return nil, runtime.Throw(ip.Realm.TypeError("Generator is already executing"))
		}
		return driveErr(v, done, err)
	}, ip.Realm.FunctionProto)
	throwFn := runtime.NewHostFunction("throw", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v, done, err := g.Throw(arg(args, 0))
		if err == genvm.ErrExecuting {
			return nil, runtime.Throw(ip.Realm.TypeError("Generator is already executing"))
		}
		return driveErr(v, done, err)
	}, ip.Realm.FunctionProto)
	returnFn := runtime.NewHostFunction("return", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v, done, err := g.Return(arg(args, 0))
		if err == genvm.ErrExecuting {
			return nil, runtime.Throw(ip.Realm.TypeError("Generator is already executing"))
		}
		return driveErr(v, done, err)
	}, ip.Realm.FunctionProto)
	self := runtime.NewHostFunction("[Symbol.iterator]", 0, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return obj, nil
	}, ip.Realm.FunctionProto)
	obj.Define(runtime.StringKey("next"), runtime.Descriptor{Value: next, Writable: true, Configurable: true})
	obj.Define(runtime.StringKey("throw"), runtime.Descriptor{Value: throwFn, Writable: true, Configurable: true})
	obj.Define(runtime.StringKey("return"), runtime.Descriptor{Value: returnFn, Writable: true, Configurable: true})
	obj.Define(runtime.SymbolKey(runtime.SymbolIterator), runtime.Descriptor{Value: self, Writable: true, Configurable: true})
	return obj
}

func arg(args []runtime.Value, i int) runtime.Value {
	if i < len(args) {
		return args[i]
	}
	return runtime.Undefined
}
