package treeinterp

import (
	"github.com/cwbudde/jsvm/internal/ast"
	"github.com/cwbudde/jsvm/internal/async"
	"github.com/cwbudde/jsvm/internal/genvm"
	"github.com/cwbudde/jsvm/internal/runtime"
)

// makeFunction builds a runtime.Function closing over env for an ordinary
// (possibly generator/async) function declaration or expression.
func (ip *Interp) makeFunction(decl *ast.FunctionDeclaration, env *runtime.Environment) *runtime.Function {
	name := ""
	if decl.Name != nil {
		name = decl.Name.Name
	}
	fn := runtime.NewFunction(name, decl.Params, decl.Body, env, ip.Realm.FunctionProto)
	fn.IsGenerator = decl.IsGenerator
	fn.IsAsync = decl.IsAsync
	fn.HostCall = func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return ip.invoke(fn, this, args)
	}
	return fn
}

// makeArrow builds a runtime.Function for an arrow expression: it never
// binds its own `this`/`arguments`, resolving both against the lexical
// environment instead (§4.2).
func (ip *Interp) makeArrow(n *ast.ArrowFunctionExpression, env *runtime.Environment) *runtime.Function {
	var body ast.Node = n.Body
	fn := runtime.NewFunction("", n.Params, body, env, ip.Realm.FunctionProto)
	fn.IsArrow = true
	fn.IsAsync = n.IsAsync
	fn.HostCall = func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return ip.invoke(fn, this, args)
	}
	return fn
}

// invoke runs fn's body to completion against a fresh call environment,
// dispatching to the generator/async machinery when the function is
// declared `function*`/`async function` (§4.5, §4.6, §4.7).
func (ip *Interp) invoke(fn *runtime.Function, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if fn.IsGenerator {
		return ip.invokeGenerator(fn, this, args), nil
	}
	if fn.IsAsync {
		return ip.invokeAsync(fn, this, args), nil
	}
	pop, sig := ip.pushFrame(fn.Name)
	if sig != nil {
		return nil, sig.asError()
	}
	defer pop()
	callEnv := ip.bindCallEnvironment(fn, this, args)
	result, sig := ip.runFunctionBody(callEnv, fn)
	if sig != nil {
		return nil, sig.asError()
	}
	return result, nil
}

// bindCallEnvironment creates the function-scope environment for one call:
// binds `this`/`arguments` (skipped for arrows, which inherit both
// lexically), then binds every parameter, applying defaults to `undefined`
// arguments and collecting a trailing rest parameter.
func (ip *Interp) bindCallEnvironment(fn *runtime.Function, this runtime.Value, args []runtime.Value) *runtime.Environment {
	callEnv := runtime.NewFunctionEnvironment(fn.Env)
	if !fn.IsArrow {
		if this == nil {
			this = runtime.Undefined
		}
		callEnv.DeclareParam("this", this)
		callEnv.DeclareParam("arguments", runtime.NewArray(ip.Realm.ArrayProto, args))
	}
	if fn.HomeObject != nil {
		callEnv.DeclareParam("__home__", fn.HomeObject)
	}
	ip.bindParams(callEnv, fn.Params, args)
	return callEnv
}

func (ip *Interp) bindParams(env *runtime.Environment, params []*ast.Param, args []runtime.Value) {
	for i, p := range params {
		if p.Rest {
			var rest []runtime.Value
			if i < len(args) {
				rest = append([]runtime.Value{}, args[i:]...)
			}
			ip.bindParam(env, p.Target, runtime.NewArray(ip.Realm.ArrayProto, rest), p)
			continue
		}
		var v runtime.Value = runtime.Undefined
		if i < len(args) && args[i] != nil {
			v = args[i]
		}
		ip.bindParam(env, p.Target, v, p)
	}
}

func (ip *Interp) bindParam(env *runtime.Environment, target ast.Expression, v runtime.Value, p *ast.Param) {
	if runtime.IsUndefined(v) && p.Default != nil {
		dv, sig := ip.evalExpr(env, p.Default)
		if sig == nil {
			v = dv
		}
	}
	for _, name := range bindingNames(target) {
		env.DeclareParam(name, runtime.Undefined)
	}
	_ = ip.bindPattern(env, target, v, ast.VarKindVar)
}

// runFunctionBody evaluates fn's body (a *ast.BlockStatement for ordinary
// functions, or a bare Expression for a concise arrow) and normalizes the
// completion to a plain return value: SigReturn unwraps to its value,
// falling off the end of a block yields `undefined`.
func (ip *Interp) runFunctionBody(env *runtime.Environment, fn *runtime.Function) (runtime.Value, *Signal) {
	switch body := fn.Body.(type) {
	case *ast.BlockStatement:
		ip.hoistBlockDeclarations(env, body.Statements, true)
		for _, s := range body.Statements {
			sig := ip.evalStatement(env, s)
			if sig == nil {
				continue
			}
			if sig.Kind == SigReturn {
				return sig.Value, nil
			}
			return nil, sig
		}
		return runtime.Undefined, nil
	case ast.Expression:
		v, sig := ip.evalExpr(env, body)
		if sig != nil {
			return nil, sig
		}
		return v, nil
	default:
		return runtime.Undefined, nil
	}
}

// invokeGenerator drives fn's body on its own parked goroutine via
// internal/genvm, returning the generator object immediately (the body does
// not start running until the first `.next()`, per §3 Generator object).
func (ip *Interp) invokeGenerator(fn *runtime.Function, this runtime.Value, args []runtime.Value) *runtime.Object {
	callEnv := ip.bindCallEnvironment(fn, this, args)
	g := genvm.NewGenerator(func(y *genvm.Yielder) (interface{}, error) {
		ip.yielders[callEnv] = y
		defer delete(ip.yielders, callEnv)
		result, sig := ip.runFunctionBody(callEnv, fn)
		if sig != nil {
			return nil, sig.asError()
		}
		return result, nil
	})
	return ip.wrapGenerator(g)
}

// invokeAsync drives fn's body on its own parked goroutine via
// internal/async, returning a pending Promise immediately, settled once the
// body returns/throws or every awaited value resolves (§4.7, §5).
func (ip *Interp) invokeAsync(fn *runtime.Function, this runtime.Value, args []runtime.Value) *runtime.Promise {
	callEnv := ip.bindCallEnvironment(fn, this, args)
	return ip.Async.RunAsync(func(a *async.Awaiter) (runtime.Value, error) {
		ip.awaiters[callEnv] = a
		defer delete(ip.awaiters, callEnv)
		result, sig := ip.runFunctionBody(callEnv, fn)
		if sig != nil {
			return nil, sig.asError()
		}
		return result, nil
	})
}

// evalYield hooks a `yield`/`yield*` expression to the Yielder parked for
// the nearest enclosing generator call environment (§4.6).
func (ip *Interp) evalYield(env *runtime.Environment, n *ast.YieldExpression) (runtime.Value, *Signal) {
	y := ip.lookupYielder(env)
	if y == nil {
		return nil, throwSignal(ip.Realm.SyntaxError("yield used outside a generator"))
	}
	if n.Delegate {
		return ip.evalYieldDelegate(env, n, y)
	}
	var arg runtime.Value = runtime.Undefined
	if n.Argument != nil {
		v, sig := ip.evalExpr(env, n.Argument)
		if sig != nil {
			return nil, sig
		}
		arg = v
	}
	kind, resumeVal := y.Yield(arg)
	return ip.applyResume(kind, resumeVal)
}

// evalYieldDelegate implements `yield* expr`: forwards next/throw/return
// drives to the inner iterable, and is transparent to the values it
// produces, per §4.6.
func (ip *Interp) evalYieldDelegate(env *runtime.Environment, n *ast.YieldExpression, y *genvm.Yielder) (runtime.Value, *Signal) {
	iterable, sig := ip.evalExpr(env, n.Argument)
	if sig != nil {
		return nil, sig
	}
	iter, sig := ip.getIterator(env, iterable)
	if sig != nil {
		return nil, sig
	}
	var sent runtime.Value = runtime.Undefined
	for {
		result, _, sig := ip.callIteratorMethod(env, iter, "next", sent)
		if sig != nil {
			return nil, sig
		}
		done, value, sig := ip.unpackIterResult(env, result)
		if sig != nil {
			return nil, sig
		}
		if done {
			return value, nil
		}
		kind, resumeVal := y.Yield(value)
		switch kind {
		case genvm.ResumeNext:
			sent = toRuntimeValue(resumeVal)
		case genvm.ResumeThrow:
			thrown := toRuntimeValue(resumeVal)
			res, _, sig := ip.callIteratorMethod(env, iter, "throw", thrown)
			if sig != nil {
				return nil, sig
			}
			done, value, sig := ip.unpackIterResult(env, res)
			if sig != nil {
				return nil, sig
			}
			if done {
				return value, nil
			}
			sent = runtime.Undefined
		case genvm.ResumeReturn:
			retVal := toRuntimeValue(resumeVal)
			res, _, sig := ip.callIteratorMethod(env, iter, "return", retVal)
			if sig != nil {
				return nil, sig
			}
			done, value, sig := ip.unpackIterResult(env, res)
			if sig != nil {
				return nil, sig
			}
			if done {
				return nil, &Signal{Kind: SigReturn, Value: value}
			}
		}
	}
}

func (ip *Interp) applyResume(kind genvm.ResumeKind, resumeVal interface{}) (runtime.Value, *Signal) {
	switch kind {
	case genvm.ResumeThrow:
		return nil, throwSignal(toRuntimeValue(resumeVal))
	case genvm.ResumeReturn:
		return nil, &Signal{Kind: SigReturn, Value: toRuntimeValue(resumeVal)}
	default:
		return toRuntimeValue(resumeVal), nil
	}
}

func toRuntimeValue(v interface{}) runtime.Value {
	if v == nil {
		return runtime.Undefined
	}
	if rv, ok := v.(runtime.Value); ok {
		return rv
	}
	return runtime.Undefined
}

// evalAwait hooks an `await` expression to the Awaiter parked for the
// nearest enclosing async call environment (§4.7).
func (ip *Interp) evalAwait(env *runtime.Environment, n *ast.AwaitExpression) (runtime.Value, *Signal) {
	a := ip.lookupAwaiter(env)
	if a == nil {
		return nil, throwSignal(ip.Realm.SyntaxError("await used outside an async function"))
	}
	v, sig := ip.evalExpr(env, n.Argument)
	if sig != nil {
		return nil, sig
	}
	result, err := a.Await(v)
	if err != nil {
		if tv, ok := err.(*runtime.ThrownValue); ok {
			return nil, throwSignal(tv.Value)
		}
		return nil, throwSignal(ip.Realm.TypeError("%s", err.Error()))
	}
	return result, nil
}

func (ip *Interp) lookupYielder(env *runtime.Environment) *genvm.Yielder {
	for e := env; e != nil; e = e.Outer() {
		if y, ok := ip.yielders[e]; ok {
			return y
		}
	}
	return nil
}

func (ip *Interp) lookupAwaiter(env *runtime.Environment) *async.Awaiter {
	for e := env; e != nil; e = e.Outer() {
		if a, ok := ip.awaiters[e]; ok {
			return a
		}
	}
	return nil
}
