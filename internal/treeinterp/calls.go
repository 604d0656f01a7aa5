package treeinterp

import (
	"github.com/cwbudde/jsvm/internal/ast"
	"github.com/cwbudde/jsvm/internal/runtime"
)

// evalMember evaluates `obj.prop`/`obj[expr]`/`obj?.prop`, returning both the
// property's value and the object it was read from (the latter is the
// `this` binding a CallExpression needs when the member is the callee).
func (ip *Interp) evalMember(env *runtime.Environment, n *ast.MemberExpression) (runtime.Value, runtime.Value, *Signal) {
	if _, ok := n.Object.(*ast.SuperExpression); ok {
		home := ip.lookupHome(env)
		if home == nil {
			return nil, nil, throwSignal(ip.Realm.SyntaxError("'super' keyword is only valid inside a class"))
		}
		key, sig := ip.propertyKeyOf(env, n.Property, n.Computed)
		if sig != nil {
			return nil, nil, sig
		}
		proto := runtime.PrototypeOf(home)
		thisVal, _ := env.Get("this")
		v, sig := ip.getProperty(env, proto, key)
		return v, thisVal, sig
	}
	obj, sig := ip.evalExpr(env, n.Object)
	if sig != nil {
		return nil, nil, sig
	}
	if n.Optional && runtime.IsNullish(obj) {
		return runtime.Undefined, runtime.Undefined, nil
	}
	key, sig := ip.propertyKeyOf(env, n.Property, n.Computed)
	if sig != nil {
		return nil, nil, sig
	}
	v, sig := ip.getProperty(env, obj, key)
	return v, obj, sig
}

// evalMemberTarget evaluates the object and key of a MemberExpression used
// as an assignment target, without reading the current property value.
func (ip *Interp) evalMemberTarget(env *runtime.Environment, n *ast.MemberExpression) (runtime.Value, runtime.PropertyKey, *Signal) {
	obj, sig := ip.evalExpr(env, n.Object)
	if sig != nil {
		return nil, runtime.PropertyKey{}, sig
	}
	key, sig := ip.propertyKeyOf(env, n.Property, n.Computed)
	if sig != nil {
		return nil, runtime.PropertyKey{}, sig
	}
	return obj, key, nil
}

// evalCall evaluates a CallExpression, including `obj.method()` this-binding,
// `?.()` optional calls, spread arguments, and `super(...)` constructor
// chaining (§4.5).
func (ip *Interp) evalCall(env *runtime.Environment, n *ast.CallExpression) (runtime.Value, *Signal) {
	if _, ok := n.Callee.(*ast.SuperExpression); ok {
		return ip.evalSuperCall(env, n)
	}
	var callee, thisArg runtime.Value
	var sig *Signal
	if me, ok := n.Callee.(*ast.MemberExpression); ok {
		callee, thisArg, sig = ip.evalMember(env, me)
		if sig != nil {
			return nil, sig
		}
		if me.Optional && runtime.IsNullish(thisArg) {
			return runtime.Undefined, nil
		}
	} else {
		callee, sig = ip.evalExpr(env, n.Callee)
		if sig != nil {
			return nil, sig
		}
		thisArg = runtime.Undefined
	}
	if n.Optional && runtime.IsNullish(callee) {
		return runtime.Undefined, nil
	}
	fn, ok := callee.(*runtime.Function)
	if !ok {
		return nil, throwSignal(ip.Realm.TypeError("%s is not a function", runtime.Inspect(callee)))
	}
	args, sig := ip.evalArguments(env, n.Arguments, n.Spreads)
	if sig != nil {
		return nil, sig
	}
	return ip.call(fn, thisArg, args)
}

func (ip *Interp) evalSuperCall(env *runtime.Environment, n *ast.CallExpression) (runtime.Value, *Signal) {
	superCtor := ip.lookupSuperCtor(env)
	if superCtor == nil {
		return nil, throwSignal(ip.Realm.SyntaxError("'super' keyword is only valid inside a derived class constructor"))
	}
	thisVal, _ := env.Get("this")
	args, sig := ip.evalArguments(env, n.Arguments, n.Spreads)
	if sig != nil {
		return nil, sig
	}
	_, sig = ip.call(superCtor, thisVal, args)
	return runtime.Undefined, sig
}

func (ip *Interp) evalArguments(env *runtime.Environment, exprs []ast.Expression, spreads map[int]bool) ([]runtime.Value, *Signal) {
	var args []runtime.Value
	for i, e := range exprs {
		v, sig := ip.evalExpr(env, e)
		if sig != nil {
			return nil, sig
		}
		if spreads != nil && spreads[i] {
			items, sig := ip.iterableToSlice(env, v)
			if sig != nil {
				return nil, sig
			}
			args = append(args, items...)
			continue
		}
		args = append(args, v)
	}
	return args, nil
}

// call invokes fn, translating a thrown Go error into a Signal the caller's
// expression evaluation threads up normally.
func (ip *Interp) call(fn *runtime.Function, this runtime.Value, args []runtime.Value) (runtime.Value, *Signal) {
	v, err := fn.HostCall(this, args)
	if err != nil {
		if tv, ok := err.(*runtime.ThrownValue); ok {
			return nil, throwSignal(tv.Value)
		}
		return nil, throwSignal(ip.Realm.TypeError("%s", err.Error()))
	}
	return v, nil
}

// evalNew implements `new Callee(args)`: a fresh object linked to the
// constructor's `.prototype`, passed as `this` to the constructor body; if
// the constructor itself returns an object, that supersedes the fresh one
// (§4.5).
func (ip *Interp) evalNew(env *runtime.Environment, n *ast.NewExpression) (runtime.Value, *Signal) {
	calleeV, sig := ip.evalExpr(env, n.Callee)
	if sig != nil {
		return nil, sig
	}
	fn, ok := calleeV.(*runtime.Function)
	if !ok {
		return nil, throwSignal(ip.Realm.TypeError("%s is not a constructor", runtime.Inspect(calleeV)))
	}
	args, sig := ip.evalArguments(env, n.Arguments, nil)
	if sig != nil {
		return nil, sig
	}
	instance := runtime.NewObject(fn.ConstructorPrototype())
	result, sig := ip.call(fn, instance, args)
	if sig != nil {
		return nil, sig
	}
	if _, ok := runtime.AsObject(result); ok {
		return result, nil
	}
	return instance, nil
}

func (ip *Interp) lookupHome(env *runtime.Environment) runtime.Value {
	for e := env; e != nil; e = e.Outer() {
		if v, ok := e.GetLocal("__home__"); ok {
			return v
		}
	}
	return nil
}

func (ip *Interp) lookupSuperCtor(env *runtime.Environment) *runtime.Function {
	for e := env; e != nil; e = e.Outer() {
		if v, ok := e.GetLocal("__superctor__"); ok {
			if fn, ok := v.(*runtime.Function); ok {
				return fn
			}
			return nil
		}
	}
	return nil
}
