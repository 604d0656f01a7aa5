package treeinterp

import (
	"github.com/cwbudde/jsvm/internal/ast"
	"github.com/cwbudde/jsvm/internal/runtime"
)

// buildClass constructs the constructor Function and its prototype object
// for a class declaration/expression: `extends` links both the prototype
// chain and the constructor's own super-call target, fields initialize in
// declaration order (right after the implicit `super(...)` for a derived
// class without its own constructor, otherwise before the constructor body
// runs, explicit `super(...)` included; see runMethodBody), and static
// members attach to the constructor object itself (§4.5).
func (ip *Interp) buildClass(env *runtime.Environment, decl *ast.ClassDeclaration) (*runtime.Function, *Signal) {
	var superCtor *runtime.Function
	protoParent := runtime.Value(ip.Realm.ObjectProto)
	if decl.SuperClass != nil {
		superVal, sig := ip.evalExpr(env, decl.SuperClass)
		if sig != nil {
			return nil, sig
		}
		fn, ok := superVal.(*runtime.Function)
		if !ok {
			return nil, throwSignal(ip.Realm.TypeError("Class extends value is not a constructor"))
		}
		superCtor = fn
		protoParent = fn.ConstructorPrototype()
	}
	proto := runtime.NewObject(protoParent)

	var ctorDecl *ast.ClassMethod
	for _, m := range decl.Methods {
		if m.Kind == ast.MethodKindConstructor {
			ctorDecl = m
		}
	}

	name := ""
	if decl.Name != nil {
		name = decl.Name.Name
	}

	var fields []*ast.ClassProperty
	for _, p := range decl.Properties {
		if !p.Static {
			fields = append(fields, p)
		}
	}

	ctor := runtime.NewFunction(name, nil, nil, env, ip.Realm.FunctionProto)
	ctor.IsClassCtor = true
	if ctorDecl != nil {
		ctor.Params = ctorDecl.Value.Params
	}
	proto.Define(runtime.StringKey("constructor"), runtime.Descriptor{Value: ctor, Writable: true, Configurable: true})
	ctor.Define(runtime.StringKey("prototype"), runtime.Descriptor{Value: proto, Writable: false})
	ctor.HomeObject = proto

	ctor.HostCall = func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		pop, sig := ip.pushFrame(name)
		if sig != nil {
			return nil, sig.asError()
		}
		defer pop()
		callEnv := ip.newMethodEnvironment(env, this, args, ctor.Params, proto, superCtor)
		if ctorDecl == nil {
			if superCtor != nil {
				if _, sig := ip.call(superCtor, this, args); sig != nil {
					return nil, sig.asError()
				}
			}
			if sig := ip.initFields(callEnv, this, fields); sig != nil {
				return nil, sig.asError()
			}
			return runtime.Undefined, nil
		}
		result, sig := ip.runMethodBody(callEnv, ctorDecl.Value.Body, func() *Signal {
			return ip.initFields(callEnv, this, fields)
		})
		if sig != nil {
			return nil, sig.asError()
		}
		return result, nil
	}

	for _, m := range decl.Methods {
		if m.Kind == ast.MethodKindConstructor {
			continue
		}
		if sig := ip.attachMethod(env, ctor, proto, m, superCtor); sig != nil {
			return nil, sig
		}
	}
	for _, p := range decl.Properties {
		if !p.Static {
			continue
		}
		key, sig := ip.propertyKeyOf(env, p.Key, p.Computed)
		if sig != nil {
			return nil, sig
		}
		var v runtime.Value = runtime.Undefined
		if p.Value != nil {
			v, sig = ip.evalExpr(env, p.Value)
			if sig != nil {
				return nil, sig
			}
		}
		ctor.Define(key, runtime.Descriptor{Value: v, Writable: true, Configurable: true})
	}

	return ctor, nil
}

// runMethodBody runs a constructor body. Fields initialize before the body
// runs; for a derived class this assumes `super(...)` is the constructor's
// first statement (the overwhelmingly common case) rather than tracking the
// exact post-super point as its own TDZ-like state.
func (ip *Interp) runMethodBody(env *runtime.Environment, body *ast.BlockStatement, initFields func() *Signal) (runtime.Value, *Signal) {
	if sig := initFields(); sig != nil {
		return nil, sig
	}
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
}

func (ip *Interp) initFields(env *runtime.Environment, this runtime.Value, fields []*ast.ClassProperty) *Signal {
	for _, f := range fields {
		key, sig := ip.propertyKeyOf(env, f.Key, f.Computed)
		if sig != nil {
			return sig
		}
		var v runtime.Value = runtime.Undefined
		if f.Value != nil {
			v, sig = ip.evalExpr(env, f.Value)
			if sig != nil {
				return sig
			}
		}
		if err := ip.setProperty(this, key, v); err != nil {
			return throwSignal(ip.Realm.TypeError("%s", err.Error()))
		}
	}
	return nil
}

func (ip *Interp) attachMethod(env *runtime.Environment, ctor *runtime.Function, proto *runtime.Object, m *ast.ClassMethod, superCtor *runtime.Function) *Signal {
	key, sig := ip.propertyKeyOf(env, m.Key, m.Computed)
	if sig != nil {
		return sig
	}
	target := runtime.Value(proto)
	if m.Static {
		target = ctor
	}
	fn := ip.makeFunction(m.Value, env)
	fn.HomeObject = target
	switch m.Kind {
	case ast.MethodKindGetter, ast.MethodKindSetter:
		var existing *runtime.Descriptor
		if m.Static {
			existing, _ = runtime.GetOwnDescriptor(ctor, key)
		} else {
			existing, _ = proto.GetOwnDescriptor(key)
		}
		desc := runtime.Descriptor{IsAccessor: true, Enumerable: false, Configurable: true}
		if existing != nil && existing.IsAccessor {
			desc.Get, desc.Set = existing.Get, existing.Set
		}
		if m.Kind == ast.MethodKindGetter {
			desc.Get = fn
		} else {
			desc.Set = fn
		}
		if m.Static {
			ctor.Define(key, desc)
		} else {
			proto.Define(key, desc)
		}
	default:
		desc := runtime.Descriptor{Value: fn, Writable: true, Enumerable: false, Configurable: true}
		if m.Static {
			ctor.Define(key, desc)
		} else {
			proto.Define(key, desc)
		}
	}
	return nil
}

// newMethodEnvironment builds the call environment for a constructor or
// method body, binding the hidden `__home__`/`__superctor__` lookups
// `super.member`/`super(...)` resolve against (§4.5).
func (ip *Interp) newMethodEnvironment(defEnv *runtime.Environment, this runtime.Value, args []runtime.Value, params []*ast.Param, home runtime.Value, superCtor *runtime.Function) *runtime.Environment {
	callEnv := runtime.NewFunctionEnvironment(defEnv)
	callEnv.DeclareParam("this", this)
	callEnv.DeclareParam("arguments", runtime.NewArray(ip.Realm.ArrayProto, args))
	callEnv.DeclareParam("__home__", home)
	if superCtor != nil {
		callEnv.DeclareParam("__superctor__", superCtor)
	}
	ip.bindParams(callEnv, params, args)
	return callEnv
}
