package builtins

import "github.com/cwbudde/jsvm/internal/runtime"

// registerRegExp installs the `RegExp` constructor and prototype methods
// (§9 Standard Library: "RegExp (constructor and literal; flags g i m;
// methods test exec source)"). Literal `/.../flags` syntax is handled
// directly in the tree interpreter via runtime.CompileRegExp; this only
// covers `new RegExp(pattern, flags)` and the shared prototype surface.
func registerRegExp(realm *runtime.Realm, env *runtime.Environment) {
	proto := realm.RegExpProto

	ctor := runtime.NewHostFunction("RegExp", 2, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if re, ok := arg(args, 0).(*runtime.RegExp); ok && len(args) < 2 {
			return re, nil
		}
		pattern := runtime.ToString(arg(args, 0))
		flags := ""
		if len(args) > 1 && !runtime.IsUndefined(args[1]) {
			flags = runtime.ToString(args[1])
		}
		re, err := runtime.CompileRegExp(pattern, flags, proto)
		if err != nil {
			return nil, typeError(realm, "Invalid regular expression: %s", err.Error())
		}
		return re, nil
	}, realm.FunctionProto)
	ctor.Define(runtime.StringKey("prototype"), runtime.Descriptor{Value: proto, Writable: false})
	proto.Define(runtime.StringKey("constructor"), runtime.Descriptor{Value: ctor, Writable: true, Configurable: true})

	defineMethod(realm, proto, "test", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		re, ok := this.(*runtime.RegExp)
		if !ok {
			return nil, typeError(realm, "RegExp.prototype.test called on a non-RegExp")
		}
		return runtime.BoolValue(re.Test(runtime.ToString(arg(args, 0)))), nil
	})
	defineMethod(realm, proto, "exec", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		re, ok := this.(*runtime.RegExp)
		if !ok {
			return nil, typeError(realm, "RegExp.prototype.exec called on a non-RegExp")
		}
		m := re.Exec(runtime.ToString(arg(args, 0)))
		if m == nil {
			return runtime.Null, nil
		}
		return matchResultArray(realm, m), nil
	})
	defineMethod(realm, proto, "toString", 0, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		re, ok := this.(*runtime.RegExp)
		if !ok {
			return nil, typeError(realm, "RegExp.prototype.toString called on a non-RegExp")
		}
		return runtime.StringValue("/" + re.Source + "/" + re.Flags), nil
	})

	defineGlobal(realm, env, "RegExp", ctor)
}
