package builtins

import "github.com/cwbudde/jsvm/internal/runtime"

// registerSymbol installs the `Symbol` factory function plus the
// well-known `Symbol.iterator`/`Symbol.asyncIterator` (§3 Value: "Symbol
// (interned, well-known iterator and asyncIterator included)").
func registerSymbol(realm *runtime.Realm, env *runtime.Environment) {
	fn := runtime.NewHostFunction("Symbol", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		desc := ""
		if len(args) > 0 && !runtime.IsUndefined(args[0]) {
			desc = runtime.ToString(args[0])
		}
		return runtime.NewSymbol(desc), nil
	}, realm.FunctionProto)
	fn.Define(runtime.StringKey("iterator"), runtime.Descriptor{Value: runtime.SymbolIterator})
	fn.Define(runtime.StringKey("asyncIterator"), runtime.Descriptor{Value: runtime.SymbolAsyncIterator})

	defineGlobal(realm, env, "Symbol", fn)
}
