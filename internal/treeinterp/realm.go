package treeinterp

import "github.com/cwbudde/jsvm/internal/runtime"

// NewRealm wires up the handful of shared prototypes every value links to.
// internal/builtins populates their method tables; this only establishes
// the prototype chain skeleton (Object.prototype at the root, everything
// else linking to it) so the tree interpreter can construct objects/arrays/
// functions/errors before the builtins package has run.
func NewRealm() *runtime.Realm {
	objectProto := runtime.NewObject(runtime.Null)
	functionProto := runtime.NewObject(objectProto)
	arrayProto := runtime.NewObject(objectProto)
	stringProto := runtime.NewObject(objectProto)
	regexpProto := runtime.NewObject(objectProto)
	promiseProto := runtime.NewObject(objectProto)
	generatorProto := runtime.NewObject(objectProto)

	errorProtos := map[runtime.ErrorKind]*runtime.Object{}
	base := runtime.NewObject(objectProto)
	base.Define(runtime.StringKey("name"), runtime.Descriptor{Value: runtime.StringValue("Error"), Writable: true, Configurable: true})
	errorProtos[runtime.KindError] = base
	for _, kind := range []runtime.ErrorKind{runtime.KindTypeError, runtime.KindReferenceError, runtime.KindSyntaxError, runtime.KindRangeError} {
		proto := runtime.NewObject(base)
		proto.Define(runtime.StringKey("name"), runtime.Descriptor{Value: runtime.StringValue(string(kind)), Writable: true, Configurable: true})
		errorProtos[kind] = proto
	}

	return &runtime.Realm{
		ObjectProto:    objectProto,
		FunctionProto:  functionProto,
		ArrayProto:     arrayProto,
		StringProto:    stringProto,
		ErrorProtos:    errorProtos,
		RegExpProto:    regexpProto,
		PromiseProto:   promiseProto,
		GeneratorProto: generatorProto,
		Globals:        runtime.NewObject(objectProto),
	}
}
