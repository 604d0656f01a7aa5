package builtins

import (
	"testing"

	"github.com/cwbudde/jsvm/internal/async"
	"github.com/cwbudde/jsvm/internal/runtime"
)

// newTestRealm builds just enough of a Realm for Register to populate
// (no treeinterp.NewRealm here: internal/treeinterp imports this package,
// so pulling it in would be a cycle).
func newTestRealm() (*runtime.Realm, *runtime.Environment) {
	objectProto := runtime.NewObject(runtime.Null)
	realm := &runtime.Realm{
		ObjectProto:    objectProto,
		FunctionProto:  runtime.NewObject(objectProto),
		ArrayProto:     runtime.NewObject(objectProto),
		StringProto:    runtime.NewObject(objectProto),
		RegExpProto:    runtime.NewObject(objectProto),
		PromiseProto:   runtime.NewObject(objectProto),
		GeneratorProto: runtime.NewObject(objectProto),
		ErrorProtos:    map[runtime.ErrorKind]*runtime.Object{},
		Globals:        runtime.NewObject(objectProto),
	}
	base := runtime.NewObject(objectProto)
	realm.ErrorProtos[runtime.KindError] = base
	for _, kind := range []runtime.ErrorKind{runtime.KindTypeError, runtime.KindReferenceError, runtime.KindSyntaxError, runtime.KindRangeError} {
		realm.ErrorProtos[kind] = runtime.NewObject(base)
	}
	env := runtime.NewGlobalEnvironment()
	Register(realm, env, async.NewDriver(realm))
	return realm, env
}

func global(t *testing.T, env *runtime.Environment, name string) *runtime.Function {
	t.Helper()
	v, err := env.Get(name)
	if err != nil {
		t.Fatalf("global %q not registered: %v", name, err)
	}
	fn, ok := v.(*runtime.Function)
	if !ok {
		t.Fatalf("global %q = %T, want *runtime.Function", name, v)
	}
	return fn
}

// propertyGetter is satisfied by both *runtime.Object (prototypes) and
// *runtime.Function (constructors carrying their own static methods), so
// method() can fetch a named method off either without the caller needing
// to know which.
type propertyGetter interface {
	Get(key runtime.PropertyKey, receiver runtime.Value) (runtime.Value, error)
}

func method(t *testing.T, owner propertyGetter, name string) *runtime.Function {
	t.Helper()
	v, err := owner.Get(runtime.StringKey(name), runtime.Undefined)
	if err != nil {
		t.Fatalf("method %q: %v", name, err)
	}
	fn, ok := v.(*runtime.Function)
	if !ok {
		t.Fatalf("method %q = %T, want *runtime.Function", name, v)
	}
	return fn
}

func TestArrayMapFilterReduceJoin(t *testing.T) {
	realm, _ := newTestRealm()
	a := runtime.NewArray(realm.ArrayProto, []runtime.Value{runtime.Number(1), runtime.Number(2), runtime.Number(3), runtime.Number(4)})

	double := runtime.NewHostFunction("double", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NumberValue(runtime.ToNumber(arg(args, 0)) * 2), nil
	}, realm.FunctionProto)
	mapped, err := method(t, realm.ArrayProto, "map").HostCall(a, []runtime.Value{double})
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	mappedArr, ok := mapped.(*runtime.Array)
	if !ok || mappedArr.Length() != 4 {
		t.Fatalf("map result = %v, want a 4-element array", mapped)
	}

	isEven := runtime.NewHostFunction("isEven", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.BoolValue(int(runtime.ToNumber(arg(args, 0)))%2 == 0), nil
	}, realm.FunctionProto)
	filtered, err := method(t, realm.ArrayProto, "filter").HostCall(mappedArr, []runtime.Value{isEven})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if filtered.(*runtime.Array).Length() != 4 {
		t.Fatalf("filter result = %v, want all 4 elements (every doubled value is even)", filtered)
	}

	sum := runtime.NewHostFunction("sum", 2, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NumberValue(runtime.ToNumber(arg(args, 0)) + runtime.ToNumber(arg(args, 1))), nil
	}, realm.FunctionProto)
	total, err := method(t, realm.ArrayProto, "reduce").HostCall(a, []runtime.Value{sum, runtime.Number(0)})
	if err != nil || total != runtime.Number(10) {
		t.Fatalf("reduce = %v, %v, want 10, nil", total, err)
	}

	joined, err := method(t, realm.ArrayProto, "join").HostCall(mappedArr, []runtime.Value{runtime.StringValue("-")})
	if err != nil || joined != runtime.String("2-4-6-8") {
		t.Fatalf("join = %v, %v, want 2-4-6-8, nil", joined, err)
	}
}

func TestArraySortWithComparator(t *testing.T) {
	realm, _ := newTestRealm()
	a := runtime.NewArray(realm.ArrayProto, []runtime.Value{runtime.Number(3), runtime.Number(1), runtime.Number(2)})
	cmp := runtime.NewHostFunction("cmp", 2, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NumberValue(runtime.ToNumber(arg(args, 0)) - runtime.ToNumber(arg(args, 1))), nil
	}, realm.FunctionProto)
	sorted, err := method(t, realm.ArrayProto, "sort").HostCall(a, []runtime.Value{cmp})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	els := sorted.(*runtime.Array).Elements()
	if els[0] != runtime.Number(1) || els[1] != runtime.Number(2) || els[2] != runtime.Number(3) {
		t.Errorf("sorted = %v, want [1, 2, 3]", els)
	}
}

func TestArraySortDefaultIsLexicographic(t *testing.T) {
	realm, _ := newTestRealm()
	a := runtime.NewArray(realm.ArrayProto, []runtime.Value{runtime.Number(10), runtime.Number(2), runtime.Number(1)})
	sorted, err := method(t, realm.ArrayProto, "sort").HostCall(a, nil)
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	els := sorted.(*runtime.Array).Elements()
	if runtime.ToString(els[0]) != "1" || runtime.ToString(els[1]) != "10" || runtime.ToString(els[2]) != "2" {
		t.Errorf("default sort = %v, want [1, 10, 2] (string order)", els)
	}
}

func TestArraySpliceInsertAndRemove(t *testing.T) {
	realm, _ := newTestRealm()
	a := runtime.NewArray(realm.ArrayProto, []runtime.Value{runtime.Number(1), runtime.Number(2), runtime.Number(3), runtime.Number(4)})
	removed, err := method(t, realm.ArrayProto, "splice").HostCall(a, []runtime.Value{runtime.Number(1), runtime.Number(2), runtime.Number(99)})
	if err != nil {
		t.Fatalf("splice: %v", err)
	}
	if r := removed.(*runtime.Array).Elements(); len(r) != 2 || r[0] != runtime.Number(2) || r[1] != runtime.Number(3) {
		t.Errorf("removed = %v, want [2, 3]", r)
	}
	if got := a.Elements(); len(got) != 3 || got[0] != runtime.Number(1) || got[1] != runtime.Number(99) || got[2] != runtime.Number(4) {
		t.Errorf("array after splice = %v, want [1, 99, 4]", got)
	}
}

func TestStringSliceAndCase(t *testing.T) {
	realm, _ := newTestRealm()
	s := runtime.String("Hello")
	upper, err := method(t, realm.StringProto, "toUpperCase").HostCall(s, nil)
	if err != nil || upper != runtime.String("HELLO") {
		t.Fatalf("toUpperCase = %v, %v, want HELLO, nil", upper, err)
	}
	sliced, err := method(t, realm.StringProto, "slice").HostCall(s, []runtime.Value{runtime.Number(1), runtime.Number(3)})
	if err != nil || sliced != runtime.String("el") {
		t.Fatalf("slice(1,3) = %v, %v, want el, nil", sliced, err)
	}
}

func TestStringReplaceWithCallback(t *testing.T) {
	realm, _ := newTestRealm()
	s := runtime.String("a1b2")
	upperMatch := runtime.NewHostFunction("upperMatch", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.StringValue(runtime.ToString(arg(args, 0)) + "!"), nil
	}, realm.FunctionProto)
	out, err := method(t, realm.StringProto, "replace").HostCall(s, []runtime.Value{runtime.StringValue("1"), upperMatch})
	if err != nil || out != runtime.String("a1!b2") {
		t.Fatalf("replace with callback = %v, %v, want a1!b2, nil", out, err)
	}
}

func TestStringMethodOnNonStringThrows(t *testing.T) {
	realm, _ := newTestRealm()
	_, err := method(t, realm.StringProto, "toUpperCase").HostCall(runtime.Number(5), nil)
	if err == nil {
		t.Fatal("expected a TypeError calling a String.prototype method on a non-string receiver")
	}
}

func TestMathMaxMinAndRounding(t *testing.T) {
	realm, env := newTestRealm()
	m, err := env.Get("Math")
	if err != nil {
		t.Fatalf("Math global: %v", err)
	}
	mObj := m.(*runtime.Object)
	maxFn := method(t, mObj, "max")
	got, err := maxFn.HostCall(runtime.Undefined, []runtime.Value{runtime.Number(1), runtime.Number(9), runtime.Number(4)})
	if err != nil || got != runtime.Number(9) {
		t.Fatalf("Math.max = %v, %v, want 9, nil", got, err)
	}
	minFn := method(t, mObj, "min")
	got, err = minFn.HostCall(runtime.Undefined, []runtime.Value{runtime.Number(1), runtime.Number(9), runtime.Number(4)})
	if err != nil || got != runtime.Number(1) {
		t.Fatalf("Math.min = %v, %v, want 1, nil", got, err)
	}
	round := method(t, mObj, "round")
	got, err = round.HostCall(runtime.Undefined, []runtime.Value{runtime.Number(2.5)})
	if err != nil || got != runtime.Number(3) {
		t.Fatalf("Math.round(2.5) = %v, %v, want 3, nil", got, err)
	}
	_ = realm
}

func TestJSONStringifyAndParseRoundTrip(t *testing.T) {
	realm, env := newTestRealm()
	j, err := env.Get("JSON")
	if err != nil {
		t.Fatalf("JSON global: %v", err)
	}
	jObj := j.(*runtime.Object)

	obj := runtime.NewObject(realm.ObjectProto)
	obj.Define(runtime.StringKey("a"), runtime.Descriptor{Value: runtime.Number(1), Enumerable: true})
	obj.Define(runtime.StringKey("b"), runtime.Descriptor{Value: runtime.StringValue("x"), Enumerable: true})

	stringify := method(t, jObj, "stringify")
	text, err := stringify.HostCall(runtime.Undefined, []runtime.Value{obj})
	if err != nil {
		t.Fatalf("stringify: %v", err)
	}

	parse := method(t, jObj, "parse")
	back, err := parse.HostCall(runtime.Undefined, []runtime.Value{text})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	backObj, ok := back.(*runtime.Object)
	if !ok {
		t.Fatalf("parsed = %T, want *runtime.Object", back)
	}
	a, _ := runtime.GetProperty(backObj, runtime.StringKey("a"), backObj)
	b, _ := runtime.GetProperty(backObj, runtime.StringKey("b"), backObj)
	if a != runtime.Number(1) || b != runtime.String("x") {
		t.Errorf("round-tripped a=%v b=%v, want 1, x", a, b)
	}
}

func TestJSONParseInvalidThrows(t *testing.T) {
	_, env := newTestRealm()
	j, _ := env.Get("JSON")
	parse := method(t, j.(*runtime.Object), "parse")
	if _, err := parse.HostCall(runtime.Undefined, []runtime.Value{runtime.StringValue("{not json")}); err == nil {
		t.Fatal("expected a throw for invalid JSON text")
	}
}

func TestRegExpTestAndExec(t *testing.T) {
	realm, _ := newTestRealm()
	re, err := runtime.CompileRegExp(`(\d+)-(\d+)`, "", realm.RegExpProto)
	if err != nil {
		t.Fatalf("CompileRegExp: %v", err)
	}
	testFn := method(t, realm.RegExpProto, "test")
	ok, err := testFn.HostCall(re, []runtime.Value{runtime.StringValue("no digits")})
	if err != nil || ok != runtime.False {
		t.Fatalf("test = %v, %v, want false, nil", ok, err)
	}
	execFn := method(t, realm.RegExpProto, "exec")
	m, err := execFn.HostCall(re, []runtime.Value{runtime.StringValue("12-34")})
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	arr, ok := m.(*runtime.Array)
	if !ok || arr.Length() != 3 {
		t.Fatalf("exec result = %v, want a 3-element match array", m)
	}
	if els := arr.Elements(); els[1] != runtime.String("12") || els[2] != runtime.String("34") {
		t.Errorf("capture groups = %v, want [12, 34]", els[1:])
	}
}

func TestObjectKeysValuesEntries(t *testing.T) {
	realm, env := newTestRealm()
	o, _ := env.Get("Object")
	ctor := o.(*runtime.Function)

	target := runtime.NewObject(realm.ObjectProto)
	target.Define(runtime.StringKey("x"), runtime.Descriptor{Value: runtime.Number(1), Enumerable: true})
	target.Define(runtime.StringKey("y"), runtime.Descriptor{Value: runtime.Number(2), Enumerable: true})

	keysFn := method(t, ctor, "keys")
	keys, err := keysFn.HostCall(runtime.Undefined, []runtime.Value{target})
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if arr := keys.(*runtime.Array); arr.Length() != 2 {
		t.Errorf("Object.keys length = %d, want 2", arr.Length())
	}

	valuesFn := method(t, ctor, "values")
	values, err := valuesFn.HostCall(runtime.Undefined, []runtime.Value{target})
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	if arr := values.(*runtime.Array); arr.Length() != 2 {
		t.Errorf("Object.values length = %d, want 2", arr.Length())
	}
}

func TestObjectFreezeIsFrozen(t *testing.T) {
	realm, env := newTestRealm()
	o, _ := env.Get("Object")
	ctor := o.(*runtime.Function)
	target := runtime.NewObject(realm.ObjectProto)

	freezeFn := method(t, ctor, "freeze")
	if _, err := freezeFn.HostCall(runtime.Undefined, []runtime.Value{target}); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	isFrozenFn := method(t, ctor, "isFrozen")
	frozen, err := isFrozenFn.HostCall(runtime.Undefined, []runtime.Value{target})
	if err != nil || frozen != runtime.True {
		t.Fatalf("isFrozen = %v, %v, want true, nil", frozen, err)
	}
}

func TestSymbolFactoryProducesDistinctSymbols(t *testing.T) {
	_, env := newTestRealm()
	factory := global(t, env, "Symbol")
	a, err := factory.HostCall(runtime.Undefined, []runtime.Value{runtime.StringValue("tag")})
	if err != nil {
		t.Fatalf("Symbol(tag): %v", err)
	}
	b, err := factory.HostCall(runtime.Undefined, []runtime.Value{runtime.StringValue("tag")})
	if err != nil {
		t.Fatalf("Symbol(tag): %v", err)
	}
	if runtime.StrictEquals(a, b) {
		t.Error("two Symbol(tag) calls should produce distinct symbols")
	}
	if !runtime.StrictEquals(a, a) {
		t.Error("a symbol should equal itself")
	}
}

func TestDateGettersAndISOString(t *testing.T) {
	_, env := newTestRealm()
	ctor := global(t, env, "Date")
	inst, err := ctor.HostCall(runtime.Undefined, []runtime.Value{
		runtime.Number(2024), runtime.Number(0), runtime.Number(15),
		runtime.Number(10), runtime.Number(30), runtime.Number(0), runtime.Number(0),
	})
	if err != nil {
		t.Fatalf("new Date(...): %v", err)
	}
	proto := ctor.ConstructorPrototype()
	year, err := method(t, proto, "getFullYear").HostCall(inst, nil)
	if err != nil || year != runtime.Number(2024) {
		t.Fatalf("getFullYear = %v, %v, want 2024, nil", year, err)
	}
	iso, err := method(t, proto, "toISOString").HostCall(inst, nil)
	if err != nil || iso != runtime.String("2024-01-15T10:30:00.000Z") {
		t.Fatalf("toISOString = %v, %v, want 2024-01-15T10:30:00.000Z, nil", iso, err)
	}
}

func TestErrorCtorBuildsInstanceOnPrototype(t *testing.T) {
	_, env := newTestRealm()
	ctor := global(t, env, "TypeError")
	inst, err := ctor.HostCall(runtime.Undefined, []runtime.Value{runtime.StringValue("bad value")})
	if err != nil {
		t.Fatalf("new TypeError: %v", err)
	}
	obj := inst.(*runtime.Object)
	msg, _ := runtime.GetProperty(obj, runtime.StringKey("message"), obj)
	if msg != runtime.String("bad value") {
		t.Errorf("message = %v, want bad value", msg)
	}
	if runtime.PrototypeOf(obj) != runtime.Value(ctor.ConstructorPrototype()) {
		t.Error("instance prototype should be TypeError.prototype")
	}
}
