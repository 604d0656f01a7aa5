package runtime

import "testing"

func TestObjectOwnPropertyRoundTrip(t *testing.T) {
	o := NewObject(Null)
	if err := o.Define(StringKey("x"), Descriptor{Value: Number(1), Writable: true, Enumerable: true, Configurable: true}); err != nil {
		t.Fatalf("Define: %v", err)
	}
	got, err := o.Get(StringKey("x"), o)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != Number(1) {
		t.Errorf("Get(x) = %v, want 1", got)
	}
	if !o.Has(StringKey("x")) {
		t.Error("Has(x) should be true")
	}
	if o.Has(StringKey("missing")) {
		t.Error("Has(missing) should be false")
	}
}

func TestObjectPrototypeChainLookup(t *testing.T) {
	proto := NewObject(Null)
	proto.Define(StringKey("greeting"), Descriptor{Value: String("hi"), Writable: true, Enumerable: true, Configurable: true})
	child := NewObject(proto)

	got, err := child.Get(StringKey("greeting"), child)
	if err != nil {
		t.Fatalf("Get through prototype: %v", err)
	}
	if got != String("hi") {
		t.Errorf("Get(greeting) = %v, want hi", got)
	}

	// Setting on the child shadows the prototype without mutating it.
	if err := child.Set(StringKey("greeting"), String("yo"), child); err != nil {
		t.Fatalf("Set: %v", err)
	}
	childVal, _ := child.Get(StringKey("greeting"), child)
	protoVal, _ := proto.Get(StringKey("greeting"), proto)
	if childVal != String("yo") {
		t.Errorf("child greeting = %v, want yo", childVal)
	}
	if protoVal != String("hi") {
		t.Errorf("proto greeting = %v, want hi (should be unchanged)", protoVal)
	}
}

func TestObjectAccessorProperty(t *testing.T) {
	o := NewObject(Null)
	backing := Number(0)
	get := NewHostFunction("get x", 0, func(this Value, args []Value) (Value, error) {
		return backing, nil
	}, Null)
	set := NewHostFunction("set x", 1, func(this Value, args []Value) (Value, error) {
		backing = args[0].(Number)
		return Undefined, nil
	}, Null)
	o.Define(StringKey("x"), Descriptor{IsAccessor: true, Get: get, Set: set, Enumerable: true, Configurable: true})

	got, err := o.Get(StringKey("x"), o)
	if err != nil || got != Number(0) {
		t.Fatalf("Get(x) = %v, %v, want 0, nil", got, err)
	}
	if err := o.Set(StringKey("x"), Number(42), o); err != nil {
		t.Fatalf("Set(x): %v", err)
	}
	got, _ = o.Get(StringKey("x"), o)
	if got != Number(42) {
		t.Errorf("Get(x) after set = %v, want 42", got)
	}
}

func TestObjectFrozenRejectsNewAndMutatedProperties(t *testing.T) {
	o := NewObject(Null)
	o.Define(StringKey("a"), Descriptor{Value: Number(1), Writable: true, Enumerable: true, Configurable: true})
	o.Freeze()

	if err := o.Set(StringKey("a"), Number(2), o); err != nil {
		t.Fatalf("Set on frozen object should be a silent no-op, got error: %v", err)
	}
	got, _ := o.Get(StringKey("a"), o)
	if got != Number(1) {
		t.Errorf("frozen property changed: got %v, want 1", got)
	}

	if err := o.Set(StringKey("b"), Number(9), o); err != nil {
		t.Fatalf("Set of new property on frozen object: %v", err)
	}
	if o.Has(StringKey("b")) {
		t.Error("frozen object should not gain new properties")
	}
}

func TestObjectDeleteRespectsConfigurable(t *testing.T) {
	o := NewObject(Null)
	o.Define(StringKey("a"), Descriptor{Value: Number(1), Configurable: true})
	o.Define(StringKey("b"), Descriptor{Value: Number(2), Configurable: false})

	if !o.Delete(StringKey("a")) {
		t.Error("Delete(a) should succeed (configurable)")
	}
	if o.Has(StringKey("a")) {
		t.Error("a should be gone after Delete")
	}
	if o.Delete(StringKey("b")) {
		t.Error("Delete(b) should fail (not configurable)")
	}
	if !o.Has(StringKey("b")) {
		t.Error("b should survive a refused Delete")
	}
}

func TestObjectOwnKeysOrdering(t *testing.T) {
	o := NewObject(Null)
	o.Define(StringKey("b"), Descriptor{Value: Number(1), Enumerable: true})
	o.Define(StringKey("2"), Descriptor{Value: Number(1), Enumerable: true})
	o.Define(StringKey("a"), Descriptor{Value: Number(1), Enumerable: true})
	o.Define(StringKey("0"), Descriptor{Value: Number(1), Enumerable: true})

	keys := o.OwnKeys()
	var got []string
	for _, k := range keys {
		got = append(got, k.String())
	}
	want := []string{"0", "2", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("OwnKeys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OwnKeys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
