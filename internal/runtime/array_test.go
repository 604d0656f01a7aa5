package runtime

import "testing"

func TestArrayPushPop(t *testing.T) {
	a := NewArray(Null, nil)
	if n := a.Push(Number(1), Number(2), Number(3)); n != 3 {
		t.Fatalf("Push returned %d, want 3", n)
	}
	if a.Length() != 3 {
		t.Fatalf("Length() = %d, want 3", a.Length())
	}
	v, ok := a.Pop()
	if !ok || v != Number(3) {
		t.Errorf("Pop() = %v, %v, want 3, true", v, ok)
	}
	if a.Length() != 2 {
		t.Errorf("Length() after Pop = %d, want 2", a.Length())
	}
}

func TestArrayPopEmpty(t *testing.T) {
	a := NewArray(Null, nil)
	v, ok := a.Pop()
	if ok || v != Undefined {
		t.Errorf("Pop() on empty = %v, %v, want undefined, false", v, ok)
	}
}

func TestArrayIndexGetSet(t *testing.T) {
	a := NewArray(Null, []Value{Number(10), Number(20)})
	got, err := a.Get(StringKey("0"), a)
	if err != nil || got != Number(10) {
		t.Fatalf("Get(0) = %v, %v, want 10, nil", got, err)
	}
	if err := a.Set(StringKey("5"), Number(99), a); err != nil {
		t.Fatalf("Set(5): %v", err)
	}
	if a.Length() != 6 {
		t.Errorf("Length() after sparse set = %d, want 6", a.Length())
	}
	hole, _ := a.Get(StringKey("2"), a)
	if hole != Undefined {
		t.Errorf("Get(2) on a hole = %v, want undefined", hole)
	}
}

func TestArrayLengthTruncates(t *testing.T) {
	a := NewArray(Null, []Value{Number(1), Number(2), Number(3), Number(4)})
	if err := a.Set(StringKey("length"), Number(2), a); err != nil {
		t.Fatalf("Set(length, 2): %v", err)
	}
	if a.Length() != 2 {
		t.Errorf("Length() after truncation = %d, want 2", a.Length())
	}
	if _, ok := a.Pop(); !ok {
		t.Fatal("expected a remaining element after truncation")
	}
}

func TestArrayLengthRejectsNonIndex(t *testing.T) {
	a := NewArray(Null, nil)
	if err := a.Set(StringKey("length"), Number(-1), a); err == nil {
		t.Error("Set(length, -1) should fail")
	}
	if err := a.Set(StringKey("length"), Number(1.5), a); err == nil {
		t.Error("Set(length, 1.5) should fail")
	}
}

func TestArraySetElementsReplacesBackingSlice(t *testing.T) {
	a := NewArray(Null, []Value{Number(1), Number(2), Number(3)})
	a.SetElements([]Value{Number(9)})
	if a.Length() != 1 {
		t.Fatalf("Length() after SetElements = %d, want 1", a.Length())
	}
	got, _ := a.Get(StringKey("0"), a)
	if got != Number(9) {
		t.Errorf("Get(0) after SetElements = %v, want 9", got)
	}
}

func TestArrayOwnKeysSkipsHoles(t *testing.T) {
	a := NewArray(Null, nil)
	a.setElement(0, Number(1))
	a.setElement(2, Number(3))
	keys := a.OwnKeys()
	if len(keys) != 2 || keys[0].String() != "0" || keys[1].String() != "2" {
		t.Errorf("OwnKeys() = %v, want [0, 2]", keys)
	}
}
