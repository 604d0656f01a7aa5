package runtime

import "strconv"

// Array is a dense, integer-indexed subtype of Object with length
// semantics: writing past the end extends it, and setting `length`
// truncates entries with index >= the new length (§3 Data Model, §4.1).
type Array struct {
	obj      *Object
	elements []Value
}

func (*Array) Tag() Tag { return TagArray }

func NewArray(proto Value, elements []Value) *Array {
	a := &Array{obj: NewObject(proto), elements: append([]Value{}, elements...)}
	a.obj.class = "Array"
	return a
}

func (a *Array) Class() string { return a.obj.class }

func (a *Array) Elements() []Value { return a.elements }
func (a *Array) Length() int       { return len(a.elements) }

func (a *Array) ownDescriptor(key PropertyKey) (*Descriptor, bool) {
	if !key.IsSymbol() {
		if key.str == "length" {
			return &Descriptor{Value: NumberValue(float64(len(a.elements))), Writable: true}, true
		}
		if n, ok := arrayIndexOf(key.str); ok {
			if n < len(a.elements) {
				v := a.elements[n]
				if v == nil {
					return &Descriptor{Value: Undefined, Writable: true, Enumerable: true, Configurable: true}, true
				}
				return &Descriptor{Value: v, Writable: true, Enumerable: true, Configurable: true}, true
			}
			return nil, false
		}
	}
	return a.obj.GetOwnDescriptor(key)
}

func (a *Array) prototype() Value { return a.obj.Proto }

func (a *Array) Get(key PropertyKey, receiver Value) (Value, error) {
	return getWithReceiver(a, key, receiver, 0)
}

func (a *Array) Set(key PropertyKey, v Value, receiver Value) error {
	if !key.IsSymbol() {
		if key.str == "length" {
			n := int(ToNumber(v))
			if n < 0 || float64(n) != ToNumber(v) {
				return errInvalidArrayLength
			}
			a.setLength(n)
			return nil
		}
		if n, ok := arrayIndexOf(key.str); ok {
			if recv, ok := protoAsObjectLike(receiver); ok {
				if ra, isArr := recv.(*Array); isArr && ra == a {
					a.setElement(n, v)
					return nil
				}
			}
		}
	}
	return setWithReceiver(a, key, v, receiver, 0)
}

func (a *Array) setElement(n int, v Value) {
	for len(a.elements) <= n {
		a.elements = append(a.elements, nil)
	}
	a.elements[n] = v
}

func (a *Array) setLength(n int) {
	if n < len(a.elements) {
		a.elements = a.elements[:n]
		return
	}
	for len(a.elements) < n {
		a.elements = append(a.elements, nil)
	}
}

// SetElements replaces the array's backing slice wholesale, used by
// mutating prototype methods (shift/unshift/reverse/splice/sort) that need
// to rewrite the whole sequence at once rather than element-by-element.
func (a *Array) SetElements(vs []Value) {
	a.elements = append([]Value{}, vs...)
}

func (a *Array) Push(vs ...Value) int {
	a.elements = append(a.elements, vs...)
	return len(a.elements)
}

func (a *Array) Pop() (Value, bool) {
	if len(a.elements) == 0 {
		return Undefined, false
	}
	v := a.elements[len(a.elements)-1]
	a.elements = a.elements[:len(a.elements)-1]
	if v == nil {
		return Undefined, true
	}
	return v, true
}

func (a *Array) Has(key PropertyKey) bool {
	if !key.IsSymbol() {
		if key.str == "length" {
			return true
		}
		if n, ok := arrayIndexOf(key.str); ok {
			return n < len(a.elements) && a.elements[n] != nil
		}
	}
	return a.obj.Has(key)
}

func (a *Array) Delete(key PropertyKey) bool {
	if !key.IsSymbol() {
		if n, ok := arrayIndexOf(key.str); ok && n < len(a.elements) {
			a.elements[n] = nil
			return true
		}
	}
	return a.obj.Delete(key)
}

// OwnKeys returns indices (ascending, skipping holes) then own string keys
// then symbols, mirroring Object's enumeration order with indices first.
func (a *Array) OwnKeys() []PropertyKey {
	keys := make([]PropertyKey, 0, len(a.elements)+len(a.obj.order)+len(a.obj.symOrder))
	for i, v := range a.elements {
		if v != nil {
			keys = append(keys, StringKey(strconv.Itoa(i)))
		}
	}
	for _, k := range a.obj.order {
		keys = append(keys, StringKey(k))
	}
	for _, s := range a.obj.symOrder {
		keys = append(keys, SymbolKey(s))
	}
	return keys
}

func (a *Array) inspect(depth int) string {
	if depth > 4 {
		return "[Array]"
	}
	s := "[ "
	for i, v := range a.elements {
		if i > 0 {
			s += ", "
		}
		if v == nil {
			s += "<empty>"
		} else {
			s += inspectNested(v, depth+1)
		}
	}
	return s + " ]"
}

var errInvalidArrayLength = &simpleError{"invalid array length"}

type simpleError struct{ msg string }

func (e *simpleError) Error() string { return e.msg }
