package runtime

import (
	"fmt"
	"sort"
	"strconv"
)

// maxPrototypeDepth bounds [[prototype]] lookup so a cyclic chain cannot
// loop forever (§3 Invariants, Design Notes "Prototype cycles").
const maxPrototypeDepth = 1 << 14

// PropertyKey is a string or symbol key into an Object's property map.
type PropertyKey struct {
	str string
	sym *Symbol
}

func StringKey(s string) PropertyKey   { return PropertyKey{str: s} }
func SymbolKey(s *Symbol) PropertyKey  { return PropertyKey{sym: s} }
func (k PropertyKey) IsSymbol() bool   { return k.sym != nil }
func (k PropertyKey) String() string {
	if k.sym != nil {
		return "Symbol(" + k.sym.Description + ")"
	}
	return k.str
}

// KeyFromValue converts a Value used as a computed property key (string,
// number, or symbol) into a PropertyKey.
func KeyFromValue(v Value) PropertyKey {
	if s, ok := v.(*Symbol); ok {
		return SymbolKey(s)
	}
	return StringKey(ToString(v))
}

// Descriptor is a property descriptor: either a data property ({value,
// writable}) or an accessor property ({get, set}), both carrying
// enumerable/configurable (§3 Object, §4.1).
type Descriptor struct {
	Value        Value
	Get          *Function
	Set          *Function
	Writable     bool
	Enumerable   bool
	Configurable bool
	IsAccessor   bool
}

// Object is a property bag with an optional prototype link. Insertion
// order is preserved for enumeration (§4.1: integer keys ascending, then
// string keys insertion order, then symbols).
type Object struct {
	class      string // internal [[Class]] tag, e.g. "Object", "Error", "Promise"
	props      map[string]*Descriptor
	order      []string // insertion order of string keys
	symProps   map[*Symbol]*Descriptor
	symOrder   []*Symbol
	Proto      Value // *Object, *Array, *Function, or Null
	Extensible bool
	Frozen     bool
}

func (*Object) Tag() Tag { return TagObject }

func NewObject(proto Value) *Object {
	if proto == nil {
		proto = Null
	}
	return &Object{
		class:      "Object",
		props:      map[string]*Descriptor{},
		symProps:   map[*Symbol]*Descriptor{},
		Proto:      proto,
		Extensible: true,
	}
}

func (o *Object) Class() string { return o.class }
func (o *Object) SetClass(c string) { o.class = c }

// GetOwnDescriptor returns the own property descriptor for key, if any.
func (o *Object) GetOwnDescriptor(key PropertyKey) (*Descriptor, bool) {
	if key.IsSymbol() {
		d, ok := o.symProps[key.sym]
		return d, ok
	}
	d, ok := o.props[key.str]
	return d, ok
}

// defineOwn installs desc as an own property, recording insertion order on
// first definition.
func (o *Object) defineOwn(key PropertyKey, desc *Descriptor) {
	if key.IsSymbol() {
		if _, existed := o.symProps[key.sym]; !existed {
			o.symOrder = append(o.symOrder, key.sym)
		}
		o.symProps[key.sym] = desc
		return
	}
	if _, existed := o.props[key.str]; !existed {
		o.order = append(o.order, key.str)
	}
	o.props[key.str] = desc
}

// Define installs an explicit property descriptor (used by Object.defineProperty
// and by class/field initialization).
func (o *Object) Define(key PropertyKey, desc Descriptor) error {
	if o.Frozen || !o.Extensible {
		if _, existed := o.GetOwnDescriptor(key); !existed {
			return nil // silently ignored, non-strict semantics (§4.1)
		}
	}
	d := desc
	o.defineOwn(key, &d)
	return nil
}

// protoAsObjectLike extracts the objectLike view of a prototype link, which
// may be an *Object or a type that wraps one (*Array, *Function, *RegExp,
// *Promise).
func protoAsObjectLike(v Value) (objectLike, bool) {
	switch x := v.(type) {
	case *Object:
		return x, true
	case *Array:
		return x, true
	case *Function:
		return x, true
	case *RegExp:
		return x, true
	case *Promise:
		return x, true
	default:
		return nil, false
	}
}

// objectLike is implemented by every reference type built on Object, so
// prototype-chain walking is uniform across Object/Array/Function.
type objectLike interface {
	Value
	ownDescriptor(PropertyKey) (*Descriptor, bool)
	prototype() Value
}

func (o *Object) ownDescriptor(key PropertyKey) (*Descriptor, bool) { return o.GetOwnDescriptor(key) }
func (o *Object) prototype() Value                                  { return o.Proto }

// Get walks the prototype chain for key, invoking an accessor's getter with
// this = receiver when found (§4.1).
func (o *Object) Get(key PropertyKey, receiver Value) (Value, error) {
	return getWithReceiver(o, key, receiver, 0)
}

func getWithReceiver(start objectLike, key PropertyKey, receiver Value, depth int) (Value, error) {
	if depth > maxPrototypeDepth {
		return nil, fmt.Errorf("maximum prototype lookup depth exceeded")
	}
	if d, ok := start.ownDescriptor(key); ok {
		if d.IsAccessor {
			if d.Get == nil {
				return Undefined, nil
			}
			return d.Get.HostCall(receiver, nil)
		}
		return d.Value, nil
	}
	proto := start.prototype()
	next, ok := protoAsObjectLike(proto)
	if !ok {
		return Undefined, nil
	}
	return getWithReceiver(next, key, receiver, depth+1)
}

// Set walks the chain looking for an accessor or a non-writable data
// property; otherwise creates (or overwrites) an own data property on the
// receiver (§4.1).
func (o *Object) Set(key PropertyKey, v Value, receiver Value) error {
	return setWithReceiver(o, key, v, receiver, 0)
}

func setWithReceiver(start objectLike, key PropertyKey, v Value, receiver Value, depth int) error {
	if depth > maxPrototypeDepth {
		return fmt.Errorf("maximum prototype lookup depth exceeded")
	}
	if d, ok := start.ownDescriptor(key); ok {
		if d.IsAccessor {
			if d.Set == nil {
				return nil // no setter: silent no-op (non-strict)
			}
			_, err := d.Set.HostCall(receiver, []Value{v})
			return err
		}
		if start == receiver {
			if !d.Writable {
				return nil
			}
			d.Value = v
			return nil
		}
	}
	proto := start.prototype()
	if next, ok := protoAsObjectLike(proto); ok {
		if d, ok := next.ownDescriptor(key); ok && d.IsAccessor {
			return setWithReceiver(next, key, v, receiver, depth+1)
		}
	}
	recv, ok := protoAsObjectLike(receiver)
	if !ok {
		return fmt.Errorf("cannot set property %q on non-object receiver", key.String())
	}
	if o, isObj := recv.(*Object); isObj {
		if o.Frozen || !o.Extensible {
			if _, existed := o.GetOwnDescriptor(key); !existed {
				return nil
			}
		}
		o.defineOwn(key, &Descriptor{Value: v, Writable: true, Enumerable: true, Configurable: true})
		return nil
	}
	return fmt.Errorf("cannot set property %q", key.String())
}

// Has reports whether key exists anywhere on the prototype chain.
func (o *Object) Has(key PropertyKey) bool {
	var cur objectLike = o
	for depth := 0; depth <= maxPrototypeDepth; depth++ {
		if _, ok := cur.ownDescriptor(key); ok {
			return true
		}
		next, ok := protoAsObjectLike(cur.prototype())
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

// Delete removes an own property; non-configurable properties refuse
// deletion and Delete returns false.
func (o *Object) Delete(key PropertyKey) bool {
	d, ok := o.GetOwnDescriptor(key)
	if !ok {
		return true
	}
	if !d.Configurable {
		return false
	}
	if key.IsSymbol() {
		delete(o.symProps, key.sym)
		for i, s := range o.symOrder {
			if s == key.sym {
				o.symOrder = append(o.symOrder[:i], o.symOrder[i+1:]...)
				break
			}
		}
		return true
	}
	delete(o.props, key.str)
	for i, s := range o.order {
		if s == key.str {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

// OwnKeys returns every own key in spec order: integer-like string keys
// ascending, then remaining string keys in insertion order, then symbols in
// insertion order.
func (o *Object) OwnKeys() []PropertyKey {
	var intKeys []int
	var strKeys []string
	for _, k := range o.order {
		if n, ok := arrayIndexOf(k); ok {
			intKeys = append(intKeys, n)
		} else {
			strKeys = append(strKeys, k)
		}
	}
	sort.Ints(intKeys)
	keys := make([]PropertyKey, 0, len(o.order)+len(o.symOrder))
	for _, n := range intKeys {
		keys = append(keys, StringKey(strconv.Itoa(n)))
	}
	keys = append(keys, stringsToKeys(strKeys)...)
	for _, s := range o.symOrder {
		keys = append(keys, SymbolKey(s))
	}
	return keys
}

func stringsToKeys(ss []string) []PropertyKey {
	keys := make([]PropertyKey, len(ss))
	for i, s := range ss {
		keys[i] = StringKey(s)
	}
	return keys
}

func arrayIndexOf(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || strconv.Itoa(n) != s {
		return 0, false
	}
	return n, true
}

// OwnEnumerableStringKeys returns own enumerable string keys in the same
// ordering rule as OwnKeys, used by for-in, Object.keys/values/entries, and
// JSON.stringify.
func (o *Object) OwnEnumerableStringKeys() []string {
	var out []string
	for _, k := range o.OwnKeys() {
		if k.IsSymbol() {
			continue
		}
		if d, ok := o.GetOwnDescriptor(k); ok && d.Enumerable {
			out = append(out, k.str)
		}
	}
	return out
}

// Freeze makes the object non-extensible and flips every existing
// descriptor to non-writable/non-configurable (§3: Frozen objects).
func (o *Object) Freeze() {
	o.Frozen = true
	o.Extensible = false
	for _, d := range o.props {
		d.Writable = false
		d.Configurable = false
	}
	for _, d := range o.symProps {
		d.Writable = false
		d.Configurable = false
	}
}

func (o *Object) inspect(depth int) string {
	if depth > 4 {
		return "[Object]"
	}
	keys := o.OwnEnumerableStringKeys()
	if len(keys) == 0 {
		return "{}"
	}
	s := "{ "
	for i, k := range keys {
		if i > 0 {
			s += ", "
		}
		v, _ := o.Get(StringKey(k), o)
		s += k + ": " + inspectNested(v, depth+1)
	}
	return s + " }"
}

func inspectNested(v Value, depth int) string {
	switch x := v.(type) {
	case *Object:
		return x.inspect(depth)
	case *Array:
		return x.inspect(depth)
	default:
		return Inspect(v)
	}
}
