package runtime

import (
	"regexp"
	"strings"
)

// RegExp wraps a compiled pattern plus its JS-visible source/flags. The
// `g`/`i`/`m` flags this engine supports (§6) map onto Go's RE2 engine;
// backreferences and lookaround are out of scope, same as upstream RE2
// (documented in DESIGN.md).
type RegExp struct {
	obj *Object

	Source     string
	Flags      string
	Global     bool
	IgnoreCase bool
	Multiline  bool
	compiled   *regexp.Regexp
	LastIndex  int
}

func (*RegExp) Tag() Tag { return TagObject }

func CompileRegExp(pattern, flags string, proto Value) (*RegExp, error) {
	r := &RegExp{Source: pattern, Flags: flags}
	for _, f := range flags {
		switch f {
		case 'g':
			r.Global = true
		case 'i':
			r.IgnoreCase = true
		case 'm':
			r.Multiline = true
		}
	}
	goPattern := pattern
	var inlineFlags []string
	if r.IgnoreCase {
		inlineFlags = append(inlineFlags, "i")
	}
	if r.Multiline {
		inlineFlags = append(inlineFlags, "m")
	}
	if len(inlineFlags) > 0 {
		goPattern = "(?" + strings.Join(inlineFlags, "") + ")" + goPattern
	}
	compiled, err := regexp.Compile(goPattern)
	if err != nil {
		return nil, err
	}
	r.compiled = compiled
	r.obj = NewObject(proto)
	r.obj.class = "RegExp"
	return r, nil
}

func (r *RegExp) ownDescriptor(key PropertyKey) (*Descriptor, bool) {
	if !key.IsSymbol() {
		switch key.str {
		case "source":
			return &Descriptor{Value: StringValue(r.Source)}, true
		case "flags":
			return &Descriptor{Value: StringValue(r.Flags)}, true
		case "global":
			return &Descriptor{Value: BoolValue(r.Global)}, true
		case "ignoreCase":
			return &Descriptor{Value: BoolValue(r.IgnoreCase)}, true
		case "multiline":
			return &Descriptor{Value: BoolValue(r.Multiline)}, true
		case "lastIndex":
			return &Descriptor{Value: NumberValue(float64(r.LastIndex)), Writable: true}, true
		}
	}
	return r.obj.GetOwnDescriptor(key)
}

func (r *RegExp) prototype() Value { return r.obj.Proto }

func (r *RegExp) Get(key PropertyKey, receiver Value) (Value, error) {
	if !key.IsSymbol() && key.str == "lastIndex" {
		return NumberValue(float64(r.LastIndex)), nil
	}
	return getWithReceiver(r, key, receiver, 0)
}

func (r *RegExp) Set(key PropertyKey, v Value, receiver Value) error {
	if !key.IsSymbol() && key.str == "lastIndex" {
		r.LastIndex = int(ToNumber(v))
		return nil
	}
	return setWithReceiver(r, key, v, receiver, 0)
}

func (r *RegExp) OwnKeys() []PropertyKey { return r.obj.OwnKeys() }

// Test implements RegExp.prototype.test.
func (r *RegExp) Test(s string) bool {
	if !r.Global {
		return r.compiled.MatchString(s)
	}
	if r.LastIndex > len(s) {
		r.LastIndex = 0
		return false
	}
	loc := r.compiled.FindStringIndex(s[r.LastIndex:])
	if loc == nil {
		r.LastIndex = 0
		return false
	}
	r.LastIndex += loc[1]
	return true
}

// Exec implements RegExp.prototype.exec, returning the match groups (or nil
// if no match) and advancing LastIndex for global regexes.
func (r *RegExp) Exec(s string) []string {
	start := 0
	if r.Global {
		start = r.LastIndex
	}
	if start > len(s) {
		r.LastIndex = 0
		return nil
	}
	m := r.compiled.FindStringSubmatch(s[start:])
	if m == nil {
		if r.Global {
			r.LastIndex = 0
		}
		return nil
	}
	if r.Global {
		loc := r.compiled.FindStringIndex(s[start:])
		r.LastIndex = start + loc[1]
	}
	return m
}
