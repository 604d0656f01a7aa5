package builtins

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cwbudde/jsvm/internal/runtime"
)

// registerString installs String.prototype's method surface directly onto
// realm.StringProto (§9 Standard Library: "string prototype"). Primitive
// string values dispatch here through treeinterp's getPrimitiveProperty
// fallback, so `this` always arrives as a runtime.String.
func registerString(realm *runtime.Realm, env *runtime.Environment) {
	proto := realm.StringProto
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	defineMethod(realm, proto, "charAt", 1, stringMethod(realm, func(s string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(s)
		i := int(runtime.ToNumber(arg(args, 0)))
		if i < 0 || i >= len(runes) {
			return runtime.StringValue(""), nil
		}
		return runtime.StringValue(string(runes[i])), nil
	}))
	defineMethod(realm, proto, "charCodeAt", 1, stringMethod(realm, func(s string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(s)
		i := int(runtime.ToNumber(arg(args, 0)))
		if i < 0 || i >= len(runes) {
			return runtime.NaN, nil
		}
		return runtime.NumberValue(float64(runes[i])), nil
	}))
	defineMethod(realm, proto, "slice", 2, stringMethod(realm, func(s string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(s)
		start, end := sliceRange(len(runes), args)
		if start >= end {
			return runtime.StringValue(""), nil
		}
		return runtime.StringValue(string(runes[start:end])), nil
	}))
	defineMethod(realm, proto, "includes", 1, stringMethod(realm, func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.BoolValue(strings.Contains(s, runtime.ToString(arg(args, 0)))), nil
	}))
	defineMethod(realm, proto, "indexOf", 1, stringMethod(realm, func(s string, args []runtime.Value) (runtime.Value, error) {
		needle := runtime.ToString(arg(args, 0))
		byteIdx := strings.Index(s, needle)
		if byteIdx < 0 {
			return runtime.NumberValue(-1), nil
		}
		return runtime.NumberValue(float64(len([]rune(s[:byteIdx])))), nil
	}))
	defineMethod(realm, proto, "toUpperCase", 0, stringMethod(realm, func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.StringValue(upper.String(s)), nil
	}))
	defineMethod(realm, proto, "toLowerCase", 0, stringMethod(realm, func(s string, args []runtime.Value) (runtime.Value, error) {
		return runtime.StringValue(lower.String(s)), nil
	}))

	defineMethod(realm, proto, "search", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		s, err := thisString(realm, this)
		if err != nil {
			return nil, err
		}
		re, err := toRegExp(realm, arg(args, 0))
		if err != nil {
			return nil, err
		}
		loc := re.Exec(string(s))
		if loc == nil {
			return runtime.NumberValue(-1), nil
		}
		idx := strings.Index(string(s), loc[0])
		if idx < 0 {
			return runtime.NumberValue(-1), nil
		}
		return runtime.NumberValue(float64(len([]rune(string(s)[:idx])))), nil
	})
	defineMethod(realm, proto, "match", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		s, err := thisString(realm, this)
		if err != nil {
			return nil, err
		}
		re, err := toRegExp(realm, arg(args, 0))
		if err != nil {
			return nil, err
		}
		if !re.Global {
			m := re.Exec(string(s))
			if m == nil {
				return runtime.Null, nil
			}
			return matchResultArray(realm, m), nil
		}
		var all []runtime.Value
		re.LastIndex = 0
		for {
			before := re.LastIndex
			m := re.Exec(string(s))
			if m == nil {
				break
			}
			all = append(all, runtime.StringValue(m[0]))
			if re.LastIndex == before {
				re.LastIndex++
			}
		}
		if len(all) == 0 {
			return runtime.Null, nil
		}
		return runtime.NewArray(realm.ArrayProto, all), nil
	})
	defineMethod(realm, proto, "replace", 2, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		s, err := thisString(realm, this)
		if err != nil {
			return nil, err
		}
		return replaceString(realm, string(s), arg(args, 0), arg(args, 1))
	})

	defineGlobal(realm, env, "String", runtime.NewHostFunction("String", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.StringValue(""), nil
		}
		return runtime.StringValue(runtime.ToString(args[0])), nil
	}, realm.FunctionProto))
}

func stringMethod(realm *runtime.Realm, fn func(s string, args []runtime.Value) (runtime.Value, error)) runtime.HostFunc {
	return func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		s, err := thisString(realm, this)
		if err != nil {
			return nil, err
		}
		return fn(string(s), args)
	}
}

func thisString(realm *runtime.Realm, this runtime.Value) (runtime.String, error) {
	if s, ok := this.(runtime.String); ok {
		return s, nil
	}
	return "", typeError(realm, "String.prototype method called on a non-string receiver")
}

func toRegExp(realm *runtime.Realm, v runtime.Value) (*runtime.RegExp, error) {
	if re, ok := v.(*runtime.RegExp); ok {
		return re, nil
	}
	re, err := runtime.CompileRegExp(runtime.ToString(v), "", realm.RegExpProto)
	if err != nil {
		return nil, typeError(realm, "Invalid regular expression: %s", err.Error())
	}
	return re, nil
}

func matchResultArray(realm *runtime.Realm, groups []string) *runtime.Array {
	out := make([]runtime.Value, len(groups))
	for i, g := range groups {
		out[i] = runtime.StringValue(g)
	}
	return runtime.NewArray(realm.ArrayProto, out)
}

// replaceString implements the single-argument forms of
// String.prototype.replace: a string pattern or non-global RegExp replaces
// its first match; a global RegExp replaces every match. replacement may be
// a literal string (with `$1`-style backreferences for RegExp patterns) or
// a callback function invoked per match.
func replaceString(realm *runtime.Realm, s string, pattern, replacement runtime.Value) (runtime.Value, error) {
	fn, isFn := replacement.(*runtime.Function)

	if re, ok := pattern.(*runtime.RegExp); ok {
		re.LastIndex = 0
		var out strings.Builder
		rest := s
		for {
			re.LastIndex = 0
			m := re.Exec(rest)
			if m == nil {
				break
			}
			idx := strings.Index(rest, m[0])
			out.WriteString(rest[:idx])
			rep, err := expandReplacement(realm, fn, isFn, replacement, m, s[:len(s)-len(rest)+idx])
			if err != nil {
				return nil, err
			}
			out.WriteString(rep)
			rest = rest[idx+len(m[0]):]
			if !re.Global {
				break
			}
			if len(m[0]) == 0 {
				if len(rest) == 0 {
					break
				}
				out.WriteString(rest[:1])
				rest = rest[1:]
			}
		}
		out.WriteString(rest)
		return runtime.StringValue(out.String()), nil
	}

	needle := runtime.ToString(pattern)
	idx := strings.Index(s, needle)
	if idx < 0 {
		return runtime.StringValue(s), nil
	}
	rep, err := expandReplacement(realm, fn, isFn, replacement, []string{needle}, s[:idx])
	if err != nil {
		return nil, err
	}
	return runtime.StringValue(s[:idx] + rep + s[idx+len(needle):]), nil
}

// expandReplacement resolves one replacement occurrence: groups[0] is the
// whole match, groups[1:] are capture groups, prefix is the matched text
// preceding this occurrence (used for a callback replacer's index argument).
func expandReplacement(realm *runtime.Realm, fn *runtime.Function, isFn bool, replacement runtime.Value, groups []string, prefix string) (string, error) {
	if isFn {
		callArgs := make([]runtime.Value, 0, len(groups)+2)
		for _, g := range groups {
			callArgs = append(callArgs, runtime.StringValue(g))
		}
		callArgs = append(callArgs, runtime.NumberValue(float64(len([]rune(prefix)))), runtime.StringValue(prefix))
		r, err := realm.Call(fn, runtime.Undefined, callArgs)
		if err != nil {
			return "", err
		}
		return runtime.ToString(r), nil
	}
	return expandDollar(runtime.ToString(replacement), groups), nil
}

// expandDollar substitutes `$1`..`$9` and `$&` in a literal replacement
// string against the captured groups ([0] is the whole match).
func expandDollar(tmpl string, groups []string) string {
	var out strings.Builder
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '$' && i+1 < len(tmpl) {
			c := tmpl[i+1]
			if c == '&' {
				out.WriteString(groups[0])
				i++
				continue
			}
			if c >= '1' && c <= '9' {
				n := int(c - '0')
				if n < len(groups) {
					out.WriteString(groups[n])
				}
				i++
				continue
			}
		}
		out.WriteByte(tmpl[i])
	}
	return out.String()
}
