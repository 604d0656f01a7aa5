package builtins

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/jsvm/internal/runtime"
)

// registerJSON installs `JSON.parse`/`JSON.stringify` (§9 Standard Library:
// "JSON"), built on the teacher's own JSON dependency trio: gjson walks the
// parsed document into engine Values, sjson/pretty build the text back out.
func registerJSON(realm *runtime.Realm, env *runtime.Environment) {
	j := runtime.NewObject(realm.ObjectProto)

	defineMethod(realm, j, "parse", 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		text := runtime.ToString(arg(args, 0))
		if !gjson.Valid(text) {
			return nil, typeError(realm, "Unexpected token in JSON")
		}
		return gjsonToValue(realm, gjson.Parse(text)), nil
	})

	defineMethod(realm, j, "stringify", 3, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v := arg(args, 0)
		if !isJSONSerializable(v) {
			return runtime.Undefined, nil
		}
		text, err := valueToJSON(v)
		if err != nil {
			return nil, typeError(realm, "%s", err.Error())
		}
		if text == "" {
			return runtime.Undefined, nil
		}
		if indent := jsonIndent(arg(args, 2)); indent != "" {
			text = string(pretty.PrettyOptions([]byte(text), &pretty.Options{Indent: indent, SortKeys: false}))
		}
		return runtime.StringValue(text), nil
	})

	defineGlobal(realm, env, "JSON", j)
}

func jsonIndent(v runtime.Value) string {
	switch x := v.(type) {
	case runtime.Number:
		n := int(x)
		if n <= 0 {
			return ""
		}
		if n > 10 {
			n = 10
		}
		out := make([]byte, n)
		for i := range out {
			out[i] = ' '
		}
		return string(out)
	case runtime.String:
		return string(x)
	default:
		return ""
	}
}

func isJSONSerializable(v runtime.Value) bool {
	switch v.(type) {
	case *runtime.Function:
		return false
	default:
		return v.Tag() != runtime.TagUndefined
	}
}

// gjsonToValue walks a parsed gjson.Result into the engine's Value model.
func gjsonToValue(realm *runtime.Realm, r gjson.Result) runtime.Value {
	switch r.Type {
	case gjson.Null:
		return runtime.Null
	case gjson.False:
		return runtime.False
	case gjson.True:
		return runtime.True
	case gjson.Number:
		return runtime.NumberValue(r.Num)
	case gjson.String:
		return runtime.StringValue(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var elements []runtime.Value
			r.ForEach(func(_, v gjson.Result) bool {
				elements = append(elements, gjsonToValue(realm, v))
				return true
			})
			return runtime.NewArray(realm.ArrayProto, elements)
		}
		obj := runtime.NewObject(realm.ObjectProto)
		r.ForEach(func(k, v gjson.Result) bool {
			obj.Define(runtime.StringKey(k.String()), runtime.Descriptor{
				Value: gjsonToValue(realm, v), Writable: true, Enumerable: true, Configurable: true,
			})
			return true
		})
		return obj
	default:
		return runtime.Undefined
	}
}

// valueToJSON builds a compact JSON document for v by successively setting
// paths with sjson, starting from an empty document at the root.
func valueToJSON(v runtime.Value) (string, error) {
	if runtime.IsUndefined(v) {
		return "", nil
	}
	if runtime.IsNull(v) {
		return "null", nil
	}
	switch x := v.(type) {
	case runtime.String:
		return quoteJSONString(string(x)), nil
	case runtime.Number, runtime.Boolean:
		return runtime.ToString(v), nil
	case *runtime.Array:
		doc := "[]"
		for i, el := range x.Elements() {
			if el == nil || !isJSONSerializable(el) {
				el = runtime.Null
			}
			elText, err := valueToJSON(el)
			if err != nil {
				return "", err
			}
			if elText == "" {
				elText = "null"
			}
			next, err := sjson.SetRaw(doc, itoa(i), elText)
			if err != nil {
				return "", err
			}
			doc = next
		}
		return doc, nil
	case *runtime.Function:
		return "", nil
	default:
		if _, ok := runtime.AsObject(v); !ok {
			return "", nil
		}
		doc := "{}"
		for _, k := range runtime.OwnKeys(v) {
			if k.IsSymbol() {
				continue
			}
			if d, ok := runtime.GetOwnDescriptor(v, k); ok && !d.Enumerable {
				continue
			}
			fv, _ := runtime.GetProperty(v, k, v)
			if !isJSONSerializable(fv) {
				continue
			}
			fText, err := valueToJSON(fv)
			if err != nil {
				return "", err
			}
			if fText == "" {
				continue
			}
			next, err := sjson.SetRaw(doc, sjsonEscapeKey(k.String()), fText)
			if err != nil {
				return "", err
			}
			doc = next
		}
		return doc, nil
	}
}

// quoteJSONString renders s as a JSON string literal; sjson.SetRaw requires
// its replacement to already be valid JSON text, so leaf strings are quoted
// here rather than handed to sjson as a bare value.
func quoteJSONString(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for _, r := range s {
		switch r {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		default:
			if r < 0x20 {
				out = append(out, []byte(jsonEscapeControl(r))...)
			} else {
				out = append(out, []byte(string(r))...)
			}
		}
	}
	out = append(out, '"')
	return string(out)
}

func jsonEscapeControl(r rune) string {
	const hex = "0123456789abcdef"
	return string([]byte{'\\', 'u', '0', '0', hex[(r>>4)&0xf], hex[r&0xf]})
}

func sjsonEscapeKey(k string) string {
	out := make([]byte, 0, len(k))
	for _, c := range k {
		if c == '.' || c == '*' || c == '?' {
			out = append(out, '\\')
		}
		out = append(out, string(c)...)
	}
	return string(out)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
