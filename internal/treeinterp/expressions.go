package treeinterp

import (
	"fmt"
	"math"

	"github.com/cwbudde/jsvm/internal/ast"
	"github.com/cwbudde/jsvm/internal/runtime"
	"github.com/cwbudde/jsvm/internal/token"
)

func formatPos(p token.Position) string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// evalExpr evaluates one expression against env, returning its value and
// any non-normal completion (only SigThrow/SigReturn can originate from an
// expression: SigReturn when evaluating a `yield`/`await` inside a frame
// that was driven with a `return()` resume kind).
func (ip *Interp) evalExpr(env *runtime.Environment, expr ast.Expression) (runtime.Value, *Signal) {
	switch n := expr.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue(n.Value), nil
	case *ast.StringLiteral:
		return runtime.StringValue(n.Value), nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue(n.Value), nil
	case *ast.NullLiteral:
		return runtime.Null, nil
	case *ast.UndefinedLiteral:
		return runtime.Undefined, nil
	case *ast.Identifier:
		v, err := env.Get(n.Name)
		if err != nil {
			return nil, throwSignal(ip.Realm.ReferenceError("%s", err.Error()))
		}
		return v, nil
	case *ast.ThisExpression:
		v, _ := env.Get("this")
		if v == nil {
			return runtime.Undefined, nil
		}
		return v, nil
	case *ast.TemplateLiteral:
		return ip.evalTemplateLiteral(env, n)
	case *ast.RegexLiteral:
		re, err := runtime.CompileRegExp(n.Pattern, n.Flags, ip.Realm.RegExpProto)
		if err != nil {
			return nil, throwSignal(ip.Realm.SyntaxError("Invalid regular expression: %s", err.Error()))
		}
		return re, nil
	case *ast.ArrayLiteral:
		return ip.evalArrayLiteral(env, n)
	case *ast.ObjectLiteral:
		return ip.evalObjectLiteral(env, n)
	case *ast.PrefixExpression:
		return ip.evalPrefix(env, n)
	case *ast.PostfixExpression:
		return ip.evalPostfix(env, n)
	case *ast.InfixExpression:
		return ip.evalInfix(env, n)
	case *ast.LogicalExpression:
		return ip.evalLogical(env, n)
	case *ast.ConditionalExpression:
		test, sig := ip.evalExpr(env, n.Test)
		if sig != nil {
			return nil, sig
		}
		if runtime.ToBoolean(test) {
			return ip.evalExpr(env, n.Consequent)
		}
		return ip.evalExpr(env, n.Alternate)
	case *ast.AssignmentExpression:
		return ip.evalAssignment(env, n)
	case *ast.MemberExpression:
		v, _, sig := ip.evalMember(env, n)
		return v, sig
	case *ast.CallExpression:
		return ip.evalCall(env, n)
	case *ast.NewExpression:
		return ip.evalNew(env, n)
	case *ast.SequenceExpression:
		var v runtime.Value = runtime.Undefined
		for _, e := range n.Expressions {
			var sig *Signal
			v, sig = ip.evalExpr(env, e)
			if sig != nil {
				return nil, sig
			}
		}
		return v, nil
	case *ast.FunctionDeclaration:
		return ip.makeFunction(n, env), nil
	case *ast.ArrowFunctionExpression:
		return ip.makeArrow(n, env), nil
	case *ast.ClassDeclaration:
		return ip.buildClass(env, n)
	case *ast.YieldExpression:
		return ip.evalYield(env, n)
	case *ast.AwaitExpression:
		return ip.evalAwait(env, n)
	case *ast.SpreadElement:
		return ip.evalExpr(env, n.Argument)
	case *ast.SuperExpression:
		return nil, throwSignal(ip.Realm.SyntaxError("'super' keyword is only valid inside a class"))
	default:
		return nil, throwSignal(ip.Realm.TypeError("unsupported expression: %T", expr))
	}
}

func (ip *Interp) evalTemplateLiteral(env *runtime.Environment, n *ast.TemplateLiteral) (runtime.Value, *Signal) {
	var out string
	for i, q := range n.Quasis {
		out += q
		if i < len(n.Expressions) {
			v, sig := ip.evalExpr(env, n.Expressions[i])
			if sig != nil {
				return nil, sig
			}
			out += runtime.ToString(v)
		}
	}
	return runtime.StringValue(out), nil
}

func (ip *Interp) evalArrayLiteral(env *runtime.Environment, n *ast.ArrayLiteral) (runtime.Value, *Signal) {
	var elems []runtime.Value
	for i, e := range n.Elements {
		if e == nil {
			elems = append(elems, nil)
			continue
		}
		if n.Spreads != nil && n.Spreads[i] {
			v, sig := ip.evalExpr(env, e)
			if sig != nil {
				return nil, sig
			}
			items, sig2 := ip.iterableToSlice(env, v)
			if sig2 != nil {
				return nil, sig2
			}
			elems = append(elems, items...)
			continue
		}
		v, sig := ip.evalExpr(env, e)
		if sig != nil {
			return nil, sig
		}
		elems = append(elems, v)
	}
	return runtime.NewArray(ip.Realm.ArrayProto, elems), nil
}

func (ip *Interp) evalObjectLiteral(env *runtime.Environment, n *ast.ObjectLiteral) (runtime.Value, *Signal) {
	obj := runtime.NewObject(ip.Realm.ObjectProto)
	for _, p := range n.Properties {
		if p.Spread {
			v, sig := ip.evalExpr(env, p.Value)
			if sig != nil {
				return nil, sig
			}
			if _, ok := runtime.AsObject(v); ok {
				for _, k := range runtime.OwnKeys(v) {
					if k.IsSymbol() {
						continue
					}
					if d, ok := runtime.GetOwnDescriptor(v, k); ok && !d.Enumerable {
						continue
					}
					val, _ := runtime.GetProperty(v, k, v)
					obj.Define(k, runtime.Descriptor{Value: val, Writable: true, Enumerable: true, Configurable: true})
				}
			}
			continue
		}
		key, sig := ip.propertyKeyOf(env, p.Key, p.Computed)
		if sig != nil {
			return nil, sig
		}
		if p.Kind == "get" || p.Kind == "set" {
			fnDecl := p.Value.(*ast.FunctionDeclaration)
			fn := ip.makeFunction(fnDecl, env)
			fn.HomeObject = obj
			existing, _ := obj.GetOwnDescriptor(key)
			desc := runtime.Descriptor{IsAccessor: true, Enumerable: true, Configurable: true}
			if existing != nil && existing.IsAccessor {
				desc.Get, desc.Set = existing.Get, existing.Set
			}
			if p.Kind == "get" {
				desc.Get = fn
			} else {
				desc.Set = fn
			}
			obj.Define(key, desc)
			continue
		}
		v, sig := ip.evalExpr(env, p.Value)
		if sig != nil {
			return nil, sig
		}
		if fn, ok := v.(*runtime.Function); ok && p.Method {
			fn.HomeObject = obj
		}
		obj.Define(key, runtime.Descriptor{Value: v, Writable: true, Enumerable: true, Configurable: true})
	}
	return obj, nil
}

func (ip *Interp) propertyKeyOf(env *runtime.Environment, key ast.Expression, computed bool) (runtime.PropertyKey, *Signal) {
	if !computed {
		switch k := key.(type) {
		case *ast.Identifier:
			return runtime.StringKey(k.Name), nil
		case *ast.StringLiteral:
			return runtime.StringKey(k.Value), nil
		case *ast.NumberLiteral:
			return runtime.StringKey(runtime.ToString(runtime.NumberValue(k.Value))), nil
		}
	}
	v, sig := ip.evalExpr(env, key)
	if sig != nil {
		return runtime.PropertyKey{}, sig
	}
	return runtime.KeyFromValue(v), nil
}

func (ip *Interp) evalPrefix(env *runtime.Environment, n *ast.PrefixExpression) (runtime.Value, *Signal) {
	if n.Operator == "++" || n.Operator == "--" {
		return ip.evalIncDec(env, n.Right, n.Operator, true)
	}
	if n.Operator == "typeof" {
		if id, ok := n.Right.(*ast.Identifier); ok && !env.Has(id.Name) {
			return runtime.StringValue("undefined"), nil
		}
	}
	v, sig := ip.evalExpr(env, n.Right)
	if sig != nil {
		return nil, sig
	}
	switch n.Operator {
	case "!":
		return runtime.BoolValue(!runtime.ToBoolean(v)), nil
	case "-":
		return runtime.NumberValue(-runtime.ToNumber(v)), nil
	case "+":
		return runtime.NumberValue(runtime.ToNumber(v)), nil
	case "~":
		return runtime.NumberValue(float64(^toInt32(runtime.ToNumber(v)))), nil
	case "typeof":
		return runtime.StringValue(runtime.TypeOf(v)), nil
	case "void":
		return runtime.Undefined, nil
	default:
		return nil, throwSignal(ip.Realm.TypeError("unsupported operator %s", n.Operator))
	}
}

func (ip *Interp) evalIncDec(env *runtime.Environment, target ast.Expression, op string, prefix bool) (runtime.Value, *Signal) {
	old, sig := ip.evalExpr(env, target)
	if sig != nil {
		return nil, sig
	}
	oldNum := runtime.ToNumber(old)
	var next float64
	if op == "++" {
		next = oldNum + 1
	} else {
		next = oldNum - 1
	}
	if sig := ip.assignToTarget(env, target, runtime.NumberValue(next)); sig != nil {
		return nil, sig
	}
	if prefix {
		return runtime.NumberValue(next), nil
	}
	return runtime.NumberValue(oldNum), nil
}

func (ip *Interp) evalPostfix(env *runtime.Environment, n *ast.PostfixExpression) (runtime.Value, *Signal) {
	return ip.evalIncDec(env, n.Left, n.Operator, false)
}

func (ip *Interp) evalLogical(env *runtime.Environment, n *ast.LogicalExpression) (runtime.Value, *Signal) {
	left, sig := ip.evalExpr(env, n.Left)
	if sig != nil {
		return nil, sig
	}
	switch n.Operator {
	case "&&":
		if !runtime.ToBoolean(left) {
			return left, nil
		}
		return ip.evalExpr(env, n.Right)
	case "||":
		if runtime.ToBoolean(left) {
			return left, nil
		}
		return ip.evalExpr(env, n.Right)
	case "??":
		if !runtime.IsNullish(left) {
			return left, nil
		}
		return ip.evalExpr(env, n.Right)
	default:
		return nil, throwSignal(ip.Realm.TypeError("unsupported logical operator %s", n.Operator))
	}
}

func (ip *Interp) evalInfix(env *runtime.Environment, n *ast.InfixExpression) (runtime.Value, *Signal) {
	left, sig := ip.evalExpr(env, n.Left)
	if sig != nil {
		return nil, sig
	}
	right, sig := ip.evalExpr(env, n.Right)
	if sig != nil {
		return nil, sig
	}
	return ip.applyBinary(n.Operator, left, right)
}

func (ip *Interp) applyBinary(op string, left, right runtime.Value) (runtime.Value, *Signal) {
	switch op {
	case "+":
		lp := runtime.ToPrimitive(left, "default")
		rp := runtime.ToPrimitive(right, "default")
		if lp.Tag() == runtime.TagString || rp.Tag() == runtime.TagString {
			return runtime.StringValue(runtime.ToString(lp) + runtime.ToString(rp)), nil
		}
		return runtime.NumberValue(runtime.ToNumber(lp) + runtime.ToNumber(rp)), nil
	case "-":
		return runtime.NumberValue(runtime.ToNumber(left) - runtime.ToNumber(right)), nil
	case "*":
		return runtime.NumberValue(runtime.ToNumber(left) * runtime.ToNumber(right)), nil
	case "/":
		return runtime.NumberValue(runtime.ToNumber(left) / runtime.ToNumber(right)), nil
	case "%":
		return runtime.NumberValue(math.Mod(runtime.ToNumber(left), runtime.ToNumber(right))), nil
	case "**":
		return runtime.NumberValue(math.Pow(runtime.ToNumber(left), runtime.ToNumber(right))), nil
	case "==":
		return runtime.BoolValue(runtime.LooseEquals(left, right)), nil
	case "!=":
		return runtime.BoolValue(!runtime.LooseEquals(left, right)), nil
	case "===":
		return runtime.BoolValue(runtime.StrictEquals(left, right)), nil
	case "!==":
		return runtime.BoolValue(!runtime.StrictEquals(left, right)), nil
	case "<", ">", "<=", ">=":
		return ip.compare(op, left, right), nil
	case "&":
		return runtime.NumberValue(float64(toInt32(runtime.ToNumber(left)) & toInt32(runtime.ToNumber(right)))), nil
	case "|":
		return runtime.NumberValue(float64(toInt32(runtime.ToNumber(left)) | toInt32(runtime.ToNumber(right)))), nil
	case "^":
		return runtime.NumberValue(float64(toInt32(runtime.ToNumber(left)) ^ toInt32(runtime.ToNumber(right)))), nil
	case "<<":
		return runtime.NumberValue(float64(toInt32(runtime.ToNumber(left)) << (uint32(toInt32(runtime.ToNumber(right))) & 31))), nil
	case ">>":
		return runtime.NumberValue(float64(toInt32(runtime.ToNumber(left)) >> (uint32(toInt32(runtime.ToNumber(right))) & 31))), nil
	case ">>>":
		return runtime.NumberValue(float64(uint32(toInt32(runtime.ToNumber(left))) >> (uint32(toInt32(runtime.ToNumber(right))) & 31))), nil
	case "instanceof":
		return ip.instanceOf(left, right)
	case "in":
		if _, ok := runtime.AsObject(right); ok {
			has := false
			for _, k := range runtime.OwnKeys(right) {
				if k.String() == runtime.ToString(left) {
					has = true
					break
				}
			}
			if !has {
				proto := runtime.PrototypeOf(right)
				for !runtime.IsNullish(proto) {
					for _, k := range runtime.OwnKeys(proto) {
						if k.String() == runtime.ToString(left) {
							return runtime.True, nil
						}
					}
					proto = runtime.PrototypeOf(proto)
				}
			}
			return runtime.BoolValue(has), nil
		}
		return runtime.False, nil
	default:
		return nil, throwSignal(ip.Realm.TypeError("unsupported operator %s", op))
	}
}

func (ip *Interp) compare(op string, left, right runtime.Value) runtime.Value {
	lp := runtime.ToPrimitive(left, "number")
	rp := runtime.ToPrimitive(right, "number")
	if lp.Tag() == runtime.TagString && rp.Tag() == runtime.TagString {
		ls, rs := string(lp.(runtime.String)), string(rp.(runtime.String))
		switch op {
		case "<":
			return runtime.BoolValue(ls < rs)
		case ">":
			return runtime.BoolValue(ls > rs)
		case "<=":
			return runtime.BoolValue(ls <= rs)
		default:
			return runtime.BoolValue(ls >= rs)
		}
	}
	ln, rn := runtime.ToNumber(lp), runtime.ToNumber(rp)
	if math.IsNaN(ln) || math.IsNaN(rn) {
		return runtime.False
	}
	switch op {
	case "<":
		return runtime.BoolValue(ln < rn)
	case ">":
		return runtime.BoolValue(ln > rn)
	case "<=":
		return runtime.BoolValue(ln <= rn)
	default:
		return runtime.BoolValue(ln >= rn)
	}
}

func (ip *Interp) instanceOf(left, right runtime.Value) (runtime.Value, *Signal) {
	ctor, ok := right.(*runtime.Function)
	if !ok {
		return nil, throwSignal(ip.Realm.TypeError("Right-hand side of 'instanceof' is not callable"))
	}
	proto := ctor.ConstructorPrototype()
	cur := runtime.PrototypeOf(left)
	for !runtime.IsNullish(cur) {
		if cur == runtime.Value(proto) {
			return runtime.True, nil
		}
		cur = runtime.PrototypeOf(cur)
	}
	return runtime.False, nil
}

func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(int64(f))
}

func (ip *Interp) evalAssignment(env *runtime.Environment, n *ast.AssignmentExpression) (runtime.Value, *Signal) {
	if n.Operator == "=" {
		if pat, ok := n.Target.(*ast.ArrayPattern); ok {
			v, sig := ip.evalExpr(env, n.Value)
			if sig != nil {
				return nil, sig
			}
			if sig := ip.bindArrayPattern(env, pat, v, ast.VarKindVar); sig != nil {
				return nil, sig
			}
			return v, nil
		}
		if pat, ok := n.Target.(*ast.ObjectPattern); ok {
			v, sig := ip.evalExpr(env, n.Value)
			if sig != nil {
				return nil, sig
			}
			if sig := ip.bindObjectPattern(env, pat, v, ast.VarKindVar); sig != nil {
				return nil, sig
			}
			return v, nil
		}
		v, sig := ip.evalExpr(env, n.Value)
		if sig != nil {
			return nil, sig
		}
		if sig := ip.assignToTarget(env, n.Target, v); sig != nil {
			return nil, sig
		}
		return v, nil
	}
	op := n.Operator[:len(n.Operator)-1] // strip trailing '='
	if op == "&&" || op == "||" || op == "??" {
		cur, sig := ip.evalExpr(env, n.Target)
		if sig != nil {
			return nil, sig
		}
		switch op {
		case "&&":
			if !runtime.ToBoolean(cur) {
				return cur, nil
			}
		case "||":
			if runtime.ToBoolean(cur) {
				return cur, nil
			}
		case "??":
			if !runtime.IsNullish(cur) {
				return cur, nil
			}
		}
		v, sig := ip.evalExpr(env, n.Value)
		if sig != nil {
			return nil, sig
		}
		if sig := ip.assignToTarget(env, n.Target, v); sig != nil {
			return nil, sig
		}
		return v, nil
	}
	cur, sig := ip.evalExpr(env, n.Target)
	if sig != nil {
		return nil, sig
	}
	rhs, sig := ip.evalExpr(env, n.Value)
	if sig != nil {
		return nil, sig
	}
	result, sig := ip.applyBinary(op, cur, rhs)
	if sig != nil {
		return nil, sig
	}
	if sig := ip.assignToTarget(env, n.Target, result); sig != nil {
		return nil, sig
	}
	return result, nil
}

func (ip *Interp) assignToTarget(env *runtime.Environment, target ast.Expression, v runtime.Value) *Signal {
	switch t := target.(type) {
	case *ast.Identifier:
		if err := env.Set(t.Name, v); err != nil {
			if !env.Has(t.Name) {
				ip.Global.DeclareVar(t.Name, v)
				return nil
			}
			return throwSignal(ip.Realm.TypeError("%s", err.Error()))
		}
		return nil
	case *ast.MemberExpression:
		obj, key, sig := ip.evalMemberTarget(env, t)
		if sig != nil {
			return sig
		}
		if err := ip.setProperty(obj, key, v); err != nil {
			return throwSignal(ip.Realm.TypeError("%s", err.Error()))
		}
		return nil
	case *ast.ArrayPattern:
		return ip.bindArrayPattern(env, t, v, ast.VarKindVar)
	case *ast.ObjectPattern:
		return ip.bindObjectPattern(env, t, v, ast.VarKindVar)
	default:
		return throwSignal(ip.Realm.TypeError("invalid assignment target"))
	}
}

func (ip *Interp) setProperty(obj runtime.Value, key runtime.PropertyKey, v runtime.Value) error {
	if _, ok := runtime.AsObject(obj); !ok {
		return fmt.Errorf("cannot set property of non-object")
	}
	return runtime.SetProperty(obj, key, v, obj)
}

func (ip *Interp) getProperty(env *runtime.Environment, obj runtime.Value, key runtime.PropertyKey) (runtime.Value, *Signal) {
	if runtime.IsNullish(obj) {
		return nil, throwSignal(ip.Realm.TypeError("Cannot read properties of %s (reading '%s')", runtime.ToString(obj), key.String()))
	}
	if _, ok := runtime.AsObject(obj); !ok {
		return ip.getPrimitiveProperty(obj, key)
	}
	v, err := runtime.GetProperty(obj, key, obj)
	if err != nil {
		return nil, throwSignal(ip.Realm.RangeError("%s", err.Error()))
	}
	return v, nil
}

// getPrimitiveProperty resolves member access on string values (`length`,
// index access, then String.prototype's own properties) without
// materializing a wrapper object. Number and boolean values have no
// prototype lookup here: every property of them reads as undefined.
func (ip *Interp) getPrimitiveProperty(v runtime.Value, key runtime.PropertyKey) (runtime.Value, *Signal) {
	if s, ok := v.(runtime.String); ok {
		if !key.IsSymbol() {
			if key.String() == "length" {
				return runtime.NumberValue(float64(len([]rune(string(s))))), nil
			}
			if idx, ok := stringIndex(key.String()); ok {
				runes := []rune(string(s))
				if idx >= 0 && idx < len(runes) {
					return runtime.StringValue(string(runes[idx])), nil
				}
				return runtime.Undefined, nil
			}
		}
		if d, ok := runtime.GetOwnDescriptor(ip.Realm.StringProto, key); ok {
			return d.Value, nil
		}
		return runtime.Undefined, nil
	}
	return runtime.Undefined, nil
}

func stringIndex(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
