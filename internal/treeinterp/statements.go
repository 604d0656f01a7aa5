package treeinterp

import (
	"github.com/cwbudde/jsvm/internal/ast"
	"github.com/cwbudde/jsvm/internal/runtime"
)

// evalStatement evaluates one statement against env, returning the
// non-normal completion it produced, if any (§4.5).
func (ip *Interp) evalStatement(env *runtime.Environment, stmt ast.Statement) *Signal {
	switch n := stmt.(type) {
	case *ast.ExpressionStatement:
		_, sig := ip.evalExpr(env, n.Expression)
		return sig
	case *ast.BlockStatement:
		return ip.evalBlock(env, n)
	case *ast.VariableDeclaration:
		return ip.evalVariableDeclaration(env, n)
	case *ast.IfStatement:
		test, sig := ip.evalExpr(env, n.Test)
		if sig != nil {
			return sig
		}
		if runtime.ToBoolean(test) {
			return ip.evalStatement(env, n.Consequent)
		}
		if n.Alternate != nil {
			return ip.evalStatement(env, n.Alternate)
		}
		return nil
	case *ast.WhileStatement:
		return ip.evalWhile(env, n)
	case *ast.DoWhileStatement:
		return ip.evalDoWhile(env, n)
	case *ast.ForStatement:
		return ip.evalFor(env, n)
	case *ast.ForInStatement:
		return ip.evalForIn(env, n)
	case *ast.ForOfStatement:
		return ip.evalForOf(env, n, "")
	case *ast.ReturnStatement:
		var v runtime.Value = runtime.Undefined
		if n.Argument != nil {
			var sig *Signal
			v, sig = ip.evalExpr(env, n.Argument)
			if sig != nil {
				return sig
			}
		}
		return &Signal{Kind: SigReturn, Value: v}
	case *ast.ThrowStatement:
		v, sig := ip.evalExpr(env, n.Argument)
		if sig != nil {
			return sig
		}
		return throwSignal(v)
	case *ast.BreakStatement:
		return &Signal{Kind: SigBreak, Label: n.Label}
	case *ast.ContinueStatement:
		return &Signal{Kind: SigContinue, Label: n.Label}
	case *ast.TryStatement:
		return ip.evalTry(env, n)
	case *ast.SwitchStatement:
		return ip.evalSwitch(env, n)
	case *ast.LabeledStatement:
		return ip.evalLabeled(env, n)
	case *ast.FunctionDeclaration:
		return nil // already hoisted
	case *ast.ClassDeclaration:
		return ip.evalClassDeclaration(env, n)
	case *ast.EmptyStatement:
		return nil
	case *ast.DebugStatement:
		return ip.evalDebugStatement(env, n)
	default:
		return throwSignal(ip.Realm.TypeError("unsupported statement"))
	}
}

// evalBlock allocates a nested environment only if the block directly
// declares let/const/class/function, per §4.2 and the BlockStatement
// comment; otherwise it reuses env to avoid needless allocation.
func (ip *Interp) evalBlock(env *runtime.Environment, b *ast.BlockStatement) *Signal {
	target := env
	if blockNeedsOwnEnvironment(b.Statements) {
		target = runtime.NewBlockEnvironment(env)
		ip.hoistBlockDeclarations(target, b.Statements, false)
	}
	for _, s := range b.Statements {
		if sig := ip.evalStatement(target, s); sig != nil {
			return sig
		}
	}
	return nil
}

func (ip *Interp) evalVariableDeclaration(env *runtime.Environment, n *ast.VariableDeclaration) *Signal {
	for _, d := range n.Declarations {
		var v runtime.Value = runtime.Undefined
		if d.Init != nil {
			var sig *Signal
			v, sig = ip.evalExpr(env, d.Init)
			if sig != nil {
				return sig
			}
		} else if n.Kind == ast.VarKindVar {
			continue // leave the hoisted `undefined` alone
		}
		if sig := ip.bindPattern(env, d.Target, v, n.Kind); sig != nil {
			return sig
		}
	}
	return nil
}

// bindPattern initializes (for let/const, via Environment.Initialize) or
// assigns (for var/assignment-target reuse, via Environment.Set) every
// name a destructuring pattern introduces, applying defaults to `undefined`
// only and collecting rest elements/properties (§4.5 Destructuring).
func (ip *Interp) bindPattern(env *runtime.Environment, target ast.Expression, v runtime.Value, kind ast.VarKind) *Signal {
	switch t := target.(type) {
	case *ast.Identifier:
		if kind == ast.VarKindVar {
			return ip.assignName(env, t.Name, v)
		}
		if err := env.Initialize(t.Name, v); err != nil {
			return throwSignal(ip.Realm.ReferenceError("%s", err.Error()))
		}
		return nil
	case *ast.ArrayPattern:
		return ip.bindArrayPattern(env, t, v, kind)
	case *ast.ObjectPattern:
		return ip.bindObjectPattern(env, t, v, kind)
	default:
		return throwSignal(ip.Realm.TypeError("invalid binding target"))
	}
}

func (ip *Interp) assignName(env *runtime.Environment, name string, v runtime.Value) *Signal {
	if !env.Has(name) {
		env.DeclareVar(name, v)
		return nil
	}
	if err := env.Set(name, v); err != nil {
		return throwSignal(ip.Realm.TypeError("%s", err.Error()))
	}
	return nil
}

func (ip *Interp) bindArrayPattern(env *runtime.Environment, pat *ast.ArrayPattern, v runtime.Value, kind ast.VarKind) *Signal {
	items, sig := ip.iterableToSlice(env, v)
	if sig != nil {
		return sig
	}
	for i, el := range pat.Elements {
		if el == nil {
			continue
		}
		if el.Rest {
			var rest []runtime.Value
			if i < len(items) {
				rest = items[i:]
			}
			if sig := ip.bindPattern(env, el.Target, runtime.NewArray(ip.Realm.ArrayProto, rest), kind); sig != nil {
				return sig
			}
			break
		}
		var elem runtime.Value = runtime.Undefined
		if i < len(items) && items[i] != nil {
			elem = items[i]
		}
		if elem == nil || runtime.IsUndefined(elem) {
			if el.Default != nil {
				var s *Signal
				elem, s = ip.evalExpr(env, el.Default)
				if s != nil {
					return s
				}
			} else {
				elem = runtime.Undefined
			}
		}
		if sig := ip.bindPattern(env, el.Target, elem, kind); sig != nil {
			return sig
		}
	}
	return nil
}

func (ip *Interp) bindObjectPattern(env *runtime.Environment, pat *ast.ObjectPattern, v runtime.Value, kind ast.VarKind) *Signal {
	if runtime.IsNullish(v) {
		return throwSignal(ip.Realm.TypeError("Cannot destructure '%s' as it is %s.", runtime.Inspect(v), runtime.TypeOf(v)))
	}
	used := map[string]bool{}
	for _, p := range pat.Properties {
		if p.Rest {
			rest := runtime.NewObject(ip.Realm.ObjectProto)
			if _, ok := runtime.AsObject(v); ok {
				for _, k := range runtime.OwnKeys(v) {
					if k.IsSymbol() || used[k.String()] {
						continue
					}
					if d, ok := runtime.GetOwnDescriptor(v, k); ok && !d.Enumerable {
						continue
					}
					val, _ := runtime.GetProperty(v, k, v)
					rest.Define(k, runtime.Descriptor{Value: val, Writable: true, Enumerable: true, Configurable: true})
				}
			}
			if sig := ip.bindPattern(env, p.Target, rest, kind); sig != nil {
				return sig
			}
			continue
		}
		key, sig := ip.propertyKeyOf(env, p.Key, p.Computed)
		if sig != nil {
			return sig
		}
		used[key.String()] = true
		val, sig2 := ip.getProperty(env, v, key)
		if sig2 != nil {
			return sig2
		}
		if runtime.IsUndefined(val) && p.Default != nil {
			var s *Signal
			val, s = ip.evalExpr(env, p.Default)
			if s != nil {
				return s
			}
		}
		if sig := ip.bindPattern(env, p.Target, val, kind); sig != nil {
			return sig
		}
	}
	return nil
}

func (ip *Interp) evalWhile(env *runtime.Environment, n *ast.WhileStatement) *Signal {
	for {
		test, sig := ip.evalExpr(env, n.Test)
		if sig != nil {
			return sig
		}
		if !runtime.ToBoolean(test) {
			return nil
		}
		sig = ip.evalStatement(env, n.Body)
		if sig == nil {
			continue
		}
		switch sig.Kind {
		case SigBreak:
			if sig.Label == "" {
				return nil
			}
			return sig
		case SigContinue:
			if sig.Label == "" {
				continue
			}
			return sig
		default:
			return sig
		}
	}
}

func (ip *Interp) evalDoWhile(env *runtime.Environment, n *ast.DoWhileStatement) *Signal {
	for {
		sig := ip.evalStatement(env, n.Body)
		if sig != nil {
			switch sig.Kind {
			case SigBreak:
				if sig.Label == "" {
					return nil
				}
				return sig
			case SigContinue:
				if sig.Label != "" {
					return sig
				}
			default:
				return sig
			}
		}
		test, s := ip.evalExpr(env, n.Test)
		if s != nil {
			return s
		}
		if !runtime.ToBoolean(test) {
			return nil
		}
	}
}

func (ip *Interp) evalFor(env *runtime.Environment, n *ast.ForStatement) *Signal {
	loopEnv := runtime.NewBlockEnvironment(env)
	if vd, ok := n.Init.(*ast.VariableDeclaration); ok {
		ip.hoistBlockDeclarations(loopEnv, []ast.Statement{vd}, false)
		if sig := ip.evalVariableDeclaration(loopEnv, vd); sig != nil {
			return sig
		}
	} else if expr, ok := n.Init.(ast.Expression); ok && expr != nil {
		if _, sig := ip.evalExpr(loopEnv, expr); sig != nil {
			return sig
		}
	}
	for {
		if n.Test != nil {
			test, sig := ip.evalExpr(loopEnv, n.Test)
			if sig != nil {
				return sig
			}
			if !runtime.ToBoolean(test) {
				return nil
			}
		}
		sig := ip.evalStatement(loopEnv, n.Body)
		if sig != nil {
			switch sig.Kind {
			case SigBreak:
				if sig.Label == "" {
					return nil
				}
				return sig
			case SigContinue:
				if sig.Label != "" {
					return sig
				}
			default:
				return sig
			}
		}
		if n.Update != nil {
			if _, sig := ip.evalExpr(loopEnv, n.Update); sig != nil {
				return sig
			}
		}
	}
}

func (ip *Interp) evalForIn(env *runtime.Environment, n *ast.ForInStatement) *Signal {
	right, sig := ip.evalExpr(env, n.Right)
	if sig != nil {
		return sig
	}
	if runtime.IsNullish(right) {
		return nil
	}
	seen := map[string]bool{}
	var keys []string
	for cur := right; ; {
		for _, k := range runtime.OwnKeys(cur) {
			if k.IsSymbol() || seen[k.String()] {
				continue
			}
			seen[k.String()] = true
			if desc, has := runtime.GetOwnDescriptor(cur, k); has && !desc.Enumerable {
				continue
			}
			keys = append(keys, k.String())
		}
		proto := runtime.PrototypeOf(cur)
		if runtime.IsNullish(proto) {
			break
		}
		cur = proto
	}
	for _, key := range keys {
		loopEnv := runtime.NewBlockEnvironment(env)
		if sig := ip.bindForTarget(loopEnv, n.Left, runtime.StringValue(key)); sig != nil {
			return sig
		}
		bsig := ip.evalStatement(loopEnv, n.Body)
		if bsig != nil {
			switch bsig.Kind {
			case SigBreak:
				if bsig.Label == "" {
					return nil
				}
				return bsig
			case SigContinue:
				if bsig.Label != "" {
					return bsig
				}
			default:
				return bsig
			}
		}
	}
	return nil
}

func (ip *Interp) bindForTarget(env *runtime.Environment, left ast.Node, v runtime.Value) *Signal {
	if vd, ok := left.(*ast.VariableDeclaration); ok {
		target := vd.Declarations[0].Target
		switch vd.Kind {
		case ast.VarKindLet:
			for _, name := range bindingNames(target) {
				env.DeclareLet(name)
			}
		case ast.VarKindConst:
			for _, name := range bindingNames(target) {
				env.DeclareConst(name)
			}
		}
		return ip.bindPattern(env, target, v, vd.Kind)
	}
	return ip.assignToTarget(env, left.(ast.Expression), v)
}

func (ip *Interp) evalSwitch(env *runtime.Environment, n *ast.SwitchStatement) *Signal {
	disc, sig := ip.evalExpr(env, n.Discriminant)
	if sig != nil {
		return sig
	}
	switchEnv := runtime.NewBlockEnvironment(env)
	for _, c := range n.Cases {
		ip.hoistBlockDeclarations(switchEnv, c.Consequent, false)
	}
	matched := -1
	for i, c := range n.Cases {
		if c.Test == nil {
			continue
		}
		tv, sig := ip.evalExpr(switchEnv, c.Test)
		if sig != nil {
			return sig
		}
		if runtime.StrictEquals(disc, tv) {
			matched = i
			break
		}
	}
	if matched == -1 {
		for i, c := range n.Cases {
			if c.Test == nil {
				matched = i
				break
			}
		}
	}
	if matched == -1 {
		return nil
	}
	for i := matched; i < len(n.Cases); i++ {
		for _, s := range n.Cases[i].Consequent {
			sig := ip.evalStatement(switchEnv, s)
			if sig != nil {
				if sig.Kind == SigBreak && sig.Label == "" {
					return nil
				}
				return sig
			}
		}
	}
	return nil
}

func (ip *Interp) evalLabeled(env *runtime.Environment, n *ast.LabeledStatement) *Signal {
	switch body := n.Body.(type) {
	case *ast.ForStatement, *ast.WhileStatement, *ast.DoWhileStatement, *ast.ForOfStatement, *ast.ForInStatement:
		sig := ip.evalLabeledLoop(env, n.Label, body)
		return sig
	default:
		sig := ip.evalStatement(env, n.Body)
		if sig != nil && (sig.Kind == SigBreak) && sig.Label == n.Label {
			return nil
		}
		return sig
	}
}

// evalLabeledLoop re-runs the loop evaluators but translates a
// labeled-continue matching this statement's label into an unlabeled
// continue at this nesting level (loops otherwise only swallow unlabeled
// break/continue).
func (ip *Interp) evalLabeledLoop(env *runtime.Environment, label string, body ast.Statement) *Signal {
	var sig *Signal
	switch n := body.(type) {
	case *ast.ForOfStatement:
		sig = ip.evalForOf(env, n, label)
	default:
		sig = ip.evalStatement(env, body)
	}
	if sig != nil && sig.Label == label && (sig.Kind == SigBreak || sig.Kind == SigContinue) {
		return nil
	}
	return sig
}

func (ip *Interp) evalTry(env *runtime.Environment, n *ast.TryStatement) *Signal {
	sig := ip.evalBlock(env, n.Block)
	if sig != nil && sig.Kind == SigThrow && n.Catch != nil {
		catchEnv := runtime.NewBlockEnvironment(env)
		if n.Catch.Param != nil {
			for _, name := range bindingNames(n.Catch.Param) {
				catchEnv.DeclareLet(name)
			}
			if s := ip.bindPattern(catchEnv, n.Catch.Param, sig.Value, ast.VarKindLet); s != nil {
				sig = s
			} else {
				sig = ip.evalBlock(catchEnv, n.Catch.Body)
			}
		} else {
			sig = ip.evalBlock(catchEnv, n.Catch.Body)
		}
	}
	if n.Finally != nil {
		// §4.4 ordering: finally runs regardless of the pending completion
		// and, if it produces its own non-normal completion, overrides it.
		if finSig := ip.evalBlock(env, n.Finally); finSig != nil {
			return finSig
		}
	}
	return sig
}

func (ip *Interp) evalClassDeclaration(env *runtime.Environment, n *ast.ClassDeclaration) *Signal {
	ctor, sig := ip.buildClass(env, n)
	if sig != nil {
		return sig
	}
	if n.Name != nil {
		if err := env.Initialize(n.Name.Name, ctor); err != nil {
			return throwSignal(ip.Realm.ReferenceError("%s", err.Error()))
		}
	}
	return nil
}

func (ip *Interp) evalDebugStatement(env *runtime.Environment, n *ast.DebugStatement) *Signal {
	if ip.DebugSink == nil {
		return nil
	}
	vars := map[string]string{}
	for i, a := range n.Arguments {
		v, sig := ip.evalExpr(env, a)
		if sig != nil {
			return sig
		}
		vars[identOrIndex(a, i)] = runtime.Inspect(v)
	}
	pos := n.Pos()
	ip.DebugSink(DebugMessage{
		State:     "paused",
		Variables: vars,
		Stack:     ip.StackDescriptors(),
		Origin:    formatPos(pos),
	})
	return nil
}

func identOrIndex(e ast.Expression, i int) string {
	if id, ok := e.(*ast.Identifier); ok {
		return id.Name
	}
	return e.String()
}
