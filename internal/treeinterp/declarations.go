package treeinterp

import "github.com/cwbudde/jsvm/internal/ast"
import "github.com/cwbudde/jsvm/internal/runtime"

// hoistBlockDeclarations implements the two-phase "hoist then run" block
// entry of §4.2: `var`/`function` hoist to the nearest function scope (with
// later declarations winning), `let`/`const`/`class` bind in *this* block
// uninitialized (TDZ) until their declaration statement runs.
//
// When isFunctionScopeEntry is true, env is also the function scope that
// `var` declarations anywhere in the body (except inside nested function
// literals) hoist into; hoistVarDeclarations recurses to find them all.
func (ip *Interp) hoistBlockDeclarations(env *runtime.Environment, stmts []ast.Statement, isFunctionScopeEntry bool) {
	if isFunctionScopeEntry {
		for _, s := range stmts {
			hoistVarsIn(env, s)
		}
	}
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.VariableDeclaration:
			switch n.Kind {
			case ast.VarKindLet:
				for _, d := range n.Declarations {
					for _, name := range bindingNames(d.Target) {
						env.DeclareLet(name)
					}
				}
			case ast.VarKindConst:
				for _, d := range n.Declarations {
					for _, name := range bindingNames(d.Target) {
						env.DeclareConst(name)
					}
				}
			}
		case *ast.ClassDeclaration:
			if n.Name != nil {
				env.DeclareLet(n.Name.Name)
			}
		case *ast.FunctionDeclaration:
			if n.Name != nil {
				fn := ip.makeFunction(n, env)
				env.DeclareVar(n.Name.Name, fn)
			}
		}
	}
}

func hoistVarsIn(env *runtime.Environment, s ast.Statement) {
	switch n := s.(type) {
	case *ast.VariableDeclaration:
		if n.Kind == ast.VarKindVar {
			for _, d := range n.Declarations {
				for _, name := range bindingNames(d.Target) {
					env.DeclareVar(name, runtime.Undefined)
				}
			}
		}
	case *ast.BlockStatement:
		for _, c := range n.Statements {
			hoistVarsIn(env, c)
		}
	case *ast.IfStatement:
		hoistVarsIn(env, n.Consequent)
		if n.Alternate != nil {
			hoistVarsIn(env, n.Alternate)
		}
	case *ast.WhileStatement:
		hoistVarsIn(env, n.Body)
	case *ast.DoWhileStatement:
		hoistVarsIn(env, n.Body)
	case *ast.ForStatement:
		if vd, ok := n.Init.(*ast.VariableDeclaration); ok {
			hoistVarsIn(env, vd)
		}
		hoistVarsIn(env, n.Body)
	case *ast.ForInStatement:
		if vd, ok := n.Left.(*ast.VariableDeclaration); ok {
			hoistVarsIn(env, vd)
		}
		hoistVarsIn(env, n.Body)
	case *ast.ForOfStatement:
		if vd, ok := n.Left.(*ast.VariableDeclaration); ok {
			hoistVarsIn(env, vd)
		}
		hoistVarsIn(env, n.Body)
	case *ast.TryStatement:
		hoistVarsIn(env, n.Block)
		if n.Catch != nil {
			hoistVarsIn(env, n.Catch.Body)
		}
		if n.Finally != nil {
			hoistVarsIn(env, n.Finally)
		}
	case *ast.SwitchStatement:
		for _, c := range n.Cases {
			for _, cs := range c.Consequent {
				hoistVarsIn(env, cs)
			}
		}
	case *ast.LabeledStatement:
		hoistVarsIn(env, n.Body)
	}
}

// bindingNames collects every identifier name a binding target introduces,
// recursing through array/object destructuring patterns.
func bindingNames(target ast.Expression) []string {
	var names []string
	collectBindingNames(target, &names)
	return names
}

func collectBindingNames(target ast.Expression, out *[]string) {
	switch t := target.(type) {
	case *ast.Identifier:
		*out = append(*out, t.Name)
	case *ast.ArrayPattern:
		for _, el := range t.Elements {
			if el == nil || el.Target == nil {
				continue
			}
			collectBindingNames(el.Target, out)
		}
	case *ast.ObjectPattern:
		for _, p := range t.Properties {
			if p.Rest {
				collectBindingNames(p.Target, out)
				continue
			}
			collectBindingNames(p.Target, out)
		}
	}
}

// blockNeedsOwnEnvironment reports whether a block directly declares a
// let/const/class/function binding, per the BlockStatement doc comment:
// only then does the tree interpreter allocate a nested environment.
func blockNeedsOwnEnvironment(stmts []ast.Statement) bool {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.VariableDeclaration:
			if n.Kind != ast.VarKindVar {
				return true
			}
		case *ast.ClassDeclaration, *ast.FunctionDeclaration:
			return true
		}
	}
	return false
}
