// Package lowering implements AST-level passes (§4.4): constant folding
// (this file), which engine.Eval applies to each parsed program before
// execution, and a suspension-placement check (validate.go) that stands in
// for a separate generator IR/CPS pass in this engine's architecture; the
// engine does not run that check (see validate.go and DESIGN.md).
package lowering

import (
	"math"

	"github.com/cwbudde/jsvm/internal/ast"
)

// FoldConstants returns a new program with the side-effect-free constant
// subexpressions of its top-level statements evaluated at lowering time:
// arithmetic, comparison, string concatenation, bitwise, and `typeof` on
// literals. Logical `&&`/`||`/`??` expressions are not folded. Folding
// never crosses a binding reference or a side-effecting subexpression, so
// observable evaluation order is unchanged (§4.4 Constant folding).
func FoldConstants(prog *ast.Program) *ast.Program {
	out := &ast.Program{Statements: make([]ast.Statement, len(prog.Statements))}
	for i, s := range prog.Statements {
		out.Statements[i] = foldStatement(s)
	}
	return out
}

func foldStatement(s ast.Statement) ast.Statement {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		return &ast.ExpressionStatement{Token: n.Token, Expression: foldExpr(n.Expression)}
	case *ast.BlockStatement:
		stmts := make([]ast.Statement, len(n.Statements))
		for i, c := range n.Statements {
			stmts[i] = foldStatement(c)
		}
		return &ast.BlockStatement{Token: n.Token, Statements: stmts}
	case *ast.IfStatement:
		alt := n.Alternate
		if alt != nil {
			alt = foldStatement(alt)
		}
		return &ast.IfStatement{Token: n.Token, Test: foldExpr(n.Test), Consequent: foldStatement(n.Consequent), Alternate: alt}
	case *ast.WhileStatement:
		return &ast.WhileStatement{Token: n.Token, Test: foldExpr(n.Test), Body: foldStatement(n.Body)}
	case *ast.DoWhileStatement:
		return &ast.DoWhileStatement{Token: n.Token, Body: foldStatement(n.Body), Test: foldExpr(n.Test)}
	case *ast.ForStatement:
		f := &ast.ForStatement{Token: n.Token, Body: foldStatement(n.Body)}
		if init, ok := n.Init.(ast.Expression); ok && init != nil {
			f.Init = foldExpr(init)
		} else {
			f.Init = n.Init
		}
		if n.Test != nil {
			f.Test = foldExpr(n.Test)
		}
		if n.Update != nil {
			f.Update = foldExpr(n.Update)
		}
		return f
	case *ast.ReturnStatement:
		if n.Argument == nil {
			return n
		}
		return &ast.ReturnStatement{Token: n.Token, Argument: foldExpr(n.Argument)}
	case *ast.VariableDeclaration:
		decls := make([]*ast.VariableDeclarator, len(n.Declarations))
		for i, d := range n.Declarations {
			nd := &ast.VariableDeclarator{Target: d.Target}
			if d.Init != nil {
				nd.Init = foldExpr(d.Init)
			}
			decls[i] = nd
		}
		return &ast.VariableDeclaration{Token: n.Token, Kind: n.Kind, Declarations: decls}
	case *ast.TryStatement:
		t := &ast.TryStatement{Token: n.Token, Block: foldStatement(n.Block).(*ast.BlockStatement)}
		if n.Catch != nil {
			t.Catch = &ast.CatchClause{Param: n.Catch.Param, Body: foldStatement(n.Catch.Body).(*ast.BlockStatement)}
		}
		if n.Finally != nil {
			t.Finally = foldStatement(n.Finally).(*ast.BlockStatement)
		}
		return t
	default:
		// Function/class declarations and everything else are left as-is;
		// their bodies are not folded (folding the whole program would
		// require a deep-copying visitor for every node kind, most of which
		// have no foldable subexpressions anyway).
		return s
	}
}

func foldExpr(e ast.Expression) ast.Expression {
	switch n := e.(type) {
	case *ast.InfixExpression:
		left := foldExpr(n.Left)
		right := foldExpr(n.Right)
		if lit, ok := tryFoldInfix(n.Operator, left, right); ok {
			return lit
		}
		return &ast.InfixExpression{Token: n.Token, Left: left, Operator: n.Operator, Right: right}
	case *ast.PrefixExpression:
		right := foldExpr(n.Right)
		if lit, ok := tryFoldPrefix(n.Operator, right); ok {
			return lit
		}
		return &ast.PrefixExpression{Token: n.Token, Operator: n.Operator, Right: right}
	case *ast.LogicalExpression:
		// Short-circuit operators are not folded, only their operands:
		// folding must not change whether the right side's
		// side effects run (§4.4 "never folds across a side-effecting
		// subexpression").
		return &ast.LogicalExpression{Token: n.Token, Left: foldExpr(n.Left), Operator: n.Operator, Right: foldExpr(n.Right)}
	case *ast.ConditionalExpression:
		return &ast.ConditionalExpression{Token: n.Token, Test: foldExpr(n.Test), Consequent: foldExpr(n.Consequent), Alternate: foldExpr(n.Alternate)}
	default:
		return e
	}
}

func asNumberLiteral(e ast.Expression) (float64, bool) {
	if n, ok := e.(*ast.NumberLiteral); ok {
		return n.Value, true
	}
	return 0, false
}

func asStringLiteral(e ast.Expression) (string, bool) {
	if s, ok := e.(*ast.StringLiteral); ok {
		return s.Value, true
	}
	return "", false
}

func asBoolLiteral(e ast.Expression) (bool, bool) {
	if b, ok := e.(*ast.BooleanLiteral); ok {
		return b.Value, true
	}
	return false, false
}

func tryFoldPrefix(op string, right ast.Expression) (ast.Expression, bool) {
	switch op {
	case "-":
		if n, ok := asNumberLiteral(right); ok {
			return &ast.NumberLiteral{Value: -n}, true
		}
	case "+":
		if n, ok := asNumberLiteral(right); ok {
			return &ast.NumberLiteral{Value: n}, true
		}
	case "!":
		if b, ok := asBoolLiteral(right); ok {
			return &ast.BooleanLiteral{Value: !b}, true
		}
	case "typeof":
		switch right.(type) {
		case *ast.NumberLiteral:
			return &ast.StringLiteral{Value: "number"}, true
		case *ast.StringLiteral:
			return &ast.StringLiteral{Value: "string"}, true
		case *ast.BooleanLiteral:
			return &ast.StringLiteral{Value: "boolean"}, true
		case *ast.UndefinedLiteral:
			return &ast.StringLiteral{Value: "undefined"}, true
		}
	case "~":
		if n, ok := asNumberLiteral(right); ok {
			return &ast.NumberLiteral{Value: float64(^toInt32(n))}, true
		}
	}
	return nil, false
}

func tryFoldInfix(op string, left, right ast.Expression) (ast.Expression, bool) {
	if ls, ok := asStringLiteral(left); ok {
		if rs, ok := asStringLiteral(right); ok && op == "+" {
			return &ast.StringLiteral{Value: ls + rs}, true
		}
	}
	ln, lok := asNumberLiteral(left)
	rn, rok := asNumberLiteral(right)
	if !lok || !rok {
		return nil, false
	}
	switch op {
	case "+":
		return &ast.NumberLiteral{Value: ln + rn}, true
	case "-":
		return &ast.NumberLiteral{Value: ln - rn}, true
	case "*":
		return &ast.NumberLiteral{Value: ln * rn}, true
	case "/":
		return &ast.NumberLiteral{Value: ln / rn}, true
	case "%":
		return &ast.NumberLiteral{Value: math.Mod(ln, rn)}, true
	case "**":
		return &ast.NumberLiteral{Value: math.Pow(ln, rn)}, true
	case "<":
		return &ast.BooleanLiteral{Value: ln < rn}, true
	case ">":
		return &ast.BooleanLiteral{Value: ln > rn}, true
	case "<=":
		return &ast.BooleanLiteral{Value: ln <= rn}, true
	case ">=":
		return &ast.BooleanLiteral{Value: ln >= rn}, true
	case "==", "===":
		return &ast.BooleanLiteral{Value: ln == rn}, true
	case "!=", "!==":
		return &ast.BooleanLiteral{Value: ln != rn}, true
	case "&":
		return &ast.NumberLiteral{Value: float64(toInt32(ln) & toInt32(rn))}, true
	case "|":
		return &ast.NumberLiteral{Value: float64(toInt32(ln) | toInt32(rn))}, true
	case "^":
		return &ast.NumberLiteral{Value: float64(toInt32(ln) ^ toInt32(rn))}, true
	case "<<":
		return &ast.NumberLiteral{Value: float64(toInt32(ln) << (toInt32(rn) & 31))}, true
	case ">>":
		return &ast.NumberLiteral{Value: float64(toInt32(ln) >> (toInt32(rn) & 31))}, true
	}
	return nil, false
}

func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(int64(f))
}
