package lowering

import "github.com/cwbudde/jsvm/internal/ast"

// Diagnostic records why a construct could not be handled at lowering time
// (§4.4: "a diagnostic counter records the reason"). ValidateFunction
// rejects `async function*` (the two suspension mechanisms do not compose)
// and a `yield`/`await` in a body whose function kind cannot suspend that
// way. Parameter lists, default-parameter initializers included, are not
// checked.
type Diagnostic struct {
	Message string
	Pos     ast.Node
}

// ValidateFunction walks fn's body (shallowly — it does not descend into
// nested function literals) checking that `yield`/`yield*` only appears in
// a generator and `await` only in an async function, and that
// `async function*` was not declared. Neither the parser nor the engine
// calls it.
func ValidateFunction(isGenerator, isAsync bool, body ast.Node) []Diagnostic {
	var diags []Diagnostic
	if isGenerator && isAsync {
		diags = append(diags, Diagnostic{Message: "async generator functions are not supported: generator and async suspension do not compose in this engine", Pos: body})
	}
	v := &suspensionVisitor{isGenerator: isGenerator, isAsync: isAsync}
	v.visit(body)
	return append(diags, v.diags...)
}

type suspensionVisitor struct {
	isGenerator, isAsync bool
	diags                []Diagnostic
}

func (v *suspensionVisitor) visit(n ast.Node) {
	switch x := n.(type) {
	case nil:
		return
	case *ast.BlockStatement:
		for _, s := range x.Statements {
			v.visit(s)
		}
	case *ast.ExpressionStatement:
		v.visit(x.Expression)
	case *ast.IfStatement:
		v.visit(x.Test)
		v.visit(x.Consequent)
		v.visit(x.Alternate)
	case *ast.WhileStatement:
		v.visit(x.Test)
		v.visit(x.Body)
	case *ast.DoWhileStatement:
		v.visit(x.Body)
		v.visit(x.Test)
	case *ast.ForStatement:
		v.visit(x.Init)
		v.visit(x.Test)
		v.visit(x.Update)
		v.visit(x.Body)
	case *ast.ForInStatement:
		v.visit(x.Right)
		v.visit(x.Body)
	case *ast.ForOfStatement:
		v.visit(x.Right)
		v.visit(x.Body)
	case *ast.TryStatement:
		v.visit(x.Block)
		if x.Catch != nil {
			v.visit(x.Catch.Body)
		}
		v.visit(x.Finally)
	case *ast.SwitchStatement:
		v.visit(x.Discriminant)
		for _, c := range x.Cases {
			v.visit(c.Test)
			for _, s := range c.Consequent {
				v.visit(s)
			}
		}
	case *ast.ReturnStatement:
		v.visit(x.Argument)
	case *ast.ThrowStatement:
		v.visit(x.Argument)
	case *ast.LabeledStatement:
		v.visit(x.Body)
	case *ast.VariableDeclaration:
		for _, d := range x.Declarations {
			v.visit(d.Init)
		}
	case *ast.YieldExpression:
		if !v.isGenerator {
			v.diags = append(v.diags, Diagnostic{Message: "yield used outside a generator function", Pos: n})
		}
		v.visit(x.Argument)
	case *ast.AwaitExpression:
		if !v.isAsync {
			v.diags = append(v.diags, Diagnostic{Message: "await used outside an async function", Pos: n})
		}
		v.visit(x.Argument)
	case *ast.InfixExpression:
		v.visit(x.Left)
		v.visit(x.Right)
	case *ast.LogicalExpression:
		v.visit(x.Left)
		v.visit(x.Right)
	case *ast.PrefixExpression:
		v.visit(x.Right)
	case *ast.PostfixExpression:
		v.visit(x.Left)
	case *ast.ConditionalExpression:
		v.visit(x.Test)
		v.visit(x.Consequent)
		v.visit(x.Alternate)
	case *ast.AssignmentExpression:
		v.visit(x.Value)
	case *ast.CallExpression:
		v.visit(x.Callee)
		for _, a := range x.Arguments {
			v.visit(a)
		}
	case *ast.MemberExpression:
		v.visit(x.Object)
		if x.Computed {
			v.visit(x.Property)
		}
	case *ast.NewExpression:
		v.visit(x.Callee)
		for _, a := range x.Arguments {
			v.visit(a)
		}
	case *ast.SequenceExpression:
		for _, e := range x.Expressions {
			v.visit(e)
		}
	case *ast.ArrayLiteral:
		for _, e := range x.Elements {
			v.visit(e)
		}
	case *ast.ObjectLiteral:
		for _, p := range x.Properties {
			v.visit(p.Value)
		}
	case *ast.TemplateLiteral:
		for _, e := range x.Expressions {
			v.visit(e)
		}
	case *ast.SpreadElement:
		v.visit(x.Argument)
	default:
		// Function/arrow/class literals establish their own suspendable
		// context and are not visited here; do not descend (a nested
		// `function*` may freely contain `yield`).
	}
}
