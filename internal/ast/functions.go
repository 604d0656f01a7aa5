package ast

import (
	"strings"

	"github.com/cwbudde/jsvm/internal/token"
)

// Param is one formal parameter: a plain Identifier, a destructuring
// Pattern, with an optional default and an optional rest marker.
type Param struct {
	Target  Expression // Identifier or Pattern
	Default Expression // nil if none
	Rest    bool
}

// FunctionDeclaration is `function name(...) { ... }`, `function* name(...)`,
// or `async function name(...)`. IsGenerator and IsAsync may both be true
// (`async function*` is accepted by the parser, but the tree interpreter's
// dispatch does not yet compose its two suspension goroutines — see
// DESIGN.md).
type FunctionDeclaration struct {
	Token       token.Token
	Name        *Identifier // nil for anonymous function expressions
	Params      []*Param
	Body        *BlockStatement
	IsGenerator bool
	IsAsync     bool
}

func (f *FunctionDeclaration) statementNode()       {}
func (f *FunctionDeclaration) expressionNode()      {}
func (f *FunctionDeclaration) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDeclaration) String() string {
	kw := "function"
	if f.IsAsync {
		kw = "async " + kw
	}
	if f.IsGenerator {
		kw += "*"
	}
	name := ""
	if f.Name != nil {
		name = f.Name.Name
	}
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Target.String()
	}
	return kw + " " + name + "(" + strings.Join(parts, ", ") + ") " + f.Body.String()
}
func (f *FunctionDeclaration) Pos() token.Position { return f.Token.Pos }

// ArrowFunctionExpression is `(params) => body`. Arrow functions never bind
// their own `this`/`arguments`; a reference inside one resolves against the
// nearest enclosing non-arrow function frame (§4.2).
type ArrowFunctionExpression struct {
	Token      token.Token
	Params     []*Param
	Body       Node // *BlockStatement, or an Expression for concise bodies
	IsAsync    bool
	ExprBody   bool // true when Body is a bare Expression
}

func (a *ArrowFunctionExpression) expressionNode()      {}
func (a *ArrowFunctionExpression) TokenLiteral() string { return a.Token.Literal }
func (a *ArrowFunctionExpression) String() string {
	parts := make([]string, len(a.Params))
	for i, p := range a.Params {
		parts[i] = p.Target.String()
	}
	kw := ""
	if a.IsAsync {
		kw = "async "
	}
	return kw + "(" + strings.Join(parts, ", ") + ") => " + a.Body.String()
}
func (a *ArrowFunctionExpression) Pos() token.Position { return a.Token.Pos }

// YieldExpression is `yield expr` or `yield* expr` inside a generator body.
// Delegate marks `yield*` (§4.4, §4.6).
type YieldExpression struct {
	Token     token.Token
	Argument  Expression // nil for bare `yield`
	Delegate  bool
}

func (y *YieldExpression) expressionNode()      {}
func (y *YieldExpression) TokenLiteral() string { return y.Token.Literal }
func (y *YieldExpression) String() string {
	kw := "yield"
	if y.Delegate {
		kw = "yield*"
	}
	if y.Argument != nil {
		return kw + " " + y.Argument.String()
	}
	return kw
}
func (y *YieldExpression) Pos() token.Position { return y.Token.Pos }

// AwaitExpression is `await expr` inside an async function body. The tree
// interpreter evaluates it by parking the body's goroutine in
// async.Awaiter.Await until the awaited value settles; the function is not
// split into CPS segments.
type AwaitExpression struct {
	Token    token.Token
	Argument Expression
}

func (a *AwaitExpression) expressionNode()      {}
func (a *AwaitExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AwaitExpression) String() string        { return "await " + a.Argument.String() }
func (a *AwaitExpression) Pos() token.Position   { return a.Token.Pos }

// SpreadElement wraps `...expr` in call arguments and array literals; the
// tree interpreter iterates it via the `@@iterator` protocol at the call
// site rather than representing it as a standalone expression kind.
type SpreadElement struct {
	Token    token.Token
	Argument Expression
}

func (s *SpreadElement) expressionNode()      {}
func (s *SpreadElement) TokenLiteral() string { return s.Token.Literal }
func (s *SpreadElement) String() string        { return "..." + s.Argument.String() }
func (s *SpreadElement) Pos() token.Position   { return s.Token.Pos }
