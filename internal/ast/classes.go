// This file contains AST nodes for class declarations: methods, accessors,
// static members, and inheritance (§4.5).
package ast

import "github.com/cwbudde/jsvm/internal/token"

// MethodKind distinguishes ordinary methods from accessors and the
// constructor.
type MethodKind string

const (
	MethodKindMethod      MethodKind = "method"
	MethodKindGetter      MethodKind = "get"
	MethodKindSetter      MethodKind = "set"
	MethodKindConstructor MethodKind = "constructor"
)

// ClassMethod is one method/getter/setter/constructor member of a class
// body. Value is an ArrowFunctionExpression-free FunctionDeclaration used
// purely as a parameter+body container (its own Name is unused).
type ClassMethod struct {
	Token    token.Token
	Key      Expression // Identifier, or a computed Expression
	Computed bool
	Kind     MethodKind
	Static   bool
	Value    *FunctionDeclaration
}

func (c *ClassMethod) Pos() token.Position { return c.Token.Pos }

// ClassProperty is a `static` or instance field initializer:
// `name = expr;` inside a class body.
type ClassProperty struct {
	Token    token.Token
	Key      Expression
	Computed bool
	Static   bool
	Value    Expression // nil if uninitialized
}

func (c *ClassProperty) Pos() token.Position { return c.Token.Pos }

// ClassDeclaration is `class Name [extends Super] { ... }`. Extends sets
// the prototype link of both the prototype object and the constructor
// function itself (for static inheritance), per §4.5.
type ClassDeclaration struct {
	Token      token.Token
	Name       *Identifier // nil for anonymous class expressions
	SuperClass Expression  // nil if no `extends`
	Methods    []*ClassMethod
	Properties []*ClassProperty
}

func (c *ClassDeclaration) statementNode()       {}
func (c *ClassDeclaration) expressionNode()      {}
func (c *ClassDeclaration) TokenLiteral() string { return c.Token.Literal }
func (c *ClassDeclaration) String() string {
	name := ""
	if c.Name != nil {
		name = c.Name.Name
	}
	return "class " + name
}
func (c *ClassDeclaration) Pos() token.Position { return c.Token.Pos }
