// Package ast defines the abstract syntax tree produced by the parser.
//
// The tree is immutable once built. Every node carries a source-range
// origin so later passes (constant folding, validation) can chain
// diagnostics back to the original text. There is no generator-lowering or
// CPS pass: generators and async functions run on the tree directly. No node type exists here without a corresponding
// construct named in the language surface this engine implements.
package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/jsvm/internal/token"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without itself being a value.
type Statement interface {
	Node
	statementNode()
}

// Program is the root of every parsed source file.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// Identifier references a binding by name.
type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Name }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }

// NumberLiteral is a numeric literal (IEEE-754 double at runtime).
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) String() string       { return n.Token.Literal }
func (n *NumberLiteral) Pos() token.Position  { return n.Token.Pos }

// StringLiteral is a single/double-quoted string literal.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) String() string       { return "\"" + s.Value + "\"" }
func (s *StringLiteral) Pos() token.Position  { return s.Token.Pos }

// TemplateLiteral is a backtick string with interpolated expressions.
// Quasis has len(Expressions)+1 entries: the literal text before each
// expression and the trailing literal text after the last one.
type TemplateLiteral struct {
	Token       token.Token
	Quasis      []string
	Expressions []Expression
}

func (t *TemplateLiteral) expressionNode()      {}
func (t *TemplateLiteral) TokenLiteral() string { return t.Token.Literal }
func (t *TemplateLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("`")
	for i, q := range t.Quasis {
		out.WriteString(q)
		if i < len(t.Expressions) {
			out.WriteString("${")
			out.WriteString(t.Expressions[i].String())
			out.WriteString("}")
		}
	}
	out.WriteString("`")
	return out.String()
}
func (t *TemplateLiteral) Pos() token.Position { return t.Token.Pos }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string       { return b.Token.Literal }
func (b *BooleanLiteral) Pos() token.Position  { return b.Token.Pos }

// NullLiteral is `null`.
type NullLiteral struct{ Token token.Token }

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) String() string       { return "null" }
func (n *NullLiteral) Pos() token.Position  { return n.Token.Pos }

// UndefinedLiteral is `undefined`.
type UndefinedLiteral struct{ Token token.Token }

func (u *UndefinedLiteral) expressionNode()      {}
func (u *UndefinedLiteral) TokenLiteral() string { return u.Token.Literal }
func (u *UndefinedLiteral) String() string       { return "undefined" }
func (u *UndefinedLiteral) Pos() token.Position  { return u.Token.Pos }

// RegexLiteral is a `/pattern/flags` literal.
type RegexLiteral struct {
	Token   token.Token
	Pattern string
	Flags   string
}

func (r *RegexLiteral) expressionNode()      {}
func (r *RegexLiteral) TokenLiteral() string { return r.Token.Literal }
func (r *RegexLiteral) String() string       { return "/" + r.Pattern + "/" + r.Flags }
func (r *RegexLiteral) Pos() token.Position  { return r.Token.Pos }

// ArrayLiteral is `[a, b, ...rest]`.
type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression // a nil entry represents an elision (sparse slot)
	Spreads  map[int]bool // index -> element is a `...expr` spread
}

func (a *ArrayLiteral) expressionNode()      {}
func (a *ArrayLiteral) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e == nil {
			parts[i] = ""
			continue
		}
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *ArrayLiteral) Pos() token.Position { return a.Token.Pos }

// ObjectProperty is one `key: value`, shorthand, computed, spread, or method
// entry of an ObjectLiteral.
type ObjectProperty struct {
	Key       Expression // Identifier, StringLiteral, NumberLiteral, or computed Expression
	Value     Expression
	Computed  bool
	Shorthand bool
	Spread    bool
	Method    bool
	Kind      string // "init", "get", "set"
}

// ObjectLiteral is `{ ... }`.
type ObjectLiteral struct {
	Token      token.Token
	Properties []*ObjectProperty
}

func (o *ObjectLiteral) expressionNode()      {}
func (o *ObjectLiteral) TokenLiteral() string { return o.Token.Literal }
func (o *ObjectLiteral) String() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		if p.Spread {
			parts[i] = "..." + p.Value.String()
			continue
		}
		parts[i] = p.Key.String() + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (o *ObjectLiteral) Pos() token.Position { return o.Token.Pos }

// PrefixExpression is a unary prefix operator: `!x`, `-x`, `typeof x`, `++x`, etc.
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (p *PrefixExpression) expressionNode()      {}
func (p *PrefixExpression) TokenLiteral() string { return p.Token.Literal }
func (p *PrefixExpression) String() string       { return "(" + p.Operator + p.Right.String() + ")" }
func (p *PrefixExpression) Pos() token.Position  { return p.Token.Pos }

// PostfixExpression is `x++` or `x--`.
type PostfixExpression struct {
	Token    token.Token
	Operator string
	Left     Expression
}

func (p *PostfixExpression) expressionNode()      {}
func (p *PostfixExpression) TokenLiteral() string { return p.Token.Literal }
func (p *PostfixExpression) String() string       { return "(" + p.Left.String() + p.Operator + ")" }
func (p *PostfixExpression) Pos() token.Position  { return p.Token.Pos }

// InfixExpression is a binary operator expression.
type InfixExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (i *InfixExpression) expressionNode()      {}
func (i *InfixExpression) TokenLiteral() string { return i.Token.Literal }
func (i *InfixExpression) String() string {
	return "(" + i.Left.String() + " " + i.Operator + " " + i.Right.String() + ")"
}
func (i *InfixExpression) Pos() token.Position { return i.Token.Pos }

// LogicalExpression is `&&`, `||`, or `??` — distinguished from InfixExpression
// because it short-circuits and must not evaluate Right eagerly.
type LogicalExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (l *LogicalExpression) expressionNode()      {}
func (l *LogicalExpression) TokenLiteral() string { return l.Token.Literal }
func (l *LogicalExpression) String() string {
	return "(" + l.Left.String() + " " + l.Operator + " " + l.Right.String() + ")"
}
func (l *LogicalExpression) Pos() token.Position { return l.Token.Pos }

// AssignmentExpression is `=` or a compound assignment (`+=`, `&&=`, ...).
type AssignmentExpression struct {
	Token    token.Token
	Target   Expression // Identifier, MemberExpression, or a destructuring Pattern
	Operator string
	Value    Expression
}

func (a *AssignmentExpression) expressionNode()      {}
func (a *AssignmentExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AssignmentExpression) String() string {
	return "(" + a.Target.String() + " " + a.Operator + " " + a.Value.String() + ")"
}
func (a *AssignmentExpression) Pos() token.Position { return a.Token.Pos }

// ConditionalExpression is `test ? consequent : alternate`.
type ConditionalExpression struct {
	Token      token.Token
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (c *ConditionalExpression) expressionNode()      {}
func (c *ConditionalExpression) TokenLiteral() string { return c.Token.Literal }
func (c *ConditionalExpression) String() string {
	return "(" + c.Test.String() + " ? " + c.Consequent.String() + " : " + c.Alternate.String() + ")"
}
func (c *ConditionalExpression) Pos() token.Position { return c.Token.Pos }

// MemberExpression is `obj.prop`, `obj[expr]`, `obj?.prop`.
type MemberExpression struct {
	Token    token.Token
	Object   Expression
	Property Expression // Identifier for dot access, any Expression for computed
	Computed bool
	Optional bool // `?.`
}

func (m *MemberExpression) expressionNode()      {}
func (m *MemberExpression) TokenLiteral() string { return m.Token.Literal }
func (m *MemberExpression) String() string {
	if m.Computed {
		return m.Object.String() + "[" + m.Property.String() + "]"
	}
	return m.Object.String() + "." + m.Property.String()
}
func (m *MemberExpression) Pos() token.Position { return m.Token.Pos }

// CallExpression is `callee(args)`.
type CallExpression struct {
	Token     token.Token
	Callee    Expression
	Arguments []Expression
	Spreads   map[int]bool
	Optional  bool // `callee?.(args)`
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) String() string {
	parts := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}
func (c *CallExpression) Pos() token.Position { return c.Token.Pos }

// NewExpression is `new Callee(args)`.
type NewExpression struct {
	Token     token.Token
	Callee    Expression
	Arguments []Expression
}

func (n *NewExpression) expressionNode()      {}
func (n *NewExpression) TokenLiteral() string { return n.Token.Literal }
func (n *NewExpression) String() string {
	parts := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		parts[i] = a.String()
	}
	return "new " + n.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}
func (n *NewExpression) Pos() token.Position { return n.Token.Pos }

// ThisExpression is `this`.
type ThisExpression struct{ Token token.Token }

func (t *ThisExpression) expressionNode()      {}
func (t *ThisExpression) TokenLiteral() string { return t.Token.Literal }
func (t *ThisExpression) String() string       { return "this" }
func (t *ThisExpression) Pos() token.Position  { return t.Token.Pos }

// SuperExpression is the bare `super` reference used in `super(...)` calls
// and `super.member` lookups inside a derived class's methods.
type SuperExpression struct{ Token token.Token }

func (s *SuperExpression) expressionNode()      {}
func (s *SuperExpression) TokenLiteral() string { return s.Token.Literal }
func (s *SuperExpression) String() string       { return "super" }
func (s *SuperExpression) Pos() token.Position  { return s.Token.Pos }

// SequenceExpression is the comma operator `a, b, c`.
type SequenceExpression struct {
	Token       token.Token
	Expressions []Expression
}

func (s *SequenceExpression) expressionNode()      {}
func (s *SequenceExpression) TokenLiteral() string { return s.Token.Literal }
func (s *SequenceExpression) String() string {
	parts := make([]string, len(s.Expressions))
	for i, e := range s.Expressions {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (s *SequenceExpression) Pos() token.Position { return s.Token.Pos }
