package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/jsvm/internal/token"
)

// VarKind distinguishes `var`/`let`/`const` binding semantics (§3: var hoists
// to the function scope, let/const bind at the block and carry a TDZ).
type VarKind string

const (
	VarKindVar   VarKind = "var"
	VarKindLet   VarKind = "let"
	VarKindConst VarKind = "const"
)

// VariableDeclarator is one `name = init` (or destructuring pattern) entry of
// a VariableDeclaration.
type VariableDeclarator struct {
	Target Expression // Identifier or a destructuring Pattern
	Init   Expression // nil if uninitialized
}

// VariableDeclaration is `var|let|const a = 1, b;`.
type VariableDeclaration struct {
	Token        token.Token
	Kind         VarKind
	Declarations []*VariableDeclarator
}

func (v *VariableDeclaration) statementNode()      {}
func (v *VariableDeclaration) TokenLiteral() string { return v.Token.Literal }
func (v *VariableDeclaration) String() string {
	parts := make([]string, len(v.Declarations))
	for i, d := range v.Declarations {
		if d.Init != nil {
			parts[i] = d.Target.String() + " = " + d.Init.String()
		} else {
			parts[i] = d.Target.String()
		}
	}
	return string(v.Kind) + " " + strings.Join(parts, ", ") + ";"
}
func (v *VariableDeclaration) Pos() token.Position { return v.Token.Pos }

// ExpressionStatement wraps an expression evaluated for its side effects.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (e *ExpressionStatement) statementNode()      {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStatement) String() string {
	if e.Expression != nil {
		return e.Expression.String() + ";"
	}
	return ";"
}
func (e *ExpressionStatement) Pos() token.Position { return e.Token.Pos }

// BlockStatement is `{ ... }`. It introduces a nested environment only when
// it (directly) declares a let/const/class/function binding — the tree
// interpreter decides that at evaluation time by scanning Statements.
type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

func (b *BlockStatement) statementNode()      {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range b.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}
func (b *BlockStatement) Pos() token.Position { return b.Token.Pos }

// ReturnStatement is `return expr;`.
type ReturnStatement struct {
	Token       token.Token
	Argument    Expression // nil for bare `return;`
}

func (r *ReturnStatement) statementNode()      {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStatement) String() string {
	if r.Argument != nil {
		return "return " + r.Argument.String() + ";"
	}
	return "return;"
}
func (r *ReturnStatement) Pos() token.Position { return r.Token.Pos }

// ThrowStatement is `throw expr;`.
type ThrowStatement struct {
	Token    token.Token
	Argument Expression
}

func (t *ThrowStatement) statementNode()      {}
func (t *ThrowStatement) TokenLiteral() string { return t.Token.Literal }
func (t *ThrowStatement) String() string       { return "throw " + t.Argument.String() + ";" }
func (t *ThrowStatement) Pos() token.Position  { return t.Token.Pos }

// BreakStatement is `break;` or `break label;`.
type BreakStatement struct {
	Token token.Token
	Label string
}

func (b *BreakStatement) statementNode()      {}
func (b *BreakStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BreakStatement) String() string {
	if b.Label != "" {
		return "break " + b.Label + ";"
	}
	return "break;"
}
func (b *BreakStatement) Pos() token.Position { return b.Token.Pos }

// ContinueStatement is `continue;` or `continue label;`.
type ContinueStatement struct {
	Token token.Token
	Label string
}

func (c *ContinueStatement) statementNode()      {}
func (c *ContinueStatement) TokenLiteral() string { return c.Token.Literal }
func (c *ContinueStatement) String() string {
	if c.Label != "" {
		return "continue " + c.Label + ";"
	}
	return "continue;"
}
func (c *ContinueStatement) Pos() token.Position { return c.Token.Pos }

// LabeledStatement is `label: statement`, consumed by break/continue with a
// matching label.
type LabeledStatement struct {
	Token token.Token
	Label string
	Body  Statement
}

func (l *LabeledStatement) statementNode()      {}
func (l *LabeledStatement) TokenLiteral() string { return l.Token.Literal }
func (l *LabeledStatement) String() string       { return l.Label + ": " + l.Body.String() }
func (l *LabeledStatement) Pos() token.Position  { return l.Token.Pos }

// EmptyStatement is a bare `;`.
type EmptyStatement struct{ Token token.Token }

func (e *EmptyStatement) statementNode()      {}
func (e *EmptyStatement) TokenLiteral() string { return e.Token.Literal }
func (e *EmptyStatement) String() string       { return ";" }
func (e *EmptyStatement) Pos() token.Position  { return e.Token.Pos }

// DebugStatement is `__debug()` — a designated checkpoint that publishes a
// DebugMessage to the host's debug channel (§4.8, §6).
type DebugStatement struct {
	Token     token.Token
	Arguments []Expression
}

func (d *DebugStatement) statementNode()      {}
func (d *DebugStatement) TokenLiteral() string { return d.Token.Literal }
func (d *DebugStatement) String() string       { return "__debug();" }
func (d *DebugStatement) Pos() token.Position  { return d.Token.Pos }
