package ast

import (
	"strings"

	"github.com/cwbudde/jsvm/internal/token"
)

// IfStatement is `if (test) consequent [else alternate]`.
type IfStatement struct {
	Token      token.Token
	Test       Expression
	Consequent Statement
	Alternate  Statement // nil if no else
}

func (i *IfStatement) statementNode()      {}
func (i *IfStatement) TokenLiteral() string { return i.Token.Literal }
func (i *IfStatement) String() string {
	s := "if (" + i.Test.String() + ") " + i.Consequent.String()
	if i.Alternate != nil {
		s += " else " + i.Alternate.String()
	}
	return s
}
func (i *IfStatement) Pos() token.Position { return i.Token.Pos }

// WhileStatement is `while (test) body`.
type WhileStatement struct {
	Token token.Token
	Test  Expression
	Body  Statement
}

func (w *WhileStatement) statementNode()      {}
func (w *WhileStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WhileStatement) String() string       { return "while (" + w.Test.String() + ") " + w.Body.String() }
func (w *WhileStatement) Pos() token.Position  { return w.Token.Pos }

// DoWhileStatement is `do body while (test);`.
type DoWhileStatement struct {
	Token token.Token
	Body  Statement
	Test  Expression
}

func (d *DoWhileStatement) statementNode()      {}
func (d *DoWhileStatement) TokenLiteral() string { return d.Token.Literal }
func (d *DoWhileStatement) String() string {
	return "do " + d.Body.String() + " while (" + d.Test.String() + ");"
}
func (d *DoWhileStatement) Pos() token.Position { return d.Token.Pos }

// ForStatement is the classic C-style `for (init; test; update) body`. Any
// of Init/Test/Update may be nil.
type ForStatement struct {
	Token  token.Token
	Init   Node // VariableDeclaration or Expression, or nil
	Test   Expression
	Update Expression
	Body   Statement
}

func (f *ForStatement) statementNode()      {}
func (f *ForStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForStatement) String() string {
	parts := []string{"", "", ""}
	if f.Init != nil {
		parts[0] = f.Init.String()
	}
	if f.Test != nil {
		parts[1] = f.Test.String()
	}
	if f.Update != nil {
		parts[2] = f.Update.String()
	}
	return "for (" + strings.Join(parts, "; ") + ") " + f.Body.String()
}
func (f *ForStatement) Pos() token.Position { return f.Token.Pos }

// ForInStatement is `for (decl in expr) body`, iterating enumerable own+
// inherited string keys.
type ForInStatement struct {
	Token token.Token
	Left  Node // VariableDeclaration (single declarator) or Expression (assignment target)
	Right Expression
	Body  Statement
}

func (f *ForInStatement) statementNode()      {}
func (f *ForInStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForInStatement) String() string {
	return "for (" + f.Left.String() + " in " + f.Right.String() + ") " + f.Body.String()
}
func (f *ForInStatement) Pos() token.Position { return f.Token.Pos }

// ForOfStatement is `for (decl of expr) body`, driven by the `@@iterator`
// protocol. Await marks `for await (... of ...)`; the tree interpreter runs
// it directly, awaiting each iterator step through the enclosing async
// function's Awaiter (no CPS desugaring takes place).
type ForOfStatement struct {
	Token token.Token
	Left  Node
	Right Expression
	Body  Statement
	Await bool
}

func (f *ForOfStatement) statementNode()      {}
func (f *ForOfStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForOfStatement) String() string {
	kw := "for"
	if f.Await {
		kw = "for await"
	}
	return kw + " (" + f.Left.String() + " of " + f.Right.String() + ") " + f.Body.String()
}
func (f *ForOfStatement) Pos() token.Position { return f.Token.Pos }

// SwitchCase is one `case expr:` (or `default:` when Test is nil) arm of a
// SwitchStatement. Bodies fall through when there is no break, per §6.
type SwitchCase struct {
	Test       Expression // nil for default
	Consequent []Statement
}

// SwitchStatement is `switch (discriminant) { case ...: ... default: ... }`.
type SwitchStatement struct {
	Token         token.Token
	Discriminant  Expression
	Cases         []*SwitchCase
}

func (s *SwitchStatement) statementNode()      {}
func (s *SwitchStatement) TokenLiteral() string { return s.Token.Literal }
func (s *SwitchStatement) String() string {
	return "switch (" + s.Discriminant.String() + ") { ... }"
}
func (s *SwitchStatement) Pos() token.Position { return s.Token.Pos }

// CatchClause is the `catch (param) { body }` (param optional) part of a
// TryStatement.
type CatchClause struct {
	Param Expression // Identifier or destructuring Pattern, nil for parameterless catch
	Body  *BlockStatement
}

// TryStatement is `try { } [catch (e) { }] [finally { }]`. Catch and
// Finally are independently optional but at least one must be present;
// the parser enforces that.
type TryStatement struct {
	Token   token.Token
	Block   *BlockStatement
	Catch   *CatchClause // nil if no catch
	Finally *BlockStatement // nil if no finally
}

func (t *TryStatement) statementNode()      {}
func (t *TryStatement) TokenLiteral() string { return t.Token.Literal }
func (t *TryStatement) String() string {
	s := "try " + t.Block.String()
	if t.Catch != nil {
		s += " catch " + t.Catch.Body.String()
	}
	if t.Finally != nil {
		s += " finally " + t.Finally.String()
	}
	return s
}
func (t *TryStatement) Pos() token.Position { return t.Token.Pos }
