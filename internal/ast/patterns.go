package ast

import (
	"strings"

	"github.com/cwbudde/jsvm/internal/token"
)

// ArrayPatternElement is one slot of an ArrayPattern: a nested binding
// target with an optional default, or a rest element.
type ArrayPatternElement struct {
	Target  Expression // Identifier, ArrayPattern, or ObjectPattern; nil for an elision
	Default Expression
	Rest    bool
}

// ArrayPattern is `[a, b = 1, ...rest]` used as an assignment/binding target
// (§4.5 destructuring).
type ArrayPattern struct {
	Token    token.Token
	Elements []*ArrayPatternElement
}

func (a *ArrayPattern) expressionNode()      {}
func (a *ArrayPattern) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayPattern) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e == nil || e.Target == nil {
			continue
		}
		parts[i] = e.Target.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *ArrayPattern) Pos() token.Position { return a.Token.Pos }

// ObjectPatternProperty is one `key: target = default` entry of an
// ObjectPattern, or a rest property (`...rest`).
type ObjectPatternProperty struct {
	Key      Expression
	Computed bool
	Target   Expression // binding target (Identifier, ArrayPattern, ObjectPattern); nil for Rest
	Default  Expression
	Rest     bool
}

// ObjectPattern is `{a, b: c = 1, ...rest}` used as an assignment/binding
// target.
type ObjectPattern struct {
	Token      token.Token
	Properties []*ObjectPatternProperty
}

func (o *ObjectPattern) expressionNode()      {}
func (o *ObjectPattern) TokenLiteral() string { return o.Token.Literal }
func (o *ObjectPattern) String() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		if p.Rest {
			parts[i] = "...rest"
			continue
		}
		parts[i] = p.Key.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (o *ObjectPattern) Pos() token.Position { return o.Token.Pos }
