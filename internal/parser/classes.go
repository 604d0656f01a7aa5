package parser

import (
	"github.com/cwbudde/jsvm/internal/ast"
	"github.com/cwbudde/jsvm/internal/token"
)

// parseClassBody parses a class declaration or expression; classTok is the
// already-current `class` token.
func (p *Parser) parseClassBody(classTok token.Token) *ast.ClassDeclaration {
	decl := &ast.ClassDeclaration{Token: classTok}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		decl.Name = &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	}
	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		p.nextToken()
		decl.SuperClass = p.parseExpression(CALL)
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		p.parseClassMember(decl)
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseClassMember(decl *ast.ClassDeclaration) {
	tok := p.curToken
	static := false
	if p.curTokenIs(token.STATIC) && !p.peekTokenIs(token.LPAREN) && !p.peekTokenIs(token.ASSIGN) {
		static = true
		p.nextToken()
	}

	kind := ast.MethodKindMethod
	if (p.curTokenIs(token.GET) || p.curTokenIs(token.SET)) && !p.peekTokenIs(token.LPAREN) && !p.peekTokenIs(token.ASSIGN) {
		if p.curTokenIs(token.GET) {
			kind = ast.MethodKindGetter
		} else {
			kind = ast.MethodKindSetter
		}
		p.nextToken()
	}

	isAsync := false
	if p.curTokenIs(token.ASYNC) && !p.peekTokenIs(token.LPAREN) && !p.peekTokenIs(token.ASSIGN) {
		isAsync = true
		p.nextToken()
	}
	isGenerator := false
	if p.curTokenIs(token.STAR) {
		isGenerator = true
		p.nextToken()
	}

	computed := false
	var key ast.Expression
	switch {
	case p.curTokenIs(token.LBRACKET):
		computed = true
		p.nextToken()
		key = p.parseExpression(ASSIGN)
		if !p.expectPeek(token.RBRACKET) {
			return
		}
	case p.curTokenIs(token.STRING):
		key = &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	default:
		key = &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(ASSIGN)
		decl.Properties = append(decl.Properties, &ast.ClassProperty{
			Token: tok, Key: key, Computed: computed, Static: static, Value: value,
		})
		p.skipSemicolon()
		return
	}
	if !p.peekTokenIs(token.LPAREN) {
		// field without initializer
		decl.Properties = append(decl.Properties, &ast.ClassProperty{
			Token: tok, Key: key, Computed: computed, Static: static,
		})
		p.skipSemicolon()
		return
	}

	p.nextToken()
	fn := &ast.FunctionDeclaration{Token: tok, IsAsync: isAsync, IsGenerator: isGenerator}
	fn.Params = p.parseFunctionParams()
	if !p.expectPeek(token.LBRACE) {
		return
	}
	fn.Body = p.parseBlockStatement()

	if kind == ast.MethodKindMethod {
		if ident, ok := key.(*ast.Identifier); ok && ident.Name == "constructor" && !static {
			kind = ast.MethodKindConstructor
		}
	}
	decl.Methods = append(decl.Methods, &ast.ClassMethod{
		Token: tok, Key: key, Computed: computed, Kind: kind, Static: static, Value: fn,
	})
}
