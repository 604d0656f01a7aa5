package parser

import (
	"github.com/cwbudde/jsvm/internal/ast"
	"github.com/cwbudde/jsvm/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.VAR, token.LET, token.CONST:
		return p.parseVariableDeclaration()
	case token.FUNCTION:
		return p.parseFunctionDeclarationStatement()
	case token.ASYNC:
		if p.peekTokenIs(token.FUNCTION) {
			return p.parseFunctionDeclarationStatement()
		}
		return p.parseExpressionStatement()
	case token.CLASS:
		return p.parseClassBody(p.curToken)
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.SEMICOLON:
		return &ast.EmptyStatement{Token: p.curToken}
	case token.IDENT:
		if p.curToken.Literal == "__debug" && p.peekTokenIs(token.LPAREN) {
			return p.parseDebugStatement()
		}
		if p.peekTokenIs(token.COLON) {
			return p.parseLabeledStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	stmt := &ast.ExpressionStatement{Token: tok, Expression: expr}
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{Token: p.curToken, Kind: ast.VarKind(p.curToken.Literal)}
	for {
		p.nextToken()
		d := &ast.VariableDeclarator{Target: p.parseBindingTarget()}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			d.Init = p.parseExpression(ASSIGN)
		}
		decl.Declarations = append(decl.Declarations, d)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.skipSemicolon()
	return decl
}

func (p *Parser) parseFunctionDeclarationStatement() ast.Statement {
	isAsync := false
	if p.curTokenIs(token.ASYNC) {
		isAsync = true
		p.nextToken()
	}
	fn := &ast.FunctionDeclaration{Token: p.curToken, IsAsync: isAsync}
	if p.peekTokenIs(token.STAR) {
		p.nextToken()
		fn.IsGenerator = true
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fn.Name = &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	fn.Params = p.parseFunctionParams()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockStatement()
	return fn
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Test = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Consequent = p.parseStatement()
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.Alternate = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Test = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	stmt := &ast.DoWhileStatement{Token: p.curToken}
	p.nextToken()
	stmt.Body = p.parseStatement()
	if !p.expectPeek(token.WHILE) {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Test = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.skipSemicolon()
	return stmt
}

// parseForStatement disambiguates classic `for(;;)`, `for...in`, and
// `for...of` (including `for await...of`) by parsing the init clause first
// and checking what follows it.
func (p *Parser) parseForStatement() ast.Statement {
	tok := p.curToken
	isAwait := false
	if p.peekTokenIs(token.AWAIT) {
		p.nextToken()
		isAwait = true
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	var init ast.Node
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	} else {
		p.nextToken()
		if p.curTokenIs(token.VAR) || p.curTokenIs(token.LET) || p.curTokenIs(token.CONST) {
			kind := ast.VarKind(p.curToken.Literal)
			declTok := p.curToken
			p.nextToken()
			target := p.parseBindingTarget()
			if p.peekTokenIs(token.IN) {
				p.nextToken()
				return p.finishForIn(tok, &ast.VariableDeclaration{Token: declTok, Kind: kind,
					Declarations: []*ast.VariableDeclarator{{Target: target}}})
			}
			if p.peekTokenIs(token.OF) {
				p.nextToken()
				return p.finishForOf(tok, &ast.VariableDeclaration{Token: declTok, Kind: kind,
					Declarations: []*ast.VariableDeclarator{{Target: target}}}, isAwait)
			}
			d := &ast.VariableDeclarator{Target: target}
			if p.peekTokenIs(token.ASSIGN) {
				p.nextToken()
				p.nextToken()
				d.Init = p.parseExpression(ASSIGN)
			}
			decl := &ast.VariableDeclaration{Token: declTok, Kind: kind, Declarations: []*ast.VariableDeclarator{d}}
			for p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				d2 := &ast.VariableDeclarator{Target: p.parseBindingTarget()}
				if p.peekTokenIs(token.ASSIGN) {
					p.nextToken()
					p.nextToken()
					d2.Init = p.parseExpression(ASSIGN)
				}
				decl.Declarations = append(decl.Declarations, d2)
			}
			init = decl
		} else {
			expr := p.parseExpression(LOWEST)
			if p.peekTokenIs(token.IN) {
				p.nextToken()
				return p.finishForIn(tok, expr)
			}
			if p.peekTokenIs(token.OF) {
				p.nextToken()
				return p.finishForOf(tok, expr, isAwait)
			}
			init = expr
		}
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}

	stmt := &ast.ForStatement{Token: tok, Init: init}
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		stmt.Test = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		stmt.Update = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) finishForIn(tok token.Token, left ast.Node) ast.Statement {
	p.nextToken()
	right := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	return &ast.ForInStatement{Token: tok, Left: left, Right: right, Body: p.parseStatement()}
}

func (p *Parser) finishForOf(tok token.Token, left ast.Node, isAwait bool) ast.Statement {
	p.nextToken()
	right := p.parseExpression(ASSIGN)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	return &ast.ForOfStatement{Token: tok, Left: left, Right: right, Body: p.parseStatement(), Await: isAwait}
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	stmt := &ast.SwitchStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Discriminant = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		c := &ast.SwitchCase{}
		if p.curTokenIs(token.CASE) {
			p.nextToken()
			c.Test = p.parseExpression(LOWEST)
			if !p.expectPeek(token.COLON) {
				return nil
			}
		} else if p.curTokenIs(token.DEFAULT) {
			if !p.expectPeek(token.COLON) {
				return nil
			}
		} else {
			p.addError("expected case or default in switch body")
			return nil
		}
		p.nextToken()
		for !p.curTokenIs(token.CASE) && !p.curTokenIs(token.DEFAULT) && !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
			s := p.parseStatement()
			if s != nil {
				c.Consequent = append(c.Consequent, s)
			}
			p.nextToken()
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	return stmt
}

func (p *Parser) parseTryStatement() ast.Statement {
	stmt := &ast.TryStatement{Token: p.curToken}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Block = p.parseBlockStatement()
	if p.peekTokenIs(token.CATCH) {
		p.nextToken()
		clause := &ast.CatchClause{}
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			p.nextToken()
			clause.Param = p.parseBindingTarget()
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		clause.Body = p.parseBlockStatement()
		stmt.Catch = clause
	}
	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Finally = p.parseBlockStatement()
	}
	if stmt.Catch == nil && stmt.Finally == nil {
		p.addError("missing catch or finally after try block")
	}
	return stmt
}

func (p *Parser) parseThrowStatement() ast.Statement {
	stmt := &ast.ThrowStatement{Token: p.curToken}
	p.nextToken()
	stmt.Argument = p.parseExpression(LOWEST)
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) {
		p.skipSemicolon()
		return stmt
	}
	p.nextToken()
	stmt.Argument = p.parseExpression(LOWEST)
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseBreakStatement() ast.Statement {
	stmt := &ast.BreakStatement{Token: p.curToken}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		stmt.Label = p.curToken.Literal
	}
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseContinueStatement() ast.Statement {
	stmt := &ast.ContinueStatement{Token: p.curToken}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		stmt.Label = p.curToken.Literal
	}
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseLabeledStatement() ast.Statement {
	stmt := &ast.LabeledStatement{Token: p.curToken, Label: p.curToken.Literal}
	p.nextToken() // consume ':'
	p.nextToken()
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseDebugStatement() ast.Statement {
	stmt := &ast.DebugStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	stmt.Arguments = p.parseArgumentList(map[int]bool{})
	p.skipSemicolon()
	return stmt
}
