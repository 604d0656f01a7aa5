package parser

import (
	"strconv"
	"strings"

	"github.com/cwbudde/jsvm/internal/ast"
	"github.com/cwbudde/jsvm/internal/lexer"
	"github.com/cwbudde/jsvm/internal/token"
)

// parseExpression is the heart of the Pratt loop: parse one prefix operand,
// then keep absorbing infix/postfix operators while their precedence beats
// the caller's floor.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.addError("no prefix parse function for " + p.curToken.Type.String() + " found")
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	lit := strings.ReplaceAll(p.curToken.Literal, "_", "")
	var value float64
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		n, err := strconv.ParseUint(lit[2:], 16, 64)
		if err != nil {
			p.addError("invalid hex literal: " + p.curToken.Literal)
		}
		value = float64(n)
	} else {
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			p.addError("invalid number literal: " + p.curToken.Literal)
		}
		value = v
	}
	return &ast.NumberLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

// parseTemplateLiteral splits the lexer's single TEMPLATE_STRING token on its
// `${ }` markers into alternating literal/expression segments and parses each
// embedded expression with its own sub-parser.
func (p *Parser) parseTemplateLiteral() ast.Expression {
	tok := p.curToken
	raw := p.curToken.Literal

	tl := &ast.TemplateLiteral{Token: tok}
	var quasi strings.Builder
	i := 0
	for i < len(raw) {
		if i+1 < len(raw) && raw[i] == '$' && raw[i+1] == '{' {
			tl.Quasis = append(tl.Quasis, quasi.String())
			quasi.Reset()
			depth := 1
			j := i + 2
			start := j
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						continue
					}
				}
				j++
			}
			exprSrc := raw[start:j]
			sub := New(lexer.New(exprSrc))
			expr := sub.parseExpression(LOWEST)
			tl.Expressions = append(tl.Expressions, expr)
			i = j + 1
			continue
		}
		quasi.WriteByte(raw[i])
		i++
	}
	tl.Quasis = append(tl.Quasis, quasi.String())
	return tl
}

func (p *Parser) parseRegexLiteral() ast.Expression {
	lit := p.curToken.Literal
	last := strings.LastIndex(lit, "/")
	pattern := lit[1:last]
	flags := lit[last+1:]
	return &ast.RegexLiteral{Token: p.curToken, Pattern: pattern, Flags: flags}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNull() ast.Expression      { return &ast.NullLiteral{Token: p.curToken} }
func (p *Parser) parseUndefined() ast.Expression { return &ast.UndefinedLiteral{Token: p.curToken} }
func (p *Parser) parseThis() ast.Expression      { return &ast.ThisExpression{Token: p.curToken} }
func (p *Parser) parseSuper() ast.Expression     { return &ast.SuperExpression{Token: p.curToken} }

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parsePostfixExpression(left ast.Expression) ast.Expression {
	return &ast.PostfixExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	expr := &ast.LogicalExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseConditionalExpression(test ast.Expression) ast.Expression {
	expr := &ast.ConditionalExpression{Token: p.curToken, Test: test}
	p.nextToken()
	expr.Consequent = p.parseExpression(ASSIGN)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	expr.Alternate = p.parseExpression(ASSIGN)
	return expr
}

// parseAssignmentExpression handles `=` and every compound-assignment
// operator, right-associatively, and additionally converts a left-hand array
// or object literal into a destructuring pattern when the operator is `=`
// (spec §4.5: destructuring assignment reuses literal syntax).
func (p *Parser) parseAssignmentExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := p.curToken.Literal
	target := left
	if op == "=" {
		target = toPattern(left)
	}
	p.nextToken()
	value := p.parseExpression(ASSIGN - 1)
	return &ast.AssignmentExpression{Token: tok, Target: target, Operator: op, Value: value}
}

func (p *Parser) parseMemberExpression(obj ast.Expression) ast.Expression {
	tok := p.curToken
	optional := p.curTokenIs(token.QUESTION_DOT)
	if p.peekTokenIs(token.IDENT) || p.isPropertyKeyword(p.peekToken.Type) {
		p.nextToken()
	} else {
		p.peekError(token.IDENT)
		return nil
	}
	prop := &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	return &ast.MemberExpression{Token: tok, Object: obj, Property: prop, Optional: optional}
}

// isPropertyKeyword reports whether t is a reserved word allowed as a
// property name after `.` (e.g. `obj.default`, `obj.get`), matching real JS
// grammar.
func (p *Parser) isPropertyKeyword(t token.Type) bool {
	switch t {
	case token.GET, token.SET, token.STATIC, token.ASYNC, token.OF, token.DEFAULT,
		token.CLASS, token.NEW, token.DELETE, token.TYPEOF, token.IN, token.INSTANCEOF:
		return true
	}
	return false
}

func (p *Parser) parseIndexExpression(obj ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	index := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.MemberExpression{Token: tok, Object: obj, Property: index, Computed: true}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.curToken, Callee: callee, Spreads: map[int]bool{}}
	expr.Arguments = p.parseArgumentList(expr.Spreads)
	return expr
}

func (p *Parser) parseArgumentList(spreads map[int]bool) []ast.Expression {
	var args []ast.Expression
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	idx := 0
	for {
		if p.curTokenIs(token.DOTDOTDOT) {
			spreads[idx] = true
			p.nextToken()
		}
		args = append(args, p.parseExpression(ASSIGN))
		idx++
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return args
}

func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	callee := p.parseExpression(CALL)
	n := &ast.NewExpression{Token: tok}
	if call, ok := callee.(*ast.CallExpression); ok {
		n.Callee = call.Callee
		n.Arguments = call.Arguments
		return n
	}
	n.Callee = callee
	return n
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLiteral{Token: p.curToken, Spreads: map[int]bool{}}
	idx := 0
	for !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			arr.Elements = append(arr.Elements, nil)
			idx++
			continue
		}
		if p.curTokenIs(token.DOTDOTDOT) {
			arr.Spreads[idx] = true
			p.nextToken()
		}
		arr.Elements = append(arr.Elements, p.parseExpression(ASSIGN))
		idx++
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return arr
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	obj := &ast.ObjectLiteral{Token: p.curToken}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		prop := p.parseObjectProperty()
		obj.Properties = append(obj.Properties, prop)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return obj
}

func (p *Parser) parseObjectProperty() *ast.ObjectProperty {
	if p.curTokenIs(token.DOTDOTDOT) {
		p.nextToken()
		return &ast.ObjectProperty{Spread: true, Value: p.parseExpression(ASSIGN)}
	}

	kind := "init"
	if (p.curTokenIs(token.GET) || p.curTokenIs(token.SET)) && !p.peekTokenIs(token.COLON) &&
		!p.peekTokenIs(token.COMMA) && !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.LPAREN) {
		if p.curTokenIs(token.GET) {
			kind = "get"
		} else {
			kind = "set"
		}
		p.nextToken()
	}

	isAsync, isGenerator := false, false
	if p.curTokenIs(token.ASYNC) && !p.peekTokenIs(token.COLON) && !p.peekTokenIs(token.COMMA) && !p.peekTokenIs(token.RPAREN) {
		isAsync = true
		p.nextToken()
	}
	if p.curTokenIs(token.STAR) {
		isGenerator = true
		p.nextToken()
	}

	prop := &ast.ObjectProperty{Kind: kind}
	computed := false
	var key ast.Expression
	switch {
	case p.curTokenIs(token.LBRACKET):
		computed = true
		p.nextToken()
		key = p.parseExpression(ASSIGN)
		if !p.expectPeek(token.RBRACKET) {
			return prop
		}
	case p.curTokenIs(token.STRING):
		key = &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	case p.curTokenIs(token.NUMBER):
		key = p.parseNumberLiteral()
	default:
		key = &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	}
	prop.Key = key
	prop.Computed = computed

	switch {
	case p.peekTokenIs(token.LPAREN):
		// shorthand method: `name(...) { ... }`
		p.nextToken()
		fn := &ast.FunctionDeclaration{Token: p.curToken, IsAsync: isAsync, IsGenerator: isGenerator}
		fn.Params = p.parseFunctionParams()
		if !p.expectPeek(token.LBRACE) {
			return prop
		}
		fn.Body = p.parseBlockStatement()
		prop.Value = fn
		prop.Method = true
		if kind == "init" {
			prop.Kind = "init"
		}
	case p.peekTokenIs(token.COLON):
		p.nextToken()
		p.nextToken()
		prop.Value = p.parseExpression(ASSIGN)
	default:
		// shorthand `{ x }` or `{ x = default }` (only valid inside a
		// destructuring pattern; toPattern reinterprets it there)
		prop.Shorthand = true
		ident := &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			def := p.parseExpression(ASSIGN)
			prop.Value = &ast.AssignmentExpression{Token: p.curToken, Target: ident, Operator: "=", Value: def}
		} else {
			prop.Value = ident
		}
	}
	return prop
}

// parseGroupedOrArrow disambiguates `(expr)` from an arrow function's
// parameter list by first attempting to parse the parenthesised content as
// an expression list of candidate parameters, then checking for `=>`.
func (p *Parser) parseGroupedOrArrow() ast.Expression {
	startTok := p.curToken

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		if p.peekTokenIs(token.ARROW) {
			p.nextToken()
			return p.finishArrow(startTok, nil, false)
		}
		p.addError("unexpected empty parentheses")
		return nil
	}

	p.nextToken()
	expr := p.parseExpression(LOWEST)
	exprs := []ast.Expression{expr}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		exprs = append(exprs, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		params := make([]*ast.Param, len(exprs))
		for i, e := range exprs {
			params[i] = exprToParam(e)
		}
		return p.finishArrow(startTok, params, false)
	}

	if len(exprs) == 1 {
		return exprs[0]
	}
	return &ast.SequenceExpression{Token: startTok, Expressions: exprs}
}

func exprToParam(e ast.Expression) *ast.Param {
	if a, ok := e.(*ast.AssignmentExpression); ok && a.Operator == "=" {
		return &ast.Param{Target: a.Target, Default: a.Value}
	}
	if s, ok := e.(*ast.SpreadElement); ok {
		return &ast.Param{Target: s.Argument, Rest: true}
	}
	return &ast.Param{Target: toPattern(e)}
}

func (p *Parser) finishArrow(startTok token.Token, params []*ast.Param, isAsync bool) ast.Expression {
	arrow := &ast.ArrowFunctionExpression{Token: startTok, Params: params, IsAsync: isAsync}
	p.nextToken()
	if p.curTokenIs(token.LBRACE) {
		arrow.Body = p.parseBlockStatement()
		arrow.ExprBody = false
	} else {
		arrow.Body = p.parseExpression(ASSIGN)
		arrow.ExprBody = true
	}
	return arrow
}

// parseAsyncExpression handles `async function`, `async (params) => body`,
// and `async ident => body`.
func (p *Parser) parseAsyncExpression() ast.Expression {
	startTok := p.curToken
	if p.peekTokenIs(token.FUNCTION) {
		p.nextToken()
		fn := p.parseFunctionExpression().(*ast.FunctionDeclaration)
		fn.IsAsync = true
		return fn
	}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		grouped := p.parseGroupedOrArrow()
		if arrow, ok := grouped.(*ast.ArrowFunctionExpression); ok {
			arrow.IsAsync = true
			arrow.Token = startTok
			return arrow
		}
		return grouped
	}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		param := &ast.Param{Target: &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}}
		if !p.expectPeek(token.ARROW) {
			return nil
		}
		return p.finishArrow(startTok, []*ast.Param{param}, true)
	}
	return p.parseIdentifier()
}

func (p *Parser) parseFunctionExpression() ast.Expression {
	fn := &ast.FunctionDeclaration{Token: p.curToken}
	if p.peekTokenIs(token.STAR) {
		p.nextToken()
		fn.IsGenerator = true
	}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		fn.Name = &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	}
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

func (p *Parser) parseFunctionParams() []*ast.Param {
	var params []*ast.Param
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		param := &ast.Param{}
		if p.curTokenIs(token.DOTDOTDOT) {
			param.Rest = true
			p.nextToken()
		}
		param.Target = p.parseBindingTarget()
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			param.Default = p.parseExpression(ASSIGN)
		}
		params = append(params, param)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

// parseBindingTarget parses an Identifier or a destructuring pattern used as
// a binding target (function parameter, variable declarator, catch param).
func (p *Parser) parseBindingTarget() ast.Expression {
	switch p.curToken.Type {
	case token.LBRACKET:
		return p.parseArrayPattern()
	case token.LBRACE:
		return p.parseObjectPattern()
	default:
		return &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	}
}

func (p *Parser) parseArrayPattern() ast.Expression {
	pat := &ast.ArrayPattern{Token: p.curToken}
	for !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			pat.Elements = append(pat.Elements, nil)
			continue
		}
		el := &ast.ArrayPatternElement{}
		if p.curTokenIs(token.DOTDOTDOT) {
			el.Rest = true
			p.nextToken()
		}
		el.Target = p.parseBindingTarget()
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			el.Default = p.parseExpression(ASSIGN)
		}
		pat.Elements = append(pat.Elements, el)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return pat
}

func (p *Parser) parseObjectPattern() ast.Expression {
	pat := &ast.ObjectPattern{Token: p.curToken}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		prop := &ast.ObjectPatternProperty{}
		if p.curTokenIs(token.DOTDOTDOT) {
			prop.Rest = true
			p.nextToken()
			prop.Target = p.parseBindingTarget()
			pat.Properties = append(pat.Properties, prop)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
			} else {
				break
			}
			continue
		}
		if p.curTokenIs(token.LBRACKET) {
			prop.Computed = true
			p.nextToken()
			prop.Key = p.parseExpression(ASSIGN)
			if !p.expectPeek(token.RBRACKET) {
				return nil
			}
		} else {
			prop.Key = &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
		}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			prop.Target = p.parseBindingTarget()
		} else {
			prop.Target = prop.Key
		}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			prop.Default = p.parseExpression(ASSIGN)
		}
		pat.Properties = append(pat.Properties, prop)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return pat
}

// toPattern reinterprets an already-parsed ArrayLiteral/ObjectLiteral as a
// destructuring pattern — needed because `[a, b] = x` and `{a, b} = x` parse
// identically to literals until the `=` is seen.
func toPattern(e ast.Expression) ast.Expression {
	switch v := e.(type) {
	case *ast.ArrayLiteral:
		pat := &ast.ArrayPattern{Token: v.Token}
		for i, el := range v.Elements {
			if el == nil {
				pat.Elements = append(pat.Elements, nil)
				continue
			}
			item := &ast.ArrayPatternElement{Rest: v.Spreads[i]}
			if a, ok := el.(*ast.AssignmentExpression); ok && a.Operator == "=" {
				item.Target = toPattern(a.Target)
				item.Default = a.Value
			} else {
				item.Target = toPattern(el)
			}
			pat.Elements = append(pat.Elements, item)
		}
		return pat
	case *ast.ObjectLiteral:
		pat := &ast.ObjectPattern{Token: v.Token}
		for _, prop := range v.Properties {
			pp := &ast.ObjectPatternProperty{Key: prop.Key, Computed: prop.Computed, Rest: prop.Spread}
			if prop.Spread {
				pp.Target = toPattern(prop.Value)
				pat.Properties = append(pat.Properties, pp)
				continue
			}
			if a, ok := prop.Value.(*ast.AssignmentExpression); ok && a.Operator == "=" {
				pp.Target = toPattern(a.Target)
				pp.Default = a.Value
			} else {
				pp.Target = toPattern(prop.Value)
			}
			pat.Properties = append(pat.Properties, pp)
		}
		return pat
	default:
		return e
	}
}

func (p *Parser) parseYieldExpression() ast.Expression {
	tok := p.curToken
	y := &ast.YieldExpression{Token: tok}
	if p.peekTokenIs(token.STAR) {
		p.nextToken()
		y.Delegate = true
	}
	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RPAREN) ||
		p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.RBRACKET) ||
		p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.EOF) {
		return y
	}
	p.nextToken()
	y.Argument = p.parseExpression(ASSIGN)
	return y
}

func (p *Parser) parseAwaitExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.AwaitExpression{Token: tok, Argument: p.parseExpression(PREFIX)}
}

func (p *Parser) parseSpreadElement() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.SpreadElement{Token: tok, Argument: p.parseExpression(ASSIGN)}
}

func (p *Parser) parseClassExpression() ast.Expression {
	return p.parseClassBody(p.curToken)
}
