// Package parser implements a Pratt (precedence-climbing) recursive-descent
// parser for the supported ECMAScript subset.
//
// Key patterns, carried over from the teacher interpreter's parser:
//   - curToken/peekToken two-token lookahead with nextToken() to advance
//   - prefix/infix parse function tables keyed by token type, dispatched by
//     precedence (Pratt parsing)
//   - errors are collected rather than panicking; Errors() returns them all
//     at the end so a host can report every syntax problem in one pass
package parser

import (
	"fmt"

	"github.com/cwbudde/jsvm/internal/ast"
	"github.com/cwbudde/jsvm/internal/lexer"
	"github.com/cwbudde/jsvm/internal/token"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= ...
	CONDITIONAL // ?:
	COALESCE    // ??
	LOGOR       // ||
	LOGAND      // &&
	BITOR       // |
	BITXOR      // ^
	BITAND      // &
	EQUALS      // == != === !==
	LESSGREATER // < > <= >= instanceof in
	SHIFT       // << >> >>>
	SUM         // + -
	PRODUCT     // * / %
	EXPONENT    // **
	PREFIX      // !x -x typeof x ++x
	POSTFIX     // x++ x--
	CALL        // f(x) obj.member obj[x]
)

var precedences = map[token.Type]int{
	token.ASSIGN: ASSIGN, token.PLUS_ASSIGN: ASSIGN, token.MINUS_ASSIGN: ASSIGN,
	token.STAR_ASSIGN: ASSIGN, token.SLASH_ASSIGN: ASSIGN, token.PERCENT_ASSIGN: ASSIGN,
	token.STARSTAR_ASSIGN: ASSIGN, token.AND_ASSIGN: ASSIGN, token.OR_ASSIGN: ASSIGN,
	token.XOR_ASSIGN: ASSIGN, token.SHL_ASSIGN: ASSIGN, token.SHR_ASSIGN: ASSIGN,
	token.SAR_ASSIGN: ASSIGN, token.LOGICAL_AND_ASSIGN: ASSIGN, token.LOGICAL_OR_ASSIGN: ASSIGN,
	token.QUESTION_QUESTION_ASSIGN: ASSIGN,
	token.QUESTION:                CONDITIONAL,
	token.QUESTION_QUESTION:       COALESCE,
	token.LOGICAL_OR:              LOGOR,
	token.LOGICAL_AND:             LOGAND,
	token.BIT_OR:                  BITOR,
	token.BIT_XOR:                 BITXOR,
	token.BIT_AND:                 BITAND,
	token.EQ:                      EQUALS,
	token.NOT_EQ:                  EQUALS,
	token.STRICT_EQ:               EQUALS,
	token.STRICT_NOT_EQ:           EQUALS,
	token.LT:                      LESSGREATER,
	token.GT:                      LESSGREATER,
	token.LT_EQ:                   LESSGREATER,
	token.GT_EQ:                   LESSGREATER,
	token.INSTANCEOF:              LESSGREATER,
	token.IN:                      LESSGREATER,
	token.SHL:                     SHIFT,
	token.SHR:                     SHIFT,
	token.SAR:                     SHIFT,
	token.PLUS:                    SUM,
	token.MINUS:                   SUM,
	token.STAR:                    PRODUCT,
	token.SLASH:                   PRODUCT,
	token.PERCENT:                 PRODUCT,
	token.STARSTAR:                EXPONENT,
	token.LPAREN:                  CALL,
	token.DOT:                     CALL,
	token.QUESTION_DOT:            CALL,
	token.LBRACKET:                CALL,
	token.INCREMENT:                POSTFIX,
	token.DECREMENT:                POSTFIX,
}

// Error describes a single parse error with its source origin.
type Error struct {
	Message string
	Pos     token.Position
}

func (e Error) Error() string { return e.Message }

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser is a hand-written Pratt parser over a Lexer's token stream.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []Error

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	// inGenerator/inAsync are never set or read: the parser accepts
	// `yield` and `await` wherever an expression may start, default-parameter
	// initializers included, and rejects neither at parse time.
	inGenerator bool
	inAsync     bool
}

// New creates a Parser over the given Lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{}
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TEMPLATE_STRING, p.parseTemplateLiteral)
	p.registerPrefix(token.REGEX, p.parseRegexLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.UNDEFINED, p.parseUndefined)
	p.registerPrefix(token.THIS, p.parseThis)
	p.registerPrefix(token.SUPER, p.parseSuper)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.PLUS, p.parsePrefixExpression)
	p.registerPrefix(token.BIT_NOT, p.parsePrefixExpression)
	p.registerPrefix(token.TYPEOF, p.parsePrefixExpression)
	p.registerPrefix(token.DELETE, p.parsePrefixExpression)
	p.registerPrefix(token.VOID, p.parsePrefixExpression)
	p.registerPrefix(token.INCREMENT, p.parsePrefixExpression)
	p.registerPrefix(token.DECREMENT, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedOrArrow)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(token.FUNCTION, p.parseFunctionExpression)
	p.registerPrefix(token.ASYNC, p.parseAsyncExpression)
	p.registerPrefix(token.CLASS, p.parseClassExpression)
	p.registerPrefix(token.NEW, p.parseNewExpression)
	p.registerPrefix(token.YIELD, p.parseYieldExpression)
	p.registerPrefix(token.AWAIT, p.parseAwaitExpression)
	p.registerPrefix(token.DOTDOTDOT, p.parseSpreadElement)

	p.infixParseFns = map[token.Type]infixParseFn{}
	for _, t := range []token.Type{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.STARSTAR,
		token.EQ, token.NOT_EQ, token.STRICT_EQ, token.STRICT_NOT_EQ,
		token.LT, token.GT, token.LT_EQ, token.GT_EQ,
		token.BIT_AND, token.BIT_OR, token.BIT_XOR, token.SHL, token.SHR, token.SAR,
		token.INSTANCEOF, token.IN,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}
	p.registerInfix(token.LOGICAL_AND, p.parseLogicalExpression)
	p.registerInfix(token.LOGICAL_OR, p.parseLogicalExpression)
	p.registerInfix(token.QUESTION_QUESTION, p.parseLogicalExpression)
	p.registerInfix(token.QUESTION, p.parseConditionalExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.DOT, p.parseMemberExpression)
	p.registerInfix(token.QUESTION_DOT, p.parseMemberExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.INCREMENT, p.parsePostfixExpression)
	p.registerInfix(token.DECREMENT, p.parsePostfixExpression)
	for _, t := range []token.Type{
		token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN,
		token.SLASH_ASSIGN, token.PERCENT_ASSIGN, token.STARSTAR_ASSIGN,
		token.AND_ASSIGN, token.OR_ASSIGN, token.XOR_ASSIGN,
		token.SHL_ASSIGN, token.SHR_ASSIGN, token.SAR_ASSIGN,
		token.LOGICAL_AND_ASSIGN, token.LOGICAL_OR_ASSIGN, token.QUESTION_QUESTION_ASSIGN,
	} {
		p.registerInfix(t, p.parseAssignmentExpression)
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.Type, fn infixParseFn)   { p.infixParseFns[t] = fn }

// Errors returns every parse error collected so far.
func (p *Parser) Errors() []Error { return p.errors }

// regexAllowed decides whether the lexer should treat an upcoming '/' as a
// regex literal: true whenever the previous token cannot end an expression
// (so we are in a position expecting an operand).
func (p *Parser) regexAllowed() bool {
	switch p.curToken.Type {
	case token.IDENT, token.NUMBER, token.STRING, token.RPAREN, token.RBRACKET,
		token.THIS, token.TRUE, token.FALSE, token.NULL, token.UNDEFINED, token.INCREMENT, token.DECREMENT:
		return false
	default:
		return true
	}
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken(p.regexAllowed())
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.errors = append(p.errors, Error{
		Message: fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type),
		Pos:     p.peekToken.Pos,
	})
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, Error{Message: msg, Pos: p.curToken.Pos})
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// skipSemicolon consumes an optional trailing ';' (automatic semicolon
// insertion is approximated: statements never require one).
func (p *Parser) skipSemicolon() {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// ParseProgram parses the whole token stream into a Program node.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}
