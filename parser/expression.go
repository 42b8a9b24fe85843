package parser

import (
	"strings"

	"github.com/amoghmargoor/aswa/ast"
	"github.com/amoghmargoor/aswa/token"
)

// binaryOperators maps infix tokens to their operators. IS is handled
// separately because of IS NOT.
var binaryOperators = map[token.Token]ast.BinaryOperator{
	token.OR:        ast.OpOr,
	token.AND:       ast.OpAnd,
	token.EQ:        ast.OpEquals,
	token.NEQ:       ast.OpNotEquals,
	token.LT:        ast.OpLess,
	token.LTE:       ast.OpLessEquals,
	token.GT:        ast.OpGreater,
	token.GTE:       ast.OpGreaterEquals,
	token.AMPERSAND: ast.OpBitwiseAnd,
	token.PIPE:      ast.OpBitwiseOr,
	token.LSHIFT:    ast.OpLeftShift,
	token.RSHIFT:    ast.OpRightShift,
	token.PLUS:      ast.OpAdd,
	token.MINUS:     ast.OpSubtract,
	token.CONCAT:    ast.OpConcat,
	token.ASTERISK:  ast.OpMultiply,
	token.SLASH:     ast.OpDivide,
	token.PERCENT:   ast.OpModulus,
}

var intervalFields = map[token.Token]ast.IntervalField{
	token.YEAR:   ast.Year,
	token.MONTH:  ast.Month,
	token.DAY:    ast.Day,
	token.HOUR:   ast.Hour,
	token.MINUTE: ast.Minute,
	token.SECOND: ast.Second,
}

func (p *Parser) precedence(tok token.Token) ast.Precedence {
	switch tok {
	case token.IS:
		return ast.COMPARE
	case token.LBRACKET, token.DOT:
		return ast.POSTFIX
	}
	if op, ok := binaryOperators[tok]; ok {
		return op.Precedence()
	}
	return ast.LOWEST
}

func (p *Parser) parseExpressionList() []ast.Expression {
	var exprs []ast.Expression
	for {
		expr := p.parseExpression(ast.LOWEST)
		if expr == nil {
			return nil
		}
		exprs = append(exprs, expr)
		if !p.currentIs(token.COMMA) {
			return exprs
		}
		p.nextToken()
	}
}

// parseExpression parses an expression whose operators all bind tighter
// than precedence.
func (p *Parser) parseExpression(precedence ast.Precedence) ast.Expression {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	grouped := p.currentIs(token.LPAREN)
	left := p.parsePrefixExpression()
	if left == nil {
		return nil
	}

	for precedence < p.precedence(p.current.Token) {
		left = p.parseInfixExpression(left, grouped)
		if left == nil {
			return nil
		}
		grouped = false
	}

	return left
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	switch p.current.Token {
	case token.NUMBER:
		return p.parseLiteral(ast.LiteralNumeric)
	case token.STRING:
		return p.parseLiteral(ast.LiteralString)
	case token.BLOB:
		return p.parseLiteral(ast.LiteralBlob)
	case token.NULL:
		p.nextToken()
		return &ast.Literal{Type: ast.LiteralNull}
	case token.TRUE, token.FALSE:
		lit := &ast.Literal{Type: ast.LiteralBoolean, Value: strings.ToLower(p.current.Value)}
		p.nextToken()
		return lit
	case token.CURRENT_DATE:
		p.nextToken()
		return &ast.Literal{Type: ast.LiteralCurrentDate}
	case token.CURRENT_TIME:
		p.nextToken()
		return &ast.Literal{Type: ast.LiteralCurrentTime}
	case token.CURRENT_TIMESTAMP:
		p.nextToken()
		return &ast.Literal{Type: ast.LiteralCurrentTimestamp}
	case token.PLUS:
		return p.parseUnaryExpression(ast.OpPositive)
	case token.MINUS:
		return p.parseUnaryExpression(ast.OpNegative)
	case token.TILDE:
		return p.parseUnaryExpression(ast.OpBitwiseNot)
	case token.NOT:
		return p.parseUnaryExpression(ast.OpNot)
	case token.LPAREN:
		return p.parseGroupedExpression()
	case token.LBRACKET:
		return p.parseArrayConstructor()
	case token.CASE:
		return p.parseCase()
	case token.CAST:
		return p.parseCast(false)
	}
	if isIdentifier(p.current.Token) {
		return p.parseIdentifierExpression()
	}
	p.unexpected("expression")
	return nil
}

func (p *Parser) parseLiteral(typ ast.LiteralType) ast.Expression {
	lit := &ast.Literal{Type: typ, Value: p.current.Value}
	p.nextToken()
	return lit
}

func (p *Parser) parseUnaryExpression(op ast.UnaryOperator) ast.Expression {
	p.nextToken()
	operand := p.parseExpression(op.Precedence())
	if operand == nil {
		return nil
	}
	return &ast.UnaryExpression{Operator: op, Operand: operand}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken() // skip (
	expr := p.parseExpression(ast.LOWEST)
	if expr == nil || !p.expect(token.RPAREN) {
		return nil
	}
	return expr
}

// parseIdentifierExpression handles everything that starts with a name:
// plain identifiers, function calls, typed literals and the constructs
// introduced by non-reserved keywords.
func (p *Parser) parseIdentifierExpression() ast.Expression {
	switch {
	case p.currentIs(token.ARRAY) && p.peekIs(token.LBRACKET):
		p.nextToken()
		return p.parseArrayConstructor()
	case p.currentIs(token.INTERVAL) && (p.peekIs(token.STRING) || p.peekIs(token.PLUS) || p.peekIs(token.MINUS)):
		return p.parseInterval()
	case p.currentIs(token.TRY_CAST) && p.peekIs(token.LPAREN):
		return p.parseCast(true)
	case p.peekIs(token.LPAREN):
		return p.parseFunctionCall()
	case p.peekIs(token.STRING):
		lit := &ast.TypedLiteral{Type: p.current.Value, Value: p.peek.Value}
		p.nextToken()
		p.nextToken()
		return lit
	}
	ident := &ast.Identifier{Name: p.current.Value, Quoted: p.current.Quoted}
	p.nextToken()
	return ident
}

func (p *Parser) parseFunctionCall() ast.Expression {
	fn := &ast.FunctionCall{Name: p.current.Value}
	p.nextToken() // skip name
	p.nextToken() // skip (

	switch {
	case p.currentIs(token.RPAREN):
		p.nextToken()
		return fn
	case p.currentIs(token.ASTERISK) && p.peekIs(token.RPAREN):
		fn.Args = []ast.Expression{&ast.Wildcard{}}
		p.nextToken()
		p.nextToken()
		return fn
	case p.currentIs(token.DISTINCT):
		fn.Distinct = true
		p.nextToken()
	}

	if fn.Args = p.parseExpressionList(); fn.Args == nil {
		return nil
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return fn
}

// parseArrayConstructor parses [a, b, ...]. The current token is [.
func (p *Parser) parseArrayConstructor() ast.Expression {
	p.nextToken() // skip [
	arr := &ast.ArrayConstructor{}
	if p.currentIs(token.RBRACKET) {
		p.nextToken()
		return arr
	}
	if arr.Elements = p.parseExpressionList(); arr.Elements == nil {
		return nil
	}
	if !p.expect(token.RBRACKET) {
		return nil
	}
	return arr
}

func (p *Parser) parseCast(safe bool) ast.Expression {
	p.nextToken() // skip CAST or TRY_CAST
	if !p.expect(token.LPAREN) {
		return nil
	}
	expr := p.parseExpression(ast.LOWEST)
	if expr == nil || !p.expect(token.AS) {
		return nil
	}
	typ := p.parseType()
	if typ == nil || !p.expect(token.RPAREN) {
		return nil
	}
	return &ast.Cast{Expression: expr, Type: typ, Safe: safe}
}

func (p *Parser) parseInterval() ast.Expression {
	p.nextToken() // skip INTERVAL
	iv := &ast.Interval{}
	switch p.current.Token {
	case token.PLUS:
		p.nextToken()
	case token.MINUS:
		iv.Negative = true
		p.nextToken()
	}
	if !p.currentIs(token.STRING) {
		p.unexpected("string")
		return nil
	}
	iv.Value = p.current.Value
	p.nextToken()

	var ok bool
	if iv.From, ok = p.parseIntervalField(); !ok {
		return nil
	}
	if p.currentIs(token.TO) {
		p.nextToken()
		if iv.To, ok = p.parseIntervalField(); !ok {
			return nil
		}
	}
	return iv
}

func (p *Parser) parseIntervalField() (ast.IntervalField, bool) {
	field, ok := intervalFields[p.current.Token]
	if !ok {
		p.unexpected("YEAR", "MONTH", "DAY", "HOUR", "MINUTE", "SECOND")
		return "", false
	}
	p.nextToken()
	return field, true
}

func (p *Parser) parseCase() ast.Expression {
	p.nextToken() // skip CASE
	c := &ast.Case{}

	// Simple CASE has an operand before the first WHEN
	if !p.currentIs(token.WHEN) {
		if c.Operand = p.parseExpression(ast.LOWEST); c.Operand == nil {
			return nil
		}
	}

	for p.currentIs(token.WHEN) {
		p.nextToken()
		cond := p.parseExpression(ast.LOWEST)
		if cond == nil || !p.expect(token.THEN) {
			return nil
		}
		result := p.parseExpression(ast.LOWEST)
		if result == nil {
			return nil
		}
		c.Whens = append(c.Whens, &ast.WhenClause{Condition: cond, Result: result})
	}
	if len(c.Whens) == 0 {
		p.unexpected("WHEN")
		return nil
	}

	if p.currentIs(token.ELSE) {
		p.nextToken()
		if c.Else = p.parseExpression(ast.LOWEST); c.Else == nil {
			return nil
		}
	}

	if !p.expect(token.END) {
		return nil
	}
	return c
}

// parseInfixExpression parses the operator at the current token with left
// as its left operand. grouped is set when left was written in
// parentheses.
func (p *Parser) parseInfixExpression(left ast.Expression, grouped bool) ast.Expression {
	switch p.current.Token {
	case token.LBRACKET, token.DOT:
		if !grouped && !ast.AcceptsPostfix(left) {
			p.unexpected()
			return nil
		}
		if p.currentIs(token.LBRACKET) {
			return p.parseSubscript(left)
		}
		return p.parseDereference(left)
	case token.IS:
		p.nextToken()
		op := ast.OpIs
		if p.currentIs(token.NOT) {
			op = ast.OpIsNot
			p.nextToken()
		}
		right := p.parseExpression(ast.COMPARE)
		if right == nil {
			return nil
		}
		return &ast.BinaryExpression{Left: left, Operator: op, Right: right}
	}

	op := binaryOperators[p.current.Token]
	p.nextToken()
	right := p.parseExpression(op.Precedence())
	if right == nil {
		return nil
	}
	return &ast.BinaryExpression{Left: left, Operator: op, Right: right}
}

func (p *Parser) parseSubscript(base ast.Expression) ast.Expression {
	p.nextToken() // skip [
	index := p.parseExpression(ast.LOWEST)
	if index == nil || !p.expect(token.RBRACKET) {
		return nil
	}
	return &ast.Subscript{Base: base, Index: index}
}

func (p *Parser) parseDereference(base ast.Expression) ast.Expression {
	p.nextToken() // skip .
	// Any keyword can name a field after a dot.
	if p.current.Token != token.IDENT && !p.current.Token.IsKeyword() {
		p.unexpected("identifier")
		return nil
	}
	field := p.current.Value
	p.nextToken()
	return &ast.Dereference{Base: base, Field: field}
}
