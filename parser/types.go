package parser

import (
	"github.com/amoghmargoor/aswa/ast"
	"github.com/amoghmargoor/aswa/lexer"
	"github.com/amoghmargoor/aswa/token"
)

// parseType parses a data type, including any number of trailing ARRAY
// suffixes: bigint ARRAY is array<bigint>.
func (p *Parser) parseType() ast.Type {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	t := p.parseSimpleType()
	if t == nil {
		return nil
	}
	for p.currentIs(token.ARRAY) {
		p.nextToken()
		t = &ast.ArrayType{Element: t}
	}
	return t
}

func (p *Parser) parseSimpleType() ast.Type {
	switch {
	case p.currentIs(token.ARRAY) && p.peekIs(token.LT):
		p.nextToken()
		p.nextToken()
		elem := p.parseType()
		if elem == nil || !p.expectCloseAngle() {
			return nil
		}
		return &ast.ArrayType{Element: elem}

	case p.currentIs(token.MAP) && p.peekIs(token.LT):
		p.nextToken()
		p.nextToken()
		key := p.parseType()
		if key == nil || !p.expect(token.COMMA) {
			return nil
		}
		value := p.parseType()
		if value == nil || !p.expectCloseAngle() {
			return nil
		}
		return &ast.MapType{Key: key, Value: value}

	case p.currentIs(token.ROW) && p.peekIs(token.LPAREN):
		return p.parseRowType()

	case p.currentIs(token.DOUBLE) && p.peekIs(token.PRECISION):
		p.nextToken()
		p.nextToken()
		return p.parseTypeParameters(&ast.BaseType{Kind: ast.DoublePrecision})

	case (p.currentIs(token.TIME) || p.currentIs(token.TIMESTAMP)) && p.peekIs(token.WITH):
		kind := ast.TimeWithTimeZone
		if p.currentIs(token.TIMESTAMP) {
			kind = ast.TimestampWithTimeZone
		}
		p.nextToken()
		p.nextToken()
		if !p.expect(token.TIME) || !p.expect(token.ZONE) {
			return nil
		}
		return p.parseTypeParameters(&ast.BaseType{Kind: kind})
	}

	name, ok := p.parseIdentifier()
	if !ok {
		return nil
	}
	return p.parseTypeParameters(&ast.BaseType{Kind: ast.UserDefined, Name: name})
}

func (p *Parser) parseRowType() ast.Type {
	p.nextToken() // skip ROW
	p.nextToken() // skip (
	row := &ast.RowType{}
	for {
		name, ok := p.parseIdentifier()
		if !ok {
			return nil
		}
		typ := p.parseType()
		if typ == nil {
			return nil
		}
		row.Fields = append(row.Fields, &ast.RowField{Name: name, Type: typ})
		if !p.currentIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return row
}

// parseTypeParameters parses an optional (param, ...) list after a base
// type. A parameter is an integer or a type.
func (p *Parser) parseTypeParameters(t *ast.BaseType) ast.Type {
	if !p.currentIs(token.LPAREN) {
		return t
	}
	p.nextToken()
	for {
		if p.currentIs(token.NUMBER) {
			t.Params = append(t.Params, &ast.IntegerParameter{Value: p.current.Value})
			p.nextToken()
		} else {
			param := p.parseType()
			if param == nil {
				return nil
			}
			t.Params = append(t.Params, param)
		}
		if !p.currentIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return t
}

// expectCloseAngle consumes the > that closes a type argument list. A >>
// token closes two lists: the first > is consumed and the second is left
// as the current token.
func (p *Parser) expectCloseAngle() bool {
	switch p.current.Token {
	case token.GT:
		p.nextToken()
		return true
	case token.RSHIFT:
		pos := p.current.Pos
		pos.Offset++
		pos.Column++
		p.current = lexer.Item{Token: token.GT, Value: ">", Pos: pos, End: p.current.End}
		return true
	}
	p.unexpected(">")
	return false
}
