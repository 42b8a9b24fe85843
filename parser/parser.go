// Package parser implements a parser for the SQL dialect.
package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/amoghmargoor/aswa/ast"
	"github.com/amoghmargoor/aswa/lexer"
	"github.com/amoghmargoor/aswa/token"
)

// Parser parses SQL statements. A Parser is used for one input and is not
// safe for concurrent use; the package level functions create one per call.
type Parser struct {
	lexer   *lexer.Lexer
	current lexer.Item
	peek    lexer.Item
	lexErr  *lexer.Error
	err     *Error

	depth    int
	maxDepth int
	logger   *slog.Logger
}

// New creates a new Parser for input.
func New(input string, opts ...Option) *Parser {
	cfg := newConfig(opts)
	p := &Parser{
		lexer:    lexer.New(input, 0),
		maxDepth: cfg.maxDepth,
		logger:   cfg.logger,
	}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.current = p.peek
	for {
		item, err := p.lexer.NextToken()
		if err != nil {
			var lexErr *lexer.Error
			if p.lexErr == nil && errors.As(err, &lexErr) {
				p.lexErr = lexErr
			}
		}
		// Skip comments
		if item.Token != token.COMMENT {
			p.peek = item
			return
		}
	}
}

func (p *Parser) currentIs(t token.Token) bool {
	return p.current.Token == t
}

func (p *Parser) peekIs(t token.Token) bool {
	return p.peek.Token == t
}

func (p *Parser) expect(t token.Token) bool {
	if p.currentIs(t) {
		p.nextToken()
		return true
	}
	p.unexpected(t.String())
	return false
}

// unexpected records an error for the current token. Only the first error
// of a parse is kept.
func (p *Parser) unexpected(expected ...string) {
	if p.err != nil {
		return
	}
	it := p.current
	switch {
	case it.Token == token.ILLEGAL && p.lexErr != nil:
		p.err = &Error{
			Kind:  LexicalError,
			Pos:   p.lexErr.Pos,
			Found: it,
			Msg:   p.lexErr.Msg,
			Err:   p.lexErr,
		}
	case it.Token == token.EOF:
		p.err = &Error{
			Kind:     UnexpectedEndOfInput,
			Pos:      it.Pos,
			Found:    it,
			Expected: expected,
			Msg:      "unexpected end of input",
		}
	default:
		p.err = &Error{
			Kind:     UnexpectedToken,
			Pos:      it.Pos,
			Found:    it,
			Expected: expected,
			Msg:      "unexpected " + describe(it),
		}
	}
}

// enter increments the nesting depth. It records an error and returns
// false when the limit is exceeded.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.depth--
		if p.err == nil {
			p.err = &Error{
				Kind:  RecursionLimitExceeded,
				Pos:   p.current.Pos,
				Found: p.current,
				Msg:   fmt.Sprintf("maximum nesting depth %d exceeded", p.maxDepth),
			}
		}
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

// finish checks that the whole input was consumed, allowing one trailing
// semicolon.
func (p *Parser) finish(allowSemicolon bool) {
	if p.err != nil {
		return
	}
	if allowSemicolon && p.currentIs(token.SEMICOLON) {
		p.nextToken()
	}
	if !p.currentIs(token.EOF) {
		p.unexpected("end of input")
	}
}

func (p *Parser) failed(msg string) error {
	p.logger.Debug(msg,
		"kind", p.err.Kind.String(),
		"offset", p.err.Pos.Offset,
		"error", p.err.Error(),
	)
	return p.err
}

// ParseStatement parses exactly one statement, optionally followed by a
// semicolon.
func ParseStatement(sql string, opts ...Option) (ast.Statement, error) {
	p := New(sql, opts...)
	stmt := p.parseStatement()
	p.finish(true)
	if p.err != nil {
		return nil, p.failed("parse statement failed")
	}
	return stmt, nil
}

// ParseExpression parses exactly one expression.
func ParseExpression(sql string, opts ...Option) (ast.Expression, error) {
	p := New(sql, opts...)
	expr := p.parseExpression(ast.LOWEST)
	p.finish(false)
	if p.err != nil {
		return nil, p.failed("parse expression failed")
	}
	return expr, nil
}

// ParseType parses exactly one data type.
func ParseType(sql string, opts ...Option) (ast.Type, error) {
	p := New(sql, opts...)
	t := p.parseType()
	p.finish(false)
	if p.err != nil {
		return nil, p.failed("parse type failed")
	}
	return t, nil
}

// Parse parses semicolon separated SQL statements from the input.
func Parse(ctx context.Context, r io.Reader, opts ...Option) ([]ast.Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseString(ctx, string(data), opts...)
}

// ParseString parses semicolon separated SQL statements from a string.
func ParseString(ctx context.Context, sql string, opts ...Option) ([]ast.Statement, error) {
	p := New(sql, opts...)
	return p.ParseStatements(ctx)
}

// ParseStatements parses multiple SQL statements. The context is checked
// before each statement.
func (p *Parser) ParseStatements(ctx context.Context) ([]ast.Statement, error) {
	var statements []ast.Statement

	for {
		// Skip semicolons between statements
		for p.currentIs(token.SEMICOLON) {
			p.nextToken()
		}
		if p.currentIs(token.EOF) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		offset := p.current.Pos.Offset
		stmt := p.parseStatement()
		if p.err == nil && !p.currentIs(token.SEMICOLON) && !p.currentIs(token.EOF) {
			p.unexpected(";")
		}
		if p.err != nil {
			return nil, p.failed("parse statement failed")
		}
		p.logger.Debug("parsed statement",
			"index", len(statements),
			"kind", StatementKind(stmt),
			"offset", offset,
		)
		statements = append(statements, stmt)
	}

	return statements, nil
}

// StatementKind returns the node name of a statement, such as "Query".
func StatementKind(stmt ast.Statement) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", stmt), "*ast.")
}

func (p *Parser) parseStatement() ast.Statement {
	var stmt ast.Statement
	switch p.current.Token {
	case token.SELECT, token.WITH, token.LPAREN:
		stmt = p.parseQueryOrParenthesized()
	case token.USE:
		stmt = p.parseUse()
	case token.CREATE:
		stmt = p.parseCreate()
	case token.ALTER:
		stmt = p.parseAlter()
	case token.DROP:
		stmt = p.parseDrop()
	case token.INSERT:
		stmt = p.parseInsert()
	case token.DELETE:
		stmt = p.parseDelete()
	default:
		p.unexpected("SELECT", "WITH", "USE", "CREATE", "ALTER", "DROP", "INSERT", "DELETE")
	}
	// Typed nil pointers must not escape as non-nil statements.
	if p.err != nil {
		return nil
	}
	return stmt
}

// -----------------------------------------------------------------------------
// Names

// isIdentifier reports whether t can be used as an unquoted identifier.
func isIdentifier(t token.Token) bool {
	return t == token.IDENT || (t.IsKeyword() && !t.IsReserved())
}

// parseIdentifier consumes an identifier, or a non-reserved keyword used
// as one, and returns the name as written.
func (p *Parser) parseIdentifier() (string, bool) {
	if !isIdentifier(p.current.Token) {
		p.unexpected("identifier")
		return "", false
	}
	name := p.current.Value
	p.nextToken()
	return name, true
}

func (p *Parser) parseQualifiedName() *ast.QualifiedName {
	name, ok := p.parseIdentifier()
	if !ok {
		return nil
	}
	q := &ast.QualifiedName{Parts: []string{name}}
	for p.currentIs(token.DOT) {
		p.nextToken()
		name, ok := p.parseIdentifier()
		if !ok {
			return nil
		}
		q.Parts = append(q.Parts, name)
	}
	return q
}

// parseColumnList parses (a, b, ...). The current token is the opening
// parenthesis.
func (p *Parser) parseColumnList() ([]*ast.ColumnName, bool) {
	if !p.expect(token.LPAREN) {
		return nil, false
	}
	var cols []*ast.ColumnName
	for {
		name, ok := p.parseIdentifier()
		if !ok {
			return nil, false
		}
		cols = append(cols, &ast.ColumnName{Name: name})
		if !p.currentIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expect(token.RPAREN) {
		return nil, false
	}
	return cols, true
}

// parseIfNotExists consumes IF NOT EXISTS when present. IF on its own is
// left alone so that it can be read as a name.
func (p *Parser) parseIfNotExists() (bool, bool) {
	if !p.currentIs(token.IF) || !p.peekIs(token.NOT) {
		return false, true
	}
	p.nextToken()
	p.nextToken()
	return true, p.expect(token.EXISTS)
}

func (p *Parser) parseIfExists() bool {
	if p.currentIs(token.IF) && p.peekIs(token.EXISTS) {
		p.nextToken()
		p.nextToken()
		return true
	}
	return false
}

// -----------------------------------------------------------------------------
// Statements

func (p *Parser) parseUse() *ast.Use {
	p.nextToken() // skip USE
	name := p.parseQualifiedName()
	if name == nil {
		return nil
	}
	return &ast.Use{Schema: name}
}

func (p *Parser) parseCreate() ast.Statement {
	p.nextToken() // skip CREATE
	switch p.current.Token {
	case token.SCHEMA:
		p.nextToken()
		ifNotExists, ok := p.parseIfNotExists()
		if !ok {
			return nil
		}
		name := p.parseQualifiedName()
		if name == nil {
			return nil
		}
		return &ast.CreateSchema{Schema: name, IfNotExists: ifNotExists}
	case token.TABLE:
		p.nextToken()
		return p.parseCreateTable()
	}
	p.unexpected("SCHEMA", "TABLE")
	return nil
}

// parseCreateTable parses the rest of CREATE TABLE. A parenthesized list
// whose first element has a type is a table definition; otherwise it is
// the column list of CREATE TABLE AS. Mixing the two is an error at the
// first token that does not fit.
func (p *Parser) parseCreateTable() ast.Statement {
	ifNotExists, ok := p.parseIfNotExists()
	if !ok {
		return nil
	}
	name := p.parseQualifiedName()
	if name == nil {
		return nil
	}

	switch {
	case p.currentIs(token.AS):
		p.nextToken()
		query := p.parseQueryOrParenthesized()
		if query == nil {
			return nil
		}
		return &ast.CreateTableAsSelect{Table: name, IfNotExists: ifNotExists, Query: query}
	case !p.currentIs(token.LPAREN):
		p.unexpected("AS", "(")
		return nil
	}

	p.nextToken() // skip (
	first, ok := p.parseIdentifier()
	if !ok {
		return nil
	}

	// (a, b) AS query
	if p.currentIs(token.COMMA) || p.currentIs(token.RPAREN) {
		cols := []*ast.ColumnName{{Name: first}}
		for p.currentIs(token.COMMA) {
			p.nextToken()
			col, ok := p.parseIdentifier()
			if !ok {
				return nil
			}
			cols = append(cols, &ast.ColumnName{Name: col})
		}
		if !p.expect(token.RPAREN) || !p.expect(token.AS) {
			return nil
		}
		query := p.parseQueryOrParenthesized()
		if query == nil {
			return nil
		}
		return &ast.CreateTableAsSelect{Table: name, IfNotExists: ifNotExists, Columns: cols, Query: query}
	}

	// (a type, b type)
	var elements []*ast.ColumnDefinition
	col := first
	for {
		typ := p.parseType()
		if typ == nil {
			return nil
		}
		elements = append(elements, &ast.ColumnDefinition{Name: col, Type: typ})
		if !p.currentIs(token.COMMA) {
			break
		}
		p.nextToken()
		if col, ok = p.parseIdentifier(); !ok {
			return nil
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return &ast.CreateTable{Table: name, IfNotExists: ifNotExists, Elements: elements}
}

func (p *Parser) parseAlter() *ast.AlterSchema {
	p.nextToken() // skip ALTER
	if !p.expect(token.SCHEMA) {
		return nil
	}
	name := p.parseQualifiedName()
	if name == nil {
		return nil
	}
	if !p.expect(token.RENAME) || !p.expect(token.TO) {
		return nil
	}
	newName, ok := p.parseIdentifier()
	if !ok {
		return nil
	}
	return &ast.AlterSchema{Schema: name, NewName: newName}
}

func (p *Parser) parseDrop() ast.Statement {
	p.nextToken() // skip DROP
	switch p.current.Token {
	case token.SCHEMA:
		p.nextToken()
		ifExists := p.parseIfExists()
		name := p.parseQualifiedName()
		if name == nil {
			return nil
		}
		stmt := &ast.DropSchema{Schema: name, IfExists: ifExists}
		switch p.current.Token {
		case token.CASCADE:
			stmt.Behavior = ast.DropCascade
			p.nextToken()
		case token.RESTRICT:
			stmt.Behavior = ast.DropRestrict
			p.nextToken()
		}
		return stmt
	case token.TABLE:
		p.nextToken()
		ifExists := p.parseIfExists()
		name := p.parseQualifiedName()
		if name == nil {
			return nil
		}
		return &ast.DropTable{Table: name, IfExists: ifExists}
	}
	p.unexpected("SCHEMA", "TABLE")
	return nil
}

func (p *Parser) parseInsert() *ast.InsertInto {
	p.nextToken() // skip INSERT
	if !p.expect(token.INTO) {
		return nil
	}
	name := p.parseQualifiedName()
	if name == nil {
		return nil
	}
	stmt := &ast.InsertInto{Table: name}
	// A parenthesis followed by a name is a column list; followed by
	// SELECT, WITH or another parenthesis it starts the query.
	if p.currentIs(token.LPAREN) && isIdentifier(p.peek.Token) {
		cols, ok := p.parseColumnList()
		if !ok {
			return nil
		}
		stmt.Columns = cols
	}
	stmt.Query = p.parseQueryOrParenthesized()
	if stmt.Query == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseDelete() *ast.Delete {
	p.nextToken() // skip DELETE
	if !p.expect(token.FROM) {
		return nil
	}
	name := p.parseQualifiedName()
	if name == nil {
		return nil
	}
	stmt := &ast.Delete{Table: name}
	if p.currentIs(token.WHERE) {
		p.nextToken()
		stmt.Where = p.parseExpression(ast.LOWEST)
		if stmt.Where == nil {
			return nil
		}
	}
	return stmt
}

// -----------------------------------------------------------------------------
// Queries

// parseQueryOrParenthesized parses a query that may be wrapped in any
// number of parentheses.
func (p *Parser) parseQueryOrParenthesized() *ast.Query {
	if !p.currentIs(token.LPAREN) {
		return p.parseQuery()
	}
	if !p.enter() {
		return nil
	}
	defer p.leave()
	p.nextToken()
	q := p.parseQueryOrParenthesized()
	if q == nil || !p.expect(token.RPAREN) {
		return nil
	}
	return q
}

func (p *Parser) parseQuery() *ast.Query {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	q := &ast.Query{}
	if p.currentIs(token.WITH) {
		q.With = p.parseWith()
		if q.With == nil {
			return nil
		}
	}
	q.Body = p.parseQueryBody()
	if q.Body == nil {
		return nil
	}
	return q
}

func (p *Parser) parseWith() *ast.With {
	p.nextToken() // skip WITH
	with := &ast.With{}
	// RECURSIVE followed by AS or ( is the name of the first query.
	if p.currentIs(token.RECURSIVE) && !p.peekIs(token.AS) && !p.peekIs(token.LPAREN) {
		with.Recursive = true
		p.nextToken()
	}
	for {
		name, ok := p.parseIdentifier()
		if !ok {
			return nil
		}
		nq := &ast.NamedQuery{Name: name}
		if p.currentIs(token.LPAREN) {
			if nq.Columns, ok = p.parseColumnList(); !ok {
				return nil
			}
		}
		if !p.expect(token.AS) || !p.expect(token.LPAREN) {
			return nil
		}
		if nq.Query = p.parseQueryOrParenthesized(); nq.Query == nil {
			return nil
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		with.Queries = append(with.Queries, nq)
		if !p.currentIs(token.COMMA) {
			return with
		}
		p.nextToken()
	}
}

func (p *Parser) parseQueryBody() *ast.QueryBody {
	body := &ast.QueryBody{Term: p.parseQueryTerm()}
	if body.Term == nil {
		return nil
	}

	if p.currentIs(token.ORDER) {
		p.nextToken()
		if !p.expect(token.BY) {
			return nil
		}
		for {
			item := p.parseSortItem()
			if item == nil {
				return nil
			}
			body.OrderBy = append(body.OrderBy, item)
			if !p.currentIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}

	if p.currentIs(token.LIMIT) {
		body.Limit = p.parseLimit()
		if body.Limit == nil {
			return nil
		}
	}
	return body
}

// parseQueryTerm parses a SELECT and the set operations chained after it.
// The first select is the root term and each later select follows through
// Other, in source order. The chain is built iteratively so its length does
// not count toward the nesting depth.
func (p *Parser) parseQueryTerm() *ast.QueryTerm {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	sel := p.parseSelect()
	if sel == nil {
		return nil
	}
	root := &ast.QueryTerm{Select: sel}

	for tail := root; ; {
		var op ast.SetOperator
		switch p.current.Token {
		case token.UNION:
			op = ast.Union
		case token.INTERSECT:
			op = ast.Intersect
		case token.EXCEPT:
			op = ast.Except
		default:
			return root
		}
		p.nextToken()

		other := &ast.SetQueryTerm{Operator: op, Distinctness: ast.Distinct}
		switch p.current.Token {
		case token.ALL:
			other.Distinctness = ast.All
			p.nextToken()
		case token.DISTINCT:
			p.nextToken()
		}
		next := p.parseSelect()
		if next == nil {
			return nil
		}
		other.Query = &ast.QueryTerm{Select: next}
		tail.Other = other
		tail = other.Query
	}
}

func (p *Parser) parseSelect() *ast.Select {
	if !p.expect(token.SELECT) {
		return nil
	}
	sel := &ast.Select{}

	switch p.current.Token {
	case token.DISTINCT:
		sel.Distinctness = ast.Distinct
		p.nextToken()
	case token.ALL:
		sel.Distinctness = ast.All
		p.nextToken()
	}

	for {
		item := p.parseSelectItem()
		if item == nil {
			return nil
		}
		sel.Items = append(sel.Items, item)
		if !p.currentIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if p.currentIs(token.FROM) {
		p.nextToken()
		if sel.From = p.parseQualifiedName(); sel.From == nil {
			return nil
		}
	}

	if p.currentIs(token.WHERE) {
		p.nextToken()
		if sel.Where = p.parseExpression(ast.LOWEST); sel.Where == nil {
			return nil
		}
	}

	if p.currentIs(token.GROUP) {
		p.nextToken()
		if !p.expect(token.BY) {
			return nil
		}
		exprs := p.parseExpressionList()
		if exprs == nil {
			return nil
		}
		sel.GroupBy = exprs
	}

	if p.currentIs(token.HAVING) {
		p.nextToken()
		if sel.Having = p.parseExpression(ast.LOWEST); sel.Having == nil {
			return nil
		}
	}

	return sel
}

func (p *Parser) parseSelectItem() *ast.SelectItem {
	if p.currentIs(token.ASTERISK) {
		p.nextToken()
		return &ast.SelectItem{Expression: &ast.Wildcard{}}
	}

	expr := p.parseExpression(ast.LOWEST)
	if expr == nil {
		return nil
	}
	item := &ast.SelectItem{Expression: expr}

	// Explicit alias with AS, or an implicit one
	if p.currentIs(token.AS) {
		p.nextToken()
		name, ok := p.parseIdentifier()
		if !ok {
			return nil
		}
		item.Alias = &ast.AliasName{Name: name}
	} else if isIdentifier(p.current.Token) {
		item.Alias = &ast.AliasName{Name: p.current.Value}
		p.nextToken()
	}
	return item
}

func (p *Parser) parseSortItem() *ast.SortItem {
	expr := p.parseExpression(ast.LOWEST)
	if expr == nil {
		return nil
	}
	item := &ast.SortItem{Expression: expr}

	switch p.current.Token {
	case token.ASC:
		item.Order = ast.Ascending
		p.nextToken()
	case token.DESC:
		item.Order = ast.Descending
		p.nextToken()
	}

	if p.currentIs(token.NULLS) {
		p.nextToken()
		switch p.current.Token {
		case token.FIRST:
			item.Nulls = ast.NullsFirst
		case token.LAST:
			item.Nulls = ast.NullsLast
		default:
			p.unexpected("FIRST", "LAST")
			return nil
		}
		p.nextToken()
	}
	return item
}

// parseLimit parses LIMIT count [OFFSET offset] and LIMIT offset, count.
func (p *Parser) parseLimit() *ast.Limit {
	p.nextToken() // skip LIMIT
	first := p.parseExpression(ast.LOWEST)
	if first == nil {
		return nil
	}

	switch p.current.Token {
	case token.COMMA:
		p.nextToken()
		count := p.parseExpression(ast.LOWEST)
		if count == nil {
			return nil
		}
		return &ast.Limit{Count: count, Offset: first}
	case token.OFFSET:
		p.nextToken()
		offset := p.parseExpression(ast.LOWEST)
		if offset == nil {
			return nil
		}
		return &ast.Limit{Count: first, Offset: offset}
	}
	return &ast.Limit{Count: first}
}
