// Package parser implements a parser for HogQL.
package parser

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/diag"
	"github.com/tmilicic/posthog/lexer"
	"github.com/tmilicic/posthog/token"
)

// Parser parses HogQL statements. A Parser stops at the first error; it
// is not safe for concurrent use, but independent Parsers are.
type Parser struct {
	stream  *lexer.Stream
	cfg     Config
	log     zerolog.Logger
	current lexer.Item
	peek    lexer.Item
	depth   int
	err     *diag.Error
}

// New creates a new Parser from an io.Reader.
func New(r io.Reader) *Parser {
	return NewWithConfig(r, DefaultConfig())
}

// NewWithConfig creates a new Parser with the given configuration.
func NewWithConfig(r io.Reader, cfg Config) *Parser {
	p := &Parser{
		stream: lexer.NewStream(lexer.NewWithConfig(r, cfg.Config)),
		cfg:    cfg,
		log:    cfg.Logger,
	}
	p.sync()
	return p
}

func (p *Parser) sync() {
	p.current = p.stream.Current()
	p.peek = p.stream.Peek(1)
}

func (p *Parser) nextToken() {
	p.stream.Advance()
	p.sync()
}

// peekAt returns the token k positions after the current one.
func (p *Parser) peekAt(k int) lexer.Item {
	return p.stream.Peek(k)
}

func (p *Parser) mark() lexer.Mark {
	return p.stream.Mark()
}

func (p *Parser) reset(m lexer.Mark) {
	p.stream.Reset(m)
	p.sync()
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
	p.fail([]string{describeToken(t)}, "expected %s, found %s", describeToken(t), describeItem(p.current))
	return false
}

// accept consumes the current token if it is t.
func (p *Parser) accept(t token.Token) bool {
	if p.currentIs(t) {
		p.nextToken()
		return true
	}
	return false
}

func (p *Parser) failed() bool {
	return p.err != nil
}

// fail records a parse error at the current token. Only the first error
// is kept.
func (p *Parser) fail(expected []string, format string, args ...any) {
	if p.err != nil {
		return
	}
	p.err = diag.NewParse(p.current.Pos, describeItem(p.current), expected, format, args...)
	p.log.Debug().
		Str("error", p.err.Msg).
		Stringer("pos", p.err.Pos).
		Strs("expected", p.err.Expected).
		Msg("parse error")
}

func (p *Parser) unexpected(expected ...string) {
	p.fail(expected, "unexpected %s", describeItem(p.current))
}

// enter guards recursion into nested expressions and queries.
func (p *Parser) enter() bool {
	if p.depth >= p.cfg.maxDepth() {
		if p.err == nil {
			p.err = diag.NewDepth(p.current.Pos, describeItem(p.current), p.cfg.maxDepth())
			p.log.Debug().Int("max_depth", p.cfg.maxDepth()).Stringer("pos", p.current.Pos).Msg("nesting too deep")
		}
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() {
	p.depth--
}

// error returns the error that stopped the parse. A lex error wins over a
// parse error, wherever it occurs in the input.
func (p *Parser) error() error {
	if p.err != nil {
		if err := p.stream.Drain(); err != nil {
			return err
		}
		return p.err
	}
	if err := p.stream.Err(); err != nil {
		return err
	}
	return nil
}

// Parse parses HogQL statements from the input.
func Parse(ctx context.Context, r io.Reader) ([]ast.Statement, error) {
	return ParseWithConfig(ctx, r, DefaultConfig())
}

// ParseWithConfig is Parse with an explicit configuration.
func ParseWithConfig(ctx context.Context, r io.Reader, cfg Config) ([]ast.Statement, error) {
	return NewWithConfig(r, cfg).ParseStatements(ctx)
}

// ParseStatement parses exactly one statement. A trailing semicolon is
// allowed.
func ParseStatement(src string) (ast.Statement, error) {
	return New(strings.NewReader(src)).ParseStatement()
}

// ParseSelect parses a SELECT query or a UNION of them.
func ParseSelect(src string) (ast.SelectStatement, error) {
	return New(strings.NewReader(src)).ParseSelect()
}

// ParseExpr parses a single expression.
func ParseExpr(src string) (ast.Expression, error) {
	return New(strings.NewReader(src)).ParseExpr()
}

// ParseOrderExpr parses a single ORDER BY entry, such as "ts DESC".
func ParseOrderExpr(src string) (*ast.OrderExpr, error) {
	return New(strings.NewReader(src)).ParseOrderExpr()
}

// ParseStatements parses a semicolon-separated list of statements.
func (p *Parser) ParseStatements(ctx context.Context) ([]ast.Statement, error) {
	var statements []ast.Statement

	for {
		for p.currentIs(token.SEMICOLON) {
			p.nextToken()
		}
		if p.currentIs(token.EOF) {
			break
		}

		select {
		case <-ctx.Done():
			return statements, ctx.Err()
		default:
		}

		stmt := p.parseStatement()
		if stmt == nil {
			return statements, p.error()
		}
		statements = append(statements, stmt)

		if !p.currentIs(token.SEMICOLON) && !p.currentIs(token.EOF) {
			p.unexpected("';'", "end of input")
			return statements, p.error()
		}
	}

	if err := p.error(); err != nil {
		return statements, err
	}
	return statements, nil
}

// ParseStatement parses exactly one statement followed by an optional
// semicolon and the end of input.
func (p *Parser) ParseStatement() (ast.Statement, error) {
	stmt := p.parseStatement()
	if stmt != nil {
		p.accept(token.SEMICOLON)
		p.expectEOF()
	}
	if err := p.error(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// ParseSelect parses a select statement followed by the end of input.
func (p *Parser) ParseSelect() (ast.SelectStatement, error) {
	sel := p.parseSelectStatement()
	if sel != nil {
		p.accept(token.SEMICOLON)
		p.expectEOF()
	}
	if err := p.error(); err != nil {
		return nil, err
	}
	return sel, nil
}

// ParseExpr parses an expression followed by the end of input.
func (p *Parser) ParseExpr() (ast.Expression, error) {
	expr := p.parseExpression(LOWEST)
	if expr != nil {
		p.expectEOF()
	}
	if err := p.error(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseOrderExpr parses one ORDER BY entry followed by the end of input.
func (p *Parser) ParseOrderExpr() (*ast.OrderExpr, error) {
	order := p.parseOrderExpr()
	if order != nil {
		p.expectEOF()
	}
	if err := p.error(); err != nil {
		return nil, err
	}
	return order, nil
}

func (p *Parser) expectEOF() {
	if !p.currentIs(token.EOF) {
		p.unexpected("end of input")
	}
}

// statementKeywords lists what may start a statement, for diagnostics.
var statementKeywords = []string{
	"SELECT", "WITH", "'('", "INSERT", "CREATE", "ALTER", "DROP", "TRUNCATE",
	"RENAME", "USE", "DESCRIBE", "SHOW", "EXPLAIN", "SET", "OPTIMIZE",
	"SYSTEM", "KILL", "ATTACH", "DETACH",
}

func (p *Parser) parseStatement() ast.Statement {
	pos := p.current.Pos
	var stmt ast.Statement

	switch p.current.Token {
	case token.SELECT, token.WITH, token.LPAREN:
		if sel := p.parseSelectStatement(); sel != nil {
			stmt = sel
		}
	case token.INSERT:
		stmt = p.parseInsert()
	case token.CREATE:
		stmt = p.parseCreate()
	case token.ALTER:
		stmt = p.parseAlter()
	case token.DROP:
		stmt = p.parseDrop()
	case token.TRUNCATE:
		stmt = p.parseTruncate()
	case token.RENAME:
		stmt = p.parseRename()
	case token.USE:
		stmt = p.parseUse()
	case token.DESCRIBE, token.DESC:
		stmt = p.parseDescribe()
	case token.SHOW:
		stmt = p.parseShow()
	case token.EXPLAIN:
		stmt = p.parseExplain()
	case token.SET:
		stmt = p.parseSet()
	case token.OPTIMIZE:
		stmt = p.parseOptimize()
	case token.SYSTEM:
		stmt = p.parseSystem()
	case token.KILL:
		stmt = p.parseKill()
	case token.ATTACH, token.DETACH:
		stmt = p.parseAttach()
	case token.EOF:
		p.fail(statementKeywords, "expected a statement, found end of input")
	default:
		p.fail(statementKeywords, "unexpected %s at start of statement", describeItem(p.current))
	}

	if stmt == nil {
		return nil
	}
	p.log.Debug().
		Str("statement", fmt.Sprintf("%T", stmt)).
		Stringer("pos", pos).
		Msg("parsed statement")
	return stmt
}

// isIdentLike reports whether the token can serve as an identifier:
// an identifier proper or a keyword that is not reserved.
func isIdentLike(item lexer.Item) bool {
	return item.Token == token.IDENT || (item.Token.IsKeyword() && !item.Token.IsReserved())
}

// parseIdentifier parses a name where the grammar requires one. Reserved
// keywords are rejected unless quoted, and quoted names always lex as
// IDENT.
func (p *Parser) parseIdentifier() *ast.Identifier {
	if !isIdentLike(p.current) {
		if p.current.Token.IsReserved() {
			p.fail([]string{"identifier"},
				"reserved keyword %s cannot be used as an identifier; quote it as `%s`",
				p.current.Token, p.current.Value)
		} else {
			p.fail([]string{"identifier"}, "expected identifier, found %s", describeItem(p.current))
		}
		return nil
	}
	id := &ast.Identifier{
		Position: p.current.Pos,
		Name:     p.current.Value,
		Quoted:   p.current.Quoted,
	}
	p.nextToken()
	return id
}

// parseIdentifierList parses a comma-separated list of names.
func (p *Parser) parseIdentifierList() []*ast.Identifier {
	var ids []*ast.Identifier
	for {
		id := p.parseIdentifier()
		if id == nil {
			return nil
		}
		ids = append(ids, id)
		if !p.accept(token.COMMA) {
			return ids
		}
	}
}

// parseQualifiedName parses name or db.name.
func (p *Parser) parseQualifiedName() *ast.QualifiedName {
	q := &ast.QualifiedName{Position: p.current.Pos}
	for {
		id := p.parseIdentifier()
		if id == nil {
			return nil
		}
		q.Parts = append(q.Parts, id)
		if !p.accept(token.DOT) {
			return q
		}
	}
}

// parseSettings parses name = value, ... after SETTINGS or SET.
func (p *Parser) parseSettings() []*ast.Setting {
	var settings []*ast.Setting
	for {
		s := &ast.Setting{Position: p.current.Pos}
		if s.Name = p.parseIdentifier(); s.Name == nil {
			return nil
		}
		if !p.expect(token.EQ) {
			return nil
		}
		if s.Value = p.parseExpression(ALIAS_PREC); s.Value == nil {
			return nil
		}
		settings = append(settings, s)
		if !p.accept(token.COMMA) {
			return settings
		}
	}
}

// describeItem renders a token for error messages.
func describeItem(item lexer.Item) string {
	switch {
	case item.Token == token.EOF:
		return "end of input"
	case item.Token == token.IDENT:
		return fmt.Sprintf("identifier %q", item.Value)
	case item.Token == token.STRING:
		return fmt.Sprintf("string %s", item.Raw)
	case item.Token == token.PLACEHOLDER:
		return fmt.Sprintf("placeholder %s", item.Raw)
	case item.Token.IsNumber():
		return fmt.Sprintf("number %s", item.Raw)
	case item.Token.IsKeyword():
		return item.Token.String()
	}
	return "'" + item.Raw + "'"
}

// describeToken renders a token kind for expected-token lists.
func describeToken(t token.Token) string {
	switch {
	case t == token.EOF:
		return "end of input"
	case t == token.IDENT:
		return "identifier"
	case t == token.STRING:
		return "string"
	case t.IsNumber():
		return "number"
	case t.IsKeyword():
		return t.String()
	}
	return "'" + t.String() + "'"
}
