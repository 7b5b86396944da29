package parser

import (
	"context"
	"io"

	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/diag"
	"github.com/tmilicic/posthog/token"
)

// ParseScript parses every statement it can. After a parse error it skips
// to the next top-level semicolon and carries on, so one bad statement
// does not hide the errors of the rest. A lex error ends the script, as
// does cancellation of ctx; callers check ctx.Err for the latter.
//
// The returned statements are those that parsed cleanly, in order.
func ParseScript(ctx context.Context, r io.Reader, cfg Config) ([]ast.Statement, diag.List) {
	p := NewWithConfig(r, cfg)
	var (
		statements []ast.Statement
		errs       diag.List
	)

	for ctx.Err() == nil {
		for p.currentIs(token.SEMICOLON) {
			p.nextToken()
		}
		if p.currentIs(token.EOF) {
			break
		}

		stmt := p.parseStatement()
		if stmt != nil && !p.currentIs(token.SEMICOLON) && !p.currentIs(token.EOF) {
			p.unexpected("';'", "end of input")
			stmt = nil
		}
		if stmt != nil {
			statements = append(statements, stmt)
			continue
		}

		// A parse error caused by a lex error is not reported on its own.
		if p.stream.Err() != nil {
			break
		}
		if p.err != nil {
			errs.Add(p.err)
		}
		p.resync()
	}

	if err := p.stream.Err(); err != nil {
		errs.Add(err)
	}
	errs.Sort()
	return statements, errs
}

// resync skips to the semicolon that ends the current statement, ignoring
// semicolons inside parentheses, and clears the error state.
func (p *Parser) resync() {
	from := p.current.Pos
	depth := 0
	for !p.currentIs(token.EOF) {
		switch p.current.Token {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			if depth > 0 {
				depth--
			}
		case token.SEMICOLON:
			if depth == 0 {
				p.log.Debug().Stringer("from", from).Stringer("to", p.current.Pos).Msg("resynchronized after parse error")
				p.err = nil
				p.depth = 0
				return
			}
		}
		p.nextToken()
	}
	p.err = nil
	p.depth = 0
}
