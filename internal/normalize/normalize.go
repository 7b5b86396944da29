// Package normalize reduces HogQL text to a fingerprint, so queries that
// differ only in literal values, keyword case or layout compare equal.
package normalize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/lexer"
	"github.com/tmilicic/posthog/parser"
	"github.com/tmilicic/posthog/token"
)

// Pre-compiled regexes for performance
var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	valueListRegex  = regexp.MustCompile(`([(\[])\?(?:, \?)+([)\]])`)
	tupleListRegex  = regexp.MustCompile(`\(\?\)(?:, \(\?\))+`)
)

// Whitespace collapses all whitespace sequences to a single space
// and trims leading/trailing whitespace.
func Whitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// Fingerprint returns the normalized form of src:
//   - number, string and boolean literals become ?
//   - lists made only of literals collapse to a single ?
//   - keywords are upper-case and alternate spellings are unified
//   - tokens are separated by single spaces, comments are dropped
//
// Identifiers keep their spelling, including soft keywords used as names
// (events, timestamp). Those are told apart by parsing src; past a parse
// error every soft keyword keeps its spelling. A lex error is returned as
// is.
func Fingerprint(src string, cfg lexer.Config) (string, error) {
	n := collectNames(src, cfg)
	l := lexer.NewWithConfig(strings.NewReader(src), cfg)

	var sb strings.Builder
	prev := token.ILLEGAL
	for {
		item, err := l.NextToken()
		if err != nil {
			return "", err
		}
		if item.Token == token.EOF {
			break
		}
		if spaceBetween(prev, item.Token) {
			sb.WriteByte(' ')
		}
		sb.WriteString(text(item, n))
		prev = item.Token
	}

	out := strings.TrimSuffix(sb.String(), ";")
	out = valueListRegex.ReplaceAllString(out, "$1?$2")
	out = tupleListRegex.ReplaceAllString(out, "(?)")
	return out, nil
}

// Hash returns a short stable identifier for a fingerprint.
func Hash(fingerprint string) string {
	sum := sha256.Sum256([]byte(fingerprint))
	return hex.EncodeToString(sum[:8])
}

// names records which keyword tokens of a query are used as names.
type names struct {
	offsets map[int]bool
	// rawFrom is the offset of the first parse error, or -1. Soft keywords
	// from there on keep their spelling.
	rawFrom int
}

// collectNames parses src and returns the offsets of every identifier,
// function name and type name in the statements that parse.
func collectNames(src string, cfg lexer.Config) names {
	pcfg := parser.DefaultConfig()
	pcfg.Config = cfg
	stmts, errs := parser.ParseScript(context.Background(), strings.NewReader(src), pcfg)

	n := names{offsets: make(map[int]bool), rawFrom: -1}
	for _, stmt := range stmts {
		ast.Inspect(stmt, func(node ast.Node) bool {
			switch node.(type) {
			case *ast.Identifier, *ast.Call, *ast.DataType:
				n.offsets[node.Pos().Offset] = true
			}
			return true
		})
	}
	if len(errs) > 0 {
		n.rawFrom = errs[0].Pos.Offset
	}
	return n
}

func (n names) isName(item lexer.Item) bool {
	if n.offsets[item.Pos.Offset] {
		return true
	}
	return n.rawFrom >= 0 && item.Pos.Offset >= n.rawFrom && !item.Token.IsReserved()
}

func text(item lexer.Item, n names) string {
	switch {
	case item.Token.IsNumber(), item.Token == token.STRING,
		item.Token == token.TRUE, item.Token == token.FALSE:
		return "?"
	case item.Token == token.PLACEHOLDER:
		return "{" + item.Value + "}"
	case item.Token == token.IDENT:
		if item.Quoted {
			return item.Raw
		}
		return item.Value
	case item.Token.IsKeyword() && n.isName(item):
		return item.Value
	}
	return item.Token.String()
}

func spaceBetween(prev, cur token.Token) bool {
	switch prev {
	case token.ILLEGAL, token.LPAREN, token.LBRACKET, token.DOT, token.COLONCOLON:
		return false
	}
	switch cur {
	case token.COMMA, token.RPAREN, token.RBRACKET, token.DOT, token.SEMICOLON, token.COLONCOLON:
		return false
	case token.LPAREN:
		return prev != token.IDENT
	case token.LBRACKET:
		return prev != token.IDENT && prev != token.RPAREN && prev != token.RBRACKET
	}
	return true
}
