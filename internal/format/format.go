// Package format prints HogQL ASTs back to source text.
//
// The output is normalized rather than pretty: keywords are upper-case,
// every compound expression is parenthesized and optional syntax is
// dropped. Parsing the output yields the same tree again.
package format

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/token"
)

// Format returns the HogQL text of the statements, one per line.
func Format(stmts []ast.Statement) string {
	var sb strings.Builder
	for i, stmt := range stmts {
		if i > 0 {
			sb.WriteString("\n")
		}
		Statement(&sb, stmt)
		sb.WriteString(";")
	}
	return sb.String()
}

// FormatExpr returns the HogQL text of a single expression.
func FormatExpr(expr ast.Expression) string {
	var sb strings.Builder
	Expression(&sb, expr)
	return sb.String()
}

// Statement formats a single statement.
func Statement(sb *strings.Builder, stmt ast.Statement) {
	if stmt == nil {
		return
	}

	switch s := stmt.(type) {
	case *ast.SelectUnionQuery:
		formatSelectUnionQuery(sb, s)
	case *ast.SelectQuery:
		formatSelectQuery(sb, s)
	case *ast.InsertQuery:
		formatInsertQuery(sb, s)
	case *ast.CreateTableQuery:
		formatCreateTableQuery(sb, s)
	case *ast.CreateDatabaseQuery:
		formatCreateDatabaseQuery(sb, s)
	case *ast.CreateViewQuery:
		formatCreateViewQuery(sb, s)
	case *ast.AlterTableQuery:
		formatAlterTableQuery(sb, s)
	case *ast.DropQuery:
		formatDropQuery(sb, s)
	case *ast.TruncateQuery:
		formatTruncateQuery(sb, s)
	case *ast.RenameQuery:
		formatRenameQuery(sb, s)
	case *ast.UseQuery:
		sb.WriteString("USE ")
		formatIdentifier(sb, s.Database)
	case *ast.DescribeQuery:
		sb.WriteString("DESCRIBE TABLE ")
		formatQualifiedName(sb, s.Table)
	case *ast.ShowQuery:
		formatShowQuery(sb, s)
	case *ast.ExplainQuery:
		sb.WriteString("EXPLAIN ")
		if s.Kind != "" {
			sb.WriteString(s.Kind)
			sb.WriteString(" ")
		}
		Statement(sb, s.Statement)
	case *ast.SetQuery:
		sb.WriteString("SET ")
		formatSettings(sb, s.Settings)
	case *ast.OptimizeQuery:
		formatOptimizeQuery(sb, s)
	case *ast.SystemQuery:
		formatSystemQuery(sb, s)
	case *ast.KillQuery:
		formatKillQuery(sb, s)
	case *ast.AttachQuery:
		if s.Detach {
			sb.WriteString("DETACH ")
		} else {
			sb.WriteString("ATTACH ")
		}
		sb.WriteString(string(s.Kind))
		sb.WriteString(" ")
		formatQualifiedName(sb, s.Name)
	default:
		panic(fmt.Sprintf("format: unexpected statement type %T", stmt))
	}
}

// formatIdentifier writes a name, quoting it when it was quoted in the
// source or would not lex back as the same identifier.
func formatIdentifier(sb *strings.Builder, id *ast.Identifier) {
	if id == nil {
		return
	}
	writeName(sb, id.Name, id.Quoted)
}

func writeName(sb *strings.Builder, name string, quoted bool) {
	if !quoted && !needsQuoting(name) {
		sb.WriteString(name)
		return
	}
	writeQuoted(sb, name, '`')
}

func needsQuoting(name string) bool {
	if name == "" {
		return true
	}
	for i, r := range name {
		if unicode.IsLetter(r) || r == '_' || r == '$' {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return true
	}
	return token.Lookup(name).IsReserved()
}

func formatQualifiedName(sb *strings.Builder, q *ast.QualifiedName) {
	if q == nil {
		return
	}
	for i, part := range q.Parts {
		if i > 0 {
			sb.WriteString(".")
		}
		formatIdentifier(sb, part)
	}
}

// formatString writes s as a single-quoted literal.
func formatString(sb *strings.Builder, s string) {
	writeQuoted(sb, s, '\'')
}

// writeQuoted writes s between quote characters, escaping the quote, the
// escape character, control characters and bytes that are not UTF-8.
func writeQuoted(sb *strings.Builder, s string, quote byte) {
	sb.WriteByte(quote)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(sb, `\x%02x`, s[i])
		case r == rune(quote) || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == 0:
			sb.WriteString(`\0`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(sb, `\x%02x`, r)
		default:
			sb.WriteRune(r)
		}
		i += size
	}
	sb.WriteByte(quote)
}

func formatSettings(sb *strings.Builder, settings []*ast.Setting) {
	for i, s := range settings {
		if i > 0 {
			sb.WriteString(", ")
		}
		formatIdentifier(sb, s.Name)
		sb.WriteString(" = ")
		Expression(sb, s.Value)
	}
}

func formatExpressionList(sb *strings.Builder, exprs []ast.Expression) {
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString(", ")
		}
		Expression(sb, e)
	}
}
