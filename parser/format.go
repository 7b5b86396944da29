package parser

import (
	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/internal/format"
)

// Format returns the HogQL text of the statements. Parsing the result
// gives back the same trees.
func Format(stmts []ast.Statement) string {
	return format.Format(stmts)
}

// FormatExpr returns the HogQL text of an expression.
func FormatExpr(expr ast.Expression) string {
	return format.FormatExpr(expr)
}
