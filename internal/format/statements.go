package format

import (
	"strings"

	"github.com/tmilicic/posthog/ast"
)

// formatSelectUnionQuery formats queries joined by UNION. A nested union
// is parenthesized.
func formatSelectUnionQuery(sb *strings.Builder, q *ast.SelectUnionQuery) {
	for i, sel := range q.Selects {
		if i > 0 {
			sb.WriteString(" UNION ")
			sb.WriteString(string(q.Modes[i-1]))
			sb.WriteString(" ")
		}
		if _, nested := sel.(*ast.SelectUnionQuery); nested {
			sb.WriteString("(")
			Statement(sb, sel)
			sb.WriteString(")")
			continue
		}
		Statement(sb, sel)
	}
}

// formatSelectQuery formats a SELECT query.
func formatSelectQuery(sb *strings.Builder, q *ast.SelectQuery) {
	// Format WITH clause
	if len(q.With) > 0 {
		sb.WriteString("WITH ")
		for i, cte := range q.With {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatCTE(sb, cte)
		}
		sb.WriteString(" ")
	}

	sb.WriteString("SELECT ")
	if q.Distinct {
		sb.WriteString("DISTINCT ")
	}
	for i, col := range q.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		formatColumn(sb, col)
	}

	if q.From != nil {
		sb.WriteString(" FROM ")
		formatTableSource(sb, q.From)
	}

	if q.ArrayJoin != nil {
		if q.ArrayJoin.Left {
			sb.WriteString(" LEFT ARRAY JOIN ")
		} else {
			sb.WriteString(" ARRAY JOIN ")
		}
		for i, e := range q.ArrayJoin.Exprs {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatColumn(sb, e)
		}
	}

	if q.PreWhere != nil {
		sb.WriteString(" PREWHERE ")
		Expression(sb, q.PreWhere)
	}

	if q.Where != nil {
		sb.WriteString(" WHERE ")
		Expression(sb, q.Where)
	}

	if len(q.GroupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		formatExpressionList(sb, q.GroupBy)
		if q.GroupingBy != ast.GroupingNone {
			sb.WriteString(" WITH ")
			sb.WriteString(string(q.GroupingBy))
		}
	}
	if q.WithTotals {
		sb.WriteString(" WITH TOTALS")
	}

	if q.Having != nil {
		sb.WriteString(" HAVING ")
		Expression(sb, q.Having)
	}

	if len(q.Window) > 0 {
		sb.WriteString(" WINDOW ")
		for i, w := range q.Window {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatIdentifier(sb, w.Name)
			sb.WriteString(" AS ")
			formatWindowSpec(sb, w.Spec)
		}
	}

	if len(q.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		formatOrderList(sb, q.OrderBy)
	}

	if q.LimitBy != nil {
		sb.WriteString(" LIMIT ")
		Expression(sb, q.LimitBy.Limit)
		if q.LimitBy.Offset != nil {
			sb.WriteString(" OFFSET ")
			Expression(sb, q.LimitBy.Offset)
		}
		sb.WriteString(" BY ")
		formatExpressionList(sb, q.LimitBy.By)
	}

	if q.Limit != nil {
		sb.WriteString(" LIMIT ")
		Expression(sb, q.Limit)
		if q.WithTies {
			sb.WriteString(" WITH TIES")
		}
	}
	if q.Offset != nil {
		sb.WriteString(" OFFSET ")
		Expression(sb, q.Offset)
	}

	if len(q.Settings) > 0 {
		sb.WriteString(" SETTINGS ")
		formatSettings(sb, q.Settings)
	}
}

func formatCTE(sb *strings.Builder, cte *ast.CTE) {
	if cte.Query != nil {
		formatIdentifier(sb, cte.Name)
		sb.WriteString(" AS (")
		Statement(sb, cte.Query)
		sb.WriteString(")")
		return
	}
	Expression(sb, cte.Expr)
	sb.WriteString(" AS ")
	formatIdentifier(sb, cte.Name)
}

// formatTableSource formats a FROM clause. Join trees are left-deep.
func formatTableSource(sb *strings.Builder, src ast.TableSource) {
	switch s := src.(type) {
	case *ast.TableExpr:
		formatTableExpr(sb, s)
	case *ast.JoinExpr:
		formatTableSource(sb, s.Left)
		sb.WriteString(" ")
		formatJoinOperator(sb, s)
		sb.WriteString(" ")
		formatTableSource(sb, s.Right)
		formatJoinConstraint(sb, s.Constraint)
	}
}

func formatJoinOperator(sb *strings.Builder, j *ast.JoinExpr) {
	var words []string
	if j.Global {
		words = append(words, "GLOBAL")
	}
	switch j.Strictness {
	case ast.StrictnessSemi, ast.StrictnessAnti:
		words = append(words, string(j.Kind), string(j.Strictness))
	case ast.StrictnessNone:
		words = append(words, string(j.Kind))
	default:
		words = append(words, string(j.Strictness), string(j.Kind))
	}
	words = append(words, "JOIN")
	sb.WriteString(strings.Join(words, " "))
}

func formatJoinConstraint(sb *strings.Builder, c *ast.JoinConstraint) {
	if c == nil {
		return
	}
	if c.On != nil {
		sb.WriteString(" ON ")
		Expression(sb, c.On)
		return
	}
	sb.WriteString(" USING (")
	formatIdentifierList(sb, c.Using)
	sb.WriteString(")")
}

func formatTableExpr(sb *strings.Builder, t *ast.TableExpr) {
	Expression(sb, t.Table)
	if t.Alias != nil {
		sb.WriteString(" AS ")
		formatIdentifier(sb, t.Alias)
	}
	if t.Final {
		sb.WriteString(" FINAL")
	}
	if t.Sample != nil {
		sb.WriteString(" SAMPLE ")
		Expression(sb, t.Sample.Ratio)
		if t.Sample.Offset != nil {
			sb.WriteString(" OFFSET ")
			Expression(sb, t.Sample.Offset)
		}
	}
}
