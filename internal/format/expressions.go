package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tmilicic/posthog/ast"
)

// Expression formats an expression.
func Expression(sb *strings.Builder, expr ast.Expression) {
	if expr == nil {
		return
	}

	switch e := expr.(type) {
	case *ast.Literal:
		formatLiteral(sb, e)
	case *ast.Placeholder:
		sb.WriteString("{")
		sb.WriteString(e.Name)
		sb.WriteString("}")
	case *ast.ArrayExpr:
		sb.WriteString("[")
		formatExpressionList(sb, e.Elements)
		sb.WriteString("]")
	case *ast.TupleExpr:
		formatTuple(sb, e)
	case *ast.DictExpr:
		formatDict(sb, e)
	case *ast.Field:
		for i, id := range e.Chain {
			if i > 0 {
				sb.WriteString(".")
			}
			formatIdentifier(sb, id)
		}
	case *ast.Asterisk:
		for _, id := range e.Table {
			formatIdentifier(sb, id)
			sb.WriteString(".")
		}
		sb.WriteString("*")
	case *ast.Alias:
		sb.WriteString("(")
		formatAlias(sb, e)
		sb.WriteString(")")
	case *ast.BinaryExpr:
		formatInfix(sb, e.Left, string(e.Op), e.Right)
	case *ast.CompareExpr:
		formatInfix(sb, e.Left, string(e.Op), e.Right)
	case *ast.InExpr:
		formatInExpr(sb, e)
	case *ast.BetweenExpr:
		formatBetweenExpr(sb, e)
	case *ast.IsNullExpr:
		sb.WriteString("(")
		Expression(sb, e.Expr)
		if e.Not {
			sb.WriteString(" IS NOT NULL)")
		} else {
			sb.WriteString(" IS NULL)")
		}
	case *ast.And:
		formatChain(sb, e.Exprs, " AND ")
	case *ast.Or:
		formatChain(sb, e.Exprs, " OR ")
	case *ast.Not:
		sb.WriteString("(NOT ")
		Expression(sb, e.Expr)
		sb.WriteString(")")
	case *ast.UnaryExpr:
		formatUnaryExpr(sb, e)
	case *ast.TernaryExpr:
		sb.WriteString("(")
		Expression(sb, e.Cond)
		sb.WriteString(" ? ")
		Expression(sb, e.Then)
		sb.WriteString(" : ")
		Expression(sb, e.Else)
		sb.WriteString(")")
	case *ast.ArrayAccess:
		formatPostfixOperand(sb, e.Array)
		sb.WriteString("[")
		Expression(sb, e.Index)
		sb.WriteString("]")
	case *ast.TupleAccess:
		formatPostfixOperand(sb, e.Tuple)
		sb.WriteString(".")
		sb.WriteString(strconv.FormatInt(e.Index, 10))
	case *ast.Call:
		formatCall(sb, e)
	case *ast.Lambda:
		formatLambda(sb, e)
	case *ast.CaseExpr:
		formatCaseExpr(sb, e)
	case *ast.CastExpr:
		formatCastExpr(sb, e)
	case *ast.DataType:
		formatDataType(sb, e)
	case *ast.IntervalExpr:
		sb.WriteString("INTERVAL ")
		Expression(sb, e.Value)
		sb.WriteString(" ")
		sb.WriteString(string(e.Unit))
	case *ast.ExtractExpr:
		sb.WriteString("EXTRACT(")
		sb.WriteString(string(e.Unit))
		sb.WriteString(" FROM ")
		Expression(sb, e.From)
		sb.WriteString(")")
	case *ast.SubqueryExpr:
		sb.WriteString("(")
		Statement(sb, e.Query)
		sb.WriteString(")")
	case *ast.ExistsExpr:
		sb.WriteString("EXISTS (")
		Statement(sb, e.Query)
		sb.WriteString(")")
	default:
		panic(fmt.Sprintf("format: unexpected expression type %T", expr))
	}
}

// formatColumn formats a projection entry. A top-level alias needs no
// parentheses there.
func formatColumn(sb *strings.Builder, expr ast.Expression) {
	if a, ok := expr.(*ast.Alias); ok {
		formatAlias(sb, a)
		return
	}
	Expression(sb, expr)
}

func formatAlias(sb *strings.Builder, a *ast.Alias) {
	Expression(sb, a.Expr)
	sb.WriteString(" AS ")
	formatIdentifier(sb, a.Name)
}

func formatLiteral(sb *strings.Builder, lit *ast.Literal) {
	switch lit.Kind {
	case ast.LiteralString:
		formatString(sb, lit.Text)
	case ast.LiteralNull:
		sb.WriteString("NULL")
	default:
		sb.WriteString(lit.Text)
	}
}

// formatTuple writes (a, b), the one-element form (a,) and ().
func formatTuple(sb *strings.Builder, t *ast.TupleExpr) {
	sb.WriteString("(")
	formatExpressionList(sb, t.Elements)
	if len(t.Elements) == 1 {
		sb.WriteString(",")
	}
	sb.WriteString(")")
}

func formatDict(sb *strings.Builder, d *ast.DictExpr) {
	sb.WriteString("{")
	for i, item := range d.Items {
		if i > 0 {
			sb.WriteString(", ")
		}
		Expression(sb, item.Key)
		sb.WriteString(": ")
		Expression(sb, item.Value)
	}
	sb.WriteString("}")
}

func formatInfix(sb *strings.Builder, left ast.Expression, op string, right ast.Expression) {
	sb.WriteString("(")
	Expression(sb, left)
	sb.WriteString(" ")
	sb.WriteString(op)
	sb.WriteString(" ")
	Expression(sb, right)
	sb.WriteString(")")
}

func formatChain(sb *strings.Builder, exprs []ast.Expression, sep string) {
	sb.WriteString("(")
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString(sep)
		}
		Expression(sb, e)
	}
	sb.WriteString(")")
}

func formatInExpr(sb *strings.Builder, e *ast.InExpr) {
	sb.WriteString("(")
	Expression(sb, e.Expr)
	if e.Global {
		sb.WriteString(" GLOBAL")
	}
	if e.Not {
		sb.WriteString(" NOT")
	}
	sb.WriteString(" IN ")
	Expression(sb, e.Target)
	sb.WriteString(")")
}

func formatBetweenExpr(sb *strings.Builder, e *ast.BetweenExpr) {
	sb.WriteString("(")
	Expression(sb, e.Expr)
	if e.Not {
		sb.WriteString(" NOT")
	}
	sb.WriteString(" BETWEEN ")
	Expression(sb, e.Low)
	sb.WriteString(" AND ")
	Expression(sb, e.High)
	sb.WriteString(")")
}

// formatUnaryExpr writes -x. A nested sign is parenthesized, since --
// starts a comment.
func formatUnaryExpr(sb *strings.Builder, e *ast.UnaryExpr) {
	sb.WriteString(string(e.Op))
	if _, ok := e.Expr.(*ast.UnaryExpr); ok {
		sb.WriteString("(")
		Expression(sb, e.Expr)
		sb.WriteString(")")
		return
	}
	Expression(sb, e.Expr)
}

// formatPostfixOperand writes the operand of [], .N and ::, wrapping the
// forms that would otherwise capture the postfix operator.
func formatPostfixOperand(sb *strings.Builder, expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.UnaryExpr, *ast.Lambda, *ast.IntervalExpr:
	case *ast.Literal:
		if e.Kind == ast.LiteralString || e.Kind == ast.LiteralNull {
			Expression(sb, expr)
			return
		}
	default:
		Expression(sb, expr)
		return
	}
	sb.WriteString("(")
	Expression(sb, expr)
	sb.WriteString(")")
}

func formatCall(sb *strings.Builder, fn *ast.Call) {
	sb.WriteString(fn.Name)
	if fn.Params != nil {
		sb.WriteString("(")
		formatExpressionList(sb, fn.Params)
		sb.WriteString(")")
	}
	sb.WriteString("(")
	if fn.Distinct {
		sb.WriteString("DISTINCT ")
	}
	formatExpressionList(sb, fn.Args)
	sb.WriteString(")")

	switch {
	case fn.OverName != nil:
		sb.WriteString(" OVER ")
		formatIdentifier(sb, fn.OverName)
	case fn.Over != nil:
		sb.WriteString(" OVER ")
		formatWindowSpec(sb, fn.Over)
	}
}

func formatLambda(sb *strings.Builder, l *ast.Lambda) {
	if len(l.Params) == 1 {
		formatIdentifier(sb, l.Params[0])
	} else {
		sb.WriteString("(")
		for i, p := range l.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatIdentifier(sb, p)
		}
		sb.WriteString(")")
	}
	sb.WriteString(" -> ")
	Expression(sb, l.Body)
}

func formatCaseExpr(sb *strings.Builder, c *ast.CaseExpr) {
	sb.WriteString("CASE")
	if c.Operand != nil {
		sb.WriteString(" ")
		Expression(sb, c.Operand)
	}
	for _, w := range c.Whens {
		sb.WriteString(" WHEN ")
		Expression(sb, w.Cond)
		sb.WriteString(" THEN ")
		Expression(sb, w.Result)
	}
	if c.Else != nil {
		sb.WriteString(" ELSE ")
		Expression(sb, c.Else)
	}
	sb.WriteString(" END")
}

func formatCastExpr(sb *strings.Builder, c *ast.CastExpr) {
	if c.Operator {
		formatPostfixOperand(sb, c.Expr)
		sb.WriteString("::")
		formatDataType(sb, c.Type)
		return
	}
	sb.WriteString("CAST(")
	Expression(sb, c.Expr)
	sb.WriteString(" AS ")
	formatDataType(sb, c.Type)
	sb.WriteString(")")
}

func formatDataType(sb *strings.Builder, t *ast.DataType) {
	if t == nil {
		return
	}
	sb.WriteString(t.Name)
	if t.Args != nil {
		sb.WriteString("(")
		formatExpressionList(sb, t.Args)
		sb.WriteString(")")
	}
}

func formatWindowSpec(sb *strings.Builder, w *ast.WindowSpec) {
	var parts []string
	if w.Base != nil {
		var b strings.Builder
		formatIdentifier(&b, w.Base)
		parts = append(parts, b.String())
	}
	if len(w.PartitionBy) > 0 {
		var b strings.Builder
		b.WriteString("PARTITION BY ")
		formatExpressionList(&b, w.PartitionBy)
		parts = append(parts, b.String())
	}
	if len(w.OrderBy) > 0 {
		var b strings.Builder
		b.WriteString("ORDER BY ")
		formatOrderList(&b, w.OrderBy)
		parts = append(parts, b.String())
	}
	if w.Frame != nil {
		var b strings.Builder
		formatWindowFrame(&b, w.Frame)
		parts = append(parts, b.String())
	}
	sb.WriteString("(")
	sb.WriteString(strings.Join(parts, " "))
	sb.WriteString(")")
}

func formatWindowFrame(sb *strings.Builder, f *ast.WindowFrame) {
	sb.WriteString(string(f.Unit))
	sb.WriteString(" ")
	if f.End == nil {
		formatFrameBound(sb, f.Start)
		return
	}
	sb.WriteString("BETWEEN ")
	formatFrameBound(sb, f.Start)
	sb.WriteString(" AND ")
	formatFrameBound(sb, f.End)
}

func formatFrameBound(sb *strings.Builder, b *ast.FrameBound) {
	if b.Offset != nil {
		Expression(sb, b.Offset)
		sb.WriteString(" ")
	}
	sb.WriteString(string(b.Kind))
}

func formatOrderList(sb *strings.Builder, list []*ast.OrderExpr) {
	for i, o := range list {
		if i > 0 {
			sb.WriteString(", ")
		}
		formatOrderExpr(sb, o)
	}
}

// formatOrderExpr writes expr ASC|DESC, adding NULLS only when the query
// spelled it out.
func formatOrderExpr(sb *strings.Builder, o *ast.OrderExpr) {
	Expression(sb, o.Expr)
	sb.WriteString(" ")
	sb.WriteString(string(o.Direction))
	if o.NullsExplicit {
		sb.WriteString(" NULLS ")
		sb.WriteString(string(o.Nulls))
	}
}
