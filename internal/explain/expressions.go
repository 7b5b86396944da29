package explain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tmilicic/posthog/ast"
)

func (e *explainer) VisitLiteral(l *ast.Literal) error {
	switch l.Kind {
	case ast.LiteralNull:
		return e.node("Literal Null")
	case ast.LiteralString:
		return e.node("Literal String " + strconv.Quote(l.Text))
	}
	return e.node(fmt.Sprintf("Literal %s %s", l.Kind, l.Text))
}

func (e *explainer) VisitPlaceholder(p *ast.Placeholder) error {
	return e.node("Placeholder " + p.Name)
}

func (e *explainer) VisitArrayExpr(a *ast.ArrayExpr) error {
	return e.node("Array", exprs(a.Elements)...)
}

func (e *explainer) VisitTupleExpr(t *ast.TupleExpr) error {
	return e.node("Tuple", exprs(t.Elements)...)
}

func (e *explainer) VisitDictExpr(d *ast.DictExpr) error {
	return e.node("Dict", ast.Children(d)...)
}

func (e *explainer) VisitDictItem(d *ast.DictItem) error {
	return e.node("DictItem", d.Key, d.Value)
}

func (e *explainer) VisitIdentifier(i *ast.Identifier) error {
	return e.node(label("Identifier", i.Name, flag(i.Quoted, "(quoted)")))
}

func (e *explainer) VisitField(f *ast.Field) error {
	return e.node("Field " + strings.Join(f.Names(), "."))
}

func (e *explainer) VisitAsterisk(a *ast.Asterisk) error {
	if len(a.Table) == 0 {
		return e.node("Asterisk")
	}
	names := make([]string, len(a.Table))
	for i, id := range a.Table {
		names[i] = id.Name
	}
	return e.node("Asterisk " + strings.Join(names, ".") + ".*")
}

func (e *explainer) VisitAlias(a *ast.Alias) error {
	return e.node("Alias "+a.Name.Name, a.Expr)
}

func (e *explainer) VisitBinaryExpr(b *ast.BinaryExpr) error {
	return e.node("BinaryExpr "+string(b.Op), b.Left, b.Right)
}

func (e *explainer) VisitCompareExpr(c *ast.CompareExpr) error {
	return e.node("CompareExpr "+string(c.Op), c.Left, c.Right)
}

func (e *explainer) VisitInExpr(i *ast.InExpr) error {
	return e.node(label("InExpr", flag(i.Global, "GLOBAL"), flag(i.Not, "NOT"), "IN"), i.Expr, i.Target)
}

func (e *explainer) VisitBetweenExpr(b *ast.BetweenExpr) error {
	return e.node(label("BetweenExpr", flag(b.Not, "NOT")), b.Expr, b.Low, b.High)
}

func (e *explainer) VisitIsNullExpr(i *ast.IsNullExpr) error {
	if i.Not {
		return e.node("IsNotNull", i.Expr)
	}
	return e.node("IsNull", i.Expr)
}

func (e *explainer) VisitAnd(a *ast.And) error {
	return e.node("And", exprs(a.Exprs)...)
}

func (e *explainer) VisitOr(o *ast.Or) error {
	return e.node("Or", exprs(o.Exprs)...)
}

func (e *explainer) VisitNot(n *ast.Not) error {
	return e.node("Not", n.Expr)
}

func (e *explainer) VisitUnaryExpr(u *ast.UnaryExpr) error {
	return e.node("UnaryExpr "+string(u.Op), u.Expr)
}

func (e *explainer) VisitTernaryExpr(t *ast.TernaryExpr) error {
	return e.node("Ternary", t.Cond, t.Then, t.Else)
}

func (e *explainer) VisitArrayAccess(a *ast.ArrayAccess) error {
	return e.node("ArrayAccess", a.Array, a.Index)
}

func (e *explainer) VisitTupleAccess(t *ast.TupleAccess) error {
	return e.node(fmt.Sprintf("TupleAccess %d", t.Index), t.Tuple)
}

func (e *explainer) VisitCall(c *ast.Call) error {
	var over []ast.Node
	switch {
	case c.OverName != nil:
		over = []ast.Node{c.OverName}
	case c.Over != nil:
		over = []ast.Node{c.Over}
	}
	if c.Params == nil && over == nil {
		return e.node(label("Call", c.Name, flag(c.Distinct, "DISTINCT")), exprs(c.Args)...)
	}
	return e.sections(label("Call", c.Name, flag(c.Distinct, "DISTINCT")),
		section{"Params", exprs(c.Params)},
		section{"Args", exprs(c.Args)},
		section{"Over", over},
	)
}

func (e *explainer) VisitLambda(l *ast.Lambda) error {
	return e.node("Lambda "+identNames(l.Params), l.Body)
}

func (e *explainer) VisitCaseExpr(c *ast.CaseExpr) error {
	var whens []ast.Node
	for _, w := range c.Whens {
		whens = append(whens, w)
	}
	return e.sections("Case",
		section{"Operand", expr(c.Operand)},
		section{"Whens", whens},
		section{"Else", expr(c.Else)},
	)
}

func (e *explainer) VisitWhenClause(w *ast.WhenClause) error {
	return e.node("When", w.Cond, w.Result)
}

func (e *explainer) VisitCastExpr(c *ast.CastExpr) error {
	return e.node(label("Cast", flag(c.Operator, "::")), c.Expr, c.Type)
}

func (e *explainer) VisitDataType(d *ast.DataType) error {
	return e.node("DataType "+d.Name, exprs(d.Args)...)
}

func (e *explainer) VisitIntervalExpr(i *ast.IntervalExpr) error {
	return e.node("Interval "+string(i.Unit), i.Value)
}

func (e *explainer) VisitExtractExpr(x *ast.ExtractExpr) error {
	return e.node("Extract "+string(x.Unit), x.From)
}

func (e *explainer) VisitSubqueryExpr(s *ast.SubqueryExpr) error {
	return e.node("Subquery", s.Query)
}

func (e *explainer) VisitExistsExpr(x *ast.ExistsExpr) error {
	return e.node("Exists", x.Query)
}
