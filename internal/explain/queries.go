package explain

import (
	"strings"

	"github.com/tmilicic/posthog/ast"
)

func (e *explainer) VisitSelectUnionQuery(q *ast.SelectUnionQuery) error {
	modes := make([]string, len(q.Modes))
	for i, m := range q.Modes {
		modes[i] = string(m)
	}
	nodes := make([]ast.Node, len(q.Selects))
	for i, s := range q.Selects {
		nodes[i] = s
	}
	return e.node(label("SelectUnionQuery", strings.Join(modes, ", ")), nodes...)
}

func (e *explainer) VisitSelectQuery(q *ast.SelectQuery) error {
	var with, window []ast.Node
	for _, cte := range q.With {
		with = append(with, cte)
	}
	for _, w := range q.Window {
		window = append(window, w)
	}
	var from, arrayJoin, limitBy []ast.Node
	if q.From != nil {
		from = []ast.Node{q.From}
	}
	if q.ArrayJoin != nil {
		arrayJoin = []ast.Node{q.ArrayJoin}
	}
	if q.LimitBy != nil {
		limitBy = []ast.Node{q.LimitBy}
	}

	return e.sections(
		label("SelectQuery",
			flag(q.Distinct, "DISTINCT"),
			string(q.GroupingBy),
			flag(q.WithTotals, "TOTALS"),
			flag(q.WithTies, "TIES")),
		section{"With", with},
		section{"Columns", exprs(q.Columns)},
		section{"From", from},
		section{"ArrayJoin", arrayJoin},
		section{"PreWhere", expr(q.PreWhere)},
		section{"Where", expr(q.Where)},
		section{"GroupBy", exprs(q.GroupBy)},
		section{"Having", expr(q.Having)},
		section{"Window", window},
		section{"OrderBy", orderExprs(q.OrderBy)},
		section{"LimitBy", limitBy},
		section{"Limit", expr(q.Limit)},
		section{"Offset", expr(q.Offset)},
		section{"Settings", settings(q.Settings)},
	)
}

func (e *explainer) VisitCTE(c *ast.CTE) error {
	if c.Query != nil {
		return e.node("CTE "+c.Name.Name, c.Query)
	}
	return e.node("CTE "+c.Name.Name, c.Expr)
}

func (e *explainer) VisitTableExpr(t *ast.TableExpr) error {
	alias := ""
	if t.Alias != nil {
		alias = "AS " + t.Alias.Name
	}
	children := []ast.Node{t.Table}
	if t.Sample != nil {
		children = append(children, t.Sample)
	}
	return e.node(label("TableExpr", alias, flag(t.Final, "FINAL")), children...)
}

func (e *explainer) VisitSampleClause(s *ast.SampleClause) error {
	return e.node("Sample", ast.Children(s)...)
}

func (e *explainer) VisitJoinExpr(j *ast.JoinExpr) error {
	children := []ast.Node{j.Left, j.Right}
	if j.Constraint != nil {
		children = append(children, j.Constraint)
	}
	return e.node(label("JoinExpr", flag(j.Global, "GLOBAL"), string(j.Strictness), string(j.Kind)), children...)
}

func (e *explainer) VisitJoinConstraint(c *ast.JoinConstraint) error {
	if c.On != nil {
		return e.node("On", c.On)
	}
	return e.node("Using " + identNames(c.Using))
}

func (e *explainer) VisitArrayJoinClause(a *ast.ArrayJoinClause) error {
	return e.node(label(flag(a.Left, "Left")+"ArrayJoin"), exprs(a.Exprs)...)
}

func (e *explainer) VisitOrderExpr(o *ast.OrderExpr) error {
	nulls := ""
	if o.NullsExplicit {
		nulls = "NULLS " + string(o.Nulls)
	}
	return e.node(label("OrderExpr", string(o.Direction), nulls), o.Expr)
}

func (e *explainer) VisitLimitByClause(l *ast.LimitByClause) error {
	return e.sections("LimitBy",
		section{"Limit", expr(l.Limit)},
		section{"Offset", expr(l.Offset)},
		section{"By", exprs(l.By)},
	)
}

func (e *explainer) VisitWindowDef(w *ast.WindowDef) error {
	return e.node("WindowDef "+w.Name.Name, w.Spec)
}

func (e *explainer) VisitWindowSpec(w *ast.WindowSpec) error {
	base := ""
	if w.Base != nil {
		base = w.Base.Name
	}
	var frame []ast.Node
	if w.Frame != nil {
		frame = []ast.Node{w.Frame}
	}
	return e.sections(label("WindowSpec", base),
		section{"PartitionBy", exprs(w.PartitionBy)},
		section{"OrderBy", orderExprs(w.OrderBy)},
		section{"Frame", frame},
	)
}

func (e *explainer) VisitWindowFrame(w *ast.WindowFrame) error {
	return e.node("WindowFrame "+string(w.Unit), ast.Children(w)...)
}

func (e *explainer) VisitFrameBound(f *ast.FrameBound) error {
	return e.node("FrameBound "+string(f.Kind), expr(f.Offset)...)
}

func (e *explainer) VisitSetting(s *ast.Setting) error {
	return e.node("Setting "+s.Name.Name, s.Value)
}
