package ast

import "fmt"

// Inspect traverses the tree rooted at node in pre-order. If f returns
// false for a node, its children are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, c := range Children(node) {
		Inspect(c, f)
	}
}

// Children returns the direct children of n in source order. Absent
// optional children are omitted.
func Children(n Node) []Node {
	var c children
	switch n := n.(type) {
	// Queries
	case *SelectUnionQuery:
		for _, s := range n.Selects {
			c.node(s)
		}
	case *SelectQuery:
		for _, cte := range n.With {
			c.node(cte)
		}
		c.exprs(n.Columns)
		if n.From != nil {
			c.node(n.From)
		}
		if n.ArrayJoin != nil {
			c.node(n.ArrayJoin)
		}
		c.expr(n.PreWhere)
		c.expr(n.Where)
		c.exprs(n.GroupBy)
		c.expr(n.Having)
		for _, w := range n.Window {
			c.node(w)
		}
		c.orderBy(n.OrderBy)
		if n.LimitBy != nil {
			c.node(n.LimitBy)
		}
		c.expr(n.Limit)
		c.expr(n.Offset)
		c.settings(n.Settings)
	case *CTE:
		c.ident(n.Name)
		if n.Query != nil {
			c.node(n.Query)
		}
		c.expr(n.Expr)
	case *TableExpr:
		c.expr(n.Table)
		c.ident(n.Alias)
		if n.Sample != nil {
			c.node(n.Sample)
		}
	case *SampleClause:
		c.expr(n.Ratio)
		c.expr(n.Offset)
	case *JoinExpr:
		c.node(n.Left)
		c.node(n.Right)
		if n.Constraint != nil {
			c.node(n.Constraint)
		}
	case *JoinConstraint:
		c.expr(n.On)
		c.idents(n.Using)
	case *ArrayJoinClause:
		c.exprs(n.Exprs)
	case *OrderExpr:
		c.expr(n.Expr)
	case *LimitByClause:
		c.expr(n.Limit)
		c.expr(n.Offset)
		c.exprs(n.By)
	case *WindowDef:
		c.ident(n.Name)
		if n.Spec != nil {
			c.node(n.Spec)
		}
	case *WindowSpec:
		c.ident(n.Base)
		c.exprs(n.PartitionBy)
		c.orderBy(n.OrderBy)
		if n.Frame != nil {
			c.node(n.Frame)
		}
	case *WindowFrame:
		if n.Start != nil {
			c.node(n.Start)
		}
		if n.End != nil {
			c.node(n.End)
		}
	case *FrameBound:
		c.expr(n.Offset)
	case *Setting:
		c.ident(n.Name)
		c.expr(n.Value)

	// Expressions
	case *Literal, *Placeholder, *Identifier:
	case *ArrayExpr:
		c.exprs(n.Elements)
	case *TupleExpr:
		c.exprs(n.Elements)
	case *DictExpr:
		for _, item := range n.Items {
			c.node(item)
		}
	case *DictItem:
		c.expr(n.Key)
		c.expr(n.Value)
	case *Field:
		c.idents(n.Chain)
	case *Asterisk:
		c.idents(n.Table)
	case *Alias:
		c.expr(n.Expr)
		c.ident(n.Name)
	case *BinaryExpr:
		c.expr(n.Left)
		c.expr(n.Right)
	case *CompareExpr:
		c.expr(n.Left)
		c.expr(n.Right)
	case *InExpr:
		c.expr(n.Expr)
		c.expr(n.Target)
	case *BetweenExpr:
		c.expr(n.Expr)
		c.expr(n.Low)
		c.expr(n.High)
	case *IsNullExpr:
		c.expr(n.Expr)
	case *And:
		c.exprs(n.Exprs)
	case *Or:
		c.exprs(n.Exprs)
	case *Not:
		c.expr(n.Expr)
	case *UnaryExpr:
		c.expr(n.Expr)
	case *TernaryExpr:
		c.expr(n.Cond)
		c.expr(n.Then)
		c.expr(n.Else)
	case *ArrayAccess:
		c.expr(n.Array)
		c.expr(n.Index)
	case *TupleAccess:
		c.expr(n.Tuple)
	case *Call:
		c.exprs(n.Params)
		c.exprs(n.Args)
		c.ident(n.OverName)
		if n.Over != nil {
			c.node(n.Over)
		}
	case *Lambda:
		c.idents(n.Params)
		c.expr(n.Body)
	case *CaseExpr:
		c.expr(n.Operand)
		for _, w := range n.Whens {
			c.node(w)
		}
		c.expr(n.Else)
	case *WhenClause:
		c.expr(n.Cond)
		c.expr(n.Result)
	case *CastExpr:
		c.expr(n.Expr)
		if n.Type != nil {
			c.node(n.Type)
		}
	case *DataType:
		c.exprs(n.Args)
	case *IntervalExpr:
		c.expr(n.Value)
	case *ExtractExpr:
		c.expr(n.From)
	case *SubqueryExpr:
		c.node(n.Query)
	case *ExistsExpr:
		c.node(n.Query)

	// Statements
	case *QualifiedName:
		c.idents(n.Parts)
	case *InsertQuery:
		c.qname(n.Table)
		c.idents(n.Columns)
		for _, row := range n.Values {
			c.node(row)
		}
		if n.Select != nil {
			c.node(n.Select)
		}
	case *CreateTableQuery:
		c.qname(n.Name)
		for _, col := range n.Columns {
			c.node(col)
		}
		if n.Engine != nil {
			c.node(n.Engine)
		}
		c.exprs(n.OrderBy)
		c.expr(n.PartitionBy)
		c.exprs(n.PrimaryKey)
		c.settings(n.Settings)
		if n.AsSelect != nil {
			c.node(n.AsSelect)
		}
	case *ColumnDef:
		c.ident(n.Name)
		if n.Type != nil {
			c.node(n.Type)
		}
		c.expr(n.Default)
	case *CreateDatabaseQuery:
		c.ident(n.Name)
		if n.Engine != nil {
			c.node(n.Engine)
		}
	case *CreateViewQuery:
		c.qname(n.Name)
		c.qname(n.To)
		if n.Query != nil {
			c.node(n.Query)
		}
	case *AlterTableQuery:
		c.qname(n.Table)
		for _, cmd := range n.Commands {
			c.node(cmd)
		}
	case *AlterCommand:
		if n.Column != nil {
			c.node(n.Column)
		}
		c.ident(n.Name)
		c.ident(n.NewName)
		for _, a := range n.Assignments {
			c.node(a)
		}
		c.expr(n.Where)
	case *Assignment:
		c.ident(n.Column)
		c.expr(n.Value)
	case *DropQuery:
		c.qname(n.Name)
	case *TruncateQuery:
		c.qname(n.Table)
	case *RenameQuery:
		for _, pair := range n.Pairs {
			c.node(pair)
		}
	case *RenamePair:
		c.qname(n.From)
		c.qname(n.To)
	case *UseQuery:
		c.ident(n.Database)
	case *DescribeQuery:
		c.qname(n.Table)
	case *ShowQuery:
		c.ident(n.From)
		if n.Like != nil {
			c.node(n.Like)
		}
		c.qname(n.Table)
	case *ExplainQuery:
		c.node(n.Statement)
	case *SetQuery:
		c.settings(n.Settings)
	case *OptimizeQuery:
		c.qname(n.Table)
	case *SystemQuery:
	case *KillQuery:
		c.expr(n.Where)
	case *AttachQuery:
		c.qname(n.Name)
	default:
		panic(fmt.Sprintf("ast.Children: unexpected node type %T", n))
	}
	return c
}

// children collects child nodes, dropping nil pointers before they are
// boxed into a non-nil interface.
type children []Node

func (c *children) node(n Node) { *c = append(*c, n) }

func (c *children) expr(e Expression) {
	if e != nil {
		*c = append(*c, e)
	}
}

func (c *children) exprs(es []Expression) {
	for _, e := range es {
		c.expr(e)
	}
}

func (c *children) ident(id *Identifier) {
	if id != nil {
		*c = append(*c, id)
	}
}

func (c *children) idents(ids []*Identifier) {
	for _, id := range ids {
		c.ident(id)
	}
}

func (c *children) qname(q *QualifiedName) {
	if q != nil {
		*c = append(*c, q)
	}
}

func (c *children) orderBy(os []*OrderExpr) {
	for _, o := range os {
		*c = append(*c, o)
	}
}

func (c *children) settings(ss []*Setting) {
	for _, s := range ss {
		*c = append(*c, s)
	}
}
