// Package ast defines the abstract syntax tree for HogQL.
//
// The node set is closed: every concrete type is listed in Visitor, and a
// consumer that implements Visitor is forced by the compiler to handle new
// node types. Trees are strict: a node is owned by exactly one parent.
package ast

import (
	"github.com/tmilicic/posthog/token"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() token.Position
	Accept(v Visitor) error
}

// Statement is the interface implemented by all statement nodes.
type Statement interface {
	Node
	statementNode()
}

// Expression is the interface implemented by all expression nodes.
type Expression interface {
	Node
	expressionNode()
}

// SelectStatement is a SELECT query or a UNION of them.
type SelectStatement interface {
	Statement
	selectNode()
}

// TableSource is an element of a FROM clause: a single table or a join.
type TableSource interface {
	Node
	tableSourceNode()
}

// -----------------------------------------------------------------------------
// Queries

// SelectUnionQuery represents queries combined with UNION.
type SelectUnionQuery struct {
	Position token.Position    `json:"-"`
	Selects  []SelectStatement `json:"selects"`
	Modes    []UnionMode       `json:"modes"` // Modes[i] joins Selects[i] and Selects[i+1]
}

// UnionMode is the set semantics of a UNION.
type UnionMode string

const (
	UnionAll      UnionMode = "ALL"
	UnionDistinct UnionMode = "DISTINCT"
)

// SelectQuery represents a SELECT statement.
type SelectQuery struct {
	Position   token.Position   `json:"-"`
	With       []*CTE           `json:"with,omitempty"`
	Distinct   bool             `json:"distinct,omitempty"`
	Columns    []Expression     `json:"columns"`
	From       TableSource      `json:"from,omitempty"`
	ArrayJoin  *ArrayJoinClause `json:"array_join,omitempty"`
	PreWhere   Expression       `json:"prewhere,omitempty"`
	Where      Expression       `json:"where,omitempty"`
	GroupBy    []Expression     `json:"group_by,omitempty"`
	GroupingBy GroupingModifier `json:"grouping_modifier,omitempty"`
	WithTotals bool             `json:"with_totals,omitempty"`
	Having     Expression       `json:"having,omitempty"`
	Window     []*WindowDef     `json:"window,omitempty"`
	OrderBy    []*OrderExpr     `json:"order_by,omitempty"`
	LimitBy    *LimitByClause   `json:"limit_by,omitempty"`
	Limit      Expression       `json:"limit,omitempty"`
	Offset     Expression       `json:"offset,omitempty"`
	WithTies   bool             `json:"with_ties,omitempty"`
	Settings   []*Setting       `json:"settings,omitempty"`
}

// GroupingModifier is ROLLUP or CUBE on a GROUP BY.
type GroupingModifier string

const (
	GroupingNone   GroupingModifier = ""
	GroupingRollup GroupingModifier = "ROLLUP"
	GroupingCube   GroupingModifier = "CUBE"
)

// CTE is one entry of a WITH clause: either `name AS (subquery)` or the
// ClickHouse form `expr AS name`.
type CTE struct {
	Position token.Position  `json:"-"`
	Name     *Identifier     `json:"name"`
	Query    SelectStatement `json:"query,omitempty"`
	Expr     Expression      `json:"expr,omitempty"`
}

// TableExpr is a single table in a FROM clause.
type TableExpr struct {
	Position token.Position `json:"-"`
	Table    Expression     `json:"table"` // *Field, *SubqueryExpr, *Call or *Placeholder
	Alias    *Identifier    `json:"alias,omitempty"`
	Final    bool           `json:"final,omitempty"`
	Sample   *SampleClause  `json:"sample,omitempty"`
}

// SampleClause represents SAMPLE ratio [OFFSET offset].
type SampleClause struct {
	Position token.Position `json:"-"`
	Ratio    Expression     `json:"ratio"`
	Offset   Expression     `json:"offset,omitempty"`
}

// JoinExpr joins two table sources. Join trees are left-deep:
// A JOIN B JOIN C is JoinExpr{Left: JoinExpr{A, B}, Right: C}.
type JoinExpr struct {
	Position   token.Position  `json:"-"`
	Left       TableSource     `json:"left"`
	Right      TableSource     `json:"right"`
	Kind       JoinKind        `json:"kind"`
	Strictness JoinStrictness  `json:"strictness,omitempty"`
	Global     bool            `json:"global,omitempty"`
	Constraint *JoinConstraint `json:"constraint,omitempty"`
}

// JoinKind is the side of a join.
type JoinKind string

const (
	JoinInner JoinKind = "INNER"
	JoinLeft  JoinKind = "LEFT"
	JoinRight JoinKind = "RIGHT"
	JoinFull  JoinKind = "FULL"
	JoinCross JoinKind = "CROSS"
)

// JoinStrictness is the row matching mode of a join. ANTI and SEMI joins
// are LEFT or RIGHT joins with the corresponding strictness.
type JoinStrictness string

const (
	StrictnessNone JoinStrictness = ""
	StrictnessAny  JoinStrictness = "ANY"
	StrictnessAll  JoinStrictness = "ALL"
	StrictnessAsof JoinStrictness = "ASOF"
	StrictnessSemi JoinStrictness = "SEMI"
	StrictnessAnti JoinStrictness = "ANTI"
)

// JoinConstraint is ON expr or USING columns.
type JoinConstraint struct {
	Position token.Position `json:"-"`
	On       Expression     `json:"on,omitempty"`
	Using    []*Identifier  `json:"using,omitempty"`
}

// ArrayJoinClause represents [LEFT] ARRAY JOIN.
type ArrayJoinClause struct {
	Position token.Position `json:"-"`
	Left     bool           `json:"left,omitempty"`
	Exprs    []Expression   `json:"exprs"`
}

// OrderExpr is one ORDER BY entry. Nulls is always the effective policy;
// NullsExplicit records whether the query spelled it out.
type OrderExpr struct {
	Position      token.Position `json:"-"`
	Expr          Expression     `json:"expr"`
	Direction     OrderDirection `json:"direction"`
	Nulls         NullsOrder     `json:"nulls"`
	NullsExplicit bool           `json:"nulls_explicit,omitempty"`
}

// OrderDirection is ASC or DESC.
type OrderDirection string

const (
	Asc  OrderDirection = "ASC"
	Desc OrderDirection = "DESC"
)

// NullsOrder is NULLS FIRST or NULLS LAST.
type NullsOrder string

const (
	NullsFirst NullsOrder = "FIRST"
	NullsLast  NullsOrder = "LAST"
)

// LimitByClause represents LIMIT n [OFFSET m] BY exprs.
type LimitByClause struct {
	Position token.Position `json:"-"`
	Limit    Expression     `json:"limit"`
	Offset   Expression     `json:"offset,omitempty"`
	By       []Expression   `json:"by"`
}

// WindowDef is a named window in the WINDOW clause.
type WindowDef struct {
	Position token.Position `json:"-"`
	Name     *Identifier    `json:"name"`
	Spec     *WindowSpec    `json:"spec"`
}

// WindowSpec is the parenthesized part of OVER (...) and WINDOW w AS (...).
type WindowSpec struct {
	Position    token.Position `json:"-"`
	Base        *Identifier    `json:"base,omitempty"` // OVER (w ORDER BY ...)
	PartitionBy []Expression   `json:"partition_by,omitempty"`
	OrderBy     []*OrderExpr   `json:"order_by,omitempty"`
	Frame       *WindowFrame   `json:"frame,omitempty"`
}

// WindowFrame is ROWS|RANGE start or ROWS|RANGE BETWEEN start AND end.
type WindowFrame struct {
	Position token.Position `json:"-"`
	Unit     FrameUnit      `json:"unit"`
	Start    *FrameBound    `json:"start"`
	End      *FrameBound    `json:"end,omitempty"`
}

// FrameUnit is ROWS or RANGE.
type FrameUnit string

const (
	FrameRows  FrameUnit = "ROWS"
	FrameRange FrameUnit = "RANGE"
)

// FrameBound is one end of a window frame.
type FrameBound struct {
	Position token.Position `json:"-"`
	Kind     BoundKind      `json:"kind"`
	Offset   Expression     `json:"offset,omitempty"` // set for OffsetPreceding and OffsetFollowing
}

// BoundKind enumerates frame bounds.
type BoundKind string

const (
	BoundCurrentRow         BoundKind = "CURRENT ROW"
	BoundUnboundedPreceding BoundKind = "UNBOUNDED PRECEDING"
	BoundUnboundedFollowing BoundKind = "UNBOUNDED FOLLOWING"
	BoundPreceding          BoundKind = "PRECEDING"
	BoundFollowing          BoundKind = "FOLLOWING"
)

// Setting is name = value in a SETTINGS clause or SET statement.
type Setting struct {
	Position token.Position `json:"-"`
	Name     *Identifier    `json:"name"`
	Value    Expression     `json:"value"`
}

func (s *SelectUnionQuery) Pos() token.Position { return s.Position }
func (s *SelectUnionQuery) statementNode()      {}
func (s *SelectUnionQuery) selectNode()         {}

func (s *SelectQuery) Pos() token.Position { return s.Position }
func (s *SelectQuery) statementNode()      {}
func (s *SelectQuery) selectNode()         {}

func (c *CTE) Pos() token.Position             { return c.Position }
func (t *TableExpr) Pos() token.Position       { return t.Position }
func (t *TableExpr) tableSourceNode()          {}
func (s *SampleClause) Pos() token.Position    { return s.Position }
func (j *JoinExpr) Pos() token.Position        { return j.Position }
func (j *JoinExpr) tableSourceNode()           {}
func (j *JoinConstraint) Pos() token.Position  { return j.Position }
func (a *ArrayJoinClause) Pos() token.Position { return a.Position }
func (o *OrderExpr) Pos() token.Position       { return o.Position }
func (l *LimitByClause) Pos() token.Position   { return l.Position }
func (w *WindowDef) Pos() token.Position       { return w.Position }
func (w *WindowSpec) Pos() token.Position      { return w.Position }
func (w *WindowFrame) Pos() token.Position     { return w.Position }
func (f *FrameBound) Pos() token.Position      { return f.Position }
func (s *Setting) Pos() token.Position         { return s.Position }
