package ast

import (
	"strconv"
	"strings"

	"github.com/tmilicic/posthog/token"
)

// -----------------------------------------------------------------------------
// Literals

// LiteralKind is the type of a literal.
type LiteralKind string

const (
	LiteralInteger LiteralKind = "Integer"
	LiteralFloat   LiteralKind = "Float"
	LiteralString  LiteralKind = "String"
	LiteralBoolean LiteralKind = "Boolean"
	LiteralNull    LiteralKind = "Null"
)

// NumberBase is the base an integer literal was written in.
type NumberBase int

const (
	BaseDecimal NumberBase = 10
	BaseOctal   NumberBase = 8
	BaseHex     NumberBase = 16
)

// Literal is a scalar constant. Numbers keep their source text and base so
// no precision is lost before a later stage picks a type for them.
type Literal struct {
	Position token.Position `json:"-"`
	Kind     LiteralKind    `json:"kind"`
	Text     string         `json:"text"` // decoded string, or number text as written
	Base     NumberBase     `json:"base,omitempty"`
}

// Int64 converts an integer literal, honoring its base.
func (l *Literal) Int64() (int64, error) {
	return strconv.ParseInt(l.digits(), int(l.Base), 64)
}

// Uint64 converts an integer literal that may not fit in an int64.
func (l *Literal) Uint64() (uint64, error) {
	return strconv.ParseUint(l.digits(), int(l.Base), 64)
}

// Float64 converts a numeric literal to a float. inf and nan are accepted.
func (l *Literal) Float64() (float64, error) {
	if l.Kind == LiteralInteger {
		n, err := l.Uint64()
		return float64(n), err
	}
	return strconv.ParseFloat(l.Text, 64)
}

// Bool returns the value of a boolean literal.
func (l *Literal) Bool() bool {
	return strings.EqualFold(l.Text, "true")
}

func (l *Literal) digits() string {
	switch l.Base {
	case BaseHex:
		return l.Text[2:]
	case BaseOctal:
		return l.Text[1:]
	}
	return l.Text
}

// Placeholder is a {name} slot filled in by the caller before execution.
type Placeholder struct {
	Position token.Position `json:"-"`
	Name     string         `json:"name"`
}

// ArrayExpr is an array literal [a, b, c].
type ArrayExpr struct {
	Position token.Position `json:"-"`
	Elements []Expression   `json:"elements"`
}

// TupleExpr is a tuple literal (a, b) or the one-element form (a,).
type TupleExpr struct {
	Position token.Position `json:"-"`
	Elements []Expression   `json:"elements"`
}

// DictExpr is a dictionary literal {key: value, ...}.
type DictExpr struct {
	Position token.Position `json:"-"`
	Items    []*DictItem    `json:"items"`
}

// DictItem is one key: value pair of a DictExpr.
type DictItem struct {
	Position token.Position `json:"-"`
	Key      Expression     `json:"key"`
	Value    Expression     `json:"value"`
}

// -----------------------------------------------------------------------------
// Names

// Identifier is a single name. Name keeps the source casing; Quoted tells
// whether it was written inside identifier quotes.
type Identifier struct {
	Position token.Position `json:"-"`
	Name     string         `json:"name"`
	Quoted   bool           `json:"quoted,omitempty"`
}

// Field is a column reference, possibly qualified: properties.$browser is
// Field{Chain: [properties, $browser]}.
type Field struct {
	Position token.Position `json:"-"`
	Chain    []*Identifier  `json:"chain"`
}

// Names returns the chain as plain strings.
func (f *Field) Names() []string {
	names := make([]string, len(f.Chain))
	for i, id := range f.Chain {
		names[i] = id.Name
	}
	return names
}

// Asterisk is * or table.*.
type Asterisk struct {
	Position token.Position `json:"-"`
	Table    []*Identifier  `json:"table,omitempty"`
}

// Alias names an expression: expr AS name.
type Alias struct {
	Position token.Position `json:"-"`
	Expr     Expression     `json:"expr"`
	Name     *Identifier    `json:"name"`
}

// -----------------------------------------------------------------------------
// Operators

// BinaryOp is an arithmetic, concatenation or null-coalescing operator.
type BinaryOp string

const (
	OpAdd     BinaryOp = "+"
	OpSub     BinaryOp = "-"
	OpMul     BinaryOp = "*"
	OpDiv     BinaryOp = "/"
	OpMod     BinaryOp = "%"
	OpConcat  BinaryOp = "||"
	OpNullish BinaryOp = "??"
)

// BinaryExpr represents left op right.
type BinaryExpr struct {
	Position token.Position `json:"-"`
	Op       BinaryOp       `json:"op"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

// CompareOp is a comparison operator.
type CompareOp string

const (
	OpEq        CompareOp = "="
	OpNotEq     CompareOp = "!="
	OpLt        CompareOp = "<"
	OpLtEq      CompareOp = "<="
	OpGt        CompareOp = ">"
	OpGtEq      CompareOp = ">="
	OpLike      CompareOp = "LIKE"
	OpNotLike   CompareOp = "NOT LIKE"
	OpILike     CompareOp = "ILIKE"
	OpNotILike  CompareOp = "NOT ILIKE"
	OpRegex     CompareOp = "=~"
	OpNotRegex  CompareOp = "!~"
	OpIRegex    CompareOp = "=~*"
	OpNotIRegex CompareOp = "!~*"
)

// CompareExpr represents left op right for comparison operators.
type CompareExpr struct {
	Position token.Position `json:"-"`
	Op       CompareOp      `json:"op"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

// InExpr is expr [GLOBAL] [NOT] IN target, where target is a TupleExpr,
// ArrayExpr, SubqueryExpr, Field (a table) or Placeholder.
type InExpr struct {
	Position token.Position `json:"-"`
	Expr     Expression     `json:"expr"`
	Target   Expression     `json:"target"`
	Not      bool           `json:"not,omitempty"`
	Global   bool           `json:"global,omitempty"`
}

// BetweenExpr is expr [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	Position token.Position `json:"-"`
	Expr     Expression     `json:"expr"`
	Low      Expression     `json:"low"`
	High     Expression     `json:"high"`
	Not      bool           `json:"not,omitempty"`
}

// IsNullExpr is expr IS [NOT] NULL.
type IsNullExpr struct {
	Position token.Position `json:"-"`
	Expr     Expression     `json:"expr"`
	Not      bool           `json:"not,omitempty"`
}

// And is a chain of AND operands.
type And struct {
	Position token.Position `json:"-"`
	Exprs    []Expression   `json:"exprs"`
}

// Or is a chain of OR operands.
type Or struct {
	Position token.Position `json:"-"`
	Exprs    []Expression   `json:"exprs"`
}

// Not is NOT expr.
type Not struct {
	Position token.Position `json:"-"`
	Expr     Expression     `json:"expr"`
}

// UnaryOp is a prefix sign.
type UnaryOp string

const (
	OpNeg  UnaryOp = "-"
	OpPlus UnaryOp = "+"
)

// UnaryExpr is -expr or +expr.
type UnaryExpr struct {
	Position token.Position `json:"-"`
	Op       UnaryOp        `json:"op"`
	Expr     Expression     `json:"expr"`
}

// TernaryExpr is cond ? then : else.
type TernaryExpr struct {
	Position token.Position `json:"-"`
	Cond     Expression     `json:"cond"`
	Then     Expression     `json:"then"`
	Else     Expression     `json:"else"`
}

// ArrayAccess is array[index].
type ArrayAccess struct {
	Position token.Position `json:"-"`
	Array    Expression     `json:"array"`
	Index    Expression     `json:"index"`
}

// TupleAccess is tuple.N with a one-based literal index.
type TupleAccess struct {
	Position token.Position `json:"-"`
	Tuple    Expression     `json:"tuple"`
	Index    int64          `json:"index"`
}

// -----------------------------------------------------------------------------
// Calls and special forms

// Call is a function call. Params holds the first argument list of a
// parametric call such as quantile(0.9)(x). OverName and Over are
// mutually exclusive.
type Call struct {
	Position token.Position `json:"-"`
	Name     string         `json:"name"`
	Params   []Expression   `json:"params,omitempty"`
	Args     []Expression   `json:"args"`
	Distinct bool           `json:"distinct,omitempty"`
	OverName *Identifier    `json:"over_name,omitempty"`
	Over     *WindowSpec    `json:"over,omitempty"`
}

// Parametric reports whether the call has a parameter list.
func (c *Call) Parametric() bool { return c.Params != nil }

// Lambda is x -> body or (x, y) -> body.
type Lambda struct {
	Position token.Position `json:"-"`
	Params   []*Identifier  `json:"params"`
	Body     Expression     `json:"body"`
}

// CaseExpr is CASE [operand] WHEN ... THEN ... [ELSE ...] END.
type CaseExpr struct {
	Position token.Position `json:"-"`
	Operand  Expression     `json:"operand,omitempty"`
	Whens    []*WhenClause  `json:"whens"`
	Else     Expression     `json:"else,omitempty"`
}

// WhenClause is one WHEN cond THEN result branch.
type WhenClause struct {
	Position token.Position `json:"-"`
	Cond     Expression     `json:"cond"`
	Result   Expression     `json:"result"`
}

// CastExpr is CAST(expr AS type) or expr::type.
type CastExpr struct {
	Position token.Position `json:"-"`
	Expr     Expression     `json:"expr"`
	Type     *DataType      `json:"type"`
	Operator bool           `json:"operator,omitempty"` // written with ::
}

// DataType is a type name with optional arguments: Nullable(String),
// Decimal(10, 2), Array(Tuple(String, UInt8)). Arguments are nested
// DataTypes or literals.
type DataType struct {
	Position token.Position `json:"-"`
	Name     string         `json:"name"`
	Args     []Expression   `json:"args,omitempty"`
}

// IntervalUnit is a time unit of INTERVAL and EXTRACT.
type IntervalUnit string

const (
	UnitSecond  IntervalUnit = "SECOND"
	UnitMinute  IntervalUnit = "MINUTE"
	UnitHour    IntervalUnit = "HOUR"
	UnitDay     IntervalUnit = "DAY"
	UnitWeek    IntervalUnit = "WEEK"
	UnitMonth   IntervalUnit = "MONTH"
	UnitQuarter IntervalUnit = "QUARTER"
	UnitYear    IntervalUnit = "YEAR"
)

// ParseIntervalUnit maps a unit word, singular or plural, to its unit.
func ParseIntervalUnit(s string) (IntervalUnit, bool) {
	u := strings.TrimSuffix(strings.ToUpper(s), "S")
	switch IntervalUnit(u) {
	case UnitSecond, UnitMinute, UnitHour, UnitDay, UnitWeek, UnitMonth, UnitQuarter, UnitYear:
		return IntervalUnit(u), true
	}
	return "", false
}

// IntervalExpr is INTERVAL value unit.
type IntervalExpr struct {
	Position token.Position `json:"-"`
	Value    Expression     `json:"value"`
	Unit     IntervalUnit   `json:"unit"`
}

// ExtractExpr is EXTRACT(unit FROM expr).
type ExtractExpr struct {
	Position token.Position `json:"-"`
	Unit     IntervalUnit   `json:"unit"`
	From     Expression     `json:"from"`
}

// SubqueryExpr is a parenthesized query used as an expression or table.
type SubqueryExpr struct {
	Position token.Position  `json:"-"`
	Query    SelectStatement `json:"query"`
}

// ExistsExpr is EXISTS (subquery).
type ExistsExpr struct {
	Position token.Position  `json:"-"`
	Query    SelectStatement `json:"query"`
}

func (l *Literal) Pos() token.Position { return l.Position }
func (l *Literal) expressionNode()     {}

func (p *Placeholder) Pos() token.Position { return p.Position }
func (p *Placeholder) expressionNode()     {}

func (a *ArrayExpr) Pos() token.Position { return a.Position }
func (a *ArrayExpr) expressionNode()     {}

func (t *TupleExpr) Pos() token.Position { return t.Position }
func (t *TupleExpr) expressionNode()     {}

func (d *DictExpr) Pos() token.Position { return d.Position }
func (d *DictExpr) expressionNode()     {}

func (d *DictItem) Pos() token.Position { return d.Position }

func (i *Identifier) Pos() token.Position { return i.Position }

func (f *Field) Pos() token.Position { return f.Position }
func (f *Field) expressionNode()     {}

func (a *Asterisk) Pos() token.Position { return a.Position }
func (a *Asterisk) expressionNode()     {}

func (a *Alias) Pos() token.Position { return a.Position }
func (a *Alias) expressionNode()     {}

func (b *BinaryExpr) Pos() token.Position { return b.Position }
func (b *BinaryExpr) expressionNode()     {}

func (c *CompareExpr) Pos() token.Position { return c.Position }
func (c *CompareExpr) expressionNode()     {}

func (i *InExpr) Pos() token.Position { return i.Position }
func (i *InExpr) expressionNode()     {}

func (b *BetweenExpr) Pos() token.Position { return b.Position }
func (b *BetweenExpr) expressionNode()     {}

func (i *IsNullExpr) Pos() token.Position { return i.Position }
func (i *IsNullExpr) expressionNode()     {}

func (a *And) Pos() token.Position { return a.Position }
func (a *And) expressionNode()     {}

func (o *Or) Pos() token.Position { return o.Position }
func (o *Or) expressionNode()     {}

func (n *Not) Pos() token.Position { return n.Position }
func (n *Not) expressionNode()     {}

func (u *UnaryExpr) Pos() token.Position { return u.Position }
func (u *UnaryExpr) expressionNode()     {}

func (t *TernaryExpr) Pos() token.Position { return t.Position }
func (t *TernaryExpr) expressionNode()     {}

func (a *ArrayAccess) Pos() token.Position { return a.Position }
func (a *ArrayAccess) expressionNode()     {}

func (t *TupleAccess) Pos() token.Position { return t.Position }
func (t *TupleAccess) expressionNode()     {}

func (c *Call) Pos() token.Position { return c.Position }
func (c *Call) expressionNode()     {}

func (l *Lambda) Pos() token.Position { return l.Position }
func (l *Lambda) expressionNode()     {}

func (c *CaseExpr) Pos() token.Position { return c.Position }
func (c *CaseExpr) expressionNode()     {}

func (w *WhenClause) Pos() token.Position { return w.Position }

func (c *CastExpr) Pos() token.Position { return c.Position }
func (c *CastExpr) expressionNode()     {}

func (d *DataType) Pos() token.Position { return d.Position }
func (d *DataType) expressionNode()     {}

func (i *IntervalExpr) Pos() token.Position { return i.Position }
func (i *IntervalExpr) expressionNode()     {}

func (e *ExtractExpr) Pos() token.Position { return e.Position }
func (e *ExtractExpr) expressionNode()     {}

func (s *SubqueryExpr) Pos() token.Position { return s.Position }
func (s *SubqueryExpr) expressionNode()     {}

func (e *ExistsExpr) Pos() token.Position { return e.Position }
func (e *ExistsExpr) expressionNode()     {}
