package ast

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmilicic/posthog/token"
)

func field(names ...string) *Field {
	f := &Field{}
	for _, n := range names {
		f.Chain = append(f.Chain, &Identifier{Name: n})
	}
	return f
}

func TestInspectOrder(t *testing.T) {
	// SELECT a, count() FROM events WHERE a = 1
	sel := &SelectQuery{
		Columns: []Expression{
			field("a"),
			&Call{Name: "count"},
		},
		From: &TableExpr{Table: field("events")},
		Where: &CompareExpr{
			Op:    OpEq,
			Left:  field("a"),
			Right: &Literal{Kind: LiteralInteger, Text: "1", Base: BaseDecimal},
		},
	}

	var got []string
	Inspect(sel, func(n Node) bool {
		got = append(got, fmt.Sprintf("%T", n))
		return true
	})
	assert.Equal(t, []string{
		"*ast.SelectQuery",
		"*ast.Field", "*ast.Identifier",
		"*ast.Call",
		"*ast.TableExpr", "*ast.Field", "*ast.Identifier",
		"*ast.CompareExpr", "*ast.Field", "*ast.Identifier", "*ast.Literal",
	}, got)
}

func TestInspectPrune(t *testing.T) {
	expr := &And{Exprs: []Expression{
		&Not{Expr: field("a")},
		&SubqueryExpr{Query: &SelectQuery{Columns: []Expression{field("b")}}},
	}}

	var fields []string
	Inspect(expr, func(n Node) bool {
		if _, ok := n.(*SubqueryExpr); ok {
			return false
		}
		if f, ok := n.(*Field); ok {
			fields = append(fields, f.Names()...)
		}
		return true
	})
	assert.Equal(t, []string{"a"}, fields)
}

func TestChildrenSkipsAbsent(t *testing.T) {
	order := &OrderExpr{Expr: field("ts"), Direction: Desc, Nulls: NullsLast}
	assert.Len(t, Children(order), 1)

	spec := &WindowSpec{OrderBy: []*OrderExpr{order}}
	assert.Equal(t, []Node{order}, Children(spec))

	assert.Empty(t, Children(&Literal{Kind: LiteralNull, Text: "NULL"}))
	assert.Empty(t, Children(&CaseExpr{}))
}

type foreign struct{}

func (foreign) Pos() token.Position    { return token.Position{} }
func (foreign) Accept(v Visitor) error { return nil }

func TestChildrenUnknownNode(t *testing.T) {
	assert.Panics(t, func() { Children(foreign{}) })
}

func TestLiteralValues(t *testing.T) {
	tests := []struct {
		lit  Literal
		want int64
	}{
		{Literal{Kind: LiteralInteger, Text: "42", Base: BaseDecimal}, 42},
		{Literal{Kind: LiteralInteger, Text: "0755", Base: BaseOctal}, 0o755},
		{Literal{Kind: LiteralInteger, Text: "0xFF", Base: BaseHex}, 255},
	}
	for _, tt := range tests {
		n, err := tt.lit.Int64()
		require.NoError(t, err, tt.lit.Text)
		assert.Equal(t, tt.want, n, tt.lit.Text)
	}

	big := Literal{Kind: LiteralInteger, Text: "18446744073709551615", Base: BaseDecimal}
	_, err := big.Int64()
	assert.Error(t, err)
	u, err := big.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), u)

	f, err := (&Literal{Kind: LiteralFloat, Text: "1.5e-3"}).Float64()
	require.NoError(t, err)
	assert.InDelta(t, 0.0015, f, 1e-12)

	f, err = (&Literal{Kind: LiteralInteger, Text: "0x10", Base: BaseHex}).Float64()
	require.NoError(t, err)
	assert.Equal(t, 16.0, f)

	assert.True(t, (&Literal{Kind: LiteralBoolean, Text: "True"}).Bool())
	assert.False(t, (&Literal{Kind: LiteralBoolean, Text: "false"}).Bool())
}

func TestParseIntervalUnit(t *testing.T) {
	tests := []struct {
		in   string
		want IntervalUnit
		ok   bool
	}{
		{"day", UnitDay, true},
		{"DAYS", UnitDay, true},
		{"Quarter", UnitQuarter, true},
		{"seconds", UnitSecond, true},
		{"fortnight", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseIntervalUnit(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCallParametric(t *testing.T) {
	assert.False(t, (&Call{Name: "count"}).Parametric())
	assert.True(t, (&Call{Name: "quantile", Params: []Expression{}}).Parametric())
}
