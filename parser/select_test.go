package parser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/parser"
	"github.com/tmilicic/posthog/token"
)

// astOptions compares trees by shape and content, ignoring where in the
// source each node came from.
var astOptions = []cmp.Option{
	cmpopts.IgnoreTypes(token.Position{}),
}

// roundTrip parses src as one statement, formats it and checks that the
// formatted text parses to the same tree.
func roundTrip(t *testing.T, src string) string {
	t.Helper()

	stmt, err := parser.ParseStatement(src)
	require.NoError(t, err, src)
	formatted := parser.Format([]ast.Statement{stmt})

	again, err := parser.ParseStatement(formatted)
	require.NoError(t, err, "reparsing %q", formatted)
	if diff := cmp.Diff(stmt, again, astOptions...); diff != "" {
		t.Errorf("round trip of %q changed the tree (-before +after):\n%s", src, diff)
	}
	return formatted
}

func TestSelectClauses(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SELECT DISTINCT a FROM t", "SELECT DISTINCT a FROM t;"},
		{"SELECT a, count() c FROM t GROUP BY a WITH TOTALS HAVING c > 1",
			"SELECT a, count() AS c FROM t GROUP BY a WITH TOTALS HAVING (c > 1);"},
		{"SELECT a FROM t GROUP BY ROLLUP(a, b)", "SELECT a FROM t GROUP BY a, b WITH ROLLUP;"},
		{"SELECT a FROM t GROUP BY a WITH CUBE", "SELECT a FROM t GROUP BY a WITH CUBE;"},
		{"WITH x AS (SELECT 1) SELECT * FROM x", "WITH x AS (SELECT 1) SELECT * FROM x;"},
		{"WITH 1 AS one SELECT one", "WITH 1 AS one SELECT one;"},
		{"SELECT arr FROM t ARRAY JOIN arr", "SELECT arr FROM t ARRAY JOIN arr;"},
		{"SELECT a FROM t LEFT ARRAY JOIN arr AS a", "SELECT a FROM t LEFT ARRAY JOIN arr AS a;"},
		{"SELECT a FROM t PREWHERE a > 1 WHERE b", "SELECT a FROM t PREWHERE (a > 1) WHERE b;"},
		{"SELECT a FROM t SETTINGS max_threads = 4, use_cache = 0",
			"SELECT a FROM t SETTINGS max_threads = 4, use_cache = 0;"},
		{"SELECT sum(x) OVER w FROM t WINDOW w AS (PARTITION BY y)",
			"SELECT sum(x) OVER w FROM t WINDOW w AS (PARTITION BY y);"},
		{"SELECT * FROM (SELECT 1) AS sub", "SELECT * FROM (SELECT 1) AS sub;"},
		{"SELECT * FROM numbers(10)", "SELECT * FROM numbers(10);"},
		{"SELECT * FROM {table}", "SELECT * FROM {table};"},
		{"SELECT t.* FROM t", "SELECT t.* FROM t;"},
		{"SELECT * FROM db.t AS x FINAL SAMPLE 1 / 10 OFFSET 1 / 2",
			"SELECT * FROM db.t AS x FINAL SAMPLE (1 / 10) OFFSET (1 / 2);"},
		{"SELECT a FROM t LIMIT 5, 10", "SELECT a FROM t LIMIT 10 OFFSET 5;"},
		{"SELECT a FROM t LIMIT 10 OFFSET 5", "SELECT a FROM t LIMIT 10 OFFSET 5;"},
		{"SELECT a FROM t OFFSET 5 ROWS", "SELECT a FROM t OFFSET 5;"},
		{"SELECT a FROM t LIMIT 1 BY a LIMIT 10", "SELECT a FROM t LIMIT 1 BY a LIMIT 10;"},
		{"SELECT a FROM t ORDER BY a LIMIT 10 WITH TIES", "SELECT a FROM t ORDER BY a ASC LIMIT 10 WITH TIES;"},
		{"(SELECT 1) UNION ALL (SELECT 2 UNION DISTINCT SELECT 3)",
			"SELECT 1 UNION ALL (SELECT 2 UNION DISTINCT SELECT 3);"},
		{"SELECT 1;", "SELECT 1;"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, roundTrip(t, tt.input))
		})
	}
}

func TestSelectErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"SELECT 1 UNION SELECT 2", "unexpected SELECT"},
		{"SELECT a FROM t WHERE", "expected expression, found end of input"},
		{"SELECT a FROM t LIMIT 1 LIMIT 2", "duplicate LIMIT clause"},
		{"SELECT a FROM t LIMIT 10 LIMIT 1 BY a", "LIMIT BY must come before LIMIT"},
		{"SELECT a FROM t GROUP BY a WITH ROLLUP WITH CUBE", "GROUP BY already has a ROLLUP modifier"},
		{"WITH 1 SELECT 2", "WITH expression must be named"},
		{"SELECT 1 SELECT 2", "unexpected SELECT"},
		{"SELECT a FROM t ORDER BY a NULLS", "unexpected end of input"},
		{"FROM t", "at start of statement"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parser.ParseStatement(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestJoinTreeIsLeftDeep(t *testing.T) {
	sel, err := parser.ParseSelect("SELECT * FROM a, b JOIN c ON x = y")
	require.NoError(t, err)

	from := sel.(*ast.SelectQuery).From
	outer, ok := from.(*ast.JoinExpr)
	require.True(t, ok, "got %T", from)
	assert.Equal(t, ast.JoinInner, outer.Kind)
	require.NotNil(t, outer.Constraint)
	assert.NotNil(t, outer.Constraint.On)

	inner, ok := outer.Left.(*ast.JoinExpr)
	require.True(t, ok, "got %T", outer.Left)
	assert.Equal(t, ast.JoinCross, inner.Kind)
	assert.Nil(t, inner.Constraint)
	assert.IsType(t, &ast.TableExpr{}, inner.Left)
	assert.IsType(t, &ast.TableExpr{}, inner.Right)
	assert.IsType(t, &ast.TableExpr{}, outer.Right)

	assert.Equal(t, "SELECT * FROM a CROSS JOIN b INNER JOIN c ON (x = y);",
		parser.Format([]ast.Statement{sel}))
}

func TestJoinOperators(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a JOIN b ON 1", "a INNER JOIN b ON 1"},
		{"a LEFT OUTER JOIN b ON 1", "a LEFT JOIN b ON 1"},
		{"a ANY LEFT JOIN b USING id", "a ANY LEFT JOIN b USING (id)"},
		{"a LEFT ANY JOIN b USING (id, ts)", "a ANY LEFT JOIN b USING (id, ts)"},
		{"a SEMI JOIN b ON 1", "a LEFT SEMI JOIN b ON 1"},
		{"a RIGHT ANTI JOIN b ON 1", "a RIGHT ANTI JOIN b ON 1"},
		{"a GLOBAL ALL INNER JOIN b ON 1", "a GLOBAL ALL INNER JOIN b ON 1"},
		{"a ASOF JOIN b ON 1", "a ASOF INNER JOIN b ON 1"},
		{"a CROSS JOIN b", "a CROSS JOIN b"},
		{"a FULL JOIN b ON 1", "a FULL JOIN b ON 1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := roundTrip(t, "SELECT * FROM "+tt.input)
			assert.Equal(t, "SELECT * FROM "+tt.want+";", got)
		})
	}
}

func TestJoinOperatorErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"a FULL SEMI JOIN b ON 1", "SEMI JOIN must be LEFT or RIGHT, not FULL"},
		{"a INNER OUTER JOIN b ON 1", "OUTER requires a LEFT, RIGHT or FULL join"},
		{"a LEFT RIGHT JOIN b ON 1", "conflicting join kinds LEFT and RIGHT"},
		{"a ANY ALL JOIN b ON 1", "conflicting join strictness ANY and ALL"},
		{"a CROSS ANY JOIN b", "CROSS JOIN does not take ANY"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parser.ParseSelect("SELECT * FROM " + tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseOrderExpr(t *testing.T) {
	tests := []struct {
		input     string
		direction ast.OrderDirection
		nulls     ast.NullsOrder
		explicit  bool
	}{
		{"ts", ast.Asc, ast.NullsLast, false},
		{"ts ASC", ast.Asc, ast.NullsLast, false},
		{"ts DESC NULLS FIRST", ast.Desc, ast.NullsFirst, true},
		{"ts NULLS LAST", ast.Asc, ast.NullsLast, true},
		{"a + b descending", ast.Desc, ast.NullsLast, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			order, err := parser.ParseOrderExpr(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.direction, order.Direction)
			assert.Equal(t, tt.nulls, order.Nulls)
			assert.Equal(t, tt.explicit, order.NullsExplicit)
		})
	}

	cfg := parser.DefaultConfig()
	cfg.DefaultNulls = ast.NullsFirst
	order, err := parser.NewWithConfig(strings.NewReader("ts DESC"), cfg).ParseOrderExpr()
	require.NoError(t, err)
	assert.Equal(t, ast.NullsFirst, order.Nulls)
	assert.False(t, order.NullsExplicit)

	_, err = parser.ParseOrderExpr("ts DESC extra")
	require.Error(t, err)
}

func TestOrderByKeepsExplicitNulls(t *testing.T) {
	assert.Equal(t,
		"SELECT a FROM t ORDER BY a ASC, b DESC NULLS FIRST;",
		roundTrip(t, "SELECT a FROM t ORDER BY a, b DESC NULLS FIRST"))
}

func TestParseWithConfig(t *testing.T) {
	cfg := parser.DefaultConfig()
	cfg.CaseSensitiveKeywords = true

	_, err := parser.ParseWithConfig(context.Background(), strings.NewReader("select 1"), cfg)
	require.Error(t, err)

	stmts, err := parser.ParseWithConfig(context.Background(), strings.NewReader("SELECT 1"), cfg)
	require.NoError(t, err)
	assert.Len(t, stmts, 1)
}
