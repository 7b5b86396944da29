package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/parser"
)

func TestStatements(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// CREATE
		{"CREATE TABLE t (a UInt8) ENGINE = Memory", "CREATE TABLE t (a UInt8) ENGINE = Memory;"},
		{"create or replace temporary table t (a Nullable(String) MATERIALIZED 'x', b ALIAS a) " +
			"engine MergeTree order by a primary key a settings index_granularity = 8192",
			"CREATE OR REPLACE TEMPORARY TABLE t (a Nullable(String) MATERIALIZED 'x', b ALIAS a) " +
				"ENGINE = MergeTree ORDER BY a PRIMARY KEY a SETTINGS index_granularity = 8192;"},
		{"CREATE TABLE t (d Decimal(10, 2) COMMENT 'it''s money')",
			"CREATE TABLE t (d Decimal(10, 2) COMMENT 'it\\'s money');"},
		{"CREATE TABLE t AS SELECT 1", "CREATE TABLE t AS SELECT 1;"},
		{"CREATE MATERIALIZED VIEW IF NOT EXISTS mv TO dest AS SELECT a FROM src",
			"CREATE MATERIALIZED VIEW IF NOT EXISTS mv TO dest AS SELECT a FROM src;"},
		{"CREATE MATERIALIZED VIEW mv POPULATE AS SELECT 1", "CREATE MATERIALIZED VIEW mv POPULATE AS SELECT 1;"},
		{"CREATE OR REPLACE VIEW v AS SELECT 1 UNION ALL SELECT 2",
			"CREATE OR REPLACE VIEW v AS SELECT 1 UNION ALL SELECT 2;"},
		{"CREATE DATABASE IF NOT EXISTS analytics ENGINE = Atomic",
			"CREATE DATABASE IF NOT EXISTS analytics ENGINE = Atomic;"},

		// ALTER
		{"ALTER TABLE t ADD COLUMN IF NOT EXISTS c String DEFAULT '', DROP COLUMN IF EXISTS d, RENAME COLUMN e TO f",
			"ALTER TABLE t ADD COLUMN IF NOT EXISTS c String DEFAULT '', DROP COLUMN IF EXISTS d, RENAME COLUMN e TO f;"},
		{"ALTER TABLE t COMMENT COLUMN c 'text', MODIFY COLUMN c UInt64",
			"ALTER TABLE t COMMENT COLUMN c 'text', MODIFY COLUMN c UInt64;"},
		{"ALTER TABLE t DELETE WHERE a = 1", "ALTER TABLE t DELETE WHERE (a = 1);"},
		{"ALTER TABLE t UPDATE a = 1, b = b + 1 WHERE c", "ALTER TABLE t UPDATE a = 1, b = (b + 1) WHERE c;"},

		// DROP, TRUNCATE, RENAME
		{"DROP TEMPORARY TABLE t", "DROP TEMPORARY TABLE t;"},
		{"DROP DICTIONARY IF EXISTS d", "DROP DICTIONARY IF EXISTS d;"},
		{"drop database analytics", "DROP DATABASE analytics;"},
		{"TRUNCATE t", "TRUNCATE TABLE t;"},
		{"TRUNCATE TABLE IF EXISTS db.t", "TRUNCATE TABLE IF EXISTS db.t;"},
		{"RENAME TABLE a TO b, db.c TO db.d", "RENAME TABLE a TO b, db.c TO db.d;"},

		// INSERT
		{"INSERT INTO TABLE t VALUES (1)", "INSERT INTO t VALUES (1);"},
		{"INSERT INTO db.t SELECT * FROM s", "INSERT INTO db.t SELECT * FROM s;"},

		// Session and introspection
		{"USE analytics", "USE analytics;"},
		{"DESC t", "DESCRIBE TABLE t;"},
		{"SHOW TABLES FROM db LIKE 'ev%'", "SHOW TABLES FROM db LIKE 'ev%';"},
		{"SHOW DATABASES", "SHOW DATABASES;"},
		{"SHOW CREATE TABLE db.t", "SHOW CREATE TABLE db.t;"},
		{"EXPLAIN AST SELECT 1", "EXPLAIN AST SELECT 1;"},
		{"EXPLAIN plan SELECT 1", "EXPLAIN PLAN SELECT 1;"},
		{"EXPLAIN SELECT 1", "EXPLAIN SELECT 1;"},
		{"SET max_threads = 8, allow_x = 'y'", "SET max_threads = 8, allow_x = 'y';"},
		{"OPTIMIZE TABLE t FINAL DEDUPLICATE", "OPTIMIZE TABLE t FINAL DEDUPLICATE;"},
		{"SYSTEM RELOAD DICTIONARY db.d", "SYSTEM RELOAD DICTIONARY db.d;"},
		{"KILL QUERY WHERE query_id = 'x' SYNC", "KILL QUERY WHERE (query_id = 'x') SYNC;"},
		{"DETACH TABLE db.t", "DETACH TABLE db.t;"},
		{"ATTACH DICTIONARY d", "ATTACH DICTIONARY d;"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, roundTrip(t, tt.input))
		})
	}
}

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"CREATE TABLE t", "needs a column list or AS SELECT"},
		{"CREATE TABLE t (a UInt8) ENGINE = Memory ENGINE = Log", "duplicate ENGINE clause"},
		{"CREATE TABLE t (a)", "column a needs a type or a default"},
		{"CREATE TABLE t (a UInt8 COMMENT 1)", "expected string"},
		{"CREATE VIEW v TO x AS SELECT 1", "TO is only allowed on a MATERIALIZED VIEW"},
		{"CREATE MATERIALIZED VIEW mv TO x POPULATE AS SELECT 1", "POPULATE needs a MATERIALIZED VIEW without TO"},
		{"CREATE OR REPLACE DATABASE x", "OR REPLACE is not supported for CREATE DATABASE"},
		{"CREATE INDEX i", "unexpected"},
		{"ALTER TABLE t FREEZE", "unexpected"},
		{"DROP TEMPORARY VIEW v", "TEMPORARY applies only to tables"},
		{"DROP TABLE IF t", "expected EXISTS"},
		{"INSERT INTO t", "unexpected end of input"},
		{"INSERT t VALUES (1)", "expected INTO"},
		{"SHOW COLUMNS", "unexpected"},
		{"EXPLAIN ESTIMATE SELECT 1", "unexpected"},
		{"KILL t WHERE 1", "unexpected"},
		{"SYSTEM", "unexpected end of input"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parser.ParseStatement(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestEngineArguments(t *testing.T) {
	engine := func(src string) *ast.Call {
		stmt, err := parser.ParseStatement(src)
		require.NoError(t, err)
		create, ok := stmt.(*ast.CreateTableQuery)
		require.True(t, ok, "got %T", stmt)
		require.NotNil(t, create.Engine)
		return create.Engine
	}

	assert.Nil(t, engine("CREATE TABLE t (a UInt8) ENGINE = Memory").Args)

	empty := engine("CREATE TABLE t (a UInt8) ENGINE = MergeTree()")
	assert.NotNil(t, empty.Args)
	assert.Empty(t, empty.Args)

	args := engine("CREATE TABLE t (a UInt8) ENGINE = ReplacingMergeTree(ver)").Args
	require.Len(t, args, 1)
	assert.Equal(t, "ver", parser.FormatExpr(args[0]))
}

func TestColumnDefaults(t *testing.T) {
	stmt, err := parser.ParseStatement("CREATE TABLE t (a UInt8 DEFAULT 1, b MATERIALIZED a * 2, c ALIAS a, d String)")
	require.NoError(t, err)
	cols := stmt.(*ast.CreateTableQuery).Columns
	require.Len(t, cols, 4)

	kinds := make([]ast.DefaultKind, len(cols))
	for i, c := range cols {
		kinds[i] = c.DefaultKind
	}
	assert.Equal(t, []ast.DefaultKind{ast.DefaultValue, ast.DefaultMaterialized, ast.DefaultAlias, ast.DefaultNone}, kinds)
	assert.Nil(t, cols[1].Type)
	assert.Nil(t, cols[3].Default)
}
