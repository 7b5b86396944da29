package format

import (
	"strings"

	"github.com/tmilicic/posthog/ast"
)

func formatInsertQuery(sb *strings.Builder, q *ast.InsertQuery) {
	sb.WriteString("INSERT INTO ")
	formatQualifiedName(sb, q.Table)
	if len(q.Columns) > 0 {
		sb.WriteString(" (")
		formatIdentifierList(sb, q.Columns)
		sb.WriteString(")")
	}
	if q.Select != nil {
		sb.WriteString(" ")
		Statement(sb, q.Select)
		return
	}
	sb.WriteString(" VALUES ")
	for i, row := range q.Values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		formatExpressionList(sb, row.Elements)
		sb.WriteString(")")
	}
}

func formatCreateTableQuery(sb *strings.Builder, q *ast.CreateTableQuery) {
	sb.WriteString("CREATE ")
	if q.OrReplace {
		sb.WriteString("OR REPLACE ")
	}
	if q.Temporary {
		sb.WriteString("TEMPORARY ")
	}
	sb.WriteString("TABLE ")
	if q.IfNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	formatQualifiedName(sb, q.Name)

	if len(q.Columns) > 0 {
		sb.WriteString(" (")
		for i, col := range q.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatColumnDef(sb, col)
		}
		sb.WriteString(")")
	}
	if q.Engine != nil {
		sb.WriteString(" ENGINE = ")
		formatEngine(sb, q.Engine)
	}
	if len(q.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		formatExpressionList(sb, q.OrderBy)
	}
	if q.PartitionBy != nil {
		sb.WriteString(" PARTITION BY ")
		Expression(sb, q.PartitionBy)
	}
	if len(q.PrimaryKey) > 0 {
		sb.WriteString(" PRIMARY KEY ")
		formatExpressionList(sb, q.PrimaryKey)
	}
	if len(q.Settings) > 0 {
		sb.WriteString(" SETTINGS ")
		formatSettings(sb, q.Settings)
	}
	if q.AsSelect != nil {
		sb.WriteString(" AS ")
		Statement(sb, q.AsSelect)
	}
}

// formatEngine writes an engine clause value. Parentheses are printed only
// when the source had them.
func formatEngine(sb *strings.Builder, engine *ast.Call) {
	sb.WriteString(engine.Name)
	if engine.Args != nil {
		sb.WriteString("(")
		formatExpressionList(sb, engine.Args)
		sb.WriteString(")")
	}
}

func formatColumnDef(sb *strings.Builder, col *ast.ColumnDef) {
	formatIdentifier(sb, col.Name)
	if col.Type != nil {
		sb.WriteString(" ")
		formatDataType(sb, col.Type)
	}
	if col.DefaultKind != ast.DefaultNone {
		sb.WriteString(" ")
		sb.WriteString(string(col.DefaultKind))
		sb.WriteString(" ")
		Expression(sb, col.Default)
	}
	if col.Comment != "" {
		sb.WriteString(" COMMENT ")
		formatString(sb, col.Comment)
	}
}

func formatCreateDatabaseQuery(sb *strings.Builder, q *ast.CreateDatabaseQuery) {
	sb.WriteString("CREATE DATABASE ")
	if q.IfNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	formatIdentifier(sb, q.Name)
	if q.Engine != nil {
		sb.WriteString(" ENGINE = ")
		formatEngine(sb, q.Engine)
	}
}

func formatCreateViewQuery(sb *strings.Builder, q *ast.CreateViewQuery) {
	sb.WriteString("CREATE ")
	if q.OrReplace {
		sb.WriteString("OR REPLACE ")
	}
	if q.Materialized {
		sb.WriteString("MATERIALIZED ")
	}
	sb.WriteString("VIEW ")
	if q.IfNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	formatQualifiedName(sb, q.Name)
	if q.To != nil {
		sb.WriteString(" TO ")
		formatQualifiedName(sb, q.To)
	}
	if q.Populate {
		sb.WriteString(" POPULATE")
	}
	sb.WriteString(" AS ")
	Statement(sb, q.Query)
}

func formatAlterTableQuery(sb *strings.Builder, q *ast.AlterTableQuery) {
	sb.WriteString("ALTER TABLE ")
	formatQualifiedName(sb, q.Table)
	for i, cmd := range q.Commands {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" ")
		formatAlterCommand(sb, cmd)
	}
}

func formatAlterCommand(sb *strings.Builder, cmd *ast.AlterCommand) {
	sb.WriteString(string(cmd.Kind))
	if cmd.IfNotExists {
		sb.WriteString(" IF NOT EXISTS")
	}
	if cmd.IfExists {
		sb.WriteString(" IF EXISTS")
	}

	switch cmd.Kind {
	case ast.AlterAddColumn, ast.AlterModifyColumn:
		sb.WriteString(" ")
		formatColumnDef(sb, cmd.Column)
	case ast.AlterDropColumn:
		sb.WriteString(" ")
		formatIdentifier(sb, cmd.Name)
	case ast.AlterRenameColumn:
		sb.WriteString(" ")
		formatIdentifier(sb, cmd.Name)
		sb.WriteString(" TO ")
		formatIdentifier(sb, cmd.NewName)
	case ast.AlterCommentColumn:
		sb.WriteString(" ")
		formatIdentifier(sb, cmd.Name)
		sb.WriteString(" ")
		formatString(sb, cmd.Comment)
	case ast.AlterDelete:
		sb.WriteString(" WHERE ")
		Expression(sb, cmd.Where)
	case ast.AlterUpdate:
		sb.WriteString(" ")
		for i, a := range cmd.Assignments {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatIdentifier(sb, a.Column)
			sb.WriteString(" = ")
			Expression(sb, a.Value)
		}
		sb.WriteString(" WHERE ")
		Expression(sb, cmd.Where)
	}
}

func formatDropQuery(sb *strings.Builder, q *ast.DropQuery) {
	sb.WriteString("DROP ")
	if q.Temporary {
		sb.WriteString("TEMPORARY ")
	}
	sb.WriteString(string(q.Kind))
	sb.WriteString(" ")
	if q.IfExists {
		sb.WriteString("IF EXISTS ")
	}
	formatQualifiedName(sb, q.Name)
	if q.Sync {
		sb.WriteString(" SYNC")
	}
}

func formatTruncateQuery(sb *strings.Builder, q *ast.TruncateQuery) {
	sb.WriteString("TRUNCATE TABLE ")
	if q.IfExists {
		sb.WriteString("IF EXISTS ")
	}
	formatQualifiedName(sb, q.Table)
}

func formatRenameQuery(sb *strings.Builder, q *ast.RenameQuery) {
	sb.WriteString("RENAME TABLE ")
	for i, pair := range q.Pairs {
		if i > 0 {
			sb.WriteString(", ")
		}
		formatQualifiedName(sb, pair.From)
		sb.WriteString(" TO ")
		formatQualifiedName(sb, pair.To)
	}
}

func formatShowQuery(sb *strings.Builder, q *ast.ShowQuery) {
	sb.WriteString("SHOW ")
	sb.WriteString(string(q.Kind))
	switch q.Kind {
	case ast.ShowTables:
		if q.From != nil {
			sb.WriteString(" FROM ")
			formatIdentifier(sb, q.From)
		}
		if q.Like != nil {
			sb.WriteString(" LIKE ")
			formatString(sb, q.Like.Text)
		}
	case ast.ShowCreateTable:
		sb.WriteString(" ")
		formatQualifiedName(sb, q.Table)
	}
}

func formatOptimizeQuery(sb *strings.Builder, q *ast.OptimizeQuery) {
	sb.WriteString("OPTIMIZE TABLE ")
	formatQualifiedName(sb, q.Table)
	if q.Final {
		sb.WriteString(" FINAL")
	}
	if q.Deduplicate {
		sb.WriteString(" DEDUPLICATE")
	}
}

// formatSystemQuery joins the command words with spaces, except around
// the dot of a qualified table name.
func formatSystemQuery(sb *strings.Builder, q *ast.SystemQuery) {
	sb.WriteString("SYSTEM")
	for i, w := range q.Words {
		if w != "." && (i == 0 || q.Words[i-1] != ".") {
			sb.WriteString(" ")
		}
		sb.WriteString(w)
	}
}

func formatKillQuery(sb *strings.Builder, q *ast.KillQuery) {
	sb.WriteString("KILL ")
	sb.WriteString(q.Target)
	sb.WriteString(" WHERE ")
	Expression(sb, q.Where)
	if q.Mode != "" {
		sb.WriteString(" ")
		sb.WriteString(q.Mode)
	}
}

func formatIdentifierList(sb *strings.Builder, ids []*ast.Identifier) {
	for i, id := range ids {
		if i > 0 {
			sb.WriteString(", ")
		}
		formatIdentifier(sb, id)
	}
}
