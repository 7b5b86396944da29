package explain

import (
	"strings"

	"github.com/tmilicic/posthog/ast"
)

func (e *explainer) VisitQualifiedName(q *ast.QualifiedName) error {
	return e.node("QualifiedName " + q.String())
}

func (e *explainer) VisitInsertQuery(q *ast.InsertQuery) error {
	var columns, values, sel []ast.Node
	for _, c := range q.Columns {
		columns = append(columns, c)
	}
	for _, row := range q.Values {
		values = append(values, row)
	}
	if q.Select != nil {
		sel = []ast.Node{q.Select}
	}
	return e.sections("InsertQuery "+qualified(q.Table),
		section{"Columns", columns},
		section{"Values", values},
		section{"Select", sel},
	)
}

func (e *explainer) VisitCreateTableQuery(q *ast.CreateTableQuery) error {
	var columns, engine, asSelect []ast.Node
	for _, c := range q.Columns {
		columns = append(columns, c)
	}
	if q.Engine != nil {
		engine = []ast.Node{q.Engine}
	}
	if q.AsSelect != nil {
		asSelect = []ast.Node{q.AsSelect}
	}
	return e.sections(
		label("CreateTableQuery", qualified(q.Name),
			flag(q.OrReplace, "OR REPLACE"),
			flag(q.Temporary, "TEMPORARY"),
			flag(q.IfNotExists, "IF NOT EXISTS")),
		section{"Columns", columns},
		section{"Engine", engine},
		section{"OrderBy", exprs(q.OrderBy)},
		section{"PartitionBy", expr(q.PartitionBy)},
		section{"PrimaryKey", exprs(q.PrimaryKey)},
		section{"Settings", settings(q.Settings)},
		section{"AsSelect", asSelect},
	)
}

func (e *explainer) VisitColumnDef(c *ast.ColumnDef) error {
	var children []ast.Node
	if c.Type != nil {
		children = append(children, c.Type)
	}
	children = append(children, expr(c.Default)...)
	comment := ""
	if c.Comment != "" {
		comment = "COMMENT " + c.Comment
	}
	return e.node(label("ColumnDef", c.Name.Name, string(c.DefaultKind), comment), children...)
}

func (e *explainer) VisitCreateDatabaseQuery(q *ast.CreateDatabaseQuery) error {
	var children []ast.Node
	if q.Engine != nil {
		children = append(children, q.Engine)
	}
	return e.node(label("CreateDatabaseQuery", q.Name.Name, flag(q.IfNotExists, "IF NOT EXISTS")), children...)
}

func (e *explainer) VisitCreateViewQuery(q *ast.CreateViewQuery) error {
	to := ""
	if q.To != nil {
		to = "TO " + q.To.String()
	}
	return e.node(
		label("CreateViewQuery", qualified(q.Name),
			flag(q.OrReplace, "OR REPLACE"),
			flag(q.Materialized, "MATERIALIZED"),
			flag(q.IfNotExists, "IF NOT EXISTS"),
			to,
			flag(q.Populate, "POPULATE")),
		q.Query)
}

func (e *explainer) VisitAlterTableQuery(q *ast.AlterTableQuery) error {
	commands := make([]ast.Node, len(q.Commands))
	for i, c := range q.Commands {
		commands[i] = c
	}
	return e.node("AlterTableQuery "+qualified(q.Table), commands...)
}

func (e *explainer) VisitAlterCommand(c *ast.AlterCommand) error {
	var words []string
	if c.Name != nil {
		words = append(words, c.Name.Name)
	}
	if c.NewName != nil {
		words = append(words, "TO", c.NewName.Name)
	}
	if c.Comment != "" {
		words = append(words, c.Comment)
	}

	var children []ast.Node
	if c.Column != nil {
		children = append(children, c.Column)
	}
	for _, a := range c.Assignments {
		children = append(children, a)
	}
	children = append(children, expr(c.Where)...)

	return e.node(
		label("AlterCommand", string(c.Kind),
			flag(c.IfExists, "IF EXISTS"),
			flag(c.IfNotExists, "IF NOT EXISTS"),
			strings.Join(words, " ")),
		children...)
}

func (e *explainer) VisitAssignment(a *ast.Assignment) error {
	return e.node("Assignment "+a.Column.Name, a.Value)
}

func (e *explainer) VisitDropQuery(q *ast.DropQuery) error {
	return e.node(label("DropQuery", flag(q.Temporary, "TEMPORARY"), string(q.Kind),
		flag(q.IfExists, "IF EXISTS"), qualified(q.Name), flag(q.Sync, "SYNC")))
}

func (e *explainer) VisitTruncateQuery(q *ast.TruncateQuery) error {
	return e.node(label("TruncateQuery", flag(q.IfExists, "IF EXISTS"), qualified(q.Table)))
}

func (e *explainer) VisitRenameQuery(q *ast.RenameQuery) error {
	pairs := make([]ast.Node, len(q.Pairs))
	for i, p := range q.Pairs {
		pairs[i] = p
	}
	return e.node("RenameQuery", pairs...)
}

func (e *explainer) VisitRenamePair(p *ast.RenamePair) error {
	return e.node("RenamePair " + qualified(p.From) + " TO " + qualified(p.To))
}

func (e *explainer) VisitUseQuery(q *ast.UseQuery) error {
	return e.node("UseQuery " + q.Database.Name)
}

func (e *explainer) VisitDescribeQuery(q *ast.DescribeQuery) error {
	return e.node("DescribeQuery " + qualified(q.Table))
}

func (e *explainer) VisitShowQuery(q *ast.ShowQuery) error {
	var words []string
	if q.From != nil {
		words = append(words, "FROM", q.From.Name)
	}
	if q.Table != nil {
		words = append(words, q.Table.String())
	}
	var children []ast.Node
	if q.Like != nil {
		children = append(children, q.Like)
	}
	return e.node(label("ShowQuery", string(q.Kind), strings.Join(words, " ")), children...)
}

func (e *explainer) VisitExplainQuery(q *ast.ExplainQuery) error {
	return e.node(label("ExplainQuery", q.Kind), q.Statement)
}

func (e *explainer) VisitSetQuery(q *ast.SetQuery) error {
	return e.node("SetQuery", settings(q.Settings)...)
}

func (e *explainer) VisitOptimizeQuery(q *ast.OptimizeQuery) error {
	return e.node(label("OptimizeQuery", qualified(q.Table), flag(q.Final, "FINAL"), flag(q.Deduplicate, "DEDUPLICATE")))
}

func (e *explainer) VisitSystemQuery(q *ast.SystemQuery) error {
	return e.node("SystemQuery " + strings.Join(q.Words, " "))
}

func (e *explainer) VisitKillQuery(q *ast.KillQuery) error {
	return e.node(label("KillQuery", q.Target, q.Mode), q.Where)
}

func (e *explainer) VisitAttachQuery(q *ast.AttachQuery) error {
	verb := "AttachQuery"
	if q.Detach {
		verb = "DetachQuery"
	}
	return e.node(label(verb, string(q.Kind), qualified(q.Name)))
}
