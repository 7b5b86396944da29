package ast

import (
	"strings"

	"github.com/tmilicic/posthog/token"
)

// QualifiedName is a dotted object name such as db.table.
type QualifiedName struct {
	Position token.Position `json:"-"`
	Parts    []*Identifier  `json:"parts"`
}

// String joins the parts with dots, without quoting.
func (q *QualifiedName) String() string {
	names := make([]string, len(q.Parts))
	for i, p := range q.Parts {
		names[i] = p.Name
	}
	return strings.Join(names, ".")
}

// ObjectKind is the kind of object a DDL statement targets.
type ObjectKind string

const (
	ObjectTable      ObjectKind = "TABLE"
	ObjectDatabase   ObjectKind = "DATABASE"
	ObjectView       ObjectKind = "VIEW"
	ObjectDictionary ObjectKind = "DICTIONARY"
)

// InsertQuery represents INSERT INTO ... VALUES or INSERT INTO ... SELECT.
type InsertQuery struct {
	Position token.Position  `json:"-"`
	Table    *QualifiedName  `json:"table"`
	Columns  []*Identifier   `json:"columns,omitempty"`
	Values   []*TupleExpr    `json:"values,omitempty"`
	Select   SelectStatement `json:"select,omitempty"`
}

// CreateTableQuery represents CREATE TABLE.
type CreateTableQuery struct {
	Position    token.Position  `json:"-"`
	OrReplace   bool            `json:"or_replace,omitempty"`
	Temporary   bool            `json:"temporary,omitempty"`
	IfNotExists bool            `json:"if_not_exists,omitempty"`
	Name        *QualifiedName  `json:"name"`
	Columns     []*ColumnDef    `json:"columns,omitempty"`
	Engine      *Call           `json:"engine,omitempty"`
	OrderBy     []Expression    `json:"order_by,omitempty"`
	PartitionBy Expression      `json:"partition_by,omitempty"`
	PrimaryKey  []Expression    `json:"primary_key,omitempty"`
	Settings    []*Setting      `json:"settings,omitempty"`
	AsSelect    SelectStatement `json:"as_select,omitempty"`
}

// ColumnDef is a column in CREATE TABLE or ALTER TABLE.
type ColumnDef struct {
	Position    token.Position `json:"-"`
	Name        *Identifier    `json:"name"`
	Type        *DataType      `json:"type,omitempty"`
	DefaultKind DefaultKind    `json:"default_kind,omitempty"`
	Default     Expression     `json:"default,omitempty"`
	Comment     string         `json:"comment,omitempty"`
}

// DefaultKind says how a column default is computed.
type DefaultKind string

const (
	DefaultNone         DefaultKind = ""
	DefaultValue        DefaultKind = "DEFAULT"
	DefaultMaterialized DefaultKind = "MATERIALIZED"
	DefaultAlias        DefaultKind = "ALIAS"
)

// CreateDatabaseQuery represents CREATE DATABASE.
type CreateDatabaseQuery struct {
	Position    token.Position `json:"-"`
	IfNotExists bool           `json:"if_not_exists,omitempty"`
	Name        *Identifier    `json:"name"`
	Engine      *Call          `json:"engine,omitempty"`
}

// CreateViewQuery represents CREATE [MATERIALIZED] VIEW.
type CreateViewQuery struct {
	Position     token.Position  `json:"-"`
	OrReplace    bool            `json:"or_replace,omitempty"`
	Materialized bool            `json:"materialized,omitempty"`
	IfNotExists  bool            `json:"if_not_exists,omitempty"`
	Name         *QualifiedName  `json:"name"`
	To           *QualifiedName  `json:"to,omitempty"`
	Populate     bool            `json:"populate,omitempty"`
	Query        SelectStatement `json:"query"`
}

// AlterTableQuery represents ALTER TABLE t cmd, cmd, ...
type AlterTableQuery struct {
	Position token.Position  `json:"-"`
	Table    *QualifiedName  `json:"table"`
	Commands []*AlterCommand `json:"commands"`
}

// AlterKind enumerates ALTER TABLE commands.
type AlterKind string

const (
	AlterAddColumn     AlterKind = "ADD COLUMN"
	AlterDropColumn    AlterKind = "DROP COLUMN"
	AlterModifyColumn  AlterKind = "MODIFY COLUMN"
	AlterRenameColumn  AlterKind = "RENAME COLUMN"
	AlterCommentColumn AlterKind = "COMMENT COLUMN"
	AlterDelete        AlterKind = "DELETE"
	AlterUpdate        AlterKind = "UPDATE"
)

// AlterCommand is one ALTER TABLE command. Which fields are set depends
// on Kind.
type AlterCommand struct {
	Position    token.Position `json:"-"`
	Kind        AlterKind      `json:"kind"`
	IfExists    bool           `json:"if_exists,omitempty"`
	IfNotExists bool           `json:"if_not_exists,omitempty"`
	Column      *ColumnDef     `json:"column,omitempty"` // ADD, MODIFY
	Name        *Identifier    `json:"name,omitempty"`   // DROP, RENAME, COMMENT
	NewName     *Identifier    `json:"new_name,omitempty"`
	Comment     string         `json:"comment,omitempty"`
	Assignments []*Assignment  `json:"assignments,omitempty"` // UPDATE
	Where       Expression     `json:"where,omitempty"`       // DELETE, UPDATE
}

// Assignment is column = expr in ALTER TABLE ... UPDATE.
type Assignment struct {
	Position token.Position `json:"-"`
	Column   *Identifier    `json:"column"`
	Value    Expression     `json:"value"`
}

// DropQuery represents DROP TABLE|DATABASE|VIEW|DICTIONARY.
type DropQuery struct {
	Position  token.Position `json:"-"`
	Kind      ObjectKind     `json:"kind"`
	Temporary bool           `json:"temporary,omitempty"`
	IfExists  bool           `json:"if_exists,omitempty"`
	Name      *QualifiedName `json:"name"`
	Sync      bool           `json:"sync,omitempty"`
}

// TruncateQuery represents TRUNCATE [TABLE].
type TruncateQuery struct {
	Position token.Position `json:"-"`
	IfExists bool           `json:"if_exists,omitempty"`
	Table    *QualifiedName `json:"table"`
}

// RenameQuery represents RENAME TABLE a TO b, ...
type RenameQuery struct {
	Position token.Position `json:"-"`
	Pairs    []*RenamePair  `json:"pairs"`
}

// RenamePair is one "from TO to" entry of RENAME TABLE.
type RenamePair struct {
	Position token.Position `json:"-"`
	From     *QualifiedName `json:"from"`
	To       *QualifiedName `json:"to"`
}

// UseQuery represents USE database.
type UseQuery struct {
	Position token.Position `json:"-"`
	Database *Identifier    `json:"database"`
}

// DescribeQuery represents DESCRIBE [TABLE] t.
type DescribeQuery struct {
	Position token.Position `json:"-"`
	Table    *QualifiedName `json:"table"`
}

// ShowKind enumerates SHOW statements.
type ShowKind string

const (
	ShowTables      ShowKind = "TABLES"
	ShowDatabases   ShowKind = "DATABASES"
	ShowCreateTable ShowKind = "CREATE TABLE"
)

// ShowQuery represents SHOW TABLES, SHOW DATABASES and SHOW CREATE TABLE.
type ShowQuery struct {
	Position token.Position `json:"-"`
	Kind     ShowKind       `json:"kind"`
	From     *Identifier    `json:"from,omitempty"`
	Like     *Literal       `json:"like,omitempty"`
	Table    *QualifiedName `json:"table,omitempty"`
}

// ExplainQuery represents EXPLAIN [kind] statement.
type ExplainQuery struct {
	Position  token.Position `json:"-"`
	Kind      string         `json:"kind,omitempty"` // AST, SYNTAX, PLAN, PIPELINE or empty
	Statement Statement      `json:"statement"`
}

// SetQuery represents SET name = value, ...
type SetQuery struct {
	Position token.Position `json:"-"`
	Settings []*Setting     `json:"settings"`
}

// OptimizeQuery represents OPTIMIZE TABLE t [FINAL] [DEDUPLICATE].
type OptimizeQuery struct {
	Position    token.Position `json:"-"`
	Table       *QualifiedName `json:"table"`
	Final       bool           `json:"final,omitempty"`
	Deduplicate bool           `json:"deduplicate,omitempty"`
}

// SystemQuery represents SYSTEM commands. The command is kept as its
// words, since their grammar is open ended.
type SystemQuery struct {
	Position token.Position `json:"-"`
	Words    []string       `json:"words"`
}

// KillQuery represents KILL QUERY|MUTATION WHERE cond [SYNC|ASYNC|TEST].
type KillQuery struct {
	Position token.Position `json:"-"`
	Target   string         `json:"target"`
	Where    Expression     `json:"where"`
	Mode     string         `json:"mode,omitempty"`
}

// AttachQuery represents ATTACH and DETACH of an object.
type AttachQuery struct {
	Position token.Position `json:"-"`
	Detach   bool           `json:"detach,omitempty"`
	Kind     ObjectKind     `json:"kind"`
	Name     *QualifiedName `json:"name"`
}

func (q *QualifiedName) Pos() token.Position { return q.Position }

func (i *InsertQuery) Pos() token.Position { return i.Position }
func (i *InsertQuery) statementNode()      {}

func (c *CreateTableQuery) Pos() token.Position { return c.Position }
func (c *CreateTableQuery) statementNode()      {}

func (c *ColumnDef) Pos() token.Position { return c.Position }

func (c *CreateDatabaseQuery) Pos() token.Position { return c.Position }
func (c *CreateDatabaseQuery) statementNode()      {}

func (c *CreateViewQuery) Pos() token.Position { return c.Position }
func (c *CreateViewQuery) statementNode()      {}

func (a *AlterTableQuery) Pos() token.Position { return a.Position }
func (a *AlterTableQuery) statementNode()      {}

func (a *AlterCommand) Pos() token.Position { return a.Position }
func (a *Assignment) Pos() token.Position   { return a.Position }

func (d *DropQuery) Pos() token.Position { return d.Position }
func (d *DropQuery) statementNode()      {}

func (t *TruncateQuery) Pos() token.Position { return t.Position }
func (t *TruncateQuery) statementNode()      {}

func (r *RenameQuery) Pos() token.Position { return r.Position }
func (r *RenameQuery) statementNode()      {}
func (r *RenamePair) Pos() token.Position  { return r.Position }

func (u *UseQuery) Pos() token.Position { return u.Position }
func (u *UseQuery) statementNode()      {}

func (d *DescribeQuery) Pos() token.Position { return d.Position }
func (d *DescribeQuery) statementNode()      {}

func (s *ShowQuery) Pos() token.Position { return s.Position }
func (s *ShowQuery) statementNode()      {}

func (e *ExplainQuery) Pos() token.Position { return e.Position }
func (e *ExplainQuery) statementNode()      {}

func (s *SetQuery) Pos() token.Position { return s.Position }
func (s *SetQuery) statementNode()      {}

func (o *OptimizeQuery) Pos() token.Position { return o.Position }
func (o *OptimizeQuery) statementNode()      {}

func (s *SystemQuery) Pos() token.Position { return s.Position }
func (s *SystemQuery) statementNode()      {}

func (k *KillQuery) Pos() token.Position { return k.Position }
func (k *KillQuery) statementNode()      {}

func (a *AttachQuery) Pos() token.Position { return a.Position }
func (a *AttachQuery) statementNode()      {}
