package parser

import (
	"strings"

	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/token"
)

// parseIfNotExists consumes an optional IF NOT EXISTS.
func (p *Parser) parseIfNotExists() (present, ok bool) {
	if !p.accept(token.IF) {
		return false, true
	}
	if !p.expect(token.NOT) || !p.expect(token.EXISTS) {
		return false, false
	}
	return true, true
}

// parseIfExists consumes an optional IF EXISTS.
func (p *Parser) parseIfExists() (present, ok bool) {
	if !p.accept(token.IF) {
		return false, true
	}
	if !p.expect(token.EXISTS) {
		return false, false
	}
	return true, true
}

func (p *Parser) parseObjectKind() ast.ObjectKind {
	var kind ast.ObjectKind
	switch p.current.Token {
	case token.TABLE:
		kind = ast.ObjectTable
	case token.DATABASE:
		kind = ast.ObjectDatabase
	case token.VIEW:
		kind = ast.ObjectView
	case token.DICTIONARY:
		kind = ast.ObjectDictionary
	default:
		p.unexpected("TABLE", "DATABASE", "VIEW", "DICTIONARY")
		return ""
	}
	p.nextToken()
	return kind
}

func (p *Parser) parseInsert() ast.Statement {
	ins := &ast.InsertQuery{Position: p.current.Pos}
	p.nextToken() // skip INSERT

	if !p.expect(token.INTO) {
		return nil
	}
	p.accept(token.TABLE)

	if ins.Table = p.parseQualifiedName(); ins.Table == nil {
		return nil
	}

	if p.accept(token.LPAREN) {
		if ins.Columns = p.parseIdentifierList(); ins.Columns == nil {
			return nil
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
	}

	switch {
	case p.accept(token.VALUES):
		for {
			row := &ast.TupleExpr{Position: p.current.Pos}
			if !p.expect(token.LPAREN) {
				return nil
			}
			if row.Elements = p.parseExpressionList(); row.Elements == nil {
				return nil
			}
			if !p.expect(token.RPAREN) {
				return nil
			}
			ins.Values = append(ins.Values, row)
			if !p.accept(token.COMMA) {
				break
			}
		}
	case isSelectStart(p.current.Token):
		if ins.Select = p.parseSelectStatement(); ins.Select == nil {
			return nil
		}
	default:
		p.unexpected("VALUES", "SELECT")
		return nil
	}
	return ins
}

func (p *Parser) parseCreate() ast.Statement {
	pos := p.current.Pos
	p.nextToken() // skip CREATE

	orReplace := false
	if p.accept(token.OR) {
		if !p.expect(token.REPLACE) {
			return nil
		}
		orReplace = true
	}

	switch p.current.Token {
	case token.TEMPORARY, token.TABLE:
		return p.parseCreateTable(pos, orReplace)
	case token.MATERIALIZED, token.VIEW:
		return p.parseCreateView(pos, orReplace)
	case token.DATABASE:
		if orReplace {
			p.fail(nil, "OR REPLACE is not supported for CREATE DATABASE")
			return nil
		}
		return p.parseCreateDatabase(pos)
	}
	p.unexpected("TABLE", "VIEW", "MATERIALIZED", "DATABASE")
	return nil
}

func (p *Parser) parseCreateTable(pos token.Position, orReplace bool) ast.Statement {
	create := &ast.CreateTableQuery{Position: pos, OrReplace: orReplace}
	create.Temporary = p.accept(token.TEMPORARY)
	if !p.expect(token.TABLE) {
		return nil
	}

	var ok bool
	if create.IfNotExists, ok = p.parseIfNotExists(); !ok {
		return nil
	}
	if create.Name = p.parseQualifiedName(); create.Name == nil {
		return nil
	}

	if p.accept(token.LPAREN) {
		for {
			col := p.parseColumnDef()
			if col == nil {
				return nil
			}
			create.Columns = append(create.Columns, col)
			if !p.accept(token.COMMA) {
				break
			}
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
	}

	seen := make(map[token.Token]bool)
clauses:
	for {
		clause := p.current.Token
		switch clause {
		case token.ENGINE, token.ORDER, token.PARTITION, token.PRIMARY, token.SETTINGS:
		default:
			break clauses
		}
		if seen[clause] {
			p.fail(nil, "duplicate %s clause", clause)
			return nil
		}
		seen[clause] = true
		p.nextToken()

		switch clause {
		case token.ENGINE:
			if create.Engine = p.parseEngine(); create.Engine == nil {
				return nil
			}
		case token.ORDER:
			if !p.expect(token.BY) {
				return nil
			}
			if create.OrderBy = p.parseExpressionList(); create.OrderBy == nil {
				return nil
			}
		case token.PARTITION:
			if !p.expect(token.BY) {
				return nil
			}
			if create.PartitionBy = p.parseExpression(ALIAS_PREC); create.PartitionBy == nil {
				return nil
			}
		case token.PRIMARY:
			if !p.expect(token.KEY) {
				return nil
			}
			if create.PrimaryKey = p.parseExpressionList(); create.PrimaryKey == nil {
				return nil
			}
		case token.SETTINGS:
			if create.Settings = p.parseSettings(); create.Settings == nil {
				return nil
			}
		}
	}

	if p.accept(token.AS) {
		if create.AsSelect = p.parseSelectStatement(); create.AsSelect == nil {
			return nil
		}
	}
	if create.Columns == nil && create.AsSelect == nil {
		p.fail([]string{"'('", "AS"}, "CREATE TABLE %s needs a column list or AS SELECT", create.Name)
		return nil
	}
	return create
}

// parseEngine parses the value of ENGINE = name[(args)]. Args stays nil
// when the engine is written without parentheses.
func (p *Parser) parseEngine() *ast.Call {
	p.accept(token.EQ)
	engine := &ast.Call{Position: p.current.Pos}
	name := p.parseIdentifier()
	if name == nil {
		return nil
	}
	engine.Name = name.Name
	if p.currentIs(token.LPAREN) {
		args, _, ok := p.parseCallArgs()
		if !ok {
			return nil
		}
		if args == nil {
			args = []ast.Expression{}
		}
		engine.Args = args
	}
	return engine
}

// parseColumnDef parses name [type] [DEFAULT|MATERIALIZED|ALIAS expr]
// [COMMENT 'text']. A column needs a type or a default.
func (p *Parser) parseColumnDef() *ast.ColumnDef {
	col := &ast.ColumnDef{Position: p.current.Pos}
	if col.Name = p.parseIdentifier(); col.Name == nil {
		return nil
	}

	switch p.current.Token {
	case token.DEFAULT, token.MATERIALIZED, token.ALIAS, token.COMMENT, token.COMMA, token.RPAREN, token.EOF:
	default:
		if col.Type = p.parseDataType(); col.Type == nil {
			return nil
		}
	}

	switch p.current.Token {
	case token.DEFAULT:
		col.DefaultKind = ast.DefaultValue
	case token.MATERIALIZED:
		col.DefaultKind = ast.DefaultMaterialized
	case token.ALIAS:
		col.DefaultKind = ast.DefaultAlias
	}
	if col.DefaultKind != ast.DefaultNone {
		p.nextToken()
		if col.Default = p.parseExpression(ALIAS_PREC); col.Default == nil {
			return nil
		}
	}
	if col.Type == nil && col.Default == nil {
		p.fail([]string{"type", "DEFAULT"}, "column %s needs a type or a default", col.Name.Name)
		return nil
	}

	if p.accept(token.COMMENT) {
		if !p.currentIs(token.STRING) {
			p.unexpected("string")
			return nil
		}
		col.Comment = p.current.Value
		p.nextToken()
	}
	return col
}

func (p *Parser) parseCreateView(pos token.Position, orReplace bool) ast.Statement {
	view := &ast.CreateViewQuery{Position: pos, OrReplace: orReplace}
	view.Materialized = p.accept(token.MATERIALIZED)
	if !p.expect(token.VIEW) {
		return nil
	}

	var ok bool
	if view.IfNotExists, ok = p.parseIfNotExists(); !ok {
		return nil
	}
	if view.Name = p.parseQualifiedName(); view.Name == nil {
		return nil
	}
	if p.accept(token.TO) {
		if !view.Materialized {
			p.fail(nil, "TO is only allowed on a MATERIALIZED VIEW")
			return nil
		}
		if view.To = p.parseQualifiedName(); view.To == nil {
			return nil
		}
	}
	if p.accept(token.POPULATE) {
		if !view.Materialized || view.To != nil {
			p.fail(nil, "POPULATE needs a MATERIALIZED VIEW without TO")
			return nil
		}
		view.Populate = true
	}
	if !p.expect(token.AS) {
		return nil
	}
	if view.Query = p.parseSelectStatement(); view.Query == nil {
		return nil
	}
	return view
}

func (p *Parser) parseCreateDatabase(pos token.Position) ast.Statement {
	db := &ast.CreateDatabaseQuery{Position: pos}
	p.nextToken() // skip DATABASE

	var ok bool
	if db.IfNotExists, ok = p.parseIfNotExists(); !ok {
		return nil
	}
	if db.Name = p.parseIdentifier(); db.Name == nil {
		return nil
	}
	if p.accept(token.ENGINE) {
		if db.Engine = p.parseEngine(); db.Engine == nil {
			return nil
		}
	}
	return db
}

func (p *Parser) parseAlter() ast.Statement {
	alter := &ast.AlterTableQuery{Position: p.current.Pos}
	p.nextToken() // skip ALTER
	if !p.expect(token.TABLE) {
		return nil
	}
	if alter.Table = p.parseQualifiedName(); alter.Table == nil {
		return nil
	}
	for {
		cmd := p.parseAlterCommand()
		if cmd == nil {
			return nil
		}
		alter.Commands = append(alter.Commands, cmd)
		if !p.accept(token.COMMA) {
			return alter
		}
	}
}

func (p *Parser) parseAlterCommand() *ast.AlterCommand {
	cmd := &ast.AlterCommand{Position: p.current.Pos}
	var ok bool

	switch p.current.Token {
	case token.ADD:
		cmd.Kind = ast.AlterAddColumn
		p.nextToken()
		if !p.expect(token.COLUMN) {
			return nil
		}
		if cmd.IfNotExists, ok = p.parseIfNotExists(); !ok {
			return nil
		}
		if cmd.Column = p.parseColumnDef(); cmd.Column == nil {
			return nil
		}
	case token.MODIFY:
		cmd.Kind = ast.AlterModifyColumn
		p.nextToken()
		if !p.expect(token.COLUMN) {
			return nil
		}
		if cmd.IfExists, ok = p.parseIfExists(); !ok {
			return nil
		}
		if cmd.Column = p.parseColumnDef(); cmd.Column == nil {
			return nil
		}
	case token.DROP, token.RENAME, token.COMMENT:
		switch p.current.Token {
		case token.DROP:
			cmd.Kind = ast.AlterDropColumn
		case token.RENAME:
			cmd.Kind = ast.AlterRenameColumn
		default:
			cmd.Kind = ast.AlterCommentColumn
		}
		p.nextToken()
		if !p.expect(token.COLUMN) {
			return nil
		}
		if cmd.IfExists, ok = p.parseIfExists(); !ok {
			return nil
		}
		if cmd.Name = p.parseIdentifier(); cmd.Name == nil {
			return nil
		}
		switch cmd.Kind {
		case ast.AlterRenameColumn:
			if !p.expect(token.TO) {
				return nil
			}
			if cmd.NewName = p.parseIdentifier(); cmd.NewName == nil {
				return nil
			}
		case ast.AlterCommentColumn:
			if !p.currentIs(token.STRING) {
				p.unexpected("string")
				return nil
			}
			cmd.Comment = p.current.Value
			p.nextToken()
		}
	case token.DELETE:
		cmd.Kind = ast.AlterDelete
		p.nextToken()
		if !p.expect(token.WHERE) {
			return nil
		}
		if cmd.Where = p.parseExpression(LOWEST); cmd.Where == nil {
			return nil
		}
	case token.UPDATE:
		cmd.Kind = ast.AlterUpdate
		p.nextToken()
		for {
			a := &ast.Assignment{Position: p.current.Pos}
			if a.Column = p.parseIdentifier(); a.Column == nil {
				return nil
			}
			if !p.expect(token.EQ) {
				return nil
			}
			if a.Value = p.parseExpression(ALIAS_PREC); a.Value == nil {
				return nil
			}
			cmd.Assignments = append(cmd.Assignments, a)
			if !p.accept(token.COMMA) {
				break
			}
		}
		if !p.expect(token.WHERE) {
			return nil
		}
		if cmd.Where = p.parseExpression(LOWEST); cmd.Where == nil {
			return nil
		}
	default:
		p.unexpected("ADD", "DROP", "MODIFY", "RENAME", "COMMENT", "DELETE", "UPDATE")
		return nil
	}
	return cmd
}

func (p *Parser) parseDrop() ast.Statement {
	drop := &ast.DropQuery{Position: p.current.Pos}
	p.nextToken() // skip DROP

	drop.Temporary = p.accept(token.TEMPORARY)
	if drop.Kind = p.parseObjectKind(); drop.Kind == "" {
		return nil
	}
	if drop.Temporary && drop.Kind != ast.ObjectTable {
		p.fail(nil, "TEMPORARY applies only to tables")
		return nil
	}

	var ok bool
	if drop.IfExists, ok = p.parseIfExists(); !ok {
		return nil
	}
	if drop.Name = p.parseQualifiedName(); drop.Name == nil {
		return nil
	}
	drop.Sync = p.accept(token.SYNC)
	return drop
}

func (p *Parser) parseTruncate() ast.Statement {
	trunc := &ast.TruncateQuery{Position: p.current.Pos}
	p.nextToken() // skip TRUNCATE
	p.accept(token.TABLE)

	var ok bool
	if trunc.IfExists, ok = p.parseIfExists(); !ok {
		return nil
	}
	if trunc.Table = p.parseQualifiedName(); trunc.Table == nil {
		return nil
	}
	return trunc
}

func (p *Parser) parseRename() ast.Statement {
	rename := &ast.RenameQuery{Position: p.current.Pos}
	p.nextToken() // skip RENAME
	if !p.expect(token.TABLE) {
		return nil
	}
	for {
		pair := &ast.RenamePair{Position: p.current.Pos}
		if pair.From = p.parseQualifiedName(); pair.From == nil {
			return nil
		}
		if !p.expect(token.TO) {
			return nil
		}
		if pair.To = p.parseQualifiedName(); pair.To == nil {
			return nil
		}
		rename.Pairs = append(rename.Pairs, pair)
		if !p.accept(token.COMMA) {
			return rename
		}
	}
}

func (p *Parser) parseUse() ast.Statement {
	use := &ast.UseQuery{Position: p.current.Pos}
	p.nextToken() // skip USE
	if use.Database = p.parseIdentifier(); use.Database == nil {
		return nil
	}
	return use
}

func (p *Parser) parseDescribe() ast.Statement {
	desc := &ast.DescribeQuery{Position: p.current.Pos}
	p.nextToken() // skip DESCRIBE or DESC
	p.accept(token.TABLE)
	if desc.Table = p.parseQualifiedName(); desc.Table == nil {
		return nil
	}
	return desc
}

func (p *Parser) parseShow() ast.Statement {
	show := &ast.ShowQuery{Position: p.current.Pos}
	p.nextToken() // skip SHOW

	switch {
	case p.accept(token.TABLES):
		show.Kind = ast.ShowTables
		if p.accept(token.FROM) {
			if show.From = p.parseIdentifier(); show.From == nil {
				return nil
			}
		}
		if p.accept(token.LIKE) {
			if !p.currentIs(token.STRING) {
				p.unexpected("string")
				return nil
			}
			show.Like = &ast.Literal{Position: p.current.Pos, Kind: ast.LiteralString, Text: p.current.Value}
			p.nextToken()
		}
	case p.accept(token.DATABASES):
		show.Kind = ast.ShowDatabases
	case p.accept(token.CREATE):
		show.Kind = ast.ShowCreateTable
		p.accept(token.TABLE)
		if show.Table = p.parseQualifiedName(); show.Table == nil {
			return nil
		}
	default:
		p.unexpected("TABLES", "DATABASES", "CREATE")
		return nil
	}
	return show
}

func (p *Parser) parseExplain() ast.Statement {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	explain := &ast.ExplainQuery{Position: p.current.Pos}
	p.nextToken() // skip EXPLAIN

	switch {
	case p.currentIs(token.AST), p.currentIs(token.SYNTAX):
		explain.Kind = p.current.Token.String()
		p.nextToken()
	case p.currentIs(token.IDENT) && !p.current.Quoted:
		// PLAN and PIPELINE are not keywords.
		kind := strings.ToUpper(p.current.Value)
		if kind != "PLAN" && kind != "PIPELINE" {
			p.unexpected("AST", "SYNTAX", "PLAN", "PIPELINE")
			return nil
		}
		explain.Kind = kind
		p.nextToken()
	}

	if explain.Statement = p.parseStatement(); explain.Statement == nil {
		return nil
	}
	return explain
}

func (p *Parser) parseSet() ast.Statement {
	set := &ast.SetQuery{Position: p.current.Pos}
	p.nextToken() // skip SET
	if set.Settings = p.parseSettings(); set.Settings == nil {
		return nil
	}
	return set
}

func (p *Parser) parseOptimize() ast.Statement {
	opt := &ast.OptimizeQuery{Position: p.current.Pos}
	p.nextToken() // skip OPTIMIZE
	if !p.expect(token.TABLE) {
		return nil
	}
	if opt.Table = p.parseQualifiedName(); opt.Table == nil {
		return nil
	}
	opt.Final = p.accept(token.FINAL)
	opt.Deduplicate = p.accept(token.DEDUPLICATE)
	return opt
}

// parseSystem keeps the words of a SYSTEM command up to the end of the
// statement. Keywords are upper-cased; everything else is kept as written.
func (p *Parser) parseSystem() ast.Statement {
	sys := &ast.SystemQuery{Position: p.current.Pos}
	p.nextToken() // skip SYSTEM

	for !p.currentIs(token.SEMICOLON) && !p.currentIs(token.EOF) {
		switch {
		case p.current.Token.IsKeyword():
			sys.Words = append(sys.Words, p.current.Token.String())
		case p.current.Token == token.LPAREN, p.current.Token == token.RPAREN:
			p.unexpected("word")
			return nil
		default:
			sys.Words = append(sys.Words, p.current.Raw)
		}
		p.nextToken()
	}
	if len(sys.Words) == 0 {
		p.unexpected("SYSTEM command")
		return nil
	}
	return sys
}

func (p *Parser) parseKill() ast.Statement {
	kill := &ast.KillQuery{Position: p.current.Pos}
	p.nextToken() // skip KILL

	switch {
	case p.currentIs(token.MUTATION):
		kill.Target = "MUTATION"
	case p.currentIs(token.IDENT) && !p.current.Quoted && strings.EqualFold(p.current.Value, "QUERY"):
		kill.Target = "QUERY"
	default:
		p.unexpected("QUERY", "MUTATION")
		return nil
	}
	p.nextToken()

	if !p.expect(token.WHERE) {
		return nil
	}
	if kill.Where = p.parseExpression(LOWEST); kill.Where == nil {
		return nil
	}

	switch p.current.Token {
	case token.SYNC, token.ASYNC, token.TEST:
		kill.Mode = p.current.Token.String()
		p.nextToken()
	}
	return kill
}

func (p *Parser) parseAttach() ast.Statement {
	attach := &ast.AttachQuery{Position: p.current.Pos, Detach: p.currentIs(token.DETACH)}
	p.nextToken() // skip ATTACH or DETACH
	if attach.Kind = p.parseObjectKind(); attach.Kind == "" {
		return nil
	}
	if attach.Name = p.parseQualifiedName(); attach.Name == nil {
		return nil
	}
	return attach
}
