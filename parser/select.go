package parser

import (
	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/token"
)

// parseSelectStatement parses a select, a parenthesized select, or a
// UNION chain of them.
func (p *Parser) parseSelectStatement() ast.SelectStatement {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	first := p.parseSelectOperand()
	if first == nil {
		return nil
	}
	if !p.currentIs(token.UNION) {
		return first
	}
	return p.parseUnionTail(first)
}

// parseUnionTail continues a UNION chain whose first operand is parsed.
func (p *Parser) parseUnionTail(first ast.SelectStatement) ast.SelectStatement {
	union := &ast.SelectUnionQuery{
		Position: first.Pos(),
		Selects:  []ast.SelectStatement{first},
	}
	for p.accept(token.UNION) {
		switch {
		case p.accept(token.ALL):
			union.Modes = append(union.Modes, ast.UnionAll)
		case p.accept(token.DISTINCT):
			union.Modes = append(union.Modes, ast.UnionDistinct)
		default:
			p.unexpected("ALL", "DISTINCT")
			return nil
		}
		next := p.parseSelectOperand()
		if next == nil {
			return nil
		}
		union.Selects = append(union.Selects, next)
	}
	return union
}

func (p *Parser) parseSelectOperand() ast.SelectStatement {
	if p.accept(token.LPAREN) {
		inner := p.parseSelectStatement()
		if inner == nil {
			return nil
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		return inner
	}
	sel := p.parseSelect()
	if sel == nil {
		return nil
	}
	return sel
}

func (p *Parser) parseSelect() *ast.SelectQuery {
	sel := &ast.SelectQuery{
		Position: p.current.Pos,
	}

	// Handle WITH clause
	if p.accept(token.WITH) {
		if sel.With = p.parseWithClause(); sel.With == nil {
			return nil
		}
	}

	if !p.expect(token.SELECT) {
		return nil
	}
	sel.Distinct = p.accept(token.DISTINCT)

	if sel.Columns = p.parseColumnList(); sel.Columns == nil {
		return nil
	}

	if p.accept(token.FROM) {
		if sel.From = p.parseJoinTree(); sel.From == nil {
			return nil
		}
	}

	if p.arrayJoinAhead() {
		if sel.ArrayJoin = p.parseArrayJoin(); sel.ArrayJoin == nil {
			return nil
		}
	}

	if p.accept(token.PREWHERE) {
		if sel.PreWhere = p.parseExpression(LOWEST); sel.PreWhere == nil {
			return nil
		}
	}

	if p.accept(token.WHERE) {
		if sel.Where = p.parseExpression(LOWEST); sel.Where == nil {
			return nil
		}
	}

	if p.accept(token.GROUP) {
		if !p.parseGroupBy(sel) {
			return nil
		}
	}
	for p.currentIs(token.WITH) && (p.peekIs(token.ROLLUP) || p.peekIs(token.CUBE) || p.peekIs(token.TOTALS)) {
		p.nextToken()
		switch p.current.Token {
		case token.ROLLUP, token.CUBE:
			if sel.GroupingBy != ast.GroupingNone {
				p.fail(nil, "GROUP BY already has a %s modifier", sel.GroupingBy)
				return nil
			}
			sel.GroupingBy = ast.GroupingRollup
			if p.currentIs(token.CUBE) {
				sel.GroupingBy = ast.GroupingCube
			}
		case token.TOTALS:
			sel.WithTotals = true
		}
		p.nextToken()
	}

	if p.accept(token.HAVING) {
		if sel.Having = p.parseExpression(LOWEST); sel.Having == nil {
			return nil
		}
	}

	if p.accept(token.WINDOW) {
		if sel.Window = p.parseWindowDefs(); sel.Window == nil {
			return nil
		}
	}

	if p.accept(token.ORDER) {
		if !p.expect(token.BY) {
			return nil
		}
		if sel.OrderBy = p.parseOrderList(); sel.OrderBy == nil {
			return nil
		}
	}

	if !p.parseLimit(sel) {
		return nil
	}

	if sel.Offset == nil && p.accept(token.OFFSET) {
		if sel.Offset = p.parseExpression(ALIAS_PREC); sel.Offset == nil {
			return nil
		}
		if !p.accept(token.ROW) {
			p.accept(token.ROWS)
		}
	}

	if p.accept(token.SETTINGS) {
		if sel.Settings = p.parseSettings(); sel.Settings == nil {
			return nil
		}
	}

	return sel
}

// parseWithClause parses the CTE list after WITH. Both the SQL form
// name AS (subquery) and the expression form expr AS name are accepted.
func (p *Parser) parseWithClause() []*ast.CTE {
	var ctes []*ast.CTE
	for {
		cte := p.parseCTE()
		if cte == nil {
			return nil
		}
		ctes = append(ctes, cte)
		if !p.accept(token.COMMA) {
			return ctes
		}
	}
}

func (p *Parser) parseCTE() *ast.CTE {
	pos := p.current.Pos
	if isIdentLike(p.current) && p.peekIs(token.AS) && p.peekAt(2).Token == token.LPAREN &&
		isSelectStart(p.peekAt(3).Token) {
		cte := &ast.CTE{Position: pos, Name: p.parseIdentifier()}
		p.nextToken() // skip AS
		p.nextToken() // skip (
		if cte.Query = p.parseSelectStatement(); cte.Query == nil {
			return nil
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		return cte
	}

	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	alias, ok := expr.(*ast.Alias)
	if !ok {
		p.fail([]string{"AS"}, "WITH expression must be named: expected AS, found %s", describeItem(p.current))
		return nil
	}
	return &ast.CTE{Position: pos, Name: alias.Name, Expr: alias.Expr}
}

func isSelectStart(t token.Token) bool {
	return t == token.SELECT || t == token.WITH || t == token.LPAREN
}

func (p *Parser) parseGroupBy(sel *ast.SelectQuery) bool {
	if !p.expect(token.BY) {
		return false
	}
	if (p.currentIs(token.ROLLUP) || p.currentIs(token.CUBE)) && p.peekIs(token.LPAREN) {
		sel.GroupingBy = ast.GroupingRollup
		if p.currentIs(token.CUBE) {
			sel.GroupingBy = ast.GroupingCube
		}
		p.nextToken()
		p.nextToken()
		if sel.GroupBy = p.parseExpressionList(); sel.GroupBy == nil {
			return false
		}
		return p.expect(token.RPAREN)
	}
	sel.GroupBy = p.parseExpressionList()
	return sel.GroupBy != nil
}

func (p *Parser) parseWindowDefs() []*ast.WindowDef {
	var defs []*ast.WindowDef
	for {
		def := &ast.WindowDef{Position: p.current.Pos}
		if def.Name = p.parseIdentifier(); def.Name == nil {
			return nil
		}
		if !p.expect(token.AS) {
			return nil
		}
		if def.Spec = p.parseWindowSpec(); def.Spec == nil {
			return nil
		}
		defs = append(defs, def)
		if !p.accept(token.COMMA) {
			return defs
		}
	}
}

func (p *Parser) parseOrderList() []*ast.OrderExpr {
	var list []*ast.OrderExpr
	for {
		order := p.parseOrderExpr()
		if order == nil {
			return nil
		}
		list = append(list, order)
		if !p.accept(token.COMMA) {
			return list
		}
	}
}

// parseOrderExpr parses expr [ASC|DESC] [NULLS FIRST|LAST]. Entries that
// do not name a NULLS policy get the configured default.
func (p *Parser) parseOrderExpr() *ast.OrderExpr {
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	order := &ast.OrderExpr{
		Position:  expr.Pos(),
		Expr:      expr,
		Direction: ast.Asc,
		Nulls:     p.cfg.defaultNulls(),
	}

	switch {
	case p.accept(token.ASC):
	case p.accept(token.DESC):
		order.Direction = ast.Desc
	}

	if p.accept(token.NULLS) {
		switch {
		case p.accept(token.FIRST):
			order.Nulls = ast.NullsFirst
		case p.accept(token.LAST):
			order.Nulls = ast.NullsLast
		default:
			p.unexpected("FIRST", "LAST")
			return nil
		}
		order.NullsExplicit = true
	}
	return order
}

// parseLimit parses LIMIT n BY exprs and LIMIT n, in either order, each
// with an optional offset written as OFFSET m or as a leading m,.
func (p *Parser) parseLimit(sel *ast.SelectQuery) bool {
	for p.currentIs(token.LIMIT) {
		pos := p.current.Pos
		p.nextToken()

		limit := p.parseExpression(ALIAS_PREC)
		if limit == nil {
			return false
		}
		var offset ast.Expression
		if p.accept(token.COMMA) {
			offset = limit
			if limit = p.parseExpression(ALIAS_PREC); limit == nil {
				return false
			}
		} else if p.accept(token.OFFSET) {
			if offset = p.parseExpression(ALIAS_PREC); offset == nil {
				return false
			}
		}

		if p.accept(token.BY) {
			if sel.LimitBy != nil || sel.Limit != nil {
				p.fail(nil, "LIMIT BY must come before LIMIT and appear once")
				return false
			}
			by := p.parseExpressionList()
			if by == nil {
				return false
			}
			sel.LimitBy = &ast.LimitByClause{Position: pos, Limit: limit, Offset: offset, By: by}
			continue
		}

		if sel.Limit != nil {
			p.fail(nil, "duplicate LIMIT clause")
			return false
		}
		sel.Limit, sel.Offset = limit, offset
		if p.currentIs(token.WITH) && p.peekIs(token.TIES) {
			p.nextToken()
			p.nextToken()
			sel.WithTies = true
		}
	}
	return true
}

// arrayJoinAhead reports whether [LEFT|INNER] ARRAY JOIN starts here.
func (p *Parser) arrayJoinAhead() bool {
	switch p.current.Token {
	case token.ARRAY:
		return p.peekIs(token.JOIN)
	case token.LEFT, token.INNER:
		return p.peekIs(token.ARRAY) && p.peekAt(2).Token == token.JOIN
	}
	return false
}

func (p *Parser) parseArrayJoin() *ast.ArrayJoinClause {
	aj := &ast.ArrayJoinClause{Position: p.current.Pos}
	if p.accept(token.LEFT) {
		aj.Left = true
	} else {
		p.accept(token.INNER)
	}
	p.nextToken() // skip ARRAY
	p.nextToken() // skip JOIN
	if aj.Exprs = p.parseColumnList(); aj.Exprs == nil {
		return nil
	}
	return aj
}

// parseJoinTree parses the FROM clause. Joins associate to the left, so
// a JOIN b JOIN c yields ((a JOIN b) JOIN c).
func (p *Parser) parseJoinTree() ast.TableSource {
	first := p.parseTableExpr()
	if first == nil {
		return nil
	}
	var tree ast.TableSource = first

	for {
		var join *ast.JoinExpr
		switch {
		case p.accept(token.COMMA):
			join = &ast.JoinExpr{Kind: ast.JoinCross}
		case p.joinAhead():
			if join = p.parseJoinOperator(); join == nil {
				return nil
			}
		default:
			return tree
		}

		right := p.parseTableExpr()
		if right == nil {
			return nil
		}
		join.Position = tree.Pos()
		join.Left, join.Right = tree, right

		if join.Kind != ast.JoinCross {
			if !p.parseJoinConstraint(join) {
				return nil
			}
		}
		tree = join
	}
}

func isJoinModifier(t token.Token) bool {
	switch t {
	case token.GLOBAL, token.ANY, token.ALL, token.ASOF, token.SEMI, token.ANTI,
		token.INNER, token.LEFT, token.RIGHT, token.FULL, token.OUTER, token.CROSS:
		return true
	}
	return false
}

// joinAhead looks past the join modifiers for JOIN, so that LEFT ARRAY
// JOIN and clause keywords are not mistaken for joins.
func (p *Parser) joinAhead() bool {
	k := 0
	for isJoinModifier(p.peekAt(k).Token) {
		k++
	}
	return p.peekAt(k).Token == token.JOIN
}

// parseJoinOperator parses [GLOBAL] [strictness] [kind [OUTER]] JOIN in
// any of the orders ClickHouse accepts.
func (p *Parser) parseJoinOperator() *ast.JoinExpr {
	join := &ast.JoinExpr{}
	outer := false

	for !p.currentIs(token.JOIN) {
		var kind ast.JoinKind
		var strictness ast.JoinStrictness
		switch p.current.Token {
		case token.GLOBAL:
			join.Global = true
		case token.OUTER:
			outer = true
		case token.ANY:
			strictness = ast.StrictnessAny
		case token.ALL:
			strictness = ast.StrictnessAll
		case token.ASOF:
			strictness = ast.StrictnessAsof
		case token.SEMI:
			strictness = ast.StrictnessSemi
		case token.ANTI:
			strictness = ast.StrictnessAnti
		case token.INNER:
			kind = ast.JoinInner
		case token.LEFT:
			kind = ast.JoinLeft
		case token.RIGHT:
			kind = ast.JoinRight
		case token.FULL:
			kind = ast.JoinFull
		case token.CROSS:
			kind = ast.JoinCross
		}
		if kind != "" {
			if join.Kind != "" {
				p.fail([]string{"JOIN"}, "conflicting join kinds %s and %s", join.Kind, kind)
				return nil
			}
			join.Kind = kind
		}
		if strictness != ast.StrictnessNone {
			if join.Strictness != ast.StrictnessNone {
				p.fail([]string{"JOIN"}, "conflicting join strictness %s and %s", join.Strictness, strictness)
				return nil
			}
			join.Strictness = strictness
		}
		p.nextToken()
	}

	switch join.Strictness {
	case ast.StrictnessSemi, ast.StrictnessAnti:
		// A bare SEMI or ANTI join is a LEFT one.
		if join.Kind == "" {
			join.Kind = ast.JoinLeft
		}
		if join.Kind != ast.JoinLeft && join.Kind != ast.JoinRight {
			p.fail(nil, "%s JOIN must be LEFT or RIGHT, not %s", join.Strictness, join.Kind)
			return nil
		}
	}
	if join.Kind == "" {
		join.Kind = ast.JoinInner
	}
	if outer && join.Kind != ast.JoinLeft && join.Kind != ast.JoinRight && join.Kind != ast.JoinFull {
		p.fail(nil, "OUTER requires a LEFT, RIGHT or FULL join")
		return nil
	}
	if join.Kind == ast.JoinCross && join.Strictness != ast.StrictnessNone {
		p.fail(nil, "CROSS JOIN does not take %s", join.Strictness)
		return nil
	}

	p.nextToken() // skip JOIN
	return join
}

func (p *Parser) parseJoinConstraint(join *ast.JoinExpr) bool {
	switch p.current.Token {
	case token.ON:
		c := &ast.JoinConstraint{Position: p.current.Pos}
		p.nextToken()
		if c.On = p.parseExpression(LOWEST); c.On == nil {
			return false
		}
		join.Constraint = c
	case token.USING:
		c := &ast.JoinConstraint{Position: p.current.Pos}
		p.nextToken()
		parens := p.accept(token.LPAREN)
		if c.Using = p.parseIdentifierList(); c.Using == nil {
			return false
		}
		if parens && !p.expect(token.RPAREN) {
			return false
		}
		join.Constraint = c
	}
	return true
}

// parseTableExpr parses one FROM source: a table name, a table function,
// a subquery or a placeholder, with its alias, FINAL and SAMPLE.
func (p *Parser) parseTableExpr() *ast.TableExpr {
	te := &ast.TableExpr{Position: p.current.Pos}

	switch {
	case p.currentIs(token.LPAREN):
		pos := p.current.Pos
		p.nextToken()
		query := p.parseSelectStatement()
		if query == nil {
			return nil
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		te.Table = &ast.SubqueryExpr{Position: pos, Query: query}
	case p.currentIs(token.PLACEHOLDER):
		te.Table = p.parsePlaceholder()
	case isIdentLike(p.current):
		pos := p.current.Pos
		if p.peekIs(token.LPAREN) && !p.current.Quoted {
			name := p.current.Value
			p.nextToken()
			if te.Table = p.parseFunctionCall(name, pos); te.Table == nil {
				return nil
			}
			break
		}
		name := p.parseQualifiedName()
		if name == nil {
			return nil
		}
		te.Table = &ast.Field{Position: pos, Chain: name.Parts}
	default:
		if p.current.Token.IsReserved() {
			p.parseIdentifier()
		} else {
			p.unexpected("table name", "subquery", "table function")
		}
		return nil
	}

	if p.accept(token.AS) {
		if te.Alias = p.parseIdentifier(); te.Alias == nil {
			return nil
		}
	} else if p.currentIs(token.IDENT) {
		te.Alias = p.parseIdentifier()
	}

	te.Final = p.accept(token.FINAL)

	if p.currentIs(token.SAMPLE) {
		sample := &ast.SampleClause{Position: p.current.Pos}
		p.nextToken()
		if sample.Ratio = p.parseExpression(ALIAS_PREC); sample.Ratio == nil {
			return nil
		}
		if p.accept(token.OFFSET) {
			if sample.Offset = p.parseExpression(ALIAS_PREC); sample.Offset == nil {
				return nil
			}
		}
		te.Sample = sample
	}

	return te
}
