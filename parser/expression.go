package parser

import (
	"strings"

	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/token"
)

// Operator precedence levels
const (
	LOWEST       = iota
	ALIAS_PREC   // AS
	OR_PREC      // OR
	AND_PREC     // AND
	NOT_PREC     // NOT
	TERNARY_PREC // ? :
	NULLISH_PREC // ??
	COMPARE      // =, !=, <, >, <=, >=, LIKE, IN, BETWEEN, IS, =~
	CONCAT_PREC  // ||
	ADD_PREC     // +, -
	MUL_PREC     // *, /, %
	UNARY        // -x
	CAST_PREC    // ::
	CALL         // array[], tuple.1
	HIGHEST
)

func (p *Parser) precedence() int {
	switch p.current.Token {
	case token.AS:
		return ALIAS_PREC
	case token.OR:
		return OR_PREC
	case token.AND:
		return AND_PREC
	case token.QUESTION:
		return TERNARY_PREC
	case token.NULLISH:
		return NULLISH_PREC
	case token.EQ, token.NEQ, token.LT, token.GT, token.LTE, token.GTE,
		token.REGEX, token.IREGEX, token.NOT_REGEX, token.NOT_IREGEX,
		token.LIKE, token.ILIKE, token.IN, token.BETWEEN, token.IS:
		return COMPARE
	case token.NOT:
		// Only as the first half of NOT LIKE, NOT IN and friends.
		switch p.peek.Token {
		case token.LIKE, token.ILIKE, token.IN, token.BETWEEN:
			return COMPARE
		}
	case token.GLOBAL:
		if p.peekIs(token.IN) || (p.peekIs(token.NOT) && p.peekAt(2).Token == token.IN) {
			return COMPARE
		}
	case token.CONCAT:
		return CONCAT_PREC
	case token.PLUS, token.MINUS:
		return ADD_PREC
	case token.ASTERISK, token.SLASH, token.PERCENT:
		return MUL_PREC
	case token.COLONCOLON:
		return CAST_PREC
	case token.LBRACKET:
		return CALL
	case token.DOT:
		if p.peekIs(token.DECIMAL) {
			return CALL // Tuple access like t.1
		}
	}
	return LOWEST
}

// parseExpression is the precedence climbing loop. Comparisons do not
// associate: a = b = c is rejected instead of silently nesting.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	left := p.parsePrefixExpression()
	if left == nil {
		return nil
	}

	compared := false
	for !p.currentIs(token.EOF) {
		prec := p.precedence()
		if precedence >= prec {
			break
		}
		if prec == COMPARE {
			if compared {
				p.fail(nil, "comparison operators cannot be chained; add parentheses around %s",
					describeItem(p.current))
				return nil
			}
			compared = true
		} else {
			compared = false
		}
		left = p.parseInfixExpression(left)
		if left == nil {
			return nil
		}
	}

	return left
}

// parseExpressionList parses a non-empty comma-separated list.
func (p *Parser) parseExpressionList() []ast.Expression {
	var exprs []ast.Expression
	for {
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		exprs = append(exprs, expr)
		if !p.accept(token.COMMA) {
			return exprs
		}
	}
}

// parseColumnList parses a projection list, where an identifier directly
// after an expression is an implicit alias: SELECT count() c.
func (p *Parser) parseColumnList() []ast.Expression {
	var exprs []ast.Expression
	for {
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		if p.currentIs(token.IDENT) {
			expr = &ast.Alias{Position: expr.Pos(), Expr: expr, Name: p.parseIdentifier()}
		}
		exprs = append(exprs, expr)
		if !p.accept(token.COMMA) {
			return exprs
		}
	}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	switch p.current.Token {
	case token.IDENT:
		return p.parseIdentifierOrFunction()
	case token.DECIMAL, token.OCTAL, token.HEX, token.FLOAT:
		return p.parseNumber()
	case token.STRING:
		return p.parseString()
	case token.PLACEHOLDER:
		return p.parsePlaceholder()
	case token.MINUS, token.PLUS:
		return p.parseUnary()
	case token.LPAREN:
		return p.parseGroupedOrTuple()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseDictLiteral()
	case token.ASTERISK:
		return p.parseAsterisk()
	case token.NOT:
		return p.parseNot()
	case token.CASE:
		return p.parseCase()
	case token.CAST:
		return p.parseCast()
	case token.EXTRACT:
		return p.parseExtract()
	case token.INTERVAL:
		return p.parseInterval()
	case token.EXISTS:
		return p.parseExists()
	}

	// Any other keyword directly followed by ( names a function.
	if p.current.Token.IsKeyword() && p.peekIs(token.LPAREN) {
		return p.parseIdentifierOrFunction()
	}

	switch p.current.Token {
	case token.TRUE, token.FALSE:
		return p.parseBoolean()
	case token.NULL:
		return p.parseNull()
	case token.NAN, token.INF:
		return p.parseSpecialNumber()
	}

	if isIdentLike(p.current) {
		return p.parseIdentifierOrFunction()
	}
	if p.current.Token.IsReserved() {
		p.fail([]string{"expression"},
			"unexpected keyword %s; reserved keywords cannot be used as identifiers unless quoted",
			p.current.Token)
		return nil
	}
	p.fail([]string{"expression"}, "expected expression, found %s", describeItem(p.current))
	return nil
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	switch p.current.Token {
	case token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.CONCAT, token.NULLISH:
		return p.parseBinaryExpression(left)
	case token.EQ, token.NEQ, token.LT, token.GT, token.LTE, token.GTE,
		token.REGEX, token.IREGEX, token.NOT_REGEX, token.NOT_IREGEX:
		return p.parseCompareExpression(left)
	case token.LIKE, token.ILIKE:
		return p.parseLikeExpression(left, false)
	case token.NOT:
		// NOT IN, NOT LIKE, NOT ILIKE, NOT BETWEEN
		p.nextToken()
		switch p.current.Token {
		case token.IN:
			return p.parseInExpression(left, false, true)
		case token.LIKE, token.ILIKE:
			return p.parseLikeExpression(left, true)
		case token.BETWEEN:
			return p.parseBetweenExpression(left, true)
		}
	case token.IN:
		return p.parseInExpression(left, false, false)
	case token.GLOBAL:
		p.nextToken()
		not := p.accept(token.NOT)
		return p.parseInExpression(left, true, not)
	case token.BETWEEN:
		return p.parseBetweenExpression(left, false)
	case token.IS:
		return p.parseIsExpression(left)
	case token.AND:
		return p.parseAnd(left)
	case token.OR:
		return p.parseOr(left)
	case token.QUESTION:
		return p.parseTernary(left)
	case token.LBRACKET:
		return p.parseArrayAccess(left)
	case token.DOT:
		return p.parseTupleAccess(left)
	case token.COLONCOLON:
		return p.parseCastOperator(left)
	case token.AS:
		return p.parseAlias(left)
	}
	p.unexpected()
	return nil
}

var binaryOps = map[token.Token]ast.BinaryOp{
	token.PLUS:     ast.OpAdd,
	token.MINUS:    ast.OpSub,
	token.ASTERISK: ast.OpMul,
	token.SLASH:    ast.OpDiv,
	token.PERCENT:  ast.OpMod,
	token.CONCAT:   ast.OpConcat,
	token.NULLISH:  ast.OpNullish,
}

var compareOps = map[token.Token]ast.CompareOp{
	token.EQ:         ast.OpEq,
	token.NEQ:        ast.OpNotEq,
	token.LT:         ast.OpLt,
	token.LTE:        ast.OpLtEq,
	token.GT:         ast.OpGt,
	token.GTE:        ast.OpGtEq,
	token.REGEX:      ast.OpRegex,
	token.IREGEX:     ast.OpIRegex,
	token.NOT_REGEX:  ast.OpNotRegex,
	token.NOT_IREGEX: ast.OpNotIRegex,
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpr{
		Position: left.Pos(),
		Op:       binaryOps[p.current.Token],
		Left:     left,
	}
	prec := p.precedence()
	p.nextToken()
	if expr.Right = p.parseExpression(prec); expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseCompareExpression(left ast.Expression) ast.Expression {
	expr := &ast.CompareExpr{
		Position: left.Pos(),
		Op:       compareOps[p.current.Token],
		Left:     left,
	}
	p.nextToken()
	if expr.Right = p.parseExpression(COMPARE); expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseLikeExpression(left ast.Expression, not bool) ast.Expression {
	expr := &ast.CompareExpr{Position: left.Pos(), Left: left}
	switch {
	case p.currentIs(token.LIKE) && not:
		expr.Op = ast.OpNotLike
	case p.currentIs(token.LIKE):
		expr.Op = ast.OpLike
	case not:
		expr.Op = ast.OpNotILike
	default:
		expr.Op = ast.OpILike
	}
	p.nextToken()
	if expr.Right = p.parseExpression(COMPARE); expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseInExpression(left ast.Expression, global, not bool) ast.Expression {
	expr := &ast.InExpr{Position: left.Pos(), Expr: left, Global: global, Not: not}
	if !p.expect(token.IN) {
		return nil
	}
	if expr.Target = p.parseExpression(COMPARE); expr.Target == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseBetweenExpression(left ast.Expression, not bool) ast.Expression {
	expr := &ast.BetweenExpr{Position: left.Pos(), Expr: left, Not: not}
	p.nextToken() // skip BETWEEN
	if expr.Low = p.parseExpression(COMPARE); expr.Low == nil {
		return nil
	}
	if !p.expect(token.AND) {
		return nil
	}
	if expr.High = p.parseExpression(COMPARE); expr.High == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseIsExpression(left ast.Expression) ast.Expression {
	expr := &ast.IsNullExpr{Position: left.Pos(), Expr: left}
	p.nextToken() // skip IS
	expr.Not = p.accept(token.NOT)
	if !p.expect(token.NULL) {
		return nil
	}
	return expr
}

// parseAnd collects a AND b AND c into one node. Each operand binds
// tighter than AND, so the loop sees every AND of the chain.
func (p *Parser) parseAnd(left ast.Expression) ast.Expression {
	and := &ast.And{Position: left.Pos(), Exprs: []ast.Expression{left}}
	for p.accept(token.AND) {
		right := p.parseExpression(AND_PREC)
		if right == nil {
			return nil
		}
		and.Exprs = append(and.Exprs, right)
	}
	return and
}

func (p *Parser) parseOr(left ast.Expression) ast.Expression {
	or := &ast.Or{Position: left.Pos(), Exprs: []ast.Expression{left}}
	for p.accept(token.OR) {
		right := p.parseExpression(OR_PREC)
		if right == nil {
			return nil
		}
		or.Exprs = append(or.Exprs, right)
	}
	return or
}

// parseTernary parses cond ? then : else. The else branch is parsed one
// level below the ternary so that a ? b : c ? d : e nests to the right.
func (p *Parser) parseTernary(cond ast.Expression) ast.Expression {
	expr := &ast.TernaryExpr{Position: cond.Pos(), Cond: cond}
	p.nextToken() // skip ?
	if expr.Then = p.parseExpression(LOWEST); expr.Then == nil {
		return nil
	}
	if !p.expect(token.COLON) {
		return nil
	}
	if expr.Else = p.parseExpression(TERNARY_PREC - 1); expr.Else == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseArrayAccess(left ast.Expression) ast.Expression {
	expr := &ast.ArrayAccess{Position: left.Pos(), Array: left}
	p.nextToken() // skip [
	if expr.Index = p.parseExpression(LOWEST); expr.Index == nil {
		return nil
	}
	if !p.expect(token.RBRACKET) {
		return nil
	}
	return expr
}

func (p *Parser) parseTupleAccess(left ast.Expression) ast.Expression {
	p.nextToken() // skip .
	lit := &ast.Literal{Kind: ast.LiteralInteger, Text: p.current.Value, Base: ast.BaseDecimal}
	index, err := lit.Int64()
	if err != nil || index < 1 {
		p.fail([]string{"tuple index"}, "invalid tuple index %s", p.current.Raw)
		return nil
	}
	p.nextToken()
	return &ast.TupleAccess{Position: left.Pos(), Tuple: left, Index: index}
}

func (p *Parser) parseCastOperator(left ast.Expression) ast.Expression {
	p.nextToken() // skip ::
	typ := p.parseDataType()
	if typ == nil {
		return nil
	}
	return &ast.CastExpr{Position: left.Pos(), Expr: left, Type: typ, Operator: true}
}

func (p *Parser) parseAlias(left ast.Expression) ast.Expression {
	p.nextToken() // skip AS
	name := p.parseIdentifier()
	if name == nil {
		return nil
	}
	return &ast.Alias{Position: left.Pos(), Expr: left, Name: name}
}

// parseIdentifierOrFunction parses a column reference, a qualified
// asterisk or a function call.
func (p *Parser) parseIdentifierOrFunction() ast.Expression {
	pos := p.current.Pos
	first := &ast.Identifier{Position: pos, Name: p.current.Value, Quoted: p.current.Quoted}
	p.nextToken()

	// Check for function call
	if p.currentIs(token.LPAREN) && !first.Quoted {
		return p.parseFunctionCall(first.Name, pos)
	}

	// Check for qualified identifier (a.b.c)
	chain := []*ast.Identifier{first}
	for p.currentIs(token.DOT) {
		switch {
		case p.peekIs(token.ASTERISK):
			p.nextToken()
			p.nextToken()
			return &ast.Asterisk{Position: pos, Table: chain}
		case isIdentLike(p.peek):
			p.nextToken()
			chain = append(chain, &ast.Identifier{
				Position: p.current.Pos,
				Name:     p.current.Value,
				Quoted:   p.current.Quoted,
			})
			p.nextToken()
		case p.peekIs(token.DECIMAL):
			// Tuple access, handled as an infix operator.
			return &ast.Field{Position: pos, Chain: chain}
		default:
			p.nextToken()
			p.parseIdentifier()
			return nil
		}
	}

	return &ast.Field{Position: pos, Chain: chain}
}

func (p *Parser) parseFunctionCall(name string, pos token.Position) ast.Expression {
	fn := &ast.Call{Position: pos, Name: name}

	args, distinct, ok := p.parseCallArgs()
	if !ok {
		return nil
	}
	fn.Args, fn.Distinct = args, distinct

	// Parametric aggregate like quantile(0.9)(x)
	if p.currentIs(token.LPAREN) {
		if fn.Distinct {
			p.fail(nil, "DISTINCT is not allowed in the parameters of %s", name)
			return nil
		}
		fn.Params = fn.Args
		if fn.Params == nil {
			fn.Params = []ast.Expression{}
		}
		if fn.Args, fn.Distinct, ok = p.parseCallArgs(); !ok {
			return nil
		}
	}

	// Handle OVER clause for window functions
	if p.accept(token.OVER) {
		if p.currentIs(token.LPAREN) {
			if fn.Over = p.parseWindowSpec(); fn.Over == nil {
				return nil
			}
		} else if fn.OverName = p.parseIdentifier(); fn.OverName == nil {
			return nil
		}
	}

	return fn
}

// parseCallArgs parses a parenthesized argument list with an optional
// leading DISTINCT. Arguments may be lambdas.
func (p *Parser) parseCallArgs() ([]ast.Expression, bool, bool) {
	if !p.expect(token.LPAREN) {
		return nil, false, false
	}
	distinct := p.accept(token.DISTINCT)

	var args []ast.Expression
	for !p.currentIs(token.RPAREN) {
		arg := p.parseCallArg()
		if arg == nil {
			return nil, false, false
		}
		args = append(args, arg)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if !p.expect(token.RPAREN) {
		return nil, false, false
	}
	return args, distinct, true
}

func (p *Parser) parseCallArg() ast.Expression {
	if lambda, ok := p.tryLambda(); ok {
		return lambda
	}
	return p.parseExpression(LOWEST)
}

// tryLambda parses x -> body or (x, y) -> body. The parenthesized form
// is only recognized once the closing ) and the arrow are seen, so the
// stream is rewound when the parameter list turns out to be a tuple.
func (p *Parser) tryLambda() (ast.Expression, bool) {
	pos := p.current.Pos
	if isIdentLike(p.current) && p.peekIs(token.ARROW) {
		param := p.parseIdentifier()
		p.nextToken() // skip ->
		body := p.parseExpression(LOWEST)
		if body == nil {
			return nil, true
		}
		return &ast.Lambda{Position: pos, Params: []*ast.Identifier{param}, Body: body}, true
	}
	if !p.currentIs(token.LPAREN) {
		return nil, false
	}

	m := p.mark()
	p.nextToken()
	var params []*ast.Identifier
	for isIdentLike(p.current) {
		params = append(params, &ast.Identifier{
			Position: p.current.Pos,
			Name:     p.current.Value,
			Quoted:   p.current.Quoted,
		})
		p.nextToken()
		if !p.accept(token.COMMA) {
			break
		}
	}
	if len(params) == 0 || !p.currentIs(token.RPAREN) || !p.peekIs(token.ARROW) {
		p.reset(m)
		return nil, false
	}
	p.nextToken() // skip )
	p.nextToken() // skip ->
	body := p.parseExpression(LOWEST)
	if body == nil {
		return nil, true
	}
	return &ast.Lambda{Position: pos, Params: params, Body: body}, true
}

// parseWindowSpec parses ( [base] [PARTITION BY ...] [ORDER BY ...] [frame] ).
func (p *Parser) parseWindowSpec() *ast.WindowSpec {
	spec := &ast.WindowSpec{Position: p.current.Pos}
	if !p.expect(token.LPAREN) {
		return nil
	}

	switch p.current.Token {
	case token.PARTITION, token.ORDER, token.ROWS, token.RANGE, token.RPAREN:
	default:
		if spec.Base = p.parseIdentifier(); spec.Base == nil {
			return nil
		}
	}

	if p.accept(token.PARTITION) {
		if !p.expect(token.BY) {
			return nil
		}
		if spec.PartitionBy = p.parseExpressionList(); spec.PartitionBy == nil {
			return nil
		}
	}
	if p.accept(token.ORDER) {
		if !p.expect(token.BY) {
			return nil
		}
		if spec.OrderBy = p.parseOrderList(); spec.OrderBy == nil {
			return nil
		}
	}
	if p.currentIs(token.ROWS) || p.currentIs(token.RANGE) {
		if spec.Frame = p.parseWindowFrame(); spec.Frame == nil {
			return nil
		}
	}

	if !p.expect(token.RPAREN) {
		return nil
	}
	return spec
}

func (p *Parser) parseWindowFrame() *ast.WindowFrame {
	frame := &ast.WindowFrame{Position: p.current.Pos, Unit: ast.FrameRows}
	if p.currentIs(token.RANGE) {
		frame.Unit = ast.FrameRange
	}
	p.nextToken()

	if p.accept(token.BETWEEN) {
		if frame.Start = p.parseFrameBound(); frame.Start == nil {
			return nil
		}
		if !p.expect(token.AND) {
			return nil
		}
		if frame.End = p.parseFrameBound(); frame.End == nil {
			return nil
		}
		return frame
	}
	if frame.Start = p.parseFrameBound(); frame.Start == nil {
		return nil
	}
	return frame
}

func (p *Parser) parseFrameBound() *ast.FrameBound {
	bound := &ast.FrameBound{Position: p.current.Pos}
	switch {
	case p.accept(token.UNBOUNDED):
		switch {
		case p.accept(token.PRECEDING):
			bound.Kind = ast.BoundUnboundedPreceding
		case p.accept(token.FOLLOWING):
			bound.Kind = ast.BoundUnboundedFollowing
		default:
			p.unexpected("PRECEDING", "FOLLOWING")
			return nil
		}
	case p.accept(token.CURRENT):
		if !p.expect(token.ROW) {
			return nil
		}
		bound.Kind = ast.BoundCurrentRow
	default:
		if bound.Offset = p.parseExpression(ALIAS_PREC); bound.Offset == nil {
			return nil
		}
		switch {
		case p.accept(token.PRECEDING):
			bound.Kind = ast.BoundPreceding
		case p.accept(token.FOLLOWING):
			bound.Kind = ast.BoundFollowing
		default:
			p.unexpected("PRECEDING", "FOLLOWING")
			return nil
		}
	}
	return bound
}

func (p *Parser) parseNumber() ast.Expression {
	lit := &ast.Literal{Position: p.current.Pos, Text: p.current.Value}
	switch p.current.Token {
	case token.FLOAT:
		lit.Kind = ast.LiteralFloat
	case token.HEX:
		lit.Kind, lit.Base = ast.LiteralInteger, ast.BaseHex
	case token.OCTAL:
		lit.Kind, lit.Base = ast.LiteralInteger, ast.BaseOctal
	default:
		lit.Kind, lit.Base = ast.LiteralInteger, ast.BaseDecimal
	}
	p.nextToken()
	return lit
}

func (p *Parser) parseString() ast.Expression {
	lit := &ast.Literal{Position: p.current.Pos, Kind: ast.LiteralString, Text: p.current.Value}
	p.nextToken()
	return lit
}

func (p *Parser) parseBoolean() ast.Expression {
	lit := &ast.Literal{Position: p.current.Pos, Kind: ast.LiteralBoolean, Text: "false"}
	if p.currentIs(token.TRUE) {
		lit.Text = "true"
	}
	p.nextToken()
	return lit
}

func (p *Parser) parseNull() ast.Expression {
	lit := &ast.Literal{Position: p.current.Pos, Kind: ast.LiteralNull, Text: "NULL"}
	p.nextToken()
	return lit
}

// parseSpecialNumber handles nan and inf.
func (p *Parser) parseSpecialNumber() ast.Expression {
	lit := &ast.Literal{Position: p.current.Pos, Kind: ast.LiteralFloat, Text: strings.ToLower(p.current.Value)}
	p.nextToken()
	return lit
}

func (p *Parser) parsePlaceholder() ast.Expression {
	ph := &ast.Placeholder{Position: p.current.Pos, Name: p.current.Value}
	p.nextToken()
	return ph
}

func (p *Parser) parseUnary() ast.Expression {
	expr := &ast.UnaryExpr{Position: p.current.Pos, Op: ast.OpNeg}
	if p.currentIs(token.PLUS) {
		expr.Op = ast.OpPlus
	}
	p.nextToken()
	if expr.Expr = p.parseExpression(UNARY); expr.Expr == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseNot() ast.Expression {
	expr := &ast.Not{Position: p.current.Pos}
	p.nextToken() // skip NOT
	if expr.Expr = p.parseExpression(NOT_PREC); expr.Expr == nil {
		return nil
	}
	return expr
}

// parseGroupedOrTuple parses (expr), (a, b), (a,), () and (subquery).
// Plain grouping leaves no node behind.
func (p *Parser) parseGroupedOrTuple() ast.Expression {
	pos := p.current.Pos
	p.nextToken() // skip (

	if p.currentIs(token.SELECT) || p.currentIs(token.WITH) {
		query := p.parseSelectStatement()
		if query == nil {
			return nil
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		return &ast.SubqueryExpr{Position: pos, Query: query}
	}

	if p.accept(token.RPAREN) {
		return &ast.TupleExpr{Position: pos}
	}

	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	if p.accept(token.RPAREN) {
		return first
	}
	// ((SELECT 1) UNION ALL SELECT 2)
	if sub, ok := first.(*ast.SubqueryExpr); ok && p.currentIs(token.UNION) {
		query := p.parseUnionTail(sub.Query)
		if query == nil {
			return nil
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		return &ast.SubqueryExpr{Position: pos, Query: query}
	}
	if !p.currentIs(token.COMMA) {
		p.unexpected("')'", "','")
		return nil
	}

	tuple := &ast.TupleExpr{Position: pos, Elements: []ast.Expression{first}}
	for p.accept(token.COMMA) {
		if p.currentIs(token.RPAREN) {
			break
		}
		elem := p.parseExpression(LOWEST)
		if elem == nil {
			return nil
		}
		tuple.Elements = append(tuple.Elements, elem)
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return tuple
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayExpr{Position: p.current.Pos}
	p.nextToken() // skip [
	for !p.currentIs(token.RBRACKET) {
		elem := p.parseExpression(LOWEST)
		if elem == nil {
			return nil
		}
		arr.Elements = append(arr.Elements, elem)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if !p.expect(token.RBRACKET) {
		return nil
	}
	return arr
}

func (p *Parser) parseDictLiteral() ast.Expression {
	dict := &ast.DictExpr{Position: p.current.Pos}
	p.nextToken() // skip {
	for !p.currentIs(token.RBRACE) {
		item := &ast.DictItem{Position: p.current.Pos}
		if item.Key = p.parseExpression(LOWEST); item.Key == nil {
			return nil
		}
		if !p.expect(token.COLON) {
			return nil
		}
		if item.Value = p.parseExpression(LOWEST); item.Value == nil {
			return nil
		}
		dict.Items = append(dict.Items, item)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if !p.expect(token.RBRACE) {
		return nil
	}
	return dict
}

func (p *Parser) parseAsterisk() ast.Expression {
	a := &ast.Asterisk{Position: p.current.Pos}
	p.nextToken()
	return a
}

func (p *Parser) parseCase() ast.Expression {
	expr := &ast.CaseExpr{Position: p.current.Pos}
	p.nextToken() // skip CASE

	// Simple CASE has an operand before the first WHEN
	if !p.currentIs(token.WHEN) {
		if expr.Operand = p.parseExpression(LOWEST); expr.Operand == nil {
			return nil
		}
	}

	for p.currentIs(token.WHEN) {
		when := &ast.WhenClause{Position: p.current.Pos}
		p.nextToken()
		if when.Cond = p.parseExpression(LOWEST); when.Cond == nil {
			return nil
		}
		if !p.expect(token.THEN) {
			return nil
		}
		if when.Result = p.parseExpression(LOWEST); when.Result == nil {
			return nil
		}
		expr.Whens = append(expr.Whens, when)
	}
	if len(expr.Whens) == 0 {
		p.unexpected("WHEN")
		return nil
	}

	if p.accept(token.ELSE) {
		if expr.Else = p.parseExpression(LOWEST); expr.Else == nil {
			return nil
		}
	}
	if !p.expect(token.END) {
		return nil
	}
	return expr
}

// parseCast parses CAST(expr AS type). CAST(expr, 'type') is an ordinary
// function call.
func (p *Parser) parseCast() ast.Expression {
	pos := p.current.Pos
	name := p.current.Value
	p.nextToken() // skip CAST
	if !p.currentIs(token.LPAREN) {
		p.unexpected("'('")
		return nil
	}
	m := p.mark()
	p.nextToken()
	expr := p.parseExpression(ALIAS_PREC)
	if expr == nil {
		return nil
	}
	if p.currentIs(token.COMMA) {
		p.reset(m)
		return p.parseFunctionCall(name, pos)
	}
	if !p.expect(token.AS) {
		return nil
	}
	typ := p.parseDataType()
	if typ == nil {
		return nil
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return &ast.CastExpr{Position: pos, Expr: expr, Type: typ}
}

// parseDataType parses a type name with optional arguments, which are
// nested types or constant expressions: Nullable(String), Decimal(10, 2),
// Enum8('a' = 1).
func (p *Parser) parseDataType() *ast.DataType {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	if p.current.Token != token.IDENT && !p.current.Token.IsKeyword() {
		p.fail([]string{"type name"}, "expected type name, found %s", describeItem(p.current))
		return nil
	}
	typ := &ast.DataType{Position: p.current.Pos, Name: p.current.Value}
	p.nextToken()

	if !p.accept(token.LPAREN) {
		return typ
	}
	typ.Args = []ast.Expression{}
	for !p.currentIs(token.RPAREN) {
		var arg ast.Expression
		if p.current.Token == token.IDENT || p.current.Token.IsKeyword() {
			dt := p.parseDataType()
			if dt == nil {
				return nil
			}
			arg = dt
		} else if arg = p.parseExpression(LOWEST); arg == nil {
			return nil
		}
		typ.Args = append(typ.Args, arg)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return typ
}

// parseExtract parses EXTRACT(unit FROM expr). Any other extract(...) is
// the string function of that name.
func (p *Parser) parseExtract() ast.Expression {
	pos := p.current.Pos
	name := p.current.Value
	unitItem := p.peekAt(2)
	if !p.peekIs(token.LPAREN) || p.peekAt(3).Token != token.FROM {
		if p.peekIs(token.LPAREN) {
			p.nextToken()
			return p.parseFunctionCall(name, pos)
		}
		p.nextToken()
		p.unexpected("'('")
		return nil
	}
	p.nextToken() // skip EXTRACT
	p.nextToken() // skip (
	unit, ok := ast.ParseIntervalUnit(unitItem.Value)
	if !ok || unitItem.Quoted {
		p.fail(intervalUnits, "invalid EXTRACT unit %s", describeItem(p.current))
		return nil
	}
	p.nextToken() // skip unit
	p.nextToken() // skip FROM
	expr := &ast.ExtractExpr{Position: pos, Unit: unit}
	if expr.From = p.parseExpression(LOWEST); expr.From == nil {
		return nil
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return expr
}

var intervalUnits = []string{"SECOND", "MINUTE", "HOUR", "DAY", "WEEK", "MONTH", "QUARTER", "YEAR"}

// parseInterval parses INTERVAL value unit and INTERVAL 'value unit'.
func (p *Parser) parseInterval() ast.Expression {
	expr := &ast.IntervalExpr{Position: p.current.Pos}
	p.nextToken() // skip INTERVAL

	if p.currentIs(token.STRING) {
		fields := strings.Fields(p.current.Value)
		if len(fields) == 2 {
			unit, ok := ast.ParseIntervalUnit(fields[1])
			value := &ast.Literal{Position: p.current.Pos, Kind: ast.LiteralInteger, Text: fields[0], Base: ast.BaseDecimal}
			if _, err := value.Int64(); ok && err == nil {
				expr.Value, expr.Unit = value, unit
				p.nextToken()
				return expr
			}
		}
		if len(fields) != 1 {
			p.fail(nil, "invalid interval %s; expected a count and a unit such as '1 day'", p.current.Raw)
			return nil
		}
	}

	if expr.Value = p.parseExpression(ALIAS_PREC); expr.Value == nil {
		return nil
	}
	if !p.current.Token.IsIntervalUnit() && p.current.Token != token.IDENT {
		p.fail(intervalUnits, "expected interval unit, found %s", describeItem(p.current))
		return nil
	}
	unit, ok := ast.ParseIntervalUnit(p.current.Value)
	if !ok || p.current.Quoted {
		p.fail(intervalUnits, "invalid interval unit %s", describeItem(p.current))
		return nil
	}
	expr.Unit = unit
	p.nextToken()
	return expr
}

func (p *Parser) parseExists() ast.Expression {
	expr := &ast.ExistsExpr{Position: p.current.Pos}
	p.nextToken() // skip EXISTS
	if !p.expect(token.LPAREN) {
		return nil
	}
	if !p.currentIs(token.SELECT) && !p.currentIs(token.WITH) && !p.currentIs(token.LPAREN) {
		p.unexpected("SELECT", "WITH")
		return nil
	}
	if expr.Query = p.parseSelectStatement(); expr.Query == nil {
		return nil
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return expr
}
