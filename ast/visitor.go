package ast

// Visitor has one method per concrete node type. Each node's Accept
// calls the matching method. Children are not visited automatically; use
// Inspect for that.
type Visitor interface {
	// Queries
	VisitSelectUnionQuery(*SelectUnionQuery) error
	VisitSelectQuery(*SelectQuery) error
	VisitCTE(*CTE) error
	VisitTableExpr(*TableExpr) error
	VisitSampleClause(*SampleClause) error
	VisitJoinExpr(*JoinExpr) error
	VisitJoinConstraint(*JoinConstraint) error
	VisitArrayJoinClause(*ArrayJoinClause) error
	VisitOrderExpr(*OrderExpr) error
	VisitLimitByClause(*LimitByClause) error
	VisitWindowDef(*WindowDef) error
	VisitWindowSpec(*WindowSpec) error
	VisitWindowFrame(*WindowFrame) error
	VisitFrameBound(*FrameBound) error
	VisitSetting(*Setting) error

	// Expressions
	VisitLiteral(*Literal) error
	VisitPlaceholder(*Placeholder) error
	VisitArrayExpr(*ArrayExpr) error
	VisitTupleExpr(*TupleExpr) error
	VisitDictExpr(*DictExpr) error
	VisitDictItem(*DictItem) error
	VisitIdentifier(*Identifier) error
	VisitField(*Field) error
	VisitAsterisk(*Asterisk) error
	VisitAlias(*Alias) error
	VisitBinaryExpr(*BinaryExpr) error
	VisitCompareExpr(*CompareExpr) error
	VisitInExpr(*InExpr) error
	VisitBetweenExpr(*BetweenExpr) error
	VisitIsNullExpr(*IsNullExpr) error
	VisitAnd(*And) error
	VisitOr(*Or) error
	VisitNot(*Not) error
	VisitUnaryExpr(*UnaryExpr) error
	VisitTernaryExpr(*TernaryExpr) error
	VisitArrayAccess(*ArrayAccess) error
	VisitTupleAccess(*TupleAccess) error
	VisitCall(*Call) error
	VisitLambda(*Lambda) error
	VisitCaseExpr(*CaseExpr) error
	VisitWhenClause(*WhenClause) error
	VisitCastExpr(*CastExpr) error
	VisitDataType(*DataType) error
	VisitIntervalExpr(*IntervalExpr) error
	VisitExtractExpr(*ExtractExpr) error
	VisitSubqueryExpr(*SubqueryExpr) error
	VisitExistsExpr(*ExistsExpr) error

	// Statements
	VisitQualifiedName(*QualifiedName) error
	VisitInsertQuery(*InsertQuery) error
	VisitCreateTableQuery(*CreateTableQuery) error
	VisitColumnDef(*ColumnDef) error
	VisitCreateDatabaseQuery(*CreateDatabaseQuery) error
	VisitCreateViewQuery(*CreateViewQuery) error
	VisitAlterTableQuery(*AlterTableQuery) error
	VisitAlterCommand(*AlterCommand) error
	VisitAssignment(*Assignment) error
	VisitDropQuery(*DropQuery) error
	VisitTruncateQuery(*TruncateQuery) error
	VisitRenameQuery(*RenameQuery) error
	VisitRenamePair(*RenamePair) error
	VisitUseQuery(*UseQuery) error
	VisitDescribeQuery(*DescribeQuery) error
	VisitShowQuery(*ShowQuery) error
	VisitExplainQuery(*ExplainQuery) error
	VisitSetQuery(*SetQuery) error
	VisitOptimizeQuery(*OptimizeQuery) error
	VisitSystemQuery(*SystemQuery) error
	VisitKillQuery(*KillQuery) error
	VisitAttachQuery(*AttachQuery) error
}

func (s *SelectUnionQuery) Accept(v Visitor) error { return v.VisitSelectUnionQuery(s) }
func (s *SelectQuery) Accept(v Visitor) error      { return v.VisitSelectQuery(s) }
func (c *CTE) Accept(v Visitor) error              { return v.VisitCTE(c) }
func (t *TableExpr) Accept(v Visitor) error        { return v.VisitTableExpr(t) }
func (s *SampleClause) Accept(v Visitor) error     { return v.VisitSampleClause(s) }
func (j *JoinExpr) Accept(v Visitor) error         { return v.VisitJoinExpr(j) }
func (j *JoinConstraint) Accept(v Visitor) error   { return v.VisitJoinConstraint(j) }
func (a *ArrayJoinClause) Accept(v Visitor) error  { return v.VisitArrayJoinClause(a) }
func (o *OrderExpr) Accept(v Visitor) error        { return v.VisitOrderExpr(o) }
func (l *LimitByClause) Accept(v Visitor) error    { return v.VisitLimitByClause(l) }
func (w *WindowDef) Accept(v Visitor) error        { return v.VisitWindowDef(w) }
func (w *WindowSpec) Accept(v Visitor) error       { return v.VisitWindowSpec(w) }
func (w *WindowFrame) Accept(v Visitor) error      { return v.VisitWindowFrame(w) }
func (f *FrameBound) Accept(v Visitor) error       { return v.VisitFrameBound(f) }
func (s *Setting) Accept(v Visitor) error          { return v.VisitSetting(s) }

func (l *Literal) Accept(v Visitor) error      { return v.VisitLiteral(l) }
func (p *Placeholder) Accept(v Visitor) error  { return v.VisitPlaceholder(p) }
func (a *ArrayExpr) Accept(v Visitor) error    { return v.VisitArrayExpr(a) }
func (t *TupleExpr) Accept(v Visitor) error    { return v.VisitTupleExpr(t) }
func (d *DictExpr) Accept(v Visitor) error     { return v.VisitDictExpr(d) }
func (d *DictItem) Accept(v Visitor) error     { return v.VisitDictItem(d) }
func (i *Identifier) Accept(v Visitor) error   { return v.VisitIdentifier(i) }
func (f *Field) Accept(v Visitor) error        { return v.VisitField(f) }
func (a *Asterisk) Accept(v Visitor) error     { return v.VisitAsterisk(a) }
func (a *Alias) Accept(v Visitor) error        { return v.VisitAlias(a) }
func (b *BinaryExpr) Accept(v Visitor) error   { return v.VisitBinaryExpr(b) }
func (c *CompareExpr) Accept(v Visitor) error  { return v.VisitCompareExpr(c) }
func (i *InExpr) Accept(v Visitor) error       { return v.VisitInExpr(i) }
func (b *BetweenExpr) Accept(v Visitor) error  { return v.VisitBetweenExpr(b) }
func (i *IsNullExpr) Accept(v Visitor) error   { return v.VisitIsNullExpr(i) }
func (a *And) Accept(v Visitor) error          { return v.VisitAnd(a) }
func (o *Or) Accept(v Visitor) error           { return v.VisitOr(o) }
func (n *Not) Accept(v Visitor) error          { return v.VisitNot(n) }
func (u *UnaryExpr) Accept(v Visitor) error    { return v.VisitUnaryExpr(u) }
func (t *TernaryExpr) Accept(v Visitor) error  { return v.VisitTernaryExpr(t) }
func (a *ArrayAccess) Accept(v Visitor) error  { return v.VisitArrayAccess(a) }
func (t *TupleAccess) Accept(v Visitor) error  { return v.VisitTupleAccess(t) }
func (c *Call) Accept(v Visitor) error         { return v.VisitCall(c) }
func (l *Lambda) Accept(v Visitor) error       { return v.VisitLambda(l) }
func (c *CaseExpr) Accept(v Visitor) error     { return v.VisitCaseExpr(c) }
func (w *WhenClause) Accept(v Visitor) error   { return v.VisitWhenClause(w) }
func (c *CastExpr) Accept(v Visitor) error     { return v.VisitCastExpr(c) }
func (d *DataType) Accept(v Visitor) error     { return v.VisitDataType(d) }
func (i *IntervalExpr) Accept(v Visitor) error { return v.VisitIntervalExpr(i) }
func (e *ExtractExpr) Accept(v Visitor) error  { return v.VisitExtractExpr(e) }
func (s *SubqueryExpr) Accept(v Visitor) error { return v.VisitSubqueryExpr(s) }
func (e *ExistsExpr) Accept(v Visitor) error   { return v.VisitExistsExpr(e) }

func (q *QualifiedName) Accept(v Visitor) error       { return v.VisitQualifiedName(q) }
func (i *InsertQuery) Accept(v Visitor) error         { return v.VisitInsertQuery(i) }
func (c *CreateTableQuery) Accept(v Visitor) error    { return v.VisitCreateTableQuery(c) }
func (c *ColumnDef) Accept(v Visitor) error           { return v.VisitColumnDef(c) }
func (c *CreateDatabaseQuery) Accept(v Visitor) error { return v.VisitCreateDatabaseQuery(c) }
func (c *CreateViewQuery) Accept(v Visitor) error     { return v.VisitCreateViewQuery(c) }
func (a *AlterTableQuery) Accept(v Visitor) error     { return v.VisitAlterTableQuery(a) }
func (a *AlterCommand) Accept(v Visitor) error        { return v.VisitAlterCommand(a) }
func (a *Assignment) Accept(v Visitor) error          { return v.VisitAssignment(a) }
func (d *DropQuery) Accept(v Visitor) error           { return v.VisitDropQuery(d) }
func (t *TruncateQuery) Accept(v Visitor) error       { return v.VisitTruncateQuery(t) }
func (r *RenameQuery) Accept(v Visitor) error         { return v.VisitRenameQuery(r) }
func (r *RenamePair) Accept(v Visitor) error          { return v.VisitRenamePair(r) }
func (u *UseQuery) Accept(v Visitor) error            { return v.VisitUseQuery(u) }
func (d *DescribeQuery) Accept(v Visitor) error       { return v.VisitDescribeQuery(d) }
func (s *ShowQuery) Accept(v Visitor) error           { return v.VisitShowQuery(s) }
func (e *ExplainQuery) Accept(v Visitor) error        { return v.VisitExplainQuery(e) }
func (s *SetQuery) Accept(v Visitor) error            { return v.VisitSetQuery(s) }
func (o *OptimizeQuery) Accept(v Visitor) error       { return v.VisitOptimizeQuery(o) }
func (s *SystemQuery) Accept(v Visitor) error         { return v.VisitSystemQuery(s) }
func (k *KillQuery) Accept(v Visitor) error           { return v.VisitKillQuery(k) }
func (a *AttachQuery) Accept(v Visitor) error         { return v.VisitAttachQuery(a) }
