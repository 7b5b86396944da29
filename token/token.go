// Package token defines constants representing the lexical tokens of HogQL.
package token

import (
	"fmt"
	"strings"
)

// Token represents a lexical token.
type Token int

const (
	// Special tokens
	ILLEGAL Token = iota
	EOF

	// Literals
	IDENT       // identifiers, quoted or not
	DECIMAL     // 123
	OCTAL       // 0755
	HEX         // 0xFF
	FLOAT       // 1.5, 1e10, 1.5e-3
	STRING      // 'abc'
	PLACEHOLDER // {name}

	// Operators
	PLUS        // +
	MINUS       // -
	ASTERISK    // *
	SLASH       // /
	PERCENT     // %
	EQ          // = or ==
	NEQ         // != or <>
	LT          // <
	GT          // >
	LTE         // <=
	GTE         // >=
	CONCAT      // ||
	ARROW       // ->
	COLONCOLON  // ::
	REGEX       // ~ or =~
	IREGEX      // ~* or =~*
	NOT_REGEX   // !~
	NOT_IREGEX  // !~*
	NULLISH     // ??
	QUESTION    // ?

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	DOT       // .
	SEMICOLON // ;
	COLON     // :

	// Keywords
	keyword_beg
	ADD
	AFTER
	ALIAS
	ALL
	ALTER
	AND
	ANTI
	ANY
	ARRAY
	AS
	ASC
	ASOF
	AST
	ASYNC
	ATTACH
	BETWEEN
	BOTH
	BY
	CASE
	CAST
	CHECK
	CLEAR
	CLUSTER
	CODEC
	COHORT
	COLLATE
	COLUMN
	COMMENT
	CONSTRAINT
	CREATE
	CROSS
	CUBE
	CURRENT
	DATABASE
	DATABASES
	DATE
	DAY
	DEDUPLICATE
	DEFAULT
	DELAY
	DELETE
	DESC
	DESCRIBE
	DETACH
	DICTIONARIES
	DICTIONARY
	DISK
	DISTINCT
	DISTRIBUTED
	DROP
	ELSE
	END
	ENGINE
	EVENTS
	EXISTS
	EXPLAIN
	EXPRESSION
	EXTRACT
	FALSE
	FETCHES
	FINAL
	FIRST
	FLUSH
	FOLLOWING
	FOR
	FORMAT
	FREEZE
	FROM
	FULL
	FUNCTION
	GLOBAL
	GRANULARITY
	GROUP
	HAVING
	HIERARCHICAL
	HOUR
	ID
	IF
	ILIKE
	IN
	INDEX
	INF
	INJECTIVE
	INNER
	INSERT
	INTERVAL
	INTO
	IS
	IS_OBJECT_ID
	JOIN
	KEY
	KILL
	LAST
	LAYOUT
	LEADING
	LEFT
	LIFETIME
	LIKE
	LIMIT
	LIVE
	LOCAL
	LOGS
	MATERIALIZE
	MATERIALIZED
	MAX
	MERGES
	MIN
	MINUTE
	MODIFY
	MONTH
	MOVE
	MUTATION
	NAN
	NO
	NOT
	NULL
	NULLS
	OFFSET
	ON
	OPTIMIZE
	OR
	ORDER
	OUTER
	OUTFILE
	OVER
	PARTITION
	POPULATE
	PRECEDING
	PREWHERE
	PRIMARY
	PROJECTION
	QUARTER
	RANGE
	RELOAD
	REMOVE
	RENAME
	REPLACE
	REPLICA
	REPLICATED
	RIGHT
	ROLLUP
	ROW
	ROWS
	SAMPLE
	SECOND
	SELECT
	SEMI
	SENDS
	SET
	SETTINGS
	SHOW
	SOURCE
	START
	STOP
	SUBSTRING
	SYNC
	SYNTAX
	SYSTEM
	TABLE
	TABLES
	TEMPORARY
	TEST
	THEN
	TIES
	TIMEOUT
	TIMESTAMP
	TO
	TOP
	TOTALS
	TRAILING
	TRIM
	TRUE
	TRUNCATE
	TTL
	TYPE
	UNBOUNDED
	UNION
	UPDATE
	USE
	USING
	UUID
	VALUES
	VIEW
	VOLUME
	WATCH
	WEEK
	WHEN
	WHERE
	WINDOW
	WITH
	YEAR
	keyword_end
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:       "IDENT",
	DECIMAL:     "DECIMAL",
	OCTAL:       "OCTAL",
	HEX:         "HEX",
	FLOAT:       "FLOAT",
	STRING:      "STRING",
	PLACEHOLDER: "PLACEHOLDER",

	PLUS:       "+",
	MINUS:      "-",
	ASTERISK:   "*",
	SLASH:      "/",
	PERCENT:    "%",
	EQ:         "=",
	NEQ:        "!=",
	LT:         "<",
	GT:         ">",
	LTE:        "<=",
	GTE:        ">=",
	CONCAT:     "||",
	ARROW:      "->",
	COLONCOLON: "::",
	REGEX:      "=~",
	IREGEX:     "=~*",
	NOT_REGEX:  "!~",
	NOT_IREGEX: "!~*",
	NULLISH:    "??",
	QUESTION:   "?",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	DOT:       ".",
	SEMICOLON: ";",
	COLON:     ":",

	ADD:          "ADD",
	AFTER:        "AFTER",
	ALIAS:        "ALIAS",
	ALL:          "ALL",
	ALTER:        "ALTER",
	AND:          "AND",
	ANTI:         "ANTI",
	ANY:          "ANY",
	ARRAY:        "ARRAY",
	AS:           "AS",
	ASC:          "ASC",
	ASOF:         "ASOF",
	AST:          "AST",
	ASYNC:        "ASYNC",
	ATTACH:       "ATTACH",
	BETWEEN:      "BETWEEN",
	BOTH:         "BOTH",
	BY:           "BY",
	CASE:         "CASE",
	CAST:         "CAST",
	CHECK:        "CHECK",
	CLEAR:        "CLEAR",
	CLUSTER:      "CLUSTER",
	CODEC:        "CODEC",
	COHORT:       "COHORT",
	COLLATE:      "COLLATE",
	COLUMN:       "COLUMN",
	COMMENT:      "COMMENT",
	CONSTRAINT:   "CONSTRAINT",
	CREATE:       "CREATE",
	CROSS:        "CROSS",
	CUBE:         "CUBE",
	CURRENT:      "CURRENT",
	DATABASE:     "DATABASE",
	DATABASES:    "DATABASES",
	DATE:         "DATE",
	DAY:          "DAY",
	DEDUPLICATE:  "DEDUPLICATE",
	DEFAULT:      "DEFAULT",
	DELAY:        "DELAY",
	DELETE:       "DELETE",
	DESC:         "DESC",
	DESCRIBE:     "DESCRIBE",
	DETACH:       "DETACH",
	DICTIONARIES: "DICTIONARIES",
	DICTIONARY:   "DICTIONARY",
	DISK:         "DISK",
	DISTINCT:     "DISTINCT",
	DISTRIBUTED:  "DISTRIBUTED",
	DROP:         "DROP",
	ELSE:         "ELSE",
	END:          "END",
	ENGINE:       "ENGINE",
	EVENTS:       "EVENTS",
	EXISTS:       "EXISTS",
	EXPLAIN:      "EXPLAIN",
	EXPRESSION:   "EXPRESSION",
	EXTRACT:      "EXTRACT",
	FALSE:        "FALSE",
	FETCHES:      "FETCHES",
	FINAL:        "FINAL",
	FIRST:        "FIRST",
	FLUSH:        "FLUSH",
	FOLLOWING:    "FOLLOWING",
	FOR:          "FOR",
	FORMAT:       "FORMAT",
	FREEZE:       "FREEZE",
	FROM:         "FROM",
	FULL:         "FULL",
	FUNCTION:     "FUNCTION",
	GLOBAL:       "GLOBAL",
	GRANULARITY:  "GRANULARITY",
	GROUP:        "GROUP",
	HAVING:       "HAVING",
	HIERARCHICAL: "HIERARCHICAL",
	HOUR:         "HOUR",
	ID:           "ID",
	IF:           "IF",
	ILIKE:        "ILIKE",
	IN:           "IN",
	INDEX:        "INDEX",
	INF:          "INF",
	INJECTIVE:    "INJECTIVE",
	INNER:        "INNER",
	INSERT:       "INSERT",
	INTERVAL:     "INTERVAL",
	INTO:         "INTO",
	IS:           "IS",
	IS_OBJECT_ID: "IS_OBJECT_ID",
	JOIN:         "JOIN",
	KEY:          "KEY",
	KILL:         "KILL",
	LAST:         "LAST",
	LAYOUT:       "LAYOUT",
	LEADING:      "LEADING",
	LEFT:         "LEFT",
	LIFETIME:     "LIFETIME",
	LIKE:         "LIKE",
	LIMIT:        "LIMIT",
	LIVE:         "LIVE",
	LOCAL:        "LOCAL",
	LOGS:         "LOGS",
	MATERIALIZE:  "MATERIALIZE",
	MATERIALIZED: "MATERIALIZED",
	MAX:          "MAX",
	MERGES:       "MERGES",
	MIN:          "MIN",
	MINUTE:       "MINUTE",
	MODIFY:       "MODIFY",
	MONTH:        "MONTH",
	MOVE:         "MOVE",
	MUTATION:     "MUTATION",
	NAN:          "NAN",
	NO:           "NO",
	NOT:          "NOT",
	NULL:         "NULL",
	NULLS:        "NULLS",
	OFFSET:       "OFFSET",
	ON:           "ON",
	OPTIMIZE:     "OPTIMIZE",
	OR:           "OR",
	ORDER:        "ORDER",
	OUTER:        "OUTER",
	OUTFILE:      "OUTFILE",
	OVER:         "OVER",
	PARTITION:    "PARTITION",
	POPULATE:     "POPULATE",
	PRECEDING:    "PRECEDING",
	PREWHERE:     "PREWHERE",
	PRIMARY:      "PRIMARY",
	PROJECTION:   "PROJECTION",
	QUARTER:      "QUARTER",
	RANGE:        "RANGE",
	RELOAD:       "RELOAD",
	REMOVE:       "REMOVE",
	RENAME:       "RENAME",
	REPLACE:      "REPLACE",
	REPLICA:      "REPLICA",
	REPLICATED:   "REPLICATED",
	RIGHT:        "RIGHT",
	ROLLUP:       "ROLLUP",
	ROW:          "ROW",
	ROWS:         "ROWS",
	SAMPLE:       "SAMPLE",
	SECOND:       "SECOND",
	SELECT:       "SELECT",
	SEMI:         "SEMI",
	SENDS:        "SENDS",
	SET:          "SET",
	SETTINGS:     "SETTINGS",
	SHOW:         "SHOW",
	SOURCE:       "SOURCE",
	START:        "START",
	STOP:         "STOP",
	SUBSTRING:    "SUBSTRING",
	SYNC:         "SYNC",
	SYNTAX:       "SYNTAX",
	SYSTEM:       "SYSTEM",
	TABLE:        "TABLE",
	TABLES:       "TABLES",
	TEMPORARY:    "TEMPORARY",
	TEST:         "TEST",
	THEN:         "THEN",
	TIES:         "TIES",
	TIMEOUT:      "TIMEOUT",
	TIMESTAMP:    "TIMESTAMP",
	TO:           "TO",
	TOP:          "TOP",
	TOTALS:       "TOTALS",
	TRAILING:     "TRAILING",
	TRIM:         "TRIM",
	TRUE:         "TRUE",
	TRUNCATE:     "TRUNCATE",
	TTL:          "TTL",
	TYPE:         "TYPE",
	UNBOUNDED:    "UNBOUNDED",
	UNION:        "UNION",
	UPDATE:       "UPDATE",
	USE:          "USE",
	USING:        "USING",
	UUID:         "UUID",
	VALUES:       "VALUES",
	VIEW:         "VIEW",
	VOLUME:       "VOLUME",
	WATCH:        "WATCH",
	WEEK:         "WEEK",
	WHEN:         "WHEN",
	WHERE:        "WHERE",
	WINDOW:       "WINDOW",
	WITH:         "WITH",
	YEAR:         "YEAR",
}

func (tok Token) String() string {
	if tok >= 0 && int(tok) < len(tokens) {
		return tokens[tok]
	}
	return fmt.Sprintf("token(%d)", int(tok))
}

// Keywords maps upper-case keyword spellings to their token types.
var Keywords map[string]Token

// Alternate spellings accepted for a keyword.
var aliases = map[string]Token{
	"ASCENDING":  ASC,
	"DESCENDING": DESC,
}

// Keywords that can never be used as an unquoted identifier.
var reserved = map[Token]bool{
	ALL: true, AND: true, ANTI: true, ARRAY: true, AS: true, ASOF: true,
	BETWEEN: true, BY: true, CASE: true, CAST: true, CROSS: true,
	DISTINCT: true, ELSE: true, END: true, EXISTS: true, EXTRACT: true,
	FALSE: true, FINAL: true, FROM: true, FULL: true, GLOBAL: true,
	GROUP: true, HAVING: true, ILIKE: true, IN: true, INNER: true,
	INTERVAL: true, INTO: true, IS: true, JOIN: true, LEFT: true,
	LIKE: true, LIMIT: true, NOT: true, NULL: true, OFFSET: true, ON: true,
	OR: true, ORDER: true, OUTER: true, OVER: true, PREWHERE: true,
	RIGHT: true, SAMPLE: true, SELECT: true, SEMI: true, SETTINGS: true,
	THEN: true, TRUE: true, UNION: true, USING: true, WHEN: true,
	WHERE: true, WINDOW: true, WITH: true,
	CREATE: true, ALTER: true, DROP: true, INSERT: true,
}

func init() {
	Keywords = make(map[string]Token)
	for i := keyword_beg + 1; i < keyword_end; i++ {
		Keywords[tokens[i]] = i
	}
	for s, tok := range aliases {
		Keywords[s] = tok
	}
}

// Lookup returns the token type for an identifier string, ignoring case.
// If the string is a keyword, it returns the keyword token.
// Otherwise, it returns IDENT.
func Lookup(ident string) Token {
	if tok, ok := Keywords[strings.ToUpper(ident)]; ok {
		return tok
	}
	return IDENT
}

// LookupExact is Lookup without case folding: only the upper-case
// spelling of a keyword is recognized.
func LookupExact(ident string) Token {
	if tok, ok := Keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token is a keyword.
func (tok Token) IsKeyword() bool {
	return tok > keyword_beg && tok < keyword_end
}

// IsReserved reports whether the keyword may not appear as an unquoted
// identifier. Keywords that are not reserved act as identifiers wherever
// the grammar expects a name.
func (tok Token) IsReserved() bool {
	return reserved[tok]
}

// IsLiteral returns true for identifier, number, string and placeholder tokens.
func (tok Token) IsLiteral() bool {
	return tok >= IDENT && tok <= PLACEHOLDER
}

// IsNumber returns true for the numeric literal kinds.
func (tok Token) IsNumber() bool {
	switch tok {
	case DECIMAL, OCTAL, HEX, FLOAT:
		return true
	}
	return false
}

// IsOperator returns true for operator and delimiter tokens.
func (tok Token) IsOperator() bool {
	return tok >= PLUS && tok < keyword_beg
}

// IsIntervalUnit returns true for the interval unit keywords.
func (tok Token) IsIntervalUnit() bool {
	switch tok {
	case SECOND, MINUTE, HOUR, DAY, WEEK, MONTH, QUARTER, YEAR:
		return true
	}
	return false
}

// Position represents a source position. Line and Column are zero-based;
// Column counts runes (a tab counts as one column unless the lexer is
// configured otherwise). Offset is the byte offset into the input.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String renders the position one-based, the way editors display it.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}
