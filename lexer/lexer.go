// Package lexer implements a lexer for HogQL.
package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tmilicic/posthog/diag"
	"github.com/tmilicic/posthog/token"
)

// Config holds the lexical options of the language.
type Config struct {
	// CaseSensitiveKeywords restricts keyword matching to the upper-case
	// spelling. HogQL matches keywords case-insensitively.
	CaseSensitiveKeywords bool
	// IdentifierQuotes lists the characters that quote identifiers. A
	// double quote that is not listed here delimits a string literal.
	IdentifierQuotes string
	// EscapeChar starts an escape sequence inside quoted text. Zero
	// disables escapes; doubled quotes still work.
	EscapeChar rune
	// Placeholders enables {name} placeholder tokens.
	Placeholders bool
	// TabWidth is the number of columns a tab advances. Values below 2
	// count a tab as one column.
	TabWidth int
}

// DefaultConfig returns the HogQL lexical configuration.
func DefaultConfig() Config {
	return Config{
		IdentifierQuotes: "`\"",
		EscapeChar:       '\\',
		Placeholders:     true,
		TabWidth:         1,
	}
}

// Lexer tokenizes HogQL input.
type Lexer struct {
	reader *bufio.Reader
	cfg    Config
	ch     rune // current character
	size   int  // byte width of ch, zero at end of input
	pos    token.Position
	eof    bool
	raw    strings.Builder // source text of the token being scanned
	prev   token.Token     // last token returned
	err    error
}

// Item represents a lexical token with its value and position.
type Item struct {
	Token  token.Token    `json:"token"`
	Value  string         `json:"value"` // unescaped text; the name for placeholders
	Raw    string         `json:"raw"`   // exact source text
	Pos    token.Position `json:"pos"`
	End    token.Position `json:"end"`              // position just past the token
	Quoted bool           `json:"quoted,omitempty"` // identifier was written in quotes
}

// Len returns the span length of the token in bytes.
func (i Item) Len() int { return i.End.Offset - i.Pos.Offset }

// New creates a new Lexer from an io.Reader using DefaultConfig.
func New(r io.Reader) *Lexer {
	return NewWithConfig(r, DefaultConfig())
}

// NewWithConfig creates a new Lexer with the given configuration.
func NewWithConfig(r io.Reader, cfg Config) *Lexer {
	l := &Lexer{
		reader: bufio.NewReader(r),
		cfg:    cfg,
	}
	l.readChar()
	// A leading byte order mark is not part of the text.
	if l.ch == '\uFEFF' {
		l.readChar()
		l.pos = token.Position{Offset: l.pos.Offset}
	}
	return l
}

func (l *Lexer) readChar() {
	if l.size > 0 {
		l.raw.WriteRune(l.ch)
		l.pos.Offset += l.size
		switch {
		case l.ch == '\n':
			l.pos.Line++
			l.pos.Column = 0
		case l.ch == '\t' && l.cfg.TabWidth > 1:
			l.pos.Column += l.cfg.TabWidth
		default:
			l.pos.Column++
		}
	}
	if l.eof {
		l.ch, l.size = 0, 0
		return
	}

	r, size, err := l.reader.ReadRune()
	if err != nil {
		l.ch, l.size = 0, 0
		l.eof = true
		return
	}
	l.ch, l.size = r, size
}

// peekByte returns the byte n positions after the current character.
func (l *Lexer) peekByte(n int) byte {
	if l.eof {
		return 0
	}
	b, err := l.reader.Peek(n)
	if err != nil || len(b) < n {
		return 0
	}
	return b[n-1]
}

func (l *Lexer) peekChar() rune {
	return rune(l.peekByte(1))
}

func (l *Lexer) skipWhitespace() {
	for !l.eof && (isSpace(l.ch) || l.ch == '\uFEFF') {
		l.readChar()
	}
}

// skipTrivia discards whitespace and comments between tokens.
func (l *Lexer) skipTrivia() error {
	for {
		l.skipWhitespace()
		switch {
		case l.ch == '-' && l.peekChar() == '-':
			l.skipLineComment()
		case l.ch == '/' && l.peekChar() == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (l *Lexer) skipLineComment() {
	for !l.eof && l.ch != '\n' {
		l.readChar()
	}
}

// Block comments do not nest: the first */ closes the comment.
func (l *Lexer) skipBlockComment() error {
	pos := l.pos
	l.readChar()
	l.readChar()
	for !l.eof {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return nil
		}
		l.readChar()
	}
	return diag.NewLex(pos, "unterminated multi-line comment")
}

// NextToken returns the next token from the input. After the end of input
// it keeps returning EOF. After an error it keeps returning that error.
func (l *Lexer) NextToken() (Item, error) {
	if l.err != nil {
		return Item{Token: token.EOF, Pos: l.pos, End: l.pos}, l.err
	}
	if err := l.skipTrivia(); err != nil {
		l.err = err
		return Item{Token: token.EOF, Pos: l.pos, End: l.pos}, err
	}

	pos := l.pos
	if l.eof {
		return Item{Token: token.EOF, Pos: pos, End: pos}, nil
	}

	l.raw.Reset()
	item, err := l.scan(pos)
	if err != nil {
		l.err = err
		return Item{Token: token.EOF, Pos: pos, End: pos}, err
	}
	item.Pos = pos
	item.End = l.pos
	item.Raw = l.raw.String()
	l.prev = item.Token
	return item, nil
}

// afterOperand reports whether the previous token ends an operand, in which
// case a following '.' is member or tuple access rather than the start of
// a number like .5.
func (l *Lexer) afterOperand() bool {
	switch {
	case l.prev == token.IDENT, l.prev.IsNumber(),
		l.prev == token.RPAREN, l.prev == token.RBRACKET, l.prev == token.PLACEHOLDER:
		return true
	case l.prev.IsKeyword():
		return !l.prev.IsReserved()
	}
	return false
}

// op consumes n characters and returns an operator token.
func (l *Lexer) op(tok token.Token, n int) (Item, error) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return Item{Token: tok, Value: sb.String()}, nil
}

func (l *Lexer) scan(pos token.Position) (Item, error) {
	switch l.ch {
	case '+':
		return l.op(token.PLUS, 1)
	case '-':
		if l.peekChar() == '>' {
			return l.op(token.ARROW, 2)
		}
		return l.op(token.MINUS, 1)
	case '*':
		return l.op(token.ASTERISK, 1)
	case '/':
		return l.op(token.SLASH, 1)
	case '%':
		return l.op(token.PERCENT, 1)
	case '=':
		switch {
		case l.peekChar() == '=':
			return l.op(token.EQ, 2)
		case l.peekChar() == '~' && l.peekByte(2) == '*':
			return l.op(token.IREGEX, 3)
		case l.peekChar() == '~':
			return l.op(token.REGEX, 2)
		}
		return l.op(token.EQ, 1)
	case '!':
		switch {
		case l.peekChar() == '=':
			return l.op(token.NEQ, 2)
		case l.peekChar() == '~' && l.peekByte(2) == '*':
			return l.op(token.NOT_IREGEX, 3)
		case l.peekChar() == '~':
			return l.op(token.NOT_REGEX, 2)
		}
		return Item{}, diag.NewLex(pos, "unexpected character '!'")
	case '~':
		if l.peekChar() == '*' {
			return l.op(token.IREGEX, 2)
		}
		return l.op(token.REGEX, 1)
	case '<':
		switch l.peekChar() {
		case '=':
			return l.op(token.LTE, 2)
		case '>':
			return l.op(token.NEQ, 2)
		}
		return l.op(token.LT, 1)
	case '>':
		if l.peekChar() == '=' {
			return l.op(token.GTE, 2)
		}
		return l.op(token.GT, 1)
	case '|':
		if l.peekChar() == '|' {
			return l.op(token.CONCAT, 2)
		}
		return Item{}, diag.NewLex(pos, "unexpected character '|'")
	case ':':
		if l.peekChar() == ':' {
			return l.op(token.COLONCOLON, 2)
		}
		return l.op(token.COLON, 1)
	case '?':
		if l.peekChar() == '?' {
			return l.op(token.NULLISH, 2)
		}
		return l.op(token.QUESTION, 1)
	case '(':
		return l.op(token.LPAREN, 1)
	case ')':
		return l.op(token.RPAREN, 1)
	case '[':
		return l.op(token.LBRACKET, 1)
	case ']':
		return l.op(token.RBRACKET, 1)
	case '{':
		if l.cfg.Placeholders {
			if name, n := l.placeholderAhead(); n > 0 {
				for i := 0; i < n; i++ {
					l.readChar()
				}
				return Item{Token: token.PLACEHOLDER, Value: name}, nil
			}
		}
		return l.op(token.LBRACE, 1)
	case '}':
		return l.op(token.RBRACE, 1)
	case ',':
		return l.op(token.COMMA, 1)
	case '.':
		if isDigit(l.peekChar()) && !l.afterOperand() {
			return l.readNumber(pos)
		}
		return l.op(token.DOT, 1)
	case ';':
		return l.op(token.SEMICOLON, 1)
	case '\'':
		return l.readString(pos, '\'')
	}

	if strings.ContainsRune(l.cfg.IdentifierQuotes, l.ch) {
		return l.readQuotedIdentifier(pos, l.ch)
	}
	if l.ch == '"' {
		return l.readString(pos, '"')
	}
	if isDigit(l.ch) {
		return l.readNumber(pos)
	}
	if isIdentStart(l.ch) {
		return l.readIdentifier(), nil
	}
	if l.ch == utf8.RuneError && l.size == 1 {
		return Item{}, diag.NewLex(pos, "invalid UTF-8 encoding")
	}
	return Item{}, diag.NewLex(pos, "unexpected character %q", l.ch)
}

// placeholderAhead checks whether the text after the current '{' is an
// identifier-shaped placeholder name followed by '}'. It returns the name
// and the number of runes the placeholder spans, '{' included.
func (l *Lexer) placeholderAhead() (string, int) {
	buf, _ := l.reader.Peek(256)
	i, runes := 0, 1
	next := func() (rune, bool) {
		if i >= len(buf) {
			return 0, false
		}
		r, w := utf8.DecodeRune(buf[i:])
		i += w
		runes++
		return r, true
	}

	r, ok := next()
	for ok && (r == ' ' || r == '\t') {
		r, ok = next()
	}
	if !ok || !isIdentStart(r) {
		return "", 0
	}
	var name strings.Builder
	for ok && isIdentChar(r) {
		name.WriteRune(r)
		r, ok = next()
	}
	for ok && (r == ' ' || r == '\t') {
		r, ok = next()
	}
	if !ok || r != '}' {
		return "", 0
	}
	return name.String(), runes
}

func (l *Lexer) readString(pos token.Position, quote rune) (Item, error) {
	var sb strings.Builder
	l.readChar() // skip opening quote

	for !l.eof {
		if l.ch == quote {
			// A doubled quote stands for one quote character.
			if l.peekChar() == quote {
				sb.WriteRune(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return Item{Token: token.STRING, Value: sb.String()}, nil
		}
		if l.cfg.EscapeChar != 0 && l.ch == l.cfg.EscapeChar {
			if err := l.readEscape(&sb); err != nil {
				return Item{}, err
			}
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return Item{}, diag.NewLex(pos, "unterminated string literal")
}

// readEscape decodes one escape sequence starting at the escape character.
// Unknown escapes keep the escape character so regular expressions written
// as '\d+' survive unchanged.
func (l *Lexer) readEscape(sb *strings.Builder) error {
	escPos := l.pos
	esc := l.ch
	l.readChar()
	if l.eof {
		// The unterminated literal is reported by the caller.
		return nil
	}
	switch l.ch {
	case 'n':
		sb.WriteRune('\n')
	case 't':
		sb.WriteRune('\t')
	case 'r':
		sb.WriteRune('\r')
	case '0':
		sb.WriteRune('\x00')
	case 'a':
		sb.WriteRune('\a')
	case 'b':
		sb.WriteRune('\b')
	case 'f':
		sb.WriteRune('\f')
	case 'v':
		sb.WriteRune('\v')
	case '\\', '\'', '"', '`':
		sb.WriteRune(l.ch)
	case 'x':
		l.readChar()
		hi := l.ch
		if !isHexDigit(hi) {
			return diag.NewLex(escPos, "invalid escape sequence: \\x must be followed by two hex digits")
		}
		l.readChar()
		lo := l.ch
		if !isHexDigit(lo) {
			return diag.NewLex(escPos, "invalid escape sequence: \\x must be followed by two hex digits")
		}
		sb.WriteByte(byte(hexValue(hi)<<4 | hexValue(lo)))
	default:
		sb.WriteRune(esc)
		sb.WriteRune(l.ch)
	}
	l.readChar()
	return nil
}

func (l *Lexer) readQuotedIdentifier(pos token.Position, quote rune) (Item, error) {
	var sb strings.Builder
	l.readChar() // skip opening quote

	for !l.eof {
		if l.ch == quote {
			if l.peekChar() == quote {
				sb.WriteRune(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			if sb.Len() == 0 {
				return Item{}, diag.NewLex(pos, "empty quoted identifier")
			}
			return Item{Token: token.IDENT, Value: sb.String(), Quoted: true}, nil
		}
		if l.cfg.EscapeChar != 0 && l.ch == l.cfg.EscapeChar {
			if err := l.readEscape(&sb); err != nil {
				return Item{}, err
			}
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return Item{}, diag.NewLex(pos, "unterminated quoted identifier")
}

// readNumber reads hexadecimal (0x1F), octal (0755), decimal (42) and
// floating (1.5, 1., .5, 2e10, 1.5e-3) literals. Anything identifier-like glued
// to the end of a number is an error.
func (l *Lexer) readNumber(pos token.Position) (Item, error) {
	var sb strings.Builder

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		sb.WriteRune(l.ch)
		l.readChar()
		sb.WriteRune(l.ch)
		l.readChar()
		if !isHexDigit(l.ch) {
			return Item{}, diag.NewLex(pos, "malformed hexadecimal literal %q", sb.String())
		}
		for isHexDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		return l.finishNumber(pos, token.HEX, &sb)
	}

	for isDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}

	tok := token.DECIMAL
	// After a '.', digits are a tuple index: t.1.2 is two accesses.
	if l.ch == '.' && l.prev != token.DOT {
		tok = token.FLOAT
		sb.WriteRune(l.ch)
		l.readChar()
		for isDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		tok = token.FLOAT
		sb.WriteRune(l.ch)
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		if !isDigit(l.ch) {
			return Item{}, diag.NewLex(pos, "malformed exponent in numeric literal %q", sb.String())
		}
		for isDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}

	// A leading zero makes an octal literal only when every digit is octal;
	// 08 and 019 are decimal.
	text := sb.String()
	if tok == token.DECIMAL && len(text) > 1 && text[0] == '0' &&
		strings.IndexFunc(text, func(c rune) bool { return c > '7' }) < 0 {
		tok = token.OCTAL
	}
	return l.finishNumber(pos, tok, &sb)
}

func (l *Lexer) finishNumber(pos token.Position, tok token.Token, sb *strings.Builder) (Item, error) {
	if isIdentChar(l.ch) {
		var suffix strings.Builder
		for isIdentChar(l.ch) {
			suffix.WriteRune(l.ch)
			l.readChar()
		}
		return Item{}, diag.NewLex(pos, "invalid suffix %q on numeric literal %q", suffix.String(), sb.String())
	}
	return Item{Token: tok, Value: sb.String()}, nil
}

func (l *Lexer) readIdentifier() Item {
	var sb strings.Builder
	for isIdentChar(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	ident := sb.String()
	tok := token.Lookup(ident)
	if l.cfg.CaseSensitiveKeywords {
		tok = token.LookupExact(ident)
	}
	return Item{Token: tok, Value: ident}
}

// isSpace accepts exactly the HogQL whitespace set. Vertical tab, form
// feed and Unicode spaces are illegal characters.
func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch rune) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10
	}
	return 0
}

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_' || ch == '$'
}

func isIdentChar(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}

// Tokenize returns all tokens in the input, ending with EOF.
func Tokenize(r io.Reader) ([]Item, error) {
	return TokenizeWithConfig(r, DefaultConfig())
}

// TokenizeWithConfig is Tokenize with explicit lexical options.
func TokenizeWithConfig(r io.Reader, cfg Config) ([]Item, error) {
	l := NewWithConfig(r, cfg)
	var items []Item
	for {
		item, err := l.NextToken()
		if err != nil {
			return items, err
		}
		items = append(items, item)
		if item.Token == token.EOF {
			return items, nil
		}
	}
}
