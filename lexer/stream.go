package lexer

import (
	"github.com/tmilicic/posthog/token"
)

// Stream buffers tokens from a Lexer to give the parser lookahead and
// bounded backtracking. Tokens are lexed on demand.
//
// A lex error ends the stream: from then on every Peek and Advance yields
// an EOF item at the error position, and Err returns the error.
type Stream struct {
	lex  *Lexer
	buf  []Item
	pos  int
	err  error
	done bool
}

// Mark is a saved stream position.
type Mark int

// NewStream creates a Stream reading from l.
func NewStream(l *Lexer) *Stream {
	return &Stream{lex: l}
}

// fill makes sure buf holds the token at index i, or ends with EOF.
func (s *Stream) fill(i int) {
	for !s.done && len(s.buf) <= i {
		item, err := s.lex.NextToken()
		if err != nil {
			s.err = err
			s.done = true
			s.buf = append(s.buf, item)
			return
		}
		s.buf = append(s.buf, item)
		if item.Token == token.EOF {
			s.done = true
		}
	}
}

// Peek returns the token k positions ahead; Peek(0) is the current token.
// Past the end it returns the final EOF.
func (s *Stream) Peek(k int) Item {
	i := s.pos + k
	s.fill(i)
	if i >= len(s.buf) {
		return s.buf[len(s.buf)-1]
	}
	return s.buf[i]
}

// Current returns the token at the stream position.
func (s *Stream) Current() Item {
	return s.Peek(0)
}

// Advance consumes and returns the current token. The stream never moves
// past EOF.
func (s *Stream) Advance() Item {
	item := s.Current()
	if item.Token != token.EOF {
		s.pos++
	}
	return item
}

// Mark records the current position for a later Reset.
func (s *Stream) Mark() Mark {
	return Mark(s.pos)
}

// Reset rewinds the stream to m. Tokens are not lexed again.
func (s *Stream) Reset(m Mark) {
	s.pos = int(m)
}

// Err returns the lex error that ended the stream, if any.
func (s *Stream) Err() error {
	return s.err
}

// Drain lexes the rest of the input without moving the stream position
// and returns the lex error, if any. Callers use it to let a later lex
// error take priority over an earlier parse error.
func (s *Stream) Drain() error {
	for !s.done {
		s.fill(len(s.buf))
	}
	return s.err
}
