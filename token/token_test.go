package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		in   string
		want Token
	}{
		{"select", SELECT},
		{"SeLeCt", SELECT},
		{"ascending", ASC},
		{"DESCENDING", DESC},
		{"events", EVENTS},
		{"Timestamp", TIMESTAMP},
		{"$browser", IDENT},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Lookup(tt.in), tt.in)
	}
}

func TestLookupExact(t *testing.T) {
	assert.Equal(t, SELECT, LookupExact("SELECT"))
	assert.Equal(t, IDENT, LookupExact("select"))
}

func TestClassification(t *testing.T) {
	assert.True(t, SELECT.IsKeyword())
	assert.True(t, SELECT.IsReserved())
	assert.True(t, EVENTS.IsKeyword())
	assert.False(t, EVENTS.IsReserved())
	assert.False(t, IDENT.IsKeyword())

	assert.True(t, HEX.IsNumber())
	assert.True(t, FLOAT.IsNumber())
	assert.False(t, STRING.IsNumber())
	assert.True(t, STRING.IsLiteral())

	assert.True(t, ARROW.IsOperator())
	assert.False(t, AND.IsOperator())

	assert.True(t, QUARTER.IsIntervalUnit())
	assert.False(t, DATE.IsIntervalUnit())
}

func TestString(t *testing.T) {
	assert.Equal(t, "SELECT", SELECT.String())
	assert.Equal(t, "!=", NEQ.String())
	assert.Equal(t, "::", COLONCOLON.String())
	assert.Equal(t, "token(-1)", Token(-1).String())
}

func TestPosition(t *testing.T) {
	p := Position{Offset: 12, Line: 1, Column: 3}
	assert.Equal(t, "2:4", p.String())
	assert.Equal(t, "1:1", Position{}.String())
}
