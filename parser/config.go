package parser

import (
	"github.com/rs/zerolog"

	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/lexer"
)

// DefaultMaxDepth is the nesting limit used when Config.MaxDepth is zero.
const DefaultMaxDepth = 512

// Config controls the parser. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	lexer.Config

	// MaxDepth bounds how deeply expressions and subqueries may nest.
	MaxDepth int
	// DefaultNulls is the NULLS ordering recorded on ORDER BY entries that
	// do not spell one out.
	DefaultNulls ast.NullsOrder
	// Logger receives debug events. It defaults to a disabled logger.
	Logger zerolog.Logger
}

// DefaultConfig returns the HogQL parser configuration.
func DefaultConfig() Config {
	return Config{
		Config:       lexer.DefaultConfig(),
		MaxDepth:     DefaultMaxDepth,
		DefaultNulls: ast.NullsLast,
		Logger:       zerolog.Nop(),
	}
}

func (c Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

func (c Config) defaultNulls() ast.NullsOrder {
	if c.DefaultNulls == "" {
		return ast.NullsLast
	}
	return c.DefaultNulls
}
