// Package config loads the settings of the hogql binaries from a file,
// HOGQL_* environment variables and defaults, in increasing order of
// precedence for the first two.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/lexer"
	"github.com/tmilicic/posthog/parser"
)

// EnvPrefix is prepended to environment variable names: parser.max_depth
// is read from HOGQL_PARSER_MAX_DEPTH.
const EnvPrefix = "HOGQL"

// Config holds all configuration for the binaries.
type Config struct {
	Parser ParserConfig `mapstructure:"parser"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// ParserConfig holds the lexer and parser options.
type ParserConfig struct {
	MaxDepth              int    `mapstructure:"max_depth"`
	CaseSensitiveKeywords bool   `mapstructure:"case_sensitive_keywords"`
	IdentifierQuotes      string `mapstructure:"identifier_quotes"`
	EscapeChar            string `mapstructure:"escape_char"` // one character, or empty to disable escapes
	Placeholders          bool   `mapstructure:"placeholders"`
	TabWidth              int    `mapstructure:"tab_width"`
	DefaultNulls          string `mapstructure:"default_nulls"` // first or last
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host    string        `mapstructure:"host"`
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from path, if not empty, and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults mirrors lexer.DefaultConfig and parser.DefaultConfig.
func setDefaults(v *viper.Viper) {
	v.SetDefault("parser.max_depth", parser.DefaultMaxDepth)
	v.SetDefault("parser.case_sensitive_keywords", false)
	v.SetDefault("parser.identifier_quotes", "`\"")
	v.SetDefault("parser.escape_char", `\`)
	v.SetDefault("parser.placeholders", true)
	v.SetDefault("parser.tab_width", 1)
	v.SetDefault("parser.default_nulls", "last")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout", "30s")

	v.SetDefault("log.level", "info")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := c.Parser.Build(); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %s", c.Server.Timeout)
	}
	if _, err := c.Log.ZerologLevel(); err != nil {
		return err
	}
	return nil
}

// Build converts the options to a parser.Config. The logger is left
// disabled; binaries attach their own.
func (p ParserConfig) Build() (parser.Config, error) {
	cfg := parser.DefaultConfig()
	cfg.Config = lexer.Config{
		CaseSensitiveKeywords: p.CaseSensitiveKeywords,
		IdentifierQuotes:      p.IdentifierQuotes,
		Placeholders:          p.Placeholders,
		TabWidth:              p.TabWidth,
	}
	cfg.MaxDepth = p.MaxDepth

	if p.MaxDepth < 0 {
		return cfg, fmt.Errorf("parser.max_depth must not be negative, got %d", p.MaxDepth)
	}
	if strings.ContainsAny(p.IdentifierQuotes, "'") {
		return cfg, fmt.Errorf("parser.identifier_quotes: ' always quotes strings")
	}

	switch utf8.RuneCountInString(p.EscapeChar) {
	case 0:
		cfg.EscapeChar = 0
	case 1:
		cfg.EscapeChar, _ = utf8.DecodeRuneInString(p.EscapeChar)
	default:
		return cfg, fmt.Errorf("parser.escape_char must be a single character, got %q", p.EscapeChar)
	}

	switch strings.ToLower(p.DefaultNulls) {
	case "", "last":
		cfg.DefaultNulls = ast.NullsLast
	case "first":
		cfg.DefaultNulls = ast.NullsFirst
	default:
		return cfg, fmt.Errorf("parser.default_nulls must be first or last, got %q", p.DefaultNulls)
	}
	return cfg, nil
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ZerologLevel parses the configured level name.
func (l LogConfig) ZerologLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return level, nil
}
