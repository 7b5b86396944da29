package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tmilicic/posthog/internal/config"
	"github.com/tmilicic/posthog/parser"
)

// errRejected is returned by commands whose input failed to lex or
// parse, after the diagnostics have been printed.
var errRejected = errors.New("input rejected")

// app holds the state shared by all subcommands. It is filled in by
// setup before any command runs.
type app struct {
	configPath string
	debug      bool

	cfg    *config.Config
	parser parser.Config
	log    zerolog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "hogql",
		Short:             "Parse, format and explain HogQL queries",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (yaml, json or toml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "log parser debug events")

	root.AddCommand(
		a.tokensCommand(),
		a.parseCommand(),
		a.fmtCommand(),
		a.explainCommand(),
		a.fingerprintCommand(),
		a.serveCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	level, err := cfg.Log.ZerologLevel()
	if err != nil {
		return err
	}
	if a.debug {
		level = zerolog.DebugLevel
	}

	a.cfg = cfg
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: zerolog.SyncWriter(cmd.ErrOrStderr())}).
		Level(level).
		With().Timestamp().
		Logger()
	if a.parser, err = cfg.Parser.Build(); err != nil {
		return err
	}
	a.parser.Logger = a.log
	return nil
}

// source is one input: a file or standard input.
type source struct {
	name string
	text string
}

func readSources(cmd *cobra.Command, args []string) ([]source, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	sources := make([]source, 0, len(args))
	for _, name := range args {
		var (
			data []byte
			err  error
		)
		if name == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
			name = "<stdin>"
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		sources = append(sources, source{name: name, text: string(data)})
	}
	return sources, nil
}
