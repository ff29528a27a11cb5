// Package commands implements the apidocs subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/apidocs/internal/config"
	derrors "git.home.luguber.info/inful/apidocs/internal/foundation/errors"
)

// DefaultConfigFile is read when present and no --config is given.
const DefaultConfigFile = "apidocs.yaml"

// Global is shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
	ctx    context.Context
}

// NewGlobal returns the command context. ctx is cancelled on shutdown signals.
func NewGlobal(ctx context.Context, logger *slog.Logger, out io.Writer) *Global {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = os.Stdout
	}
	return &Global{Logger: logger, Out: out, ctx: ctx}
}

// Context returns the command context.
func (g *Global) Context() context.Context {
	if g.ctx == nil {
		return context.Background()
	}
	return g.ctx
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: apidocs.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"1" help:"Generate API pages for the configured surfaces"`
	Plan     PlanCmd     `cmd:"" help:"Print the pages a generation run would write, without writing"`
	Tags     TagsCmd     `cmd:"" help:"Print tag mapping tables"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(os.Stderr, config.LogFormatText, level))
	return nil
}

// LoadConfig reads the configuration. Without --config the default file is
// optional and the built-in surfaces apply. Logging is reconfigured from the
// loaded settings unless --verbose is set.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	path, required := c.Config, true
	if path == "" {
		path, required = DefaultConfigFile, false
	}

	cfg, warnings, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level.Slog()
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = newLogger(os.Stderr, cfg.Logging.Format, level)
	slog.SetDefault(g.Logger)

	for _, w := range warnings {
		g.Logger.Warn("Configuration warning", "warning", w)
	}
	return cfg, nil
}

func newLogger(w io.Writer, format config.LogFormat, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: derrors.ReplaceLevel}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// selectSurfaces returns the named surfaces in configuration order, or all of
// them when names is empty.
func selectSurfaces(cfg *config.Config, names []string) ([]config.SurfaceConfig, error) {
	if len(names) == 0 {
		return cfg.Surfaces, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := cfg.Surface(n); !ok {
			return nil, derrors.ConfigError(fmt.Sprintf("unknown surface %q", n)).
				WithContext("surfaces", cfg.SurfaceNames()).
				Build()
		}
		want[n] = true
	}
	var out []config.SurfaceConfig
	for _, s := range cfg.Surfaces {
		if want[s.Name] {
			out = append(out, s)
		}
	}
	return out, nil
}
