package commands

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/apidocs/internal/config"
	derrors "git.home.luguber.info/inful/apidocs/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocs/internal/generate"
	"git.home.luguber.info/inful/apidocs/internal/logfields"
	"git.home.luguber.info/inful/apidocs/internal/metrics"
	"git.home.luguber.info/inful/apidocs/internal/storage"
	"git.home.luguber.info/inful/apidocs/internal/watch"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Surface     []string `short:"s" help:"Surface to generate (repeatable, default: all)"`
	Prune       bool     `help:"Remove pages the previous run generated but this run did not"`
	Watch       bool     `short:"w" help:"Regenerate a surface whose local source file changes"`
	MetricsFile string   `name:"metrics-file" help:"Write Prometheus metrics to this textfile after every run"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	surfaces, err := selectSurfaces(cfg, c.Surface)
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if c.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	gen := newGenerator(g, cfg, recorder, c.Prune)
	run := func(ctx context.Context, selected []config.SurfaceConfig) error {
		_, err := gen.Run(ctx, selected)
		if prom != nil {
			if werr := prom.WriteTextfile(c.MetricsFile); werr != nil {
				g.Logger.Warn("Failed to write metrics", logfields.Path(c.MetricsFile), logfields.Error(werr))
			}
		}
		return err
	}

	ctx := g.Context()
	if err := run(ctx, surfaces); err != nil || !c.Watch {
		return err
	}

	targets, remote := watch.Targets(surfaces)
	for _, name := range remote {
		g.Logger.Warn("Not watching remote source", logfields.Surface(name))
	}
	if len(targets) == 0 {
		return derrors.ConfigError("--watch needs at least one surface with a local source").Build()
	}

	w, err := watch.New(targets, func(ctx context.Context, name string) error {
		s, ok := cfg.Surface(name)
		if !ok {
			return nil
		}
		return run(ctx, []config.SurfaceConfig{s})
	}, watch.WithLogger(g.Logger))
	if err != nil {
		return derrors.InternalError("failed to start watcher").WithCause(err).Build()
	}
	return w.Run(ctx)
}

func newGenerator(g *Global, cfg *config.Config, recorder metrics.Recorder, prune bool) *generate.Generator {
	manifestDir, manifestName := filepath.Dir(cfg.ManifestPath), filepath.Base(cfg.ManifestPath)
	return generate.New(
		generate.WithLogger(g.Logger),
		generate.WithLanguage(cfg.Language),
		generate.WithRecorder(recorder),
		generate.WithManifest(storage.NewFSStore(manifestDir), manifestName),
		generate.WithPrune(prune),
	)
}
