package generate

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/hashicorp/go-multierror"

	"git.home.luguber.info/inful/apidocs/internal/config"
	derrors "git.home.luguber.info/inful/apidocs/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocs/internal/logfields"
	"git.home.luguber.info/inful/apidocs/internal/manifest"
	"git.home.luguber.info/inful/apidocs/internal/metrics"
	"git.home.luguber.info/inful/apidocs/internal/openapi"
	"git.home.luguber.info/inful/apidocs/internal/pages"
	"git.home.luguber.info/inful/apidocs/internal/storage"
	"git.home.luguber.info/inful/apidocs/internal/tagmap"
	"git.home.luguber.info/inful/apidocs/internal/version"
)

// SpecLoader loads a specification document from a URL or local path.
type SpecLoader interface {
	Load(ctx context.Context, location string) (*openapi.Document, error)
}

// StoreFactory opens the store rooted at a surface output directory.
type StoreFactory func(outputDir string) storage.Store

// Generator runs surfaces. It is not safe for concurrent use.
type Generator struct {
	loader       SpecLoader
	stores       StoreFactory
	recorder     metrics.Recorder
	logger       *slog.Logger
	language     string
	manifest     storage.Store
	manifestName string
	prune        bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithLoader replaces the default specification loader.
func WithLoader(l SpecLoader) Option {
	return func(g *Generator) { g.loader = l }
}

// WithStoreFactory replaces the filesystem stores used for output directories.
func WithStoreFactory(f StoreFactory) Option {
	return func(g *Generator) { g.stores = f }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithLanguage sets the language of folder titles.
func WithLanguage(lang string) Option {
	return func(g *Generator) { g.language = lang }
}

// WithManifest records every run in store under name.
func WithManifest(store storage.Store, name string) Option {
	return func(g *Generator) {
		g.manifest = store
		g.manifestName = name
	}
}

// WithPrune removes files the previous manifest recorded but the current run
// no longer produced. It requires WithManifest.
func WithPrune(prune bool) Option {
	return func(g *Generator) { g.prune = prune }
}

// New creates a Generator.
func New(options ...Option) *Generator {
	g := &Generator{
		stores:   func(dir string) storage.Store { return storage.NewFSStore(dir) },
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		language: tagmap.LangEnglish,
	}
	for _, opt := range options {
		opt(g)
	}
	if g.loader == nil {
		g.loader = openapi.NewLoader(openapi.WithLogger(g.logger))
	}
	return g
}

// Plan loads the surface document and plans its pages without writing.
func (g *Generator) Plan(ctx context.Context, s config.SurfaceConfig) (*Plan, error) {
	doc, err := g.loader.Load(ctx, s.Source)
	if err != nil {
		return nil, err
	}
	return BuildPlan(doc, s), nil
}

// Run generates every surface in order. The first hard error aborts the run;
// surfaces already finished keep their output.
func (g *Generator) Run(ctx context.Context, surfaces []config.SurfaceConfig) (*Report, error) {
	start := time.Now()
	report := &Report{}

	prev, err := g.loadManifest(ctx)
	if err != nil {
		return report, err
	}
	cur := manifest.New(version.Version, start)

	runErr := func() error {
		for _, s := range surfaces {
			res, err := g.GenerateSurface(ctx, s)
			if err != nil {
				g.logger.Error("API docs generation failed", logfields.Surface(s.Name), logfields.Error(err))
				return err
			}
			report.Surfaces = append(report.Surfaces, res)
			cur.Record(s.Name, res.manifestEntry())
		}
		return nil
	}()

	if runErr == nil && g.prune && prev != nil {
		report.Pruned, runErr = g.pruneStale(ctx, prev, cur, surfaces)
	}

	report.Duration = time.Since(start)
	status, outcome := manifest.StatusSuccess, metrics.RunSuccess
	if runErr != nil {
		status, outcome = manifest.StatusFailed, metrics.RunFailed
	}
	g.recorder.IncRunOutcome(outcome)

	cur.Carry(prev)
	cur.Finish(status, report.Duration)
	if err := g.saveManifest(ctx, cur); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return report, runErr
	}

	g.logger.Info("All done",
		logfields.Count(report.Total(OutcomeEmitted)+report.Total(OutcomeUnchanged)),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

// GenerateSurface loads one surface document and writes its pages and folder
// metadata.
func (g *Generator) GenerateSurface(ctx context.Context, s config.SurfaceConfig) (*SurfaceResult, error) {
	start := time.Now()
	log := g.logger.With(logfields.Surface(s.Name))

	doc, err := g.loader.Load(ctx, s.Source)
	if err != nil {
		return nil, err
	}

	log.Debug("Loaded specification", logfields.Source(s.Source), slog.String("title", doc.Title()),
		slog.Int("operations", len(doc.Index())))

	plan := BuildPlan(doc, s)
	if err := plan.CheckCollisions(); err != nil {
		return nil, err
	}

	res := &SurfaceResult{Name: s.Name, Title: s.Title, Source: s.Source, Output: s.Output}
	for _, sk := range plan.Skips {
		log.Debug("Skipping operation", logfields.Route(sk.Ref.Route), logfields.Method(sk.Ref.Method), logfields.Reason(sk.Reason))
		res.Pages = append(res.Pages, PageResult{Ref: sk.Ref, Outcome: OutcomeSkipped, Reason: sk.Reason})
	}

	emitter := pages.NewEmitter(g.stores(s.Output))
	var writeErrs *multierror.Error
	for _, d := range plan.Pages {
		if err := ctx.Err(); err != nil {
			return nil, derrors.InternalError("generation cancelled").WithCause(err).Build()
		}

		page, err := pages.Render(d)
		if err != nil {
			log.Warn("Skipping operation", logfields.Route(d.Operation.Route), logfields.Method(d.Operation.Method),
				logfields.Reason(ReasonRenderFailure), logfields.Error(err))
			res.Pages = append(res.Pages, PageResult{Ref: d.Ref(), Outcome: OutcomeSkipped, Reason: ReasonRenderFailure})
			continue
		}

		status, err := emitter.Emit(ctx, page)
		if err != nil {
			writeErrs = multierror.Append(writeErrs, err)
			continue
		}
		outcome := OutcomeEmitted
		if status == pages.StatusUnchanged {
			outcome = OutcomeUnchanged
		}
		log.Debug("Page "+string(status), logfields.Path(page.Path), logfields.Operation(d.Operation.ID))
		res.Pages = append(res.Pages, PageResult{Ref: d.Ref(), Path: page.Path, Outcome: outcome})
	}

	for _, folder := range plan.Folders() {
		if _, err := emitter.WriteFolderMeta(ctx, folder, tagmap.DisplayTitle(path.Base(folder), g.language)); err != nil {
			writeErrs = multierror.Append(writeErrs, err)
			continue
		}
		res.Folders = append(res.Folders, folder)
	}

	if writeErrs != nil {
		return nil, derrors.FileSystemError(fmt.Sprintf("failed to write %d file(s)", len(writeErrs.Errors))).
			Fatal().
			WithCause(writeErrs).
			WithContext("surface", s.Name).
			Build()
	}

	res.Duration = time.Since(start)
	g.recorder.ObserveSurfaceDuration(s.Name, res.Duration)
	for _, p := range res.Pages {
		g.recorder.IncPageResult(s.Name, p.Outcome.metric())
	}

	log.Info(s.Title+" API docs generated",
		logfields.Count(len(res.Paths())),
		slog.Int("unchanged", res.Count(OutcomeUnchanged)),
		slog.Int("skipped", res.Count(OutcomeSkipped)),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	return res, nil
}

func (g *Generator) pruneStale(ctx context.Context, prev, cur *manifest.Manifest, surfaces []config.SurfaceConfig) ([]string, error) {
	var pruned []string
	for _, s := range surfaces {
		before, ok := prev.Surfaces[s.Name]
		if !ok {
			continue
		}
		stale := manifest.Stale(before, cur.Surfaces[s.Name], pages.MetaFile)
		if len(stale) == 0 {
			continue
		}
		emitter := pages.NewEmitter(g.stores(s.Output))
		for _, rel := range stale {
			if err := emitter.Remove(ctx, rel); err != nil {
				return pruned, err
			}
			g.logger.Info("Removed stale file", logfields.Surface(s.Name), logfields.Path(rel))
			pruned = append(pruned, s.Name+"/"+rel)
		}
	}
	return pruned, nil
}

func (g *Generator) loadManifest(ctx context.Context) (*manifest.Manifest, error) {
	if g.manifest == nil {
		return nil, nil
	}
	m, err := manifest.Load(ctx, g.manifest, g.manifestName)
	if err != nil {
		// A corrupt manifest only disables pruning.
		g.logger.Warn("Ignoring unreadable manifest", logfields.Path(g.manifestName), logfields.Error(err))
		return nil, nil
	}
	return m, nil
}

func (g *Generator) saveManifest(ctx context.Context, m *manifest.Manifest) error {
	if g.manifest == nil {
		return nil
	}
	if err := m.Save(ctx, g.manifest, g.manifestName); err != nil {
		return derrors.FileSystemError("failed to write manifest").
			Fatal().
			WithCause(err).
			WithContext("path", g.manifestName).
			Build()
	}
	return nil
}
