package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/apidocs/internal/config"
	derrors "git.home.luguber.info/inful/apidocs/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocs/internal/manifest"
	"git.home.luguber.info/inful/apidocs/internal/metrics"
	"git.home.luguber.info/inful/apidocs/internal/openapi"
	"git.home.luguber.info/inful/apidocs/internal/pages"
	"git.home.luguber.info/inful/apidocs/internal/pagepath"
	"git.home.luguber.info/inful/apidocs/internal/storage"
	"git.home.luguber.info/inful/apidocs/internal/tagmap"
)

const managementSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "Management", "version": "1"},
  "paths": {
    "/api/user/{id}": {
      "description": "User by id",
      "get": {"tags": ["用户管理"], "summary": "Get user", "responses": {"200": {"description": "ok"}}},
      "delete": {"tags": ["用户管理"], "description": "Deletes {id}", "responses": {"200": {"description": "ok"}}}
    },
    "/api/feature": {
      "post": {"tags": ["SomeNewFeature"], "responses": {"200": {"description": "ok"}}}
    },
    "/api/empty": {}
  }
}`

const relaySpec = `{
  "openapi": "3.0.3",
  "info": {"title": "Relay", "version": "1"},
  "paths": {
    "/v1/models": {
      "get": {"operationId": "listModels", "tags": ["模型（Models）/列出模型"], "responses": {"200": {"description": "ok"}}}
    },
    "/v1/chat/completions": {
      "post": {"operationId": "createChatCompletion", "tags": ["聊天（Chat）"], "responses": {"200": {"description": "ok"}}}
    }
  }
}`

// fakeLoader parses documents held in memory.
type fakeLoader struct {
	docs  map[string]string
	err   error
	calls int
}

func (f *fakeLoader) Load(ctx context.Context, location string) (*openapi.Document, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.docs[location]
	if !ok {
		return nil, derrors.NetworkError("not found").WithContext("source", location).Build()
	}
	return openapi.NewLoader(openapi.WithLogger(quietLogger())).LoadData(ctx, location, []byte(data))
}

type countingRecorder struct {
	durations map[string]int
	pages     map[metrics.PageResult]int
	outcomes  map[metrics.RunOutcome]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		durations: map[string]int{},
		pages:     map[metrics.PageResult]int{},
		outcomes:  map[metrics.RunOutcome]int{},
	}
}

func (c *countingRecorder) ObserveSurfaceDuration(surface string, _ time.Duration) {
	c.durations[surface]++
}

func (c *countingRecorder) IncPageResult(_ string, r metrics.PageResult) { c.pages[r]++ }
func (c *countingRecorder) IncRunOutcome(o metrics.RunOutcome)          { c.outcomes[o]++ }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type harness struct {
	loader   *fakeLoader
	stores   map[string]*storage.MemoryStore
	manifest *storage.MemoryStore
	recorder *countingRecorder
}

func newHarness() *harness {
	return &harness{
		loader:   &fakeLoader{docs: map[string]string{"openapi/api.json": managementSpec, "openapi/relay.json": relaySpec}},
		stores:   map[string]*storage.MemoryStore{},
		manifest: storage.NewMemoryStore(),
		recorder: newCountingRecorder(),
	}
}

func (h *harness) store(dir string) *storage.MemoryStore {
	if s, ok := h.stores[dir]; ok {
		return s
	}
	s := storage.NewMemoryStore()
	h.stores[dir] = s
	return s
}

func (h *harness) generator(opts ...Option) *Generator {
	base := []Option{
		WithLoader(h.loader),
		WithStoreFactory(func(dir string) storage.Store { return h.store(dir) }),
		WithRecorder(h.recorder),
		WithLogger(quietLogger()),
		WithLanguage(tagmap.LangChinese),
		WithManifest(h.manifest, "manifest.json"),
	}
	return New(append(base, opts...)...)
}

func surfaces() []config.SurfaceConfig {
	cfg := config.Default()
	return cfg.Surfaces
}

func TestBuildPlan_Management(t *testing.T) {
	h := newHarness()
	mgmt := surfaces()[1]

	plan, err := h.generator().Plan(context.Background(), mgmt)
	require.NoError(t, err)
	require.Equal(t, "openapi/api.json", plan.SchemaID)

	var got []string
	for _, d := range plan.Pages {
		got = append(got, d.Path)
	}
	require.Equal(t, []string{
		"SomeNewFeature/feature-post.mdx",
		"user-management/user-id-get.mdx",
		"user-management/user-id-delete.mdx",
	}, got)

	require.Equal(t, []Skip{{Ref: openapi.OperationRef{Route: "/api/empty"}, Reason: ReasonNoOperations}}, plan.Skips)
	require.Equal(t, []string{"SomeNewFeature", "user-management"}, plan.Folders())

	// Operation description wins, path item description is the fallback.
	require.Equal(t, pages.Meta{Title: "Get user", Description: "User by id"}, plan.Pages[1].Meta)
	require.Equal(t, pages.Meta{Title: "/api/user/{id}", Description: "Deletes {id}"}, plan.Pages[2].Meta)
	require.NoError(t, plan.CheckCollisions())
}

func TestCheckCollisions(t *testing.T) {
	const spec = `{
  "openapi": "3.0.3",
  "info": {"title": "x", "version": "1"},
  "paths": {
    "/a": {"get": {"operationId": "dup", "tags": ["t"], "responses": {"200": {"description": "ok"}}}},
    "/b": {"get": {"operationId": "dup", "tags": ["t"], "responses": {"200": {"description": "ok"}}},
           "put": {"operationId": "dup", "tags": ["t"], "responses": {"200": {"description": "ok"}}}}
  }
}`
	h := newHarness()
	h.loader.docs["x.json"] = spec
	s := config.SurfaceConfig{Name: "x", Title: "X", Source: "x.json", Output: "out/x", TagMapping: tagmap.TableAIModel, FileNaming: pagepath.NamingOperationID}

	plan, err := h.generator().Plan(context.Background(), s)
	require.NoError(t, err)
	err = plan.CheckCollisions()
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
	require.Contains(t, err.Error(), "GET /a and GET /b both map to t/dup.mdx")
	require.Contains(t, err.Error(), "GET /a and PUT /b both map to t/dup.mdx")

	_, err = h.generator().Run(context.Background(), []config.SurfaceConfig{s})
	require.Error(t, err)
	require.Empty(t, h.store("out/x").Paths())
}

func TestRun_WritesPagesAndFolderMeta(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	report, err := h.generator().Run(ctx, surfaces())
	require.NoError(t, err)
	require.Len(t, report.Surfaces, 2)
	require.Equal(t, 5, report.Total(OutcomeEmitted))
	require.Equal(t, 1, report.Total(OutcomeSkipped))

	ai := h.store("content/docs/zh/api/ai-model")
	require.Equal(t, []string{
		"chat/createChatCompletion.mdx",
		"chat/meta.json",
		"models/list/listModels.mdx",
		"models/list/meta.json",
		"models/meta.json",
	}, ai.Paths())

	meta, err := ai.Read(ctx, "models/list/meta.json")
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(meta, &fields))
	require.Equal(t, "列出模型", fields["title"])

	mgmt := h.store("content/docs/zh/api/management")
	page, err := mgmt.Read(ctx, "user-management/user-id-get.mdx")
	require.NoError(t, err)
	require.Contains(t, string(page), `operations={[{"path":"/api/user/{id}","method":"get"}]}`)
	require.Contains(t, mgmt.Paths(), "SomeNewFeature/feature-post.mdx")
	require.Contains(t, mgmt.Paths(), "SomeNewFeature/meta.json")

	require.Equal(t, 1, h.recorder.outcomes[metrics.RunSuccess])
	require.Equal(t, 5, h.recorder.pages[metrics.PageEmitted])
	require.Equal(t, 1, h.recorder.pages[metrics.PageSkipped])
	require.Equal(t, 1, h.recorder.durations["management"])

	data, err := h.manifest.Read(ctx, "manifest.json")
	require.NoError(t, err)
	m, err := manifest.FromJSON(data)
	require.NoError(t, err)
	require.Equal(t, manifest.StatusSuccess, m.Status)
	require.Equal(t, []string{"ai-model", "management"}, m.SurfaceNames())
	require.Equal(t, 1, m.Surfaces["management"].Skipped)
	require.Equal(t, []string{"models", "models/list"}, m.Surfaces["ai-model"].Folders[1:])
}

func TestRun_SecondRunLeavesPagesUnchanged(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.generator().Run(ctx, surfaces())
	require.NoError(t, err)
	writes := h.store("content/docs/zh/api/ai-model").Calls().Write

	report, err := h.generator().Run(ctx, surfaces())
	require.NoError(t, err)
	require.Equal(t, 0, report.Total(OutcomeEmitted))
	require.Equal(t, 5, report.Total(OutcomeUnchanged))
	require.Equal(t, writes, h.store("content/docs/zh/api/ai-model").Calls().Write)
}

func TestRun_LoadFailureAborts(t *testing.T) {
	h := newHarness()
	h.loader.err = derrors.NetworkError("connection refused").Build()
	ctx := context.Background()

	report, err := h.generator().Run(ctx, surfaces())
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryNetwork))
	require.Empty(t, report.Surfaces)
	require.Equal(t, 1, h.loader.calls)
	require.Equal(t, 1, h.recorder.outcomes[metrics.RunFailed])

	data, err := h.manifest.Read(ctx, "manifest.json")
	require.NoError(t, err)
	m, err := manifest.FromJSON(data)
	require.NoError(t, err)
	require.Equal(t, manifest.StatusFailed, m.Status)
}

func TestRun_Prune(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	ai := surfaces()[:1]

	_, err := h.generator(WithPrune(true)).Run(ctx, ai)
	require.NoError(t, err)

	h.loader.docs["openapi/relay.json"] = strings.Replace(relaySpec, `"operationId": "listModels", `, `"operationId": "listAllModels", `, 1)
	report, err := h.generator(WithPrune(true)).Run(ctx, ai)
	require.NoError(t, err)
	require.Equal(t, []string{"ai-model/models/list/listModels.mdx"}, report.Pruned)

	store := h.store("content/docs/zh/api/ai-model")
	require.NotContains(t, store.Paths(), "models/list/listModels.mdx")
	require.Contains(t, store.Paths(), "models/list/listAllModels.mdx")

	// Dropping the whole models folder removes its metadata as well.
	h.loader.docs["openapi/relay.json"] = strings.Replace(relaySpec, `"tags": ["模型（Models）/列出模型"]`, `"tags": ["聊天（Chat）"]`, 1)
	report, err = h.generator(WithPrune(true)).Run(ctx, ai)
	require.NoError(t, err)
	require.Equal(t, []string{
		"ai-model/models/list/listAllModels.mdx",
		"ai-model/models/list/meta.json",
		"ai-model/models/meta.json",
	}, report.Pruned)
	require.Equal(t, []string{"chat/createChatCompletion.mdx", "chat/listModels.mdx", "chat/meta.json"}, store.Paths())
}

func TestRun_WithoutPruneKeepsStalePages(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	ai := surfaces()[:1]

	_, err := h.generator().Run(ctx, ai)
	require.NoError(t, err)
	h.loader.docs["openapi/relay.json"] = strings.Replace(relaySpec, "listModels", "listAllModels", 1)
	report, err := h.generator().Run(ctx, ai)
	require.NoError(t, err)
	require.Empty(t, report.Pruned)
	require.Contains(t, h.store("content/docs/zh/api/ai-model").Paths(), "models/list/listModels.mdx")
}

func TestRun_CarriesUntouchedSurfaces(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	all := surfaces()

	_, err := h.generator().Run(ctx, all)
	require.NoError(t, err)
	_, err = h.generator().Run(ctx, all[1:])
	require.NoError(t, err)

	data, err := h.manifest.Read(ctx, "manifest.json")
	require.NoError(t, err)
	m, err := manifest.FromJSON(data)
	require.NoError(t, err)
	require.Equal(t, []string{"ai-model", "management"}, m.SurfaceNames())
}

// docLoader serves a document built in code.
type docLoader struct {
	doc *openapi.Document
}

func (d docLoader) Load(context.Context, string) (*openapi.Document, error) {
	return d.doc, nil
}

func TestRun_SkipsOperationThatCannotBeRendered(t *testing.T) {
	ok200 := openapi3.NewResponses(openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("ok")}))
	broken := &openapi3.Operation{
		OperationID: "broken",
		Tags:        []string{"t"},
		Responses:   ok200,
		Extensions:  map[string]any{"x-stream": make(chan int)},
	}
	fine := &openapi3.Operation{OperationID: "fine", Tags: []string{"t"}, Responses: ok200}
	doc := &openapi.Document{
		ID: "x.json",
		Spec: &openapi3.T{
			OpenAPI: "3.0.3",
			Info:    &openapi3.Info{Title: "x", Version: "1"},
			Paths: openapi3.NewPaths(
				openapi3.WithPath("/broken", &openapi3.PathItem{Get: broken}),
				openapi3.WithPath("/fine", &openapi3.PathItem{Get: fine}),
			),
		},
	}

	h := newHarness()
	s := config.SurfaceConfig{Name: "x", Title: "X", Source: "x.json", Output: "out/x", TagMapping: tagmap.TableAIModel, FileNaming: pagepath.NamingOperationID}

	report, err := h.generator(WithLoader(docLoader{doc: doc})).Run(context.Background(), []config.SurfaceConfig{s})
	require.NoError(t, err)
	require.Len(t, report.Surfaces, 1)
	require.Equal(t, 1, report.Total(OutcomeEmitted))
	require.Equal(t, 1, report.Total(OutcomeSkipped))

	var skipped []PageResult
	for _, p := range report.Surfaces[0].Pages {
		if p.Outcome == OutcomeSkipped {
			skipped = append(skipped, p)
		}
	}
	require.Equal(t, []PageResult{{
		Ref:     openapi.OperationRef{Route: "/broken", Method: "GET"},
		Outcome: OutcomeSkipped,
		Reason:  ReasonRenderFailure,
	}}, skipped)
	require.Equal(t, []string{"t/fine.mdx", "t/meta.json"}, h.store("out/x").Paths())
	require.Equal(t, 1, h.recorder.pages[metrics.PageSkipped])
	require.Equal(t, 1, h.recorder.outcomes[metrics.RunSuccess])
}

func TestResolve_MissingOperationIsSkipped(t *testing.T) {
	doc, err := openapi.NewLoader(openapi.WithLogger(quietLogger())).LoadData(context.Background(), "openapi/api.json", []byte(managementSpec))
	require.NoError(t, err)

	ref := openapi.OperationRef{Route: "/api/user/{id}", Method: "PATCH"}
	res := resolve(doc, ref, surfaces()[1])
	require.False(t, res.IsOk())
	_, skip := res.Get()
	require.Equal(t, Skip{Ref: ref, Reason: ReasonNoData}, skip)
	require.EqualError(t, skip, "PATCH /api/user/{id}: "+ReasonNoData)
}

func TestRun_FailureOnLaterSurfaceKeepsEarlierOutput(t *testing.T) {
	h := newHarness()
	delete(h.loader.docs, "openapi/api.json")
	ctx := context.Background()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	report, err := h.generator(WithLogger(logger)).Run(ctx, surfaces())
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryNetwork))
	require.Len(t, report.Surfaces, 1)
	require.Equal(t, "ai-model", report.Surfaces[0].Name)
	require.Equal(t, 2, h.loader.calls)

	require.Contains(t, h.store("content/docs/zh/api/ai-model").Paths(), "models/list/listModels.mdx")
	require.Empty(t, h.store("content/docs/zh/api/management").Paths())

	data, err := h.manifest.Read(ctx, "manifest.json")
	require.NoError(t, err)
	m, err := manifest.FromJSON(data)
	require.NoError(t, err)
	require.Equal(t, manifest.StatusFailed, m.Status)
	require.Equal(t, []string{"ai-model"}, m.SurfaceNames())
	require.Contains(t, m.Surfaces["ai-model"].Pages, "models/list/listModels.mdx")

	out := logs.String()
	require.Contains(t, out, "AI Model API docs generated")
	require.Contains(t, out, "API docs generation failed")
	require.NotContains(t, out, "Management API docs generated")
	require.NotContains(t, out, "All done")
	require.Equal(t, 1, h.recorder.outcomes[metrics.RunFailed])
	require.Zero(t, h.recorder.outcomes[metrics.RunSuccess])
}
