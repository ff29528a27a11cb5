package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/hashicorp/go-cleanhttp"

	derrors "git.home.luguber.info/inful/apidocs/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocs/internal/logfields"
)

const (
	defaultFetchTimeout = 30 * time.Second
	maxSpecBytes        = 32 * 1024 * 1024
)

// Loader reads OpenAPI documents from URLs or local files.
type Loader struct {
	client *http.Client
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient replaces the pooled default client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithLogger sets the logger used for validation warnings.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader. External references are resolved by default.
func NewLoader(options ...LoaderOption) *Loader {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = defaultFetchTimeout

	l := &Loader{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Load fetches and parses the document at location. Fetch failures are
// classified as network errors, unreadable files as filesystem errors and
// unparsable content as spec errors. Structural validation problems do not
// fail the load; they are attached to the document and logged.
func (l *Loader) Load(ctx context.Context, location string) (*Document, error) {
	loc, remote, err := parseLocation(location)
	if err != nil {
		return nil, derrors.ConfigError("invalid spec location").
			WithCause(err).
			WithContext("source", location).
			Build()
	}

	var data []byte
	if remote {
		data, err = l.fetch(ctx, loc.String())
		if err != nil {
			return nil, derrors.NetworkError("failed to fetch OpenAPI document").
				WithCause(err).
				WithContext("source", location).
				Build()
		}
	} else {
		data, err = os.ReadFile(loc.Path)
		if err != nil {
			return nil, derrors.FileSystemError("failed to read OpenAPI document").
				WithCause(err).
				WithContext("source", location).
				Fatal().
				Build()
		}
	}

	return l.parse(ctx, location, loc, data)
}

// LoadData parses an in-memory document. location only identifies it.
func (l *Loader) LoadData(ctx context.Context, location string, data []byte) (*Document, error) {
	loc, _, err := parseLocation(location)
	if err != nil {
		loc = &url.URL{Path: location}
	}
	return l.parse(ctx, location, loc, data)
}

func (l *Loader) parse(ctx context.Context, id string, loc *url.URL, data []byte) (*Document, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true
	loader.ReadFromURIFunc = openapi3.ReadFromURIs(openapi3.ReadFromHTTP(l.client), openapi3.ReadFromFile)

	spec, err := loader.LoadFromDataWithPath(data, loc)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, derrors.NetworkError("loading OpenAPI document cancelled").
				WithCause(ctxErr).
				WithContext("source", id).
				Build()
		}
		return nil, derrors.SpecError("failed to parse OpenAPI document").
			WithCause(err).
			WithContext("source", id).
			Build()
	}

	doc := &Document{ID: id, Spec: spec}
	if verr := spec.Validate(ctx); verr != nil {
		doc.Problems = verr
		l.logger.Warn("OpenAPI document has validation problems",
			logfields.Source(id),
			logfields.Error(verr))
	}
	return doc, nil
}

func (l *Loader) fetch(ctx context.Context, specURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, specURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", specURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", specURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSpecBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(data) > maxSpecBytes {
		return nil, errors.New("response too large")
	}
	return data, nil
}

// LocalPath returns the filesystem path of a local location.
func LocalPath(location string) (string, bool) {
	loc, remote, err := parseLocation(location)
	if err != nil || remote {
		return "", false
	}
	return loc.Path, true
}

func parseLocation(location string) (*url.URL, bool, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, false, errors.New("empty location")
	}

	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, false, fmt.Errorf("invalid URL: %w", err)
		}
		if u.Host == "" {
			return nil, false, fmt.Errorf("invalid URL: missing host in %q", location)
		}
		return u, true, nil
	case strings.HasPrefix(lower, "file://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, false, fmt.Errorf("invalid file URL: %w", err)
		}
		return &url.URL{Path: filepath.FromSlash(u.Path)}, false, nil
	default:
		return &url.URL{Path: location}, false, nil
	}
}
