// Package config holds the apidocs configuration: the API surfaces to
// generate, where their specifications live and where pages are written.
//
// Every field has a built-in default, so a configuration file is optional.
// Loading runs three passes in order: normalization (case-folded enums),
// defaults, then validation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/apidocs/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocs/internal/pagepath"
	"git.home.luguber.info/inful/apidocs/internal/tagmap"
)

// CurrentVersion is the configuration format version.
const CurrentVersion = "1.0"

// EnvLogLevel overrides logging.level when set.
const EnvLogLevel = "APIDOCS_LOG_LEVEL"

// Config is the root configuration.
type Config struct {
	Version      string          `yaml:"version"`
	Language     string          `yaml:"language,omitempty"`
	OutputRoot   string          `yaml:"output_root,omitempty"`
	ManifestPath string          `yaml:"manifest_path,omitempty"`
	Logging      LoggingConfig   `yaml:"logging,omitempty"`
	Surfaces     []SurfaceConfig `yaml:"surfaces,omitempty"`
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// SurfaceConfig describes one API surface: a specification document and the
// rules for turning its operations into pages.
type SurfaceConfig struct {
	Name       string          `yaml:"name"`
	Title      string          `yaml:"title,omitempty"`
	Source     string          `yaml:"source"`
	Output     string          `yaml:"output,omitempty"`
	TagMapping string          `yaml:"tag_mapping,omitempty"`
	FileNaming pagepath.Naming `yaml:"file_naming,omitempty"`
	APIPrefix  string          `yaml:"api_prefix,omitempty"`
}

// Rule returns the page path rule of the surface.
func (s SurfaceConfig) Rule() pagepath.Rule {
	return pagepath.Rule{Naming: s.FileNaming, APIPrefix: s.APIPrefix}
}

// Table returns the tag mapping table of the surface. Unknown names yield nil,
// which maps nothing.
func (s SurfaceConfig) Table() *tagmap.Table {
	t, _ := tagmap.Get(s.TagMapping)
	return t
}

// Surface returns the named surface.
func (c *Config) Surface(name string) (SurfaceConfig, bool) {
	for _, s := range c.Surfaces {
		if s.Name == name {
			return s, true
		}
	}
	return SurfaceConfig{}, false
}

// SurfaceNames lists configured surface names in configuration order.
func (c *Config) SurfaceNames() []string {
	names := make([]string, 0, len(c.Surfaces))
	for _, s := range c.Surfaces {
		names = append(names, s.Name)
	}
	return names
}

// BuiltinSurfaces returns the surfaces generated when no configuration file
// names any.
func BuiltinSurfaces() []SurfaceConfig {
	return []SurfaceConfig{
		{
			Name:       "ai-model",
			Title:      "AI Model",
			Source:     "openapi/relay.json",
			TagMapping: tagmap.TableAIModel,
			FileNaming: pagepath.NamingOperationID,
		},
		{
			Name:       "management",
			Title:      "Management",
			Source:     "openapi/api.json",
			TagMapping: tagmap.TableManagement,
			FileNaming: pagepath.NamingRoute,
			APIPrefix:  "/api/",
		},
	}
}

// Default returns the built-in configuration with defaults applied.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	applyEnvOverrides(cfg)
	if _, err := NormalizeConfig(cfg); err != nil {
		// Built-in values always normalize.
		panic(err)
	}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path. An empty path, or the default
// path when the file does not exist, yields the built-in configuration.
// .env files are loaded first so that ${VAR} references in the file resolve.
func Load(path string, required bool) (*Config, []string, error) {
	loadEnvFile()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		switch {
		case err == nil:
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, nil, derrors.ConfigError("failed to parse configuration file").
					WithCause(err).
					WithContext("path", path).
					Build()
			}
		case errors.Is(err, fs.ErrNotExist) && !required:
		default:
			return nil, nil, derrors.ConfigError("failed to read configuration file").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
	}

	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Version != CurrentVersion {
		return nil, nil, derrors.ConfigError(fmt.Sprintf("unsupported configuration version: %s (expected %s)", cfg.Version, CurrentVersion)).
			WithContext("path", path).
			Build()
	}

	applyEnvOverrides(cfg)

	res, err := NormalizeConfig(cfg)
	if err != nil {
		return nil, nil, derrors.ConfigError("configuration normalization failed").WithCause(err).Build()
	}
	applyDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, nil, derrors.ConfigError("configuration validation failed").WithCause(err).Build()
	}
	return cfg, res.Warnings, nil
}

func applyEnvOverrides(cfg *Config) {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.Logging.Level = LogLevel(lvl)
	}
}

// Init writes an example configuration file holding the built-in defaults.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return derrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).Build()
	}

	example := Config{
		Version:      CurrentVersion,
		Language:     defaultLanguage,
		OutputRoot:   defaultOutputRoot,
		ManifestPath: defaultManifestPath,
		Logging:      LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Surfaces:     BuiltinSurfaces(),
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return derrors.InternalError("failed to marshal example configuration").WithCause(err).Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return derrors.FileSystemError("failed to create configuration directory").WithCause(err).Build()
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return derrors.FileSystemError("failed to write configuration file").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
