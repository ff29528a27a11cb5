package config

import (
	"path/filepath"

	"git.home.luguber.info/inful/apidocs/internal/tagmap"
)

const (
	defaultLanguage     = tagmap.LangChinese
	defaultOutputRoot   = "content/docs"
	defaultManifestPath = ".apidocs/manifest.json"
)

// applyDefaults fills unset fields. It runs after normalization.
func applyDefaults(c *Config) {
	if c.Language == "" {
		c.Language = defaultLanguage
	}
	if c.OutputRoot == "" {
		c.OutputRoot = defaultOutputRoot
	}
	if c.ManifestPath == "" {
		c.ManifestPath = defaultManifestPath
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
	if len(c.Surfaces) == 0 {
		c.Surfaces = BuiltinSurfaces()
	}

	for i := range c.Surfaces {
		s := &c.Surfaces[i]
		if s.Title == "" {
			s.Title = s.Name
		}
		if s.TagMapping == "" {
			if _, ok := tagmap.Get(s.Name); ok {
				s.TagMapping = s.Name
			}
		}
		if s.Output == "" {
			s.Output = filepath.Join(c.OutputRoot, c.Language, "api", s.Name)
		}
	}
}
