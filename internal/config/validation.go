package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"git.home.luguber.info/inful/apidocs/internal/pagepath"
	"git.home.luguber.info/inful/apidocs/internal/tagmap"
)

// ValidateConfig checks the complete configuration and reports every problem
// it finds.
func ValidateConfig(c *Config) error {
	if c == nil {
		return errors.New("config nil")
	}

	var errs *multierror.Error
	if c.Version != CurrentVersion {
		errs = multierror.Append(errs, fmt.Errorf("unsupported version %q", c.Version))
	}
	if c.Language == "" {
		errs = multierror.Append(errs, errors.New("language cannot be empty"))
	}
	if len(c.Surfaces) == 0 {
		errs = multierror.Append(errs, errors.New("at least one surface must be configured"))
	}

	names := make(map[string]bool, len(c.Surfaces))
	outputs := make(map[string]string, len(c.Surfaces))
	for i, s := range c.Surfaces {
		label := fmt.Sprintf("surfaces[%d]", i)
		if s.Name != "" {
			label = fmt.Sprintf("surface %q", s.Name)
		}

		switch {
		case s.Name == "":
			errs = multierror.Append(errs, fmt.Errorf("%s: name cannot be empty", label))
		case strings.ContainsAny(s.Name, `/\`) || !filepath.IsLocal(s.Name):
			errs = multierror.Append(errs, fmt.Errorf("%s: name must be a single path segment", label))
		case names[s.Name]:
			errs = multierror.Append(errs, fmt.Errorf("duplicate surface name: %s", s.Name))
		}
		names[s.Name] = true

		if s.Source == "" {
			errs = multierror.Append(errs, fmt.Errorf("%s: source cannot be empty", label))
		}
		if _, ok := tagmap.Get(s.TagMapping); !ok {
			errs = multierror.Append(errs, fmt.Errorf("%s: unknown tag_mapping %q (valid: %s)", label, s.TagMapping, strings.Join(tagmap.Names(), ", ")))
		}
		if s.FileNaming != pagepath.NamingOperationID && s.FileNaming != pagepath.NamingRoute {
			errs = multierror.Append(errs, fmt.Errorf("%s: unknown file_naming %q", label, s.FileNaming))
		}

		if s.Output == "" {
			errs = multierror.Append(errs, fmt.Errorf("%s: output cannot be empty", label))
			continue
		}
		out := filepath.Clean(s.Output)
		if other, ok := outputs[out]; ok {
			errs = multierror.Append(errs, fmt.Errorf("%s: output %s is already used by surface %q", label, out, other))
		}
		outputs[out] = s.Name
	}

	if c.ManifestPath == "" {
		errs = multierror.Append(errs, errors.New("manifest_path cannot be empty"))
	}
	return errs.ErrorOrNil()
}
