package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"git.home.luguber.info/inful/apidocs/internal/pagepath"
	"git.home.luguber.info/inful/apidocs/internal/tagmap"
)

// NormalizationResult captures adjustments and warnings from the normalization pass.
type NormalizationResult struct {
	Warnings []string
}

// NormalizeConfig canonicalizes enumerated fields in place. Unknown log
// settings fall back with a warning; an unknown file naming style is an error
// because it would silently change page paths.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, errors.New("config nil")
	}
	res := &NormalizationResult{}

	c.Language = strings.ToLower(strings.TrimSpace(c.Language))
	if c.Language != "" && !tagmap.SupportedLanguage(c.Language) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("language %q has no folder titles, falling back to English", c.Language))
	}
	normalizeLogging(&c.Logging, res)

	var errs *multierror.Error
	for i := range c.Surfaces {
		s := &c.Surfaces[i]
		s.Name = strings.TrimSpace(s.Name)
		s.Source = strings.TrimSpace(s.Source)
		s.TagMapping = strings.ToLower(strings.TrimSpace(s.TagMapping))

		naming, err := pagepath.ParseNaming(string(s.FileNaming))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("surfaces[%d] (%s): %w", i, s.Name, err))
			continue
		}
		s.FileNaming = naming
	}
	return res, errs.ErrorOrNil()
}

func normalizeLogging(l *LoggingConfig, res *NormalizationResult) {
	lvl, ok := logLevels.Or(string(l.Level))
	if !ok {
		res.Warnings = append(res.Warnings, warnUnknown("logging.level", string(l.Level), string(lvl)))
	}
	l.Level = lvl

	f, ok := logFormats.Or(string(l.Format))
	if !ok {
		res.Warnings = append(res.Warnings, warnUnknown("logging.format", string(l.Format), string(f)))
	}
	l.Format = f
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s %q, using %q", field, value, def)
}
