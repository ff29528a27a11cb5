package frontmatter

import (
	"errors"
	"strings"

	"github.com/inful/mdfp"
)

// FingerprintField is the frontmatter key holding the content fingerprint.
const FingerprintField = mdfp.FingerprintField

// Fingerprint hashes every field except the fingerprint itself together with
// the body.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	if fields == nil {
		return "", errors.New("fields map is nil")
	}

	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == FingerprintField {
			continue
		}
		hashed[k] = v
	}

	fm, err := Encode(hashed)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(fm), "\n"), string(body)), nil
}

// Stamp stores the fingerprint of fields and body in fields and returns it.
func Stamp(fields map[string]any, body []byte) (string, error) {
	fp, err := Fingerprint(fields, body)
	if err != nil {
		return "", err
	}
	fields[FingerprintField] = fp
	return fp, nil
}

// Verified returns the fingerprint recorded in an existing page, but only when
// it still matches the page content. Hand-edited pages report false.
func Verified(content []byte) (string, bool) {
	fields, body, err := Read(content)
	if err != nil {
		return "", false
	}
	stored, ok := fields[FingerprintField].(string)
	if !ok || stored == "" {
		return "", false
	}
	actual, err := Fingerprint(fields, body)
	if err != nil || actual != stored {
		return "", false
	}
	return stored, true
}
