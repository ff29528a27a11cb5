package frontmatter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantFM   string
		wantBody string
		wantHad  bool
	}{
		{name: "no frontmatter", input: "# Title\n\nHello\n", wantBody: "# Title\n\nHello\n"},
		{name: "frontmatter and body", input: "---\ntitle: x\n---\nbody\n", wantFM: "title: x\n", wantBody: "body\n", wantHad: true},
		{name: "empty block", input: "---\n---\nbody\n", wantBody: "body\n", wantHad: true},
		{name: "empty body", input: "---\ntitle: x\n---\n", wantFM: "title: x\n", wantHad: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, had, err := Split([]byte(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.wantHad, had)
			require.Equal(t, tt.wantFM, string(fm))
			require.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestSplit_MissingClosingDelimiter(t *testing.T) {
	_, _, had, err := Split([]byte("---\ntitle: x\nbody\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, had)
}

func TestEncode_SortsKeysRecursively(t *testing.T) {
	out, err := Encode(map[string]any{
		"title": "List models",
		"full":  true,
		"_openapi": map[string]any{
			"route":  "/v1/models",
			"method": "GET",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "_openapi:\n  method: GET\n  route: /v1/models\nfull: true\ntitle: List models\n", string(out))
}

func TestEncode_EmptyAndUnsupported(t *testing.T) {
	out, err := Encode(nil)
	require.NoError(t, err)
	require.Empty(t, out)

	_, err = Encode(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
}

func TestEncode_QuotesAmbiguousStrings(t *testing.T) {
	out, err := Encode(map[string]any{"a": "true", "b": "200", "c": ""})
	require.NoError(t, err)

	fields, err := Parse(out)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": "true", "b": "200", "c": ""}, fields)
}

func TestEncode_JSONNumbers(t *testing.T) {
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"max": 100, "ratio": 0.5}`), &raw))

	out, err := Encode(raw)
	require.NoError(t, err)
	require.Equal(t, "max: 100\nratio: 0.5\n", string(out))
}

func TestComposeAndRead(t *testing.T) {
	page, err := Compose(map[string]any{"title": "x", "tags": []string{"a", "b"}}, []byte("body\n"))
	require.NoError(t, err)
	require.Equal(t, "---\ntags:\n  - a\n  - b\ntitle: x\n---\nbody\n", string(page))

	fields, body, err := Read(page)
	require.NoError(t, err)
	require.Equal(t, "x", fields["title"])
	require.Equal(t, []any{"a", "b"}, fields["tags"])
	require.Equal(t, "body\n", string(body))

	fields, body, err = Read([]byte("plain"))
	require.NoError(t, err)
	require.Empty(t, fields)
	require.Equal(t, "plain", string(body))
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(": not yaml"))
	require.Error(t, err)

	fields, err := Parse([]byte("  \n"))
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestFingerprint(t *testing.T) {
	fields := map[string]any{"title": "x", "description": "line one\nline two"}
	body := []byte("<APIPage />\n")

	fp1, err := Fingerprint(fields, body)
	require.NoError(t, err)
	require.NotEmpty(t, fp1)

	// The fingerprint field itself never contributes.
	fields[FingerprintField] = "stale"
	fp2, err := Fingerprint(fields, body)
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)

	fp3, err := Fingerprint(fields, []byte("<APIPage hasHead />\n"))
	require.NoError(t, err)
	require.NotEqual(t, fp1, fp3)

	_, err = Fingerprint(nil, body)
	require.Error(t, err)
}

func TestVerified(t *testing.T) {
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"responses": {"200": {"description": "ok"}}, "x-rate": 1.5}`), &raw))

	fields := map[string]any{
		"title":    "List",
		"full":     true,
		"_openapi": map[string]any{"method": "GET", "operation": raw},
	}
	body := []byte("text\n")

	fp, err := Stamp(fields, body)
	require.NoError(t, err)

	page, err := Compose(fields, body)
	require.NoError(t, err)

	got, ok := Verified(page)
	require.True(t, ok)
	require.Equal(t, fp, got)

	edited := append([]byte{}, page...)
	edited = append(edited, "hand edit\n"...)
	_, ok = Verified(edited)
	require.False(t, ok)

	_, ok = Verified([]byte("no frontmatter"))
	require.False(t, ok)
}
