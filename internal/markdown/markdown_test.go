package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscapeMDX(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "braces in text", in: "Use {id} here", want: `Use \{id\} here`},
		{name: "less than in text", in: "a < b", want: `a \< b`},
		{name: "inline html", in: "line<br>break", want: `line\<br>break`},
		{name: "code span untouched", in: "Call `get({x})` now", want: "Call `get({x})` now"},
		{name: "fenced code untouched", in: "Example:\n\n```json\n{\"a\": 1}\n```\n", want: "Example:\n\n```json\n{\"a\": 1}\n```\n"},
		{name: "already escaped", in: `a \{b\} c`, want: `a \{b\} c`},
		{name: "escaped backslash before brace", in: `a \\{b}`, want: `a \\\{b\}`},
		{name: "html block", in: "<div>\n{x}\n</div>\n", want: "\\<div>\n\\{x\\}\n\\</div>\n"},
		{name: "indented code is a paragraph in mdx", in: "para\n\n    {x}\n", want: "para\n\n    \\{x\\}\n"},
		{name: "autolink", in: "see <https://example.com>", want: `see \<https://example.com>`},
		{name: "autolink with braces", in: "see <https://example.com/{id}>", want: `see \<https://example.com/\{id\}>`},
		{name: "autolink at line start", in: "<https://example.com/{a}> here", want: `\<https://example.com/\{a\}> here`},
		{name: "heading and emphasis", in: "# Get {id}\n\n*{a}*\n", want: "# Get \\{id\\}\n\n*\\{a\\}*\n"},
		{name: "plain text untouched", in: "列出可用模型", want: "列出可用模型"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := EscapeMDX([]byte(tt.in))
			require.NoError(t, err)
			require.Equal(t, tt.want, string(out))
		})
	}
}

func TestEscapeMDX_Idempotent(t *testing.T) {
	in := []byte("Path {id} with <b>bold</b> and `{code}`\n")
	once, err := EscapeMDX(in)
	require.NoError(t, err)
	twice, err := EscapeMDX(once)
	require.NoError(t, err)
	require.Equal(t, string(once), string(twice))
}

func TestApplyEdits(t *testing.T) {
	out, err := ApplyEdits([]byte("abcdef"), []Edit{
		{Start: 4, End: 6, Replacement: []byte("XY")},
		{Start: 0, End: 0, Replacement: []byte(">")},
		{Start: 2, End: 3, Replacement: nil},
	})
	require.NoError(t, err)
	require.Equal(t, ">abdXY", string(out))

	same, err := ApplyEdits([]byte("abc"), nil)
	require.NoError(t, err)
	require.Equal(t, "abc", string(same))
}

func TestApplyEdits_Rejects(t *testing.T) {
	src := []byte("abcdef")

	_, err := ApplyEdits(src, []Edit{{Start: 1, End: 4}, {Start: 3, End: 5}})
	require.Error(t, err)

	_, err = ApplyEdits(src, []Edit{{Start: 2, End: 2, Replacement: []byte("a")}, {Start: 2, End: 2, Replacement: []byte("b")}})
	require.Error(t, err)

	_, err = ApplyEdits(src, []Edit{{Start: 5, End: 9}})
	require.Error(t, err)

	_, err = ApplyEdits(src, []Edit{{Start: 3, End: 2}})
	require.Error(t, err)
}
