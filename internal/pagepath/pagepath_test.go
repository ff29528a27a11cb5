package pagepath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/apidocs/internal/tagmap"
)

var (
	aiModelRule    = Rule{Naming: NamingOperationID}
	managementRule = Rule{Naming: NamingRoute, APIPrefix: "/api/"}
)

func TestRouteIdentifier(t *testing.T) {
	tests := []struct {
		route  string
		prefix string
		want   string
	}{
		{"/api/user/{id}", "/api/", "user-id"},
		{"/api/user/", "/api/", "user"},
		{"/api/", "/api/", "index"},
		{"/api", "/api/", "index"},
		{"/apis/list", "/api/", "apis-list"},
		{"/v1/chat/completions", "", "v1-chat-completions"},
		{"/v1/models/{model}", "", "v1-models-model"},
		{"/a/{b}/{c}/", "", "a-b-c"},
		{"/", "", "index"},
		{"", "", "index"},
		{"//double//slash", "", "double-slash"},
		{"/api/group/{id}/{name}", "api", "group-id-name"},
	}
	for _, tt := range tests {
		t.Run(tt.route+"|"+tt.prefix, func(t *testing.T) {
			require.Equal(t, tt.want, RouteIdentifier(tt.route, tt.prefix))
		})
	}
}

func TestIdentifier(t *testing.T) {
	require.Equal(t, "listModels", Identifier(Input{Route: "/v1/models", Method: "GET", OperationID: "listModels"}, aiModelRule))
	require.Equal(t, "v1-models-get", Identifier(Input{Route: "/v1/models", Method: "GET"}, aiModelRule))
	require.Equal(t, "getUser-get", Identifier(Input{Route: "/api/user/{id}", Method: "GET", OperationID: "getUser"}, managementRule))
	require.Equal(t, "user-id-delete", Identifier(Input{Route: "/api/user/{id}", Method: "DELETE"}, managementRule))
	// Unknown naming behaves like the default.
	require.Equal(t, "x", Identifier(Input{Route: "/x", Method: "GET", OperationID: "x"}, Rule{}))
}

func TestDeriveContainsOperationIDVerbatim(t *testing.T) {
	ids := []string{"listModels", "create_chat_completion", "Get.User.V2", "模型列表", "a-b-c",
		"users/list", " padded", "trailing ", `a\b`, "with space"}
	routes := []string{"/", "/api/user/{id}", "/v1/models", "", "/{x}/{y}"}
	for _, rule := range []Rule{aiModelRule, managementRule} {
		for _, id := range ids {
			for _, route := range routes {
				got := Derive("models/list", Input{Route: route, Method: "POST", OperationID: id}, rule)
				require.Contains(t, got, id)
			}
		}
	}
}

func TestDeriveWithoutOperationIDIsRouteAndMethodOnly(t *testing.T) {
	a := Input{Route: "/api/log/{id}", Method: "GET"}
	b := Input{Route: "/api/log/{id}", Method: "GET"}
	for _, rule := range []Rule{aiModelRule, managementRule} {
		require.Equal(t, Identifier(a, rule), Identifier(b, rule))
		// Tags only change the folder, never the identifier.
		require.Equal(t, "logs/"+Identifier(a, rule)+".mdx", Derive("logs", a, rule))
		require.Equal(t, "other/"+Identifier(a, rule)+".mdx", Derive("other", b, rule))
	}
	require.Equal(t, "api-log-id-get", Identifier(a, aiModelRule))
	require.Equal(t, "log-id-get", Identifier(a, managementRule))
	require.NotEqual(t,
		Identifier(Input{Route: "/api/log/{id}", Method: "GET"}, managementRule),
		Identifier(Input{Route: "/api/log/{id}", Method: "PUT"}, managementRule))
}

func TestDeriveScenarios(t *testing.T) {
	// Management user route without an operation id.
	tag := tagmap.Normalize("用户管理", tagmap.Management)
	got := Derive(tag, Input{Route: "/api/user/{id}", Method: "GET"}, managementRule)
	require.Equal(t, "user-management/user-id-get.mdx", got)

	// Unmapped tags stay as they are.
	tag = tagmap.Normalize("SomeNewFeature", tagmap.Management)
	got = Derive(tag, Input{Route: "/api/feature", Method: "POST"}, managementRule)
	require.Equal(t, "SomeNewFeature/feature-post.mdx", got)

	// Nested AI model tag with an operation id.
	tag = tagmap.Normalize("模型（Models）/列出模型", tagmap.AIModel)
	got = Derive(tag, Input{Route: "/v1/models", Method: "GET", OperationID: "listModels"}, aiModelRule)
	require.Equal(t, "models/list/listModels.mdx", got)
}

func TestDeriveStaysInsideOutputDir(t *testing.T) {
	tests := []struct {
		tag  string
		in   Input
		want string
	}{
		{"../../etc", Input{Route: "/x", Method: "GET", OperationID: "passwd"}, "__/__/etc/passwd.mdx"},
		{"", Input{Route: "/x", Method: "GET", OperationID: ".."}, "__.mdx"},
		{"a//b/", Input{Route: "/x", Method: "GET"}, "a/b/x-get.mdx"},
		{"a", Input{Route: "/x", Method: "GET", OperationID: "dir/file"}, "a/dir/file.mdx"},
		{"a", Input{Route: "/x", Method: "GET", OperationID: "../../up"}, "a/__/__/up.mdx"},
		{"a", Input{Route: "/x", Method: "GET", OperationID: "/lead//gap"}, "a/lead/gap.mdx"},
		{`win\path`, Input{Route: "/x", Method: "GET", OperationID: "y"}, "win-path/y.mdx"},
	}
	for _, tt := range tests {
		got := Derive(tt.tag, tt.in, aiModelRule)
		require.Equal(t, tt.want, got)
		require.False(t, strings.HasPrefix(got, "/"))
		require.NotContains(t, strings.Split(got, "/"), "..")
	}
}

func TestParseNaming(t *testing.T) {
	n, err := ParseNaming(" Route ")
	require.NoError(t, err)
	require.Equal(t, NamingRoute, n)

	n, err = ParseNaming("")
	require.NoError(t, err)
	require.Equal(t, NamingOperationID, n)

	n, err = ParseNaming("operationId")
	require.NoError(t, err)
	require.Equal(t, NamingOperationID, n)

	_, err = ParseNaming("slug")
	require.Error(t, err)
}
