package routemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		basePath string
		route    string
		expected string
	}{
		{"all empty yields root", "", "", "", "/"},
		{"root route only", "", "", "/", "/"},
		{"plain segments", "api", "users", "list", "/api/users/list"},
		{"redundant slashes collapse", "api/", "/v1/", "/users", "/api/v1/users"},
		{"base only", "", "users", "", "/users"},
		{"route without leading slash", "", "users", "health", "/users/health"},
		{"trailing slash stripped", "", "/users/", "/{id}/", "/users/{id}"},
		{"prefix with both slashes", "/api/", "", "status", "/api/status"},
		{"double slashes inside input", "", "//users//", "//all", "/users/all"},
		{"parameter placeholders pass through", "v2", "posts", "{slug}/comments", "/v2/posts/{slug}/comments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.prefix, tt.basePath, tt.route))
		})
	}
}

func TestNormalizeInvariants(t *testing.T) {
	// Regardless of input shape the result leads with a single slash, never
	// contains an empty segment, and never ends with a slash unless it is
	// the bare root.
	inputs := [][3]string{
		{"", "", ""},
		{"/", "/", "/"},
		{"api", "", "///"},
		{"//a//b//", "c", ""},
		{"", "x/", "/y/z/"},
	}

	for _, in := range inputs {
		got := Normalize(in[0], in[1], in[2])
		assert.True(t, strings.HasPrefix(got, "/"), "path %q must start with /", got)
		assert.NotContains(t, got, "//", "path %q must not contain //", got)
		if got != "/" {
			assert.False(t, strings.HasSuffix(got, "/"), "path %q must not end with /", got)
		}
	}
}
