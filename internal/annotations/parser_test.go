package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotationForms(t *testing.T) {
	parser := NewDefaultParser()
	location := SourceLocation{File: "app.go", Line: 10, Column: 1}

	tests := []struct {
		name     string
		input    string
		kind     Kind
		expected map[string]any
	}{
		{
			name:     "bare module",
			input:    "//routemap::module",
			kind:     ModuleAnnotation,
			expected: map[string]any{},
		},
		{
			name:  "module with controllers",
			input: "//routemap::module -Controllers=UserController,OrderController",
			kind:  ModuleAnnotation,
			expected: map[string]any{
				"Controllers": []string{"UserController", "OrderController"},
			},
		},
		{
			name:  "module with imports and controllers",
			input: "//routemap::module -Imports=UserModule,OrderModule -Controllers=AppController",
			kind:  ModuleAnnotation,
			expected: map[string]any{
				"Imports":     []string{"UserModule", "OrderModule"},
				"Controllers": []string{"AppController"},
			},
		},
		{
			name:  "module with qualified import",
			input: "//routemap::module -Imports=github.com/acme/shop/internal/users.UserModule",
			kind:  ModuleAnnotation,
			expected: map[string]any{
				"Imports": []string{"github.com/acme/shop/internal/users.UserModule"},
			},
		},
		{
			name:     "bare controller",
			input:    "//routemap::controller",
			kind:     ControllerAnnotation,
			expected: map[string]any{},
		},
		{
			name:  "controller with prefix",
			input: "//routemap::controller -Prefix=/users",
			kind:  ControllerAnnotation,
			expected: map[string]any{
				"Prefix": "/users",
			},
		},
		{
			name:  "route with absolute path",
			input: "//routemap::route GET /users/{id}",
			kind:  RouteAnnotation,
			expected: map[string]any{
				"method": "GET",
				"path":   "/users/{id}",
			},
		},
		{
			name:  "route with relative path",
			input: "//routemap::route DELETE {id}",
			kind:  RouteAnnotation,
			expected: map[string]any{
				"method": "DELETE",
				"path":   "{id}",
			},
		},
		{
			name:  "route without path",
			input: "//routemap::route POST",
			kind:  RouteAnnotation,
			expected: map[string]any{
				"method": "POST",
			},
		},
		{
			name:  "leading whitespace tolerated",
			input: "  // routemap::controller -Prefix=/health",
			kind:  ControllerAnnotation,
			expected: map[string]any{
				"Prefix": "/health",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parser.ParseAnnotation(tt.input, location)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, parsed.Kind)
			assert.Equal(t, tt.expected, parsed.Parameters)
			assert.Equal(t, location, parsed.Location)
		})
	}
}

func TestParseAnnotationErrors(t *testing.T) {
	parser := NewDefaultParser()
	location := SourceLocation{File: "app.go", Line: 3, Column: 1}

	tests := []struct {
		name  string
		input string
	}{
		{"unknown kind", "//routemap::service UserService"},
		{"missing kind", "//routemap::"},
		{"route without method", "//routemap::route"},
		{"route with too many positionals", "//routemap::route GET /users extra"},
		{"unknown parameter", "//routemap::controller -Priority=10"},
		{"module with positional", "//routemap::module UserModule"},
		{"positional after named", "//routemap::route GET -Prefix=/x /late"},
		{"dash without name", "//routemap::controller -=value"},
		{"plain comment", "// just a comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseAnnotation(tt.input, location)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, location, syntaxErr.Loc)
			assert.Contains(t, err.Error(), "app.go:3:1")
		})
	}
}

func TestIsAnnotation(t *testing.T) {
	assert.True(t, IsAnnotation("//routemap::module"))
	assert.True(t, IsAnnotation("// routemap::route GET /"))
	assert.True(t, IsAnnotation("   //routemap::controller -Prefix=/x"))
	assert.False(t, IsAnnotation("// routemap without separator"))
	assert.False(t, IsAnnotation("//swagger::route GET /"))
	assert.False(t, IsAnnotation("regular text"))
	assert.False(t, IsAnnotation(""))
}

func TestParsedAnnotationGetters(t *testing.T) {
	parser := NewDefaultParser()
	parsed, err := parser.ParseAnnotation(
		"//routemap::module -Imports=A,B -Controllers=C",
		SourceLocation{File: "m.go", Line: 1},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, parsed.GetStringSlice("Imports"))
	assert.Equal(t, []string{"C"}, parsed.GetStringSlice("Controllers"))
	assert.Nil(t, parsed.GetStringSlice("Missing"))
	assert.True(t, parsed.HasParameter("Imports"))
	assert.False(t, parsed.HasParameter("Prefix"))
	assert.Equal(t, "fallback", parsed.GetString("Prefix", "fallback"))
}

func TestParseAnnotationQuotedPrefix(t *testing.T) {
	parser := NewDefaultParser()
	parsed, err := parser.ParseAnnotation(
		`//routemap::controller -Prefix="/admin"`,
		SourceLocation{File: "c.go", Line: 1},
	)
	require.NoError(t, err)
	assert.Equal(t, "/admin", parsed.GetString("Prefix"))
}

func TestParseAnnotationSliceTrimsBlanks(t *testing.T) {
	parser := NewDefaultParser()
	parsed, err := parser.ParseAnnotation(
		"//routemap::module -Imports=A,,B,",
		SourceLocation{File: "m.go", Line: 1},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, parsed.GetStringSlice("Imports"))
}
