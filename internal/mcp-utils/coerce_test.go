package mcputils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for CoerceBindArguments:
// - Properly typed values bind unchanged
// - String booleans, numbers and durations are converted
// - JSON-encoded arrays and objects are decoded
// - Comma-separated strings become slices; invalid JSON stays a string
// - Pointer fields stay nil when absent or null
// - Undecodable values return an error

type mockArgumentGetter struct {
	args map[string]any
}

func (m *mockArgumentGetter) GetArguments() map[string]any {
	return m.args
}

type mappingArgs struct {
	Path                  string   `json:"path"`
	IncludeTypeComments   *bool    `json:"include_type_comments"`
	IncludeMemberComments *bool    `json:"include_member_comments"`
	Workers               int      `json:"workers"`
	Extensions            []string `json:"extensions"`
}

func TestCoerceBindArguments(t *testing.T) {
	t.Parallel()

	t.Run("proper types", func(t *testing.T) {
		t.Parallel()
		req := &mockArgumentGetter{args: map[string]any{
			"path":                    "/src/Darwin.Web",
			"include_type_comments":   false,
			"include_member_comments": true,
			"workers":                 float64(4),
			"extensions":              []any{".cs", ".cshtml"},
		}}

		var args mappingArgs
		require.NoError(t, CoerceBindArguments(req, &args))

		assert.Equal(t, "/src/Darwin.Web", args.Path)
		require.NotNil(t, args.IncludeTypeComments)
		assert.False(t, *args.IncludeTypeComments)
		require.NotNil(t, args.IncludeMemberComments)
		assert.True(t, *args.IncludeMemberComments)
		assert.Equal(t, 4, args.Workers)
		assert.Equal(t, []string{".cs", ".cshtml"}, args.Extensions)
	})

	t.Run("string encoded values", func(t *testing.T) {
		t.Parallel()
		req := &mockArgumentGetter{args: map[string]any{
			"path":                  "C:\\src\\Darwin.Web",
			"include_type_comments": "false",
			"workers":               "8",
			"extensions":            `[".cs", ".js"]`,
		}}

		var args mappingArgs
		require.NoError(t, CoerceBindArguments(req, &args))

		assert.Equal(t, "C:\\src\\Darwin.Web", args.Path)
		require.NotNil(t, args.IncludeTypeComments)
		assert.False(t, *args.IncludeTypeComments)
		assert.Nil(t, args.IncludeMemberComments)
		assert.Equal(t, 8, args.Workers)
		assert.Equal(t, []string{".cs", ".js"}, args.Extensions)
	})

	t.Run("absent and null", func(t *testing.T) {
		t.Parallel()
		req := &mockArgumentGetter{args: map[string]any{
			"path":                  "/src",
			"include_type_comments": nil,
		}}

		var args mappingArgs
		require.NoError(t, CoerceBindArguments(req, &args))

		assert.Nil(t, args.IncludeTypeComments)
		assert.Nil(t, args.IncludeMemberComments)
		assert.Zero(t, args.Workers)
		assert.Empty(t, args.Extensions)
	})

	t.Run("comma separated slice", func(t *testing.T) {
		t.Parallel()
		req := &mockArgumentGetter{args: map[string]any{"extensions": ".cs,.cshtml"}}

		var args mappingArgs
		require.NoError(t, CoerceBindArguments(req, &args))
		assert.Equal(t, []string{".cs", ".cshtml"}, args.Extensions)
	})

	t.Run("invalid JSON passes through", func(t *testing.T) {
		t.Parallel()
		req := &mockArgumentGetter{args: map[string]any{"extensions": "[.cs"}}

		var args mappingArgs
		require.NoError(t, CoerceBindArguments(req, &args))
		assert.Equal(t, []string{"[.cs"}, args.Extensions)
	})

	t.Run("JSON object", func(t *testing.T) {
		t.Parallel()
		type request struct {
			Options map[string]any `json:"options"`
		}
		req := &mockArgumentGetter{args: map[string]any{"options": `{"strict": true, "workers": 2}`}}

		var args request
		require.NoError(t, CoerceBindArguments(req, &args))
		assert.Equal(t, true, args.Options["strict"])
		assert.Equal(t, float64(2), args.Options["workers"])
	})

	t.Run("duration", func(t *testing.T) {
		t.Parallel()
		type request struct {
			Debounce time.Duration `json:"debounce"`
		}
		req := &mockArgumentGetter{args: map[string]any{"debounce": "250ms"}}

		var args request
		require.NoError(t, CoerceBindArguments(req, &args))
		assert.Equal(t, 250*time.Millisecond, args.Debounce)
	})

	t.Run("weakly typed input", func(t *testing.T) {
		t.Parallel()
		type request struct {
			Enabled bool   `json:"enabled"`
			Name    string `json:"name"`
		}
		req := &mockArgumentGetter{args: map[string]any{"enabled": 1, "name": 123}}

		var args request
		require.NoError(t, CoerceBindArguments(req, &args))
		assert.True(t, args.Enabled)
		assert.Equal(t, "123", args.Name)
	})

	t.Run("undecodable value", func(t *testing.T) {
		t.Parallel()
		req := &mockArgumentGetter{args: map[string]any{"workers": "many"}}

		var args mappingArgs
		err := CoerceBindArguments(req, &args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid arguments")
	})
}
