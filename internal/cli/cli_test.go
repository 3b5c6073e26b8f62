package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/solution-insight/internal/config"
	"github.com/mvp-joe/solution-insight/internal/discovery"
)

// Test Plan for CLI:
// - formatNumber groups thousands
// - resolveRoot prefers the argument, then the configured root, then cwd
// - Only flags given explicitly override configuration
// - insight map writes ProjectMapping_YYYYMMDD.json and prints its path
// - insight map fails with ErrRootNotFound for a missing root
// - insight extract writes a file named after the extracted folder
// - insight version prints the build information
//
// Commands share package-level flag state, so these tests do not run in
// parallel.

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeSolution(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "src", "Darwin.Web")
	files := map[string]string{
		"Controllers/HomeController.cs": "public class HomeController { public IActionResult Index() => View(); }\n",
		"Views/Home/Index.cshtml":       "<h1>Home</h1>\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-98765, "-98,765"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.in))
	}
}

func TestResolveRoot(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := resolveRoot([]string{"/given"}, "/configured")
	require.NoError(t, err)
	assert.Equal(t, "/given", got)

	got, err = resolveRoot(nil, "/configured")
	require.NoError(t, err)
	assert.Equal(t, "/configured", got)

	got, err = resolveRoot(nil, "")
	require.NoError(t, err)
	assert.Equal(t, wd, got)
}

func TestApplyMapFlags(t *testing.T) {
	flags := pflag.NewFlagSet("map", pflag.ContinueOnError)
	flags.BoolVar(&mapTypeComments, "type-comments", true, "")
	flags.BoolVar(&mapMemberComments, "member-comments", false, "")
	flags.StringVar(&mapOutput, "output", "", "")
	flags.IntVar(&mapWorkers, "workers", 0, "")
	flags.BoolVar(&mapStrict, "strict", false, "")
	require.NoError(t, flags.Parse([]string{"--member-comments", "--workers=3"}))

	cfg := config.Default()
	cfg.Mapping.IncludeTypeComments = false
	cfg.Paths.OutputRoot = "/configured/out"
	applyMapFlags(flags, cfg)

	assert.True(t, cfg.Mapping.IncludeMemberComments)
	assert.Equal(t, 3, cfg.Mapping.Workers)
	assert.False(t, cfg.Mapping.IncludeTypeComments, "flag default does not override config")
	assert.Equal(t, "/configured/out", cfg.Paths.OutputRoot)
	assert.False(t, cfg.Mapping.StrictSyntax)
}

func TestApplyExtractFlags(t *testing.T) {
	flags := pflag.NewFlagSet("extract", pflag.ContinueOnError)
	flags.BoolVar(&extractSubdirs, "subdirs", true, "")
	flags.StringVar(&extractOutput, "output", "", "")
	require.NoError(t, flags.Parse([]string{"--subdirs=false"}))

	cfg := config.Default()
	applyExtractFlags(flags, cfg)

	assert.False(t, cfg.Extract.IncludeSubdirectories)
	assert.Empty(t, cfg.Paths.OutputRoot)
}

func TestMapCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	root := writeSolution(t)
	outDir := filepath.Join(t.TempDir(), "out")

	stdout, err := execute(t, "map", root, "--output", outDir, "--quiet")
	require.NoError(t, err)

	written := strings.TrimSpace(stdout)
	assert.Equal(t, outDir, filepath.Dir(written))
	assert.True(t, strings.HasPrefix(filepath.Base(written), "ProjectMapping_"))
	assert.Equal(t, ".json", filepath.Ext(written))

	data, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"schema": "darwin/project-mapping"`)
	assert.Contains(t, string(data), `"name": "HomeController"`)
	assert.Contains(t, string(data), "Index.cshtml")

	t.Run("missing root", func(t *testing.T) {
		_, err := execute(t, "map", filepath.Join(t.TempDir(), "missing"), "--output", outDir, "--quiet")
		assert.ErrorIs(t, err, discovery.ErrRootNotFound)
	})
}

func TestExtractCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	root := writeSolution(t)
	outDir := filepath.Join(t.TempDir(), "out")

	stdout, err := execute(t, "extract", root, "--output", outDir, "--quiet")
	require.NoError(t, err)

	written := strings.TrimSpace(stdout)
	assert.Equal(t, filepath.Join(outDir, "Darwin.Web.txt"), written)

	data, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[FILE START] "+filepath.Join(root, "Controllers", "HomeController.cs"))
	assert.Contains(t, string(data), "<h1>Home</h1>\n")
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "insight "+Version)
	assert.Contains(t, stdout, "Git commit: "+GitCommit)
}
