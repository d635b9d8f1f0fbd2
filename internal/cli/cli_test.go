package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ievis/internal/config"
	"github.com/matzehuels/ievis/pkg/document"
	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/layout"
	"github.com/matzehuels/ievis/pkg/pipeline"
	"github.com/matzehuels/ievis/pkg/scene"
)

var bridge = filepath.Join("..", "..", "pkg", "document", "testdata", "bridge.json")

// run executes the CLI with args against an empty config file in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "config.toml")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{pipeline.FormatScene}},
		{"svg", []string{"svg"}},
		{"scene, dot,,png", []string{"scene", "dot", "png"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, output, format string
		single                bool
		want                  string
	}{
		{"bridge.json", "", "scene", true, "bridge.scene.json"},
		{"models/bridge.yaml", "", "svg", false, "models/bridge.svg"},
		{"bridge.json", "out.json", "scene", true, "out.json"},
		{"bridge.json", "out/b", "dot", false, "out/b.dot"},
		{"3f2a", "", "layout", true, "3f2a.layout.json"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.output, tt.format, tt.single); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %v) = %q, want %q", tt.input, tt.output, tt.format, tt.single, got, tt.want)
		}
	}
}

func TestPipelineFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Export.Scale = 3
	cfg.Layout.Rounds = 70

	var f pipelineFlags
	cmd := &cobra.Command{Use: "x"}
	f.bind(cmd, true)
	require.NoError(t, cmd.ParseFlags([]string{"--scheme", "material", "-f", "scene,svg", "--pin"}))

	opts := f.options(cmd, cfg)
	assert.Equal(t, "material", opts.Scheme)
	assert.Equal(t, 3.0, opts.Scale, "unset flags keep configured values")
	assert.Equal(t, 70, opts.Layout.Rounds)
	assert.Equal(t, []string{"scene", "svg"}, opts.Formats)
	assert.True(t, opts.Pin)
	assert.False(t, opts.Detailed)

	require.NoError(t, cmd.ParseFlags([]string{"--rounds", "5", "--scale", "0.5"}))
	opts = f.options(cmd, cfg)
	assert.Equal(t, 5, opts.Layout.Rounds)
	assert.Equal(t, 0.5, opts.Scale)
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"inspect", "layout", "export", "watch", "models", "serve", "cache", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[store]\nbackend = \"floppy\"\n"), 0o644))
	_, err := run(t, dir, "cache", "path")
	assert.Error(t, err)
}

func TestCachePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IEVIS_CACHE_DIR", filepath.Join(dir, "cache"))
	out, err := run(t, dir, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cache"), strings.TrimSpace(out))
}

func TestInspect(t *testing.T) {
	_, err := run(t, t.TempDir(), "inspect", bridge)
	require.NoError(t, err)

	_, err = run(t, t.TempDir(), "inspect", "missing.json")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "out", "bridge")
	_, err := run(t, dir, "export", bridge, "--no-cache", "-f", "scene,dot,layout", "-o", base)
	require.NoError(t, err)

	data, err := os.ReadFile(base + ".scene.json")
	require.NoError(t, err)
	var sc scene.Scene
	require.NoError(t, json.Unmarshal(data, &sc))
	assert.Len(t, sc.Nodes, 5)

	dot, err := os.ReadFile(base + ".dot")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(dot), "graph G"))

	data, err = os.ReadFile(base + ".layout.json")
	require.NoError(t, err)
	var l layout.Result
	require.NoError(t, json.Unmarshal(data, &l))
	assert.Len(t, l.Positions, 5)
}

func TestExportRejectsFormat(t *testing.T) {
	_, err := run(t, t.TempDir(), "export", bridge, "--no-cache", "-f", "gif")
	assert.Error(t, err)
}

func TestLayoutCached(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IEVIS_CACHE", config.BackendFile)
	t.Setenv("IEVIS_CACHE_DIR", filepath.Join(dir, "cache"))
	out := filepath.Join(dir, "bridge.layout.json")

	for range 2 {
		_, err := run(t, dir, "layout", bridge, "-o", out)
		require.NoError(t, err)
	}
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var l layout.Result
	require.NoError(t, json.Unmarshal(data, &l))
	assert.Len(t, l.Positions, 5)

	entries, err := os.ReadDir(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestModels(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IEVIS_STORE", config.BackendSQLite)
	t.Setenv("IEVIS_SQLITE_PATH", filepath.Join(dir, "lib", "models.db"))

	_, err := run(t, dir, "models", "import", bridge, "--id", "footbridge")
	require.NoError(t, err)
	_, err = run(t, dir, "models", "list")
	require.NoError(t, err)

	got := filepath.Join(dir, "footbridge.json")
	_, err = run(t, dir, "models", "get", "footbridge", "-o", got)
	require.NoError(t, err)
	doc, err := document.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "footbridge", doc.Name)

	_, err = run(t, dir, "models", "delete", "footbridge")
	require.NoError(t, err)
	_, err = run(t, dir, "models", "get", "footbridge")
	assert.True(t, apperr.Is(err, apperr.ErrCodeModelNotFound), "got %v", err)
}
