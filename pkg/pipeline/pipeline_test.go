package pipeline

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ievis/pkg/cache"
	"github.com/matzehuels/ievis/pkg/document"
	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/geometry"
	"github.com/matzehuels/ievis/pkg/layout"
)

var bridgePath = filepath.Join("..", "document", "testdata", "bridge.json")

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"scene", false},
		{"mesh", false},
		{"document", false},
		{"layout", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"scene", "svg"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		FormatScene:    ".scene.json",
		FormatMesh:     ".mesh.json",
		FormatDocument: ".document.json",
		FormatLayout:   ".layout.json",
		FormatDOT:      ".dot",
		FormatSVG:      ".svg",
		FormatPDF:      ".pdf",
	}
	for format, want := range tests {
		if got := Extension(format); got != want {
			t.Errorf("Extension(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestValidateForParse(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantErr    bool
		wantSource string
	}{
		{"no input", Options{}, true, ""},
		{"path", Options{Path: "a.json"}, false, "a.json"},
		{"data", Options{Data: []byte("{}")}, false, "inline"},
		{"labelled data", Options{Data: []byte("{}"), Source: "upload"}, false, "upload"},
		{"two inputs", Options{Path: "a.json", Data: []byte("{}")}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForParse()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateForParse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.opts.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", tt.opts.Source, tt.wantSource)
			}
		})
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Path: "a.json", Layout: layout.Params{Rounds: 7}}
	require.NoError(t, opts.ValidateAndSetDefaults())

	def := layout.DefaultParams()
	assert.Equal(t, 7, opts.Layout.Rounds)
	assert.Equal(t, def.L, opts.Layout.L)
	assert.Equal(t, def.DeltaT, opts.Layout.DeltaT)
	assert.Equal(t, DefaultRadius, opts.Radius)
	assert.Equal(t, []string{FormatScene}, opts.Formats)
	assert.Equal(t, DefaultScale, opts.Scale)
	assert.Equal(t, geometry.DefaultMeshCells, opts.MeshCells)
	assert.NotNil(t, opts.Logger)

	bad := Options{Path: "a.json", Scheme: "rainbow"}
	assert.Error(t, bad.ValidateAndSetDefaults())
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scheme: "material", Scale: 2, Detailed: true, Pin: true}

	scene := opts.ArtifactKeyOpts(FormatScene)
	assert.Equal(t, "scene", scene.Format)
	assert.Equal(t, "material", scene.Scheme)
	assert.InDelta(t, 2.0, scene.Scale, 1e-12)

	svg := opts.ArtifactKeyOpts(FormatSVG)
	assert.Equal(t, "svg+detailed+pinned", svg.Format)
	assert.Zero(t, svg.Scale)

	lay := opts.ArtifactKeyOpts(FormatLayout)
	assert.Equal(t, "layout", lay.Format)
	assert.Empty(t, lay.Scheme)
}

func TestLayoutKeyOpts(t *testing.T) {
	opts := Options{Radius: 3}
	opts.SetLayoutDefaults()
	assert.False(t, opts.LayoutKeyOpts().Checked)
	assert.Zero(t, opts.LayoutKeyOpts().Radius)

	opts.Validate = true
	assert.True(t, opts.LayoutKeyOpts().Checked)
	assert.InDelta(t, 3.0, opts.LayoutKeyOpts().Radius, 1e-12)
}

func TestExecute(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)
	ctx := context.Background()

	opts := Options{
		Path:    bridgePath,
		Formats: []string{FormatScene, FormatDOT, FormatLayout, FormatDocument},
	}

	first, err := runner.Execute(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 5, first.Stats.Elements)
	assert.Equal(t, 4, first.Stats.Relationships)
	assert.Equal(t, 2, first.Stats.Dropped) // cable, cable-support
	assert.NotEmpty(t, first.GraphHash)
	assert.False(t, first.CacheInfo.LayoutHit)
	assert.False(t, first.CacheInfo.ExportHit)
	require.NotNil(t, first.Scene)
	assert.Len(t, first.Scene.Nodes, 5)
	assert.True(t, strings.HasPrefix(string(first.Artifacts[FormatDOT]), "graph G"))

	var lr layout.Result
	require.NoError(t, json.Unmarshal(first.Artifacts[FormatLayout], &lr))
	assert.Equal(t, first.Layout.Mode, lr.Mode)
	assert.Len(t, lr.Positions, 5)

	doc, err := document.Unmarshal(first.Artifacts[FormatDocument])
	require.NoError(t, err)
	assert.Len(t, doc.Models.IrreducibleElement.Elements, 5)

	second, err := runner.Execute(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, first.GraphHash, second.GraphHash)
	assert.True(t, second.CacheInfo.LayoutHit)
	assert.True(t, second.CacheInfo.ExportHit)
	assert.Equal(t, first.Artifacts[FormatScene], second.Artifacts[FormatScene])
	assert.Equal(t, first.Layout.Positions, second.Layout.Positions)

	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.LayoutHit)
	assert.False(t, third.CacheInfo.ExportHit)
}

func TestExecuteSchemeMisses(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)
	ctx := context.Background()

	_, err = runner.Execute(ctx, Options{Path: bridgePath})
	require.NoError(t, err)

	res, err := runner.Execute(ctx, Options{Path: bridgePath, Scheme: "material"})
	require.NoError(t, err)
	assert.True(t, res.CacheInfo.LayoutHit)
	assert.False(t, res.CacheInfo.ExportHit)
	assert.Equal(t, "material", string(res.Scene.Scheme))
}

func topologyOnly() *document.Document {
	return &document.Document{Models: document.Models{IrreducibleElement: &document.IrreducibleElement{
		Elements: []document.Element{
			{Name: "a", Type: "regular", Contextual: &document.Contextual{Type: "beam"}},
			{Name: "b", Type: "regular"},
		},
		Relationships: []document.Relationship{
			{Type: "perfect", Elements: []document.RelElement{{Name: "a"}, {Name: "b"}}},
		},
	}}}
}

func TestExecuteTopologyOnly(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	res, err := runner.Execute(ctx, Options{Document: topologyOnly(), Formats: []string{FormatScene, FormatDOT}})
	require.NoError(t, err)
	assert.True(t, res.Parsed.NoGeometricData)
	assert.True(t, res.Scene.NoGeometricData)
	assert.Contains(t, string(res.Artifacts[FormatDOT]), "dashed")

	_, err = runner.Execute(ctx, Options{Document: topologyOnly(), RequireGeometry: true})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ErrCodeNoGeometricData))

	_, err = runner.Execute(ctx, Options{Document: topologyOnly(), Formats: []string{FormatMesh}})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ErrCodeNoGeometricData))
}

func TestMeshes(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)
	ctx := context.Background()

	_, solids, err := Parse(ctx, Options{Path: bridgePath})
	require.NoError(t, err)
	require.NotEmpty(t, solids)

	opts := Options{MeshCells: 12}
	meshes, hits, err := runner.Meshes(ctx, solids, opts)
	require.NoError(t, err)
	assert.Zero(t, hits)
	assert.Len(t, meshes, len(solids))
	for id, m := range meshes {
		assert.NotEmpty(t, m.Indices, id)
	}

	again, hits, err := runner.Meshes(ctx, solids, opts)
	require.NoError(t, err)
	assert.Equal(t, len(solids), hits)
	assert.Equal(t, meshes["deck"].Indices, again["deck"].Indices)
}

func TestGraphHashIgnoresFormatting(t *testing.T) {
	ctx := context.Background()
	a, sa, err := Parse(ctx, Options{Path: bridgePath})
	require.NoError(t, err)

	doc, err := document.ReadFile(bridgePath)
	require.NoError(t, err)
	data, err := document.Marshal(doc)
	require.NoError(t, err)
	b, sb, err := Parse(ctx, Options{Data: data})
	require.NoError(t, err)

	ha, err := GraphHash(a, sa)
	require.NoError(t, err)
	hb, err := GraphHash(b, sb)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}
