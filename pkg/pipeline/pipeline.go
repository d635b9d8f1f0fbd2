// Package pipeline provides the build pipeline shared by the CLI and the
// HTTP server.
//
// This package implements the complete parse → layout → export pipeline.
// Centralizing it keeps the command line and the API producing identical
// scenes and exports for the same document.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: decode the document, build the model graph and synthesize a
//     solid for every shaped element
//  2. Layout: derive coordinates from connectivity (seeded or force)
//  3. Export: produce the requested formats (scene, mesh, document, layout,
//     dot, svg, png, pdf)
//
// Layouts, meshes and exports are cached by content hash when the runner
// has a cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "bridge.json",
//	    Formats: []string{pipeline.FormatScene, pipeline.FormatSVG},
//	})
//	scene := result.Artifacts[pipeline.FormatScene]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ievis/pkg/cache"
	"github.com/matzehuels/ievis/pkg/classify"
	"github.com/matzehuels/ievis/pkg/document"
	"github.com/matzehuels/ievis/pkg/geometry"
	"github.com/matzehuels/ievis/pkg/layout"
	"github.com/matzehuels/ievis/pkg/model"
	"github.com/matzehuels/ievis/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the external scale factor applied at scene export.
	DefaultScale = 1.0

	// DefaultRadius is the clearance used by the layout diagnostic.
	DefaultRadius = layout.DefaultRadius

	// DefaultPNGScale is the resolution multiplier for PNG export.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatScene    = "scene"
	FormatMesh     = "mesh"
	FormatDocument = "document"
	FormatLayout   = "layout"
	FormatDOT      = "dot"
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatScene:    true,
	FormatMesh:     true,
	FormatDocument: true,
	FormatLayout:   true,
	FormatDOT:      true,
	FormatSVG:      true,
	FormatPNG:      true,
	FormatPDF:      true,
}

// Extension returns the file extension used when writing format to disk.
func Extension(format string) string {
	switch format {
	case FormatScene, FormatMesh, FormatDocument, FormatLayout:
		return "." + format + ".json"
	}
	return "." + format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the build pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input: exactly one of Document, Path or Data.
	Document    *document.Document `json:"document,omitempty"`
	Path        string             `json:"-"`
	Data        []byte             `json:"-"`
	InputFormat document.Format    `json:"-"`
	Source      string             `json:"source,omitempty"` // Label for logs, defaults to Path

	// Parse options
	Workers         int  `json:"workers,omitempty"`          // Concurrent synthesis, 0 = GOMAXPROCS
	RequireGeometry bool `json:"require_geometry,omitempty"` // Fail with NO_GEOMETRIC_DATA

	// Layout options
	Layout   layout.Params `json:"layout,omitzero"`
	Validate bool          `json:"validate,omitempty"`
	Radius   float64       `json:"radius,omitempty"`

	// Export options
	Formats   []string `json:"formats,omitempty"`
	Scheme    string   `json:"scheme,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	MeshCells int      `json:"mesh_cells,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"` // Detailed topology labels
	Pin       bool     `json:"pin,omitempty"`      // Pin topology nodes to layout positions
	Refresh   bool     `json:"refresh,omitempty"`  // Bypass cache reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Parsed is the graph built from the document plus shaped/dropped lists.
	Parsed *document.Result

	// Solids holds the synthesized solid of every shaped element.
	Solids map[string]*geometry.Solid

	// GraphHash is the content hash of the canonical document.
	GraphHash string

	// Layout holds derived coordinates.
	Layout layout.Result

	// Scene is the placed model, built whenever scene output is requested.
	Scene *scene.Scene

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Graph returns the parsed model graph.
func (r *Result) Graph() *model.Graph { return r.Parsed.Graph }

// Stats contains pipeline execution statistics.
type Stats struct {
	Elements      int
	Relationships int
	Shaped        int
	Dropped       int
	ParseTime     time.Duration
	LayoutTime    time.Duration
	ExportTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	MeshHits  int  // Number of element meshes served from cache
	ExportHit bool // Whether all cacheable exports came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks that exactly one input is set.
func (o *Options) ValidateForParse() error {
	var inputs int
	if o.Document != nil {
		inputs++
	}
	if o.Path != "" {
		inputs++
	}
	if o.Data != nil {
		inputs++
	}
	switch {
	case inputs == 0:
		return fmt.Errorf("document, path or data is required")
	case inputs > 1:
		return fmt.Errorf("only one of document, path or data may be set")
	}
	if o.Source == "" {
		o.Source = o.Path
	}
	if o.Source == "" {
		o.Source = "inline"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults fills zero layout parameters from [layout.DefaultParams].
func (o *Options) SetLayoutDefaults() {
	def := layout.DefaultParams()
	if o.Layout.Rounds == 0 {
		o.Layout.Rounds = def.Rounds
	}
	if o.Layout.L == 0 {
		o.Layout.L = def.L
	}
	if o.Layout.Kr == 0 {
		o.Layout.Kr = def.Kr
	}
	if o.Layout.Ks == 0 {
		o.Layout.Ks = def.Ks
	}
	if o.Layout.DeltaT == 0 {
		o.Layout.DeltaT = def.DeltaT
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetExportDefaults sets default values for export.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatScene}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.MeshCells <= 0 {
		o.MeshCells = geometry.DefaultMeshCells
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForExport validates and sets defaults for export.
func (o *Options) ValidateForExport() error {
	o.SetExportDefaults()
	if _, err := classify.ParseScheme(o.Scheme); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// ColourScheme returns the parsed colour scheme, contextual when unset.
func (o *Options) ColourScheme() classify.Scheme {
	s, err := classify.ParseScheme(o.Scheme)
	if err != nil {
		return classify.SchemeContextual
	}
	return s
}

// Wants reports whether format is among the requested formats.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Rounds: o.Layout.Rounds,
		L:      o.Layout.L,
		Kr:     o.Layout.Kr,
		Ks:     o.Layout.Ks,
		DeltaT: o.Layout.DeltaT,
	}
	if o.Validate {
		k.Checked = true
		k.Radius = o.Radius
	}
	return k
}

// ArtifactKeyOpts returns cache key options for one export format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatScene:
		k.Scheme = string(o.ColourScheme())
		k.Scale = o.Scale
	case FormatDOT, FormatSVG, FormatPNG, FormatPDF:
		k.Scheme = string(o.ColourScheme())
		if o.Detailed {
			k.Format += "+detailed"
		}
		if o.Pin {
			k.Format += "+pinned"
		}
	}
	return k
}
