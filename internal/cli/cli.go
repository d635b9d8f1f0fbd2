// Package cli implements the ievis command-line interface.
//
// The commands cover the whole life of a structural model document:
// inspecting it, computing a layout, exporting scenes and topology
// diagrams, managing a model library, watching a file for changes and
// serving the HTTP API. The CLI is built on cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - inspect: parse a document and report shaped and dropped items
//   - layout: derive coordinates and write <input>.layout.json
//   - export: write scene, mesh, document, layout, dot, svg, png or pdf
//   - watch: re-export whenever the document changes
//   - models: list, pick, import, get and delete library models
//   - serve: run the HTTP API
//   - cache: prune, clear or locate the pipeline cache
//
// # Configuration
//
// Settings are read from --config (default [config.Path]) and IEVIS_*
// variables; command flags win over both.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ievis/internal/config"
	"github.com/matzehuels/ievis/pkg/buildinfo"
	"github.com/matzehuels/ievis/pkg/cache"
	"github.com/matzehuels/ievis/pkg/observability"
	"github.com/matzehuels/ievis/pkg/pipeline"
	"github.com/matzehuels/ievis/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "ievis"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a CLI logging to w at level. Config holds the built-in
// defaults until the root command loads the real settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "ievis lays out and exports structural models",
		Long: `ievis reads irreducible-element structural models, derives missing
coordinates from their connectivity and exports placed 3D scenes, meshes and
topology diagrams.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.modelsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads settings and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	observability.Install(c.Logger.WithPrefix("trace"))
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Backends
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cmd *cobra.Command, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(cmd, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, c.Config.Keyer(), c.Logger), nil
}

// newCache opens the configured cache. A cache that cannot be opened
// degrades to no caching rather than failing the command.
func (c *CLI) newCache(cmd *cobra.Command, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc, err := c.Config.OpenCache(cmd.Context())
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", c.Config.Cache.Backend, "error", err)
		return cache.NewNullCache(), nil
	}
	return cc, nil
}

// openStore opens the configured model library without a read cache.
func (c *CLI) openStore(cmd *cobra.Command) (store.Store, error) {
	s, err := c.Config.OpenStore(cmd.Context(), nil)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", c.Config.Store.Backend, err)
	}
	return s, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineFlags binds the layout and export flags shared by several
// commands. Only flags the user set override the configured defaults.
type pipelineFlags struct {
	scheme    string
	scale     float64
	cells     int
	rounds    int
	validate  bool
	detailed  bool
	pin       bool
	required  bool
	noCache   bool
	refresh   bool
	formats   string
}

func (f *pipelineFlags) bind(cmd *cobra.Command, export bool) {
	fs := cmd.Flags()
	fs.IntVar(&f.rounds, "rounds", 0, "force simulation rounds")
	fs.BoolVar(&f.validate, "validate", false, "report overlaps and crossings in the layout")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
	if !export {
		return
	}
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): scene (default), mesh, document, layout, dot, svg, png, pdf (comma-separated)")
	fs.StringVar(&f.scheme, "scheme", "", "colour scheme: contextual, material, geometry")
	fs.Float64Var(&f.scale, "scale", 0, "scene scale factor")
	fs.IntVar(&f.cells, "mesh-cells", 0, "marching cubes resolution along the longest side")
	fs.BoolVar(&f.detailed, "detailed", false, "label topology nodes with type and material")
	fs.BoolVar(&f.pin, "pin", false, "pin topology nodes to layout positions")
	fs.BoolVar(&f.required, "require-geometry", false, "fail when no element has complete geometry")
}

// options merges configured defaults with the flags that were set.
func (f *pipelineFlags) options(cmd *cobra.Command, cfg config.Config) pipeline.Options {
	opts := cfg.PipelineOptions()
	fs := cmd.Flags()
	if fs.Changed("rounds") {
		opts.Layout.Rounds = f.rounds
	}
	if fs.Changed("scheme") {
		opts.Scheme = f.scheme
	}
	if fs.Changed("scale") {
		opts.Scale = f.scale
	}
	if fs.Changed("mesh-cells") {
		opts.MeshCells = f.cells
	}
	opts.Validate = f.validate
	opts.Detailed = f.detailed
	opts.Pin = f.pin
	opts.RequireGeometry = f.required
	opts.Refresh = f.refresh
	opts.Formats = parseFormats(f.formats)
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatScene}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputPath names the file written for format. A single format writes to
// output when given; otherwise output (or the input path) is a base name.
func outputPath(input, output, format string, single bool) string {
	if output != "" && single {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	return base + pipeline.Extension(format)
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
