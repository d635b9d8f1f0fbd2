package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ievis/pkg/cache"
	"github.com/matzehuels/ievis/pkg/geometry"
	"github.com/matzehuels/ievis/pkg/layout"
	"github.com/matzehuels/ievis/pkg/model"
	"github.com/matzehuels/ievis/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that cache keys stay identical.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete parse → layout → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := observability.Pipeline()

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Parse
	hooks.OnParseStart(ctx, opts.Source)
	parseStart := time.Now()
	parsed, solids, err := Parse(ctx, opts)
	result.Stats.ParseTime = time.Since(parseStart)
	if err != nil {
		hooks.OnParseComplete(ctx, opts.Source, 0, 0, result.Stats.ParseTime, err)
		return nil, fmt.Errorf("parse: %w", err)
	}
	g := parsed.Graph
	result.Parsed = parsed
	result.Solids = solids
	result.Stats.Elements = g.ElementCount()
	result.Stats.Relationships = g.RelationshipCount()
	result.Stats.Shaped = len(parsed.Shaped)
	result.Stats.Dropped = len(parsed.Dropped)
	hooks.OnParseComplete(ctx, opts.Source, result.Stats.Elements, result.Stats.Shaped, result.Stats.ParseTime, nil)

	opts.Logger.Info("parsed document",
		"source", opts.Source,
		"elements", result.Stats.Elements,
		"relationships", result.Stats.Relationships,
		"shaped", result.Stats.Shaped,
		"dropped", result.Stats.Dropped,
		"duration", result.Stats.ParseTime)
	for _, d := range parsed.Dropped {
		opts.Logger.Warn("dropped", "item", d)
	}

	if result.GraphHash, err = GraphHash(parsed, solids); err != nil {
		return nil, err
	}

	// Stage 2: Layout
	hooks.OnLayoutStart(ctx, result.Stats.Elements)
	layoutStart := time.Now()
	lr, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, result.GraphHash, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, string(lr.Mode), result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = lr
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"mode", lr.Mode,
		"steps", lr.Steps,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)
	for _, issue := range lr.Issues {
		opts.Logger.Warn("layout issue", "issue", issue.String())
	}

	if opts.Wants(FormatScene) {
		result.Scene = BuildScene(g, solids, lr, opts)
	}

	// Stage 3: Export
	hooks.OnExportStart(ctx, opts.Formats)
	exportStart := time.Now()
	err = r.export(ctx, result, opts)
	result.Stats.ExportTime = time.Since(exportStart)
	hooks.OnExportComplete(ctx, opts.Formats, result.Stats.ExportTime, err)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	opts.Logger.Info("exported outputs",
		"formats", opts.Formats,
		"cached", result.CacheInfo.ExportHit,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// LayoutWithCacheInfo computes the layout of g with caching and returns
// cache hit info. graphHash identifies g; see [GraphHash].
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *model.Graph, graphHash string, opts Options) (layout.Result, bool, error) {
	opts.SetLayoutDefaults()
	key := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, key); ok {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil
			}
			// Undecodable entries are recomputed and overwritten.
		}
	}

	lr := ComputeLayout(g, opts)
	if data, err := json.Marshal(lr); err == nil {
		r.set(ctx, key, data, cache.TTLLayout)
	}
	return lr, false, nil
}

// Meshes tessellates solids, serving each element mesh from the cache when
// an identical solid was meshed before. It returns the number of cache hits.
func (r *Runner) Meshes(ctx context.Context, solids map[string]*geometry.Solid, opts Options) (map[string]*geometry.Mesh, int, error) {
	opts.SetExportDefaults()
	out := make(map[string]*geometry.Mesh, len(solids))
	keys := make(map[string]string, len(solids))
	missing := make(map[string]*geometry.Solid)

	for id, s := range solids {
		h, err := cache.HashJSON(s)
		if err != nil {
			return nil, 0, fmt.Errorf("hash solid %s: %w", id, err)
		}
		keys[id] = r.Keyer.MeshKey(h, cache.MeshKeyOpts{Cells: opts.MeshCells})
		if !opts.Refresh {
			if data, ok := r.get(ctx, keys[id]); ok {
				var m geometry.Mesh
				if err := json.Unmarshal(data, &m); err == nil {
					out[id] = &m
					continue
				}
			}
		}
		missing[id] = s
	}
	hits := len(out)
	if len(missing) == 0 && hits > 0 {
		return out, hits, nil
	}

	fresh, err := Tessellate(ctx, missing, opts.MeshCells, opts.Workers)
	if err != nil {
		return nil, hits, err
	}
	for id, m := range fresh {
		out[id] = m
		if data, err := json.Marshal(m); err == nil {
			r.set(ctx, keys[id], data, cache.TTLMesh)
		}
	}
	return out, hits, nil
}

func (r *Runner) export(ctx context.Context, result *Result, opts Options) error {
	g := result.Graph()
	base := cache.Hash([]byte(result.GraphHash + ":" + r.Keyer.LayoutKey(result.GraphHash, opts.LayoutKeyOpts())))

	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format))
		if Cacheable(format) && !opts.Refresh {
			if data, ok := r.get(ctx, key); ok {
				result.Artifacts[format] = data
				continue
			}
		}
		allCached = allCached && !Cacheable(format)

		var (
			data []byte
			err  error
		)
		if format == FormatMesh {
			var meshes map[string]*geometry.Mesh
			meshes, result.CacheInfo.MeshHits, err = r.Meshes(ctx, result.Solids, opts)
			if err == nil {
				data, err = json.Marshal(meshes)
			}
		} else {
			data, err = Export(ctx, format, g, result.Solids, result.Layout, opts)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		result.Artifacts[format] = data
		if Cacheable(format) {
			r.set(ctx, key, data, cache.TTLArtifact)
		}
	}
	result.CacheInfo.ExportHit = allCached && len(result.Artifacts) > 0
	return nil
}

func (r *Runner) get(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	return data, true
}

func (r *Runner) set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
