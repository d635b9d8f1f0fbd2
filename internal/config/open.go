package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/ievis/pkg/cache"
	"github.com/matzehuels/ievis/pkg/pipeline"
	"github.com/matzehuels/ievis/pkg/session"
	"github.com/matzehuels/ievis/pkg/store"
)

// OpenCache connects the configured pipeline cache.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.Cache.RedisAddr)
	}
	return cache.NewFileCache(c.Cache.Dir)
}

// Keyer returns the cache keyer, scoped when a prefix is configured.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

// OpenStore opens the configured model library. The store is observed and,
// when c is non-nil, read through c.
func (c Config) OpenStore(ctx context.Context, cc cache.Cache) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	switch c.Store.Backend {
	case BackendMongo:
		s, err = store.NewMongoStore(ctx, c.Store.Mongo)
	default:
		if err = os.MkdirAll(filepath.Dir(c.Store.SQLite), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		s, err = store.NewSQLiteStore(c.Store.SQLite)
	}
	if err != nil {
		return nil, err
	}
	s = store.Observe(s, c.Store.Backend)
	if cc != nil {
		s = store.NewCached(s, cc, c.Keyer())
	}
	return s, nil
}

// OpenSessions opens the configured session store.
func (c Config) OpenSessions(ctx context.Context) (session.Store, error) {
	switch c.Session.Backend {
	case BackendFile:
		return session.NewFileStore(c.Session.Dir)
	case BackendRedis:
		client, err := cache.NewRedisClient(ctx, c.Cache.RedisAddr)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStore(client), nil
	}
	return session.NewMemoryStore(), nil
}

// PipelineOptions returns pipeline options seeded with the configured
// layout and export defaults.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Layout:    c.Layout,
		Scheme:    c.Export.Scheme,
		Scale:     c.Export.Scale,
		MeshCells: c.Export.MeshCells,
	}
}
