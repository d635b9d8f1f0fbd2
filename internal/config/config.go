// Package config loads ievis settings.
//
// Settings come from three layers, later layers winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, $XDG_CONFIG_HOME/ievis/config.toml by default
//  3. IEVIS_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// Example config.toml:
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	backend = "mongo"
//	[store.mongo]
//	uri = "mongodb://localhost:27017"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[layout]
//	rounds = 80
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ievis/pkg/classify"
	"github.com/matzehuels/ievis/pkg/geometry"
	"github.com/matzehuels/ievis/pkg/layout"
	"github.com/matzehuels/ievis/pkg/session"
	"github.com/matzehuels/ievis/pkg/store"
)

const appName = "ievis"

// Backend names.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Config holds every setting.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
	Cache   CacheConfig   `toml:"cache"`
	Session SessionConfig `toml:"session"`
	Layout  layout.Params `toml:"layout"`
	Export  ExportConfig  `toml:"export"`
}

// ServerConfig configures `ievis serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// Janitor is the cron spec for session and cache cleanup.
	Janitor string `toml:"janitor"`
}

// StoreConfig selects the model library.
type StoreConfig struct {
	Backend string            `toml:"backend"` // sqlite or mongo
	SQLite  string            `toml:"sqlite"`  // database file
	Mongo   store.MongoConfig `toml:"mongo"`
}

// CacheConfig selects the pipeline cache.
type CacheConfig struct {
	Backend   string `toml:"backend"` // file, redis or none
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	// Prefix namespaces every key, for deployments sharing one Redis.
	Prefix string `toml:"prefix"`
}

// SessionConfig selects where editing sessions live.
type SessionConfig struct {
	Backend string        `toml:"backend"` // memory, file or redis
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	Scale     float64 `toml:"scale"`
	MeshCells int     `toml:"mesh_cells"`
	Scheme    string  `toml:"scheme"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server:  ServerConfig{Addr: ":8080", Janitor: "@every 15m"},
		Store:   StoreConfig{Backend: BackendSQLite, SQLite: filepath.Join(dataDir(), "models.db")},
		Cache:   CacheConfig{Backend: BackendFile, Dir: cacheDir()},
		Session: SessionConfig{Backend: BackendMemory, TTL: session.DefaultTTL},
		Layout:  layout.DefaultParams(),
		Export: ExportConfig{
			Scale:     1,
			MeshCells: geometry.DefaultMeshCells,
			Scheme:    string(classify.SchemeContextual),
		},
	}
}

// Path returns the default config file location.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", appName+".toml")
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// Load reads path (the default location when empty) over [Default] and
// applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if p := os.Getenv("IEVIS_CONFIG"); p != "" {
			path = p
		} else {
			path = Path()
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks backend names and numeric ranges.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendMongo:
	default:
		return fmt.Errorf("invalid store backend: %q (must be sqlite or mongo)", c.Store.Backend)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("invalid cache backend: %q (must be file, redis or none)", c.Cache.Backend)
	}
	switch c.Session.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("invalid session backend: %q (must be memory, file or redis)", c.Session.Backend)
	}
	if c.Export.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", c.Export.Scale)
	}
	if c.Layout.Rounds < 0 {
		return fmt.Errorf("layout rounds must not be negative, got %d", c.Layout.Rounds)
	}
	if _, err := classify.ParseScheme(c.Export.Scheme); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	envString("IEVIS_SERVER_ADDR", &c.Server.Addr)
	envString("IEVIS_JANITOR", &c.Server.Janitor)

	envString("IEVIS_STORE", &c.Store.Backend)
	envString("IEVIS_SQLITE_PATH", &c.Store.SQLite)
	envString("IEVIS_MONGO_URI", &c.Store.Mongo.URI)
	envString("IEVIS_MONGO_DATABASE", &c.Store.Mongo.Database)
	envString("IEVIS_MONGO_COLLECTION", &c.Store.Mongo.Collection)

	envString("IEVIS_CACHE", &c.Cache.Backend)
	envString("IEVIS_CACHE_DIR", &c.Cache.Dir)
	envString("IEVIS_REDIS_ADDR", &c.Cache.RedisAddr)
	envString("IEVIS_CACHE_PREFIX", &c.Cache.Prefix)

	envString("IEVIS_SESSIONS", &c.Session.Backend)
	envString("IEVIS_SESSION_DIR", &c.Session.Dir)
	if v := os.Getenv("IEVIS_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("IEVIS_SESSION_TTL: %w", err)
		}
		c.Session.TTL = d
	}

	envString("IEVIS_SCHEME", &c.Export.Scheme)
	if err := envFloat("IEVIS_SCALE", &c.Export.Scale); err != nil {
		return err
	}
	if err := envInt("IEVIS_MESH_CELLS", &c.Export.MeshCells); err != nil {
		return err
	}
	return envInt("IEVIS_LAYOUT_ROUNDS", &c.Layout.Rounds)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/ievis/).
func cacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// dataDir returns the data directory using XDG standard (~/.local/share/ievis/).
func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".local", "share", appName)
}
