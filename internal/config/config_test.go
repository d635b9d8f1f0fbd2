package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/ievis/pkg/cache"
	"github.com/matzehuels/ievis/pkg/layout"
	"github.com/matzehuels/ievis/pkg/session"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	def := Default()
	if cfg.Server.Addr != def.Server.Addr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, def.Server.Addr)
	}
	if cfg.Layout != layout.DefaultParams() {
		t.Errorf("Layout = %+v, want defaults", cfg.Layout)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[server]
addr = ":9090"

[store]
backend = "mongo"
[store.mongo]
uri = "mongodb://db:27017"
database = "shm"

[session]
backend = "file"
ttl = "2h"

[layout]
rounds = 80
spring = 2.5

[export]
scale = 3
scheme = "material"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"addr", cfg.Server.Addr, ":9090"},
		{"store", cfg.Store.Backend, BackendMongo},
		{"mongo uri", cfg.Store.Mongo.URI, "mongodb://db:27017"},
		{"mongo db", cfg.Store.Mongo.Database, "shm"},
		{"session backend", cfg.Session.Backend, BackendFile},
		{"session ttl", cfg.Session.TTL, 2 * time.Hour},
		{"rounds", cfg.Layout.Rounds, 80},
		{"spring", cfg.Layout.Ks, 2.5},
		{"untouched repulsion", cfg.Layout.Kr, layout.DefaultParams().Kr},
		{"scale", cfg.Export.Scale, 3.0},
		{"scheme", cfg.Export.Scheme, "material"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("IEVIS_SERVER_ADDR", ":7000")
	t.Setenv("IEVIS_CACHE", "none")
	t.Setenv("IEVIS_SCALE", "0.5")
	t.Setenv("IEVIS_MESH_CELLS", "32")
	t.Setenv("IEVIS_SESSION_TTL", "90m")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Export.Scale != 0.5 {
		t.Errorf("Export.Scale = %v", cfg.Export.Scale)
	}
	if cfg.Export.MeshCells != 32 {
		t.Errorf("Export.MeshCells = %d", cfg.Export.MeshCells)
	}
	if cfg.Session.TTL != 90*time.Minute {
		t.Errorf("Session.TTL = %v", cfg.Session.TTL)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"store backend", "IEVIS_STORE", "postgres"},
		{"cache backend", "IEVIS_CACHE", "memcached"},
		{"session backend", "IEVIS_SESSIONS", "cookie"},
		{"scale", "IEVIS_SCALE", "-1"},
		{"scale syntax", "IEVIS_SCALE", "big"},
		{"scheme", "IEVIS_SCHEME", "rainbow"},
		{"ttl", "IEVIS_SESSION_TTL", "forever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.val)
			}
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got, want := Path(), filepath.Join("/tmp/xdg", "ievis", "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Cache.Dir = filepath.Join(dir, "cache")
	cfg.Store.SQLite = filepath.Join(dir, "data", "models.db")
	cfg.Session.Backend = BackendFile
	cfg.Session.Dir = filepath.Join(dir, "sessions")
	ctx := context.Background()

	cc, err := cfg.OpenCache(ctx)
	if err != nil {
		t.Fatalf("OpenCache() error: %v", err)
	}
	defer cc.Close()
	if _, ok := cc.(*cache.FileCache); !ok {
		t.Errorf("OpenCache() = %T, want *cache.FileCache", cc)
	}

	s, err := cfg.OpenStore(ctx, cc)
	if err != nil {
		t.Fatalf("OpenStore() error: %v", err)
	}
	defer s.Close()
	models, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(models) != 0 {
		t.Errorf("List() = %d models, want 0", len(models))
	}

	ss, err := cfg.OpenSessions(ctx)
	if err != nil {
		t.Fatalf("OpenSessions() error: %v", err)
	}
	defer ss.Close()
	if _, ok := ss.(*session.FileStore); !ok {
		t.Errorf("OpenSessions() = %T, want *session.FileStore", ss)
	}
}

func TestKeyerPrefix(t *testing.T) {
	cfg := Default()
	plain := cfg.Keyer().DocumentKey("bridge")

	t.Setenv("IEVIS_CACHE_PREFIX", "staging:")
	scoped, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if scoped.Cache.Prefix != "staging:" {
		t.Fatalf("Cache.Prefix = %q, want staging:", scoped.Cache.Prefix)
	}
	if got := scoped.Keyer().DocumentKey("bridge"); got != "staging:"+plain {
		t.Errorf("DocumentKey = %q, want %q", got, "staging:"+plain)
	}
}
