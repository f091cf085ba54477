package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitlanes/pkg/cache"
	"github.com/matzehuels/gitlanes/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func newTestCLI(cfg config.Config) *CLI {
	return &CLI{Logger: log.New(io.Discard), cfg: cfg}
}

func TestNewCacheBackends(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := filepath.Join(t.TempDir(), "lanes-cache")

	tests := []struct {
		name    string
		cfg     config.Config
		noCache bool
		check   func(t *testing.T, c cache.Cache)
	}{
		{
			name:    "no-cache flag",
			noCache: true,
			check:   wantNull,
		},
		{
			name:  "backend none",
			cfg:   config.Config{Cache: config.Cache{Backend: config.BackendNone}},
			check: wantNull,
		},
		{
			name: "configured dir",
			cfg:  config.Config{Cache: config.Cache{Backend: config.BackendFile, Dir: dir}},
			check: func(t *testing.T, c cache.Cache) {
				fc, ok := c.(*cache.FileCache)
				if !ok {
					t.Fatalf("got %T, want *cache.FileCache", c)
				}
				if fc.Dir() != dir {
					t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
				}
			},
		},
		{
			name: "default dir",
			check: func(t *testing.T, c cache.Cache) {
				if _, ok := c.(*cache.FileCache); !ok {
					t.Fatalf("got %T, want *cache.FileCache", c)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(tt.cfg)
			c.noCache = tt.noCache
			store := c.newCache(context.Background())
			defer store.Close()
			tt.check(t, store)
		})
	}
}

func TestNewCacheRedisFallback(t *testing.T) {
	dir := t.TempDir()
	c := newTestCLI(config.Config{Cache: config.Cache{
		Backend:   config.BackendRedis,
		RedisAddr: "127.0.0.1:1",
		Dir:       dir,
	}})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	store := c.newCache(ctx)
	defer store.Close()
	fc, ok := store.(*cache.FileCache)
	if !ok {
		t.Fatalf("got %T, want file cache fallback", store)
	}
	if fc.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
	}
}

func wantNull(t *testing.T, c cache.Cache) {
	t.Helper()
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("got %T, want cache.NullCache", c)
	}
}
