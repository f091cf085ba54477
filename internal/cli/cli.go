// Package cli implements the gitlanes command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitlanes/pkg/buildinfo"
	"github.com/matzehuels/gitlanes/pkg/cache"
	"github.com/matzehuels/gitlanes/pkg/config"
	"github.com/matzehuels/gitlanes/pkg/observability"
	"github.com/matzehuels/gitlanes/pkg/observability/prom"
	"github.com/matzehuels/gitlanes/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gitlanes"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags.
	verbose     bool
	configPath  string
	noCache     bool
	metricsFile string

	cfg     config.Config
	metrics *prometheus.Registry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gitlanes draws commit histories as lane graphs",
		Long: `gitlanes lays out a git commit history as a lane graph: every commit gets
a row and a lane, and branch and merge edges are drawn as rounded connectors
between them.`,
		Version:            buildinfo.Version,
		SilenceUsage:       true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/gitlanes/config.toml)")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable caching")
	pf.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: log level, config file and metrics.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.metricsFile != "" {
		c.metrics = prometheus.NewRegistry()
		m := prom.New(c.metrics)
		observability.SetPipelineHooks(m)
		observability.SetCacheHooks(m)
	}
	return nil
}

// teardown runs after a successful command.
func (c *CLI) teardown(*cobra.Command, []string) error {
	if c.metrics == nil {
		return nil
	}
	if err := prom.WriteTextfile(c.metrics, c.metricsFile); err != nil {
		return err
	}
	c.Logger.Debug("wrote metrics", "path", c.metricsFile)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) *pipeline.Runner {
	r := pipeline.NewRunner(c.newCache(ctx), nil, c.Logger)
	if ttl := c.cfg.Cache.TTL.Duration; ttl > 0 {
		r.LayoutTTL = ttl
		r.ArtifactTTL = ttl
	}
	return r
}

// newCache opens the configured backend. An unreachable Redis falls back to
// the file cache so a cache outage never fails a render.
func (c *CLI) newCache(ctx context.Context) cache.Cache {
	backend := c.cfg.Cache.Backend
	if c.noCache || backend == config.BackendNone {
		return cache.NewNullCache()
	}

	if backend == config.BackendRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.cfg.Cache.RedisAddr,
			Password: c.cfg.Cache.RedisPassword,
			DB:       c.cfg.Cache.RedisDB,
		})
		if err == nil {
			return rc
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "err", err)
	}

	fc, err := c.fileCache()
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

func (c *CLI) fileCache() (*cache.FileCache, error) {
	dir := c.cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return nil, err
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gitlanes/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
