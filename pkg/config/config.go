// Package config loads gitlanes settings from a TOML file.
//
// A config file holds defaults that command line flags override:
//
//	[layout]
//	row_spacing = 30
//	lane_spacing = 30
//	release_policy = "release"
//
//	[style]
//	palette = ["#1f77b4", "#ff7f0e"]
//	stroke_width = 3
//	corner_radius = 10
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "72h"
//
// Unset keys keep their zero value, which the pipeline replaces with its
// own defaults.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gitlanes/pkg/connector"
	gerrors "github.com/matzehuels/gitlanes/pkg/errors"
	"github.com/matzehuels/gitlanes/pkg/lanes"
)

// FileName is the name looked up in the user config directory.
const FileName = "config.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the decoded config file.
type Config struct {
	Layout Layout `toml:"layout"`
	Style  Style  `toml:"style"`
	Cache  Cache  `toml:"cache"`
}

// Layout holds lane layout settings.
type Layout struct {
	RowSpacing    float64 `toml:"row_spacing"`
	LaneSpacing   float64 `toml:"lane_spacing"`
	Margin        float64 `toml:"margin"`
	NodeWidth     float64 `toml:"node_width"`
	NodeHeight    float64 `toml:"node_height"`
	ReleasePolicy string  `toml:"release_policy"`
}

// Style holds connector appearance settings.
type Style struct {
	Palette      []string `toml:"palette"`
	StrokeWidth  float64  `toml:"stroke_width"`
	CornerRadius float64  `toml:"corner_radius"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

// Duration decodes TOML strings such as "36h" or "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultPath returns $XDG_CONFIG_HOME/gitlanes/config.toml, falling back
// to the platform's user config directory.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, "gitlanes", FileName), nil
}

// Load reads and validates the config at path. An empty path loads the
// default location and yields an empty Config when no file exists there;
// an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, nil
		}
		path = p
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return Config{}, gerrors.Wrap(gerrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, nil
	}
	if err != nil {
		return Config{}, gerrors.Wrap(gerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, gerrors.New(gerrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses config text without touching the filesystem.
func Decode(data string) (Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, gerrors.Wrap(gerrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects negative spacings, unknown policies and backends, and
// malformed palette colors.
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"layout.row_spacing":  c.Layout.RowSpacing,
		"layout.lane_spacing": c.Layout.LaneSpacing,
		"layout.margin":       c.Layout.Margin,
		"layout.node_width":   c.Layout.NodeWidth,
		"layout.node_height":  c.Layout.NodeHeight,
		"style.stroke_width":  c.Style.StrokeWidth,
		"style.corner_radius": c.Style.CornerRadius,
	} {
		if v < 0 {
			return gerrors.New(gerrors.ErrCodeInvalidConfig, "%s must not be negative", name)
		}
	}
	if _, err := lanes.ParseReleasePolicy(c.Layout.ReleasePolicy); err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInvalidConfig, err, "layout.release_policy")
	}
	if err := connector.Palette(c.Style.Palette).Validate(); err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInvalidConfig, err, "style.palette")
	}
	if c.Cache.Backend != "" && !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return gerrors.New(gerrors.ErrCodeInvalidConfig, "cache.backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return gerrors.New(gerrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// Spacing returns the layout spacing with zero fields left for the caller's
// defaults.
func (c Config) Spacing() lanes.Spacing {
	return lanes.Spacing{
		RowSpacing:  c.Layout.RowSpacing,
		LaneSpacing: c.Layout.LaneSpacing,
		Margin:      c.Layout.Margin,
		NodeWidth:   c.Layout.NodeWidth,
		NodeHeight:  c.Layout.NodeHeight,
	}
}
