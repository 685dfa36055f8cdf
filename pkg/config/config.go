// Package config loads panelgrid's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/panelgrid/config.toml (falling back to
// ~/.config/panelgrid/config.toml). Every section is optional:
//
//	[limits]
//	max_length = 256
//	max_depth  = 6
//	allow_gaps = false
//
//	[server]
//	addr          = ":8080"
//	read_timeout  = "10s"
//	write_timeout = "30s"
//	max_body      = 65536
//
//	[cache]
//	backend = "file"          # file, redis, mongo or none
//	dir     = "~/.cache/panelgrid"
//	prefix  = ""
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[templates]
//	dirs  = ["~/figures/templates"]
//	files = []
//
//	[render]
//	width   = 800
//	height  = 600
//	theme   = "light"
//	formats = ["svg"]
//
// Command-line flags override file values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/panelgrid/pkg/cache"
	perrors "github.com/matzehuels/panelgrid/pkg/errors"
	"github.com/matzehuels/panelgrid/pkg/layout"
	"github.com/matzehuels/panelgrid/pkg/pipeline"
)

// AppName names the config and cache directories.
const AppName = "panelgrid"

// Config is the whole configuration file.
type Config struct {
	Limits    layout.Limits   `toml:"limits"`
	Server    ServerConfig    `toml:"server"`
	Cache     CacheConfig     `toml:"cache"`
	Templates TemplatesConfig `toml:"templates"`
	Render    RenderConfig    `toml:"render"`
}

// ServerConfig configures `panelgrid serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBody      int64    `toml:"max_body"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	cache.Config
	Prefix string `toml:"prefix"`
}

// TemplatesConfig lists user template locations.
type TemplatesConfig struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Width   float64  `toml:"width"`
	Height  float64  `toml:"height"`
	Theme   string   `toml:"theme"`
	Formats []string `toml:"formats"`
}

// Duration is a time.Duration written as a string such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	dir, _ := CacheDir()
	return Config{
		Limits: layout.DefaultLimits(),
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
			MaxBody:      64 << 10,
		},
		Cache: CacheConfig{Config: cache.Config{Backend: cache.BackendFile, Dir: dir}},
		Render: RenderConfig{
			Width:   pipeline.DefaultWidth,
			Height:  pipeline.DefaultHeight,
			Theme:   pipeline.DefaultTheme,
			Formats: []string{pipeline.FormatSVG},
		},
	}
}

// Load reads the file at path over the defaults. An empty path means the
// default location, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, perrors.New(perrors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges and fills zero limits with defaults.
func (c *Config) Validate() error {
	if err := c.Limits.ValidateAndSetDefaults(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return perrors.New(perrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Server.MaxBody < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "server max_body must not be negative")
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "render width and height must not be negative")
	}
	if c.Render.Theme != "" {
		if err := pipeline.ValidateTheme(c.Render.Theme); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "render theme")
		}
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "render formats")
	}
	return nil
}

// Keyer returns the cache keyer for the configured prefix.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

func (c *Config) expandPaths() {
	c.Cache.Dir = expandHome(c.Cache.Dir)
	for i, d := range c.Templates.Dirs {
		c.Templates.Dirs[i] = expandHome(d)
	}
	for i, f := range c.Templates.Files {
		c.Templates.Files[i] = expandHome(f)
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Path returns the default config file path.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate config: %w", err)
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the default cache directory using the XDG standard
// (~/.cache/panelgrid/).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
