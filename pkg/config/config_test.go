package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/panelgrid/pkg/cache"
	"github.com/matzehuels/panelgrid/pkg/errors"
	"github.com/matzehuels/panelgrid/pkg/layout"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Limits != layout.DefaultLimits() {
		t.Errorf("Limits = %+v", cfg.Limits)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.ReadTimeout.Duration != 10*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Cache.Backend != cache.BackendFile {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[limits]
max_depth = 3
allow_gaps = true

[server]
addr = ":9090"
read_timeout = "2s"

[cache]
backend = "redis"
prefix = "staging:"

[cache.redis]
addr = "localhost:6379"
db = 2

[templates]
dirs = ["/srv/templates"]

[render]
theme = "dark"
formats = ["svg", "json"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(layout.Limits{MaxLength: layout.DefaultMaxLength, MaxDepth: 3, AllowGaps: true}, cfg.Limits); diff != "" {
		t.Errorf("Limits (-want +got):\n%s", diff)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.ReadTimeout.Duration != 2*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout.Duration != 30*time.Second {
		t.Errorf("unset write_timeout should keep its default, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.Redis.Addr != "localhost:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if diff := cmp.Diff([]string{"/srv/templates"}, cfg.Templates.Dirs); diff != "" {
		t.Errorf("Templates.Dirs (-want +got):\n%s", diff)
	}
	if cfg.Render.Theme != "dark" || len(cfg.Render.Formats) != 2 {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if got := cfg.Keyer().OutcomeKey("ab", cache.OutcomeKeyOpts{}); got[:8] != "staging:" {
		t.Errorf("Keyer should apply the prefix, got %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", `[limits`},
		{"unknown key", "[limits]\nmax_width = 3\n"},
		{"bad depth", "[limits]\nmax_depth = -1\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"bad duration", "[server]\nread_timeout = \"soon\"\n"},
		{"bad theme", "[render]\ntheme = \"neon\"\n"},
		{"bad format", "[render]\nformats = [\"gif\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("an explicit missing path should fail")
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should not fail: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Error("missing default file should yield defaults")
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")

	p, err := Path()
	if err != nil || p != filepath.Join("/xdg/config", AppName, "config.toml") {
		t.Errorf("Path() = %q, %v", p, err)
	}
	d, err := CacheDir()
	if err != nil || d != filepath.Join("/xdg/cache", AppName) {
		t.Errorf("CacheDir() = %q, %v", d, err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := map[string]string{
		"~/figs":  filepath.Join(home, "figs"),
		"~":       home,
		"/abs":    "/abs",
		"rel/dir": "rel/dir",
	}
	for in, want := range tests {
		if got := expandHome(in); got != want {
			t.Errorf("expandHome(%q) = %q, want %q", in, got, want)
		}
	}
}
