package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/panelgrid/pkg/buildinfo"
	"github.com/matzehuels/panelgrid/pkg/cache"
	"github.com/matzehuels/panelgrid/pkg/config"
	"github.com/matzehuels/panelgrid/pkg/pipeline"
	"github.com/matzehuels/panelgrid/pkg/templates"
)

// =============================================================================
// Constants
// =============================================================================

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// stdinArg reads the layout code from standard input.
const stdinArg = "-"

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the configuration loaded for the running command.
func (c *CLI) Config() config.Config {
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "panelgrid",
		Short: "Panelgrid turns layout codes into figure panel grids",
		Long: `Panelgrid interprets compact layout codes such as "aab/aac/ddd" into
resolved panel grids for multi-panel scientific figures, and previews them as
wireframes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/panelgrid/config.toml)")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "path", c.configPath, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner over the configured cache backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, c.cfg.Keyer(), c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.cfg.Cache.Config
	if cfg.Backend == "" || cfg.Backend == cache.BackendFile {
		if cfg.Dir == "" {
			dir, err := config.CacheDir()
			if err != nil {
				c.Logger.Warn("no cache directory, caching disabled", "error", err)
				return cache.NewNullCache(), nil
			}
			cfg.Dir = dir
		}
	}
	store, err := cache.Open(ctx, cfg)
	if err != nil {
		if cache.IsRetryable(err) {
			c.Logger.Warn("cache unavailable, continuing without it", "backend", cfg.Backend, "error", err)
			return cache.NewNullCache(), nil
		}
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return store, nil
}

// newRegistry returns the built-in templates plus any configured user
// template files and directories.
func (c *CLI) newRegistry() (*templates.Registry, error) {
	reg := templates.NewRegistry()
	for _, dir := range c.cfg.Templates.Dirs {
		n, err := reg.LoadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("load templates from %s: %w", dir, err)
		}
		c.Logger.Debug("templates loaded", "dir", dir, "count", n)
	}
	for _, file := range c.cfg.Templates.Files {
		n, err := reg.LoadFile(file)
		if err != nil {
			return nil, fmt.Errorf("load templates from %s: %w", file, err)
		}
		c.Logger.Debug("templates loaded", "file", file, "count", n)
	}
	return reg, nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// layoutFlags are the interpretation flags shared by parse, validate, render
// and watch.
type layoutFlags struct {
	file       string
	template   string
	tolerant   bool
	references []string
}

func (c *CLI) registerLayoutFlags(cmd *cobra.Command, f *layoutFlags) {
	cmd.Flags().StringVarP(&f.file, "file", "i", "", "read the layout code from a file")
	cmd.Flags().StringVarP(&f.template, "template", "T", "", "use the code of a named template")
	cmd.Flags().BoolVar(&f.tolerant, "tolerant", false, "keep the partial grid when the layout is invalid")
	cmd.Flags().StringSliceVar(&f.references, "ref", nil, "panel or region labels that content refers to (repeatable)")
	_ = cmd.RegisterFlagCompletionFunc("template", c.completeTemplateNames)
}

// completeTemplateNames completes template names for shells.
func (c *CLI) completeTemplateNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	reg, err := c.newRegistry()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, t := range reg.List(templates.Filter{}) {
		if strings.HasPrefix(t.Name, toComplete) {
			names = append(names, t.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// readLayout resolves the layout code from the positional argument, --file,
// --template or standard input ("-").
func (c *CLI) readLayout(cmd *cobra.Command, args []string, f *layoutFlags) (string, error) {
	sources := 0
	if len(args) > 0 {
		sources++
	}
	if f.file != "" {
		sources++
	}
	if f.template != "" {
		sources++
	}
	if sources != 1 {
		return "", fmt.Errorf("give exactly one of: a layout code argument, --file or --template")
	}

	switch {
	case f.template != "":
		reg, err := c.newRegistry()
		if err != nil {
			return "", err
		}
		t, err := reg.Get(f.template)
		if err != nil {
			return "", err
		}
		return t.Code, nil
	case f.file != "":
		return readCodeFile(f.file)
	case args[0] == stdinArg:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return trimCode(string(data)), nil
	default:
		return args[0], nil
	}
}

func readCodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read layout: %w", err)
	}
	return trimCode(string(data)), nil
}

// trimCode drops the trailing newline editors add, keeping interior
// newlines, which separate rows.
func trimCode(s string) string {
	return strings.TrimRight(s, "\r\n")
}

// pipelineOptions builds interpretation options from config and flags.
func (c *CLI) pipelineOptions(code string, f *layoutFlags) pipeline.Options {
	return pipeline.Options{
		Code:       code,
		Limits:     c.cfg.Limits,
		Tolerant:   f.tolerant,
		References: f.references,
		Logger:     c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string, fallback []string) []string {
	if s == "" {
		if len(fallback) == 0 {
			return []string{pipeline.FormatSVG}
		}
		return fallback
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
