package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pageview/pkg/buildinfo"
	"github.com/matzehuels/pageview/pkg/cache"
	"github.com/matzehuels/pageview/pkg/canvas/raster"
	"github.com/matzehuels/pageview/pkg/config"
	"github.com/matzehuels/pageview/pkg/fragment"
	"github.com/matzehuels/pageview/pkg/preview"
	"github.com/matzehuels/pageview/pkg/view"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pageview"

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

	// configPath is set by the persistent --config flag.
	configPath string
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
		Use:          appName,
		Short:        "Pageview previews typeset documents incrementally",
		Long:         `Pageview renders pre-typeset vector documents the way an interactive previewer does: it requests only the fragment covering the visible window, patches it into the previous frame, and lays pages out for document or slide presentation.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.Logger.GetLevel() <= LogDebug {
				installDebugHooks(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.FileName+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or ./pageview.toml if present.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath, false)
	}
	return config.Load(config.FileName, true)
}

// =============================================================================
// Document Factory
// =============================================================================

// docFlags are the render settings shared by commands that open a document.
// Flags that were not set leave the config value alone.
type docFlags struct {
	mode           string
	page           int
	zoom           float64
	width          float64
	height         float64
	scroll         float64
	partial        bool
	contentPreview bool
	canvas         bool
	noCache        bool
}

func (f *docFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "presentation mode: doc, slide")
	cmd.Flags().IntVarP(&f.page, "page", "p", 0, "active slide (0-based)")
	cmd.Flags().Float64VarP(&f.zoom, "zoom", "z", 0, "zoom ratio (0.1-10)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "container width in pixels")
	cmd.Flags().Float64Var(&f.height, "height", 0, "container height in pixels")
	cmd.Flags().Float64Var(&f.scroll, "scroll", 0, "vertical scroll offset in pixels")
	cmd.Flags().BoolVar(&f.partial, "partial", true, "request only the visible window")
	cmd.Flags().BoolVar(&f.contentPreview, "content-preview", false, "show page numbers instead of the cursor")
	cmd.Flags().BoolVar(&f.canvas, "canvas", false, "rasterize placeholder pages")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the fragment cache")

	cmd.ValidArgsFunction = completeDocument
	_ = cmd.RegisterFlagCompletionFunc("mode", completeMode)
}

// apply overrides cfg with the flags the user set explicitly.
func (f *docFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Preview.Mode = f.mode
	}
	if flags.Changed("zoom") {
		cfg.Preview.ScaleRatio = f.zoom
	}
	if flags.Changed("width") {
		cfg.Preview.Width = f.width
	}
	if flags.Changed("height") {
		cfg.Preview.Height = f.height
	}
	if flags.Changed("partial") {
		cfg.Preview.PartialRendering = f.partial
	}
	if flags.Changed("content-preview") {
		cfg.Preview.ContentPreview = f.contentPreview
	}
	if flags.Changed("canvas") {
		cfg.Preview.Canvas = f.canvas
	}
	if f.noCache {
		cfg.Cache.Backend = config.BackendNull
	}
	return cfg.Validate()
}

// openDocument loads the static document at path and wires it to a cache
// and a preview.Document. The returned closer releases the cache.
func (c *CLI) openDocument(ctx context.Context, path string, cfg *config.Config) (*preview.Document, io.Closer, error) {
	src, err := fragment.LoadStatic(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}

	store, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	// Redis applies its own prefix.
	keyer := cache.NewDefaultKeyer()
	if cfg.Cache.Backend != config.BackendRedis {
		keyer = cache.NewScopedKeyer(keyer, cfg.Cache.Prefix)
	}
	logger := loggerFromContext(ctx)
	cached := fragment.NewCached(src, store, keyer, cfg.Cache.TTL.Duration, logger)

	doc, err := newDocument(cached, cfg, logger)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return doc, store, nil
}

// newDocument builds a preview.Document from the preview settings.
func newDocument(src fragment.Source, cfg *config.Config, logger *log.Logger) (*preview.Document, error) {
	p := cfg.Preview
	mode, err := p.RenderMode()
	if err != nil {
		return nil, err
	}
	opts := preview.Options{
		Mode:             mode,
		PartialRendering: p.PartialRendering,
		ContentPreview:   p.ContentPreview,
		ScaleRatio:       p.ScaleRatio,
		PageColor:        p.PageColor,
		BackgroundColor:  p.BackgroundColor,
		DOM: view.DOMState{
			Width:            p.Width,
			Height:           p.Height,
			DevicePixelRatio: p.PixelRatio,
		},
		Logger: logger,
	}
	if p.Canvas {
		opts.Canvas = raster.New(raster.Options{PixelRatio: p.PixelRatio})
	}
	return preview.New(src, opts)
}

// =============================================================================
// Cache
// =============================================================================

func newCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case config.BackendNull:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Prefix,
		})
	default:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pageview/).
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
