// Package config loads pageview settings from a TOML file.
//
// Every field has a default, so a missing file is not an error when the
// default path is used. Unknown keys are rejected to catch typos early.
//
//	[preview]
//	mode = "doc"
//	partial_rendering = true
//	scale_ratio = 1.0
//	page_color = "white"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "12h"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pageview/pkg/errors"
	"github.com/matzehuels/pageview/pkg/view"
)

// FileName is the default config file name.
const FileName = "pageview.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendNull  = "null"
	BackendRedis = "redis"
)

// Duration is a time.Duration decoded from strings like "90s" or "24h".
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

// Config is the full settings file.
type Config struct {
	Preview Preview `toml:"preview"`
	Cache   Cache   `toml:"cache"`
	Server  Server  `toml:"server"`
}

// Preview holds render settings.
type Preview struct {
	Mode             string  `toml:"mode"`
	PartialRendering bool    `toml:"partial_rendering"`
	ContentPreview   bool    `toml:"content_preview"`
	ScaleRatio       float64 `toml:"scale_ratio"`
	PageColor        string  `toml:"page_color"`
	BackgroundColor  string  `toml:"background_color"`
	// Canvas enables rasterized canvas pages for placeholders.
	Canvas     bool    `toml:"canvas"`
	PixelRatio float64 `toml:"pixel_ratio"`
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
}

// Cache holds fragment cache settings.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
	TTL           Duration `toml:"ttl"`
}

// Server holds settings for the HTTP preview server.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Preview: Preview{
			Mode:             view.ModeDocument.String(),
			PartialRendering: true,
			ScaleRatio:       1,
			PageColor:        "white",
			BackgroundColor:  "#f5f5f5",
			PixelRatio:       1,
			Width:            800,
			Height:           600,
		},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			Prefix:    "pageview:",
			TTL:       Duration{24 * time.Hour},
		},
		Server: Server{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
		},
	}
}

// Load reads path over the defaults. When optional is set a missing file
// yields the defaults.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if optional && stderrors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults.
func Parse(text string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %s", undecoded[0])
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks all settings.
func (c *Config) Validate() error {
	if _, err := c.Preview.RenderMode(); err != nil {
		return err
	}
	if err := errors.ValidateScaleRatio(c.Preview.ScaleRatio); err != nil {
		return err
	}
	for _, color := range []string{c.Preview.PageColor, c.Preview.BackgroundColor} {
		if color == "" {
			continue
		}
		if err := errors.ValidateColor(color); err != nil {
			return err
		}
	}
	if c.Preview.PixelRatio <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "pixel_ratio must be positive, got %g", c.Preview.PixelRatio)
	}
	if err := errors.ValidateDimension("width", c.Preview.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("height", c.Preview.Height); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNull:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis backend requires redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "negative cache ttl %s", c.Cache.TTL)
	}
	return nil
}

// RenderMode parses the configured mode.
func (p Preview) RenderMode() (view.Mode, error) {
	return view.ParseMode(p.Mode)
}

// Write stores c at path.
func (c *Config) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
