package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/pageview/pkg/errors"
	"github.com/matzehuels/pageview/pkg/view"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[preview]
mode = "slide"
scale_ratio = 1.5
content_preview = true

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "90m"
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mode, _ := cfg.Preview.RenderMode()
	if mode != view.ModeSlide {
		t.Errorf("mode = %v, want slide", mode)
	}
	if cfg.Preview.ScaleRatio != 1.5 || !cfg.Preview.ContentPreview {
		t.Errorf("preview = %+v", cfg.Preview)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("ttl = %s, want 90m", cfg.Cache.TTL)
	}
	// untouched defaults survive
	if cfg.Preview.PageColor != "white" || cfg.Server.Addr == "" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unknown key", "[preview]\nzoom = 2\n"},
		{"unknown mode", "[preview]\nmode = \"book\"\n"},
		{"bad ratio", "[preview]\nscale_ratio = 0\n"},
		{"bad color", "[preview]\npage_color = \"red;x\"\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"bad duration", "[cache]\nttl = \"soon\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\nredis_addr = \"\"\n"},
		{"syntax", "[preview\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.text); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("optional Load: %v", err)
	}
	if cfg.Preview.ScaleRatio != 1 {
		t.Errorf("expected defaults, got %+v", cfg.Preview)
	}
	if _, err := Load(path, false); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("required Load err = %v", err)
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	cfg.Preview.Mode = "slide"
	cfg.Cache.TTL = Duration{time.Hour}
	if err := cfg.Write(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Preview.Mode != "slide" || got.Cache.TTL.Duration != time.Hour {
		t.Errorf("round trip = %+v", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}
