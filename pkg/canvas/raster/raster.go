// Package raster is a canvas extension that rasterizes canvas-backed pages
// with fogleman/gg and embeds them as PNG data URIs.
package raster

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/pageview/pkg/canvas"
	"github.com/matzehuels/pageview/pkg/errors"
)

// MaxPixels bounds either side of a rasterized page.
const MaxPixels = 4096

// Options configures the rasterizer.
type Options struct {
	// PixelRatio is the number of pixels per document unit. Defaults to 1.
	PixelRatio float64
	// Background is the page fill as a hex color. Defaults to white.
	Background string
	// Foreground is the border and label color. Defaults to a mid grey.
	Foreground string
}

// Extension renders canvas pages off the render pass.
type Extension struct {
	opts Options
}

// New creates a raster extension.
func New(opts Options) *Extension {
	if opts.PixelRatio <= 0 {
		opts.PixelRatio = 1
	}
	if opts.Background == "" {
		opts.Background = "#ffffff"
	}
	if opts.Foreground == "" {
		opts.Foreground = "#9e9e9e"
	}
	return &Extension{opts: opts}
}

// CreateCanvas marks the targets as pending until the first update lands.
func (e *Extension) CreateCanvas(pages []*canvas.Page) {
	for _, p := range pages {
		if _, ok := p.Element.Attr("href"); !ok {
			p.Element.SetAttr("data-canvas-state", "pending")
		}
	}
}

// UpdateCanvas rasterizes every page. The tree is only touched by the
// returned commit.
func (e *Extension) UpdateCanvas(ctx context.Context, pages []*canvas.Page) (func(), error) {
	uris := make([]string, len(pages))
	for i, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		uri, err := e.render(p)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p.Index, err)
		}
		uris[i] = uri
	}
	return func() {
		for i, p := range pages {
			p.Element.SetAttr("href", uris[i])
			p.Element.SetAttr("data-canvas-state", "ready")
		}
	}, nil
}

func (e *Extension) render(p *canvas.Page) (string, error) {
	w, h := pixels(p.Width*e.opts.PixelRatio), pixels(p.Height*e.opts.PixelRatio)
	if w == 0 || h == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "page %d has no area (%gx%g)", p.Index, p.Width, p.Height)
	}

	dc := gg.NewContext(w, h)
	dc.SetHexColor(e.opts.Background)
	dc.Clear()

	dc.SetHexColor(e.opts.Foreground)
	dc.SetLineWidth(1)
	dc.DrawRectangle(0.5, 0.5, float64(w)-1, float64(h)-1)
	dc.Stroke()
	dc.DrawStringAnchored(fmt.Sprintf("%d", p.Index+1), float64(w)/2, float64(h)/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func pixels(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return int(math.Min(math.Ceil(v), MaxPixels))
}
