package preview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pageview/pkg/canvas"
	"github.com/matzehuels/pageview/pkg/errors"
	"github.com/matzehuels/pageview/pkg/fragment"
	"github.com/matzehuels/pageview/pkg/geom"
	"github.com/matzehuels/pageview/pkg/layout"
	"github.com/matzehuels/pageview/pkg/observability"
	"github.com/matzehuels/pageview/pkg/reconcile"
	"github.com/matzehuels/pageview/pkg/scale"
	"github.com/matzehuels/pageview/pkg/tree"
	"github.com/matzehuels/pageview/pkg/view"
	"github.com/matzehuels/pageview/pkg/viewport"
)

// Options configures a Document.
type Options struct {
	Mode             view.Mode
	PartialRendering bool
	ContentPreview   bool
	// ScaleRatio is the initial zoom. Zero means 1.
	ScaleRatio      float64
	PageColor       string
	BackgroundColor string
	// DOM is the initial container snapshot.
	DOM view.DOMState
	// Reconciler defaults to reconcile.NewKeyed().
	Reconciler reconcile.Reconciler
	// Canvas enables canvas-backed placeholder pages. Optional.
	Canvas canvas.Extension
	Logger *log.Logger
}

// Frame summarizes a render pass.
type Frame struct {
	Window      geom.Window
	PageCount   int
	Width       float64
	Height      float64
	PixelWidth  int
	PixelHeight int
	Scale       float64
	CanvasPages int
	// Placeholder is set when the no-page fragment was shown.
	Placeholder bool
	Duration    time.Duration
}

// Document is the rendering controller of one previewed document.
type Document struct {
	id     string
	src    fragment.Source
	rec    reconcile.Reconciler
	layout *layout.Compositor
	canvas *canvas.Controller
	host   *tree.Node
	state  *view.State
	logger *log.Logger

	mu   sync.Mutex
	last Frame
}

// New creates a Document rendering src.
func New(src fragment.Source, opts Options) (*Document, error) {
	if err := opts.Mode.Validate(); err != nil {
		return nil, err
	}
	if opts.ScaleRatio == 0 {
		opts.ScaleRatio = 1
	}
	if err := errors.ValidateScaleRatio(opts.ScaleRatio); err != nil {
		return nil, err
	}
	for _, c := range []string{opts.PageColor, opts.BackgroundColor} {
		if c == "" {
			continue
		}
		if err := errors.ValidateColor(c); err != nil {
			return nil, err
		}
	}
	if opts.Reconciler == nil {
		opts.Reconciler = reconcile.NewKeyed()
	}

	d := &Document{
		id:    uuid.NewString(),
		src:   src,
		rec:   opts.Reconciler,
		host:  tree.NewElement("div", tree.AttrClass, "typst-preview"),
		state: view.NewState(opts.Mode),
	}
	d.logger = opts.Logger
	if d.logger == nil {
		d.logger = log.Default()
	}
	d.logger = d.logger.With("doc", d.id[:8])

	d.state.ScaleRatio = opts.ScaleRatio
	d.state.PartialRendering = opts.PartialRendering
	d.state.DOM = opts.DOM

	if opts.Canvas != nil {
		d.canvas = canvas.NewController(opts.Canvas, &d.state.Canvas, &d.mu, d.logger)
	}
	d.layout = layout.New(layout.Options{
		ContentPreview:  opts.ContentPreview,
		PageColor:       opts.PageColor,
		BackgroundColor: opts.BackgroundColor,
		Canvas:          d.canvas,
		Logger:          d.logger,
	})
	return d, nil
}

// ID returns the document instance id.
func (d *Document) ID() string { return d.id }

// Render runs a full render pass.
func (d *Document) Render(ctx context.Context) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pass(ctx)
}

// RenderSVG runs a full render pass and serializes its result under the
// same lock, so the markup always belongs to the returned frame.
func (d *Document) RenderSVG(ctx context.Context) (Frame, string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, err := d.pass(ctx)
	if err != nil {
		return f, "", err
	}
	return f, d.markup(), nil
}

// Current returns the last successful frame together with the current
// markup, including canvas commits made since that pass.
func (d *Document) Current() (Frame, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last, d.markup()
}

func (d *Document) pass(ctx context.Context) (Frame, error) {
	start := time.Now()
	mode := d.state.Mode.String()
	observability.Render().OnPassStart(ctx, d.id, mode)

	f, err := d.render(ctx)
	f.Duration = time.Since(start)
	observability.Render().OnPassComplete(ctx, d.id, mode, f.PageCount, f.Duration, err)
	if err != nil {
		d.logger.Error("render pass failed", "mode", mode, "err", err)
		return f, err
	}
	d.logger.Debug("render pass", "mode", mode, "window", f.Window, "pages", f.PageCount,
		"canvas", f.CanvasPages, "duration", f.Duration)
	d.last = f
	return f, nil
}

func (d *Document) render(ctx context.Context) (Frame, error) {
	s := d.state
	if err := s.Mode.Validate(); err != nil {
		return Frame{}, err
	}

	pages, err := d.src.PagesInfo(ctx)
	if err != nil {
		return Frame{}, errors.Wrap(errors.ErrCodeEngine, err, "pages info")
	}
	f := Frame{PageCount: len(pages)}

	var markup string
	if s.Mode == view.ModeSlide && len(pages) == 0 {
		f.Placeholder = true
	} else {
		if s.Mode == view.ModeSlide {
			s.ClampPage(len(pages))
		}
		f.Window, err = viewport.Compute(s, pages)
		if err != nil {
			return f, err
		}
		markup, err = d.src.Fragment(ctx, f.Window)
		if err != nil {
			return f, errors.Wrap(errors.ErrCodeEngine, err, "fragment for %s", f.Window)
		}
	}

	var decorate reconcile.DecorateFunc
	var res layout.Result
	if f.Placeholder {
		markup = fragment.NoPageMarkup
	} else {
		prev := tree.Pages(d.host.FirstElement())
		decorate = func(root *tree.Node) error {
			var err error
			res, err = d.layout.Decorate(ctx, root, prev, s)
			return err
		}
	}
	if err := d.rec.Reconcile(d.host, markup, decorate); err != nil {
		return f, err
	}

	if !f.Placeholder && s.Mode == view.ModeDocument {
		s.Pages = res.Pages
	}
	f.Width, f.Height = res.Width, res.Height
	f.CanvasPages = len(res.Canvas)

	sr := d.rescale(ctx)
	f.PixelWidth, f.PixelHeight, f.Scale = sr.Width, sr.Height, sr.Scale
	return f, nil
}

func (d *Document) rescale(ctx context.Context) scale.Result {
	r := scale.Rescale(d.host, d.state, d.logger)
	if r.Resized {
		observability.Render().OnRescale(ctx, d.id, r.Width, r.Height)
	}
	return r
}

// Resize refreshes the container snapshot and runs a rescale-only pass.
func (d *Document) Resize(ctx context.Context, dom view.DOMState) scale.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.DOM = dom
	return d.rescale(ctx)
}

// Scroll records the container's position relative to the viewport. The
// next Render uses it to pick the window.
func (d *Document) Scroll(rect view.Rect) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.DOM.BoundingRect = rect
}

// ScrollBy moves the recorded position by dy pixels; positive scrolls down.
func (d *Document) ScrollBy(dy float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.DOM.BoundingRect.Top -= dy
	if d.state.DOM.BoundingRect.Top > 0 {
		d.state.DOM.BoundingRect.Top = 0
	}
}

// SetMode switches between document and slide presentation.
func (d *Document) SetMode(m view.Mode) error {
	if err := m.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Mode = m
	return nil
}

// SetPage selects the active slide. Indices past the last page are clamped
// on the next render.
func (d *Document) SetPage(i int) error {
	if i < 0 {
		return errors.New(errors.ErrCodePageOutOfRange, "page index %d is negative", i)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.PageIndex = i
	return nil
}

// NextPage advances the active slide, staying on the last known page.
func (d *Document) NextPage() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last.PageCount == 0 || d.state.PageIndex < d.last.PageCount-1 {
		d.state.PageIndex++
	}
	return d.state.PageIndex
}

// PrevPage moves to the previous slide, stopping at the first.
func (d *Document) PrevPage() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.PageIndex > 0 {
		d.state.PageIndex--
	}
	return d.state.PageIndex
}

// Zoom sets the zoom ratio. Until the next rescale the host keeps its
// current pixel height so the scroll position survives the relayout.
func (d *Document) Zoom(ratio float64) error {
	if err := errors.ValidateScaleRatio(ratio); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.ScaleRatio = ratio
	if root := d.host.FirstElement(); root != nil {
		if h, ok := root.Attr("height"); ok {
			d.host.SetAttr(scale.AttrStyle, fmt.Sprintf("height: %spx", h))
		}
	}
	return nil
}

// SetCursor places the cursor marker, or removes it when c is nil.
func (d *Document) SetCursor(c *view.Cursor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c != nil {
		cc := *c
		c = &cc
	}
	d.state.Cursor = c
}

// Snapshot is a read-only copy of the render state.
type Snapshot struct {
	Mode             view.Mode
	PageIndex        int
	ScaleRatio       float64
	AppliedScale     float64
	PartialRendering bool
	DOM              view.DOMState
	CanvasPending    bool
	Last             Frame
}

// Snapshot returns the current state.
func (d *Document) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.state
	return Snapshot{
		Mode:             s.Mode,
		PageIndex:        s.PageIndex,
		ScaleRatio:       s.ScaleRatio,
		AppliedScale:     s.AppliedScale,
		PartialRendering: s.PartialRendering,
		DOM:              s.DOM,
		CanvasPending:    !s.Canvas.Empty(),
		Last:             d.last,
	}
}

// SVG returns the markup of the displayed document, or "" before the first
// render.
func (d *Document) SVG() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.markup()
}

func (d *Document) markup() string {
	root := d.host.FirstElement()
	if root == nil {
		return ""
	}
	return root.Markup()
}

// Tree returns a copy of the host tree.
func (d *Document) Tree() *tree.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.host.Clone()
}

// WaitCanvas blocks until dispatched canvas updates have completed.
func (d *Document) WaitCanvas() {
	if d.canvas != nil {
		d.canvas.Wait()
	}
}
