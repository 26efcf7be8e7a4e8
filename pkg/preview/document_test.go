package preview

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/pageview/pkg/canvas"
	"github.com/matzehuels/pageview/pkg/errors"
	"github.com/matzehuels/pageview/pkg/fragment"
	"github.com/matzehuels/pageview/pkg/geom"
	"github.com/matzehuels/pageview/pkg/tree"
	"github.com/matzehuels/pageview/pkg/view"
)

func pages(n int, h float64) fragment.Document {
	doc := fragment.Document{}
	for i := 0; i < n; i++ {
		doc.Pages = append(doc.Pages, fragment.Page{
			Width:   600,
			Height:  h,
			Content: `<path d="M0 0h10"/>`,
		})
	}
	return doc
}

func newDoc(t *testing.T, doc fragment.Document, opts Options) *Document {
	t.Helper()
	src, err := fragment.NewStatic(doc)
	if err != nil {
		t.Fatal(err)
	}
	if opts.DOM.Width == 0 {
		opts.DOM = view.DOMState{Width: 600, Height: 400}
	}
	d, err := New(src, opts)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRenderDocument(t *testing.T) {
	d := newDoc(t, pages(3, 800), Options{})
	f, err := d.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if f.PageCount != 3 {
		t.Errorf("pages = %d, want 3", f.PageCount)
	}
	if !f.Window.IsFullPlane() {
		t.Errorf("window = %s, want full plane", f.Window)
	}
	if f.Height != 800*3+5*2 {
		t.Errorf("height = %v", f.Height)
	}
	if f.PixelWidth != 600 || f.PixelHeight != 2410 {
		t.Errorf("pixel size = %dx%d", f.PixelWidth, f.PixelHeight)
	}
	if !strings.Contains(d.SVG(), `class="typst-page-outer"`) {
		t.Error("missing page decorations")
	}
}

func TestRenderSlideEmptyShowsPlaceholder(t *testing.T) {
	d := newDoc(t, fragment.Document{}, Options{Mode: view.ModeSlide, PartialRendering: true})
	f, err := d.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !f.Placeholder {
		t.Error("expected placeholder frame")
	}
	root, err := tree.Parse(d.SVG())
	if err != nil {
		t.Fatal(err)
	}
	if got := root.TextContent(); got != fragment.NoPageText {
		t.Errorf("text = %q, want %q", got, fragment.NoPageText)
	}
}

func TestRenderSlideClampsIndex(t *testing.T) {
	d := newDoc(t, pages(5, 400), Options{Mode: view.ModeSlide, PartialRendering: true})
	if err := d.SetPage(7); err != nil {
		t.Fatal(err)
	}
	f, err := d.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := d.Snapshot().PageIndex; got != 4 {
		t.Errorf("page index = %d, want 4", got)
	}
	if f.Window.Lo.Y != 1600.1 {
		t.Errorf("window = %s, want slide 4", f.Window)
	}
	shown := 0
	for i, p := range tree.Pages(d.Tree().FirstElement()) {
		if _, hidden := p.Attr("display"); !hidden {
			shown++
			if i != 4 {
				t.Errorf("page %d shown", i)
			}
		}
	}
	if shown != 1 {
		t.Errorf("%d pages shown, want 1", shown)
	}
}

func TestSlideNavigation(t *testing.T) {
	d := newDoc(t, pages(2, 400), Options{Mode: view.ModeSlide})
	if _, err := d.Render(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := d.PrevPage(); got != 0 {
		t.Errorf("PrevPage = %d, want 0", got)
	}
	d.NextPage()
	if got := d.NextPage(); got != 1 {
		t.Errorf("NextPage = %d, want 1", got)
	}
	if err := d.SetPage(-1); !errors.Is(err, errors.ErrCodePageOutOfRange) {
		t.Errorf("SetPage(-1) = %v", err)
	}
}

func TestRenderPartialWindow(t *testing.T) {
	d := newDoc(t, pages(10, 400), Options{PartialRendering: true})
	ctx := context.Background()
	if _, err := d.Render(ctx); err != nil {
		t.Fatal(err)
	}
	d.Scroll(view.Rect{Top: -2000, Width: 600, Height: 4000})
	f, err := d.Render(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if f.Window.IsFullPlane() || f.Window.Lo.Y > 2000 || f.Window.Hi.Y < 2400 {
		t.Errorf("window = %s does not cover the scrolled band", f.Window)
	}
}

func TestReturnFromSlideShowsAllPages(t *testing.T) {
	d := newDoc(t, pages(4, 400), Options{PartialRendering: true})
	ctx := context.Background()
	if _, err := d.Render(ctx); err != nil {
		t.Fatal(err)
	}

	if err := d.SetMode(view.ModeSlide); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPage(3); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Render(ctx); err != nil {
		t.Fatal(err)
	}

	if err := d.SetMode(view.ModeDocument); err != nil {
		t.Fatal(err)
	}
	d.Scroll(view.Rect{Top: 0, Width: 600, Height: 400})
	f, err := d.Render(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if f.Window.IsFullPlane() {
		t.Fatal("expected a partial window")
	}

	all := tree.Pages(d.Tree().FirstElement())
	if len(all) != 4 {
		t.Fatalf("pages = %d, want 4", len(all))
	}
	for i, p := range all {
		if v, ok := p.Attr("display"); ok {
			t.Errorf("page %d display=%q after returning to document mode", i, v)
		}
	}
	if f.Height != 4*400+3*5 {
		t.Errorf("height = %v, want %v", f.Height, 4*400+3*5)
	}
}

func TestRenderSVGMatchesFrame(t *testing.T) {
	d := newDoc(t, pages(4, 400), Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	errc := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			mode := view.ModeDocument
			if i%2 == 1 {
				mode = view.ModeSlide
			}
			if err := d.SetMode(mode); err != nil {
				errc <- err
			}
		}(i)
		go func() {
			defer wg.Done()
			f, svg, err := d.RenderSVG(ctx)
			if err != nil {
				errc <- err
				return
			}
			want := fmt.Sprintf(`data-height="%s"`, geom.FormatUnit(f.Height))
			if !strings.Contains(svg, want) {
				errc <- fmt.Errorf("frame height %v not in markup %.120s", f.Height, svg)
			}
		}()
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		t.Error(err)
	}

	f, svg := d.Current()
	if !strings.Contains(svg, fmt.Sprintf(`data-height="%s"`, geom.FormatUnit(f.Height))) {
		t.Errorf("Current frame height %v not in markup", f.Height)
	}
}

func TestSetModeRejectsUnknown(t *testing.T) {
	d := newDoc(t, pages(1, 100), Options{})
	if err := d.SetMode(view.Mode(9)); !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("SetMode = %v", err)
	}
	if d.Snapshot().Mode != view.ModeDocument {
		t.Error("mode changed on invalid input")
	}
}

func TestZoomOverrideRemovedByRender(t *testing.T) {
	d := newDoc(t, pages(2, 300), Options{})
	ctx := context.Background()
	if _, err := d.Render(ctx); err != nil {
		t.Fatal(err)
	}
	if err := d.Zoom(2); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Tree().Attr("style"); !ok {
		t.Fatal("zoom did not pin host height")
	}
	f, err := d.Render(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Tree().Attr("style"); ok {
		t.Error("host height override survived rescale")
	}
	if f.PixelWidth != 1200 {
		t.Errorf("pixel width = %d, want 1200", f.PixelWidth)
	}
	if err := d.Zoom(0); err == nil {
		t.Error("expected error for zero zoom")
	}
}

func TestResize(t *testing.T) {
	d := newDoc(t, pages(1, 300), Options{})
	ctx := context.Background()
	if _, err := d.Render(ctx); err != nil {
		t.Fatal(err)
	}
	r := d.Resize(ctx, view.DOMState{Width: 300, Height: 200})
	if r.Width != 300 || !r.Resized {
		t.Errorf("resize = %+v", r)
	}
}

// gateExt blocks every update until released and records committed passes.
type gateExt struct {
	mu      sync.Mutex
	gates   []chan struct{}
	started chan struct{}
	commits []int
}

func (e *gateExt) CreateCanvas([]*canvas.Page) {}

func (e *gateExt) UpdateCanvas(ctx context.Context, pages []*canvas.Page) (func(), error) {
	e.mu.Lock()
	n := len(e.gates)
	g := make(chan struct{})
	e.gates = append(e.gates, g)
	e.mu.Unlock()
	e.started <- struct{}{}
	<-g
	return func() { e.commits = append(e.commits, n) }, nil
}

func (e *gateExt) release(i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	close(e.gates[i])
}

// ghostSource renders page 0 and leaves the remaining pages as
// placeholders whose reuse hints never match.
type ghostSource struct{ n int }

func (g ghostSource) PagesInfo(context.Context) ([]geom.Size, error) {
	out := make([]geom.Size, g.n)
	for i := range out {
		out[i] = geom.Size{Width: 600, Height: 400}
	}
	return out, nil
}

func (g ghostSource) Fragment(context.Context, geom.Window) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="typst-doc" data-width="600" data-height="%d">`, 400*g.n)
	for i := 0; i < g.n; i++ {
		fmt.Fprintf(&b, `<g class="typst-page" data-tid="g%d" data-page-width="600" data-page-height="400"`, i)
		if i == 0 {
			b.WriteString(`><path d="M0 0h10"/></g>`)
			continue
		}
		fmt.Fprintf(&b, ` data-reuse-from="ghost-%d"></g>`, i)
	}
	b.WriteString(`</svg>`)
	return b.String(), nil
}

func TestCanvasStaleCompletionDiscarded(t *testing.T) {
	ext := &gateExt{started: make(chan struct{}, 2)}
	d, err := New(ghostSource{n: 3}, Options{
		Canvas: ext,
		DOM:    view.DOMState{Width: 600, Height: 400},
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	f, err := d.Render(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if f.CanvasPages != 2 {
		t.Fatalf("canvas pages = %d, want 2", f.CanvasPages)
	}
	<-ext.started
	if _, err := d.Render(ctx); err != nil {
		t.Fatal(err)
	}
	<-ext.started

	ext.release(0)
	ext.release(1)
	d.WaitCanvas()

	if d.Snapshot().CanvasPending {
		t.Error("token slot not cleared")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(ext.commits) != 1 || ext.commits[0] != 1 {
		t.Errorf("commits = %v, want only the second pass", ext.commits)
	}
	for _, p := range tree.Pages(d.host.FirstElement()) {
		if id, _ := p.Attr(tree.AttrTID); strings.HasPrefix(id, "canvas:") {
			if _, ok := canvas.FindBinding(p); !ok {
				t.Errorf("canvas page %s lost its container", id)
			}
		}
	}
}
