package canvas

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pageview/pkg/errors"
	"github.com/matzehuels/pageview/pkg/geom"
	"github.com/matzehuels/pageview/pkg/observability"
	"github.com/matzehuels/pageview/pkg/tree"
	"github.com/matzehuels/pageview/pkg/view"
)

// Controller runs canvas updates for one document under a single-flight
// token discipline.
type Controller struct {
	ext    Extension
	slot   *view.TokenSlot
	mu     sync.Locker
	logger *log.Logger
	wg     sync.WaitGroup
}

// NewController creates a controller. slot is the document's token slot and
// mu the lock guarding the document; Create and Update must be called with
// mu held.
func NewController(ext Extension, slot *view.TokenSlot, mu sync.Locker, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{ext: ext, slot: slot, mu: mu, logger: logger}
}

// Create establishes a container for every page, reusing retained ones, and
// lets each page embed it through its inserter.
func (c *Controller) Create(pages []*Page) {
	for _, p := range pages {
		if p.Container == nil || p.Element == nil {
			p.Container, p.Element = newContainer()
		}
		sizeTarget(p.Element, p.Size())
	}
	c.ext.CreateCanvas(pages)
	for _, p := range pages {
		if p.Inserter != nil {
			p.Inserter(p.Container)
		}
	}
}

// Update dispatches an asynchronous update for pages and returns its
// generation. A still-pending earlier update is orphaned: its completion
// will find itself superseded and do nothing.
func (c *Controller) Update(ctx context.Context, pages []*Page) uint64 {
	gen, superseded := c.slot.Issue()
	if superseded != 0 {
		c.logger.Debug("superseding in-flight canvas update", "generation", gen, "superseded", superseded)
	}

	ctx = context.WithoutCancel(ctx)
	observability.Canvas().OnUpdateStart(ctx, gen, len(pages))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		start := time.Now()
		commit, err := c.ext.UpdateCanvas(ctx, pages)
		c.complete(ctx, gen, commit, err, time.Since(start))
	}()
	return gen
}

// complete applies a finished update if its generation is still current.
// Failures are logged and dropped; the next render pass issues a fresh
// update for any page that is still a placeholder.
func (c *Controller) complete(ctx context.Context, gen uint64, commit func(), err error, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.slot.ClearIf(gen) {
		c.logger.Debug("discarding stale canvas update", "generation", gen)
		observability.Canvas().OnUpdateStale(ctx, gen)
		return
	}
	if err != nil {
		err = errors.Wrap(errors.ErrCodeCanvasUpdate, err, "canvas update %d", gen)
		c.logger.Warn("canvas update failed", "generation", gen, "err", err)
		observability.Canvas().OnUpdateComplete(ctx, gen, d, err)
		return
	}
	if commit != nil {
		commit()
	}
	observability.Canvas().OnUpdateComplete(ctx, gen, d, nil)
}

// Wait blocks until every dispatched update has completed. It must not be
// called with the document lock held.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func newContainer() (container, element *tree.Node) {
	container = tree.NewElement("g", tree.AttrClass, ClassEmbed)
	element = tree.NewElement("image", tree.AttrClass, ClassTarget)
	container.AppendChild(element)
	return container, element
}

func sizeTarget(el *tree.Node, s geom.Size) {
	el.SetAttr("width", geom.FormatUnit(s.Width))
	el.SetAttr("height", geom.FormatUnit(s.Height))
}
