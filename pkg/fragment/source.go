package fragment

import (
	"context"
	"fmt"

	"github.com/matzehuels/pageview/pkg/geom"
)

// Source is the layout engine as seen by a render pass.
type Source interface {
	// PagesInfo returns the size of every page in document order.
	PagesInfo(ctx context.Context) ([]geom.Size, error)
	// Fragment returns markup for the document, with fresh content for the
	// pages intersecting w and reuse-only placeholders for the others.
	Fragment(ctx context.Context, w geom.Window) (string, error)
}

// Revisioned is implemented by sources whose output is fully determined by
// a revision string. Cached uses it to key entries.
type Revisioned interface {
	Revision() string
}

// NoPageText is the message shown when slide mode has nothing to present.
const NoPageText = "No page found"

// NoPageMarkup is the placeholder fragment substituted for an empty
// document in slide mode.
var NoPageMarkup = fmt.Sprintf(
	`<svg xmlns="http://www.w3.org/2000/svg" class="typst-doc" viewBox="0 0 200 40" width="200" height="40" data-width="200" data-height="40">`+
		`<text class="typst-no-page" x="100" y="24" text-anchor="middle">%s</text></svg>`,
	NoPageText)
