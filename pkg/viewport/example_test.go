package viewport_test

import (
	"fmt"

	"github.com/matzehuels/pageview/pkg/geom"
	"github.com/matzehuels/pageview/pkg/view"
	"github.com/matzehuels/pageview/pkg/viewport"
)

func ExampleCompute_document() {
	// A 200px band scrolled 900px down lands inside the second page, so the
	// window covers that page and nothing else.
	s := view.NewState(view.ModeDocument)
	s.PartialRendering = true
	s.AppliedScale = 1
	s.DOM = view.DOMState{
		Width: 600, Height: 2300,
		BoundingRect:   view.Rect{Top: -900},
		ViewportHeight: 200,
	}
	s.Pages = []geom.Size{{Width: 600, Height: 800}, {Width: 600, Height: 600}, {Width: 600, Height: 900}}

	w, _ := viewport.Compute(s, nil)
	fmt.Println(w)
	// Output:
	// [-1,800]-[601,1400]
}

func ExampleCompute_slide() {
	// Slide 8 of a four-page deck is clamped to the last page.
	s := view.NewState(view.ModeSlide)
	s.PartialRendering = true
	s.PageIndex = 7
	pages := []geom.Size{{Width: 600, Height: 800}, {Width: 600, Height: 800}, {Width: 600, Height: 800}, {Width: 600, Height: 800}}

	w, _ := viewport.Compute(s, pages)
	fmt.Println("slide", s.PageIndex)
	fmt.Println(w)
	// Output:
	// slide 3
	// [0.1,2400.1]-[599.9,3199.9]
}
