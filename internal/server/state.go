package server

import (
	"github.com/matzehuels/pageview/pkg/geom"
	"github.com/matzehuels/pageview/pkg/preview"
)

// state is the JSON form of a document snapshot.
type state struct {
	Mode             string  `json:"mode"`
	Page             int     `json:"page"`
	ScaleRatio       float64 `json:"scale_ratio"`
	AppliedScale     float64 `json:"applied_scale"`
	PartialRendering bool    `json:"partial_rendering"`
	CanvasPending    bool    `json:"canvas_pending"`
	Frame            frame   `json:"frame"`
}

type frame struct {
	Window      string  `json:"window"`
	Pages       int     `json:"pages"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	PixelWidth  int     `json:"pixel_width"`
	PixelHeight int     `json:"pixel_height"`
	CanvasPages int     `json:"canvas_pages"`
	Placeholder bool    `json:"placeholder"`
}

func toState(s preview.Snapshot) state {
	return state{
		Mode:             s.Mode.String(),
		Page:             s.PageIndex,
		ScaleRatio:       s.ScaleRatio,
		AppliedScale:     s.AppliedScale,
		PartialRendering: s.PartialRendering,
		CanvasPending:    s.CanvasPending,
		Frame: frame{
			Window:      windowString(s.Last.Window),
			Pages:       s.Last.PageCount,
			Width:       s.Last.Width,
			Height:      s.Last.Height,
			PixelWidth:  s.Last.PixelWidth,
			PixelHeight: s.Last.PixelHeight,
			CanvasPages: s.Last.CanvasPages,
			Placeholder: s.Last.Placeholder,
		},
	}
}

func windowString(w geom.Window) string {
	if w.IsFullPlane() {
		return "full"
	}
	return w.String()
}
