// Package geom defines the document-unit geometry shared by the preview
// pipeline: points, page sizes, and the viewport window that is handed to a
// fragment source.
//
// All coordinates are in document units (typographic points as emitted by
// the layout engine), never in device pixels. Conversion to pixels happens
// only in the scale package.
package geom
