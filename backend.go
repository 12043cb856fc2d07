package qpdfview

import "image"

// Page is the rasterization capability of the document backend. The core
// treats it as opaque: it only ever asks for a region of the page rendered
// at a given resolution and rotation.
//
// Render returns nil when rasterization fails; the tile degrades to an
// error indicator in that case. A Page need not be safe for concurrent
// Render calls on the same page object; the core issues at most one render
// per tile at a time, and backends sharing parser state between pages must
// serialize internally (as imagemodel does with a per-document mutex).
type Page interface {
	// Size returns the page size in points (1/72 inch).
	Size() (width, height float64)

	// Render rasterizes the given region of the page. rect is expressed in
	// the pixel coordinates of the whole page rendered at the given
	// resolution and rotation.
	Render(resolutionX, resolutionY float64, rotation Rotation, rect image.Rectangle) *Pixmap
}
