// Package imagemodel provides a rendering backend over decoded images.
// Each image becomes one page whose natural size is its pixel size at
// 72 dpi; rendering scales, rotates and clips with x/image/draw. It is the
// backend used by the tests and examples, and a template for real document
// backends.
package imagemodel

import (
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	qpdfview "github.com/liyaoshi/qpdfview"
)

// Document is an ordered collection of image-backed pages. Rendering is
// serialized with a per-document mutex: backends commonly share parser or
// decoder state between pages, and the core requires only that one render
// per page runs at a time, not one per document.
type Document struct {
	mu    sync.Mutex
	pages []*Page
}

// New creates a document with one page per image.
func New(images ...image.Image) *Document {
	d := &Document{}
	for _, img := range images {
		d.pages = append(d.pages, &Page{doc: d, img: img})
	}
	return d
}

// Open decodes the given files into a document. The image formats must be
// registered by the caller (e.g. by importing image/png).
func Open(paths ...string) (*Document, error) {
	var images []image.Image
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		images = append(images, img)
	}
	return New(images...), nil
}

// NumPages returns the number of pages.
func (d *Document) NumPages() int {
	return len(d.pages)
}

// Page returns the page at the given zero-based index.
func (d *Document) Page(index int) *Page {
	return d.pages[index]
}

// Page is one image-backed page. It implements qpdfview.Page.
type Page struct {
	doc *Document
	img image.Image
}

// Size returns the page size in points: one source pixel per point.
func (p *Page) Size() (float64, float64) {
	bounds := p.img.Bounds()
	return float64(bounds.Dx()), float64(bounds.Dy())
}

// Render rasterizes the given region of the page at the requested
// resolution and rotation. The region is clipped against the full page;
// an empty intersection yields nil.
func (p *Page) Render(resolutionX, resolutionY float64, rotation qpdfview.Rotation, rect image.Rectangle) *qpdfview.Pixmap {
	p.doc.mu.Lock()
	defer p.doc.mu.Unlock()

	if resolutionX <= 0 || resolutionY <= 0 {
		return nil
	}

	bounds := p.img.Bounds()
	sx := resolutionX / 72.0
	sy := resolutionY / 72.0
	scaledW := float64(bounds.Dx()) * sx
	scaledH := float64(bounds.Dy()) * sy

	pageW := int(math.Ceil(scaledW))
	pageH := int(math.Ceil(scaledH))
	if rotation.SwapsAxes() {
		pageW, pageH = pageH, pageW
	}

	rect = rect.Intersect(image.Rect(0, 0, pageW, pageH))
	if rect.Empty() {
		return nil
	}

	// Affine transform from source pixel coordinates into the clipped
	// destination: scale, rotate clockwise about the origin, shift the
	// rotated page back into view, then subtract the clip origin.
	var m f64.Aff3
	ox := float64(rect.Min.X)
	oy := float64(rect.Min.Y)
	switch rotation {
	case qpdfview.RotateBy90:
		m = f64.Aff3{0, -sy, scaledH - ox, sx, 0, -oy}
	case qpdfview.RotateBy180:
		m = f64.Aff3{-sx, 0, scaledW - ox, 0, -sy, scaledH - oy}
	case qpdfview.RotateBy270:
		m = f64.Aff3{0, sy, -ox, -sx, 0, scaledW - oy}
	default:
		m = f64.Aff3{sx, 0, -ox, 0, sy, -oy}
	}

	// Fold a non-zero source origin into the constant terms.
	xo := float64(bounds.Min.X)
	yo := float64(bounds.Min.Y)
	m[2] -= m[0]*xo + m[1]*yo
	m[5] -= m[3]*xo + m[4]*yo

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.ApproxBiLinear.Transform(dst, m, p.img, bounds, draw.Src, nil)

	return qpdfview.FromImage(dst)
}
