package qpdfview

import "image"

// Rotation of a page in quarter turns, applied clockwise.
type Rotation int

const (
	RotateBy0 Rotation = iota
	RotateBy90
	RotateBy180
	RotateBy270
)

// String returns the rotation in degrees.
func (r Rotation) String() string {
	switch r {
	case RotateBy90:
		return "90"
	case RotateBy180:
		return "180"
	case RotateBy270:
		return "270"
	default:
		return "0"
	}
}

// SwapsAxes reports whether the rotation exchanges the horizontal and
// vertical axes of the page.
func (r Rotation) SwapsAxes() bool {
	return r == RotateBy90 || r == RotateBy270
}

// PointF is a position with sub-pixel precision, used for paint placement.
type PointF struct {
	X float64
	Y float64
}

// RectF is an axis-aligned rectangle with sub-pixel precision.
// Crop boxes use the unit square: {0, 0, 1, 1} covers the whole page.
type RectF struct {
	X float64
	Y float64
	W float64
	H float64
}

// Translated returns the rectangle shifted by the given offset.
func (r RectF) Translated(p PointF) RectF {
	return RectF{X: r.X + p.X, Y: r.Y + p.Y, W: r.W, H: r.H}
}

// UnitRectF is the full unit rectangle, the crop box of an untrimmed page.
func UnitRectF() RectF {
	return RectF{X: 0, Y: 0, W: 1, H: 1}
}

// rectFFromPixels converts an integer pixel rectangle to a RectF.
func rectFFromPixels(r image.Rectangle) RectF {
	return RectF{
		X: float64(r.Min.X),
		Y: float64(r.Min.Y),
		W: float64(r.Dx()),
		H: float64(r.Dy()),
	}
}
