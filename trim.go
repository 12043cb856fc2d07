package qpdfview

import (
	"image/color"
	"math"
)

// Crop boxes are snapped to a 1/100 grid and then widened by a 5% fraction
// of one grid step on each side, so that converting the fractional box back
// to pixel coordinates can never clip content through rounding.
const (
	cropBoxPrecision = 100.0
	cropBoxTolerance = 0.05
)

func roundDown(value float64) float64 {
	v := (math.Floor(value*cropBoxPrecision) - cropBoxTolerance) / cropBoxPrecision
	return math.Max(0, v)
}

func roundUp(value float64) float64 {
	v := (math.Ceil(value*cropBoxPrecision) + cropBoxTolerance) / cropBoxPrecision
	return math.Min(1, v)
}

func columnHasPaperColor(x int, paper color.NRGBA, pm *Pixmap) bool {
	height := pm.Height()
	for y := 0; y < height; y++ {
		if pm.GetPixel(x, y) != paper {
			return false
		}
	}
	return true
}

func rowHasPaperColor(y int, paper color.NRGBA, pm *Pixmap) bool {
	width := pm.Width()
	for x := 0; x < width; x++ {
		if pm.GetPixel(x, y) != paper {
			return false
		}
	}
	return true
}

// TrimMargins computes the crop box of a rendered page: the smallest
// fractional rectangle, relative to the image dimensions, containing every
// pixel that differs from the uniform paper color. An empty or entirely
// uniform image yields the full unit rectangle.
func TrimMargins(paper color.NRGBA, pm *Pixmap) RectF {
	if pm.IsNull() {
		return UnitRectF()
	}

	width := pm.Width()
	height := pm.Height()

	var left int
	for left = 0; left < width; left++ {
		if !columnHasPaperColor(left, paper, pm) {
			break
		}
	}
	if left == width {
		// No content at all.
		return UnitRectF()
	}

	var right int
	for right = width - 1; right >= left; right-- {
		if !columnHasPaperColor(right, paper, pm) {
			break
		}
	}

	var top int
	for top = 0; top < height; top++ {
		if !rowHasPaperColor(top, paper, pm) {
			break
		}
	}

	var bottom int
	for bottom = height - 1; bottom >= top; bottom-- {
		if !rowHasPaperColor(bottom, paper, pm) {
			break
		}
	}

	return RectF{
		X: roundDown(float64(left) / float64(width)),
		Y: roundDown(float64(top) / float64(height)),
		W: roundUp(float64(right-left+1) / float64(width)),
		H: roundUp(float64(bottom-top+1) / float64(height)),
	}
}
