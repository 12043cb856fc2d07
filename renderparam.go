package qpdfview

import "math"

// Resolution describes the pixel density a page is rasterized at.
type Resolution struct {
	// ResolutionX and ResolutionY are the base resolutions in dots per inch.
	ResolutionX int
	ResolutionY int

	// DevicePixelRatio scales the resolution for high-density displays.
	DevicePixelRatio float64
}

// RenderParam is the complete visual transform applied to a page. It is a
// value type: two RenderParams compare equal exactly when they produce the
// same pixels for the same page region.
type RenderParam struct {
	Resolution   Resolution
	ScaleFactor  float64
	Rotation     Rotation
	InvertColors bool
}

// ScaledResolutionX returns the effective horizontal resolution, the base
// resolution scaled by the device pixel ratio and the zoom factor.
func (p RenderParam) ScaledResolutionX() float64 {
	return p.Resolution.DevicePixelRatio * float64(p.Resolution.ResolutionX) * p.ScaleFactor
}

// ScaledResolutionY returns the effective vertical resolution.
func (p RenderParam) ScaledResolutionY() float64 {
	return p.Resolution.DevicePixelRatio * float64(p.Resolution.ResolutionY) * p.ScaleFactor
}

// PagePixelSize returns the size in pixels of a page of the given size in
// points (1/72 inch) rendered with these parameters. Rotations by a quarter
// turn exchange the axes.
func (p RenderParam) PagePixelSize(pageWidth, pageHeight float64) (int, int) {
	w := int(math.Ceil(p.ScaledResolutionX() / 72.0 * pageWidth))
	h := int(math.Ceil(p.ScaledResolutionY() / 72.0 * pageHeight))
	if p.Rotation.SwapsAxes() {
		return h, w
	}
	return w, h
}
