package qpdfview

import (
	"image"
	"image/color"
)

// Pixmap is a rectangular RGBA pixel buffer, the unit of exchange between
// the rendering backend, the tile cache and painting.
type Pixmap struct {
	width            int
	height           int
	devicePixelRatio float64
	data             []uint8 // RGBA, 4 bytes per pixel
}

// NewPixmap creates a pixmap with the given dimensions and a device pixel
// ratio of 1.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:            width,
		height:           height,
		devicePixelRatio: 1,
		data:             make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap in device pixels.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap in device pixels.
func (p *Pixmap) Height() int {
	return p.height
}

// IsNull reports whether the pixmap holds no pixels.
func (p *Pixmap) IsNull() bool {
	return p == nil || p.width <= 0 || p.height <= 0
}

// Data returns the raw pixel data in RGBA order.
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// Cost returns the cache cost of the pixmap in bytes.
func (p *Pixmap) Cost() int64 {
	return int64(p.width) * int64(p.height) * 4
}

// DevicePixelRatio returns the display density the pixmap was rendered for.
func (p *Pixmap) DevicePixelRatio() float64 {
	return p.devicePixelRatio
}

// SetDevicePixelRatio tags the pixmap with the display density it was
// rendered for.
func (p *Pixmap) SetDevicePixelRatio(ratio float64) {
	p.devicePixelRatio = ratio
}

// SetPixel sets the color of a single pixel. Out-of-range coordinates are
// ignored.
func (p *Pixmap) SetPixel(x, y int, c color.NRGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = c.R
	p.data[i+1] = c.G
	p.data[i+2] = c.B
	p.data[i+3] = c.A
}

// GetPixel returns the color of a single pixel. Out-of-range coordinates
// yield the zero color.
func (p *Pixmap) GetPixel(x, y int) color.NRGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.NRGBA{}
	}
	i := (y*p.width + x) * 4
	return color.NRGBA{R: p.data[i+0], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Fill sets every pixel to the given color.
func (p *Pixmap) Fill(c color.NRGBA) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = c.R
		p.data[i+1] = c.G
		p.data[i+2] = c.B
		p.data[i+3] = c.A
	}
}

// Invert inverts the color channels of every pixel in place. The alpha
// channel is preserved.
func (p *Pixmap) Invert() {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = 255 - p.data[i+0]
		p.data[i+1] = 255 - p.data[i+1]
		p.data[i+2] = 255 - p.data[i+2]
	}
}

// ToImage converts the pixmap to an image.RGBA sharing no storage.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from an image.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	pm := NewPixmap(bounds.Dx(), bounds.Dy())

	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == bounds.Dx()*4 {
		copy(pm.data, rgba.Pix[rgba.PixOffset(bounds.Min.X, bounds.Min.Y):])
		return pm
	}

	for y := 0; y < pm.height; y++ {
		for x := 0; x < pm.width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			pm.SetPixel(x, y, c)
		}
	}
	return pm
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	if p == nil {
		return nil
	}
	clone := NewPixmap(p.width, p.height)
	clone.devicePixelRatio = p.devicePixelRatio
	copy(clone.data, p.data)
	return clone
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y)
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
