package qpdfview

import (
	"image"
	"image/color"
	"testing"
)

func TestPixmap_SetGetPixel(t *testing.T) {
	pm := NewPixmap(4, 4)
	c := color.NRGBA{R: 10, G: 20, B: 30, A: 255}

	pm.SetPixel(2, 3, c)
	if got := pm.GetPixel(2, 3); got != c {
		t.Errorf("GetPixel = %v, want %v", got, c)
	}

	// Out-of-range accesses are ignored and yield the zero color.
	pm.SetPixel(-1, 0, c)
	pm.SetPixel(4, 0, c)
	if got := pm.GetPixel(99, 99); got != (color.NRGBA{}) {
		t.Errorf("out-of-range GetPixel = %v, want zero", got)
	}
}

func TestPixmap_Cost(t *testing.T) {
	pm := NewPixmap(100, 50)
	if got := pm.Cost(); got != 100*50*4 {
		t.Errorf("Cost = %d, want %d", got, 100*50*4)
	}
}

func TestPixmap_IsNull(t *testing.T) {
	var nilPm *Pixmap
	if !nilPm.IsNull() {
		t.Error("a nil pixmap is null")
	}
	if !NewPixmap(0, 0).IsNull() {
		t.Error("a zero-sized pixmap is null")
	}
	if NewPixmap(1, 1).IsNull() {
		t.Error("a 1x1 pixmap is not null")
	}
}

func TestPixmap_InvertIsInvolution(t *testing.T) {
	pm := NewPixmap(8, 8)
	c := color.NRGBA{R: 10, G: 200, B: 30, A: 128}
	pm.Fill(c)

	pm.Invert()
	want := color.NRGBA{R: 245, G: 55, B: 225, A: 128}
	if got := pm.GetPixel(0, 0); got != want {
		t.Errorf("inverted pixel = %v, want %v", got, want)
	}

	pm.Invert()
	if got := pm.GetPixel(7, 7); got != c {
		t.Errorf("double inversion = %v, want the original %v", got, c)
	}
}

func TestPixmap_ImageRoundTrip(t *testing.T) {
	pm := NewPixmap(3, 2)
	pm.SetPixel(0, 0, color.NRGBA{R: 255, A: 255})
	pm.SetPixel(2, 1, color.NRGBA{B: 255, A: 255})

	img := pm.ToImage()
	back := FromImage(img)

	if back.Width() != 3 || back.Height() != 2 {
		t.Fatalf("round-tripped size = %dx%d, want 3x2", back.Width(), back.Height())
	}
	if got := back.GetPixel(0, 0); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("pixel (0,0) = %v after round trip", got)
	}
	if got := back.GetPixel(2, 1); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("pixel (2,1) = %v after round trip", got)
	}
}

func TestPixmap_FromImageNonZeroOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 13, 12))
	src.SetRGBA(10, 10, color.RGBA{R: 255, A: 255})

	pm := FromImage(src)
	if pm.Width() != 3 || pm.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", pm.Width(), pm.Height())
	}
	if got := pm.GetPixel(0, 0); got.R != 255 {
		t.Errorf("pixel (0,0) = %v, want the source origin pixel", got)
	}
}

func TestPixmap_Clone(t *testing.T) {
	pm := NewPixmap(2, 2)
	pm.SetDevicePixelRatio(2)
	pm.SetPixel(0, 0, color.NRGBA{R: 42, A: 255})

	clone := pm.Clone()
	clone.SetPixel(0, 0, color.NRGBA{G: 42, A: 255})

	if got := pm.GetPixel(0, 0); got.R != 42 {
		t.Error("mutating the clone changed the original")
	}
	if clone.DevicePixelRatio() != 2 {
		t.Errorf("clone dpr = %v, want 2", clone.DevicePixelRatio())
	}

	var nilPm *Pixmap
	if nilPm.Clone() != nil {
		t.Error("cloning nil should yield nil")
	}
}

func TestPixmap_ImplementsImage(t *testing.T) {
	pm := NewPixmap(5, 7)
	var img image.Image = pm

	if got := img.Bounds(); got != image.Rect(0, 0, 5, 7) {
		t.Errorf("Bounds = %v", got)
	}
	if img.ColorModel() != color.NRGBAModel {
		t.Error("ColorModel should be NRGBA")
	}
}
