package qpdfview

import (
	"image/color"
	"testing"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

func borderedPixmap(size, border int, paper, content color.NRGBA) *Pixmap {
	pm := NewPixmap(size, size)
	pm.Fill(paper)
	for y := border; y < size-border; y++ {
		for x := border; x < size-border; x++ {
			pm.SetPixel(x, y, content)
		}
	}
	return pm
}

func TestTrimMargins_UniformImage(t *testing.T) {
	pm := NewPixmap(64, 64)
	pm.Fill(white)

	if got := TrimMargins(white, pm); got != UnitRectF() {
		t.Errorf("TrimMargins = %+v, want the unit rectangle", got)
	}
}

func TestTrimMargins_NilPixmap(t *testing.T) {
	if got := TrimMargins(white, nil); got != UnitRectF() {
		t.Errorf("TrimMargins(nil) = %+v, want the unit rectangle", got)
	}
}

func TestTrimMargins_TenPercentBorder(t *testing.T) {
	pm := borderedPixmap(100, 10, white, black)

	cb := TrimMargins(white, pm)

	if cb.X < 0.095 || cb.X > 0.1 {
		t.Errorf("X = %v, want within [0.095, 0.1]", cb.X)
	}
	if cb.Y < 0.095 || cb.Y > 0.1 {
		t.Errorf("Y = %v, want within [0.095, 0.1]", cb.Y)
	}
	if cb.X+cb.W < 0.9 || cb.X+cb.W > 0.905 {
		t.Errorf("right edge = %v, want within [0.9, 0.905]", cb.X+cb.W)
	}
	if cb.Y+cb.H < 0.9 || cb.Y+cb.H > 0.905 {
		t.Errorf("bottom edge = %v, want within [0.9, 0.905]", cb.Y+cb.H)
	}
}

func TestTrimMargins_FullContent(t *testing.T) {
	pm := NewPixmap(50, 50)
	pm.Fill(black)

	cb := TrimMargins(white, pm)

	if cb.X != 0 || cb.Y != 0 {
		t.Errorf("origin = (%v, %v), want (0, 0)", cb.X, cb.Y)
	}
	if cb.W != 1 || cb.H != 1 {
		t.Errorf("size = (%v, %v), want (1, 1)", cb.W, cb.H)
	}
}

func TestTrimMargins_NonWhitePaper(t *testing.T) {
	sepia := color.NRGBA{R: 240, G: 230, B: 200, A: 255}
	pm := borderedPixmap(100, 20, sepia, black)

	cb := TrimMargins(sepia, pm)

	if cb.X < 0.195 || cb.X > 0.2 {
		t.Errorf("X = %v, want within [0.195, 0.2]", cb.X)
	}

	// Against white paper nothing is trimmable.
	if got := TrimMargins(white, pm); got.X != 0 || got.W != 1 {
		t.Errorf("TrimMargins with mismatched paper = %+v, want untrimmed", got)
	}
}

func TestTrimMargins_SinglePixelContent(t *testing.T) {
	pm := NewPixmap(100, 100)
	pm.Fill(white)
	pm.SetPixel(50, 50, black)

	cb := TrimMargins(white, pm)

	if cb.X < 0.495 || cb.X >= 0.5 {
		t.Errorf("X = %v, want within [0.495, 0.5)", cb.X)
	}
	if cb.W < 0.01 || cb.W > 0.011 {
		t.Errorf("W = %v, want a tight box around one pixel", cb.W)
	}
}

func TestTrimMargins_CropBoxNeverClipsContent(t *testing.T) {
	// Content edges that do not land on the snap grid must be widened
	// outward, never inward.
	pm := borderedPixmap(97, 13, white, black)

	cb := TrimMargins(white, pm)

	contentLeft := 13.0 / 97.0
	contentRight := 84.0 / 97.0
	if cb.X > contentLeft {
		t.Errorf("X = %v clips content starting at %v", cb.X, contentLeft)
	}
	if cb.X+cb.W < contentRight {
		t.Errorf("right edge = %v clips content ending at %v", cb.X+cb.W, contentRight)
	}
}
