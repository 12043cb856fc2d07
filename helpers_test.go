package qpdfview

import (
	"image"
	"image/color"
	"sync"
	"testing"
	"time"
)

var testParam = RenderParam{
	Resolution:  Resolution{ResolutionX: 72, ResolutionY: 72, DevicePixelRatio: 1},
	ScaleFactor: 1,
}

// stubPage is a controllable rendering backend.
type stubPage struct {
	mu      sync.Mutex
	renders int

	// result overrides the rendered pixmap; the default is a white pixmap
	// of the requested size. Returning nil simulates a render failure.
	result func(rect image.Rectangle) *Pixmap

	// onRender runs at the start of Render, before the result is produced.
	// Used to issue cancellations "during" the backend call.
	onRender func()

	// started receives a signal when Render begins; release blocks Render
	// until it receives one. Both optional.
	started chan struct{}
	release chan struct{}
}

func (p *stubPage) Size() (float64, float64) { return 100, 100 }

func (p *stubPage) Render(resX, resY float64, rotation Rotation, rect image.Rectangle) *Pixmap {
	if p.started != nil {
		p.started <- struct{}{}
	}
	if p.onRender != nil {
		p.onRender()
	}
	if p.release != nil {
		<-p.release
	}

	p.mu.Lock()
	p.renders++
	p.mu.Unlock()

	if p.result != nil {
		return p.result(rect)
	}
	pm := NewPixmap(rect.Dx(), rect.Dy())
	pm.Fill(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return pm
}

func (p *stubPage) renderCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renders
}

// manualScheduler queues submitted jobs for explicit, synchronous
// execution, making cancellation interleavings deterministic.
type manualScheduler struct {
	jobs []func()
}

func (s *manualScheduler) Submit(job func()) bool {
	s.jobs = append(s.jobs, job)
	return true
}

func (s *manualScheduler) runAll() {
	for len(s.jobs) > 0 {
		job := s.jobs[0]
		s.jobs = s.jobs[1:]
		job()
	}
}

// recordingPainter records what a tile decided to draw.
type recordingPainter struct {
	pixmaps []PointF
	scaled  []RectF
	icons   []IconKind
}

func (r *recordingPainter) DrawPixmap(pm *Pixmap, topLeft PointF) {
	r.pixmaps = append(r.pixmaps, topLeft)
}

func (r *recordingPainter) DrawScaledPixmap(pm *Pixmap, target RectF) {
	r.scaled = append(r.scaled, target)
}

func (r *recordingPainter) DrawIcon(kind IconKind, rect RectF) {
	r.icons = append(r.icons, kind)
}

// waitFor polls cond until it holds or the deadline expires.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

// newTestContext builds a render context whose tiles are scheduled by hand.
func newTestContext(settings *Settings) (*RenderContext, *manualScheduler) {
	if settings == nil {
		settings = DefaultSettings()
	}
	ctx := &RenderContext{
		settings: settings,
		cache:    NewTileCache(settings.Cache.MaxCost),
	}
	return ctx, &manualScheduler{}
}

// newManualTile creates a tile driven by the given manual scheduler.
func newManualTile(ctx *RenderContext, sched *manualScheduler, page Page, rect image.Rectangle) *TileItem {
	item := NewTileItem(ctx, page, 1, rect, nil)
	item.task.scheduler = sched
	item.SetRenderParam(testParam)
	return item
}
