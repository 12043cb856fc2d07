package qpdfview

import (
	"image"
	"math"
	"sync"
)

// IconKind selects the placeholder indicator painted while a tile has no
// pixel content.
type IconKind int

const (
	IconProgress IconKind = iota
	IconError
)

// Painter is the drawing surface a tile paints into. Implementations are
// provided by the windowing layer; the core only decides what to draw.
type Painter interface {
	// DrawPixmap draws the pixmap unscaled with its top-left corner at the
	// given position.
	DrawPixmap(pm *Pixmap, topLeft PointF)

	// DrawScaledPixmap stretches the pixmap to fill the target rectangle.
	// Used for obsolete pixmaps rendered under superseded parameters.
	DrawScaledPixmap(pm *Pixmap, target RectF)

	// DrawIcon draws a progress or error indicator inside the rectangle.
	DrawIcon(kind IconKind, rect RectF)
}

// TileItem owns one rectangular sub-region of a page. It orchestrates the
// lifecycle of its render task, looks rendered pixmaps up in the shared
// cache, falls back to an obsolete pixmap while new parameters re-render,
// and paints the best representation currently available.
//
// Refresh, StartRender, CancelRender, Paint and DeleteAfterRender are meant
// to be driven from a single owner goroutine; completion callbacks arrive
// on worker goroutines and TileItem serializes its state internally.
type TileItem struct {
	ctx    *RenderContext
	page   Page
	pageID uint64
	task   *RenderTask
	update func()

	mu             sync.Mutex
	renderParam    RenderParam
	rect           image.Rectangle
	pixmapError    bool
	pixmap         *Pixmap
	obsoletePixmap *Pixmap
	onCropBox      func(cropBox RectF)
	disposed       bool
}

// NewTileItem creates a tile covering rect of the given page. pageID must
// identify the page object uniquely within the process; update, if not nil,
// is called whenever a repaint is warranted (on an arbitrary goroutine).
func NewTileItem(ctx *RenderContext, page Page, pageID uint64, rect image.Rectangle, update func()) *TileItem {
	t := &TileItem{
		ctx:    ctx,
		page:   page,
		pageID: pageID,
		rect:   rect,
		update: update,
	}

	opts := []RenderTaskOption{
		WithImageReady(t.imageReady),
		WithFinished(t.renderFinished),
	}
	if ctx.settings.Rendering.TrimMargins {
		paper, err := ctx.settings.Rendering.PaperNRGBA()
		if err != nil {
			Logger().Warn("using white paper color", "error", err)
		}
		opts = append(opts, WithTrimMargins(paper), WithCropBoxReady(t.cropBoxReady))
	}
	t.task = NewRenderTask(page, ctx.pool, opts...)

	return t
}

// Rect returns the tile's rectangle in page pixel coordinates.
func (t *TileItem) Rect() image.Rectangle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rect
}

// SetRenderParam updates the parameters the tile renders with. Call Refresh
// first so the previous rendering can be kept as an obsolete placeholder.
func (t *TileItem) SetRenderParam(param RenderParam) {
	t.mu.Lock()
	t.renderParam = param
	t.mu.Unlock()
}

// OnCropBox registers a callback receiving crop boxes computed by margin
// trimming. It is invoked on a worker goroutine; stale results are dropped
// before it fires.
func (t *TileItem) OnCropBox(fn func(cropBox RectF)) {
	t.mu.Lock()
	t.onCropBox = fn
	t.mu.Unlock()
}

// fingerprintLocked computes the cache key for the current configuration.
// Caller must hold t.mu.
func (t *TileItem) fingerprintLocked() Fingerprint {
	return TileFingerprint(t.pageID, t.renderParam, t.rect)
}

// Refresh invalidates the tile ahead of a configuration change. When
// keepObsoletePixmaps is requested (and enabled in the settings) and the
// cache still holds the current fingerprint, that entry is kept as an
// obsolete placeholder so the prior rendering stays visible while the new
// parameters are recomputed. Any in-flight render is forcibly canceled and
// the error flag and current pixmap are cleared.
func (t *TileItem) Refresh(keepObsoletePixmaps bool) {
	t.mu.Lock()

	if keepObsoletePixmaps && t.ctx.settings.Rendering.KeepObsoletePixmaps {
		if pm, ok := t.ctx.cache.Get(t.fingerprintLocked()); ok {
			t.obsoletePixmap = pm
		}
	} else {
		t.obsoletePixmap = nil
	}

	t.task.Cancel(true)

	t.pixmapError = false
	t.pixmap = nil

	t.mu.Unlock()
}

// StartRender starts an asynchronous render of the tile and returns the
// number of tasks started (0 or 1). It is a no-op if a prior attempt
// errored, if a render is already running, if the current pixmap already
// satisfies the current fingerprint, or, when prefetching, if the cache
// does.
func (t *TileItem) StartRender(prefetch bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.disposed || t.pixmapError || t.pixmap != nil || t.task.IsRunning() ||
		(prefetch && t.ctx.cache.Contains(t.fingerprintLocked())) {
		return 0
	}

	t.task.Start(t.renderParam, t.rect, prefetch)

	return 1
}

// CancelRender cancels any in-flight render without force and drops both
// the current and the obsolete pixmap. Used when the tile will not be shown
// again soon.
func (t *TileItem) CancelRender() {
	t.task.Cancel(false)

	t.mu.Lock()
	t.pixmap = nil
	t.obsoletePixmap = nil
	t.mu.Unlock()
}

// DeleteAfterRender forcibly cancels and retires the tile. If a render is
// still finishing, the teardown waits for its completion signal on a
// background goroutine instead of blocking the caller, so a completion
// callback can never race a retired tile.
func (t *TileItem) DeleteAfterRender() {
	t.task.Cancel(true)

	t.mu.Lock()
	t.pixmap = nil
	t.obsoletePixmap = nil
	t.mu.Unlock()

	if !t.task.IsRunning() {
		t.retire()
		return
	}

	go func() {
		t.task.Wait()
		t.retire()
	}()
}

// Dispose forcibly cancels any in-flight render and blocks until it has
// signaled completion. After Dispose returns, no asynchronous completion
// touches the tile. Used during synchronous teardown.
func (t *TileItem) Dispose() {
	t.task.Cancel(true)
	t.task.Wait()
	t.retire()
}

func (t *TileItem) retire() {
	t.mu.Lock()
	t.disposed = true
	t.pixmap = nil
	t.obsoletePixmap = nil
	t.mu.Unlock()
}

// Paint draws the tile's best available representation: the current pixmap
// if one exists, else the obsolete pixmap, else a progress or error
// indicator. Painting the current pixmap promotes it into the shared cache
// and starts a render on a cache miss.
func (t *TileItem) Paint(painter Painter, topLeft PointF) {
	pm := t.takePixmap()

	t.mu.Lock()
	rect := t.rect
	obsolete := t.obsoletePixmap
	hadError := t.pixmapError
	t.mu.Unlock()

	if !pm.IsNull() {
		painter.DrawPixmap(pm, PointF{
			X: float64(rect.Min.X) + topLeft.X,
			Y: float64(rect.Min.Y) + topLeft.Y,
		})
		return
	}

	if !obsolete.IsNull() {
		painter.DrawScaledPixmap(obsolete, rectFFromPixels(rect).Translated(topLeft))
		return
	}

	w := float64(rect.Dx())
	h := float64(rect.Dy())
	extent := math.Min(0.1*w, 0.1*h)
	iconRect := RectF{
		X: topLeft.X + float64(rect.Min.X) + 0.01*w,
		Y: topLeft.Y + float64(rect.Min.Y) + 0.01*h,
		W: extent,
		H: extent,
	}

	kind := IconProgress
	if hadError {
		kind = IconError
	}
	painter.DrawIcon(kind, iconRect)
}

// takePixmap returns the pixmap to paint, consulting the cache first. A
// locally buffered result is moved into the cache on first paint, making
// the cache the single source of truth for already-rendered tiles. On a
// complete miss a foreground render is started.
func (t *TileItem) takePixmap() *Pixmap {
	t.mu.Lock()

	fp := t.fingerprintLocked()
	if pm, ok := t.ctx.cache.Get(fp); ok {
		t.mu.Unlock()
		return pm
	}

	if pm := t.pixmap; pm != nil {
		t.pixmap = nil
		t.ctx.cache.Put(fp, pm, pm.Cost())
		t.mu.Unlock()
		return pm
	}

	t.mu.Unlock()

	t.StartRender(false)

	return nil
}

// imageReady runs on a worker goroutine when a render produced an image.
func (t *TileItem) imageReady(param RenderParam, rect image.Rectangle, prefetch bool, img *Pixmap) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.disposed || param != t.renderParam || rect != t.rect {
		// Result of a superseded request.
		Logger().Debug("discarding stale render result", "rect", rect.String())
		return
	}

	t.obsoletePixmap = nil

	if img.IsNull() {
		t.pixmapError = true
		return
	}

	if prefetch && !t.task.WasCanceledForcibly() {
		t.ctx.cache.Put(t.fingerprintLocked(), img, img.Cost())
	} else if !prefetch && !t.task.WasCanceled() {
		t.pixmap = img
	}
}

// cropBoxReady runs on a worker goroutine when margin trimming finished.
func (t *TileItem) cropBoxReady(param RenderParam, rect image.Rectangle, cropBox RectF) {
	t.mu.Lock()
	stale := t.disposed || param != t.renderParam || rect != t.rect
	fn := t.onCropBox
	t.mu.Unlock()

	if stale || fn == nil {
		return
	}
	fn(cropBox)
}

// renderFinished runs on a worker goroutine after every run, exactly once.
func (t *TileItem) renderFinished() {
	t.mu.Lock()
	update := t.update
	disposed := t.disposed
	t.mu.Unlock()

	if update != nil && !disposed {
		update()
	}
}
