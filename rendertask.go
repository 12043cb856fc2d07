package qpdfview

import (
	"image"
	"image/color"
	"sync"
	"sync/atomic"
)

// Cancellation is a three-way state held in one atomic value, so that a
// forced cancel can never be torn into a plain cancel plus a separate force
// bit, and workers always observe the latest request.
const (
	notCanceled int32 = iota
	canceledNormally
	canceledForcibly
)

// Scheduler runs render jobs off the interactive goroutine. Submit reports
// whether the job was accepted; a shut-down scheduler rejects all jobs.
// *pool.Pool implements it.
type Scheduler interface {
	Submit(func()) bool
}

// RenderTask wraps one asynchronous rendering job for one tile. It is owned
// exclusively by its TileItem and reused run after run: Start configures it
// and submits it to the shared worker pool, Cancel requests cancellation
// from any goroutine, Wait blocks until the current run has signaled
// completion.
//
// A run honors cancellation at three checkpoints: before the backend call,
// after it, and before margin trimming. The backend call itself cannot be
// interrupted. Before the call, any cancellation stops the run. After the
// call, a prefetch run drops its result on any cancellation while a
// foreground run drops it only on a forced one, since the user is actively
// waiting on pixels whose render cost has already been paid.
type RenderTask struct {
	page      Page
	scheduler Scheduler

	trimMargins bool
	paperColor  color.NRGBA

	imageReady   func(param RenderParam, rect image.Rectangle, prefetch bool, img *Pixmap)
	cropBoxReady func(param RenderParam, rect image.Rectangle, cropBox RectF)
	finished     func()

	mu      sync.Mutex
	cond    *sync.Cond
	running bool

	wasCanceled atomic.Int32

	// Configured by Start, read only by the worker during the run.
	renderParam RenderParam
	rect        image.Rectangle
	prefetch    bool
}

// RenderTaskOption configures a RenderTask during creation.
type RenderTaskOption func(*RenderTask)

// WithTrimMargins enables margin trimming against the given paper color.
// After each successful render the task computes a crop box and delivers it
// through the crop box callback.
func WithTrimMargins(paper color.NRGBA) RenderTaskOption {
	return func(t *RenderTask) {
		t.trimMargins = true
		t.paperColor = paper
	}
}

// WithImageReady registers the callback receiving rendered images. It is
// invoked on the worker goroutine.
func WithImageReady(fn func(param RenderParam, rect image.Rectangle, prefetch bool, img *Pixmap)) RenderTaskOption {
	return func(t *RenderTask) { t.imageReady = fn }
}

// WithCropBoxReady registers the callback receiving computed crop boxes.
// It is invoked on the worker goroutine.
func WithCropBoxReady(fn func(param RenderParam, rect image.Rectangle, cropBox RectF)) RenderTaskOption {
	return func(t *RenderTask) { t.cropBoxReady = fn }
}

// WithFinished registers the completion callback. It is invoked on the
// worker goroutine exactly once per run, after any result callback,
// regardless of cancellation, error or success.
func WithFinished(fn func()) RenderTaskOption {
	return func(t *RenderTask) { t.finished = fn }
}

// NewRenderTask creates an idle task rendering regions of the given page.
func NewRenderTask(page Page, scheduler Scheduler, opts ...RenderTaskOption) *RenderTask {
	t := &RenderTask{
		page:      page,
		scheduler: scheduler,
	}
	t.cond = sync.NewCond(&t.mu)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start configures the task and schedules it on the worker pool. Starting a
// task that is already running is a silent no-op; callers check IsRunning
// first. Cancellation state is reset before scheduling.
func (t *RenderTask) Start(param RenderParam, rect image.Rectangle, prefetch bool) {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.renderParam = param
	t.rect = rect
	t.prefetch = prefetch
	t.running = true
	t.mu.Unlock()

	t.wasCanceled.Store(notCanceled)

	if !t.scheduler.Submit(t.run) {
		// Rejected by a shut-down scheduler: no run will ever signal
		// completion, so the task must not stay marked running.
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
		t.cond.Broadcast()
	}
}

// Cancel requests cancellation of the current run. force marks the
// cancellation as forcible, which also suppresses foreground results and
// prefetch results that have already been rendered. Cancel is idempotent,
// never blocks and may be called from any goroutine.
func (t *RenderTask) Cancel(force bool) {
	if force {
		t.wasCanceled.Store(canceledForcibly)
	} else {
		t.wasCanceled.Store(canceledNormally)
	}
}

// Wait blocks until the current run has signaled completion. It returns
// immediately if the task is not running. After Wait returns, no further
// asynchronous writes from this run reach the owner.
func (t *RenderTask) Wait() {
	t.mu.Lock()
	for t.running {
		t.cond.Wait()
	}
	t.mu.Unlock()
}

// IsRunning reports whether a run is currently scheduled or executing.
func (t *RenderTask) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// WasCanceled reports whether the current run was canceled in any way.
func (t *RenderTask) WasCanceled() bool {
	return t.wasCanceled.Load() != notCanceled
}

// WasCanceledNormally reports whether the current run was canceled without
// force.
func (t *RenderTask) WasCanceledNormally() bool {
	return t.wasCanceled.Load() == canceledNormally
}

// WasCanceledForcibly reports whether the current run was canceled with
// force.
func (t *RenderTask) WasCanceledForcibly() bool {
	return t.wasCanceled.Load() == canceledForcibly
}

// stopBeforeRender reports whether the run should stop before any work:
// any cancellation suppresses a render whose cost has not been paid yet.
func (t *RenderTask) stopBeforeRender() bool {
	return t.wasCanceled.Load() != notCanceled
}

// stopAfterRender reports whether a finished render result must be
// suppressed. Prefetch results are dropped on any cancellation; foreground
// results only on a forced one, because the user is actively waiting on
// them.
func (t *RenderTask) stopAfterRender(prefetch bool) bool {
	if prefetch {
		return t.wasCanceled.Load() != notCanceled
	}
	return t.wasCanceled.Load() == canceledForcibly
}

// run executes on a worker goroutine.
func (t *RenderTask) run() {
	param, rect, prefetch := t.renderParam, t.rect, t.prefetch

	if t.stopBeforeRender() {
		t.finish()
		return
	}

	img := t.page.Render(param.ScaledResolutionX(), param.ScaledResolutionY(), param.Rotation, rect)
	if img != nil {
		img.SetDevicePixelRatio(param.Resolution.DevicePixelRatio)
	} else {
		Logger().Warn("page render failed", "rect", rect.String())
	}

	// The backend call cannot be interrupted; cancellations issued while it
	// ran are honored here, before the result escapes.
	if t.stopAfterRender(prefetch) {
		t.finish()
		return
	}

	if param.InvertColors && img != nil {
		img.Invert()
	}

	if t.imageReady != nil {
		t.imageReady(param, rect, prefetch, img)
	}

	if t.trimMargins {
		if t.stopAfterRender(prefetch) {
			t.finish()
			return
		}

		cropBox := TrimMargins(t.paperColor, img)

		if t.cropBoxReady != nil {
			t.cropBoxReady(param, rect, cropBox)
		}
	}

	t.finish()
}

// finish signals completion exactly once per run. The completion callback
// fires before the running flag clears, so a waiter unblocking in Wait is
// guaranteed that no further asynchronous writes follow.
func (t *RenderTask) finish() {
	if t.finished != nil {
		t.finished()
	}

	t.mu.Lock()
	t.running = false
	t.mu.Unlock()

	t.cond.Broadcast()
}
