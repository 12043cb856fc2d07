// Package qpdfview implements the asynchronous page-tile rendering and
// caching core of a document viewer.
//
// # Overview
//
// A document page is split into rectangular tiles. Each tile is represented
// by a [TileItem] which orchestrates rendering of its region: it starts a
// [RenderTask] on a shared worker pool, stores finished pixmaps in a shared
// cost-bounded [TileCache], and paints the best representation it currently
// has (fresh pixmap, obsolete pixmap from before the last view change, or a
// progress/error indicator).
//
// # Quick Start
//
//	settings := qpdfview.DefaultSettings()
//	ctx := qpdfview.NewRenderContext(settings)
//	defer ctx.Close()
//
//	page := imagemodel.New(img).Page(0)
//	item := qpdfview.NewPageItem(ctx, page, 1, repaint)
//	item.SetRenderParam(qpdfview.RenderParam{
//	    Resolution:  qpdfview.Resolution{ResolutionX: 72, ResolutionY: 72, DevicePixelRatio: 1},
//	    ScaleFactor: 1,
//	})
//	item.Paint(painter, qpdfview.PointF{})
//
// # Concurrency
//
// The owner (typically a single UI goroutine) drives Refresh, StartRender,
// CancelRender and Paint. Rendering itself happens on a worker pool sized by
// host concurrency; results are delivered through callbacks on the worker
// goroutine and TileItem serializes its own state internally. The only other
// cross-goroutine state is the render task's three-state cancellation flag,
// held in an atomic.
//
// # Rendering Backend
//
// The document parsing and rasterization backend is deliberately opaque: any
// type implementing [Page] can be displayed. The imagemodel subpackage
// provides a backend over decoded images, used by the tests and examples.
package qpdfview
