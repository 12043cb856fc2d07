package qpdfview

import "image"

// PageItem owns the tiles of one displayed page. It translates the page
// size and the current render parameters into a tile grid, forwards
// invalidation and prefetch requests to the tiles, and paints them in
// order. PageItem itself carries no locking; it is driven from the owner
// goroutine like the tiles it manages.
type PageItem struct {
	ctx    *RenderContext
	page   Page
	id     uint64
	update func()

	renderParam RenderParam
	tiles       []*TileItem
	onCropBox   func(cropBox RectF)
}

// NewPageItem creates a page item for the given page. The page has no tiles
// until SetRenderParam is called. id must identify the page object uniquely
// within the process; update, if not nil, is passed to every tile as the
// repaint request hook.
func NewPageItem(ctx *RenderContext, page Page, id uint64, update func()) *PageItem {
	return &PageItem{
		ctx:    ctx,
		page:   page,
		id:     id,
		update: update,
	}
}

// RenderParam returns the parameters the page currently renders with.
func (p *PageItem) RenderParam() RenderParam {
	return p.renderParam
}

// TileCount returns the number of tiles the page is currently split into.
func (p *PageItem) TileCount() int {
	return len(p.tiles)
}

// OnCropBox registers a callback receiving the page crop box computed by
// margin trimming. Crop boxes are only forwarded for pages rendered as a
// single tile, where the tile crop box is the page crop box.
func (p *PageItem) OnCropBox(fn func(cropBox RectF)) {
	p.onCropBox = fn
	if len(p.tiles) == 1 {
		p.tiles[0].OnCropBox(fn)
	}
}

// SetRenderParam applies a new view transform. Existing tiles snapshot
// their current rendering as obsolete placeholders before the change; if
// the tile grid itself changes (zoom, rotation), the old tiles are retired
// once their renders finish and a fresh grid is created.
func (p *PageItem) SetRenderParam(param RenderParam) {
	if param == p.renderParam && len(p.tiles) > 0 {
		return
	}

	for _, t := range p.tiles {
		t.Refresh(true)
	}

	p.renderParam = param

	rects := p.tileRects(param)
	if len(rects) == len(p.tiles) {
		same := true
		for i, t := range p.tiles {
			if t.Rect() != rects[i] {
				same = false
				break
			}
		}
		if same {
			for _, t := range p.tiles {
				t.SetRenderParam(param)
			}
			return
		}
	}

	for _, t := range p.tiles {
		t.DeleteAfterRender()
	}

	p.tiles = make([]*TileItem, 0, len(rects))
	for _, r := range rects {
		t := NewTileItem(p.ctx, p.page, p.id, r, p.update)
		t.SetRenderParam(param)
		p.tiles = append(p.tiles, t)
	}

	if len(p.tiles) == 1 && p.onCropBox != nil {
		p.tiles[0].OnCropBox(p.onCropBox)
	}
}

// tileRects splits the page, rendered with the given parameters, into a
// grid of tiles no larger than the configured tile size.
func (p *PageItem) tileRects(param RenderParam) []image.Rectangle {
	width, height := param.PagePixelSize(p.page.Size())
	if width <= 0 || height <= 0 {
		return nil
	}

	tileSize := p.ctx.settings.Rendering.TileSize
	if tileSize <= 0 {
		tileSize = width
		if height > width {
			tileSize = height
		}
	}

	var rects []image.Rectangle
	for y := 0; y < height; y += tileSize {
		bottom := y + tileSize
		if bottom > height {
			bottom = height
		}
		for x := 0; x < width; x += tileSize {
			right := x + tileSize
			if right > width {
				right = width
			}
			rects = append(rects, image.Rect(x, y, right, bottom))
		}
	}
	return rects
}

// Refresh invalidates all tiles, keeping obsolete placeholders if
// requested.
func (p *PageItem) Refresh(keepObsoletePixmaps bool) {
	for _, t := range p.tiles {
		t.Refresh(keepObsoletePixmaps)
	}
}

// StartRender starts rendering on every tile that needs it and returns the
// number of tasks started. With prefetch set, tiles already satisfied by
// the cache are skipped.
func (p *PageItem) StartRender(prefetch bool) int {
	started := 0
	for _, t := range p.tiles {
		started += t.StartRender(prefetch)
	}
	return started
}

// CancelRender cancels rendering on every tile without force and drops
// their pixmaps. Used when the page scrolls far out of view.
func (p *PageItem) CancelRender() {
	for _, t := range p.tiles {
		t.CancelRender()
	}
}

// Paint draws every tile at the given page offset.
func (p *PageItem) Paint(painter Painter, topLeft PointF) {
	for _, t := range p.tiles {
		t.Paint(painter, topLeft)
	}
}

// Dispose synchronously tears the page down: every tile's render is
// forcibly canceled and awaited.
func (p *PageItem) Dispose() {
	for _, t := range p.tiles {
		t.Dispose()
	}
	p.tiles = nil
}

// DisposeAfterRender retires all tiles without blocking on in-flight
// renders.
func (p *PageItem) DisposeAfterRender() {
	for _, t := range p.tiles {
		t.DeleteAfterRender()
	}
	p.tiles = nil
}
