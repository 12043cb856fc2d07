package qpdfview

import (
	"github.com/liyaoshi/qpdfview/cache"
	"github.com/liyaoshi/qpdfview/internal/pool"
)

// TileCache maps tile fingerprints to rendered pixmaps, bounded by the
// total byte cost of the cached buffers.
type TileCache = cache.Cache[Fingerprint, *Pixmap]

// NewTileCache creates a tile cache bounded by maxCost bytes.
func NewTileCache(maxCost int64) *TileCache {
	return cache.New[Fingerprint, *Pixmap](maxCost)
}

// RenderContext bundles the state shared by every tile of a viewer: the
// settings, the pixmap cache and the worker pool. There is no hidden global
// state; construct one RenderContext per process (or per window) and pass
// it to NewPageItem or NewTileItem.
type RenderContext struct {
	settings *Settings
	cache    *TileCache
	pool     *pool.Pool
}

// NewRenderContext creates a render context from the given settings.
// A nil settings pointer selects the defaults.
func NewRenderContext(settings *Settings) *RenderContext {
	if settings == nil {
		settings = DefaultSettings()
	}

	p := pool.New(settings.Rendering.Workers)

	Logger().Info("render context ready",
		"workers", p.Workers(),
		"cacheMaxCost", settings.Cache.MaxCost)

	return &RenderContext{
		settings: settings,
		cache:    NewTileCache(settings.Cache.MaxCost),
		pool:     p,
	}
}

// Cache returns the shared tile cache.
func (c *RenderContext) Cache() *TileCache {
	return c.cache
}

// Settings returns the settings the context was built from.
func (c *RenderContext) Settings() *Settings {
	return c.settings
}

// Close shuts down the worker pool. Outstanding render jobs still run to
// completion so that waiting tiles unblock.
func (c *RenderContext) Close() {
	c.pool.Close()
}
