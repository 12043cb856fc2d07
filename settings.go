package qpdfview

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Settings is the viewer configuration, decoded from a TOML file.
type Settings struct {
	Cache     CacheSettings     `toml:"cache"`
	Rendering RenderingSettings `toml:"rendering"`
	Database  DatabaseSettings  `toml:"database"`
}

// CacheSettings configures the shared tile cache.
type CacheSettings struct {
	// MaxCost bounds the total byte size of cached pixmaps. 0 is unbounded.
	MaxCost int64 `toml:"max_cost"`
}

// RenderingSettings configures tiling and the render pipeline.
type RenderingSettings struct {
	// Workers is the worker pool size. 0 uses the host concurrency.
	Workers int `toml:"workers"`

	// TileSize is the maximum edge length of a tile in pixels.
	TileSize int `toml:"tile_size"`

	// KeepObsoletePixmaps keeps the previous rendering visible while a view
	// change is re-rendered.
	KeepObsoletePixmaps bool `toml:"keep_obsolete_pixmaps"`

	// TrimMargins enables crop box computation after each render.
	TrimMargins bool `toml:"trim_margins"`

	// PaperColor is the expected uniform page background, as "#rrggbb".
	PaperColor string `toml:"paper_color"`

	// PrefetchDistance is the number of pages around the current one whose
	// tiles are prefetched into the cache.
	PrefetchDistance int `toml:"prefetch_distance"`
}

// DatabaseSettings configures the session persistence collaborator.
type DatabaseSettings struct {
	// Path locates the sqlite database file. Empty disables persistence.
	Path string `toml:"path"`

	// RestorePerFileSettings re-applies the stored per-file view state when
	// a document is opened.
	RestorePerFileSettings bool `toml:"restore_per_file_settings"`
}

// DefaultSettings returns the configuration used when no settings file
// exists.
func DefaultSettings() *Settings {
	return &Settings{
		Cache: CacheSettings{
			MaxCost: 32 << 20,
		},
		Rendering: RenderingSettings{
			Workers:             0,
			TileSize:            1024,
			KeepObsoletePixmaps: true,
			TrimMargins:         false,
			PaperColor:          "#ffffff",
			PrefetchDistance:    1,
		},
		Database: DatabaseSettings{
			RestorePerFileSettings: true,
		},
	}
}

// LoadSettings reads a TOML settings file. A missing file yields the
// defaults; a malformed file is an error.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// PaperNRGBA parses the configured paper color. An unparsable value falls
// back to white, with the parse error returned alongside.
func (s RenderingSettings) PaperNRGBA() (color.NRGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s.PaperColor, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			fmt.Errorf("invalid paper color %q: %w", s.PaperColor, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
