package qpdfview

import (
	"encoding/binary"
	"image"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies a rendered tile in the shared cache. It is derived
// from the owning page, the render parameters and the tile rectangle; any
// change to one of these yields a different fingerprint.
type Fingerprint uint64

// TileFingerprint computes the cache key for one tile. pageID must be unique
// per page object within the process.
func TileFingerprint(pageID uint64, param RenderParam, rect image.Rectangle) Fingerprint {
	var d xxhash.Digest
	d.Reset()

	var buf [8]byte
	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		d.Write(buf[:])
	}

	writeU64(pageID)
	writeU64(uint64(param.Resolution.ResolutionX))
	writeU64(uint64(param.Resolution.ResolutionY))
	writeU64(math.Float64bits(param.Resolution.DevicePixelRatio))
	writeU64(math.Float64bits(param.ScaleFactor))
	writeU64(uint64(param.Rotation))
	if param.InvertColors {
		writeU64(1)
	} else {
		writeU64(0)
	}
	writeU64(uint64(int64(rect.Min.X)))
	writeU64(uint64(int64(rect.Min.Y)))
	writeU64(uint64(int64(rect.Dx())))
	writeU64(uint64(int64(rect.Dy())))

	return Fingerprint(d.Sum64())
}
