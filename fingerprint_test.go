package qpdfview

import (
	"image"
	"testing"
)

func TestTileFingerprint_Deterministic(t *testing.T) {
	rect := image.Rect(0, 0, 256, 256)
	a := TileFingerprint(1, testParam, rect)
	b := TileFingerprint(1, testParam, rect)
	if a != b {
		t.Errorf("identical inputs hashed to %v and %v", a, b)
	}
}

func TestTileFingerprint_SensitiveToEveryField(t *testing.T) {
	rect := image.Rect(0, 0, 256, 256)
	base := TileFingerprint(1, testParam, rect)

	mutations := map[string]Fingerprint{
		"pageID": TileFingerprint(2, testParam, rect),
		"rect":   TileFingerprint(1, testParam, image.Rect(256, 0, 512, 256)),
		"size":   TileFingerprint(1, testParam, image.Rect(0, 0, 128, 256)),
	}

	param := testParam
	param.Resolution.ResolutionX = 144
	mutations["resolutionX"] = TileFingerprint(1, param, rect)

	param = testParam
	param.Resolution.ResolutionY = 144
	mutations["resolutionY"] = TileFingerprint(1, param, rect)

	param = testParam
	param.Resolution.DevicePixelRatio = 2
	mutations["devicePixelRatio"] = TileFingerprint(1, param, rect)

	param = testParam
	param.ScaleFactor = 1.5
	mutations["scaleFactor"] = TileFingerprint(1, param, rect)

	param = testParam
	param.Rotation = RotateBy90
	mutations["rotation"] = TileFingerprint(1, param, rect)

	param = testParam
	param.InvertColors = true
	mutations["invertColors"] = TileFingerprint(1, param, rect)

	for field, fp := range mutations {
		if fp == base {
			t.Errorf("changing %s did not change the fingerprint", field)
		}
	}
}
