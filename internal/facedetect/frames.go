package facedetect

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

// DecodeSnapshot converts an encoded still (JPEG or PNG, as capture
// backends deliver snapshots) into a luma Frame. The magic bytes are
// sniffed first so a truncated or non-image payload is rejected before
// the decoder sees it; callers treat the error as a skipped sample.
func DecodeSnapshot(data []byte) (*model.Frame, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("sniff snapshot: %w", err)
	}
	switch kind {
	case matchers.TypeJpeg, matchers.TypePng:
	default:
		return nil, fmt.Errorf("snapshot is not a supported image (got %q)", kind.Extension)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return FromImage(img), nil
}

// FromImage flattens a decoded image into an 8-bit luma plane using the
// BT.601 weights.
func FromImage(img image.Image) *model.Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	f := &model.Frame{Width: w, Height: h, Y: make([]byte, w*h)}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			luma := (299*r + 587*g + 114*bl) / 1000
			f.Y[i] = byte(luma >> 8)
			i++
		}
	}
	return f
}
