package facedetect

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshotRejectsNonImage(t *testing.T) {
	_, err := DecodeSnapshot([]byte("definitely not an image payload"))
	assert.Error(t, err)

	// A sniffable but unsupported type (gzip magic) is rejected too.
	_, err = DecodeSnapshot([]byte{0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00})
	assert.Error(t, err)
}

func TestDecodeSnapshotPNG(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 12, 9))
	for y := 0; y < 9; y++ {
		for x := 0; x < 12; x++ {
			img.SetGray(x, y, color.Gray{Y: 128})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	f, err := DecodeSnapshot(buf.Bytes())
	require.NoError(t, err)
	require.True(t, f.Usable())
	assert.Equal(t, 12, f.Width)
	assert.Equal(t, 9, f.Height)
	// Gray 128 survives the luma conversion.
	assert.InDelta(t, 128, float64(f.Y[0]), 2)
}
