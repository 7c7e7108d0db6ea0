package facedetect

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngStill(t *testing.T, luma uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 16, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.SetGray(x, y, color.Gray{Y: luma})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSnapshotStreamDecodesStills(t *testing.T) {
	still := pngStill(t, 128)
	s := NewSnapshotStream(func() ([]byte, error) { return still, nil })

	f, err := s.Frame()
	require.NoError(t, err)
	require.True(t, f.Usable())
	assert.Equal(t, 16, f.Width)
	assert.Equal(t, 12, f.Height)
	assert.InDelta(t, 128, float64(f.Y[0]), 2)
	assert.False(t, s.Muted())
}

func TestSnapshotStreamSurfacesGrabAndDecodeFailures(t *testing.T) {
	grabErr := errors.New("capture backend gone")
	s := NewSnapshotStream(func() ([]byte, error) { return nil, grabErr })
	_, err := s.Frame()
	assert.ErrorIs(t, err, grabErr)

	s = NewSnapshotStream(func() ([]byte, error) {
		return []byte("not an image"), nil
	})
	_, err = s.Frame()
	assert.Error(t, err)
}

func TestSnapshotStreamStopsDelivering(t *testing.T) {
	still := pngStill(t, 128)
	s := NewSnapshotStream(func() ([]byte, error) { return still, nil })
	s.SetMuted(true)
	assert.True(t, s.Muted())

	s.StopTracks()
	_, err := s.Frame()
	assert.ErrorIs(t, err, ErrStreamStopped)
}

func TestSnapshotStreamFeedsClassifier(t *testing.T) {
	// A decoded mid-gray still counts as present; a near-black one does not.
	bright := NewSnapshotStream(func() ([]byte, error) { return pngStill(t, 128), nil })
	dark := NewSnapshotStream(func() ([]byte, error) { return pngStill(t, 4), nil })
	h := NewHeuristic()

	f, err := bright.Frame()
	require.NoError(t, err)
	present, err := h.Classify(f)
	require.NoError(t, err)
	assert.True(t, present)

	f, err = dark.Frame()
	require.NoError(t, err)
	present, err = h.Classify(f)
	require.NoError(t, err)
	assert.False(t, present)
}
