package facedetect

import (
	"errors"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

// Heuristic classifies presence from frame brightness alone, with no model
// dependency. A face is assumed present when the overall brightness is
// plausible (neither a covered lens nor a blown-out one) and the center
// region shows real signal. Deliberately permissive: flagging a real face
// as absent is worse than missing an empty chair.
type Heuristic struct {
	// Overall mean luma must lie strictly inside (MinMeanLuma, MaxMeanLuma).
	MinMeanLuma float64
	MaxMeanLuma float64

	// Center-region mean luma must exceed CenterFloor.
	CenterFloor float64
}

// NewHeuristic returns the reference thresholds.
func NewHeuristic() *Heuristic {
	return &Heuristic{
		MinMeanLuma: 16,
		MaxMeanLuma: 239,
		CenterFloor: 20,
	}
}

var errUnusableFrame = errors.New("frame has no usable picture")

// Classify implements Classifier.
func (h *Heuristic) Classify(f *model.Frame) (bool, error) {
	if !f.Usable() {
		return false, errUnusableFrame
	}

	var total uint64
	n := f.Width * f.Height
	for _, y := range f.Y[:n] {
		total += uint64(y)
	}
	mean := float64(total) / float64(n)
	if mean <= h.MinMeanLuma || mean >= h.MaxMeanLuma {
		return false, nil
	}

	center := h.centerMean(f)
	return center > h.CenterFloor, nil
}

// centerMean averages the middle-third box of the frame, where a seated
// subject's face sits in practice.
func (h *Heuristic) centerMean(f *model.Frame) float64 {
	x0, x1 := f.Width/3, 2*f.Width/3
	y0, y1 := f.Height/3, 2*f.Height/3
	if x1 <= x0 || y1 <= y0 {
		return 0
	}
	var total uint64
	var count int
	for y := y0; y < y1; y++ {
		row := f.Y[y*f.Width : (y+1)*f.Width]
		for x := x0; x < x1; x++ {
			total += uint64(row[x])
			count++
		}
	}
	return float64(total) / float64(count)
}
