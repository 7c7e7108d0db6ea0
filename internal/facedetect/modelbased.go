package facedetect

import "github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"

// Detection is one face reported by an external detection model.
type Detection struct {
	Confidence float64
}

// DetectFunc runs a face-detection model over a frame.
type DetectFunc func(f *model.Frame) ([]Detection, error)

// DefaultConfidenceFloor is the minimum confidence for a detection to
// count as a present face.
const DefaultConfidenceFloor = 0.5

// ModelClassifier adapts a detection model to the Classifier interface:
// one or more detections at or above the confidence floor means present.
type ModelClassifier struct {
	detect DetectFunc
	floor  float64
}

// NewModelClassifier wraps a model; floor <= 0 selects the default.
func NewModelClassifier(detect DetectFunc, floor float64) *ModelClassifier {
	if floor <= 0 {
		floor = DefaultConfidenceFloor
	}
	return &ModelClassifier{detect: detect, floor: floor}
}

// Classify implements Classifier.
func (m *ModelClassifier) Classify(f *model.Frame) (bool, error) {
	detections, err := m.detect(f)
	if err != nil {
		return false, err
	}
	for _, d := range detections {
		if d.Confidence >= m.floor {
			return true, nil
		}
	}
	return false, nil
}
