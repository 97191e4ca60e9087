package detector

import (
	"context"
	"errors"
	"image"

	"github.com/smegmarip/stash-face-detector-plugin/internal/face"
)

// ErrDetectorFailure wraps any error raised by the external detection call
var ErrDetectorFailure = errors.New("detector failure")

// Detector is the external face detection capability. Detect blocks until
// the backend answers. Calls against one instance are expected to be
// serialized by the caller.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]RawFace, error)
}

// Factory builds a Detector for a configuration
type Factory func(cfg Config) (Detector, error)

// RawFace is a single detection as reported by the backend, before normalization.
// Nil pointers and missing map entries mean the backend had no value.
type RawFace struct {
	Bounds                  image.Rectangle
	Landmarks               map[face.LandmarkType]face.Point
	Contours                map[face.ContourType][]face.Point
	LeftEyeOpenProbability  *float64
	RightEyeOpenProbability *float64
	SmilingProbability      *float64
	TrackingID              *int
	YawAngle                float64
	PitchAngle              float64
	RollAngle               float64
}
