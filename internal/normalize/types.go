package normalize

import "github.com/smegmarip/stash-face-detector-plugin/internal/face"

// Bounds is a face bounding box in output coordinates
type Bounds struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Top     float64 `json:"top"`
	Left    float64 `json:"left"`
	Right   float64 `json:"right"`
	Bottom  float64 `json:"bottom"`
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`

	// Recentred overlay position, only set when recentring is requested
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
}

// Face is one normalized detection
type Face struct {
	Bounds    Bounds                  `json:"bounds"`
	Landmarks map[string]face.Point   `json:"landmarks,omitempty"`
	Contours  map[string][]face.Point `json:"contours,omitempty"`

	// Classification group: all three set or none
	LeftEyeOpenProbability  *float64 `json:"leftEyeOpenProbability,omitempty"`
	RightEyeOpenProbability *float64 `json:"rightEyeOpenProbability,omitempty"`
	SmilingProbability      *float64 `json:"smilingProbability,omitempty"`

	TrackingID *int `json:"trackingId,omitempty"`

	RollAngle  float64 `json:"rollAngle"`
	PitchAngle float64 `json:"pitchAngle"`
	YawAngle   float64 `json:"yawAngle"`
}

// FrameInfo describes the frame a result was computed from
type FrameInfo struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Orientation int    `json:"orientation"`
	Converted   string `json:"converted,omitempty"`
}

// Result is the per-frame output. Faces keep detector order and are never nil.
type Result struct {
	Faces []Face     `json:"faces"`
	Frame *FrameInfo `json:"frame,omitempty"`
}

// Empty returns a valid result with no faces
func Empty(info *FrameInfo) *Result {
	return &Result{Faces: []Face{}, Frame: info}
}
