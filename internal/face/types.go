package face

// LandmarkType identifies a single named point on a detected face
type LandmarkType int

const (
	LandmarkLeftCheek LandmarkType = iota
	LandmarkLeftEar
	LandmarkLeftEye
	LandmarkMouthBottom
	LandmarkMouthLeft
	LandmarkMouthRight
	LandmarkNoseBase
	LandmarkRightCheek
	LandmarkRightEar
	LandmarkRightEye
	landmarkCount
)

var landmarkNames = [landmarkCount]string{
	LandmarkLeftCheek:   "LEFT_CHEEK",
	LandmarkLeftEar:     "LEFT_EAR",
	LandmarkLeftEye:     "LEFT_EYE",
	LandmarkMouthBottom: "MOUTH_BOTTOM",
	LandmarkMouthLeft:   "MOUTH_LEFT",
	LandmarkMouthRight:  "MOUTH_RIGHT",
	LandmarkNoseBase:    "NOSE_BASE",
	LandmarkRightCheek:  "RIGHT_CHEEK",
	LandmarkRightEar:    "RIGHT_EAR",
	LandmarkRightEye:    "RIGHT_EYE",
}

// Landmarks returns every landmark type in table order. Result maps are
// built by walking this list, so no other key can ever appear.
func Landmarks() []LandmarkType {
	types := make([]LandmarkType, landmarkCount)
	for i := range types {
		types[i] = LandmarkType(i)
	}
	return types
}

// String returns the canonical name used as the key in result maps
func (l LandmarkType) String() string {
	if !l.Valid() {
		return "UNKNOWN"
	}
	return landmarkNames[l]
}

// Valid reports whether l is one of the fixed landmark types
func (l LandmarkType) Valid() bool {
	return l >= 0 && l < landmarkCount
}

// ParseLandmark looks up a landmark type by its canonical name
func ParseLandmark(name string) (LandmarkType, bool) {
	for i, n := range landmarkNames {
		if n == name {
			return LandmarkType(i), true
		}
	}
	return 0, false
}

// ContourType identifies an ordered polyline outlining a facial feature
type ContourType int

const (
	ContourFace ContourType = iota
	ContourLeftEyebrowTop
	ContourLeftEyebrowBottom
	ContourRightEyebrowTop
	ContourRightEyebrowBottom
	ContourLeftEye
	ContourRightEye
	ContourUpperLipTop
	ContourUpperLipBottom
	ContourLowerLipTop
	ContourLowerLipBottom
	ContourNoseBridge
	ContourNoseBottom
	ContourLeftCheek
	ContourRightCheek
	contourCount
)

var contourNames = [contourCount]string{
	ContourFace:               "FACE",
	ContourLeftEyebrowTop:     "LEFT_EYEBROW_TOP",
	ContourLeftEyebrowBottom:  "LEFT_EYEBROW_BOTTOM",
	ContourRightEyebrowTop:    "RIGHT_EYEBROW_TOP",
	ContourRightEyebrowBottom: "RIGHT_EYEBROW_BOTTOM",
	ContourLeftEye:            "LEFT_EYE",
	ContourRightEye:           "RIGHT_EYE",
	ContourUpperLipTop:        "UPPER_LIP_TOP",
	ContourUpperLipBottom:     "UPPER_LIP_BOTTOM",
	ContourLowerLipTop:        "LOWER_LIP_TOP",
	ContourLowerLipBottom:     "LOWER_LIP_BOTTOM",
	ContourNoseBridge:         "NOSE_BRIDGE",
	ContourNoseBottom:         "NOSE_BOTTOM",
	ContourLeftCheek:          "LEFT_CHEEK",
	ContourRightCheek:         "RIGHT_CHEEK",
}

// Contours returns every contour type in table order
func Contours() []ContourType {
	types := make([]ContourType, contourCount)
	for i := range types {
		types[i] = ContourType(i)
	}
	return types
}

// String returns the canonical name used as the key in result maps
func (c ContourType) String() string {
	if !c.Valid() {
		return "UNKNOWN"
	}
	return contourNames[c]
}

// Valid reports whether c is one of the fixed contour types
func (c ContourType) Valid() bool {
	return c >= 0 && c < contourCount
}

// ParseContour looks up a contour type by its canonical name
func ParseContour(name string) (ContourType, bool) {
	for i, n := range contourNames {
		if n == name {
			return ContourType(i), true
		}
	}
	return 0, false
}

// Point is a 2-D position in image coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
