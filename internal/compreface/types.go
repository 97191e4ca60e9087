package compreface

import "net/http"

// Client handles API calls to the Compreface detection service
type Client struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
}

// FaceDetection represents a detected face from Compreface
type FaceDetection struct {
	Box       BoundingBox `json:"box"`
	Landmarks [][]float64 `json:"landmarks"`
	Pose      *Pose       `json:"pose"`
}

// BoundingBox represents face coordinates
type BoundingBox struct {
	XMin        int     `json:"x_min"`
	YMin        int     `json:"y_min"`
	XMax        int     `json:"x_max"`
	YMax        int     `json:"y_max"`
	Probability float64 `json:"probability"`
}

// Pose is the head pose estimate, in degrees
type Pose struct {
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
	Yaw   float64 `json:"yaw"`
}

// DetectionResponse is the response from face detection API
type DetectionResponse struct {
	Result          []FaceDetection   `json:"result"`
	PluginsVersions map[string]string `json:"plugins_versions"`
}

// ErrorResponse is the body Compreface returns with non-200 codes
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
