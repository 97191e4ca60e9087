package config

import (
	"time"

	"github.com/smegmarip/stash-face-detector-plugin/internal/frame"
)

// PluginID is the id Stash stores this plugin's settings under
const PluginID = "faceDetector"

// Environment overrides, applied after Stash settings
const (
	EnvDetectorURL = "FACE_DETECTOR_URL"
	EnvAPIKey      = "FACE_DETECTOR_API_KEY"
)

// PluginConfig holds plugin settings from Stash
type PluginConfig struct {
	DetectorURL      string
	DetectionAPIKey  string
	RequestTimeout   time.Duration
	TransportFormat  frame.TransportFormat
	TransportQuality int
}
