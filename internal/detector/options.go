package detector

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stashapp/stash/pkg/plugin/common/log"
)

// PerformanceMode favours speed or accuracy
type PerformanceMode string

const (
	PerformanceFast     PerformanceMode = "fast"
	PerformanceAccurate PerformanceMode = "accurate"
)

// Mode switches an optional detector output on or off
type Mode string

const (
	ModeNone Mode = "none"
	ModeAll  Mode = "all"
)

// DefaultMinFaceSize is the smallest face, as a fraction of image width, reported by default
const DefaultMinFaceSize = 0.15

// Config is the immutable detector configuration
type Config struct {
	PerformanceMode    PerformanceMode
	LandmarkMode       Mode
	ClassificationMode Mode
	ContourMode        Mode
	MinFaceSize        float64
	TrackingEnabled    bool
}

// DefaultConfig returns the configuration used when no options are supplied
func DefaultConfig() Config {
	return Config{
		PerformanceMode:    PerformanceFast,
		LandmarkMode:       ModeNone,
		ClassificationMode: ModeNone,
		ContourMode:        ModeNone,
		MinFaceSize:        DefaultMinFaceSize,
		TrackingEnabled:    false,
	}
}

func (c Config) Landmarks() bool      { return c.LandmarkMode == ModeAll }
func (c Config) Classification() bool { return c.ClassificationMode == ModeAll }
func (c Config) Contours() bool       { return c.ContourMode == ModeAll }

// String renders the configuration for logs
func (c Config) String() string {
	return fmt.Sprintf("performance=%s landmarks=%s classification=%s contours=%s minFaceSize=%g tracking=%v",
		c.PerformanceMode, c.LandmarkMode, c.ClassificationMode, c.ContourMode, c.MinFaceSize, c.TrackingEnabled)
}

// Options is everything a caller can pass with one detection call
type Options struct {
	Config         Config
	ConvertFrame   bool
	RecenterBounds bool
	WindowWidth    float64
	WindowHeight   float64
}

// ParseOptions builds Options from a loosely-typed parameter map. Parsing
// is permissive: unknown or missing values fall back to defaults.
func ParseOptions(params map[string]interface{}) Options {
	cfg := DefaultConfig()

	if getString(params, "performanceMode") == string(PerformanceAccurate) {
		cfg.PerformanceMode = PerformanceAccurate
	}
	cfg.LandmarkMode = parseMode(params, "landmarkMode")
	cfg.ClassificationMode = parseMode(params, "classificationMode")
	cfg.ContourMode = parseMode(params, "contourMode")
	cfg.MinFaceSize = parseMinFaceSize(params["minFaceSize"])
	cfg.TrackingEnabled = getBool(params, "trackingEnabled")

	return Options{
		Config:         cfg,
		ConvertFrame:   getBool(params, "convertFrame"),
		RecenterBounds: getBool(params, "recenterBounds"),
		WindowWidth:    getFloat(params, "windowWidth"),
		WindowHeight:   getFloat(params, "windowHeight"),
	}
}

func parseMode(params map[string]interface{}, key string) Mode {
	if getString(params, key) == string(ModeAll) {
		return ModeAll
	}
	return ModeNone
}

// parseMinFaceSize accepts a number or numeric string in (0,1]. Anything
// else falls back to DefaultMinFaceSize.
func parseMinFaceSize(value interface{}) float64 {
	var size float64
	switch v := value.(type) {
	case nil:
		return DefaultMinFaceSize
	case float64:
		size = v
	case float32:
		size = float64(v)
	case int:
		size = float64(v)
	case int64:
		size = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			log.Warnf("Unparseable minFaceSize %q, using default %g", v, DefaultMinFaceSize)
			return DefaultMinFaceSize
		}
		size = parsed
	default:
		log.Warnf("Unsupported minFaceSize type %T, using default %g", value, DefaultMinFaceSize)
		return DefaultMinFaceSize
	}

	if math.IsNaN(size) || size <= 0 || size > 1 {
		log.Warnf("minFaceSize %g outside (0,1], using default %g", size, DefaultMinFaceSize)
		return DefaultMinFaceSize
	}
	return size
}

// getString retrieves a string parameter, formatting scalars the way the host would
func getString(params map[string]interface{}, key string) string {
	if val, ok := params[key]; ok && val != nil {
		if str, ok := val.(string); ok {
			return strings.ToLower(strings.TrimSpace(str))
		}
		return strings.ToLower(fmt.Sprint(val))
	}
	return ""
}

// getBool accepts true booleans and the string "true"
func getBool(params map[string]interface{}, key string) bool {
	if val, ok := params[key]; ok {
		switch v := val.(type) {
		case bool:
			return v
		case string:
			return strings.EqualFold(strings.TrimSpace(v), "true")
		}
	}
	return false
}

// getFloat retrieves a numeric parameter, returning 0 when absent or invalid
func getFloat(params map[string]interface{}, key string) float64 {
	if val, ok := params[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f
			}
		}
	}
	return 0.0
}
