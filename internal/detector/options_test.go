package detector

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOptions_Defaults(t *testing.T) {
	opts := ParseOptions(nil)

	assert.Equal(t, DefaultConfig(), opts.Config)
	assert.Equal(t, PerformanceFast, opts.Config.PerformanceMode)
	assert.Equal(t, ModeNone, opts.Config.LandmarkMode)
	assert.Equal(t, ModeNone, opts.Config.ClassificationMode)
	assert.Equal(t, ModeNone, opts.Config.ContourMode)
	assert.Equal(t, 0.15, opts.Config.MinFaceSize)
	assert.False(t, opts.Config.TrackingEnabled)
	assert.False(t, opts.ConvertFrame)
	assert.False(t, opts.RecenterBounds)
}

func TestParseOptions_AllSet(t *testing.T) {
	opts := ParseOptions(map[string]interface{}{
		"performanceMode":    "accurate",
		"landmarkMode":       "all",
		"classificationMode": "ALL",
		"contourMode":        "all",
		"minFaceSize":        0.3,
		"trackingEnabled":    true,
		"convertFrame":       "true",
		"recenterBounds":     true,
		"windowWidth":        float64(390),
		"windowHeight":       "844",
	})

	assert.Equal(t, Config{
		PerformanceMode:    PerformanceAccurate,
		LandmarkMode:       ModeAll,
		ClassificationMode: ModeAll,
		ContourMode:        ModeAll,
		MinFaceSize:        0.3,
		TrackingEnabled:    true,
	}, opts.Config)
	assert.True(t, opts.ConvertFrame)
	assert.True(t, opts.RecenterBounds)
	assert.Equal(t, 390.0, opts.WindowWidth)
	assert.Equal(t, 844.0, opts.WindowHeight)
}

func TestParseOptions_Permissive(t *testing.T) {
	opts := ParseOptions(map[string]interface{}{
		"performanceMode":    "turbo",
		"landmarkMode":       42,
		"classificationMode": nil,
		"contourMode":        "some",
		"trackingEnabled":    "yes",
	})

	assert.Equal(t, DefaultConfig(), opts.Config)
}

func TestParseMinFaceSize(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected float64
	}{
		{"absent", nil, DefaultMinFaceSize},
		{"float", 0.5, 0.5},
		{"int one", 1, 1.0},
		{"numeric string", "0.25", 0.25},
		{"padded string", " 0.4 ", 0.4},
		{"unparseable string", "big", DefaultMinFaceSize},
		{"zero", 0.0, DefaultMinFaceSize},
		{"negative", -0.2, DefaultMinFaceSize},
		{"above one", 1.5, DefaultMinFaceSize},
		{"wrong type", []string{"0.2"}, DefaultMinFaceSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseMinFaceSize(tt.value))
		})
	}
}

func TestParseMinFaceSize_DefaultRoundTrip(t *testing.T) {
	str := strconv.FormatFloat(DefaultMinFaceSize, 'g', -1, 64)
	assert.Equal(t, DefaultMinFaceSize, parseMinFaceSize(str))
	assert.Equal(t, DefaultMinFaceSize, parseMinFaceSize(parseMinFaceSize(str)))
}

func TestConfigPredicates(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Landmarks())
	assert.False(t, cfg.Classification())
	assert.False(t, cfg.Contours())

	cfg.LandmarkMode = ModeAll
	cfg.ClassificationMode = ModeAll
	cfg.ContourMode = ModeAll
	assert.True(t, cfg.Landmarks())
	assert.True(t, cfg.Classification())
	assert.True(t, cfg.Contours())
	assert.Contains(t, cfg.String(), "landmarks=all")
}
