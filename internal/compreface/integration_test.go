//go:build integration

package compreface_test

import (
	"context"
	"image"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smegmarip/stash-face-detector-plugin/internal/compreface"
	"github.com/smegmarip/stash-face-detector-plugin/internal/detector"
	"github.com/smegmarip/stash-face-detector-plugin/internal/frame"
)

// Run with: go test -tags integration ./internal/compreface/...
// Requires FACE_DETECTOR_URL, FACE_DETECTOR_API_KEY and FACE_DETECTOR_TEST_IMAGE.

func integrationClient(t *testing.T) *compreface.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	baseURL := os.Getenv("FACE_DETECTOR_URL")
	apiKey := os.Getenv("FACE_DETECTOR_API_KEY")
	if baseURL == "" || apiKey == "" {
		t.Skip("FACE_DETECTOR_URL and FACE_DETECTOR_API_KEY must be set")
	}
	return compreface.NewClient(baseURL, apiKey, 60*time.Second)
}

func TestComprefaceIntegration_DetectBlankImage(t *testing.T) {
	client := integrationClient(t)

	d := compreface.NewDetector(client, detector.DefaultConfig())
	faces, err := d.Detect(context.Background(), image.NewNRGBA(image.Rect(0, 0, 320, 240)))
	require.NoError(t, err)
	assert.Empty(t, faces)
}

func TestComprefaceIntegration_DetectTestImage(t *testing.T) {
	client := integrationClient(t)

	path := os.Getenv("FACE_DETECTOR_TEST_IMAGE")
	if path == "" {
		t.Skip("FACE_DETECTOR_TEST_IMAGE not set")
	}

	still, err := frame.LoadStill(path)
	require.NoError(t, err)

	cfg := detector.DefaultConfig()
	cfg.PerformanceMode = detector.PerformanceAccurate
	cfg.LandmarkMode = detector.ModeAll
	cfg.MinFaceSize = 0.01

	faces, err := compreface.NewDetector(client, cfg).Detect(context.Background(), still.Image)
	require.NoError(t, err)
	require.NotEmpty(t, faces, "expected at least one face in %s", path)

	for i, f := range faces {
		t.Logf("Face %d: box=%v yaw=%.1f pitch=%.1f roll=%.1f landmarks=%d",
			i, f.Bounds, f.YawAngle, f.PitchAngle, f.RollAngle, len(f.Landmarks))
		assert.False(t, f.Bounds.Empty())
	}
}
