package compreface

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/stashapp/stash/pkg/plugin/common/log"

	"github.com/smegmarip/stash-face-detector-plugin/internal/detector"
	"github.com/smegmarip/stash-face-detector-plugin/internal/face"
)

// FastMaxDimension bounds the longest side of images sent in fast mode
const FastMaxDimension = 640

// uploadQuality is the JPEG quality of images sent to the service
const uploadQuality = 90

// landmarkOrder maps the five points returned by the landmarks plugin
var landmarkOrder = []face.LandmarkType{
	face.LandmarkLeftEye,
	face.LandmarkRightEye,
	face.LandmarkNoseBase,
	face.LandmarkMouthLeft,
	face.LandmarkMouthRight,
}

// Detector runs face detection against a Compreface server for one fixed configuration
type Detector struct {
	client *Client
	cfg    detector.Config
}

// NewDetector binds a client to a detector configuration
func NewDetector(client *Client, cfg detector.Config) *Detector {
	return &Detector{client: client, cfg: cfg}
}

// NewFactory returns a detector.Factory that builds Compreface detectors sharing client
func NewFactory(client *Client) detector.Factory {
	return func(cfg detector.Config) (detector.Detector, error) {
		if client == nil || client.BaseURL == "" {
			return nil, fmt.Errorf("compreface URL is not configured")
		}
		if client.APIKey == "" {
			return nil, fmt.Errorf("compreface API key is not configured")
		}
		log.Debugf("Creating Compreface detector: %s", cfg)
		return NewDetector(client, cfg), nil
	}
}

// Config returns the configuration the detector was built with
func (d *Detector) Config() detector.Config {
	return d.cfg
}

func (d *Detector) plugins() []string {
	plugins := []string{PluginPose}
	if d.cfg.Landmarks() {
		plugins = append(plugins, PluginLandmarks)
	}
	return plugins
}

// Detect uploads img and converts the service's answer into raw faces in
// img's coordinate space. Every error wraps detector.ErrDetectorFailure.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]detector.RawFace, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty image", detector.ErrDetectorFailure)
	}

	upload := img
	scale := 1.0
	if d.cfg.PerformanceMode == detector.PerformanceFast &&
		(bounds.Dx() > FastMaxDimension || bounds.Dy() > FastMaxDimension) {
		resized := imaging.Fit(img, FastMaxDimension, FastMaxDimension, imaging.Linear)
		scale = float64(bounds.Dx()) / float64(resized.Bounds().Dx())
		upload = resized
	}

	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, upload, imaging.JPEG, imaging.JPEGQuality(uploadQuality)); err != nil {
		return nil, fmt.Errorf("%w: failed to encode image: %v", detector.ErrDetectorFailure, err)
	}

	resp, err := d.client.DetectFacesFromBytes(ctx, buf.Bytes(), "frame.jpg", d.plugins())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", detector.ErrDetectorFailure, err)
	}

	minWidth := d.cfg.MinFaceSize * float64(bounds.Dx())
	faces := make([]detector.RawFace, 0, len(resp.Result))
	for _, det := range resp.Result {
		raw := d.toRawFace(det, scale, bounds.Min)
		if float64(raw.Bounds.Dx()) < minWidth {
			log.Tracef("Dropping face %v smaller than %.0fpx", raw.Bounds, minWidth)
			continue
		}
		faces = append(faces, raw)
	}

	return faces, nil
}

func (d *Detector) toRawFace(det FaceDetection, scale float64, origin image.Point) detector.RawFace {
	px := func(v float64) int {
		return int(v*scale + 0.5)
	}

	raw := detector.RawFace{
		Bounds: image.Rect(
			px(float64(det.Box.XMin)), px(float64(det.Box.YMin)),
			px(float64(det.Box.XMax)), px(float64(det.Box.YMax)),
		).Add(origin),
	}

	if det.Pose != nil {
		raw.PitchAngle = det.Pose.Pitch
		raw.RollAngle = det.Pose.Roll
		raw.YawAngle = det.Pose.Yaw
	}

	if d.cfg.Landmarks() && len(det.Landmarks) > 0 {
		raw.Landmarks = make(map[face.LandmarkType]face.Point, len(landmarkOrder))
		for i, lt := range landmarkOrder {
			if i >= len(det.Landmarks) || len(det.Landmarks[i]) < 2 {
				break
			}
			raw.Landmarks[lt] = face.Point{
				X: det.Landmarks[i][0]*scale + float64(origin.X),
				Y: det.Landmarks[i][1]*scale + float64(origin.Y),
			}
		}
	}

	return raw
}
