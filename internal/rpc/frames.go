package rpc

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	"github.com/stashapp/stash/pkg/plugin/common/log"

	"github.com/smegmarip/stash-face-detector-plugin/internal/detector"
	"github.com/smegmarip/stash-face-detector-plugin/internal/frame"
	"github.com/smegmarip/stash-face-detector-plugin/internal/normalize"
	"github.com/smegmarip/stash-face-detector-plugin/internal/orientation"
)

// detectFrame runs the per-frame pipeline. It never fails: any error, or a
// panic, is logged and yields a result with no faces.
func (s *Service) detectFrame(ctx context.Context, args map[string]interface{}) (result *normalize.Result) {
	var info *normalize.FrameInfo

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("detectFaces: recovered from panic: %v", r)
			result = normalize.Empty(info)
		}
	}()

	if s.stopping {
		log.Warn("detectFaces: plugin is stopping, skipping frame")
		return normalize.Empty(nil)
	}

	f, err := parseFrame(args["frame"])
	if err != nil {
		log.Errorf("detectFaces: %v", err)
		return normalize.Empty(nil)
	}
	info = &normalize.FrameInfo{
		Width:       f.Width,
		Height:      f.Height,
		Orientation: int(f.Orientation),
	}

	opts := detector.ParseOptions(args)

	img, err := f.Decode()
	if err != nil {
		log.Errorf("detectFaces: %v", err)
		return normalize.Empty(info)
	}

	d, cfg, err := s.provider.Get(opts.Config)
	if err != nil {
		log.Errorf("detectFaces: %v", err)
		return normalize.Empty(info)
	}

	raws, err := d.Detect(ctx, img)
	if err != nil {
		log.Errorf("detectFaces: %v", err)
		return normalize.Empty(info)
	}

	bounds := img.Bounds()
	faces := normalize.Faces(raws, normalize.NewOptions(cfg, opts, bounds.Dx(), bounds.Dy()))

	if opts.ConvertFrame {
		payload, err := frame.EncodeTransport(img, s.config.TransportFormat, s.config.TransportQuality)
		if err != nil {
			log.Errorf("detectFaces: %v", err)
			return normalize.Empty(info)
		}
		info.Converted = payload
	}

	log.Tracef("detectFaces: %d face(s) in %dx%d frame", len(faces), f.Width, f.Height)
	return &normalize.Result{Faces: faces, Frame: info}
}

// parseFrame decodes the frame argument: {width, height, orientation,
// layout, planes}, where planes are base64 strings.
func parseFrame(value interface{}) (*frame.Frame, error) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing frame argument", frame.ErrMalformedFrame)
	}

	width, ok := getInt(m, "width")
	if !ok {
		return nil, fmt.Errorf("%w: missing width", frame.ErrMalformedFrame)
	}
	height, ok := getInt(m, "height")
	if !ok {
		return nil, fmt.Errorf("%w: missing height", frame.ErrMalformedFrame)
	}

	deg, err := orientation.Resolve(m["orientation"])
	if err != nil {
		log.Warnf("Unrecognized frame orientation, assuming upright: %v", err)
		deg = orientation.Rotate0
	}

	layoutName, _ := m["layout"].(string)
	layout, err := frame.ParseLayout(strings.ToLower(layoutName))
	if err != nil {
		return nil, err
	}

	rawPlanes, ok := m["planes"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: planes must be a list", frame.ErrMalformedFrame)
	}

	planes := make([][]byte, len(rawPlanes))
	for i, p := range rawPlanes {
		str, ok := p.(string)
		if !ok {
			return nil, fmt.Errorf("%w: plane %d is not a string", frame.ErrMalformedFrame, i)
		}
		planes[i], err = base64.StdEncoding.DecodeString(str)
		if err != nil {
			return nil, fmt.Errorf("%w: plane %d: %v", frame.ErrMalformedFrame, i, err)
		}
	}

	return &frame.Frame{
		Width:       width,
		Height:      height,
		Orientation: deg,
		Layout:      layout,
		Planes:      planes,
	}, nil
}

// getInt reads an integer argument. Stash sends integers as float64 in JSON.
func getInt(m map[string]interface{}, key string) (int, bool) {
	switch v := m[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}
