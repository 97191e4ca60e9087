package rpc

import (
	"context"
	"fmt"

	graphql "github.com/hasura/go-graphql-client"
	"github.com/stashapp/stash/pkg/plugin/common/log"

	"github.com/smegmarip/stash-face-detector-plugin/internal/detector"
	"github.com/smegmarip/stash-face-detector-plugin/internal/frame"
	"github.com/smegmarip/stash-face-detector-plugin/internal/normalize"
	"github.com/smegmarip/stash-face-detector-plugin/internal/stash"
)

// detectImage detects faces in a still image given by path, uri or Stash
// imageId. Unlike frames, every call builds its own detector from the
// call's options.
func (s *Service) detectImage(ctx context.Context, args map[string]interface{}) (*normalize.Result, error) {
	imageID := getImageID(args)
	source, err := s.imageSource(ctx, args, imageID)
	if err != nil {
		return nil, err
	}

	still, err := frame.LoadStill(source)
	if err != nil {
		return nil, err
	}

	opts := detector.ParseOptions(args)
	d, err := s.buildDetector(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create detector: %v", detector.ErrDetectorFailure, err)
	}

	raws, err := d.Detect(ctx, still.Image)
	if err != nil {
		return nil, err
	}

	bounds := still.Image.Bounds()
	faces := normalize.Faces(raws, normalize.NewOptions(opts.Config, opts, bounds.Dx(), bounds.Dy()))

	info := &normalize.FrameInfo{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Orientation: int(still.Orientation),
	}
	if still.Orientation.SwapsAxes() {
		info.Width, info.Height = info.Height, info.Width
	}

	if opts.ConvertFrame {
		payload, err := frame.EncodeTransport(still.Image, s.config.TransportFormat, s.config.TransportQuality)
		if err != nil {
			return nil, err
		}
		info.Converted = payload
	}

	log.Infof("Detected %d face(s) in %s", len(faces), source)

	if tagName, _ := args["faceTag"].(string); tagName != "" && imageID != "" && len(faces) > 0 {
		s.tagImage(ctx, imageID, tagName)
	}

	return &normalize.Result{Faces: faces, Frame: info}, nil
}

// imageSource picks the image location from the call arguments
func (s *Service) imageSource(ctx context.Context, args map[string]interface{}, imageID string) (string, error) {
	if path, _ := args["path"].(string); path != "" {
		return path, nil
	}
	if uri, _ := args["uri"].(string); uri != "" {
		return uri, nil
	}
	if imageID != "" {
		if s.graphqlClient == nil {
			return "", fmt.Errorf("imageId %s given but no Stash connection is available", imageID)
		}
		return stash.GetImagePath(ctx, s.graphqlClient, graphql.ID(imageID))
	}
	return "", fmt.Errorf("one of path, uri or imageId is required")
}

// tagImage marks a Stash image as containing faces. Failures are logged only.
func (s *Service) tagImage(ctx context.Context, imageID string, tagName string) {
	if s.graphqlClient == nil {
		return
	}

	tagID, err := stash.FindOrCreateTag(ctx, s.graphqlClient, s.tagCache, tagName)
	if err != nil {
		log.Warnf("Failed to get tag '%s': %v", tagName, err)
		return
	}

	if err := stash.AddTagToImage(ctx, s.graphqlClient, graphql.ID(imageID), tagID); err != nil {
		log.Warnf("Failed to tag image %s: %v", imageID, err)
	}
}

// getImageID parses imageId (Stash sends integers as float64 in JSON)
func getImageID(args map[string]interface{}) string {
	switch v := args["imageId"].(type) {
	case float64:
		return fmt.Sprintf("%.0f", v)
	case int:
		return fmt.Sprintf("%d", v)
	case string:
		return v
	}
	return ""
}
