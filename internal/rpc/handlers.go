package rpc

import (
	"context"
	"fmt"

	"github.com/stashapp/stash/pkg/plugin/common"
	"github.com/stashapp/stash/pkg/plugin/common/log"

	"github.com/smegmarip/stash-face-detector-plugin/internal/config"
	"github.com/smegmarip/stash-face-detector-plugin/internal/stash"
)

// Run handles RPC task execution
func (s *Service) Run(input common.PluginInput, output *common.PluginOutput) error {
	ctx := context.Background()

	if s.graphqlClient == nil && input.ServerConnection.Port != 0 {
		s.graphqlClient = stash.Client(input.ServerConnection)
	}

	mode := input.Args.String("mode")
	args := input.Args.ToMap()

	// frame calls reuse a complete configuration; still modes always reload
	if mode != "detectFaces" || !s.configured {
		cfg, err := s.loadConfig(ctx, s.graphqlClient)
		if err != nil {
			log.Warnf("Configuration incomplete: %v", err)
		}
		if cfg == nil {
			cfg = config.Defaults()
		}
		s.config = cfg
		s.configured = err == nil
	}
	cfg := s.config

	log.Debugf("Face detector plugin started - mode: %s", mode)
	log.Tracef("Configuration: URL=%s, Timeout=%s, Transport=%s/%d",
		cfg.DetectorURL, cfg.RequestTimeout, cfg.TransportFormat, cfg.TransportQuality)

	switch mode {
	case "detectFaces":
		*output = common.PluginOutput{Output: s.detectFrame(ctx, args)}
		return nil

	case "detectImage":
		result, err := s.detectImage(ctx, args)
		if err != nil {
			return s.errorOutput(output, err)
		}
		*output = common.PluginOutput{Output: result}

	case "countFaces":
		result, err := s.detectImage(ctx, args)
		if err != nil {
			return s.errorOutput(output, err)
		}
		log.Infof("Counted %d face(s)", len(result.Faces))
		*output = common.PluginOutput{Output: CountResponse{Count: len(result.Faces)}}

	case "hasFace":
		result, err := s.detectImage(ctx, args)
		if err != nil {
			return s.errorOutput(output, err)
		}
		*output = common.PluginOutput{Output: HasFaceResponse{HasFace: len(result.Faces) > 0}}

	default:
		return s.errorOutput(output, fmt.Errorf("unknown mode: %s", mode))
	}

	return nil
}
