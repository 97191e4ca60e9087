package rpc

import (
	"context"

	graphql "github.com/hasura/go-graphql-client"
	"github.com/stashapp/stash/pkg/plugin/common"
	"github.com/stashapp/stash/pkg/plugin/common/log"

	"github.com/smegmarip/stash-face-detector-plugin/internal/compreface"
	"github.com/smegmarip/stash-face-detector-plugin/internal/config"
	"github.com/smegmarip/stash-face-detector-plugin/internal/detector"
	"github.com/smegmarip/stash-face-detector-plugin/internal/stash"
	"github.com/smegmarip/stash-face-detector-plugin/internal/tracking"
)

// NewService creates a new RPC service instance
func NewService() *Service {
	return newService(nil, config.Load)
}

func newService(factory detector.Factory, loader func(ctx context.Context, client *graphql.Client) (*config.PluginConfig, error)) *Service {
	s := &Service{
		factory:    factory,
		loadConfig: loader,
		tagCache:   stash.NewTagCache(),
		config:     config.Defaults(),
	}
	s.provider = detector.NewProvider(s.buildDetector)
	return s
}

// Stop handles graceful shutdown of the plugin
func (s *Service) Stop(input struct{}, output *bool) error {
	log.Info("Stopping face detector plugin...")
	s.stopping = true
	*output = true
	return nil
}

// buildDetector creates a backend detector for cfg, adding tracking when enabled
func (s *Service) buildDetector(cfg detector.Config) (detector.Detector, error) {
	factory := s.factory
	if factory == nil {
		client := compreface.NewClient(s.config.DetectorURL, s.config.DetectionAPIKey, s.config.RequestTimeout)
		factory = compreface.NewFactory(client)
	}

	d, err := factory(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.TrackingEnabled {
		d = tracking.Wrap(d)
	}
	return d, nil
}

// errorOutput creates an error output for RPC response
func (s *Service) errorOutput(output *common.PluginOutput, err error) error {
	errStr := err.Error()
	*output = common.PluginOutput{
		Error: &errStr,
	}
	return nil
}
