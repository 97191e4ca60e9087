package rpc

import (
	"context"

	graphql "github.com/hasura/go-graphql-client"

	"github.com/smegmarip/stash-face-detector-plugin/internal/config"
	"github.com/smegmarip/stash-face-detector-plugin/internal/detector"
	"github.com/smegmarip/stash-face-detector-plugin/internal/stash"
)

// Service is the main RPC service struct
type Service struct {
	stopping      bool
	graphqlClient *graphql.Client
	config        *config.PluginConfig
	configured    bool
	tagCache      *stash.TagCache

	// provider owns the detector shared by every frame call
	provider *detector.Provider
	// factory builds backend detectors; nil means Compreface from config
	factory    detector.Factory
	loadConfig func(ctx context.Context, client *graphql.Client) (*config.PluginConfig, error)
}

// CountResponse is the output of the countFaces mode
type CountResponse struct {
	Count int `json:"count"`
}

// HasFaceResponse is the output of the hasFace mode
type HasFaceResponse struct {
	HasFace bool `json:"hasFace"`
}
