package stash

import (
	"context"
	"encoding/json"
	"fmt"

	graphql "github.com/hasura/go-graphql-client"
	"github.com/stashapp/stash/pkg/plugin/common/log"
)

// GetPluginSettings fetches the settings a user saved for pluginID in Stash.
// A plugin with no saved settings yields an empty map.
func GetPluginSettings(ctx context.Context, client *graphql.Client, pluginID string) (PluginSettings, error) {
	query := `query Configuration($include: [ID!]) {
		configuration {
			plugins(include: $include)
		}
	}`

	variables := map[string]interface{}{
		"include": []string{pluginID},
	}

	data, err := client.ExecRaw(ctx, query, variables)
	if err != nil {
		return nil, fmt.Errorf("failed to query configuration: %w", err)
	}

	var response struct {
		Configuration struct {
			Plugins map[string]PluginSettings `json:"plugins"`
		} `json:"configuration"`
	}

	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse configuration response: %w", err)
	}

	settings := response.Configuration.Plugins[pluginID]
	if settings == nil {
		settings = PluginSettings{}
	}

	log.Debugf("Loaded %d setting(s) for plugin %s", len(settings), pluginID)
	return settings, nil
}
