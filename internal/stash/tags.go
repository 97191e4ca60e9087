package stash

import (
	"context"
	"fmt"
	"sync"

	graphql "github.com/hasura/go-graphql-client"
	"github.com/stashapp/stash/pkg/plugin/common/log"
)

// TagCache provides thread-safe cached tag lookups by name
type TagCache struct {
	tags map[string]graphql.ID
	mu   sync.RWMutex
}

// NewTagCache creates a new tag cache
func NewTagCache() *TagCache {
	return &TagCache{
		tags: make(map[string]graphql.ID),
	}
}

// Get retrieves a cached tag ID by name
func (tc *TagCache) Get(name string) (graphql.ID, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	id, ok := tc.tags[name]
	return id, ok
}

// Set stores a tag ID in the cache
func (tc *TagCache) Set(name string, id graphql.ID) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.tags[name] = id
}

// FindOrCreateTag finds a tag by name or creates it if it doesn't exist
func FindOrCreateTag(ctx context.Context, client *graphql.Client, cache *TagCache, tagName string) (graphql.ID, error) {
	if id, ok := cache.Get(tagName); ok {
		log.Tracef("Tag '%s' found in cache: %v", tagName, id)
		return id, nil
	}

	var query struct {
		FindTags struct {
			Count int
			Tags  []Tag
		} `graphql:"findTags(tag_filter: $filter)"`
	}

	variables := map[string]interface{}{
		"filter": &TagFilterType{
			Name: &StringCriterionInput{
				Value:    tagName,
				Modifier: CriterionModifierEquals,
			},
		},
	}

	err := client.Query(ctx, &query, variables)
	if err != nil {
		return "", fmt.Errorf("failed to query tags: %w", err)
	}

	if len(query.FindTags.Tags) > 0 {
		tagID := query.FindTags.Tags[0].ID
		cache.Set(tagName, tagID)
		log.Debugf("Found existing tag '%s': %v", tagName, tagID)
		return tagID, nil
	}

	var mutation struct {
		TagCreate Tag `graphql:"tagCreate(input: $input)"`
	}

	createVars := map[string]interface{}{
		"input": TagCreateInput{Name: tagName},
	}

	err = client.Mutate(ctx, &mutation, createVars)
	if err != nil {
		return "", fmt.Errorf("failed to create tag: %w", err)
	}

	tagID := mutation.TagCreate.ID
	cache.Set(tagName, tagID)
	log.Infof("Created tag '%s': %v", tagName, tagID)
	return tagID, nil
}
