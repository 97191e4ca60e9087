package stash

import (
	graphql "github.com/hasura/go-graphql-client"
	"github.com/stashapp/stash/pkg/models"
)

// ImagePaths represents the paths for an image
type ImagePaths struct {
	Image string `graphql:"image"`
}

// ImageFile represents a file associated with an image
type ImageFile struct {
	Path   string `graphql:"path"`
	Width  int    `graphql:"width"`
	Height int    `graphql:"height"`
}

// Image represents a Stash image
type Image struct {
	ID    graphql.ID  `graphql:"id"`
	Title string      `graphql:"title"`
	Paths ImagePaths  `graphql:"paths"`
	Files []ImageFile `graphql:"files"`
	Tags  []Tag       `graphql:"tags"`
}

// Tag represents a Stash tag
type Tag struct {
	ID   graphql.ID `graphql:"id"`
	Name string     `graphql:"name"`
}

// TagCreateInput represents input for creating a tag
type TagCreateInput struct {
	Name string `graphql:"name" json:"name"`
}

// ImageUpdateInput is the subset of imageUpdate fields the plugin sets
type ImageUpdateInput struct {
	ID     string   `graphql:"id" json:"id"`
	TagIds []string `graphql:"tag_ids" json:"tag_ids,omitempty"`
}

// PluginSettings is the settings map Stash stores for one plugin
type PluginSettings map[string]interface{}

// Shims for types from models package
type (
	StringCriterionInput = models.StringCriterionInput
	TagFilterType        = models.TagFilterType
)

const CriterionModifierEquals = models.CriterionModifierEquals
