package stash

import (
	"context"
	"errors"
	"fmt"

	graphql "github.com/hasura/go-graphql-client"
	"github.com/stashapp/stash/pkg/plugin/common/log"
)

// ErrImageNotFound is returned when Stash has no image, or no file, for an id
var ErrImageNotFound = errors.New("image not found")

// GetImage retrieves a single image by ID
func GetImage(ctx context.Context, client *graphql.Client, imageID graphql.ID) (*Image, error) {
	var query struct {
		FindImage *Image `graphql:"findImage(id: $id)"`
	}

	variables := map[string]interface{}{
		"id": imageID,
	}

	err := client.Query(ctx, &query, variables)
	if err != nil {
		return nil, fmt.Errorf("failed to query image: %w", err)
	}
	if query.FindImage == nil {
		return nil, fmt.Errorf("%w: %v", ErrImageNotFound, imageID)
	}

	return query.FindImage, nil
}

// GetImagePath returns the local path of the primary file of an image
func GetImagePath(ctx context.Context, client *graphql.Client, imageID graphql.ID) (string, error) {
	image, err := GetImage(ctx, client, imageID)
	if err != nil {
		return "", err
	}

	if len(image.Files) == 0 || image.Files[0].Path == "" {
		return "", fmt.Errorf("%w: image %v has no files", ErrImageNotFound, imageID)
	}

	log.Tracef("Image %v resolved to %s", imageID, image.Files[0].Path)
	return image.Files[0].Path, nil
}

// UpdateImage updates image fields
func UpdateImage(ctx context.Context, client *graphql.Client, input ImageUpdateInput) error {
	var mutation struct {
		ImageUpdate struct {
			ID graphql.ID `graphql:"id"`
		} `graphql:"imageUpdate(input: $input)"`
	}

	variables := map[string]interface{}{
		"input": input,
	}

	err := client.Mutate(ctx, &mutation, variables)
	if err != nil {
		return fmt.Errorf("failed to update image: %w", err)
	}

	log.Debugf("Updated image %s", input.ID)
	return nil
}

// AddTagToImage adds a tag to an image, keeping its existing tags
func AddTagToImage(ctx context.Context, client *graphql.Client, imageID graphql.ID, tagID graphql.ID) error {
	image, err := GetImage(ctx, client, imageID)
	if err != nil {
		return fmt.Errorf("failed to get image: %w", err)
	}

	tagIDs := make([]string, 0, len(image.Tags)+1)
	for _, tag := range image.Tags {
		if tag.ID == tagID {
			log.Tracef("Image %v already has tag %v", imageID, tagID)
			return nil
		}
		tagIDs = append(tagIDs, string(tag.ID))
	}
	tagIDs = append(tagIDs, string(tagID))

	input := ImageUpdateInput{
		ID:     string(imageID),
		TagIds: tagIDs,
	}

	if err := UpdateImage(ctx, client, input); err != nil {
		return fmt.Errorf("failed to add tag to image: %w", err)
	}

	log.Tracef("Added tag %v to image %v", tagID, imageID)
	return nil
}
