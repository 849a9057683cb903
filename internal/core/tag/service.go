// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/pkg/slice"
)

// Service implements tag business logic.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new tag [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

/*
Attach normalises raw tags, creates the missing ones and links them to postID.

Run it inside the post creation transaction.

Returns:
  - []string: The stored names in first-seen order
  - error: Validation error from [NormalizeAll], or storage errors
*/
func (service *Service) Attach(context context.Context, postID string, raw []string) ([]string, error) {
	names, err := NormalizeAll(raw)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return names, nil
	}

	tags, err := service.repo.Upsert(context, names)
	if err != nil {
		return nil, err
	}

	ids := slice.Map(tags, func(tag Tag) int64 { return tag.ID })

	if err := service.repo.Attach(context, postID, ids); err != nil {
		return nil, err
	}

	return names, nil
}

// NamesForPost returns a post's tags.
func (service *Service) NamesForPost(context context.Context, postID string) ([]string, error) {
	return service.repo.NamesForPost(context, postID)
}

// NamesForPosts returns the tags of several posts keyed by post id.
func (service *Service) NamesForPosts(context context.Context, postIDs []string) (map[string][]string, error) {
	return service.repo.NamesForPosts(context, postIDs)
}

// List returns every tag with its post count.
func (service *Service) List(context context.Context) ([]*Tag, error) {
	return service.repo.List(context)
}

// Get looks a tag up by its raw name, normalised first.
func (service *Service) Get(context context.Context, raw string) (*Tag, error) {
	name := Normalize(raw)
	if name == "" {
		return nil, apperr.NotFound("Tag")
	}
	return service.repo.FindByName(context, name)
}
