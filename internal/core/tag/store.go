// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import "context"

// Repository defines the data access contract for tags.
type Repository interface {

	// Upsert ensures every name exists and returns their rows.
	Upsert(context context.Context, names []string) ([]Tag, error)

	// Attach links the tags to a post. Existing links are kept.
	Attach(context context.Context, postID string, tagIDs []int64) error

	// NamesForPost returns a post's tag names in alphabetical order.
	NamesForPost(context context.Context, postID string) ([]string, error)

	// NamesForPosts batches [Repository.NamesForPost] for a page of posts.
	// Posts without tags are absent from the map.
	NamesForPosts(context context.Context, postIDs []string) (map[string][]string, error)

	// List returns every tag with its post count, most used first.
	List(context context.Context) ([]*Tag, error)

	// FindByName returns apperr.NotFound for unknown names.
	FindByName(context context.Context, name string) (*Tag, error)
}
