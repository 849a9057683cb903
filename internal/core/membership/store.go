// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package membership

import (
	"context"

	"github.com/taibuivan/yomira-forum/internal/core/post"
	"github.com/taibuivan/yomira-forum/pkg/pagination"
)

// Repository defines the data access contract for membership edges.
type Repository interface {

	/*
		Add inserts the edge unless it exists.

		Returns:
		  - *Membership: The stored edge; Created reports whether this call inserted it
	*/
	Add(context context.Context, categoryID, postID, addedBy string) (*Membership, error)

	// Remove deletes the edge and reports whether one existed.
	Remove(context context.Context, categoryID, postID string) (bool, error)

	// ListPosts pages through the category's posts visible to viewerID,
	// most recently added first.
	ListPosts(context context.Context, categoryID, viewerID string, params pagination.Params) ([]*post.Post, int, error)
}
