// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"

	"github.com/taibuivan/yomira-forum/pkg/pagination"
)

// Repository defines the data access contract for posts and attachments.
type Repository interface {

	// Create inserts a post and fills PublishedAt.
	Create(context context.Context, post *Post) error

	// FindByID returns apperr.NotFound for unknown or malformed ids.
	// Tags and Files are left empty.
	FindByID(context context.Context, id string) (*Post, error)

	/*
		List returns one page of posts visible to viewerID, newest first, and the
		total number of matches.

		The filter's Tag must already be normalised.
	*/
	List(context context.Context, viewerID string, filter Filter, params pagination.Params) ([]*Post, int, error)

	// CreateFile records an attachment whose bytes are already stored.
	CreateFile(context context.Context, file *File) error

	// ListFiles returns a post's attachments, oldest first.
	ListFiles(context context.Context, postID string) ([]*File, error)

	// FindFile returns apperr.NotFound unless the file belongs to postID.
	FindFile(context context.Context, postID, fileID string) (*File, error)

	// CountFiles returns the number of attachments on a post.
	CountFiles(context context.Context, postID string) (int, error)

	// AttachBlocked reports whether the post belongs to a category in which
	// userID does not hold canAttachFiles. A missing record counts as not held.
	AttachBlocked(context context.Context, postID, userID string) (bool, error)
}
