// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package membership

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yomira-forum/internal/core/permission"
	"github.com/taibuivan/yomira-forum/internal/core/post"
	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/postgres"
	"github.com/taibuivan/yomira-forum/internal/platform/validate"
	"github.com/taibuivan/yomira-forum/pkg/pagination"
)

// # Dependencies

// Permissions evaluates actions against permission records.
type Permissions interface {
	Check(context context.Context, query permission.Query) error
}

// Posts resolves posts for authorization and decorates listings.
type Posts interface {
	Ref(context context.Context, viewerID, postID string) (*post.Ref, error)
	LoadTags(context context.Context, posts []*post.Post) error
}

// Service implements category/post association.
type Service struct {
	repo        Repository
	categories  permission.CategoryLookup
	posts       Posts
	permissions Permissions
	tx          postgres.Transactor
	logger      *slog.Logger
}

// NewService constructs a new membership [Service].
func NewService(repo Repository, categories permission.CategoryLookup, posts Posts, permissions Permissions, tx postgres.Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		categories:  categories,
		posts:       posts,
		permissions: permissions,
		tx:          tx,
		logger:      logger,
	}
}

// # Operations

/*
Add places postID in categoryID.

The category and post are resolved first so unknown ids are a 404, never a
permission failure. Re-adding an existing edge succeeds without change.

Returns:
  - *Membership: Created is false for an edge that already existed
  - error: NotFound, Unauthorized, or Forbidden ("missing canPost",
    "missing canAttachFiles")
*/
func (service *Service) Add(ctx context.Context, actorID, categoryID, postID string) (*Membership, error) {
	validator := &validate.Validator{}
	validator.Required(FieldPostID, postID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	isPublic, err := service.categories.Visibility(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	ref, err := service.posts.Ref(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}

	var membership *Membership
	err = service.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := service.permissions.Check(ctx, permission.Query{
			ActorID:        actorID,
			CategoryID:     categoryID,
			CategoryPublic: isPublic,
			Action:         permission.ActionPost,
			HasFiles:       ref.HasFiles(),
		}); err != nil {
			return err
		}

		added, err := service.repo.Add(ctx, categoryID, ref.ID, actorID)
		if err != nil {
			return err
		}
		membership = added
		return nil
	})
	if err != nil {
		return nil, err
	}

	if membership.Created {
		service.logger.InfoContext(ctx, "post_added_to_category",
			slog.String("category_id", categoryID),
			slog.String("post_id", ref.ID),
			slog.String("actor_id", actorID),
		)
	}

	return membership, nil
}

/*
Remove takes postID out of categoryID.

The post's author may always remove it. Anyone else is checked for the delete
action against the author's rank.

Returns:
  - error: NotFound, Unauthorized, Forbidden, or Conflict when the post is not
    in the category
*/
func (service *Service) Remove(ctx context.Context, actorID, categoryID, postID string) error {
	isPublic, err := service.categories.Visibility(ctx, categoryID)
	if err != nil {
		return err
	}

	ref, err := service.posts.Ref(ctx, actorID, postID)
	if err != nil {
		return err
	}

	if actorID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	err = service.tx.RunInTx(ctx, func(ctx context.Context) error {
		if actorID != ref.AuthorID {
			if err := service.permissions.Check(ctx, permission.Query{
				ActorID:        actorID,
				CategoryID:     categoryID,
				CategoryPublic: isPublic,
				Action:         permission.ActionDelete,
				TargetUserID:   ref.AuthorID,
			}); err != nil {
				return err
			}
		}

		removed, err := service.repo.Remove(ctx, categoryID, ref.ID)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.Conflict("Post is not in this category")
		}
		return nil
	})
	if err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "post_removed_from_category",
		slog.String("category_id", categoryID),
		slog.String("post_id", ref.ID),
		slog.String("actor_id", actorID),
		slog.Bool("by_author", actorID == ref.AuthorID),
	)

	return nil
}

// ListPosts pages through a category's posts. Requires view access.
func (service *Service) ListPosts(context context.Context, viewerID, categoryID string, params pagination.Params) ([]*post.Post, int, error) {
	isPublic, err := service.categories.Visibility(context, categoryID)
	if err != nil {
		return nil, 0, err
	}

	if err := service.permissions.Check(context, permission.Query{
		ActorID:        viewerID,
		CategoryID:     categoryID,
		CategoryPublic: isPublic,
		Action:         permission.ActionView,
	}); err != nil {
		return nil, 0, err
	}

	posts, total, err := service.repo.ListPosts(context, categoryID, viewerID, params)
	if err != nil {
		return nil, 0, err
	}

	if err := service.posts.LoadTags(context, posts); err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}
