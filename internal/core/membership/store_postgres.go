// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yomira-forum/internal/core/post"
	"github.com/taibuivan/yomira-forum/internal/platform/database/schema"
	"github.com/taibuivan/yomira-forum/internal/platform/dberr"
	"github.com/taibuivan/yomira-forum/internal/platform/postgres"
	"github.com/taibuivan/yomira-forum/pkg/pagination"
	"github.com/taibuivan/yomira-forum/pkg/uuid"
)

// PostgresRepository implements [Repository] on forum.categorypost.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a new [PostgresRepository].
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Add implements [Repository].

ON CONFLICT DO NOTHING returns no row for an existing edge, in which case the
stored edge is read back.
*/
func (repository *PostgresRepository) Add(context context.Context, categoryID, postID, addedBy string) (*Membership, error) {
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (%s, %s) DO NOTHING
		RETURNING %s, %s`,
		schema.ForumCategoryPost.Table,
		schema.ForumCategoryPost.CategoryID, schema.ForumCategoryPost.PostID,
		schema.ForumCategoryPost.AddedBy, schema.ForumCategoryPost.AddedAt,
		schema.ForumCategoryPost.CategoryID, schema.ForumCategoryPost.PostID,
		schema.ForumCategoryPost.AddedBy, schema.ForumCategoryPost.AddedAt,
	)

	querier := postgres.QuerierFrom(context, repository.db)
	membership := &Membership{CategoryID: categoryID, PostID: postID, Created: true}

	err := querier.QueryRow(context, insert, categoryID, postID, addedBy).Scan(&membership.AddedBy, &membership.AddedAt)
	if err == nil {
		return membership, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, dberr.Wrap(err, "add_category_post")
	}

	existing := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.ForumCategoryPost.AddedBy, schema.ForumCategoryPost.AddedAt,
		schema.ForumCategoryPost.Table,
		schema.ForumCategoryPost.CategoryID, schema.ForumCategoryPost.PostID,
	)

	membership.Created = false
	if err := querier.QueryRow(context, existing, categoryID, postID).Scan(&membership.AddedBy, &membership.AddedAt); err != nil {
		return nil, dberr.Wrap(err, "find_category_post")
	}

	return membership, nil
}

// Remove implements [Repository].
func (repository *PostgresRepository) Remove(context context.Context, categoryID, postID string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.ForumCategoryPost.Table, schema.ForumCategoryPost.CategoryID, schema.ForumCategoryPost.PostID)

	result, err := postgres.QuerierFrom(context, repository.db).Exec(context, query, categoryID, postID)
	if err != nil {
		return false, dberr.Wrap(err, "remove_category_post")
	}

	return result.RowsAffected() > 0, nil
}

var listFrom = fmt.Sprintf(`
	FROM %s cp
	JOIN %s p ON p.%s = cp.%s
	JOIN %s a ON a.%s = p.%s
	WHERE cp.%s = $1 AND (p.%s OR p.%s = $2::uuid)`,
	schema.ForumCategoryPost.Table,
	schema.ForumPost.Table, schema.ForumPost.ID, schema.ForumCategoryPost.PostID,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.ForumPost.AuthorID,
	schema.ForumCategoryPost.CategoryID, schema.ForumPost.IsPublic, schema.ForumPost.AuthorID,
)

// ListPosts implements [Repository].
func (repository *PostgresRepository) ListPosts(context context.Context, categoryID, viewerID string, params pagination.Params) ([]*post.Post, int, error) {
	var viewer any
	if uuid.Valid(viewerID) {
		viewer = viewerID
	}

	querier := postgres.QuerierFrom(context, repository.db)

	var total int
	if err := querier.QueryRow(context, "SELECT COUNT(*)"+listFrom, categoryID, viewer).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_category_posts")
	}
	if total == 0 {
		return []*post.Post{}, 0, nil
	}

	query := fmt.Sprintf(`SELECT p.%s, p.%s, a.%s, p.%s, p.%s, p.%s, p.%s %s ORDER BY cp.%s DESC, p.%s DESC LIMIT $3 OFFSET $4`,
		schema.ForumPost.ID, schema.ForumPost.AuthorID, schema.UserAccount.Username,
		schema.ForumPost.Title, schema.ForumPost.Body, schema.ForumPost.IsPublic, schema.ForumPost.PublishedAt,
		listFrom,
		schema.ForumCategoryPost.AddedAt, schema.ForumPost.ID,
	)

	rows, err := querier.Query(context, query, categoryID, viewer, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_category_posts")
	}
	defer rows.Close()

	posts := make([]*post.Post, 0, params.Limit)
	for rows.Next() {
		item := &post.Post{Tags: []string{}}
		if err := rows.Scan(&item.ID, &item.AuthorID, &item.AuthorName, &item.Title, &item.Body, &item.IsPublic, &item.PublishedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_category_post")
		}
		posts = append(posts, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_category_posts")
	}

	return posts, total, nil
}
