// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/taibuivan/yomira-forum/internal/platform/database/schema"
	"github.com/taibuivan/yomira-forum/internal/platform/dberr"
	"github.com/taibuivan/yomira-forum/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on forum.tag and forum.posttag.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a new [PostgresRepository].
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert implements [Repository].
func (repository *PostgresRepository) Upsert(context context.Context, names []string) ([]Tag, error) {
	if len(names) == 0 {
		return []Tag{}, nil
	}

	// The no-op update makes RETURNING yield rows that already existed.
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		SELECT UNNEST($1::text[])
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s
		RETURNING %s, %s`,
		schema.ForumTag.Table, schema.ForumTag.Name,
		schema.ForumTag.Name, schema.ForumTag.Name, schema.ForumTag.Name,
		schema.ForumTag.ID, schema.ForumTag.Name,
	)

	rows, err := postgres.QuerierFrom(context, repository.db).Query(context, query, names)
	if err != nil {
		return nil, dberr.Wrap(err, "upsert_tags")
	}
	defer rows.Close()

	tags := make([]Tag, 0, len(names))
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "upsert_tags")
	}

	return tags, nil
}

// Attach implements [Repository].
func (repository *PostgresRepository) Attach(context context.Context, postID string, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT $1, UNNEST($2::bigint[])
		ON CONFLICT DO NOTHING`,
		schema.ForumPostTag.Table, schema.ForumPostTag.PostID, schema.ForumPostTag.TagID,
	)

	_, err := postgres.QuerierFrom(context, repository.db).Exec(context, query, postID, tagIDs)
	return dberr.Wrap(err, "attach_tags")
}

// NamesForPost implements [Repository].
func (repository *PostgresRepository) NamesForPost(context context.Context, postID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT t.%s
		FROM %s t
		JOIN %s pt ON pt.%s = t.%s
		WHERE pt.%s = $1
		ORDER BY t.%s ASC`,
		schema.ForumTag.Name,
		schema.ForumTag.Table,
		schema.ForumPostTag.Table, schema.ForumPostTag.TagID, schema.ForumTag.ID,
		schema.ForumPostTag.PostID,
		schema.ForumTag.Name,
	)

	rows, err := postgres.QuerierFrom(context, repository.db).Query(context, query, postID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_post_tags")
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, dberr.Wrap(err, "scan_post_tag")
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_post_tags")
	}

	return names, nil
}

// NamesForPosts implements [Repository].
func (repository *PostgresRepository) NamesForPosts(context context.Context, postIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	query, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("pt."+schema.ForumPostTag.PostID, "t."+schema.ForumTag.Name).
		From(schema.ForumPostTag.Table + " pt").
		Join(fmt.Sprintf("%s t ON t.%s = pt.%s", schema.ForumTag.Table, schema.ForumTag.ID, schema.ForumPostTag.TagID)).
		Where(squirrel.Eq{"pt." + schema.ForumPostTag.PostID: postIDs}).
		OrderBy("t." + schema.ForumTag.Name + " ASC").
		ToSql()
	if err != nil {
		return nil, dberr.Wrap(err, "build_post_tags")
	}

	rows, err := postgres.QuerierFrom(context, repository.db).Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_posts_tags")
	}
	defer rows.Close()

	for rows.Next() {
		var postID, name string
		if err := rows.Scan(&postID, &name); err != nil {
			return nil, dberr.Wrap(err, "scan_posts_tag")
		}
		result[postID] = append(result[postID], name)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_posts_tags")
	}

	return result, nil
}

var selectWithCount = fmt.Sprintf(`
	SELECT t.%s, t.%s, COUNT(pt.%s)
	FROM %s t
	LEFT JOIN %s pt ON pt.%s = t.%s`,
	schema.ForumTag.ID, schema.ForumTag.Name, schema.ForumPostTag.PostID,
	schema.ForumTag.Table,
	schema.ForumPostTag.Table, schema.ForumPostTag.TagID, schema.ForumTag.ID,
)

var groupByTag = fmt.Sprintf(` GROUP BY t.%s, t.%s`, schema.ForumTag.ID, schema.ForumTag.Name)

// List implements [Repository].
func (repository *PostgresRepository) List(context context.Context) ([]*Tag, error) {
	query := selectWithCount + groupByTag + fmt.Sprintf(` ORDER BY 3 DESC, t.%s ASC`, schema.ForumTag.Name)

	rows, err := postgres.QuerierFrom(context, repository.db).Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tags")
	}
	defer rows.Close()

	tags := make([]*Tag, 0)
	for rows.Next() {
		tag := &Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.PostCount); err != nil {
			return nil, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_tags")
	}

	return tags, nil
}

// FindByName implements [Repository].
func (repository *PostgresRepository) FindByName(context context.Context, name string) (*Tag, error) {
	query := selectWithCount + fmt.Sprintf(` WHERE t.%s = $1`, schema.ForumTag.Name) + groupByTag

	tag := &Tag{}
	err := postgres.QuerierFrom(context, repository.db).QueryRow(context, query, name).
		Scan(&tag.ID, &tag.Name, &tag.PostCount)
	if err != nil {
		return nil, dberr.WrapNotFound(err, "find_tag", "Tag")
	}

	return tag, nil
}
