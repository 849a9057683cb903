// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/database/schema"
	"github.com/taibuivan/yomira-forum/internal/platform/dberr"
	"github.com/taibuivan/yomira-forum/internal/platform/postgres"
	"github.com/taibuivan/yomira-forum/pkg/pagination"
	"github.com/taibuivan/yomira-forum/pkg/uuid"
)

// PostgresRepository implements [Repository] on forum.post and forum.file.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a new [PostgresRepository].
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// postColumns is the scan order of [scanPost]; "p" is forum.post, "a" users.account.
var postColumns = []string{
	"p." + schema.ForumPost.ID,
	"p." + schema.ForumPost.AuthorID,
	"a." + schema.UserAccount.Username,
	"p." + schema.ForumPost.Title,
	"p." + schema.ForumPost.Body,
	"p." + schema.ForumPost.IsPublic,
	"p." + schema.ForumPost.PublishedAt,
}

var postFrom = fmt.Sprintf("%s p JOIN %s a ON a.%s = p.%s",
	schema.ForumPost.Table, schema.UserAccount.Table, schema.UserAccount.ID, schema.ForumPost.AuthorID)

func scanPost(row pgx.Row) (*Post, error) {
	post := &Post{Tags: []string{}}
	err := row.Scan(&post.ID, &post.AuthorID, &post.AuthorName, &post.Title, &post.Body, &post.IsPublic, &post.PublishedAt)
	return post, err
}

// likePattern wraps s for a substring ILIKE with its wildcards escaped.
func likePattern(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + escaped + "%"
}

// # Posts

// Create implements [Repository].
func (repository *PostgresRepository) Create(context context.Context, post *Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING %s`,
		schema.ForumPost.Table,
		schema.ForumPost.ID, schema.ForumPost.AuthorID, schema.ForumPost.Title,
		schema.ForumPost.Body, schema.ForumPost.IsPublic, schema.ForumPost.PublishedAt,
		schema.ForumPost.PublishedAt,
	)

	err := postgres.QuerierFrom(context, repository.db).
		QueryRow(context, query, post.ID, post.AuthorID, post.Title, post.Body, post.IsPublic).
		Scan(&post.PublishedAt)

	return dberr.Wrap(err, "create_post")
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Post, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Post")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE p.%s = $1`,
		strings.Join(postColumns, ", "), postFrom, schema.ForumPost.ID)

	post, err := scanPost(postgres.QuerierFrom(context, repository.db).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapNotFound(err, "find_post", "Post")
	}

	return post, nil
}

/*
List implements [Repository].

The filtered statement is built once with squirrel and reused for both the
COUNT and the page query.
*/
func (repository *PostgresRepository) List(context context.Context, viewerID string, filter Filter, params pagination.Params) ([]*Post, int, error) {
	visible := squirrel.Or{squirrel.Eq{"p." + schema.ForumPost.IsPublic: true}}
	if uuid.Valid(viewerID) {
		visible = append(visible, squirrel.Eq{"p." + schema.ForumPost.AuthorID: viewerID})
	}

	filtered := builder.Select().From(postFrom).Where(visible)

	pattern := ""
	if filter.Query != "" {
		pattern = likePattern(filter.Query)
		filtered = filtered.Where(squirrel.Or{
			squirrel.ILike{"p." + schema.ForumPost.Title: pattern},
			squirrel.ILike{"p." + schema.ForumPost.Body: pattern},
		})
	}

	if filter.Tag != "" {
		filtered = filtered.Where(fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s pt JOIN %s t ON t.%s = pt.%s WHERE pt.%s = p.%s AND t.%s = ?)",
			schema.ForumPostTag.Table, schema.ForumTag.Table, schema.ForumTag.ID, schema.ForumPostTag.TagID,
			schema.ForumPostTag.PostID, schema.ForumPost.ID, schema.ForumTag.Name,
		), filter.Tag)
	}

	if filter.Author != "" {
		filtered = filtered.Where(fmt.Sprintf("LOWER(a.%s) = LOWER(?)", schema.UserAccount.Username), filter.Author)
	}

	querier := postgres.QuerierFrom(context, repository.db)

	countSQL, countArgs, err := filtered.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, dberr.Wrap(err, "build_count_posts")
	}

	var total int
	if err := querier.QueryRow(context, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_posts")
	}
	if total == 0 {
		return []*Post{}, 0, nil
	}

	page := filtered.Columns(postColumns...)
	if pattern != "" {
		page = page.OrderByClause(fmt.Sprintf("CASE WHEN p.%s ILIKE ? THEN 0 ELSE 1 END", schema.ForumPost.Title), pattern)
	}
	page = page.
		OrderBy("p."+schema.ForumPost.PublishedAt+" DESC", "p."+schema.ForumPost.ID+" DESC").
		Limit(uint64(params.Limit)).
		Offset(uint64(params.Offset()))

	pageSQL, pageArgs, err := page.ToSql()
	if err != nil {
		return nil, 0, dberr.Wrap(err, "build_list_posts")
	}

	rows, err := querier.Query(context, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}
	defer rows.Close()

	posts := make([]*Post, 0, params.Limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_post")
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}

	return posts, total, nil
}

// # Attachments

var selectFile = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.ForumFile.Columns(), ", "), schema.ForumFile.Table)

func scanFile(row pgx.Row) (*File, error) {
	file := &File{}
	err := row.Scan(&file.ID, &file.PostID, &file.Name, &file.StorageKey, &file.ContentType, &file.Size, &file.CreatedAt)
	return file, err
}

// CreateFile implements [Repository].
func (repository *PostgresRepository) CreateFile(context context.Context, file *File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING %s`,
		schema.ForumFile.Table,
		schema.ForumFile.ID, schema.ForumFile.PostID, schema.ForumFile.Name, schema.ForumFile.StorageKey,
		schema.ForumFile.ContentType, schema.ForumFile.Size, schema.ForumFile.CreatedAt,
		schema.ForumFile.CreatedAt,
	)

	err := postgres.QuerierFrom(context, repository.db).
		QueryRow(context, query, file.ID, file.PostID, file.Name, file.StorageKey, file.ContentType, file.Size).
		Scan(&file.CreatedAt)

	return dberr.Wrap(err, "create_file")
}

// ListFiles implements [Repository].
func (repository *PostgresRepository) ListFiles(context context.Context, postID string) ([]*File, error) {
	query := selectFile + fmt.Sprintf(` WHERE %s = $1 ORDER BY %s ASC`, schema.ForumFile.PostID, schema.ForumFile.CreatedAt)

	rows, err := postgres.QuerierFrom(context, repository.db).Query(context, query, postID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_files")
	}
	defer rows.Close()

	files := make([]*File, 0)
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_file")
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_files")
	}

	return files, nil
}

// FindFile implements [Repository].
func (repository *PostgresRepository) FindFile(context context.Context, postID, fileID string) (*File, error) {
	if !uuid.Valid(fileID) {
		return nil, apperr.NotFound("File")
	}

	query := selectFile + fmt.Sprintf(` WHERE %s = $1 AND %s = $2`, schema.ForumFile.ID, schema.ForumFile.PostID)

	file, err := scanFile(postgres.QuerierFrom(context, repository.db).QueryRow(context, query, fileID, postID))
	if err != nil {
		return nil, dberr.WrapNotFound(err, "find_file", "File")
	}

	return file, nil
}

// AttachBlocked implements [Repository].
func (repository *PostgresRepository) AttachBlocked(context context.Context, postID, userID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1
			FROM %s cp
			LEFT JOIN %s perm ON perm.%s = cp.%s AND perm.%s = $2
			WHERE cp.%s = $1 AND COALESCE(perm.%s, FALSE) = FALSE
		)`,
		schema.ForumCategoryPost.Table,
		schema.ForumPermission.Table, schema.ForumPermission.CategoryID, schema.ForumCategoryPost.CategoryID,
		schema.ForumPermission.UserID,
		schema.ForumCategoryPost.PostID, schema.ForumPermission.CanAttachFiles,
	)

	var blocked bool
	if err := postgres.QuerierFrom(context, repository.db).QueryRow(context, query, postID, userID).Scan(&blocked); err != nil {
		return false, dberr.Wrap(err, "check_attach_blocked")
	}

	return blocked, nil
}

// CountFiles implements [Repository].
func (repository *PostgresRepository) CountFiles(context context.Context, postID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.ForumFile.Table, schema.ForumFile.PostID)

	var count int
	if err := postgres.QuerierFrom(context, repository.db).QueryRow(context, query, postID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_files")
	}

	return count, nil
}
