// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/database/schema"
	"github.com/taibuivan/yomira-forum/internal/platform/dberr"
	"github.com/taibuivan/yomira-forum/internal/platform/postgres"
	"github.com/taibuivan/yomira-forum/pkg/uuid"
)

// PostgresRepository implements [Repository] on forum.category.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a new [PostgresRepository].
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectCategory = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.ForumCategory.Columns(), ", "), schema.ForumCategory.Table)

func scanCategory(row pgx.Row) (*Category, error) {
	category := &Category{}
	err := row.Scan(&category.ID, &category.Name, &category.Slug, &category.IsPublic, &category.OwnerID, &category.CreatedAt)
	return category, err
}

/*
Create inserts a new category row.

Returns:
  - error: apperr.Conflict when the slug is taken
*/
func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING %s`,
		schema.ForumCategory.Table,
		schema.ForumCategory.ID, schema.ForumCategory.Name, schema.ForumCategory.Slug,
		schema.ForumCategory.IsPublic, schema.ForumCategory.OwnerID, schema.ForumCategory.CreatedAt,
		schema.ForumCategory.CreatedAt,
	)

	err := postgres.QuerierFrom(context, repository.db).
		QueryRow(context, query, category.ID, category.Name, category.Slug, category.IsPublic, category.OwnerID).
		Scan(&category.CreatedAt)

	if appErr := apperr.As(dberr.Wrap(err, "create_category")); appErr != nil {
		if appErr.Code == apperr.CodeConflict {
			return apperr.Conflict("A category with this name already exists")
		}
		return appErr
	}

	return nil
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Category, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Category")
	}

	query := selectCategory + fmt.Sprintf(" WHERE %s = $1", schema.ForumCategory.ID)
	category, err := scanCategory(postgres.QuerierFrom(context, repository.db).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapNotFound(err, "find_category", "Category")
	}

	return category, nil
}

// FindBySlug implements [Repository].
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Category, error) {
	query := selectCategory + fmt.Sprintf(" WHERE %s = $1", schema.ForumCategory.Slug)
	category, err := scanCategory(postgres.QuerierFrom(context, repository.db).QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.WrapNotFound(err, "find_category_by_slug", "Category")
	}

	return category, nil
}

// ListVisible implements [Repository].
func (repository *PostgresRepository) ListVisible(context context.Context, viewerID string) ([]*Category, error) {
	var viewer any
	if uuid.Valid(viewerID) {
		viewer = viewerID
	}

	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s, c.%s
		FROM %s c
		WHERE c.%s
		   OR EXISTS (
		       SELECT 1 FROM %s p
		       WHERE p.%s = c.%s AND p.%s = $1::uuid AND p.%s
		   )
		ORDER BY c.%s ASC`,
		schema.ForumCategory.ID, schema.ForumCategory.Name, schema.ForumCategory.Slug,
		schema.ForumCategory.IsPublic, schema.ForumCategory.OwnerID, schema.ForumCategory.CreatedAt,
		schema.ForumCategory.Table,
		schema.ForumCategory.IsPublic,
		schema.ForumPermission.Table,
		schema.ForumPermission.CategoryID, schema.ForumCategory.ID,
		schema.ForumPermission.UserID, schema.ForumPermission.CanView,
		schema.ForumCategory.Name,
	)

	rows, err := postgres.QuerierFrom(context, repository.db).Query(context, query, viewer)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}

	return categories, nil
}

// Visibility implements [Repository] and permission.CategoryLookup.
func (repository *PostgresRepository) Visibility(context context.Context, id string) (bool, error) {
	if !uuid.Valid(id) {
		return false, apperr.NotFound("Category")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.ForumCategory.IsPublic, schema.ForumCategory.Table, schema.ForumCategory.ID)

	var isPublic bool
	if err := postgres.QuerierFrom(context, repository.db).QueryRow(context, query, id).Scan(&isPublic); err != nil {
		return false, dberr.WrapNotFound(err, "category_visibility", "Category")
	}

	return isPublic, nil
}
