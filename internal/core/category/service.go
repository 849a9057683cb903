// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/yomira-forum/internal/core/permission"
	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/postgres"
	"github.com/taibuivan/yomira-forum/internal/platform/validate"
	"github.com/taibuivan/yomira-forum/pkg/pointer"
	"github.com/taibuivan/yomira-forum/pkg/slug"
	"github.com/taibuivan/yomira-forum/pkg/uuid"
)

// # Dependencies

// Permissions is the slice of the permission service categories rely on.
type Permissions interface {
	GrantFull(context context.Context, userID, categoryID string) (*permission.Record, error)
	Check(context context.Context, query permission.Query) error
}

// Service implements category business logic.
type Service struct {
	repo        Repository
	permissions Permissions
	tx          postgres.Transactor
	logger      *slog.Logger
}

// NewService constructs a new category [Service].
func NewService(repo Repository, permissions Permissions, tx postgres.Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		permissions: permissions,
		tx:          tx,
		logger:      logger,
	}
}

// # Creation

/*
Create inserts the category and grants ownerID the full record at level 0
in the same transaction.

Returns:
  - *Category: The created category
  - error: Unauthorized, Validation or Conflict (name already used)
*/
func (service *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*Category, error) {
	if ownerID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	name := strings.TrimSpace(input.Name)
	categorySlug := slug.From(name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).
		MaxLen(FieldName, name, NameMaxLen)
	validator.Custom(FieldName, name != "" && categorySlug == "", "Must contain at least one letter or digit")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	category := &Category{
		ID:       uuid.New(),
		Name:     name,
		Slug:     categorySlug,
		IsPublic: pointer.Fallback(input.IsPublic, true),
		OwnerID:  ownerID,
	}

	err := service.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := service.repo.Create(ctx, category); err != nil {
			return err
		}
		_, err := service.permissions.GrantFull(ctx, ownerID, category.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "category_created",
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
		slog.String("owner_id", ownerID),
		slog.Bool("is_public", category.IsPublic),
	)

	return category, nil
}

// # Lookup

/*
Get resolves a category by id or slug and checks the caller may view it.

Returns:
  - error: NotFound, or Forbidden when a private category is not viewable
*/
func (service *Service) Get(context context.Context, viewerID, idOrSlug string) (*Category, error) {
	var (
		category *Category
		err      error
	)

	if uuid.Valid(idOrSlug) {
		category, err = service.repo.FindByID(context, idOrSlug)
	} else {
		category, err = service.repo.FindBySlug(context, idOrSlug)
	}
	if err != nil {
		return nil, err
	}

	if err := service.permissions.Check(context, permission.Query{
		ActorID:        viewerID,
		CategoryID:     category.ID,
		CategoryPublic: category.IsPublic,
		Action:         permission.ActionView,
	}); err != nil {
		return nil, err
	}

	return category, nil
}

// List returns every category the viewer may see.
func (service *Service) List(context context.Context, viewerID string) ([]*Category, error) {
	return service.repo.ListVisible(context, viewerID)
}

// Visibility implements permission.CategoryLookup.
func (service *Service) Visibility(context context.Context, categoryID string) (bool, error) {
	return service.repo.Visibility(context, categoryID)
}
