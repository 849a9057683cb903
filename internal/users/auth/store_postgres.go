// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/database/schema"
	"github.com/taibuivan/yomira-forum/internal/platform/dberr"
	"github.com/taibuivan/yomira-forum/internal/platform/postgres"
	"github.com/taibuivan/yomira-forum/pkg/uuid"
)

// PostgresUserRepository implements [UserRepository] on users.account.
type PostgresUserRepository struct {
	db postgres.DB
}

// NewUserRepository creates a new Postgres implementation for accounts.
func NewUserRepository(db postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

/*
Create inserts a new account row.

Returns:
  - error: apperr.Conflict if the username is taken (case-insensitive index)
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Password, schema.UserAccount.CreatedAt,
		schema.UserAccount.CreatedAt,
	)

	err := postgres.QuerierFrom(context, repository.db).
		QueryRow(context, query, user.ID, user.Username, user.PasswordHash).
		Scan(&user.CreatedAt)

	if appErr := apperr.As(dberr.Wrap(err, "create_user")); appErr != nil {
		if appErr.Code == apperr.CodeConflict {
			return apperr.Conflict("Username is already taken")
		}
		return appErr
	}

	return nil
}

func (repository *PostgresUserRepository) findOne(context context.Context, where string, arg any) (*User, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Password, schema.UserAccount.CreatedAt,
		schema.UserAccount.Table, where,
	)

	user := &User{}
	err := postgres.QuerierFrom(context, repository.db).QueryRow(context, query, arg).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, dberr.WrapNotFound(err, "find_user", "User")
	}

	return user, nil
}

// FindByUsername implements [UserRepository].
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, fmt.Sprintf("LOWER(%s) = LOWER($1)", schema.UserAccount.Username), username)
}

// FindByID implements [UserRepository].
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("User")
	}
	return repository.findOne(context, schema.UserAccount.ID+" = $1", id)
}

// Exists implements [UserRepository].
func (repository *PostgresUserRepository) Exists(context context.Context, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("User")
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.UserAccount.Table, schema.UserAccount.ID)

	var exists bool
	if err := postgres.QuerierFrom(context, repository.db).QueryRow(context, query, id).Scan(&exists); err != nil {
		return dberr.Wrap(err, "user_exists")
	}
	if !exists {
		return apperr.NotFound("User")
	}

	return nil
}
