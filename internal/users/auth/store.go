// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Data Access Contracts

// UserRepository persists user accounts.
type UserRepository interface {

	/*
		Create persists a new user.

		Returns:
		  - error: apperr.Conflict when the username is taken
	*/
	Create(context context.Context, user *User) error

	// FindByUsername looks a user up case-insensitively. apperr.NotFound if absent.
	FindByUsername(context context.Context, username string) (*User, error)

	// FindByID returns apperr.NotFound if absent.
	FindByID(context context.Context, id string) (*User, error)

	// Exists returns apperr.NotFound if absent.
	Exists(context context.Context, id string) error
}

// SessionRepository stores browser sessions keyed by the token hash.
type SessionRepository interface {
	Create(context context.Context, tokenHash, userID string, ttl time.Duration) error

	// Find returns the owning user id, or apperr.NotFound once expired or deleted.
	Find(context context.Context, tokenHash string) (string, error)

	// Delete is a no-op for unknown hashes.
	Delete(context context.Context, tokenHash string) error
}
