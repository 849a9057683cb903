// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package category owns forum categories: creation (with the owner's full
permission record), lookup by id or slug, and visibility.

Every category has exactly one owner, who receives level 0 and every capability
in the same transaction that creates the category.
*/
package category

import "time"

// # Domain Model

// Category is a named grouping of posts.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsPublic  bool      `json:"is_public"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInput is the payload for creating a category.
type CreateInput struct {
	Name     string `json:"name"`
	IsPublic *bool  `json:"is_public"`
}

// # Constants

const (
	FieldName = "name"

	NameMaxLen = 120
)
