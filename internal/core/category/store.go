// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import "context"

// Repository defines the data access contract for categories.
type Repository interface {

	// Create inserts a category. A duplicate slug is a conflict.
	Create(context context.Context, category *Category) error

	// FindByID returns apperr.NotFound for unknown or malformed ids.
	FindByID(context context.Context, id string) (*Category, error)

	// FindBySlug returns apperr.NotFound for unknown slugs.
	FindBySlug(context context.Context, slug string) (*Category, error)

	/*
		ListVisible returns public categories plus the private ones where
		viewerID holds canView.

		An empty viewerID lists only public categories.
	*/
	ListVisible(context context.Context, viewerID string) ([]*Category, error)

	// Visibility reports whether the category is public.
	Visibility(context context.Context, id string) (bool, error)
}
