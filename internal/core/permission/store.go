// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import "context"

// # Permission Data Access

// Repository defines the data access contract for permission records.
//
// Methods honour a transaction carried in the context.
type Repository interface {

	/*
		Find retrieves the record for (userID, categoryID).

		Returns:
		  - *Record: nil, with a nil error, when the user has no record
		  - error: Storage failures
	*/
	Find(context context.Context, userID, categoryID string) (*Record, error)

	// FindForUpdate is [Repository.Find] with a row lock held until the
	// surrounding transaction ends.
	FindForUpdate(context context.Context, userID, categoryID string) (*Record, error)

	// Create inserts a new record. A duplicate (user, category) is a conflict.
	Create(context context.Context, record *Record) error

	// Upsert inserts the record or replaces every capability and the level.
	Upsert(context context.Context, record *Record) error

	// SetCapability changes one capability of an existing record.
	SetCapability(context context.Context, userID, categoryID string, capability Capability, value bool) error

	// SetLevel changes the level of an existing record.
	SetLevel(context context.Context, userID, categoryID string, level int) error

	// ListByCategory returns every record in the category, most senior first.
	ListByCategory(context context.Context, categoryID string) ([]*Record, error)
}

// # Lookups

// CategoryLookup resolves category existence and visibility.
type CategoryLookup interface {
	// Visibility returns apperr.NotFound when the category does not exist.
	Visibility(context context.Context, categoryID string) (isPublic bool, err error)
}

// UserLookup resolves user existence.
type UserLookup interface {
	// Exists returns apperr.NotFound when the user does not exist.
	Exists(context context.Context, userID string) error
}
