// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package moderation

import (
	"context"

	"github.com/taibuivan/yomira-forum/pkg/pagination"
)

// Repository stores the append-only moderation log.
type Repository interface {

	// Append inserts an entry and fills its CreatedAt.
	Append(context context.Context, entry *LogEntry) error

	// List pages through a category's log, newest first.
	List(context context.Context, categoryID string, params pagination.Params) ([]*LogEntry, int, error)
}
