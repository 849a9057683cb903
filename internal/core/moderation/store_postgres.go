// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package moderation

import (
	"context"
	"fmt"

	"github.com/taibuivan/yomira-forum/internal/core/permission"
	"github.com/taibuivan/yomira-forum/internal/platform/database/schema"
	"github.com/taibuivan/yomira-forum/internal/platform/dberr"
	"github.com/taibuivan/yomira-forum/internal/platform/postgres"
	"github.com/taibuivan/yomira-forum/pkg/pagination"
)

// PostgresRepository implements [Repository] on forum.moderationlog.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a new [PostgresRepository].
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append implements [Repository].
func (repository *PostgresRepository) Append(context context.Context, entry *LogEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING %s`,
		schema.ForumModerationLog.Table,
		schema.ForumModerationLog.ID, schema.ForumModerationLog.CategoryID, schema.ForumModerationLog.ActorID,
		schema.ForumModerationLog.TargetID, schema.ForumModerationLog.Action, schema.ForumModerationLog.LevelAfter,
		schema.ForumModerationLog.CreatedAt,
		schema.ForumModerationLog.CreatedAt,
	)

	err := postgres.QuerierFrom(context, repository.db).
		QueryRow(context, query,
			entry.ID, entry.CategoryID, entry.ActorID, entry.TargetID, string(entry.Action), entry.LevelAfter,
		).
		Scan(&entry.CreatedAt)

	return dberr.Wrap(err, "append_moderation_log")
}

// List implements [Repository].
func (repository *PostgresRepository) List(context context.Context, categoryID string, params pagination.Params) ([]*LogEntry, int, error) {
	querier := postgres.QuerierFrom(context, repository.db)

	count := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.ForumModerationLog.Table, schema.ForumModerationLog.CategoryID)

	var total int
	if err := querier.QueryRow(context, count, categoryID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_moderation_log")
	}
	if total == 0 {
		return []*LogEntry{}, 0, nil
	}

	query := fmt.Sprintf(`
		SELECT m.%s, m.%s, m.%s, actor.%s, m.%s, target.%s, m.%s, m.%s, m.%s
		FROM %s m
		JOIN %s actor ON actor.%s = m.%s
		JOIN %s target ON target.%s = m.%s
		WHERE m.%s = $1
		ORDER BY m.%s DESC
		LIMIT $2 OFFSET $3`,
		schema.ForumModerationLog.ID, schema.ForumModerationLog.CategoryID,
		schema.ForumModerationLog.ActorID, schema.UserAccount.Username,
		schema.ForumModerationLog.TargetID, schema.UserAccount.Username,
		schema.ForumModerationLog.Action, schema.ForumModerationLog.LevelAfter, schema.ForumModerationLog.CreatedAt,
		schema.ForumModerationLog.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.ForumModerationLog.ActorID,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.ForumModerationLog.TargetID,
		schema.ForumModerationLog.CategoryID,
		schema.ForumModerationLog.CreatedAt,
	)

	rows, err := querier.Query(context, query, categoryID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_moderation_log")
	}
	defer rows.Close()

	entries := make([]*LogEntry, 0, params.Limit)
	for rows.Next() {
		entry := &LogEntry{}
		var action string
		if err := rows.Scan(
			&entry.ID, &entry.CategoryID,
			&entry.ActorID, &entry.ActorName,
			&entry.TargetID, &entry.TargetName,
			&action, &entry.LevelAfter, &entry.CreatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_moderation_log")
		}
		entry.Action = permission.Action(action)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_moderation_log")
	}

	return entries, total, nil
}
