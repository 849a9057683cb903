// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/database/schema"
	"github.com/taibuivan/yomira-forum/internal/platform/dberr"
	"github.com/taibuivan/yomira-forum/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on forum.permission.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a new [PostgresRepository].
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// capabilityColumn whitelists the columns SetCapability may write.
var capabilityColumn = map[Capability]string{
	CapPost:        schema.ForumPermission.CanPost,
	CapDelete:      schema.ForumPermission.CanDelete,
	CapView:        schema.ForumPermission.CanView,
	CapTimeout:     schema.ForumPermission.CanTimeout,
	CapAttachFiles: schema.ForumPermission.CanAttachFiles,
	CapMute:        schema.ForumPermission.CanMute,
	CapBan:         schema.ForumPermission.CanBan,
	CapPromote:     schema.ForumPermission.CanPromote,
	CapModify:      schema.ForumPermission.CanModify,
}

var selectRecord = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
	strings.Join(schema.ForumPermission.Columns(), ", "),
	schema.ForumPermission.Table,
	schema.ForumPermission.UserID, schema.ForumPermission.CategoryID,
)

func scanRecord(row pgx.Row, record *Record, extra ...any) error {
	return row.Scan(append([]any{
		&record.UserID, &record.CategoryID,
		&record.CanPost, &record.CanDelete, &record.CanView, &record.CanTimeout, &record.CanAttachFiles,
		&record.CanMute, &record.CanBan, &record.CanPromote, &record.CanModify,
		&record.Level, &record.CreatedAt, &record.UpdatedAt,
	}, extra...)...)
}

func (repository *PostgresRepository) find(context context.Context, query, action string, userID, categoryID string) (*Record, error) {
	record := &Record{}
	err := scanRecord(postgres.QuerierFrom(context, repository.db).QueryRow(context, query, userID, categoryID), record)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, action)
	}
	return record, nil
}

// Find implements [Repository].
func (repository *PostgresRepository) Find(context context.Context, userID, categoryID string) (*Record, error) {
	return repository.find(context, selectRecord, "find_permission", userID, categoryID)
}

// FindForUpdate implements [Repository].
func (repository *PostgresRepository) FindForUpdate(context context.Context, userID, categoryID string) (*Record, error) {
	return repository.find(context, selectRecord+" FOR UPDATE", "lock_permission", userID, categoryID)
}

/*
Create inserts a new permission record.

Returns:
  - error: apperr.Conflict when the pair already has a record
*/
func (repository *PostgresRepository) Create(context context.Context, record *Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING %s, %s`,
		schema.ForumPermission.Table,
		strings.Join(schema.ForumPermission.Columns(), ", "),
		schema.ForumPermission.CreatedAt, schema.ForumPermission.UpdatedAt,
	)

	err := postgres.QuerierFrom(context, repository.db).QueryRow(context, query, recordArgs(record)...).
		Scan(&record.CreatedAt, &record.UpdatedAt)
	return dberr.Wrap(err, "create_permission")
}

/*
Upsert writes the full record, replacing an existing one for the same pair.
*/
func (repository *PostgresRepository) Upsert(context context.Context, record *Record) error {
	table := schema.ForumPermission
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (%s, %s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = NOW()
		RETURNING %s, %s`,
		table.Table, strings.Join(table.Columns(), ", "),
		table.UserID, table.CategoryID,
		table.CanPost, table.CanPost, table.CanDelete, table.CanDelete, table.CanView, table.CanView,
		table.CanTimeout, table.CanTimeout, table.CanAttachFiles, table.CanAttachFiles, table.CanMute, table.CanMute,
		table.CanBan, table.CanBan, table.CanPromote, table.CanPromote, table.CanModify, table.CanModify,
		table.Level, table.Level, table.UpdatedAt,
		table.CreatedAt, table.UpdatedAt,
	)

	err := postgres.QuerierFrom(context, repository.db).QueryRow(context, query, recordArgs(record)...).
		Scan(&record.CreatedAt, &record.UpdatedAt)
	return dberr.Wrap(err, "upsert_permission")
}

func recordArgs(record *Record) []any {
	return []any{
		record.UserID, record.CategoryID,
		record.CanPost, record.CanDelete, record.CanView, record.CanTimeout, record.CanAttachFiles,
		record.CanMute, record.CanBan, record.CanPromote, record.CanModify,
		record.Level,
	}
}

// SetCapability implements [Repository].
func (repository *PostgresRepository) SetCapability(context context.Context, userID, categoryID string, capability Capability, value bool) error {
	column, ok := capabilityColumn[capability]
	if !ok {
		return apperr.ValidationError(fmt.Sprintf("unknown capability %q", capability))
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = NOW() WHERE %s = $1 AND %s = $2`,
		schema.ForumPermission.Table, column, schema.ForumPermission.UpdatedAt,
		schema.ForumPermission.UserID, schema.ForumPermission.CategoryID,
	)

	return repository.update(context, "set_permission_capability", query, userID, categoryID, value)
}

// SetLevel implements [Repository].
func (repository *PostgresRepository) SetLevel(context context.Context, userID, categoryID string, level int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = NOW() WHERE %s = $1 AND %s = $2`,
		schema.ForumPermission.Table, schema.ForumPermission.Level, schema.ForumPermission.UpdatedAt,
		schema.ForumPermission.UserID, schema.ForumPermission.CategoryID,
	)

	return repository.update(context, "set_permission_level", query, userID, categoryID, level)
}

func (repository *PostgresRepository) update(context context.Context, action, query string, args ...any) error {
	tag, err := postgres.QuerierFrom(context, repository.db).Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Permission record")
	}
	return nil
}

/*
ListByCategory returns the category roster joined with usernames.

Returns:
  - []*Record: Ordered by level then username
  - error: Storage failures
*/
func (repository *PostgresRepository) ListByCategory(context context.Context, categoryID string) ([]*Record, error) {
	columns := make([]string, 0, len(schema.ForumPermission.Columns()))
	for _, column := range schema.ForumPermission.Columns() {
		columns = append(columns, "p."+column)
	}

	query := fmt.Sprintf(`
		SELECT %s, a.%s
		FROM %s p
		JOIN %s a ON a.%s = p.%s
		WHERE p.%s = $1
		ORDER BY p.%s ASC, a.%s ASC`,
		strings.Join(columns, ", "), schema.UserAccount.Username,
		schema.ForumPermission.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.ForumPermission.UserID,
		schema.ForumPermission.CategoryID,
		schema.ForumPermission.Level, schema.UserAccount.Username,
	)

	rows, err := postgres.QuerierFrom(context, repository.db).Query(context, query, categoryID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_permissions")
	}
	defer rows.Close()

	records := make([]*Record, 0)
	for rows.Next() {
		record := &Record{}
		if err := scanRecord(rows, record, &record.Username); err != nil {
			return nil, dberr.Wrap(err, "scan_permission")
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_permissions")
	}

	return records, nil
}
