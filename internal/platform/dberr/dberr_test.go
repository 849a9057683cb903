// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/dberr"
)

/*
TestWrap classifies driver errors into the API taxonomy.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, apperr.CodeConflict},
		{"foreign_key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, apperr.CodeNotFound},
		{"other_pg", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, apperr.CodeInternal},
		{"plain", errors.New("broken pipe"), apperr.CodeInternal},
		{"app_error_passthrough", apperr.Forbidden("no"), apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperr.HasCode(dberr.Wrap(tt.err, "test_action"), tt.code))
		})
	}
}

/*
TestWrap_PassThrough keeps nil and cancellation errors out of the 500 bucket.
*/
func TestWrap_PassThrough(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	wrapped := dberr.Wrap(fmt.Errorf("query: %w", context.Canceled), "list_posts")
	assert.ErrorIs(t, wrapped, context.Canceled)
	assert.Nil(t, apperr.As(wrapped))
}

/*
TestWrapNotFound names the missing resource.
*/
func TestWrapNotFound(t *testing.T) {
	err := dberr.WrapNotFound(pgx.ErrNoRows, "find_post", "Post")
	assert.Equal(t, "Post not found", err.Error())
}
