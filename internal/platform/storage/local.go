// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage keeps post attachments as opaque blobs addressed by a storage key.

Blobs are sharded by the first two characters of their key so a single directory
never grows unbounded:

	<root>/ab/ab12cd...
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
)

// FieldFile is the validation field reported for oversized uploads.
const FieldFile = "file"

// LocalStore stores blobs on the local filesystem.
type LocalStore struct {
	root string
}

// NewLocalStore ensures root exists and returns a store rooted there.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create root %q: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

func (store *LocalStore) path(key string) (string, error) {
	if len(key) < 3 || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", apperr.ValidationError("Invalid storage key")
	}
	return filepath.Join(store.root, key[:2], key), nil
}

/*
Put streams body into the blob addressed by key.

The write goes to a temp file first and is renamed into place, so a failed or
oversized upload never leaves a partial blob behind.

Returns:
  - int64: Number of bytes written
  - error: Validation error when body exceeds limit bytes
*/
func (store *LocalStore) Put(context context.Context, key string, body io.Reader, limit int64) (int64, error) {
	target, err := store.path(key)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return 0, apperr.Internal(fmt.Errorf("storage_mkdir: %w", err))
	}

	temp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return 0, apperr.Internal(fmt.Errorf("storage_create_temp: %w", err))
	}
	defer os.Remove(temp.Name())

	written, err := io.Copy(temp, io.LimitReader(contextReader{context: context, reader: body}, limit+1))
	closeErr := temp.Close()

	switch {
	case err != nil:
		if cancelled := context.Err(); cancelled != nil && errors.Is(err, cancelled) {
			return 0, err
		}
		return 0, apperr.Internal(fmt.Errorf("storage_write: %w", err))
	case closeErr != nil:
		return 0, apperr.Internal(fmt.Errorf("storage_close: %w", closeErr))
	case written > limit:
		return 0, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldFile,
			Message: fmt.Sprintf("Maximum %d bytes", limit),
		})
	}

	if err := os.Rename(temp.Name(), target); err != nil {
		return 0, apperr.Internal(fmt.Errorf("storage_rename: %w", err))
	}

	return written, nil
}

// Open returns a reader for the blob. The caller closes it.
func (store *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	target, err := store.path(key)
	if err != nil {
		return nil, apperr.NotFound("File")
	}

	file, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("File")
		}
		return nil, apperr.Internal(fmt.Errorf("storage_open: %w", err))
	}

	return file, nil
}

// Delete removes the blob. Missing blobs are ignored.
func (store *LocalStore) Delete(_ context.Context, key string) error {
	target, err := store.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperr.Internal(fmt.Errorf("storage_delete: %w", err))
	}
	return nil
}

// contextReader stops a long upload once the request is cancelled.
type contextReader struct {
	context context.Context
	reader  io.Reader
}

func (r contextReader) Read(buffer []byte) (int, error) {
	if err := r.context.Err(); err != nil {
		return 0, err
	}
	return r.reader.Read(buffer)
}
