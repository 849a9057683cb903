// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"

	"github.com/taibuivan/yomira-forum/internal/core/permission"
	"github.com/taibuivan/yomira-forum/internal/core/tag"
	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/postgres"
	"github.com/taibuivan/yomira-forum/internal/platform/validate"
	"github.com/taibuivan/yomira-forum/pkg/pagination"
	"github.com/taibuivan/yomira-forum/pkg/slice"
	"github.com/taibuivan/yomira-forum/pkg/uuid"
)

// # Dependencies

// Tagger attaches and reads post tags.
type Tagger interface {
	Attach(context context.Context, postID string, raw []string) ([]string, error)
	NamesForPost(context context.Context, postID string) ([]string, error)
	NamesForPosts(context context.Context, postIDs []string) (map[string][]string, error)
}

// BlobStore holds attachment bytes.
type BlobStore interface {
	Put(context context.Context, key string, body io.Reader, limit int64) (int64, error)
	Open(context context.Context, key string) (io.ReadCloser, error)
	Delete(context context.Context, key string) error
}

// Service implements post business logic.
type Service struct {
	repo           Repository
	tags           Tagger
	blobs          BlobStore
	tx             postgres.Transactor
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewService constructs a new post [Service].
func NewService(repo Repository, tags Tagger, blobs BlobStore, tx postgres.Transactor, maxUploadBytes int64, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		tags:           tags,
		blobs:          blobs,
		tx:             tx,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// MaxUploadBytes is the attachment size limit.
func (service *Service) MaxUploadBytes() int64 {
	return service.maxUploadBytes
}

// # Posts

/*
Create stores a new post and its tags in one transaction.

Returns:
  - *Post: The stored post with normalised tags
  - error: Unauthorized, or Validation for bad fields or tags
*/
func (service *Service) Create(ctx context.Context, authorID string, input CreateInput) (*Post, error) {
	if authorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	title := strings.TrimSpace(input.Title)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).
		MaxLen(FieldTitle, title, TitleMaxLen).
		Required(FieldBody, input.Body).
		MaxLen(FieldBody, input.Body, BodyMaxLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := tag.NormalizeAll(input.Tags); err != nil {
		return nil, err
	}

	post := &Post{
		ID:       uuid.New(),
		AuthorID: authorID,
		Title:    title,
		Body:     input.Body,
		IsPublic: input.IsPublic == nil || *input.IsPublic,
	}

	err := service.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := service.repo.Create(ctx, post); err != nil {
			return err
		}

		names, err := service.tags.Attach(ctx, post.ID, input.Tags)
		if err != nil {
			return err
		}

		post.Tags = names
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "post_created",
		slog.String("post_id", post.ID),
		slog.String("author_id", authorID),
		slog.Int("tags", len(post.Tags)),
	)

	return post, nil
}

/*
Get returns a post with its tags and attachments.

Returns:
  - error: apperr.NotFound when the post does not exist or is private to
    someone else
*/
func (service *Service) Get(context context.Context, viewerID, postID string) (*Post, error) {
	post, err := service.visible(context, viewerID, postID)
	if err != nil {
		return nil, err
	}

	if post.Tags, err = service.tags.NamesForPost(context, post.ID); err != nil {
		return nil, err
	}
	if post.Files, err = service.repo.ListFiles(context, post.ID); err != nil {
		return nil, err
	}

	return post, nil
}

// Ref resolves a post for authorization checks in other domains, applying
// the same visibility rule as [Service.Get].
func (service *Service) Ref(context context.Context, viewerID, postID string) (*Ref, error) {
	post, err := service.visible(context, viewerID, postID)
	if err != nil {
		return nil, err
	}

	count, err := service.repo.CountFiles(context, post.ID)
	if err != nil {
		return nil, err
	}

	return &Ref{ID: post.ID, AuthorID: post.AuthorID, FileCount: count}, nil
}

func (service *Service) visible(context context.Context, viewerID, postID string) (*Post, error) {
	post, err := service.repo.FindByID(context, postID)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(viewerID) {
		return nil, apperr.NotFound("Post")
	}
	return post, nil
}

/*
List returns a page of posts matching the filter, newest first.

Private posts only appear to their author.
*/
func (service *Service) List(context context.Context, viewerID string, filter Filter, params pagination.Params) ([]*Post, int, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Author = strings.TrimSpace(filter.Author)

	validator := &validate.Validator{}
	validator.MaxLen("q", filter.Query, QueryMaxLen)
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	if filter.Tag != "" {
		filter.Tag = tag.Normalize(filter.Tag)
		if filter.Tag == "" {
			return []*Post{}, 0, nil
		}
	}

	posts, total, err := service.repo.List(context, viewerID, filter, params)
	if err != nil {
		return nil, 0, err
	}

	if err := service.LoadTags(context, posts); err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// LoadTags fills the Tags of a page of posts with one batched lookup.
func (service *Service) LoadTags(context context.Context, posts []*Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := slice.Map(posts, func(post *Post) string { return post.ID })

	names, err := service.tags.NamesForPosts(context, ids)
	if err != nil {
		return err
	}

	for _, post := range posts {
		if tags, ok := names[post.ID]; ok {
			post.Tags = tags
		} else {
			post.Tags = []string{}
		}
	}

	return nil
}

// # Attachments

// Upload is an incoming attachment stream.
type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

/*
AttachFile stores an attachment on a post. Only the author may attach, and
only while they hold canAttachFiles in every category the post already
belongs to.

The bytes are written to the blob store first; if recording the row fails the
blob is removed again.

Returns:
  - *File: The stored attachment
  - error: Unauthorized, NotFound, Forbidden, or Validation (name, size)
*/
func (service *Service) AttachFile(context context.Context, actorID, postID string, upload Upload) (*File, error) {
	if actorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	post, err := service.visible(context, actorID, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actorID {
		return nil, apperr.Forbidden("only the author can attach files")
	}

	name := cleanFileName(upload.Name)
	validator := &validate.Validator{}
	validator.Required(FieldFile, name).MaxLen(FieldFile, name, FileNameMaxLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	blocked, err := service.repo.AttachBlocked(context, post.ID, actorID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperr.Forbidden("missing " + string(permission.CapAttachFiles))
	}

	file := &File{
		ID:          uuid.New(),
		PostID:      post.ID,
		Name:        name,
		StorageKey:  uuid.New(),
		ContentType: cleanContentType(upload.ContentType),
	}

	if file.Size, err = service.blobs.Put(context, file.StorageKey, upload.Body, service.maxUploadBytes); err != nil {
		return nil, err
	}

	if err := service.repo.CreateFile(context, file); err != nil {
		if cleanupErr := service.blobs.Delete(context, file.StorageKey); cleanupErr != nil {
			service.logger.WarnContext(context, "orphan_blob",
				slog.String("storage_key", file.StorageKey),
				slog.Any("error", cleanupErr),
			)
		}
		return nil, err
	}

	service.logger.InfoContext(context, "file_attached",
		slog.String("post_id", post.ID),
		slog.String("file_id", file.ID),
		slog.Int64("size", file.Size),
	)

	return file, nil
}

/*
OpenFile returns an attachment and a reader for its bytes. The caller must
close the reader.
*/
func (service *Service) OpenFile(context context.Context, viewerID, postID, fileID string) (*File, io.ReadCloser, error) {
	post, err := service.visible(context, viewerID, postID)
	if err != nil {
		return nil, nil, err
	}

	file, err := service.repo.FindFile(context, post.ID, fileID)
	if err != nil {
		return nil, nil, err
	}

	body, err := service.blobs.Open(context, file.StorageKey)
	if err != nil {
		return nil, nil, err
	}

	return file, body, nil
}

// cleanFileName keeps only the final path element of a client-supplied name.
func cleanFileName(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}

func cleanContentType(contentType string) string {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return DefaultContentType
	}
	return mime.FormatMediaType(mediaType, params)
}
