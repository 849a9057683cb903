// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/constants"
	requestutil "github.com/taibuivan/yomira-forum/internal/platform/request"
	"github.com/taibuivan/yomira-forum/internal/platform/respond"
	"github.com/taibuivan/yomira-forum/internal/platform/validate"
	"github.com/taibuivan/yomira-forum/pkg/pagination"
)

// multipartOverhead is the allowance for multipart framing on top of the file limit.
const multipartOverhead = 64 << 10

// # Handler Implementation

// Handler implements the HTTP layer for posts and attachments.
type Handler struct {
	service *Service
}

// NewHandler constructs a new post [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the post endpoints on a router scoped to /posts.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Post("/", handler.create)

	router.Route("/{"+constants.ParamPostID+"}", func(item chi.Router) {
		item.Get("/", handler.get)
		item.Post("/files", handler.upload)
		item.Get("/files/{"+constants.ParamFileID+"}", handler.download)
	})
}

/*
GET /api/v1/posts.

Request (Query):
  - q: Substring of title or body
  - tag: Tag name
  - author: Username
  - page, limit: Pagination

Response:
  - 200: []Post with pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	params := pagination.FromRequest(request)

	posts, total, err := handler.service.List(request.Context(), requestutil.UserID(request), Filter{
		Query:  query.Get("q"),
		Tag:    query.Get("tag"),
		Author: query.Get("author"),
	}, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(params, total))
}

/*
POST /api/v1/posts.

Request (Body):
  - title, body: string (required)
  - is_public: bool (default true)
  - tags: []string

Response:
  - 201: Post
  - 400, 401
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Create(request.Context(), authorID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, post)
}

// GET /api/v1/posts/{postID}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.service.Get(request.Context(),
		requestutil.UserID(request),
		requestutil.Param(request, constants.ParamPostID),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

/*
POST /api/v1/posts/{postID}/files.

Description: Streams the multipart part named "file" into the blob store.
Parts before it are skipped.

Response:
  - 201: File
  - 400: Missing part, bad name or file too large
  - 401, 403, 404
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, handler.service.MaxUploadBytes()+multipartOverhead)

	reader, err := request.MultipartReader()
	if err != nil {
		respond.Error(writer, request, validate.FieldErr(FieldFile, "Expected a multipart/form-data body"))
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			respond.Error(writer, request, validate.FieldErr(FieldFile, "This field is required"))
			return
		}
		if err != nil {
			respond.Error(writer, request, uploadError(err))
			return
		}

		if part.FormName() != FieldFile {
			part.Close()
			continue
		}

		file, err := handler.service.AttachFile(request.Context(), actorID,
			requestutil.Param(request, constants.ParamPostID),
			Upload{
				Name:        part.FileName(),
				ContentType: part.Header.Get("Content-Type"),
				Body:        part,
			},
		)
		part.Close()
		if err != nil {
			respond.Error(writer, request, uploadError(err))
			return
		}

		respond.Created(writer, file)
		return
	}
}

// uploadError reports an exceeded body limit as a validation failure.
func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return validate.FieldErr(FieldFile, "File exceeds the upload limit")
	}
	if apperr.As(err) != nil {
		return err
	}
	return validate.FieldErr(FieldFile, "Malformed multipart body")
}

// GET /api/v1/posts/{postID}/files/{fileID}.
func (handler *Handler) download(writer http.ResponseWriter, request *http.Request) {
	file, body, err := handler.service.OpenFile(request.Context(),
		requestutil.UserID(request),
		requestutil.Param(request, constants.ParamPostID),
		requestutil.Param(request, constants.ParamFileID),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer body.Close()

	respond.Stream(writer, request, file.Name, file.ContentType, file.Size, body)
}
