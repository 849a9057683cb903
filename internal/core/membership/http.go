// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package membership

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-forum/internal/platform/constants"
	requestutil "github.com/taibuivan/yomira-forum/internal/platform/request"
	"github.com/taibuivan/yomira-forum/internal/platform/respond"
	"github.com/taibuivan/yomira-forum/pkg/pagination"
)

// Handler implements the HTTP layer for category membership.
type Handler struct {
	service *Service
}

// NewHandler constructs a new membership [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the endpoints under a router already scoped to
// /categories/{categoryID}.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/posts", func(posts chi.Router) {
		posts.Get("/", handler.list)
		posts.Post("/", handler.add)
		posts.Delete("/{"+constants.ParamPostID+"}", handler.remove)
	})
}

// GET /api/v1/categories/{categoryID}/posts.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	posts, total, err := handler.service.ListPosts(request.Context(),
		requestutil.UserID(request),
		requestutil.Param(request, constants.ParamCategoryID),
		params,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(params, total))
}

/*
POST /api/v1/categories/{categoryID}/posts.

Request (Body):
  - post_id: string (required)

Response:
  - 201: Membership, newly added
  - 200: Membership, already present
  - 400, 401, 403, 404
*/
func (handler *Handler) add(writer http.ResponseWriter, request *http.Request) {
	var input AddInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	membership, err := handler.service.Add(request.Context(),
		requestutil.UserID(request),
		requestutil.Param(request, constants.ParamCategoryID),
		input.PostID,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if membership.Created {
		respond.Created(writer, membership)
		return
	}
	respond.OK(writer, membership)
}

/*
DELETE /api/v1/categories/{categoryID}/posts/{postID}.

Response:
  - 204: Removed
  - 409: The post is not in the category
  - 401, 403, 404
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.Remove(request.Context(),
		requestutil.UserID(request),
		requestutil.Param(request, constants.ParamCategoryID),
		requestutil.Param(request, constants.ParamPostID),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
