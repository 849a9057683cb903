// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-forum/internal/platform/constants"
	requestutil "github.com/taibuivan/yomira-forum/internal/platform/request"
	"github.com/taibuivan/yomira-forum/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for categories.
type Handler struct {
	service *Service
}

// NewHandler constructs a new category [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the collection endpoints on a router scoped to /categories.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Post("/", handler.create)
}

// RegisterItemRoutes mounts the item endpoints on a router scoped to /categories/{categoryID}.
func (handler *Handler) RegisterItemRoutes(router chi.Router) {
	router.Get("/", handler.get)
}

/*
GET /api/v1/categories.

Description: Public categories plus the private ones the caller can view.

Response:
  - 200: []Category
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.List(request.Context(), requestutil.UserID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, categories)
}

/*
POST /api/v1/categories.

Request (Body):
  - name: string (required)
  - is_public: bool (default true)

Response:
  - 201: Category
  - 400, 401, 409
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Create(request.Context(), ownerID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, category)
}

// GET /api/v1/categories/{categoryID}. Accepts an id or a slug.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.service.Get(request.Context(),
		requestutil.UserID(request),
		requestutil.Param(request, constants.ParamCategoryID),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, category)
}
