// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-forum/internal/platform/constants"
	requestutil "github.com/taibuivan/yomira-forum/internal/platform/request"
	"github.com/taibuivan/yomira-forum/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for permission records.
type Handler struct {
	service *Service
}

// NewHandler constructs a new permission [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the endpoints under a router already scoped to
// /categories/{categoryID}.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/permissions", func(permissions chi.Router) {
		permissions.Get("/", handler.roster)
		permissions.Get("/me", handler.mine)
		permissions.Put("/{"+constants.ParamUserID+"}", handler.grant)
	})
}

/*
GET /api/v1/categories/{categoryID}/permissions/me.

Description: Lists the caller's own capabilities in the category.

Response:
  - 200: Summary
  - 401: Authentication required
  - 404: Category not found
*/
func (handler *Handler) mine(writer http.ResponseWriter, request *http.Request) {
	summary, err := handler.service.Mine(request.Context(),
		requestutil.UserID(request),
		requestutil.Param(request, constants.ParamCategoryID),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summary)
}

/*
GET /api/v1/categories/{categoryID}/permissions.

Description: Lists every permission record in the category. Requires canModify.

Response:
  - 200: []Record
  - 401, 403, 404
*/
func (handler *Handler) roster(writer http.ResponseWriter, request *http.Request) {
	records, err := handler.service.Roster(request.Context(),
		requestutil.UserID(request),
		requestutil.Param(request, constants.ParamCategoryID),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, records)
}

/*
PUT /api/v1/categories/{categoryID}/permissions/{userID}.

Request (Body):
  - capabilities: map of capability name to bool
  - level: int

Response:
  - 200: Record: The stored record
  - 400: Unknown capability or invalid level
  - 401, 403, 404
*/
func (handler *Handler) grant(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input GrantInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Grant(request.Context(),
		actorID,
		requestutil.Param(request, constants.ParamCategoryID),
		requestutil.Param(request, constants.ParamUserID),
		input,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}
