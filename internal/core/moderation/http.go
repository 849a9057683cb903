// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package moderation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-forum/internal/platform/constants"
	requestutil "github.com/taibuivan/yomira-forum/internal/platform/request"
	"github.com/taibuivan/yomira-forum/internal/platform/respond"
	"github.com/taibuivan/yomira-forum/pkg/pagination"
)

// Handler implements the HTTP layer for moderation.
type Handler struct {
	service *Service
}

// NewHandler constructs a new moderation [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the endpoints under a router already scoped to
// /categories/{categoryID}.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/actions/{"+constants.ParamAction+"}", handler.apply)
	router.Get("/moderation-log", handler.log)
}

/*
POST /api/v1/categories/{categoryID}/actions/{action}.

Request (Body):
  - target_user_id: string (required)

Response:
  - 200: Result
  - 400: Unknown action or missing target
  - 401, 403, 404
*/
func (handler *Handler) apply(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Apply(request.Context(),
		requestutil.UserID(request),
		requestutil.Param(request, constants.ParamCategoryID),
		requestutil.Param(request, constants.ParamAction),
		input,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// GET /api/v1/categories/{categoryID}/moderation-log.
func (handler *Handler) log(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	entries, total, err := handler.service.Log(request.Context(),
		requestutil.UserID(request),
		requestutil.Param(request, constants.ParamCategoryID),
		params,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(params, total))
}
