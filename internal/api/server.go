// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/yomira-forum/internal/core/category"
	"github.com/taibuivan/yomira-forum/internal/core/membership"
	"github.com/taibuivan/yomira-forum/internal/core/moderation"
	"github.com/taibuivan/yomira-forum/internal/core/permission"
	"github.com/taibuivan/yomira-forum/internal/core/post"
	"github.com/taibuivan/yomira-forum/internal/core/tag"
	"github.com/taibuivan/yomira-forum/internal/platform/config"
	"github.com/taibuivan/yomira-forum/internal/platform/constants"
	"github.com/taibuivan/yomira-forum/internal/platform/middleware"
	"github.com/taibuivan/yomira-forum/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It answers 200 while the process is up.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It answers 200 when all deps are healthy.
	Readiness http.HandlerFunc

	Auth       *auth.Handler
	Category   *category.Handler
	Permission *permission.Handler
	Membership *membership.Handler
	Moderation *moderation.Handler
	Post       *post.Handler
	Tag        *tag.Handler
}

// Identity resolves the caller for every request.
type Identity struct {
	Tokens     middleware.TokenVerifier
	Sessions   middleware.SessionResolver
	CookieName string
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, identity Identity, h Handlers) *Server {
	r := NewRouter(context, cfg, log, identity, h)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the route tree on its own so tests can drive it with httptest.
func NewRouter(context context.Context, cfg *config.Config, log *slog.Logger, identity Identity, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.Authenticate(identity.Tokens, identity.Sessions, identity.CookieName))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Route("/posts", h.Post.RegisterRoutes)
		api.Route("/tags", h.Tag.RegisterRoutes)

		api.Route("/categories", func(categories chi.Router) {
			h.Category.RegisterRoutes(categories)

			categories.Route("/{"+constants.ParamCategoryID+"}", func(item chi.Router) {
				h.Category.RegisterItemRoutes(item)
				h.Permission.RegisterRoutes(item)
				h.Membership.RegisterRoutes(item)
				h.Moderation.RegisterRoutes(item)
			})
		})
	})

	return r
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
