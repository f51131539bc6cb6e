package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/savetogether/backend/internal/auth"
	"github.com/savetogether/backend/internal/config"
	"github.com/savetogether/backend/internal/http/handlers"
	"github.com/savetogether/backend/internal/middleware"
	"github.com/savetogether/backend/internal/service"
	"github.com/savetogether/backend/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, services, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	var google auth.GoogleVerifier
	if cfg.GoogleLoginEnabled() {
		google = auth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	authService := service.NewAuthService(store, tokens, google)
	groupService := service.NewGroupService(store)
	membershipService := service.NewMembershipService(store)
	contributionService := service.NewContributionService(store)
	notificationService := service.NewNotificationService(store)
	userService := service.NewUserService(store)

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Logging)

	handlers.NewHealthHandler(time.Now()).Register(r)
	handlers.NewAuthHandler(authService).Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens))
		handlers.NewGroupHandler(groupService, membershipService, contributionService).Register(r)
		handlers.NewMembershipHandler(membershipService).Register(r)
		handlers.NewContributionHandler(contributionService).Register(r)
		handlers.NewNotificationHandler(notificationService).Register(r)
		handlers.NewUserHandler(userService).Register(r)
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
