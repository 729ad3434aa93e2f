package server

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"birthdays/internal/graphql"
	"birthdays/internal/handlers"
	"birthdays/internal/handlers/api"
	"birthdays/internal/logger"
	"birthdays/internal/middleware"
	"birthdays/internal/sharing"
)

// UserStore is what sign-in and session loading need from persistence.
type UserStore interface {
	middleware.UserLookup
	handlers.UserUpserter
}

// Deps are the services the routes are served from.
type Deps struct {
	Users  UserStore
	Links  sharing.LinkManager
	Intake sharing.Submitter
	Review sharing.Reviewer
	Owner  sharing.OwnerManager

	Database api.Pinger
	Redis    api.Pinger // nil when Redis is not configured
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, d Deps) error {
	authMiddleware := middleware.NewAuthMiddleware(d.Users)

	// Operational endpoints
	s.App.Get("/healthz", api.NewHealthHandler(d.Database, d.Redis).Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Owner sign-in
	if s.Cfg.OIDCIssuer != "" {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, d.Users)
		if err != nil {
			return fmt.Errorf("init OIDC: %w", err)
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else {
		logger.Warn("OIDC_ISSUER is not set; owner sign-in is disabled")
	}

	// Public submission form
	shareHandler := handlers.NewShareHandler(d.Links, d.Intake, s.Cfg)
	s.App.Get("/share/:token", shareHandler.Form)
	s.App.Post("/share/:token", shareHandler.Submit)

	// GraphQL, with owner fields resolved for whoever is signed in
	schema, err := graphql.NewSchema(graphql.Services{
		Links:  d.Links,
		Intake: d.Intake,
		Review: d.Review,
		Owner:  d.Owner,
		Config: s.Cfg,
	})
	if err != nil {
		return fmt.Errorf("build graphql schema: %w", err)
	}
	s.App.Post("/graphql", authMiddleware.OptionalAuth, graphql.NewHandler(schema).Serve)

	// JSON API
	v1 := s.App.Group("/api/v1")

	submissionHandler := api.NewSubmissionHandler(d.Intake)
	v1.Post("/share/:token/submissions", submissionHandler.Submit)

	requireOwner := authMiddleware.RequireAuthJSON

	linkHandler := api.NewLinkHandler(d.Links, s.Cfg)
	v1.Get("/links", requireOwner, linkHandler.List)
	v1.Post("/links", requireOwner, linkHandler.Create)
	v1.Get("/links/options", requireOwner, linkHandler.Options)
	v1.Delete("/links/:id", requireOwner, linkHandler.Revoke)

	reviewHandler := api.NewReviewHandler(d.Review)
	v1.Get("/submissions/pending", requireOwner, reviewHandler.Pending)
	v1.Post("/submissions/import", requireOwner, reviewHandler.ImportBulk)
	v1.Post("/submissions/reject", requireOwner, reviewHandler.RejectBulk)
	v1.Post("/submissions/:id/import", requireOwner, reviewHandler.Import)
	v1.Post("/submissions/:id/reject", requireOwner, reviewHandler.Reject)

	ownerHandler := api.NewOwnerHandler(d.Owner)
	v1.Get("/birthdays", requireOwner, ownerHandler.ListBirthdays)
	v1.Post("/birthdays", requireOwner, ownerHandler.CreateBirthday)
	v1.Delete("/birthdays/:id", requireOwner, ownerHandler.DeleteBirthday)
	v1.Get("/preferences", requireOwner, ownerHandler.Preferences)
	v1.Put("/preferences", requireOwner, ownerHandler.UpdatePreferences)

	return nil
}
