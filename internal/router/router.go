package router

import (
	"net/http"

	"badgehub/internal/handlers/api/v1/badges"
	"badgehub/internal/handlers/api/v1/leaderboard"
	"badgehub/internal/handlers/api/v1/users"
	"badgehub/internal/middleware"
	"badgehub/internal/monitoring"
	"badgehub/internal/response"
	"badgehub/internal/services"

	_ "badgehub/internal/docs" // swagger spec registration

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Dependencies carries everything the router needs wired in
type Dependencies struct {
	Services      *services.Collection
	Authenticator *middleware.Authenticator
	Builder       *response.Builder
	Health        *monitoring.HealthChecker
	Logger        *zap.Logger
}

// New configures all HTTP routes and returns the root handler
func New(deps *Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(response.Middleware(deps.Builder))
	r.Use(chimiddleware.RealIP)

	// Unauthenticated surfaces
	r.Get("/health", deps.Health.Handler)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	badgeController := badges.NewBadgeController(deps.Services, deps.Logger, deps.Builder)
	userController := users.NewUserController(deps.Services, deps.Logger, deps.Builder)
	leaderboardController := leaderboard.NewLeaderboardController(deps.Services, deps.Logger, deps.Builder)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(deps.Authenticator.RequireAuth)

		r.Route("/badges", func(r chi.Router) {
			r.Get("/", badgeController.ListBadges)
			r.Post("/", badgeController.CreateBadge)
			r.Patch("/", badgeController.ReorderBadges)

			r.Post("/assign", badgeController.AssignBadge)
			r.Post("/unassign", badgeController.UnassignBadge)
			r.Post("/assign-by-email", badgeController.AssignBadgeByEmail)

			r.Route("/{badgeID}", func(r chi.Router) {
				r.Get("/", badgeController.GetBadge)
				r.Patch("/", badgeController.UpdateBadge)
				r.Delete("/", badgeController.DeleteBadge)
			})
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/badges", userController.GetUserBadges)
			r.Get("/admin", userController.GetAdminStatus)
		})

		r.Get("/leaderboard", leaderboardController.GetLeaderboard)
	})

	return r
}
