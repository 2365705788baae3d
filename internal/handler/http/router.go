package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prjrating/sellerrating/internal/domain"
	"github.com/prjrating/sellerrating/internal/service"
	"github.com/prjrating/sellerrating/pkg/health"
	"github.com/prjrating/sellerrating/pkg/middleware"
)

// Services groups the domain services the router dispatches to.
type Services struct {
	Auth        *service.AuthService
	Users       *service.UserService
	Comments    *service.CommentService
	Ratings     *service.RatingService
	Admin       *service.AdminService
	GameObjects *service.GameObjectService
}

// RouterConfig holds the HTTP-layer settings.
type RouterConfig struct {
	ServiceName        string
	CORS               middleware.CORSConfig
	PprofAllowedCIDRs  []string
	PublicCacheMaxAge  int
	TopSellersPageSize int
	// AnonymousRateLimit throttles unauthenticated writes per client IP.
	AnonymousRateLimit middleware.RateLimitConfig
}

// NewRouter creates a chi router with all seller rating routes registered.
func NewRouter(
	svcs Services,
	tokenValidator middleware.TokenValidator,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	authn := middleware.Auth(tokenValidator)
	adminOnly := middleware.RequireRole(string(domain.RoleAdmin))
	selfOrAdmin := middleware.RequireSelfOrRole("id", string(domain.RoleAdmin))
	publicCache := middleware.CacheControl(cfg.PublicCacheMaxAge)
	throttled := middleware.NewRateLimiter(cfg.AnonymousRateLimit, logger).Handler

	authHandler := NewAuthHandler(svcs.Auth, logger)
	userHandler := NewUserHandler(svcs.Users, svcs.Admin, cfg.TopSellersPageSize, logger)
	commentHandler := NewCommentHandler(svcs.Comments, logger)
	adminHandler := NewAdminHandler(svcs.Admin, commentHandler, svcs.Ratings, logger)
	gameObjectHandler := NewGameObjectHandler(svcs.GameObjects, logger)

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.With(throttled).Post("/register", authHandler.Register)
		r.Get("/confirm", authHandler.Confirm)
		r.Post("/login", authHandler.Login)
		r.With(throttled).Post("/forgot_password", authHandler.ForgotPassword)
		r.Get("/check_code", authHandler.CheckCode)
		r.Post("/reset", authHandler.ResetPassword)

		r.With(authn, selfOrAdmin).Put("/{id}/change-password", authHandler.ChangePassword)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(publicCache)
			r.Get("/", userHandler.List)
			r.Get("/top", userHandler.TopSellers)
			r.Get("/sellers/filter", userHandler.FilterSellers)
			r.Get("/role/{role}", userHandler.ListByRole)
			r.Get("/{id}", userHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.ContentTypeJSON, authn, selfOrAdmin)
			r.Put("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})
	})

	r.Route("/api/game-objects", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(publicCache)
			r.Get("/", gameObjectHandler.List)
			r.Get("/user/{userId}", gameObjectHandler.ListByUser)
			r.Get("/{id}", gameObjectHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.ContentTypeJSON, authn)
			r.Post("/", gameObjectHandler.Create)
			r.Put("/{id}", gameObjectHandler.Update)
			r.Delete("/{id}", gameObjectHandler.Delete)
		})
	})

	r.Route("/api/comments", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.ContentTypeJSON)
			r.With(throttled).Post("/sellers", commentHandler.CreateWithSeller)
			r.With(throttled).Post("/sellers/{sellerId}", commentHandler.Create)
			r.Get("/sellers/{sellerId}/comments", commentHandler.ListBySeller)
			r.Get("/{id}", commentHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.ContentTypeJSON, authn)
			r.Put("/{id}", commentHandler.Update)
			r.Delete("/{id}", commentHandler.Delete)
			r.With(adminOnly).Patch("/{id}/approve", commentHandler.SetApproval)
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON, authn, adminOnly)

		r.Post("/ratings", adminHandler.CreateRating)
		r.Get("/comments/pending", adminHandler.PendingComments)
		r.Patch("/comments/{id}/approve", adminHandler.ApproveComment)
		r.Patch("/comments/{id}/decline", adminHandler.DeclineComment)
		r.Get("/sellers/pending", adminHandler.PendingSellers)
		r.Patch("/sellers/{id}/approve", adminHandler.ApproveSeller)
		r.Delete("/sellers/{id}/decline", adminHandler.DeclineSeller)
	})

	return r
}
