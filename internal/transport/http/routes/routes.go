package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
	"github.com/AjayS0708/CareerOS/internal/core/port"
	"github.com/AjayS0708/CareerOS/internal/infra/config"
	"github.com/AjayS0708/CareerOS/internal/infra/security"
	"github.com/AjayS0708/CareerOS/internal/transport/http/handlers"
	"github.com/AjayS0708/CareerOS/internal/transport/http/middleware"
	"github.com/AjayS0708/CareerOS/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth         *usecase.AuthService
	Jobs         *usecase.JobService
	Applications *usecase.ApplicationService
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	TokenIssuer *security.TokenIssuer
	Users       port.UserRepository
	Database    DatabaseChecker
	Cache       CacheChecker
	Metrics     *middleware.HTTPMetrics
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.App.CORSOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.TokenIssuer, deps.Users)

	checks := make(map[string]handlers.HealthChecker)
	if deps.Database != nil {
		checks["database"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}

	healthHandler := handlers.NewHealthHandler(deps.Config.App.Env, checks)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	prefix := deps.Config.App.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}

	api := r.Group(prefix)
	{
		api.GET("/health", healthHandler.Status)

		authHandler := handlers.NewAuthHandler(deps.Services.Auth)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", withRateLimit(deps, "auth_register_ip", deps.Config.RateLimit.RegisterMaxAttempts, authHandler.Register)...)
			authGroup.POST("/login", withRateLimit(deps, "auth_login_ip", deps.Config.RateLimit.LoginMaxAttempts, authHandler.Login)...)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
			authGroup.PUT("/profile", authMiddleware, authHandler.UpdateProfile)
			authGroup.PUT("/change-password", authMiddleware, authHandler.ChangePassword)
		}

		jobHandler := handlers.NewJobHandler(deps.Services.Jobs)
		jobGroup := api.Group("/jobs")
		{
			jobGroup.GET("", jobHandler.List)
			jobGroup.GET("/trending", jobHandler.Trending)
			jobGroup.GET("/stats", jobHandler.Stats)
			jobGroup.GET("/recommendations", authMiddleware, jobHandler.Recommendations)
			jobGroup.GET("/:id", jobHandler.Get)

			admin := middleware.RequireRole(domain.UserRoleAdmin)
			jobGroup.POST("", authMiddleware, admin, jobHandler.Create)
			jobGroup.PUT("/:id", authMiddleware, admin, jobHandler.Update)
			jobGroup.DELETE("/:id", authMiddleware, admin, jobHandler.Delete)
		}

		appHandler := handlers.NewApplicationHandler(deps.Services.Applications)
		appGroup := api.Group("/applications")
		appGroup.Use(authMiddleware)
		if deps.RateLimiter != nil && deps.Config.RateLimit.AuthedMaxRequests > 0 {
			appGroup.Use(deps.RateLimiter.RateLimit(middleware.RateLimitRule{
				Name:       "applications_user",
				Limit:      deps.Config.RateLimit.AuthedMaxRequests,
				Window:     time.Minute,
				Identifier: middleware.UserIdentifier(),
			}))
		}
		{
			appGroup.POST("", appHandler.Create)
			appGroup.GET("", appHandler.List)
			appGroup.GET("/stats", appHandler.Stats)
			appGroup.GET("/recent", appHandler.Recent)
			appGroup.GET("/:id", appHandler.Get)
			appGroup.PUT("/:id", appHandler.Update)
			appGroup.DELETE("/:id", appHandler.Delete)
			appGroup.PATCH("/:id/status", appHandler.UpdateStatus)
			appGroup.PATCH("/:id/archive", appHandler.ToggleArchive)
			appGroup.POST("/:id/interviews", appHandler.AddInterview)
			appGroup.PUT("/:id/interviews/:interviewId", appHandler.UpdateInterview)
			appGroup.POST("/:id/offer", appHandler.SetOffer)
			appGroup.POST("/:id/contacts", appHandler.AddContact)
		}
	}

	return r
}

// withRateLimit wraps a handler with a per-IP sliding-window rule when a
// limiter is configured.
func withRateLimit(deps Dependencies, name string, limit int, handler gin.HandlerFunc) []gin.HandlerFunc {
	if deps.RateLimiter == nil || limit <= 0 {
		return []gin.HandlerFunc{handler}
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = 15 * time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule), handler}
}
