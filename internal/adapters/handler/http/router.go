package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-dashboard/internal/config"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	_ "github.com/comitanigiacomo/kanso-dashboard/internal/docs"
	"github.com/comitanigiacomo/kanso-dashboard/pkg/logger"
	"github.com/comitanigiacomo/kanso-dashboard/pkg/metrics"
)

type RouterDependencies struct {
	DashboardHandler *DashboardHandler
	// RefreshHandler is nil when on-demand refresh is not served.
	RefreshHandler *RefreshHandler
	// AuthHandler and TokenValidator are nil when the API is public.
	AuthHandler    *AuthHandler
	TokenValidator middleware.TokenValidator
	Source         domain.TableRepository
	Redis          *redis.Client
	RateLimit      config.RateLimitConfig
	AllowedOrigins []string
	Log            *logger.Logger
	StartTime      time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(deps.Log),
		middleware.Metrics(),
		middleware.CORS(deps.AllowedOrigins),
	)

	if deps.Redis != nil && deps.RateLimit.Requests > 0 {
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit.Requests, deps.RateLimit.Window, deps.Log))
	}

	router.GET("/health", func(c *gin.Context) {
		sourceStatus := "available"
		version, err := deps.Source.Version(c.Request.Context())
		if err != nil {
			sourceStatus = "unavailable"
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(c.Request.Context()).Err() != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		if sourceStatus == "unavailable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":  http.StatusText(statusCode),
			"source":  sourceStatus,
			"version": version,
			"redis":   redisStatus,
			"uptime":  time.Since(deps.StartTime).String(),
		})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	dashboard := apiV1.Group("")
	if deps.TokenValidator != nil {
		if deps.AuthHandler != nil {
			deps.AuthHandler.RegisterRoutes(apiV1)
		}
		dashboard.Use(middleware.AuthMiddleware(deps.TokenValidator))
	}
	deps.DashboardHandler.RegisterRoutes(dashboard)
	if deps.RefreshHandler != nil {
		deps.RefreshHandler.RegisterRoutes(dashboard)
	}

	return router
}
