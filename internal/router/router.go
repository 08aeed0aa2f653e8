package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/handler"
	"github.com/stemsi/codetest-backend/internal/middleware"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/response"
	"github.com/stemsi/codetest-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Portal  *handler.PortalHandler
	WS      *handler.WSHandler
	Test    *handler.TestHandler
	Report  *handler.ReportHandler
	Monitor *handler.MonitorHandler
	System  *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Remaining"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware(log))
	router.Use(middleware.Brotli())

	router.GET("/health", handlers.System.Health)

	// Attempts are cheap to open but each one boots a session.
	attemptLimiter := middleware.NewRateLimiter(rdb, "attempt", 10, time.Minute, log)

	// ─── 1. Candidate Group (JWT) ──────────────────────────────────────
	candidateAPI := router.Group("/api/v1/candidate")
	candidateAPI.Use(middleware.RequireCandidateJWT(authService))
	{
		candidateAPI.GET("/tests", handlers.Portal.ListTests)
		candidateAPI.POST("/tests/:id/attempt", attemptLimiter.Middleware(), handlers.Portal.OpenAttempt)
		candidateAPI.GET("/history", handlers.Portal.History)
	}

	// ─── 2. WebSocket Group (Candidate WS Auth + single stream) ────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireCandidateWSAuth(authService))
	{
		ws.GET("/candidate/tests/:id/stream", middleware.SingleStream(rdb, log), handlers.WS.TestStream)
	}

	// ─── 3. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Test lifecycle
		adminAPI.POST("/tests/:id/start",
			middleware.RequirePermission(model.PermissionTestsManage),
			handlers.Test.Start,
		)
		adminAPI.POST("/tests/:id/end",
			middleware.RequirePermission(model.PermissionTestsManage),
			handlers.Test.End,
		)
		adminAPI.POST("/tests/:id/reconduct",
			middleware.RequirePermission(model.PermissionTestsManage),
			handlers.Test.Reconduct,
		)

		// Reports
		adminAPI.GET("/tests/:id/report",
			middleware.RequirePermission(model.PermissionReportsRead),
			handlers.Report.GetReport,
		)
		adminAPI.DELETE("/tests/:id/report/:email",
			middleware.RequirePermission(model.PermissionReportsDelete),
			handlers.Report.DeleteEntry,
		)
		adminAPI.GET("/tests/:id/leaderboard",
			middleware.RequirePermission(model.PermissionReportsRead),
			handlers.Report.Leaderboard,
		)
		adminAPI.GET("/candidates/:email/history",
			middleware.RequirePermission(model.PermissionReportsRead),
			handlers.Report.CandidateHistory,
		)

		// Live monitoring
		adminAPI.GET("/tests/:id/monitor",
			middleware.RequirePermission(model.PermissionMonitorRead),
			handlers.Monitor.MonitorTestSSE,
		)
		adminAPI.GET("/tests/:id/sessions",
			middleware.RequirePermission(model.PermissionMonitorRead),
			handlers.Monitor.ListSessions,
		)

		// System Monitoring
		adminAPI.GET("/system/metrics",
			middleware.RequirePermission(model.PermissionMonitorRead),
			handlers.System.SystemMetricsSSE,
		)
	}

	return router
}
