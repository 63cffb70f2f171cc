package handler

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"callintake/internal/config"
	"callintake/internal/logging"
	"callintake/internal/service"
	"callintake/internal/session"
)

// BuildInfo is reported by /health and /version
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// RouterDeps wires the HTTP surface
type RouterDeps struct {
	Server   config.ServerConfig
	Intake   *service.IntakeService
	Sessions *session.Manager
	Intakes  IntakeLogReader // optional; the audit endpoint answers 503 without it
	Metrics  http.Handler    // defaults to the global Prometheus registry
	Logger   zerolog.Logger
	Build    BuildInfo
}

// NewRouter builds the gin engine with every route mounted
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logging.GinLogger(deps.Logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(deps.Server.AllowedOrigins, "*")
	corsConfig.AllowMethods = splitList(deps.Server.AllowedMethods, "GET,POST,DELETE,OPTIONS")
	corsConfig.AllowHeaders = splitList(deps.Server.AllowedHeaders, "Content-Type,Authorization")
	router.Use(cors.New(corsConfig))

	metricsHandler := deps.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "callintake",
			"ai_enabled": deps.Intake.Fallback().Enabled(),
			"sessions":   deps.Sessions.Len(),
			"version":    deps.Build.Version,
			"build_time": deps.Build.BuildTime,
			"git_commit": deps.Build.GitCommit,
		})
	})
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    deps.Build.Version,
			"build_time": deps.Build.BuildTime,
			"git_commit": deps.Build.GitCommit,
		})
	})
	router.GET("/metrics", gin.WrapH(metricsHandler))

	classifyHandler := NewClassifyHandler(deps.Intake)
	sessionHandler := NewSessionHandler(deps.Sessions, deps.Intakes)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/classify", classifyHandler.Classify)

		sessions := apiV1.Group("/sessions")
		sessions.POST("", sessionHandler.Create)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.DELETE("/:id", sessionHandler.Delete)
		sessions.POST("/:id/input", sessionHandler.Input)
		sessions.GET("/:id/events", sessionHandler.Events)
		sessions.GET("/:id/intakes", sessionHandler.Intakes)
		sessions.POST("/:id/confirm-all", sessionHandler.ConfirmAll)
		sessions.POST("/:id/chips/:chip/confirm", sessionHandler.Confirm)
		sessions.POST("/:id/chips/:chip/reject", sessionHandler.Reject)
		sessions.POST("/:id/chips/:chip/reclassify", sessionHandler.Reclassify)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})

	return router
}

func splitList(raw, fallback string) []string {
	if strings.TrimSpace(raw) == "" {
		raw = fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
