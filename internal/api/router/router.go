package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ndtam/vod-transcode-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))

	r.GET("/health", healthHandler(deps))

	mediaHandler := handler.NewMediaHandler(deps)
	callbackAuth := CallbackAuthMiddleware(deps.CallbackToken)

	v1 := r.Group("/api/v1")
	{
		media := v1.Group("/media")
		{
			// POST /api/v1/media - register media and enqueue its transcode job
			media.POST("", mediaHandler.EnqueueTranscode)

			// GET /api/v1/media - list media with merged progress
			media.GET("", mediaHandler.ListMedia)

			// GET /api/v1/media/progress?media_id= - poll transcode progress
			media.GET("/progress", mediaHandler.GetProgress)

			// Worker-tier routes behind the shared token
			media.POST("/progress", callbackAuth, mediaHandler.WriteProgress)
			media.POST("/transcode/callback", callbackAuth, mediaHandler.TranscodeCallback)
		}
	}

	return r
}

func healthHandler(deps *handler.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{}

		for _, hc := range deps.HealthChecks {
			if err := hc.Check(c.Request.Context()); err != nil {
				status = http.StatusServiceUnavailable
				checks[hc.Name] = err.Error()
			} else {
				checks[hc.Name] = "ok"
			}
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "degraded"
		}

		c.JSON(status, gin.H{
			"status":  overall,
			"service": "vod-api-service",
			"checks":  checks,
		})
	}
}
