package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"academic-integrity-simulator/internal/api"
	"academic-integrity-simulator/internal/web"
)

func SetupRouter(chatHandler *api.ChatHandler, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowHeaders = append(config.AllowHeaders, "Content-Type")
	r.Use(cors.New(config))

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML)
	})

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "UP"})
		})
		apiV1.GET("/about", chatHandler.AboutHandler)

		apiV1.POST("/sessions", chatHandler.CreateSessionHandler)
		apiV1.GET("/sessions/:id", chatHandler.GetSessionHandler)
		apiV1.DELETE("/sessions/:id", chatHandler.DeleteSessionHandler)
		apiV1.PUT("/sessions/:id/settings", chatHandler.UpdateSettingsHandler)
		apiV1.POST("/sessions/:id/messages", chatHandler.SendMessageHandler)
	}

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request", fields...)
		} else {
			logger.Debug("request", fields...)
		}
	}
}
