package http

import (
	"github.com/gin-gonic/gin"
	"github.com/lensfinder/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// Conversion alone never touches the catalog, so it needs no token
		calculator := v1.Group("/calculator")
		{
			calculator.POST("/convert", handler.Convert)
			calculator.POST("/calculate", RequireToken(), handler.Calculate)
		}

		lenses := v1.Group("/lenses", RequireToken())
		{
			lenses.GET("", handler.ListLenses)
			lenses.GET("/:id", handler.GetLens)
			lenses.POST("/search", handler.SearchLenses)
		}

		v1.POST("/catalog/refresh", RequireToken(), handler.RefreshCatalog)
	}

	return router
}
