package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the API on router. The handler's limiter, if any,
// guards the single run endpoint here; batches charge it per item.
func SetupRoutes(router *gin.Engine, handler *Handler, allowedOrigins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{runIDHeader, cacheHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	runMiddleware := []gin.HandlerFunc{}
	if handler.limiter != nil {
		runMiddleware = append(runMiddleware, handler.limiter.Middleware())
	}

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)

		underwriting := api.Group("/underwriting")
		{
			underwriting.POST("/run", append(runMiddleware, handler.RunUnderwriting)...)
			underwriting.POST("/batch", handler.RunBatch)
			underwriting.GET("/runs", handler.ListRuns)
			underwriting.GET("/runs/:id", handler.GetRun)
			underwriting.GET("/assumptions", handler.GetAssumptions)
			underwriting.PUT("/assumptions", handler.UpdateAssumptions)
		}

		financial := api.Group("/financial")
		{
			financial.POST("/scenario/base", handler.BaseScenario)
			financial.POST("/scenario/stress", handler.StressScenarios)
			financial.POST("/buy-box/evaluate", handler.EvaluateBuyBox)
			financial.POST("/pro-forma", handler.ProForma)
		}
	}
}
