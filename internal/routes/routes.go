package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"taskpilot/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	auth gin.HandlerFunc,
	taskHandler *handlers.TaskHandler,
	generateHandler *handlers.GenerateHandler,
	reportHandler *handlers.ReportHandler,
	eventsHandler *handlers.EventsHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {

	// ---- public
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	health := r.Group("/health")
	{
		health.GET("/database", healthHandler.Database)
		health.GET("/generator", healthHandler.Generator)
	}

	// ---- protected
	protected := r.Group("/", auth)

	protected.POST("/generate", generateHandler.Generate)

	tasks := protected.Group("/tasks")
	{
		tasks.GET("", taskHandler.List)
		tasks.POST("", taskHandler.Create)
		tasks.GET("/stats", taskHandler.Stats)
		tasks.GET("/stats/report", reportHandler.Progress)
		tasks.GET("/events", eventsHandler.Stream)
		tasks.PATCH("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	return r
}
