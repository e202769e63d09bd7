package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-pipeline/cmd/api/handlers"
	"ai-pipeline/eventbus"
	"ai-pipeline/repositories"
)

func New(bus eventbus.EventBus, records *repositories.JobRecordRepository) *gin.Engine {
	r := gin.Default()

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.POST("/pipeline/start", handlers.StartPipelineHandler(bus))
		api.GET("/pipeline/status/:jobId", handlers.PipelineStatusHandler())
		api.GET("/pipeline/jobs/:jobId/records", handlers.JobRecordsHandler(records))
	}

	return r
}
