package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ai-pipeline/config"
	"ai-pipeline/eventbus"
	"ai-pipeline/events"
	"ai-pipeline/repositories"
)

// StartPipelineRequest is the payload that kicks off a pipeline run.
type StartPipelineRequest struct {
	Query    string `json:"query"`
	UserID   string `json:"userId"`
	MaxPages int    `json:"maxPages,omitempty"`
}

// StartPipelineHandler validates the request, mints a job id and publishes
// the initial scraping job. The pipeline itself runs asynchronously in the
// worker.
func StartPipelineHandler(bus eventbus.EventBus) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartPipelineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Query == "" || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query and userId are required"})
			return
		}

		jobID := fmt.Sprintf("pipeline-%d-%s", time.Now().UnixMilli(), uuid.New().String())

		evt, err := eventbus.NewJSONEvent(jobID, events.ScrapeJob{
			JobID:    jobID,
			Query:    req.Query,
			UserID:   req.UserID,
			MaxPages: req.MaxPages,
		}, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build job"})
			return
		}

		if err := bus.Publish(c.Request.Context(), eventbus.TopicScraping.Base(), evt); err != nil {
			config.Logger.Errorf("failed to publish pipeline start for %s: %v", jobID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue pipeline job"})
			return
		}

		config.Logger.Infof("pipeline %s started for query %q", jobID, req.Query)
		c.JSON(http.StatusOK, gin.H{"jobId": jobID, "status": "started"})
	}
}

// PipelineStatusHandler is a stub: cross-stage status aggregation is not
// implemented, and pretending otherwise would fabricate state. Stage history
// is available from the job records endpoint instead.
func PipelineStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotImplemented, gin.H{
			"jobId": c.Param("jobId"),
			"error": "status aggregation not implemented",
		})
	}
}

// JobRecordsHandler returns the recorded per-stage outcomes of a job. Records
// expire with the retention window, so old jobs return 404.
func JobRecordsHandler(records *repositories.JobRecordRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("jobId")

		stages, err := records.ListByJobID(c.Request.Context(), jobID)
		if err != nil {
			config.Logger.Errorf("failed to load job records for %s: %v", jobID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job records"})
			return
		}
		if len(stages) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"jobId": jobID, "stages": stages})
	}
}
