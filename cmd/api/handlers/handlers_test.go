package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-pipeline/cmd/api/handlers"
	"ai-pipeline/eventbus"
	"ai-pipeline/events"
)

type fakeBus struct {
	published map[string][]eventbus.Event
}

func newFakeBus() *fakeBus {
	return &fakeBus{published: map[string][]eventbus.Event{}}
}

func (f *fakeBus) Publish(_ context.Context, topic string, event eventbus.Event) error {
	f.published[topic] = append(f.published[topic], event)
	return nil
}

func (f *fakeBus) Subscribe(_ context.Context, _ string, _ eventbus.Topic, _ eventbus.EventHandler) error {
	return nil
}

func (f *fakeBus) StartRetryReinjector(_ context.Context, _ string, _ eventbus.Topic) error {
	return nil
}

func (f *fakeBus) Close() {}

func newTestRouter(bus eventbus.EventBus) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/pipeline/start", handlers.StartPipelineHandler(bus))
	r.GET("/api/v1/pipeline/status/:jobId", handlers.PipelineStatusHandler())
	return r
}

func TestStartPipelineRequiresQueryAndUser(t *testing.T) {
	r := newTestRouter(newFakeBus())

	for _, body := range []string{
		`{}`,
		`{"query":"mitologia grega"}`,
		`{"userId":"user-1"}`,
		`não é json`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/start", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}

func TestStartPipelinePublishesScrapeJob(t *testing.T) {
	bus := newFakeBus()
	r := newTestRouter(bus)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/start",
		strings.NewReader(`{"query":"mitologia grega","userId":"user-1","maxPages":3}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		JobID  string `json:"jobId"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.JobID, "pipeline-"))
	assert.Equal(t, "started", resp.Status)

	published := bus.published[eventbus.TopicScraping.Base()]
	require.Len(t, published, 1)

	job, err := eventbus.DecodeJSON[events.ScrapeJob](published[0])
	require.NoError(t, err)
	assert.Equal(t, resp.JobID, job.JobID)
	assert.Equal(t, "mitologia grega", job.Query)
	assert.Equal(t, "user-1", job.UserID)
	assert.Equal(t, 3, job.MaxPages)
}

func TestPipelineStatusIsNotImplemented(t *testing.T) {
	r := newTestRouter(newFakeBus())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pipeline/status/pipeline-1-abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)

	var resp struct {
		JobID string `json:"jobId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pipeline-1-abc", resp.JobID)
}
