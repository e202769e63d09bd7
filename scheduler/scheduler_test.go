package scheduler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-pipeline/config"
	"ai-pipeline/contentclient"
	"ai-pipeline/events"
	"ai-pipeline/scheduler"
)

// contentAPIStub records create and patch payloads for assertions.
type contentAPIStub struct {
	srv        *httptest.Server
	createBody map[string]any
	patchBody  map[string]any
	patchPath  string
}

func newContentAPIStub(t *testing.T) *contentAPIStub {
	stub := &contentAPIStub{}
	stub.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer segredo", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/contents":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&stub.createBody))
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id":"content-1","status":"draft","created_at":"2026-01-10T12:00:00Z"}`)
		case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/api/v1/contents/"):
			stub.patchPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&stub.patchBody))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(stub.srv.Close)
	return stub
}

func newScheduler(stub *contentAPIStub) *scheduler.Scheduler {
	client := contentclient.New(config.AppConfig{
		ContentAPIURL:    stub.srv.URL,
		ContentAPISecret: "segredo",
	})
	return scheduler.New(client)
}

func scheduleJob() events.ScheduleJob {
	return events.ScheduleJob{
		JobID: "job-1",
		ContentData: events.ContentData{
			Type:     "Vídeo",
			Title:    "Mitologia grega explicada rapidamente",
			Body:     "Resumo do conteúdo gerado.",
			Sources:  []string{"Fonte A - https://exemplo.com/a"},
			MediaURL: "https://cdn.exemplo.com/v1.mp4",
		},
	}
}

func TestExecutePublishesImmediately(t *testing.T) {
	stub := newContentAPIStub(t)
	s := newScheduler(stub)

	result, err := s.Execute(context.Background(), scheduleJob())

	require.NoError(t, err)
	assert.Equal(t, "content-1", result.ContentID)
	assert.Equal(t, events.StatusPublished, result.Status)
	require.NotNil(t, result.PublishedAt)
	assert.Nil(t, result.ScheduledAt)

	assert.Equal(t, "/api/v1/contents/content-1", stub.patchPath)
	assert.Equal(t, "published", stub.patchBody["status"])

	publishAt, ok := stub.patchBody["publish_at"].(string)
	require.True(t, ok, "publish_at must be sent on immediate publish")
	parsed, err := time.Parse(time.RFC3339Nano, publishAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, time.Minute)
}

func TestExecuteSchedulesFuturePublication(t *testing.T) {
	stub := newContentAPIStub(t)
	s := newScheduler(stub)

	scheduleAt := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	job := scheduleJob()
	job.ScheduleAt = &scheduleAt

	result, err := s.Execute(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, events.StatusScheduled, result.Status)
	require.NotNil(t, result.ScheduledAt)
	assert.True(t, result.ScheduledAt.Equal(scheduleAt))
	assert.Nil(t, result.PublishedAt)

	assert.Equal(t, "scheduled", stub.patchBody["status"])
	assert.NotEmpty(t, stub.patchBody["publish_at"])
}

func TestExecutePublishesWhenScheduleIsPast(t *testing.T) {
	stub := newContentAPIStub(t)
	s := newScheduler(stub)

	past := time.Now().Add(-time.Hour)
	job := scheduleJob()
	job.ScheduleAt = &past

	result, err := s.Execute(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, events.StatusPublished, result.Status)
}

func TestExecuteSendsDraftWithDerivedTags(t *testing.T) {
	stub := newContentAPIStub(t)
	s := newScheduler(stub)

	_, err := s.Execute(context.Background(), scheduleJob())
	require.NoError(t, err)

	assert.Equal(t, "draft", stub.createBody["status"])
	assert.Equal(t, "Vídeo", stub.createBody["type"])
	assert.Equal(t, "https://cdn.exemplo.com/v1.mp4", stub.createBody["media_url"])
	assert.Equal(t, "Fonte A - https://exemplo.com/a", stub.createBody["source"])

	tags, ok := stub.createBody["tags"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"vídeo", "mitologia", "grega", "explicada", "ia-gerado"}, tags)
}

func TestExecuteJoinsSourceAttribution(t *testing.T) {
	stub := newContentAPIStub(t)
	s := newScheduler(stub)

	job := scheduleJob()
	job.ContentData.Sources = append(job.ContentData.Sources, "Fonte B - https://exemplo.com/b")

	_, err := s.Execute(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, "Fonte A - https://exemplo.com/a, Fonte B - https://exemplo.com/b", stub.createBody["source"])
}

func TestExecuteFailsWhenCreateFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := scheduler.New(contentclient.New(config.AppConfig{ContentAPIURL: srv.URL}))

	_, err := s.Execute(context.Background(), scheduleJob())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "create content")
}

func TestUpdateContentStatusValidation(t *testing.T) {
	stub := newContentAPIStub(t)
	s := newScheduler(stub)

	assert.Error(t, s.UpdateContentStatus(context.Background(), "content-1", "arquivado"))
	assert.NoError(t, s.UpdateContentStatus(context.Background(), "content-1", "hidden"))
	assert.Equal(t, "hidden", stub.patchBody["status"])
}
