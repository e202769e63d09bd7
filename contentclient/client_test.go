package contentclient_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-pipeline/config"
	"ai-pipeline/contentclient"
)

func newClient(srv *httptest.Server) *contentclient.Client {
	return contentclient.New(config.AppConfig{ContentAPIURL: srv.URL, ContentAPISecret: "segredo"})
}

func TestCreateContentDefaultsToDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/contents", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"c-1","status":"draft","created_at":"2026-01-10T12:00:00Z"}`)
	}))
	defer srv.Close()

	item, err := newClient(srv).CreateContent(context.Background(), contentclient.CreateContentParams{
		Type:  "Vídeo",
		Title: "Título",
		Body:  "Corpo",
	})

	require.NoError(t, err)
	assert.Equal(t, "c-1", item.ID)
}

func TestCreateContentRejectsMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	_, err := newClient(srv).CreateContent(context.Background(), contentclient.CreateContentParams{Title: "x"})

	assert.Error(t, err)
}

func TestUpdateContentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := newClient(srv).UpdateStatus(context.Background(), "missing", "published")

	assert.ErrorIs(t, err, contentclient.ErrNotFound)
}

func TestDeleteContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/contents/c-2", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	assert.NoError(t, newClient(srv).DeleteContent(context.Background(), "c-2"))
}

func TestErrorsCarryStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newClient(srv).UpdateStatus(context.Background(), "c-3", "published")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")
	assert.Contains(t, err.Error(), "boom")
}
