package scraper_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-pipeline/config"
	"ai-pipeline/events"
	"ai-pipeline/scraper"
)

type fakeSearch struct {
	urls []string
	err  error
}

func (f *fakeSearch) Search(_ context.Context, _ string) ([]string, error) {
	return f.urls, f.err
}

func testConfig() config.AppConfig {
	return config.AppConfig{
		Scraping: config.ScrapingConfig{
			MaxPages:         5,
			TimeoutSeconds:   5,
			MinContentLength: 100,
			UserAgent:        "test-agent",
		},
	}
}

const articleHTML = `<html><head><title>Lendas Brasileiras</title></head><body>
<article>
<p>O folclore brasileiro reúne lendas como a do Saci-Pererê, do Curupira e da Iara, transmitidas por gerações em todas as regiões do país.</p>
<p>Essas narrativas misturam influências indígenas, africanas e europeias, formando um corpo único de histórias populares nacionais.</p>
</article>
</body></html>`

func TestExecuteScrapesStaticPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articleHTML)
	}))
	defer srv.Close()

	s := scraper.New(testConfig(), &fakeSearch{urls: []string{srv.URL + "/artigo"}})
	defer s.Shutdown()

	result, err := s.Execute(context.Background(), events.ScrapeJob{JobID: "job-1", Query: "folclore"})

	require.NoError(t, err)
	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, "folclore", result.Query)
	require.Len(t, result.Results, 1)
	assert.Equal(t, srv.URL+"/artigo", result.Results[0].URL)
	assert.Equal(t, "Lendas Brasileiras", result.Results[0].Title)
	assert.Contains(t, result.Results[0].Content, "Saci-Pererê")
	assert.Equal(t, []string{srv.URL + "/artigo"}, result.Sources)
	assert.False(t, result.ScrapedAt.IsZero())
}

func TestExecuteHonorsMaxPages(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, articleHTML)
	}))
	defer srv.Close()

	urls := make([]string, 5)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/artigo/%d", srv.URL, i)
	}

	s := scraper.New(testConfig(), &fakeSearch{urls: urls})
	defer s.Shutdown()

	result, err := s.Execute(context.Background(), events.ScrapeJob{JobID: "job-2", Query: "folclore", MaxPages: 2})

	require.NoError(t, err)
	assert.Len(t, result.Results, 2)
	assert.Equal(t, 2, hits)
}

func TestExecuteSkipsThinPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/vazio" {
			fmt.Fprint(w, `<html><body><p>ad</p></body></html>`)
			return
		}
		fmt.Fprint(w, articleHTML)
	}))
	defer srv.Close()

	s := scraper.New(testConfig(), &fakeSearch{urls: []string{srv.URL + "/vazio", srv.URL + "/artigo"}})
	defer s.Shutdown()

	result, err := s.Execute(context.Background(), events.ScrapeJob{JobID: "job-5", Query: "folclore"})

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, srv.URL+"/artigo", result.Results[0].URL)
}

func TestExecuteFailsWhenSearchFails(t *testing.T) {
	s := scraper.New(testConfig(), &fakeSearch{err: fmt.Errorf("backend down")})
	defer s.Shutdown()

	_, err := s.Execute(context.Background(), events.ScrapeJob{JobID: "job-3", Query: "folclore"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
}

func TestExecuteFailsWhenSearchIsEmpty(t *testing.T) {
	s := scraper.New(testConfig(), &fakeSearch{})
	defer s.Shutdown()

	_, err := s.Execute(context.Background(), events.ScrapeJob{JobID: "job-4", Query: "folclore"})

	assert.ErrorIs(t, err, scraper.ErrNoSearchResults)
}
