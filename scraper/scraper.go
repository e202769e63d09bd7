package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ai-pipeline/config"
	"ai-pipeline/events"
)

// ErrNoSearchResults means the search backend produced no candidate URLs.
// This fails the whole job so the queue's retry policy applies.
var ErrNoSearchResults = errors.New("search produced no candidate URLs")

const maxBodyBytes = 10 << 20

// Scraper resolves a query to candidate URLs and extracts text from each,
// trying a fast static fetch first and a browser-rendered fetch second.
type Scraper struct {
	search           SearchProvider
	httpClient       *http.Client
	browser          *Browser
	userAgent        string
	timeout          time.Duration
	defaultMaxPages  int
	minContentLength int

	strategies []fetchStrategy
}

// fetchStrategy is one way of turning a URL into an extracted page. A nil
// page with a nil error means "nothing usable here, try the next one".
type fetchStrategy struct {
	name  string
	fetch func(ctx context.Context, pageURL string) (*extractedPage, error)
}

func New(cfg config.AppConfig, search SearchProvider) *Scraper {
	timeout := time.Duration(cfg.Scraping.TimeoutSeconds) * time.Second

	s := &Scraper{
		search: search,
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		browser:          NewBrowser(cfg.Scraping.UserAgent),
		userAgent:        cfg.Scraping.UserAgent,
		timeout:          timeout,
		defaultMaxPages:  cfg.Scraping.MaxPages,
		minContentLength: cfg.Scraping.MinContentLength,
	}
	s.strategies = []fetchStrategy{
		{name: "static", fetch: s.fetchStatic},
		{name: "dynamic", fetch: s.fetchDynamic},
	}
	return s
}

// Execute runs one scraping job. Per-URL failures are logged and skipped;
// only a failing or empty search fails the job.
func (s *Scraper) Execute(ctx context.Context, job events.ScrapeJob) (events.ScrapeResult, error) {
	maxPages := job.MaxPages
	if maxPages <= 0 {
		maxPages = s.defaultMaxPages
	}

	candidates, err := s.search.Search(ctx, job.Query)
	if err != nil {
		return events.ScrapeResult{}, fmt.Errorf("search failed for query %q: %w", job.Query, err)
	}
	if len(candidates) == 0 {
		return events.ScrapeResult{}, fmt.Errorf("query %q: %w", job.Query, ErrNoSearchResults)
	}

	if len(candidates) > maxPages {
		candidates = candidates[:maxPages]
	}

	var results []events.ScrapedPage
	for _, pageURL := range candidates {
		page := s.scrapeURL(ctx, pageURL)
		if page != nil {
			results = append(results, *page)
		}
	}

	sources := make([]string, len(results))
	for i, r := range results {
		sources[i] = r.URL
	}

	return events.ScrapeResult{
		JobID:     job.JobID,
		Query:     job.Query,
		Results:   results,
		Sources:   sources,
		ScrapedAt: time.Now(),
	}, nil
}

// scrapeURL runs the fetch strategies in order until one yields a page.
// Returns nil when every strategy fails; the URL is then omitted from the
// result set.
func (s *Scraper) scrapeURL(ctx context.Context, pageURL string) *events.ScrapedPage {
	for _, strategy := range s.strategies {
		page, err := strategy.fetch(ctx, pageURL)
		if err != nil {
			config.Logger.Debugf("%s fetch failed for %s: %v", strategy.name, pageURL, err)
			continue
		}
		if page == nil {
			continue
		}
		return &events.ScrapedPage{
			URL:        pageURL,
			Title:      page.Title,
			Content:    page.Content,
			SourceDate: page.SourceDate,
		}
	}

	config.Logger.Warnf("skipping %s: no strategy produced enough content", pageURL)
	return nil
}

// fetchStatic does a plain HTTP GET and applies the extraction rules.
func (s *Scraper) fetchStatic(ctx context.Context, pageURL string) (*extractedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	rawHTML := string(body)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	return extractPage(doc, rawHTML, s.minContentLength), nil
}

// fetchDynamic renders the page in the shared headless browser and applies
// the same extraction rules to the rendered DOM.
func (s *Scraper) fetchDynamic(ctx context.Context, pageURL string) (*extractedPage, error) {
	rawHTML, err := s.browser.RenderHTML(pageURL, s.timeout)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	return extractPage(doc, rawHTML, s.minContentLength), nil
}

// Shutdown releases the shared browser, waiting for open pages to finish.
func (s *Scraper) Shutdown() {
	s.browser.Shutdown()
}
