package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// SearchProvider resolves a query to candidate URLs, in discovery order.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// DuckDuckGoProvider scrapes the DuckDuckGo HTML endpoint for result links.
type DuckDuckGoProvider struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
}

func NewDuckDuckGoProvider(userAgent string, timeout time.Duration) *DuckDuckGoProvider {
	return &DuckDuckGoProvider{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		baseURL:    "https://html.duckduckgo.com/html/",
	}
}

func (p *DuckDuckGoProvider) Search(ctx context.Context, query string) ([]string, error) {
	searchURL := fmt.Sprintf("%s?q=%s", p.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	var urls []string
	doc.Find("a.result__a, a.result__url").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists {
			return
		}
		href = resolveRedirect(href)
		if strings.HasPrefix(href, "http") {
			urls = append(urls, href)
		}
	})

	return urls, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolveRedirect(href string) string {
	if !strings.Contains(href, "uddg=") {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// NewsFeedProvider resolves queries through the Google News RSS search feed.
// Useful for current-events queries where a plain web search surfaces too
// much evergreen content.
type NewsFeedProvider struct {
	parser  *gofeed.Parser
	feedURL string
}

func NewNewsFeedProvider(userAgent string) *NewsFeedProvider {
	p := gofeed.NewParser()
	p.UserAgent = userAgent
	return &NewsFeedProvider{
		parser:  p,
		feedURL: "https://news.google.com/rss/search?q=%s&hl=pt-BR&gl=BR&ceid=BR:pt-419",
	}
}

func (p *NewsFeedProvider) Search(ctx context.Context, query string) ([]string, error) {
	feedURL := fmt.Sprintf(p.feedURL, url.QueryEscape(query))

	feed, err := p.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("news feed search failed: %w", err)
	}

	urls := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if strings.HasPrefix(item.Link, "http") {
			urls = append(urls, item.Link)
		}
	}
	return urls, nil
}
