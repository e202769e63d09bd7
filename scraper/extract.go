package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Extraction rules shared by the static and dynamic strategies. The dynamic
// path applies the exact same rules to the browser-rendered document.

var unwantedSelectors = "script, style, nav, header, footer, .advertisement, .ads"

// Probed in order; the first container with enough text wins.
var contentSelectors = []string{
	"article",
	"main",
	".content",
	".post-content",
	".article-content",
	"#content",
	".entry-content",
}

var dateSelectors = []string{"time", ".date", ".published", "[datetime]"}

type extractedPage struct {
	Title      string
	Content    string
	SourceDate string
}

// extractPage pulls title, main content and an optional publish date out of a
// parsed document. rawHTML is kept around for the readability last resort.
// Returns nil when no strategy yields at least minContentLength characters.
func extractPage(doc *goquery.Document, rawHTML string, minContentLength int) *extractedPage {
	doc.Find(unwantedSelectors).Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = "Untitled"
	}

	var content string
	for _, selector := range contentSelectors {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			candidate := strings.TrimSpace(sel.Text())
			if len(candidate) > minContentLength {
				content = candidate
				break
			}
		}
	}

	// Fallback: all paragraph text.
	if len(content) < minContentLength {
		var paragraphs []string
		doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		content = strings.Join(paragraphs, "\n\n")
	}

	// Last resort: readability extraction over the full document.
	if len(content) < minContentLength {
		content = readabilityText(rawHTML)
	}

	if len(content) < minContentLength {
		return nil
	}

	var sourceDate string
	for _, selector := range dateSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			if dt, exists := sel.Attr("datetime"); exists && dt != "" {
				sourceDate = dt
			} else {
				sourceDate = strings.TrimSpace(sel.Text())
			}
			break
		}
	}

	return &extractedPage{
		Title:      title,
		Content:    content,
		SourceDate: sourceDate,
	}
}

func readabilityText(htmlStr string) string {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}

	article, err := readability.FromDocument(doc, nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
