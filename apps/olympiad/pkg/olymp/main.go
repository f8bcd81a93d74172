package olymp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html"
)

const minSummaryLength = 60

type Options struct {
	UserAgent string
	Timeout   time.Duration
}

type client struct {
	logger  *slog.Logger
	options Options
}

func New(logger *slog.Logger, options Options) Client {
	return client{
		logger:  logger,
		options: options,
	}
}

func (client client) Fetch(ctx context.Context, url string) (*Page, error) {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(client.options.UserAgent),
	)
	c.SetRequestTimeout(client.options.Timeout)

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	client.logger.Debug(fmt.Sprintf("fetching %s", url))

	// colly reports network errors and non-2xx statuses through Visit
	err := c.Visit(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	page, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}

	page.URL = url
	return page, nil
}

// Parse extracts the title, summary and visible text of an HTML document.
func Parse(body []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	text := ""
	if len(doc.Nodes) > 0 {
		text = nodeText(doc.Nodes[0])
	}

	return &Page{
		URL:     "",
		Title:   extractTitle(doc),
		Summary: extractSummary(doc),
		Text:    text,
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	for _, tag := range []string{"h1", "title"} {
		selection := doc.Find(tag).First()
		if selection.Length() == 0 {
			continue
		}

		text := nodeText(selection.Nodes[0])
		if text != "" {
			return text
		}
	}

	content, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content")
	if ok {
		return strings.TrimSpace(content)
	}

	return ""
}

func extractSummary(doc *goquery.Document) string {
	content, ok := doc.Find(`meta[name="description"]`).First().Attr("content")
	if ok && strings.TrimSpace(content) != "" {
		return strings.TrimSpace(content)
	}

	summary := ""
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := nodeText(s.Nodes[0])
		if utf8.RuneCountInString(text) >= minSummaryLength {
			summary = text
			return false
		}
		return true
	})

	return summary
}

// nodeText joins the trimmed text nodes below node with single spaces,
// skipping script and style contents.
func nodeText(node *html.Node) string {
	parts := []string{}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				parts = append(parts, text)
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)

	return strings.Join(parts, " ")
}
