// Package fetcher downloads web pages and extracts clean, readable text.
// Every fetch is preceded by an SSRF target check against private and
// reserved network ranges.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/net/html"
)

// FetchError is returned when fetching or parsing URL content fails.
type FetchError struct {
	URL     string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetchedContent is the result of fetching and parsing a URL.
type FetchedContent struct {
	URL     string
	Title   string
	Content string
}

var supportedContentTypes = map[string]bool{
	"text/html":         true,
	"application/xhtml": true,
	"text/plain":        true,
}

// Structural tags that never carry article content; head also holds the
// title, which is extracted before stripping.
const tagsToRemove = "script, style, nav, footer, header, head"

var excessiveNewlines = regexp.MustCompile(`\n\n\n+`)

type Fetcher struct {
	client         *http.Client
	maxContentSize int
	dnsVerdicts    *gocache.Cache
	lookupIP       lookupIPFn
}

func New(timeout time.Duration, maxContentSize int) *Fetcher {
	return &Fetcher{
		client:         &http.Client{Timeout: timeout},
		maxContentSize: maxContentSize,
		dnsVerdicts:    gocache.New(dnsVerdictTTL, dnsCleanupEvery),
		lookupIP:       defaultLookupIP,
	}
}

// Fetch downloads rawURL (redirects followed) and returns the extracted
// title and text. maxContentSize <= 0 falls back to the configured limit.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, maxContentSize int) (*FetchedContent, error) {
	if maxContentSize <= 0 {
		maxContentSize = f.maxContentSize
	}

	if err := f.ValidateURLTarget(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: fmt.Sprintf("invalid URL: %s", rawURL), Err: err}
	}

	res, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &FetchError{URL: rawURL, Message: fmt.Sprintf("timeout fetching URL: %s", rawURL), Err: err}
		}
		return nil, &FetchError{URL: rawURL, Message: fmt.Sprintf("request failed for %s: %v", rawURL, err), Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &FetchError{URL: rawURL, Message: fmt.Sprintf("HTTP error %d: %s", res.StatusCode, rawURL)}
	}

	contentType, _, _ := mime.ParseMediaType(res.Header.Get("Content-Type"))
	if contentType != "" && !supportedContentTypes[contentType] {
		log.Printf("[WARN] Unexpected content-type for %s: %s", rawURL, contentType)
	}

	// Read one byte past the limit so oversized bodies are detected without
	// buffering the whole response.
	body, err := io.ReadAll(io.LimitReader(res.Body, int64(maxContentSize)+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: fmt.Sprintf("failed reading response from %s: %v", rawURL, err), Err: err}
	}
	if len(body) > maxContentSize {
		return nil, &FetchError{URL: rawURL, Message: fmt.Sprintf("content too large (max %d bytes): %s", maxContentSize, rawURL)}
	}

	return parseHTMLContent(string(body), rawURL)
}

func parseHTMLContent(htmlContent, rawURL string) (*FetchedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: fmt.Sprintf("error parsing content from %s: %v", rawURL, err), Err: err}
	}

	title := rawURL
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		title = t
	}

	doc.Find(tagsToRemove).Remove()

	root := doc.Selection
	if body := doc.Find("body"); body.Length() > 0 {
		root = body
	}

	text := extractText(root)
	text = excessiveNewlines.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if text == "" {
		return nil, &FetchError{URL: rawURL, Message: fmt.Sprintf("No text content extracted from %s", rawURL)}
	}

	return &FetchedContent{URL: rawURL, Title: title, Content: text}, nil
}

// extractText joins every non-empty text node under sel with a paragraph
// delimiter, each node trimmed of surrounding whitespace.
func extractText(sel *goquery.Selection) string {
	var parts []string
	for _, node := range sel.Nodes {
		collectTextNodes(node, &parts)
	}
	return strings.Join(parts, "\n\n")
}

func collectTextNodes(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			*parts = append(*parts, text)
		}
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectTextNodes(child, parts)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
