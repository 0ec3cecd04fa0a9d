package snapshot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/pentrail/pentrail/internal/logging"
	"github.com/pentrail/pentrail/internal/webclient"
)

// StaticCapturer fetches the page once over plain HTTP and parses the raw
// markup. It cannot observe runtime globals or browser storage, so probes that
// need those degrade to their markup-based fallbacks.
type StaticCapturer struct {
	client webclient.WebClient
	logger logging.Logger
}

// NewStaticCapturer returns a capturer backed by the given HTTP client. A nil
// client gets a default NetHTTPClient.
func NewStaticCapturer(client webclient.WebClient, logger logging.Logger) *StaticCapturer {
	if logger == nil {
		logger = &logging.NopLogger{}
	}
	if client == nil {
		client = webclient.NewNetHTTPClient(logger, nil)
	}
	return &StaticCapturer{client: client, logger: logger}
}

// Capture fetches the URL and builds a static snapshot from the response body.
func (c *StaticCapturer) Capture(ctx context.Context, url string) (Snapshot, error) {
	resp, err := c.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("static capture of %s failed: %w", url, err)
	}

	c.logger.Debug("captured static snapshot",
		logging.Field{Key: "component", Value: "snapshot"},
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "status", Value: resp.StatusCode},
		logging.Field{Key: "bytes", Value: len(resp.Body)},
	)

	return NewStaticSnapshot(string(resp.Body), resp.FinalURL)
}

func (c *StaticCapturer) Close() error { return c.client.Close() }

// StaticSnapshot is a parsed HTML document. It satisfies Snapshot with the
// runtime-dependent methods stubbed out.
type StaticSnapshot struct {
	doc      *goquery.Document
	html     string
	location string

	once sync.Once
	// populated lazily on first access
	scripts []string
	links   []string
	inline  []string
	body    string
}

// NewStaticSnapshot parses the markup into a snapshot.
func NewStaticSnapshot(html, location string) (*StaticSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &StaticSnapshot{doc: doc, html: html, location: location}, nil
}

func (s *StaticSnapshot) collect() {
	s.once.Do(func() {
		s.doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
			if src, ok := sel.Attr("src"); ok && src != "" {
				s.scripts = append(s.scripts, src)
			}
		})
		s.doc.Find("link[href]").Each(func(_ int, sel *goquery.Selection) {
			if href, ok := sel.Attr("href"); ok && href != "" {
				s.links = append(s.links, href)
			}
		})
		s.doc.Find("script:not([src])").Each(func(_ int, sel *goquery.Selection) {
			if text := sel.Text(); text != "" {
				s.inline = append(s.inline, text)
			}
		})
		s.body = s.doc.Find("body").Text()
	})
}

// HasGlobal always reports false: a parsed document has no runtime.
func (s *StaticSnapshot) HasGlobal(string) bool { return false }

func (s *StaticSnapshot) Query(selector string) bool {
	// goquery panics on selectors it cannot compile, so guard it.
	defer func() { _ = recover() }()
	return s.doc.Find(selector).Length() > 0
}

func (s *StaticSnapshot) ScriptSources() []string {
	s.collect()
	return s.scripts
}

func (s *StaticSnapshot) LinkHrefs() []string {
	s.collect()
	return s.links
}

func (s *StaticSnapshot) InlineScripts() []string {
	s.collect()
	return s.inline
}

func (s *StaticSnapshot) MetaContent(name string) string {
	var content string
	s.doc.Find("meta[name]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if n, _ := sel.Attr("name"); strings.EqualFold(n, name) {
			content, _ = sel.Attr("content")
			return false
		}
		return true
	})
	return content
}

func (s *StaticSnapshot) BodyText() string {
	s.collect()
	return s.body
}

func (s *StaticSnapshot) HTML() string { return s.html }

func (s *StaticSnapshot) StorageEntries() []string { return nil }

func (s *StaticSnapshot) SessionEntries() []string { return nil }

func (s *StaticSnapshot) Location() string { return s.location }

func (s *StaticSnapshot) Close() error { return nil }
