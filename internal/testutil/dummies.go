// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pentrail/pentrail/internal/logging"
	"github.com/pentrail/pentrail/internal/snapshot"
	"github.com/pentrail/pentrail/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyWebClient implements webclient.WebClient. Responses are keyed by URL;
// URLs without an entry get status 200 with body "ok:<url>" and the Default
// headers. Set FailURLs[url] = true to force an error for a specific URL.
type DummyWebClient struct {
	ResponseDelay time.Duration
	FailURLs      map[string]bool

	// Headers returned for every URL without a Responses entry.
	Default http.Header

	// Responses maps a URL to a canned response.
	Responses map[string]*webclient.Response

	mu       sync.Mutex
	Requests []*webclient.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	if d.FailURLs != nil && d.FailURLs[req.URL] {
		return nil, &errString{"dummy fetch fail for " + req.URL}
	}

	if d.Responses != nil {
		if resp, ok := d.Responses[req.URL]; ok {
			cp := *resp
			cp.Request = req
			if cp.FinalURL == "" {
				cp.FinalURL = req.URL
			}
			return &cp, nil
		}
	}

	return &webclient.Response{
		Request:    req,
		Body:       []byte("ok:" + req.URL),
		Headers:    d.Default,
		StatusCode: 200,
		FinalURL:   req.URL,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Head(ctx context.Context, url string) (*webclient.Response, error) {
	return d.Do(ctx, &webclient.Request{Method: "HEAD", URL: url})
}

func (d *DummyWebClient) Get(ctx context.Context, url string) (*webclient.Response, error) {
	return d.Do(ctx, &webclient.Request{Method: "GET", URL: url})
}

func (d *DummyWebClient) Close() error { return nil }

// ─── Snapshot ──────────────────────────────────────────────────────────

// FakeSnapshot implements snapshot.Snapshot from plain fields, so probe tests
// can describe exactly the page they want without parsing HTML.
type FakeSnapshot struct {
	Globals  map[string]bool
	Selector map[string]bool
	Scripts  []string
	Links    []string
	Inline   []string
	Meta     map[string]string
	Body     string
	Markup   string
	Storage  []string
	Session  []string
	URL      string
}

func (f *FakeSnapshot) HasGlobal(name string) bool { return f.Globals[name] }
func (f *FakeSnapshot) Query(selector string) bool { return f.Selector[selector] }
func (f *FakeSnapshot) ScriptSources() []string    { return f.Scripts }
func (f *FakeSnapshot) LinkHrefs() []string        { return f.Links }
func (f *FakeSnapshot) InlineScripts() []string    { return f.Inline }

func (f *FakeSnapshot) MetaContent(name string) string {
	for k, v := range f.Meta {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func (f *FakeSnapshot) BodyText() string         { return f.Body }
func (f *FakeSnapshot) HTML() string             { return f.Markup }
func (f *FakeSnapshot) StorageEntries() []string { return f.Storage }
func (f *FakeSnapshot) SessionEntries() []string { return f.Session }
func (f *FakeSnapshot) Location() string         { return f.URL }
func (f *FakeSnapshot) Close() error             { return nil }

// DummyCapturer implements snapshot.Capturer with a canned snapshot.
type DummyCapturer struct {
	Snapshot snapshot.Snapshot
	Err      error

	mu       sync.Mutex
	Captured []string
}

func (d *DummyCapturer) Capture(_ context.Context, url string) (snapshot.Snapshot, error) {
	d.mu.Lock()
	d.Captured = append(d.Captured, url)
	d.mu.Unlock()

	if d.Err != nil {
		return nil, d.Err
	}
	if d.Snapshot != nil {
		return d.Snapshot, nil
	}
	return &FakeSnapshot{URL: url}, nil
}

func (d *DummyCapturer) Close() error { return nil }

type errString struct{ s string }

func (e *errString) Error() string { return e.s }
