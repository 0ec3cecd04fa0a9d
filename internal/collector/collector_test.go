package collector

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/pentrail/pentrail/internal/model"
	"github.com/pentrail/pentrail/internal/testutil"
)

func newTestCollector(client *testutil.DummyWebClient, capturer *testutil.DummyCapturer) *Collector {
	return New(client, capturer, nil, &testutil.DummyLogger{})
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	t.Parallel()
	c := newTestCollector(&testutil.DummyWebClient{}, &testutil.DummyCapturer{})

	tests := []struct {
		name   string
		target string
		kind   model.AnalysisKind
	}{
		{"unknown kind", "https://example.com", model.AnalysisKind("bogus")},
		{"ftp scheme", "ftp://example.com", model.KindHeaders},
		{"no host", "https://", model.KindHeaders},
		{"not a url", "http://exa mple.com", model.KindHeaders},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := c.Analyze(context.Background(), tt.target, tt.kind); err == nil {
				t.Fatalf("Analyze(%q, %q) should fail", tt.target, tt.kind)
			}
		})
	}
}

func TestAnalyzeHeaders(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		Default: http.Header{
			"Server":       {"Apache/2.4.41 (Ubuntu)"},
			"X-Powered-By": {"PHP/7.4.3"},
			"Set-Cookie":   {"session=abc; Path=/", "theme=dark; Secure; HttpOnly; SameSite=Lax"},
		},
	}
	c := newTestCollector(client, &testutil.DummyCapturer{})

	a, err := c.Analyze(context.Background(), "https://example.com", model.KindHeaders)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if a.Kind != model.KindHeaders {
		t.Errorf("Kind = %q, want headers", a.Kind)
	}
	if a.ID == "" {
		t.Error("analysis should carry an ID")
	}
	if got := a.Bag.Headers["server"]; got != "Apache/2.4.41 (Ubuntu)" {
		t.Errorf("headers should be keyed lower-case, got server=%q", got)
	}
	if a.ServerInfo == nil || a.ServerInfo.WebServer != "Apache" {
		t.Errorf("ServerInfo.WebServer = %+v, want Apache", a.ServerInfo)
	}
	if a.ServerInfo.AppServer != "PHP" {
		t.Errorf("ServerInfo.AppServer = %q, want PHP", a.ServerInfo.AppServer)
	}
	if a.Cookies == nil || a.Cookies.Count != 2 {
		t.Fatalf("Cookies = %+v, want 2 cookies", a.Cookies)
	}
	if len(a.Cookies.Issues) == 0 {
		t.Error("session cookie without flags should be reported")
	}
	if a.Score != 0 {
		t.Errorf("Score = %d, want 0 with no security headers", a.Score)
	}
	if a.Recommendations == nil || len(a.Recommendations.HighPriority) == 0 {
		t.Error("bare response should produce high priority recommendations")
	}
	if len(a.Disclosures) == 0 {
		t.Error("server and x-powered-by headers should be listed as disclosures")
	}

	if len(client.Requests) != 1 || client.Requests[0].Method != "HEAD" {
		t.Fatalf("expected a single HEAD request, got %+v", client.Requests)
	}
}

func TestAnalyzeHeadersFetchFailure(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		FailURLs: map[string]bool{"https://down.example.com": true},
	}
	c := newTestCollector(client, &testutil.DummyCapturer{})

	if _, err := c.Analyze(context.Background(), "https://down.example.com", model.KindHeaders); err == nil {
		t.Fatal("headers analysis with no reachable target should fail")
	}
}

func TestAnalyzeTechnologyJoinsBothBranches(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		Default: http.Header{
			"Server":       {"nginx/1.18.0"},
			"X-Powered-By": {"Express"},
		},
	}
	capturer := &testutil.DummyCapturer{
		Snapshot: &testutil.FakeSnapshot{
			Globals: map[string]bool{"React": true},
		},
	}
	c := newTestCollector(client, capturer)

	a, err := c.Analyze(context.Background(), "https://example.com", model.KindTechnology)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if !a.Bag.Has(model.CategoryJavaScript, "React") {
		t.Error("snapshot branch should contribute the React signal")
	}
	if !a.Bag.Has(model.CategoryServer, "Nginx") {
		t.Error("header branch should contribute the Nginx signal")
	}
	if !a.Bag.Has(model.CategoryFramework, "Express.js") {
		t.Error("x-powered-by should contribute the Express.js signal")
	}
	if len(a.Degraded) != 0 {
		t.Errorf("both branches succeeded, Degraded = %v", a.Degraded)
	}
	if len(capturer.Captured) != 1 {
		t.Errorf("expected one snapshot capture, got %v", capturer.Captured)
	}
}

func TestAnalyzeTechnologyDegradesWithoutSnapshot(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		Default: http.Header{"Server": {"nginx"}},
	}
	capturer := &testutil.DummyCapturer{Err: context.DeadlineExceeded}
	c := newTestCollector(client, capturer)

	a, err := c.Analyze(context.Background(), "https://example.com", model.KindTechnology)
	if err != nil {
		t.Fatalf("one working branch should still produce an analysis: %v", err)
	}

	if len(a.Degraded) != 1 || !strings.Contains(a.Degraded[0], "snapshot unavailable") {
		t.Fatalf("Degraded = %v, want a snapshot note", a.Degraded)
	}
	if !a.Bag.Has(model.CategoryServer, "Nginx") {
		t.Error("header branch signals should survive a failed snapshot")
	}
}

func TestAnalyzeTechnologyBothBranchesFailing(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		FailURLs: map[string]bool{"https://dead.example.com": true},
	}
	capturer := &testutil.DummyCapturer{Err: context.DeadlineExceeded}
	c := newTestCollector(client, capturer)

	if _, err := c.Analyze(context.Background(), "https://dead.example.com", model.KindTechnology); err == nil {
		t.Fatal("analysis with both branches failing should error")
	}
}

func TestAnalyzeCertificatePlainHTTP(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{}
	c := newTestCollector(client, &testutil.DummyCapturer{})

	a, err := c.Analyze(context.Background(), "http://plain.example.com", model.KindCertificate)
	if err != nil {
		t.Fatalf("plain HTTP targets are analyzable: %v", err)
	}

	if len(a.Recommendations.HighPriority) == 0 {
		t.Fatal("missing TLS should itself be a high priority finding")
	}
	if len(client.Requests) != 0 {
		t.Errorf("no request needed for a plain HTTP verdict, got %d", len(client.Requests))
	}
}

func TestAnalyzeCertificateParsesHSTS(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		Default: http.Header{
			"Strict-Transport-Security": {"max-age=31536000; includeSubDomains; preload"},
		},
	}
	c := newTestCollector(client, &testutil.DummyCapturer{})

	a, err := c.Analyze(context.Background(), "https://secure.example.com", model.KindCertificate)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if a.HSTS == nil || !a.HSTS.Enabled {
		t.Fatalf("HSTS = %+v, want enabled", a.HSTS)
	}
	if a.HSTS.MaxAgeDays != 365 || !a.HSTS.IncludeSubDomains || !a.HSTS.Preload {
		t.Fatalf("HSTS = %+v, want full year policy with both flags", a.HSTS)
	}
}

func TestDeriveCookieReportDeduplicatesIssues(t *testing.T) {
	t.Parallel()

	headers := map[string]string{
		"set-cookie": "a=1\nb=2\nc=3",
	}
	report := deriveCookieReport(headers)

	if report.Count != 3 {
		t.Fatalf("Count = %d, want 3", report.Count)
	}
	if len(report.Issues) != 3 {
		t.Fatalf("Issues = %v, want one entry per missing attribute", report.Issues)
	}
}

func TestDeriveCacheReportFlagsUserAgentVary(t *testing.T) {
	t.Parallel()

	report := deriveCacheReport(map[string]string{
		"cache-control": "public, max-age=600",
		"vary":          "User-Agent",
	})

	found := false
	for _, issue := range report.Issues {
		if strings.Contains(issue, "User-Agent") {
			found = true
		}
	}
	if !found {
		t.Fatalf("Issues = %v, want a User-Agent caching warning", report.Issues)
	}
}
