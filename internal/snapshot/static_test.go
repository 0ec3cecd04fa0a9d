package snapshot_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pentrail/pentrail/internal/snapshot"
	"github.com/pentrail/pentrail/internal/testutil"
	"github.com/pentrail/pentrail/internal/webclient"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <meta name="Generator" content="WordPress 6.4.2">
  <link rel="stylesheet" href="/wp-content/themes/x/style.css">
  <link href="https://fonts.googleapis.com/css?family=Roboto" rel="stylesheet">
  <script src="https://code.jquery.com/jquery-3.6.0.min.js"></script>
  <script src=""></script>
</head>
<body class="home">
  <div id="root"></div>
  <form method="POST" action="/login">
    <input type="text" name="user">
  </form>
  <p>Welcome to the demo shop.</p>
  <script>
    var sock = new WebSocket('ws://example.com/feed');
  </script>
</body>
</html>`

func mustSnapshot(t *testing.T) *snapshot.StaticSnapshot {
	t.Helper()
	snap, err := snapshot.NewStaticSnapshot(samplePage, "https://example.com/")
	if err != nil {
		t.Fatalf("NewStaticSnapshot failed: %v", err)
	}
	return snap
}

func TestStaticSnapshotScriptSources(t *testing.T) {
	t.Parallel()
	snap := mustSnapshot(t)

	srcs := snap.ScriptSources()
	if len(srcs) != 1 || srcs[0] != "https://code.jquery.com/jquery-3.6.0.min.js" {
		t.Fatalf("ScriptSources() = %v, want the single non-empty src", srcs)
	}
}

func TestStaticSnapshotLinkHrefs(t *testing.T) {
	t.Parallel()
	snap := mustSnapshot(t)

	hrefs := snap.LinkHrefs()
	if len(hrefs) != 2 {
		t.Fatalf("LinkHrefs() = %v, want 2 entries", hrefs)
	}
}

func TestStaticSnapshotInlineScripts(t *testing.T) {
	t.Parallel()
	snap := mustSnapshot(t)

	inline := snap.InlineScripts()
	if len(inline) != 1 {
		t.Fatalf("InlineScripts() = %v, want 1 entry", inline)
	}
	if want := "new WebSocket('ws://example.com/feed')"; !strings.Contains(inline[0], want) {
		t.Fatalf("inline script %q missing %q", inline[0], want)
	}
}

func TestStaticSnapshotMetaContentCaseInsensitive(t *testing.T) {
	t.Parallel()
	snap := mustSnapshot(t)

	for _, name := range []string{"generator", "Generator", "GENERATOR"} {
		if got := snap.MetaContent(name); got != "WordPress 6.4.2" {
			t.Fatalf("MetaContent(%q) = %q, want the generator value", name, got)
		}
	}
	if got := snap.MetaContent("viewport"); got != "" {
		t.Fatalf("MetaContent(viewport) = %q, want empty", got)
	}
}

func TestStaticSnapshotQuery(t *testing.T) {
	t.Parallel()
	snap := mustSnapshot(t)

	tests := []struct {
		selector string
		want     bool
	}{
		{"#root", true},
		{`form[method="POST"]`, true},
		{`form input[name*="user"]`, true},
		{".missing-class", false},
	}
	for _, tt := range tests {
		if got := snap.Query(tt.selector); got != tt.want {
			t.Errorf("Query(%q) = %v, want %v", tt.selector, got, tt.want)
		}
	}
}

func TestStaticSnapshotBadSelectorDoesNotPanic(t *testing.T) {
	t.Parallel()
	snap := mustSnapshot(t)

	if snap.Query("[[invalid!!") {
		t.Fatal("uncompilable selector should report no match")
	}
}

func TestStaticSnapshotRuntimeStubs(t *testing.T) {
	t.Parallel()
	snap := mustSnapshot(t)

	if snap.HasGlobal("React") {
		t.Error("a parsed document has no runtime globals")
	}
	if entries := snap.StorageEntries(); entries != nil {
		t.Errorf("StorageEntries() = %v, want nil", entries)
	}
	if snap.Location() != "https://example.com/" {
		t.Errorf("Location() = %q", snap.Location())
	}
	if snap.BodyText() == "" {
		t.Error("BodyText() should carry the page text")
	}
}

func TestStaticCapturerCapture(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		Responses: map[string]*webclient.Response{
			"https://example.com/": {
				Body:       []byte(samplePage),
				Headers:    http.Header{"Content-Type": {"text/html"}},
				StatusCode: 200,
				FinalURL:   "https://example.com/",
				FetchedAt:  time.Now(),
			},
		},
	}
	capturer := snapshot.NewStaticCapturer(client, nil)

	snap, err := capturer.Capture(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	defer snap.Close()

	if len(snap.ScriptSources()) == 0 {
		t.Error("captured snapshot should expose script sources")
	}
	if len(client.Requests) != 1 || client.Requests[0].Method != "GET" {
		t.Fatalf("expected one GET request, got %+v", client.Requests)
	}
}

func TestStaticCapturerFetchFailure(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		FailURLs: map[string]bool{"https://down.example.com": true},
	}
	capturer := snapshot.NewStaticCapturer(client, nil)

	if _, err := capturer.Capture(context.Background(), "https://down.example.com"); err == nil {
		t.Fatal("failed fetch should fail the capture")
	}
}
