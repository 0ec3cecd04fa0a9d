package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pentrail/pentrail/internal/model"
)

func sampleAnalysis() *model.Analysis {
	bag := model.NewIndicatorBag()
	bag.Headers["server"] = "nginx/1.18.0"
	bag.Add(model.CategoryJavaScript, "React", "jQuery")
	bag.Add(model.CategorySecurity, "CSRF Token Missing")

	return &model.Analysis{
		ID:   "test-id",
		URL:  "https://example.com:8443/app",
		Kind: model.KindHeaders,
		Bag:  bag,
		Recommendations: &model.RecommendationSet{
			HighPriority: []model.Recommendation{
				{Category: "Content Security Policy", Risk: "XSS", Description: "No CSP header detected"},
			},
			MediumPriority: []model.Recommendation{
				{Category: "Cookie Security", Risk: "Session Hijacking", Description: "Cookie without flags"},
			},
			ToolExtensions: []string{"Retire.js"},
			ScannerConfig:  []string{"Enable all checks"},
			ManualTesting:  []string{"Review login flow"},
		},
		Score: 33,
		ServerInfo: &model.ServerInfo{
			Server:    "nginx/1.18.0",
			WebServer: "Nginx",
		},
		Cookies: &model.CookieReport{
			Count:  1,
			Issues: []string{"Cookie without Secure flag detected"},
		},
		Disclosures: []model.Disclosure{
			{Header: "server", Value: "nginx/1.18.0", Risk: "Information disclosure", Description: "Reveals server information"},
		},
		CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestValidFormat(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"text", "json", "csv", "xml"} {
		if !ValidFormat(s) {
			t.Errorf("ValidFormat(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "pdf", "TEXT", "yaml"} {
		if ValidFormat(s) {
			t.Errorf("ValidFormat(%q) = true, want false", s)
		}
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Render(&buf, sampleAnalysis(), Format("pdf")); err == nil {
		t.Fatal("unknown format should fail")
	}
	if err := Render(&buf, nil, FormatJSON); err == nil {
		t.Fatal("nil analysis should fail")
	}
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RenderText(&buf, sampleAnalysis(), false); err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"https://example.com:8443/app",
		"No CSP header detected",
		"Cookie without Secure flag detected",
		"nginx/1.18.0",
		"React",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q", want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain rendering must not emit ANSI escapes")
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RenderJSON(&buf, sampleAnalysis()); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	var decoded model.Analysis
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON output does not parse: %v", err)
	}
	if decoded.ID != "test-id" || decoded.Score != 33 {
		t.Fatalf("decoded = %+v, want the rendered analysis", decoded)
	}
}

func TestRenderCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RenderCSV(&buf, sampleAnalysis()); err != nil {
		t.Fatalf("RenderCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV output does not parse: %v", err)
	}
	if len(records) < 2 {
		t.Fatalf("CSV has %d rows, want header plus data", len(records))
	}
	header := strings.Join(records[0], ",")
	if !strings.Contains(header, "Category") || !strings.Contains(header, "Risk Level") {
		t.Fatalf("unexpected CSV header %v", records[0])
	}

	foundSignal := false
	for _, row := range records[1:] {
		for _, cell := range row {
			if cell == "React" {
				foundSignal = true
			}
		}
	}
	if !foundSignal {
		t.Error("CSV should list detected signals")
	}
}

func TestRenderXML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RenderXML(&buf, sampleAnalysis()); err != nil {
		t.Fatalf("RenderXML failed: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<?xml") {
		t.Error("XML output should start with the declaration")
	}
	for _, want := range []string{"<pentest-analysis>", "</pentest-analysis>", "<id>test-id</id>", "React", "Content Security Policy"} {
		if !strings.Contains(out, want) {
			t.Errorf("XML report missing %q", want)
		}
	}
}

func TestFilename(t *testing.T) {
	t.Parallel()

	a := sampleAnalysis()
	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "pentest-example.com-headers-20260830-120000.txt"},
		{FormatJSON, "pentest-example.com-headers-20260830-120000.json"},
		{FormatCSV, "pentest-example.com-headers-20260830-120000.csv"},
	}
	for _, tt := range tests {
		if got := Filename(a, tt.format); got != tt.want {
			t.Errorf("Filename(%s) = %q, want %q", tt.format, got, tt.want)
		}
	}

	bare := &model.Analysis{URL: "", Kind: model.KindTechnology, CreatedAt: a.CreatedAt}
	if got := Filename(bare, FormatJSON); !strings.HasPrefix(got, "pentest-analysis-") {
		t.Errorf("Filename fallback = %q, want the analysis placeholder", got)
	}
}

func TestCompareIdenticalTargets(t *testing.T) {
	t.Parallel()

	base := sampleAnalysis()
	head := sampleAnalysis()
	head.ID = "other-id"
	head.CreatedAt = head.CreatedAt.Add(time.Hour)

	d, err := Compare(base, head)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if d.BaseID != "test-id" || d.HeadID != "other-id" {
		t.Errorf("IDs = %q/%q, want test-id/other-id", d.BaseID, d.HeadID)
	}
	if d.ScoreDelta != 0 {
		t.Errorf("ScoreDelta = %d, want 0", d.ScoreDelta)
	}
	if len(d.AddedSignals)+len(d.RemovedSignals)+len(d.AddedRecs)+len(d.RemovedRecs) != 0 {
		t.Errorf("identical analyses should have no set changes, got %+v", d)
	}
	if len(d.Chunks) != 0 {
		t.Errorf("identical analyses should diff clean, got chunks %v", d.Chunks)
	}
}

func TestCompareReportsChanges(t *testing.T) {
	t.Parallel()

	base := sampleAnalysis()
	head := sampleAnalysis()
	head.ID = "head-id"
	head.Score = 53
	head.Bag.Add(model.CategoryCMS, "WordPress")
	head.Recommendations.HighPriority = append(head.Recommendations.HighPriority,
		model.Recommendation{Category: "WordPress CMS", Risk: "Known CVEs", Description: "WordPress detected"})

	d, err := Compare(base, head)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if d.ScoreDelta != 20 {
		t.Errorf("ScoreDelta = %d, want 20", d.ScoreDelta)
	}
	if len(d.AddedSignals) != 1 || d.AddedSignals[0] != "cms: WordPress" {
		t.Errorf("AddedSignals = %v, want [cms: WordPress]", d.AddedSignals)
	}
	if len(d.RemovedSignals) != 0 {
		t.Errorf("RemovedSignals = %v, want none", d.RemovedSignals)
	}
	if len(d.AddedRecs) != 1 || d.AddedRecs[0] != "WordPress CMS" {
		t.Errorf("AddedRecs = %v, want [WordPress CMS]", d.AddedRecs)
	}
	if len(d.Chunks) == 0 {
		t.Error("changed analyses should produce text chunks")
	}
	for _, c := range d.Chunks {
		if c.Type != "added" && c.Type != "removed" {
			t.Errorf("chunk type %q, want added or removed", c.Type)
		}
	}
}

func TestCompareNilAnalysis(t *testing.T) {
	t.Parallel()

	if _, err := Compare(nil, sampleAnalysis()); err == nil {
		t.Fatal("nil base should fail")
	}
	if _, err := Compare(sampleAnalysis(), nil); err == nil {
		t.Fatal("nil head should fail")
	}
}
