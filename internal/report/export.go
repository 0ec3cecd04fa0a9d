package report

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pentrail/pentrail/internal/model"
)

// RenderCSV writes the analysis as flat rows. Every row carries the same five
// columns so the output loads cleanly into spreadsheets.
func RenderCSV(w io.Writer, a *model.Analysis) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"Category", "Item", "Value", "Risk Level", "Description"},
		{"Meta", "URL", a.URL, "", ""},
		{"Meta", "Kind", string(a.Kind), "", ""},
		{"Meta", "Analyzed At", a.CreatedAt.Format("2006-01-02 15:04:05"), "", ""},
	}
	if a.Kind == model.KindHeaders {
		rows = append(rows, []string{"Meta", "Security Score", strconv.Itoa(a.Score), "", ""})
	}

	if a.Bag != nil {
		for _, cat := range model.Categories() {
			for _, label := range a.Bag.Signals[cat] {
				rows = append(rows, []string{"Detected", string(cat), label, "", ""})
			}
		}
	}
	for _, d := range a.Disclosures {
		rows = append(rows, []string{"Disclosure", d.Header, d.Value, d.Risk, d.Description})
	}
	if a.Cookies != nil {
		for _, issue := range a.Cookies.Issues {
			rows = append(rows, []string{"Cookies", "Issue", issue, "Medium", ""})
		}
	}
	if a.Caching != nil {
		for _, issue := range a.Caching.Issues {
			rows = append(rows, []string{"Caching", "Issue", issue, "Medium", ""})
		}
	}
	if a.Recommendations != nil {
		appendRecRows := func(level string, recs []model.Recommendation) {
			for _, rec := range recs {
				rows = append(rows, []string{"Recommendation", rec.Category, rec.Technique, level, rec.Description})
			}
		}
		appendRecRows("High", a.Recommendations.HighPriority)
		appendRecRows("Medium", a.Recommendations.MediumPriority)
		appendRecRows("Low", a.Recommendations.LowPriority)
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv for analysis %s: %w", a.ID, err)
	}
	return nil
}

type xmlRecommendation struct {
	Category      string `xml:"category"`
	Risk          string `xml:"risk"`
	Description   string `xml:"description"`
	Technique     string `xml:"technique,omitempty"`
	ScannerConfig string `xml:"scanner-config,omitempty"`
	ManualTesting string `xml:"manual-testing,omitempty"`
}

type xmlSignal struct {
	Category string `xml:"category,attr"`
	Label    string `xml:",chardata"`
}

type xmlDisclosure struct {
	Header      string `xml:"header"`
	Value       string `xml:"value"`
	Risk        string `xml:"risk"`
	Description string `xml:"description"`
}

type xmlAnalysis struct {
	XMLName    xml.Name            `xml:"pentest-analysis"`
	ID         string              `xml:"id"`
	URL        string              `xml:"url"`
	Kind       string              `xml:"kind"`
	Score      int                 `xml:"score,omitempty"`
	AnalyzedAt string              `xml:"analyzed-at"`
	Signals    []xmlSignal         `xml:"detected>signal,omitempty"`
	Disclosure []xmlDisclosure     `xml:"disclosures>disclosure,omitempty"`
	High       []xmlRecommendation `xml:"recommendations>high,omitempty"`
	Medium     []xmlRecommendation `xml:"recommendations>medium,omitempty"`
	Low        []xmlRecommendation `xml:"recommendations>low,omitempty"`
	Degraded   []string            `xml:"notes>note,omitempty"`
}

// RenderXML writes the analysis as a pentest-analysis document.
func RenderXML(w io.Writer, a *model.Analysis) error {
	doc := xmlAnalysis{
		ID:         a.ID,
		URL:        a.URL,
		Kind:       string(a.Kind),
		Score:      a.Score,
		AnalyzedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Degraded:   a.Degraded,
	}
	if a.Bag != nil {
		for _, cat := range model.Categories() {
			for _, label := range a.Bag.Signals[cat] {
				doc.Signals = append(doc.Signals, xmlSignal{Category: string(cat), Label: label})
			}
		}
	}
	for _, d := range a.Disclosures {
		doc.Disclosure = append(doc.Disclosure, xmlDisclosure(d))
	}
	if a.Recommendations != nil {
		doc.High = xmlRecs(a.Recommendations.HighPriority)
		doc.Medium = xmlRecs(a.Recommendations.MediumPriority)
		doc.Low = xmlRecs(a.Recommendations.LowPriority)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode xml for analysis %s: %w", a.ID, err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func xmlRecs(recs []model.Recommendation) []xmlRecommendation {
	out := make([]xmlRecommendation, 0, len(recs))
	for _, rec := range recs {
		out = append(out, xmlRecommendation{
			Category:      rec.Category,
			Risk:          rec.Risk,
			Description:   rec.Description,
			Technique:     rec.Technique,
			ScannerConfig: rec.ScannerConfig,
			ManualTesting: rec.ManualTesting,
		})
	}
	return out
}

// Filename suggests an export filename derived from the analysis URL.
func Filename(a *model.Analysis, format Format) string {
	host := a.URL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/:"); i >= 0 {
		host = host[:i]
	}
	if host == "" {
		host = "analysis"
	}
	ext := string(format)
	if format == FormatText {
		ext = "txt"
	}
	return fmt.Sprintf("pentest-%s-%s-%s.%s", host, a.Kind, a.CreatedAt.Format("20060102-150405"), ext)
}
