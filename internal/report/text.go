package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/pentrail/pentrail/internal/model"
)

type painter func(format string, a ...interface{}) string

func palette(colorized bool) (header, high, medium, low, dim painter) {
	if !colorized {
		plain := fmt.Sprintf
		return plain, plain, plain, plain, plain
	}
	header = color.New(color.FgCyan, color.Bold).Sprintf
	high = color.New(color.FgRed, color.Bold).Sprintf
	medium = color.New(color.FgYellow).Sprintf
	low = color.New(color.FgGreen).Sprintf
	dim = color.New(color.Faint).Sprintf
	return
}

// RenderText writes a human-readable report. With colorized set, priority
// buckets are tinted using ANSI colors.
func RenderText(w io.Writer, a *model.Analysis, colorized bool) error {
	header, high, medium, low, dim := palette(colorized)

	fmt.Fprintln(w, header("PenTest Analysis: %s", a.URL))
	fmt.Fprintf(w, "Kind: %s    ID: %s    At: %s\n", a.Kind, a.ID, a.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(w)

	if a.Kind == model.KindHeaders {
		fmt.Fprintf(w, "Security header score: %s\n\n", scoreLabel(a.Score, high, medium, low))
	}

	if a.ServerInfo != nil {
		fmt.Fprintln(w, header("Server"))
		printServerInfo(w, a.ServerInfo)
		fmt.Fprintln(w)
	}

	if a.HSTS != nil {
		fmt.Fprintln(w, header("HSTS"))
		if a.HSTS.Enabled {
			fmt.Fprintf(w, "  max-age: %d seconds (%d days), includeSubDomains: %v, preload: %v\n",
				a.HSTS.MaxAgeSeconds, a.HSTS.MaxAgeDays, a.HSTS.IncludeSubDomains, a.HSTS.Preload)
		} else {
			fmt.Fprintln(w, "  not enabled")
		}
		fmt.Fprintln(w)
	}

	if a.Bag != nil && hasSignals(a.Bag) {
		fmt.Fprintln(w, header("Detected"))
		for _, cat := range model.Categories() {
			labels := a.Bag.Signals[cat]
			if len(labels) == 0 {
				continue
			}
			fmt.Fprintf(w, "  %-12s %s\n", cat+":", strings.Join(labels, ", "))
		}
		fmt.Fprintln(w)
	}

	if a.Cookies != nil && a.Cookies.Count > 0 {
		fmt.Fprintln(w, header("Cookies"))
		fmt.Fprintf(w, "  %d cookie(s) set\n", a.Cookies.Count)
		for _, issue := range a.Cookies.Issues {
			fmt.Fprintf(w, "  - %s\n", medium("%s", issue))
		}
		fmt.Fprintln(w)
	}

	if len(a.Disclosures) > 0 {
		fmt.Fprintln(w, header("Information Disclosure"))
		for _, d := range a.Disclosures {
			fmt.Fprintf(w, "  %s: %s (%s)\n", d.Header, d.Value, riskPaint(d.Risk, high, medium, low))
		}
		fmt.Fprintln(w)
	}

	if a.Caching != nil && len(a.Caching.Issues) > 0 {
		fmt.Fprintln(w, header("Caching"))
		for _, issue := range a.Caching.Issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
		fmt.Fprintln(w)
	}

	if a.Recommendations != nil {
		printBucket(w, header("High Priority"), a.Recommendations.HighPriority, high)
		printBucket(w, header("Medium Priority"), a.Recommendations.MediumPriority, medium)
		printBucket(w, header("Low Priority"), a.Recommendations.LowPriority, low)

		printChecklist(w, header("Recommended Extensions"), a.Recommendations.ToolExtensions)
		printChecklist(w, header("Scanner Configuration"), a.Recommendations.ScannerConfig)
		printChecklist(w, header("Manual Testing"), a.Recommendations.ManualTesting)
	}

	for _, note := range a.Degraded {
		fmt.Fprintln(w, dim("note: %s", note))
	}
	return nil
}

func scoreLabel(score int, high, medium, low painter) string {
	label := fmt.Sprintf("%d/100", score)
	switch {
	case score >= 70:
		return low("%s", label)
	case score >= 40:
		return medium("%s", label)
	default:
		return high("%s", label)
	}
}

func riskPaint(risk string, high, medium, low painter) string {
	switch strings.ToLower(risk) {
	case "high":
		return high("%s", risk)
	case "medium":
		return medium("%s", risk)
	default:
		return low("%s", risk)
	}
}

func hasSignals(bag *model.IndicatorBag) bool {
	for _, cat := range model.Categories() {
		if len(bag.Signals[cat]) > 0 {
			return true
		}
	}
	return false
}

func printServerInfo(w io.Writer, info *model.ServerInfo) {
	rows := []struct{ label, value string }{
		{"Server", info.Server},
		{"Powered by", info.PoweredBy},
		{"Technology", info.Technology},
		{"Runtime", info.Runtime},
		{"Generator", info.Generator},
		{"Framework", info.Framework},
		{"ASP.NET", info.ASPNet},
		{"ASP.NET MVC", info.ASPNetMvc},
		{"Source map", info.SourceMap},
		{"Load balancer", info.LoadBalancer},
		{"CDN", info.CDN},
		{"Web server", info.WebServer},
		{"App server", info.AppServer},
	}
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		fmt.Fprintf(w, "  %-14s %s\n", row.label+":", row.value)
	}
}

func printBucket(w io.Writer, title string, recs []model.Recommendation, paint painter) {
	if len(recs) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, rec := range recs {
		fmt.Fprintf(w, "  %s [%s]\n", paint("%s", rec.Category), rec.Risk)
		fmt.Fprintf(w, "    %s\n", rec.Description)
		if rec.Technique != "" {
			fmt.Fprintf(w, "    Technique: %s\n", rec.Technique)
		}
		if len(rec.Extensions) > 0 {
			fmt.Fprintf(w, "    Extensions: %s\n", strings.Join(rec.Extensions, ", "))
		}
		if rec.ScannerConfig != "" {
			fmt.Fprintf(w, "    Scanner: %s\n", rec.ScannerConfig)
		}
		if rec.ManualTesting != "" {
			fmt.Fprintf(w, "    Manual: %s\n", rec.ManualTesting)
		}
	}
	fmt.Fprintln(w)
}

func printChecklist(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
	fmt.Fprintln(w)
}
