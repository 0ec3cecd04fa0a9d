// Package report renders analyses for humans and for export. The renderers
// are pure over model.Analysis; they never re-derive findings.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pentrail/pentrail/internal/model"
)

// Format names a supported export encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
)

// ValidFormat reports whether s names a supported export format.
func ValidFormat(s string) bool {
	switch Format(s) {
	case FormatText, FormatJSON, FormatCSV, FormatXML:
		return true
	}
	return false
}

// Render writes the analysis to w in the requested format.
func Render(w io.Writer, a *model.Analysis, format Format) error {
	if a == nil {
		return fmt.Errorf("report: nil analysis")
	}
	switch format {
	case FormatText:
		return RenderText(w, a, false)
	case FormatJSON:
		return RenderJSON(w, a)
	case FormatCSV:
		return RenderCSV(w, a)
	case FormatXML:
		return RenderXML(w, a)
	}
	return fmt.Errorf("report: unknown format %q", format)
}

// ContentType returns the MIME type served for a format.
func ContentType(format Format) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatXML:
		return "application/xml"
	}
	return "text/plain; charset=utf-8"
}

// RenderJSON writes the analysis as indented JSON.
func RenderJSON(w io.Writer, a *model.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("failed to encode analysis %s: %w", a.ID, err)
	}
	return nil
}
