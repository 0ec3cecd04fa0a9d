package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/pentrail/pentrail/internal/model"
)

// DiffChunk is one textual change between two analyses of the same target.
type DiffChunk struct {
	Type    string `json:"type"` // "added" or "removed"
	Content string `json:"content,omitempty"`
}

// Diff summarizes how two analyses differ. Signal and recommendation changes
// are set-based; Chunks carries a semantic text diff of the full reports for
// anything the sets do not capture.
type Diff struct {
	BaseID string `json:"base_id"`
	HeadID string `json:"head_id"`

	AddedSignals   []string `json:"added_signals,omitempty"`
	RemovedSignals []string `json:"removed_signals,omitempty"`
	AddedRecs      []string `json:"added_recommendations,omitempty"`
	RemovedRecs    []string `json:"removed_recommendations,omitempty"`
	ScoreDelta     int      `json:"score_delta"`

	Chunks []DiffChunk `json:"chunks,omitempty"`
}

// Compare computes the differences between a base and a head analysis.
func Compare(base, head *model.Analysis) (*Diff, error) {
	if base == nil || head == nil {
		return nil, fmt.Errorf("report: nil analysis in comparison")
	}

	d := &Diff{
		BaseID:     base.ID,
		HeadID:     head.ID,
		ScoreDelta: head.Score - base.Score,
	}
	d.AddedSignals, d.RemovedSignals = setDiff(signalSet(base.Bag), signalSet(head.Bag))
	d.AddedRecs, d.RemovedRecs = setDiff(recSet(base.Recommendations), recSet(head.Recommendations))

	chunks, err := textChunks(base, head)
	if err != nil {
		return nil, err
	}
	d.Chunks = chunks
	return d, nil
}

func signalSet(bag *model.IndicatorBag) map[string]bool {
	set := map[string]bool{}
	if bag == nil {
		return set
	}
	for _, cat := range model.Categories() {
		for _, label := range bag.Signals[cat] {
			set[string(cat)+": "+label] = true
		}
	}
	return set
}

func recSet(recs *model.RecommendationSet) map[string]bool {
	set := map[string]bool{}
	if recs == nil {
		return set
	}
	for _, bucket := range [][]model.Recommendation{recs.HighPriority, recs.MediumPriority, recs.LowPriority} {
		for _, rec := range bucket {
			set[rec.Category] = true
		}
	}
	return set
}

// setDiff returns head-only keys as added and base-only keys as removed,
// both sorted for stable output.
func setDiff(base, head map[string]bool) (added, removed []string) {
	for key := range head {
		if !base[key] {
			added = append(added, key)
		}
	}
	for key := range base {
		if !head[key] {
			removed = append(removed, key)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func textChunks(base, head *model.Analysis) ([]DiffChunk, error) {
	baseText, err := canonicalText(base)
	if err != nil {
		return nil, err
	}
	headText, err := canonicalText(head)
	if err != nil {
		return nil, err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(baseText, headText, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	chunks := make([]DiffChunk, 0)
	for _, d := range diffs {
		var chunkType string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			chunkType = "added"
		case diffmatchpatch.DiffDelete:
			chunkType = "removed"
		case diffmatchpatch.DiffEqual:
			continue
		}
		if strings.TrimSpace(d.Text) != "" {
			chunks = append(chunks, DiffChunk{Type: chunkType, Content: d.Text})
		}
	}
	return chunks, nil
}

// canonicalText serializes the comparable parts of an analysis. ID and
// timestamp are excluded so two runs against an unchanged target diff clean.
func canonicalText(a *model.Analysis) (string, error) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetIndent("", "  ")
	if err := enc.Encode(struct {
		URL             string                   `json:"url"`
		Kind            model.AnalysisKind       `json:"kind"`
		Bag             *model.IndicatorBag      `json:"bag"`
		Recommendations *model.RecommendationSet `json:"recommendations"`
		Score           int                      `json:"score"`
	}{a.URL, a.Kind, a.Bag, a.Recommendations, a.Score}); err != nil {
		return "", fmt.Errorf("failed to serialize analysis %s for diffing: %w", a.ID, err)
	}
	return sb.String(), nil
}
