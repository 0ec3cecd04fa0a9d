package server

import "github.com/pentrail/pentrail/internal/model"

// AnalyzeRequest is the body of POST /analyses and POST /jobs.
type AnalyzeRequest struct {
	Target string `json:"target"`
	Kind   string `json:"kind"`
}

// AnalysisSummary is the list view of a stored analysis.
type AnalysisSummary struct {
	ID        string             `json:"id"`
	URL       string             `json:"url"`
	Kind      model.AnalysisKind `json:"kind"`
	Score     int                `json:"score"`
	CreatedAt string             `json:"created_at"`
}

func summarize(a *model.Analysis) AnalysisSummary {
	return AnalysisSummary{
		ID:        a.ID,
		URL:       a.URL,
		Kind:      a.Kind,
		Score:     a.Score,
		CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
