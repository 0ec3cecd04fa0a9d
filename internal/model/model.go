package model

// Category is the closed set of signal categories an IndicatorBag can carry.
// Keeping this a named type with a fixed list prevents silently-ignored typos
// in category names: rule groups map exhaustively over Categories().
type Category string

const (
	CategoryServer      Category = "server"
	CategoryFramework   Category = "framework"
	CategoryJavaScript  Category = "javascript"
	CategoryCSS         Category = "css"
	CategoryCMS         Category = "cms"
	CategoryAnalytics   Category = "analytics"
	CategoryFonts       Category = "fonts"
	CategorySecurity    Category = "security"
	CategoryDevelopment Category = "development"
	CategoryCDN         Category = "cdn"
	CategoryOther       Category = "other"
)

// Categories returns every category in canonical evaluation order.
func Categories() []Category {
	return []Category{
		CategoryServer,
		CategoryFramework,
		CategoryJavaScript,
		CategoryCSS,
		CategoryCMS,
		CategoryAnalytics,
		CategoryFonts,
		CategorySecurity,
		CategoryDevelopment,
		CategoryCDN,
		CategoryOther,
	}
}

// IndicatorBag is the complete, normalized set of indicators for one
// analysis run. Every category key is always present (possibly with an empty
// list) so downstream lookups never need existence checks.
type IndicatorBag struct {
	// Headers maps lower-cased response header names to values.
	// Empty when header retrieval failed or the target never answered.
	Headers map[string]string `json:"headers"`

	// Signals maps each category to the technology/indicator labels
	// observed for it.
	Signals map[Category][]string `json:"signals"`
}

// NewIndicatorBag returns a bag with every category initialized to an empty
// list and an empty header map.
func NewIndicatorBag() *IndicatorBag {
	signals := make(map[Category][]string, len(Categories()))
	for _, c := range Categories() {
		signals[c] = []string{}
	}
	return &IndicatorBag{
		Headers: map[string]string{},
		Signals: signals,
	}
}

// Add appends labels to a category, deduplicating by exact string equality
// and preserving first-seen order.
func (b *IndicatorBag) Add(cat Category, labels ...string) {
	existing := b.Signals[cat]
	for _, label := range labels {
		seen := false
		for _, have := range existing {
			if have == label {
				seen = true
				break
			}
		}
		if !seen {
			existing = append(existing, label)
		}
	}
	b.Signals[cat] = existing
}

// Has reports whether a category already carries the given label.
func (b *IndicatorBag) Has(cat Category, label string) bool {
	for _, have := range b.Signals[cat] {
		if have == label {
			return true
		}
	}
	return false
}

// Priority is the fixed display bucket assigned to a rule at authoring time.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is one suggested test category/technique produced by a
// fired rule.
type Recommendation struct {
	Category      string   `json:"category"`
	Risk          string   `json:"risk"`
	Description   string   `json:"description"`
	Technique     string   `json:"technique"`
	Extensions    []string `json:"extensions,omitempty"`
	ScannerConfig string   `json:"scanner_config,omitempty"`
	ManualTesting string   `json:"manual_testing,omitempty"`
}

// RecommendationSet is the engine's output: three priority buckets plus the
// three always-seeded auxiliary checklists.
type RecommendationSet struct {
	HighPriority   []Recommendation `json:"high_priority"`
	MediumPriority []Recommendation `json:"medium_priority"`
	LowPriority    []Recommendation `json:"low_priority"`

	ToolExtensions []string `json:"tool_extensions"`
	ScannerConfig  []string `json:"scanner_config"`
	ManualTesting  []string `json:"manual_testing"`
}

// AnalysisKind selects which of the three analysis views a run produces.
type AnalysisKind string

const (
	KindHeaders     AnalysisKind = "headers"
	KindTechnology  AnalysisKind = "technology"
	KindCertificate AnalysisKind = "certificate"
)

// ValidKind reports whether s names a supported analysis kind.
func ValidKind(s string) bool {
	switch AnalysisKind(s) {
	case KindHeaders, KindTechnology, KindCertificate:
		return true
	}
	return false
}
