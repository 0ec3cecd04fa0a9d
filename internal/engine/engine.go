// Package engine maps collected indicators to pentest recommendations. The
// rule set is a declarative table evaluated in a fixed order, so the same bag
// always yields the same recommendation set.
package engine

import (
	"strings"

	"github.com/pentrail/pentrail/internal/logging"
	"github.com/pentrail/pentrail/internal/model"
)

// Rule binds a predicate over the indicator bag to a recommendation. Build
// receives the bag so descriptions can embed observed values.
type Rule struct {
	Name     string
	Priority model.Priority
	// Kinds limits the rule to specific analysis kinds. Empty means all.
	Kinds []model.AnalysisKind
	When  func(*model.IndicatorBag) bool
	Build func(*model.IndicatorBag) model.Recommendation
}

func (r Rule) appliesTo(kind model.AnalysisKind) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	for _, k := range r.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Engine evaluates the rule table against indicator bags.
type Engine struct {
	rules  []Rule
	logger logging.Logger
}

// New returns an engine over the default rule table. Rule order is part of
// the contract: header battery first, then technology rules in category
// order, then the attack-surface sweep, then the unconditional baseline.
func New(logger logging.Logger) *Engine {
	if logger == nil {
		logger = &logging.NopLogger{}
	}
	var rules []Rule
	rules = append(rules, headerRules()...)
	rules = append(rules, techRules()...)
	rules = append(rules, sweepRules()...)
	rules = append(rules, baselineRules()...)
	rules = append(rules, certificateRules()...)
	return &Engine{rules: rules, logger: logger}
}

// Evaluate runs every applicable rule and returns the recommendation set. It
// never fails: an empty bag yields the seeded baseline lists and nothing
// else. Matches are appended in rule order; a signal matched by several rules
// is reported by each of them.
func (e *Engine) Evaluate(kind model.AnalysisKind, bag *model.IndicatorBag) model.RecommendationSet {
	set := model.RecommendationSet{}
	if bag == nil {
		bag = model.NewIndicatorBag()
	}

	matched := 0
	for _, rule := range e.rules {
		if !rule.appliesTo(kind) {
			continue
		}
		if !rule.When(bag) {
			continue
		}
		rec := rule.Build(bag)
		matched++
		switch rule.Priority {
		case model.PriorityHigh:
			set.HighPriority = append(set.HighPriority, rec)
		case model.PriorityMedium:
			set.MediumPriority = append(set.MediumPriority, rec)
		default:
			set.LowPriority = append(set.LowPriority, rec)
		}
	}

	seedAuxLists(kind, &set)

	e.logger.Debug("rules evaluated",
		logging.Field{Key: "component", Value: "engine"},
		logging.Field{Key: "kind", Value: string(kind)},
		logging.Field{Key: "matched", Value: matched},
	)
	return set
}

// header helpers over the lower-cased header map

func header(bag *model.IndicatorBag, name string) string {
	return bag.Headers[name]
}

func hasHeader(bag *model.IndicatorBag, names ...string) bool {
	for _, n := range names {
		if bag.Headers[n] != "" {
			return true
		}
	}
	return false
}

func headerContains(bag *model.IndicatorBag, name, substr string) bool {
	return strings.Contains(strings.ToLower(bag.Headers[name]), strings.ToLower(substr))
}

// signalContains reports whether any recorded signal in the category contains
// the substring, case-insensitive.
func signalContains(bag *model.IndicatorBag, cat model.Category, substrs ...string) bool {
	for _, sig := range bag.Signals[cat] {
		lower := strings.ToLower(sig)
		for _, sub := range substrs {
			if strings.Contains(lower, strings.ToLower(sub)) {
				return true
			}
		}
	}
	return false
}

func when(cat model.Category, substrs ...string) func(*model.IndicatorBag) bool {
	return func(bag *model.IndicatorBag) bool {
		return signalContains(bag, cat, substrs...)
	}
}

func static(rec model.Recommendation) func(*model.IndicatorBag) model.Recommendation {
	return func(*model.IndicatorBag) model.Recommendation { return rec }
}
