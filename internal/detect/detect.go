// Package detect runs a battery of client-side technology probes against a
// page snapshot. Each probe is a named predicate bound to a category; the
// runner isolates probe failures so one broken predicate never loses the rest
// of the sweep.
package detect

import (
	"fmt"

	"github.com/pentrail/pentrail/internal/logging"
	"github.com/pentrail/pentrail/internal/model"
	"github.com/pentrail/pentrail/internal/snapshot"
)

// Probe is a single technology check. Test must be side-effect free.
type Probe struct {
	Category model.Category
	Label    string
	Test     func(snapshot.Snapshot) bool
}

// Runner executes probes against snapshots.
type Runner struct {
	probes []Probe
	logger logging.Logger
}

// NewRunner returns a runner over the default probe battery.
func NewRunner(logger logging.Logger) *Runner {
	if logger == nil {
		logger = &logging.NopLogger{}
	}
	return &Runner{probes: defaultProbes(), logger: logger}
}

// NewRunnerWithProbes returns a runner over a custom battery. Used by tests.
func NewRunnerWithProbes(probes []Probe, logger logging.Logger) *Runner {
	if logger == nil {
		logger = &logging.NopLogger{}
	}
	return &Runner{probes: probes, logger: logger}
}

// Run evaluates every probe against the snapshot and records matches in the
// bag. A probe that panics is logged and skipped; the sweep always finishes.
func (r *Runner) Run(snap snapshot.Snapshot, bag *model.IndicatorBag) {
	for _, p := range r.probes {
		matched, err := r.runOne(p, snap)
		if err != nil {
			r.logger.Warn("probe failed",
				logging.Field{Key: "component", Value: "detect"},
				logging.Field{Key: "label", Value: p.Label},
				logging.Field{Key: "error", Value: err.Error()},
			)
			continue
		}
		if matched {
			bag.Add(p.Category, p.Label)
		}
	}
}

func (r *Runner) runOne(p Probe, snap snapshot.Snapshot) (matched bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("probe %q panicked: %v", p.Label, rec)
		}
	}()
	return p.Test(snap), nil
}
