package detect

import (
	"testing"

	"github.com/pentrail/pentrail/internal/model"
	"github.com/pentrail/pentrail/internal/snapshot"
	"github.com/pentrail/pentrail/internal/testutil"
)

func TestRunDetectsFrameworksAndLibraries(t *testing.T) {
	t.Parallel()

	snap := &testutil.FakeSnapshot{
		Globals: map[string]bool{"React": true, "jQuery": true},
		Scripts: []string{"https://cdn.jsdelivr.net/npm/axios/dist/axios.min.js"},
	}
	bag := model.NewIndicatorBag()
	NewRunner(nil).Run(snap, bag)

	for _, label := range []string{"React", "jQuery", "Axios"} {
		if !bag.Has(model.CategoryJavaScript, label) {
			t.Errorf("expected %s in javascript signals, got %v", label, bag.Signals[model.CategoryJavaScript])
		}
	}
	if !bag.Has(model.CategoryCDN, "jsDelivr") {
		t.Errorf("expected jsDelivr in cdn signals, got %v", bag.Signals[model.CategoryCDN])
	}
}

func TestRunDetectsCMSFromGeneratorMeta(t *testing.T) {
	t.Parallel()

	snap := &testutil.FakeSnapshot{
		Meta:    map[string]string{"generator": "WordPress 6.4.2"},
		Scripts: []string{"/wp-content/themes/x/app.js"},
	}
	bag := model.NewIndicatorBag()
	NewRunner(nil).Run(snap, bag)

	if !bag.Has(model.CategoryCMS, "WordPress") {
		t.Fatalf("expected WordPress in cms signals, got %v", bag.Signals[model.CategoryCMS])
	}
}

func TestRunSecuritySweep(t *testing.T) {
	t.Parallel()

	snap := &testutil.FakeSnapshot{
		Selector: map[string]bool{
			`form[method="POST"]`:  true,
			`input[type="file"]`:   true,
			`a[href*="/admin"]`:    true,
			`input[name*="price"]`: true,
		},
		Inline:  []string{"var sock = new WebSocket('ws://example.com/feed');"},
		Storage: []string{"eyJhbGciOiJIUzI1NiJ9.payload.sig"},
	}
	bag := model.NewIndicatorBag()
	NewRunner(nil).Run(snap, bag)

	expected := []string{
		"CSRF Token Missing",
		"File Upload Functionality",
		"Administrative Interface Links",
		"Price/Quantity Manipulation Risk",
		"Insecure WebSocket (ws://) Detected",
		"JWT Tokens in Local Storage",
	}
	for _, label := range expected {
		if !bag.Has(model.CategorySecurity, label) {
			t.Errorf("expected %q in security signals, got %v", label, bag.Signals[model.CategorySecurity])
		}
	}
}

func TestCSRFTokenPresentSuppressesFinding(t *testing.T) {
	t.Parallel()

	snap := &testutil.FakeSnapshot{
		Selector: map[string]bool{
			`form[method="post"]`:      true,
			`form input[name*="csrf"]`: true,
		},
	}
	bag := model.NewIndicatorBag()
	NewRunner(nil).Run(snap, bag)

	if bag.Has(model.CategorySecurity, "CSRF Token Missing") {
		t.Fatal("a form carrying a csrf input must not be reported as missing one")
	}
}

func TestEmptySnapshotYieldsNoSignals(t *testing.T) {
	t.Parallel()

	bag := model.NewIndicatorBag()
	NewRunner(nil).Run(&testutil.FakeSnapshot{}, bag)

	for cat, sigs := range bag.Signals {
		if len(sigs) > 0 {
			t.Errorf("empty snapshot produced %s signals: %v", cat, sigs)
		}
	}
}

func TestPanickingProbeIsIsolated(t *testing.T) {
	t.Parallel()

	probes := []Probe{
		{Category: model.CategoryOther, Label: "broken", Test: func(snapshot.Snapshot) bool {
			panic("boom")
		}},
		{Category: model.CategoryOther, Label: "fine", Test: func(snapshot.Snapshot) bool {
			return true
		}},
	}
	logger := &testutil.DummyLogger{}
	bag := model.NewIndicatorBag()
	NewRunnerWithProbes(probes, logger).Run(&testutil.FakeSnapshot{}, bag)

	if bag.Has(model.CategoryOther, "broken") {
		t.Error("panicking probe must not record a signal")
	}
	if !bag.Has(model.CategoryOther, "fine") {
		t.Error("probes after a panic must still run")
	}
	if len(logger.Warns) == 0 {
		t.Error("panicking probe should be logged as a warning")
	}
}
