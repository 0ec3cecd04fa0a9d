package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/pentrail/pentrail/internal/collector"
	"github.com/pentrail/pentrail/internal/model"
	"github.com/pentrail/pentrail/internal/store"
	"github.com/pentrail/pentrail/internal/testutil"
)

func newTestOrchestrator(client *testutil.DummyWebClient, capturer *testutil.DummyCapturer) *Orchestrator {
	logger := &testutil.DummyLogger{}
	return &Orchestrator{
		cfg:       DefaultConfig(),
		collector: collector.New(client, capturer, nil, logger),
		store:     store.NewMemoryStore(0, logger),
		client:    client,
		capturer:  capturer,
		logger:    logger,
	}
}

// drainEvents consumes the job's event stream until the job ends.
func drainEvents(t *testing.T, job *Job) []JobEvent {
	t.Helper()
	var events []JobEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-job.Events:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("job %s never finished; events so far: %+v", job.ID, events)
		}
	}
}

func TestAnalyzePersistsResult(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		Default: http.Header{"Server": {"nginx"}},
	}
	o := newTestOrchestrator(client, &testutil.DummyCapturer{})
	defer o.Close()

	a, err := o.Analyze(context.Background(), "example.com", model.KindHeaders)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if a.URL != "https://example.com/" {
		t.Errorf("URL = %q, want the normalized target", a.URL)
	}

	stored, err := o.GetAnalysis(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetAnalysis failed: %v", err)
	}
	if stored.ID != a.ID {
		t.Fatalf("stored ID = %q, want %q", stored.ID, a.ID)
	}
}

func TestAnalyzeRejectsInvalidTarget(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(&testutil.DummyWebClient{}, &testutil.DummyCapturer{})
	defer o.Close()

	if _, err := o.Analyze(context.Background(), "ftp://example.com", model.KindHeaders); err == nil {
		t.Fatal("non-http target should fail")
	}
}

func TestStartAnalysisJobLifecycle(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		Default: http.Header{"Server": {"nginx"}},
	}
	o := newTestOrchestrator(client, &testutil.DummyCapturer{})
	defer o.Close()

	job, err := o.StartAnalysisJob(context.Background(), "example.com", model.KindHeaders)
	if err != nil {
		t.Fatalf("StartAnalysisJob failed: %v", err)
	}
	if job.Status != JobPending && job.Status != JobRunning && job.Status != JobDone {
		t.Errorf("initial status = %q", job.Status)
	}

	events := drainEvents(t, job)

	// The returned job is a point-in-time copy; re-fetch for final state.
	job = o.GetJob(job.ID)
	if job == nil {
		t.Fatal("GetJob should find the finished job")
	}
	if job.Status != JobDone {
		t.Fatalf("final status = %q (error %q), want done", job.Status, job.Error)
	}
	if job.AnalysisID == "" {
		t.Fatal("completed job should carry the analysis ID")
	}
	if job.EndedAt.IsZero() {
		t.Error("EndedAt should be set when the job ends")
	}

	var sawRunning, sawResult bool
	for _, ev := range events {
		if ev.Type == JobEventStatus && ev.Status == JobRunning {
			sawRunning = true
		}
		if ev.Type == JobEventResult {
			sawResult = true
			if ev.AnalysisID != job.AnalysisID {
				t.Errorf("result event AnalysisID = %q, want %q", ev.AnalysisID, job.AnalysisID)
			}
		}
	}
	if !sawRunning || !sawResult {
		t.Fatalf("events = %+v, want a running status and a result", events)
	}

	if _, err := o.GetAnalysis(context.Background(), job.AnalysisID); err != nil {
		t.Fatalf("job result should be persisted: %v", err)
	}
}

func TestStartAnalysisJobFailure(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		FailURLs: map[string]bool{"https://down.example.com/": true},
	}
	o := newTestOrchestrator(client, &testutil.DummyCapturer{Err: errors.New("no browser")})
	defer o.Close()

	job, err := o.StartAnalysisJob(context.Background(), "down.example.com", model.KindHeaders)
	if err != nil {
		t.Fatalf("StartAnalysisJob failed: %v", err)
	}
	drainEvents(t, job)

	job = o.GetJob(job.ID)
	if job.Status != JobFailed {
		t.Fatalf("final status = %q, want failed", job.Status)
	}
	if job.Error == "" {
		t.Error("failed job should carry an error message")
	}
}

func TestStartAnalysisJobValidation(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(&testutil.DummyWebClient{}, &testutil.DummyCapturer{})
	defer o.Close()

	if _, err := o.StartAnalysisJob(context.Background(), "example.com", model.AnalysisKind("bogus")); err == nil {
		t.Error("unknown kind should be rejected before a job is created")
	}
	if _, err := o.StartAnalysisJob(context.Background(), "", model.KindHeaders); err == nil {
		t.Error("empty target should be rejected before a job is created")
	}
	if len(o.ListJobs()) != 0 {
		t.Errorf("rejected submissions must not leave jobs behind, got %v", o.ListJobs())
	}
}

func TestCancelJob(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		ResponseDelay: 10 * time.Second,
	}
	o := newTestOrchestrator(client, &testutil.DummyCapturer{})
	defer o.Close()

	job, err := o.StartAnalysisJob(context.Background(), "slow.example.com", model.KindHeaders)
	if err != nil {
		t.Fatalf("StartAnalysisJob failed: %v", err)
	}

	o.CancelJob(job.ID)
	drainEvents(t, job)

	job = o.GetJob(job.ID)
	if job.Status != JobCanceled {
		t.Fatalf("final status = %q, want canceled", job.Status)
	}
}

func TestJobAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		Default:       http.Header{"Server": {"nginx"}},
		ResponseDelay: 20 * time.Millisecond,
	}
	o := newTestOrchestrator(client, &testutil.DummyCapturer{})
	defer o.Close()

	job, err := o.StartAnalysisJob(context.Background(), "example.com", model.KindHeaders)
	if err != nil {
		t.Fatalf("StartAnalysisJob failed: %v", err)
	}

	// Encode the job concurrently with the worker's status writes. Under
	// the race detector this fails if accessors hand out the live pointer.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			if _, err := json.Marshal(o.GetJob(job.ID)); err != nil {
				t.Errorf("marshaling job: %v", err)
				return
			}
			if _, err := json.Marshal(o.ListJobs()); err != nil {
				t.Errorf("marshaling job list: %v", err)
				return
			}
		}
	}()

	drainEvents(t, job)
	<-done

	if got := o.GetJob(job.ID); got.Status != JobDone {
		t.Fatalf("final status = %q, want done", got.Status)
	}
}

func TestListJobs(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{}
	o := newTestOrchestrator(client, &testutil.DummyCapturer{})
	defer o.Close()

	first, err := o.StartAnalysisJob(context.Background(), "one.example.com", model.KindHeaders)
	if err != nil {
		t.Fatalf("StartAnalysisJob failed: %v", err)
	}
	second, err := o.StartAnalysisJob(context.Background(), "two.example.com", model.KindHeaders)
	if err != nil {
		t.Fatalf("StartAnalysisJob failed: %v", err)
	}
	drainEvents(t, first)
	drainEvents(t, second)

	jobs := o.ListJobs()
	if len(jobs) != 2 {
		t.Fatalf("ListJobs returned %d jobs, want 2", len(jobs))
	}
}

func TestCompareAnalyses(t *testing.T) {
	t.Parallel()

	client := &testutil.DummyWebClient{
		Default: http.Header{"Server": {"nginx"}},
	}
	o := newTestOrchestrator(client, &testutil.DummyCapturer{})
	defer o.Close()
	ctx := context.Background()

	base, err := o.Analyze(ctx, "example.com", model.KindHeaders)
	if err != nil {
		t.Fatalf("base Analyze failed: %v", err)
	}
	head, err := o.Analyze(ctx, "example.com", model.KindHeaders)
	if err != nil {
		t.Fatalf("head Analyze failed: %v", err)
	}

	d, err := o.CompareAnalyses(ctx, base.ID, head.ID)
	if err != nil {
		t.Fatalf("CompareAnalyses failed: %v", err)
	}
	if d.ScoreDelta != 0 || len(d.Chunks) != 0 {
		t.Errorf("identical runs should diff clean, got %+v", d)
	}

	if _, err := o.CompareAnalyses(ctx, base.ID, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("comparing against a missing ID = %v, want ErrNotFound", err)
	}
}

func TestBuildStoreUnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.StoreBackend = "redis"
	if _, err := buildStore(cfg, nil); err == nil {
		t.Fatal("unknown store backend should fail")
	}
}
