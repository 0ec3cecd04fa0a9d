package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pentrail/pentrail/internal/collector"
	"github.com/pentrail/pentrail/internal/engine"
	"github.com/pentrail/pentrail/internal/logging"
	"github.com/pentrail/pentrail/internal/model"
	"github.com/pentrail/pentrail/internal/report"
	"github.com/pentrail/pentrail/internal/snapshot"
	"github.com/pentrail/pentrail/internal/store"
	"github.com/pentrail/pentrail/internal/utils"
	"github.com/pentrail/pentrail/internal/webclient"
)

type JobEventType string

const (
	JobEventStatus JobEventType = "status"
	JobEventResult JobEventType = "result"
)

type JobEvent struct {
	JobID string       `json:"job_id"`
	Type  JobEventType `json:"type"`

	// For status changes
	Status JobStatus `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`

	// Set on the result event
	AnalysisID string `json:"analysis_id,omitempty"`
}

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

type Job struct {
	ID        string             `json:"id"`
	Target    string             `json:"target"`
	Kind      model.AnalysisKind `json:"kind"`
	Status    JobStatus          `json:"status"`
	Error     string             `json:"error,omitempty"`
	StartedAt time.Time          `json:"started_at"`
	EndedAt   time.Time          `json:"ended_at"`
	Events    chan JobEvent      `json:"-"`

	// AnalysisID is set once the job completes successfully.
	AnalysisID string `json:"analysis_id,omitempty"`
}

// Orchestrator wires the collector and the store together and runs analyses,
// either synchronously or as cancelable background jobs with an event stream.
type Orchestrator struct {
	cfg       *Config
	collector *collector.Collector
	store     store.Store
	client    webclient.WebClient
	capturer  snapshot.Capturer
	logger    logging.Logger

	jobsMu     sync.Mutex
	jobs       map[string]*Job
	jobCancels map[string]context.CancelFunc
}

// NewOrchestrator builds the full analysis pipeline from config.
func NewOrchestrator(cfg *Config, logger logging.Logger) (*Orchestrator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = &logging.NopLogger{}
	}

	client, err := webclient.New(cfg.WebClientCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build webclient: %w", err)
	}
	capturer, err := snapshot.New(cfg.SnapshotCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot capturer: %w", err)
	}

	st, err := buildStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:       cfg,
		collector: collector.New(client, capturer, engine.New(logger), logger),
		store:     st,
		client:    client,
		capturer:  capturer,
		logger:    logger,
	}, nil
}

func buildStore(cfg *Config, logger logging.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case "", "memory":
		return store.NewMemoryStore(cfg.MemoryTTL, logger), nil
	case "sqlite":
		return store.NewSQLiteStore(cfg.StorePath, logger)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// Analyze runs one analysis synchronously and persists the result.
func (o *Orchestrator) Analyze(ctx context.Context, target string, kind model.AnalysisKind) (*model.Analysis, error) {
	normalized, err := utils.NormalizeTarget(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target %q: %w", target, err)
	}

	if o.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.JobTimeout)
		defer cancel()
	}

	analysis, err := o.collector.Analyze(ctx, normalized, kind)
	if err != nil {
		return nil, err
	}
	if err := o.store.Save(ctx, analysis); err != nil {
		o.logger.Warn("failed to persist analysis",
			logging.Field{Key: "analysis_id", Value: analysis.ID},
			logging.Field{Key: "error", Value: err.Error()})
	}
	return analysis, nil
}

func (o *Orchestrator) ensureJobMaps() {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if o.jobs == nil {
		o.jobs = make(map[string]*Job)
	}
	if o.jobCancels == nil {
		o.jobCancels = make(map[string]context.CancelFunc)
	}
}

func (o *Orchestrator) emitJobEvent(jobID string, ev JobEvent) {
	o.jobsMu.Lock()
	job, ok := o.jobs[jobID]
	o.jobsMu.Unlock()
	if !ok || job == nil || job.Events == nil {
		return
	}

	// Non-blocking send; drop if buffer is full.
	select {
	case job.Events <- ev:
	default:
	}
}

func (o *Orchestrator) setJobStatus(jobID string, status JobStatus, errMsg string) {
	o.jobsMu.Lock()
	if j, ok := o.jobs[jobID]; ok {
		j.Status = status
		j.Error = errMsg
	}
	o.jobsMu.Unlock()
	o.emitJobEvent(jobID, JobEvent{
		JobID:  jobID,
		Type:   JobEventStatus,
		Status: status,
		Error:  errMsg,
	})
}

// StartAnalysisJob begins an analysis in the background. The returned job is
// a snapshot; poll GetJob for current state. Its Events channel carries
// status transitions and the final result event and is closed when the job
// ends.
func (o *Orchestrator) StartAnalysisJob(ctx context.Context, target string, kind model.AnalysisKind) (*Job, error) {
	if !model.ValidKind(string(kind)) {
		return nil, fmt.Errorf("unknown analysis kind %q", kind)
	}
	normalized, err := utils.NormalizeTarget(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target %q: %w", target, err)
	}

	o.ensureJobMaps()

	jobID := uuid.New().String()
	job := &Job{
		ID:        jobID,
		Target:    normalized,
		Kind:      kind,
		Status:    JobPending,
		StartedAt: time.Now().UTC(),
		Events:    make(chan JobEvent, 16),
	}

	o.jobsMu.Lock()
	o.jobs[jobID] = job
	o.jobsMu.Unlock()

	jobCtx, cancel := context.WithCancel(ctx)
	o.jobsMu.Lock()
	o.jobCancels[jobID] = cancel
	o.jobsMu.Unlock()

	o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobPending})

	go func() {
		defer func() {
			o.jobsMu.Lock()
			if j, ok := o.jobs[jobID]; ok {
				j.EndedAt = time.Now().UTC()
			}
			delete(o.jobCancels, jobID)
			j := o.jobs[jobID]
			o.jobsMu.Unlock()

			// Close events channel so websocket loops terminate cleanly
			if j != nil && j.Events != nil {
				close(j.Events)
			}
		}()

		o.setJobStatus(jobID, JobRunning, "")

		analysis, err := o.Analyze(jobCtx, normalized, kind)
		if err != nil {
			select {
			case <-jobCtx.Done():
				o.setJobStatus(jobID, JobCanceled, jobCtx.Err().Error())
			default:
				o.setJobStatus(jobID, JobFailed, err.Error())
			}
			return
		}

		o.jobsMu.Lock()
		if j, ok := o.jobs[jobID]; ok {
			j.Status = JobDone
			j.AnalysisID = analysis.ID
		}
		o.jobsMu.Unlock()
		o.emitJobEvent(jobID, JobEvent{
			JobID:      jobID,
			Type:       JobEventResult,
			Status:     JobDone,
			AnalysisID: analysis.ID,
		})
	}()

	o.jobsMu.Lock()
	cp := *job
	o.jobsMu.Unlock()
	return &cp, nil
}

func (o *Orchestrator) CancelJob(jobID string) {
	o.jobsMu.Lock()
	cancel := o.jobCancels[jobID]
	o.jobsMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// GetJob returns a copy of the job's current state. The worker goroutine
// keeps mutating the live job under jobsMu, so callers never get the live
// pointer; only the Events channel is shared.
func (o *Orchestrator) GetJob(jobID string) *Job {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	j, ok := o.jobs[jobID]
	if !ok {
		return nil
	}
	cp := *j
	return &cp
}

// ListJobs returns copies of all known jobs, newest first.
func (o *Orchestrator) ListJobs() []*Job {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	jobs := make([]*Job, 0, len(o.jobs))
	for _, j := range o.jobs {
		cp := *j
		jobs = append(jobs, &cp)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].StartedAt.After(jobs[k].StartedAt) })
	return jobs
}

// GetAnalysis loads a stored analysis by ID.
func (o *Orchestrator) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	return o.store.Get(ctx, id)
}

// ListAnalyses returns stored analyses, newest first.
func (o *Orchestrator) ListAnalyses(ctx context.Context, limit int) ([]*model.Analysis, error) {
	return o.store.List(ctx, limit)
}

// DeleteAnalysis removes a stored analysis.
func (o *Orchestrator) DeleteAnalysis(ctx context.Context, id string) error {
	return o.store.Delete(ctx, id)
}

// CompareAnalyses diffs two stored analyses.
func (o *Orchestrator) CompareAnalyses(ctx context.Context, baseID, headID string) (*report.Diff, error) {
	base, err := o.store.Get(ctx, baseID)
	if err != nil {
		return nil, fmt.Errorf("base analysis: %w", err)
	}
	head, err := o.store.Get(ctx, headID)
	if err != nil {
		return nil, fmt.Errorf("head analysis: %w", err)
	}
	return report.Compare(base, head)
}

// Close cancels outstanding jobs and releases the pipeline's resources.
func (o *Orchestrator) Close() error {
	o.jobsMu.Lock()
	for _, cancel := range o.jobCancels {
		cancel()
	}
	o.jobsMu.Unlock()

	var firstErr error
	if err := o.capturer.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := o.client.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := o.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
