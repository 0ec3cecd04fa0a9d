package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pentrail/pentrail/internal/logging"
	"github.com/pentrail/pentrail/internal/model"
)

type memoryEntry struct {
	analysis *model.Analysis
	savedAt  time.Time
}

// MemoryStore keeps analyses in memory with optional TTL eviction. A zero
// TTL disables eviction.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	logger  logging.Logger
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore returns a memory store. When ttl > 0 a janitor goroutine
// evicts expired entries until Close is called.
func NewMemoryStore(ttl time.Duration, logger logging.Logger) *MemoryStore {
	if logger == nil {
		logger = &logging.NopLogger{}
	}
	s := &MemoryStore{
		entries: map[string]memoryEntry{},
		ttl:     ttl,
		logger:  logger,
		done:    make(chan struct{}),
	}
	if ttl > 0 {
		go s.janitor()
	}
	return s
}

func (s *MemoryStore) janitor() {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *MemoryStore) evictExpired() {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, e := range s.entries {
		if e.savedAt.Before(cutoff) {
			delete(s.entries, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Debug("evicted expired analyses",
			logging.Field{Key: "component", Value: "store"},
			logging.Field{Key: "count", Value: evicted},
		)
	}
}

func (s *MemoryStore) Save(_ context.Context, a *model.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[a.ID] = memoryEntry{analysis: a, savedAt: time.Now()}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok || s.expired(e) {
		return nil, ErrNotFound
	}
	return e.analysis, nil
}

// expired reports whether the entry has outlived the TTL. Reads treat such
// entries as gone even before the janitor's next sweep removes them.
func (s *MemoryStore) expired(e memoryEntry) bool {
	return s.ttl > 0 && time.Since(e.savedAt) > s.ttl
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*model.Analysis, error) {
	s.mu.RLock()
	out := make([]*model.Analysis, 0, len(s.entries))
	for _, e := range s.entries {
		if s.expired(e) {
			continue
		}
		out = append(out, e.analysis)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}
