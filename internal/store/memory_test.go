package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pentrail/pentrail/internal/model"
)

func testAnalysis(id string, createdAt time.Time) *model.Analysis {
	return &model.Analysis{
		ID:        id,
		URL:       "https://example.com",
		Kind:      model.KindHeaders,
		Bag:       model.NewIndicatorBag(),
		CreatedAt: createdAt,
	}
}

func TestMemoryStoreSaveGet(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(0, nil)
	defer s.Close()
	ctx := context.Background()

	a := testAnalysis("one", time.Now())
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Get(ctx, "one")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != "one" || got.URL != a.URL {
		t.Fatalf("Get returned %+v, want the saved analysis", got)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(0, nil)
	defer s.Close()

	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on missing ID = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreSaveOverwrites(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(0, nil)
	defer s.Close()
	ctx := context.Background()

	now := time.Now()
	if err := s.Save(ctx, testAnalysis("one", now)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	updated := testAnalysis("one", now)
	updated.Score = 53
	if err := s.Save(ctx, updated); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := s.Get(ctx, "one")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Score != 53 {
		t.Fatalf("Score = %d, want the overwritten value", got.Score)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("overwrite should not add entries, got %d", len(list))
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(0, nil)
	defer s.Close()
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"oldest", "middle", "newest"} {
		a := testAnalysis(id, base.Add(time.Duration(i)*time.Minute))
		if err := s.Save(ctx, a); err != nil {
			t.Fatalf("Save(%s) failed: %v", id, err)
		}
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List returned %d entries, want 3", len(list))
	}
	want := []string{"newest", "middle", "oldest"}
	for i, a := range list {
		if a.ID != want[i] {
			t.Fatalf("List order = [%s %s %s], want %v", list[0].ID, list[1].ID, list[2].ID, want)
		}
	}

	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List with limit failed: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "newest" {
		t.Fatalf("limited List = %v, want the two newest", limited)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(0, nil)
	defer s.Close()
	ctx := context.Background()

	if err := s.Save(ctx, testAnalysis("one", time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Delete(ctx, "one"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "one"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "one"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreTTLEviction(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(10*time.Millisecond, nil)
	defer s.Close()
	ctx := context.Background()

	if err := s.Save(ctx, testAnalysis("short-lived", time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The janitor ticks no faster than once a second; trigger directly.
	time.Sleep(20 * time.Millisecond)
	s.evictExpired()

	if _, err := s.Get(ctx, "short-lived"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after TTL = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreReadsHideExpiredEntries(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(10*time.Millisecond, nil)
	defer s.Close()
	ctx := context.Background()

	if err := s.Save(ctx, testAnalysis("stale", time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Past the TTL but before any janitor sweep: reads must not see it.
	time.Sleep(20 * time.Millisecond)

	if _, err := s.Get(ctx, "stale"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get past TTL = %v, want ErrNotFound", err)
	}
	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List past TTL returned %d entries, want 0", len(list))
	}
}
