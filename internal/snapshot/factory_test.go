package snapshot_test

import (
	"errors"
	"testing"

	"github.com/pentrail/pentrail/internal/logging"
	"github.com/pentrail/pentrail/internal/snapshot"
	"github.com/pentrail/pentrail/internal/testutil"
)

func TestNewDefaultsToStatic(t *testing.T) {
	cap, err := snapshot.New(snapshot.Config{}, nil)
	if err != nil {
		t.Fatalf("New with empty backend failed: %v", err)
	}
	defer cap.Close()

	if _, ok := cap.(*snapshot.StaticCapturer); !ok {
		t.Fatalf("default backend = %T, want *StaticCapturer", cap)
	}
}

func TestNewBackendNameIsCaseInsensitive(t *testing.T) {
	cap, err := snapshot.New(snapshot.Config{Backend: "  STATIC "}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	cap.Close()
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := snapshot.New(snapshot.Config{Backend: "selenium"}, nil); err == nil {
		t.Fatal("unregistered backend should fail")
	}
}

func TestRegisterBackend(t *testing.T) {
	captured := &testutil.DummyCapturer{}
	snapshot.RegisterBackend("canned", func(cfg snapshot.Config, logger logging.Logger) (snapshot.Capturer, error) {
		return captured, nil
	})

	cap, err := snapshot.New(snapshot.Config{Backend: "canned"}, nil)
	if err != nil {
		t.Fatalf("New with registered backend failed: %v", err)
	}
	if cap != snapshot.Capturer(captured) {
		t.Fatal("factory should return the registered capturer")
	}

	found := false
	for _, name := range snapshot.ListBackends() {
		if name == "canned" {
			found = true
		}
	}
	if !found {
		t.Fatalf("ListBackends() = %v, want it to include canned", snapshot.ListBackends())
	}
}

func TestRegisterBackendConstructorError(t *testing.T) {
	boom := errors.New("no browser available")
	snapshot.RegisterBackend("broken", func(cfg snapshot.Config, logger logging.Logger) (snapshot.Capturer, error) {
		return nil, boom
	})

	if _, err := snapshot.New(snapshot.Config{Backend: "broken"}, nil); !errors.Is(err, boom) {
		t.Fatalf("New error = %v, want the constructor error wrapped", err)
	}
}
