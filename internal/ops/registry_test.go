package ops

import (
	"errors"
	"testing"
	"time"
)

func TestSingleFlightPerKind(t *testing.T) {
	reg := newRegistry()

	id, err := reg.begin(KindAIAnalysis)
	if err != nil {
		t.Fatalf("first begin failed: %v", err)
	}

	if _, err := reg.begin(KindAIAnalysis); err == nil {
		t.Fatal("second begin of the same kind should fail")
	} else {
		var busy *AlreadyRunningError
		if !errors.As(err, &busy) {
			t.Fatalf("expected AlreadyRunningError, got %T", err)
		}
		if busy.Kind != KindAIAnalysis {
			t.Errorf("error names kind %q", busy.Kind)
		}
	}

	// A different kind starts freely.
	if _, err := reg.begin(KindReleaseNotes); err != nil {
		t.Fatalf("different kind should start: %v", err)
	}

	// After the first finishes, the kind is free again.
	reg.finish(id, StateCompleted, "done", "")
	if _, err := reg.begin(KindAIAnalysis); err != nil {
		t.Fatalf("kind should be free after finish: %v", err)
	}
}

func TestStatusMonotonic(t *testing.T) {
	reg := newRegistry()
	id, _ := reg.begin(KindAIAnalysis)

	st, _ := reg.get(id)
	if st.State != StatePending {
		t.Fatalf("new operation should be pending, got %s", st.State)
	}

	reg.markRunning(id)
	st, _ = reg.get(id)
	if st.State != StateRunning {
		t.Fatalf("expected running, got %s", st.State)
	}
	if st.StartedAt.IsZero() {
		t.Error("running status should carry a start time")
	}

	reg.finish(id, StateCompleted, "done", "")

	// Attempts to rewind are ignored.
	reg.markRunning(id)
	reg.progress(id, "late progress")
	st, _ = reg.get(id)
	if st.State != StateCompleted || st.Message == "late progress" {
		t.Errorf("terminal state was mutated: %+v", st)
	}
}

func TestFinishIdempotent(t *testing.T) {
	reg := newRegistry()
	id, _ := reg.begin(KindSemanticRelease)
	reg.markRunning(id)

	if !reg.finish(id, StateFailed, "", "boom") {
		t.Fatal("first finish should transition")
	}
	if reg.finish(id, StateCompleted, "late win", "") {
		t.Fatal("second finish should be a no-op")
	}
	st, _ := reg.get(id)
	if st.State != StateFailed || st.Err != "boom" {
		t.Errorf("terminal state changed by second finish: %+v", st)
	}
}

func TestFinishRejectsNonTerminal(t *testing.T) {
	reg := newRegistry()
	id, _ := reg.begin(KindTaskSearch)
	if reg.finish(id, StateRunning, "", "") {
		t.Fatal("finish must not accept a non-terminal state")
	}
}

func TestListRunningSorted(t *testing.T) {
	reg := newRegistry()
	if _, err := reg.begin(KindTaskSearch); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.begin(KindAIAnalysis); err != nil {
		t.Fatal(err)
	}

	running := reg.listRunning()
	if len(running) != 2 {
		t.Fatalf("expected 2 in-flight, got %d", len(running))
	}
	if running[0].Kind != KindAIAnalysis || running[1].Kind != KindTaskSearch {
		t.Errorf("expected kind-sorted order, got %v", running)
	}
}

func TestRemoveKeepsInflight(t *testing.T) {
	reg := newRegistry()
	id, _ := reg.begin(KindAIAnalysis)

	reg.remove(id)
	if _, ok := reg.get(id); !ok {
		t.Fatal("remove must not evict an in-flight operation")
	}

	reg.finish(id, StateCancelled, "", "")
	reg.remove(id)
	if _, ok := reg.get(id); ok {
		t.Fatal("terminal operation should be removable")
	}
}

func TestSweepEvictsOldTerminal(t *testing.T) {
	reg := newRegistry()
	oldID, _ := reg.begin(KindAIAnalysis)
	reg.finish(oldID, StateCompleted, "done", "")

	// Backdate the finished timestamp.
	reg.mu.Lock()
	reg.ops[oldID].FinishedAt = time.Now().Add(-time.Hour)
	reg.mu.Unlock()

	freshID, _ := reg.begin(KindReleaseNotes)

	if n := reg.sweep(10 * time.Minute); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if _, ok := reg.get(oldID); ok {
		t.Error("old terminal entry should be gone")
	}
	if _, ok := reg.get(freshID); !ok {
		t.Error("in-flight entry must survive sweep")
	}
}
