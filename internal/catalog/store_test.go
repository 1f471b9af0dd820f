package catalog

import (
	"errors"
	"sync"
	"testing"

	"github.com/nao1215/reportdeck/internal/model"
)

func resultWith(titles ...string) *Result {
	r := &Result{Index: &model.Index{}, Fingerprint: "fp"}
	for i, title := range titles {
		r.Records = append(r.Records, model.Report{ID: i + 1, Title: title})
		r.Index.Reports = append(r.Index.Reports, title+".json")
	}
	return r
}

// TestStore tests commit ordering and error state.
func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("empty store is not ready", func(t *testing.T) {
		t.Parallel()

		snap := NewStore().Snapshot()
		if snap.Ready() || snap.Records != nil || snap.Err != nil {
			t.Errorf("unexpected snapshot: %+v", snap)
		}
	})

	t.Run("generations increase", func(t *testing.T) {
		t.Parallel()

		s := NewStore()
		first, second := s.Begin(), s.Begin()
		if first != 1 || second != 2 {
			t.Errorf("expected 1 and 2, got %d and %d", first, second)
		}
	})

	t.Run("stale result is discarded", func(t *testing.T) {
		t.Parallel()

		s := NewStore()
		slow := s.Begin()
		fast := s.Begin()

		if err := s.Commit(fast, resultWith("new"), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := s.Commit(slow, resultWith("old"), nil); !errors.Is(err, ErrStaleGeneration) {
			t.Fatalf("expected ErrStaleGeneration, got %v", err)
		}

		snap := s.Snapshot()
		if snap.Generation != fast || snap.Records[0].Title != "new" {
			t.Errorf("expected fast result to remain, got %+v", snap)
		}
	})

	t.Run("stale failure is discarded", func(t *testing.T) {
		t.Parallel()

		s := NewStore()
		slow := s.Begin()
		fast := s.Begin()
		_ = s.Commit(fast, resultWith("new"), nil) //nolint:errcheck

		if err := s.Commit(slow, nil, ErrIndexUnavailable); !errors.Is(err, ErrStaleGeneration) {
			t.Fatalf("expected ErrStaleGeneration, got %v", err)
		}
		if s.Snapshot().Err != nil {
			t.Error("stale failure must not mark the catalog as failed")
		}
	})

	t.Run("failure keeps previous records", func(t *testing.T) {
		t.Parallel()

		s := NewStore()
		_ = s.Commit(s.Begin(), resultWith("a", "b"), nil) //nolint:errcheck
		_ = s.Commit(s.Begin(), nil, ErrIndexUnavailable)  //nolint:errcheck

		snap := s.Snapshot()
		if !errors.Is(snap.Err, ErrIndexUnavailable) {
			t.Errorf("expected ErrIndexUnavailable, got %v", snap.Err)
		}
		if len(snap.Records) != 2 {
			t.Errorf("expected previous records to stay readable, got %d", len(snap.Records))
		}
	})

	t.Run("success clears failure", func(t *testing.T) {
		t.Parallel()

		s := NewStore()
		_ = s.Commit(s.Begin(), nil, ErrIndexUnavailable) //nolint:errcheck
		_ = s.Commit(s.Begin(), resultWith("a"), nil)     //nolint:errcheck

		snap := s.Snapshot()
		if snap.Err != nil || len(snap.Records) != 1 || snap.Fingerprint != "fp" {
			t.Errorf("unexpected snapshot: %+v", snap)
		}
	})

	t.Run("concurrent commits keep the newest", func(t *testing.T) {
		t.Parallel()

		s := NewStore()
		gens := make([]uint64, 50)
		for i := range gens {
			gens[i] = s.Begin()
		}

		var wg sync.WaitGroup
		for _, g := range gens {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = s.Commit(g, resultWith("x"), nil) //nolint:errcheck
				_ = s.Snapshot()
			}()
		}
		wg.Wait()

		if got := s.Snapshot().Generation; got != gens[len(gens)-1] {
			t.Errorf("expected generation %d, got %d", gens[len(gens)-1], got)
		}
	})
}
