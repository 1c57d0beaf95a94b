package scheduler

import (
	"context"
	"testing"
	"time"
)

type recordingStore struct {
	cutoff time.Time
}

func (r *recordingStore) DeleteInactive(_ context.Context, cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	return 3, nil
}

func TestCleanupInactiveUsers(t *testing.T) {
	store := &recordingStore{}
	s := NewScheduler(store, "04:00", 90, time.UTC)
	s.now = func() time.Time { return time.Date(2024, 6, 30, 4, 0, 0, 0, time.UTC) }

	deleted, err := s.CleanupInactiveUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}
	if want := time.Date(2024, 4, 1, 4, 0, 0, 0, time.UTC); !store.cutoff.Equal(want) {
		t.Errorf("expected cutoff %v, got %v", want, store.cutoff)
	}
}

func TestStart_RegistersCleanup(t *testing.T) {
	s := NewScheduler(&recordingStore{}, "04:00", 90, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	if s.Jobs() != 1 {
		t.Errorf("expected 1 job, got %d", s.Jobs())
	}
}

func TestStart_InvalidTime(t *testing.T) {
	s := NewScheduler(&recordingStore{}, "25:99", 90, nil)
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected an error for an invalid time")
	}
}
