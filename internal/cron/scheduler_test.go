package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studypilot/studypilot-back/internal/config"
	"github.com/studypilot/studypilot-back/internal/db/dbtest"
	"github.com/studypilot/studypilot-back/internal/logger"
	"github.com/studypilot/studypilot-back/internal/models"
	"github.com/studypilot/studypilot-back/internal/planner"
)

type fakeStore struct {
	missedUsers []string
	gotToday    string
	stale       []string
	gotCutoff   time.Time
	deleted     []string
	deleteErr   map[string]error
}

func (f *fakeStore) UsersWithMissedSessions(_ context.Context, today string) ([]string, error) {
	f.gotToday = today
	return f.missedUsers, nil
}

func (f *fakeStore) StaleGuestIDs(_ context.Context, cutoff time.Time) ([]string, error) {
	f.gotCutoff = cutoff
	return f.stale, nil
}

func (f *fakeStore) DeleteUserData(_ context.Context, userID string) error {
	if err := f.deleteErr[userID]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, userID)
	return nil
}

type fakeRescheduler struct {
	moved map[string]int
	errs  map[string]error
	calls []string
}

func (f *fakeRescheduler) RescheduleMissed(_ context.Context, userID string) (int, error) {
	f.calls = append(f.calls, userID)
	return f.moved[userID], f.errs[userID]
}

var now = time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)

func TestRescheduleAllMissedContinuesPastFailures(t *testing.T) {
	store := &fakeStore{missedUsers: []string{"1", "guest_a", "2"}}
	r := &fakeRescheduler{
		moved: map[string]int{"1": 3, "2": 1},
		errs:  map[string]error{"guest_a": planner.ErrHorizonExceeded},
	}

	n, err := RescheduleAllMissed(context.Background(), store, r, now, logger.Nop())
	if err != nil {
		t.Fatalf("RescheduleAllMissed: %v", err)
	}
	if n != 4 {
		t.Fatalf("moved = %d, want 4", n)
	}
	if store.gotToday != "2026-03-10" {
		t.Fatalf("today = %q", store.gotToday)
	}
	if len(r.calls) != 3 {
		t.Fatalf("calls = %v", r.calls)
	}
}

func TestPurgeStaleGuests(t *testing.T) {
	store := &fakeStore{
		stale:     []string{"guest_a", "guest_b", "guest_c"},
		deleteErr: map[string]error{"guest_b": errors.New("locked")},
	}

	n, err := PurgeStaleGuests(context.Background(), store, now, 30, logger.Nop())
	if err != nil {
		t.Fatalf("PurgeStaleGuests: %v", err)
	}
	if n != 2 {
		t.Fatalf("purged = %d, want 2", n)
	}
	if want := now.AddDate(0, 0, -30); !store.gotCutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", store.gotCutoff, want)
	}

	store = &fakeStore{stale: []string{"guest_a"}}
	if n, _ := PurgeStaleGuests(context.Background(), store, now, 0, logger.Nop()); n != 0 || len(store.deleted) != 0 {
		t.Fatal("retention 0 must disable purging")
	}
}

func TestRescheduleAllMissedAgainstStore(t *testing.T) {
	ctx := context.Background()
	s := dbtest.Store(t)
	sessions := []models.StudySession{
		{UserID: "1", PlanDate: "2026-03-08", Subject: "Math", StartTime: "09:00", EndTime: "10:00", DurationMinutes: 60},
		{UserID: "1", PlanDate: "2026-03-09", Subject: "Physics", StartTime: "09:00", EndTime: "10:00", DurationMinutes: 60},
		{UserID: "1", PlanDate: "2026-03-09", Subject: "Done", IsCompleted: true},
	}
	if err := s.SaveSessions(ctx, sessions); err != nil {
		t.Fatalf("SaveSessions: %v", err)
	}
	r := planner.NewRescheduler(s, logger.Nop(), planner.RescheduleOptions{
		MaxSessionsPerDay: 6,
		Now:               func() time.Time { return now },
	})

	n, err := RescheduleAllMissed(ctx, s, r, now, logger.Nop())
	if err != nil {
		t.Fatalf("RescheduleAllMissed: %v", err)
	}
	if n != 2 {
		t.Fatalf("moved = %d, want 2", n)
	}
	missed, err := s.ListMissedSessions(ctx, "1", "2026-03-10")
	if err != nil {
		t.Fatalf("ListMissedSessions: %v", err)
	}
	if len(missed) != 0 {
		t.Fatalf("still missed: %+v", missed)
	}
}

func TestStartJobsRejectsBadSpec(t *testing.T) {
	cfg := &config.Config{AutoRescheduleSpec: "not a spec", GuestRetentionDays: 30}
	if _, err := StartJobs(cfg, &fakeStore{}, &fakeRescheduler{}, logger.Nop()); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}

	cfg.AutoRescheduleSpec = "0 2 * * *"
	c, err := StartJobs(cfg, &fakeStore{}, &fakeRescheduler{}, logger.Nop())
	if err != nil {
		t.Fatalf("StartJobs: %v", err)
	}
	defer c.Stop()
	if got := len(c.Entries()); got != 2 {
		t.Fatalf("entries = %d, want 2", got)
	}
}
