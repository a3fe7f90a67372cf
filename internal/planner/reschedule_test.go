package planner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studypilot/studypilot-back/internal/logger"
	"github.com/studypilot/studypilot-back/internal/models"
)

type memSessions struct {
	sessions []models.StudySession
	moveErr  error
	moves    int
}

func (m *memSessions) ListMissedSessions(ctx context.Context, userID, today string) ([]models.StudySession, error) {
	var out []models.StudySession
	for _, s := range m.sessions {
		if s.UserID == userID && s.Missed(today) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSessions) CountSessionsPerDay(ctx context.Context, userID, fromDate string) (map[string]int, error) {
	counts := map[string]int{}
	for _, s := range m.sessions {
		if s.UserID == userID && s.PlanDate >= fromDate {
			counts[s.PlanDate]++
		}
	}
	return counts, nil
}

func (m *memSessions) MoveSessions(ctx context.Context, userID string, moves []models.SessionMove) error {
	m.moves++
	if m.moveErr != nil {
		return m.moveErr
	}
	for _, mv := range moves {
		for i := range m.sessions {
			if m.sessions[i].ID == mv.SessionID {
				m.sessions[i].PlanDate = mv.PlanDate
			}
		}
	}
	return nil
}

func (m *memSessions) RescheduleSession(ctx context.Context, userID string, id uuid.UUID, newDate string, startTime, endTime *string) error {
	for i := range m.sessions {
		s := &m.sessions[i]
		if s.ID != id || s.UserID != userID {
			continue
		}
		s.PlanDate = newDate
		if startTime != nil {
			s.StartTime = *startTime
		}
		if endTime != nil {
			s.EndTime = *endTime
		}
		return nil
	}
	return errors.New("not found")
}

func session(user, date, start string) models.StudySession {
	return models.StudySession{ID: uuid.New(), UserID: user, PlanDate: date, StartTime: start, Subject: "Math"}
}

func fixedNow() time.Time { return time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC) }

func TestRescheduleMissedRespectsCap(t *testing.T) {
	store := &memSessions{}
	for i := 0; i < 6; i++ {
		store.sessions = append(store.sessions, session("u1", "2026-03-10", fmt.Sprintf("%02d:00", 8+i)))
	}
	store.sessions = append(store.sessions,
		session("u1", "2026-03-11", "09:00"),
		session("u1", "2026-03-11", "10:00"),
		session("u1", "2026-03-07", "09:00"),
		session("u1", "2026-03-08", "09:00"),
		session("u1", "2026-03-09", "09:00"),
	)

	r := NewRescheduler(store, logger.Nop(), RescheduleOptions{MaxSessionsPerDay: 6, Now: fixedNow})
	n, err := r.RescheduleMissed(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RescheduleMissed: %v", err)
	}
	if n != 3 {
		t.Fatalf("moved %d, want 3", n)
	}
	counts, _ := store.CountSessionsPerDay(context.Background(), "u1", "2026-03-10")
	if counts["2026-03-10"] != 6 || counts["2026-03-11"] != 5 {
		t.Fatalf("counts after reschedule: %v", counts)
	}
	if missed, _ := store.ListMissedSessions(context.Background(), "u1", "2026-03-10"); len(missed) != 0 {
		t.Fatalf("%d sessions still missed", len(missed))
	}
}

func TestRescheduleMissedNothingToDo(t *testing.T) {
	store := &memSessions{sessions: []models.StudySession{session("u1", "2026-03-12", "09:00")}}
	r := NewRescheduler(store, logger.Nop(), RescheduleOptions{MaxSessionsPerDay: 6, Now: fixedNow})
	n, err := r.RescheduleMissed(context.Background(), "u1")
	if err != nil || n != 0 {
		t.Fatalf("got %d, %v", n, err)
	}
	if store.moves != 0 {
		t.Fatal("no write expected without missed sessions")
	}
}

func TestRescheduleMissedInvalidCapacity(t *testing.T) {
	store := &memSessions{sessions: []models.StudySession{session("u1", "2026-03-01", "09:00")}}
	r := NewRescheduler(store, logger.Nop(), RescheduleOptions{MaxSessionsPerDay: 0, Now: fixedNow})
	if _, err := r.RescheduleMissed(context.Background(), "u1"); !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity, got %v", err)
	}
}

func TestRescheduleMissedHorizonLeavesStoreUntouched(t *testing.T) {
	store := &memSessions{}
	for _, d := range []string{"2026-03-10", "2026-03-11"} {
		store.sessions = append(store.sessions, session("u1", d, "09:00"))
	}
	store.sessions = append(store.sessions, session("u1", "2026-03-01", "09:00"))

	r := NewRescheduler(store, logger.Nop(), RescheduleOptions{MaxSessionsPerDay: 1, HorizonDays: 1, Now: fixedNow})
	if _, err := r.RescheduleMissed(context.Background(), "u1"); !errors.Is(err, ErrHorizonExceeded) {
		t.Fatalf("expected ErrHorizonExceeded, got %v", err)
	}
	if store.moves != 0 {
		t.Fatal("store must not be written when placement fails")
	}
}

func TestRescheduleMissedPropagatesWriteFailure(t *testing.T) {
	store := &memSessions{
		sessions: []models.StudySession{session("u1", "2026-03-01", "09:00")},
		moveErr:  errors.New("connection reset"),
	}
	r := NewRescheduler(store, logger.Nop(), RescheduleOptions{MaxSessionsPerDay: 6, Now: fixedNow})
	if _, err := r.RescheduleMissed(context.Background(), "u1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestPlaceMissedOrderAndSinglePass(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	older := session("u1", "2026-03-01", "10:00")
	oldest := session("u1", "2026-03-01", "08:00")
	newer := session("u1", "2026-03-05", "07:00")
	counts := map[string]int{"2026-03-10": 1, "2026-03-11": 2, "2026-03-12": 0}

	moves, err := PlaceMissed([]models.StudySession{newer, older, oldest}, counts, today, 2, 30)
	if err != nil {
		t.Fatalf("PlaceMissed: %v", err)
	}
	want := []struct {
		id   uuid.UUID
		date string
	}{
		{oldest.ID, "2026-03-10"},
		{older.ID, "2026-03-12"},
		{newer.ID, "2026-03-12"},
	}
	for i, w := range want {
		if moves[i].SessionID != w.id || moves[i].PlanDate != w.date {
			t.Fatalf("move %d: got %+v want %s on %s", i, moves[i], w.id, w.date)
		}
	}
	if counts["2026-03-10"] != 1 {
		t.Fatal("input counts must not be modified")
	}
}

func TestRescheduleOne(t *testing.T) {
	s := session("u1", "2026-03-01", "09:00")
	s.EndTime = "09:45"
	store := &memSessions{sessions: []models.StudySession{s}}
	r := NewRescheduler(store, logger.Nop(), RescheduleOptions{MaxSessionsPerDay: 6, Now: fixedNow})
	ctx := context.Background()

	if err := r.RescheduleOne(ctx, "u1", s.ID, SingleReschedule{}); !errors.Is(err, ErrDateRequired) {
		t.Fatalf("expected ErrDateRequired, got %v", err)
	}
	if err := r.RescheduleOne(ctx, "u1", s.ID, SingleReschedule{NewDate: "tomorrow"}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	bad := "7pm"
	if err := r.RescheduleOne(ctx, "u1", s.ID, SingleReschedule{NewDate: "2026-03-20", NewStartTime: &bad}); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}

	if err := r.RescheduleOne(ctx, "u1", s.ID, SingleReschedule{NewDate: "2026-03-20"}); err != nil {
		t.Fatalf("RescheduleOne: %v", err)
	}
	if got := store.sessions[0]; got.PlanDate != "2026-03-20" || got.StartTime != "09:00" || got.EndTime != "09:45" {
		t.Fatalf("times should be kept: %+v", got)
	}

	start := "7:30"
	if err := r.RescheduleOne(ctx, "u1", s.ID, SingleReschedule{NewDate: "2026-03-21", NewStartTime: &start}); err != nil {
		t.Fatalf("RescheduleOne: %v", err)
	}
	if got := store.sessions[0]; got.StartTime != "07:30" || got.EndTime != "09:45" {
		t.Fatalf("start time not applied: %+v", got)
	}
}
