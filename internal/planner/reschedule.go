package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studypilot/studypilot-back/internal/logger"
	"github.com/studypilot/studypilot-back/internal/models"
)

const (
	DefaultMaxSessionsPerDay = 6
	DefaultHorizonDays       = 3650
)

var (
	ErrInvalidCapacity = errors.New("max sessions per day must be positive")
	ErrHorizonExceeded = errors.New("no free day within the reschedule horizon")
	ErrDateRequired    = errors.New("new date is required")
)

type RescheduleStore interface {
	ListMissedSessions(ctx context.Context, userID, today string) ([]models.StudySession, error)
	CountSessionsPerDay(ctx context.Context, userID, fromDate string) (map[string]int, error)
	MoveSessions(ctx context.Context, userID string, moves []models.SessionMove) error
	RescheduleSession(ctx context.Context, userID string, id uuid.UUID, newDate string, startTime, endTime *string) error
}

type RescheduleOptions struct {
	MaxSessionsPerDay int
	HorizonDays       int
	Now               func() time.Time
}

type Rescheduler struct {
	store     RescheduleStore
	log       *logger.Logger
	maxPerDay int
	horizon   int
	now       func() time.Time
}

func NewRescheduler(store RescheduleStore, baseLog *logger.Logger, opts RescheduleOptions) *Rescheduler {
	r := &Rescheduler{
		store:     store,
		log:       baseLog.With("component", "Rescheduler"),
		maxPerDay: opts.MaxSessionsPerDay,
		horizon:   opts.HorizonDays,
		now:       opts.Now,
	}
	if r.horizon <= 0 {
		r.horizon = DefaultHorizonDays
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

type SingleReschedule struct {
	NewDate      string
	NewStartTime *string
	NewEndTime   *string
}

// RescheduleOne moves one session to an explicit date. There is no capacity check.
func (r *Rescheduler) RescheduleOne(ctx context.Context, userID string, id uuid.UUID, req SingleReschedule) error {
	newDate := strings.TrimSpace(req.NewDate)
	if newDate == "" {
		return ErrDateRequired
	}
	if _, err := ParseDate(newDate); err != nil {
		return err
	}
	start, err := optionalClock(req.NewStartTime)
	if err != nil {
		return err
	}
	end, err := optionalClock(req.NewEndTime)
	if err != nil {
		return err
	}
	if err := r.store.RescheduleSession(ctx, userID, id, newDate, start, end); err != nil {
		return err
	}
	r.log.Info("session rescheduled", "user_id", userID, "session", id.String(), "date", newDate)
	return nil
}

func optionalClock(v *string) (*string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	t := strings.TrimSpace(*v)
	if _, err := time.Parse("15:04", t); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidTime, t, err)
	}
	t = normalizeClock(t)
	return &t, nil
}

// RescheduleMissed spreads every missed session over today and the following
// days without pushing any day past the per-day cap. Nothing is written unless
// every session finds a slot.
func (r *Rescheduler) RescheduleMissed(ctx context.Context, userID string) (int, error) {
	if r.maxPerDay <= 0 {
		return 0, ErrInvalidCapacity
	}
	today := Today(r.now())
	todayStr := FormatDate(today)

	missed, err := r.store.ListMissedSessions(ctx, userID, todayStr)
	if err != nil {
		return 0, fmt.Errorf("list missed sessions: %w", err)
	}
	if len(missed) == 0 {
		return 0, nil
	}

	counts, err := r.store.CountSessionsPerDay(ctx, userID, todayStr)
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}

	moves, err := PlaceMissed(missed, counts, today, r.maxPerDay, r.horizon)
	if err != nil {
		return 0, err
	}
	if err := r.store.MoveSessions(ctx, userID, moves); err != nil {
		return 0, fmt.Errorf("move sessions: %w", err)
	}
	r.log.Info("missed sessions rescheduled", "user_id", userID, "count", len(moves))
	return len(moves), nil
}

// PlaceMissed assigns each missed session, oldest first, to the first day from
// the cursor whose count is below maxPerDay. The cursor starts at today and only
// moves forward, so placement is a single pass. counts is not modified.
func PlaceMissed(missed []models.StudySession, counts map[string]int, today time.Time, maxPerDay, horizonDays int) ([]models.SessionMove, error) {
	if maxPerDay <= 0 {
		return nil, ErrInvalidCapacity
	}
	ordered := make([]models.StudySession, len(missed))
	copy(ordered, missed)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].PlanDate != ordered[j].PlanDate {
			return ordered[i].PlanDate < ordered[j].PlanDate
		}
		return ordered[i].StartTime < ordered[j].StartTime
	})

	perDay := make(map[string]int, len(counts))
	for d, n := range counts {
		perDay[d] = n
	}

	moves := make([]models.SessionMove, 0, len(ordered))
	cursor := Today(today)
	offset := 0
	for _, s := range ordered {
		day := FormatDate(cursor)
		for perDay[day] >= maxPerDay {
			offset++
			if offset > horizonDays {
				return nil, ErrHorizonExceeded
			}
			cursor = cursor.AddDate(0, 0, 1)
			day = FormatDate(cursor)
		}
		perDay[day]++
		moves = append(moves, models.SessionMove{SessionID: s.ID, PlanDate: day})
	}
	return moves, nil
}
