package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/studypilot/studypilot-back/internal/logger"
	"github.com/studypilot/studypilot-back/internal/models"
)

const (
	DefaultDays        = 7
	MaxDays            = 31
	DefaultHoursPerDay = 4
	MaxHoursPerDay     = 16
)

var ErrInvalidRequest = errors.New("invalid plan request")

// Drafter is the external plan drafting oracle.
type Drafter interface {
	Draft(ctx context.Context, system, prompt string) (string, error)
}

// SummaryStore keeps the latest oracle summary of a user. Optional.
type SummaryStore interface {
	SaveSummary(ctx context.Context, userID string, summary []byte) error
}

type PlanStore interface {
	PlanWriter
	ListMarks(ctx context.Context, userID string) ([]models.SubjectMark, error)
	ListExamsFrom(ctx context.Context, userID, date string) ([]models.ExamScheduleEntry, error)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

type ServiceOptions struct {
	DraftTimeout time.Duration
	Summaries    SummaryStore
	Now          func() time.Time
}

// Service runs plan generation: weighting, allocation, drafting, parsing and reconciliation.
type Service struct {
	store        PlanStore
	drafter      Drafter
	reconciler   *Reconciler
	summaries    SummaryStore
	log          *logger.Logger
	draftTimeout time.Duration
	now          func() time.Time
}

func NewService(store PlanStore, drafter Drafter, baseLog *logger.Logger, opts ServiceOptions) *Service {
	s := &Service{
		store:        store,
		drafter:      drafter,
		reconciler:   NewReconciler(store, baseLog),
		summaries:    opts.Summaries,
		log:          baseLog.With("component", "PlanService"),
		draftTimeout: opts.DraftTimeout,
		now:          opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type GenerateRequest struct {
	StartDate   string  `json:"startDate"`
	Days        int     `json:"days"`
	HoursPerDay float64 `json:"hoursPerDay"`
}

type GenerateResult struct {
	Plan               *DraftPlan          `json:"plan"`
	SubjectAllocations []SubjectAllocation `json:"subjectAllocations"`
	Reconciled         ReconcileResult     `json:"reconciled"`
}

func (s *Service) normalize(req GenerateRequest) (time.Time, int, float64, error) {
	start := Today(s.now())
	if d := strings.TrimSpace(req.StartDate); d != "" {
		parsed, err := ParseDate(d)
		if err != nil {
			return time.Time{}, 0, 0, err
		}
		start = parsed
	}

	days := req.Days
	if days == 0 {
		days = DefaultDays
	}
	if days < 1 || days > MaxDays {
		return time.Time{}, 0, 0, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidRequest, MaxDays)
	}

	hours := req.HoursPerDay
	if hours == 0 {
		hours = DefaultHoursPerDay
	}
	if hours < 0 || hours > MaxHoursPerDay || math.IsNaN(hours) {
		return time.Time{}, 0, 0, fmt.Errorf("%w: hoursPerDay must be between 0 and %d", ErrInvalidRequest, MaxHoursPerDay)
	}
	return start, days, hours, nil
}

// Allocations computes the weighted per-subject budget without calling the oracle.
func (s *Service) Allocations(ctx context.Context, userID string, start time.Time, hoursPerDay float64) ([]SubjectAllocation, error) {
	marks, err := s.store.ListMarks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list marks: %w", err)
	}
	if len(marks) == 0 {
		return nil, ErrNoSubjects
	}
	exams, err := s.store.ListExamsFrom(ctx, userID, FormatDate(start))
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	weights, err := WeighSubjects(marks, exams, start)
	if err != nil {
		return nil, err
	}
	return Allocate(weights, int(math.Round(hoursPerDay*60))), nil
}

// Generate drafts and persists a new plan. Nothing is written unless the oracle
// answer parses and validates.
func (s *Service) Generate(ctx context.Context, userID string, req GenerateRequest) (*GenerateResult, error) {
	start, days, hours, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	allocs, err := s.Allocations(ctx, userID, start, hours)
	if err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	draftReq := BuildDraftRequest(allocs, PreferencesFromProfile(profile, hours), start, days)

	draftCtx := ctx
	if s.draftTimeout > 0 {
		var cancel context.CancelFunc
		draftCtx, cancel = context.WithTimeout(ctx, s.draftTimeout)
		defer cancel()
	}
	began := time.Now()
	text, err := s.drafter.Draft(draftCtx, draftReq.System, draftReq.Prompt)
	if err != nil {
		s.log.Warn("plan drafting failed", "user_id", userID, "error", err, "elapsed", time.Since(began).String())
		return nil, fmt.Errorf("draft plan: %w", err)
	}

	plan, err := ParseDraft(text, start, days)
	if err != nil {
		s.log.Warn("plan draft rejected", "user_id", userID, "error", err)
		return nil, err
	}

	reconciled, err := s.reconciler.Apply(ctx, userID, start, plan)
	if err != nil {
		return nil, err
	}

	if s.summaries != nil {
		if raw, err := json.Marshal(plan.Summary); err == nil {
			if err := s.summaries.SaveSummary(ctx, userID, raw); err != nil {
				s.log.Warn("summary cache write failed", "user_id", userID, "error", err)
			}
		}
	}

	return &GenerateResult{Plan: plan, SubjectAllocations: allocs, Reconciled: reconciled}, nil
}
