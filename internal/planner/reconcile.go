package planner

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/studypilot/studypilot-back/internal/logger"
	"github.com/studypilot/studypilot-back/internal/models"
)

// PlanWriter replaces a user's sessions from a date onwards in one atomic step.
type PlanWriter interface {
	ReplaceSessionsFrom(ctx context.Context, userID, fromDate string, sessions []models.StudySession) (int64, error)
}

type ReconcileResult struct {
	Deleted  int64 `json:"deleted"`
	Inserted int   `json:"inserted"`
}

// Reconciler persists a parsed draft as a full replace of every session dated
// on or after the plan start. Completed sessions in that range are discarded too.
type Reconciler struct {
	store PlanWriter
	log   *logger.Logger
}

func NewReconciler(store PlanWriter, baseLog *logger.Logger) *Reconciler {
	return &Reconciler{store: store, log: baseLog.With("component", "Reconciler")}
}

func (r *Reconciler) Apply(ctx context.Context, userID string, start time.Time, plan *DraftPlan) (ReconcileResult, error) {
	sessions := SessionsFromDraft(userID, plan)
	deleted, err := r.store.ReplaceSessionsFrom(ctx, userID, FormatDate(start), sessions)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("replace sessions: %w", err)
	}
	r.log.Info("plan reconciled", "user_id", userID, "start", FormatDate(start), "deleted", deleted, "inserted", len(sessions))
	return ReconcileResult{Deleted: deleted, Inserted: len(sessions)}, nil
}

// SessionsFromDraft flattens a validated draft into session rows, day order first.
func SessionsFromDraft(userID string, plan *DraftPlan) []models.StudySession {
	out := make([]models.StudySession, 0, plan.SessionCount())
	for _, day := range plan.Plan {
		for _, s := range day.Sessions {
			out = append(out, models.StudySession{
				UserID:          userID,
				PlanDate:        day.Date,
				Subject:         s.Subject,
				StartTime:       normalizeClock(s.StartTime),
				EndTime:         normalizeClock(s.EndTime),
				DurationMinutes: int(math.Round(s.Duration)),
				Priority:        s.Priority,
				Notes:           s.FocusTip,
			})
		}
	}
	return out
}

// normalizeClock zero-pads "9:05" to "09:05" so stored times sort as text.
func normalizeClock(v string) string {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return v
	}
	return t.Format("15:04")
}
