// Package planner turns marks and the exam calendar into per-subject time
// budgets, drafts a schedule through the drafting oracle, persists it and
// reschedules sessions that were missed.
package planner

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/studypilot/studypilot-back/internal/models"
)

var (
	ErrNoSubjects  = errors.New("no subjects found, complete onboarding first")
	ErrInvalidDate = errors.New("invalid date")
	ErrInvalidTime = errors.New("invalid time")
)

// ExamInfo describes the nearest upcoming exam of a subject.
type ExamInfo struct {
	ExamDate  string  `json:"examDate"`
	ExamName  *string `json:"examName,omitempty"`
	DaysUntil int     `json:"daysUntil"`
}

type SubjectWeight struct {
	Subject           string    `json:"subject"`
	Marks             float64   `json:"marks"`
	MaxMarks          float64   `json:"maxMarks"`
	Percentage        float64   `json:"percentage"`
	BaseWeaknessScore float64   `json:"baseWeaknessScore"`
	UrgencyBoost      float64   `json:"urgencyBoost"`
	WeaknessScore     float64   `json:"weaknessScore"`
	Exam              *ExamInfo `json:"examInfo"`
}

// UrgencyBoost maps days until an exam onto the fixed step boost.
func UrgencyBoost(daysUntil int) float64 {
	switch {
	case daysUntil <= 3:
		return 80
	case daysUntil <= 7:
		return 50
	case daysUntil <= 14:
		return 30
	case daysUntil <= 21:
		return 15
	default:
		return 0
	}
}

// DaysUntil is the ceiling of the day difference between start and target.
func DaysUntil(start, target time.Time) int {
	return int(math.Ceil(target.Sub(start).Hours() / 24))
}

// NearestExams keeps the soonest exam on or after start for every subject.
// Entries with an unreadable date are skipped.
func NearestExams(exams []models.ExamScheduleEntry, start time.Time) map[string]ExamInfo {
	nearest := make(map[string]ExamInfo, len(exams))
	for _, e := range exams {
		examDate, err := ParseDate(e.ExamDate)
		if err != nil || examDate.Before(start) {
			continue
		}
		days := DaysUntil(start, examDate)
		if cur, ok := nearest[e.Subject]; ok && cur.DaysUntil <= days {
			continue
		}
		nearest[e.Subject] = ExamInfo{ExamDate: e.ExamDate, ExamName: e.ExamName, DaysUntil: days}
	}
	return nearest
}

// Percentage returns marks as a percentage of maxMarks; zero when maxMarks is not positive.
func Percentage(marks, maxMarks float64) float64 {
	if maxMarks <= 0 {
		return 0
	}
	return marks / maxMarks * 100
}

// WeighSubjects computes the weakness score of every subject, keeping input order.
func WeighSubjects(marks []models.SubjectMark, exams []models.ExamScheduleEntry, start time.Time) ([]SubjectWeight, error) {
	if len(marks) == 0 {
		return nil, ErrNoSubjects
	}
	nearest := NearestExams(exams, start)

	out := make([]SubjectWeight, 0, len(marks))
	for _, m := range marks {
		pct := Percentage(m.Marks, m.MaxMarks)
		w := SubjectWeight{
			Subject:           m.Subject,
			Marks:             m.Marks,
			MaxMarks:          m.MaxMarks,
			Percentage:        pct,
			BaseWeaknessScore: 100 - pct,
		}
		if info, ok := nearest[m.Subject]; ok {
			exam := info
			w.Exam = &exam
			w.UrgencyBoost = UrgencyBoost(info.DaysUntil)
		}
		w.WeaknessScore = w.BaseWeaknessScore + w.UrgencyBoost
		out = append(out, w)
	}
	return out, nil
}

// ParseDate reads an ISO calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", ErrInvalidDate, s, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

// Today truncates now to its UTC calendar date.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
