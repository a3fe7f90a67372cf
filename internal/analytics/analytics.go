// Package analytics aggregates study sessions, marks and exam results into the
// progress views shown on the dashboard.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/studypilot/studypilot-back/internal/models"
	"github.com/studypilot/studypilot-back/internal/planner"
)

const trendWindow = 14

type Overview struct {
	TotalSessions         int `json:"totalSessions"`
	CompletedSessions     int `json:"completedSessions"`
	CompletionRate        int `json:"completionRate"`
	TotalStudyMinutes     int `json:"totalStudyMinutes"`
	CompletedStudyMinutes int `json:"completedStudyMinutes"`
	Streak                int `json:"streak"`
	ThisWeekCompleted     int `json:"thisWeekCompleted"`
	ThisWeekMinutes       int `json:"thisWeekMinutes"`
}

type SubjectPerformance struct {
	Subject             string  `json:"subject"`
	Marks               float64 `json:"marks"`
	MaxMarks            float64 `json:"maxMarks"`
	Percentage          int     `json:"percentage"`
	TotalSessions       int     `json:"totalSessions"`
	CompletedSessions   int     `json:"completedSessions"`
	StudyCompletionRate int     `json:"studyCompletionRate"`
	TotalMinutes        int     `json:"totalMinutes"`
	CompletedMinutes    int     `json:"completedMinutes"`
}

type DailyTrend struct {
	Date             string `json:"date"`
	Total            int    `json:"total"`
	Completed        int    `json:"completed"`
	Minutes          int    `json:"minutes"`
	CompletedMinutes int    `json:"completedMinutes"`
	CompletionRate   int    `json:"completionRate"`
}

type Report struct {
	Overview           Overview             `json:"overview"`
	SubjectPerformance []SubjectPerformance `json:"subjectPerformance"`
	DailyTrends        []DailyTrend         `json:"dailyTrends"`
}

type tally struct {
	total, completed, minutes, completedMinutes int
}

func (t *tally) add(s models.StudySession) {
	t.total++
	t.minutes += s.DurationMinutes
	if s.IsCompleted {
		t.completed++
		t.completedMinutes += s.DurationMinutes
	}
}

// Build computes the dashboard report. now decides the current week and the
// day the streak counts back from.
func Build(sessions []models.StudySession, marks []models.SubjectMark, now time.Time) Report {
	var all tally
	bySubject := map[string]*tally{}
	byDay := map[string]*tally{}
	completedDays := map[string]bool{}

	today := planner.Today(now)
	weekStart := planner.FormatDate(today.AddDate(0, 0, -int(today.Weekday())))
	var ov Overview

	for _, s := range sessions {
		all.add(s)
		if bySubject[s.Subject] == nil {
			bySubject[s.Subject] = &tally{}
		}
		bySubject[s.Subject].add(s)
		if byDay[s.PlanDate] == nil {
			byDay[s.PlanDate] = &tally{}
		}
		byDay[s.PlanDate].add(s)

		if s.IsCompleted {
			completedDays[s.PlanDate] = true
			if s.PlanDate >= weekStart {
				ov.ThisWeekCompleted++
				ov.ThisWeekMinutes += s.DurationMinutes
			}
		}
	}

	ov.TotalSessions = all.total
	ov.CompletedSessions = all.completed
	ov.CompletionRate = rate(all.completed, all.total)
	ov.TotalStudyMinutes = all.minutes
	ov.CompletedStudyMinutes = all.completedMinutes
	ov.Streak = Streak(completedDays, today)

	perf := make([]SubjectPerformance, 0, len(marks))
	for _, m := range marks {
		t := bySubject[m.Subject]
		if t == nil {
			t = &tally{}
		}
		perf = append(perf, SubjectPerformance{
			Subject:             m.Subject,
			Marks:               m.Marks,
			MaxMarks:            m.MaxMarks,
			Percentage:          Round(planner.Percentage(m.Marks, m.MaxMarks)),
			TotalSessions:       t.total,
			CompletedSessions:   t.completed,
			StudyCompletionRate: rate(t.completed, t.total),
			TotalMinutes:        t.minutes,
			CompletedMinutes:    t.completedMinutes,
		})
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)
	if len(days) > trendWindow {
		days = days[len(days)-trendWindow:]
	}
	trends := make([]DailyTrend, 0, len(days))
	for _, d := range days {
		t := byDay[d]
		trends = append(trends, DailyTrend{
			Date:             d,
			Total:            t.total,
			Completed:        t.completed,
			Minutes:          t.minutes,
			CompletedMinutes: t.completedMinutes,
			CompletionRate:   rate(t.completed, t.total),
		})
	}

	return Report{Overview: ov, SubjectPerformance: perf, DailyTrends: trends}
}

// Streak counts consecutive days, ending today, that have a completed session.
// A day without one breaks the streak, today included.
func Streak(completedDays map[string]bool, today time.Time) int {
	n := 0
	for d := today; completedDays[planner.FormatDate(d)]; d = d.AddDate(0, 0, -1) {
		n++
	}
	return n
}

func rate(part, total int) int {
	if total == 0 {
		return 0
	}
	return Round(float64(part) / float64(total) * 100)
}

// Round rounds half up, so -2.5 becomes -2 and 2.5 becomes 3.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}
