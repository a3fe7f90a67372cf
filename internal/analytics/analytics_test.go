package analytics

import (
	"testing"
	"time"

	"github.com/studypilot/studypilot-back/internal/models"
)

// Wednesday; the week started on Sunday 2026-03-08.
var now = time.Date(2026, 3, 11, 20, 0, 0, 0, time.UTC)

func sess(date, subject string, minutes int, done bool) models.StudySession {
	return models.StudySession{PlanDate: date, Subject: subject, DurationMinutes: minutes, IsCompleted: done}
}

func TestBuildOverview(t *testing.T) {
	sessions := []models.StudySession{
		sess("2026-03-07", "Math", 45, true),
		sess("2026-03-09", "Math", 45, true),
		sess("2026-03-10", "Physics", 30, true),
		sess("2026-03-11", "Math", 60, true),
		sess("2026-03-11", "Physics", 30, false),
		sess("2026-03-12", "Math", 45, false),
	}
	marks := []models.SubjectMark{
		{Subject: "Math", Marks: 45, MaxMarks: 60},
		{Subject: "Physics", Marks: 1, MaxMarks: 3},
		{Subject: "Art", Marks: 0, MaxMarks: 0},
	}
	r := Build(sessions, marks, now)

	want := Overview{
		TotalSessions:         6,
		CompletedSessions:     4,
		CompletionRate:        67,
		TotalStudyMinutes:     255,
		CompletedStudyMinutes: 180,
		Streak:                3,
		ThisWeekCompleted:     3,
		ThisWeekMinutes:       135,
	}
	if r.Overview != want {
		t.Fatalf("overview:\n got %+v\nwant %+v", r.Overview, want)
	}

	if len(r.SubjectPerformance) != 3 {
		t.Fatalf("subject performance: %+v", r.SubjectPerformance)
	}
	m := r.SubjectPerformance[0]
	if m.Percentage != 75 || m.TotalSessions != 4 || m.CompletedSessions != 3 || m.StudyCompletionRate != 75 || m.CompletedMinutes != 150 {
		t.Fatalf("math: %+v", m)
	}
	if p := r.SubjectPerformance[1]; p.Percentage != 33 || p.StudyCompletionRate != 50 {
		t.Fatalf("physics: %+v", p)
	}
	if a := r.SubjectPerformance[2]; a.Percentage != 0 || a.TotalSessions != 0 {
		t.Fatalf("art: %+v", a)
	}
}

func TestBuildDailyTrendsKeepsLastFourteenDays(t *testing.T) {
	var sessions []models.StudySession
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		d := start.AddDate(0, 0, i).Format(models.DateLayout)
		sessions = append(sessions, sess(d, "Math", 30, i%2 == 0), sess(d, "Math", 30, false))
	}
	r := Build(sessions, nil, now)
	if len(r.DailyTrends) != 14 {
		t.Fatalf("got %d days", len(r.DailyTrends))
	}
	if r.DailyTrends[0].Date != "2026-02-07" || r.DailyTrends[13].Date != "2026-02-20" {
		t.Fatalf("window: %s .. %s", r.DailyTrends[0].Date, r.DailyTrends[13].Date)
	}
	for i := 1; i < len(r.DailyTrends); i++ {
		if r.DailyTrends[i-1].Date >= r.DailyTrends[i].Date {
			t.Fatal("trends not ascending")
		}
	}
	if first := r.DailyTrends[0]; first.Total != 2 || first.CompletionRate != 50 || first.CompletedMinutes != 30 {
		t.Fatalf("even day: %+v", first)
	}
	if second := r.DailyTrends[1]; second.CompletionRate != 0 || second.Minutes != 60 {
		t.Fatalf("odd day: %+v", second)
	}
}

func TestStreakBreaksWithoutToday(t *testing.T) {
	today := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	days := map[string]bool{"2026-03-10": true, "2026-03-09": true}
	if got := Streak(days, today); got != 0 {
		t.Fatalf("streak without today: %d", got)
	}
	days["2026-03-11"] = true
	if got := Streak(days, today); got != 3 {
		t.Fatalf("streak: %d", got)
	}
}

func TestRound(t *testing.T) {
	for in, want := range map[float64]int{2.5: 3, -2.5: -2, 66.66: 67, -0.4: 0, 0: 0} {
		if got := Round(in); got != want {
			t.Errorf("Round(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestEmptyReport(t *testing.T) {
	r := Build(nil, nil, now)
	if r.Overview != (Overview{}) || len(r.SubjectPerformance) != 0 || len(r.DailyTrends) != 0 {
		t.Fatalf("empty report: %+v", r)
	}
	if r.DailyTrends == nil || r.SubjectPerformance == nil {
		t.Fatal("lists must encode as [] rather than null")
	}
}
