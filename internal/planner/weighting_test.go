package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/studypilot/studypilot-back/internal/models"
)

func TestUrgencyBoostSteps(t *testing.T) {
	cases := map[int]float64{
		0: 80, 3: 80,
		4: 50, 7: 50,
		8: 30, 14: 30,
		15: 15, 21: 15,
		22: 0, 90: 0,
	}
	for days, want := range cases {
		if got := UrgencyBoost(days); got != want {
			t.Errorf("UrgencyBoost(%d) = %v, want %v", days, got, want)
		}
	}
}

func TestNearestExamsUsesSoonestFutureEntry(t *testing.T) {
	final := "Final"
	exams := []models.ExamScheduleEntry{
		{Subject: "Math", ExamDate: "2026-03-20"},
		{Subject: "Math", ExamDate: "2026-03-06", ExamName: &final},
		{Subject: "Math", ExamDate: "2026-02-27"},
		{Subject: "Chem", ExamDate: "not-a-date"},
	}
	got := NearestExams(exams, planStart)
	if len(got) != 1 {
		t.Fatalf("expected only Math, got %v", got)
	}
	m := got["Math"]
	if m.ExamDate != "2026-03-06" || m.DaysUntil != 5 || m.ExamName == nil || *m.ExamName != "Final" {
		t.Fatalf("unexpected nearest exam: %+v", m)
	}
}

func TestMultipleExamsDoNotStack(t *testing.T) {
	single := []models.ExamScheduleEntry{{Subject: "Math", ExamDate: "2026-03-02"}}
	double := append(single, models.ExamScheduleEntry{Subject: "Math", ExamDate: "2026-03-04"})
	a, _ := WeighSubjects(marks("Math", 50, 100), single, planStart)
	b, _ := WeighSubjects(marks("Math", 50, 100), double, planStart)
	if a[0].WeaknessScore != b[0].WeaknessScore {
		t.Fatalf("extra exams changed urgency: %v vs %v", a[0].WeaknessScore, b[0].WeaknessScore)
	}
}

func TestImminentExamOutranksSamePercentage(t *testing.T) {
	exams := []models.ExamScheduleEntry{{Subject: "A", ExamDate: "2026-03-04"}}
	for _, pct := range []int{0, 25, 40, 99, 100} {
		weights, err := WeighSubjects(marks("A", pct, 100, "B", pct, 100), exams, planStart)
		if err != nil {
			t.Fatalf("WeighSubjects: %v", err)
		}
		if !(weights[0].WeaknessScore > weights[1].WeaknessScore) {
			t.Fatalf("pct %d: exam subject %v not above %v", pct, weights[0].WeaknessScore, weights[1].WeaknessScore)
		}
	}
}

func TestWeighSubjectsEdgeCases(t *testing.T) {
	if _, err := WeighSubjects(nil, nil, planStart); !errors.Is(err, ErrNoSubjects) {
		t.Fatalf("expected ErrNoSubjects, got %v", err)
	}

	weights, err := WeighSubjects([]models.SubjectMark{{Subject: "Broken", Marks: 5, MaxMarks: 0}}, nil, planStart)
	if err != nil {
		t.Fatalf("WeighSubjects: %v", err)
	}
	if weights[0].Percentage != 0 || weights[0].WeaknessScore != 100 {
		t.Fatalf("zero max marks: %+v", weights[0])
	}

	exams := []models.ExamScheduleEntry{{Subject: "Zero", ExamDate: "2026-03-01"}}
	weights, _ = WeighSubjects(marks("Zero", 0, 100), exams, planStart)
	if weights[0].WeaknessScore != 180 {
		t.Fatalf("scores are not capped at 100, got %v", weights[0].WeaknessScore)
	}
}

func TestDaysUntilCeil(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	target := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	if got := DaysUntil(start, target); got != 2 {
		t.Fatalf("DaysUntil: got %d want 2", got)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate("2026-3-1"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if got := Today(time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)); !got.Equal(planStart) {
		t.Fatalf("Today: got %s", got)
	}
}
