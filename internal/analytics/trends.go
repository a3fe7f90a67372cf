package analytics

import (
	"github.com/studypilot/studypilot-back/internal/models"
	"github.com/studypilot/studypilot-back/internal/planner"
)

const onboardingLabel = "Initial (Onboarding)"

type TrendPoint struct {
	ExamName   string  `json:"examName"`
	Date       string  `json:"date"`
	Marks      float64 `json:"marks"`
	MaxMarks   float64 `json:"maxMarks"`
	Percentage int     `json:"percentage"`
}

type SubjectTrend struct {
	Subject         string       `json:"subject"`
	History         []TrendPoint `json:"history"`
	InitialMarks    float64      `json:"initialMarks"`
	InitialMaxMarks float64      `json:"initialMaxMarks"`
	LatestMarks     float64      `json:"latestMarks"`
	LatestMaxMarks  float64      `json:"latestMaxMarks"`
	Improvement     int          `json:"improvement"`
}

// Trends builds per-subject score histories. Each stored mark opens its
// subject's history; results must be ordered by exam date ascending and are
// appended in that order. Subjects that only appear in results start from
// their first result.
func Trends(marks []models.SubjectMark, results []models.ExamResult) []SubjectTrend {
	var order []string
	bySubject := map[string]*SubjectTrend{}

	for _, m := range marks {
		if _, ok := bySubject[m.Subject]; ok {
			continue
		}
		date := "Initial"
		if !m.CreatedAt.IsZero() {
			date = planner.FormatDate(m.CreatedAt.UTC())
		}
		bySubject[m.Subject] = &SubjectTrend{
			Subject: m.Subject,
			History: []TrendPoint{{
				ExamName:   onboardingLabel,
				Date:       date,
				Marks:      m.Marks,
				MaxMarks:   m.MaxMarks,
				Percentage: Round(planner.Percentage(m.Marks, m.MaxMarks)),
			}},
			InitialMarks:    m.Marks,
			InitialMaxMarks: m.MaxMarks,
			LatestMarks:     m.Marks,
			LatestMaxMarks:  m.MaxMarks,
		}
		order = append(order, m.Subject)
	}

	for _, r := range results {
		t, ok := bySubject[r.Subject]
		if !ok {
			t = &SubjectTrend{
				Subject:         r.Subject,
				History:         []TrendPoint{},
				InitialMarks:    r.Marks,
				InitialMaxMarks: r.MaxMarks,
			}
			bySubject[r.Subject] = t
			order = append(order, r.Subject)
		}
		t.History = append(t.History, TrendPoint{
			ExamName:   r.ExamName,
			Date:       r.ExamDate,
			Marks:      r.Marks,
			MaxMarks:   r.MaxMarks,
			Percentage: Round(planner.Percentage(r.Marks, r.MaxMarks)),
		})
		t.LatestMarks = r.Marks
		t.LatestMaxMarks = r.MaxMarks
	}

	out := make([]SubjectTrend, 0, len(order))
	for _, s := range order {
		t := bySubject[s]
		t.Improvement = Round(planner.Percentage(t.LatestMarks, t.LatestMaxMarks) - planner.Percentage(t.InitialMarks, t.InitialMaxMarks))
		out = append(out, *t)
	}
	return out
}
