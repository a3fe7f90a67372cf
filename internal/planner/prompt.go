package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/studypilot/studypilot-back/internal/models"
)

var studyTimeStarts = map[string]string{
	"morning":   "06:00",
	"midday":    "10:00",
	"afternoon": "14:00",
	"evening":   "18:00",
}

var sessionLengths = map[string]int{
	"short":    25,
	"medium":   45,
	"long":     60,
	"extended": 90,
}

const (
	defaultStartTime     = "09:00"
	defaultSessionLength = 45
	defaultLearningStyle = "visual"
)

const draftingSystemRole = "You are an academic study planner. You build realistic day-by-day revision " +
	"schedules and answer with a single JSON object and nothing else."

type Preferences struct {
	StartTime     string
	SessionLength int
	HoursPerDay   float64
	LearningStyle string
}

// PreferencesFromProfile resolves questionnaire categories; a nil profile yields defaults.
func PreferencesFromProfile(p *models.UserProfile, hoursPerDay float64) Preferences {
	prefs := Preferences{
		StartTime:     defaultStartTime,
		SessionLength: defaultSessionLength,
		HoursPerDay:   hoursPerDay,
		LearningStyle: defaultLearningStyle,
	}
	if p == nil {
		return prefs
	}
	if v, ok := studyTimeStarts[p.StudyTime]; ok {
		prefs.StartTime = v
	}
	if v, ok := sessionLengths[p.SessionLength]; ok {
		prefs.SessionLength = v
	}
	if s := strings.TrimSpace(p.LearningStyle); s != "" {
		prefs.LearningStyle = s
	}
	return prefs
}

// DraftRequest is the instruction payload handed to the drafting oracle.
type DraftRequest struct {
	System    string
	Prompt    string
	StartDate string
	Dates     []string
}

// BuildDraftRequest serializes allocations, exams, preferences and the hard
// rules for days consecutive dates beginning at start. Allocations are expected
// weakest first; that order is kept in the payload.
func BuildDraftRequest(allocs []SubjectAllocation, prefs Preferences, start time.Time, days int) DraftRequest {
	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, FormatDate(start.AddDate(0, 0, i)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-day study schedule based on these requirements:\n\n", days)

	b.WriteString("STUDENT PERFORMANCE (prioritize weaker subjects and upcoming exams):\n")
	for _, a := range allocs {
		fmt.Fprintf(&b, "- %s: %s/%s (%.0f%%) - Priority: %s", a.Subject, formatNumber(a.Marks), formatNumber(a.MaxMarks), a.Percentage, a.Priority)
		if a.Exam != nil {
			fmt.Fprintf(&b, " - EXAM in %d days", a.Exam.DaysUntil)
		}
		fmt.Fprintf(&b, " - Allocate ~%d min/day\n", a.MinutesPerDay)
	}

	var exams []string
	for _, a := range allocs {
		if a.Exam == nil {
			continue
		}
		line := fmt.Sprintf("- %s: Exam on %s", a.Subject, a.Exam.ExamDate)
		if a.Exam.ExamName != nil && *a.Exam.ExamName != "" {
			line += fmt.Sprintf(" (%s)", *a.Exam.ExamName)
		}
		line += fmt.Sprintf(" - %d days away", a.Exam.DaysUntil)
		exams = append(exams, line)
	}
	if len(exams) > 0 {
		b.WriteString("\nUPCOMING EXAMS (CRITICAL - prioritize these subjects!):\n")
		b.WriteString(strings.Join(exams, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\nPREFERENCES:\n")
	fmt.Fprintf(&b, "- Preferred study start time: %s\n", prefs.StartTime)
	fmt.Fprintf(&b, "- Session length: %d minutes\n", prefs.SessionLength)
	fmt.Fprintf(&b, "- Total study hours per day: %s\n", formatNumber(prefs.HoursPerDay))
	fmt.Fprintf(&b, "- Learning style: %s\n", prefs.LearningStyle)

	b.WriteString(`
RULES:
1. CRITICAL: Subjects with lower scores MUST get MORE study time
2. Include 5-10 min breaks between sessions
3. Schedule hardest subjects during peak focus times (earlier in the day)
4. Vary subjects throughout the day to maintain engagement
5. Include specific focus tips for each session

Return ONLY valid JSON in this exact format:
{
  "plan": [
    {
      "date": "YYYY-MM-DD",
      "sessions": [
        {
          "subject": "Subject Name",
          "startTime": "HH:MM",
          "endTime": "HH:MM",
          "duration": 45,
          "priority": "high|medium|low",
          "focusTip": "Brief study tip for this session"
        }
      ]
    }
  ],
  "summary": {
    "totalHours": 28,
    "focusAreas": ["Subject 1", "Subject 2"],
    "recommendation": "Overall study recommendation"
  }
}
`)
	fmt.Fprintf(&b, "\nPlan exactly these dates: %s\n", strings.Join(dates, ", "))
	fmt.Fprintf(&b, "Start date: %s\n", FormatDate(start))

	return DraftRequest{
		System:    draftingSystemRole,
		Prompt:    b.String(),
		StartDate: FormatDate(start),
		Dates:     dates,
	}
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
