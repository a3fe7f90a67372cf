package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type DraftSession struct {
	Subject   string  `json:"subject" validate:"required"`
	StartTime string  `json:"startTime" validate:"required,clock"`
	EndTime   string  `json:"endTime" validate:"required,clock"`
	Duration  float64 `json:"duration" validate:"gt=0"`
	Priority  string  `json:"priority" validate:"oneof=high medium low"`
	FocusTip  string  `json:"focusTip"`
}

type DraftDay struct {
	Date     string         `json:"date" validate:"required,isodate"`
	Sessions []DraftSession `json:"sessions" validate:"dive"`
}

type DraftSummary struct {
	TotalHours     float64  `json:"totalHours"`
	FocusAreas     []string `json:"focusAreas"`
	Recommendation string   `json:"recommendation"`
}

type DraftPlan struct {
	Plan    []DraftDay   `json:"plan" validate:"required,min=1,dive"`
	Summary DraftSummary `json:"summary"`
}

// SessionCount is the number of sessions across every day of the draft.
func (p *DraftPlan) SessionCount() int {
	n := 0
	for _, d := range p.Plan {
		n += len(d.Sessions)
	}
	return n
}

// ParseError reports an oracle response that does not match the plan contract.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid plan draft: %s: %v", e.Reason, e.Err)
	}
	return "invalid plan draft: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

var validate = newDraftValidator()

func newDraftValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "clock", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// ExtractJSONObject returns the outermost brace-delimited substring of text.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// ParseDraft decodes and validates an oracle response. Every day must fall in
// the requested window [start, start+days-1] and appear once, so the replace
// covers exactly what was asked for and never touches history.
func ParseDraft(text string, start time.Time, days int) (*DraftPlan, error) {
	raw, ok := ExtractJSONObject(text)
	if !ok {
		return nil, &ParseError{Reason: "no JSON object in response"}
	}

	var plan DraftPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, &ParseError{Reason: "malformed JSON", Err: err}
	}
	if len(plan.Plan) == 0 {
		return nil, &ParseError{Reason: "plan contains no days"}
	}

	for i := range plan.Plan {
		day := &plan.Plan[i]
		day.Date = strings.TrimSpace(day.Date)
		for j := range day.Sessions {
			s := &day.Sessions[j]
			s.Subject = strings.TrimSpace(s.Subject)
			s.StartTime = strings.TrimSpace(s.StartTime)
			s.EndTime = strings.TrimSpace(s.EndTime)
			s.Priority = strings.ToLower(strings.TrimSpace(s.Priority))
		}
	}

	if err := validate.Struct(&plan); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &ParseError{Reason: fmt.Sprintf("field %s failed %q", verrs[0].Namespace(), verrs[0].Tag()), Err: err}
		}
		return nil, &ParseError{Reason: "validation failed", Err: err}
	}

	last := start.AddDate(0, 0, days-1)
	seen := make(map[string]struct{}, len(plan.Plan))
	for _, day := range plan.Plan {
		d, _ := ParseDate(day.Date)
		if d.Before(start) {
			return nil, &ParseError{Reason: fmt.Sprintf("day %s is before start date %s", day.Date, FormatDate(start))}
		}
		if d.After(last) {
			return nil, &ParseError{Reason: fmt.Sprintf("day %s is after end date %s", day.Date, FormatDate(last))}
		}
		if _, dup := seen[day.Date]; dup {
			return nil, &ParseError{Reason: fmt.Sprintf("day %s appears more than once", day.Date)}
		}
		seen[day.Date] = struct{}{}
	}
	return &plan, nil
}
