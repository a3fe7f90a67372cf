package planner

import (
	"math"
	"sort"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type SubjectAllocation struct {
	SubjectWeight
	MinutesPerDay int    `json:"minutesPerDay"`
	Priority      string `json:"priority"`
}

// PriorityFor labels a subject from its raw percentage, not its weakness score.
func PriorityFor(percentage float64) string {
	switch {
	case percentage < 40:
		return PriorityHigh
	case percentage < 60:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Allocate splits totalMinutes across subjects in proportion to their weakness
// score and returns them weakest first. Each share is rounded on its own, so the
// sum may drift from totalMinutes by up to len(weights).
func Allocate(weights []SubjectWeight, totalMinutes int) []SubjectAllocation {
	if len(weights) == 0 {
		return nil
	}
	var total float64
	for _, w := range weights {
		total += w.WeaknessScore
	}

	out := make([]SubjectAllocation, 0, len(weights))
	for _, w := range weights {
		ratio := 1 / float64(len(weights))
		if total > 0 {
			ratio = w.WeaknessScore / total
		}
		out = append(out, SubjectAllocation{
			SubjectWeight: w,
			MinutesPerDay: int(math.Round(float64(totalMinutes) * ratio)),
			Priority:      PriorityFor(w.Percentage),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WeaknessScore > out[j].WeaknessScore
	})
	return out
}
