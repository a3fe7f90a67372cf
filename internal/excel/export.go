package excel

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/studypilot/studypilot-back/internal/models"
)

const (
	planSheet    = "Plan"
	summarySheet = "Subjects"
)

var planHeader = []interface{}{"Date", "Start", "End", "Subject", "Minutes", "Priority", "Completed", "Focus tip"}

// -------------------- EXPORT --------------------

// ExportPlan renders sessions as an xlsx workbook: one row per session on the
// Plan sheet and per-subject minute totals on the Subjects sheet.
func ExportPlan(sessions []models.StudySession) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", planSheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(planSheet, "A1", &planHeader); err != nil {
		return nil, err
	}
	totals := map[string]int{}
	for i, s := range sessions {
		done := "no"
		if s.IsCompleted {
			done = "yes"
		}
		row := []interface{}{s.PlanDate, s.StartTime, s.EndTime, s.Subject, s.DurationMinutes, s.Priority, done, s.Notes}
		axis, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(planSheet, axis, &row); err != nil {
			return nil, fmt.Errorf("write session row %d: %w", i+2, err)
		}
		totals[s.Subject] += s.DurationMinutes
	}
	if err := f.SetCellStyle(planSheet, "A1", "H1", bold); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(planSheet, "A", "A", 12)
	_ = f.SetColWidth(planSheet, "D", "D", 20)
	_ = f.SetColWidth(planSheet, "H", "H", 50)

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(summarySheet, "A1", &[]interface{}{"Subject", "Planned minutes"}); err != nil {
		return nil, err
	}
	subjects := make([]string, 0, len(totals))
	for s := range totals {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	for i, s := range subjects {
		axis, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(summarySheet, axis, &[]interface{}{s, totals[s]}); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", bold); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}
