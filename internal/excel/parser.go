package excel

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/studypilot/studypilot-back/internal/logger"
	"github.com/studypilot/studypilot-back/internal/models"
)

const defaultMaxMarks = 100

var ErrNoMarks = errors.New("marksheet contains no subject marks")

// -------------------- PARSING --------------------

// ParseMarksheet reads subject marks from the first sheet of an xlsx workbook.
// A header row naming the subject, marks and max columns is optional; without
// one the columns are A, B and C. A marks cell may also hold "45/60".
func ParseMarksheet(r io.Reader, log *logger.Logger) ([]models.SubjectMark, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open marksheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoMarks
	}
	sheetName := sheets[0]
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	log.Debug("parsing marksheet", "sheet", sheetName, "rows", len(rows))

	cols := columns{subject: 0, marks: 1, max: 2}
	start := 0
	if len(rows) > 0 {
		if hdr, ok := headerColumns(rows[0]); ok {
			cols = hdr
			start = 1
		}
	}

	var marks []models.SubjectMark
	seen := map[string]int{}
	for rowIndex := start; rowIndex < len(rows); rowIndex++ {
		row := rows[rowIndex]
		subject := strings.TrimSpace(cell(row, cols.subject))
		if subject == "" {
			continue
		}
		m, err := parseRowMark(row, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", rowIndex+1, subject, err)
		}
		m.Subject = subject

		key := strings.ToLower(subject)
		if i, dup := seen[key]; dup {
			log.Warn("duplicate subject in marksheet, keeping last", "subject", subject, "row", rowIndex+1)
			marks[i] = m
			continue
		}
		seen[key] = len(marks)
		marks = append(marks, m)
	}

	if len(marks) == 0 {
		return nil, ErrNoMarks
	}
	log.Info("parsed marksheet", "subjects", len(marks))
	return marks, nil
}

type columns struct {
	subject, marks, max int
}

func headerColumns(row []string) (columns, bool) {
	cols := columns{subject: -1, marks: -1, max: -1}
	for i, v := range row {
		h := strings.ToLower(strings.TrimSpace(v))
		switch {
		case h == "":
		case strings.Contains(h, "max") || strings.Contains(h, "out of") || strings.Contains(h, "total"):
			cols.max = i
		case strings.Contains(h, "subject") || strings.Contains(h, "course"):
			cols.subject = i
		case strings.Contains(h, "mark") || strings.Contains(h, "score") || strings.Contains(h, "grade"):
			cols.marks = i
		}
	}
	if cols.subject < 0 || cols.marks < 0 {
		return columns{}, false
	}
	return cols, true
}

func parseRowMark(row []string, cols columns) (models.SubjectMark, error) {
	raw := strings.TrimSpace(cell(row, cols.marks))
	maxRaw := strings.TrimSpace(cell(row, cols.max))

	if a, b, ok := strings.Cut(raw, "/"); ok {
		raw = strings.TrimSpace(a)
		if maxRaw == "" {
			maxRaw = strings.TrimSpace(b)
		}
	}
	raw = strings.TrimSuffix(raw, "%")

	marks, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(marks) {
		return models.SubjectMark{}, fmt.Errorf("invalid marks %q", raw)
	}
	maxMarks := float64(defaultMaxMarks)
	if maxRaw != "" {
		if maxMarks, err = strconv.ParseFloat(maxRaw, 64); err != nil || !finite(maxMarks) {
			return models.SubjectMark{}, fmt.Errorf("invalid max marks %q", maxRaw)
		}
	}
	if maxMarks <= 0 {
		return models.SubjectMark{}, fmt.Errorf("max marks must be positive, got %v", maxMarks)
	}
	if marks < 0 || marks > maxMarks {
		return models.SubjectMark{}, fmt.Errorf("marks %v out of range 0..%v", marks, maxMarks)
	}
	return models.SubjectMark{Marks: marks, MaxMarks: maxMarks}, nil
}

// ParseFloat accepts "NaN" and "Inf", which no range check can reject.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
