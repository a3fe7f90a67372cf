package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/studypilot/studypilot-back/internal/models"
)

func (s *Store) ListExams(ctx context.Context, userID string) ([]models.ExamScheduleEntry, error) {
	var exams []models.ExamScheduleEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("exam_date ASC").
		Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

// ListExamsFrom returns exams on or after date, soonest first.
func (s *Store) ListExamsFrom(ctx context.Context, userID, date string) ([]models.ExamScheduleEntry, error) {
	var exams []models.ExamScheduleEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND exam_date >= ?", userID, date).
		Order("exam_date ASC").
		Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

func (s *Store) CreateExam(ctx context.Context, e *models.ExamScheduleEntry) error {
	return s.db.WithContext(ctx).Create(e).Error
}

// ExamUpdate carries the fields of a partial update; nil leaves the column unchanged.
type ExamUpdate struct {
	Subject  *string
	ExamDate *string
	ExamName *string
	Notes    *string
}

func (s *Store) UpdateExam(ctx context.Context, userID string, id uuid.UUID, u ExamUpdate) error {
	updates := map[string]interface{}{}
	if u.Subject != nil {
		updates["subject"] = *u.Subject
	}
	if u.ExamDate != nil {
		updates["exam_date"] = *u.ExamDate
	}
	if u.ExamName != nil {
		updates["exam_name"] = *u.ExamName
	}
	if u.Notes != nil {
		updates["notes"] = *u.Notes
	}

	if len(updates) == 0 {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.ExamScheduleEntry{}).
			Where("id = ? AND user_id = ?", id, userID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	}

	res := s.db.WithContext(ctx).Model(&models.ExamScheduleEntry{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteExam(ctx context.Context, userID string, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.ExamScheduleEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
