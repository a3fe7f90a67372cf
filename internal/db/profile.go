package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studypilot/studypilot-back/internal/models"
)

// GetProfile returns nil without error when the user never completed onboarding.
func (s *Store) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpsertProfile(ctx context.Context, p models.UserProfile) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"learning_style", "study_time", "session_length", "environment", "motivation", "updated_at",
		}),
	}).Create(&p).Error
}

func (s *Store) ListMarks(ctx context.Context, userID string) ([]models.SubjectMark, error) {
	var marks []models.SubjectMark
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&marks).Error; err != nil {
		return nil, err
	}
	return marks, nil
}

// ReplaceMarks drops every stored mark for the user and inserts the given set.
func (s *Store) ReplaceMarks(ctx context.Context, userID string, marks []models.SubjectMark) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.SubjectMark{}).Error; err != nil {
			return err
		}
		if len(marks) == 0 {
			return nil
		}
		rows := make([]models.SubjectMark, len(marks))
		for i, m := range marks {
			rows[i] = models.SubjectMark{UserID: userID, Subject: m.Subject, Marks: m.Marks, MaxMarks: m.MaxMarks}
		}
		return tx.db.WithContext(ctx).Create(&rows).Error
	})
}

// UpdateMarkScore sets the current score of an existing subject. Unknown subjects are left alone.
func (s *Store) UpdateMarkScore(ctx context.Context, userID, subject string, marks, maxMarks float64) error {
	return s.db.WithContext(ctx).Model(&models.SubjectMark{}).
		Where("user_id = ? AND subject = ?", userID, subject).
		Updates(map[string]interface{}{"marks": marks, "max_marks": maxMarks}).Error
}
