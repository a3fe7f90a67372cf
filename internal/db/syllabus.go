package db

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypilot/studypilot-back/internal/models"
)

func (s *Store) ListSyllabus(ctx context.Context, userID string) ([]models.SyllabusTopic, error) {
	var topics []models.SyllabusTopic
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("subject ASC, chapter ASC, topic ASC").
		Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// ReplaceSyllabus drops every stored topic for the user and inserts the given set.
func (s *Store) ReplaceSyllabus(ctx context.Context, userID string, topics []models.SyllabusTopic) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.SyllabusTopic{}).Error; err != nil {
			return err
		}
		if len(topics) == 0 {
			return nil
		}
		for i := range topics {
			topics[i].UserID = userID
		}
		return tx.db.WithContext(ctx).Create(&topics).Error
	})
}

func (s *Store) AddSyllabusTopic(ctx context.Context, t *models.SyllabusTopic) error {
	return s.db.WithContext(ctx).Create(t).Error
}

// ToggleSyllabusTopic flips the completion flag and returns the updated topic.
func (s *Store) ToggleSyllabusTopic(ctx context.Context, userID string, id uuid.UUID) (*models.SyllabusTopic, error) {
	var out models.SyllabusTopic
	err := s.Transaction(ctx, func(tx *Store) error {
		res := tx.db.WithContext(ctx).Model(&models.SyllabusTopic{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_completed", gorm.Expr("NOT is_completed"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) DeleteSyllabusTopic(ctx context.Context, userID string, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.SyllabusTopic{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
