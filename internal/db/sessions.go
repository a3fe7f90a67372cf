package db

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypilot/studypilot-back/internal/models"
)

// ListSessionsFrom returns sessions with plan date >= date ordered by date and start time.
func (s *Store) ListSessionsFrom(ctx context.Context, userID, date string) ([]models.StudySession, error) {
	var sessions []models.StudySession
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND plan_date >= ?", userID, date).
		Order("plan_date ASC, start_time ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *Store) ListAllSessions(ctx context.Context, userID string) ([]models.StudySession, error) {
	var sessions []models.StudySession
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("plan_date ASC, start_time ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func missedQuery(tx *gorm.DB, userID, today string) *gorm.DB {
	return tx.Where("user_id = ? AND plan_date < ? AND is_completed = ?", userID, today, false)
}

// ListMissedSessions returns incomplete sessions dated before today, oldest first.
func (s *Store) ListMissedSessions(ctx context.Context, userID, today string) ([]models.StudySession, error) {
	var sessions []models.StudySession
	if err := missedQuery(s.db.WithContext(ctx), userID, today).
		Order("plan_date ASC, start_time ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListMissedSessionsRecent is ListMissedSessions with the most recent dates first.
func (s *Store) ListMissedSessionsRecent(ctx context.Context, userID, today string) ([]models.StudySession, error) {
	var sessions []models.StudySession
	if err := missedQuery(s.db.WithContext(ctx), userID, today).
		Order("plan_date DESC, start_time ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// UsersWithMissedSessions lists every user id that has at least one missed session.
func (s *Store) UsersWithMissedSessions(ctx context.Context, today string) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.StudySession{}).
		Where("plan_date < ? AND is_completed = ?", today, false).
		Distinct().
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountSessionsPerDay counts sessions per plan date for dates >= fromDate.
func (s *Store) CountSessionsPerDay(ctx context.Context, userID, fromDate string) (map[string]int, error) {
	var rows []struct {
		PlanDate     string
		SessionCount int
	}
	if err := s.db.WithContext(ctx).Model(&models.StudySession{}).
		Select("plan_date, COUNT(*) AS session_count").
		Where("user_id = ? AND plan_date >= ?", userID, fromDate).
		Group("plan_date").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.PlanDate] = r.SessionCount
	}
	return counts, nil
}

func (s *Store) SaveSessions(ctx context.Context, sessions []models.StudySession) error {
	if len(sessions) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&sessions).Error
}

func (s *Store) DeleteSessionsFrom(ctx context.Context, userID, date string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND plan_date >= ?", userID, date).
		Delete(&models.StudySession{})
	return res.RowsAffected, res.Error
}

// ReplaceSessionsFrom deletes every session dated >= fromDate and inserts sessions,
// all inside one transaction.
func (s *Store) ReplaceSessionsFrom(ctx context.Context, userID, fromDate string, sessions []models.StudySession) (int64, error) {
	var deleted int64
	err := s.Transaction(ctx, func(tx *Store) error {
		n, err := tx.DeleteSessionsFrom(ctx, userID, fromDate)
		if err != nil {
			return err
		}
		deleted = n
		return tx.SaveSessions(ctx, sessions)
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (s *Store) SetSessionCompleted(ctx context.Context, userID string, id uuid.UUID, completed bool) error {
	res := s.db.WithContext(ctx).Model(&models.StudySession{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_completed", completed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RescheduleSession moves one session. Nil times keep the stored value.
func (s *Store) RescheduleSession(ctx context.Context, userID string, id uuid.UUID, newDate string, startTime, endTime *string) error {
	updates := map[string]interface{}{"plan_date": newDate}
	if startTime != nil {
		updates["start_time"] = *startTime
	}
	if endTime != nil {
		updates["end_time"] = *endTime
	}
	res := s.db.WithContext(ctx).Model(&models.StudySession{}).
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

// MoveSessions applies every move in one transaction; a missing session aborts the batch.
func (s *Store) MoveSessions(ctx context.Context, userID string, moves []models.SessionMove) error {
	if len(moves) == 0 {
		return nil
	}
	return s.Transaction(ctx, func(tx *Store) error {
		for _, m := range moves {
			if err := tx.RescheduleSession(ctx, userID, m.SessionID, m.PlanDate, nil, nil); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) DeleteSession(ctx context.Context, userID string, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.StudySession{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
