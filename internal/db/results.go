package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studypilot/studypilot-back/internal/models"
)

// LogExamResults stores the results and refreshes the current mark of each subject.
func (s *Store) LogExamResults(ctx context.Context, userID string, results []models.ExamResult) error {
	return s.Transaction(ctx, func(tx *Store) error {
		for i := range results {
			results[i].UserID = userID
			if err := tx.db.WithContext(ctx).Create(&results[i]).Error; err != nil {
				return err
			}
			if err := tx.UpdateMarkScore(ctx, userID, results[i].Subject, results[i].Marks, results[i].MaxMarks); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListExamResults returns results oldest first when ascending, newest first otherwise.
func (s *Store) ListExamResults(ctx context.Context, userID string, ascending bool) ([]models.ExamResult, error) {
	order := "exam_date DESC, subject ASC"
	if ascending {
		order = "exam_date ASC, subject ASC"
	}
	var out []models.ExamResult
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order(order).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteExamResult(ctx context.Context, userID string, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.ExamResult{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type DataSummary struct {
	HasProfile       bool       `json:"profile"`
	SubjectsCount    int64      `json:"subjectsCount"`
	StudyPlansCount  int64      `json:"studyPlansCount"`
	ExamResultsCount int64      `json:"examResultsCount"`
	SyllabusCount    int64      `json:"syllabusTopicsCount"`
	AccountCreated   *time.Time `json:"accountCreated"`
}

func (s *Store) DataSummary(ctx context.Context, userID string) (*DataSummary, error) {
	out := &DataSummary{}
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		out.HasProfile = true
		created := profile.CreatedAt
		out.AccountCreated = &created
	}
	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.SubjectMark{}, &out.SubjectsCount},
		{&models.StudySession{}, &out.StudyPlansCount},
		{&models.ExamResult{}, &out.ExamResultsCount},
		{&models.SyllabusTopic{}, &out.SyllabusCount},
	}
	for _, c := range counts {
		if err := s.db.WithContext(ctx).Model(c.model).Where("user_id = ?", userID).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DeleteUserData wipes everything keyed by the user id.
func (s *Store) DeleteUserData(ctx context.Context, userID string) error {
	return s.Transaction(ctx, func(tx *Store) error {
		for _, m := range []interface{}{
			&models.ExamResult{},
			&models.SyllabusTopic{},
			&models.StudySession{},
			&models.ExamScheduleEntry{},
			&models.SubjectMark{},
			&models.UserProfile{},
		} {
			if err := tx.db.WithContext(ctx).Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// guestActivity yields one (user_id, last_seen) row per table a guest can write to.
const guestActivity = `
SELECT user_id, MAX(updated_at) AS last_seen FROM subject_marks GROUP BY user_id
UNION ALL SELECT user_id, MAX(updated_at) FROM user_profiles GROUP BY user_id
UNION ALL SELECT user_id, MAX(updated_at) FROM study_sessions GROUP BY user_id
UNION ALL SELECT user_id, MAX(updated_at) FROM exam_schedule_entries GROUP BY user_id
UNION ALL SELECT user_id, MAX(created_at) FROM exam_results GROUP BY user_id
UNION ALL SELECT user_id, MAX(updated_at) FROM syllabus_topics GROUP BY user_id`

// StaleGuestIDs returns guest ids whose newest write in any table is older than cutoff.
func (s *Store) StaleGuestIDs(ctx context.Context, cutoff time.Time) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Raw(
		"SELECT user_id FROM ("+guestActivity+") activity"+
			" WHERE user_id LIKE ? ESCAPE '\\'"+
			" GROUP BY user_id HAVING MAX(last_seen) < ? ORDER BY user_id",
		"guest\\_%", cutoff,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
