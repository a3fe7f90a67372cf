package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

type SubjectMark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:128;not null;uniqueIndex:idx_subject_marks_user_subject" json:"-"`
	Subject   string    `gorm:"not null;uniqueIndex:idx_subject_marks_user_subject" json:"subject"`
	Marks     float64   `gorm:"not null" json:"marks"`
	MaxMarks  float64   `gorm:"not null" json:"maxMarks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ExamScheduleEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"size:128;not null;index" json:"-"`
	Subject   string    `gorm:"not null" json:"subject"`
	ExamDate  string    `gorm:"size:10;not null;index" json:"examDate"`
	ExamName  *string   `json:"examName,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *ExamScheduleEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type StudySession struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string    `gorm:"size:128;not null;index:idx_study_sessions_user_date" json:"-"`
	PlanDate        string    `gorm:"size:10;not null;index:idx_study_sessions_user_date" json:"planDate"`
	Subject         string    `gorm:"not null" json:"subject"`
	StartTime       string    `gorm:"size:5" json:"startTime"`
	EndTime         string    `gorm:"size:5" json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Priority        string    `gorm:"size:8" json:"priority"`
	IsCompleted     bool      `gorm:"not null;default:false" json:"isCompleted"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (s *StudySession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Missed reports whether the session is in the past and still incomplete.
func (s StudySession) Missed(today string) bool {
	return s.PlanDate < today && !s.IsCompleted
}

type ExamResult struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"size:128;not null;index" json:"-"`
	ExamName  string    `gorm:"not null" json:"examName"`
	ExamDate  string    `gorm:"size:10;not null" json:"examDate"`
	Subject   string    `gorm:"not null" json:"subject"`
	Marks     float64   `json:"marks"`
	MaxMarks  float64   `json:"maxMarks"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *ExamResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// SessionMove relocates one session to a new plan date.
type SessionMove struct {
	SessionID uuid.UUID
	PlanDate  string
}

// SyllabusTopic is one checklist entry of a subject's syllabus.
type SyllabusTopic struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"size:128;not null;index" json:"-"`
	Subject     string    `gorm:"not null" json:"subject"`
	Chapter     *string   `json:"chapter"`
	Topic       string    `gorm:"not null" json:"topic"`
	Priority    string    `gorm:"size:8;not null;default:medium" json:"priority"`
	IsCompleted bool      `gorm:"not null;default:false" json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t *SyllabusTopic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
