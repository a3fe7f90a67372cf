package models

import "time"

// User is an account created through Google login. Guest users have no row here;
// their data is keyed by a "guest_" prefixed id instead.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name"`
	AccessToken  string    `gorm:"not null" json:"-"`
	RefreshToken string    `json:"-"`
	TokenType    string    `json:"-"`
	Expiry       time.Time `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserProfile holds the learning-style questionnaire answers.
type UserProfile struct {
	UserID        string    `gorm:"primaryKey;size:128" json:"user_id"`
	LearningStyle string    `json:"learning_style"`
	StudyTime     string    `json:"study_time"`     // morning | midday | afternoon | evening
	SessionLength string    `json:"session_length"` // short | medium | long | extended
	Environment   string    `json:"environment"`
	Motivation    string    `json:"motivation"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
