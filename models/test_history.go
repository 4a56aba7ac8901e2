package models

import (
	"time"
)

const (
	HistoryStatusInProgress = "in_progress"
	HistoryStatusCompleted  = "completed"
)

// TestHistory is one user's attempt at one test. It references the user and
// the test by id only.
type TestHistory struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	UserID           uint       `json:"user_id" gorm:"not null;index"`
	TestID           uint       `json:"test_id" gorm:"not null;index"`
	Status           string     `json:"status" gorm:"size:20;not null;default:'in_progress'"` // in_progress, completed
	StartedAt        time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt      *time.Time `json:"completed_at"`
	TotalAnswers     int        `json:"total_answers" gorm:"not null"`
	CorrectAnswers   int        `json:"correct_answers" gorm:"not null;default:0"`
	Score            *float64   `json:"score" gorm:"type:decimal(3,1)"`
	TimeSpentSeconds int        `json:"time_spent_seconds" gorm:"not null;default:0"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (TestHistory) TableName() string {
	return "ielts_test_histories"
}
