package models

import (
	"time"
)

// UserAnswer is the immutable audit record of one submitted answer.
type UserAnswer struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	HistoryID        uint      `json:"history_id" gorm:"not null;uniqueIndex:idx_user_answer_history_question"`
	QuestionID       uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_user_answer_history_question"`
	SelectedAnswerID *uint     `json:"selected_answer_id"`
	AnswerText       *string   `json:"answer_text" gorm:"type:text"`
	IsCorrect        bool      `json:"is_correct" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
}

func (UserAnswer) TableName() string {
	return "ielts_user_answers"
}
