package models

import (
	"time"

	"gorm.io/gorm"
)

type Answer struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	QuestionID   uint           `json:"question_id" gorm:"not null;index"`
	AnswerOption string         `json:"answer_option" gorm:"size:5;not null"`
	AnswerText   string         `json:"answer_text" gorm:"type:text;not null"`
	IsCorrect    bool           `json:"is_correct" gorm:"not null;default:false"`
	Explanation  *string        `json:"explanation" gorm:"type:text"`
	Position     int            `json:"position" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Answer) TableName() string {
	return "ielts_answers"
}
