package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeFillBlank      = "fill_blank"
)

type Question struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	TestID         uint           `json:"test_id" gorm:"not null;uniqueIndex:idx_question_test_number"`
	QuestionNumber int            `json:"question_number" gorm:"not null;uniqueIndex:idx_question_test_number"`
	QuestionText   string         `json:"question_text" gorm:"type:text;not null"`
	QuestionType   string         `json:"question_type" gorm:"size:50;not null;default:'multiple_choice'"`
	Passage        *string        `json:"passage" gorm:"type:text"`
	AudioURL       *string        `json:"audio_url" gorm:"type:text"`
	AudioError     *string        `json:"audio_error,omitempty" gorm:"type:text"` // set when synthesis failed
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string {
	return "ielts_questions"
}

// CorrectAnswer returns the reference answer, or nil when none is flagged.
func (q *Question) CorrectAnswer() *Answer {
	for i := range q.Answers {
		if q.Answers[i].IsCorrect {
			return &q.Answers[i]
		}
	}
	return nil
}

// FindAnswer looks up one of the question's own answers by id.
func (q *Question) FindAnswer(id uint) *Answer {
	for i := range q.Answers {
		if q.Answers[i].ID == id {
			return &q.Answers[i]
		}
	}
	return nil
}
