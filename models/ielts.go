package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SkillReading   = "Reading"
	SkillListening = "Listening"
	SkillWriting   = "Writing"
	SkillSpeaking  = "Speaking"
)

// Skills lists the supported IELTS skills in display order.
var Skills = []string{SkillReading, SkillListening, SkillWriting, SkillSpeaking}

// NormalizeSkill maps any casing of a skill name to its canonical form.
// The second return value is false for unknown skills.
func NormalizeSkill(skill string) (string, bool) {
	for _, s := range Skills {
		if strings.EqualFold(strings.TrimSpace(skill), s) {
			return s, true
		}
	}
	return "", false
}

type IELTSTest struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Skill           string         `json:"skill" gorm:"size:20;not null;index"`
	Level           string         `json:"level" gorm:"size:50;not null"`
	Difficulty      string         `json:"difficulty" gorm:"size:20;not null"`
	Title           string         `json:"title" gorm:"not null"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null"`
	TotalQuestions  int            `json:"total_questions" gorm:"not null"`
	RawPayload      datatypes.JSON `json:"-"` // cleaned AI document, kept for audit
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE"`
}

func (IELTSTest) TableName() string {
	return "ielts_tests"
}
