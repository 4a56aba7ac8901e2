package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"ieltsprep/models"

	"gorm.io/gorm"
)

type SubmittedAnswer struct {
	QuestionID       uint    `json:"question_id" binding:"required"`
	SelectedAnswerID *uint   `json:"selected_answer_id"`
	AnswerText       *string `json:"answer_text"`
}

type SubmitTestRequest struct {
	Answers          []SubmittedAnswer `json:"answers" binding:"dive"`
	TimeSpentSeconds int               `json:"time_spent_seconds" binding:"min=0"`
}

// bandThresholds maps the share of correct answers to a band, highest first.
var bandThresholds = []struct {
	min  float64
	band float64
}{
	{0.90, 9.0},
	{0.82, 8.5},
	{0.75, 8.0},
	{0.67, 7.5},
	{0.60, 7.0},
	{0.52, 6.5},
	{0.45, 6.0},
	{0.37, 5.5},
	{0.30, 5.0},
	{0.22, 4.5},
}

const minimumBand = 4.0

// BandScore converts a fraction of correct answers into an IELTS band,
// rounded half-up to one decimal.
func BandScore(percentage float64) float64 {
	band := minimumBand
	for _, t := range bandThresholds {
		if percentage >= t.min {
			band = t.band
			break
		}
	}
	return roundHalfUp(band, 1)
}

func roundHalfUp(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Floor(v*scale+0.5) / scale
}

type gradedSubmission struct {
	userAnswers []models.UserAnswer
	results     []QuestionResultView
	correct     int
}

// gradeAnswers checks a batch of answers against the test. Correctness comes
// from the selected answer's flag; free text is recorded but never correct.
func gradeAnswers(test *models.IELTSTest, historyID uint, submitted []SubmittedAnswer) (*gradedSubmission, error) {
	questions := make(map[uint]*models.Question, len(test.Questions))
	for i := range test.Questions {
		questions[test.Questions[i].ID] = &test.Questions[i]
	}

	graded := &gradedSubmission{
		userAnswers: make([]models.UserAnswer, 0, len(submitted)),
		results:     make([]QuestionResultView, 0, len(submitted)),
	}
	seen := make(map[uint]bool, len(submitted))

	for _, sub := range submitted {
		question, ok := questions[sub.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: %d is not part of test %d", ErrQuestionNotFound, sub.QuestionID, test.ID)
		}
		if seen[sub.QuestionID] {
			return nil, fmt.Errorf("%w: question %d", ErrDuplicateAnswer, sub.QuestionID)
		}
		seen[sub.QuestionID] = true

		var selected *models.Answer
		isCorrect := false
		if sub.SelectedAnswerID != nil {
			selected = question.FindAnswer(*sub.SelectedAnswerID)
			if selected == nil {
				return nil, fmt.Errorf("%w: %d is not an option of question %d", ErrAnswerNotFound, *sub.SelectedAnswerID, question.ID)
			}
			isCorrect = selected.IsCorrect
		}
		if isCorrect {
			graded.correct++
		}

		graded.userAnswers = append(graded.userAnswers, models.UserAnswer{
			HistoryID:        historyID,
			QuestionID:       question.ID,
			SelectedAnswerID: sub.SelectedAnswerID,
			AnswerText:       sub.AnswerText,
			IsCorrect:        isCorrect,
		})
		graded.results = append(graded.results, questionResult(question, selected, sub.AnswerText, isCorrect))
	}

	return graded, nil
}

// SubmitSession scores a session and completes it. Answers and the session
// update are written in one transaction, guarded by a status compare-and-set
// so a session is scored at most once.
func (s *SessionService) SubmitSession(ctx context.Context, userID, historyID uint, req *SubmitTestRequest) (*ResultView, error) {
	outcome := "error"
	defer func() {
		submissions.WithLabelValues(outcome).Inc()
	}()

	if req.TimeSpentSeconds < 0 {
		outcome = "invalid"
		return nil, fmt.Errorf("%w: time spent must not be negative", ErrInvalidRequest)
	}

	history, err := s.findHistory(ctx, userID, historyID)
	if err != nil {
		return nil, err
	}
	if err := TransitionStatus(history.Status, models.HistoryStatusCompleted); err != nil {
		outcome = "rejected"
		return nil, err
	}

	test, err := loadTest(s.db.WithContext(ctx), history.TestID)
	if err != nil {
		return nil, err
	}

	graded, err := gradeAnswers(test, history.ID, req.Answers)
	if err != nil {
		outcome = "invalid"
		return nil, err
	}

	percentage := 0.0
	if history.TotalAnswers > 0 {
		percentage = float64(graded.correct) / float64(history.TotalAnswers)
	}
	score := BandScore(percentage)
	completedAt := s.now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.TestHistory{}).
			Where("id = ? AND status = ?", history.ID, models.HistoryStatusInProgress).
			Updates(map[string]interface{}{
				"correct_answers":    graded.correct,
				"score":              score,
				"status":             models.HistoryStatusCompleted,
				"completed_at":       completedAt,
				"time_spent_seconds": req.TimeSpentSeconds,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCompleted
		}

		if len(graded.userAnswers) > 0 {
			if err := tx.Create(&graded.userAnswers).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyCompleted) {
			outcome = "rejected"
		}
		return nil, err
	}
	outcome = "success"

	history.CorrectAnswers = graded.correct
	history.Score = &score
	history.Status = models.HistoryStatusCompleted
	history.CompletedAt = &completedAt
	history.TimeSpentSeconds = req.TimeSpentSeconds

	bandScores.Observe(score)
	log.Printf("Session %d of user %d completed: %d/%d correct, band %.1f",
		history.ID, userID, graded.correct, history.TotalAnswers, score)

	event := map[string]interface{}{
		"history_id":      history.ID,
		"user_id":         userID,
		"test_id":         history.TestID,
		"score":           score,
		"correct_answers": graded.correct,
		"total_answers":   history.TotalAnswers,
	}
	publishEvent(s.events, EventSessionCompleted, event)
	if s.notifier != nil {
		s.notifier.NotifyUser(userID, "session_completed", event)
	}

	return ToResultView(history, graded.results), nil
}
