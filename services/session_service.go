package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ieltsprep/models"

	"gorm.io/gorm"
)

type SessionService struct {
	db       *gorm.DB
	events   EventPublisher
	notifier Notifier
	now      func() time.Time
}

func NewSessionService(db *gorm.DB, events EventPublisher, notifier Notifier) *SessionService {
	return &SessionService{
		db:       db,
		events:   events,
		notifier: notifier,
		now:      time.Now,
	}
}

// TransitionStatus validates a session status change. The only legal
// transition is in_progress -> completed.
func TransitionStatus(from, to string) error {
	if from == models.HistoryStatusInProgress && to == models.HistoryStatusCompleted {
		return nil
	}
	if from == models.HistoryStatusCompleted {
		return ErrAlreadyCompleted
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidSessionState, from, to)
}

func (s *SessionService) StartSession(ctx context.Context, userID, testID uint) (*HistoryView, error) {
	if userID == 0 {
		return nil, ErrAuthenticationRequired
	}

	var test models.IELTSTest
	if err := s.db.WithContext(ctx).First(&test, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrTestNotFound, testID)
		}
		return nil, err
	}

	history := models.TestHistory{
		UserID:       userID,
		TestID:       test.ID,
		Status:       models.HistoryStatusInProgress,
		StartedAt:    s.now(),
		TotalAnswers: test.TotalQuestions,
	}
	if err := s.db.WithContext(ctx).Create(&history).Error; err != nil {
		return nil, err
	}

	sessionsStarted.WithLabelValues(test.Skill).Inc()
	publishEvent(s.events, EventSessionStarted, map[string]interface{}{
		"history_id": history.ID,
		"user_id":    userID,
		"test_id":    test.ID,
	})

	return ToHistoryView(&history, &test), nil
}

// findHistory loads a session owned by the user. Sessions of other users
// are reported as not found.
func (s *SessionService) findHistory(ctx context.Context, userID, historyID uint) (*models.TestHistory, error) {
	if userID == 0 {
		return nil, ErrAuthenticationRequired
	}

	var history models.TestHistory
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", historyID, userID).First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrHistoryNotFound, historyID)
	}
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func (s *SessionService) ListHistory(ctx context.Context, userID uint) ([]HistoryView, error) {
	if userID == 0 {
		return nil, ErrAuthenticationRequired
	}

	var histories []models.TestHistory
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&histories).Error; err != nil {
		return nil, err
	}

	tests, err := s.testsByID(ctx, histories)
	if err != nil {
		return nil, err
	}

	views := make([]HistoryView, 0, len(histories))
	for i := range histories {
		views = append(views, *ToHistoryView(&histories[i], tests[histories[i].TestID]))
	}
	return views, nil
}

// testsByID loads the tests referenced by sessions, deleted ones included.
func (s *SessionService) testsByID(ctx context.Context, histories []models.TestHistory) (map[uint]*models.IELTSTest, error) {
	ids := make([]uint, 0, len(histories))
	for _, h := range histories {
		ids = append(ids, h.TestID)
	}

	result := make(map[uint]*models.IELTSTest, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var tests []models.IELTSTest
	if err := s.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&tests).Error; err != nil {
		return nil, err
	}
	for i := range tests {
		result[tests[i].ID] = &tests[i]
	}
	return result, nil
}

func (s *SessionService) GetHistory(ctx context.Context, userID, historyID uint) (*HistoryView, error) {
	history, err := s.findHistory(ctx, userID, historyID)
	if err != nil {
		return nil, err
	}

	tests, err := s.testsByID(ctx, []models.TestHistory{*history})
	if err != nil {
		return nil, err
	}
	return ToHistoryView(history, tests[history.TestID]), nil
}

// GetResult rebuilds the review of a completed session from its stored
// answers.
func (s *SessionService) GetResult(ctx context.Context, userID, historyID uint) (*ResultView, error) {
	history, err := s.findHistory(ctx, userID, historyID)
	if err != nil {
		return nil, err
	}
	if history.Status != models.HistoryStatusCompleted {
		return nil, fmt.Errorf("%w: session %d is %s", ErrInvalidSessionState, history.ID, history.Status)
	}

	test, err := loadTest(s.db.WithContext(ctx), history.TestID)
	if err != nil {
		return nil, err
	}
	questions := make(map[uint]*models.Question, len(test.Questions))
	for i := range test.Questions {
		questions[test.Questions[i].ID] = &test.Questions[i]
	}

	var answers []models.UserAnswer
	if err := s.db.WithContext(ctx).Where("history_id = ?", history.ID).Order("id").Find(&answers).Error; err != nil {
		return nil, err
	}

	results := make([]QuestionResultView, 0, len(answers))
	for _, ua := range answers {
		q, ok := questions[ua.QuestionID]
		if !ok {
			log.Printf("Stored answer %d of session %d references missing question %d", ua.ID, history.ID, ua.QuestionID)
			continue
		}
		var selected *models.Answer
		if ua.SelectedAnswerID != nil {
			selected = q.FindAnswer(*ua.SelectedAnswerID)
		}
		results = append(results, questionResult(q, selected, ua.AnswerText, ua.IsCorrect))
	}

	return ToResultView(history, results), nil
}
