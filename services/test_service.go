package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ieltsprep/models"

	"gorm.io/gorm"
)

type TestService struct {
	db          *gorm.DB
	generator   TextGenerator
	synthesizer Synthesizer
	policy      SynthesisPolicy
	cache       *TestCache
	events      EventPublisher
	notifier    Notifier
}

// TestServiceConfig holds the collaborators of a TestService. Cache, Events
// and Notifier are optional.
type TestServiceConfig struct {
	Generator   TextGenerator
	Synthesizer Synthesizer
	Policy      SynthesisPolicy
	Cache       *TestCache
	Events      EventPublisher
	Notifier    Notifier
}

func NewTestService(db *gorm.DB, cfg TestServiceConfig) *TestService {
	policy := cfg.Policy
	if policy == "" {
		policy = SynthesisDegrade
	}
	return &TestService{
		db:          db,
		generator:   cfg.Generator,
		synthesizer: cfg.Synthesizer,
		policy:      policy,
		cache:       cfg.Cache,
		events:      cfg.Events,
		notifier:    cfg.Notifier,
	}
}

type GenerateTestRequest struct {
	Skill      string `json:"skill" binding:"required"`
	Level      string `json:"level" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
}

// GenerationResult is the internal outcome of a generation. View reveals
// correct answers and explanations.
type GenerationResult struct {
	Test              *models.IELTSTest
	View              *TestView
	SynthesisFailures []SynthesisFailure
}

func (r *GenerateTestRequest) normalize() error {
	skill, ok := models.NormalizeSkill(r.Skill)
	if !ok {
		return fmt.Errorf("%w: unknown skill %q", ErrInvalidRequest, r.Skill)
	}
	r.Skill = skill
	r.Level = strings.TrimSpace(r.Level)
	r.Difficulty = strings.TrimSpace(r.Difficulty)
	if r.Level == "" || r.Difficulty == "" {
		return fmt.Errorf("%w: level and difficulty are required", ErrInvalidRequest)
	}
	return nil
}

func (s *TestService) GenerateTest(ctx context.Context, userID uint, req *GenerateTestRequest) (*GenerationResult, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	start := time.Now()
	outcome := "error"
	defer func() {
		testsGenerated.WithLabelValues(req.Skill, outcome).Inc()
		generationDuration.WithLabelValues(req.Skill).Observe(time.Since(start).Seconds())
	}()

	raw, err := s.generator.Complete(ctx, BuildPrompt(req))
	if err != nil {
		outcome = "ai_error"
		log.Printf("Error generating %s test with AI: %v", req.Skill, err)
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	test, err := ParseTest(raw, req)
	if err != nil {
		outcome = "malformed"
		log.Printf("Rejected AI response for %s test: %v", req.Skill, err)
		return nil, err
	}

	failures, err := enrichTest(ctx, test, s.synthesizer, s.policy)
	if err != nil {
		outcome = "synthesis_error"
		return nil, err
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createTestGraph(tx, test)
	}); err != nil {
		return nil, fmt.Errorf("failed to save test: %w", err)
	}
	outcome = "success"

	log.Printf("Generated %s test %d (%s) with %d questions, %d synthesis failures",
		test.Skill, test.ID, test.Title, test.TotalQuestions, len(failures))

	if err := s.cache.Set(ctx, ToTestView(test, false)); err != nil {
		log.Printf("Failed to cache test %d: %v", test.ID, err)
	}
	event := map[string]interface{}{
		"test_id":            test.ID,
		"user_id":            userID,
		"skill":              test.Skill,
		"level":              test.Level,
		"difficulty":         test.Difficulty,
		"total_questions":    test.TotalQuestions,
		"synthesis_failures": len(failures),
	}
	publishEvent(s.events, EventTestGenerated, event)
	if s.notifier != nil {
		s.notifier.NotifyUser(userID, "test_generated", event)
	}

	return &GenerationResult{
		Test:              test,
		View:              ToTestView(test, true),
		SynthesisFailures: failures,
	}, nil
}

// createTestGraph inserts a test with its questions and answers. It must run
// inside a transaction.
func createTestGraph(tx *gorm.DB, test *models.IELTSTest) error {
	if err := tx.Omit("Questions").Create(test).Error; err != nil {
		return err
	}

	for i := range test.Questions {
		question := &test.Questions[i]
		question.TestID = test.ID
		if err := tx.Omit("Answers").Create(question).Error; err != nil {
			return err
		}

		if len(question.Answers) == 0 {
			continue
		}
		for j := range question.Answers {
			question.Answers[j].QuestionID = question.ID
		}
		if err := tx.Create(&question.Answers).Error; err != nil {
			return err
		}
	}

	return nil
}

// loadTest fetches a test with its questions by number and answers by
// position.
func loadTest(db *gorm.DB, testID uint) (*models.IELTSTest, error) {
	var test models.IELTSTest
	err := db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_number")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		First(&test, testID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &test, nil
}

// GetTest returns the client view of a test, answers redacted.
func (s *TestService) GetTest(ctx context.Context, testID uint) (*TestView, error) {
	if view := s.cache.Get(ctx, testID); view != nil {
		return view, nil
	}

	test, err := loadTest(s.db.WithContext(ctx), testID)
	if err != nil {
		return nil, err
	}

	view := ToTestView(test, false)
	if err := s.cache.Set(ctx, view); err != nil {
		log.Printf("Failed to cache test %d: %v", testID, err)
	}
	return view, nil
}

func (s *TestService) ListTests(ctx context.Context, skill string) ([]TestSummary, error) {
	query := s.db.WithContext(ctx).Model(&models.IELTSTest{})
	if skill != "" {
		normalized, ok := models.NormalizeSkill(skill)
		if !ok {
			return nil, fmt.Errorf("%w: unknown skill %q", ErrInvalidRequest, skill)
		}
		query = query.Where("skill = ?", normalized)
	}

	var tests []models.IELTSTest
	if err := query.Order("created_at DESC").Order("id DESC").Find(&tests).Error; err != nil {
		return nil, err
	}

	summaries := make([]TestSummary, 0, len(tests))
	for i := range tests {
		summaries = append(summaries, ToTestSummary(&tests[i]))
	}
	return summaries, nil
}

// DeleteTest removes a test with its questions and answers. Sessions that
// reference the test are kept.
func (s *TestService) DeleteTest(ctx context.Context, testID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var test models.IELTSTest
		if err := tx.First(&test, testID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTestNotFound
			}
			return err
		}

		questionIDs := tx.Model(&models.Question{}).Select("id").Where("test_id = ?", testID)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", testID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&test).Error
	})
	if err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, testID); err != nil {
		log.Printf("Failed to evict cached test %d: %v", testID, err)
	}
	publishEvent(s.events, EventTestDeleted, map[string]interface{}{"test_id": testID})
	return nil
}
