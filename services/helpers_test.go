package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ieltsprep/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is its own database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type fakeGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (g *fakeGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.response, g.err
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type fakeSynthesizer struct {
	mu    sync.Mutex
	fail  bool
	texts []string
}

func (s *fakeSynthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	if s.fail {
		return "", errors.New("tts quota exceeded")
	}
	return fmt.Sprintf("https://audio.example/%d.mp3", len(s.texts)), nil
}

type recordedEvent struct {
	eventType string
	payload   interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) Publish(eventType string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{eventType: eventType, payload: payload})
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.eventType)
	}
	return out
}

// aiDocument renders a well-formed model response with n questions of four
// options each; option B is correct. passage is set on every question when
// not empty.
func aiDocument(t *testing.T, n int, passage string) string {
	t.Helper()

	questions := make([]map[string]interface{}, 0, n)
	for i := 1; i <= n; i++ {
		q := map[string]interface{}{
			"questionNumber": i,
			"questionText":   fmt.Sprintf("Question %d?", i),
			"questionType":   "multiple_choice",
			"answers": []map[string]interface{}{
				{"answerOption": "A", "answerText": "first", "isCorrect": false, "explanation": "wrong"},
				{"answerOption": "B", "answerText": "second", "isCorrect": true, "explanation": fmt.Sprintf("because %d", i)},
				{"answerOption": "C", "answerText": "third", "isCorrect": false},
				{"answerOption": "D", "answerText": "fourth", "isCorrect": false},
			},
		}
		if passage != "" {
			q["passage"] = passage
		}
		questions = append(questions, q)
	}

	data, err := json.Marshal(map[string]interface{}{
		"title":           "IELTS Practice Test",
		"durationMinutes": 60,
		"questions":       questions,
	})
	require.NoError(t, err)
	return string(data)
}

// seedTest generates and stores a Reading test with n questions.
func seedTest(t *testing.T, db *gorm.DB, n int) *models.IELTSTest {
	t.Helper()

	svc := NewTestService(db, TestServiceConfig{
		Generator: &fakeGenerator{response: aiDocument(t, n, "A short passage.")},
	})
	result, err := svc.GenerateTest(context.Background(), 1, &GenerateTestRequest{
		Skill: "Reading", Level: "Academic", Difficulty: "Medium",
	})
	require.NoError(t, err)
	return result.Test
}

func uintPtr(v uint) *uint       { return &v }
func stringPtr(v string) *string { return &v }
