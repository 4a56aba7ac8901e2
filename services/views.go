package services

import (
	"time"

	"ieltsprep/models"
)

type AnswerView struct {
	ID           uint    `json:"id"`
	AnswerOption string  `json:"answer_option"`
	AnswerText   string  `json:"answer_text"`
	IsCorrect    *bool   `json:"is_correct"`
	Explanation  *string `json:"explanation"`
}

type QuestionView struct {
	ID             uint         `json:"id"`
	QuestionNumber int          `json:"question_number"`
	QuestionText   string       `json:"question_text"`
	QuestionType   string       `json:"question_type"`
	Passage        *string      `json:"passage"`
	AudioURL       *string      `json:"audio_url"`
	Answers        []AnswerView `json:"answers"`
}

type TestView struct {
	ID              uint           `json:"id"`
	Skill           string         `json:"skill"`
	Level           string         `json:"level"`
	Difficulty      string         `json:"difficulty"`
	Title           string         `json:"title"`
	DurationMinutes int            `json:"duration_minutes"`
	TotalQuestions  int            `json:"total_questions"`
	Questions       []QuestionView `json:"questions"`
	CreatedAt       time.Time      `json:"created_at"`
}

type TestSummary struct {
	ID              uint      `json:"id"`
	Skill           string    `json:"skill"`
	Level           string    `json:"level"`
	Difficulty      string    `json:"difficulty"`
	Title           string    `json:"title"`
	DurationMinutes int       `json:"duration_minutes"`
	TotalQuestions  int       `json:"total_questions"`
	CreatedAt       time.Time `json:"created_at"`
}

type HistoryView struct {
	ID               uint       `json:"id"`
	TestID           uint       `json:"test_id"`
	TestTitle        string     `json:"test_title"`
	Skill            string     `json:"skill"`
	Level            string     `json:"level"`
	Difficulty       string     `json:"difficulty"`
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	Score            *float64   `json:"score"`
	CorrectAnswers   int        `json:"correct_answers"`
	TotalAnswers     int        `json:"total_answers"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
}

type QuestionResultView struct {
	QuestionID     uint   `json:"question_id"`
	QuestionNumber int    `json:"question_number"`
	QuestionText   string `json:"question_text"`
	UserAnswer     string `json:"user_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
	Explanation    string `json:"explanation"`
}

type ResultView struct {
	HistoryID        uint                 `json:"history_id"`
	Score            float64              `json:"score"`
	CorrectAnswers   int                  `json:"correct_answers"`
	TotalQuestions   int                  `json:"total_questions"`
	TimeSpentSeconds int                  `json:"time_spent_seconds"`
	QuestionResults  []QuestionResultView `json:"question_results"`
}

// ToTestView projects a test graph for clients. Unless reveal is set, the
// correctness flag and explanation of every answer are left null.
func ToTestView(test *models.IELTSTest, reveal bool) *TestView {
	view := &TestView{
		ID:              test.ID,
		Skill:           test.Skill,
		Level:           test.Level,
		Difficulty:      test.Difficulty,
		Title:           test.Title,
		DurationMinutes: test.DurationMinutes,
		TotalQuestions:  test.TotalQuestions,
		Questions:       make([]QuestionView, 0, len(test.Questions)),
		CreatedAt:       test.CreatedAt,
	}

	for _, q := range test.Questions {
		qv := QuestionView{
			ID:             q.ID,
			QuestionNumber: q.QuestionNumber,
			QuestionText:   q.QuestionText,
			QuestionType:   q.QuestionType,
			Passage:        q.Passage,
			AudioURL:       q.AudioURL,
			Answers:        make([]AnswerView, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			av := AnswerView{
				ID:           a.ID,
				AnswerOption: a.AnswerOption,
				AnswerText:   a.AnswerText,
			}
			if reveal {
				isCorrect := a.IsCorrect
				av.IsCorrect = &isCorrect
				av.Explanation = a.Explanation
			}
			qv.Answers = append(qv.Answers, av)
		}
		view.Questions = append(view.Questions, qv)
	}

	return view
}

func ToTestSummary(test *models.IELTSTest) TestSummary {
	return TestSummary{
		ID:              test.ID,
		Skill:           test.Skill,
		Level:           test.Level,
		Difficulty:      test.Difficulty,
		Title:           test.Title,
		DurationMinutes: test.DurationMinutes,
		TotalQuestions:  test.TotalQuestions,
		CreatedAt:       test.CreatedAt,
	}
}

// ToHistoryView projects a session. test may be nil when it no longer exists.
func ToHistoryView(history *models.TestHistory, test *models.IELTSTest) *HistoryView {
	view := &HistoryView{
		ID:               history.ID,
		TestID:           history.TestID,
		Status:           history.Status,
		StartedAt:        history.StartedAt,
		CompletedAt:      history.CompletedAt,
		Score:            history.Score,
		CorrectAnswers:   history.CorrectAnswers,
		TotalAnswers:     history.TotalAnswers,
		TimeSpentSeconds: history.TimeSpentSeconds,
	}
	if test != nil {
		view.TestTitle = test.Title
		view.Skill = test.Skill
		view.Level = test.Level
		view.Difficulty = test.Difficulty
	}
	return view
}

func ToResultView(history *models.TestHistory, results []QuestionResultView) *ResultView {
	view := &ResultView{
		HistoryID:        history.ID,
		CorrectAnswers:   history.CorrectAnswers,
		TotalQuestions:   history.TotalAnswers,
		TimeSpentSeconds: history.TimeSpentSeconds,
		QuestionResults:  results,
	}
	if history.Score != nil {
		view.Score = *history.Score
	}
	if view.QuestionResults == nil {
		view.QuestionResults = []QuestionResultView{}
	}
	return view
}

// questionResult builds the review line for one answered question.
func questionResult(q *models.Question, selected *models.Answer, answerText *string, isCorrect bool) QuestionResultView {
	result := QuestionResultView{
		QuestionID:     q.ID,
		QuestionNumber: q.QuestionNumber,
		QuestionText:   q.QuestionText,
		IsCorrect:      isCorrect,
	}
	if selected != nil {
		result.UserAnswer = selected.AnswerOption
	} else if answerText != nil {
		result.UserAnswer = *answerText
	}
	if ref := q.CorrectAnswer(); ref != nil {
		result.CorrectAnswer = ref.AnswerOption
		if ref.Explanation != nil {
			result.Explanation = *ref.Explanation
		}
	}
	return result
}
