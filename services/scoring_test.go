package services

import (
	"testing"

	"ieltsprep/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandScore(t *testing.T) {
	cases := []struct {
		percentage float64
		band       float64
	}{
		{1.0, 9.0},
		{0.90, 9.0},
		{0.899999, 8.5},
		{0.82, 8.5},
		{0.75, 8.0},
		{11.0 / 15.0, 7.5},
		{0.67, 7.5},
		{0.60, 7.0},
		{0.52, 6.5},
		{0.45, 6.0},
		{0.37, 5.5},
		{0.30, 5.0},
		{0.22, 4.5},
		{0.219999, 4.0},
		{0, 4.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.band, BandScore(tc.percentage), "percentage %v", tc.percentage)
	}
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 7.5, roundHalfUp(7.45, 1))
	assert.Equal(t, 7.4, roundHalfUp(7.44, 1))
	assert.Equal(t, 9.0, roundHalfUp(9.0, 1))
}

func gradingFixture() *models.IELTSTest {
	explanation := "B is right"
	return &models.IELTSTest{
		ID: 7,
		Questions: []models.Question{
			{ID: 1, QuestionNumber: 1, QuestionText: "Q1", Answers: []models.Answer{
				{ID: 10, AnswerOption: "A"},
				{ID: 11, AnswerOption: "B", IsCorrect: true, Explanation: &explanation},
			}},
			{ID: 2, QuestionNumber: 2, QuestionText: "Q2", Answers: []models.Answer{
				{ID: 20, AnswerOption: "A", IsCorrect: true},
				{ID: 21, AnswerOption: "B"},
			}},
		},
	}
}

func TestGradeAnswers(t *testing.T) {
	graded, err := gradeAnswers(gradingFixture(), 3, []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswerID: uintPtr(11)},
		{QuestionID: 2, AnswerText: stringPtr("free text")},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, graded.correct)
	require.Len(t, graded.userAnswers, 2)
	assert.Equal(t, uint(3), graded.userAnswers[0].HistoryID)
	assert.True(t, graded.userAnswers[0].IsCorrect)
	assert.False(t, graded.userAnswers[1].IsCorrect)

	require.Len(t, graded.results, 2)
	assert.Equal(t, "B", graded.results[0].UserAnswer)
	assert.Equal(t, "B", graded.results[0].CorrectAnswer)
	assert.Equal(t, "B is right", graded.results[0].Explanation)
	assert.Equal(t, "free text", graded.results[1].UserAnswer)
	assert.Equal(t, "A", graded.results[1].CorrectAnswer)
	assert.Empty(t, graded.results[1].Explanation)
}

func TestGradeAnswersRejectsInvalidSubmissions(t *testing.T) {
	_, err := gradeAnswers(gradingFixture(), 3, []SubmittedAnswer{{QuestionID: 99}})
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	_, err = gradeAnswers(gradingFixture(), 3, []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswerID: uintPtr(10)},
		{QuestionID: 1, SelectedAnswerID: uintPtr(11)},
	})
	assert.ErrorIs(t, err, ErrDuplicateAnswer)

	// An option of another question is not an option of this one.
	_, err = gradeAnswers(gradingFixture(), 3, []SubmittedAnswer{{QuestionID: 1, SelectedAnswerID: uintPtr(20)}})
	assert.ErrorIs(t, err, ErrAnswerNotFound)
}

func TestTransitionStatus(t *testing.T) {
	assert.NoError(t, TransitionStatus(models.HistoryStatusInProgress, models.HistoryStatusCompleted))
	assert.ErrorIs(t, TransitionStatus(models.HistoryStatusCompleted, models.HistoryStatusCompleted), ErrAlreadyCompleted)
	assert.ErrorIs(t, TransitionStatus(models.HistoryStatusCompleted, models.HistoryStatusInProgress), ErrInvalidSessionState)
	assert.ErrorIs(t, TransitionStatus(models.HistoryStatusInProgress, models.HistoryStatusInProgress), ErrInvalidSessionState)
}
