package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"ieltsprep/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

const codeFence = "```"

// aiTestPayload is the document shape the generation prompt asks for.
// Pointer fields distinguish "absent" from zero values.
type aiTestPayload struct {
	Title           *string             `json:"title" validate:"required,notblank"`
	DurationMinutes *int                `json:"durationMinutes" validate:"required,min=1"`
	Questions       []aiQuestionPayload `json:"questions" validate:"required,min=1,dive"`
}

type aiQuestionPayload struct {
	QuestionNumber *int              `json:"questionNumber" validate:"required,min=1"`
	QuestionText   *string           `json:"questionText" validate:"required,notblank"`
	QuestionType   *string           `json:"questionType"`
	Passage        *string           `json:"passage"`
	Answers        []aiAnswerPayload `json:"answers" validate:"required,min=1,dive"`
}

type aiAnswerPayload struct {
	AnswerOption *string `json:"answerOption" validate:"required,notblank"`
	AnswerText   *string `json:"answerText" validate:"required,notblank"`
	IsCorrect    *bool   `json:"isCorrect" validate:"required"`
	Explanation  *string `json:"explanation"`
}

var payloadValidator = newPayloadValidator()

func newPayloadValidator() *validator.Validate {
	v := validator.New()
	// Report problems using the JSON field names the model produced.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// StripCodeFence removes a markdown code-fence wrapper (with an optional
// language tag) around a model response. It is applied until the text stops
// changing, so calling it on its own output is a no-op.
func StripCodeFence(text string) string {
	for {
		next := stripCodeFenceOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func stripCodeFenceOnce(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, codeFence) {
		text = strings.TrimLeft(text[len(codeFence):], " \t")
		// Drop the language tag, e.g. ```json
		end := 0
		for end < len(text) && isFenceTagChar(text[end]) {
			end++
		}
		text = text[end:]
	}
	if strings.HasSuffix(text, codeFence) {
		text = text[:len(text)-len(codeFence)]
	}
	return strings.TrimSpace(text)
}

func isFenceTagChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_' || c == '+'
}

// ParseTest turns a raw model response into an unsaved test graph. The
// returned test is either complete or nil; every schema problem found is
// reported in a *MalformedResponseError.
func ParseTest(raw string, req *GenerateTestRequest) (*models.IELTSTest, error) {
	cleaned := StripCodeFence(raw)
	if cleaned == "" {
		return nil, &MalformedResponseError{Problems: []string{"response is empty"}}
	}

	var payload aiTestPayload
	var problems []string
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, &MalformedResponseError{Problems: []string{"invalid JSON: " + err.Error()}}
		}
		// Type mismatches still leave the rest of the document decoded.
		problems = append(problems, fmt.Sprintf("%s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value))
	}

	problems = append(problems, validatePayload(&payload)...)
	if len(problems) > 0 {
		return nil, &MalformedResponseError{Problems: problems}
	}

	return buildTest(&payload, req, cleaned), nil
}

func validatePayload(payload *aiTestPayload) []string {
	var problems []string

	if err := payloadValidator.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []string{err.Error()}
		}
		for _, fe := range verrs {
			problems = append(problems, describeFieldError(fe))
		}
	}

	seen := make(map[int]bool)
	for i, q := range payload.Questions {
		if q.QuestionNumber != nil {
			if seen[*q.QuestionNumber] {
				problems = append(problems, fmt.Sprintf("questions[%d].questionNumber: duplicate number %d", i, *q.QuestionNumber))
			}
			seen[*q.QuestionNumber] = true
		}
		if q.QuestionType != nil && *q.QuestionType != "" && !isKnownQuestionType(*q.QuestionType) {
			problems = append(problems, fmt.Sprintf("questions[%d].questionType: unknown type %q", i, *q.QuestionType))
		}
	}

	return problems
}

func describeFieldError(fe validator.FieldError) string {
	path := fe.Namespace()
	// Drop the root struct name.
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return path + ": required"
	case "notblank":
		return path + ": must not be blank"
	case "min":
		return fmt.Sprintf("%s: must be at least %s", path, fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s", path, fe.Tag())
	}
}

func isKnownQuestionType(t string) bool {
	switch t {
	case models.QuestionTypeMultipleChoice, models.QuestionTypeTrueFalse, models.QuestionTypeFillBlank:
		return true
	}
	return false
}

func buildTest(payload *aiTestPayload, req *GenerateTestRequest, cleaned string) *models.IELTSTest {
	test := &models.IELTSTest{
		Skill:           req.Skill,
		Level:           req.Level,
		Difficulty:      req.Difficulty,
		Title:           strings.TrimSpace(*payload.Title),
		DurationMinutes: *payload.DurationMinutes,
		TotalQuestions:  len(payload.Questions),
		RawPayload:      datatypes.JSON(cleaned),
		Questions:       make([]models.Question, 0, len(payload.Questions)),
	}

	for _, qp := range payload.Questions {
		question := models.Question{
			QuestionNumber: *qp.QuestionNumber,
			QuestionText:   *qp.QuestionText,
			QuestionType:   models.QuestionTypeMultipleChoice,
			Answers:        make([]models.Answer, 0, len(qp.Answers)),
		}
		if qp.QuestionType != nil && *qp.QuestionType != "" {
			question.QuestionType = *qp.QuestionType
		}
		if qp.Passage != nil && strings.TrimSpace(*qp.Passage) != "" {
			passage := *qp.Passage
			question.Passage = &passage
		}

		correct := 0
		for i, ap := range qp.Answers {
			answer := models.Answer{
				AnswerOption: strings.TrimSpace(*ap.AnswerOption),
				AnswerText:   *ap.AnswerText,
				IsCorrect:    *ap.IsCorrect,
				Explanation:  ap.Explanation,
				Position:     i + 1,
			}
			if answer.IsCorrect {
				correct++
			}
			question.Answers = append(question.Answers, answer)
		}
		if correct != 1 {
			log.Printf("Question %d has %d correct answers, expected exactly one", question.QuestionNumber, correct)
		}

		test.Questions = append(test.Questions, question)
	}

	return test
}
