package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedAIResponse    = errors.New("malformed AI response")
	ErrAIUnavailable          = errors.New("AI text generator unavailable")
	ErrSynthesisFailure       = errors.New("speech synthesis failed")
	ErrInvalidRequest         = errors.New("invalid request")
	ErrTestNotFound           = errors.New("test not found")
	ErrQuestionNotFound       = errors.New("question not found")
	ErrAnswerNotFound         = errors.New("answer not found")
	ErrHistoryNotFound        = errors.New("test history not found")
	ErrAlreadyCompleted       = fmt.Errorf("%w: test is already completed", ErrInvalidSessionState)
	ErrInvalidSessionState    = errors.New("invalid session state")
	ErrDuplicateAnswer        = errors.New("question answered more than once")
	ErrAuthenticationRequired = errors.New("user not authenticated")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrEmailTaken             = errors.New("email already registered")
)

// MalformedResponseError lists every problem found in an AI payload.
type MalformedResponseError struct {
	Problems []string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedAIResponse, strings.Join(e.Problems, "; "))
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedAIResponse
}

// SynthesisError is a failed audio synthesis for a single question.
type SynthesisError struct {
	QuestionNumber int
	Err            error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("question %d: %s: %v", e.QuestionNumber, ErrSynthesisFailure, e.Err)
}

func (e *SynthesisError) Is(target error) bool {
	return target == ErrSynthesisFailure
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}
