package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"ieltsprep/models"
)

// SynthesisPolicy decides what a failed audio synthesis does to a generation.
type SynthesisPolicy string

const (
	// SynthesisDegrade records the failure on the question and keeps the test.
	SynthesisDegrade SynthesisPolicy = "degrade"
	// SynthesisAbort fails the whole generation on the first failure.
	SynthesisAbort SynthesisPolicy = "abort"
)

func ParseSynthesisPolicy(value string) (SynthesisPolicy, error) {
	switch SynthesisPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case SynthesisDegrade, "":
		return SynthesisDegrade, nil
	case SynthesisAbort:
		return SynthesisAbort, nil
	}
	return "", fmt.Errorf("unknown audio failure policy %q", value)
}

// SynthesisFailure is a recorded, tolerated synthesis error.
type SynthesisFailure struct {
	QuestionNumber int    `json:"question_number"`
	Error          string `json:"error"`
}

var errNoSynthesizer = errors.New("no speech synthesizer configured")

type skillStrategy func(ctx context.Context, test *models.IELTSTest, synth Synthesizer, policy SynthesisPolicy) ([]SynthesisFailure, error)

var skillStrategies = map[string]skillStrategy{
	models.SkillReading:   noEnrichment,
	models.SkillListening: synthesizeListeningAudio,
	models.SkillWriting:   noEnrichment,
	models.SkillSpeaking:  noEnrichment,
}

// enrichTest applies the skill-specific enrichment to a parsed test.
func enrichTest(ctx context.Context, test *models.IELTSTest, synth Synthesizer, policy SynthesisPolicy) ([]SynthesisFailure, error) {
	skill, ok := models.NormalizeSkill(test.Skill)
	if !ok {
		return nil, nil
	}
	return skillStrategies[skill](ctx, test, synth, policy)
}

func noEnrichment(context.Context, *models.IELTSTest, Synthesizer, SynthesisPolicy) ([]SynthesisFailure, error) {
	return nil, nil
}

func synthesizeListeningAudio(ctx context.Context, test *models.IELTSTest, synth Synthesizer, policy SynthesisPolicy) ([]SynthesisFailure, error) {
	var failures []SynthesisFailure
	// Questions of one listening test usually share the same script.
	urls := make(map[string]string)

	for i := range test.Questions {
		question := &test.Questions[i]

		text := question.QuestionText
		if question.Passage != nil && *question.Passage != "" {
			text = *question.Passage
		}

		url, ok := urls[text]
		if !ok {
			var err error
			if synth == nil {
				err = errNoSynthesizer
			} else {
				url, err = synth.Synthesize(ctx, text)
			}
			if err != nil {
				synthErr := &SynthesisError{QuestionNumber: question.QuestionNumber, Err: err}
				audioSynthesisFailures.Inc()
				if policy == SynthesisAbort {
					return nil, synthErr
				}
				msg := err.Error()
				question.AudioError = &msg
				failures = append(failures, SynthesisFailure{QuestionNumber: question.QuestionNumber, Error: msg})
				log.Printf("Audio synthesis failed for Listening question %d, continuing without audio: %v", question.QuestionNumber, err)
				continue
			}
			urls[text] = url
		}

		question.AudioURL = &url
		log.Printf("Generated audio URL for Listening question %d: %s", question.QuestionNumber, redactURL(url))
	}

	return failures, nil
}

// redactURL hides query parameters (API keys) in log output.
func redactURL(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i] + "?..."
	}
	return u
}
