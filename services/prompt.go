package services

import (
	"fmt"
	"strings"
)

// QuestionCount is the number of questions requested for a difficulty.
func QuestionCount(difficulty string) int {
	switch strings.ToLower(difficulty) {
	case "easy":
		return 10
	case "medium":
		return 15
	default:
		return 20
	}
}

const promptTemplate = `Generate an IELTS %[1]s test with %[2]s level and %[3]s difficulty.

Create %[4]d multiple choice questions. Each question should have 4 options (A, B, C, D) with only ONE correct answer.

For Reading skill: Include a reading passage and questions about it.
For Listening skill: Create a natural English conversation or monologue script in the "passage" field.
The passage should be approximately 150-200 words (around 900-1200 characters) that will be converted to audio.
Make it sound like natural spoken English. Include speaker names for conversations (e.g., "Sarah:", "John:").
Examples for Listening:
- A conversation between two people discussing a topic (with speaker labels)
- A monologue about a topic (like a news report, announcement, or lecture)
- A dialogue in a real-life situation (restaurant, airport, office, etc.)

For Writing/Speaking: Create grammar and vocabulary questions (no passage needed).

IMPORTANT: For the correct answer, provide a detailed explanation (2-3 sentences) explaining WHY it is correct.
For incorrect answers, provide brief explanation (1 sentence) explaining WHY they are wrong.

Return ONLY a valid JSON object in this exact format (no markdown, no extra text):
{
  "title": "IELTS %[2]s %[1]s Test - %[3]s",
  "durationMinutes": 60,
  "questions": [
    {
      "questionNumber": 1,
      "questionText": "Question text here",
      "questionType": "multiple_choice",
      "passage": "For Listening: Natural spoken English script (150-200 words with speaker labels). For Reading: Reading passage. For others: null or empty.",
      "answers": [
        {"answerOption": "A", "answerText": "Option A text", "isCorrect": false, "explanation": "This is incorrect because..."},
        {"answerOption": "B", "answerText": "Option B text", "isCorrect": true, "explanation": "This is correct because... The speaker mentioned that..."},
        {"answerOption": "C", "answerText": "Option C text", "isCorrect": false, "explanation": "This is wrong because..."},
        {"answerOption": "D", "answerText": "Option D text", "isCorrect": false, "explanation": "This was not mentioned."}
      ]
    }
  ]
}
`

// BuildPrompt renders the generation instructions for a request.
func BuildPrompt(req *GenerateTestRequest) string {
	return strings.TrimSpace(fmt.Sprintf(promptTemplate,
		req.Skill, req.Level, req.Difficulty, QuestionCount(req.Difficulty)))
}
