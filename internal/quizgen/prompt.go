package quizgen

import "fmt"

const systemPrompt = `You write multiple-choice assessment questions from study material supplied by a learner.

Rules:
- Every question must be answerable from the supplied topic details.
- Every question has exactly 4 options and exactly one correct option.
- Distractors should be plausible, not random.
- Follow the requested output format exactly. Do not add commentary before or after the questions.`

const textTemplate = `Generate exactly %d multiple-choice questions from the following topic.
Each question must have exactly 4 options and include the correct answer hidden as metadata at the end of the question block.
Separate question blocks with one blank line.
Format each question as follows:

1. Question text
a) Option 1
b) Option 2
c) Option 3
d) Option 4
Correct: b

Topic: %s

Details:
%s
`

const jsonTemplate = `Generate exactly %d multiple-choice questions from the following topic.
Return a JSON object with a "questions" array. Each item has "question" (the question text),
"options" (exactly 4 strings, without letter prefixes) and "correct" (one of "a", "b", "c", "d").

Topic: %s

Details:
%s
`

// BuildPrompt formats the text-block prompt asking for n questions on topic.
func BuildPrompt(topic, details string, n int) string {
	return fmt.Sprintf(textTemplate, n, topic, details)
}

// BuildJSONPrompt formats the structured-output prompt asking for n
// questions on topic.
func BuildJSONPrompt(topic, details string, n int) string {
	return fmt.Sprintf(jsonTemplate, n, topic, details)
}

// buildUserMessage picks the prompt for the configured response format.
func buildUserMessage(topic, details string, n int, format ResponseFormat) string {
	if format == FormatJSON {
		return BuildJSONPrompt(topic, details, n)
	}
	return BuildPrompt(topic, details, n)
}
