package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"
)

// minBlockLines is one question line, four option lines and the
// "Correct:" line.
const minBlockLines = 6

// ParseResponse extracts question records from free-text model output.
//
// The text is split into blocks on blank lines. A block is kept only when it
// has at least six lines, its sixth line reads "Correct: <letter>" (prefix
// matched case-insensitively) and the letter is exactly one of a-d. Malformed
// blocks are skipped without error. Topic is left empty; the generator stamps
// it.
func ParseResponse(text string) []Question {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var out []Question
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		q, ok := parseBlock(strings.Trim(block, "\n"))
		if !ok {
			continue
		}
		out = append(out, q)
	}
	return out
}

func parseBlock(block string) (Question, bool) {
	lines := strings.Split(block, "\n")
	if len(lines) < minBlockLines {
		return Question{}, false
	}

	q := Question{Text: lines[0]}
	for i := range 4 {
		q.Options[i] = stripOptionPrefix(strings.TrimSpace(lines[i+1]))
	}

	letter, ok := parseCorrectLine(lines[5])
	if !ok {
		return Question{}, false
	}
	q.Correct = letter
	return q, true
}

// stripOptionPrefix drops everything up to and including the first ") ".
// Options without that separator are returned unchanged.
func stripOptionPrefix(opt string) string {
	if _, rest, found := strings.Cut(opt, ") "); found {
		return rest
	}
	return opt
}

func parseCorrectLine(line string) (Letter, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(strings.ToLower(line), "correct:") {
		return "", false
	}
	_, value, _ := strings.Cut(line, ":")
	letter := Letter(strings.TrimSpace(value))
	if !letter.Valid() {
		return "", false
	}
	return letter, true
}

// jsonQuestions is the structured response shape requested in JSON mode.
type jsonQuestions struct {
	Questions []struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
		Correct  string   `json:"correct"`
	} `json:"questions"`
}

// ParseJSONResponse extracts question records from a structured response.
// Items that do not carry exactly four options or a valid letter are
// skipped, matching the text parser.
func ParseJSONResponse(raw []byte) ([]Question, error) {
	var parsed jsonQuestions
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	var out []Question
	for _, item := range parsed.Questions {
		if len(item.Options) != 4 {
			continue
		}
		letter := Letter(strings.TrimSpace(item.Correct))
		if !letter.Valid() {
			continue
		}
		q := Question{Text: item.Question, Correct: letter}
		for i, o := range item.Options {
			q.Options[i] = stripOptionPrefix(strings.TrimSpace(o))
		}
		out = append(out, q)
	}
	return out, nil
}
