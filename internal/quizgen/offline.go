package quizgen

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/abhisek/quizmint/internal/llm"
)

// fillerOptions pad a cloze question when the material has too few
// distinct words.
var fillerOptions = []string{"none of these", "all of these", "not stated"}

// OfflineResponder answers question-generation prompts without a model.
// It blanks out the longest word of each sentence in the topic details and
// offers other words from the same material as distractors. It is what the
// "mock" provider runs when no API key is at hand.
func OfflineResponder(req llm.Request) llm.MockResponse {
	if len(req.Messages) == 0 {
		return llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: fmt.Errorf("no prompt")}}
	}
	n, topic, details := readPrompt(req.Messages[len(req.Messages)-1].Content)
	qs := clozeQuestions(topic, details, n)

	if req.Schema != nil {
		return llm.MockResponse{Content: encodeJSONQuestions(qs)}
	}
	return llm.MockResponse{Text: encodeTextQuestions(qs)}
}

// readPrompt recovers the question count, topic and details from a prompt
// built by BuildPrompt or BuildJSONPrompt.
func readPrompt(prompt string) (n int, topic, details string) {
	n = 1
	if i := strings.Index(prompt, "Generate exactly "); i >= 0 {
		fmt.Sscanf(prompt[i:], "Generate exactly %d", &n)
	}
	for _, line := range strings.Split(prompt, "\n") {
		if t, ok := strings.CutPrefix(line, "Topic: "); ok {
			topic = strings.TrimSpace(t)
			break
		}
	}
	if _, d, ok := strings.Cut(prompt, "Details:\n"); ok {
		details = strings.TrimSpace(d)
	}
	return n, topic, details
}

func clozeQuestions(topic, details string, n int) []Question {
	sentences := splitSentences(details)
	if len(sentences) == 0 {
		sentences = []string{topic}
	}
	vocab := vocabulary(details + " " + topic)

	out := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		s := sentences[i%len(sentences)]
		answer := longestWord(s)
		if answer == "" {
			continue
		}

		q := Question{
			Text:    fmt.Sprintf("%d. Fill in the blank (%s): %s", i+1, topic, strings.Replace(s, answer, "_____", 1)),
			Correct: Letters[i%4],
		}
		distractors := pickDistractors(vocab, answer, i)
		slot := 0
		for j := range q.Options {
			if j == q.Correct.Index() {
				q.Options[j] = answer
				continue
			}
			q.Options[j] = distractors[slot]
			slot++
		}
		out = append(out, q)
	}
	return out
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range strings.FieldsFunc(text, func(r rune) bool { return r == '.' || r == '!' || r == '?' || r == '\n' }) {
		if s = strings.TrimSpace(s); len(strings.Fields(s)) >= 3 {
			out = append(out, s)
		}
	}
	return out
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' })
}

func longestWord(s string) string {
	best := ""
	for _, w := range words(s) {
		if len(w) > len(best) {
			best = w
		}
	}
	return best
}

// vocabulary lists the distinct words of four letters or more, longest
// first.
func vocabulary(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range words(text) {
		key := strings.ToLower(w)
		if len(w) < 4 || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// pickDistractors returns three options distinct from answer and from each
// other. offset rotates the choice so repeated sentences differ.
func pickDistractors(vocab []string, answer string, offset int) [3]string {
	var out [3]string
	used := map[string]bool{strings.ToLower(answer): true}
	k := 0
	for i := 0; i < len(vocab) && k < 3; i++ {
		w := vocab[(i+offset)%len(vocab)]
		if used[strings.ToLower(w)] {
			continue
		}
		used[strings.ToLower(w)] = true
		out[k] = w
		k++
	}
	for _, f := range fillerOptions {
		if k == 3 {
			break
		}
		if !used[f] {
			used[f] = true
			out[k] = f
			k++
		}
	}
	return out
}

func encodeTextQuestions(qs []Question) string {
	blocks := make([]string, len(qs))
	for i, q := range qs {
		var b strings.Builder
		b.WriteString(q.Text)
		for j, o := range q.Options {
			fmt.Fprintf(&b, "\n%s) %s", Letters[j], o)
		}
		fmt.Fprintf(&b, "\nCorrect: %s", q.Correct)
		blocks[i] = b.String()
	}
	return strings.Join(blocks, "\n\n")
}

func encodeJSONQuestions(qs []Question) json.RawMessage {
	var payload jsonQuestions
	for _, q := range qs {
		payload.Questions = append(payload.Questions, struct {
			Question string   `json:"question"`
			Options  []string `json:"options"`
			Correct  string   `json:"correct"`
		}{q.Text, q.Options[:], string(q.Correct)})
	}
	b, _ := json.Marshal(payload)
	return b
}
