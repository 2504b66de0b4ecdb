package quizgen

import "fmt"

// Letter identifies one of the four options of a question.
type Letter string

const (
	LetterA Letter = "a"
	LetterB Letter = "b"
	LetterC Letter = "c"
	LetterD Letter = "d"
)

// Letters lists the valid option letters in display order.
var Letters = [4]Letter{LetterA, LetterB, LetterC, LetterD}

// Valid reports whether l is exactly one of a, b, c or d.
func (l Letter) Valid() bool {
	return l.Index() >= 0
}

// Index returns the option offset for the letter, or -1 when invalid.
func (l Letter) Index() int {
	for i, v := range Letters {
		if l == v {
			return i
		}
	}
	return -1
}

// Question is a multiple-choice question record. It is immutable once parsed.
type Question struct {
	// Text is the question line exactly as the model produced it, including
	// any leading numbering.
	Text string `json:"question"`

	// Options holds the four answer options with their "x) " prefixes removed.
	Options [4]string `json:"options"`

	// Correct is the letter of the correct option.
	Correct Letter `json:"correct"`

	// Topic is the identifier of the topic this question was generated for.
	Topic string `json:"topic"`
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	i := q.Correct.Index()
	if i < 0 {
		return ""
	}
	return q.Options[i]
}

// IsCorrect reports whether answer matches the correct option text.
// The empty answer never matches.
func (q Question) IsCorrect(answer string) bool {
	if answer == "" {
		return false
	}
	return answer == q.CorrectOption()
}

// HasOption reports whether answer is one of the question's options.
func (q Question) HasOption(answer string) bool {
	for _, o := range q.Options {
		if o == answer {
			return true
		}
	}
	return false
}

// TopicQuestions is one entry of the topic→questions index.
type TopicQuestions struct {
	Topic     string     `json:"topic"`
	Target    int        `json:"target"`
	Questions []Question `json:"questions"`
}

// Batch is the result of one generation run over a set of topics.
type Batch struct {
	// Questions is the flat list in topic order, then generation order.
	Questions []Question `json:"questions"`

	// ByTopic indexes the generated questions by topic, in topic order.
	ByTopic []TopicQuestions `json:"by_topic"`

	// Warnings lists the non-fatal problems hit while generating.
	Warnings []Warning `json:"warnings,omitempty"`
}

// QuestionsFor returns the questions generated for topic.
func (b *Batch) QuestionsFor(topic string) []Question {
	for _, tq := range b.ByTopic {
		if tq.Topic == topic {
			return tq.Questions
		}
	}
	return nil
}

// WarningKind classifies a non-fatal generation problem.
type WarningKind string

const (
	// WarningGenerationFailed means a provider call failed and the round
	// was treated as an empty response.
	WarningGenerationFailed WarningKind = "generation_failed"

	// WarningInsufficient means a topic ended with fewer questions than
	// its target after all rounds.
	WarningInsufficient WarningKind = "insufficient"
)

// Warning describes a non-fatal problem hit during generation.
type Warning struct {
	Kind      WarningKind `json:"kind"`
	Topic     string      `json:"topic"`
	Round     int         `json:"round,omitempty"`
	Generated int         `json:"generated,omitempty"`
	Target    int         `json:"target,omitempty"`
	Err       error       `json:"-"`
}

// Message returns the user-facing text for the warning.
func (w Warning) Message() string {
	switch w.Kind {
	case WarningGenerationFailed:
		return fmt.Sprintf("Error generating questions for topic %s (round %d): %v", w.Topic, w.Round, w.Err)
	case WarningInsufficient:
		return fmt.Sprintf("Could not generate enough questions for topic: %s (Generated %d/%d)", w.Topic, w.Generated, w.Target)
	default:
		return fmt.Sprintf("topic %s: %s", w.Topic, w.Kind)
	}
}

func (w Warning) String() string {
	return w.Message()
}
