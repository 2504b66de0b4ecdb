package quizgen

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ResponseFormat selects how questions are requested from the model.
type ResponseFormat string

const (
	// FormatText asks for plain-text question blocks ("a) ", "Correct: b").
	FormatText ResponseFormat = "text"

	// FormatJSON asks for schema-constrained JSON output.
	FormatJSON ResponseFormat = "json"
)

// Config controls the behavior of the Generator.
type Config struct {
	// TotalQuestions is split evenly across topics to get the per-topic
	// target, with a floor of one question per topic.
	TotalQuestions int

	// MaxRounds is the number of generate-and-parse rounds per topic.
	MaxRounds int

	// Format selects text blocks or structured JSON responses.
	Format ResponseFormat

	// Validators run on every parsed question; the first failure drops it.
	Validators []Validator

	// MaxTokens is the token budget for each LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// CallTimeout bounds a single provider call. Zero means no timeout.
	CallTimeout time.Duration
}

// DefaultConfig returns a Config with the standard settings.
func DefaultConfig() Config {
	return Config{
		TotalQuestions: 30,
		MaxRounds:      3,
		Format:         FormatText,
		Validators: []Validator{
			&StructuralValidator{},
		},
		MaxTokens:   4096,
		Temperature: 0.7,
		CallTimeout: 60 * time.Second,
	}
}

// TargetPerTopic returns the number of questions to request per topic.
// It returns 0 when there are no topics.
func (c Config) TargetPerTopic(numTopics int) int {
	if numTopics <= 0 {
		return 0
	}
	return max(1, c.TotalQuestions/numTopics)
}

// ConfigFromEnv applies QUIZMINT_QUESTIONS, QUIZMINT_MAX_ROUNDS and
// QUIZMINT_RESPONSE_FORMAT over the defaults.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("QUIZMINT_QUESTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("QUIZMINT_QUESTIONS: want a positive integer, got %q", v)
		}
		cfg.TotalQuestions = n
	}
	if v := os.Getenv("QUIZMINT_MAX_ROUNDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("QUIZMINT_MAX_ROUNDS: want a positive integer, got %q", v)
		}
		cfg.MaxRounds = n
	}
	if v := os.Getenv("QUIZMINT_RESPONSE_FORMAT"); v != "" {
		switch f := ResponseFormat(v); f {
		case FormatText, FormatJSON:
			cfg.Format = f
		default:
			return cfg, fmt.Errorf("QUIZMINT_RESPONSE_FORMAT: unknown format %q", v)
		}
	}
	return cfg, nil
}
