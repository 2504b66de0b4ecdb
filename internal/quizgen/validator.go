package quizgen

import (
	"fmt"
	"strings"
)

// Validator checks a parsed question before it is accepted.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in error messages.
	Name() string

	// Validate returns nil when the question passes.
	Validate(q *Question) *ValidationError
}

// ValidationError describes why a question was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator enforces the question record invariants: non-blank
// question text, four non-blank distinct options and a correct letter in
// a-d. Answers are compared by option text, so duplicate options would
// make more than one letter score as correct.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	reject := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}

	if strings.TrimSpace(q.Text) == "" {
		return reject("question text is empty")
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return reject("option %s is empty", Letters[i])
		}
		for j := range i {
			if q.Options[j] == opt {
				return reject("options %s and %s are both %q", Letters[j], Letters[i], opt)
			}
		}
	}
	if !q.Correct.Valid() {
		return reject("correct answer %q is not one of a, b, c, d", q.Correct)
	}
	return nil
}

// validate runs validators in order and reports the first failure.
func validate(q *Question, validators []Validator) *ValidationError {
	for _, v := range validators {
		if err := v.Validate(q); err != nil {
			return err
		}
	}
	return nil
}
