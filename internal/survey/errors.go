package survey

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"surveyflow/internal/model"
)

var (
	// ErrInvalidState is returned when an operation is not allowed in the session's current state
	ErrInvalidState = errors.New("survey: invalid session state")
	// ErrUnknownQuestion is returned for question ids the survey does not declare
	ErrUnknownQuestion = errors.New("survey: unknown question")
	// ErrValidationFailed is matched by ValidationFailedError
	ErrValidationFailed = errors.New("survey: validation failed")
)

// ConfigurationError describes a condition that cannot be evaluated.
// The evaluator reports it and treats the condition as a non-match.
type ConfigurationError struct {
	Condition model.Condition
	Reason    string
	Err       error
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("survey: condition source=%q operator=%q: %s", e.Condition.SourceQuestionID, e.Condition.Operator, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationFailedError carries the per-question violations that blocked a submit
type ValidationFailedError struct {
	Violations map[string][]string
}

func (e *ValidationFailedError) Error() string {
	ids := make([]string, 0, len(e.Violations))
	for id := range e.Violations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("%s: %s", ErrValidationFailed.Error(), strings.Join(ids, ", "))
}

func (e *ValidationFailedError) Is(target error) bool {
	return target == ErrValidationFailed
}

func stateError(op string, status model.SessionStatus) error {
	return fmt.Errorf("%w: %s not allowed while %s", ErrInvalidState, op, status)
}
