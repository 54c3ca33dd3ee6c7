package survey

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"surveyflow/internal/model"
)

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLogger sets the logger that receives condition diagnostics.
func WithLogger(logger zerolog.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// Evaluator decides single display conditions against an answer store.
// It is safe for concurrent use; the only shared state is the compiled
// expression cache.
type Evaluator struct {
	logger zerolog.Logger

	mu       sync.RWMutex
	programs map[string]*exprvm.Program
}

// NewEvaluator constructs an Evaluator. Diagnostics are discarded unless a
// logger is supplied.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		logger:   zerolog.Nop(),
		programs: make(map[string]*exprvm.Program),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Evaluate reports whether cond holds for answers. Misconfigured conditions
// never match; they are logged as configuration errors instead.
func (e *Evaluator) Evaluate(cond model.Condition, answers model.Answers) bool {
	ok, err := e.evaluate(cond, answers)
	if err != nil {
		e.report(cond, err)
		return false
	}
	return ok
}

// Check validates a condition without any answers. Survey definitions are
// checked with it before they are stored.
func (e *Evaluator) Check(cond model.Condition) error {
	switch cond.Operator {
	case model.OpAnswered, model.OpNotAnswered:
		if cond.SourceQuestionID == "" {
			return configError(cond, "source question is required", nil)
		}
		return nil
	case model.OpExpression:
		if cond.Value == nil || cond.Value.Kind != model.ValueText || strings.TrimSpace(cond.Value.Text) == "" {
			return configError(cond, "expression must be a non-empty string", nil)
		}
		_, err := e.program(cond.Value.Text)
		if err != nil {
			return configError(cond, "expression does not compile", err)
		}
		return nil
	case model.OpEquals, model.OpNotEquals, model.OpContains, model.OpNotContains:
	case model.OpGreaterThan, model.OpLessThan, model.OpGreaterThanOrEqual, model.OpLessThanOrEqual:
		if cond.Value != nil {
			if _, ok := cond.Value.Float(); !ok {
				return configError(cond, "comparison value is not numeric", nil)
			}
		}
	case model.OpIn, model.OpNotIn:
		if cond.Value != nil && cond.Value.Kind != model.ValueList {
			return configError(cond, "comparison value must be a list", nil)
		}
	default:
		return configError(cond, "unknown operator", nil)
	}
	if cond.SourceQuestionID == "" {
		return configError(cond, "source question is required", nil)
	}
	if cond.Value == nil || cond.Value.IsNone() {
		return configError(cond, "comparison value is required", nil)
	}
	return nil
}

func (e *Evaluator) evaluate(cond model.Condition, answers model.Answers) (bool, error) {
	if err := e.Check(cond); err != nil {
		return false, err
	}

	ans, ok := answers.Get(cond.SourceQuestionID)
	present := ok && !ans.Skipped && !ans.Value.IsNone()

	switch cond.Operator {
	case model.OpAnswered:
		return answers.Answered(cond.SourceQuestionID), nil
	case model.OpNotAnswered:
		return !answers.Answered(cond.SourceQuestionID), nil
	}

	if cond.Operator == model.OpExpression && cond.SourceQuestionID == "" {
		return e.evalExpression(cond, model.Value{}, answers)
	}

	// Every comparison fails without a source answer
	if !present {
		return false, nil
	}

	actual, want := ans.Value, *cond.Value
	switch cond.Operator {
	case model.OpEquals:
		return valuesEqual(actual, want), nil
	case model.OpNotEquals:
		return !valuesEqual(actual, want), nil
	case model.OpContains:
		return valueContains(actual, want), nil
	case model.OpNotContains:
		return !valueContains(actual, want), nil
	case model.OpGreaterThan, model.OpLessThan, model.OpGreaterThanOrEqual, model.OpLessThanOrEqual:
		return compareNumbers(cond.Operator, actual, want), nil
	case model.OpIn:
		return overlaps(actual, want.List), nil
	case model.OpNotIn:
		return !overlaps(actual, want.List), nil
	case model.OpExpression:
		return e.evalExpression(cond, actual, answers)
	}
	return false, configError(cond, "unknown operator", nil)
}

// valuesEqual compares scalars as strings and lists as sorted sets. A scalar
// condition value against a list answer is a membership test.
func valuesEqual(actual, want model.Value) bool {
	switch {
	case actual.Kind == model.ValueList && want.Kind == model.ValueList:
		return sortedEqual(actual.List, want.List)
	case actual.Kind == model.ValueList && want.IsScalar():
		return containsString(actual.List, want.String())
	case actual.IsScalar() && want.IsScalar():
		return actual.String() == want.String()
	case actual.IsScalar() && want.Kind == model.ValueList:
		return len(want.List) == 1 && want.List[0] == actual.String()
	case actual.Kind == model.ValueMatrix && want.Kind == model.ValueMatrix:
		if len(actual.Matrix) != len(want.Matrix) {
			return false
		}
		for row, col := range want.Matrix {
			if got, ok := actual.Matrix[row]; !ok || got != col {
				return false
			}
		}
		return true
	}
	return false
}

func valueContains(actual, want model.Value) bool {
	switch actual.Kind {
	case model.ValueList:
		if want.Kind == model.ValueList {
			for _, item := range want.List {
				if !containsString(actual.List, item) {
					return false
				}
			}
			return true
		}
		return want.IsScalar() && containsString(actual.List, want.String())
	case model.ValueText:
		return want.IsScalar() && strings.Contains(actual.Text, want.String())
	case model.ValueMatrix:
		if want.Kind == model.ValueMatrix {
			for row, col := range want.Matrix {
				if actual.Matrix[row] != col {
					return false
				}
			}
			return true
		}
		if !want.IsScalar() {
			return false
		}
		for _, col := range actual.Matrix {
			if col == want.String() {
				return true
			}
		}
	}
	return false
}

func compareNumbers(op model.Operator, actual, want model.Value) bool {
	a, ok := actual.Float()
	if !ok {
		return false
	}
	b, ok := want.Float()
	if !ok {
		return false
	}
	switch op {
	case model.OpGreaterThan:
		return a > b
	case model.OpLessThan:
		return a < b
	case model.OpGreaterThanOrEqual:
		return a >= b
	case model.OpLessThanOrEqual:
		return a <= b
	}
	return false
}

func overlaps(actual model.Value, list []string) bool {
	for _, item := range actual.Items() {
		if containsString(list, item) {
			return true
		}
	}
	return false
}

func (e *Evaluator) evalExpression(cond model.Condition, actual model.Value, answers model.Answers) (bool, error) {
	program, err := e.program(cond.Value.Text)
	if err != nil {
		return false, configError(cond, "expression does not compile", err)
	}
	values := make(map[string]any, len(answers))
	for id, ans := range answers {
		if !ans.Skipped {
			values[id] = ans.Value.Interface()
		}
	}
	answered := func(id string) bool { return answers.Answered(id) }
	env := map[string]any{
		"value":    actual.Interface(),
		"answers":  values,
		"answered": answered,
	}
	out, err := exprlang.Run(program, env)
	if err != nil {
		return false, configError(cond, "expression failed", err)
	}
	result, ok := out.(bool)
	if !ok {
		return false, configError(cond, fmt.Sprintf("expression returned %T, want bool", out), nil)
	}
	return result, nil
}

// expressionEnv declares what expressions may reference: the source
// answer as value, every unskipped answer by id, and answered(id).
var expressionEnv = map[string]any{
	"answers":  map[string]any{},
	"answered": func(string) bool { return false },
}

func (e *Evaluator) program(expression string) (*exprvm.Program, error) {
	e.mu.RLock()
	program, ok := e.programs[expression]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(expressionEnv),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.programs[expression] = program
	e.mu.Unlock()
	return program, nil
}

func (e *Evaluator) report(cond model.Condition, err error) {
	var cfgErr *ConfigurationError
	reason := err.Error()
	if errors.As(err, &cfgErr) {
		reason = cfgErr.Reason
	}
	e.logger.Warn().
		Err(err).
		Str("source", cond.SourceQuestionID).
		Str("operator", string(cond.Operator)).
		Str("reason", reason).
		Msg("condition configuration error")
}

func configError(cond model.Condition, reason string, err error) error {
	return &ConfigurationError{Condition: cond, Reason: reason, Err: err}
}

func sortedEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
