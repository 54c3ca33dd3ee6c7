package survey

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyflow/internal/model"
)

func valuePtr(v model.Value) *model.Value { return &v }

func answersOf(pairs map[string]model.Value) model.Answers {
	out := make(model.Answers, len(pairs))
	for id, v := range pairs {
		out[id] = model.Answer{QuestionID: id, Value: v}
	}
	return out
}

func TestEvaluateOperators(t *testing.T) {
	answers := answersOf(map[string]model.Value{
		"color":  model.TextValue("blue"),
		"tools":  model.ListValue("go", "rust"),
		"age":    model.NumberValue(42),
		"ageTxt": model.TextValue(" 17 "),
		"bio":    model.TextValue("likes hiking and chess"),
		"grid":   model.MatrixValue(map[string]string{"speed": "good", "price": "bad"}),
	})

	tests := []struct {
		name string
		cond model.Condition
		want bool
	}{
		{"equals scalar", model.Condition{SourceQuestionID: "color", Operator: model.OpEquals, Value: valuePtr(model.TextValue("blue"))}, true},
		{"equals scalar mismatch", model.Condition{SourceQuestionID: "color", Operator: model.OpEquals, Value: valuePtr(model.TextValue("red"))}, false},
		{"equals number as string", model.Condition{SourceQuestionID: "age", Operator: model.OpEquals, Value: valuePtr(model.TextValue("42"))}, true},
		{"equals vector ignores order", model.Condition{SourceQuestionID: "tools", Operator: model.OpEquals, Value: valuePtr(model.ListValue("rust", "go"))}, true},
		{"equals vector different length", model.Condition{SourceQuestionID: "tools", Operator: model.OpEquals, Value: valuePtr(model.ListValue("go"))}, false},
		{"equals scalar against vector is membership", model.Condition{SourceQuestionID: "tools", Operator: model.OpEquals, Value: valuePtr(model.TextValue("rust"))}, true},
		{"equals matrix", model.Condition{SourceQuestionID: "grid", Operator: model.OpEquals, Value: valuePtr(model.MatrixValue(map[string]string{"price": "bad", "speed": "good"}))}, true},
		{"notEquals", model.Condition{SourceQuestionID: "color", Operator: model.OpNotEquals, Value: valuePtr(model.TextValue("red"))}, true},
		{"contains vector", model.Condition{SourceQuestionID: "tools", Operator: model.OpContains, Value: valuePtr(model.TextValue("go"))}, true},
		{"contains substring", model.Condition{SourceQuestionID: "bio", Operator: model.OpContains, Value: valuePtr(model.TextValue("chess"))}, true},
		{"contains matrix column", model.Condition{SourceQuestionID: "grid", Operator: model.OpContains, Value: valuePtr(model.TextValue("bad"))}, true},
		{"notContains", model.Condition{SourceQuestionID: "tools", Operator: model.OpNotContains, Value: valuePtr(model.TextValue("java"))}, true},
		{"greaterThan", model.Condition{SourceQuestionID: "age", Operator: model.OpGreaterThan, Value: valuePtr(model.NumberValue(18))}, true},
		{"lessThan coerces text", model.Condition{SourceQuestionID: "ageTxt", Operator: model.OpLessThan, Value: valuePtr(model.TextValue("18"))}, true},
		{"greaterThanOrEqual boundary", model.Condition{SourceQuestionID: "age", Operator: model.OpGreaterThanOrEqual, Value: valuePtr(model.NumberValue(42))}, true},
		{"lessThanOrEqual boundary", model.Condition{SourceQuestionID: "age", Operator: model.OpLessThanOrEqual, Value: valuePtr(model.NumberValue(41))}, false},
		{"numeric against non numeric answer", model.Condition{SourceQuestionID: "color", Operator: model.OpGreaterThan, Value: valuePtr(model.NumberValue(1))}, false},
		{"numeric against list answer", model.Condition{SourceQuestionID: "tools", Operator: model.OpGreaterThan, Value: valuePtr(model.NumberValue(1))}, false},
		{"in scalar", model.Condition{SourceQuestionID: "color", Operator: model.OpIn, Value: valuePtr(model.ListValue("red", "blue"))}, true},
		{"in vector overlap", model.Condition{SourceQuestionID: "tools", Operator: model.OpIn, Value: valuePtr(model.ListValue("java", "rust"))}, true},
		{"notIn", model.Condition{SourceQuestionID: "color", Operator: model.OpNotIn, Value: valuePtr(model.ListValue("red", "green"))}, true},
		{"answered", model.Condition{SourceQuestionID: "color", Operator: model.OpAnswered}, true},
		{"notAnswered", model.Condition{SourceQuestionID: "color", Operator: model.OpNotAnswered}, false},
	}

	e := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Evaluate(tt.cond, answers))
		})
	}
}

func TestEvaluateAbsentSourceOnlyMatchesNotAnswered(t *testing.T) {
	e := NewEvaluator()
	empty := model.Answers{}
	skipped := model.Answers{"q": {QuestionID: "q", Skipped: true}}

	ops := map[model.Operator]*model.Value{
		model.OpEquals:             valuePtr(model.TextValue("x")),
		model.OpNotEquals:          valuePtr(model.TextValue("x")),
		model.OpContains:           valuePtr(model.TextValue("x")),
		model.OpNotContains:        valuePtr(model.TextValue("x")),
		model.OpGreaterThan:        valuePtr(model.NumberValue(1)),
		model.OpLessThan:           valuePtr(model.NumberValue(1)),
		model.OpGreaterThanOrEqual: valuePtr(model.NumberValue(1)),
		model.OpLessThanOrEqual:    valuePtr(model.NumberValue(1)),
		model.OpIn:                 valuePtr(model.ListValue("x")),
		model.OpNotIn:              valuePtr(model.ListValue("x")),
		model.OpAnswered:           nil,
	}
	for op, v := range ops {
		cond := model.Condition{SourceQuestionID: "q", Operator: op, Value: v}
		assert.False(t, e.Evaluate(cond, empty), "%s with no answer", op)
		assert.False(t, e.Evaluate(cond, skipped), "%s with skipped answer", op)
	}

	notAnswered := model.Condition{SourceQuestionID: "q", Operator: model.OpNotAnswered}
	assert.True(t, e.Evaluate(notAnswered, empty))
	assert.True(t, e.Evaluate(notAnswered, skipped))
}

func TestEvaluateAnsweredTracksSkippedFlag(t *testing.T) {
	e := NewEvaluator()
	cond := model.Condition{SourceQuestionID: "q", Operator: model.OpAnswered}

	assert.False(t, e.Evaluate(cond, model.Answers{}))
	assert.False(t, e.Evaluate(cond, model.Answers{"q": {QuestionID: "q", Skipped: true}}))
	assert.True(t, e.Evaluate(cond, model.Answers{"q": {QuestionID: "q", Value: model.TextValue("")}}))
}

func TestEvaluateConfigurationErrorsAreReported(t *testing.T) {
	var buf bytes.Buffer
	e := NewEvaluator(WithLogger(zerolog.New(&buf)))
	answers := answersOf(map[string]model.Value{"q": model.TextValue("a")})

	conds := []model.Condition{
		{SourceQuestionID: "q", Operator: "between", Value: valuePtr(model.TextValue("a"))},
		{SourceQuestionID: "q", Operator: model.OpIn, Value: valuePtr(model.TextValue("a"))},
		{SourceQuestionID: "q", Operator: model.OpEquals},
		{SourceQuestionID: "q", Operator: model.OpGreaterThan, Value: valuePtr(model.TextValue("many"))},
	}
	for _, c := range conds {
		assert.False(t, e.Evaluate(c, answers))
	}
	assert.Equal(t, len(conds), bytes.Count(buf.Bytes(), []byte("condition configuration error")))
	assert.Contains(t, buf.String(), "unknown operator")
}

func TestCheckRejectsMalformedConditions(t *testing.T) {
	e := NewEvaluator()

	err := e.Check(model.Condition{Operator: model.OpEquals, Value: valuePtr(model.TextValue("x"))})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "source question is required", cfgErr.Reason)

	assert.Error(t, e.Check(model.Condition{SourceQuestionID: "q", Operator: model.OpExpression, Value: valuePtr(model.TextValue("value ==="))}))
	assert.NoError(t, e.Check(model.Condition{SourceQuestionID: "q", Operator: model.OpNotAnswered}))
	assert.NoError(t, e.Check(model.Condition{SourceQuestionID: "q", Operator: model.OpIn, Value: valuePtr(model.ListValue("a"))}))
}

func TestEvaluateExpression(t *testing.T) {
	e := NewEvaluator()
	answers := answersOf(map[string]model.Value{
		"age":   model.NumberValue(30),
		"plan":  model.TextValue("pro"),
		"seats": model.NumberValue(12),
	})

	sourced := model.Condition{SourceQuestionID: "age", Operator: model.OpExpression, Value: valuePtr(model.TextValue("value >= 18 && value < 65"))}
	assert.True(t, e.Evaluate(sourced, answers))

	cross := model.Condition{Operator: model.OpExpression, Value: valuePtr(model.TextValue(`answers.plan == "pro" && answers.seats > 10`))}
	assert.True(t, e.Evaluate(cross, answers))

	membership := model.Condition{Operator: model.OpExpression, Value: valuePtr(model.TextValue(`"missing" in answers`))}
	assert.False(t, e.Evaluate(membership, answers))

	// Source given but unanswered never matches
	absent := model.Condition{SourceQuestionID: "nope", Operator: model.OpExpression, Value: valuePtr(model.TextValue("true"))}
	assert.False(t, e.Evaluate(absent, answers))

	// Non-boolean results are configuration errors
	number := model.Condition{Operator: model.OpExpression, Value: valuePtr(model.TextValue("1 + 1"))}
	assert.False(t, e.Evaluate(number, answers))
}

func TestExpressionAnsweredFunction(t *testing.T) {
	e := NewEvaluator()
	cond := model.Condition{Operator: model.OpExpression, Value: valuePtr(model.TextValue(`answered("q1") && !answered("q2")`))}
	require.NoError(t, e.Check(cond))

	answers := model.Answers{
		"q1": {QuestionID: "q1", Value: model.TextValue("a")},
		"q2": {QuestionID: "q2", Skipped: true},
	}
	assert.True(t, e.Evaluate(cond, answers))
	assert.False(t, e.Evaluate(cond, model.Answers{}))

	wrongArg := model.Condition{Operator: model.OpExpression, Value: valuePtr(model.TextValue(`answered(1)`))}
	assert.Error(t, e.Check(wrongArg))
}
