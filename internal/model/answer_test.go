package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValueJSONInfersKind(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{`"yes"`, TextValue("yes")},
		{`4.5`, NumberValue(4.5)},
		{`["a","b"]`, ListValue("a", "b")},
		{`{"speed":"good"}`, MatrixValue(map[string]string{"speed": "good"})},
		{`null`, Value{}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &v))
			assert.Equal(t, tt.want, v)

			out, err := json.Marshal(v)
			require.NoError(t, err)
			assert.JSONEq(t, tt.raw, string(out))
		})
	}
}

func TestValueJSONRejectsMixedLists(t *testing.T) {
	var v Value
	assert.Error(t, json.Unmarshal([]byte(`["a", 1]`), &v))
	assert.Error(t, json.Unmarshal([]byte(`true`), &v))
}

func TestValueYAML(t *testing.T) {
	var cond Condition
	src := "source: Q1\noperator: in\nvalue: [red, 2]\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &cond))

	require.NotNil(t, cond.Value)
	assert.Equal(t, ListValue("red", "2"), *cond.Value)
	assert.Equal(t, OpIn, cond.Operator)
}

func TestValueCoercion(t *testing.T) {
	n, ok := TextValue(" 12 ").Float()
	assert.True(t, ok)
	assert.Equal(t, 12.0, n)

	_, ok = ListValue("1").Float()
	assert.False(t, ok)

	assert.Equal(t, "3", NumberValue(3).String())
	assert.Equal(t, []string{"0.25"}, NumberValue(0.25).Items())
	assert.True(t, TextValue("").IsEmpty())
	assert.False(t, NumberValue(0).IsEmpty())
}

func TestAnswersAnswered(t *testing.T) {
	a := Answers{
		"q1": {QuestionID: "q1", Value: TextValue("x")},
		"q2": {QuestionID: "q2", Skipped: true},
	}
	assert.True(t, a.Answered("q1"))
	assert.False(t, a.Answered("q2"))
	assert.False(t, a.Answered("q3"))
	assert.False(t, a["q2"].HasResponse())

	a["q4"] = Answer{QuestionID: "q4", Value: TextValue("")}
	assert.True(t, a.Answered("q4"))
	assert.False(t, a.Responded("q4"))
	assert.True(t, a.Responded("q1"))
	assert.False(t, a.Responded("q2"))
	delete(a, "q4")

	sorted := a.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, "q1", sorted[0].QuestionID)
}
