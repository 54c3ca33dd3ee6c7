package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyflow/internal/model"
	"surveyflow/internal/survey"
	"surveyflow/internal/surveyfile"
)

const feedbackYAML = `
id: feedback
title: Feedback
groups:
  - id: main
    title: Main
    questions:
      - id: happy
        type: single_choice
        required: true
        options: ["yes", "no"]
      - id: why
        type: text
        required: true
        conditions:
          - source: happy
            operator: equals
            value: "no"
`

func loadFeedback(t *testing.T) *model.Survey {
	t.Helper()
	def, err := surveyfile.Parse(strings.NewReader(feedbackYAML))
	require.NoError(t, err)
	return def
}

func TestBuildReportWithoutAnswers(t *testing.T) {
	r := buildReport(survey.NewEvaluator(), loadFeedback(t), nil)

	assert.Equal(t, "Feedback", r.Title)
	assert.Equal(t, 2, r.Questions)
	assert.Nil(t, r.Progress)

	var buf bytes.Buffer
	printReport(&buf, r)
	assert.Contains(t, buf.String(), "Definition OK")
}

func TestBuildReportDryRun(t *testing.T) {
	def := loadFeedback(t)
	answers := model.Answers{"happy": {QuestionID: "happy", Value: model.TextValue("no")}}

	r := buildReport(survey.NewEvaluator(), def, answers)

	assert.Equal(t, []string{"main"}, r.VisibleGroups)
	assert.Equal(t, []string{"happy", "why"}, r.VisibleQuestions)
	require.NotNil(t, r.Progress)
	assert.Equal(t, 50, r.Progress.Percent)
	assert.Equal(t, map[string][]string{"why": {survey.MsgRequired}}, r.Violations)

	var buf bytes.Buffer
	printReport(&buf, r)
	assert.Contains(t, buf.String(), "Progress: 50% (1/2 required, 1 answered)")
	assert.Contains(t, buf.String(), "why: "+survey.MsgRequired)
}

func TestBuildReportReadyToSubmit(t *testing.T) {
	answers := model.Answers{"happy": {QuestionID: "happy", Value: model.TextValue("yes")}}

	r := buildReport(survey.NewEvaluator(), loadFeedback(t), answers)

	assert.Equal(t, []string{"happy"}, r.VisibleQuestions)
	assert.True(t, r.Progress.IsComplete)
	assert.Empty(t, r.Violations)

	var buf bytes.Buffer
	printReport(&buf, r)
	assert.Contains(t, buf.String(), "Ready to submit")
}
