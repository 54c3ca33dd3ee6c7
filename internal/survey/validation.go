package survey

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"unicode/utf8"

	"surveyflow/internal/model"
)

// MsgRequired is reported for visible required questions without a response
const MsgRequired = "This field is required"

// ValidateAnswers checks every visible question against its rules and returns
// the violations keyed by question id. Questions without violations are
// absent from the map.
func (e *Evaluator) ValidateAnswers(groups []model.QuestionGroup, answers model.Answers) map[string][]string {
	out := make(map[string][]string)
	for _, q := range e.VisibleQuestions(groups, answers) {
		if _, err := compilePattern(q.Validation.Pattern); err != nil {
			e.logger.Warn().Err(err).Str("question", q.ID).Msg("validation pattern does not compile")
		}
		ans, ok := answers.Get(q.ID)
		if msgs := ValidateQuestion(q, ans, ok); len(msgs) > 0 {
			out[q.ID] = msgs
		}
	}
	return out
}

// ValidateQuestion checks one answer. present is false when nothing was
// recorded. Required is satisfied by the same rule as Answers.Responded.
func ValidateQuestion(q model.Question, ans model.Answer, present bool) []string {
	if !present || !ans.HasResponse() {
		if q.Required {
			return []string{MsgRequired}
		}
		return nil
	}

	v := ans.Value
	rules := q.Validation
	var msgs []string

	switch q.Type {
	case model.QuestionTypeSingleChoice:
		if !v.IsScalar() {
			return []string{"Select a single option"}
		}
		if len(q.Options) > 0 && !containsString(q.Options, v.String()) {
			msgs = append(msgs, fmt.Sprintf("%q is not a valid option", v.String()))
		}
	case model.QuestionTypeMultiChoice:
		if v.Kind != model.ValueList {
			return []string{"Select one or more options"}
		}
		if len(q.Options) > 0 {
			for _, item := range v.List {
				if !containsString(q.Options, item) {
					msgs = append(msgs, fmt.Sprintf("%q is not a valid option", item))
				}
			}
		}
		msgs = append(msgs, selectionViolations(rules, len(v.List))...)
	case model.QuestionTypeScale, model.QuestionTypeRating:
		n, ok := v.Float()
		if !ok {
			return []string{"Must be a number"}
		}
		msgs = append(msgs, scaleViolations(q, n)...)
		msgs = append(msgs, numberViolations(rules, n)...)
	case model.QuestionTypeText:
		if v.Kind != model.ValueText {
			return []string{"Must be text"}
		}
		msgs = append(msgs, textViolations(rules, v.Text)...)
	case model.QuestionTypeMatrix:
		if v.Kind != model.ValueMatrix {
			return []string{"Must answer by row"}
		}
		msgs = append(msgs, matrixViolations(q, v.Matrix)...)
	default:
		// Unknown types only get the generic rules
		switch v.Kind {
		case model.ValueText:
			msgs = append(msgs, textViolations(rules, v.Text)...)
		case model.ValueNumber:
			msgs = append(msgs, numberViolations(rules, v.Number)...)
		case model.ValueList:
			msgs = append(msgs, selectionViolations(rules, len(v.List))...)
		}
	}
	return msgs
}

func textViolations(rules model.ValidationRules, s string) []string {
	var msgs []string
	n := utf8.RuneCountInString(s)
	if rules.MinLength != nil && n < *rules.MinLength {
		msgs = append(msgs, fmt.Sprintf("Must be at least %d characters", *rules.MinLength))
	}
	if rules.MaxLength != nil && n > *rules.MaxLength {
		msgs = append(msgs, fmt.Sprintf("Must be at most %d characters", *rules.MaxLength))
	}
	if re, err := compilePattern(rules.Pattern); err == nil && re != nil && !re.MatchString(s) {
		msgs = append(msgs, "Invalid format")
	}
	return msgs
}

// patterns caches compiled validation patterns, including failures
var patterns sync.Map

type compiledPattern struct {
	re  *regexp.Regexp
	err error
}

// compilePattern returns nil, nil for an empty pattern
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	if c, ok := patterns.Load(pattern); ok {
		cp := c.(compiledPattern)
		return cp.re, cp.err
	}
	re, err := regexp.Compile(pattern)
	patterns.Store(pattern, compiledPattern{re: re, err: err})
	return re, err
}

func numberViolations(rules model.ValidationRules, n float64) []string {
	var msgs []string
	if rules.Min != nil && n < *rules.Min {
		msgs = append(msgs, "Must be at least "+formatNumber(*rules.Min))
	}
	if rules.Max != nil && n > *rules.Max {
		msgs = append(msgs, "Must be at most "+formatNumber(*rules.Max))
	}
	return msgs
}

func selectionViolations(rules model.ValidationRules, n int) []string {
	var msgs []string
	if rules.MinSelections != nil && n < *rules.MinSelections {
		msgs = append(msgs, fmt.Sprintf("Select at least %d options", *rules.MinSelections))
	}
	if rules.MaxSelections != nil && n > *rules.MaxSelections {
		msgs = append(msgs, fmt.Sprintf("Select at most %d options", *rules.MaxSelections))
	}
	return msgs
}

func scaleViolations(q model.Question, n float64) []string {
	if q.ScaleMax <= q.ScaleMin {
		return nil
	}
	if n < q.ScaleMin || n > q.ScaleMax {
		return []string{fmt.Sprintf("Must be between %s and %s", formatNumber(q.ScaleMin), formatNumber(q.ScaleMax))}
	}
	if !OnScale(q.ScaleMin, q.ScaleStep, n) {
		return []string{"Must be one of the scale values"}
	}
	return nil
}

func matrixViolations(q model.Question, m map[string]string) []string {
	var msgs []string
	for row, col := range m {
		if len(q.Rows) > 0 && !containsString(q.Rows, row) {
			msgs = append(msgs, fmt.Sprintf("%q is not a valid row", row))
			continue
		}
		if len(q.Options) > 0 && !containsString(q.Options, col) {
			msgs = append(msgs, fmt.Sprintf("%q is not a valid option for %q", col, row))
		}
	}
	// Optional matrices may leave rows blank
	if q.Required {
		for _, row := range q.Rows {
			if _, ok := m[row]; !ok {
				msgs = append(msgs, "Every row must be answered")
				break
			}
		}
	}
	sort.Strings(msgs)
	return msgs
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
