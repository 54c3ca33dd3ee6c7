package survey

import (
	"errors"
	"fmt"

	"surveyflow/internal/model"
)

// CheckSurvey reports every structural problem in a definition: missing or
// duplicate ids, unknown question types, bad validation patterns, conditions
// pointing at undeclared questions and conditions that Check rejects. A nil
// result means the definition is usable.
func (e *Evaluator) CheckSurvey(def *model.Survey) error {
	if def == nil {
		return errors.New("survey definition is empty")
	}

	var errs []error
	if def.Title == "" {
		errs = append(errs, errors.New("title is required"))
	}

	groupIDs := make(map[string]bool)
	questionIDs := make(map[string]bool)
	for _, g := range def.Groups {
		if g.ID == "" {
			errs = append(errs, errors.New("group without id"))
		} else if groupIDs[g.ID] {
			errs = append(errs, fmt.Errorf("duplicate group id %q", g.ID))
		}
		groupIDs[g.ID] = true

		for _, q := range g.Questions {
			if q.ID == "" {
				errs = append(errs, fmt.Errorf("group %q: question without id", g.ID))
				continue
			}
			if questionIDs[q.ID] {
				errs = append(errs, fmt.Errorf("duplicate question id %q", q.ID))
			}
			questionIDs[q.ID] = true
			if !q.Type.Valid() {
				errs = append(errs, fmt.Errorf("question %q: unknown type %q", q.ID, q.Type))
			}
			if (q.Type == model.QuestionTypeScale || q.Type == model.QuestionTypeRating) && q.ScaleMax < q.ScaleMin {
				errs = append(errs, fmt.Errorf("question %q: scaleMax is below scaleMin", q.ID))
			}
			if _, err := compilePattern(q.Validation.Pattern); err != nil {
				errs = append(errs, fmt.Errorf("question %q: invalid pattern: %w", q.ID, err))
			}
		}
	}

	checkConds := func(owner string, conds []model.Condition, comb model.Combinator) {
		if comb != "" && comb != model.CombineAnd && comb != model.CombineOr {
			errs = append(errs, fmt.Errorf("%s: unknown combinator %q", owner, comb))
		}
		for _, c := range conds {
			if err := e.Check(c); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", owner, err))
				continue
			}
			if c.SourceQuestionID != "" && !questionIDs[c.SourceQuestionID] {
				errs = append(errs, fmt.Errorf("%s: condition source %q is not a question", owner, c.SourceQuestionID))
			}
		}
	}
	for _, g := range def.Groups {
		checkConds(fmt.Sprintf("group %q", g.ID), g.Conditions, g.Combinator)
		for _, q := range g.Questions {
			checkConds(fmt.Sprintf("question %q", q.ID), q.Conditions, q.Combinator)
		}
	}

	return errors.Join(errs...)
}
