package survey

import "surveyflow/internal/model"

// ConditionsMet combines conditions with the combinator. An empty list is
// always met; an empty combinator means "and".
func (e *Evaluator) ConditionsMet(conds []model.Condition, comb model.Combinator, answers model.Answers) bool {
	if len(conds) == 0 {
		return true
	}
	if comb == model.CombineOr {
		for _, c := range conds {
			if e.Evaluate(c, answers) {
				return true
			}
		}
		return false
	}
	for _, c := range conds {
		if !e.Evaluate(c, answers) {
			return false
		}
	}
	return true
}

// GroupVisible reports whether a group's own gate is open
func (e *Evaluator) GroupVisible(g model.QuestionGroup, answers model.Answers) bool {
	return e.ConditionsMet(g.Conditions, g.Combinator, answers)
}

// QuestionVisible reports whether a question's own gate is open. It does not
// look at the enclosing group.
func (e *Evaluator) QuestionVisible(q model.Question, answers model.Answers) bool {
	return e.ConditionsMet(q.Conditions, q.Combinator, answers)
}

// VisibleGroups returns the visible groups in declaration order. Each
// returned group keeps only its visible questions.
func (e *Evaluator) VisibleGroups(groups []model.QuestionGroup, answers model.Answers) []model.QuestionGroup {
	out := make([]model.QuestionGroup, 0, len(groups))
	for _, g := range groups {
		if !e.GroupVisible(g, answers) {
			continue
		}
		visible := g
		visible.Questions = make([]model.Question, 0, len(g.Questions))
		for _, q := range g.Questions {
			if e.QuestionVisible(q, answers) {
				visible.Questions = append(visible.Questions, q)
			}
		}
		out = append(out, visible)
	}
	return out
}

// VisibleQuestions flattens the visible questions of visible groups
func (e *Evaluator) VisibleQuestions(groups []model.QuestionGroup, answers model.Answers) []model.Question {
	var out []model.Question
	for _, g := range e.VisibleGroups(groups, answers) {
		out = append(out, g.Questions...)
	}
	return out
}
