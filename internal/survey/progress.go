package survey

import (
	"math"

	"surveyflow/internal/model"
)

// CalculateProgress counts visible, answered and required questions.
// Skipped answers never count as answered, and hidden questions are ignored
// entirely, so stale answers cannot block or inflate completion. A required
// question only counts as done under the same rule validation uses, so an
// empty value leaves it open.
func (e *Evaluator) CalculateProgress(groups []model.QuestionGroup, answers model.Answers) model.Progress {
	var p model.Progress
	for _, q := range e.VisibleQuestions(groups, answers) {
		p.VisibleCount++
		if answers.Answered(q.ID) {
			p.AnsweredCount++
		}
		if q.Required {
			p.RequiredCount++
			if answers.Responded(q.ID) {
				p.RequiredAnsweredCount++
			}
		}
	}
	p.Percent = percent(p.RequiredAnsweredCount, p.RequiredCount)
	p.IsComplete = p.RequiredAnsweredCount >= p.RequiredCount
	return p
}

func percent(done, total int) int {
	if total == 0 {
		return 100
	}
	pct := int(math.Round(float64(done) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
