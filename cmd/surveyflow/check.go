package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"surveyflow/internal/model"
	"surveyflow/internal/survey"
	"surveyflow/internal/surveyfile"
)

var (
	checkAnswers string
	checkJSON    bool
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a definition and dry-run answers offline",
	Long: `Check a YAML survey definition for duplicate ids, unknown question
types and conditions that cannot be evaluated.

With --answers, the answers file (question id to value, null for an
explicit skip) is applied to the definition and the visible questions,
progress and violations are printed. Nothing is stored.

Exit codes:
  0 - Definition is valid and the answers have no violations
  3 - Definition failed to parse or check
  4 - Answers have violations

Example:
  surveyflow check ./surveys/onboarding.yaml
  surveyflow check ./surveys/onboarding.yaml --answers ./answers.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func setupCheckFlags() {
	checkCmd.Flags().StringVarP(&checkAnswers, "answers", "a", "", "YAML answers file to dry-run against the definition")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the report as JSON")
}

// checkReport is what a dry run prints
type checkReport struct {
	SurveyID         string              `json:"surveyId,omitempty"`
	Title            string              `json:"title"`
	Questions        int                 `json:"questions"`
	VisibleGroups    []string            `json:"visibleGroups,omitempty"`
	VisibleQuestions []string            `json:"visibleQuestions,omitempty"`
	Progress         *model.Progress     `json:"progress,omitempty"`
	Violations       map[string][]string `json:"violations,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	eval := survey.NewEvaluator(survey.WithLogger(log.Logger))

	def, err := surveyfile.Load(path)
	if err != nil {
		return ExitError{Code: ExitCodeDefinitionError, Err: err}
	}
	if err := eval.CheckSurvey(def); err != nil {
		return ExitError{Code: ExitCodeDefinitionError, Err: fmt.Errorf("%s: %w", path, err)}
	}

	var answers model.Answers
	if checkAnswers != "" {
		answers, err = surveyfile.LoadAnswers(checkAnswers)
		if err != nil {
			return ExitError{Code: ExitCodeGeneralError, Err: err}
		}
	}

	report := buildReport(eval, def, answers)
	if checkJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(cmd.OutOrStdout(), report)
	}

	if len(report.Violations) > 0 {
		return ExitError{Code: ExitCodeViolations, Err: fmt.Errorf("%d question(s) have violations", len(report.Violations))}
	}
	return nil
}

// buildReport dry-runs answers against def. A nil answers map only
// summarizes the definition.
func buildReport(eval *survey.Evaluator, def *model.Survey, answers model.Answers) checkReport {
	report := checkReport{
		SurveyID:  def.ID,
		Title:     def.Title,
		Questions: def.QuestionCount(),
	}
	if answers == nil {
		return report
	}

	for _, g := range eval.VisibleGroups(def.Groups, answers) {
		report.VisibleGroups = append(report.VisibleGroups, g.ID)
		for _, q := range g.Questions {
			report.VisibleQuestions = append(report.VisibleQuestions, q.ID)
		}
	}
	progress := eval.CalculateProgress(def.Groups, answers)
	report.Progress = &progress
	report.Violations = eval.ValidateAnswers(def.Groups, answers)
	return report
}

func printReport(w io.Writer, r checkReport) {
	fmt.Fprintf(w, "Survey: %s (%d questions)\n", r.Title, r.Questions)
	if r.Progress == nil {
		fmt.Fprintln(w, "Definition OK")
		return
	}

	fmt.Fprintf(w, "Visible groups: %s\n", strings.Join(r.VisibleGroups, ", "))
	fmt.Fprintf(w, "Visible questions: %s\n", strings.Join(r.VisibleQuestions, ", "))
	fmt.Fprintf(w, "Progress: %d%% (%d/%d required, %d answered)\n",
		r.Progress.Percent, r.Progress.RequiredAnsweredCount, r.Progress.RequiredCount, r.Progress.AnsweredCount)

	if len(r.Violations) == 0 {
		fmt.Fprintln(w, "Ready to submit")
		return
	}
	fmt.Fprintln(w, "Violations:")
	ids := make([]string, 0, len(r.Violations))
	for id := range r.Violations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, msg := range r.Violations[id] {
			fmt.Fprintf(w, "  %s: %s\n", id, msg)
		}
	}
}
