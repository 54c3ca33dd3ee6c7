package model

import "time"

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeSingleChoice QuestionType = "single_choice" // One option, text value
	QuestionTypeMultiChoice  QuestionType = "multi_choice"  // Many options, list value
	QuestionTypeScale        QuestionType = "scale"         // Numeric slider between scaleMin and scaleMax
	QuestionTypeRating       QuestionType = "rating"        // Stars, same bounds as scale
	QuestionTypeText         QuestionType = "text"          // Free text
	QuestionTypeMatrix       QuestionType = "matrix"        // Row -> option grid
)

// Valid reports whether t is a known question type
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeSingleChoice, QuestionTypeMultiChoice, QuestionTypeScale,
		QuestionTypeRating, QuestionTypeText, QuestionTypeMatrix:
		return true
	}
	return false
}

// Operator is the comparison a Condition applies
type Operator string

const (
	OpEquals             Operator = "equals"
	OpNotEquals          Operator = "notEquals"
	OpContains           Operator = "contains"
	OpNotContains        Operator = "notContains"
	OpGreaterThan        Operator = "greaterThan"
	OpLessThan           Operator = "lessThan"
	OpGreaterThanOrEqual Operator = "greaterThanOrEqual"
	OpLessThanOrEqual    Operator = "lessThanOrEqual"
	OpIn                 Operator = "in"
	OpNotIn              Operator = "notIn"
	OpAnswered           Operator = "answered"
	OpNotAnswered        Operator = "notAnswered"
	// OpExpression evaluates Value.Text as an expr-lang boolean expression
	OpExpression Operator = "expression"
)

// Combinator joins the conditions of a group or question
type Combinator string

const (
	CombineAnd Combinator = "and"
	CombineOr  Combinator = "or"
)

// Condition gates visibility on a previous answer
type Condition struct {
	SourceQuestionID string   `json:"sourceQuestionId" bson:"sourceQuestionId" yaml:"source"`
	Operator         Operator `json:"operator" bson:"operator" yaml:"operator"`
	Value            *Value   `json:"value,omitempty" bson:"value,omitempty" yaml:"value,omitempty"`
}

// ValidationRules are optional per-question constraints
type ValidationRules struct {
	MinLength     *int     `json:"minLength,omitempty" bson:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength     *int     `json:"maxLength,omitempty" bson:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Min           *float64 `json:"min,omitempty" bson:"min,omitempty" yaml:"min,omitempty"`
	Max           *float64 `json:"max,omitempty" bson:"max,omitempty" yaml:"max,omitempty"`
	MinSelections *int     `json:"minSelections,omitempty" bson:"minSelections,omitempty" yaml:"minSelections,omitempty"`
	MaxSelections *int     `json:"maxSelections,omitempty" bson:"maxSelections,omitempty" yaml:"maxSelections,omitempty"`
	Pattern       string   `json:"pattern,omitempty" bson:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Question is a single survey question
type Question struct {
	ID       string       `json:"id" bson:"id" yaml:"id"`
	Type     QuestionType `json:"type" bson:"type" yaml:"type"`
	Prompt   string       `json:"prompt" bson:"prompt" yaml:"prompt"`
	Required bool         `json:"required" bson:"required" yaml:"required"`
	Options  []string     `json:"options,omitempty" bson:"options,omitempty" yaml:"options,omitempty"` // choice and matrix columns
	Rows     []string     `json:"rows,omitempty" bson:"rows,omitempty" yaml:"rows,omitempty"`          // matrix only
	// For scale and rating types
	ScaleMin  float64 `json:"scaleMin,omitempty" bson:"scaleMin,omitempty" yaml:"scaleMin,omitempty"`
	ScaleMax  float64 `json:"scaleMax,omitempty" bson:"scaleMax,omitempty" yaml:"scaleMax,omitempty"`
	ScaleStep float64 `json:"scaleStep,omitempty" bson:"scaleStep,omitempty" yaml:"scaleStep,omitempty"`

	Conditions []Condition     `json:"conditions,omitempty" bson:"conditions,omitempty" yaml:"conditions,omitempty"`
	Combinator Combinator      `json:"combinator,omitempty" bson:"combinator,omitempty" yaml:"combinator,omitempty"`
	Validation ValidationRules `json:"validation" bson:"validation" yaml:"validation,omitempty"`
}

// QuestionGroup is an ordered page of questions sharing a visibility gate
type QuestionGroup struct {
	ID         string      `json:"id" bson:"id" yaml:"id"`
	Title      string      `json:"title" bson:"title" yaml:"title"`
	Questions  []Question  `json:"questions" bson:"questions" yaml:"questions"`
	Conditions []Condition `json:"conditions,omitempty" bson:"conditions,omitempty" yaml:"conditions,omitempty"`
	Combinator Combinator  `json:"combinator,omitempty" bson:"combinator,omitempty" yaml:"combinator,omitempty"`
}

// Survey is a persistent definition created by a host
type Survey struct {
	ID          string          `json:"id" bson:"_id,omitempty" yaml:"id,omitempty"`
	HostID      string          `json:"hostId" bson:"hostId" yaml:"hostId,omitempty"`
	Title       string          `json:"title" bson:"title" yaml:"title"`
	Description string          `json:"description" bson:"description" yaml:"description,omitempty"`
	Groups      []QuestionGroup `json:"groups" bson:"groups" yaml:"groups"`
	CreatedAt   time.Time       `json:"createdAt" bson:"createdAt" yaml:"-"`
	UpdatedAt   time.Time       `json:"updatedAt" bson:"updatedAt" yaml:"-"`
}

// Question looks up a question by id across all groups
func (s *Survey) Question(id string) (*Question, bool) {
	for gi := range s.Groups {
		for qi := range s.Groups[gi].Questions {
			if s.Groups[gi].Questions[qi].ID == id {
				return &s.Groups[gi].Questions[qi], true
			}
		}
	}
	return nil, false
}

// QuestionCount is the number of declared questions
func (s *Survey) QuestionCount() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Questions)
	}
	return n
}
