// internal/models/question.go
package models

// QuestionType enumerates the supported answer shapes.
type QuestionType string

const (
	QuestionTypeBoolean      QuestionType = "boolean"
	QuestionTypeSingleChoice QuestionType = "single_choice"
	QuestionTypeMultiChoice  QuestionType = "multi_choice"
	QuestionTypeText         QuestionType = "text"
)

// Question is one immutable catalog entry, identified by Key.
type Question struct {
	Key           string         `json:"key"`
	Prompt        string         `json:"prompt"`
	Type          QuestionType   `json:"type"`
	Options       []string       `json:"options,omitempty"`
	AllowMultiple bool           `json:"allowMultiple"`
	Order         int            `json:"order"`
	RequirementID string         `json:"requirementId,omitempty"`
	FollowUp      *FollowUp      `json:"followUp,omitempty"`
	SkipWhen      *SkipCondition `json:"skipWhen,omitempty"`
}

// FollowUp is a supplementary free-text question shown only when the parent
// question receives a specific answer. It is not a catalog question itself:
// the answer is persisted through the profile-field update path.
type FollowUp struct {
	OnAnswer     string `json:"onAnswer"`
	Prompt       string `json:"prompt"`
	ProfileField string `json:"profileField"`
}

// SkipCondition suppresses a question unless a previously answered question
// holds one of the listed values.
type SkipCondition struct {
	QuestionKey string   `json:"questionKey"`
	AnswerNotIn []string `json:"answerNotIn"`
}
