// internal/models/answer.go
package models

import (
	"fmt"
	"strings"
)

// AnswerValue is the tagged union for answer payloads. Exactly one concrete
// type exists per question type; untyped values never cross the controller
// boundary.
type AnswerValue interface {
	answerValue()
	Raw() interface{}
}

type BoolAnswer struct {
	Value bool `json:"value"`
}

func (BoolAnswer) answerValue() {}
func (a BoolAnswer) Raw() interface{} { return a.Value }

type TextAnswer struct {
	Value string `json:"value"`
}

func (TextAnswer) answerValue() {}
func (a TextAnswer) Raw() interface{} { return a.Value }

// ChoiceAnswer holds a single selected option.
type ChoiceAnswer struct {
	Value string `json:"value"`
}

func (ChoiceAnswer) answerValue() {}
func (a ChoiceAnswer) Raw() interface{} { return a.Value }

// ChoiceListAnswer holds the ordered selections of a multi-choice question.
type ChoiceListAnswer struct {
	Values []string `json:"values"`
}

func (ChoiceListAnswer) answerValue() {}
func (a ChoiceListAnswer) Raw() interface{} {
	out := make([]interface{}, len(a.Values))
	for i, v := range a.Values {
		out[i] = v
	}
	return out
}

// AnswerSet maps question keys to typed answers. It grows monotonically
// during onboarding; a key is never rewritten once answered.
type AnswerSet map[string]AnswerValue

// Bool reports the boolean answer for key, false when absent or not boolean.
func (s AnswerSet) Bool(key string) bool {
	if v, ok := s[key].(BoolAnswer); ok {
		return v.Value
	}
	return false
}

// Text returns the free-text or single-choice answer for key.
func (s AnswerSet) Text(key string) string {
	switch v := s[key].(type) {
	case TextAnswer:
		return v.Value
	case ChoiceAnswer:
		return v.Value
	}
	return ""
}

// Choices returns every selected option for key. Single-choice answers are
// returned as a one-element list so rules can treat both shapes uniformly.
func (s AnswerSet) Choices(key string) []string {
	switch v := s[key].(type) {
	case ChoiceListAnswer:
		return v.Values
	case ChoiceAnswer:
		return []string{v.Value}
	}
	return nil
}

// HasChoice reports whether any selection for key contains the given
// substring, matched case-insensitively.
func (s AnswerSet) HasChoice(key, substring string) bool {
	needle := strings.ToLower(substring)
	for _, c := range s.Choices(key) {
		if strings.Contains(strings.ToLower(c), needle) {
			return true
		}
	}
	return false
}

// NormalizeBool converts accepted boolean literals to a BoolAnswer.
// Tolerates Go bools and the language variants used by the questionnaire.
func NormalizeBool(raw interface{}) (BoolAnswer, error) {
	switch v := raw.(type) {
	case bool:
		return BoolAnswer{Value: v}, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "sim", "yes", "s":
			return BoolAnswer{Value: true}, nil
		case "false", "não", "nao", "no", "n":
			return BoolAnswer{Value: false}, nil
		}
		return BoolAnswer{}, fmt.Errorf("unrecognized boolean literal: %q", v)
	default:
		return BoolAnswer{}, fmt.Errorf("not a boolean value: %T", raw)
	}
}
