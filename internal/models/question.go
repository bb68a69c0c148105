package models

import "strings"

type QuestionType string

const (
	MultipleChoice QuestionType = "Multiple Choice"
	TrueFalse      QuestionType = "True/False"
	FillInBlank    QuestionType = "Fill-in-the-Blank"
	Matching       QuestionType = "Matching"
	ShortAnswer    QuestionType = "Short Answer"
	Essay          QuestionType = "Essay"
)

// AllQuestionTypes is the closed set of supported question types. Any other
// value coming back from the generator is a boundary validation error.
var AllQuestionTypes = []QuestionType{
	MultipleChoice,
	TrueFalse,
	FillInBlank,
	Matching,
	ShortAnswer,
	Essay,
}

func (t QuestionType) IsValid() bool {
	for _, v := range AllQuestionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsSubjective reports whether answers of this type are graded by the AI
// gateway rather than programmatically.
func (t QuestionType) IsSubjective() bool {
	return t == ShortAnswer || t == Essay
}

// BlankMarker is the token repeated in fill-in-the-blank question text, one
// occurrence per expected answer.
const BlankMarker = "___"

type MatchingPair struct {
	Prompt string `json:"prompt" validate:"required"`
	Answer string `json:"answer" validate:"required"`
}

// Question is a single assessment item. Exactly one of CorrectAnswer,
// CorrectAnswers or MatchingPairs is populated, consistent with Type.
type Question struct {
	Text  string       `json:"question" validate:"required"`
	Type  QuestionType `json:"type" validate:"required,question_type"`
	Topic string       `json:"topic"`

	// Multiple choice only, expected length 4.
	Options []string `json:"options,omitempty"`

	// Multiple choice, true/false and the model answer for subjective types.
	CorrectAnswer string `json:"correctAnswer,omitempty"`

	// Fill-in-the-blank, one entry per blank, order-significant.
	CorrectAnswers []string `json:"correctAnswers,omitempty"`

	// Matching only.
	MatchingPairs []MatchingPair `json:"matchingPairs,omitempty"`
}

// BlankCount returns the number of blank markers in the question text.
func (q *Question) BlankCount() int {
	return strings.Count(q.Text, BlankMarker)
}
