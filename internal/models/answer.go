package models

import (
	"sort"
	"strings"
)

// AnswerKind tags the payload shape of a UserAnswer.
type AnswerKind string

const (
	// AnswerNone marks an unanswered question.
	AnswerNone AnswerKind = ""
	// AnswerText carries a single string (multiple choice, true/false,
	// short answer, essay).
	AnswerText AnswerKind = "text"
	// AnswerBlanks carries one string per blank, order-significant.
	AnswerBlanks AnswerKind = "blanks"
	// AnswerMatches carries a prompt -> chosen answer mapping.
	AnswerMatches AnswerKind = "matches"
)

// UserAnswer is a tagged variant over the answer shapes. Created fresh per
// question, mutated only by the answering user, read once at evaluation time.
type UserAnswer struct {
	Kind    AnswerKind        `json:"kind,omitempty"`
	Text    string            `json:"text,omitempty"`
	Blanks  []string          `json:"blanks,omitempty"`
	Matches map[string]string `json:"matches,omitempty"`
}

func TextAnswer(s string) UserAnswer {
	return UserAnswer{Kind: AnswerText, Text: s}
}

func BlanksAnswer(blanks []string) UserAnswer {
	return UserAnswer{Kind: AnswerBlanks, Blanks: blanks}
}

func MatchesAnswer(matches map[string]string) UserAnswer {
	return UserAnswer{Kind: AnswerMatches, Matches: matches}
}

// IsEmpty reports whether the answer counts as "not provided": absent, an
// empty string, or a blank sequence whose every element is the empty string.
// An empty matches mapping is still an attempted answer (0 matches).
func (a UserAnswer) IsEmpty() bool {
	switch a.Kind {
	case AnswerNone:
		return true
	case AnswerText:
		return a.Text == ""
	case AnswerBlanks:
		for _, b := range a.Blanks {
			if b != "" {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders the answer for feedback and export surfaces.
func (a UserAnswer) String() string {
	switch a.Kind {
	case AnswerText:
		return a.Text
	case AnswerBlanks:
		return strings.Join(a.Blanks, ", ")
	case AnswerMatches:
		prompts := make([]string, 0, len(a.Matches))
		for p := range a.Matches {
			prompts = append(prompts, p)
		}
		sort.Strings(prompts)
		parts := make([]string, 0, len(prompts))
		for _, p := range prompts {
			parts = append(parts, p+" -> "+a.Matches[p])
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}
