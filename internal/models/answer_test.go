package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAnswerIsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		answer UserAnswer
		empty  bool
	}{
		{"zero value", UserAnswer{}, true},
		{"empty text", TextAnswer(""), true},
		{"whitespace text counts as provided", TextAnswer(" "), false},
		{"text", TextAnswer("Paris"), false},
		{"all blanks empty", BlanksAnswer([]string{"", ""}), true},
		{"one blank filled", BlanksAnswer([]string{"", "moon"}), false},
		{"empty matches map still attempted", MatchesAnswer(map[string]string{}), false},
		{"matches", MatchesAnswer(map[string]string{"a": "b"}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.answer.IsEmpty())
		})
	}
}

func TestUserAnswerString(t *testing.T) {
	assert.Equal(t, "Paris", TextAnswer("Paris").String())
	assert.Equal(t, "sun, moon", BlanksAnswer([]string{"sun", "moon"}).String())
	assert.Equal(t, "France -> Paris; Japan -> Tokyo", MatchesAnswer(map[string]string{
		"Japan":  "Tokyo",
		"France": "Paris",
	}).String(), "prompts are sorted for stable output")
	assert.Empty(t, UserAnswer{}.String())
}
