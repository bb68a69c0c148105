package evaluator

import (
	"fmt"
	"strings"

	"github.com/soma-study/exam-service/internal/models"
)

const (
	feedbackCorrect      = "Correct!"
	feedbackNoAnswer     = "No answer was provided."
	feedbackUnsupported  = "This question type cannot be evaluated automatically."
	feedbackNoEvaluation = "Could not automatically perform a detailed evaluation for this answer."
)

// normalize applies the comparison rule shared by every objective type:
// surrounding whitespace is ignored and matching is case-insensitive.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Objective scores a multiple-choice, true/false, fill-in-the-blank or
// matching answer. Pure and deterministic; no partial credit is granted,
// the score is always 0 or 10.
func Objective(q models.Question, answer models.UserAnswer) models.Evaluation {
	var (
		isCorrect bool
		feedback  string
	)

	switch q.Type {
	case models.MultipleChoice, models.TrueFalse:
		isCorrect = answer.Kind == models.AnswerText &&
			normalize(answer.Text) == normalize(q.CorrectAnswer)
		if isCorrect {
			feedback = feedbackCorrect
		} else {
			feedback = fmt.Sprintf("The correct answer is: %s", q.CorrectAnswer)
		}

	case models.FillInBlank:
		if answer.Kind == models.AnswerBlanks && len(answer.Blanks) == len(q.CorrectAnswers) {
			isCorrect = true
			for i, blank := range answer.Blanks {
				if normalize(blank) != normalize(q.CorrectAnswers[i]) {
					isCorrect = false
					break
				}
			}
		}
		if isCorrect {
			feedback = feedbackCorrect
		} else {
			feedback = fmt.Sprintf("The correct answers are: %s", strings.Join(q.CorrectAnswers, ", "))
		}

	case models.Matching:
		total := len(q.MatchingPairs)
		matched := 0
		if answer.Kind == models.AnswerMatches {
			for _, pair := range q.MatchingPairs {
				chosen, ok := answer.Matches[pair.Prompt]
				if ok && chosen != "" && normalize(chosen) == normalize(pair.Answer) {
					matched++
				}
			}
			isCorrect = matched == total
		}
		feedback = fmt.Sprintf("You got %d out of %d matches correct.", matched, total)

	default:
		isCorrect = false
		feedback = feedbackUnsupported
	}

	score := 0.0
	if isCorrect {
		score = models.MaxScore
	}

	return models.Evaluation{
		Score:     score,
		Feedback:  feedback,
		IsCorrect: isCorrect,
		Topic:     q.Topic,
	}
}
