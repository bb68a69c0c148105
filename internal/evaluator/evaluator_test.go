package evaluator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soma-study/exam-service/internal/models"
)

type stubGrader struct {
	evaluation models.Evaluation
	err        error
	calls      int
}

func (g *stubGrader) GradeAnswer(ctx context.Context, q models.Question, answer string) (models.Evaluation, error) {
	g.calls++
	return g.evaluation, g.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEvaluateEmptyAnswerSkipsGrader(t *testing.T) {
	grader := &stubGrader{}
	e := New(grader, testLogger())

	q := models.Question{Text: "Explain gravity.", Type: models.Essay, Topic: "Physics"}

	for _, answer := range []models.UserAnswer{
		{},
		models.TextAnswer(""),
		models.BlanksAnswer([]string{"", ""}),
	} {
		ev := e.Evaluate(context.Background(), q, answer)
		assert.False(t, ev.IsCorrect)
		assert.Zero(t, ev.Score)
		assert.Equal(t, "No answer was provided.", ev.Feedback)
		assert.Equal(t, "Physics", ev.Topic)
	}
	assert.Zero(t, grader.calls, "grader must not be called for empty answers")
}

func TestEvaluateObjectiveBypassesGrader(t *testing.T) {
	grader := &stubGrader{}
	e := New(grader, testLogger())

	q := models.Question{Type: models.TrueFalse, CorrectAnswer: "True", Topic: "Logic"}
	ev := e.Evaluate(context.Background(), q, models.TextAnswer("true"))

	assert.True(t, ev.IsCorrect)
	assert.Zero(t, grader.calls)
}

func TestEvaluateSubjectiveThreshold(t *testing.T) {
	q := models.Question{Type: models.ShortAnswer, Topic: "History"}

	tests := []struct {
		name      string
		score     float64
		isCorrect bool
	}{
		{"above threshold", 8.5, true},
		{"exactly at threshold", 7.0, true},
		{"below threshold", 6.9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grader := &stubGrader{evaluation: models.Evaluation{Score: tt.score, Feedback: "graded"}}
			e := New(grader, testLogger())

			ev := e.Evaluate(context.Background(), q, models.TextAnswer("some answer"))
			assert.Equal(t, tt.isCorrect, ev.IsCorrect)
			assert.Equal(t, tt.score, ev.Score)
			assert.Equal(t, "History", ev.Topic, "topic is always taken from the question")
		})
	}
}

func TestEvaluateSubjectiveFallbackOnGraderError(t *testing.T) {
	grader := &stubGrader{err: errors.New("provider unavailable")}
	e := New(grader, testLogger())

	q := models.Question{Type: models.Essay, Topic: "Biology"}
	ev := e.Evaluate(context.Background(), q, models.TextAnswer("cells divide"))

	assert.False(t, ev.IsCorrect)
	assert.Zero(t, ev.Score)
	assert.Equal(t, "Could not automatically perform a detailed evaluation for this answer.", ev.Feedback)
	assert.Equal(t, "Biology", ev.Topic)
}
