package evaluator

import (
	"context"
	"log/slog"

	"github.com/soma-study/exam-service/internal/models"
)

// SubjectiveGrader grades free-text answers. The AI gateway implements this;
// tests substitute their own.
type SubjectiveGrader interface {
	GradeAnswer(ctx context.Context, q models.Question, answer string) (models.Evaluation, error)
}

// Evaluator scores one answer per question: objective types locally,
// subjective types via the grader with a uniform fallback on failure.
type Evaluator struct {
	grader SubjectiveGrader
	logger *slog.Logger
}

func New(grader SubjectiveGrader, logger *slog.Logger) *Evaluator {
	return &Evaluator{grader: grader, logger: logger}
}

// Evaluate produces the Evaluation for a single question. It never returns
// an error: a grader failure degrades to the fallback evaluation so each
// question in a batch stays independent.
func (e *Evaluator) Evaluate(ctx context.Context, q models.Question, answer models.UserAnswer) models.Evaluation {
	if answer.IsEmpty() {
		return models.Evaluation{
			Score:     0,
			Feedback:  feedbackNoAnswer,
			IsCorrect: false,
			Topic:     q.Topic,
		}
	}

	if !q.Type.IsSubjective() {
		return Objective(q, answer)
	}

	evaluation, err := e.grader.GradeAnswer(ctx, q, answer.Text)
	if err != nil {
		e.logger.Error("subjective grading failed, using fallback evaluation",
			"question_type", q.Type,
			"topic", q.Topic,
			"error", err)
		return models.Evaluation{
			Score:     0,
			Feedback:  feedbackNoEvaluation,
			IsCorrect: false,
			Topic:     q.Topic,
		}
	}

	evaluation.Topic = q.Topic
	evaluation.IsCorrect = evaluation.Score >= models.SubjectivePassScore
	return evaluation
}
