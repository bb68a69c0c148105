package session

import (
	"context"
	"errors"

	"github.com/soma-study/exam-service/internal/models"
)

var (
	ErrAlreadyChecked = errors.New("answer already checked for this question")
	ErrNotChecked     = errors.New("current answer has not been checked yet")
	ErrFinished       = errors.New("practice session already finished")
)

// Practice runs an untimed quiz one question at a time: the user answers,
// checks, reads the evaluation, then advances. A running correct count
// accumulates across checks.
type Practice struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Questions []models.Question     `json:"questions"`
	Config    models.PracticeConfig `json:"config"`

	Current      int                `json:"current"`
	Answer       models.UserAnswer  `json:"answer"`
	Evaluation   *models.Evaluation `json:"evaluation,omitempty"`
	CorrectCount int                `json:"correct_count"`
	Finished     bool               `json:"finished"`
}

func NewPractice(id, userID string, questions []models.Question, cfg models.PracticeConfig) *Practice {
	return &Practice{
		ID:        id,
		UserID:    userID,
		Questions: questions,
		Config:    cfg,
	}
}

// SetAnswer records the answer for the current question. Once the answer has
// been checked it is locked until Next.
func (p *Practice) SetAnswer(answer models.UserAnswer) error {
	if p.Finished {
		return ErrFinished
	}
	if p.Evaluation != nil {
		return ErrAlreadyChecked
	}
	p.Answer = answer
	return nil
}

// Check evaluates the current answer exactly once and bumps the correct
// count when the evaluation passes.
func (p *Practice) Check(ctx context.Context, ev AnswerEvaluator) (models.Evaluation, error) {
	if p.Finished {
		return models.Evaluation{}, ErrFinished
	}
	if p.Evaluation != nil {
		return models.Evaluation{}, ErrAlreadyChecked
	}

	evaluation := ev.Evaluate(ctx, p.Questions[p.Current], p.Answer)
	p.Evaluation = &evaluation
	if evaluation.IsCorrect {
		p.CorrectCount++
	}
	return evaluation, nil
}

// Next advances to the following question, or finishes the session when the
// last question has been checked. Advancing requires a checked answer.
func (p *Practice) Next() error {
	if p.Finished {
		return ErrFinished
	}
	if p.Evaluation == nil {
		return ErrNotChecked
	}
	if p.Current < len(p.Questions)-1 {
		p.Current++
		p.Answer = models.UserAnswer{}
		p.Evaluation = nil
		return nil
	}
	p.Finished = true
	return nil
}

// Score reports correct answers so far out of the total question count.
func (p *Practice) Score() (correct, total int) {
	return p.CorrectCount, len(p.Questions)
}
