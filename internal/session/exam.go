package session

import (
	"context"
	"errors"
	"time"

	"github.com/soma-study/exam-service/internal/models"
)

// State is the lifecycle phase of an exam session.
type State string

const (
	StateActive     State = "active"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
)

var (
	ErrNotActive       = errors.New("session is not active")
	ErrAlreadyFinished = errors.New("session already completed")
	ErrIndexOutOfRange = errors.New("question index out of range")
)

// AnswerEvaluator scores one answer. Evaluate never fails; subjective-grading
// failures degrade to a fallback evaluation inside the evaluator.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, q models.Question, answer models.UserAnswer) models.Evaluation
}

// Exam sequences a user through a fixed question list under a countdown.
// Transitions: Active(index) -> Submitting -> Completed. Not safe for
// concurrent use; the owning service serializes access.
type Exam struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Questions []models.Question   `json:"questions"`
	Answers   []models.UserAnswer `json:"answers"`
	Config    models.ExamConfig   `json:"config"`

	State     State     `json:"state"`
	Current   int       `json:"current"`
	TotalTime int       `json:"total_time"` // seconds
	TimeLeft  int       `json:"time_left"`  // seconds
	StartedAt time.Time `json:"started_at"`

	Result *models.ExamResult `json:"result,omitempty"`
}

// NewExam allocates an answer slot per question and initializes the countdown
// to perQuestionSeconds(intensity) * questionCount.
func NewExam(id, userID string, questions []models.Question, cfg models.ExamConfig) *Exam {
	total := cfg.Intensity.PerQuestionSeconds() * len(questions)
	return &Exam{
		ID:        id,
		UserID:    userID,
		Questions: questions,
		Answers:   make([]models.UserAnswer, len(questions)),
		Config:    cfg,
		State:     StateActive,
		Current:   0,
		TotalTime: total,
		TimeLeft:  total,
		StartedAt: time.Now(),
	}
}

// Answer overwrites the answer slot at index i. The index need not equal the
// current position, so prior questions can be revisited.
func (e *Exam) Answer(i int, answer models.UserAnswer) error {
	if e.State != StateActive {
		return ErrNotActive
	}
	if i < 0 || i >= len(e.Questions) {
		return ErrIndexOutOfRange
	}
	e.Answers[i] = answer
	return nil
}

// Next advances the current index; a no-op on the last question.
func (e *Exam) Next() {
	if e.State == StateActive && e.Current < len(e.Questions)-1 {
		e.Current++
	}
}

// Previous moves the current index back; a no-op on the first question.
func (e *Exam) Previous() {
	if e.State == StateActive && e.Current > 0 {
		e.Current--
	}
}

// Tick decrements the countdown by one second. Reaching zero forces the
// transition to Submitting regardless of position or answered state; the
// return value tells the caller to run Submit.
func (e *Exam) Tick() bool {
	if e.State != StateActive {
		return false
	}
	if e.TimeLeft > 0 {
		e.TimeLeft--
	}
	if e.TimeLeft == 0 {
		e.State = StateSubmitting
		return true
	}
	return false
}

// Submit evaluates every question in order, one evaluator call at a time, and
// completes the session with the finished result. Valid from Active (manual
// submit) or Submitting (countdown-forced). On context cancellation the
// session stays in Submitting.
func (e *Exam) Submit(ctx context.Context, ev AnswerEvaluator) (*models.ExamResult, error) {
	switch e.State {
	case StateActive:
		e.State = StateSubmitting
	case StateSubmitting:
		// Forced by the countdown; proceed.
	default:
		return nil, ErrAlreadyFinished
	}

	evaluations := make([]models.Evaluation, 0, len(e.Questions))
	for i, q := range e.Questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		evaluations = append(evaluations, ev.Evaluate(ctx, q, e.Answers[i]))
	}

	result := &models.ExamResult{
		Questions:   e.Questions,
		UserAnswers: e.Answers,
		Evaluations: evaluations,
		TimeTaken:   e.TotalTime - e.TimeLeft,
		Config:      e.Config,
		Timestamp:   time.Now(),
	}
	e.State = StateCompleted
	e.Result = result
	return result, nil
}
