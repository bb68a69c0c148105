package services

import (
	"context"
	"log/slog"

	"github.com/soma-study/exam-service/internal/ai"
	"github.com/soma-study/exam-service/internal/cache"
	"github.com/soma-study/exam-service/internal/evaluator"
	"github.com/soma-study/exam-service/internal/events"
	"github.com/soma-study/exam-service/internal/models"
	"github.com/soma-study/exam-service/internal/repositories"
	"github.com/soma-study/exam-service/internal/session"
	"github.com/soma-study/exam-service/internal/utils"
)

// ===== REQUEST / RESPONSE TYPES =====

type StartExamRequest struct {
	Config    models.ExamConfig `json:"config" validate:"required"`
	Materials []models.Material `json:"materials" validate:"required,min=1,dive"`
}

type StartPracticeRequest struct {
	Config models.PracticeConfig `json:"config" validate:"required"`
}

type AnswerRequest struct {
	Index  int               `json:"index" validate:"min=0"`
	Answer models.UserAnswer `json:"answer"`
}

// ExamSessionView is the client-facing snapshot of a live exam session.
type ExamSessionView struct {
	SessionID     string              `json:"session_id"`
	State         session.State       `json:"state"`
	Current       int                 `json:"current"`
	QuestionCount int                 `json:"question_count"`
	TimeLeft      int                 `json:"time_left"`
	TotalTime     int                 `json:"total_time"`
	Questions     []models.Question   `json:"questions"`
	Answers       []models.UserAnswer `json:"answers"`
}

// PracticeSessionView is the client-facing snapshot of a practice session.
type PracticeSessionView struct {
	SessionID     string             `json:"session_id"`
	Current       int                `json:"current"`
	QuestionCount int                `json:"question_count"`
	Question      *models.Question   `json:"question,omitempty"`
	Answer        models.UserAnswer  `json:"answer"`
	Evaluation    *models.Evaluation `json:"evaluation,omitempty"`
	CorrectCount  int                `json:"correct_count"`
	Finished      bool               `json:"finished"`
}

// ===== SERVICE INTERFACES =====

type ExamService interface {
	Start(ctx context.Context, userID string, req *StartExamRequest) (*ExamSessionView, error)
	Get(ctx context.Context, userID, sessionID string) (*ExamSessionView, error)
	Answer(ctx context.Context, userID, sessionID string, req *AnswerRequest) error
	Next(ctx context.Context, userID, sessionID string) (*ExamSessionView, error)
	Previous(ctx context.Context, userID, sessionID string) (*ExamSessionView, error)
	Submit(ctx context.Context, userID, sessionID string) (*models.ExamResult, error)

	// Run drives the one-second countdown ticks until ctx is cancelled.
	Run(ctx context.Context)
}

type PracticeService interface {
	Start(ctx context.Context, userID string, req *StartPracticeRequest) (*PracticeSessionView, error)
	Get(ctx context.Context, userID, sessionID string) (*PracticeSessionView, error)
	Answer(ctx context.Context, userID, sessionID string, answer models.UserAnswer) error
	Check(ctx context.Context, userID, sessionID string) (*models.Evaluation, error)
	Next(ctx context.Context, userID, sessionID string) (*PracticeSessionView, error)
}

type HistoryService interface {
	List(ctx context.Context, userID string, limit, offset int) ([]*models.ExamResultRecord, int64, error)
	Get(ctx context.Context, userID string, id uint) (*models.ExamResult, error)
	Report(ctx context.Context, userID string, id uint) (*ResultReport, error)
	ExportXLSX(ctx context.Context, userID string, id uint) ([]byte, error)
}

// ServiceManager aggregates all services behind one handle.
type ServiceManager interface {
	Exam() ExamService
	Practice() PracticeService
	History() HistoryService
}

type serviceManager struct {
	exam     ExamService
	practice PracticeService
	history  HistoryService
}

type Deps struct {
	Gateway   ai.Gateway
	Evaluator *evaluator.Evaluator
	Repo      repositories.Repository
	Cache     cache.Store
	Publisher events.EventPublisher
	Validator *utils.Validator
	Logger    *slog.Logger
}

func NewServiceManager(deps Deps) ServiceManager {
	return &serviceManager{
		exam:     NewExamService(deps),
		practice: NewPracticeService(deps),
		history:  NewHistoryService(deps.Repo, deps.Logger),
	}
}

func (m *serviceManager) Exam() ExamService         { return m.exam }
func (m *serviceManager) Practice() PracticeService { return m.practice }
func (m *serviceManager) History() HistoryService   { return m.history }
