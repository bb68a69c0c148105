package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/soma-study/exam-service/internal/cache"
	"github.com/soma-study/exam-service/internal/evaluator"
	"github.com/soma-study/exam-service/internal/events"
	"github.com/soma-study/exam-service/internal/models"
	"github.com/soma-study/exam-service/internal/repositories"
	"github.com/soma-study/exam-service/internal/utils"
)

// MockGateway mocks the AI gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ExtractTopics(ctx context.Context, materials []models.Material) ([]string, error) {
	args := m.Called(ctx, materials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGateway) GenerateExam(ctx context.Context, cfg models.ExamConfig, topics []string) ([]models.Question, error) {
	args := m.Called(ctx, cfg, topics)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockGateway) GeneratePracticeQuiz(ctx context.Context, cfg models.PracticeConfig) ([]models.Question, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockGateway) GradeAnswer(ctx context.Context, q models.Question, answer string) (models.Evaluation, error) {
	args := m.Called(ctx, q, answer)
	return args.Get(0).(models.Evaluation), args.Error(1)
}

// MockHistoryRepository mocks the history repository.
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, record *models.ExamResultRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryRepository) GetByID(ctx context.Context, id uint) (*models.ExamResultRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamResultRecord), args.Error(1)
}

func (m *MockHistoryRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ExamResultRecord, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.ExamResultRecord), args.Get(1).(int64), args.Error(2)
}

type mockRepository struct {
	history *MockHistoryRepository
}

func (r *mockRepository) History() repositories.HistoryRepository {
	return r.history
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testFixture struct {
	gateway   *MockGateway
	history   *MockHistoryRepository
	publisher *events.MockEventPublisher
	deps      Deps
}

func newTestFixture() *testFixture {
	logger := discardLogger()
	gateway := &MockGateway{}
	history := &MockHistoryRepository{}
	publisher := events.NewMockEventPublisher(logger)

	return &testFixture{
		gateway:   gateway,
		history:   history,
		publisher: publisher,
		deps: Deps{
			Gateway:   gateway,
			Evaluator: evaluator.New(gateway, logger),
			Repo:      &mockRepository{history: history},
			Cache:     cache.NoopStore{},
			Publisher: publisher,
			Validator: utils.NewValidator(),
			Logger:    logger,
		},
	}
}

func (f *testFixture) eventTypes() []events.EventType {
	published := f.publisher.PublishedEvents()
	types := make([]events.EventType, 0, len(published))
	for _, e := range published {
		types = append(types, e.Type)
	}
	return types
}
