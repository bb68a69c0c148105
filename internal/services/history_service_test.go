package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/soma-study/exam-service/internal/models"
)

func storedResult() *models.ExamResult {
	return &models.ExamResult{
		Questions: []models.Question{
			{Text: "Q1", Type: models.MultipleChoice, Topic: "Algebra",
				Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a"},
			{Text: "Q2", Type: models.TrueFalse, Topic: "Geometry", CorrectAnswer: "True"},
			{Text: "Q3", Type: models.TrueFalse, Topic: "Algebra", CorrectAnswer: "False"},
		},
		UserAnswers: []models.UserAnswer{
			models.TextAnswer("a"),
			models.TextAnswer("False"),
			models.TextAnswer("False"),
		},
		Evaluations: []models.Evaluation{
			{Score: 10, IsCorrect: true, Topic: "Algebra", Feedback: "Correct!"},
			{Score: 0, IsCorrect: false, Topic: "Geometry", Feedback: "The correct answer is: True"},
			{Score: 10, IsCorrect: true, Topic: "Algebra", Feedback: "Correct!"},
		},
		TimeTaken: 120,
		Config: models.ExamConfig{
			Type:         models.ExamMixed,
			Difficulty:   models.DifficultyIntermediate,
			Intensity:    models.IntensityModerate,
			NumQuestions: 3,
		},
		Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func storedRecord(t *testing.T, userID string) *models.ExamResultRecord {
	t.Helper()
	record, err := models.NewExamResultRecord(userID, storedResult())
	require.NoError(t, err)
	record.ID = 42
	return record
}

func TestHistoryGetRoundTrip(t *testing.T) {
	f := newTestFixture()
	svc := NewHistoryService(f.deps.Repo, f.deps.Logger)

	f.history.On("GetByID", mock.Anything, uint(42)).Return(storedRecord(t, "user-1"), nil)

	result, err := svc.Get(context.Background(), "user-1", 42)
	require.NoError(t, err)

	want := storedResult()
	assert.Equal(t, want.Questions, result.Questions)
	assert.Equal(t, want.UserAnswers, result.UserAnswers)
	assert.Equal(t, want.Evaluations, result.Evaluations)
	assert.Equal(t, want.TimeTaken, result.TimeTaken)
	assert.Equal(t, want.Config, result.Config)
}

func TestHistoryGetNotFound(t *testing.T) {
	f := newTestFixture()
	svc := NewHistoryService(f.deps.Repo, f.deps.Logger)

	f.history.On("GetByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), "user-1", 7)
	assert.ErrorIs(t, err, ErrHistoryNotFound)
}

func TestHistoryGetOwnership(t *testing.T) {
	f := newTestFixture()
	svc := NewHistoryService(f.deps.Repo, f.deps.Logger)

	f.history.On("GetByID", mock.Anything, uint(42)).Return(storedRecord(t, "owner"), nil)

	_, err := svc.Get(context.Background(), "intruder", 42)
	assert.ErrorIs(t, err, ErrHistoryAccessDenied)
}

func TestHistoryListClampsLimit(t *testing.T) {
	f := newTestFixture()
	svc := NewHistoryService(f.deps.Repo, f.deps.Logger)

	f.history.On("ListByUser", mock.Anything, "user-1", 20, 0).
		Return([]*models.ExamResultRecord{storedRecord(t, "user-1")}, int64(1), nil)

	// Both a zero and an oversized limit fall back to the default.
	for _, limit := range []int{0, 500} {
		records, total, err := svc.List(context.Background(), "user-1", limit, -3)
		require.NoError(t, err)
		assert.Len(t, records, 1)
		assert.EqualValues(t, 1, total)
	}
}

func TestHistoryReport(t *testing.T) {
	f := newTestFixture()
	svc := NewHistoryService(f.deps.Repo, f.deps.Logger)

	f.history.On("GetByID", mock.Anything, uint(42)).Return(storedRecord(t, "user-1"), nil)

	report, err := svc.Report(context.Background(), "user-1", 42)
	require.NoError(t, err)

	assert.Equal(t, 3, report.QuestionCount)
	assert.Equal(t, 2, report.CorrectCount)
	assert.InDelta(t, 6.667, report.AverageScore, 0.001)
	require.Len(t, report.Topics, 2)

	// Topics come back alphabetically.
	assert.Equal(t, "Algebra", report.Topics[0].Topic)
	assert.Equal(t, 2, report.Topics[0].Questions)
	assert.Equal(t, 2, report.Topics[0].Correct)
	assert.Equal(t, 10.0, report.Topics[0].AverageScore)
	assert.Equal(t, "Geometry", report.Topics[1].Topic)
	assert.Zero(t, report.Topics[1].Correct)
}

func TestHistoryExportXLSX(t *testing.T) {
	f := newTestFixture()
	svc := NewHistoryService(f.deps.Repo, f.deps.Logger)

	f.history.On("GetByID", mock.Anything, uint(42)).Return(storedRecord(t, "user-1"), nil)

	payload, err := svc.ExportXLSX(context.Background(), "user-1", 42)
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
	// XLSX files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, payload[:2])
}
