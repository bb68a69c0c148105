package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soma-study/exam-service/internal/models"
	"github.com/soma-study/exam-service/internal/repositories"
)

type historyService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewHistoryService(repo repositories.Repository, logger *slog.Logger) HistoryService {
	return &historyService{repo: repo, logger: logger}
}

func (s *historyService) List(ctx context.Context, userID string, limit, offset int) ([]*models.ExamResultRecord, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	records, total, err := s.repo.History().ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list exam history: %w", err)
	}
	return records, total, nil
}

func (s *historyService) Get(ctx context.Context, userID string, id uint) (*models.ExamResult, error) {
	record, err := s.record(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	result, err := record.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to decode exam result %d: %w", id, err)
	}
	return result, nil
}

func (s *historyService) Report(ctx context.Context, userID string, id uint) (*ResultReport, error) {
	result, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return BuildReport(result), nil
}

func (s *historyService) ExportXLSX(ctx context.Context, userID string, id uint) ([]byte, error) {
	result, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	payload, err := buildResultWorkbook(result)
	if err != nil {
		return nil, fmt.Errorf("failed to build result workbook: %w", err)
	}
	s.logger.Info("Exported exam result", "result_id", id, "user_id", userID)
	return payload, nil
}

func (s *historyService) record(ctx context.Context, userID string, id uint) (*models.ExamResultRecord, error) {
	record, err := s.repo.History().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrHistoryNotFound
		}
		return nil, fmt.Errorf("failed to get exam result: %w", err)
	}
	if record.UserID != userID {
		return nil, ErrHistoryAccessDenied
	}
	return record, nil
}
