package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/soma-study/exam-service/internal/models"
)

// HistoryRepository persists finished exam results. Records are append-only
// and listed newest first.
type HistoryRepository interface {
	Append(ctx context.Context, record *models.ExamResultRecord) error
	GetByID(ctx context.Context, id uint) (*models.ExamResultRecord, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ExamResultRecord, int64, error)
}

// Repository aggregates all repositories behind one handle.
type Repository interface {
	History() HistoryRepository
}

// IsNotFoundError reports whether err represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
