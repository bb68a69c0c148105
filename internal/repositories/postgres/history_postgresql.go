package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/soma-study/exam-service/internal/models"
	"github.com/soma-study/exam-service/internal/repositories"
)

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) repositories.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, record *models.ExamResultRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to append exam result: %w", err)
	}
	return nil
}

func (r *historyRepository) GetByID(ctx context.Context, id uint) (*models.ExamResultRecord, error) {
	var record models.ExamResultRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *historyRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ExamResultRecord, int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&models.ExamResultRecord{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count exam results: %w", err)
	}

	var records []*models.ExamResultRecord
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list exam results: %w", err)
	}
	return records, total, nil
}

type repository struct {
	history repositories.HistoryRepository
}

// NewRepository wires the postgres-backed repositories.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{history: NewHistoryRepository(db)}
}

func (r *repository) History() repositories.HistoryRepository {
	return r.history
}
