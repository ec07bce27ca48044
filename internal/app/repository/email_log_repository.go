package repository

import (
	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/pkg/logger"
	"gorm.io/gorm"
)

type EmailLogRepository interface {
	Create(log *model.EmailLog) error
}

type emailLogRepository struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &emailLogRepository{db: db}
}

func (r *emailLogRepository) Create(entry *model.EmailLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to record email log in database", err, map[string]interface{}{
			"subject": entry.Subject,
			"status":  entry.Status,
		})
		return err
	}
	return nil
}
