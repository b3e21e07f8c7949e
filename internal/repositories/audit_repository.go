package repositories

import (
	"context"

	"gorm.io/gorm"
	"uplevel/internal/models/db_models"
)

type IAuditRepository interface {
	Insert(ctx context.Context, event *db_models.AuditEvent) error
}

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) IAuditRepository {
	return &AuditRepository{db: db}
}

func (a *AuditRepository) Insert(ctx context.Context, event *db_models.AuditEvent) error {
	return a.db.WithContext(ctx).Create(event).Error
}
