package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"uplevel/internal/models/db_models"
)

type IAutoshipRepository interface {
	Insert(ctx context.Context, autoship *db_models.Autoship) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Autoship, error)
	ListDue(ctx context.Context, now int64, limit int) ([]db_models.Autoship, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

type AutoshipRepository struct {
	db *gorm.DB
}

func NewAutoshipRepository(db *gorm.DB) IAutoshipRepository {
	return &AutoshipRepository{db: db}
}

func (a *AutoshipRepository) Insert(ctx context.Context, autoship *db_models.Autoship) error {
	return a.db.WithContext(ctx).Create(autoship).Error
}

func (a *AutoshipRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Autoship, error) {

	var autoship db_models.Autoship
	err := a.db.WithContext(ctx).First(&autoship, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &autoship, nil
}

func (a *AutoshipRepository) ListDue(ctx context.Context, now int64, limit int) ([]db_models.Autoship, error) {

	var autoships []db_models.Autoship
	query := a.db.WithContext(ctx).
		Where("status = ? AND next_run_at <= ?", db_models.AutoshipActive, now).
		Order("next_run_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&autoships).Error; err != nil {
		return nil, err
	}

	return autoships, nil
}

func (a *AutoshipRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return a.db.WithContext(ctx).
		Model(&db_models.Autoship{}).
		Where("id = ?", id).
		Updates(fields).Error
}
