package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"uplevel/internal/models/db_models"
)

type IPaymentRepository interface {
	Insert(ctx context.Context, payment *db_models.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Payment, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	// ListDueForRetry selects failed payments whose nextRetryAt has passed
	// and that are not flagged for manual review.
	ListDueForRetry(ctx context.Context, now int64, limit int) ([]db_models.Payment, error)
	// ClaimForRetry takes a lease on one due payment so two retry workers
	// never process it simultaneously. Returns false when the row was
	// already claimed or is no longer eligible.
	ClaimForRetry(ctx context.Context, id uuid.UUID, workerID string, now int64) (bool, error)
}

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) IPaymentRepository {
	return &PaymentRepository{db: db}
}

func (p *PaymentRepository) Insert(ctx context.Context, payment *db_models.Payment) error {
	return p.db.WithContext(ctx).Create(payment).Error
}

func (p *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Payment, error) {

	var payment db_models.Payment
	err := p.db.WithContext(ctx).First(&payment, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &payment, nil
}

func (p *PaymentRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return p.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (p *PaymentRepository) ListDueForRetry(ctx context.Context, now int64, limit int) ([]db_models.Payment, error) {

	var payments []db_models.Payment
	query := p.db.WithContext(ctx).
		Where("status = ? AND requires_manual_review = FALSE AND next_retry_at IS NOT NULL AND next_retry_at <= ?",
			db_models.PaymentFailed, now).
		Order("next_retry_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}

	return payments, nil
}

func (p *PaymentRepository) ClaimForRetry(ctx context.Context, id uuid.UUID, workerID string, now int64) (bool, error) {

	result := p.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("id = ? AND status = ? AND requires_manual_review = FALSE AND next_retry_at IS NOT NULL AND next_retry_at <= ?",
			id, db_models.PaymentFailed, now).
		Updates(map[string]interface{}{
			"status":    db_models.PaymentProcessing,
			"locked_by": workerID,
			"locked_at": now,
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
