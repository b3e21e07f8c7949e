package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"uplevel/internal/models/db_models"
)

type ICommissionRepository interface {
	// CreateBatch persists every row of one commission run in a single
	// transaction so a mid-run failure never leaves a partial set behind.
	CreateBatch(ctx context.Context, commissions []*db_models.Commission) error
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.Commission, error)
	// SumApproved totals the approved commissions among ids that belong to
	// userID; used when aggregating a payout batch.
	SumApproved(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (decimal.Decimal, error)
	HasRankBonus(ctx context.Context, userID uuid.UUID, rankCode string) (bool, error)
}

type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) ICommissionRepository {
	return &CommissionRepository{db: db}
}

func (c *CommissionRepository) CreateBatch(ctx context.Context, commissions []*db_models.Commission) error {
	if len(commissions) == 0 {
		return nil
	}
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, commission := range commissions {
			if err := tx.Create(commission).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *CommissionRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.Commission, error) {

	var commissions []db_models.Commission
	if len(ids) == 0 {
		return commissions, nil
	}

	err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&commissions).Error
	if err != nil {
		return nil, err
	}

	return commissions, nil
}

func (c *CommissionRepository) SumApproved(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (decimal.Decimal, error) {

	if len(ids) == 0 {
		return decimal.Zero, nil
	}

	var total decimal.Decimal
	err := c.db.WithContext(ctx).
		Model(&db_models.Commission{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND id IN ? AND status = ?", userID, ids, db_models.CommissionApproved).
		Scan(&total).Error

	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

// HasRankBonus reports whether a rank bonus for the given rank was already
// credited; rank bonuses are strictly one-time.
func (c *CommissionRepository) HasRankBonus(ctx context.Context, userID uuid.UUID, rankCode string) (bool, error) {

	var count int64
	err := c.db.WithContext(ctx).
		Model(&db_models.Commission{}).
		Where("user_id = ? AND type = ? AND rank_code = ?", userID, db_models.CommissionRankBonus, rankCode).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}
