package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"uplevel/internal/models/db_models"
)

type IOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Order, error)
	ListItems(ctx context.Context, orderID uuid.UUID) ([]db_models.OrderItem, error)
	// SumPaidTotals returns the paid-order total for one distributor of
	// record inside a [start, end) unix-second window.
	SumPaidTotals(ctx context.Context, distributorID uuid.UUID, start, end int64) (decimal.Decimal, error)
	SumPaidTotalsForUsers(ctx context.Context, distributorIDs []uuid.UUID, start, end int64) (map[uuid.UUID]decimal.Decimal, error)
	CountPaidOrdersForUsers(ctx context.Context, distributorIDs []uuid.UUID, start, end int64) (map[uuid.UUID]int64, error)
	Insert(ctx context.Context, order *db_models.Order) error
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) IOrderRepository {
	return &OrderRepository{db: db}
}

func (o *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Order, error) {

	var order db_models.Order
	err := o.db.WithContext(ctx).First(&order, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &order, nil
}

func (o *OrderRepository) ListItems(ctx context.Context, orderID uuid.UUID) ([]db_models.OrderItem, error) {

	var items []db_models.OrderItem
	err := o.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

type userTotalRow struct {
	DistributorID uuid.UUID
	Total         decimal.Decimal
}

func (o *OrderRepository) SumPaidTotals(ctx context.Context, distributorID uuid.UUID, start, end int64) (decimal.Decimal, error) {

	totals, err := o.SumPaidTotalsForUsers(ctx, []uuid.UUID{distributorID}, start, end)
	if err != nil {
		return decimal.Zero, err
	}

	return totals[distributorID], nil
}

func (o *OrderRepository) SumPaidTotalsForUsers(ctx context.Context, distributorIDs []uuid.UUID, start, end int64) (map[uuid.UUID]decimal.Decimal, error) {

	result := make(map[uuid.UUID]decimal.Decimal, len(distributorIDs))
	for _, id := range distributorIDs {
		result[id] = decimal.Zero
	}
	if len(distributorIDs) == 0 {
		return result, nil
	}

	var rows []userTotalRow
	err := o.db.WithContext(ctx).
		Model(&db_models.Order{}).
		Select("distributor_id, COALESCE(SUM(total), 0) AS total").
		Where("distributor_id IN ? AND status = ? AND paid_at >= ? AND paid_at < ?",
			distributorIDs, db_models.OrderPaid, start, end).
		Group("distributor_id").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.DistributorID] = row.Total
	}

	return result, nil
}

type userCountRow struct {
	DistributorID uuid.UUID
	Count         int64
}

func (o *OrderRepository) CountPaidOrdersForUsers(ctx context.Context, distributorIDs []uuid.UUID, start, end int64) (map[uuid.UUID]int64, error) {

	result := make(map[uuid.UUID]int64, len(distributorIDs))
	if len(distributorIDs) == 0 {
		return result, nil
	}

	var rows []userCountRow
	err := o.db.WithContext(ctx).
		Model(&db_models.Order{}).
		Select("distributor_id, COUNT(*) AS count").
		Where("distributor_id IN ? AND status = ? AND paid_at >= ? AND paid_at < ?",
			distributorIDs, db_models.OrderPaid, start, end).
		Group("distributor_id").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.DistributorID] = row.Count
	}

	return result, nil
}

func (o *OrderRepository) Insert(ctx context.Context, order *db_models.Order) error {
	return o.db.WithContext(ctx).Create(order).Error
}
