package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"uplevel/internal/models/db_models"
	"uplevel/internal/repositories"
	"uplevel/pkg/utils"
)

type AutoshipServiceInterface interface {
	CreateAutoship(ctx context.Context, distributorID uuid.UUID, productCode, productName string, quantity int, unitPrice decimal.Decimal) (*db_models.Autoship, error)
	PauseAutoship(ctx context.Context, id uuid.UUID) error
	CancelAutoship(ctx context.Context, id uuid.UUID) error
	// RunDue turns every due autoship into a pending order and advances its
	// schedule. Payment confirmation and the commission run follow the
	// normal order flow.
	RunDue(ctx context.Context) (int, error)
}

func NewAutoshipService(
	autoshipRepo repositories.IAutoshipRepository,
	orderRepo repositories.IOrderRepository,
	auditService AuditServiceInterface,
) AutoshipServiceInterface {
	return &AutoshipService{
		autoshipRepo: autoshipRepo,
		orderRepo:    orderRepo,
		auditService: auditService,
		now:          time.Now,
	}
}

type AutoshipService struct {
	autoshipRepo repositories.IAutoshipRepository
	orderRepo    repositories.IOrderRepository
	auditService AuditServiceInterface
	now          func() time.Time
}

func (a *AutoshipService) CreateAutoship(ctx context.Context, distributorID uuid.UUID, productCode, productName string, quantity int, unitPrice decimal.Decimal) (*db_models.Autoship, error) {

	autoship := &db_models.Autoship{
		DistributorID: distributorID,
		ProductCode:   productCode,
		ProductName:   productName,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		Period:        db_models.AutoshipMonthly,
		Status:        db_models.AutoshipActive,
		NextRunAt:     a.now().AddDate(0, 1, 0).Unix(),
	}

	if err := a.autoshipRepo.Insert(ctx, autoship); err != nil {
		log.Printf("autoship: insert failed for %s: %v", distributorID, err)
		return nil, utils.ErrDatabaseError
	}

	return autoship, nil
}

func (a *AutoshipService) PauseAutoship(ctx context.Context, id uuid.UUID) error {
	return a.setStatus(ctx, id, db_models.AutoshipPaused)
}

func (a *AutoshipService) CancelAutoship(ctx context.Context, id uuid.UUID) error {
	return a.setStatus(ctx, id, db_models.AutoshipCancelled)
}

func (a *AutoshipService) setStatus(ctx context.Context, id uuid.UUID, status db_models.AutoshipStatus) error {

	autoship, err := a.autoshipRepo.FindByID(ctx, id)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if autoship == nil {
		return utils.ErrAutoshipNotFound
	}

	if err := a.autoshipRepo.Update(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return utils.ErrDatabaseError
	}

	return nil
}

func (a *AutoshipService) RunDue(ctx context.Context) (int, error) {

	now := a.now()
	due, err := a.autoshipRepo.ListDue(ctx, now.Unix(), 500)
	if err != nil {
		log.Printf("autoship: due list failed: %v", err)
		return 0, utils.ErrDatabaseError
	}

	created := 0
	for i := range due {
		autoship := &due[i]

		qty := decimal.NewFromInt(int64(autoship.Quantity))
		order := &db_models.Order{
			DistributorID: autoship.DistributorID,
			Status:        db_models.OrderPending,
			Total:         autoship.UnitPrice.Mul(qty).Round(2),
			Items: []db_models.OrderItem{{
				ProductCode:         autoship.ProductCode,
				Name:                autoship.ProductName,
				Quantity:            autoship.Quantity,
				UnitPrice:           autoship.UnitPrice,
				CommissionableValue: autoship.UnitPrice,
			}},
		}

		if err := a.orderRepo.Insert(ctx, order); err != nil {
			log.Printf("autoship: order create failed for %s: %v", autoship.ID, err)
			continue
		}

		err := a.autoshipRepo.Update(ctx, autoship.ID, map[string]interface{}{
			"next_run_at": now.AddDate(0, 1, 0).Unix(),
			"last_run_at": now.Unix(),
		})
		if err != nil {
			log.Printf("autoship: schedule advance failed for %s: %v", autoship.ID, err)
			continue
		}

		a.auditService.Record(ctx, AuditEntry{
			Actor:      autoship.DistributorID,
			Action:     "autoship_order_created",
			EntityType: "order",
			EntityID:   order.ID,
			Amount:     &order.Total,
			Detail:     map[string]interface{}{"autoship_id": autoship.ID.String()},
		})
		created++
	}

	return created, nil
}
