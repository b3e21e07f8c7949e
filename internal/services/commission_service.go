package services

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"uplevel/internal/models/db_models"
	"uplevel/internal/repositories"
	"uplevel/pkg/compplan"
	"uplevel/pkg/utils"
)

type CommissionRunResult struct {
	OrderID            uuid.UUID
	CommissionsCreated int
	TotalAmount        decimal.Decimal
}

type CommissionServiceInterface interface {
	// ProcessOrderCommissions computes retail, matrix and matching
	// commissions for one completed order and persists the whole run in a
	// single transaction with status pending. A failure anywhere leaves no
	// partial rows behind.
	ProcessOrderCommissions(ctx context.Context, orderID, distributorID uuid.UUID, customerID *uuid.UUID) (*CommissionRunResult, error)
	// AwardRankBonus credits the one-time flat bonus for a newly reached
	// rank. Rank bonuses reference no order and are never matched. Returns
	// nil when the bonus was already credited.
	AwardRankBonus(ctx context.Context, userID uuid.UUID, rank *db_models.RankDefinition) (*db_models.Commission, error)
}

func NewCommissionService(
	commissionRepo repositories.ICommissionRepository,
	orderRepo repositories.IOrderRepository,
	distributorRepo repositories.IDistributorRepository,
	matrixService MatrixServiceInterface,
	auditService AuditServiceInterface,
	plan compplan.Plan,
) CommissionServiceInterface {
	return &CommissionService{
		commissionRepo:  commissionRepo,
		orderRepo:       orderRepo,
		distributorRepo: distributorRepo,
		matrixService:   matrixService,
		auditService:    auditService,
		plan:            plan,
	}
}

type CommissionService struct {
	commissionRepo  repositories.ICommissionRepository
	orderRepo       repositories.IOrderRepository
	distributorRepo repositories.IDistributorRepository
	matrixService   MatrixServiceInterface
	auditService    AuditServiceInterface
	plan            compplan.Plan
}

// pendingRow keeps the unrounded amount while the run is being computed;
// rounding happens once, at persistence.
type pendingRow struct {
	userID     uuid.UUID
	fromUserID uuid.UUID
	kind       db_models.CommissionType
	level      *int
	amount     decimal.Decimal
}

func (c *CommissionService) ProcessOrderCommissions(ctx context.Context, orderID, distributorID uuid.UUID, customerID *uuid.UUID) (*CommissionRunResult, error) {

	order, err := c.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		log.Printf("commissions: order lookup failed for %s: %v", orderID, err)
		return nil, utils.ErrDatabaseError
	}
	if order == nil {
		return nil, utils.ErrOrderNotFound
	}

	items, err := c.orderRepo.ListItems(ctx, orderID)
	if err != nil {
		log.Printf("commissions: item lookup failed for %s: %v", orderID, err)
		return nil, utils.ErrDatabaseError
	}

	commissionable := decimal.Zero
	for _, item := range items {
		commissionable = commissionable.Add(item.CommissionableValue.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if len(items) == 0 || !commissionable.IsPositive() {
		return nil, utils.ErrNoCommissionableItems
	}

	fromUserID := distributorID
	if customerID != nil {
		fromUserID = *customerID
	}

	var rows []pendingRow

	// 1. Retail commission to the selling distributor.
	retail := commissionable.Mul(percent(c.plan.RetailPercent))
	rows = append(rows, pendingRow{
		userID:     distributorID,
		fromUserID: fromUserID,
		kind:       db_models.CommissionRetail,
		amount:     retail,
	})

	// 2. Matrix commissions up the distributor's upline. Inactive members
	// earn nothing and their percentage is forfeited, not redistributed.
	upline, err := c.matrixService.GetUplinePositions(ctx, distributorID, c.plan.MatrixDepth)
	if err != nil {
		log.Printf("commissions: upline walk failed for %s: %v", distributorID, err)
		return nil, utils.ErrDatabaseError
	}

	active, err := c.activeSet(ctx, positionUserIDs(upline))
	if err != nil {
		return nil, err
	}

	for i := range upline {
		level := i + 1
		pct := c.plan.MatrixPercentForLevel(level)
		if pct == 0 || !active[upline[i].UserID] {
			continue
		}
		lvl := level
		rows = append(rows, pendingRow{
			userID:     upline[i].UserID,
			fromUserID: distributorID,
			kind:       db_models.CommissionMatrix,
			level:      &lvl,
			amount:     commissionable.Mul(percent(pct)),
		})
	}

	// 3. Matching bonuses on every retail/matrix row just computed, up the
	// earner's own upline.
	matchRate := percent(c.plan.MatchingPercent)
	base := len(rows)
	for i := 0; i < base; i++ {
		earner := rows[i]

		matchUpline, err := c.matrixService.GetUplinePositions(ctx, earner.userID, c.plan.MatchingLevels)
		if err != nil {
			log.Printf("commissions: matching upline walk failed for %s: %v", earner.userID, err)
			return nil, utils.ErrDatabaseError
		}

		matchActive, err := c.activeSet(ctx, positionUserIDs(matchUpline))
		if err != nil {
			return nil, err
		}

		for j := range matchUpline {
			if !matchActive[matchUpline[j].UserID] {
				continue
			}
			lvl := j + 1
			rows = append(rows, pendingRow{
				userID:     matchUpline[j].UserID,
				fromUserID: earner.userID,
				kind:       db_models.CommissionMatching,
				level:      &lvl,
				amount:     earner.amount.Mul(matchRate),
			})
		}
	}

	commissions := make([]*db_models.Commission, 0, len(rows))
	total := decimal.Zero
	oid := orderID
	for _, row := range rows {
		amount := row.amount.Round(2)
		total = total.Add(amount)
		commissions = append(commissions, &db_models.Commission{
			UserID:     row.userID,
			FromUserID: row.fromUserID,
			OrderID:    &oid,
			Type:       row.kind,
			Level:      row.level,
			Amount:     amount,
			Status:     db_models.CommissionPending,
		})
	}

	if err := c.commissionRepo.CreateBatch(ctx, commissions); err != nil {
		log.Printf("commissions: batch insert failed for order %s: %v", orderID, err)
		return nil, utils.ErrDatabaseError
	}

	c.auditService.Record(ctx, AuditEntry{
		Actor:      distributorID,
		Action:     "commission_run",
		EntityType: "order",
		EntityID:   orderID,
		Amount:     &total,
		Detail: map[string]interface{}{
			"commissions_created": len(commissions),
			"commissionable":      commissionable.Round(2).String(),
		},
	})

	return &CommissionRunResult{
		OrderID:            orderID,
		CommissionsCreated: len(commissions),
		TotalAmount:        total,
	}, nil
}

func (c *CommissionService) AwardRankBonus(ctx context.Context, userID uuid.UUID, rank *db_models.RankDefinition) (*db_models.Commission, error) {

	if !rank.Bonus.IsPositive() {
		return nil, nil
	}

	already, err := c.commissionRepo.HasRankBonus(ctx, userID, rank.Code)
	if err != nil {
		log.Printf("rank bonus: lookup failed for %s/%s: %v", userID, rank.Code, err)
		return nil, utils.ErrDatabaseError
	}
	if already {
		return nil, nil
	}

	bonus := &db_models.Commission{
		UserID:     userID,
		FromUserID: userID,
		Type:       db_models.CommissionRankBonus,
		Amount:     rank.Bonus.Round(2),
		Status:     db_models.CommissionPending,
		RankCode:   rank.Code,
	}

	if err := c.commissionRepo.CreateBatch(ctx, []*db_models.Commission{bonus}); err != nil {
		log.Printf("rank bonus: insert failed for %s/%s: %v", userID, rank.Code, err)
		return nil, utils.ErrDatabaseError
	}

	c.auditService.Record(ctx, AuditEntry{
		Actor:      userID,
		Action:     "rank_bonus",
		EntityType: "distributor",
		EntityID:   userID,
		Amount:     &bonus.Amount,
		Reason:     rank.Code,
	})

	return bonus, nil
}

func (c *CommissionService) activeSet(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {

	distributors, err := c.distributorRepo.FindByIDs(ctx, ids)
	if err != nil {
		log.Printf("commissions: distributor status lookup failed: %v", err)
		return nil, utils.ErrDatabaseError
	}

	active := make(map[uuid.UUID]bool, len(distributors))
	for id, distributor := range distributors {
		active[id] = distributor.IsActive()
	}
	return active, nil
}

func positionUserIDs(positions []db_models.MatrixPosition) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(positions))
	for _, pos := range positions {
		ids = append(ids, pos.UserID)
	}
	return ids
}

func percent(pct float64) decimal.Decimal {
	return decimal.NewFromFloat(pct).Div(decimal.NewFromInt(100))
}
