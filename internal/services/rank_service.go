package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"uplevel/internal/models/db_models"
	"uplevel/internal/repositories"
	"uplevel/pkg/compplan"
	"uplevel/pkg/utils"
)

// RankMetrics are the four gates evaluated against each rank's thresholds,
// all computed over the current calendar month.
type RankMetrics struct {
	PersonalSales decimal.Decimal
	ActiveLegs    int
	TeamVolume    decimal.Decimal
	// LegsByRankLevel counts direct legs at or above each rank ordinal.
	LegsByRankLevel map[int]int
}

type RankAdvancement struct {
	OldRank string
	NewRank string
	Bonus   decimal.Decimal
}

type RankServiceInterface interface {
	GetMetrics(ctx context.Context, userID uuid.UUID) (*RankMetrics, error)
	// GetHighestQualifiedRank evaluates ranks from highest to lowest and
	// returns the first whose gates are all satisfied, or nil when none is.
	GetHighestQualifiedRank(ctx context.Context, userID uuid.UUID) (*db_models.RankDefinition, error)
	// ProcessRankAdvancement applies a qualified rank only when it exceeds
	// the stored one; it never demotes. Returns nil when nothing changed.
	ProcessRankAdvancement(ctx context.Context, userID uuid.UUID) (*RankAdvancement, error)
}

func NewRankService(
	rankRepo repositories.IRankRepository,
	orderRepo repositories.IOrderRepository,
	distributorRepo repositories.IDistributorRepository,
	matrixService MatrixServiceInterface,
	commissionService CommissionServiceInterface,
	auditService AuditServiceInterface,
	plan compplan.Plan,
) RankServiceInterface {
	return &RankService{
		rankRepo:          rankRepo,
		orderRepo:         orderRepo,
		distributorRepo:   distributorRepo,
		matrixService:     matrixService,
		commissionService: commissionService,
		auditService:      auditService,
		plan:              plan,
	}
}

type RankService struct {
	rankRepo          repositories.IRankRepository
	orderRepo         repositories.IOrderRepository
	distributorRepo   repositories.IDistributorRepository
	matrixService     MatrixServiceInterface
	commissionService CommissionServiceInterface
	auditService      AuditServiceInterface
	plan              compplan.Plan
}

func (r *RankService) GetMetrics(ctx context.Context, userID uuid.UUID) (*RankMetrics, error) {

	start, end := utils.CurrentMonthWindow(time.Now())

	personal, err := r.orderRepo.SumPaidTotals(ctx, userID, start, end)
	if err != nil {
		log.Printf("rank: personal sales lookup failed for %s: %v", userID, err)
		return nil, utils.ErrDatabaseError
	}

	downline, err := r.matrixService.GetDownlinePositions(ctx, userID, r.plan.MatrixDepth)
	if err != nil {
		return nil, err
	}

	downlineIDs := positionUserIDs(downline)
	teamTotals, err := r.orderRepo.SumPaidTotalsForUsers(ctx, downlineIDs, start, end)
	if err != nil {
		log.Printf("rank: team volume lookup failed for %s: %v", userID, err)
		return nil, utils.ErrDatabaseError
	}

	teamVolume := decimal.Zero
	for _, total := range teamTotals {
		teamVolume = teamVolume.Add(total)
	}

	// Direct legs are the user's own children in the tree.
	var directIDs []uuid.UUID
	for _, pos := range downline {
		if pos.ParentID != nil && *pos.ParentID == userID {
			directIDs = append(directIDs, pos.UserID)
		}
	}

	orderCounts, err := r.orderRepo.CountPaidOrdersForUsers(ctx, directIDs, start, end)
	if err != nil {
		log.Printf("rank: active leg lookup failed for %s: %v", userID, err)
		return nil, utils.ErrDatabaseError
	}

	activeLegs := 0
	for _, id := range directIDs {
		if orderCounts[id] > 0 {
			activeLegs++
		}
	}

	legs, err := r.distributorRepo.FindByIDs(ctx, directIDs)
	if err != nil {
		log.Printf("rank: leg rank lookup failed for %s: %v", userID, err)
		return nil, utils.ErrDatabaseError
	}

	// Count legs at or above each ordinal so a Gold leg also satisfies a
	// "Silver or above" requirement.
	legsByLevel := make(map[int]int)
	for _, leg := range legs {
		rank := r.plan.RankByCode(leg.RankCode)
		if rank == nil {
			continue
		}
		for level := 1; level <= rank.Level; level++ {
			legsByLevel[level]++
		}
	}

	return &RankMetrics{
		PersonalSales:   personal,
		ActiveLegs:      activeLegs,
		TeamVolume:      teamVolume,
		LegsByRankLevel: legsByLevel,
	}, nil
}

func (r *RankService) GetHighestQualifiedRank(ctx context.Context, userID uuid.UUID) (*db_models.RankDefinition, error) {

	metrics, err := r.GetMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}

	ranks, err := r.rankRepo.ListByLevelDesc(ctx)
	if err != nil {
		log.Printf("rank: definition lookup failed: %v", err)
		return nil, utils.ErrDatabaseError
	}

	for i := range ranks {
		qualified, err := r.qualifies(&ranks[i], metrics)
		if err != nil {
			return nil, err
		}
		if qualified {
			return &ranks[i], nil
		}
	}

	return nil, nil
}

// qualifies checks all four gates; each rank is evaluated independently,
// never inherited from a higher qualification.
func (r *RankService) qualifies(rank *db_models.RankDefinition, metrics *RankMetrics) (bool, error) {

	if metrics.PersonalSales.LessThan(rank.PersonalSales) {
		return false, nil
	}
	if metrics.ActiveLegs < rank.ActiveLegs {
		return false, nil
	}
	if metrics.TeamVolume.LessThan(rank.TeamVolume) {
		return false, nil
	}

	var required map[string]int
	if len(rank.QualifiedLegs) > 0 {
		if err := json.Unmarshal(rank.QualifiedLegs, &required); err != nil {
			log.Printf("rank: malformed qualified legs for %s: %v", rank.Code, err)
			return false, utils.ErrDatabaseError
		}
	}

	for code, count := range required {
		requiredRank := r.plan.RankByCode(code)
		if requiredRank == nil {
			log.Printf("rank: %s requires unknown rank %q", rank.Code, code)
			return false, nil
		}
		if metrics.LegsByRankLevel[requiredRank.Level] < count {
			return false, nil
		}
	}

	return true, nil
}

func (r *RankService) ProcessRankAdvancement(ctx context.Context, userID uuid.UUID) (*RankAdvancement, error) {

	distributor, err := r.distributorRepo.FindByID(ctx, userID)
	if err != nil {
		log.Printf("rank: distributor lookup failed for %s: %v", userID, err)
		return nil, utils.ErrDatabaseError
	}
	if distributor == nil {
		return nil, utils.ErrDistributorNotFound
	}

	qualified, err := r.GetHighestQualifiedRank(ctx, userID)
	if err != nil {
		return nil, err
	}
	if qualified == nil {
		return nil, nil
	}

	currentLevel := 0
	if current := r.plan.RankByCode(distributor.RankCode); current != nil {
		currentLevel = current.Level
	}

	if qualified.Level <= currentLevel {
		return nil, nil
	}

	if err := r.distributorRepo.UpdateRank(ctx, userID, qualified.Code); err != nil {
		log.Printf("rank: update failed for %s to %s: %v", userID, qualified.Code, err)
		return nil, utils.ErrDatabaseError
	}

	bonus := decimal.Zero
	if awarded, err := r.commissionService.AwardRankBonus(ctx, userID, qualified); err != nil {
		// The advancement itself stands; the bonus can be reconciled.
		log.Printf("rank: bonus award failed for %s/%s: %v", userID, qualified.Code, err)
	} else if awarded != nil {
		bonus = awarded.Amount
	}

	r.auditService.Record(ctx, AuditEntry{
		Actor:      userID,
		Action:     "rank_advancement",
		EntityType: "distributor",
		EntityID:   userID,
		Amount:     &bonus,
		Reason:     qualified.Code,
		Detail: map[string]interface{}{
			"old_rank": distributor.RankCode,
			"new_rank": qualified.Code,
		},
	})

	return &RankAdvancement{
		OldRank: distributor.RankCode,
		NewRank: qualified.Code,
		Bonus:   bonus,
	}, nil
}
