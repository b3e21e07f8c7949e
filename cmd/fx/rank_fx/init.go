package rank_fx

import (
	"context"
	"encoding/json"
	"log"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"uplevel/internal/api/controllers"
	"uplevel/internal/models/db_models"
	"uplevel/internal/repositories"
	"uplevel/internal/services"
	"uplevel/pkg/compplan"
)

var Module = fx.Options(
	fx.Provide(provideRankRepository, provideRankService, provideRankController),
	fx.Invoke(seedRanks),
)

func provideRankRepository(db *gorm.DB) repositories.IRankRepository {
	return repositories.NewRankRepository(db)
}

func provideRankService(
	rankRepo repositories.IRankRepository,
	orderRepo repositories.IOrderRepository,
	distributorRepo repositories.IDistributorRepository,
	matrixService services.MatrixServiceInterface,
	commissionService services.CommissionServiceInterface,
	auditService services.AuditServiceInterface,
	plan compplan.Plan,
) services.RankServiceInterface {
	return services.NewRankService(rankRepo, orderRepo, distributorRepo, matrixService, commissionService, auditService, plan)
}

func provideRankController(rankService services.RankServiceInterface) *controllers.RankController {
	return controllers.NewRankController(rankService)
}

// seedRanks mirrors the validated plan's rank table into the database so
// reporting can join against it.
func seedRanks(rankRepo repositories.IRankRepository, plan compplan.Plan) {

	ranks := make([]db_models.RankDefinition, 0, len(plan.Ranks))
	for _, r := range plan.Ranks {
		legs, err := json.Marshal(r.QualifiedLegs)
		if err != nil {
			log.Printf("rank seed: marshal qualified legs for %s failed: %v", r.Code, err)
			legs = []byte("{}")
		}
		ranks = append(ranks, db_models.RankDefinition{
			Code:          r.Code,
			Name:          r.Name,
			Level:         r.Level,
			PersonalSales: decimal.NewFromFloat(r.PersonalSales),
			ActiveLegs:    r.ActiveLegs,
			TeamVolume:    decimal.NewFromFloat(r.TeamVolume),
			QualifiedLegs: datatypes.JSON(legs),
			Bonus:         decimal.NewFromFloat(r.Bonus),
		})
	}

	if err := rankRepo.SeedFromPlan(context.Background(), ranks); err != nil {
		log.Printf("rank seed: %v", err)
	}
}
