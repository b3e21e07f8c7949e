package commission_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"uplevel/internal/api/controllers"
	"uplevel/internal/repositories"
	"uplevel/internal/services"
	"uplevel/pkg/compplan"
)

var Module = fx.Provide(
	provideCommissionRepository, provideOrderRepository, provideDistributorRepository,
	provideCommissionService, provideCommissionController,
)

func provideCommissionRepository(db *gorm.DB) repositories.ICommissionRepository {
	return repositories.NewCommissionRepository(db)
}

func provideOrderRepository(db *gorm.DB) repositories.IOrderRepository {
	return repositories.NewOrderRepository(db)
}

func provideDistributorRepository(db *gorm.DB) repositories.IDistributorRepository {
	return repositories.NewDistributorRepository(db)
}

func provideCommissionService(
	commissionRepo repositories.ICommissionRepository,
	orderRepo repositories.IOrderRepository,
	distributorRepo repositories.IDistributorRepository,
	matrixService services.MatrixServiceInterface,
	auditService services.AuditServiceInterface,
	plan compplan.Plan,
) services.CommissionServiceInterface {
	return services.NewCommissionService(commissionRepo, orderRepo, distributorRepo, matrixService, auditService, plan)
}

func provideCommissionController(commissionService services.CommissionServiceInterface) *controllers.CommissionController {
	return controllers.NewCommissionController(commissionService)
}
