package autoship_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"uplevel/internal/api/controllers"
	"uplevel/internal/repositories"
	"uplevel/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideAutoshipRepository, provideAutoshipService, provideAutoshipController),
)

func provideAutoshipRepository(db *gorm.DB) repositories.IAutoshipRepository {
	return repositories.NewAutoshipRepository(db)
}

func provideAutoshipService(
	autoshipRepo repositories.IAutoshipRepository,
	orderRepo repositories.IOrderRepository,
	auditService services.AuditServiceInterface,
) services.AutoshipServiceInterface {
	return services.NewAutoshipService(autoshipRepo, orderRepo, auditService)
}

func provideAutoshipController(autoshipService services.AutoshipServiceInterface) *controllers.AutoshipController {
	return controllers.NewAutoshipController(autoshipService)
}
