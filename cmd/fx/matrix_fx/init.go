package matrix_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"uplevel/internal/api/controllers"
	"uplevel/internal/repositories"
	"uplevel/internal/services"
	"uplevel/pkg/compplan"
	mem "uplevel/pkg/memcache"
)

var Module = fx.Provide(
	provideMatrixRepository, provideBranchLocks, provideMatrixService, provideMatrixController,
)

func provideMatrixRepository(db *gorm.DB) repositories.IMatrixRepository {
	return repositories.NewMatrixRepository(db)
}

func provideBranchLocks() mem.BranchLocks {
	return mem.NewBranchLocks()
}

func provideMatrixService(matrixRepo repositories.IMatrixRepository, locks mem.BranchLocks, plan compplan.Plan) services.MatrixServiceInterface {
	return services.NewMatrixService(matrixRepo, locks, plan)
}

func provideMatrixController(matrixService services.MatrixServiceInterface) *controllers.MatrixController {
	return controllers.NewMatrixController(matrixService)
}
