package payout_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"uplevel/internal/api/controllers"
	"uplevel/internal/repositories"
	"uplevel/internal/services"
	"uplevel/pkg/compplan"
)

var Module = fx.Options(
	fx.Provide(providePaymentRepository, provideSubmitter, providePayoutService, providePayoutController),
)

func providePaymentRepository(db *gorm.DB) repositories.IPaymentRepository {
	return repositories.NewPaymentRepository(db)
}

func provideSubmitter() services.PayoutSubmitter {
	return services.LoggingSubmitter{}
}

func providePayoutService(
	paymentRepo repositories.IPaymentRepository,
	commissionRepo repositories.ICommissionRepository,
	auditService services.AuditServiceInterface,
	submitter services.PayoutSubmitter,
	plan compplan.Plan,
) services.PayoutServiceInterface {
	return services.NewPayoutService(paymentRepo, commissionRepo, auditService, submitter, plan)
}

func providePayoutController(payoutService services.PayoutServiceInterface) *controllers.PayoutController {
	return controllers.NewPayoutController(payoutService)
}
