package audit_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"uplevel/internal/repositories"
	"uplevel/internal/services"
)

var Module = fx.Provide(
	provideAuditRepository, provideAuditService,
)

func provideAuditRepository(db *gorm.DB) repositories.IAuditRepository {
	return repositories.NewAuditRepository(db)
}

func provideAuditService(auditRepo repositories.IAuditRepository) services.AuditServiceInterface {
	return services.NewAuditService(auditRepo)
}
