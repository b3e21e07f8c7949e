package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// AuditEvent is an append-only record of a state-changing operation in the
// compensation core. The core only ever writes these; nothing reads them
// back.
type AuditEvent struct {
	BaseModel
	Actor      uuid.UUID `gorm:"type:uuid;index"`
	Action     string    `gorm:"index"`
	EntityType string    `gorm:"index"`
	EntityID   uuid.UUID `gorm:"type:uuid;index"`
	Amount     *decimal.Decimal `gorm:"type:numeric(20,2)"`
	Reason     string
	Detail     datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
