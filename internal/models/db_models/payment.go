package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled" // terminal, manual override
)

// Payment is one payout attempt aggregating approved commissions for a
// distributor. Mutated exclusively by the payout retry handler; never
// deleted, only superseded by status.
type Payment struct {
	BaseModel
	UserID uuid.UUID       `gorm:"type:uuid;index"`
	Amount decimal.Decimal `gorm:"type:numeric(20,2)"`
	Status PaymentStatus   `gorm:"type:payment_status;index"`

	RetryCount  int `gorm:"default:0"`
	MaxRetries  int `gorm:"default:3"`
	NextRetryAt *int64
	// Once set, automatic retry stops for good until an operator resets.
	RequiresManualReview bool `gorm:"index;default:false"`
	FailureReason        string

	// Lease fields so two retry workers never process the same payment.
	LockedBy *string
	LockedAt *int64

	// Ids of the commissions settled by this payout (association kept as a
	// plain id list, not a foreign key).
	CommissionIDs datatypes.JSON `gorm:"type:jsonb;default:'[]'"`

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
