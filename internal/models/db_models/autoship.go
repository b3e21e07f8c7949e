package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AutoshipStatus string

const (
	AutoshipActive    AutoshipStatus = "active"
	AutoshipPaused    AutoshipStatus = "paused"
	AutoshipCancelled AutoshipStatus = "cancelled"
)

type AutoshipPeriod string

const (
	AutoshipMonthly AutoshipPeriod = "month"
)

// Autoship is a recurring product subscription. The scheduler turns due
// autoships into pending orders; payment confirmation and the resulting
// commission run happen through the normal order flow.
type Autoship struct {
	BaseModel
	DistributorID uuid.UUID `gorm:"type:uuid;index"`

	ProductCode string `gorm:"index"`
	ProductName string
	Quantity    int             `gorm:"default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(20,2)"`

	Period    AutoshipPeriod `gorm:"type:autoship_period;default:'month'"`
	Status    AutoshipStatus `gorm:"type:autoship_status;index"`
	NextRunAt int64          `gorm:"index"`
	LastRunAt *int64
}
