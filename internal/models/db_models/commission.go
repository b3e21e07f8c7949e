package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CommissionType string

const (
	CommissionRetail    CommissionType = "retail"
	CommissionMatrix    CommissionType = "matrix"
	CommissionRankBonus CommissionType = "rank_bonus"
	CommissionMatching  CommissionType = "matching"
)

type CommissionStatus string

const (
	CommissionPending  CommissionStatus = "pending"
	CommissionApproved CommissionStatus = "approved"
	CommissionPaid     CommissionStatus = "paid"
	CommissionRejected CommissionStatus = "rejected" // terminal
)

// Commission is one earning event. Rows are created by the calculator with
// status pending and only ever move forward through the approval workflow;
// they are never deleted.
type Commission struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;index"` // beneficiary
	FromUserID uuid.UUID `gorm:"type:uuid;index"` // whose purchase/earning generated it
	// OrderID is null only for rank bonuses.
	OrderID *uuid.UUID     `gorm:"type:uuid;index"`
	Type    CommissionType `gorm:"type:commission_type;index"`
	// Level is the matrix/matching depth the row was earned at, null for
	// retail and rank bonuses.
	Level  *int
	Amount decimal.Decimal  `gorm:"type:numeric(20,2)"`
	Status CommissionStatus `gorm:"type:commission_status;index"`
	// RankCode is set on rank_bonus rows only, so the one-time guarantee
	// can be enforced per rank.
	RankCode string `gorm:"index;default:''"`
	PaidAt   *int64
}
