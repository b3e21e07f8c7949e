package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderRefunded  OrderStatus = "refunded"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	BaseModel
	DistributorID uuid.UUID  `gorm:"type:uuid;index"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"` // nullable for distributor self-purchases

	Status OrderStatus     `gorm:"type:order_status;index"`
	Total  decimal.Decimal `gorm:"type:numeric(20,2)"`
	PaidAt *int64

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	ProductCode string    `gorm:"index"`
	Name        string
	Quantity    int             `gorm:"default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(20,2)"`
	// CommissionableValue is the per-unit base the plan percentages apply
	// to; it can be below UnitPrice for discounted or capped SKUs.
	CommissionableValue decimal.Decimal `gorm:"type:numeric(20,2)"`
}
