package request_models

import "github.com/google/uuid"

type CreateAutoshipRequest struct {
	DistributorID uuid.UUID `json:"distributor_id" binding:"required"`
	ProductCode   string    `json:"product_code" binding:"required"`
	ProductName   string    `json:"product_name" binding:"required"`
	Quantity      int       `json:"quantity" binding:"required,min=1"`
	UnitPrice     string    `json:"unit_price" binding:"required"`
}
