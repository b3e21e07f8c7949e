package response_models

import "github.com/google/uuid"

type CommissionRunResponse struct {
	OrderID            uuid.UUID `json:"order_id"`
	CommissionsCreated int       `json:"commissions_created"`
	TotalAmount        string    `json:"total_amount"`
}
