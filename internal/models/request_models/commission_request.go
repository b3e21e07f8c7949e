package request_models

import "github.com/google/uuid"

type ProcessCommissionsRequest struct {
	DistributorID uuid.UUID  `json:"distributor_id" binding:"required"`
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
}
