package request_models

import "github.com/google/uuid"

type CreatePayoutRequest struct {
	UserID        uuid.UUID   `json:"user_id" binding:"required"`
	CommissionIDs []uuid.UUID `json:"commission_ids" binding:"required,min=1"`
}

type PayoutFailureRequest struct {
	Reason string `json:"reason" binding:"required"`
}
