package request_models

import "github.com/google/uuid"

type EnrollmentRequest struct {
	UserID    uuid.UUID `json:"user_id" binding:"required"`
	SponsorID uuid.UUID `json:"sponsor_id" binding:"required"`
}
