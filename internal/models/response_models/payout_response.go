package response_models

import "github.com/google/uuid"

type PayoutResponse struct {
	PaymentID uuid.UUID `json:"payment_id"`
	UserID    uuid.UUID `json:"user_id"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
}

type RetryDecisionResponse struct {
	PaymentID            uuid.UUID `json:"payment_id"`
	WillRetry            bool      `json:"will_retry"`
	RetryCount           int       `json:"retry_count"`
	NextRetryAt          *int64    `json:"next_retry_at,omitempty"`
	RequiresManualReview bool      `json:"requires_manual_review"`
	FailureReason        string    `json:"failure_reason,omitempty"`
	RecommendedAction    string    `json:"recommended_action,omitempty"`
}
