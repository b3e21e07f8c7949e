package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"uplevel/internal/models/db_models"
	"uplevel/internal/repositories"
	"uplevel/pkg/compplan"
	"uplevel/pkg/utils"
)

// FailureRule classifies a processor failure code: whether it is worth
// retrying automatically and what an operator should do about it.
type FailureRule struct {
	Retryable bool
	Action    string
}

var failureRules = map[string]FailureRule{
	"insufficient_funds": {Retryable: true, Action: "Retry automatically; the account may be funded later"},
	"bank_unavailable":   {Retryable: true, Action: "Retry automatically; bank endpoint was unreachable"},
	"processing_error":   {Retryable: true, Action: "Retry automatically; transient processor error"},
	"rate_limited":       {Retryable: true, Action: "Retry automatically; processor throttled the request"},
	"account_closed":     {Retryable: false, Action: "Request updated bank details from the distributor"},
	"invalid_account":    {Retryable: false, Action: "Verify and correct the distributor's bank details"},
	"account_frozen":     {Retryable: false, Action: "Contact the distributor; the receiving account is frozen"},
	"compliance_hold":    {Retryable: false, Action: "Escalate to compliance before any further attempt"},
}

// ShouldAutoRetry maps a failure reason to its rule; unknown codes default
// to retryable so a new processor code does not strand payouts.
func ShouldAutoRetry(reason string) FailureRule {
	if rule, ok := failureRules[reason]; ok {
		return rule
	}
	return FailureRule{Retryable: true, Action: "Unknown failure code; retrying, investigate if it repeats"}
}

type RetryDecision struct {
	PaymentID            uuid.UUID
	WillRetry            bool
	RetryCount           int
	NextRetryAt          *int64
	RequiresManualReview bool
	FailureReason        string
	RecommendedAction    string
}

// PayoutSubmitter hands an eligible payment to the external payment
// processor. The transport lives outside this core; the default
// implementation only logs.
type PayoutSubmitter interface {
	Submit(ctx context.Context, payment *db_models.Payment) error
}

type LoggingSubmitter struct{}

func (LoggingSubmitter) Submit(ctx context.Context, payment *db_models.Payment) error {
	log.Printf("payout: would submit payment %s amount %s to processor", payment.ID, payment.Amount)
	return nil
}

type PayoutServiceInterface interface {
	// CreatePayoutBatch aggregates a distributor's approved commissions
	// into one pending Payment.
	CreatePayoutBatch(ctx context.Context, actor, userID uuid.UUID, commissionIDs []uuid.UUID) (*db_models.Payment, error)
	// HandlePayoutFailure drives the retry state machine: classify the
	// reason, back off exponentially while attempts remain, or flag the
	// payment for manual review.
	HandlePayoutFailure(ctx context.Context, paymentID uuid.UUID, reason string) (*RetryDecision, error)
	GetPaymentsDueForRetry(ctx context.Context, now time.Time, limit int) ([]db_models.Payment, error)
	// ProcessDueRetries claims each due payment, re-submits it, and routes
	// any new failure back through HandlePayoutFailure.
	ProcessDueRetries(ctx context.Context, workerID string) (int, error)
	MarkPaymentCompleted(ctx context.Context, actor, paymentID uuid.UUID) error
	// ResetPaymentForManualRetry clears retry state back to pending; an
	// explicit operator escape hatch that bypasses the state machine.
	ResetPaymentForManualRetry(ctx context.Context, actor, paymentID uuid.UUID) error
	// MarkPaymentAsResolved cancels the payment terminally.
	MarkPaymentAsResolved(ctx context.Context, actor, paymentID uuid.UUID, reason string) error
}

func NewPayoutService(
	paymentRepo repositories.IPaymentRepository,
	commissionRepo repositories.ICommissionRepository,
	auditService AuditServiceInterface,
	submitter PayoutSubmitter,
	plan compplan.Plan,
) PayoutServiceInterface {
	return &PayoutService{
		paymentRepo:    paymentRepo,
		commissionRepo: commissionRepo,
		auditService:   auditService,
		submitter:      submitter,
		cfg:            plan.Payout,
		now:            time.Now,
	}
}

type PayoutService struct {
	paymentRepo    repositories.IPaymentRepository
	commissionRepo repositories.ICommissionRepository
	auditService   AuditServiceInterface
	submitter      PayoutSubmitter
	cfg            compplan.PayoutConfig
	now            func() time.Time
}

func (p *PayoutService) CreatePayoutBatch(ctx context.Context, actor, userID uuid.UUID, commissionIDs []uuid.UUID) (*db_models.Payment, error) {

	amount, err := p.commissionRepo.SumApproved(ctx, userID, commissionIDs)
	if err != nil {
		log.Printf("payout: commission sum failed for %s: %v", userID, err)
		return nil, utils.ErrDatabaseError
	}
	if !amount.IsPositive() {
		return nil, utils.ErrEmptyPayoutBatch
	}

	ids, err := json.Marshal(commissionIDs)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	payment := &db_models.Payment{
		UserID:        userID,
		Amount:        amount.Round(2),
		Status:        db_models.PaymentPending,
		MaxRetries:    p.cfg.MaxRetries,
		CommissionIDs: ids,
	}

	if err := p.paymentRepo.Insert(ctx, payment); err != nil {
		log.Printf("payout: insert failed for %s: %v", userID, err)
		return nil, utils.ErrDatabaseError
	}

	p.auditService.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     "payout_batch_created",
		EntityType: "payment",
		EntityID:   payment.ID,
		Amount:     &payment.Amount,
		Detail:     map[string]interface{}{"commission_count": len(commissionIDs)},
	})

	return payment, nil
}

func (p *PayoutService) HandlePayoutFailure(ctx context.Context, paymentID uuid.UUID, reason string) (*RetryDecision, error) {

	payment, err := p.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		log.Printf("payout: lookup failed for %s: %v", paymentID, err)
		return nil, utils.ErrDatabaseError
	}
	if payment == nil {
		return nil, utils.ErrPaymentNotFound
	}
	if payment.Status == db_models.PaymentCompleted || payment.Status == db_models.PaymentCancelled {
		return nil, utils.ErrPaymentNotRetryable
	}

	rule := ShouldAutoRetry(reason)

	// A permanently failing reason goes straight to manual review no
	// matter how many attempts remain; exhausted attempts do the same.
	if !rule.Retryable || payment.RetryCount >= payment.MaxRetries {
		return p.flagManualReview(ctx, payment, reason, rule)
	}

	delay := p.cfg.BaseRetryDelay << uint(payment.RetryCount)
	if delay > p.cfg.MaxRetryDelay {
		delay = p.cfg.MaxRetryDelay
	}
	nextRetryAt := p.now().Add(delay).Unix()
	retryCount := payment.RetryCount + 1

	err = p.paymentRepo.Update(ctx, payment.ID, map[string]interface{}{
		"status":         db_models.PaymentFailed,
		"retry_count":    retryCount,
		"next_retry_at":  nextRetryAt,
		"failure_reason": reason,
		"locked_by":      nil,
		"locked_at":      nil,
	})
	if err != nil {
		log.Printf("payout: retry schedule update failed for %s: %v", payment.ID, err)
		return nil, utils.ErrDatabaseError
	}

	p.auditService.Record(ctx, AuditEntry{
		Actor:      payment.UserID,
		Action:     "payout_retry_scheduled",
		EntityType: "payment",
		EntityID:   payment.ID,
		Amount:     &payment.Amount,
		Reason:     reason,
		Detail: map[string]interface{}{
			"retry_count":   retryCount,
			"next_retry_at": nextRetryAt,
		},
	})

	return &RetryDecision{
		PaymentID:         payment.ID,
		WillRetry:         true,
		RetryCount:        retryCount,
		NextRetryAt:       &nextRetryAt,
		FailureReason:     reason,
		RecommendedAction: rule.Action,
	}, nil
}

func (p *PayoutService) flagManualReview(ctx context.Context, payment *db_models.Payment, reason string, rule FailureRule) (*RetryDecision, error) {

	err := p.paymentRepo.Update(ctx, payment.ID, map[string]interface{}{
		"status":                 db_models.PaymentFailed,
		"requires_manual_review": true,
		"next_retry_at":          nil,
		"failure_reason":         reason,
		"locked_by":              nil,
		"locked_at":              nil,
	})
	if err != nil {
		log.Printf("payout: manual review update failed for %s: %v", payment.ID, err)
		return nil, utils.ErrDatabaseError
	}

	p.auditService.Record(ctx, AuditEntry{
		Actor:      payment.UserID,
		Action:     "payout_manual_review",
		EntityType: "payment",
		EntityID:   payment.ID,
		Amount:     &payment.Amount,
		Reason:     reason,
		Detail: map[string]interface{}{
			"retry_count":        payment.RetryCount,
			"recommended_action": rule.Action,
		},
	})

	return &RetryDecision{
		PaymentID:            payment.ID,
		WillRetry:            false,
		RetryCount:           payment.RetryCount,
		RequiresManualReview: true,
		FailureReason:        reason,
		RecommendedAction:    rule.Action,
	}, nil
}

func (p *PayoutService) GetPaymentsDueForRetry(ctx context.Context, now time.Time, limit int) ([]db_models.Payment, error) {

	payments, err := p.paymentRepo.ListDueForRetry(ctx, now.Unix(), limit)
	if err != nil {
		log.Printf("payout: due list failed: %v", err)
		return nil, utils.ErrDatabaseError
	}

	return payments, nil
}

func (p *PayoutService) ProcessDueRetries(ctx context.Context, workerID string) (int, error) {

	now := p.now()
	due, err := p.GetPaymentsDueForRetry(ctx, now, 100)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range due {
		payment := &due[i]

		claimed, err := p.paymentRepo.ClaimForRetry(ctx, payment.ID, workerID, now.Unix())
		if err != nil {
			log.Printf("payout: claim failed for %s: %v", payment.ID, err)
			continue
		}
		if !claimed {
			continue
		}

		if err := p.submitter.Submit(ctx, payment); err != nil {
			if _, ferr := p.HandlePayoutFailure(ctx, payment.ID, err.Error()); ferr != nil {
				log.Printf("payout: failure handling failed for %s: %v", payment.ID, ferr)
			}
			continue
		}

		if err := p.MarkPaymentCompleted(ctx, payment.UserID, payment.ID); err != nil {
			log.Printf("payout: completion update failed for %s: %v", payment.ID, err)
			continue
		}
		processed++
	}

	return processed, nil
}

func (p *PayoutService) MarkPaymentCompleted(ctx context.Context, actor, paymentID uuid.UUID) error {

	payment, err := p.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if payment == nil {
		return utils.ErrPaymentNotFound
	}

	err = p.paymentRepo.Update(ctx, paymentID, map[string]interface{}{
		"status":         db_models.PaymentCompleted,
		"next_retry_at":  nil,
		"failure_reason": "",
		"locked_by":      nil,
		"locked_at":      nil,
	})
	if err != nil {
		return utils.ErrDatabaseError
	}

	p.auditService.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     "payout_completed",
		EntityType: "payment",
		EntityID:   paymentID,
		Amount:     &payment.Amount,
	})

	return nil
}

func (p *PayoutService) ResetPaymentForManualRetry(ctx context.Context, actor, paymentID uuid.UUID) error {

	payment, err := p.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if payment == nil {
		return utils.ErrPaymentNotFound
	}
	if payment.Status == db_models.PaymentCompleted || payment.Status == db_models.PaymentCancelled {
		return utils.ErrPaymentNotRetryable
	}

	err = p.paymentRepo.Update(ctx, paymentID, map[string]interface{}{
		"status":                 db_models.PaymentPending,
		"retry_count":            0,
		"next_retry_at":          nil,
		"requires_manual_review": false,
		"failure_reason":         "",
		"locked_by":              nil,
		"locked_at":              nil,
	})
	if err != nil {
		return utils.ErrDatabaseError
	}

	p.auditService.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     "payout_manual_reset",
		EntityType: "payment",
		EntityID:   paymentID,
		Amount:     &payment.Amount,
	})

	return nil
}

func (p *PayoutService) MarkPaymentAsResolved(ctx context.Context, actor, paymentID uuid.UUID, reason string) error {

	payment, err := p.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if payment == nil {
		return utils.ErrPaymentNotFound
	}

	err = p.paymentRepo.Update(ctx, paymentID, map[string]interface{}{
		"status":        db_models.PaymentCancelled,
		"next_retry_at": nil,
		"locked_by":     nil,
		"locked_at":     nil,
	})
	if err != nil {
		return utils.ErrDatabaseError
	}

	p.auditService.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     "payout_resolved",
		EntityType: "payment",
		EntityID:   paymentID,
		Amount:     &payment.Amount,
		Reason:     reason,
	})

	return nil
}
