package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"uplevel/internal/models/db_models"
	"uplevel/internal/repositories"
)

// AuditEntry is the structured event every state-changing operation emits.
type AuditEntry struct {
	Actor      uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Amount     *decimal.Decimal
	Reason     string
	Detail     map[string]interface{}
}

type AuditServiceInterface interface {
	// Record writes the event to the append-only sink. Audit is best-effort
	// secondary: failures are logged and never abort the primary operation.
	Record(ctx context.Context, entry AuditEntry)
}

func NewAuditService(auditRepo repositories.IAuditRepository) AuditServiceInterface {
	return &AuditService{
		auditRepo: auditRepo,
	}
}

type AuditService struct {
	auditRepo repositories.IAuditRepository
}

func (a *AuditService) Record(ctx context.Context, entry AuditEntry) {

	event := &db_models.AuditEvent{
		Actor:      entry.Actor,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Amount:     entry.Amount,
		Reason:     entry.Reason,
	}

	if entry.Detail != nil {
		raw, err := json.Marshal(entry.Detail)
		if err != nil {
			log.Printf("audit: failed to marshal detail for %s: %v", entry.Action, err)
		} else {
			event.Detail = raw
		}
	}

	if err := a.auditRepo.Insert(ctx, event); err != nil {
		log.Printf("audit: failed to record %s on %s %s: %v", entry.Action, entry.EntityType, entry.EntityID, err)
	}
}
