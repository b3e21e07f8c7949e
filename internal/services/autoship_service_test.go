package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"uplevel/internal/models/db_models"
	"uplevel/pkg/utils"
)

type fakeAutoshipRepo struct {
	autoships map[uuid.UUID]*db_models.Autoship
}

func newFakeAutoshipRepo() *fakeAutoshipRepo {
	return &fakeAutoshipRepo{autoships: make(map[uuid.UUID]*db_models.Autoship)}
}

func (f *fakeAutoshipRepo) Insert(_ context.Context, autoship *db_models.Autoship) error {
	autoship.ID = uuid.New()
	cp := *autoship
	f.autoships[autoship.ID] = &cp
	return nil
}

func (f *fakeAutoshipRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Autoship, error) {
	autoship, ok := f.autoships[id]
	if !ok {
		return nil, nil
	}
	cp := *autoship
	return &cp, nil
}

func (f *fakeAutoshipRepo) ListDue(_ context.Context, now int64, limit int) ([]db_models.Autoship, error) {
	var due []db_models.Autoship
	for _, autoship := range f.autoships {
		if autoship.Status == db_models.AutoshipActive && autoship.NextRunAt <= now {
			due = append(due, *autoship)
		}
		if limit > 0 && len(due) == limit {
			break
		}
	}
	return due, nil
}

func (f *fakeAutoshipRepo) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	autoship, ok := f.autoships[id]
	if !ok {
		return nil
	}
	for key, value := range fields {
		switch key {
		case "status":
			autoship.Status = value.(db_models.AutoshipStatus)
		case "next_run_at":
			autoship.NextRunAt = value.(int64)
		case "last_run_at":
			at := value.(int64)
			autoship.LastRunAt = &at
		}
	}
	return nil
}

func newAutoshipServiceForTest(clock time.Time) (*AutoshipService, *fakeAutoshipRepo, *fakeOrderRepo, *fakeAuditService) {
	repo := newFakeAutoshipRepo()
	orders := newFakeOrderRepo()
	audit := &fakeAuditService{}
	svc := NewAutoshipService(repo, orders, audit).(*AutoshipService)
	svc.now = func() time.Time { return clock }
	return svc, repo, orders, audit
}

func TestCreateAutoship_SchedulesOneMonthOut(t *testing.T) {
	clock := time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)
	svc, _, _, _ := newAutoshipServiceForTest(clock)

	autoship, err := svc.CreateAutoship(context.Background(), uuid.New(), "SKU-9", "Monthly Pack", 2, decimal.RequireFromString("39.95"))
	require.NoError(t, err)
	assert.Equal(t, db_models.AutoshipActive, autoship.Status)
	assert.Equal(t, clock.AddDate(0, 1, 0).Unix(), autoship.NextRunAt)
}

func TestRunDue_CreatesOrderAndAdvancesSchedule(t *testing.T) {
	clock := time.Date(2026, time.February, 1, 4, 0, 0, 0, time.UTC)
	svc, repo, orders, audit := newAutoshipServiceForTest(clock)
	ctx := context.Background()

	distributorID := uuid.New()
	autoship := &db_models.Autoship{
		DistributorID: distributorID,
		ProductCode:   "SKU-9",
		ProductName:   "Monthly Pack",
		Quantity:      2,
		UnitPrice:     decimal.RequireFromString("39.95"),
		Period:        db_models.AutoshipMonthly,
		Status:        db_models.AutoshipActive,
		NextRunAt:     clock.Add(-time.Hour).Unix(),
	}
	require.NoError(t, repo.Insert(ctx, autoship))

	// Paused autoships are never picked up.
	paused := &db_models.Autoship{
		DistributorID: uuid.New(),
		ProductCode:   "SKU-1",
		Quantity:      1,
		UnitPrice:     decimal.RequireFromString("10.00"),
		Status:        db_models.AutoshipPaused,
		NextRunAt:     clock.Add(-time.Hour).Unix(),
	}
	require.NoError(t, repo.Insert(ctx, paused))

	created, err := svc.RunDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	require.Len(t, orders.inserted, 1)
	order := orders.inserted[0]
	assert.Equal(t, distributorID, order.DistributorID)
	assert.Equal(t, db_models.OrderPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("79.90")))

	stored, err := repo.FindByID(ctx, autoship.ID)
	require.NoError(t, err)
	assert.Equal(t, clock.AddDate(0, 1, 0).Unix(), stored.NextRunAt)
	require.NotNil(t, stored.LastRunAt)
	assert.Equal(t, clock.Unix(), *stored.LastRunAt)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "autoship_order_created", audit.entries[0].Action)
}

func TestPauseAndCancelAutoship(t *testing.T) {
	clock := time.Now()
	svc, repo, _, _ := newAutoshipServiceForTest(clock)
	ctx := context.Background()

	autoship, err := svc.CreateAutoship(ctx, uuid.New(), "SKU-9", "Monthly Pack", 1, decimal.RequireFromString("25.00"))
	require.NoError(t, err)

	require.NoError(t, svc.PauseAutoship(ctx, autoship.ID))
	stored, _ := repo.FindByID(ctx, autoship.ID)
	assert.Equal(t, db_models.AutoshipPaused, stored.Status)

	require.NoError(t, svc.CancelAutoship(ctx, autoship.ID))
	stored, _ = repo.FindByID(ctx, autoship.ID)
	assert.Equal(t, db_models.AutoshipCancelled, stored.Status)

	assert.ErrorIs(t, svc.PauseAutoship(ctx, uuid.New()), utils.ErrAutoshipNotFound)
}
