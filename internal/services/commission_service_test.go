package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"uplevel/internal/models/db_models"
	"uplevel/pkg/compplan"
	mem "uplevel/pkg/memcache"
	"uplevel/pkg/utils"
)

type fakeCommissionRepo struct {
	created []db_models.Commission
}

func (f *fakeCommissionRepo) CreateBatch(_ context.Context, commissions []*db_models.Commission) error {
	for _, c := range commissions {
		c.ID = uuid.New()
		f.created = append(f.created, *c)
	}
	return nil
}

func (f *fakeCommissionRepo) ListByIDs(_ context.Context, ids []uuid.UUID) ([]db_models.Commission, error) {
	var out []db_models.Commission
	for _, id := range ids {
		for _, c := range f.created {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeCommissionRepo) SumApproved(_ context.Context, userID uuid.UUID, ids []uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, id := range ids {
		for _, c := range f.created {
			if c.ID == id && c.UserID == userID && c.Status == db_models.CommissionApproved {
				total = total.Add(c.Amount)
			}
		}
	}
	return total, nil
}

func (f *fakeCommissionRepo) HasRankBonus(_ context.Context, userID uuid.UUID, rankCode string) (bool, error) {
	for _, c := range f.created {
		if c.UserID == userID && c.Type == db_models.CommissionRankBonus && c.RankCode == rankCode {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCommissionRepo) byType(kind db_models.CommissionType) []db_models.Commission {
	var out []db_models.Commission
	for _, c := range f.created {
		if c.Type == kind {
			out = append(out, c)
		}
	}
	return out
}

type fakeOrderRepo struct {
	orders   map[uuid.UUID]*db_models.Order
	items    map[uuid.UUID][]db_models.OrderItem
	inserted []db_models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[uuid.UUID]*db_models.Order),
		items:  make(map[uuid.UUID][]db_models.OrderItem),
	}
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *order
	return &cp, nil
}

func (f *fakeOrderRepo) ListItems(_ context.Context, orderID uuid.UUID) ([]db_models.OrderItem, error) {
	return f.items[orderID], nil
}

func (f *fakeOrderRepo) SumPaidTotals(_ context.Context, distributorID uuid.UUID, start, end int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, order := range f.orders {
		if order.DistributorID == distributorID && order.Status == db_models.OrderPaid &&
			order.PaidAt != nil && *order.PaidAt >= start && *order.PaidAt < end {
			total = total.Add(order.Total)
		}
	}
	return total, nil
}

func (f *fakeOrderRepo) SumPaidTotalsForUsers(ctx context.Context, distributorIDs []uuid.UUID, start, end int64) (map[uuid.UUID]decimal.Decimal, error) {
	result := make(map[uuid.UUID]decimal.Decimal)
	for _, id := range distributorIDs {
		total, _ := f.SumPaidTotals(ctx, id, start, end)
		if total.IsPositive() {
			result[id] = total
		}
	}
	return result, nil
}

func (f *fakeOrderRepo) CountPaidOrdersForUsers(_ context.Context, distributorIDs []uuid.UUID, start, end int64) (map[uuid.UUID]int64, error) {
	result := make(map[uuid.UUID]int64)
	for _, id := range distributorIDs {
		for _, order := range f.orders {
			if order.DistributorID == id && order.Status == db_models.OrderPaid &&
				order.PaidAt != nil && *order.PaidAt >= start && *order.PaidAt < end {
				result[id]++
			}
		}
	}
	return result, nil
}

func (f *fakeOrderRepo) Insert(_ context.Context, order *db_models.Order) error {
	order.ID = uuid.New()
	f.orders[order.ID] = order
	f.inserted = append(f.inserted, *order)
	return nil
}

func (f *fakeOrderRepo) addPaidOrder(distributorID uuid.UUID, total string, paidAt int64, commissionable string) uuid.UUID {
	id := uuid.New()
	at := paidAt
	f.orders[id] = &db_models.Order{
		BaseModel:     db_models.BaseModel{ID: id},
		DistributorID: distributorID,
		Status:        db_models.OrderPaid,
		Total:         decimal.RequireFromString(total),
		PaidAt:        &at,
	}
	f.items[id] = []db_models.OrderItem{{
		OrderID:             id,
		ProductCode:         "SKU-1",
		Name:                "Starter Pack",
		Quantity:            1,
		UnitPrice:           decimal.RequireFromString(total),
		CommissionableValue: decimal.RequireFromString(commissionable),
	}}
	return id
}

type fakeDistributorRepo struct {
	distributors map[uuid.UUID]db_models.Distributor
	rankUpdates  map[uuid.UUID]string
}

func newFakeDistributorRepo() *fakeDistributorRepo {
	return &fakeDistributorRepo{
		distributors: make(map[uuid.UUID]db_models.Distributor),
		rankUpdates:  make(map[uuid.UUID]string),
	}
}

func (f *fakeDistributorRepo) add(id uuid.UUID, status db_models.DistributorStatus, rankCode string) {
	f.distributors[id] = db_models.Distributor{
		BaseModel: db_models.BaseModel{ID: id},
		Name:      "d-" + id.String()[:8],
		Status:    status,
		RankCode:  rankCode,
	}
}

func (f *fakeDistributorRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Distributor, error) {
	d, ok := f.distributors[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (f *fakeDistributorRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Distributor, error) {
	result := make(map[uuid.UUID]db_models.Distributor)
	for _, id := range ids {
		if d, ok := f.distributors[id]; ok {
			result[id] = d
		}
	}
	return result, nil
}

func (f *fakeDistributorRepo) ListActiveIDs(_ context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, d := range f.distributors {
		if d.IsActive() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeDistributorRepo) UpdateRank(_ context.Context, id uuid.UUID, rankCode string) error {
	d := f.distributors[id]
	d.RankCode = rankCode
	f.distributors[id] = d
	f.rankUpdates[id] = rankCode
	return nil
}

func (f *fakeDistributorRepo) Insert(_ context.Context, distributor *db_models.Distributor) error {
	f.distributors[distributor.ID] = *distributor
	return nil
}

type fakeAuditService struct {
	entries []AuditEntry
}

func (f *fakeAuditService) Record(_ context.Context, entry AuditEntry) {
	f.entries = append(f.entries, entry)
}

// commissionWorld wires a commission service over in-memory stores with a
// real placement service, so upline walks behave as in production.
type commissionWorld struct {
	svc          CommissionServiceInterface
	matrix       MatrixServiceInterface
	commissions  *fakeCommissionRepo
	orders       *fakeOrderRepo
	distributors *fakeDistributorRepo
	audit        *fakeAuditService
}

func newCommissionWorld(t *testing.T, plan compplan.Plan) *commissionWorld {
	t.Helper()

	matrixRepo := newFakeMatrixRepo()
	w := &commissionWorld{
		matrix:       NewMatrixService(matrixRepo, mem.NewBranchLocks(), plan),
		commissions:  &fakeCommissionRepo{},
		orders:       newFakeOrderRepo(),
		distributors: newFakeDistributorRepo(),
		audit:        &fakeAuditService{},
	}
	w.svc = NewCommissionService(w.commissions, w.orders, w.distributors, w.matrix, w.audit, plan)
	return w
}

// enrollChain creates n active distributors where each sponsors the next,
// returning them root-first.
func (w *commissionWorld) enrollChain(t *testing.T, n int) []uuid.UUID {
	t.Helper()

	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
		w.distributors.add(ids[i], db_models.DistributorActive, "")
		if i > 0 {
			_, err := w.matrix.PlaceInMatrix(context.Background(), ids[i], ids[i-1], ids[i-1])
			require.NoError(t, err)
		}
	}
	return ids
}

func TestProcessOrderCommissions_FullRun(t *testing.T) {
	w := newCommissionWorld(t, compplan.Default())
	ctx := context.Background()

	chain := w.enrollChain(t, 3)
	root, mid, seller := chain[0], chain[1], chain[2]

	orderID := w.orders.addPaidOrder(seller, "100.00", utils.NowUnixSeconds(), "100.00")

	result, err := w.svc.ProcessOrderCommissions(ctx, orderID, seller, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, result.CommissionsCreated)

	// retail 25 + matrix 10+5 + matching 2.50+2.50+1.00
	assert.True(t, result.TotalAmount.Equal(decimal.RequireFromString("46.00")),
		"total %s", result.TotalAmount)

	retail := w.commissions.byType(db_models.CommissionRetail)
	require.Len(t, retail, 1)
	assert.Equal(t, seller, retail[0].UserID)
	assert.True(t, retail[0].Amount.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, db_models.CommissionPending, retail[0].Status)

	matrix := w.commissions.byType(db_models.CommissionMatrix)
	require.Len(t, matrix, 2)
	assert.Equal(t, mid, matrix[0].UserID)
	assert.True(t, matrix[0].Amount.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, root, matrix[1].UserID)
	assert.True(t, matrix[1].Amount.Equal(decimal.RequireFromString("5.00")))

	matching := w.commissions.byType(db_models.CommissionMatching)
	require.Len(t, matching, 3)

	for _, c := range w.commissions.created {
		require.NotNil(t, c.OrderID)
		assert.Equal(t, orderID, *c.OrderID)
	}
}

func TestProcessOrderCommissions_InactiveUplineForfeits(t *testing.T) {
	w := newCommissionWorld(t, compplan.Default())
	ctx := context.Background()

	chain := w.enrollChain(t, 3)
	root, mid, seller := chain[0], chain[1], chain[2]

	// Suspend the level-1 upline; their share is forfeited, not passed up.
	w.distributors.add(mid, db_models.DistributorSuspended, "")

	orderID := w.orders.addPaidOrder(seller, "100.00", utils.NowUnixSeconds(), "100.00")

	result, err := w.svc.ProcessOrderCommissions(ctx, orderID, seller, nil)
	require.NoError(t, err)

	matrix := w.commissions.byType(db_models.CommissionMatrix)
	require.Len(t, matrix, 1)
	assert.Equal(t, root, matrix[0].UserID)
	assert.True(t, matrix[0].Amount.Equal(decimal.RequireFromString("5.00")))

	for _, c := range w.commissions.created {
		assert.NotEqual(t, mid, c.UserID)
	}

	// retail 25 + matrix 5 + the retail match to root 2.50; root has no
	// upline so its own matrix row is never matched
	assert.True(t, result.TotalAmount.Equal(decimal.RequireFromString("32.50")),
		"total %s", result.TotalAmount)
}

func TestProcessOrderCommissions_MatchingDepthFollowsPlan(t *testing.T) {
	plan := compplan.Default()
	plan.MatchingLevels = 5
	plan.MatrixLevelPercents = []float64{10, 5, 5, 3, 3, 2, 2, 1, 1}

	w := newCommissionWorld(t, plan)
	ctx := context.Background()

	chain := w.enrollChain(t, 6)
	seller := chain[5]

	orderID := w.orders.addPaidOrder(seller, "100.00", utils.NowUnixSeconds(), "100.00")

	_, err := w.svc.ProcessOrderCommissions(ctx, orderID, seller, nil)
	require.NoError(t, err)

	// The retail earner's bonus is matched five levels up.
	var retailMatches []db_models.Commission
	for _, c := range w.commissions.byType(db_models.CommissionMatching) {
		if c.FromUserID == seller {
			retailMatches = append(retailMatches, c)
		}
	}
	require.Len(t, retailMatches, 5)
	for i, c := range retailMatches {
		require.NotNil(t, c.Level)
		assert.Equal(t, i+1, *c.Level)
		assert.True(t, c.Amount.Equal(decimal.RequireFromString("2.50")))
		assert.Equal(t, chain[4-i], c.UserID)
	}
}

func TestProcessOrderCommissions_RoundsAtPersistence(t *testing.T) {
	w := newCommissionWorld(t, compplan.Default())
	ctx := context.Background()

	chain := w.enrollChain(t, 2)
	seller := chain[1]

	orderID := w.orders.addPaidOrder(seller, "33.33", utils.NowUnixSeconds(), "33.33")

	_, err := w.svc.ProcessOrderCommissions(ctx, orderID, seller, nil)
	require.NoError(t, err)

	retail := w.commissions.byType(db_models.CommissionRetail)
	require.Len(t, retail, 1)
	// 25% of 33.33 is 8.3325; stored rounded, matched from the full value.
	assert.True(t, retail[0].Amount.Equal(decimal.RequireFromString("8.33")))

	matching := w.commissions.byType(db_models.CommissionMatching)
	for _, c := range matching {
		if c.FromUserID == seller {
			// 10% of unrounded 8.3325, rounded once.
			assert.True(t, c.Amount.Equal(decimal.RequireFromString("0.83")))
		}
	}
}

func TestProcessOrderCommissions_OrderNotFound(t *testing.T) {
	w := newCommissionWorld(t, compplan.Default())

	_, err := w.svc.ProcessOrderCommissions(context.Background(), uuid.New(), uuid.New(), nil)
	assert.ErrorIs(t, err, utils.ErrOrderNotFound)
}

func TestProcessOrderCommissions_NoCommissionableItems(t *testing.T) {
	w := newCommissionWorld(t, compplan.Default())
	ctx := context.Background()

	seller := uuid.New()
	w.distributors.add(seller, db_models.DistributorActive, "")

	orderID := w.orders.addPaidOrder(seller, "50.00", utils.NowUnixSeconds(), "0.00")

	_, err := w.svc.ProcessOrderCommissions(ctx, orderID, seller, nil)
	assert.ErrorIs(t, err, utils.ErrNoCommissionableItems)
	assert.Empty(t, w.commissions.created)
}

func TestAwardRankBonus_OneTimePerRank(t *testing.T) {
	w := newCommissionWorld(t, compplan.Default())
	ctx := context.Background()

	userID := uuid.New()
	rank := &db_models.RankDefinition{
		Code:  "silver",
		Name:  "Silver",
		Level: 2,
		Bonus: decimal.RequireFromString("50.00"),
	}

	first, err := w.svc.AwardRankBonus(ctx, userID, rank)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, "silver", first.RankCode)
	assert.Nil(t, first.OrderID)

	second, err := w.svc.AwardRankBonus(ctx, userID, rank)
	require.NoError(t, err)
	assert.Nil(t, second)
	assert.Len(t, w.commissions.byType(db_models.CommissionRankBonus), 1)
}

func TestAwardRankBonus_ZeroBonusSkipped(t *testing.T) {
	w := newCommissionWorld(t, compplan.Default())

	bonus, err := w.svc.AwardRankBonus(context.Background(), uuid.New(), &db_models.RankDefinition{
		Code:  "bronze",
		Level: 1,
		Bonus: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Nil(t, bonus)
	assert.Empty(t, w.commissions.created)
}
