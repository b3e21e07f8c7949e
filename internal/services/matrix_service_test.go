package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"uplevel/internal/models/db_models"
	"uplevel/pkg/compplan"
	mem "uplevel/pkg/memcache"
	"uplevel/pkg/utils"
)

type fakeMatrixRepo struct {
	byUser map[uuid.UUID]*db_models.MatrixPosition
	order  []uuid.UUID
}

func newFakeMatrixRepo() *fakeMatrixRepo {
	return &fakeMatrixRepo{byUser: make(map[uuid.UUID]*db_models.MatrixPosition)}
}

func (f *fakeMatrixRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*db_models.MatrixPosition, error) {
	pos, ok := f.byUser[userID]
	if !ok {
		return nil, nil
	}
	cp := *pos
	return &cp, nil
}

func (f *fakeMatrixRepo) FetchChildren(_ context.Context, parentUserID uuid.UUID) ([]db_models.MatrixPosition, error) {
	var children []db_models.MatrixPosition
	for _, id := range f.order {
		pos := f.byUser[id]
		if pos.ParentID != nil && *pos.ParentID == parentUserID {
			children = append(children, *pos)
		}
	}
	// insertion order is leg order in these tests
	return children, nil
}

func (f *fakeMatrixRepo) FetchChildrenBatch(ctx context.Context, parentUserIDs []uuid.UUID) (map[uuid.UUID][]db_models.MatrixPosition, error) {
	result := make(map[uuid.UUID][]db_models.MatrixPosition)
	for _, parentID := range parentUserIDs {
		children, _ := f.FetchChildren(ctx, parentID)
		if len(children) > 0 {
			result[parentID] = children
		}
	}
	return result, nil
}

func (f *fakeMatrixRepo) CountAtLevel(_ context.Context, level int) (int64, error) {
	var count int64
	for _, pos := range f.byUser {
		if pos.Level == level {
			count++
		}
	}
	return count, nil
}

func (f *fakeMatrixRepo) InsertAll(_ context.Context, positions ...*db_models.MatrixPosition) error {
	for _, pos := range positions {
		pos.ID = uuid.New()
		cp := *pos
		f.byUser[pos.UserID] = &cp
		f.order = append(f.order, pos.UserID)
	}
	return nil
}

func newMatrixServiceForTest(plan compplan.Plan) (MatrixServiceInterface, *fakeMatrixRepo) {
	repo := newFakeMatrixRepo()
	return NewMatrixService(repo, mem.NewBranchLocks(), plan), repo
}

func TestPlaceInMatrix_DirectFillThenSpillover(t *testing.T) {
	svc, _ := newMatrixServiceForTest(compplan.Default())
	ctx := context.Background()

	sponsor := uuid.New()
	direct := make([]uuid.UUID, 5)

	for i := range direct {
		direct[i] = uuid.New()
		pos, err := svc.PlaceInMatrix(ctx, direct[i], sponsor, sponsor)
		require.NoError(t, err)
		assert.Equal(t, db_models.PositionActive, pos.Status)
		require.NotNil(t, pos.ParentID)
		assert.Equal(t, sponsor, *pos.ParentID)
		assert.Equal(t, i+1, pos.LegPosition)
		assert.Equal(t, 2, pos.Level)
	}

	// Sixth enrollment spills to the sponsor's leftmost child.
	sixth := uuid.New()
	pos, err := svc.PlaceInMatrix(ctx, sixth, sponsor, sponsor)
	require.NoError(t, err)
	assert.Equal(t, db_models.PositionSpilled, pos.Status)
	require.NotNil(t, pos.ParentID)
	assert.Equal(t, direct[0], *pos.ParentID)
	assert.Equal(t, 1, pos.LegPosition)
	assert.Equal(t, 3, pos.Level)
	assert.Equal(t, sponsor, pos.SponsorID)
}

func TestPlaceInMatrix_SpilloverFillsLevelLeftToRight(t *testing.T) {
	svc, _ := newMatrixServiceForTest(compplan.Default())
	ctx := context.Background()

	sponsor := uuid.New()
	for i := 0; i < 5; i++ {
		_, err := svc.PlaceInMatrix(ctx, uuid.New(), sponsor, sponsor)
		require.NoError(t, err)
	}

	// The next five spill one each onto the five level-2 nodes in order,
	// so no node gets a second child before every sibling has one.
	downline, err := svc.GetDownlinePositions(ctx, sponsor, 1)
	require.NoError(t, err)
	require.Len(t, downline, 5)

	for i := 0; i < 5; i++ {
		pos, err := svc.PlaceInMatrix(ctx, uuid.New(), sponsor, sponsor)
		require.NoError(t, err)
		require.NotNil(t, pos.ParentID)
		assert.Equal(t, downline[i].UserID, *pos.ParentID)
		assert.Equal(t, 1, pos.LegPosition)
	}
}

func TestPlaceInMatrix_CreatesSponsorRoot(t *testing.T) {
	svc, repo := newMatrixServiceForTest(compplan.Default())
	ctx := context.Background()

	sponsor := uuid.New()
	member := uuid.New()

	_, err := svc.PlaceInMatrix(ctx, member, sponsor, sponsor)
	require.NoError(t, err)

	root, err := repo.FindByUserID(ctx, sponsor)
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, 1, root.Level)
	assert.Nil(t, root.ParentID)
	assert.Equal(t, sponsor, root.SponsorID)
}

func TestPlaceInMatrix_AlreadyPlaced(t *testing.T) {
	svc, _ := newMatrixServiceForTest(compplan.Default())
	ctx := context.Background()

	sponsor := uuid.New()
	member := uuid.New()

	_, err := svc.PlaceInMatrix(ctx, member, sponsor, sponsor)
	require.NoError(t, err)

	_, err = svc.PlaceInMatrix(ctx, member, sponsor, sponsor)
	assert.ErrorIs(t, err, utils.ErrAlreadyPlaced)
}

func TestPlaceInMatrix_MatrixFull(t *testing.T) {
	plan := compplan.Default()
	plan.MatrixWidth = 2
	plan.MatrixDepth = 2

	svc, _ := newMatrixServiceForTest(plan)
	ctx := context.Background()
	sponsor := uuid.New()

	// Depth 2 under a level-1 root leaves exactly two open slots.
	for i := 0; i < 2; i++ {
		_, err := svc.PlaceInMatrix(ctx, uuid.New(), sponsor, sponsor)
		require.NoError(t, err)
	}

	_, err := svc.PlaceInMatrix(ctx, uuid.New(), sponsor, sponsor)
	assert.ErrorIs(t, err, utils.ErrMatrixFull)
}

func TestGetDownlinePositions_OrderAndDepthLimit(t *testing.T) {
	svc, _ := newMatrixServiceForTest(compplan.Default())
	ctx := context.Background()

	sponsor := uuid.New()
	var placed []uuid.UUID
	for i := 0; i < 8; i++ {
		id := uuid.New()
		placed = append(placed, id)
		_, err := svc.PlaceInMatrix(ctx, id, sponsor, sponsor)
		require.NoError(t, err)
	}

	all, err := svc.GetDownlinePositions(ctx, sponsor, 9)
	require.NoError(t, err)
	require.Len(t, all, 8)

	// Shallowest first, then placement order inside a level.
	for i := 0; i < 5; i++ {
		assert.Equal(t, placed[i], all[i].UserID)
		assert.Equal(t, 2, all[i].Level)
	}
	for i := 5; i < 8; i++ {
		assert.Equal(t, 3, all[i].Level)
	}

	topOnly, err := svc.GetDownlinePositions(ctx, sponsor, 1)
	require.NoError(t, err)
	assert.Len(t, topOnly, 5)
}

func TestGetUplinePositions_NearestFirst(t *testing.T) {
	plan := compplan.Default()
	plan.MatrixWidth = 2

	svc, _ := newMatrixServiceForTest(plan)
	ctx := context.Background()

	// Chain sponsor -> a -> b by sponsoring under the previous member.
	sponsor := uuid.New()
	a := uuid.New()
	b := uuid.New()

	_, err := svc.PlaceInMatrix(ctx, a, sponsor, sponsor)
	require.NoError(t, err)
	_, err = svc.PlaceInMatrix(ctx, b, a, a)
	require.NoError(t, err)

	upline, err := svc.GetUplinePositions(ctx, b, 9)
	require.NoError(t, err)
	require.Len(t, upline, 2)
	assert.Equal(t, a, upline[0].UserID)
	assert.Equal(t, sponsor, upline[1].UserID)

	oneHop, err := svc.GetUplinePositions(ctx, b, 1)
	require.NoError(t, err)
	require.Len(t, oneHop, 1)
	assert.Equal(t, a, oneHop[0].UserID)
}

func TestGetDownlinePositions_UnplacedUser(t *testing.T) {
	svc, _ := newMatrixServiceForTest(compplan.Default())

	positions, err := svc.GetDownlinePositions(context.Background(), uuid.New(), 9)
	require.NoError(t, err)
	assert.Nil(t, positions)
}
