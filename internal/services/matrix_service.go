package services

import (
	"context"
	"log"

	"github.com/google/uuid"
	"uplevel/internal/models/db_models"
	"uplevel/internal/repositories"
	"uplevel/pkg/compplan"
	mem "uplevel/pkg/memcache"
	"uplevel/pkg/utils"
)

type MatrixServiceInterface interface {
	// PlaceInMatrix inserts a newly enrolled distributor into the forced
	// matrix at the shallowest open slot under their sponsor, creating the
	// sponsor's root position first when the sponsor has none.
	PlaceInMatrix(ctx context.Context, newUserID, sponsorID, placedBy uuid.UUID) (*db_models.MatrixPosition, error)
	// GetDownlinePositions walks breadth-first from userID, returning all
	// descendants up to maxLevels, shallowest first, siblings in leg order.
	GetDownlinePositions(ctx context.Context, userID uuid.UUID, maxLevels int) ([]db_models.MatrixPosition, error)
	// GetUplinePositions walks parent links upward at most levels hops,
	// returning ancestors nearest-first.
	GetUplinePositions(ctx context.Context, userID uuid.UUID, levels int) ([]db_models.MatrixPosition, error)
}

func NewMatrixService(matrixRepo repositories.IMatrixRepository, locks mem.BranchLocks, plan compplan.Plan) MatrixServiceInterface {
	return &MatrixService{
		matrixRepo: matrixRepo,
		locks:      locks,
		plan:       plan,
	}
}

type MatrixService struct {
	matrixRepo repositories.IMatrixRepository
	locks      mem.BranchLocks
	plan       compplan.Plan
}

func (m *MatrixService) PlaceInMatrix(ctx context.Context, newUserID, sponsorID, placedBy uuid.UUID) (*db_models.MatrixPosition, error) {

	existing, err := m.matrixRepo.FindByUserID(ctx, newUserID)
	if err != nil {
		log.Printf("placement: lookup failed for %s: %v", newUserID, err)
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrAlreadyPlaced
	}

	sponsorPos, err := m.matrixRepo.FindByUserID(ctx, sponsorID)
	if err != nil {
		log.Printf("placement: sponsor lookup failed for %s: %v", sponsorID, err)
		return nil, utils.ErrDatabaseError
	}

	rootKey, err := m.rootKeyFor(ctx, sponsorPos, sponsorID)
	if err != nil {
		return nil, err
	}

	// Serialize per tree so two concurrent enrollments cannot claim the
	// same open slot out from under each other.
	m.locks.Lock(rootKey)
	defer m.locks.Unlock(rootKey)

	// Re-check under the lock; a concurrent call may have placed either
	// the new user or the sponsor's root in the meantime.
	existing, err = m.matrixRepo.FindByUserID(ctx, newUserID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrAlreadyPlaced
	}
	sponsorPos, err = m.matrixRepo.FindByUserID(ctx, sponsorID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	var toInsert []*db_models.MatrixPosition

	if sponsorPos == nil {
		// First enrollment under this sponsor chain: sponsor becomes a
		// self-sponsored root at level 1.
		rootCount, err := m.matrixRepo.CountAtLevel(ctx, 1)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		sponsorPos = &db_models.MatrixPosition{
			UserID:      sponsorID,
			SponsorID:   sponsorID,
			ParentID:    nil,
			Level:       1,
			Position:    int(rootCount) + 1,
			LegPosition: 0,
			Status:      db_models.PositionActive,
			PlacedBy:    placedBy,
		}
		toInsert = append(toInsert, sponsorPos)
	}

	parent, legPosition, err := m.findOpenSlot(ctx, sponsorPos)
	if err != nil {
		return nil, err
	}

	levelCount, err := m.matrixRepo.CountAtLevel(ctx, parent.Level+1)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	status := db_models.PositionActive
	if parent.UserID != sponsorID {
		status = db_models.PositionSpilled
	}

	parentID := parent.UserID
	newPos := &db_models.MatrixPosition{
		UserID:      newUserID,
		SponsorID:   sponsorID,
		ParentID:    &parentID,
		Level:       parent.Level + 1,
		Position:    int(levelCount) + 1,
		LegPosition: legPosition,
		Status:      status,
		PlacedBy:    placedBy,
	}
	toInsert = append(toInsert, newPos)

	if err := m.matrixRepo.InsertAll(ctx, toInsert...); err != nil {
		log.Printf("placement: insert failed for %s under %s: %v", newUserID, parentID, err)
		return nil, utils.ErrDatabaseError
	}

	return newPos, nil
}

// findOpenSlot runs the breadth-first spillover search from the sponsor's
// node. Visiting order guarantees the shallowest open slot is claimed first
// and siblings fill left to right.
func (m *MatrixService) findOpenSlot(ctx context.Context, start *db_models.MatrixPosition) (*db_models.MatrixPosition, int, error) {

	queue := []*db_models.MatrixPosition{start}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if node.Level+1 > m.plan.MatrixDepth {
			continue
		}

		// Unpersisted sponsor roots have no children yet.
		var children []db_models.MatrixPosition
		if node.ID != uuid.Nil {
			var err error
			children, err = m.matrixRepo.FetchChildren(ctx, node.UserID)
			if err != nil {
				log.Printf("placement: fetch children failed for %s: %v", node.UserID, err)
				return nil, 0, utils.ErrDatabaseError
			}
		}

		if len(children) < m.plan.MatrixWidth {
			return node, len(children) + 1, nil
		}

		for i := range children {
			queue = append(queue, &children[i])
		}
	}

	return nil, 0, utils.ErrMatrixFull
}

func (m *MatrixService) rootKeyFor(ctx context.Context, pos *db_models.MatrixPosition, sponsorID uuid.UUID) (string, error) {

	if pos == nil {
		// Sponsor is about to become a root of their own tree.
		return sponsorID.String(), nil
	}

	cur := pos
	for cur.ParentID != nil {
		parent, err := m.matrixRepo.FindByUserID(ctx, *cur.ParentID)
		if err != nil {
			return "", utils.ErrDatabaseError
		}
		if parent == nil {
			log.Printf("placement: dangling parent link %s above %s", *cur.ParentID, cur.UserID)
			return cur.UserID.String(), nil
		}
		cur = parent
	}

	return cur.UserID.String(), nil
}

func (m *MatrixService) GetDownlinePositions(ctx context.Context, userID uuid.UUID, maxLevels int) ([]db_models.MatrixPosition, error) {

	pos, err := m.matrixRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if pos == nil {
		return nil, nil
	}

	var result []db_models.MatrixPosition
	frontier := []uuid.UUID{userID}

	for level := 1; level <= maxLevels && len(frontier) > 0; level++ {
		batch, err := m.matrixRepo.FetchChildrenBatch(ctx, frontier)
		if err != nil {
			log.Printf("downline: fetch failed below %s at relative level %d: %v", userID, level, err)
			return nil, utils.ErrDatabaseError
		}

		var next []uuid.UUID
		for _, parentID := range frontier {
			for _, child := range batch[parentID] {
				result = append(result, child)
				next = append(next, child.UserID)
			}
		}
		frontier = next
	}

	return result, nil
}

func (m *MatrixService) GetUplinePositions(ctx context.Context, userID uuid.UUID, levels int) ([]db_models.MatrixPosition, error) {

	pos, err := m.matrixRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if pos == nil {
		return nil, nil
	}

	var result []db_models.MatrixPosition
	cur := pos

	for i := 0; i < levels && cur.ParentID != nil; i++ {
		parent, err := m.matrixRepo.FindByUserID(ctx, *cur.ParentID)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		if parent == nil {
			log.Printf("upline: dangling parent link %s above %s", *cur.ParentID, cur.UserID)
			break
		}
		result = append(result, *parent)
		cur = parent
	}

	return result, nil
}
