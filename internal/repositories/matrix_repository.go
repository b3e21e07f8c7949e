package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"uplevel/internal/models/db_models"
)

type IMatrixRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*db_models.MatrixPosition, error)
	// FetchChildren returns the direct children of a node ordered by leg
	// position. Traversal algorithms call this per visited node so the
	// storage layer can index-optimize without changing their behavior.
	FetchChildren(ctx context.Context, parentUserID uuid.UUID) ([]db_models.MatrixPosition, error)
	FetchChildrenBatch(ctx context.Context, parentUserIDs []uuid.UUID) (map[uuid.UUID][]db_models.MatrixPosition, error)
	CountAtLevel(ctx context.Context, level int) (int64, error)
	// InsertAll writes the given positions in a single transaction; used by
	// placement, which may create a sponsor root and a child together.
	InsertAll(ctx context.Context, positions ...*db_models.MatrixPosition) error
}

type MatrixRepository struct {
	db *gorm.DB
}

func NewMatrixRepository(db *gorm.DB) IMatrixRepository {
	return &MatrixRepository{db: db}
}

func (m *MatrixRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*db_models.MatrixPosition, error) {

	var pos db_models.MatrixPosition
	err := m.db.WithContext(ctx).First(&pos, "user_id = ?", userID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &pos, nil
}

func (m *MatrixRepository) FetchChildren(ctx context.Context, parentUserID uuid.UUID) ([]db_models.MatrixPosition, error) {

	var children []db_models.MatrixPosition
	err := m.db.WithContext(ctx).
		Where("parent_id = ?", parentUserID).
		Order("leg_position ASC").
		Find(&children).Error

	if err != nil {
		return nil, err
	}

	return children, nil
}

func (m *MatrixRepository) FetchChildrenBatch(ctx context.Context, parentUserIDs []uuid.UUID) (map[uuid.UUID][]db_models.MatrixPosition, error) {

	result := make(map[uuid.UUID][]db_models.MatrixPosition, len(parentUserIDs))
	if len(parentUserIDs) == 0 {
		return result, nil
	}

	var children []db_models.MatrixPosition
	err := m.db.WithContext(ctx).
		Where("parent_id IN ?", parentUserIDs).
		Order("leg_position ASC").
		Find(&children).Error

	if err != nil {
		return nil, err
	}

	for _, child := range children {
		if child.ParentID == nil {
			continue
		}
		result[*child.ParentID] = append(result[*child.ParentID], child)
	}

	return result, nil
}

func (m *MatrixRepository) CountAtLevel(ctx context.Context, level int) (int64, error) {

	var count int64
	err := m.db.WithContext(ctx).
		Model(&db_models.MatrixPosition{}).
		Where("level = ?", level).
		Count(&count).Error

	if err != nil {
		return 0, err
	}

	return count, nil
}

func (m *MatrixRepository) InsertAll(ctx context.Context, positions ...*db_models.MatrixPosition) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, pos := range positions {
			if err := tx.Create(pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
