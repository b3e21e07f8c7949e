package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"uplevel/internal/models/db_models"
)

type IDistributorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Distributor, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Distributor, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdateRank(ctx context.Context, id uuid.UUID, rankCode string) error
	Insert(ctx context.Context, distributor *db_models.Distributor) error
}

type DistributorRepository struct {
	db *gorm.DB
}

func NewDistributorRepository(db *gorm.DB) IDistributorRepository {
	return &DistributorRepository{db: db}
}

func (d *DistributorRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Distributor, error) {

	var distributor db_models.Distributor
	err := d.db.WithContext(ctx).First(&distributor, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &distributor, nil
}

func (d *DistributorRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Distributor, error) {

	result := make(map[uuid.UUID]db_models.Distributor, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var distributors []db_models.Distributor
	err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&distributors).Error
	if err != nil {
		return nil, err
	}

	for _, distributor := range distributors {
		result[distributor.ID] = distributor
	}

	return result, nil
}

func (d *DistributorRepository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {

	var ids []uuid.UUID
	err := d.db.WithContext(ctx).
		Model(&db_models.Distributor{}).
		Where("status = ?", db_models.DistributorActive).
		Pluck("id", &ids).Error

	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (d *DistributorRepository) UpdateRank(ctx context.Context, id uuid.UUID, rankCode string) error {
	return d.db.WithContext(ctx).
		Model(&db_models.Distributor{}).
		Where("id = ?", id).
		Update("rank_code", rankCode).Error
}

func (d *DistributorRepository) Insert(ctx context.Context, distributor *db_models.Distributor) error {
	return d.db.WithContext(ctx).Create(distributor).Error
}
