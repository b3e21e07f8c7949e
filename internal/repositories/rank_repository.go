package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"uplevel/internal/models/db_models"
)

type IRankRepository interface {
	// SeedFromPlan upserts the configured rank table; ranks are reference
	// data and only ever change through a plan reload.
	SeedFromPlan(ctx context.Context, ranks []db_models.RankDefinition) error
	ListByLevelDesc(ctx context.Context) ([]db_models.RankDefinition, error)
	FindByCode(ctx context.Context, code string) (*db_models.RankDefinition, error)
}

type RankRepository struct {
	db *gorm.DB
}

func NewRankRepository(db *gorm.DB) IRankRepository {
	return &RankRepository{db: db}
}

func (r *RankRepository) SeedFromPlan(ctx context.Context, ranks []db_models.RankDefinition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range ranks {
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "code"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "level", "personal_sales", "active_legs",
					"team_volume", "qualified_legs", "bonus", "updated_at",
				}),
			}).Create(&ranks[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RankRepository) ListByLevelDesc(ctx context.Context) ([]db_models.RankDefinition, error) {

	var ranks []db_models.RankDefinition
	err := r.db.WithContext(ctx).Order("level DESC").Find(&ranks).Error

	if err != nil {
		return nil, err
	}

	return ranks, nil
}

func (r *RankRepository) FindByCode(ctx context.Context, code string) (*db_models.RankDefinition, error) {

	var rank db_models.RankDefinition
	err := r.db.WithContext(ctx).First(&rank, "code = ?", code).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &rank, nil
}
