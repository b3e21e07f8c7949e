package db_models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RankDefinition mirrors the configured rank table (pkg/compplan) into the
// database so reporting queries can join against it. Rows are seeded at
// startup from the validated plan and treated as immutable reference data.
type RankDefinition struct {
	BaseModel
	Code  string `gorm:"uniqueIndex"`
	Name  string
	Level int `gorm:"uniqueIndex"`

	PersonalSales decimal.Decimal `gorm:"type:numeric(20,2)"`
	ActiveLegs    int
	TeamVolume    decimal.Decimal `gorm:"type:numeric(20,2)"`
	// QualifiedLegs maps required rank code -> count of direct legs that
	// must already hold it, e.g. {"gold": 2}.
	QualifiedLegs datatypes.JSON  `gorm:"type:jsonb;default:'{}'"`
	Bonus         decimal.Decimal `gorm:"type:numeric(20,2)"`
}
