package db_models

import (
	"github.com/google/uuid"
)

type PositionStatus string

const (
	PositionActive  PositionStatus = "active"
	PositionSpilled PositionStatus = "spilled"
	PositionCycled  PositionStatus = "cycled"
)

// MatrixPosition is one distributor's permanent slot in the forced matrix.
// Positions are created once at enrollment and never moved or deleted.
// SponsorID is who referred the distributor (commission attribution);
// ParentID is the tree node directly above, null only for a root.
type MatrixPosition struct {
	BaseModel
	UserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	SponsorID uuid.UUID  `gorm:"type:uuid;index"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_matrix_slot,where:parent_id IS NOT NULL"`

	// Level is the distance from the tree root, 1-based.
	Level int `gorm:"index"`
	// Position is a per-level counter kept for diagnostics; it carries no
	// placement semantics.
	Position int
	// LegPosition is the child slot under the parent, 1..width.
	LegPosition int `gorm:"uniqueIndex:idx_matrix_slot,where:parent_id IS NOT NULL"`

	Status   PositionStatus `gorm:"type:position_status;index"`
	PlacedBy uuid.UUID      `gorm:"type:uuid"`
}

func (MatrixPosition) TableName() string {
	return "matrix_positions"
}
