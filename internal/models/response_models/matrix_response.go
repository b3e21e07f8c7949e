package response_models

import "github.com/google/uuid"

type PlacementResponse struct {
	UserID      uuid.UUID  `json:"user_id"`
	SponsorID   uuid.UUID  `json:"sponsor_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Level       int        `json:"level"`
	Position    int        `json:"position"`
	LegPosition int        `json:"leg_position"`
	Status      string     `json:"status"`
}

type GenealogyEntry struct {
	UserID        uuid.UUID  `json:"user_id"`
	ParentID      *uuid.UUID `json:"parent_id,omitempty"`
	Level         int        `json:"level"`
	RelativeLevel int        `json:"relative_level"`
	LegPosition   int        `json:"leg_position"`
	Status        string     `json:"status"`
}

type GenealogyResponse struct {
	UserID  uuid.UUID        `json:"user_id"`
	Entries []GenealogyEntry `json:"entries"`
}
