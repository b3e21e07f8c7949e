package response_models

import "github.com/google/uuid"

type RankQualificationResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	QualifiedRank string    `json:"qualified_rank"`
	PersonalSales string    `json:"personal_sales"`
	ActiveLegs    int       `json:"active_legs"`
	TeamVolume    string    `json:"team_volume"`
}

type RankAdvancementResponse struct {
	Advanced bool   `json:"advanced"`
	OldRank  string `json:"old_rank,omitempty"`
	NewRank  string `json:"new_rank,omitempty"`
	Bonus    string `json:"bonus,omitempty"`
}
