package response_models

type PlanResponse struct {
	MatrixWidth         int       `json:"matrix_width"`
	MatrixDepth         int       `json:"matrix_depth"`
	RetailPercent       float64   `json:"retail_percent"`
	MatrixLevelPercents []float64 `json:"matrix_level_percents"`
	MatchingPercent     float64   `json:"matching_percent"`
	MatchingLevels      int       `json:"matching_levels"`
	TheoreticalPayout   float64   `json:"theoretical_payout_percent"`
	Warnings            []string  `json:"warnings,omitempty"`
}
