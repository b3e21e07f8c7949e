package compplan

import (
	"time"
)

// RankConfig is immutable reference data for one rank. QualifiedLegs maps a
// required rank code to how many direct legs must already hold it.
type RankConfig struct {
	Code          string
	Name          string
	Level         int
	PersonalSales float64
	ActiveLegs    int
	TeamVolume    float64
	QualifiedLegs map[string]int
	Bonus         float64
}

type PayoutConfig struct {
	MaxRetries     int
	BaseRetryDelay time.Duration
	MaxRetryDelay  time.Duration
}

// Plan holds every tunable of the compensation plan. It is loaded once at
// startup, validated, and injected read-only into the engines.
type Plan struct {
	MatrixWidth int
	MatrixDepth int

	// Percentages of the commissionable order total.
	RetailPercent       float64
	MatrixLevelPercents []float64

	// Percentage of each retail/matrix commission matched to the earner's
	// upline, and how many levels up it reaches.
	MatchingPercent float64
	MatchingLevels  int

	Ranks  []RankConfig
	Payout PayoutConfig
}

// Default returns the production 5x9 plan. Matching is capped at 3 levels so
// the theoretical payout stays under 100% (see Validate); the calculator
// itself honors whatever MatchingLevels is configured.
func Default() Plan {
	return Plan{
		MatrixWidth:         5,
		MatrixDepth:         9,
		RetailPercent:       25,
		MatrixLevelPercents: []float64{10, 5, 5, 3, 3, 2, 2, 1, 1},
		MatchingPercent:     10,
		MatchingLevels:      3,
		Ranks: []RankConfig{
			{
				Code:          "bronze",
				Name:          "Bronze",
				Level:         1,
				PersonalSales: 100,
			},
			{
				Code:          "silver",
				Name:          "Silver",
				Level:         2,
				PersonalSales: 200,
				ActiveLegs:    2,
				TeamVolume:    1000,
				Bonus:         50,
			},
			{
				Code:          "gold",
				Name:          "Gold",
				Level:         3,
				PersonalSales: 300,
				ActiveLegs:    3,
				TeamVolume:    5000,
				Bonus:         150,
			},
			{
				Code:          "platinum",
				Name:          "Platinum",
				Level:         4,
				PersonalSales: 500,
				ActiveLegs:    4,
				TeamVolume:    15000,
				QualifiedLegs: map[string]int{"gold": 2},
				Bonus:         500,
			},
			{
				Code:          "diamond",
				Name:          "Diamond",
				Level:         5,
				PersonalSales: 750,
				ActiveLegs:    5,
				TeamVolume:    50000,
				QualifiedLegs: map[string]int{"platinum": 2},
				Bonus:         1500,
			},
		},
		Payout: PayoutConfig{
			MaxRetries:     3,
			BaseRetryDelay: 30 * time.Minute,
			MaxRetryDelay:  24 * time.Hour,
		},
	}
}

// MatrixPercentForLevel returns the matrix rate for a 1-indexed upline level,
// or 0 when the level has no configured rate.
func (p Plan) MatrixPercentForLevel(level int) float64 {
	if level < 1 || level > len(p.MatrixLevelPercents) {
		return 0
	}
	return p.MatrixLevelPercents[level-1]
}

// RankByCode returns nil when the code is unknown or empty.
func (p Plan) RankByCode(code string) *RankConfig {
	for i := range p.Ranks {
		if p.Ranks[i].Code == code {
			return &p.Ranks[i]
		}
	}
	return nil
}

// TheoreticalPayoutPercent is the worst-case share of commissionable revenue
// the plan can pay out: retail + every matrix level + full matching on top.
func (p Plan) TheoreticalPayoutPercent() float64 {
	total := p.RetailPercent
	for _, pct := range p.MatrixLevelPercents {
		total += pct
	}
	total += p.MatchingPercent * float64(p.MatchingLevels)
	return total
}
