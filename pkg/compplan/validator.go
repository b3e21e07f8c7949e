package compplan

import (
	"fmt"
)

// ValidationError reports the first hard rule a plan breaks. Plans that fail
// validation must not be loaded; warnings are advisory only.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid compensation plan: %s %s", e.Field, e.Reason)
}

// Validate checks a plan's structural bounds and its theoretical maximum
// payout. A plan that could pay out more than 100% of commissionable revenue
// is mathematically unsustainable and is rejected outright. Operationally
// risky but legal values come back as warnings.
func Validate(p Plan) ([]string, error) {
	if p.MatrixWidth < 2 || p.MatrixWidth > 10 {
		return nil, &ValidationError{"matrix width", fmt.Sprintf("must be between 2 and 10, got %d", p.MatrixWidth)}
	}
	if p.MatrixDepth < 1 || p.MatrixDepth > 15 {
		return nil, &ValidationError{"matrix depth", fmt.Sprintf("must be between 1 and 15, got %d", p.MatrixDepth)}
	}
	if p.RetailPercent < 0 || p.RetailPercent > 100 {
		return nil, &ValidationError{"retail percent", fmt.Sprintf("must be between 0 and 100, got %v", p.RetailPercent)}
	}
	if len(p.MatrixLevelPercents) != p.MatrixDepth {
		return nil, &ValidationError{"matrix level percents",
			fmt.Sprintf("must have one rate per level, got %d for depth %d", len(p.MatrixLevelPercents), p.MatrixDepth)}
	}
	for i, pct := range p.MatrixLevelPercents {
		if pct < 0 || pct > 100 {
			return nil, &ValidationError{fmt.Sprintf("matrix level %d percent", i+1),
				fmt.Sprintf("must be between 0 and 100, got %v", pct)}
		}
	}
	if p.MatchingPercent < 0 || p.MatchingPercent > 100 {
		return nil, &ValidationError{"matching percent", fmt.Sprintf("must be between 0 and 100, got %v", p.MatchingPercent)}
	}
	if p.MatchingLevels < 0 {
		return nil, &ValidationError{"matching levels", fmt.Sprintf("must not be negative, got %d", p.MatchingLevels)}
	}

	total := p.TheoreticalPayoutPercent()
	if total > 100 {
		return nil, &ValidationError{"total payout",
			fmt.Sprintf("theoretical maximum %.2f%% exceeds 100%% of commissionable revenue", total)}
	}

	if err := validateRanks(p.Ranks); err != nil {
		return nil, err
	}
	if p.Payout.MaxRetries < 0 {
		return nil, &ValidationError{"payout max retries", fmt.Sprintf("must not be negative, got %d", p.Payout.MaxRetries)}
	}
	if p.Payout.BaseRetryDelay <= 0 || p.Payout.MaxRetryDelay < p.Payout.BaseRetryDelay {
		return nil, &ValidationError{"payout retry delays", "base delay must be positive and max delay must not be below it"}
	}

	var warnings []string
	if total > 75 {
		warnings = append(warnings, fmt.Sprintf("high payout: theoretical maximum %.2f%% exceeds 75%% of commissionable revenue", total))
	}
	if p.MatrixDepth > 9 {
		warnings = append(warnings, fmt.Sprintf("matrix depth %d exceeds 9; commission runs walk the full depth on every order", p.MatrixDepth))
	}

	return warnings, nil
}

func validateRanks(ranks []RankConfig) error {
	seenCodes := make(map[string]bool)
	seenLevels := make(map[int]bool)
	for _, r := range ranks {
		if r.Code == "" {
			return &ValidationError{"rank code", "must not be empty"}
		}
		if seenCodes[r.Code] {
			return &ValidationError{"rank code", fmt.Sprintf("%q is duplicated", r.Code)}
		}
		seenCodes[r.Code] = true
		if r.Level < 1 {
			return &ValidationError{fmt.Sprintf("rank %s level", r.Code), fmt.Sprintf("must be at least 1, got %d", r.Level)}
		}
		if seenLevels[r.Level] {
			return &ValidationError{fmt.Sprintf("rank %s level", r.Code), fmt.Sprintf("ordinal %d is duplicated", r.Level)}
		}
		seenLevels[r.Level] = true
		if r.PersonalSales < 0 || r.TeamVolume < 0 || r.ActiveLegs < 0 || r.Bonus < 0 {
			return &ValidationError{fmt.Sprintf("rank %s thresholds", r.Code), "must not be negative"}
		}
	}
	// Qualified-leg requirements must reference configured ranks.
	for _, r := range ranks {
		for code, count := range r.QualifiedLegs {
			if !seenCodes[code] {
				return &ValidationError{fmt.Sprintf("rank %s qualified legs", r.Code), fmt.Sprintf("references unknown rank %q", code)}
			}
			if count < 1 {
				return &ValidationError{fmt.Sprintf("rank %s qualified legs", r.Code), fmt.Sprintf("count for %q must be at least 1", code)}
			}
		}
	}
	return nil
}
