package compplan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_DefaultPlanPassesWithHighPayoutWarning(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)

	// 25 retail + 32 matrix + 30 matching = 87%, sustainable but steep.
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "high payout")
	assert.Contains(t, warnings[0], "87.00%")
}

func TestValidate_RejectsPayoutOverOneHundredPercent(t *testing.T) {
	// Matching five levels deep pushes the default plan to 107%.
	plan := Default()
	plan.MatchingLevels = 5

	_, err := Validate(plan)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "total payout", verr.Field)
	assert.Contains(t, verr.Reason, "107.00%")
}

func TestValidate_StructuralBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Plan)
		field  string
	}{
		{"width too small", func(p *Plan) { p.MatrixWidth = 1 }, "matrix width"},
		{"width too large", func(p *Plan) { p.MatrixWidth = 11 }, "matrix width"},
		{"depth zero", func(p *Plan) { p.MatrixDepth = 0 }, "matrix depth"},
		{"depth too deep", func(p *Plan) { p.MatrixDepth = 16 }, "matrix depth"},
		{"retail negative", func(p *Plan) { p.RetailPercent = -1 }, "retail percent"},
		{"rate per level mismatch", func(p *Plan) { p.MatrixLevelPercents = []float64{10, 5} }, "matrix level percents"},
		{"level rate out of range", func(p *Plan) { p.MatrixLevelPercents[3] = 101 }, "matrix level 4 percent"},
		{"matching negative", func(p *Plan) { p.MatchingPercent = -5 }, "matching percent"},
		{"matching levels negative", func(p *Plan) { p.MatchingLevels = -1 }, "matching levels"},
		{"retry count negative", func(p *Plan) { p.Payout.MaxRetries = -1 }, "payout max retries"},
		{"max delay below base", func(p *Plan) { p.Payout.MaxRetryDelay = time.Minute }, "payout retry delays"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := Default()
			tc.mutate(&plan)

			_, err := Validate(plan)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestValidate_DeepMatrixWarns(t *testing.T) {
	plan := Default()
	plan.MatrixDepth = 12
	plan.MatrixLevelPercents = []float64{10, 5, 5, 3, 3, 2, 2, 1, 1, 1, 1, 1}

	warnings, err := Validate(plan)
	require.NoError(t, err)
	assert.Len(t, warnings, 2)
}

func TestValidate_RankRules(t *testing.T) {
	t.Run("duplicate code", func(t *testing.T) {
		plan := Default()
		plan.Ranks = append(plan.Ranks, RankConfig{Code: "gold", Name: "Gold Again", Level: 6})

		_, err := Validate(plan)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicated")
	})

	t.Run("duplicate ordinal", func(t *testing.T) {
		plan := Default()
		plan.Ranks = append(plan.Ranks, RankConfig{Code: "emerald", Name: "Emerald", Level: 3})

		_, err := Validate(plan)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ordinal 3 is duplicated")
	})

	t.Run("qualified legs reference unknown rank", func(t *testing.T) {
		plan := Default()
		plan.Ranks[4].QualifiedLegs = map[string]int{"titanium": 2}

		_, err := Validate(plan)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown rank")
	})

	t.Run("negative threshold", func(t *testing.T) {
		plan := Default()
		plan.Ranks[1].TeamVolume = -1

		_, err := Validate(plan)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be negative")
	})
}
