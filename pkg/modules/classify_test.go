package modules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/stages"
	"github.com/tenantkit/tenantkit/pkg/types"
)

func TestClassifyStage(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	opts := []*types.Option{options.WithDefaultValue(options.ThresholdOpt, "30")}

	resources := []ExpiringResource{
		{Category: "VPP", Name: "expired", Expiration: now.AddDate(0, 0, -1)},
		{Category: "VPP", Name: "warning", Expiration: now.AddDate(0, 0, 29)},
		{Category: "DEP", Name: "healthy", Expiration: now.AddDate(0, 0, 31)},
	}

	pipeline, err := stages.ChainStages[ExpiringResource, types.TestResult](ClassifyStage(now))
	require.NoError(t, err)

	var results []types.TestResult
	for result := range pipeline(context.Background(), opts, stages.Generator(resources)) {
		results = append(results, result)
	}

	require.Len(t, results, len(resources))
	assert.Equal(t, types.StatusFail, results[0].Status)
	assert.Equal(t, types.StatusWarning, results[1].Status)
	assert.Equal(t, types.StatusPass, results[2].Status)

	// classification carries the run timestamp, not the wall clock
	for _, result := range results {
		assert.Equal(t, now, result.Timestamp)
	}
}

func TestClassifyStageIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	opts := []*types.Option{options.WithDefaultValue(options.ThresholdOpt, "14")}

	resources := []ExpiringResource{
		{Category: "MDM", Name: "push cert", Expiration: now.AddDate(0, 0, 14)},
	}

	run := func() []types.TestResult {
		var results []types.TestResult
		stage := ClassifyStage(now)
		for result := range stage(context.Background(), opts, stages.Generator(resources)) {
			results = append(results, result)
		}
		return results
	}

	assert.Equal(t, run(), run())
}
