package modules

import (
	"context"
	"time"

	"github.com/tenantkit/tenantkit/pkg/expiry"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/stages"
	"github.com/tenantkit/tenantkit/pkg/types"
)

// ExpiringResource is one tenant object carrying an expiration timestamp,
// fed to the classification stage by the monitoring modules.
type ExpiringResource struct {
	Category   string
	Name       string
	Expiration time.Time
}

// ClassifyStage builds the stage that turns expiring resources into test
// results using the threshold option. The reference time is fixed per run so
// re-running over the same input set yields identical output.
func ClassifyStage(now time.Time) stages.Stage[ExpiringResource, types.TestResult] {
	return func(ctx context.Context, opts []*types.Option, in <-chan ExpiringResource) <-chan types.TestResult {
		out := make(chan types.TestResult)
		go func() {
			defer close(out)
			threshold := options.Int(options.ThresholdOpt.Name, opts, 30)
			for resource := range in {
				out <- types.TestResult{
					Category:  resource.Category,
					Name:      resource.Name,
					Status:    expiry.Classify(resource.Expiration, now, threshold),
					Details:   expiry.Describe(resource.Expiration, now),
					Timestamp: now,
				}
			}
		}()
		return out
	}
}
