package gear

import (
	"fmt"
	"math"

	"gearhunter/pkg/errors"
)

// Resolver joins listings with their valuation estimates and computes the
// Serbian market baselines for each.
type Resolver struct {
	thresholds Thresholds
}

// NewResolver creates a resolver with the given rule constants
func NewResolver(thresholds Thresholds) *Resolver {
	return &Resolver{thresholds: thresholds}
}

// Resolve matches every listing with its estimate by listing ID and derives
// the baselines. A listing with no estimate, or with a malformed estimate,
// is skipped with a per-listing error; the rest of the batch proceeds.
func (r *Resolver) Resolve(listings []Listing, estimates []Estimate) ([]ValuedListing, []*errors.GearError) {
	byID := make(map[string]Estimate, len(estimates))
	for _, e := range estimates {
		byID[e.ListingID] = e
	}

	valued := make([]ValuedListing, 0, len(listings))
	var failed []*errors.GearError

	for _, l := range listings {
		est, ok := byID[l.ID]
		if !ok {
			failed = append(failed, errors.NewMissingEstimate(l.ID))
			continue
		}
		if est.EUUsedBase < 0 || math.IsNaN(est.EUUsedBase) || math.IsInf(est.EUUsedBase, 0) {
			failed = append(failed, errors.NewInvalidEstimate(l.ID,
				fmt.Sprintf("eu_used_base must be non-negative and finite, got %v", est.EUUsedBase)))
			continue
		}

		valued = append(valued, ValuedListing{
			Listing: l,
			Baselines: Baselines{
				EUUsedBase:  est.EUUsedBase,
				RetailEquiv: est.EUUsedBase * r.thresholds.RetailMarkup,
				UsedEquiv:   est.EUUsedBase * r.thresholds.UsedMarkup,
			},
		})
	}

	return valued, failed
}
