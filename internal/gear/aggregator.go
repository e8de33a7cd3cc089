package gear

import "sort"

// tierRank orders tiers for reporting, best first
var tierRank = map[Tier]int{
	TierDiamond: 0,
	TierDeal:    1,
	TierNone:    2,
}

// Aggregate collects classification results across categories into the
// report order: NONE results are dropped, duplicate listing IDs are
// deduplicated (first occurrence wins, later ones dropped, not merged),
// and the rest sorted by tier (diamonds first) then ascending discount
// ratio. The sort is stable, so equal entries keep category-scan order
// and the output is deterministic for a deterministic input order.
func Aggregate(results []DealResult) []DealResult {
	seen := make(map[string]struct{}, len(results))
	flagged := make([]DealResult, 0, len(results))

	for _, r := range results {
		if r.Tier == TierNone {
			continue
		}
		if _, dup := seen[r.Listing.ID]; dup {
			continue
		}
		seen[r.Listing.ID] = struct{}{}
		flagged = append(flagged, r)
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		if tierRank[flagged[i].Tier] != tierRank[flagged[j].Tier] {
			return tierRank[flagged[i].Tier] < tierRank[flagged[j].Tier]
		}
		return flagged[i].DiscountRatio < flagged[j].DiscountRatio
	})

	return flagged
}
