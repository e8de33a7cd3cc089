package gear

import (
	"gearhunter/pkg/errors"
)

// Classifier applies the deal rules to a valued listing. Classification is
// a pure function of (price, condition, baselines) and the injected
// thresholds: no hidden state, no run-to-run memory.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a classifier with the given rule constants
func NewClassifier(thresholds Thresholds) *Classifier {
	return &Classifier{thresholds: thresholds}
}

// Classify assigns a tier to one valued listing.
//
// NEW items are a deal below NewDealRatio of the Serbian retail equivalent;
// USED items below UsedDealRatio of the Serbian used equivalent. A deal
// additionally priced below the raw EU used base is a diamond. A zero
// baseline cannot be classified and yields a degenerate baseline error
// rather than flagging every free-priced listing.
func (c *Classifier) Classify(v ValuedListing) (DealResult, error) {
	var threshold float64
	switch v.Listing.Condition {
	case ConditionNew:
		threshold = v.Baselines.RetailEquiv * c.thresholds.NewDealRatio
	case ConditionUsed:
		threshold = v.Baselines.UsedEquiv * c.thresholds.UsedDealRatio
	default:
		return DealResult{}, errors.NewUnknownCondition(v.Listing.ID,
			"unclassifiable condition: "+string(v.Listing.Condition))
	}

	if threshold == 0 {
		return DealResult{}, errors.NewDegenerateBaseline(v.Listing.ID)
	}

	result := DealResult{
		Listing:       v.Listing,
		Tier:          TierNone,
		DiscountRatio: v.Listing.Price / threshold,
	}

	if v.Listing.Price < threshold {
		result.Tier = TierDeal
		if v.Listing.Price < v.Baselines.EUUsedBase {
			result.Tier = TierDiamond
		}
	}

	return result, nil
}
