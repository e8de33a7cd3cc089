package gear

// Condition is the normalized condition of a listed item
type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

// Category identifies one of the scraped marketplace categories
type Category string

const (
	CategoryModulesSamplers Category = "modules_samplers"
	CategoryDJGear          Category = "dj_gear"
	CategoryKeyboards       Category = "keyboards"
)

// Tier is the classification outcome for a listing
type Tier string

const (
	TierNone    Tier = "none"
	TierDeal    Tier = "deal"
	TierDiamond Tier = "diamond"
)

// RawListing is one scraped ad before normalization
type RawListing struct {
	Title        string   `json:"title"`
	RawPrice     string   `json:"raw_price"`
	RawCondition string   `json:"raw_condition"`
	URL          string   `json:"url"`
	Category     Category `json:"category"`
}

// Listing is a normalized gear ad. Immutable once constructed,
// discarded at the end of the run.
type Listing struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Condition Condition `json:"condition"`
	Category  Category  `json:"category"`
	URL       string    `json:"url"`
}

// Estimate is the valuation output for one listing: the estimated
// EU used-market average price, in the same currency unit as Listing.Price.
type Estimate struct {
	ListingID  string  `json:"listing_id"`
	EUUsedBase float64 `json:"eu_used_base"`
}

// Baselines are the market baselines derived from an estimate
type Baselines struct {
	EUUsedBase  float64 `json:"eu_used_base"`
	RetailEquiv float64 `json:"retail_equiv"`
	UsedEquiv   float64 `json:"used_equiv"`
}

// ValuedListing pairs a listing with its resolved baselines
type ValuedListing struct {
	Listing   Listing   `json:"listing"`
	Baselines Baselines `json:"baselines"`
}

// DealResult is the classification outcome for one listing.
// DiscountRatio is price over the applied threshold; lower is a better deal.
// It is used only for ranking, never for tier decisions.
type DealResult struct {
	Listing       Listing `json:"listing"`
	Tier          Tier    `json:"tier"`
	DiscountRatio float64 `json:"discount_ratio"`
}

// Thresholds holds the classification constants. They are injected at
// construction so rule changes are auditable independently of the logic.
type Thresholds struct {
	RetailMarkup  float64 // Serbian new-retail markup over the EU used base
	UsedMarkup    float64 // Serbian used-market markup over the EU used base
	NewDealRatio  float64 // deal cutoff as a fraction of the retail equivalent
	UsedDealRatio float64 // deal cutoff as a fraction of the used equivalent
}

// DefaultThresholds returns the stock rule constants
func DefaultThresholds() Thresholds {
	return Thresholds{
		RetailMarkup:  1.25,
		UsedMarkup:    1.15,
		NewDealRatio:  0.75,
		UsedDealRatio: 0.85,
	}
}
