package valuation

import (
	"context"

	"gearhunter/internal/gear"
)

// Valuer estimates EU used-market base prices for a batch of listings.
// Implementations may omit listings they cannot price; the resolver handles
// the gaps per listing.
type Valuer interface {
	// EstimateBatch returns one estimate per priced listing. A returned
	// error means the whole batch call failed and no listing was priced.
	EstimateBatch(ctx context.Context, listings []gear.Listing) ([]gear.Estimate, error)
}
