package scraper

import "gearhunter/internal/gear"

// Scraper interface defines the contract for category scrapers
type Scraper interface {
	// FetchListings retrieves raw ads from one marketplace category page
	FetchListings() ([]gear.RawListing, error)

	// GetName returns the scraper's name for logging and identification
	GetName() string

	// Category returns the marketplace category this scraper covers
	Category() gear.Category
}

// Selectors contains CSS selectors for the ad elements on a category page.
// The marketplace uses hashed class names, so the selectors match on class
// fragments ([class*=...]).
type Selectors struct {
	Ad        string
	Title     string
	Price     string
	Condition string
	Link      string
}

// DefaultSelectors returns the selector set for the marketplace ad cards
func DefaultSelectors() Selectors {
	return Selectors{
		Ad:        "[class*='AdItem_adOuterHolder']",
		Title:     "[class*='AdItem_name']",
		Price:     "[class*='AdItem_price']",
		Condition: "[class*='AdItem_condition']",
		Link:      "a",
	}
}

// CategoryConfig contains configuration for one category scraper
type CategoryConfig struct {
	URL       string
	BaseURL   string
	Category  gear.Category
	CacheKey  string
	BlockTime int
	Selectors Selectors
}
