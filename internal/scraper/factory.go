package scraper

import (
	"fmt"
	"strings"

	"gearhunter/config"
	"gearhunter/internal/gear"
	"gearhunter/services/cache"
)

// searchQuery narrows the category search to today's ads priced in EUR
const searchQuery = "categoryId=22&groupId=791&currency=eur&period=today"

// CreateScrapers builds the three category scrapers from the configuration
func CreateScrapers(cfg *config.Config, cacheSvc cache.CacheService) []Scraper {
	base := strings.TrimRight(cfg.MarketplaceBaseURL, "/")
	blockTime := int(cfg.ScrapeBlockTime.Seconds())

	categories := []struct {
		slug     string
		category gear.Category
	}{
		{cfg.ModulesSlug, gear.CategoryModulesSamplers},
		{cfg.DJGearSlug, gear.CategoryDJGear},
		{cfg.KeyboardsSlug, gear.CategoryKeyboards},
	}

	scrapers := make([]Scraper, 0, len(categories))
	for _, c := range categories {
		scrapers = append(scrapers, NewCategoryScraper(CategoryConfig{
			URL:       fmt.Sprintf("%s/muzicki-instrumenti/%s/pretraga?%s", base, c.slug, searchQuery),
			BaseURL:   base,
			Category:  c.category,
			CacheKey:  string(c.category) + "_rate_limited",
			BlockTime: blockTime,
			Selectors: DefaultSelectors(),
		}, cacheSvc))
	}

	return scrapers
}
