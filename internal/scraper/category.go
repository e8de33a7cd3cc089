package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"gearhunter/helpers"
	"gearhunter/internal/gear"
	"gearhunter/services/cache"
)

// CategoryScraper scrapes one marketplace category search page
type CategoryScraper struct {
	BaseScraper
	category  gear.Category
	selectors Selectors
}

// NewCategoryScraper creates a scraper for one category
func NewCategoryScraper(config CategoryConfig, cacheSvc cache.CacheService) *CategoryScraper {
	return &CategoryScraper{
		BaseScraper: BaseScraper{
			URL:       config.URL,
			BaseURL:   config.BaseURL,
			CacheKey:  config.CacheKey,
			CacheSvc:  cacheSvc,
			BlockTime: time.Duration(config.BlockTime) * time.Second,
		},
		category:  config.Category,
		selectors: config.Selectors,
	}
}

// GetName returns the scraper name
func (c *CategoryScraper) GetName() string {
	return "CategoryScraper(" + string(c.category) + ")"
}

// Category returns the category this scraper covers
func (c *CategoryScraper) Category() gear.Category {
	return c.category
}

// FetchListings fetches the category page and extracts raw ads. Ads already
// seen in this fetch (the page repeats promoted ads) are skipped by ad key.
func (c *CategoryScraper) FetchListings() ([]gear.RawListing, error) {
	utf8Body, err := c.fetchWithCache()
	if err != nil {
		return nil, err
	}

	doc, err := c.createDocument(utf8Body)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var listings []gear.RawListing

	doc.Find(c.selectors.Ad).Each(func(i int, s *goquery.Selection) {
		raw, ok := c.processAd(s)
		if !ok {
			return
		}

		key := adKey(s, raw.URL)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}

		listings = append(listings, raw)
	})

	return listings, nil
}

// processAd extracts one raw listing from an ad card selection
func (c *CategoryScraper) processAd(s *goquery.Selection) (gear.RawListing, bool) {
	title := strings.TrimSpace(s.Find(c.selectors.Title).Text())
	if title == "" {
		return gear.RawListing{}, false
	}

	linkSel := s.Find(c.selectors.Link)
	link, exists := linkSel.Attr("href")
	if !exists || strings.TrimSpace(link) == "" {
		return gear.RawListing{}, false
	}
	link = c.ResolveURL(strings.TrimSpace(link))

	return gear.RawListing{
		Title:        title,
		RawPrice:     strings.TrimSpace(s.Find(c.selectors.Price).Text()),
		RawCondition: strings.TrimSpace(s.Find(c.selectors.Condition).Text()),
		URL:          link,
		Category:     c.category,
	}, true
}

// adKey identifies an ad within one fetch: the DOM id attribute when the
// page provides one, otherwise the last segment of the ad URL
func adKey(s *goquery.Selection, link string) string {
	if id, exists := s.Attr("id"); exists && id != "" {
		return id
	}

	path := strings.Trim(link, "/")
	if part, err := helpers.GetSplitPart(path, "/", strings.Count(path, "/")); err == nil && part != "" {
		return part
	}
	return link
}
