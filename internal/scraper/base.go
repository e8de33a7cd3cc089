package scraper

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"gearhunter/helpers"
	"gearhunter/services/cache"
)

// BaseScraper provides common fetch and parse functionality for scrapers
type BaseScraper struct {
	URL       string
	BaseURL   string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
}

// fetchWithCache fetches a URL with caching and rate limiting. When the
// target rate limits us, a cache key blocks further requests for BlockTime.
func (s *BaseScraper) fetchWithCache() (io.Reader, error) {
	if s.CacheSvc != nil && s.CacheKey != "" {
		_, err := s.CacheSvc.Get(s.CacheKey)
		if err == nil {
			return nil, fmt.Errorf("%s: blocked for %d more seconds after rate limiting", s.CacheKey, int(s.BlockTime/time.Second))
		}
	}

	utf8Body, err := helpers.FetchWithRandomHeaders(s.URL)
	if err != nil {
		if s.CacheSvc != nil && s.CacheKey != "" && strings.HasPrefix(err.Error(), "rate limited") {
			s.CacheSvc.Set(s.CacheKey, []byte(fmt.Sprintf("%d", int(s.BlockTime/time.Second))), s.BlockTime)
		}
		return nil, err
	}

	return utf8Body, nil
}

// createDocument creates a goquery document from a reader
func (s *BaseScraper) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("HTML parse error: %v", err)
	}
	return doc, nil
}

// ResolveURL turns a relative marketplace link into an absolute one
func (s *BaseScraper) ResolveURL(link string) string {
	if link == "" || !strings.HasPrefix(link, "/") {
		return link
	}
	return strings.TrimRight(s.BaseURL, "/") + link
}
