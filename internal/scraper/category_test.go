package scraper

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gearhunter/internal/gear"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache map[string][]byte
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, &mockError{message: "cache miss"}
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

type mockError struct {
	message string
}

func (e *mockError) Error() string {
	return e.message
}

const testCategoryHTML = `
<!DOCTYPE html>
<html>
<body>
<section class="Listing_holder__x1">
	<div class="AdItem_adOuterHolder__aa1" id="ad-101">
		<a href="/muzicki-instrumenti/dj-oprema/pioneer-cdj/oglas-101">
			<div class="AdItem_name__bb2">Pioneer CDJ-2000</div>
			<div class="AdItem_price__cc3">700 €</div>
			<div class="AdItem_condition__dd4">Polovno</div>
		</a>
	</div>
	<div class="AdItem_adOuterHolder__aa1" id="ad-102">
		<a href="/muzicki-instrumenti/dj-oprema/djm-mixer/oglas-102">
			<div class="AdItem_name__bb2">Pioneer DJM-900</div>
			<div class="AdItem_price__cc3">Po dogovoru</div>
			<div class="AdItem_condition__dd4">Novo</div>
		</a>
	</div>
	<div class="AdItem_adOuterHolder__aa1" id="ad-101">
		<a href="/muzicki-instrumenti/dj-oprema/pioneer-cdj/oglas-101">
			<div class="AdItem_name__bb2">Pioneer CDJ-2000</div>
			<div class="AdItem_price__cc3">700 €</div>
			<div class="AdItem_condition__dd4">Polovno</div>
		</a>
	</div>
	<div class="AdItem_adOuterHolder__aa1">
		<a href="/muzicki-instrumenti/dj-oprema/no-name/oglas-103">
			<div class="AdItem_name__bb2"></div>
		</a>
	</div>
</section>
</body>
</html>`

func newTestScraper(url string, cacheSvc *MockCacheService) *CategoryScraper {
	return NewCategoryScraper(CategoryConfig{
		URL:       url,
		BaseURL:   "https://example.com",
		Category:  gear.CategoryDJGear,
		CacheKey:  "dj_gear_rate_limited",
		BlockTime: 300,
		Selectors: DefaultSelectors(),
	}, cacheSvc)
}

func TestCategoryScraperFetchListings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(testCategoryHTML))
	}))
	defer server.Close()

	s := newTestScraper(server.URL, NewMockCacheService())

	listings, err := s.FetchListings()
	assert.NoError(t, err)

	// Repeated promoted ad deduped by ad key, titleless ad skipped
	assert.Len(t, listings, 2)

	assert.Equal(t, "Pioneer CDJ-2000", listings[0].Title)
	assert.Equal(t, "700 €", listings[0].RawPrice)
	assert.Equal(t, "Polovno", listings[0].RawCondition)
	assert.Equal(t, "https://example.com/muzicki-instrumenti/dj-oprema/pioneer-cdj/oglas-101", listings[0].URL)
	assert.Equal(t, gear.CategoryDJGear, listings[0].Category)

	// Price-on-request ads still come through raw; normalization drops them
	assert.Equal(t, "Po dogovoru", listings[1].RawPrice)
}

func TestCategoryScraperRateLimitBlocks(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	cacheSvc := NewMockCacheService()
	s := newTestScraper(server.URL, cacheSvc)

	_, err := s.FetchListings()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")

	// Second fetch is blocked by the cache key, no request goes out
	_, err = s.FetchListings()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
	assert.Equal(t, 1, requests)
}

func TestCategoryScraperName(t *testing.T) {
	s := newTestScraper("https://example.com", NewMockCacheService())
	assert.Equal(t, "CategoryScraper(dj_gear)", s.GetName())
	assert.Equal(t, gear.CategoryDJGear, s.Category())
}

func TestAdKeyFallsBackToURLSegment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`
		<div class="AdItem_adOuterHolder__x">
			<a href="/ads/oglas-7"><div class="AdItem_name__x">A</div></a>
		</div>
		<div class="AdItem_adOuterHolder__x">
			<a href="/ads/oglas-7"><div class="AdItem_name__x">A</div></a>
		</div>`))
	}))
	defer server.Close()

	s := newTestScraper(server.URL, NewMockCacheService())
	listings, err := s.FetchListings()
	assert.NoError(t, err)
	assert.Len(t, listings, 1)
}
