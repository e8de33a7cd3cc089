package gear

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gearhunter/pkg/errors"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(117.4, 5000)
}

func TestNormalizeListing(t *testing.T) {
	n := newTestNormalizer()

	raw := RawListing{
		Title:        "  Elektron  Digitakt II ",
		RawPrice:     "850 €",
		RawCondition: "Polovno",
		URL:          "https://example.com/muzicki-instrumenti/moduli-i-sempleri/elektron-digitakt/oglas-12345",
		Category:     CategoryModulesSamplers,
	}

	l, err := n.Normalize(raw)
	assert.NoError(t, err)
	assert.Equal(t, "oglas-12345", l.ID)
	assert.Equal(t, "Elektron Digitakt II", l.Title)
	assert.Equal(t, 850.0, l.Price)
	assert.Equal(t, ConditionUsed, l.Condition)
	assert.Equal(t, CategoryModulesSamplers, l.Category)
	assert.Equal(t, raw.URL, l.URL)
}

func TestNormalizeIsDeterministic(t *testing.T) {
	n := newTestNormalizer()
	raw := RawListing{
		Title:        "Roland SP-404",
		RawPrice:     "300 €",
		RawCondition: "Novo",
		URL:          "https://example.com/ads/sp404",
		Category:     CategoryModulesSamplers,
	}

	first, err := n.Normalize(raw)
	assert.NoError(t, err)
	second, err := n.Normalize(raw)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParsePriceDinars(t *testing.T) {
	n := newTestNormalizer()

	// Explicit dinar marker
	price, err := n.parsePrice("id", "11.740 din")
	assert.NoError(t, err)
	assert.Equal(t, 100.0, price)

	// Magnitude implies dinars even without a marker
	price, err = n.parsePrice("id", "58.700")
	assert.NoError(t, err)
	assert.Equal(t, 500.0, price)

	// Plain euro price stays as is
	price, err = n.parsePrice("id", "1.200 €")
	assert.NoError(t, err)
	assert.Equal(t, 1200.0, price)
}

func TestParsePriceZeroIsValid(t *testing.T) {
	n := newTestNormalizer()
	price, err := n.parsePrice("id", "0 €")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, price)
}

func TestParsePriceErrors(t *testing.T) {
	n := newTestNormalizer()

	_, err := n.parsePrice("id", "Po dogovoru")
	assert.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypePriceParse))

	_, err = n.parsePrice("id", "kontakt")
	assert.True(t, errors.IsType(err, errors.ErrorTypePriceParse))

	_, err = n.parsePrice("id", "")
	assert.True(t, errors.IsType(err, errors.ErrorTypePriceParse))
}

func TestNormalizeConditionVocabulary(t *testing.T) {
	cases := map[string]Condition{
		"Novo":        ConditionNew,
		"novo":        ConditionNew,
		"NEKORIŠĆENO": ConditionNew,
		"Polovno":     ConditionUsed,
		"  used  ":    ConditionUsed,
		"Korišćeno":   ConditionUsed,
	}

	for raw, want := range cases {
		got, err := normalizeCondition("id", raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestNormalizeConditionUnknownIsHardError(t *testing.T) {
	// No guessing, no default to used
	for _, raw := range []string{"", "oštećeno", "demo unit", "kao novo"} {
		_, err := normalizeCondition("id", raw)
		assert.Error(t, err, raw)
		assert.True(t, errors.IsType(err, errors.ErrorTypeUnknownCondition), raw)
	}
}

func TestListingID(t *testing.T) {
	// Same URL always yields the same ID
	assert.Equal(t,
		ListingID("https://example.com/a/b/oglas-9"),
		ListingID("https://example.com/a/b/oglas-9"))

	// Query strings do not leak into the ID
	assert.Equal(t, "oglas-9", ListingID("https://example.com/a/b/oglas-9?ref=home"))

	// URL without a path falls back to the URL itself
	assert.Equal(t, "https://example.com", ListingID("https://example.com"))
}
