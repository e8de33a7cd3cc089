package gear

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"gearhunter/pkg/errors"
)

// conditionVocab maps marketplace condition labels to normalized conditions.
// Anything outside this vocabulary is a hard error, never a silent default.
var conditionVocab = map[string]Condition{
	"novo":        ConditionNew,
	"nekorišćeno": ConditionNew,
	"nekorisceno": ConditionNew,
	"new":         ConditionNew,
	"polovno":     ConditionUsed,
	"korišćeno":   ConditionUsed,
	"korisceno":   ConditionUsed,
	"used":        ConditionUsed,
}

// Normalizer transforms raw scraped ads into Listings
type Normalizer struct {
	rsdPerEUR   float64
	dinarCutoff float64
}

// NewNormalizer creates a normalizer. rsdPerEUR is the dinar conversion rate;
// dinarCutoff is the magnitude above which a bare number is assumed to be
// dinars even without a "din" marker.
func NewNormalizer(rsdPerEUR, dinarCutoff float64) *Normalizer {
	return &Normalizer{
		rsdPerEUR:   rsdPerEUR,
		dinarCutoff: dinarCutoff,
	}
}

// Normalize converts a raw ad into a Listing. It is a pure transformation:
// the same input always yields the same Listing, including its ID.
func (n *Normalizer) Normalize(raw RawListing) (Listing, error) {
	id := ListingID(raw.URL)

	price, err := n.parsePrice(id, raw.RawPrice)
	if err != nil {
		return Listing{}, err
	}

	condition, err := normalizeCondition(id, raw.RawCondition)
	if err != nil {
		return Listing{}, err
	}

	return Listing{
		ID:        id,
		Title:     normalizeText(raw.Title),
		Price:     price,
		Condition: condition,
		Category:  raw.Category,
		URL:       raw.URL,
	}, nil
}

// parsePrice extracts a numeric EUR price from marketplace price text.
// "po dogovoru" ads carry no price and are unparseable. Prices tagged with
// "din", or large enough that they can only be dinars, are converted to EUR
// and rounded to the whole euro.
func (n *Normalizer) parsePrice(listingID, raw string) (float64, error) {
	lowered := strings.ToLower(raw)
	if strings.TrimSpace(raw) == "" || strings.Contains(lowered, "dogovor") {
		return 0, errors.NewPriceParse(listingID, "no numeric price: "+strings.TrimSpace(raw))
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, errors.NewPriceParse(listingID, "no numeric token in price text: "+raw)
	}

	val, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil || val < 0 {
		return 0, errors.NewPriceParse(listingID, "invalid price value: "+digits.String())
	}

	if strings.Contains(lowered, "din") || val > n.dinarCutoff {
		val = math.Round(val / n.rsdPerEUR)
	}

	return val, nil
}

// normalizeCondition maps condition text through the controlled vocabulary
func normalizeCondition(listingID, raw string) (Condition, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := conditionVocab[key]; ok {
		return c, nil
	}
	return "", errors.NewUnknownCondition(listingID, "condition text not in vocabulary: "+raw)
}

// ListingID derives a stable identifier from a listing URL so the same
// listing yields the same ID across runs. The last path segment is the
// marketplace ad slug; when the URL has no usable path the URL itself is
// the identifier.
func ListingID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return rawURL
	}
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

// normalizeText collapses internal whitespace and trims the ends
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
