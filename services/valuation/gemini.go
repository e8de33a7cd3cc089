package valuation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gearhunter/internal/gear"
	"gearhunter/logger"
	"gearhunter/pkg/errors"
)

// GeminiValuer implements Valuer against the Gemini generateContent API.
// One run makes exactly one batched call.
type GeminiValuer struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	log      *logger.Logger
}

// NewGeminiValuer creates a Gemini valuation client
func NewGeminiValuer(endpoint, model, apiKey string) *GeminiValuer {
	return &GeminiValuer{
		apiKey:   apiKey,
		model:    model,
		endpoint: strings.TrimRight(endpoint, "/"),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: logger.ForValuer(),
	}
}

// request/response shapes for the generateContent endpoint

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// estimateEntry is one element of the model's JSON array answer. The id is
// the zero-based index of the listing in the prompt.
type estimateEntry struct {
	ID         int     `json:"id"`
	EUUsedBase float64 `json:"eu_used_base"`
}

// EstimateBatch sends the whole batch in one prompt and maps the answer
// back to listing IDs by prompt index. Listings the model omits simply have
// no estimate in the result.
func (g *GeminiValuer) EstimateBatch(ctx context.Context, listings []gear.Listing) ([]gear.Estimate, error) {
	if len(listings) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildPrompt(listings)}}},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return nil, errors.NewValuationUnavailable("failed to encode request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.endpoint, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewValuationUnavailable("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errors.NewValuationUnavailable("valuation API unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.NewValuationUnavailable(
			fmt.Sprintf("valuation API status %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.NewValuationUnavailable("failed to decode response", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, errors.NewValuationUnavailable("empty valuation response", nil)
	}

	var entries []estimateEntry
	answer := parsed.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(answer), &entries); err != nil {
		return nil, errors.NewValuationUnavailable("malformed estimate array: "+answer, err)
	}

	estimates := make([]gear.Estimate, 0, len(entries))
	for _, e := range entries {
		if e.ID < 0 || e.ID >= len(listings) {
			g.log.Warn().Int("id", e.ID).Msg("Estimate references unknown prompt index, skipping")
			continue
		}
		estimates = append(estimates, gear.Estimate{
			ListingID:  listings[e.ID].ID,
			EUUsedBase: e.EUUsedBase,
		})
	}

	g.log.Debug().
		Int("listings", len(listings)).
		Int("estimates", len(estimates)).
		Msg("Batch valuation complete")

	return estimates, nil
}

// buildPrompt enumerates the batch for the model and pins the answer format
func buildPrompt(listings []gear.Listing) string {
	var b strings.Builder
	for i, l := range listings {
		fmt.Fprintf(&b, "ID: %d | Item: %s | Condition: %s | Price: %.0f EUR\n",
			i, l.Title, l.Condition, l.Price)
	}

	return fmt.Sprintf(`You are a music gear valuation expert.
For each item in the list below, estimate the EU BASE: the average price of
'Sold' listings for the same item on the global used market (Reverb/eBay),
in EUR.

Items:
%s
Return your response as a JSON array with one object per item you can price:
[{"id": 0, "eu_used_base": 800}, {"id": 1, "eu_used_base": 120}]

"id" is the item's ID from the list. Omit items you cannot price. Do not
include any other fields or text.`, b.String())
}
