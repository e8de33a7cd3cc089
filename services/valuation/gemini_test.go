package valuation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"gearhunter/internal/gear"
	"gearhunter/pkg/errors"
)

func testListings() []gear.Listing {
	return []gear.Listing{
		{ID: "oglas-1", Title: "Elektron Digitakt", Price: 700, Condition: gear.ConditionUsed},
		{ID: "oglas-2", Title: "Roland SP-404", Price: 250, Condition: gear.ConditionNew},
		{ID: "oglas-3", Title: "Unknown Custom Synth", Price: 100, Condition: gear.ConditionUsed},
	}
}

// geminiAnswer wraps an answer text in the generateContent response envelope
func geminiAnswer(t *testing.T, answer string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": answer}},
				},
			},
		},
	})
	assert.NoError(t, err)
	return body
}

func TestEstimateBatch(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req geminiRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Contents[0].Parts[0].Text
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)

		// The model omits item 2 (cannot price it)
		w.Write(geminiAnswer(t, `[{"id": 0, "eu_used_base": 800}, {"id": 1, "eu_used_base": 300}]`))
	}))
	defer server.Close()

	v := NewGeminiValuer(server.URL, "gemini-2.0-flash", "test-key")
	estimates, err := v.EstimateBatch(context.Background(), testListings())
	assert.NoError(t, err)

	assert.Contains(t, gotPrompt, "ID: 0 | Item: Elektron Digitakt | Condition: used | Price: 700 EUR")
	assert.Contains(t, gotPrompt, "ID: 2 | Item: Unknown Custom Synth")

	// Omitted listings simply have no estimate
	assert.Equal(t, []gear.Estimate{
		{ListingID: "oglas-1", EUUsedBase: 800},
		{ListingID: "oglas-2", EUUsedBase: 300},
	}, estimates)
}

func TestEstimateBatchEmptyInput(t *testing.T) {
	v := NewGeminiValuer("http://unused.invalid", "m", "k")
	estimates, err := v.EstimateBatch(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, estimates)
}

func TestEstimateBatchOutOfRangeIDsSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(geminiAnswer(t, `[{"id": 99, "eu_used_base": 800}, {"id": -1, "eu_used_base": 1}, {"id": 0, "eu_used_base": 500}]`))
	}))
	defer server.Close()

	v := NewGeminiValuer(server.URL, "m", "k")
	estimates, err := v.EstimateBatch(context.Background(), testListings())
	assert.NoError(t, err)
	assert.Equal(t, []gear.Estimate{{ListingID: "oglas-1", EUUsedBase: 500}}, estimates)
}

func TestEstimateBatchAPIErrorIsValuationUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	v := NewGeminiValuer(server.URL, "m", "k")
	_, err := v.EstimateBatch(context.Background(), testListings())
	assert.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValuationUnavailable))
}

func TestEstimateBatchMalformedAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(geminiAnswer(t, `not json at all`))
	}))
	defer server.Close()

	v := NewGeminiValuer(server.URL, "m", "k")
	_, err := v.EstimateBatch(context.Background(), testListings())
	assert.True(t, errors.IsType(err, errors.ErrorTypeValuationUnavailable))
}

func TestEstimateBatchEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	v := NewGeminiValuer(server.URL, "m", "k")
	_, err := v.EstimateBatch(context.Background(), testListings())
	assert.True(t, errors.IsType(err, errors.ErrorTypeValuationUnavailable))
}
