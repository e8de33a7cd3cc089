package notifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"gearhunter/internal/gear"
)

// This test requires a running Redis instance
// If Redis is not available, the test will be skipped
func TestRedisNotifier(t *testing.T) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   0,
	})
	defer client.Close()

	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	notifier := NewRedisNotifier("localhost:6379", 0, "test_geardeals", 1, 100)
	defer notifier.Close()

	defer client.Del(ctx, "test_geardeals:0")

	deals := []gear.DealResult{
		{
			Listing: gear.Listing{
				ID:    "oglas-1",
				Title: "Elektron Digitakt",
				Price: 600,
				URL:   "https://example.com/ads/oglas-1",
			},
			Tier:          gear.TierDiamond,
			DiscountRatio: 0.61,
		},
	}

	err := notifier.Notify(ctx, deals)
	assert.NoError(t, err)

	messages, err := client.XRange(ctx, "test_geardeals:0", "-", "+").Result()
	assert.NoError(t, err)
	assert.Len(t, messages, 1)

	encoded, ok := messages[0].Values[string(gear.TierDiamond)].(string)
	assert.True(t, ok)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	assert.NoError(t, err)

	var published gear.DealResult
	assert.NoError(t, json.Unmarshal(decoded, &published))
	assert.Equal(t, "oglas-1", published.Listing.ID)
	assert.Equal(t, gear.TierDiamond, published.Tier)
}
