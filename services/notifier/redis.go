package notifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"math/rand/v2"

	"github.com/redis/go-redis/v9"

	"gearhunter/internal/gear"
	"gearhunter/pkg/errors"
)

// RedisNotifier publishes flagged deals to Redis streams so consumers other
// than the Telegram channel can subscribe to the run output.
type RedisNotifier struct {
	client          *redis.Client
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// NewRedisNotifier creates a new Redis notifier
func NewRedisNotifier(addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisNotifier{
		client:          client,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// Notify publishes each deal as base64-encoded JSON to one of the sharded
// streams, then trims the streams to the configured maximum length.
func (p *RedisNotifier) Notify(ctx context.Context, deals []gear.DealResult) error {
	for _, deal := range deals {
		data, err := json.Marshal(deal)
		if err != nil {
			return errors.NewNotify("failed to encode deal", err)
		}
		if err := p.publish(ctx, string(deal.Tier), data); err != nil {
			return errors.NewNotify("failed to publish deal", err)
		}
	}

	if err := p.trimStreams(ctx); err != nil {
		return errors.NewNotify("failed to trim streams", err)
	}
	return nil
}

// publish appends one message to a random shard. With streamCount 10 the
// stream names run stream:0 through stream:9.
func (p *RedisNotifier) publish(ctx context.Context, key string, message []byte) error {
	encodedMessage := base64.StdEncoding.EncodeToString(message)
	stream := p.streamPrefix + ":" + strconv.Itoa(rand.IntN(p.streamCount))

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			key: encodedMessage,
		},
	}).Err()
}

// trimStreams trims all shards to the configured maximum length
func (p *RedisNotifier) trimStreams(ctx context.Context) error {
	pattern := p.streamPrefix + ":*"
	streams, err := p.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	for _, stream := range streams {
		if err := p.client.XTrimMaxLen(ctx, stream, int64(p.streamMaxLength)).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the Redis connection
func (p *RedisNotifier) Close() error {
	return p.client.Close()
}
