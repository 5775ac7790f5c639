package notify

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisPublisher publishes notifications on a Redis channel so that a
// bridge process can forward them to a browser.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	log     zerolog.Logger
}

// NewRedisPublisher creates a RedisPublisher for channel.
func NewRedisPublisher(rdb *redis.Client, channel string, log zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{
		rdb:     rdb,
		channel: channel,
		log:     log.With().Str("component", "notify_redis").Logger(),
	}
}

// Notify publishes n. Failures are logged; a lost toast is not worth
// failing the user's action over.
func (p *RedisPublisher) Notify(ctx context.Context, n Notification) {
	raw, err := json.Marshal(n)
	if err != nil {
		p.log.Error().Err(err).Msg("Marshal notification failed")
		return
	}
	if err := p.rdb.Publish(ctx, p.channel, raw).Err(); err != nil {
		p.log.Warn().Err(err).Str("channel", p.channel).Msg("Publish notification failed")
	}
}

// Decode parses a notification published by RedisPublisher.
func Decode(payload string) (Notification, error) {
	var n Notification
	err := json.Unmarshal([]byte(payload), &n)
	return n, err
}
