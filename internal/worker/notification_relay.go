package worker

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/coursequiz/internal/notify"
)

// NotificationRelay forwards notifications published by CLI sessions on a
// Redis channel to a local notifier, typically the bridge hub.
type NotificationRelay struct {
	rdb     *redis.Client
	channel string
	target  notify.Notifier
	log     zerolog.Logger
}

// NewNotificationRelay creates a new NotificationRelay.
func NewNotificationRelay(rdb *redis.Client, channel string, target notify.Notifier, log zerolog.Logger) *NotificationRelay {
	return &NotificationRelay{
		rdb:     rdb,
		channel: channel,
		target:  target,
		log:     log.With().Str("component", "notification_relay").Logger(),
	}
}

// Start subscribes and relays until ctx is canceled.
func (w *NotificationRelay) Start(ctx context.Context) {
	pubsub := w.rdb.Subscribe(ctx, w.channel)
	defer pubsub.Close()

	w.log.Info().Str("channel", w.channel).Msg("NotificationRelay started")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("NotificationRelay stopped")
			return

		case msg, ok := <-ch:
			if !ok {
				w.log.Warn().Msg("Subscription channel closed")
				return
			}
			w.relay(ctx, msg.Payload)
		}
	}
}

func (w *NotificationRelay) relay(ctx context.Context, payload string) {
	n, err := notify.Decode(payload)
	if err != nil {
		w.log.Warn().Err(err).Msg("Dropping malformed notification")
		return
	}
	w.target.Notify(ctx, n)
}
