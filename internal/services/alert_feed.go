package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/adityavermaa/sahayata-backend/internal/database"
	"github.com/adityavermaa/sahayata-backend/internal/models"
)

// AlertFeedChannel is the Redis Pub/Sub channel carrying newly created
// alerts, so every instance fans the same alerts out to its local
// WebSocket clients.
const AlertFeedChannel = "alerts:feed"

// alertHub is the in-process registry of live feed subscriptions.
type alertHub struct {
	mu   sync.RWMutex
	subs map[int]chan models.Alert
	next int
}

var (
	feedHub     = &alertHub{subs: make(map[int]chan models.Alert)}
	feedStarted sync.Once
)

// SubscribeAlertFeed registers a local feed subscription. The returned
// channel receives every alert published on this instance or over Redis;
// call the returned func to unsubscribe.
func SubscribeAlertFeed() (<-chan models.Alert, func()) {
	feedHub.mu.Lock()
	id := feedHub.next
	feedHub.next++
	ch := make(chan models.Alert, 8)
	feedHub.subs[id] = ch
	feedHub.mu.Unlock()

	return ch, func() {
		feedHub.mu.Lock()
		if sub, ok := feedHub.subs[id]; ok {
			delete(feedHub.subs, id)
			close(sub)
		}
		feedHub.mu.Unlock()
	}
}

// fanOutAlert delivers an alert to all local subscriptions. Slow clients are
// skipped rather than blocking the feed.
func fanOutAlert(alert models.Alert) {
	feedHub.mu.RLock()
	defer feedHub.mu.RUnlock()

	for _, ch := range feedHub.subs {
		select {
		case ch <- alert:
		default:
		}
	}
}

// PublishAlert publishes a newly created alert to the Redis feed channel.
func PublishAlert(ctx context.Context, alert models.Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return database.RedisClient.Publish(ctx, AlertFeedChannel, data).Err()
}

// StartAlertFeedSubscriber ensures a single shared Redis listener per
// instance.
func StartAlertFeedSubscriber(ctx context.Context) {
	feedStarted.Do(func() {
		go runAlertFeedSubscriber(ctx)
	})
}

func runAlertFeedSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		slog.Warn("Redis client not initialized; alert feed subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.Subscribe(ctx, AlertFeedChannel)
			defer pubsub.Close()

			slog.Info("alert feed subscriber started", "channel", AlertFeedChannel)

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					slog.Warn("alert feed subscriber error", "error", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var alert models.Alert
				if err := json.Unmarshal([]byte(msg.Payload), &alert); err != nil {
					slog.Warn("failed to unmarshal alert feed event", "error", err)
					continue
				}

				fanOutAlert(alert)
			}
		}()
	}
}
