package repository

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

// EventRelayRepository forwards serialised events to Redis pub/sub so that
// processes outside this one (a waitlist worker, an audit sink) can follow
// enrollment activity.
type EventRelayRepository struct {
	client *redis.Client
}

// NewEventRelayRepository constructs the relay. A nil client disables it.
func NewEventRelayRepository(client *redis.Client) *EventRelayRepository {
	return &EventRelayRepository{client: client}
}

// Enabled reports whether a Redis client is configured.
func (r *EventRelayRepository) Enabled() bool {
	return r != nil && r.client != nil
}

// Publish sends the JSON encoded payload to the channel.
func (r *EventRelayRepository) Publish(ctx context.Context, channel string, payload interface{}) error {
	if !r.Enabled() {
		return nil
	}
	body, err := jsoniter.ConfigFastest.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal relay payload for %s: %w", channel, err)
	}
	if err := r.client.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", channel, err)
	}
	return nil
}
