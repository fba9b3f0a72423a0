package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
)

const DefaultChannel = "appointment-events"

// RedisPublisher is the outbound queue for activity-feed and gamification
// consumers.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Handle(ctx context.Context, ev domain.DomainEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

var (
	_ Sink = (*Logger)(nil)
	_ Sink = (*LogSink)(nil)
	_ Sink = (*RedisPublisher)(nil)
)
