package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

var _ EventBus = (*RedisBus)(nil)

// RedisBus relays prefetch progress over Redis pub/sub so SSE streams work
// regardless of which process ran the worker task.
type RedisBus struct {
	client redis.Cmdable
	logger *slog.Logger
}

func NewRedisBus(client redis.Cmdable, logger *slog.Logger) *RedisBus {
	return &RedisBus{client: client, logger: logger}
}

func (b *RedisBus) Publish(ctx context.Context, jobID string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return b.client.Publish(ctx, JobChannelKey(jobID), data).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, jobID string) (<-chan Event, error) {
	client, ok := b.client.(*redis.Client)
	if !ok {
		return nil, fmt.Errorf("subscribe requires a *redis.Client")
	}

	pubSub := client.Subscribe(ctx, JobChannelKey(jobID))
	ch := make(chan Event)

	go func() {
		<-ctx.Done()
		pubSub.Close()
	}()

	go func() {
		defer close(ch)
		defer pubSub.Close()

		for msg := range pubSub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Error("Failed to unmarshal event", "error", err)
				continue
			}
			select {
			case ch <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
