package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/mike2377/gestion-stage-sub000/internal/workflow"
)

// LogNotifier records the decision to notify in the structured log. It is
// the default sink when no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) TransitionOccurred(ctx context.Context, event workflow.Event) {
	n.logger.InfoContext(ctx, "transition occurred",
		"entity_kind", string(event.EntityKind),
		"entity_id", event.EntityID.String(),
		"from", event.FromStatus,
		"to", event.ToStatus,
		"actor_id", event.ActorID.String(),
		"actor_role", string(event.ActorRole),
	)
}

// RedisNotifier publishes transition events for external consumers (mail,
// SMS, UI toasts). Delivery is entirely their problem; publish failures
// are logged and dropped, never surfaced to the transition caller.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisNotifier(client *redis.Client, channel string, logger *slog.Logger) *RedisNotifier {
	if channel == "" {
		channel = "transitions"
	}
	return &RedisNotifier{client: client, channel: channel, logger: logger}
}

func (n *RedisNotifier) TransitionOccurred(ctx context.Context, event workflow.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to encode transition event", "error", err)
		return
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		n.logger.ErrorContext(ctx, "failed to publish transition event", "error", err)
	}
}

// Fanout forwards each event to every sink in order.
type Fanout []workflow.Notifier

func (f Fanout) TransitionOccurred(ctx context.Context, event workflow.Event) {
	for _, sink := range f {
		sink.TransitionOccurred(ctx, event)
	}
}
