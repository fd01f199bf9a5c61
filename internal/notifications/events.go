// Package notifications publishes social events to subscribers outside the request path.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"socialfeed/internal/middleware"
	"socialfeed/internal/observability"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event types emitted after successful mutations.
const (
	EventPostCreated    = "post_created"
	EventPostLiked      = "post_liked"
	EventUserFollowed   = "user_followed"
	EventCommentCreated = "comment_created"
)

// Event is the payload delivered to subscribers. Events with a TargetUserID go
// to that user; the rest are broadcast.
type Event struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	ActorID      uint      `json:"actor_id"`
	TargetUserID uint      `json:"target_user_id,omitempty"`
	PostID       uint      `json:"post_id,omitempty"`
	CommentID    uint      `json:"comment_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewEvent stamps a new event with a unique id and the current time.
func NewEvent(eventType string, actorID uint) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	}
}

// Publisher delivers events to a message backend.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Backend() string
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Backend() string                      { return "none" }
func (NoopPublisher) Close() error                         { return nil }

// Emit publishes event and only logs and counts a failure. Delivery never
// affects the outcome of the mutation that produced the event.
func Emit(ctx context.Context, p Publisher, event Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		observability.EventPublishFailures.WithLabelValues(p.Backend(), event.Type).Inc()
		middleware.Logger.WarnContext(ctx, "Failed to publish event",
			slog.String("backend", p.Backend()),
			slog.String("event", event.Type),
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
	}
}

// NewPublisher builds the publisher for backend ("redis", "amqp" or "none").
// A redis backend without a client publishes nothing.
func NewPublisher(backend string, rdb *redis.Client, amqpURL string) (Publisher, error) {
	switch backend {
	case "", "none":
		return NoopPublisher{}, nil
	case "redis":
		if rdb == nil {
			return NoopPublisher{}, nil
		}
		return NewNotifier(rdb), nil
	case "amqp":
		p, err := NewAMQPPublisher(amqpURL)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", backend)
	}
}
