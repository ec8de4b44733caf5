// Package event publishes user lifecycle events to Kafka.
package event

import (
	"context"
	"log/slog"

	"github.com/utafrali/AssistantGo/internal/domain"
	"github.com/utafrali/AssistantGo/pkg/kafka"
	"github.com/utafrali/AssistantGo/pkg/logger"
)

// Kafka topics for user lifecycle events.
const (
	TopicUserRegistered = "assistant.user.registered"
	TopicUserUpdated    = "assistant.user.updated"
	TopicUserDeleted    = "assistant.user.deleted"
)

const (
	aggregateTypeUser = "user"
	sourceService     = "assistant-service"
)

// Publisher emits domain events. Implementations must not block request
// handling beyond the publish call itself; callers treat failures as
// log-and-continue.
type Publisher interface {
	UserRegistered(ctx context.Context, user *domain.User)
	UserUpdated(ctx context.Context, user *domain.User)
	UserDeleted(ctx context.Context, userID string)
}

// KafkaPublisher publishes events via the shared Kafka producer.
type KafkaPublisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewKafkaPublisher creates a Kafka-backed event publisher.
func NewKafkaPublisher(producer *kafka.Producer, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: logger}
}

type userEventPayload struct {
	UserID string `json:"user_id"`
	Handle string `json:"handle,omitempty"`
	Email  string `json:"email,omitempty"`
}

func (p *KafkaPublisher) publish(ctx context.Context, topic, eventType, aggregateID string, payload any) {
	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateTypeUser, sourceService, payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}

	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	// Failures are logged inside the producer; the request never fails
	// because an event could not be delivered.
	_ = p.producer.Publish(ctx, topic, evt)
}

func (p *KafkaPublisher) UserRegistered(ctx context.Context, user *domain.User) {
	p.publish(ctx, TopicUserRegistered, "user.registered", user.ID.String(), userEventPayload{
		UserID: user.ID.String(),
		Handle: user.Handle,
		Email:  user.Email,
	})
}

func (p *KafkaPublisher) UserUpdated(ctx context.Context, user *domain.User) {
	p.publish(ctx, TopicUserUpdated, "user.updated", user.ID.String(), userEventPayload{
		UserID: user.ID.String(),
		Handle: user.Handle,
		Email:  user.Email,
	})
}

func (p *KafkaPublisher) UserDeleted(ctx context.Context, userID string) {
	p.publish(ctx, TopicUserDeleted, "user.deleted", userID, userEventPayload{
		UserID: userID,
	})
}

// NoopPublisher discards all events. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) UserRegistered(context.Context, *domain.User) {}
func (NoopPublisher) UserUpdated(context.Context, *domain.User)    {}
func (NoopPublisher) UserDeleted(context.Context, string)          {}
