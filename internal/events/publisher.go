package events

import (
	"context"
	"innkeep/config"
	"innkeep/infras/kafka"
	"innkeep/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	BookingCreated    = "booking.created"
	BookingCheckedIn  = "booking.checked_in"
	BookingCheckedOut = "booking.checked_out"
	BookingCancelled  = "booking.cancelled"
	RoomBlocked       = "room.blocked"
	RoomUnblocked     = "room.unblocked"
)

// Event is a lifecycle notification emitted after a state transition has been
// committed. Delivery is best effort and never fails the originating request.
type Event struct {
	Name       string    `json:"name"`
	EntityID   string    `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, name, entityID string, payload any)
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
}

func New(cfg *config.Config, client kafka.Client) Publisher {
	if !cfg.Events.Enable {
		log.Info().Msg("Lifecycle events disabled, using noop publisher")

		return NewNoop()
	}

	return &kafkaPublisher{
		client: client,
		topic:  cfg.Events.Topic,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, name, entityID string, payload any) {
	event := Event{
		Name:       name,
		EntityID:   entityID,
		OccurredAt: timezone.Now(),
		Payload:    payload,
	}

	go func() {
		c := context.WithoutCancel(ctx)

		err := p.client.SendMessages(c, p.topic, kafka.Message{
			Key:   entityID,
			Value: event,
		})
		if err != nil {
			log.Error().Err(err).Str("event", name).Str("entityID", entityID).Msg("failed to publish lifecycle event")
		}
	}()
}

type noopPublisher struct{}

func NewNoop() Publisher {
	return &noopPublisher{}
}

func (p *noopPublisher) Publish(_ context.Context, _, _ string, _ any) {
}
