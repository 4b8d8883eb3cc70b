package event

import (
	"context"
	"sizopi/infras/kafka"
	"sizopi/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	ReservationCreated   = "reservation.created"
	ReservationUpdated   = "reservation.updated"
	ReservationCancelled = "reservation.cancelled"

	FacilityCreated = "facility.created"
	FacilityUpdated = "facility.updated"
	FacilityDeleted = "facility.deleted"
)

// Envelope is the JSON body of every published domain event. ID lets
// consumers drop redeliveries.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func NewEnvelope(eventType, actor string, data any) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		Actor:      actor,
		OccurredAt: timezone.Now(),
		Data:       data,
	}
}

// Publish sends one event keyed by key so events of the same facility keep
// their order within a partition. Failures are logged and never reach the
// request that caused the event.
func Publish(ctx context.Context, client kafka.Client, topic, key string, envelope Envelope) {
	err := client.SendMessages(ctx, topic, kafka.Message{Key: key, Value: envelope})
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Str("type", envelope.Type).Msg("failed to publish event")

		return
	}

	log.Debug().Str("topic", topic).Str("type", envelope.Type).Str("key", key).Msg("event published")
}
